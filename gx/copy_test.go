package gx

import "testing"

func TestCopyDisp(t *testing.T) {
	d, buf := newTestDevice(t)
	d.CopyDisp(0x00200000, true)

	// Z mode from the defaults: enable, LEQUAL, update
	zmode := uint32(1 | 3<<1 | 1<<4)
	// blend off, dither, color and alpha update, src alpha / inv src alpha
	cmode0 := uint32(1<<2 | 1<<3 | 1<<4 | 5<<5 | 4<<8)
	expectBytes(t, buf.Bytes(), concat(
		bp(0x49, 0),
		bp(0x4a, 639|479<<10),
		bp(0x4d, 640*2>>5),
		bp(0x4b, 0x00200000>>5),
		bp(0x40, zmode&^0xf|0xf),
		bp(0x41, cmode0&^3),
		bp(0x52, 3|1<<11|1<<14),
		bp(0x40, zmode),
		bp(0x41, cmode0),
	))

	buf.Reset()
	d.CopyDisp(0x00200000, false)
	expectBytes(t, buf.Bytes(), concat(
		bp(0x49, 0),
		bp(0x4a, 639|479<<10),
		bp(0x4d, 640*2>>5),
		bp(0x4b, 0x00200000>>5),
		bp(0x52, 3|1<<14),
	))

	expectPanic(t, "misaligned frame buffer", func() { d.CopyDisp(0x00200010, false) })
}

func TestDispCopyYScale(t *testing.T) {
	d, buf := newTestDevice(t, WithRenderMode(RENDER_MODE_PAL_528I))
	lines := d.SetDispCopyYScale(float32(574) / 528)
	// 256/1.087 truncates to 235, one line more than the XFB height
	if lines != 575 {
		t.Errorf("scaled copy has %d lines, want 575", lines)
	}
	// the scale register waits for the copy
	if buf.Len() != 0 {
		t.Errorf("SetDispCopyYScale wrote % x", buf.Bytes())
	}
	d.CopyDisp(0x00200000, false)

	pkts, err := DecodeAll(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	var scale, cntrl uint32
	for _, pkt := range pkts {
		switch BPReg(pkt.Reg) {
		case BP_PE_COPY_SCALE:
			scale = pkt.Value
		case BP_PE_COPY_EXECUTE:
			cntrl = pkt.Value
		}
	}
	if scale != 235 || cntrl&(1<<10) == 0 {
		t.Errorf("Y scale 0x%x, control 0x%x", scale, cntrl)
	}
}

func TestNumXfbLines(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(numXfbLines(480, 256) == 480)
	assert(numXfbLines(240, 128) == 479)
	assert(numXfbLines(528, 0) == 528)
	assert(numXfbLines(600, 128) == 1024)
	// 192 = 3 << 6 and 3 divides 480
	assert(numXfbLines(480, 192) == 639+1)
}

func TestCopyFilterDefaults(t *testing.T) {
	d, buf := newTestDevice(t)
	d.SetCopyFilter(false, [12][2]uint8{}, false, [7]uint8{})
	expectBytes(t, buf.Bytes(), []byte{
		0x61, 0x01, 0x66, 0x66, 0x66,
		0x61, 0x02, 0x66, 0x66, 0x66,
		0x61, 0x03, 0x66, 0x66, 0x66,
		0x61, 0x04, 0x66, 0x66, 0x66,
		0x61, 0x53, 0x59, 0x50, 0x00,
		0x61, 0x54, 0x00, 0x00, 0x15,
	})

	buf.Reset()
	var pattern [12][2]uint8
	for i := range pattern {
		pattern[i] = [2]uint8{uint8(i), 15 - uint8(i)}
	}
	d.SetCopyFilter(true, pattern, true, [7]uint8{0, 0, 21, 22, 21, 0, 0})
	pkts, err := DecodeAll(buf.Bytes())
	if err != nil {
		t.Fatal(err)
	}
	// samples 0-2: x 0,1,2 and y 15,14,13
	if pkts[0].Value != 0x0|0xf<<4|0x1<<8|0xe<<12|0x2<<16|0xd<<20 {
		t.Errorf("sample register 0 = 0x%06x", pkts[0].Value)
	}
	if pkts[4].Value != 21<<12|22<<18 || pkts[5].Value != 21 {
		t.Errorf("vertical filter 0x%06x 0x%06x", pkts[4].Value, pkts[5].Value)
	}
}
