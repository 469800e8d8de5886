package gx

import (
	"bytes"
	"errors"
	"testing"
)

type regLoadTest struct {
	Desc  string
	Emit  func(p *Pipe)
	Bytes []byte
}

var regLoadTests = []regLoadTest{
	{
		Desc:  "BP load",
		Emit:  func(p *Pipe) { BP_PE_CLEAR_Z.Load(p, 0x123456) },
		Bytes: []byte{0x61, 0x51, 0x12, 0x34, 0x56},
	},
	{
		Desc:  "BP load of the largest value",
		Emit:  func(p *Pipe) { BP_GEN_MODE.Load(p, 0xffffff) },
		Bytes: []byte{0x61, 0x00, 0xff, 0xff, 0xff},
	},
	{
		Desc:  "CP load",
		Emit:  func(p *Pipe) { CP_VAT_A0.Load(p, 0x40000009) },
		Bytes: []byte{0x08, 0x70, 0x40, 0x00, 0x00, 0x09},
	},
	{
		Desc:  "single XF load has a length field of 0",
		Emit:  func(p *Pipe) { XF_NUMCOLORS.Load(p, 1) },
		Bytes: []byte{0x10, 0x00, 0x00, 0x10, 0x09, 0x00, 0x00, 0x00, 0x01},
	},
	{
		Desc: "multi XF load has a length field of n-1",
		Emit: func(p *Pipe) { XF_AMBIENT0.LoadMulti(p, 2, []uint32{0xaabbccdd, 0x11223344}) },
		Bytes: []byte{
			0x10, 0x00, 0x01, 0x10, 0x0a,
			0xaa, 0xbb, 0xcc, 0xdd,
			0x11, 0x22, 0x33, 0x44,
		},
	},
	{
		Desc:  "XF float load",
		Emit:  func(p *Pipe) { XF_POSMTX_BASE.LoadFloats(p, 1, -2) },
		Bytes: []byte{0x10, 0x00, 0x01, 0x00, 0x00, 0x3f, 0x80, 0x00, 0x00, 0xc0, 0x00, 0x00, 0x00},
	},
}

func TestRegisterLoads(t *testing.T) {
	for idx, test := range regLoadTests {
		t.Logf("running test %d: %s", idx+1, test.Desc)

		buf := &bytes.Buffer{}
		p := NewPipe(buf)
		test.Emit(p)
		expectBytes(t, buf.Bytes(), test.Bytes)
		if p.Len() != int64(len(test.Bytes)) {
			t.Errorf("%s: pipe counted %d bytes, want %d", test.Desc, p.Len(), len(test.Bytes))
		}
	}
}

func TestRegisterLoadContracts(t *testing.T) {
	p := NewPipe(&bytes.Buffer{})
	expectPanic(t, "BP value over 24 bits", func() { BP_GEN_MODE.Load(p, 0x1000000) })
	expectPanic(t, "XF length mismatch", func() { XF_VIEWPORT.LoadMulti(p, 6, []uint32{1, 2, 3}) })
	expectPanic(t, "XF empty load", func() { XF_VIEWPORT.LoadMulti(p, 0, nil) })
}

func TestRegisterNames(t *testing.T) {
	names := []struct {
		Got  string
		Want string
	}{
		{BP_PE_CLEAR_AR.String(), "PE_CLEAR_AR"},
		{BPReg(0xc3).String(), "TEV_ALPHA_ENV1"},
		{BPReg(0xe2).String(), "TEV_REGISTERL1"},
		{BPReg(0x8b).String(), "TX_SETIMAGE0_I3"},
		{BPReg(0xa1).String(), "TX_SETMODE0_I5"},
		{BPReg(0x2a).String(), "RAS1_TREF2"},
		{BPReg(0x33).String(), "SU_TSIZE1"},
		{BPReg(0x02).String(), "COPY_SAMPLE1"},
		{CP_VCD_LO.String(), "VCD_LO"},
		{CPReg(0x93).String(), "VAT_C3"},
		{CPReg(0xb2).String(), "ARRAY_STRIDE2"},
		{XF_VIEWPORT.String(), "VIEWPORT"},
		{XFReg(0x0402).String(), "NRMMTX[0x02]"},
		{XFReg(0x0611).String(), "LIGHT1[1]"},
		{XFReg(0x1043).String(), "TEXGEN3"},
	}
	for _, n := range names {
		if n.Got != n.Want {
			t.Errorf("got name %q, want %q", n.Got, n.Want)
		}
	}
}

type failingWriter struct {
	left int
}

var errSinkClosed = errors.New("sink closed")

func (w *failingWriter) Write(b []byte) (int, error) {
	if len(b) > w.left {
		n := w.left
		w.left = 0
		return n, errSinkClosed
	}
	w.left -= len(b)
	return len(b), nil
}

func TestPipeLatchesSinkError(t *testing.T) {
	w := &failingWriter{left: 6}
	p := NewPipe(w)
	BP_GEN_MODE.Load(p, 0)  // 5 bytes, fits
	BP_PE_ZMODE.Load(p, 0)  // fails after 1 byte
	BP_PE_CMODE0.Load(p, 0) // dropped

	if !errors.Is(p.Err(), errSinkClosed) {
		t.Errorf("expected the sink error to be latched, got %v", p.Err())
	}
	if p.Len() != 6 {
		t.Errorf("pipe counted %d bytes, want 6", p.Len())
	}
}
