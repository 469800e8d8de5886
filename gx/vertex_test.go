package gx

import (
	"bytes"
	"testing"
	"time"
)

func TestBeginFlushesVertexState(t *testing.T) {
	d, buf := newTestDevice(t)
	d.ClearVtxDesc()
	d.SetVtxDesc(VA_POS, DIRECT)
	d.SetVtxDesc(VA_CLR0, DIRECT)
	d.SetVtxAttrFmt(VTXFMT0, VA_POS, POS_XYZ, F32, 0)
	d.SetVtxAttrFmt(VTXFMT0, VA_CLR0, CLR_RGBA, RGBA8, 0)
	if buf.Len() != 0 {
		t.Fatalf("descriptor changes were written before Begin: % x", buf.Bytes())
	}

	d.Begin(PRIM_TRIANGLES, VTXFMT0, 1)
	d.Position3f32(1, 0, -1)
	d.Color4u8(0xff, 0x80, 0x00, 0xff)
	d.End()

	// position and color 0 direct; one color for the transform unit
	vatA := uint32(1<<30 | 1 | 4<<1 | 1<<13 | 5<<14)
	expectBytes(t, buf.Bytes(), concat(
		cp(0x50, 1<<9|1<<13),
		cp(0x60, 0),
		xf(0x1008, 1),
		cp(0x70, vatA),
		cp(0x80, 1<<31),
		cp(0x90, 0),
		[]byte{0x90, 0x00, 0x01},
		[]byte{0x3f, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xbf, 0x80, 0x00, 0x00},
		[]byte{0xff, 0x80, 0x00, 0xff},
	))

	// nothing changed, so the next primitive starts right away
	buf.Reset()
	d.Begin(PRIM_POINTS, VTXFMT0, 0)
	d.End()
	expectBytes(t, buf.Bytes(), []byte{0xb8, 0x00, 0x00})
}

func TestVtxFmtOnlyFlushesDirtyFormats(t *testing.T) {
	d, buf := newTestDevice(t)
	d.SetVtxAttrFmt(VTXFMT3, VA_TEX4, TEX_ST, S16, 8)
	d.SetVtxAttrFmt(VTXFMT3, VA_TEX7, TEX_ST, U8, 7)
	d.Begin(PRIM_QUADS, VTXFMT3, 0)
	d.End()

	vatB := uint32(1<<31 | 1<<27 | 3<<28)
	vatC := uint32(8 | 1<<23 | 0<<24 | 7<<27)
	expectBytes(t, buf.Bytes(), concat(
		cp(0x73, 1<<30),
		cp(0x83, vatB),
		cp(0x93, vatC),
		[]byte{0x83, 0x00, 0x00},
	))
}

func TestCurrentMtxFlushesOnBegin(t *testing.T) {
	d, buf := newTestDevice(t)
	d.SetCurrentMtx(PNMTX2)
	d.Begin(PRIM_LINES, VTXFMT1, 0)
	d.End()

	// texcoords 0-3 on the identity matrix
	matA := uint32(6 | 60<<6 | 60<<12 | 60<<18 | 60<<24)
	matB := uint32(60 | 60<<6 | 60<<12 | 60<<18)
	expectBytes(t, buf.Bytes(), concat(
		cp(0x30, matA),
		xf(0x1018, matA),
		cp(0x40, matB),
		xf(0x1019, matB),
		[]byte{0xa9, 0x00, 0x00},
	))
}

func TestBeginEndContracts(t *testing.T) {
	d, _ := newTestDevice(t)
	expectPanic(t, "End without Begin", func() { d.End() })
	d.Begin(PRIM_TRIANGLESTRIP, VTXFMT0, 3)
	expectPanic(t, "nested Begin", func() { d.Begin(PRIM_TRIANGLES, VTXFMT0, 3) })
	d.End()
	expectPanic(t, "vertex format 8", func() { d.Begin(PRIM_TRIANGLES, VtxFmt(8), 3) })
	expectPanic(t, "bad primitive", func() { d.Begin(Primitive(0x91), VTXFMT0, 3) })
	expectPanic(t, "misaligned array", func() { d.SetArray(VA_POS, 0x1004, 12) })
}

func TestAttributeEmitters(t *testing.T) {
	d, buf := newTestDevice(t)
	d.Position2s16(-1, 2)
	d.Position1x8(7)
	d.Position1x16(0x1234)
	d.Normal3f32(0, 1, 0)
	d.Color1u32(0x11223344)
	d.Color3f32(1, 0.5, 0)
	d.TexCoord2f32(0.5, 1)
	d.TexCoord2u16(1, 2)
	d.MatrixIndex1x8(9)
	expectBytes(t, buf.Bytes(), []byte{
		0xff, 0xff, 0x00, 0x02,
		0x07,
		0x12, 0x34,
		0, 0, 0, 0, 0x3f, 0x80, 0, 0, 0, 0, 0, 0,
		0x11, 0x22, 0x33, 0x44,
		0xff, 0x80, 0x00,
		0x3f, 0x00, 0x00, 0x00, 0x3f, 0x80, 0x00, 0x00,
		0x00, 0x01, 0x00, 0x02,
		0x09,
	})
}

func TestSetArray(t *testing.T) {
	d, buf := newTestDevice(t)
	d.SetArray(VA_TEX1, 0x00200040, 8)
	d.SetArray(VA_LIGHTARRAY, 0x00300000, 0x40)
	expectBytes(t, buf.Bytes(), concat(
		cp(0xa5, 0x00200040),
		cp(0xb5, 8),
		cp(0xaf, 0x00300000),
		cp(0xbf, 0x40),
	))
}

func TestDrawDone(t *testing.T) {
	done := NewFinishSignal()
	d, buf := newTestDevice(t, WithFinishWaiter(done))

	go func() {
		time.Sleep(10 * time.Millisecond)
		done.Signal()
	}()
	d.DrawDone()

	want := concat(bp(0x45, 2), make([]byte, 32))
	expectBytes(t, buf.Bytes(), want)
}

func TestSetDrawDoneDoesNotWait(t *testing.T) {
	// a waiter that never fires: SetDrawDone must return anyway
	d, buf := newTestDevice(t, WithFinishWaiter(NewFinishSignal()))
	d.SetDrawDone()
	if !bytes.HasPrefix(buf.Bytes(), bp(0x45, 2)) || buf.Len() != 5+GATHER_PIPE_SIZE {
		t.Errorf("unexpected draw done stream % x", buf.Bytes())
	}
}
