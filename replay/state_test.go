package replay

import (
	"bytes"
	"errors"
	"image/color"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeozeozeo/gogx/gu"
	"github.com/zeozeozeo/gogx/gx"
)

// Returns a device whose vertex positions are EFB pixels
func newPixelDevice(t *testing.T, opts ...gx.Option) (*gx.Device, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	d := gx.New(buf, opts...)
	d.LoadProjectionMtx(gu.Ortho(0, 480, 0, 640, 0, 1), gx.ORTHOGRAPHIC)
	d.LoadPosMtxImm(gu.Identity(), gx.PNMTX0)
	d.SetCurrentMtx(gx.PNMTX0)
	d.ClearVtxDesc()
	d.SetVtxDesc(gx.VA_POS, gx.DIRECT)
	d.SetVtxDesc(gx.VA_CLR0, gx.DIRECT)
	d.SetVtxAttrFmt(gx.VTXFMT0, gx.VA_POS, gx.POS_XYZ, gx.F32, 0)
	d.SetVtxAttrFmt(gx.VTXFMT0, gx.VA_CLR0, gx.CLR_RGBA, gx.RGBA8, 0)
	return d, buf
}

func replay(t *testing.T, mem *gx.Memory, stream []byte) *State {
	t.Helper()
	s := NewState(mem)
	if err := s.Run(bytes.NewReader(stream)); err != nil {
		t.Fatal(err)
	}
	return s
}

func expectPos(t *testing.T, v Vertex, x, y float32) {
	t.Helper()
	if math.Abs(float64(v.Position.X()-x)) > 1e-3 || math.Abs(float64(v.Position.Y()-y)) > 1e-3 {
		t.Errorf("vertex at %v, want (%v, %v)", v.Position, x, y)
	}
}

var (
	red   = color.RGBA{0xff, 0, 0, 0xff}
	green = color.RGBA{0, 0xff, 0, 0xff}
	blue  = color.RGBA{0, 0, 0xff, 0xff}
	white = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

func TestTriangle(t *testing.T) {
	d, buf := newPixelDevice(t)
	d.Begin(gx.PRIM_TRIANGLES, gx.VTXFMT0, 3)
	d.Position3f32(0, 0, 0)
	d.Color4u8(0xff, 0, 0, 0xff)
	d.Position3f32(640, 0, 0)
	d.Color4u8(0, 0xff, 0, 0xff)
	d.Position3f32(320, 480, 0)
	d.Color4u8(0, 0, 0xff, 0xff)
	d.End()

	s := replay(t, nil, buf.Bytes())
	vb := s.DrawData().VtxBuffer
	if len(vb) != 3 {
		t.Fatalf("got %d vertices", len(vb))
	}
	expectPos(t, vb[0], 0, 0)
	expectPos(t, vb[1], 640, 0)
	expectPos(t, vb[2], 320, 480)
	if vb[0].Color != red || vb[1].Color != green || vb[2].Color != blue {
		t.Errorf("colors %v %v %v", vb[0].Color, vb[1].Color, vb[2].Color)
	}
	if s.Stats.Draws != 1 || s.Stats.Triangles != 1 {
		t.Errorf("stats %+v", s.Stats)
	}
}

func TestPrimitiveExpansion(t *testing.T) {
	tests := []struct {
		prim  gx.Primitive
		count int
		want  []int // x of each emitted vertex
	}{
		{gx.PRIM_QUADS, 4, []int{0, 1, 2, 0, 2, 3}},
		{gx.PRIM_QUADS, 8, []int{0, 1, 2, 0, 2, 3, 4, 5, 6, 4, 6, 7}},
		{gx.PRIM_TRIANGLES, 7, []int{0, 1, 2, 3, 4, 5}},
		{gx.PRIM_TRIANGLESTRIP, 5, []int{0, 1, 2, 2, 1, 3, 2, 3, 4}},
		{gx.PRIM_TRIANGLEFAN, 5, []int{0, 1, 2, 0, 2, 3, 0, 3, 4}},
		{gx.PRIM_LINES, 4, nil},
		{gx.PRIM_POINTS, 3, nil},
	}

	for _, tt := range tests {
		d, buf := newPixelDevice(t)
		d.Begin(tt.prim, gx.VTXFMT0, uint16(tt.count))
		for i := 0; i < tt.count; i++ {
			// the vertex number goes in x, y keeps the strip visible
			d.Position3f32(float32(i), float32(i%2), 0)
			d.Color4u8(0xff, 0xff, 0xff, 0xff)
		}
		d.End()

		s := replay(t, nil, buf.Bytes())
		vb := s.DrawData().VtxBuffer
		if len(vb) != len(tt.want) {
			t.Errorf("%s x%d: %d vertices, want %d", tt.prim, tt.count, len(vb), len(tt.want))
			continue
		}
		for i, x := range tt.want {
			if int(math.Round(float64(vb[i].Position.X()))) != x {
				t.Errorf("%s x%d: vertex %d is %v, want %d", tt.prim, tt.count, i, vb[i].Position.X(), x)
			}
		}
		if kindOf(tt.prim) == primNone && s.Stats.Dropped != tt.count {
			t.Errorf("%s: %d dropped, want %d", tt.prim, s.Stats.Dropped, tt.count)
		}
	}
}

func TestIndexedDisplayList(t *testing.T) {
	mem := gx.NewMemorySize(64 * 1024)
	d, buf := newPixelDevice(t, gx.WithMemory(mem))

	// s16 positions with 2 fraction bits, RGB565 colors
	posAddr, pos, err := mem.Alloc(3 * 6)
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range [][3]int16{{0, 0, 0}, {400, 0, 0}, {0, 400, 0}} {
		for c := range p {
			pos[i*6+c*2] = byte(uint16(p[c]) >> 8)
			pos[i*6+c*2+1] = byte(p[c])
		}
	}
	clrAddr, clr, err := mem.Alloc(2)
	if err != nil {
		t.Fatal(err)
	}
	clr[0], clr[1] = 0x07, 0xe0 // green

	d.ClearVtxDesc()
	d.SetVtxDesc(gx.VA_POS, gx.INDEX8)
	d.SetVtxDesc(gx.VA_CLR0, gx.INDEX16)
	d.SetVtxAttrFmt(gx.VTXFMT1, gx.VA_POS, gx.POS_XYZ, gx.S16, 2)
	d.SetVtxAttrFmt(gx.VTXFMT1, gx.VA_CLR0, gx.CLR_RGB, gx.RGB565, 0)
	d.SetArray(gx.VA_POS, posAddr, 6)
	d.SetArray(gx.VA_CLR0, clrAddr, 2)

	list := gx.NewDispList(256)
	d.BeginDispList(list)
	d.Begin(gx.PRIM_TRIANGLES, gx.VTXFMT1, 3)
	for i := uint8(0); i < 3; i++ {
		d.Position1x8(i)
		d.Color1x16(0)
	}
	d.End()
	size := d.EndDispList()
	addr, err := d.UploadDispList(list, size)
	if err != nil {
		t.Fatal(err)
	}
	d.CallDispList(addr, size)

	s := replay(t, mem, buf.Bytes())
	vb := s.DrawData().VtxBuffer
	if len(vb) != 3 || s.Stats.Calls != 1 {
		t.Fatalf("%d vertices from %d calls", len(vb), s.Stats.Calls)
	}
	expectPos(t, vb[1], 100, 0)
	expectPos(t, vb[2], 0, 100)
	if vb[0].Color != green {
		t.Errorf("color %v", vb[0].Color)
	}

	// the same stream without memory cannot be followed
	if err := NewState(nil).Run(bytes.NewReader(buf.Bytes())); !errors.Is(err, ErrNoMemory) {
		t.Errorf("replay without memory: %v", err)
	}
}

func TestNestedCall(t *testing.T) {
	mem := gx.NewMemorySize(4096)
	inner := []byte{gx.CMD_CALL_DL, 0, 0, 0, 0x40, 0, 0, 0, 0x20}
	addr, err := mem.Upload(append(inner, make([]byte, 32-len(inner))...))
	if err != nil {
		t.Fatal(err)
	}
	stream := []byte{gx.CMD_CALL_DL, 0, 0, 0, byte(addr), 0, 0, 0, 0x20}
	if err := NewState(mem).Run(bytes.NewReader(stream)); !errors.Is(err, ErrNestedCall) {
		t.Errorf("nested call: %v", err)
	}

	stream = []byte{gx.CMD_CALL_DL, 0, 0xff, 0, 0, 0, 0, 0x20, 0}
	if err := NewState(mem).Run(bytes.NewReader(stream)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("call outside memory: %v", err)
	}
}

func TestMatrixIndexAndMaterial(t *testing.T) {
	d, buf := newPixelDevice(t)
	d.LoadPosMtxImm(gu.Translate(100, 50, 0), gx.PNMTX2)
	d.ClearVtxDesc()
	d.SetVtxDesc(gx.VA_PTNMTXIDX, gx.DIRECT)
	d.SetVtxDesc(gx.VA_POS, gx.DIRECT)
	d.Begin(gx.PRIM_TRIANGLES, gx.VTXFMT0, 3)
	for _, idx := range []gx.PosMtx{gx.PNMTX0, gx.PNMTX2, gx.PNMTX2} {
		d.MatrixIndex1x8(uint8(idx))
		d.Position3f32(0, 0, 0)
	}
	d.End()

	vb := replay(t, nil, buf.Bytes()).DrawData().VtxBuffer
	if len(vb) != 3 {
		t.Fatalf("got %d vertices", len(vb))
	}
	expectPos(t, vb[0], 0, 0)
	expectPos(t, vb[1], 100, 50)
	// no color attribute and no material color loaded
	if vb[0].Color != white {
		t.Errorf("color %v", vb[0].Color)
	}

	d.SetChanMatColor(gx.COLOR0A0, gx.Color{R: 1, G: 2, B: 3, A: 4})
	d.Begin(gx.PRIM_TRIANGLES, gx.VTXFMT0, 3)
	for i := 0; i < 3; i++ {
		d.MatrixIndex1x8(uint8(gx.PNMTX0))
		d.Position3f32(0, 0, 0)
	}
	d.End()
	vb = replay(t, nil, buf.Bytes()).DrawData().VtxBuffer
	if c := vb[3].Color; c != (color.RGBA{1, 2, 3, 4}) {
		t.Errorf("material color %v", c)
	}
}

func TestPerspectiveDropsTrianglesBehindTheEye(t *testing.T) {
	d, buf := newPixelDevice(t)
	d.LoadProjectionMtx(gu.Perspective(60, 4.0/3, 1, 100), gx.PERSPECTIVE)
	d.Begin(gx.PRIM_TRIANGLES, gx.VTXFMT0, 6)
	for _, z := range []float32{-10, -10, -10, 5, 5, 5} {
		d.Position3f32(0, 0, z)
		d.Color4u8(0, 0, 0, 0xff)
	}
	d.End()

	s := replay(t, nil, buf.Bytes())
	vb := s.DrawData().VtxBuffer
	if len(vb) != 3 || s.Stats.Dropped != 1 {
		t.Fatalf("%d vertices, %d dropped", len(vb), s.Stats.Dropped)
	}
	// the eye axis lands in the middle of the viewport
	expectPos(t, vb[0], 320, 240)
	if z := vb[0].Position.Z(); z <= 0 || z >= 1 {
		t.Errorf("depth %v", z)
	}
}

func TestFramesAndClearColor(t *testing.T) {
	d, buf := newPixelDevice(t)
	d.SetCopyClear(gx.Color{R: 0x10, G: 0x20, B: 0x30, A: 0xff}, gx.MAX_Z24)
	d.Begin(gx.PRIM_TRIANGLES, gx.VTXFMT0, 3)
	for i := 0; i < 3; i++ {
		d.Position3f32(float32(i), 0, 0)
		d.Color4u8(0, 0, 0, 0xff)
	}
	d.End()
	d.CopyDisp(0x00100000, true)
	d.SetCopyClear(gx.CLEAR_WHITE, gx.MAX_Z24)

	s := replay(t, nil, buf.Bytes())
	if s.Stats.Frames != 1 {
		t.Fatalf("%d frames", s.Stats.Frames)
	}
	dd := s.DrawData()
	if dd.Triangles() != 1 || dd.Clear != (color.RGBA{0x10, 0x20, 0x30, 0xff}) {
		t.Errorf("frame has %d triangles on %v", dd.Triangles(), dd.Clear)
	}
	if s.ClearColor() != white {
		t.Errorf("clear color %v", s.ClearColor())
	}
}

func TestReadColor(t *testing.T) {
	tests := []struct {
		typ  gx.CompType
		data []byte
		want color.RGBA
	}{
		{gx.RGB565, []byte{0xf8, 0x00}, red},
		{gx.RGB565, []byte{0xff, 0xff}, white},
		{gx.RGB8, []byte{1, 2, 3}, color.RGBA{1, 2, 3, 0xff}},
		{gx.RGBX8, []byte{1, 2, 3, 9}, color.RGBA{1, 2, 3, 0xff}},
		{gx.RGBA4, []byte{0xf0, 0x0f}, color.RGBA{0xff, 0, 0, 0xff}},
		{gx.RGBA6, []byte{0xfc, 0x00, 0x3f}, color.RGBA{0xff, 0, 0, 0xff}},
		{gx.RGBA8, []byte{1, 2, 3, 4}, color.RGBA{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		if got := readColor(tt.data, tt.typ); got != tt.want {
			t.Errorf("type %d % x: got %v, want %v", tt.typ, tt.data, got, tt.want)
		}
	}
}

func TestReadComp(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(readComp([]byte{0xff}, gx.S8, 0, 0) == -1)
	assert(readComp([]byte{0xff}, gx.U8, 0, 4) == 255.0/16)
	assert(readComp([]byte{0, 0, 0x80, 0x00}, gx.S16, 1, 8) == -128)
	assert(readComp([]byte{0x3f, 0x80, 0, 0}, gx.F32, 0, 5) == 1)
}

func TestPushQuad(t *testing.T) {
	dd := NewDrawData()
	v := func(x float32) Vertex { return Vertex{Position: mgl32.Vec3{x, 0, 0}} }
	dd.PushQuad(v(0), v(1), v(2), v(3))
	if dd.Triangles() != 2 || dd.VtxBuffer[3].Position.X() != 0 || dd.VtxBuffer[5].Position.X() != 3 {
		t.Errorf("quad split as %v", dd.VtxBuffer)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("PushQuad with 3 vertices did not panic")
		}
	}()
	dd.PushQuad(v(0), v(1), v(2))
}

func TestTextureBinding(t *testing.T) {
	d, buf := newPixelDevice(t)
	obj, err := gx.NewTexObj(0x00080000, 64, 32, gx.TF_RGB565, gx.REPEAT, gx.CLAMP, false)
	if err != nil {
		t.Fatal(err)
	}
	d.LoadTexObj(obj, gx.TEXMAP5)

	s := replay(t, nil, buf.Bytes())
	tex, ok := s.Texture(gx.TEXMAP5)
	if !ok {
		t.Fatalf("no texture bound to TEXMAP5")
	}
	if tex.Addr != 0x00080000 || tex.Image.Width != 64 || tex.Image.Height != 32 || tex.Image.Format != gx.TF_RGB565 {
		t.Errorf("texture %+v", tex)
	}
	if tex.Mode.WrapS != gx.REPEAT || tex.Mode.WrapT != gx.CLAMP {
		t.Errorf("wrap modes %v %v", tex.Mode.WrapS, tex.Mode.WrapT)
	}
	if _, ok := s.Texture(gx.TEXMAP0); ok {
		t.Errorf("TEXMAP0 reported as bound")
	}
}
