package main

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeozeozeo/gogx/gu"
	"github.com/zeozeozeo/gogx/gx"
)

// A scene draws one frame into a device. Buffers the GPU reads are
// allocated from `mem`
type scene func(d *gx.Device, mem *gx.Memory) error

var scenes = map[string]scene{
	"triangle": sceneTriangle,
	"quad":     sceneQuad,
	"tev":      sceneTev,
	"indexed":  sceneIndexed,
}

// Returns the scene names, sorted
func sceneNames() []string {
	names := make([]string, 0, len(scenes))
	for name := range scenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sets up a 2D projection where vertex coordinates are EFB pixels
func setup2D(d *gx.Device) {
	mode := d.RenderMode()
	d.LoadProjectionMtx(gu.Ortho(0, float32(mode.EFBHeight), 0, float32(mode.FBWidth), 0, 1), gx.ORTHOGRAPHIC)
	d.LoadPosMtxImm(gu.Identity(), gx.PNMTX0)
	d.SetCurrentMtx(gx.PNMTX0)
}

// Copies the frame out to an external frame buffer and waits for the GPU
func finishFrame(d *gx.Device, mem *gx.Memory) error {
	mode := d.RenderMode()
	xfb, _, err := mem.Alloc(uint32(mode.FBWidth) * uint32(mode.XFBHeight) * 2)
	if err != nil {
		return fmt.Errorf("allocate frame buffer: %w", err)
	}
	if mode.XFBHeight != mode.EFBHeight {
		d.SetDispCopyYScale(float32(mode.XFBHeight) / float32(mode.EFBHeight))
	}
	d.CopyDisp(xfb, true)
	d.DrawDone()
	return nil
}

// A single triangle with one color per corner
func sceneTriangle(d *gx.Device, mem *gx.Memory) error {
	setup2D(d)
	d.SetCopyClear(gx.Color{R: 0x20, G: 0x20, B: 0x30, A: 0xff}, gx.MAX_Z24)
	d.SetCullMode(gx.CULL_NONE)

	d.ClearVtxDesc()
	d.SetVtxDesc(gx.VA_POS, gx.DIRECT)
	d.SetVtxDesc(gx.VA_CLR0, gx.DIRECT)
	d.SetVtxAttrFmt(gx.VTXFMT0, gx.VA_POS, gx.POS_XYZ, gx.F32, 0)
	d.SetVtxAttrFmt(gx.VTXFMT0, gx.VA_CLR0, gx.CLR_RGBA, gx.RGBA8, 0)

	d.Begin(gx.PRIM_TRIANGLES, gx.VTXFMT0, 3)
	d.Position3f32(320, 60, 0)
	d.Color4u8(0xff, 0, 0, 0xff)
	d.Position3f32(560, 420, 0)
	d.Color4u8(0, 0xff, 0, 0xff)
	d.Position3f32(80, 420, 0)
	d.Color4u8(0, 0, 0xff, 0xff)
	d.End()

	return finishFrame(d, mem)
}

// Two quads: a fixed point one in 2D and a rotated one in perspective
func sceneQuad(d *gx.Device, mem *gx.Memory) error {
	setup2D(d)
	d.SetCullMode(gx.CULL_NONE)

	d.ClearVtxDesc()
	d.SetVtxDesc(gx.VA_POS, gx.DIRECT)
	d.SetVtxDesc(gx.VA_CLR0, gx.DIRECT)
	// 12.4 fixed point positions, 16 bit colors
	d.SetVtxAttrFmt(gx.VTXFMT1, gx.VA_POS, gx.POS_XY, gx.S16, 4)
	d.SetVtxAttrFmt(gx.VTXFMT1, gx.VA_CLR0, gx.CLR_RGB, gx.RGB565, 0)

	d.Begin(gx.PRIM_QUADS, gx.VTXFMT1, 4)
	for _, p := range [][2]int16{{40, 40}, {240, 40}, {240, 200}, {40, 200}} {
		d.Position2s16(p[0]<<4, p[1]<<4)
		d.Color1u16(0xfd20) // orange
	}
	d.End()

	mode := d.RenderMode()
	aspect := float32(mode.FBWidth) / float32(mode.EFBHeight)
	d.LoadProjectionMtx(gu.Perspective(60, aspect, 0.1, 100), gx.PERSPECTIVE)
	view := gu.LookAt(mgl32.Vec3{0, 0, 4}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{})
	model := gu.Concat(gu.Translate(0.8, -0.4, 0), gu.Rotate(mgl32.Vec3{0, 0, 1}, 30))
	d.LoadPosMtxImm(gu.Concat(view, model), gx.PNMTX1)
	d.SetCurrentMtx(gx.PNMTX1)

	d.SetVtxAttrFmt(gx.VTXFMT2, gx.VA_POS, gx.POS_XYZ, gx.F32, 0)
	d.SetVtxAttrFmt(gx.VTXFMT2, gx.VA_CLR0, gx.CLR_RGBA, gx.RGBA8, 0)
	d.Begin(gx.PRIM_QUADS, gx.VTXFMT2, 4)
	for i, p := range [][2]float32{{-1, 1}, {1, 1}, {1, -1}, {-1, -1}} {
		d.Position3f32(p[0], p[1], 0)
		d.Color4u8(uint8(i*80), 0x80, 0xff-uint8(i*80), 0xff)
	}
	d.End()

	return finishFrame(d, mem)
}

// Returns a size x size RGBA8 checkerboard in the tiled layout textures
// use: 4x4 pixel tiles of 64 bytes, alpha/red halves then green/blue
func checkerboard(size int) []byte {
	data := make([]byte, size*size*4)
	off := 0
	for ty := 0; ty < size; ty += 4 {
		for tx := 0; tx < size; tx += 4 {
			tile := data[off : off+64]
			for i := 0; i < 16; i++ {
				x, y := tx+i%4, ty+i/4
				v := byte(0x40)
				if (x/8+y/8)%2 == 0 {
					v = 0xe0
				}
				tile[2*i], tile[2*i+1] = 0xff, v
				tile[32+2*i], tile[32+2*i+1] = v, v
			}
			off += 64
		}
	}
	return data
}

// A textured fan modulated by the vertex colors, blended over a constant
// color stage
func sceneTev(d *gx.Device, mem *gx.Memory) error {
	setup2D(d)
	d.SetCullMode(gx.CULL_NONE)

	const texSize = 32
	texAddr, err := mem.Upload(checkerboard(texSize))
	if err != nil {
		return fmt.Errorf("upload texture: %w", err)
	}
	tex, err := gx.NewTexObj(texAddr, texSize, texSize, gx.TF_RGBA8, gx.REPEAT, gx.REPEAT, false)
	if err != nil {
		return err
	}
	d.LoadTexObj(tex, gx.TEXMAP0)

	// texcoords scaled so the checkerboard repeats four times
	d.LoadTexMtxImm(gu.Scale(4, 4, 1), gx.TEXMTX0, gx.MTX_2x4)
	d.SetNumTexGens(1)
	d.SetTexCoordGen(gx.TEXCOORD0, gx.TG_MTX2x4, gx.TG_TEX0, gx.TEXMTX0)

	// stage 0: texture * vertex color, stage 1: blend with a constant
	d.SetNumTevStages(2)
	d.SetTevOrder(gx.TEVSTAGE0, gx.TEXCOORD0, gx.TEXMAP0, gx.COLOR0A0)
	d.SetTevOp(gx.TEVSTAGE0, gx.TEV_MODULATE)
	d.SetTevColor(gx.TEVREG0, gx.TevColor{R: 0x40, G: 0x80, B: 0xff, A: 0xff})
	d.SetTevOrderColor(gx.TEVSTAGE1, gx.COLORNULL)
	d.SetTevColorIn(gx.TEVSTAGE1, gx.CC_CPREV, gx.CC_C0, gx.CC_HALF, gx.CC_ZERO)
	d.SetTevColorOp(gx.TEVSTAGE1, gx.TEV_ADD, gx.TB_ZERO, gx.CS_SCALE_1, true, gx.TEVPREV)
	d.SetTevAlphaIn(gx.TEVSTAGE1, gx.CA_ZERO, gx.CA_ZERO, gx.CA_ZERO, gx.CA_APREV)
	d.SetTevAlphaOp(gx.TEVSTAGE1, gx.TEV_ADD, gx.TB_ZERO, gx.CS_SCALE_1, true, gx.TEVPREV)
	d.SetBlendMode(gx.BLEND_BLEND, gx.BL_SRCALPHA, gx.BL_INVSRCALPHA, gx.LO_CLEAR)
	d.SetAlphaCompare(gx.COMPARE_GREATER, 0, gx.AOP_AND, gx.COMPARE_ALWAYS, 0)

	d.ClearVtxDesc()
	d.SetVtxDesc(gx.VA_POS, gx.DIRECT)
	d.SetVtxDesc(gx.VA_CLR0, gx.DIRECT)
	d.SetVtxDesc(gx.VA_TEX0, gx.DIRECT)
	d.SetVtxAttrFmt(gx.VTXFMT3, gx.VA_POS, gx.POS_XY, gx.F32, 0)
	d.SetVtxAttrFmt(gx.VTXFMT3, gx.VA_CLR0, gx.CLR_RGBA, gx.RGBA8, 0)
	d.SetVtxAttrFmt(gx.VTXFMT3, gx.VA_TEX0, gx.TEX_ST, gx.F32, 0)

	// a hexagon around the center of the screen
	const sides = 6
	d.Begin(gx.PRIM_TRIANGLEFAN, gx.VTXFMT3, sides+2)
	d.Position2f32(320, 240)
	d.Color4u8(0xff, 0xff, 0xff, 0xff)
	d.TexCoord2f32(0.5, 0.5)
	for i := 0; i <= sides; i++ {
		a := 2 * math.Pi * float64(i%sides) / sides
		s, c := float32(math.Sin(a)), float32(math.Cos(a))
		d.Position2f32(320+180*c, 240+180*s)
		d.Color4u8(uint8(0x80+0x7f*c), uint8(0x80+0x7f*s), 0x80, 0xc0)
		d.TexCoord2f32(0.5+0.5*c, 0.5+0.5*s)
	}
	d.End()

	return finishFrame(d, mem)
}

// A lit cube drawn from indexed arrays through a display list called once
// per instance
func sceneIndexed(d *gx.Device, mem *gx.Memory) error {
	positions := [][3]float32{
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	}
	normals := [][3]float32{
		{0, 0, 1}, {0, 0, -1}, {1, 0, 0}, {-1, 0, 0}, {0, 1, 0}, {0, -1, 0},
	}
	colors := [][4]uint8{
		{0xe0, 0x40, 0x40, 0xff}, {0x40, 0xe0, 0x40, 0xff}, {0x40, 0x40, 0xe0, 0xff},
		{0xe0, 0xe0, 0x40, 0xff}, {0x40, 0xe0, 0xe0, 0xff}, {0xe0, 0x40, 0xe0, 0xff},
	}
	// position indices of each face, counter-clockwise from outside
	faces := [6][4]uint8{
		{0, 1, 2, 3}, {5, 4, 7, 6}, {1, 5, 6, 2}, {4, 0, 3, 7}, {3, 2, 6, 7}, {4, 5, 1, 0},
	}

	posAddr, pos, err := mem.Alloc(uint32(len(positions) * 12))
	if err != nil {
		return err
	}
	for i, p := range positions {
		for c, v := range p {
			binary.BigEndian.PutUint32(pos[i*12+c*4:], math.Float32bits(v))
		}
	}
	nrmAddr, nrm, err := mem.Alloc(uint32(len(normals) * 3))
	if err != nil {
		return err
	}
	for i, n := range normals {
		for c, v := range n {
			// 1.6 fixed point
			nrm[i*3+c] = byte(int8(v * 64))
		}
	}
	clrAddr, clr, err := mem.Alloc(uint32(len(colors) * 4))
	if err != nil {
		return err
	}
	for i, c := range colors {
		copy(clr[i*4:], c[:])
	}

	d.ClearVtxDesc()
	d.SetVtxDesc(gx.VA_POS, gx.INDEX8)
	d.SetVtxDesc(gx.VA_NRM, gx.INDEX8)
	d.SetVtxDesc(gx.VA_CLR0, gx.INDEX8)
	d.SetVtxAttrFmt(gx.VTXFMT4, gx.VA_POS, gx.POS_XYZ, gx.F32, 0)
	d.SetVtxAttrFmt(gx.VTXFMT4, gx.VA_NRM, gx.NRM_XYZ, gx.S8, 6)
	d.SetVtxAttrFmt(gx.VTXFMT4, gx.VA_CLR0, gx.CLR_RGBA, gx.RGBA8, 0)
	d.SetArray(gx.VA_POS, posAddr, 12)
	d.SetArray(gx.VA_NRM, nrmAddr, 3)
	d.SetArray(gx.VA_CLR0, clrAddr, 4)

	// vertex colors lit by the ambient color only
	d.SetNumChans(1)
	d.SetChanCtrl(gx.COLOR0A0, true, gx.SRC_REG, gx.SRC_VTX, gx.LIGHT_NULL, gx.DF_CLAMP, gx.AF_NONE)
	d.SetChanAmbColor(gx.COLOR0A0, gx.Color{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	d.SetCullMode(gx.CULL_BACK)

	list := gx.NewDispList(1024)
	d.BeginDispList(list)
	d.Begin(gx.PRIM_QUADS, gx.VTXFMT4, 24)
	for f, face := range faces {
		for _, idx := range face {
			d.Position1x8(idx)
			d.Normal1x8(uint8(f))
			d.Color1x8(uint8(f))
		}
	}
	d.End()
	size := d.EndDispList()
	if size == 0 {
		return fmt.Errorf("cube display list overflowed")
	}
	listAddr, err := d.UploadDispList(list, size)
	if err != nil {
		return err
	}

	mode := d.RenderMode()
	aspect := float32(mode.FBWidth) / float32(mode.EFBHeight)
	d.LoadProjectionMtx(gu.Perspective(60, aspect, 0.1, 100), gx.PERSPECTIVE)
	view := gu.LookAt(mgl32.Vec3{0, 2, 8}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{})

	for i, x := range []float32{-2.5, 0, 2.5} {
		idx := gx.PNMTX0 + gx.PosMtx(3*i)
		model := gu.Concat(gu.Translate(x, 0, 0), gu.Rotate(mgl32.Vec3{1, 1, 0}, float32(20+25*i)))
		mv := gu.Concat(view, model)
		d.LoadPosMtxImm(mv, idx)
		d.LoadNrmMtxImm(gu.InverseTranspose(mv), idx)
		d.SetCurrentMtx(idx)
		d.CallDispList(listAddr, size)
	}

	return finishFrame(d, mem)
}
