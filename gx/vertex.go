package gx

// Starts a primitive of `count` vertices in vertex format `f`. Pending
// descriptor, format and matrix index changes are written first. The
// vertices follow through the attribute emitters, in descriptor order:
// matrix indices, position, normal, colors, then texcoords. The emitted
// attributes are not checked against the descriptor or the count
func (d *Device) Begin(prim Primitive, f VtxFmt, count uint16) {
	if d.inPrim {
		panicFmt("gx: Begin called inside a primitive")
	}
	if f >= MAX_VTXFMT {
		panicFmt("gx: invalid vertex format %d", f)
	}
	if !isDrawOpcode(uint8(prim)) || uint8(prim)&7 != 0 {
		panicFmt("gx: invalid primitive 0x%02x", uint8(prim))
	}
	d.flushState()
	d.inPrim = true
	d.pipe.U8(uint8(prim) | uint8(f))
	d.pipe.U16(count)
}

// Ends the current primitive. Nothing is written; the count given to Begin
// already tells the GPU where the primitive ends
func (d *Device) End() {
	if !d.inPrim {
		panicFmt("gx: End called without Begin")
	}
	d.inPrim = false
}

func (d *Device) Position3f32(x, y, z float32) {
	d.pipe.F32(x)
	d.pipe.F32(y)
	d.pipe.F32(z)
}

func (d *Device) Position2f32(x, y float32) {
	d.pipe.F32(x)
	d.pipe.F32(y)
}

func (d *Device) Position3s16(x, y, z int16) {
	d.pipe.U16(uint16(x))
	d.pipe.U16(uint16(y))
	d.pipe.U16(uint16(z))
}

func (d *Device) Position2s16(x, y int16) {
	d.pipe.U16(uint16(x))
	d.pipe.U16(uint16(y))
}

func (d *Device) Position3u8(x, y, z uint8) {
	d.pipe.U8(x)
	d.pipe.U8(y)
	d.pipe.U8(z)
}

// Indexed position, 8 bit index
func (d *Device) Position1x8(idx uint8) {
	d.pipe.U8(idx)
}

// Indexed position, 16 bit index
func (d *Device) Position1x16(idx uint16) {
	d.pipe.U16(idx)
}

func (d *Device) Normal3f32(x, y, z float32) {
	d.pipe.F32(x)
	d.pipe.F32(y)
	d.pipe.F32(z)
}

func (d *Device) Normal3s16(x, y, z int16) {
	d.pipe.U16(uint16(x))
	d.pipe.U16(uint16(y))
	d.pipe.U16(uint16(z))
}

func (d *Device) Normal1x8(idx uint8) {
	d.pipe.U8(idx)
}

func (d *Device) Normal1x16(idx uint16) {
	d.pipe.U16(idx)
}

// RGBA8 color
func (d *Device) Color4u8(r, g, b, a uint8) {
	d.pipe.U8(r)
	d.pipe.U8(g)
	d.pipe.U8(b)
	d.pipe.U8(a)
}

// RGB8 color
func (d *Device) Color3u8(r, g, b uint8) {
	d.pipe.U8(r)
	d.pipe.U8(g)
	d.pipe.U8(b)
}

// RGBA8 color packed as 0xRRGGBBAA
func (d *Device) Color1u32(rgba uint32) {
	d.pipe.U32(rgba)
}

// RGB565 color
func (d *Device) Color1u16(rgb uint16) {
	d.pipe.U16(rgb)
}

// RGB8 color from 0-1 floats. The GPU has no float color type, so the
// components are converted and sent as 3 bytes
func (d *Device) Color3f32(r, g, b float32) {
	d.Color3u8(unitToU8(r), unitToU8(g), unitToU8(b))
}

// RGBA8 color from 0-1 floats
func (d *Device) Color4f32(r, g, b, a float32) {
	d.Color4u8(unitToU8(r), unitToU8(g), unitToU8(b), unitToU8(a))
}

func unitToU8(v float32) uint8 {
	return uint8(clampFloat(v, 0, 1)*255 + 0.5)
}

func (d *Device) Color1x8(idx uint8) {
	d.pipe.U8(idx)
}

func (d *Device) Color1x16(idx uint16) {
	d.pipe.U16(idx)
}

func (d *Device) TexCoord2f32(s, t float32) {
	d.pipe.F32(s)
	d.pipe.F32(t)
}

func (d *Device) TexCoord1f32(s float32) {
	d.pipe.F32(s)
}

func (d *Device) TexCoord2s16(s, t int16) {
	d.pipe.U16(uint16(s))
	d.pipe.U16(uint16(t))
}

func (d *Device) TexCoord2u16(s, t uint16) {
	d.pipe.U16(s)
	d.pipe.U16(t)
}

func (d *Device) TexCoord2u8(s, t uint8) {
	d.pipe.U8(s)
	d.pipe.U8(t)
}

func (d *Device) TexCoord1x8(idx uint8) {
	d.pipe.U8(idx)
}

func (d *Device) TexCoord1x16(idx uint16) {
	d.pipe.U16(idx)
}

// Position/normal or texture matrix index
func (d *Device) MatrixIndex1x8(idx uint8) {
	d.pipe.U8(idx)
}

// Pushes everything written so far out of the write-gather buffer by
// writing a full buffer worth of zero words (NOPs to the GPU)
func (d *Device) Flush() {
	for i := 0; i < GATHER_PIPE_SIZE/4; i++ {
		d.pipe.U32(0)
	}
}

// Value written to PE_DONE to request a draw done interrupt
const peDoneToken = 0x02

// Marks the end of a frame's commands and flushes, without waiting
func (d *Device) SetDrawDone() {
	BP_PE_DONE.Load(d.pipe, peDoneToken)
	d.Flush()
}

// Same as SetDrawDone, then blocks until the GPU has processed every
// command up to the token. There is no timeout
func (d *Device) DrawDone() {
	d.SetDrawDone()
	d.waiter.WaitDrawDone()
}
