package gx

// Screen space coordinates are offset by this many pixels by the setup
// unit, so that guard band vertices stay positive
const SCREEN_OFFSET = 342

// Scale applied to the depth range, matching the 24 bit Z buffer
const zScale = float32(MAX_Z24)

// Sets the viewport. `near` and `far` are in the 0-1 range
func (d *Device) SetViewport(x, y, w, h, near, far float32) {
	d.SetViewportJitter(x, y, w, h, near, far, false)
}

// Same as SetViewport, shifting the viewport up half a line on odd fields
// of an interlaced mode
func (d *Device) SetViewportJitter(x, y, w, h, near, far float32, oddField bool) {
	if oddField {
		y -= 0.5
	}
	XF_VIEWPORT.LoadFloats(d.pipe,
		w*0.5,
		-h*0.5,
		(far-near)*zScale,
		x+w*0.5+SCREEN_OFFSET,
		y+h*0.5+SCREEN_OFFSET,
		far*zScale,
	)
}

// Restricts rendering to the given rectangle of the EFB
func (d *Device) SetScissor(x, y, w, h uint32) {
	top := y + SCREEN_OFFSET
	left := x + SCREEN_OFFSET
	bottom := top + h - 1
	right := left + w - 1

	BP_SU_SCIS0.Load(d.pipe, top&0x7ff|(left&0x7ff)<<12)
	BP_SU_SCIS1.Load(d.pipe, bottom&0x7ff|(right&0x7ff)<<12)
}

// Sets the offset subtracted from screen coordinates by the scissor box.
// The register holds the offset in units of two pixels
func (d *Device) SetScissorBoxOffset(x, y int32) {
	xo := uint32(x+SCREEN_OFFSET) >> 1
	yo := uint32(y+SCREEN_OFFSET) >> 1
	BP_SU_SCIS_OFFSET.Load(d.pipe, xo&0x3ff|(yo&0x3ff)<<10)
}

// Loads a position matrix into matrix memory at `idx`
func (d *Device) LoadPosMtxImm(m Mtx34, idx PosMtx) {
	xfPosMtx(idx).LoadFloats(d.pipe,
		m[0][0], m[0][1], m[0][2], m[0][3],
		m[1][0], m[1][1], m[1][2], m[1][3],
		m[2][0], m[2][1], m[2][2], m[2][3],
	)
}

// Loads the upper 3x3 of `m` as the normal matrix at `idx`. The caller
// passes the inverse transpose when the model matrix is not orthogonal
func (d *Device) LoadNrmMtxImm(m Mtx34, idx PosMtx) {
	xfNrmMtx(idx).LoadFloats(d.pipe,
		m[0][0], m[0][1], m[0][2],
		m[1][0], m[1][1], m[1][2],
		m[2][0], m[2][1], m[2][2],
	)
}

// Loads a texture matrix. Indices from DTTMTX0 up select the post-transform
// matrix memory; MTX_2x4 matrices only store the first two rows
func (d *Device) LoadTexMtxImm(m Mtx34, idx PosMtx, kind TexMtxType) {
	var reg XFReg
	if idx >= DTTMTX0 {
		reg = XF_POSTMTX_BASE + XFReg(idx-DTTMTX0)<<2
	} else {
		reg = xfPosMtx(idx)
	}

	vals := []float32{
		m[0][0], m[0][1], m[0][2], m[0][3],
		m[1][0], m[1][1], m[1][2], m[1][3],
	}
	if kind == MTX_3x4 {
		vals = append(vals, m[2][0], m[2][1], m[2][2], m[2][3])
	}
	reg.LoadFloats(d.pipe, vals...)
}

// Loads the projection. Only the six non-trivial entries are stored;
// the last word tells the transform unit how to rebuild the rest
func (d *Device) LoadProjectionMtx(m Mtx44, kind ProjectionType) {
	var p1, p3 float32
	switch kind {
	case PERSPECTIVE:
		p1, p3 = m[0][2], m[1][2]
	case ORTHOGRAPHIC:
		p1, p3 = m[0][3], m[1][3]
	default:
		panicFmt("gx: invalid projection type %d", kind)
	}

	XF_PROJECTION.LoadMulti(d.pipe, 7, []uint32{
		f32bits(m[0][0]),
		f32bits(p1),
		f32bits(m[1][1]),
		f32bits(p3),
		f32bits(m[2][2]),
		f32bits(m[2][3]),
		uint32(kind),
	})
}

// Selects the position/normal matrix used by vertices without a matrix
// index attribute. Written on the next Begin
func (d *Device) SetCurrentMtx(idx PosMtx) {
	if idx > TEXMTX9 {
		panicFmt("gx: %d is not a position matrix", idx)
	}
	d.matIdxA = setBits(d.matIdxA, 0, 6, uint32(idx))
	d.matIdxDirty = true
}
