package gx

// An 8 bit per component color
type Color struct {
	R, G, B, A uint8
}

var (
	CLEAR_BLACK = Color{0, 0, 0, 0xff}
	CLEAR_WHITE = Color{0xff, 0xff, 0xff, 0xff}
)

// Largest Z value of the 24 bit depth buffer
const MAX_Z24 = 0x00ffffff

// GEN_MODE fields
const (
	genModeNumTexShift  = 0
	genModeNumChanShift = 4
	genModeNumTevShift  = 10
	genModeCullShift    = 14
)

// PE_CMODE0 fields
const (
	cmode0BlendEnable = 0
	cmode0LogicEnable = 1
	cmode0Dither      = 2
	cmode0ColorUpdate = 3
	cmode0AlphaUpdate = 4
	cmode0DstShift    = 5
	cmode0SrcShift    = 8
	cmode0Subtract    = 11
	cmode0LogicShift  = 12
)

// Sets the color and depth the EFB is cleared to by CopyDisp. Writes
// alpha/red, blue/green and then Z
func (d *Device) SetCopyClear(c Color, z uint32) {
	BP_PE_CLEAR_AR.Load(d.pipe, uint32(c.A)<<8|uint32(c.R))
	BP_PE_CLEAR_GB.Load(d.pipe, uint32(c.B)<<8|uint32(c.G))
	BP_PE_CLEAR_Z.Load(d.pipe, z&MAX_Z24)
}

// Configures the depth test
func (d *Device) SetZMode(enable bool, fn CompareFn, update bool) {
	d.peZMode = oneIfTrue(enable) | uint32(fn&7)<<1 | oneIfTrue(update)<<4
	BP_PE_ZMODE.Load(d.pipe, d.peZMode)
}

// Configures how fragments are combined with the EFB. BLEND_SUBTRACT
// ignores the factors and computes dst - src
func (d *Device) SetBlendMode(mode BlendMode, src, dst BlendFactor, op LogicOp) {
	reg := d.peCMode0
	reg = setBits(reg, cmode0BlendEnable, 1, oneIfTrue(mode == BLEND_BLEND || mode == BLEND_SUBTRACT))
	reg = setBits(reg, cmode0LogicEnable, 1, oneIfTrue(mode == BLEND_LOGIC))
	reg = setBits(reg, cmode0Subtract, 1, oneIfTrue(mode == BLEND_SUBTRACT))
	reg = setBits(reg, cmode0DstShift, 3, uint32(dst))
	reg = setBits(reg, cmode0SrcShift, 3, uint32(src))
	reg = setBits(reg, cmode0LogicShift, 4, uint32(op))
	d.peCMode0 = reg
	BP_PE_CMODE0.Load(d.pipe, reg)
}

// Enables or disables writes to the EFB color
func (d *Device) SetColorUpdate(enable bool) {
	d.peCMode0 = setBits(d.peCMode0, cmode0ColorUpdate, 1, oneIfTrue(enable))
	BP_PE_CMODE0.Load(d.pipe, d.peCMode0)
}

// Enables or disables writes to the EFB alpha
func (d *Device) SetAlphaUpdate(enable bool) {
	d.peCMode0 = setBits(d.peCMode0, cmode0AlphaUpdate, 1, oneIfTrue(enable))
	BP_PE_CMODE0.Load(d.pipe, d.peCMode0)
}

func (d *Device) SetDither(enable bool) {
	d.peCMode0 = setBits(d.peCMode0, cmode0Dither, 1, oneIfTrue(enable))
	BP_PE_CMODE0.Load(d.pipe, d.peCMode0)
}

// Sets a constant destination alpha written instead of the fragment alpha
func (d *Device) SetDstAlpha(enable bool, alpha uint8) {
	d.peCMode1 = uint32(alpha) | oneIfTrue(enable)<<8
	BP_PE_CMODE1.Load(d.pipe, d.peCMode1)
}

// Sets the EFB pixel format. `z` is only used by PF_RGB565_Z16
func (d *Device) SetPixelFmt(pix PixelFmt, z ZFmt) {
	d.peCntrl = setBits(d.peCntrl, 0, 3, uint32(pix))
	d.peCntrl = setBits(d.peCntrl, 3, 3, uint32(z))
	BP_PE_CONTROL.Load(d.pipe, d.peCntrl)
}

// Selects whether the depth test runs before (true) or after texturing.
// Alpha tested geometry needs the late test
func (d *Device) SetZCompLoc(before bool) {
	d.peCntrl = setBits(d.peCntrl, 6, 1, oneIfTrue(before))
	BP_PE_CONTROL.Load(d.pipe, d.peCntrl)
}

// Sets which polygon faces are discarded
func (d *Device) SetCullMode(mode CullMode) {
	d.genMode = setBits(d.genMode, genModeCullShift, 2, cullModeHW[mode&3])
	d.loadGenMode()
}

// Sets the line width and point size in 1/6 pixel units
func (d *Device) SetLinePointSize(lineWidth, pointSize uint8) {
	BP_SU_LPSIZE.Load(d.pipe, uint32(lineWidth)|uint32(pointSize)<<8)
}
