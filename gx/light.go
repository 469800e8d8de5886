package gx

// Where a lighting channel takes its ambient or material color from
type ColorSrc uint8

const (
	SRC_REG ColorSrc = 0 // the channel's ambient/material register
	SRC_VTX ColorSrc = 1 // the vertex color
)

// Diffuse function of a lighting channel
type DiffuseFn uint8

const (
	DF_NONE  DiffuseFn = 0
	DF_SIGN  DiffuseFn = 1
	DF_CLAMP DiffuseFn = 2
)

// Attenuation function of a lighting channel
type AttnFn uint8

const (
	AF_SPEC AttnFn = 0 // specular
	AF_SPOT AttnFn = 1 // distance and spotlight
	AF_NONE AttnFn = 2
)

// Bit mask of hardware lights
type LightMask uint8

const (
	LIGHT0 LightMask = 1 << iota
	LIGHT1
	LIGHT2
	LIGHT3
	LIGHT4
	LIGHT5
	LIGHT6
	LIGHT7
	LIGHT_NULL LightMask = 0
)

// Lighting channel control register of `ch`. COLOR0A0 and COLOR1A1 set the
// color and alpha halves of the channel together
func chanCtrlRegs(ch ChannelID) []XFReg {
	switch ch {
	case COLOR0:
		return []XFReg{XF_COLOR0CNTRL}
	case COLOR1:
		return []XFReg{XF_COLOR1CNTRL}
	case ALPHA0:
		return []XFReg{XF_ALPHA0CNTRL}
	case ALPHA1:
		return []XFReg{XF_ALPHA1CNTRL}
	case COLOR0A0:
		return []XFReg{XF_COLOR0CNTRL, XF_ALPHA0CNTRL}
	case COLOR1A1:
		return []XFReg{XF_COLOR1CNTRL, XF_ALPHA1CNTRL}
	}
	panicFmt("gx: channel %d has no lighting control", ch)
	return nil
}

// Returns 0 for the color 0 / alpha 0 channel pair, 1 for color 1 / alpha 1
func chanIndex(ch ChannelID) int {
	switch ch {
	case COLOR0, ALPHA0, COLOR0A0:
		return 0
	case COLOR1, ALPHA1, COLOR1A1:
		return 1
	}
	panicFmt("gx: channel %d has no color registers", ch)
	return 0
}

// Number of color channels output by the transform unit (0-2)
func (d *Device) SetNumChans(n int) {
	if n < 0 || n > 2 {
		panicFmt("gx: invalid number of color channels %d", n)
	}
	XF_NUMCOLORS.Load(d.pipe, uint32(n))
	d.genMode = setBits(d.genMode, genModeNumChanShift, 3, uint32(n))
	d.loadGenMode()
}

// Configures lighting for channel `ch`. With lighting disabled the
// channel outputs its material color
func (d *Device) SetChanCtrl(ch ChannelID, enable bool, ambSrc, matSrc ColorSrc, lights LightMask, diffFn DiffuseFn, attnFn AttnFn) {
	if attnFn == AF_SPEC {
		diffFn = DF_NONE
	}
	l := uint32(lights)
	val := uint32(matSrc&1) |
		oneIfTrue(enable)<<1 |
		(l&0x0f)<<2 |
		uint32(ambSrc&1)<<6 |
		uint32(diffFn&3)<<7 |
		oneIfTrue(attnFn != AF_NONE)<<9 |
		oneIfTrue(attnFn != AF_SPEC)<<10 |
		(l>>4&0x0f)<<11

	for _, reg := range chanCtrlRegs(ch) {
		reg.Load(d.pipe, val)
	}
}

// Sets the ambient color register of the channel pair `ch` belongs to
func (d *Device) SetChanAmbColor(ch ChannelID, c Color) {
	reg := XF_AMBIENT0 + XFReg(chanIndex(ch))
	reg.Load(d.pipe, packRGBA(c.R, c.G, c.B, c.A))
}

// Sets the material color register of the channel pair `ch` belongs to
func (d *Device) SetChanMatColor(ch ChannelID, c Color) {
	reg := XF_MATERIAL0 + XFReg(chanIndex(ch))
	reg.Load(d.pipe, packRGBA(c.R, c.G, c.B, c.A))
}
