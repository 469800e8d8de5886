package gx

// PE_COPY_EXECUTE fields
const (
	COPY_CLAMP_TOP    = 1 << 0
	COPY_CLAMP_BOTTOM = 1 << 1

	copyYScaleEnable = 10
	copyClear        = 11
	copyToXFB        = 14
)

// Tallest external frame buffer a copy can produce
const MAX_XFB_LINES = 1024

// Default vertical filter: one tap of weight 64 (no filtering) in the
// center, encoded as the hardware expects it when no filter is set
const (
	copyVFilter0Default = 0x595000
	copyVFilter1Default = 0x000015
)

// Default anti-aliasing sample pattern, all samples in the pixel center
const copySampleDefault = 0x666666

// Sets the EFB rectangle copied by CopyDisp
func (d *Device) SetDispCopySrc(left, top, width, height uint16) {
	d.dispCopyTL = uint32(left)&0x3ff | (uint32(top)&0x3ff)<<10
	d.dispCopyWH = uint32(width-1)&0x3ff | (uint32(height-1)&0x3ff)<<10
}

// Sets the size of the external frame buffer. Only the width matters: the
// stride register holds the line size in 32 byte units, 2 bytes per pixel
func (d *Device) SetDispCopyDst(width, height uint16) {
	d.dispCopyDst = (uint32(width) * 2) >> 5
}

// Sets the vertical scale applied while copying, e.g. 574/528 for PAL.
// Returns the number of XFB lines the copy produces. Only the shadow is
// updated here; the scale register is written by the next CopyDisp
func (d *Device) SetDispCopyYScale(scale float32) uint32 {
	if scale <= 0 {
		panicFmt("gx: invalid copy Y scale %v", scale)
	}
	d.dispCopyYScl = uint32(256/scale) & 0x1ff
	d.dispCopyCntrl = setBits(d.dispCopyCntrl, copyYScaleEnable, 1, oneIfTrue(d.dispCopyYScl != 256))

	efbHeight := getBits(d.dispCopyWH, 10, 10) + 1
	return numXfbLines(efbHeight, d.dispCopyYScl)
}

// Number of lines the copy engine writes for `efbHeight` source lines at
// the 8.8 fixed point step `yscale`
func numXfbLines(efbHeight, yscale uint32) uint32 {
	if yscale == 0 {
		return efbHeight
	}
	lines := ((efbHeight-1)<<8)/yscale + 1
	if yscale > 0x80 && yscale < 0x100 {
		// odd part of the step: if it divides the height the last line
		// lands exactly on the edge and is written too
		odd := yscale
		for odd&1 == 0 {
			odd >>= 1
		}
		if efbHeight%odd == 0 {
			lines++
		}
	}
	return min(lines, MAX_XFB_LINES)
}

// Sets the anti-aliasing sample pattern (12 samples of x, y in 0-15 units)
// and the 7 tap vertical filter. Disabled parts load the defaults
func (d *Device) SetCopyFilter(aa bool, pattern [12][2]uint8, vf bool, vfilter [7]uint8) {
	for i := uint32(0); i < BP_COPY_SAMPLE_RANGE.Count; i++ {
		val := uint32(copySampleDefault)
		if aa {
			val = 0
			for s := uint32(0); s < 3; s++ {
				p := pattern[i*3+s]
				val |= uint32(p[0]&0xf)<<(s*8) | uint32(p[1]&0xf)<<(s*8+4)
			}
		}
		(BP_COPY_SAMPLE0 + BPReg(i)).Load(d.pipe, val)
	}

	v0, v1 := uint32(copyVFilter0Default), uint32(copyVFilter1Default)
	if vf {
		v0 = uint32(vfilter[0]&0x3f) | uint32(vfilter[1]&0x3f)<<6 |
			uint32(vfilter[2]&0x3f)<<12 | uint32(vfilter[3]&0x3f)<<18
		v1 = uint32(vfilter[4]&0x3f) | uint32(vfilter[5]&0x3f)<<6 |
			uint32(vfilter[6]&0x3f)<<12
	}
	BP_PE_COPY_VFILTER0.Load(d.pipe, v0)
	BP_PE_COPY_VFILTER1.Load(d.pipe, v1)
}

// Copies the EFB into the external frame buffer at `dst`, optionally
// clearing the EFB to the SetCopyClear color and depth. The clear goes
// through the pixel engine, so Z and color writes are forced on for the
// copy and the previous modes are written back afterwards
func (d *Device) CopyDisp(dst PhysAddr, clear bool) {
	assertAligned("frame buffer", dst)

	BP_PE_COPY_SRC_TL.Load(d.pipe, d.dispCopyTL)
	BP_PE_COPY_SRC_WH.Load(d.pipe, d.dispCopyWH)
	BP_PE_COPY_DST_STR.Load(d.pipe, d.dispCopyDst)
	BP_PE_COPY_DST_BASE.Load(d.pipe, uint32(dst)>>5)
	if d.dispCopyYScl != 256 && d.dispCopyYScl != 0 {
		BP_PE_COPY_SCALE.Load(d.pipe, d.dispCopyYScl)
	}

	if clear {
		BP_PE_ZMODE.Load(d.pipe, d.peZMode&^0xf|0xf)
		BP_PE_CMODE0.Load(d.pipe, d.peCMode0&^0x3)
	}

	cntrl := d.dispCopyCntrl
	cntrl = setBits(cntrl, copyClear, 1, oneIfTrue(clear))
	cntrl = setBits(cntrl, copyToXFB, 1, 1)
	BP_PE_COPY_EXECUTE.Load(d.pipe, cntrl)

	if clear {
		BP_PE_ZMODE.Load(d.pipe, d.peZMode)
		BP_PE_CMODE0.Load(d.pipe, d.peCMode0)
	}
}
