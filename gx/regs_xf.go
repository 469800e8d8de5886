package gx

import "fmt"

// XF (transform unit) memory regions and registers
const (
	XF_POSMTX_BASE  XFReg = 0x0000 // position/texture matrix memory, 4 words per index unit
	XF_NRMMTX_BASE  XFReg = 0x0400 // normal matrix memory, 3 words per index unit
	XF_POSTMTX_BASE XFReg = 0x0500 // dual texture (post-transform) matrices
	XF_LIGHT_BASE   XFReg = 0x0600 // light parameters, 16 words per light

	XF_ERROR       XFReg = 0x1000
	XF_INVTXSPEC   XFReg = 0x1008 // number of colors/normals/texcoords in a vertex
	XF_NUMCOLORS   XFReg = 0x1009
	XF_AMBIENT0    XFReg = 0x100a
	XF_AMBIENT1    XFReg = 0x100b
	XF_MATERIAL0   XFReg = 0x100c
	XF_MATERIAL1   XFReg = 0x100d
	XF_COLOR0CNTRL XFReg = 0x100e
	XF_COLOR1CNTRL XFReg = 0x100f
	XF_ALPHA0CNTRL XFReg = 0x1010
	XF_ALPHA1CNTRL XFReg = 0x1011
	XF_DUALTEX     XFReg = 0x1012
	XF_MATINDEX_A  XFReg = 0x1018
	XF_MATINDEX_B  XFReg = 0x1019
	XF_VIEWPORT    XFReg = 0x101a // 6 words: scale x/y/z, offset x/y/z
	XF_PROJECTION  XFReg = 0x1020 // 6 parameters and the projection type
	XF_NUMTEX      XFReg = 0x103f
	XF_TEXGEN0     XFReg = 0x1040 // texcoord generation, one per texcoord
	XF_POSTMTX0    XFReg = 0x1050 // dual texture post matrix select, one per texcoord
)

// Sizes of the XF memory regions, in words
const (
	XF_POSMTX_WORDS  = 0x100
	XF_NRMMTX_WORDS  = 0x60
	XF_POSTMTX_WORDS = 0x100
	XF_LIGHT_WORDS   = 0x80
	XF_REG_WORDS     = 0x58
)

var (
	XF_POSMTX_RANGE  = NewRange(uint32(XF_POSMTX_BASE), XF_POSMTX_WORDS)
	XF_NRMMTX_RANGE  = NewRange(uint32(XF_NRMMTX_BASE), XF_NRMMTX_WORDS)
	XF_POSTMTX_RANGE = NewRange(uint32(XF_POSTMTX_BASE), XF_POSTMTX_WORDS)
	XF_LIGHT_BANK    = NewBank(uint32(XF_LIGHT_BASE), XF_LIGHT_WORDS/16, 16)
	XF_REG_RANGE     = NewRange(uint32(XF_ERROR), XF_REG_WORDS)
	XF_TEXGEN_RANGE  = NewRange(uint32(XF_TEXGEN0), MAX_TEXCOORD)
	XF_POSTMTX_SEL   = NewRange(uint32(XF_POSTMTX0), MAX_TEXCOORD)
)

// Position matrices are stored at index*4 words
func xfPosMtx(idx PosMtx) XFReg { return XF_POSMTX_BASE + XFReg(idx)<<2 }

// Normal matrices are 3x3 and stored at 0x400 + index*3 words
func xfNrmMtx(idx PosMtx) XFReg { return XF_NRMMTX_BASE | XFReg(idx)*3 }

func xfTexGen(tc TexCoordID) XFReg  { return XF_TEXGEN0 + XFReg(tc) }
func xfPostMtx(tc TexCoordID) XFReg { return XF_POSTMTX0 + XFReg(tc) }

var xfNames = map[XFReg]string{
	XF_ERROR:       "ERROR",
	XF_INVTXSPEC:   "INVTXSPEC",
	XF_NUMCOLORS:   "NUMCOLORS",
	XF_AMBIENT0:    "AMBIENT0",
	XF_AMBIENT1:    "AMBIENT1",
	XF_MATERIAL0:   "MATERIAL0",
	XF_MATERIAL1:   "MATERIAL1",
	XF_COLOR0CNTRL: "COLOR0CNTRL",
	XF_COLOR1CNTRL: "COLOR1CNTRL",
	XF_ALPHA0CNTRL: "ALPHA0CNTRL",
	XF_ALPHA1CNTRL: "ALPHA1CNTRL",
	XF_DUALTEX:     "DUALTEX",
	XF_MATINDEX_A:  "MATINDEX_A",
	XF_MATINDEX_B:  "MATINDEX_B",
	XF_VIEWPORT:    "VIEWPORT",
	XF_PROJECTION:  "PROJECTION",
	XF_NUMTEX:      "NUMTEX",
}

// Returns a printable name for an XF address
func (reg XFReg) String() string {
	if name, ok := xfNames[reg]; ok {
		return name
	}
	addr := uint32(reg)
	switch {
	case XF_POSMTX_RANGE.Contains(addr):
		return fmt.Sprintf("MTX[0x%03x]", addr)
	case XF_NRMMTX_RANGE.Contains(addr):
		return fmt.Sprintf("NRMMTX[0x%02x]", XF_NRMMTX_RANGE.Offset(addr))
	case XF_POSTMTX_RANGE.Contains(addr):
		return fmt.Sprintf("POSTMTX[0x%02x]", XF_POSTMTX_RANGE.Offset(addr))
	case XF_LIGHT_BANK.Contains(addr):
		light, word := XF_LIGHT_BANK.Entry(addr)
		return fmt.Sprintf("LIGHT%d[%d]", light, word)
	case XF_TEXGEN_RANGE.Contains(addr):
		return fmt.Sprintf("TEXGEN%d", XF_TEXGEN_RANGE.Offset(addr))
	case XF_POSTMTX_SEL.Contains(addr):
		return fmt.Sprintf("POSTMTX%d", XF_POSTMTX_SEL.Offset(addr))
	}
	return fmt.Sprintf("XF_0x%04x", addr)
}
