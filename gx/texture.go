package gx

import (
	"fmt"
	"math"
)

// Texel format
type TexFmt uint8

const (
	TF_I4     TexFmt = 0x0
	TF_I8     TexFmt = 0x1
	TF_IA4    TexFmt = 0x2
	TF_IA8    TexFmt = 0x3
	TF_RGB565 TexFmt = 0x4
	TF_RGB5A3 TexFmt = 0x5
	TF_RGBA8  TexFmt = 0x6
	TF_CI4    TexFmt = 0x8
	TF_CI8    TexFmt = 0x9
	TF_CI14   TexFmt = 0xa
	TF_CMPR   TexFmt = 0xe
)

var texFmtNames = map[TexFmt]string{
	TF_I4:     "I4",
	TF_I8:     "I8",
	TF_IA4:    "IA4",
	TF_IA8:    "IA8",
	TF_RGB565: "RGB565",
	TF_RGB5A3: "RGB5A3",
	TF_RGBA8:  "RGBA8",
	TF_CI4:    "CI4",
	TF_CI8:    "CI8",
	TF_CI14:   "CI14",
	TF_CMPR:   "CMPR",
}

func (f TexFmt) String() string {
	if name, ok := texFmtNames[f]; ok {
		return name
	}
	return fmt.Sprintf("TexFmt(0x%x)", uint8(f))
}

// Texture wrap mode
type WrapMode uint8

const (
	CLAMP  WrapMode = 0
	REPEAT WrapMode = 1
	MIRROR WrapMode = 2
)

// Texture filter
type TexFilter uint8

const (
	NEAR          TexFilter = 0
	LINEAR        TexFilter = 1
	NEAR_MIP_NEAR TexFilter = 2
	LIN_MIP_NEAR  TexFilter = 3
	NEAR_MIP_LIN  TexFilter = 4
	LIN_MIP_LIN   TexFilter = 5
)

// The mode register orders the min filters by mip mode first
var minFilterHW = [...]uint32{0, 4, 1, 5, 2, 6}

// Maximum anisotropy
type Anisotropy uint8

const (
	ANISO_1 Anisotropy = 0
	ANISO_2 Anisotropy = 1
	ANISO_4 Anisotropy = 2
)

// Largest texture edge in texels
const MAX_TEX_SIZE = 1024

// Size of the texture cache (TMEM) region given to each map, per bank
const tmemRegionSize = 0x10000

// Offset of the odd TMEM bank inside a region
const tmemOddOffset = 0x8000

// Cache size field value for 32KB, used for both the width and height of
// the even and odd cache regions
const tmemCache32K = 3

// A texture description. It holds no texel data; the texels must already
// be in memory at Addr
type TexObj struct {
	Addr      PhysAddr
	Width     uint16
	Height    uint16
	Format    TexFmt
	WrapS     WrapMode
	WrapT     WrapMode
	MinFilter TexFilter
	MagFilter TexFilter
	MinLOD    float32
	MaxLOD    float32
	LODBias   float32
	EdgeLOD   bool
	BiasClamp bool
	MaxAniso  Anisotropy
	Mipmap    bool
}

// Returns a texture of `width` x `height` texels of format `f` stored at
// `addr`. The address must be 32 byte aligned and both sizes in 1-1024.
// Mipmapped textures start with trilinear filtering and the full LOD range,
// others with linear filtering and LOD 0
func NewTexObj(addr PhysAddr, width, height uint16, f TexFmt, wrapS, wrapT WrapMode, mipmap bool) (*TexObj, error) {
	if !isAligned32(addr) {
		return nil, fmt.Errorf("%w: texture at 0x%08x", ErrMisaligned, uint32(addr))
	}
	if width < 1 || width > MAX_TEX_SIZE || height < 1 || height > MAX_TEX_SIZE {
		return nil, fmt.Errorf("%w: %dx%d", ErrTexSize, width, height)
	}
	if _, ok := texFmtNames[f]; !ok {
		return nil, fmt.Errorf("gx: unknown texture format %s", f)
	}

	obj := &TexObj{
		Addr:      addr,
		Width:     width,
		Height:    height,
		Format:    f,
		WrapS:     wrapS,
		WrapT:     wrapT,
		MinFilter: LINEAR,
		MagFilter: LINEAR,
		EdgeLOD:   true,
		BiasClamp: false,
		MaxAniso:  ANISO_1,
		Mipmap:    mipmap,
	}
	if mipmap {
		obj.MinFilter = LIN_MIP_LIN
		levels := math.Log2(float64(max(width, height)))
		obj.MaxLOD = float32(math.Floor(levels))
	}
	return obj, nil
}

// Sets the LOD parameters in one go
func (obj *TexObj) InitTexObjLOD(minFilt, magFilt TexFilter, minLOD, maxLOD, lodBias float32, biasClamp, edgeLOD bool, aniso Anisotropy) {
	obj.MinFilter = minFilt
	obj.MagFilter = magFilt
	obj.MinLOD = minLOD
	obj.MaxLOD = maxLOD
	obj.LODBias = lodBias
	obj.BiasClamp = biasClamp
	obj.EdgeLOD = edgeLOD
	obj.MaxAniso = aniso
}

// Sets the minification and magnification filters
func (obj *TexObj) SetFilterMode(minFilt, magFilt TexFilter) {
	obj.MinFilter = minFilt
	obj.MagFilter = magFilt
}

// Packs TX_SETMODE0
func (obj *TexObj) mode0() uint32 {
	if int(obj.MinFilter) >= len(minFilterHW) {
		panicFmt("gx: invalid min filter %d", obj.MinFilter)
	}
	bias := int8(clampFloat(obj.LODBias, -4, 3.99) * 32)

	var reg uint32
	reg = setBits(reg, 0, 2, uint32(obj.WrapS))
	reg = setBits(reg, 2, 2, uint32(obj.WrapT))
	reg = setBits(reg, 4, 1, oneIfTrue(obj.MagFilter == LINEAR))
	reg = setBits(reg, 5, 3, minFilterHW[obj.MinFilter])
	reg = setBits(reg, 8, 1, oneIfTrue(!obj.EdgeLOD))
	reg = setBits(reg, 9, 8, uint32(uint8(bias)))
	reg = setBits(reg, 19, 2, uint32(obj.MaxAniso))
	reg = setBits(reg, 21, 1, oneIfTrue(obj.BiasClamp))
	return reg
}

// Packs TX_SETMODE1. LODs are 4.4 fixed point
func (obj *TexObj) mode1() uint32 {
	minLOD := uint32(clampFloat(obj.MinLOD, 0, 10) * 16)
	maxLOD := uint32(clampFloat(obj.MaxLOD, 0, 10) * 16)
	return minLOD&0xff | (maxLOD&0xff)<<8
}

// Packs TX_SETIMAGE0
func (obj *TexObj) image0() uint32 {
	return uint32(obj.Width-1)&0x3ff |
		(uint32(obj.Height-1)&0x3ff)<<10 |
		(uint32(obj.Format)&0xf)<<20
}

// Packs TX_SETIMAGE1/TX_SETIMAGE2: a TMEM address in 32 byte units and
// 32KB cache regions
func tmemImage(base uint32) uint32 {
	return (base>>5)&0x7fff | tmemCache32K<<15 | tmemCache32K<<18
}

// Returns the BP register of kind `first` (a TX_*_I0 register) for `tex`
func txReg(first BPReg, tex TexMap) BPReg {
	if tex.id < 4 {
		return first + BPReg(tex.id)
	}
	return first + (BP_TX_SETMODE0_I4 - BP_TX_SETMODE0_I0) + BPReg(tex.id-4)
}

// Binds `obj` to texture map `tex`: mode, LOD, size and format, TMEM
// regions, then the image address
func (d *Device) LoadTexObj(obj *TexObj, tex TexMap) {
	assertAligned("texture", obj.Addr)
	if obj.Width < 1 || obj.Width > MAX_TEX_SIZE || obj.Height < 1 || obj.Height > MAX_TEX_SIZE {
		panicFmt("gx: invalid texture size %dx%d", obj.Width, obj.Height)
	}

	region := uint32(tex.id) * tmemRegionSize
	txReg(BP_TX_SETMODE0_I0, tex).Load(d.pipe, obj.mode0())
	txReg(BP_TX_SETMODE1_I0, tex).Load(d.pipe, obj.mode1())
	txReg(BP_TX_SETIMAGE0_I0, tex).Load(d.pipe, obj.image0())
	txReg(BP_TX_SETIMAGE1_I0, tex).Load(d.pipe, tmemImage(region))
	txReg(BP_TX_SETIMAGE2_I0, tex).Load(d.pipe, tmemImage(region+tmemOddOffset))
	txReg(BP_TX_SETIMAGE3_I0, tex).Load(d.pipe, uint32(obj.Addr)>>5)
}

// Values written to TX_INVALIDATE to drop every cached texture line
const (
	txInvalidateAll0 = 0x001000
	txInvalidateAll1 = 0x001100
)

// Drops every texture from the texture cache. Needed when texel data in
// memory changed after it was drawn
func (d *Device) InvalidateTexAll() {
	BP_TX_INVALIDATE.Load(d.pipe, txInvalidateAll0)
	BP_TX_INVALIDATE.Load(d.pipe, txInvalidateAll1)
}

// Fields of a TX_SETIMAGE0 value
type TexImage0 struct {
	Width  uint16
	Height uint16
	Format TexFmt
}

// Unpacks a TX_SETIMAGE0 value
func DecodeTexImage0(val uint32) TexImage0 {
	return TexImage0{
		Width:  uint16(getBits(val, 0, 10)) + 1,
		Height: uint16(getBits(val, 10, 10)) + 1,
		Format: TexFmt(getBits(val, 20, 4)),
	}
}

// Fields of a TX_SETMODE0 value
type TexMode0 struct {
	WrapS     WrapMode
	WrapT     WrapMode
	MagFilter TexFilter
	MinFilter TexFilter
	EdgeLOD   bool
	LODBias   float32
	MaxAniso  Anisotropy
	BiasClamp bool
}

// Unpacks a TX_SETMODE0 value
func DecodeTexMode0(val uint32) TexMode0 {
	m := TexMode0{
		WrapS:     WrapMode(getBits(val, 0, 2)),
		WrapT:     WrapMode(getBits(val, 2, 2)),
		MagFilter: TexFilter(getBits(val, 4, 1)),
		EdgeLOD:   getBits(val, 8, 1) == 0,
		LODBias:   float32(int8(getBits(val, 9, 8))) / 32,
		MaxAniso:  Anisotropy(getBits(val, 19, 2)),
		BiasClamp: getBits(val, 21, 1) != 0,
	}
	hw := getBits(val, 5, 3)
	for filt, v := range minFilterHW {
		if v == hw {
			m.MinFilter = TexFilter(filt)
			break
		}
	}
	return m
}

// Returns which texture map a TX bank register belongs to and which
// register kind it is (0 = SETMODE0 ... 6 = SETTLUT). ok is false for
// addresses outside both banks
func TexRegMap(reg BPReg) (tex TexMap, kind int, ok bool) {
	addr := uint32(reg)
	switch {
	case BP_TX_BANK0.Contains(addr):
		k, idx := BP_TX_BANK0.Entry(addr)
		return TexMap{uint8(idx)}, int(k), true
	case BP_TX_BANK1.Contains(addr):
		k, idx := BP_TX_BANK1.Entry(addr)
		return TexMap{uint8(idx + 4)}, int(k), true
	}
	return TexMap{}, 0, false
}
