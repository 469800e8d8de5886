package gx

// Vertex attribute
type Attr uint8

const (
	VA_PTNMTXIDX Attr = iota
	VA_TEX0MTXIDX
	VA_TEX1MTXIDX
	VA_TEX2MTXIDX
	VA_TEX3MTXIDX
	VA_TEX4MTXIDX
	VA_TEX5MTXIDX
	VA_TEX6MTXIDX
	VA_TEX7MTXIDX
	VA_POS
	VA_NRM
	VA_CLR0
	VA_CLR1
	VA_TEX0
	VA_TEX1
	VA_TEX2
	VA_TEX3
	VA_TEX4
	VA_TEX5
	VA_TEX6
	VA_TEX7
	VA_POSMTXARRAY
	VA_NRMMTXARRAY
	VA_TEXMTXARRAY
	VA_LIGHTARRAY
	VA_NBT // normal, binormal and tangent
)

var attrNames = [...]string{
	"PTNMTXIDX", "TEX0MTXIDX", "TEX1MTXIDX", "TEX2MTXIDX", "TEX3MTXIDX",
	"TEX4MTXIDX", "TEX5MTXIDX", "TEX6MTXIDX", "TEX7MTXIDX",
	"POS", "NRM", "CLR0", "CLR1",
	"TEX0", "TEX1", "TEX2", "TEX3", "TEX4", "TEX5", "TEX6", "TEX7",
	"POSMTXARRAY", "NRMMTXARRAY", "TEXMTXARRAY", "LIGHTARRAY", "NBT",
}

func (a Attr) String() string {
	if int(a) < len(attrNames) {
		return attrNames[a]
	}
	return "UNKNOWN"
}

// How an attribute is sent in the vertex stream
type AttrType uint8

const (
	NONE    AttrType = 0 // not present
	DIRECT  AttrType = 1 // value inline
	INDEX8  AttrType = 2 // 8 bit index into the attribute's array
	INDEX16 AttrType = 3 // 16 bit index into the attribute's array
)

// Number of components of an attribute. The meaning depends on the
// attribute, so the values overlap
type CompCnt uint8

const (
	POS_XY   CompCnt = 0
	POS_XYZ  CompCnt = 1
	NRM_XYZ  CompCnt = 0
	NRM_NBT  CompCnt = 1
	NRM_NBT3 CompCnt = 2 // NBT with one index per vector
	CLR_RGB  CompCnt = 0
	CLR_RGBA CompCnt = 1
	TEX_S    CompCnt = 0
	TEX_ST   CompCnt = 1
)

// Component type of an attribute. Colors use the RGB565-RGBA8 values, the
// rest U8-F32
type CompType uint8

const (
	U8  CompType = 0
	S8  CompType = 1
	U16 CompType = 2
	S16 CompType = 3
	F32 CompType = 4

	RGB565 CompType = 0
	RGB8   CompType = 1
	RGBX8  CompType = 2
	RGBA4  CompType = 3
	RGBA6  CompType = 4
	RGBA8  CompType = 5
)

// Byte sizes of the numeric component types
var compSizes = [...]uint32{1, 1, 2, 2, 4}

// Byte sizes of the packed color types
var colorSizes = [...]uint32{2, 3, 4, 2, 3, 4}

// Removes every attribute from the vertex descriptor
func (d *Device) ClearVtxDesc() {
	d.vcdLo = 0
	d.vcdHi = 0
	d.vcdNrms = 0
	d.vcdDirty = true
}

// Sets how `attr` is sent in the vertex stream
func (d *Device) SetVtxDesc(attr Attr, kind AttrType) {
	k := uint32(kind & 3)
	switch {
	case attr == VA_PTNMTXIDX:
		d.vcdLo = setBits(d.vcdLo, 0, 1, oneIfTrue(kind != NONE))
	case attr >= VA_TEX0MTXIDX && attr <= VA_TEX7MTXIDX:
		d.vcdLo = setBits(d.vcdLo, uint(1+attr-VA_TEX0MTXIDX), 1, oneIfTrue(kind != NONE))
	case attr == VA_POS:
		d.vcdLo = setBits(d.vcdLo, 9, 2, k)
	case attr == VA_NRM:
		d.vcdLo = setBits(d.vcdLo, 11, 2, k)
		d.vcdNrms = oneIfTrue(kind != NONE)
	case attr == VA_NBT:
		d.vcdLo = setBits(d.vcdLo, 11, 2, k)
		if kind != NONE {
			d.vcdNrms = 2
		} else {
			d.vcdNrms = 0
		}
	case attr == VA_CLR0:
		d.vcdLo = setBits(d.vcdLo, 13, 2, k)
	case attr == VA_CLR1:
		d.vcdLo = setBits(d.vcdLo, 15, 2, k)
	case attr >= VA_TEX0 && attr <= VA_TEX7:
		d.vcdHi = setBits(d.vcdHi, uint(2*(attr-VA_TEX0)), 2, k)
	default:
		panicFmt("gx: attribute %s cannot be part of a vertex", attr)
	}
	d.vcdDirty = true
}

// The transform unit needs its own count of colors, normals and texcoords
func (d *Device) xfVtxSpec() uint32 {
	colors := uint32(0)
	if getBits(d.vcdLo, 13, 2) != 0 {
		colors++
	}
	if getBits(d.vcdLo, 15, 2) != 0 {
		colors++
	}
	texcoords := uint32(0)
	for tc := uint(0); tc < MAX_TEXCOORD; tc++ {
		if getBits(d.vcdHi, 2*tc, 2) != 0 {
			texcoords++
		}
	}
	return colors | d.vcdNrms<<2 | texcoords<<4
}

// Location of an attribute's count/type/frac fields in VAT A, B or C
type vatField struct {
	word     uint8 // 0 = A, 1 = B, 2 = C
	cnt, typ uint8 // bit positions, type is 3 bits
	fracWord uint8
	frac     uint8 // bit position of the 5 bit frac
	hasFrac  bool
}

var vatFields = map[Attr]vatField{
	VA_POS:  {word: 0, cnt: 0, typ: 1, fracWord: 0, frac: 4, hasFrac: true},
	VA_NRM:  {word: 0, cnt: 9, typ: 10},
	VA_NBT:  {word: 0, cnt: 9, typ: 10},
	VA_CLR0: {word: 0, cnt: 13, typ: 14},
	VA_CLR1: {word: 0, cnt: 17, typ: 18},
	VA_TEX0: {word: 0, cnt: 21, typ: 22, fracWord: 0, frac: 25, hasFrac: true},
	VA_TEX1: {word: 1, cnt: 0, typ: 1, fracWord: 1, frac: 4, hasFrac: true},
	VA_TEX2: {word: 1, cnt: 9, typ: 10, fracWord: 1, frac: 13, hasFrac: true},
	VA_TEX3: {word: 1, cnt: 18, typ: 19, fracWord: 1, frac: 22, hasFrac: true},
	VA_TEX4: {word: 1, cnt: 27, typ: 28, fracWord: 2, frac: 0, hasFrac: true},
	VA_TEX5: {word: 2, cnt: 5, typ: 6, fracWord: 2, frac: 9, hasFrac: true},
	VA_TEX6: {word: 2, cnt: 14, typ: 15, fracWord: 2, frac: 18, hasFrac: true},
	VA_TEX7: {word: 2, cnt: 23, typ: 24, fracWord: 2, frac: 27, hasFrac: true},
}

func (v *vatState) word(i uint8) *uint32 {
	switch i {
	case 0:
		return &v.A
	case 1:
		return &v.B
	}
	return &v.C
}

// VAT A bit 31: normal indices are sent once per vector of an NBT
const vatNormalIndex3 = 31

// Sets the component count, type and fixed point fraction bits of `attr`
// in vertex format `f`. Written on the next Begin
func (d *Device) SetVtxAttrFmt(f VtxFmt, attr Attr, cnt CompCnt, typ CompType, frac uint8) {
	if f >= MAX_VTXFMT {
		panicFmt("gx: invalid vertex format %d", f)
	}
	field, ok := vatFields[attr]
	if !ok {
		panicFmt("gx: attribute %s has no vertex format", attr)
	}
	vat := &d.vat[f]

	c := uint32(cnt)
	if attr == VA_NRM || attr == VA_NBT {
		// NBT3 is NBT plus the index-per-vector flag
		vat.A = setBits(vat.A, vatNormalIndex3, 1, oneIfTrue(cnt == NRM_NBT3))
		if cnt == NRM_NBT3 {
			c = uint32(NRM_NBT)
		}
	}
	w := vat.word(field.word)
	*w = setBits(*w, uint(field.cnt), 1, c)
	*w = setBits(*w, uint(field.typ), 3, uint32(typ))
	if field.hasFrac {
		fw := vat.word(field.fracWord)
		*fw = setBits(*fw, uint(field.frac), 5, uint32(frac))
	}
	d.vatDirty |= 1 << f
}

// Returns the array slot of `attr`. Attributes before VA_POS have no array
func arrayIndex(attr Attr) int {
	if attr < VA_POS || attr > VA_LIGHTARRAY {
		panicFmt("gx: attribute %s has no array", attr)
	}
	return int(attr - VA_POS)
}

// Points the array of `attr` at `addr`, `stride` bytes per element. The
// address must be 32 byte aligned
func (d *Device) SetArray(attr Attr, addr PhysAddr, stride uint8) {
	if attr == VA_NBT {
		attr = VA_NRM
	}
	idx := arrayIndex(attr)
	assertAligned("array", addr)
	cpArrayBase(idx).Load(d.pipe, uint32(addr))
	cpArrayStride(idx).Load(d.pipe, uint32(stride))
}

// Invalidates the post-transform vertex cache. Needed after modifying
// array data that was already drawn
func (d *Device) InvalidateVtxCache() {
	d.pipe.U8(CMD_INVAL_VTX)
}
