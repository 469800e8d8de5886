package gx

// Texture coordinate slot (0-7)
type TexCoordID uint8

const (
	TEXCOORD0 TexCoordID = iota
	TEXCOORD1
	TEXCOORD2
	TEXCOORD3
	TEXCOORD4
	TEXCOORD5
	TEXCOORD6
	TEXCOORD7
	// No coordinate. TEV orders read coordinate 0, texgens ignore it
	TEXCOORDNULL TexCoordID = 0xff
)

// How a texture coordinate is generated
type TexGenType uint8

const (
	TG_MTX3x4 TexGenType = 0 // 3x4 matrix transform, projected
	TG_MTX2x4 TexGenType = 1 // 2x4 matrix transform
	TG_BUMP0  TexGenType = 2 // emboss bump mapping with light 0-7
	TG_BUMP1  TexGenType = 3
	TG_BUMP2  TexGenType = 4
	TG_BUMP3  TexGenType = 5
	TG_BUMP4  TexGenType = 6
	TG_BUMP5  TexGenType = 7
	TG_BUMP6  TexGenType = 8
	TG_BUMP7  TexGenType = 9
	TG_SRTG   TexGenType = 10 // color channel as coordinate (toon shading)
)

// Source of a generated texture coordinate
type TexGenSrc uint8

const (
	TG_POS TexGenSrc = iota
	TG_NRM
	TG_BINRM
	TG_TANGENT
	TG_TEX0
	TG_TEX1
	TG_TEX2
	TG_TEX3
	TG_TEX4
	TG_TEX5
	TG_TEX6
	TG_TEX7
	TG_TEXCOORD0 // output of an earlier texgen, for bump mapping
	TG_TEXCOORD1
	TG_TEXCOORD2
	TG_TEXCOORD3
	TG_TEXCOORD4
	TG_TEXCOORD5
	TG_TEXCOORD6
	TG_COLOR0
	TG_COLOR1
)

// Transform unit input row of each source
const (
	texGenRowPos     = 0
	texGenRowNrm     = 1
	texGenRowColor   = 2
	texGenRowBinrm   = 3
	texGenRowTangent = 4
	texGenRowTex0    = 5
)

// XF texgen type field
const (
	xfTexGenRegular   = 0
	xfTexGenEmboss    = 1
	xfTexGenColorSRTG = 2
)

// Texgen word field positions
const (
	texGenProjShift   = 1
	texGenFormShift   = 2
	texGenTypeShift   = 4
	texGenRowShift    = 7
	texGenEmbSrcShift = 12
	texGenEmbLitShift = 15
)

// Number of texture coordinates generated per vertex (0-8)
func (d *Device) SetNumTexGens(n int) {
	if n < 0 || n > MAX_TEXCOORD {
		panicFmt("gx: invalid number of texgens %d", n)
	}
	XF_NUMTEX.Load(d.pipe, uint32(n))
	d.genMode = setBits(d.genMode, genModeNumTexShift, 4, uint32(n))
	d.loadGenMode()
}

// Configures generation of texture coordinate `tc`: `typ` applied to
// `src` with texture matrix `mtx`. The post-transform matrix is selected
// with SetTexCoordGenPost
func (d *Device) SetTexCoordGen(tc TexCoordID, typ TexGenType, src TexGenSrc, mtx PosMtx) {
	d.SetTexCoordGenPost(tc, typ, src, mtx, false, DTTIDENTITY)
}

// Same as SetTexCoordGen with a normalization step and a post-transform
// matrix applied after the texture matrix
func (d *Device) SetTexCoordGenPost(tc TexCoordID, typ TexGenType, src TexGenSrc, mtx PosMtx, normalize bool, postMtx PosMtx) {
	if tc == TEXCOORDNULL {
		return
	}
	if tc >= MAX_TEXCOORD {
		panicFmt("gx: invalid texcoord %d", tc)
	}
	if postMtx < DTTMTX0 || postMtx > DTTIDENTITY {
		panicFmt("gx: %d is not a post-transform matrix", postMtx)
	}

	var row uint32
	abc1 := false
	switch {
	case src == TG_POS:
		row, abc1 = texGenRowPos, true
	case src == TG_NRM:
		row, abc1 = texGenRowNrm, true
	case src == TG_BINRM:
		row, abc1 = texGenRowBinrm, true
	case src == TG_TANGENT:
		row, abc1 = texGenRowTangent, true
	case src >= TG_TEX0 && src <= TG_TEX7:
		row = texGenRowTex0 + uint32(src-TG_TEX0)
	case src >= TG_TEXCOORD0 && src <= TG_TEXCOORD6:
		row = texGenRowTex0
	case src == TG_COLOR0 || src == TG_COLOR1:
		row = texGenRowColor
	default:
		panicFmt("gx: invalid texgen source %d", src)
	}

	var val uint32
	switch {
	case typ == TG_MTX3x4 || typ == TG_MTX2x4:
		val = setBits(val, texGenProjShift, 1, oneIfTrue(typ == TG_MTX3x4))
		val = setBits(val, texGenFormShift, 1, oneIfTrue(abc1))
		val = setBits(val, texGenTypeShift, 3, xfTexGenRegular)
		val = setBits(val, texGenRowShift, 5, row)
	case typ >= TG_BUMP0 && typ <= TG_BUMP7:
		if src < TG_TEXCOORD0 || src > TG_TEXCOORD6 {
			panicFmt("gx: bump texgen needs a texcoord source, got %d", src)
		}
		val = setBits(val, texGenFormShift, 1, oneIfTrue(abc1))
		val = setBits(val, texGenTypeShift, 3, xfTexGenEmboss)
		val = setBits(val, texGenRowShift, 5, row)
		val = setBits(val, texGenEmbSrcShift, 3, uint32(src-TG_TEXCOORD0))
		val = setBits(val, texGenEmbLitShift, 3, uint32(typ-TG_BUMP0))
	case typ == TG_SRTG:
		ch := uint32(0)
		if src == TG_COLOR1 {
			ch = 1
		}
		val = setBits(val, texGenTypeShift, 3, xfTexGenColorSRTG+ch)
		val = setBits(val, texGenRowShift, 5, texGenRowColor)
	default:
		panicFmt("gx: invalid texgen type %d", typ)
	}

	xfTexGen(tc).Load(d.pipe, val)
	xfPostMtx(tc).Load(d.pipe, uint32(postMtx-DTTMTX0)&0x3f|oneIfTrue(normalize)<<8)

	// texture matrix index for this texcoord, written on the next Begin
	if tc < 4 {
		d.matIdxA = setBits(d.matIdxA, uint(6+6*tc), 6, uint32(mtx))
	} else {
		d.matIdxB = setBits(d.matIdxB, uint(6*(tc-4)), 6, uint32(mtx))
	}
	d.matIdxDirty = true
}
