package gx

// Hardware limits
const (
	MAX_TEV_STAGES = 16 // TEV stages in the combiner chain
	MAX_VTXFMT     = 8  // vertex formats (VAT entries)
	MAX_TEXCOORD   = 8  // texture coordinates per vertex
	MAX_TEXMAP     = 8  // texture map slots
)

// Draw command opcode. The low 3 bits are or'ed with the vertex format
type Primitive uint8

const (
	PRIM_QUADS         Primitive = 0x80
	PRIM_QUADS2        Primitive = 0x88 // listed by the hardware docs, behaves like PRIM_QUADS
	PRIM_TRIANGLES     Primitive = 0x90
	PRIM_TRIANGLESTRIP Primitive = 0x98
	PRIM_TRIANGLEFAN   Primitive = 0xa0
	PRIM_LINES         Primitive = 0xa8
	PRIM_LINESTRIP     Primitive = 0xb0
	PRIM_POINTS        Primitive = 0xb8
)

var primitiveNames = map[Primitive]string{
	PRIM_QUADS:         "QUADS",
	PRIM_QUADS2:        "QUADS2",
	PRIM_TRIANGLES:     "TRIANGLES",
	PRIM_TRIANGLESTRIP: "TRIANGLESTRIP",
	PRIM_TRIANGLEFAN:   "TRIANGLEFAN",
	PRIM_LINES:         "LINES",
	PRIM_LINESTRIP:     "LINESTRIP",
	PRIM_POINTS:        "POINTS",
}

func (p Primitive) String() string {
	if name, ok := primitiveNames[p]; ok {
		return name
	}
	return "UNKNOWN"
}

// Returns true if `op` is a draw command opcode
func isDrawOpcode(op uint8) bool {
	return op >= uint8(PRIM_QUADS) && op <= uint8(PRIM_POINTS)|7
}

// Index of a vertex attribute table entry (0-7)
type VtxFmt uint8

const (
	VTXFMT0 VtxFmt = iota
	VTXFMT1
	VTXFMT2
	VTXFMT3
	VTXFMT4
	VTXFMT5
	VTXFMT6
	VTXFMT7
)

// Z / alpha compare function
type CompareFn uint8

const (
	COMPARE_NEVER   CompareFn = 0
	COMPARE_LESS    CompareFn = 1
	COMPARE_EQUAL   CompareFn = 2
	COMPARE_LEQUAL  CompareFn = 3
	COMPARE_GREATER CompareFn = 4
	COMPARE_NEQUAL  CompareFn = 5
	COMPARE_GEQUAL  CompareFn = 6
	COMPARE_ALWAYS  CompareFn = 7
)

// Pixel engine blend mode
type BlendMode uint8

const (
	BLEND_NONE     BlendMode = 0
	BLEND_BLEND    BlendMode = 1
	BLEND_LOGIC    BlendMode = 2
	BLEND_SUBTRACT BlendMode = 3
)

// Blend factor. Values 2 and 3 mean the destination color when used as
// source factor and the source color when used as destination factor
type BlendFactor uint8

const (
	BL_ZERO        BlendFactor = 0
	BL_ONE         BlendFactor = 1
	BL_SRCCLR      BlendFactor = 2
	BL_INVSRCCLR   BlendFactor = 3
	BL_SRCALPHA    BlendFactor = 4
	BL_INVSRCALPHA BlendFactor = 5
	BL_DSTALPHA    BlendFactor = 6
	BL_INVDSTALPHA BlendFactor = 7
	BL_DSTCLR                  = BL_SRCCLR
	BL_INVDSTCLR               = BL_INVSRCCLR
)

// Logic operation used by BLEND_LOGIC
type LogicOp uint8

const (
	LO_CLEAR   LogicOp = 0
	LO_AND     LogicOp = 1
	LO_REVAND  LogicOp = 2
	LO_COPY    LogicOp = 3
	LO_INVAND  LogicOp = 4
	LO_NOOP    LogicOp = 5
	LO_XOR     LogicOp = 6
	LO_OR      LogicOp = 7
	LO_NOR     LogicOp = 8
	LO_EQUIV   LogicOp = 9
	LO_INV     LogicOp = 10
	LO_REVOR   LogicOp = 11
	LO_INVCOPY LogicOp = 12
	LO_INVOR   LogicOp = 13
	LO_NAND    LogicOp = 14
	LO_SET     LogicOp = 15
)

// Embedded frame buffer pixel format
type PixelFmt uint8

const (
	PF_RGB8_Z24   PixelFmt = 0
	PF_RGBA6_Z24  PixelFmt = 1
	PF_RGB565_Z16 PixelFmt = 2
	PF_Z24        PixelFmt = 3
	PF_Y8         PixelFmt = 4
	PF_U8         PixelFmt = 5
	PF_V8         PixelFmt = 6
	PF_YUV420     PixelFmt = 7
)

// Compressed Z format, only meaningful with PF_RGB565_Z16
type ZFmt uint8

const (
	ZC_LINEAR ZFmt = 0
	ZC_NEAR   ZFmt = 1
	ZC_MID    ZFmt = 2
	ZC_FAR    ZFmt = 3
)

// Combines the two alpha compare results
type AlphaOp uint8

const (
	AOP_AND  AlphaOp = 0
	AOP_OR   AlphaOp = 1
	AOP_XOR  AlphaOp = 2
	AOP_XNOR AlphaOp = 3
)

// Polygon culling
type CullMode uint8

const (
	CULL_NONE  CullMode = 0
	CULL_FRONT CullMode = 1
	CULL_BACK  CullMode = 2
	CULL_ALL   CullMode = 3
)

// The setup unit numbers front/back the other way round
var cullModeHW = [4]uint32{0, 2, 1, 3}

// Kind of projection loaded with LoadProjectionMtx. The value is the flag
// written in the last word of the XF projection block
type ProjectionType uint8

const (
	PERSPECTIVE  ProjectionType = 0
	ORTHOGRAPHIC ProjectionType = 1
)

// Index into XF matrix memory, in units of 4 words (position/texture) or 3
// words (normal). Position/normal matrices are 3 units apart
type PosMtx uint8

const (
	PNMTX0 PosMtx = 3 * iota
	PNMTX1
	PNMTX2
	PNMTX3
	PNMTX4
	PNMTX5
	PNMTX6
	PNMTX7
	PNMTX8
	PNMTX9
)

const (
	TEXMTX0 PosMtx = 30 + 3*iota
	TEXMTX1
	TEXMTX2
	TEXMTX3
	TEXMTX4
	TEXMTX5
	TEXMTX6
	TEXMTX7
	TEXMTX8
	TEXMTX9
	IDENTITY PosMtx = 60
)

// Post-transform (dual texture) matrices. These live in their own XF region
const (
	DTTMTX0     PosMtx = 64
	DTTIDENTITY PosMtx = 125
)

// Returns post-transform matrix n (0-19)
func DTTMtx(n int) PosMtx {
	if n < 0 || n > 19 {
		panicFmt("gx: post-transform matrix %d out of range", n)
	}
	return DTTMTX0 + PosMtx(3*n)
}

// Shape of a texture matrix
type TexMtxType uint8

const (
	MTX_3x4 TexMtxType = 0
	MTX_2x4 TexMtxType = 1
)

// 3x4 row-major matrix: rotation/scale in the first three columns,
// translation in the last
type Mtx34 [3][4]float32

// 4x4 row-major matrix
type Mtx44 [4][4]float32

// Video geometry supplied by the video interface: the embedded frame buffer
// size and the external frame buffer height it is copied to
type RenderMode struct {
	FBWidth   uint16 // Width of the EFB and XFB in pixels
	EFBHeight uint16 // Height of the embedded frame buffer
	XFBHeight uint16 // Height of the external frame buffer
}

var (
	// 640x480 NTSC progressive
	RENDER_MODE_NTSC_480P = RenderMode{FBWidth: 640, EFBHeight: 480, XFBHeight: 480}
	// 640x528 PAL interlaced
	RENDER_MODE_PAL_528I = RenderMode{FBWidth: 640, EFBHeight: 528, XFBHeight: 574}
)
