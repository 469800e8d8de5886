package gx

// Preset TEV configurations for SetTevOp
type TevMode uint8

const (
	TEV_MODULATE TevMode = iota // texture * rasterized color
	TEV_DECAL                   // texture alpha blends texture over rasterized color
	TEV_BLEND                   // rasterized color blended towards white by the texture
	TEV_REPLACE                 // texture only
	TEV_PASSCLR                 // rasterized color only
)

// Color combiner input
type TevColorArg uint8

const (
	CC_CPREV TevColorArg = 0
	CC_APREV TevColorArg = 1
	CC_C0    TevColorArg = 2
	CC_A0    TevColorArg = 3
	CC_C1    TevColorArg = 4
	CC_A1    TevColorArg = 5
	CC_C2    TevColorArg = 6
	CC_A2    TevColorArg = 7
	CC_TEXC  TevColorArg = 8
	CC_TEXA  TevColorArg = 9
	CC_RASC  TevColorArg = 10
	CC_RASA  TevColorArg = 11
	CC_ONE   TevColorArg = 12
	CC_HALF  TevColorArg = 13
	CC_KONST TevColorArg = 14
	CC_ZERO  TevColorArg = 15
)

// Alpha combiner input
type TevAlphaArg uint8

const (
	CA_APREV TevAlphaArg = 0
	CA_A0    TevAlphaArg = 1
	CA_A1    TevAlphaArg = 2
	CA_A2    TevAlphaArg = 3
	CA_TEXA  TevAlphaArg = 4
	CA_RASA  TevAlphaArg = 5
	CA_KONST TevAlphaArg = 6
	CA_ZERO  TevAlphaArg = 7
)

// Combiner operation: d op ((1-c)*a + c*b)
type TevOp uint8

const (
	TEV_ADD TevOp = 0
	TEV_SUB TevOp = 1
)

type TevBias uint8

const (
	TB_ZERO    TevBias = 0
	TB_ADDHALF TevBias = 1
	TB_SUBHALF TevBias = 2
)

type TevScale uint8

const (
	CS_SCALE_1  TevScale = 0
	CS_SCALE_2  TevScale = 1
	CS_SCALE_4  TevScale = 2
	CS_DIVIDE_2 TevScale = 3
)

// TEV color register, used both as a combiner output and as a constant
// color loaded with SetTevColor
type TevReg uint8

const (
	TEVPREV TevReg = 0
	TEVREG0 TevReg = 1
	TEVREG1 TevReg = 2
	TEVREG2 TevReg = 3
)

// Rasterized color feeding a TEV stage
type ChannelID uint8

const (
	COLOR0      ChannelID = 0
	COLOR1      ChannelID = 1
	ALPHA0      ChannelID = 2
	ALPHA1      ChannelID = 3
	COLOR0A0    ChannelID = 4
	COLOR1A1    ChannelID = 5
	COLORZERO   ChannelID = 6
	ALPHA_BUMP  ChannelID = 7
	ALPHA_BUMPN ChannelID = 8
	COLORNULL   ChannelID = 0xff
)

// Hardware encoding of each ChannelID in the TEV order register
var channelHW = [...]uint32{0, 1, 0, 1, 0, 1, 7, 5, 6}

const colorNullHW = 7

func (c ChannelID) hw() uint32 {
	if c == COLORNULL {
		return colorNullHW
	}
	if int(c) >= len(channelHW) {
		panicFmt("gx: invalid color channel %d", c)
	}
	return channelHW[c]
}

// Color combiner field positions (TEV_COLOR_ENV)
const (
	tevColorDShift = 0
	tevColorCShift = 4
	tevColorBShift = 8
	tevColorAShift = 12

	tevBiasShift  = 16
	tevOpShift    = 18
	tevClampShift = 19
	tevScaleShift = 20
	tevDestShift  = 22
)

// Alpha combiner field positions (TEV_ALPHA_ENV). bias/op/clamp/scale/dest
// are shared with the color combiner
const (
	tevAlphaRSwapShift = 0
	tevAlphaTSwapShift = 2
	tevAlphaDShift     = 4
	tevAlphaCShift     = 7
	tevAlphaBShift     = 10
	tevAlphaAShift     = 13
)

type tevModeArgs struct {
	color [4]TevColorArg
	alpha [4]TevAlphaArg
}

// Inputs a, b, c, d of each preset mode. CC_RASC/CA_RASA are replaced by
// CC_CPREV/CA_APREV on every stage but the first
var tevModes = [...]tevModeArgs{
	TEV_MODULATE: {
		color: [4]TevColorArg{CC_ZERO, CC_TEXC, CC_RASC, CC_ZERO},
		alpha: [4]TevAlphaArg{CA_ZERO, CA_TEXA, CA_RASA, CA_ZERO},
	},
	TEV_DECAL: {
		color: [4]TevColorArg{CC_RASC, CC_TEXC, CC_TEXA, CC_ZERO},
		alpha: [4]TevAlphaArg{CA_ZERO, CA_ZERO, CA_ZERO, CA_RASA},
	},
	TEV_BLEND: {
		color: [4]TevColorArg{CC_RASC, CC_ONE, CC_TEXC, CC_ZERO},
		alpha: [4]TevAlphaArg{CA_ZERO, CA_TEXA, CA_RASA, CA_ZERO},
	},
	TEV_REPLACE: {
		color: [4]TevColorArg{CC_ZERO, CC_ZERO, CC_ZERO, CC_TEXC},
		alpha: [4]TevAlphaArg{CA_ZERO, CA_ZERO, CA_ZERO, CA_TEXA},
	},
	TEV_PASSCLR: {
		color: [4]TevColorArg{CC_ZERO, CC_ZERO, CC_ZERO, CC_RASC},
		alpha: [4]TevAlphaArg{CA_ZERO, CA_ZERO, CA_ZERO, CA_RASA},
	},
}

// Configures `stage` with one of the preset modes: inputs, and an
// unbiased, unscaled, clamped addition into TEVPREV. Writes the color
// combiner then the alpha combiner
func (d *Device) SetTevOp(stage TevStage, mode TevMode) {
	if int(mode) >= len(tevModes) {
		panicFmt("gx: invalid TEV mode %d", mode)
	}
	args := tevModes[mode]
	if stage.n > 0 {
		for i, a := range args.color {
			if a == CC_RASC {
				args.color[i] = CC_CPREV
			}
		}
		for i, a := range args.alpha {
			if a == CA_RASA {
				args.alpha[i] = CA_APREV
			}
		}
	}

	c := d.tevColorEnv[stage.n]
	c = packColorIn(c, args.color)
	c = packTevOp(c, TEV_ADD, TB_ZERO, CS_SCALE_1, true, TEVPREV)

	a := d.tevAlphaEnv[stage.n]
	a = packAlphaIn(a, args.alpha)
	a = packTevOp(a, TEV_ADD, TB_ZERO, CS_SCALE_1, true, TEVPREV)

	d.tevColorEnv[stage.n] = c
	d.tevAlphaEnv[stage.n] = a
	bpTevColorEnv(stage).Load(d.pipe, c)
	bpTevAlphaEnv(stage).Load(d.pipe, a)
}

func packColorIn(reg uint32, in [4]TevColorArg) uint32 {
	reg = setBits(reg, tevColorAShift, 4, uint32(in[0]))
	reg = setBits(reg, tevColorBShift, 4, uint32(in[1]))
	reg = setBits(reg, tevColorCShift, 4, uint32(in[2]))
	return setBits(reg, tevColorDShift, 4, uint32(in[3]))
}

func packAlphaIn(reg uint32, in [4]TevAlphaArg) uint32 {
	reg = setBits(reg, tevAlphaAShift, 3, uint32(in[0]))
	reg = setBits(reg, tevAlphaBShift, 3, uint32(in[1]))
	reg = setBits(reg, tevAlphaCShift, 3, uint32(in[2]))
	return setBits(reg, tevAlphaDShift, 3, uint32(in[3]))
}

func packTevOp(reg uint32, op TevOp, bias TevBias, scale TevScale, clamp bool, dest TevReg) uint32 {
	reg = setBits(reg, tevBiasShift, 2, uint32(bias))
	reg = setBits(reg, tevOpShift, 1, uint32(op))
	reg = setBits(reg, tevClampShift, 1, oneIfTrue(clamp))
	reg = setBits(reg, tevScaleShift, 2, uint32(scale))
	return setBits(reg, tevDestShift, 2, uint32(dest))
}

// Sets the four color combiner inputs of `stage`
func (d *Device) SetTevColorIn(stage TevStage, a, b, c, dd TevColorArg) {
	reg := packColorIn(d.tevColorEnv[stage.n], [4]TevColorArg{a, b, c, dd})
	d.tevColorEnv[stage.n] = reg
	bpTevColorEnv(stage).Load(d.pipe, reg)
}

// Sets the four alpha combiner inputs of `stage`
func (d *Device) SetTevAlphaIn(stage TevStage, a, b, c, dd TevAlphaArg) {
	reg := packAlphaIn(d.tevAlphaEnv[stage.n], [4]TevAlphaArg{a, b, c, dd})
	d.tevAlphaEnv[stage.n] = reg
	bpTevAlphaEnv(stage).Load(d.pipe, reg)
}

// Sets the color combiner operation of `stage`
func (d *Device) SetTevColorOp(stage TevStage, op TevOp, bias TevBias, scale TevScale, clamp bool, dest TevReg) {
	reg := packTevOp(d.tevColorEnv[stage.n], op, bias, scale, clamp, dest)
	d.tevColorEnv[stage.n] = reg
	bpTevColorEnv(stage).Load(d.pipe, reg)
}

// Sets the alpha combiner operation of `stage`
func (d *Device) SetTevAlphaOp(stage TevStage, op TevOp, bias TevBias, scale TevScale, clamp bool, dest TevReg) {
	reg := packTevOp(d.tevAlphaEnv[stage.n], op, bias, scale, clamp, dest)
	d.tevAlphaEnv[stage.n] = reg
	bpTevAlphaEnv(stage).Load(d.pipe, reg)
}

// TEV order field positions, relative to the stage's half of the register
const (
	trefMapShift   = 0
	trefCoordShift = 3
	trefEnable     = 6
	trefColorShift = 7
	trefOddShift   = 12
)

func (d *Device) loadTevOrder(stage TevStage, mapID uint32, enable bool, coord TexCoordID, color ChannelID) {
	if coord == TEXCOORDNULL {
		coord = TEXCOORD0
	}
	if int(coord) >= MAX_TEXCOORD {
		panicFmt("gx: invalid texcoord %d for %s", coord, stage)
	}
	shift := uint(0)
	if stage.n&1 != 0 {
		shift = trefOddShift
	}
	pair := stage.n / 2
	reg := d.tevRasOrder[pair]
	reg = setBits(reg, shift+trefMapShift, 3, mapID)
	reg = setBits(reg, shift+trefCoordShift, 3, uint32(coord))
	reg = setBits(reg, shift+trefEnable, 1, oneIfTrue(enable))
	reg = setBits(reg, shift+trefColorShift, 3, color.hw())
	d.tevRasOrder[pair] = reg
	bpTevRef(stage).Load(d.pipe, reg)
}

// Selects the texture coordinate, texture map and rasterized color that
// feed `stage`. Stages come in pairs sharing one register; the other
// stage's half is preserved
func (d *Device) SetTevOrder(stage TevStage, coord TexCoordID, tex TexMap, color ChannelID) {
	d.loadTevOrder(stage, uint32(tex.id), true, coord, color)
}

// Same as SetTevOrder for a stage that samples no texture
func (d *Device) SetTevOrderColor(stage TevStage, color ChannelID) {
	d.loadTevOrder(stage, 0, false, TEXCOORD0, color)
}

// Number of TEV stages in the combiner chain (1-16)
func (d *Device) SetNumTevStages(n int) {
	if n < 1 || n > MAX_TEV_STAGES {
		panicFmt("gx: invalid number of TEV stages %d", n)
	}
	d.genMode = setBits(d.genMode, genModeNumTevShift, 4, uint32(n-1))
	d.loadGenMode()
}

// A TEV register color. Components are signed 11 bit values, so colors
// outside 0-255 can be used for intermediate results
type TevColor struct {
	R, G, B, A int16
}

// Loads TEV color register `reg`. The B/G half is written three times;
// the hardware only latches it reliably after the repeat
func (d *Device) SetTevColor(reg TevReg, c TevColor) {
	ra := uint32(uint16(c.R))&0x7ff | (uint32(uint16(c.A))&0x7ff)<<12
	bg := uint32(uint16(c.B))&0x7ff | (uint32(uint16(c.G))&0x7ff)<<12
	bpTevRegL(reg).Load(d.pipe, ra)
	bpTevRegH(reg).Load(d.pipe, bg)
	bpTevRegH(reg).Load(d.pipe, bg)
	bpTevRegH(reg).Load(d.pipe, bg)
}

// Sets the alpha test: a fragment survives if
// (alpha comp0 ref0) op (alpha comp1 ref1)
func (d *Device) SetAlphaCompare(comp0 CompareFn, ref0 uint8, op AlphaOp, comp1 CompareFn, ref1 uint8) {
	val := uint32(ref0) |
		uint32(ref1)<<8 |
		uint32(comp0&7)<<16 |
		uint32(comp1&7)<<19 |
		uint32(op&3)<<22
	BP_TEV_ALPHAFUNC.Load(d.pipe, val)
}

// Selects the swap tables applied to the rasterized and texture colors of
// `stage`
func (d *Device) SetTevSwapMode(stage TevStage, ras, tex uint8) {
	reg := d.tevAlphaEnv[stage.n]
	reg = setBits(reg, tevAlphaRSwapShift, 2, uint32(ras))
	reg = setBits(reg, tevAlphaTSwapShift, 2, uint32(tex))
	d.tevAlphaEnv[stage.n] = reg
	bpTevAlphaEnv(stage).Load(d.pipe, reg)
}
