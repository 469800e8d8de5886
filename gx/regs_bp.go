package gx

import "fmt"

// BP (blending processor) registers
const (
	BP_GEN_MODE         BPReg = 0x00 // texgens, channels, TEV stages, cull mode
	BP_COPY_SAMPLE0     BPReg = 0x01 // AA sample pattern, 4 registers
	BP_IND_IMASK        BPReg = 0x0f
	BP_SU_SCIS0         BPReg = 0x20 // scissor top-left
	BP_SU_SCIS1         BPReg = 0x21 // scissor bottom-right
	BP_SU_LPSIZE        BPReg = 0x22 // line and point size
	BP_RAS1_TREF0       BPReg = 0x28 // TEV order, one register per stage pair
	BP_SU_SSIZE0        BPReg = 0x30 // texcoord scale, S then T per texcoord
	BP_PE_ZMODE         BPReg = 0x40
	BP_PE_CMODE0        BPReg = 0x41 // blend mode and update masks
	BP_PE_CMODE1        BPReg = 0x42 // destination alpha
	BP_PE_CONTROL       BPReg = 0x43 // pixel format and Z compare location
	BP_PE_FIELD_MASK    BPReg = 0x44
	BP_PE_DONE          BPReg = 0x45 // draw done token
	BP_PE_REFRESH       BPReg = 0x46
	BP_PE_TOKEN         BPReg = 0x47
	BP_PE_TOKEN_INT     BPReg = 0x48
	BP_PE_COPY_SRC_TL   BPReg = 0x49
	BP_PE_COPY_SRC_WH   BPReg = 0x4a
	BP_PE_COPY_DST_BASE BPReg = 0x4b
	BP_PE_COPY_DST_STR  BPReg = 0x4d
	BP_PE_COPY_SCALE    BPReg = 0x4e
	BP_PE_CLEAR_AR      BPReg = 0x4f
	BP_PE_CLEAR_GB      BPReg = 0x50
	BP_PE_CLEAR_Z       BPReg = 0x51
	BP_PE_COPY_EXECUTE  BPReg = 0x52
	BP_PE_COPY_VFILTER0 BPReg = 0x53
	BP_PE_COPY_VFILTER1 BPReg = 0x54
	BP_SU_SCIS_OFFSET   BPReg = 0x59
	BP_TX_INVALIDATE    BPReg = 0x66
	BP_TEV_COLOR_ENV0   BPReg = 0xc0 // color combiner, stride 2 per stage
	BP_TEV_ALPHA_ENV0   BPReg = 0xc1 // alpha combiner, stride 2 per stage
	BP_TEV_REGISTERL0   BPReg = 0xe0 // TEV color register R/A, stride 2
	BP_TEV_REGISTERH0   BPReg = 0xe1 // TEV color register B/G, stride 2
	BP_TEV_ALPHAFUNC    BPReg = 0xf3
)

// Texture map register banks. Maps 0-3 live at 0x80, maps 4-7 at 0xa0; each
// kind of register is a run of 4 consecutive addresses
const (
	BP_TX_SETMODE0_I0  BPReg = 0x80
	BP_TX_SETMODE1_I0  BPReg = 0x84
	BP_TX_SETIMAGE0_I0 BPReg = 0x88
	BP_TX_SETIMAGE1_I0 BPReg = 0x8c
	BP_TX_SETIMAGE2_I0 BPReg = 0x90
	BP_TX_SETIMAGE3_I0 BPReg = 0x94
	BP_TX_SETTLUT_I0   BPReg = 0x98
	BP_TX_SETMODE0_I4  BPReg = 0xa0
	BP_TX_SETMODE1_I4  BPReg = 0xa4
	BP_TX_SETIMAGE0_I4 BPReg = 0xa8
	BP_TX_SETIMAGE1_I4 BPReg = 0xac
	BP_TX_SETIMAGE2_I4 BPReg = 0xb0
	BP_TX_SETIMAGE3_I4 BPReg = 0xb4
	BP_TX_SETTLUT_I4   BPReg = 0xb8
)

var (
	// TEV combiners: color then alpha per stage
	BP_TEV_ENV_BANK = NewBank(uint32(BP_TEV_COLOR_ENV0), MAX_TEV_STAGES, 2)
	// TEV color registers: R/A then B/G per register
	BP_TEV_REG_BANK = NewBank(uint32(BP_TEV_REGISTERL0), 4, 2)
	// Texture map registers of maps 0-3, one run of 4 per register kind
	BP_TX_BANK0 = NewBank(uint32(BP_TX_SETMODE0_I0), 7, 4)
	// Texture map registers of maps 4-7
	BP_TX_BANK1 = NewBank(uint32(BP_TX_SETMODE0_I4), 7, 4)
	// TEV order registers
	BP_TREF_RANGE = NewRange(uint32(BP_RAS1_TREF0), MAX_TEV_STAGES/2)
	// Texcoord scale registers: S then T per texcoord
	BP_SU_SIZE_BANK = NewBank(uint32(BP_SU_SSIZE0), MAX_TEXCOORD, 2)
	// AA sample pattern registers
	BP_COPY_SAMPLE_RANGE = NewRange(uint32(BP_COPY_SAMPLE0), 4)
)

func bpTevColorEnv(stage TevStage) BPReg { return BP_TEV_COLOR_ENV0 + BPReg(stage.n)*2 }
func bpTevAlphaEnv(stage TevStage) BPReg { return BP_TEV_ALPHA_ENV0 + BPReg(stage.n)*2 }
func bpTevRef(stage TevStage) BPReg      { return BP_RAS1_TREF0 + BPReg(stage.n/2) }
func bpTevRegL(reg TevReg) BPReg         { return BP_TEV_REGISTERL0 + BPReg(reg)*2 }
func bpTevRegH(reg TevReg) BPReg         { return BP_TEV_REGISTERH0 + BPReg(reg)*2 }

var bpNames = map[BPReg]string{
	BP_GEN_MODE:         "GEN_MODE",
	BP_IND_IMASK:        "IND_IMASK",
	BP_SU_SCIS0:         "SU_SCIS0",
	BP_SU_SCIS1:         "SU_SCIS1",
	BP_SU_LPSIZE:        "SU_LPSIZE",
	BP_PE_ZMODE:         "PE_ZMODE",
	BP_PE_CMODE0:        "PE_CMODE0",
	BP_PE_CMODE1:        "PE_CMODE1",
	BP_PE_CONTROL:       "PE_CONTROL",
	BP_PE_FIELD_MASK:    "PE_FIELD_MASK",
	BP_PE_DONE:          "PE_DONE",
	BP_PE_REFRESH:       "PE_REFRESH",
	BP_PE_TOKEN:         "PE_TOKEN",
	BP_PE_TOKEN_INT:     "PE_TOKEN_INT",
	BP_PE_COPY_SRC_TL:   "PE_COPY_SRC_TL",
	BP_PE_COPY_SRC_WH:   "PE_COPY_SRC_WH",
	BP_PE_COPY_DST_BASE: "PE_COPY_DST_BASE",
	BP_PE_COPY_DST_STR:  "PE_COPY_DST_STRIDE",
	BP_PE_COPY_SCALE:    "PE_COPY_SCALE",
	BP_PE_CLEAR_AR:      "PE_CLEAR_AR",
	BP_PE_CLEAR_GB:      "PE_CLEAR_GB",
	BP_PE_CLEAR_Z:       "PE_CLEAR_Z",
	BP_PE_COPY_EXECUTE:  "PE_COPY_EXECUTE",
	BP_PE_COPY_VFILTER0: "PE_COPY_VFILTER0",
	BP_PE_COPY_VFILTER1: "PE_COPY_VFILTER1",
	BP_SU_SCIS_OFFSET:   "SU_SCIS_OFFSET",
	BP_TX_INVALIDATE:    "TX_INVALIDATE",
	BP_TEV_ALPHAFUNC:    "TEV_ALPHAFUNC",
}

var txRegKinds = [...]string{"SETMODE0", "SETMODE1", "SETIMAGE0", "SETIMAGE1", "SETIMAGE2", "SETIMAGE3", "SETTLUT"}

// Returns a printable name for a BP register address
func (reg BPReg) String() string {
	if name, ok := bpNames[reg]; ok {
		return name
	}
	addr := uint32(reg)
	switch {
	case BP_COPY_SAMPLE_RANGE.Contains(addr):
		return fmt.Sprintf("COPY_SAMPLE%d", BP_COPY_SAMPLE_RANGE.Offset(addr))
	case BP_TREF_RANGE.Contains(addr):
		return fmt.Sprintf("RAS1_TREF%d", BP_TREF_RANGE.Offset(addr))
	case BP_SU_SIZE_BANK.Contains(addr):
		tc, field := BP_SU_SIZE_BANK.Entry(addr)
		return fmt.Sprintf("SU_%sSIZE%d", "ST"[field:field+1], tc)
	case BP_TX_BANK0.Contains(addr):
		kind, idx := BP_TX_BANK0.Entry(addr)
		return fmt.Sprintf("TX_%s_I%d", txRegKinds[kind], idx)
	case BP_TX_BANK1.Contains(addr):
		kind, idx := BP_TX_BANK1.Entry(addr)
		return fmt.Sprintf("TX_%s_I%d", txRegKinds[kind], idx+4)
	case BP_TEV_ENV_BANK.Contains(addr):
		stage, field := BP_TEV_ENV_BANK.Entry(addr)
		return fmt.Sprintf("TEV_%s_ENV%d", [2]string{"COLOR", "ALPHA"}[field], stage)
	case BP_TEV_REG_BANK.Contains(addr):
		reg, field := BP_TEV_REG_BANK.Entry(addr)
		return fmt.Sprintf("TEV_REGISTER%s%d", "LH"[field:field+1], reg)
	}
	return fmt.Sprintf("BP_0x%02x", addr)
}
