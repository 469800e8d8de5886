package gx

import "fmt"

// CP (command processor) registers
const (
	CP_MATINDEX_A    CPReg = 0x30 // position and texcoord 0-3 matrix indices
	CP_MATINDEX_B    CPReg = 0x40 // texcoord 4-7 matrix indices
	CP_VCD_LO        CPReg = 0x50 // vertex descriptor: matrix indices, position, normal, colors
	CP_VCD_HI        CPReg = 0x60 // vertex descriptor: texcoords
	CP_VAT_A0        CPReg = 0x70 // vertex attribute table, one per vertex format
	CP_VAT_B0        CPReg = 0x80
	CP_VAT_C0        CPReg = 0x90
	CP_ARRAY_BASE0   CPReg = 0xa0 // array base pointers, one per array
	CP_ARRAY_STRIDE0 CPReg = 0xb0 // array strides, one per array
)

// Number of CP vertex arrays: position, normal, two colors, eight texcoords
// and four generic index arrays
const NUM_ARRAYS = 16

var (
	CP_VAT_A_RANGE        = NewRange(uint32(CP_VAT_A0), MAX_VTXFMT)
	CP_VAT_B_RANGE        = NewRange(uint32(CP_VAT_B0), MAX_VTXFMT)
	CP_VAT_C_RANGE        = NewRange(uint32(CP_VAT_C0), MAX_VTXFMT)
	CP_ARRAY_BASE_RANGE   = NewRange(uint32(CP_ARRAY_BASE0), NUM_ARRAYS)
	CP_ARRAY_STRIDE_RANGE = NewRange(uint32(CP_ARRAY_STRIDE0), NUM_ARRAYS)
)

func cpVatA(f VtxFmt) CPReg       { return CP_VAT_A0 + CPReg(f) }
func cpVatB(f VtxFmt) CPReg       { return CP_VAT_B0 + CPReg(f) }
func cpVatC(f VtxFmt) CPReg       { return CP_VAT_C0 + CPReg(f) }
func cpArrayBase(idx int) CPReg   { return CP_ARRAY_BASE0 + CPReg(idx) }
func cpArrayStride(idx int) CPReg { return CP_ARRAY_STRIDE0 + CPReg(idx) }

// Returns a printable name for a CP register address
func (reg CPReg) String() string {
	addr := uint32(reg)
	switch {
	case reg == CP_MATINDEX_A:
		return "MATINDEX_A"
	case reg == CP_MATINDEX_B:
		return "MATINDEX_B"
	case reg == CP_VCD_LO:
		return "VCD_LO"
	case reg == CP_VCD_HI:
		return "VCD_HI"
	case CP_VAT_A_RANGE.Contains(addr):
		return fmt.Sprintf("VAT_A%d", CP_VAT_A_RANGE.Offset(addr))
	case CP_VAT_B_RANGE.Contains(addr):
		return fmt.Sprintf("VAT_B%d", CP_VAT_B_RANGE.Offset(addr))
	case CP_VAT_C_RANGE.Contains(addr):
		return fmt.Sprintf("VAT_C%d", CP_VAT_C_RANGE.Offset(addr))
	case CP_ARRAY_BASE_RANGE.Contains(addr):
		return fmt.Sprintf("ARRAY_BASE%d", CP_ARRAY_BASE_RANGE.Offset(addr))
	case CP_ARRAY_STRIDE_RANGE.Contains(addr):
		return fmt.Sprintf("ARRAY_STRIDE%d", CP_ARRAY_STRIDE_RANGE.Offset(addr))
	}
	return fmt.Sprintf("CP_0x%02x", addr)
}
