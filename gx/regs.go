package gx

// Command opcodes understood by the command processor. Draw opcodes are
// listed with the primitives in types.go; the low 3 bits of a draw opcode
// select the vertex format
const (
	CMD_NOP       uint8 = 0x00
	CMD_LOAD_CP   uint8 = 0x08 // 1 byte address, 4 byte value
	CMD_LOAD_XF   uint8 = 0x10 // 2 byte length-1, 2 byte address, length words
	CMD_CALL_DL   uint8 = 0x40 // 4 byte address, 4 byte size
	CMD_INVAL_VTX uint8 = 0x48
	CMD_LOAD_BP   uint8 = 0x61 // 1 byte address, 3 byte value
)

// Largest value a BP register load can carry
const BP_VALUE_MASK = 0x00ffffff

// A register of the blending/pixel engine (BP) space. The address is the
// top byte of the 32 bit word the command processor sees
type BPReg uint8

// Emits a BP load: opcode, address, then the low 24 bits of `val`
// big-endian. `val` must fit in 24 bits
func (reg BPReg) Load(p *Pipe, val uint32) {
	if val > BP_VALUE_MASK {
		panicFmt("gx: BP register 0x%02x value 0x%x does not fit in 24 bits", uint8(reg), val)
	}
	p.U8(CMD_LOAD_BP)
	p.U32(uint32(reg)<<24 | val&BP_VALUE_MASK)
}

// A register of the command processor (CP) space, which holds vertex
// descriptors and array pointers
type CPReg uint8

// Emits a CP load: opcode, address, 4 byte value
func (reg CPReg) Load(p *Pipe, val uint32) {
	p.U8(CMD_LOAD_CP)
	p.U8(uint8(reg))
	p.U32(val)
}

// An address in the transform unit (XF) space: matrix memory, light memory
// and the control registers from 0x1000 upwards
type XFReg uint16

// Emits a single XF register load. The length field is 0 (one word)
func (reg XFReg) Load(p *Pipe, val uint32) {
	p.U8(CMD_LOAD_XF)
	p.U16(0)
	p.U16(uint16(reg))
	p.U32(val)
}

// Emits `length` consecutive XF words starting at `reg`. The length field
// is encoded as length-1
func (reg XFReg) LoadMulti(p *Pipe, length int, vals []uint32) {
	if length != len(vals) {
		panicFmt("gx: XF load at 0x%04x declares %d words but got %d", uint16(reg), length, len(vals))
	}
	if length < 1 || length > 0x10000 {
		panicFmt("gx: XF load at 0x%04x with invalid length %d", uint16(reg), length)
	}
	p.U8(CMD_LOAD_XF)
	p.U16(uint16(length - 1))
	p.U16(uint16(reg))
	for _, v := range vals {
		p.U32(v)
	}
}

// Same as LoadMulti for a block of floats
func (reg XFReg) LoadFloats(p *Pipe, vals ...float32) {
	words := make([]uint32, len(vals))
	for i, f := range vals {
		words[i] = f32bits(f)
	}
	reg.LoadMulti(p, len(words), words)
}
