package gx

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrUnknownOpcode is returned by the decoder for a byte that starts no
// known command.
var ErrUnknownOpcode = errors.New("gx: unknown command opcode")

// Kind of a decoded command
type PacketKind uint8

const (
	PKT_NOP PacketKind = iota
	PKT_BP
	PKT_CP
	PKT_XF
	PKT_CALL_DL
	PKT_INVAL_VTX
	PKT_DRAW
)

var packetKindNames = [...]string{"NOP", "BP", "CP", "XF", "CALL_DL", "INVAL_VTX", "DRAW"}

func (k PacketKind) String() string {
	if int(k) < len(packetKindNames) {
		return packetKindNames[k]
	}
	return "UNKNOWN"
}

// One command of a command stream
type Packet struct {
	Kind   PacketKind
	Offset int64 // Position of the opcode in the stream

	Reg   uint16   // BP, CP and XF: register address
	Value uint32   // BP and CP: register value. CALL_DL: list address
	Words []uint32 // XF: the words loaded from Reg upwards
	Size  uint32   // CALL_DL: list size

	Prim   Primitive    // DRAW
	Fmt    VtxFmt       // DRAW
	Count  uint16       // DRAW: number of vertices
	Layout VertexLayout // DRAW: vertex layout in effect
	Data   []byte       // DRAW: Count * Layout.Stride bytes of vertex data
}

// Returns the disassembly of the packet
func (pkt *Packet) String() string {
	switch pkt.Kind {
	case PKT_BP:
		return fmt.Sprintf("BP   %-20s 0x%06x", BPReg(pkt.Reg), pkt.Value)
	case PKT_CP:
		return fmt.Sprintf("CP   %-20s 0x%08x", CPReg(pkt.Reg), pkt.Value)
	case PKT_XF:
		var sb strings.Builder
		fmt.Fprintf(&sb, "XF   %-20s", XFReg(pkt.Reg))
		for _, w := range pkt.Words {
			fmt.Fprintf(&sb, " %08x", w)
		}
		return sb.String()
	case PKT_CALL_DL:
		return fmt.Sprintf("CALL 0x%08x +%d", pkt.Value, pkt.Size)
	case PKT_DRAW:
		return fmt.Sprintf("DRAW %s VTXFMT%d x%d (%d bytes/vertex)", pkt.Prim, pkt.Fmt, pkt.Count, pkt.Layout.Stride)
	}
	return pkt.Kind.String()
}

// Location and encoding of one attribute inside a vertex
type AttrLayout struct {
	Attr   Attr
	Kind   AttrType
	Cnt    CompCnt
	Type   CompType
	Frac   uint8
	Offset uint32 // Byte offset inside the vertex
	Size   uint32 // Bytes taken in the vertex
}

// Byte layout of the vertices of one vertex format under the current
// descriptor
type VertexLayout struct {
	Attrs  []AttrLayout
	Stride uint32
}

// Returns the layout of `attr`, if the vertex contains it
func (l *VertexLayout) Find(attr Attr) (AttrLayout, bool) {
	for _, a := range l.Attrs {
		if a.Attr == attr {
			return a, true
		}
	}
	return AttrLayout{}, false
}

// CP state that decides how draw payloads are sized. Shared between a
// decoder and the decoders of the display lists it calls
type cpState struct {
	vcdLo, vcdHi uint32
	vat          [MAX_VTXFMT]vatState
	arrayBase    [NUM_ARRAYS]uint32
	arrayStride  [NUM_ARRAYS]uint32
}

// Decoder parses a command stream back into packets. It follows CP
// register writes so it knows the size of every vertex.
type Decoder struct {
	r   *bufio.Reader
	off int64
	cp  *cpState
	buf [8]byte
}

// Returns a decoder reading commands from `r`
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r), cp: &cpState{}}
}

// Returns a decoder reading from `r` that shares this decoder's CP state.
// Used to walk a called display list
func (dec *Decoder) Fork(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r), cp: dec.cp}
}

// Returns the base address and stride last written for array `idx`
func (dec *Decoder) Array(idx int) (PhysAddr, uint32) {
	return PhysAddr(dec.cp.arrayBase[idx]), dec.cp.arrayStride[idx]
}

func (dec *Decoder) read(n int) ([]byte, error) {
	b := dec.buf[:n]
	if _, err := io.ReadFull(dec.r, b); err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("gx: truncated command at offset %d: %w", dec.off, err)
	}
	dec.off += int64(n)
	return b, nil
}

func (dec *Decoder) u8() (uint8, error) {
	b, err := dec.read(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (dec *Decoder) u16() (uint16, error) {
	b, err := dec.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (dec *Decoder) u32() (uint32, error) {
	b, err := dec.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// Returns the next packet, or io.EOF at the end of the stream
func (dec *Decoder) Next() (Packet, error) {
	start := dec.off
	op, err := dec.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return Packet{}, io.EOF
		}
		return Packet{}, fmt.Errorf("gx: read opcode at offset %d: %w", start, err)
	}
	dec.off++
	pkt := Packet{Offset: start}

	switch {
	case op == CMD_NOP:
		pkt.Kind = PKT_NOP
	case op == CMD_INVAL_VTX:
		pkt.Kind = PKT_INVAL_VTX
	case op == CMD_LOAD_BP:
		word, err := dec.u32()
		if err != nil {
			return pkt, err
		}
		pkt.Kind = PKT_BP
		pkt.Reg = uint16(word >> 24)
		pkt.Value = word & BP_VALUE_MASK
	case op == CMD_LOAD_CP:
		reg, err := dec.u8()
		if err != nil {
			return pkt, err
		}
		val, err := dec.u32()
		if err != nil {
			return pkt, err
		}
		pkt.Kind = PKT_CP
		pkt.Reg = uint16(reg)
		pkt.Value = val
		dec.cp.apply(CPReg(reg), val)
	case op == CMD_LOAD_XF:
		length, err := dec.u16()
		if err != nil {
			return pkt, err
		}
		addr, err := dec.u16()
		if err != nil {
			return pkt, err
		}
		pkt.Kind = PKT_XF
		pkt.Reg = addr
		pkt.Words = make([]uint32, int(length)+1)
		for i := range pkt.Words {
			if pkt.Words[i], err = dec.u32(); err != nil {
				return pkt, err
			}
		}
	case op == CMD_CALL_DL:
		addr, err := dec.u32()
		if err != nil {
			return pkt, err
		}
		size, err := dec.u32()
		if err != nil {
			return pkt, err
		}
		pkt.Kind = PKT_CALL_DL
		pkt.Value = addr
		pkt.Size = size
	case isDrawOpcode(op):
		count, err := dec.u16()
		if err != nil {
			return pkt, err
		}
		pkt.Kind = PKT_DRAW
		pkt.Prim = Primitive(op &^ 7)
		pkt.Fmt = VtxFmt(op & 7)
		pkt.Count = count
		pkt.Layout = dec.cp.layout(pkt.Fmt)
		pkt.Data = make([]byte, uint32(count)*pkt.Layout.Stride)
		if _, err := io.ReadFull(dec.r, pkt.Data); err != nil {
			return pkt, fmt.Errorf("gx: truncated vertex data at offset %d: %w", dec.off, err)
		}
		dec.off += int64(len(pkt.Data))
	default:
		return pkt, fmt.Errorf("%w: 0x%02x at offset %d", ErrUnknownOpcode, op, start)
	}
	return pkt, nil
}

// Decodes every packet of `stream`. NOPs are dropped
func DecodeAll(stream []byte) ([]Packet, error) {
	dec := NewDecoder(bytes.NewReader(stream))
	var pkts []Packet
	for {
		pkt, err := dec.Next()
		if err == io.EOF {
			return pkts, nil
		}
		if err != nil {
			return pkts, err
		}
		if pkt.Kind != PKT_NOP {
			pkts = append(pkts, pkt)
		}
	}
}

func (cp *cpState) apply(reg CPReg, val uint32) {
	addr := uint32(reg)
	switch {
	case reg == CP_VCD_LO:
		cp.vcdLo = val
	case reg == CP_VCD_HI:
		cp.vcdHi = val
	case CP_VAT_A_RANGE.Contains(addr):
		cp.vat[CP_VAT_A_RANGE.Offset(addr)].A = val
	case CP_VAT_B_RANGE.Contains(addr):
		cp.vat[CP_VAT_B_RANGE.Offset(addr)].B = val
	case CP_VAT_C_RANGE.Contains(addr):
		cp.vat[CP_VAT_C_RANGE.Offset(addr)].C = val
	case CP_ARRAY_BASE_RANGE.Contains(addr):
		cp.arrayBase[CP_ARRAY_BASE_RANGE.Offset(addr)] = val
	case CP_ARRAY_STRIDE_RANGE.Contains(addr):
		cp.arrayStride[CP_ARRAY_STRIDE_RANGE.Offset(addr)] = val
	}
}

// Returns the vertex layout of format `f`
func (cp *cpState) layout(f VtxFmt) VertexLayout {
	var l VertexLayout
	vat := cp.vat[f]
	add := func(a AttrLayout) {
		a.Offset = l.Stride
		l.Attrs = append(l.Attrs, a)
		l.Stride += a.Size
	}
	indexSize := func(kind AttrType) uint32 {
		if kind == INDEX16 {
			return 2
		}
		return 1
	}

	if getBits(cp.vcdLo, 0, 1) != 0 {
		add(AttrLayout{Attr: VA_PTNMTXIDX, Kind: DIRECT, Size: 1})
	}
	for tc := uint(0); tc < MAX_TEXCOORD; tc++ {
		if getBits(cp.vcdLo, 1+tc, 1) != 0 {
			add(AttrLayout{Attr: VA_TEX0MTXIDX + Attr(tc), Kind: DIRECT, Size: 1})
		}
	}

	type desc struct {
		attr  Attr
		kind  AttrType
		field vatField
	}
	descs := []desc{
		{VA_POS, AttrType(getBits(cp.vcdLo, 9, 2)), vatFields[VA_POS]},
		{VA_NRM, AttrType(getBits(cp.vcdLo, 11, 2)), vatFields[VA_NRM]},
		{VA_CLR0, AttrType(getBits(cp.vcdLo, 13, 2)), vatFields[VA_CLR0]},
		{VA_CLR1, AttrType(getBits(cp.vcdLo, 15, 2)), vatFields[VA_CLR1]},
	}
	for tc := uint(0); tc < MAX_TEXCOORD; tc++ {
		attr := VA_TEX0 + Attr(tc)
		descs = append(descs, desc{attr, AttrType(getBits(cp.vcdHi, 2*tc, 2)), vatFields[attr]})
	}

	for _, ds := range descs {
		if ds.kind == NONE {
			continue
		}
		w := *vat.word(ds.field.word)
		a := AttrLayout{
			Attr: ds.attr,
			Kind: ds.kind,
			Cnt:  CompCnt(getBits(w, uint(ds.field.cnt), 1)),
			Type: CompType(getBits(w, uint(ds.field.typ), 3)),
		}
		if ds.field.hasFrac {
			a.Frac = uint8(getBits(*vat.word(ds.field.fracWord), uint(ds.field.frac), 5))
		}

		nbt3 := false
		if ds.attr == VA_NRM {
			if a.Cnt == NRM_NBT {
				if getBits(vat.A, vatNormalIndex3, 1) != 0 {
					a.Cnt = NRM_NBT3
					nbt3 = true
				}
				a.Attr = VA_NBT
			}
		}

		if ds.kind != DIRECT {
			a.Size = indexSize(ds.kind)
			if nbt3 {
				a.Size *= 3
			}
			add(a)
			continue
		}
		a.Size = directSize(ds.attr, a.Cnt, a.Type)
		add(a)
	}
	return l
}

// Returns the size in bytes of one element of the attribute, as stored
// inline or in its array. Normals count all three vectors of an NBT
func (a AttrLayout) ElemSize() uint32 {
	attr := a.Attr
	if attr == VA_NBT {
		attr = VA_NRM
	}
	return directSize(attr, a.Cnt, a.Type)
}

// Size in bytes of an attribute sent inline
func directSize(attr Attr, cnt CompCnt, typ CompType) uint32 {
	if attr == VA_CLR0 || attr == VA_CLR1 {
		if int(typ) >= len(colorSizes) {
			return 0
		}
		return colorSizes[typ]
	}
	if int(typ) >= len(compSizes) {
		return 0
	}
	size := compSizes[typ]
	switch {
	case attr == VA_POS:
		if cnt == POS_XYZ {
			return 3 * size
		}
		return 2 * size
	case attr == VA_NRM:
		if cnt == NRM_XYZ {
			return 3 * size
		}
		return 9 * size
	default:
		if cnt == TEX_ST {
			return 2 * size
		}
		return size
	}
}
