package gx

// A bank of register addresses: `Count` entries, each made of `Stride`
// consecutive addresses. Plain runs of registers have a stride of 1
type Range struct {
	Start  uint32 // First address of the bank
	Count  uint32 // Number of entries
	Stride uint32 // Addresses per entry
}

// Returns a run of `count` consecutive addresses
func NewRange(start uint32, count uint32) Range {
	return Range{Start: start, Count: count, Stride: 1}
}

// Returns a bank of `count` entries spaced `stride` addresses apart
func NewBank(start, count, stride uint32) Range {
	return Range{Start: start, Count: count, Stride: stride}
}

// Returns the first address past the end of the bank
func (r Range) End() uint32 {
	return r.Start + r.Count*r.Stride
}

// Returns whether `addr` is located inside this bank
func (r Range) Contains(addr uint32) bool {
	return addr >= r.Start && addr < r.End()
}

// Returns the offset between `addr` and the `Start` of the bank. Does not
// check if the bank contains the address
func (r Range) Offset(addr uint32) uint32 {
	return addr - r.Start
}

// Splits `addr` into the entry it belongs to and the field inside that
// entry, e.g. a TEV env address into (stage, 0 for color / 1 for alpha)
func (r Range) Entry(addr uint32) (index, field uint32) {
	off := r.Offset(addr)
	return off / r.Stride, off % r.Stride
}
