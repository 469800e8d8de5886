package gx

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

// Formatted panic(). Used for contract violations that would otherwise leave
// the GPU with a half-written command in its FIFO
func panicFmt(format string, a ...interface{}) {
	panic(fmt.Sprintf(format, a...))
}

func oneIfTrue(val bool) uint32 {
	if val {
		return 1
	}
	return 0
}

// Returns `reg` with the low `size` bits of `val` inserted at bit `shift`
func setBits[T constraints.Unsigned](reg T, shift, size uint, val T) T {
	mask := T(1)<<size - 1
	return reg&^(mask<<shift) | (val&mask)<<shift
}

// Extracts `size` bits starting at bit `shift`
func getBits[T constraints.Unsigned](reg T, shift, size uint) T {
	mask := T(1)<<size - 1
	return (reg >> shift) & mask
}

// Returns true if `addr` sits on a 32 byte (cache line) boundary
func isAligned32[T constraints.Integer](addr T) bool {
	return addr&31 == 0
}

// Rounds `n` up to the next multiple of 32
func alignUp32[T constraints.Integer](n T) T {
	return (n + 31) &^ 31
}

func clampFloat(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Packs a color as R,G,B,A from the most significant byte down, the layout
// used by every XF color register
func packRGBA(r, g, b, a uint8) uint32 {
	return uint32(r)<<24 | uint32(g)<<16 | uint32(b)<<8 | uint32(a)
}

func f32bits(f float32) uint32 {
	return math.Float32bits(f)
}
