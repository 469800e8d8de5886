package gx

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTexMap is returned when a texture map slot outside 0-7 is requested.
	ErrInvalidTexMap = errors.New("gx: texture map out of range")

	// ErrInvalidTevStage is returned when a TEV stage outside 0-15 is requested.
	ErrInvalidTevStage = errors.New("gx: TEV stage out of range")

	// ErrTexSize is returned when a texture dimension is outside 1-1024.
	ErrTexSize = errors.New("gx: texture size out of range")

	// ErrMisaligned is returned when a buffer does not start on a 32 byte boundary.
	ErrMisaligned = errors.New("gx: address is not 32 byte aligned")

	// ErrOutOfMemory is returned when the arena cannot satisfy an allocation.
	ErrOutOfMemory = errors.New("gx: out of memory")
)

// One of the eight texture map slots. A TexMap can only be obtained from
// NewTexMap or the TEXMAP0-TEXMAP7 values, so every TexMap in the program
// names a slot that exists
type TexMap struct {
	id uint8
}

var (
	TEXMAP0 = TexMap{0}
	TEXMAP1 = TexMap{1}
	TEXMAP2 = TexMap{2}
	TEXMAP3 = TexMap{3}
	TEXMAP4 = TexMap{4}
	TEXMAP5 = TexMap{5}
	TEXMAP6 = TexMap{6}
	TEXMAP7 = TexMap{7}
)

// Returns texture map slot `n`, or ErrInvalidTexMap if n is not in 0-7
func NewTexMap(n int) (TexMap, error) {
	if n < 0 || n >= MAX_TEXMAP {
		return TexMap{}, fmt.Errorf("%w: %d", ErrInvalidTexMap, n)
	}
	return TexMap{uint8(n)}, nil
}

// Returns the slot number (0-7)
func (m TexMap) ID() int {
	return int(m.id)
}

func (m TexMap) String() string {
	return fmt.Sprintf("TEXMAP%d", m.id)
}

// One of the sixteen TEV stages, see TexMap
type TevStage struct {
	n uint8
}

var (
	TEVSTAGE0  = TevStage{0}
	TEVSTAGE1  = TevStage{1}
	TEVSTAGE2  = TevStage{2}
	TEVSTAGE3  = TevStage{3}
	TEVSTAGE4  = TevStage{4}
	TEVSTAGE5  = TevStage{5}
	TEVSTAGE6  = TevStage{6}
	TEVSTAGE7  = TevStage{7}
	TEVSTAGE8  = TevStage{8}
	TEVSTAGE9  = TevStage{9}
	TEVSTAGE10 = TevStage{10}
	TEVSTAGE11 = TevStage{11}
	TEVSTAGE12 = TevStage{12}
	TEVSTAGE13 = TevStage{13}
	TEVSTAGE14 = TevStage{14}
	TEVSTAGE15 = TevStage{15}
)

// Returns TEV stage `n`, or ErrInvalidTevStage if n is not in 0-15
func NewTevStage(n int) (TevStage, error) {
	if n < 0 || n >= MAX_TEV_STAGES {
		return TevStage{}, fmt.Errorf("%w: %d", ErrInvalidTevStage, n)
	}
	return TevStage{uint8(n)}, nil
}

// Returns the stage number (0-15)
func (s TevStage) ID() int {
	return int(s.n)
}

func (s TevStage) String() string {
	return fmt.Sprintf("TEVSTAGE%d", s.n)
}
