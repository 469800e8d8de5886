package replay

import (
	"encoding/binary"
	"fmt"
	"image/color"
	"math"

	"github.com/zeozeozeo/gogx/gx"
)

// Formatted panic()
func panicFmt(format string, a ...interface{}) {
	panic(fmt.Sprintf(format, a...))
}

// How a primitive is split into triangles
type primKind uint8

const (
	primNone primKind = iota // lines and points are not rasterized here
	primTriangles
	primQuads
	primStrip
	primFan
)

func kindOf(prim gx.Primitive) primKind {
	switch prim {
	case gx.PRIM_TRIANGLES:
		return primTriangles
	case gx.PRIM_QUADS, gx.PRIM_QUADS2:
		return primQuads
	case gx.PRIM_TRIANGLESTRIP:
		return primStrip
	case gx.PRIM_TRIANGLEFAN:
		return primFan
	}
	return primNone
}

// Reads component `i` of a numeric attribute and scales fixed point values
// down by `frac` bits
func readComp(b []byte, typ gx.CompType, i int, frac uint8) float32 {
	var v float32
	switch typ {
	case gx.U8:
		v = float32(b[i])
	case gx.S8:
		v = float32(int8(b[i]))
	case gx.U16:
		v = float32(binary.BigEndian.Uint16(b[2*i:]))
	case gx.S16:
		v = float32(int16(binary.BigEndian.Uint16(b[2*i:])))
	case gx.F32:
		return math.Float32frombits(binary.BigEndian.Uint32(b[4*i:]))
	default:
		return 0
	}
	return v / float32(uint32(1)<<frac)
}

// Expands an n bit color channel to 8 bits
func expand(v uint32, bits uint) uint8 {
	v &= 1<<bits - 1
	return uint8(v<<(8-bits) | v>>(2*bits-8))
}

// Decodes a packed vertex color
func readColor(b []byte, typ gx.CompType) color.RGBA {
	switch typ {
	case gx.RGB565:
		v := uint32(binary.BigEndian.Uint16(b))
		return color.RGBA{expand(v>>11, 5), expand(v>>5, 6), expand(v, 5), 0xff}
	case gx.RGB8, gx.RGBX8:
		return color.RGBA{b[0], b[1], b[2], 0xff}
	case gx.RGBA4:
		v := uint32(binary.BigEndian.Uint16(b))
		return color.RGBA{expand(v>>12, 4), expand(v>>8, 4), expand(v>>4, 4), expand(v, 4)}
	case gx.RGBA6:
		v := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
		return color.RGBA{expand(v>>18, 6), expand(v>>12, 6), expand(v>>6, 6), expand(v, 6)}
	case gx.RGBA8:
		return color.RGBA{b[0], b[1], b[2], b[3]}
	}
	return color.RGBA{}
}

// Unpacks an XF color register (R in the top byte)
func unpackRGBA(v uint32) color.RGBA {
	return color.RGBA{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}
}

func f32(v uint32) float32 {
	return math.Float32frombits(v)
}
