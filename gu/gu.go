// Package gu builds the matrices gx loads into the transform unit. The
// math is done with mgl32; the results are converted to the row-major
// gx.Mtx34 and gx.Mtx44 layouts.
//
// Projections follow the GX clip space convention: depth runs from -w at
// the near plane to 0 at the far plane, unlike OpenGL's -w to w.
package gu

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeozeozeo/gogx/gx"
)

// Converts an mgl32 matrix to a 3x4 matrix, dropping the last row
func Mtx34(m mgl32.Mat4) gx.Mtx34 {
	var out gx.Mtx34
	for r := 0; r < 3; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

// Converts an mgl32 matrix to a 4x4 matrix
func Mtx44(m mgl32.Mat4) gx.Mtx44 {
	var out gx.Mtx44
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r][c] = m.At(r, c)
		}
	}
	return out
}

// Returns `m` as an mgl32 matrix with a 0 0 0 1 last row
func Mat4(m gx.Mtx34) mgl32.Mat4 {
	row := func(r int) mgl32.Vec4 {
		return mgl32.Vec4{m[r][0], m[r][1], m[r][2], m[r][3]}
	}
	return mgl32.Mat4FromRows(row(0), row(1), row(2), mgl32.Vec4{0, 0, 0, 1})
}

func Identity() gx.Mtx34 {
	return Mtx34(mgl32.Ident4())
}

func Translate(x, y, z float32) gx.Mtx34 {
	return Mtx34(mgl32.Translate3D(x, y, z))
}

func Scale(x, y, z float32) gx.Mtx34 {
	return Mtx34(mgl32.Scale3D(x, y, z))
}

// Rotation of `deg` degrees around `axis`
func Rotate(axis mgl32.Vec3, deg float32) gx.Mtx34 {
	return Mtx34(mgl32.HomogRotate3D(mgl32.DegToRad(deg), axis.Normalize()))
}

// Returns a * b: b is applied first
func Concat(a, b gx.Mtx34) gx.Mtx34 {
	return Mtx34(Mat4(a).Mul4(Mat4(b)))
}

// Returns the inverse transpose of `m`, the matrix normals are transformed
// with. The translation column is zero
func InverseTranspose(m gx.Mtx34) gx.Mtx34 {
	inv := Mat4(m).Inv().Transpose()
	out := Mtx34(inv)
	for r := range out {
		out[r][3] = 0
	}
	return out
}

// Camera matrix looking from `eye` at `target`
func LookAt(eye, up, target mgl32.Vec3) gx.Mtx34 {
	return Mtx34(mgl32.LookAtV(eye, target, up))
}

// Perspective projection. `fovy` is the vertical field of view in degrees
func Perspective(fovy, aspect, near, far float32) gx.Mtx44 {
	cot := float32(1 / math.Tan(float64(mgl32.DegToRad(fovy))/2))
	depth := 1 / (far - near)
	return Mtx44(mgl32.Mat4FromRows(
		mgl32.Vec4{cot / aspect, 0, 0, 0},
		mgl32.Vec4{0, cot, 0, 0},
		mgl32.Vec4{0, 0, -near * depth, -far * near * depth},
		mgl32.Vec4{0, 0, -1, 0},
	))
}

// Perspective projection for an off-center view volume
func Frustum(top, bottom, left, right, near, far float32) gx.Mtx44 {
	w, h, depth := 1/(right-left), 1/(top-bottom), 1/(far-near)
	return Mtx44(mgl32.Mat4FromRows(
		mgl32.Vec4{2 * near * w, 0, (right + left) * w, 0},
		mgl32.Vec4{0, 2 * near * h, (top + bottom) * h, 0},
		mgl32.Vec4{0, 0, -near * depth, -far * near * depth},
		mgl32.Vec4{0, 0, -1, 0},
	))
}

// Orthographic projection. With top=0 and bottom=height vertex
// coordinates are EFB pixels
func Ortho(top, bottom, left, right, near, far float32) gx.Mtx44 {
	w, h, depth := 1/(right-left), 1/(top-bottom), 1/(far-near)
	return Mtx44(mgl32.Mat4FromRows(
		mgl32.Vec4{2 * w, 0, 0, -(right + left) * w},
		mgl32.Vec4{0, 2 * h, 0, -(top + bottom) * h},
		mgl32.Vec4{0, 0, -depth, -far * depth},
		mgl32.Vec4{0, 0, 0, 1},
	))
}
