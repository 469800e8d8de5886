package replay

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
)

// A single transformed vertex
type Vertex struct {
	Position mgl32.Vec3 // X and Y in EFB pixels, Z is the depth in 0-1
	Color    color.RGBA
}

// Triangles produced by one frame
type DrawData struct {
	VtxBuffer []Vertex
	Clear     color.RGBA // Color the EFB held before the first draw
}

func NewDrawData() *DrawData {
	return &DrawData{}
}

// Pushes vertices to the vertex buffer
func (dd *DrawData) PushVertices(vertices ...Vertex) {
	dd.VtxBuffer = append(dd.VtxBuffer, vertices...)
}

// Pushes a quad as two triangles sharing the first vertex, which is how
// the setup unit splits quads
func (dd *DrawData) PushQuad(vertices ...Vertex) {
	if len(vertices) != 4 {
		panicFmt("PushQuad takes 4 parameters, got %d", len(vertices))
	}

	dd.PushVertices(vertices[0], vertices[1], vertices[2])
	dd.PushVertices(vertices[0], vertices[2], vertices[3])
}

// Returns the number of triangles in the buffer
func (dd *DrawData) Triangles() int {
	return len(dd.VtxBuffer) / 3
}

// Expands `vertices` drawn as `prim` into triangles. `ok` marks the
// vertices that could be projected; triangles touching any other vertex
// are dropped. Returns the number of triangles dropped
func (dd *DrawData) pushPrimitive(prim primKind, vertices []Vertex, ok []bool) (dropped int) {
	tri := func(a, b, c int) {
		if !ok[a] || !ok[b] || !ok[c] {
			dropped++
			return
		}
		dd.PushVertices(vertices[a], vertices[b], vertices[c])
	}

	n := len(vertices)
	switch prim {
	case primTriangles:
		for i := 0; i+2 < n; i += 3 {
			tri(i, i+1, i+2)
		}
	case primQuads:
		for i := 0; i+3 < n; i += 4 {
			tri(i, i+1, i+2)
			tri(i, i+2, i+3)
		}
	case primStrip:
		// every other triangle is flipped to keep the winding
		for i := 2; i < n; i++ {
			if i%2 == 0 {
				tri(i-2, i-1, i)
			} else {
				tri(i-1, i-2, i)
			}
		}
	case primFan:
		for i := 2; i < n; i++ {
			tri(0, i-1, i)
		}
	}
	return dropped
}
