package replay

import (
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeozeozeo/gogx/gx"
)

// Returns the bytes of attribute `a` of vertex `vtx`. Indexed attributes
// are fetched from their array
func (s *State) attrData(dec *gx.Decoder, vtx []byte, a gx.AttrLayout) ([]byte, error) {
	raw := vtx[a.Offset : a.Offset+a.Size]
	if a.Kind == gx.DIRECT {
		return raw, nil
	}

	var idx uint32
	if a.Kind == gx.INDEX16 {
		idx = uint32(binary.BigEndian.Uint16(raw))
	} else {
		idx = uint32(raw[0])
	}
	arr := a.Attr
	if arr == gx.VA_NBT {
		arr = gx.VA_NRM
	}
	base, stride := dec.Array(int(arr - gx.VA_POS))
	return s.slice(base+gx.PhysAddr(idx*stride), a.ElemSize())
}

// Transforms one vertex. Returns false if it cannot be projected
func (s *State) vertex(dec *gx.Decoder, vtx []byte, layout *gx.VertexLayout) (Vertex, bool, error) {
	var out Vertex
	mtx := s.xf[gx.XF_MATINDEX_A] & 0x3f
	if a, ok := layout.Find(gx.VA_PTNMTXIDX); ok {
		mtx = uint32(vtx[a.Offset])
	}

	a, ok := layout.Find(gx.VA_POS)
	if !ok {
		return out, false, fmt.Errorf("vertex has no position")
	}
	b, err := s.attrData(dec, vtx, a)
	if err != nil {
		return out, false, err
	}
	pos := mgl32.Vec4{readComp(b, a.Type, 0, a.Frac), readComp(b, a.Type, 1, a.Frac), 0, 1}
	if a.Cnt == gx.POS_XYZ {
		pos[2] = readComp(b, a.Type, 2, a.Frac)
	}

	if a, ok := layout.Find(gx.VA_CLR0); ok {
		b, err := s.attrData(dec, vtx, a)
		if err != nil {
			return out, false, err
		}
		out.Color = readColor(b, a.Type)
	} else {
		out.Color = unpackRGBA(s.xf[gx.XF_MATERIAL0])
	}

	eye := s.posMtx(mtx).Mul4x1(pos)
	screen, visible := s.toScreen(s.projection().Mul4x1(eye))
	out.Position = screen
	return out, visible, nil
}

func (s *State) draw(dec *gx.Decoder, pkt *gx.Packet) error {
	s.Stats.Draws++
	s.Stats.Vertices += int(pkt.Count)

	kind := kindOf(pkt.Prim)
	if kind == primNone {
		s.Stats.Dropped += int(pkt.Count)
		return nil
	}

	stride := pkt.Layout.Stride
	vertices := make([]Vertex, pkt.Count)
	visible := make([]bool, pkt.Count)
	for i := range vertices {
		vtx := pkt.Data[uint32(i)*stride : uint32(i+1)*stride]
		v, ok, err := s.vertex(dec, vtx, &pkt.Layout)
		if err != nil {
			return fmt.Errorf("vertex %d: %w", i, err)
		}
		vertices[i], visible[i] = v, ok
	}

	before := s.cur.Triangles()
	s.Stats.Dropped += s.cur.pushPrimitive(kind, vertices, visible)
	added := s.cur.Triangles() - before
	s.Stats.Triangles += added

	s.lg.Debug("replay: draw",
		slog.String("prim", pkt.Prim.String()),
		slog.Int("vertices", int(pkt.Count)),
		slog.Int("triangles", added))
	return nil
}
