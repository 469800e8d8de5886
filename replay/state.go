// Package replay plays a GX command stream back on the CPU. It follows the
// transform unit state the stream loads (matrices, projection, viewport),
// fetches indexed attributes from memory and turns every triangle-based
// primitive into screen space triangles with per-vertex color.
//
// Texturing, lighting and the TEV are not evaluated.
package replay

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/zeozeozeo/gogx/gx"
)

var (
	// A CALL_DL was found inside a display list. The hardware cannot
	// nest display lists
	ErrNestedCall = errors.New("replay: display list called from a display list")
	// A display list or an indexed attribute was used without memory
	ErrNoMemory = errors.New("replay: stream reads memory but no memory was given")
	// An address outside of memory was read
	ErrOutOfRange = errors.New("replay: read outside of memory")
)

// Words of XF memory and registers tracked by the replay
const xfSize = 0x1058

// Register kinds inside a texture map bank
const (
	txMode0  = 0
	txImage0 = 2
	txImage3 = 5
)

// A texture as programmed into one of the texture map slots
type Texture struct {
	Addr  gx.PhysAddr
	Image gx.TexImage0
	Mode  gx.TexMode0
}

// Counters collected while replaying
type Stats struct {
	Packets   int // Commands executed, display list contents included
	Draws     int // Draw commands
	Vertices  int // Vertices read
	Triangles int // Triangles produced
	Dropped   int // Triangles behind the eye, and line/point vertices
	Calls     int // Display lists called
	Frames    int // Copies to the external frame buffer
}

// State is the transform unit and setup state of a replay
type State struct {
	mem *gx.Memory
	lg  *slog.Logger

	xf       [xfSize]uint32
	clear    color.RGBA
	textures [gx.MAX_TEXMAP]Texture
	texBound uint8 // one bit per map that saw an image address

	cur   *DrawData
	last  *DrawData
	Stats Stats
}

// Returns a new replay state. `mem` holds the arrays and display lists the
// stream points at; it may be nil for streams that only use direct
// attributes
func NewState(mem *gx.Memory) *State {
	s := &State{
		mem: mem,
		lg:  gx.Logger(),
		cur: NewDrawData(),
	}
	// untouched material color: draw uncolored vertices white
	s.xf[gx.XF_MATERIAL0] = 0xffffffff
	s.xf[gx.XF_MATERIAL1] = 0xffffffff
	return s
}

// Sets the logger used for per frame debug output
func (s *State) SetLogger(lg *slog.Logger) {
	s.lg = lg
}

// Returns the triangles of the last frame copied out with CopyDisp, or of
// the frame in progress if there was no copy yet
func (s *State) DrawData() *DrawData {
	if s.last != nil {
		return s.last
	}
	return s.cur
}

// Returns the texture last loaded into `m`
func (s *State) Texture(m gx.TexMap) (Texture, bool) {
	return s.textures[m.ID()], s.texBound&(1<<m.ID()) != 0
}

// Returns the current clear color
func (s *State) ClearColor() color.RGBA {
	return s.clear
}

// Replays every command read from `r`
func (s *State) Run(r io.Reader) error {
	return s.run(gx.NewDecoder(r), false)
}

func (s *State) run(dec *gx.Decoder, inList bool) error {
	for {
		pkt, err := dec.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.apply(dec, &pkt, inList); err != nil {
			return fmt.Errorf("replay: command at offset %d: %w", pkt.Offset, err)
		}
	}
}

func (s *State) apply(dec *gx.Decoder, pkt *gx.Packet, inList bool) error {
	s.Stats.Packets++

	switch pkt.Kind {
	case gx.PKT_XF:
		for i, w := range pkt.Words {
			if addr := int(pkt.Reg) + i; addr < xfSize {
				s.xf[addr] = w
			}
		}
	case gx.PKT_BP:
		s.applyBP(gx.BPReg(pkt.Reg), pkt.Value)
	case gx.PKT_CALL_DL:
		if inList {
			return ErrNestedCall
		}
		list, err := s.slice(gx.PhysAddr(pkt.Value), pkt.Size)
		if err != nil {
			return err
		}
		s.Stats.Calls++
		return s.run(dec.Fork(bytes.NewReader(list)), true)
	case gx.PKT_DRAW:
		return s.draw(dec, pkt)
	}
	return nil
}

func (s *State) applyBP(reg gx.BPReg, val uint32) {
	switch reg {
	case gx.BP_PE_CLEAR_AR:
		s.clear.A, s.clear.R = uint8(val>>8), uint8(val)
	case gx.BP_PE_CLEAR_GB:
		s.clear.B, s.clear.G = uint8(val>>8), uint8(val)
	case gx.BP_PE_COPY_EXECUTE:
		s.Stats.Frames++
		s.lg.Debug("replay: frame copied",
			slog.Int("frame", s.Stats.Frames),
			slog.Int("triangles", s.cur.Triangles()))
		s.last = s.cur
		s.cur = NewDrawData()
		s.cur.Clear = s.clear
		return
	default:
		s.applyTexReg(reg, val)
		return
	}
	if len(s.cur.VtxBuffer) == 0 {
		s.cur.Clear = s.clear
	}
}

func (s *State) applyTexReg(reg gx.BPReg, val uint32) {
	m, kind, ok := gx.TexRegMap(reg)
	if !ok {
		return
	}
	tex := &s.textures[m.ID()]
	switch kind {
	case txMode0:
		tex.Mode = gx.DecodeTexMode0(val)
	case txImage0:
		tex.Image = gx.DecodeTexImage0(val)
	case txImage3:
		tex.Addr = gx.PhysAddr(val << 5)
		s.texBound |= 1 << m.ID()
	}
}

// Returns `n` bytes of memory at `addr`
func (s *State) slice(addr gx.PhysAddr, n uint32) ([]byte, error) {
	if s.mem == nil {
		return nil, ErrNoMemory
	}
	if uint64(addr)+uint64(n) > uint64(len(s.mem.Data)) {
		return nil, fmt.Errorf("%w: %d bytes at 0x%08x", ErrOutOfRange, n, addr)
	}
	return s.mem.Slice(addr, n), nil
}

// Returns the position matrix at `idx`, padded to 4x4
func (s *State) posMtx(idx uint32) mgl32.Mat4 {
	base := int(idx&0x3f) << 2
	row := func(r int) mgl32.Vec4 {
		w := s.xf[base+r*4:]
		return mgl32.Vec4{f32(w[0]), f32(w[1]), f32(w[2]), f32(w[3])}
	}
	return mgl32.Mat4FromRows(row(0), row(1), row(2), mgl32.Vec4{0, 0, 0, 1})
}

// Rebuilds the projection matrix from the six parameters XF keeps
func (s *State) projection() mgl32.Mat4 {
	p := s.xf[gx.XF_PROJECTION:]
	p0, p1, p2, p3, p4, p5 := f32(p[0]), f32(p[1]), f32(p[2]), f32(p[3]), f32(p[4]), f32(p[5])
	if gx.ProjectionType(p[6]) == gx.ORTHOGRAPHIC {
		return mgl32.Mat4FromRows(
			mgl32.Vec4{p0, 0, 0, p1},
			mgl32.Vec4{0, p2, 0, p3},
			mgl32.Vec4{0, 0, p4, p5},
			mgl32.Vec4{0, 0, 0, 1},
		)
	}
	return mgl32.Mat4FromRows(
		mgl32.Vec4{p0, 0, p1, 0},
		mgl32.Vec4{0, p2, p3, 0},
		mgl32.Vec4{0, 0, p4, p5},
		mgl32.Vec4{0, 0, -1, 0},
	)
}

// Maps a clip space position to EFB pixels. Returns false for positions
// on or behind the eye plane
func (s *State) toScreen(clip mgl32.Vec4) (mgl32.Vec3, bool) {
	w := clip.W()
	if w <= 0 {
		return mgl32.Vec3{}, false
	}
	vp := s.xf[gx.XF_VIEWPORT:]
	sx, sy, sz := f32(vp[0]), f32(vp[1]), f32(vp[2])
	ox, oy, oz := f32(vp[3]), f32(vp[4]), f32(vp[5])

	return mgl32.Vec3{
		clip.X()/w*sx + ox - gx.SCREEN_OFFSET,
		clip.Y()/w*sy + oy - gx.SCREEN_OFFSET,
		(clip.Z()/w*sz + oz) / gx.MAX_Z24,
	}, true
}
