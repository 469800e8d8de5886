// Package viewer shows a capture in a window. The stream is replayed on
// every frame and the resulting triangles are drawn with their vertex
// colors.
package viewer

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/zeozeozeo/gogx/capture"
	"github.com/zeozeozeo/gogx/gx"
	"github.com/zeozeozeo/gogx/log"
	"github.com/zeozeozeo/gogx/replay"
)

// Largest number of vertices drawn with one DrawTriangles call, a multiple
// of 3 that fits 16 bit indices
const maxBatch = 65535 - 65535%3

var emptyImage = ebiten.NewImage(3, 3)

func init() {
	emptyImage.Fill(color.White)
}

// Viewer is an ebiten.Game drawing a replayed capture
type Viewer struct {
	cap  *capture.Capture
	mem  *gx.Memory
	lg   *log.Logger
	dd   *replay.DrawData
	err  error
	stat replay.Stats
	tick int

	vertices []ebiten.Vertex
	indices  []uint16
}

// Returns a viewer for `c`
func New(c *capture.Capture, lg *log.Logger) (*Viewer, error) {
	mem, err := c.NewMemory()
	if err != nil {
		return nil, err
	}
	return &Viewer{cap: c, mem: mem, lg: lg}, nil
}

// Opens a window and shows `c` until the window is closed or Escape is
// pressed
func Run(c *capture.Capture, lg *log.Logger) error {
	v, err := New(c, lg)
	if err != nil {
		return err
	}
	ebiten.SetWindowSize(int(c.Mode.FBWidth), int(c.Mode.XFBHeight))
	ebiten.SetWindowTitle(fmt.Sprintf("gogx - %s", c.Scene))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	return ebiten.RunGame(v)
}

func (v *Viewer) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	s := replay.NewState(v.mem)
	if v.lg != nil && v.tick == 0 {
		// the stream does not change, one logged replay is enough
		s.SetLogger(v.lg.Logger)
	}
	v.tick++
	if err := s.Run(bytes.NewReader(v.cap.Stream)); err != nil {
		if v.err == nil {
			v.lg.Errorf("replay failed: %v", err)
		}
		v.err = err
	}
	v.dd = s.DrawData()
	v.stat = s.Stats
	return nil
}

func (v *Viewer) Draw(screen *ebiten.Image) {
	if v.dd == nil {
		return
	}
	screen.Fill(v.dd.Clear)

	vtx := v.dd.VtxBuffer
	for start := 0; start < len(vtx); start += maxBatch {
		end := min(start+maxBatch, len(vtx))
		v.drawBatch(screen, vtx[start:end])
	}

	msg := fmt.Sprintf("%s: %d triangles, %d draws, %d frames",
		v.cap.Scene, v.dd.Triangles(), v.stat.Draws, v.stat.Frames)
	if v.err != nil {
		msg += "\n" + v.err.Error()
	}
	ebitenutil.DebugPrint(screen, msg)
}

// Generates ebiten vertices from replayed vertices and draws them
func (v *Viewer) drawBatch(screen *ebiten.Image, batch []replay.Vertex) {
	v.vertices = v.vertices[:0]
	v.indices = v.indices[:0]
	for idx, vtx := range batch {
		v.vertices = append(v.vertices, ebiten.Vertex{
			DstX:   vtx.Position.X(),
			DstY:   vtx.Position.Y(),
			SrcX:   1,
			SrcY:   1,
			ColorR: float32(vtx.Color.R) / 255,
			ColorG: float32(vtx.Color.G) / 255,
			ColorB: float32(vtx.Color.B) / 255,
			ColorA: float32(vtx.Color.A) / 255,
		})
		v.indices = append(v.indices, uint16(idx))
	}

	op := &ebiten.DrawTrianglesOptions{}
	screen.DrawTriangles(v.vertices, v.indices, emptyImage, op)
}

// The EFB is shown at its own size and scaled to the window
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(v.cap.Mode.FBWidth), int(v.cap.Mode.EFBHeight)
}
