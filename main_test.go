package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/zeozeozeo/gogx/gx"
	"github.com/zeozeozeo/gogx/log"
	"github.com/zeozeozeo/gogx/replay"
)

func TestScenes(t *testing.T) {
	tests := []struct {
		scene     string
		triangles int
		calls     int
	}{
		{"triangle", 1, 0},
		{"quad", 4, 0},
		{"tev", 6, 0},
		{"indexed", 3 * 12, 3},
	}

	for _, tt := range tests {
		for _, mode := range []gx.RenderMode{gx.RENDER_MODE_NTSC_480P, gx.RENDER_MODE_PAL_528I} {
			c, err := render(tt.scene, mode, nil)
			if err != nil {
				t.Fatalf("%s: %v", tt.scene, err)
			}
			mem, err := c.NewMemory()
			if err != nil {
				t.Fatal(err)
			}
			s := replay.NewState(mem)
			if err := s.Run(bytes.NewReader(c.Stream)); err != nil {
				t.Fatalf("%s: %v", tt.scene, err)
			}
			if s.Stats.Frames != 1 || s.Stats.Calls != tt.calls {
				t.Errorf("%s: %d frames, %d calls", tt.scene, s.Stats.Frames, s.Stats.Calls)
			}
			if got := s.DrawData().Triangles(); got != tt.triangles {
				t.Errorf("%s: %d triangles, want %d", tt.scene, got, tt.triangles)
			}
		}
	}

	if _, err := render("teapot", gx.RENDER_MODE_NTSC_480P, nil); err == nil {
		t.Errorf("unknown scene rendered")
	}
}

func TestDisassemble(t *testing.T) {
	c, err := render("indexed", gx.RENDER_MODE_NTSC_480P, log.NewWriter("error", &bytes.Buffer{}))
	if err != nil {
		t.Fatal(err)
	}
	out := &bytes.Buffer{}
	if err := disassemble(out, c, false); err != nil {
		t.Fatal(err)
	}
	text := out.String()
	if strings.Count(text, "CALL ") != 3 {
		t.Errorf("expected 3 display list calls in:\n%s", text)
	}
	// the cube draw appears once per call, indented
	if strings.Count(text, "    ") == 0 || strings.Count(text, "DRAW QUADS VTXFMT4 x24") != 3 {
		t.Errorf("display list contents not printed")
	}

	out.Reset()
	if err := summary(out, c); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "indexed: ") || !strings.Contains(out.String(), "36 triangles") {
		t.Errorf("summary %q", out.String())
	}
}
