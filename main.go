package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/goforj/godump"
	"github.com/zeozeozeo/gogx/capture"
	"github.com/zeozeozeo/gogx/gx"
	"github.com/zeozeozeo/gogx/log"
	"github.com/zeozeozeo/gogx/replay"
	"github.com/zeozeozeo/gogx/viewer"
)

func main() {
	// parse arguments
	sceneName := flag.String("scene", "triangle", "scene to render: "+strings.Join(sceneNames(), "|"))
	in := flag.String("in", "", "load a capture instead of rendering a scene")
	out := flag.String("o", "", "save the capture to this path")
	pal := flag.Bool("pal", false, "render in the 640x528 PAL mode")
	view := flag.Bool("view", false, "show the capture in a window")
	dump := flag.Bool("dump", false, "print the disassembled command stream")
	raw := flag.Bool("raw", false, "dump the decoded packets as Go values")
	logLevel := flag.String("loglevel", "info", "log level: debug|info|warn|error")
	logDir := flag.String("logdir", "", "log directory (default: the user config dir)")
	flag.Parse()

	lg := log.New(*logLevel, *logDir)
	gx.SetLogger(lg.Logger)

	var c *capture.Capture
	var err error
	if *in != "" {
		c, err = capture.LoadFile(*in)
	} else {
		mode := gx.RENDER_MODE_NTSC_480P
		if *pal {
			mode = gx.RENDER_MODE_PAL_528I
		}
		c, err = render(*sceneName, mode, lg)
	}
	if err != nil {
		fail(lg, err)
	}

	if *out != "" {
		if err := c.SaveFile(*out); err != nil {
			fail(lg, err)
		}
		lg.Infof("saved capture to %s", *out)
	}
	if *dump || *raw {
		if err := disassemble(os.Stdout, c, *raw); err != nil {
			fail(lg, err)
		}
	}
	if *view {
		if err := viewer.Run(c, lg); err != nil {
			fail(lg, err)
		}
	}
	if *out == "" && !*dump && !*raw && !*view {
		if err := summary(os.Stdout, c); err != nil {
			fail(lg, err)
		}
	}
}

func fail(lg *log.Logger, err error) {
	lg.Errorf("%v", err)
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}

// Runs a scene against a recording device and returns the capture
func render(name string, mode gx.RenderMode, lg *log.Logger) (*capture.Capture, error) {
	sc, ok := scenes[name]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %s)", name, strings.Join(sceneNames(), ", "))
	}
	start := time.Now()

	mem := gx.NewMemory()
	rec := capture.NewRecorder()
	d := gx.New(rec, gx.WithRenderMode(mode), gx.WithMemory(mem), gx.WithLogger(lg.Slog()))
	if err := sc(d, mem); err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	if err := d.Pipe().Err(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}

	lg.Infof("rendered scene %s: %d bytes in %s", name, rec.Len(), time.Since(start))
	return rec.Capture(name, mode, mem), nil
}

// Prints every command of the capture. Called display lists are printed
// indented below the call
func disassemble(w io.Writer, c *capture.Capture, raw bool) error {
	mem, err := c.NewMemory()
	if err != nil {
		return err
	}

	var walk func(dec *gx.Decoder, indent string) error
	walk = func(dec *gx.Decoder, indent string) error {
		for {
			pkt, err := dec.Next()
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			if pkt.Kind == gx.PKT_NOP {
				continue
			}
			if raw {
				godump.Fdump(w, pkt)
			} else {
				fmt.Fprintf(w, "%s%08x  %s\n", indent, pkt.Offset, pkt.String())
			}
			if pkt.Kind == gx.PKT_CALL_DL && indent == "" {
				if uint64(pkt.Value)+uint64(pkt.Size) > uint64(len(mem.Data)) {
					return fmt.Errorf("display list at 0x%08x is outside of memory", pkt.Value)
				}
				list := mem.Slice(gx.PhysAddr(pkt.Value), pkt.Size)
				if err := walk(dec.Fork(bytes.NewReader(list)), "    "); err != nil {
					return fmt.Errorf("display list at 0x%08x: %w", pkt.Value, err)
				}
			}
		}
	}
	return walk(gx.NewDecoder(bytes.NewReader(c.Stream)), "")
}

// Replays the capture and prints what it drew
func summary(w io.Writer, c *capture.Capture) error {
	mem, err := c.NewMemory()
	if err != nil {
		return err
	}
	s := replay.NewState(mem)
	if err := s.Run(bytes.NewReader(c.Stream)); err != nil {
		return err
	}
	st := s.Stats
	fmt.Fprintf(w, "%s: %d bytes, %d commands, %d draws, %d triangles, %d display list calls, %d frames\n",
		c.Scene, len(c.Stream), st.Packets, st.Draws, st.Triangles, st.Calls, st.Frames)
	return nil
}
