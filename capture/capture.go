// Package capture records a command stream together with the memory it
// points at, so it can be replayed or viewed later. Captures are stored as
// msgpack compressed with zstd.
package capture

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
	"github.com/zeozeozeo/gogx/gx"
)

const (
	VERSION = 1      // Format version written by Save
	EXT     = ".gxc" // File extension of saved captures
)

// Returned by Load for captures written by a different format version
var ErrVersion = errors.New("capture: unsupported version")

// A buffer of main memory at the time of the capture
type MemBlock struct {
	Addr uint32 `msgpack:"addr"`
	Data []byte `msgpack:"data"`
}

// A recorded command stream
type Capture struct {
	Version int           `msgpack:"version"`
	Scene   string        `msgpack:"scene"`
	Mode    gx.RenderMode `msgpack:"mode"`
	Memory  []MemBlock    `msgpack:"memory"`
	Stream  []byte        `msgpack:"stream"`
}

// Recorder is a command sink that keeps every byte written to it
type Recorder struct {
	buf bytes.Buffer
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

// Appends `b` to the recorded stream. Never fails
func (r *Recorder) Write(b []byte) (int, error) {
	return r.buf.Write(b)
}

// Returns the number of bytes recorded
func (r *Recorder) Len() int {
	return r.buf.Len()
}

// Returns the recorded stream
func (r *Recorder) Bytes() []byte {
	return r.buf.Bytes()
}

// Returns a capture of the recorded stream. Every block allocated from
// `mem` is copied in; `mem` may be nil
func (r *Recorder) Capture(scene string, mode gx.RenderMode, mem *gx.Memory) *Capture {
	c := &Capture{
		Version: VERSION,
		Scene:   scene,
		Mode:    mode,
		Stream:  bytes.Clone(r.buf.Bytes()),
	}
	if mem != nil {
		for _, blk := range mem.Blocks() {
			c.Memory = append(c.Memory, MemBlock{
				Addr: uint32(blk.Addr),
				Data: bytes.Clone(mem.Slice(blk.Addr, blk.Size)),
			})
		}
	}
	return c
}

// Rebuilds the memory image the stream refers to
func (c *Capture) NewMemory() (*gx.Memory, error) {
	mem := gx.NewMemory()
	for _, blk := range c.Memory {
		if err := mem.Restore(gx.PhysAddr(blk.Addr), blk.Data); err != nil {
			return nil, fmt.Errorf("capture: restore block at 0x%08x: %w", blk.Addr, err)
		}
	}
	return mem, nil
}

// Writes the capture to `w` (msgpack + zstd compression)
func (c *Capture) Save(w io.Writer) error {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBestCompression))
	if err != nil {
		return fmt.Errorf("capture: failed to create zstd writer: %w", err)
	}
	defer zw.Close()

	if err := msgpack.NewEncoder(zw).Encode(c); err != nil {
		return fmt.Errorf("capture: failed to encode: %w", err)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("capture: failed to close zstd writer: %w", err)
	}
	return nil
}

// Reads a capture from `r`
func Load(r io.Reader) (*Capture, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("capture: failed to create zstd reader: %w", err)
	}
	defer zr.Close()

	var c Capture
	if err := msgpack.NewDecoder(zr).Decode(&c); err != nil {
		return nil, fmt.Errorf("capture: failed to decode: %w", err)
	}
	if c.Version != VERSION {
		return nil, fmt.Errorf("%w %d (expected %d)", ErrVersion, c.Version, VERSION)
	}
	return &c, nil
}

// Saves the capture to the file at `path`
func (c *Capture) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := c.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Loads the capture stored at `path`
func LoadFile(path string) (*Capture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}
