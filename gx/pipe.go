package gx

import (
	"encoding/binary"
	"io"
	"log/slog"
)

// Size in bytes of the CPU write-gather buffer in front of the GPU FIFO.
// Flush writes this many zero bytes to push any pending burst out
const GATHER_PIPE_SIZE = 32

// Pipe is the write-only command channel into the graphics FIFO. Every
// value is written big-endian and handed to the sink immediately, in
// program order; the pipe never buffers or reorders.
//
// The hardware channel cannot fail, but an io.Writer can. The first sink
// error is latched and every later write is dropped, so a failed stream is
// a truncated stream rather than a corrupted one.
type Pipe struct {
	sink    io.Writer
	written int64 // Bytes accepted by the sink
	err     error
	scratch [8]byte
	lg      *slog.Logger
}

// Returns a new pipe writing into `sink`
func NewPipe(sink io.Writer) *Pipe {
	return &Pipe{sink: sink, lg: Logger()}
}

func (p *Pipe) write(b []byte) {
	if p.err != nil {
		return
	}
	n, err := p.sink.Write(b)
	p.written += int64(n)
	if err == nil && n < len(b) {
		err = io.ErrShortWrite
	}
	if err != nil {
		p.err = err
		p.lg.Error("gx: command sink failed, dropping further writes",
			slog.Int64("offset", p.written), slog.Any("error", err))
	}
}

// Writes one byte
func (p *Pipe) U8(v uint8) {
	p.scratch[0] = v
	p.write(p.scratch[:1])
}

// Writes a big-endian halfword
func (p *Pipe) U16(v uint16) {
	binary.BigEndian.PutUint16(p.scratch[:2], v)
	p.write(p.scratch[:2])
}

// Writes a big-endian word
func (p *Pipe) U32(v uint32) {
	binary.BigEndian.PutUint32(p.scratch[:4], v)
	p.write(p.scratch[:4])
}

// Writes the IEEE-754 bits of `f` as a big-endian word
func (p *Pipe) F32(f float32) {
	p.U32(f32bits(f))
}

// Writes raw bytes as-is
func (p *Pipe) Bytes(b []byte) {
	if len(b) == 0 {
		return
	}
	p.write(b)
}

// Returns the number of bytes written so far
func (p *Pipe) Len() int64 {
	return p.written
}

// Returns the first error reported by the sink, if any
func (p *Pipe) Err() error {
	return p.err
}

// Points the pipe at a new sink and returns the previous one together with
// its byte count. Used to record display lists.
func (p *Pipe) redirect(sink io.Writer) (io.Writer, int64) {
	prev, n := p.sink, p.written
	p.sink = sink
	p.written = 0
	return prev, n
}

func (p *Pipe) restore(sink io.Writer, written int64) {
	p.sink = sink
	p.written = written
}
