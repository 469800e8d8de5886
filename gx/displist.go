package gx

import (
	"fmt"
	"log/slog"
)

// Buffer recording commands for later replay with CallDispList
type DispList struct {
	Buffer []byte
	Max    int // Capacity limit in bytes, 0 for none
	err    error
}

// Returns a display list that can hold at most `max` bytes (0 for no
// limit). The limit mirrors the fixed size buffer the GPU reads from
func NewDispList(max int) *DispList {
	return &DispList{Max: max}
}

// Clears the list so it can be recorded again
func (list *DispList) Clear() {
	list.Buffer = list.Buffer[:0]
	list.err = nil
}

// Returns the size of the recorded commands
func (list *DispList) Len() int {
	return len(list.Buffer)
}

// Write implements io.Writer. Writes past Max fail, which stops the
// recording without corrupting what was already recorded
func (list *DispList) Write(b []byte) (int, error) {
	if list.Max > 0 && len(list.Buffer)+len(b) > list.Max {
		list.err = fmt.Errorf("gx: display list overflow: %d+%d bytes, max %d", len(list.Buffer), len(b), list.Max)
		return 0, list.err
	}
	list.Buffer = append(list.Buffer, b...)
	return len(b), nil
}

// Starts recording every following command into `list` instead of the FIFO
func (d *Device) BeginDispList(list *DispList) {
	if d.list != nil {
		panicFmt("gx: BeginDispList called while recording a display list")
	}
	if d.inPrim {
		panicFmt("gx: BeginDispList called inside a primitive")
	}
	d.flushState()
	list.Clear()
	d.list = list
	d.prevOut, d.prevLen = d.pipe.redirect(list)
	d.prevErr = d.pipe.err
	d.pipe.err = nil
}

// Stops recording, pads the list with NOPs to a multiple of 32 bytes and
// returns its size. Returns 0 if the list overflowed
func (d *Device) EndDispList() uint32 {
	if d.list == nil {
		panicFmt("gx: EndDispList called without BeginDispList")
	}
	d.flushState()
	for !isAligned32(d.pipe.Len()) && d.pipe.err == nil {
		d.pipe.U8(CMD_NOP)
	}

	list := d.list
	size := uint32(d.pipe.Len())
	if list.err != nil {
		size = 0
	}
	d.pipe.restore(d.prevOut, d.prevLen)
	d.pipe.err = d.prevErr
	d.list, d.prevOut, d.prevErr = nil, nil, nil

	d.lg.Debug("gx: display list recorded",
		slog.Int("bytes", int(size)), slog.Bool("overflow", list.err != nil))
	return size
}

// Makes the GPU execute the display list of `size` bytes at `addr`.
// Both must be 32 byte aligned
func (d *Device) CallDispList(addr PhysAddr, size uint32) {
	assertAligned("display list", addr)
	if !isAligned32(size) {
		panicFmt("gx: display list size %d is not a multiple of 32", size)
	}
	d.flushState()
	d.pipe.U8(CMD_CALL_DL)
	d.pipe.U32(uint32(addr))
	d.pipe.U32(size)
}

// Copies the first `size` bytes of `list` into the device memory and
// returns the address to pass to CallDispList. Needs a device created
// WithMemory
func (d *Device) UploadDispList(list *DispList, size uint32) (PhysAddr, error) {
	if d.mem == nil {
		return 0, fmt.Errorf("gx: device has no memory to upload display lists to")
	}
	if int(size) > len(list.Buffer) {
		return 0, fmt.Errorf("gx: display list size %d exceeds recorded %d bytes", size, len(list.Buffer))
	}
	addr, err := d.mem.Upload(list.Buffer[:size])
	if err != nil {
		return 0, fmt.Errorf("gx: upload display list: %w", err)
	}
	return addr, nil
}
