package gx

import (
	"bytes"
	"testing"
)

func TestDisplayListRecording(t *testing.T) {
	mem := NewMemorySize(64 * 1024)
	d, buf := newTestDevice(t, WithMemory(mem))

	list := NewDispList(0)
	d.BeginDispList(list)
	d.SetCopyClear(CLEAR_WHITE, MAX_Z24)
	size := d.EndDispList()

	if buf.Len() != 0 {
		t.Errorf("recording leaked into the FIFO: % x", buf.Bytes())
	}
	if size != 32 || list.Len() != 32 {
		t.Fatalf("list size %d (%d recorded), want 32", size, list.Len())
	}
	want := concat(
		bp(0x4f, 0xff<<8|0xff),
		bp(0x50, 0xff<<8|0xff),
		bp(0x51, MAX_Z24),
		make([]byte, 32-15), // NOP padding
	)
	expectBytes(t, list.Buffer, want)

	addr, err := d.UploadDispList(list, size)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(mem.Slice(addr, size), want) {
		t.Errorf("uploaded list differs from the recording")
	}

	d.CallDispList(addr, size)
	expectBytes(t, buf.Bytes(), []byte{
		0x40,
		byte(addr >> 24), byte(addr >> 16), byte(addr >> 8), byte(addr),
		0x00, 0x00, 0x00, 0x20,
	})
}

func TestDisplayListOverflow(t *testing.T) {
	d, buf := newTestDevice(t)
	list := NewDispList(32)
	d.BeginDispList(list)
	for i := 0; i < 10; i++ {
		d.SetZMode(true, COMPARE_LESS, true)
	}
	if size := d.EndDispList(); size != 0 {
		t.Errorf("overflowed list reported %d bytes", size)
	}

	// the FIFO works again once recording stopped
	d.SetZMode(true, COMPARE_LESS, true)
	expectBytes(t, buf.Bytes(), bp(0x40, 1|1<<1|1<<4))
	if d.Pipe().Err() != nil {
		t.Errorf("list overflow leaked into the FIFO: %v", d.Pipe().Err())
	}
}

func TestDisplayListContracts(t *testing.T) {
	d, _ := newTestDevice(t)
	expectPanic(t, "End without Begin", func() { d.EndDispList() })
	expectPanic(t, "misaligned call", func() { d.CallDispList(0x30, 32) })
	expectPanic(t, "unpadded size", func() { d.CallDispList(0x40, 33) })
	if _, err := d.UploadDispList(NewDispList(0), 0); err == nil {
		t.Errorf("upload without memory succeeded")
	}
}
