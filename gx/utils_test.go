package gx

import (
	"bytes"
	"testing"
)

// Returns a device whose default state has already been written, and the
// buffer receiving everything written after that
func newTestDevice(t *testing.T, opts ...Option) (*Device, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	d := New(buf, opts...)
	buf.Reset()
	return d, buf
}

func expectBytes(t *testing.T, got, want []byte) {
	t.Helper()
	if !bytes.Equal(got, want) {
		t.Errorf("stream mismatch\n got: % x\nwant: % x", got, want)
	}
}

func expectPanic(t *testing.T, name string, f func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Errorf("%s: expected a panic", name)
		}
	}()
	f()
}

func TestSetBits(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(setBits(uint32(0), 4, 4, 0xf) == 0xf0)
	assert(setBits(uint32(0xffffffff), 4, 4, 0) == 0xffffff0f)
	assert(setBits(uint32(0), 0, 3, 0xff) == 7) // value is masked to the field
	assert(setBits(uint32(0x12345678), 24, 8, 0xab) == 0xab345678)
	assert(setBits(uint16(0), 15, 1, 1) == 0x8000)
}

func TestGetBits(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(getBits(uint32(0xdeadbeef), 0, 4) == 0xf)
	assert(getBits(uint32(0xdeadbeef), 28, 4) == 0xd)
	assert(getBits(uint32(0xdeadbeef), 8, 16) == 0xadbe)
	for shift := uint(0); shift < 32; shift++ {
		assert(getBits(setBits(uint32(0), shift, 1, 1), shift, 1) == 1)
	}
}

func TestAlign32(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(isAligned32(0))
	assert(isAligned32(uint32(0x80000020)))
	assert(!isAligned32(31))
	assert(!isAligned32(PhysAddr(0x100010)))
	assert(alignUp32(0) == 0)
	assert(alignUp32(1) == 32)
	assert(alignUp32(32) == 32)
	assert(alignUp32(int64(33)) == 64)
}

func TestPackRGBA(t *testing.T) {
	assert := func(v bool) {
		if !v {
			t.Error("assert failed")
		}
	}

	assert(packRGBA(0x11, 0x22, 0x33, 0x44) == 0x11223344)
	assert(packRGBA(0xff, 0, 0, 0) == 0xff000000)
	assert(oneIfTrue(true) == 1)
	assert(oneIfTrue(false) == 0)
	assert(clampFloat(2, 0, 1) == 1)
	assert(clampFloat(-1, 0, 1) == 0)
	assert(clampFloat(0.5, 0, 1) == 0.5)
}
