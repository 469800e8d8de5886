package gx

import (
	"encoding/binary"
	"fmt"
)

const (
	MEM1_SIZE = 24 * 1024 * 1024 // Main memory: 24MB

	// First address handed out by the arena. Address 0 is kept free so a
	// zero PhysAddr never names a live buffer
	ARENA_START PhysAddr = 0x20
)

// A physical address as seen by the GPU
type PhysAddr uint32

// A buffer handed out by Memory.Alloc
type Block struct {
	Addr PhysAddr
	Size uint32
}

// Memory models the console's main memory: a big-endian byte array the
// GPU reads vertex arrays, textures and display lists from. Allocations
// come from a bump arena and always start on a 32 byte boundary, which the
// GPU requires of every buffer it is pointed at.
type Memory struct {
	Data   []byte  // Backing memory
	next   uint32  // Next free offset
	blocks []Block // Live allocations, in allocation order
}

// Creates a new 24MB memory (filled with garbage values, like after a cold
// boot)
func NewMemory() *Memory {
	return NewMemorySize(MEM1_SIZE)
}

// Creates a memory of `size` bytes. Handy for tests
func NewMemorySize(size uint32) *Memory {
	mem := &Memory{Data: make([]byte, size), next: uint32(ARENA_START)}
	for i := 0; i < len(mem.Data); i++ {
		mem.Data[i] = 0xcd
	}
	return mem
}

// Allocates `size` bytes on a 32 byte boundary and returns the address and
// the backing slice. The slice is zeroed
func (mem *Memory) Alloc(size uint32) (PhysAddr, []byte, error) {
	start := alignUp32(mem.next)
	end := uint64(start) + uint64(size)
	if end > uint64(len(mem.Data)) {
		return 0, nil, fmt.Errorf("%w: %d bytes requested, %d free", ErrOutOfMemory, size, uint32(len(mem.Data))-start)
	}
	mem.next = uint32(end)
	buf := mem.Data[start:end:end]
	clear(buf)
	mem.blocks = append(mem.blocks, Block{Addr: PhysAddr(start), Size: size})
	return PhysAddr(start), buf, nil
}

// Allocates a buffer holding a copy of `data`
func (mem *Memory) Upload(data []byte) (PhysAddr, error) {
	addr, buf, err := mem.Alloc(uint32(len(data)))
	if err != nil {
		return 0, err
	}
	copy(buf, data)
	return addr, nil
}

// Places `data` at `addr`, growing the arena past it. Used to rebuild a
// memory image from a capture
func (mem *Memory) Restore(addr PhysAddr, data []byte) error {
	end := uint64(addr) + uint64(len(data))
	if end > uint64(len(mem.Data)) {
		return fmt.Errorf("%w: block 0x%08x+%d past end of memory", ErrOutOfMemory, uint32(addr), len(data))
	}
	copy(mem.Data[addr:], data)
	if uint32(end) > mem.next {
		mem.next = uint32(end)
	}
	mem.blocks = append(mem.blocks, Block{Addr: addr, Size: uint32(len(data))})
	return nil
}

// Returns the live allocations
func (mem *Memory) Blocks() []Block {
	return mem.blocks
}

// Returns `n` bytes at `addr`. Panics if the range is outside memory
func (mem *Memory) Slice(addr PhysAddr, n uint32) []byte {
	return mem.Data[addr : uint32(addr)+n]
}

// Load a 32 bit big-endian word at `addr`
func (mem *Memory) Load32(addr PhysAddr) uint32 {
	return binary.BigEndian.Uint32(mem.Data[addr:])
}

// Load a 16 bit big-endian value at `addr`
func (mem *Memory) Load16(addr PhysAddr) uint16 {
	return binary.BigEndian.Uint16(mem.Data[addr:])
}

// Fetches the byte at `addr`
func (mem *Memory) Load8(addr PhysAddr) byte {
	return mem.Data[addr]
}

// Store a 32 bit big-endian word `val` into `addr`
func (mem *Memory) Store32(addr PhysAddr, val uint32) {
	binary.BigEndian.PutUint32(mem.Data[addr:], val)
}

// Stores a 16 bit big-endian value into `addr`
func (mem *Memory) Store16(addr PhysAddr, val uint16) {
	binary.BigEndian.PutUint16(mem.Data[addr:], val)
}

// Sets the byte at `addr`
func (mem *Memory) Store8(addr PhysAddr, val byte) {
	mem.Data[addr] = val
}

// Stores a big-endian float at `addr`
func (mem *Memory) StoreF32(addr PhysAddr, f float32) {
	mem.Store32(addr, f32bits(f))
}

// Panics unless `addr` is 32 byte aligned
func assertAligned(what string, addr PhysAddr) {
	if !isAligned32(addr) {
		panicFmt("gx: %s address 0x%08x is not 32 byte aligned", what, uint32(addr))
	}
}
