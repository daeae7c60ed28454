// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package memory implements the flat, byte addressable RAM of the LS-8.
//
// Every access is bounds checked. An address outside of [0, SIZE) is
// reported as ErrOutOfBounds and never wraps.
package memory

import (
	"errors"
	"log"

	"github.com/ezrec/ls8/translate"
)

var f = translate.From

const (
	SIZE = 256 // Number of byte cells.
)

var (
	ErrOutOfBounds = errors.New(f("address out of bounds"))
)

// ErrAddress reports the address of an out of bounds access.
type ErrAddress struct {
	Addr int
}

func (err *ErrAddress) Error() string {
	return f("address 0x%x out of bounds", err.Addr)
}

func (err *ErrAddress) Unwrap() error {
	return ErrOutOfBounds
}

// Memory is the RAM simulation.
type Memory struct {
	Verbose bool // If set, logs every write.

	Reads  int // Read access counter.
	Writes int // Write access counter.

	cell [SIZE]byte
}

// Valid returns true if the address can be accessed.
func Valid(addr int) bool {
	return addr >= 0 && addr < SIZE
}

// Reset zeros all cells and access counters.
func (mem *Memory) Reset() {
	clear(mem.cell[:])
	mem.Reads = 0
	mem.Writes = 0
}

// Read a single cell.
func (mem *Memory) Read(addr int) (value byte, err error) {
	if !Valid(addr) {
		err = &ErrAddress{Addr: addr}
		return
	}

	mem.Reads++
	value = mem.cell[addr]
	return
}

// Write a single cell.
func (mem *Memory) Write(addr int, value byte) (err error) {
	if !Valid(addr) {
		err = &ErrAddress{Addr: addr}
		return
	}

	if mem.Verbose {
		log.Printf("memory: [%02x] %02x -> %02x", addr, mem.cell[addr], value)
	}

	mem.Writes++
	mem.cell[addr] = value
	return
}

// Peek returns a cell without counting the access.
// ok is false if the address is out of bounds.
func (mem *Memory) Peek(addr int) (value byte, ok bool) {
	if !Valid(addr) {
		return
	}

	return mem.cell[addr], true
}

// Load copies data into memory starting at base.
// The whole range is checked first, so a failed Load leaves memory untouched.
func (mem *Memory) Load(base int, data []byte) (err error) {
	if len(data) == 0 {
		return
	}

	if !Valid(base) {
		err = &ErrAddress{Addr: base}
		return
	}

	last := base + len(data) - 1
	if !Valid(last) {
		err = &ErrAddress{Addr: last}
		return
	}

	mem.Writes += copy(mem.cell[base:], data)
	return
}

// Bytes returns a copy of the whole memory.
func (mem *Memory) Bytes() []byte {
	out := make([]byte, SIZE)
	copy(out, mem.cell[:])
	return out
}
