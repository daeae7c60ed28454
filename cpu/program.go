package cpu

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Line is one source line of a program and the bytes it produced.
type Line struct {
	LineNo    int      // Source line number, 1 based.
	Addr      int      // Address of the first byte.
	Words     []string // Source words, without comments.
	Bytes     []byte   // Encoded bytes.
	LinkLabel string   // Label to resolve into the last byte.
}

// Program is a listing of lines in address order.
type Program struct {
	Lines []Line
}

type Debug struct {
	*Line
	Index int
}

// Debug finds the line that holds addr.
// The returned Line is nil if no line covers the address.
func (prog *Program) Debug(addr int) (dbg Debug) {
	for n, line := range prog.Lines {
		if addr >= line.Addr && addr < line.Addr+len(line.Bytes) {
			dbg = Debug{
				Line:  &prog.Lines[n],
				Index: addr - line.Addr,
			}
			break
		}
	}

	return
}

// Len returns the size in bytes of the program.
func (prog *Program) Len() (size int) {
	for _, line := range prog.Lines {
		end := line.Addr + len(line.Bytes)
		if end > size {
			size = end
		}
	}

	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (bins []byte) {
	bins = make([]byte, prog.Len())
	for addr, value := range prog.Codes() {
		bins[addr] = value
	}

	return
}

// Codes iterates over every address and byte of the program.
func (prog *Program) Codes() iter.Seq2[int, byte] {
	return func(yield func(addr int, value byte) bool) {
		for _, line := range prog.Lines {
			for n, value := range line.Bytes {
				if !yield(line.Addr+n, value) {
					return
				}
			}
		}
	}
}

// WriteTo writes the program as a loadable image, one base-2 byte per line.
// The first byte of each line carries the source words as a comment.
func (prog *Program) WriteTo(w io.Writer) (total int64, err error) {
	for _, line := range prog.Lines {
		for n, value := range line.Bytes {
			text := fmt.Sprintf("%08b", value)
			if n == 0 && len(line.Words) > 0 {
				text += " # " + strings.Join(line.Words, " ")
			}
			var count int
			count, err = fmt.Fprintln(w, text)
			total += int64(count)
			if err != nil {
				return
			}
		}
	}

	return
}
