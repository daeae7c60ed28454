package cpu

import (
	"bufio"
	"errors"
	"io"
	"strconv"
	"strings"
)

const IMAGE_COMMENT = "#"

// ParseImage parses a program image: one base-2 byte per line, with an
// optional '#' comment. Blank and comment-only lines are skipped.
func ParseImage(input io.Reader) (prog *Program, err error) {
	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: errors.Join(ErrMalformedProgram, err)}
		}
	}()

	prog = &Program{}
	addr := 0

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		line = text
		comment := ""
		if n := strings.Index(text, IMAGE_COMMENT); n >= 0 {
			line = text[:n]
			comment = strings.TrimSpace(text[n+1:])
		}
		line = strings.TrimSpace(line)
		if len(line) == 0 {
			continue
		}

		var value uint64
		value, err = strconv.ParseUint(line, 2, 8)
		if err != nil {
			err = ErrParseBinary(line)
			prog = nil
			return
		}

		if addr >= MEMORY_SIZE {
			err = ErrProgramTooLarge
			prog = nil
			return
		}

		prog.Lines = append(prog.Lines, Line{
			LineNo: lineno,
			Addr:   addr,
			Words:  strings.Fields(comment),
			Bytes:  []byte{byte(value)},
		})
		addr++
	}

	line = ""
	err = scanner.Err()
	if err != nil {
		prog = nil
	}

	return
}

// LoadImage parses a program image and loads it into memory.
// Memory is only modified once the whole image has parsed.
func (cpu *Cpu) LoadImage(input io.Reader) (prog *Program, err error) {
	prog, err = ParseImage(input)
	if err != nil {
		return
	}

	err = cpu.Load(prog.Binary())
	return
}
