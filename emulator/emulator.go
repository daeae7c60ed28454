// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/cpu"
	"github.com/ezrec/ls8/internal"
	"github.com/ezrec/ls8/io"
)

var _emulator_defines = map[string]string{
	"PROGRAM_BASE": fmt.Sprintf("%#x", 0),
}

// Emulator state. CPU + program listing + PRN tape.
type Emulator struct {
	Verbose  bool         // If set, logs a trace line before every tick.
	*cpu.Cpu              // Reference to the CPU simulation.
	Program  *cpu.Program // Reference to the currently loaded program listing.

	Tape io.Tape // PRN output.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	emu.Cpu.Output = &emu.Tape

	return
}

// Defines returns an iterator over all of the defines, suitable for
// Assembler.Predefine.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
		cpu.OpcodeDefines(),
	)
}

// Reset the CPU and load the program.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose
	emu.Cpu.Reset()
	emu.Tape.Rewind()

	err = emu.Cpu.Load(emu.Program.Binary())
	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Pc returns the current program counter.
func (emu *Emulator) Pc() int {
	return emu.Cpu.Pc
}

// LineNo returns the source line number for the instruction at the PC.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Pc)
	if dbg.Line == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the CPU has halted or faulted.
func (emu *Emulator) Tick() (done bool, err error) {
	switch emu.Cpu.State {
	case cpu.STATE_HALTED:
		done = true
		return
	case cpu.STATE_FAULTED:
		done = true
		err = emu.Cpu.Fault
		return
	}

	pc := emu.Cpu.Pc
	lineno := emu.LineNo()
	defer func() {
		if err != nil {
			err = &ErrRuntime{Pc: pc, LineNo: lineno, Err: err}
		}
	}()

	if emu.Verbose {
		err = emu.Cpu.Trace(log.Writer())
		if err != nil {
			return
		}
	}

	err = emu.Cpu.Tick()
	done = emu.Cpu.State != cpu.STATE_RUNNING

	return
}

// Run ticks until the program halts or faults.
// If limit is not zero, at most limit instructions are executed before
// ErrTickLimit is returned.
func (emu *Emulator) Run(limit int) (err error) {
	for {
		if limit > 0 && emu.Cpu.Ticks >= limit && emu.Cpu.State == cpu.STATE_RUNNING {
			err = &ErrRuntime{Pc: emu.Cpu.Pc, LineNo: emu.LineNo(), Err: ErrTickLimit}
			return
		}

		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}
