// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/ls8/io"
	"github.com/ezrec/ls8/memory"
)

// Output is the sink for PRN.
type Output io.Output

// State is the execution state of the CPU.
type State int

const (
	STATE_RUNNING = State(0) // running
	STATE_HALTED  = State(1) // halted
	STATE_FAULTED = State(2) // faulted
)

func (st State) String() string {
	switch st {
	case STATE_RUNNING:
		return "running"
	case STATE_HALTED:
		return "halted"
	case STATE_FAULTED:
		return "faulted"
	}
	return fmt.Sprintf("state%d", int(st))
}

var _cpu_defines = map[string]string{
	"MEMORY_SIZE": fmt.Sprintf("%d", MEMORY_SIZE),
	"SP":          fmt.Sprintf("%d", SP),
	"STACK_TOP":   fmt.Sprintf("%#x", STACK_TOP),
	"FL_EQ":       fmt.Sprintf("%#x", FL_EQ),
	"FL_GT":       fmt.Sprintf("%#x", FL_GT),
	"FL_LT":       fmt.Sprintf("%#x", FL_LT),
}

// Cpu is the LS-8 simulation context.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	RegisterFile               // Registers and flags.
	Memory       memory.Memory // RAM.
	Pc           int           // Address of the next instruction.
	State        State         // Execution state.
	Fault        error         // Reason for STATE_FAULTED.

	StackLimit int // Lowest address the stack may use.
	Ticks      int // Executed instruction counter.

	Output Output // PRN destination.
}

// NewCpu creates a CPU in its power-on state.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{}
	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the CPU state.
// - Clears the registers and sets SP to STACK_TOP.
// - Clears memory.
// - Sets PC to 0 and the state to running.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	cpu.RegisterFile.Reset()
	cpu.Memory.Reset()
	cpu.Pc = 0
	cpu.State = STATE_RUNNING
	cpu.Fault = nil
	cpu.StackLimit = 0
	cpu.Ticks = 0
}

// Load copies a program image to address 0.
// The stack is limited to the memory above the image.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > MEMORY_SIZE {
		err = errors.Join(ErrMalformedProgram, ErrProgramTooLarge)
		return
	}

	err = cpu.Memory.Load(0, image)
	if err != nil {
		return
	}

	cpu.StackLimit = len(image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// FetchCode fetches and decodes the instruction at the PC.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	opcode, err := cpu.Memory.Read(cpu.Pc)
	if err != nil {
		return
	}

	code.Opcode = Opcode(opcode)
	if !code.Opcode.Valid() {
		err = errors.Join(ErrOpcode(code), ErrIllegalInstruction)
		return
	}

	for n := range code.Opcode.Operands() {
		var arg byte
		arg, err = cpu.Memory.Read(cpu.Pc + 1 + n)
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
			return
		}
		code.Operands = append(code.Operands, arg)
	}

	return
}

// Tick executes a single CPU instruction cycle.
// Any error moves the CPU to STATE_FAULTED. Once halted or faulted, Tick
// does nothing and returns ErrHalted or the fault.
func (cpu *Cpu) Tick() (err error) {
	switch cpu.State {
	case STATE_HALTED:
		return ErrHalted
	case STATE_FAULTED:
		return cpu.Fault
	}

	code, err := cpu.FetchCode()
	if err == nil {
		err = cpu.Execute(code)
	}

	if err != nil {
		cpu.State = STATE_FAULTED
		cpu.Fault = err
	}

	return
}

// Run ticks until the CPU halts or faults.
// A program that never halts never returns.
func (cpu *Cpu) Run() (err error) {
	for cpu.State == STATE_RUNNING {
		err = cpu.Tick()
		if err != nil {
			return
		}
	}

	return
}

// Execute executes a single decoded instruction.
// Every operand is checked before the first change to the CPU state.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%02x: %v", cpu.Pc, code)
	}

	if !code.Opcode.Valid() || len(code.Operands) != code.Opcode.Operands() {
		err = ErrIllegalInstruction
		return
	}

	next_pc := cpu.Pc + code.Len()

	// Register operand for the single operand instructions.
	if code.Opcode.Operands() == 1 {
		_, err = cpu.Get(code.Arg(0))
		if err != nil {
			return
		}
	}

	switch {
	case code.Opcode.IsAlu():
		err = cpu.Alu(AluOp(code.Opcode.Id()), code.Arg(0), code.Arg(1))
	case code.Opcode.SetsPc():
		next_pc, err = cpu.branch(code, next_pc)
	default:
		err = cpu.operate(code)
	}

	if err != nil {
		return
	}

	cpu.Pc = next_pc
	cpu.Ticks += 1

	return
}

// operate executes the instructions that leave the PC to Execute.
func (cpu *Cpu) operate(code Code) (err error) {
	reg_a := code.Arg(0)

	switch code.Opcode {
	case OP_HLT:
		cpu.State = STATE_HALTED
	case OP_LDI:
		err = cpu.Set(reg_a, code.Arg(1))
	case OP_PRN:
		if cpu.Output == nil {
			err = ErrOutputMissing
			return
		}
		err = cpu.Output.Print(cpu.Register[reg_a])
	case OP_PUSH:
		value := cpu.Register[reg_a]
		if reg_a == SP {
			// SP is decremented before it is stored.
			value--
		}
		err = cpu.Push(value)
	case OP_POP:
		var value byte
		value, err = cpu.Pop()
		if err != nil {
			return
		}
		if reg_a == SP {
			// SP is incremented after it is loaded.
			value++
		}
		err = cpu.Set(reg_a, value)
	default:
		err = ErrIllegalInstruction
	}

	return
}

// branch executes the instructions that set the PC, and returns the new PC.
func (cpu *Cpu) branch(code Code, next_pc int) (pc int, err error) {
	reg_a := code.Arg(0)
	pc = next_pc

	switch code.Opcode {
	case OP_CALL:
		if !memory.Valid(next_pc) {
			err = &memory.ErrAddress{Addr: next_pc}
			return
		}
		err = cpu.Push(byte(next_pc))
		if err != nil {
			return
		}
		// Target is read after the return address is pushed.
		pc = int(cpu.Register[reg_a])
	case OP_RET:
		var value byte
		value, err = cpu.Pop()
		if err != nil {
			return
		}
		pc = int(value)
	case OP_JMP:
		pc = int(cpu.Register[reg_a])
	case OP_JEQ:
		if (cpu.Fl & FL_EQ) != 0 {
			pc = int(cpu.Register[reg_a])
		}
	case OP_JNE:
		if (cpu.Fl & FL_EQ) == 0 {
			pc = int(cpu.Register[reg_a])
		}
	default:
		err = ErrIllegalInstruction
	}

	return
}
