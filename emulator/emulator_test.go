package emulator

import (
	"bytes"
	"errors"
	"log"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/cpu"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.NotNil(emu.Cpu)
	assert.NotNil(emu.Program)
	assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State)
}

func doAssemble(emu *Emulator, program []string, t *testing.T) (output *bytes.Buffer) {
	asm := &cpu.Assembler{}
	for name, value := range emu.Defines() {
		asm.Predefine(name, value)
	}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}
	emu.Program = prog

	output = &bytes.Buffer{}
	emu.Tape.Output = output

	err = emu.Reset()
	if err != nil {
		t.Fatal(err)
	}

	return
}

func TestEmulatorMultiply(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"LDI R0,8",
		"LDI R1,9",
		"MUL R0,R1",
		"PRN R0",
		"HLT",
	}
	output := doAssemble(emu, program, t)

	for n := range len(program) {
		assert.Equal(n+1, emu.LineNo())
		done, err := emu.Tick()
		assert.NoError(err, program[n])
		assert.Equal(n == len(program)-1, done, program[n])
	}

	assert.Equal("72\n", output.String())
	assert.Equal(5, emu.Ticks())
	assert.Equal(1, emu.Tape.Count)

	// Ticking a halted emulator is a no-op.
	done, err := emu.Tick()
	assert.True(done)
	assert.NoError(err)
	assert.Equal(5, emu.Ticks())
}

func TestEmulatorImage(t *testing.T) {
	assert := assert.New(t)

	image := []string{
		"10000010 # LDI R0,8",
		"00000000",
		"00001000",
		"10000010 # LDI R1,9",
		"00000001",
		"00001001",
		"10100010 # MUL R0,R1",
		"00000000",
		"00000001",
		"01000111 # PRN R0",
		"00000000",
		"00000001 # HLT",
	}

	prog, err := cpu.ParseImage(strings.NewReader(strings.Join(image, "\n")))
	assert.NoError(err)

	emu := NewEmulator()
	emu.Program = prog
	output := &bytes.Buffer{}
	emu.Tape.Output = output

	assert.NoError(emu.Reset())
	assert.NoError(emu.Run(0))
	assert.Equal("72\n", output.String())
	assert.Equal(cpu.STATE_HALTED, emu.Cpu.State)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"LDI R0, 1",
		"LDI R1, 0",
		"",
		"DIV R0, R1",
		"HLT",
	}
	doAssemble(emu, program, t)

	err := emu.Run(0)
	assert.ErrorIs(err, cpu.ErrDivisionByZero)

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(4, rt.LineNo)
		assert.Equal(6, rt.Pc)
	}
	assert.Equal(cpu.STATE_FAULTED, emu.Cpu.State)
	assert.Equal(byte(1), emu.Cpu.Register[0])

	// Faulted is terminal.
	done, again := emu.Tick()
	assert.True(done)
	assert.ErrorIs(again, cpu.ErrDivisionByZero)
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	program := []string{
		"        LDI R0, loop",
		"loop:   JMP R0",
	}
	doAssemble(emu, program, t)

	err := emu.Run(1000)
	assert.ErrorIs(err, ErrTickLimit)
	assert.Equal(1000, emu.Ticks())
	assert.Equal(cpu.STATE_RUNNING, emu.Cpu.State)

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(2, rt.LineNo)
		assert.Equal(3, rt.Pc)
	}

	// A program that halts within the limit is not affected.
	doAssemble(emu, []string{"HLT"}, t)
	assert.NoError(emu.Run(1))
}

func TestEmulatorReset(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	output := doAssemble(emu, []string{"LDI R0, 3", "PRN R0", "HLT"}, t)

	assert.NoError(emu.Run(0))
	assert.NoError(emu.Reset())
	assert.Equal(0, emu.Pc())
	assert.Equal(0, emu.Tape.Count)
	assert.Equal(byte(cpu.STACK_TOP), emu.Cpu.Register[cpu.SP])
	assert.Equal(6, emu.Cpu.StackLimit)

	assert.NoError(emu.Run(0))
	assert.Equal("3\n3\n", output.String())
}

func TestEmulatorDefines(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	defines := map[string]string{}
	for name, value := range emu.Defines() {
		defines[name] = value
	}

	assert.Equal("0x0", defines["PROGRAM_BASE"])
	assert.Equal("7", defines["SP"])
	assert.Equal("0x82", defines["OP_LDI"])
}

func TestErrRuntime(t *testing.T) {
	assert := assert.New(t)

	err := &ErrRuntime{Pc: 0x12, LineNo: 3, Err: cpu.ErrStackUnderflow}
	assert.Equal("line 3 pc 0x12 stack underflow", err.Error())
	assert.ErrorIs(err, cpu.ErrStackUnderflow)

	err = &ErrRuntime{Pc: 0x12, Err: cpu.ErrStackUnderflow}
	assert.Equal("pc 0x12 stack underflow", err.Error())
}

func TestEmulatorVerbose(t *testing.T) {
	assert := assert.New(t)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	emu := NewEmulator()
	doAssemble(emu, []string{"LDI R0, 3", "PRN R0", "HLT"}, t)
	emu.Verbose = true

	assert.NoError(emu.Run(0))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal([]string{
		"TRACE: 00 | 00 82 00 03 | 00 00 00 00 00 00 00 F4",
		"TRACE: 03 | 00 47 00 01 | 03 00 00 00 00 00 00 F4",
		"TRACE: 05 | 00 01 00 00 | 03 00 00 00 00 00 00 F4",
	}, lines)
}
