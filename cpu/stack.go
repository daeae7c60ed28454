package cpu

import (
	"log"
)

// Push stores value below SP and moves SP down.
// The stack may not grow into the loaded program image.
func (cpu *Cpu) Push(value byte) (err error) {
	sp := int(cpu.Register[SP]) - 1
	if sp < cpu.StackLimit {
		err = ErrStackOverflow
		return
	}

	err = cpu.Memory.Write(sp, value)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("stack: [%02x] <- %02x", sp, value)
	}

	cpu.Register[SP] = byte(sp)
	return
}

// Pop loads the value at SP and moves SP up.
// Popping at or above STACK_TOP is an underflow.
func (cpu *Cpu) Pop() (value byte, err error) {
	sp := int(cpu.Register[SP])
	if sp >= STACK_TOP {
		err = ErrStackUnderflow
		return
	}

	value, err = cpu.Memory.Read(sp)
	if err != nil {
		return
	}

	if cpu.Verbose {
		log.Printf("stack: [%02x] -> %02x", sp, value)
	}

	cpu.Register[SP] = byte(sp + 1)
	return
}

// StackDepth returns the number of bytes on the stack.
func (cpu *Cpu) StackDepth() int {
	depth := STACK_TOP - int(cpu.Register[SP])
	if depth < 0 {
		return 0
	}
	return depth
}
