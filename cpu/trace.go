package cpu

import (
	"fmt"
	"io"
	"strings"
)

// String returns the current CPU state as a trace line:
//
//	TRACE: pc | fl ram[pc] ram[pc+1] ram[pc+2] | r0 r1 r2 r3 r4 r5 r6 r7
//
// Cells past the end of memory read as 00.
func (cpu *Cpu) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "TRACE: %02X | %02X", cpu.Pc, cpu.Fl)
	for n := range 3 {
		value, _ := cpu.Memory.Peek(cpu.Pc + n)
		fmt.Fprintf(&sb, " %02X", value)
	}
	sb.WriteString(" |")
	for _, reg := range cpu.Register {
		fmt.Fprintf(&sb, " %02X", reg)
	}

	return sb.String()
}

// Trace writes the trace line to w.
func (cpu *Cpu) Trace(w io.Writer) (err error) {
	_, err = fmt.Fprintln(w, cpu.String())
	return
}
