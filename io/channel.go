// Package io provides the output channels for the LS-8 emulator.
// PRN sends each printed register value to an Output; Tape renders the
// values as decimal text lines, Capture keeps them for inspection.
package io

// Output receives the values printed by the CPU.
type Output interface {
	// Print emits a single value.
	Print(value byte) error
}
