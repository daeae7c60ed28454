package io

import (
	"fmt"
	"io"
)

// Tape writes each printed value as a decimal number on its own line.
type Tape struct {
	Output io.Writer

	Count int // Values written since the last Rewind.
}

var _ Output = (*Tape)(nil)

// Rewind resets the counter. The underlying writer cannot be rewound.
func (tc *Tape) Rewind() {
	tc.Count = 0
}

// Print writes value to the output stream.
func (tc *Tape) Print(value byte) (err error) {
	if tc.Output == nil {
		err = ErrChannelInvalid
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	if err != nil {
		return
	}

	tc.Count++
	return
}
