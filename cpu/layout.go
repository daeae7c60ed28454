package cpu

import (
	"github.com/ezrec/ls8/memory"
)

const (
	MEMORY_SIZE    = memory.SIZE // Bytes of RAM.
	REGISTER_COUNT = 8           // General purpose registers, including SP.
	SP             = 7           // Register index of the stack pointer.
	STACK_TOP      = 0xf4        // Initial SP. Addresses above are reserved.
)

// Flags register bits, set by CMP.
const (
	FL_EQ = byte(1 << 0) // Equal.
	FL_GT = byte(1 << 1) // Greater than.
	FL_LT = byte(1 << 2) // Less than.
)
