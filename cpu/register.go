package cpu

// RegisterFile holds the general purpose registers and the flags.
type RegisterFile struct {
	Register [REGISTER_COUNT]byte // r0-r7; r7 is the stack pointer.
	Fl       byte                 // Flags, see FL_EQ, FL_GT and FL_LT.
}

// Reset zeros all registers, then points SP at the top of the stack.
func (rf *RegisterFile) Reset() {
	clear(rf.Register[:])
	rf.Register[SP] = STACK_TOP
	rf.Fl = 0
}

// Get returns the value of a register.
func (rf *RegisterFile) Get(index byte) (value byte, err error) {
	if int(index) >= len(rf.Register) {
		err = ErrRegisterInvalid
		return
	}

	value = rf.Register[index]
	return
}

// Set updates the value of a register.
func (rf *RegisterFile) Set(index byte, value byte) (err error) {
	if int(index) >= len(rf.Register) {
		err = ErrRegisterInvalid
		return
	}

	rf.Register[index] = value
	return
}

// Flags returns the flags register.
func (rf *RegisterFile) Flags() byte {
	return rf.Fl
}

// SetFlags replaces the flags register.
func (rf *RegisterFile) SetFlags(flags byte) {
	rf.Fl = flags
}
