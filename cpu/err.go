package cpu

import (
	"errors"

	"github.com/ezrec/ls8/memory"
	"github.com/ezrec/ls8/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrOutOfBounds          = memory.ErrOutOfBounds
	ErrDivisionByZero       = errors.New(f("division by zero"))
	ErrUnsupportedOperation = errors.New(f("unsupported alu operation"))
	ErrIllegalInstruction   = errors.New(f("illegal instruction"))
	ErrRegisterInvalid      = errors.New(f("register invalid"))
	ErrStackOverflow        = errors.New(f("stack overflow"))
	ErrStackUnderflow       = errors.New(f("stack underflow"))
	ErrHalted               = errors.New(f("cpu halted"))
	ErrOutputMissing        = errors.New(f("no output attached"))

	// Loader errors
	ErrMalformedProgram = errors.New(f("malformed program"))
	ErrProgramTooLarge  = errors.New(f("program too large"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelInvalid       = errors.New(f("label invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrInstructionInvalid = errors.New(f("instruction invalid"))
	ErrValueRange         = errors.New(f("value out of range"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode identifies the instruction that failed.
type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%02x %v", byte(eo.Opcode), Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err *ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err *ErrSyntax) Unwrap() error {
	return err.Err
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseBinary string

func (err ErrParseBinary) Error() string {
	return f("'%v' is not an 8-bit binary value", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
