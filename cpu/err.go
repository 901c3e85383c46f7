package cpu

import (
	"errors"

	"github.com/QcO-dev/doc/translate"
)

var f = translate.From

var (
	// Assembler failure categories
	ErrLex        = errors.New(f("lex"))
	ErrParse      = errors.New(f("parse"))
	ErrResolution = errors.New(f("resolution"))
	ErrRange      = errors.New(f("range"))
	ErrRecursion  = errors.New(f("recursion"))

	// Parser errors
	ErrArgumentExpected = errors.New(f("expected argument"))
	ErrLineEnd          = errors.New(f("expected ',' or end of line"))
	ErrColonMissing     = errors.New(f("expected ':' after label"))
	ErrStatement        = errors.New(f("expected instruction, label, or macro definition"))
	ErrDirectiveUnknown = errors.New(f("unknown directive"))
	ErrIncludePath      = errors.New(f("expected include path"))
	ErrMacroName        = errors.New(f("expected macro name"))
	ErrMacroParam       = errors.New(f("expected macro parameter"))
	ErrMacroNesting     = errors.New(f("@macro in @macro prohibited"))
	ErrMacroDirective   = errors.New(f("directive in @macro prohibited"))
	ErrMacroLonely      = errors.New(f("@macro without @endmacro"))
	ErrMacroLonelyEndm  = errors.New(f("@endmacro without @macro"))
	ErrParamOutside     = errors.New(f("cannot use parameters outside of a macro"))

	// Resolution errors
	ErrMacroDuplicate = errors.New(f("@macro duplicated"))
	ErrLabelImmediate = errors.New(f("cannot use a label as an 8-bit literal value"))

	// Cpu errors
	ErrOpcodeShort = errors.New(f("opcode truncated"))
	ErrImageSize   = errors.New(f("image exceeds memory"))
)

// ErrCharacter is an unexpected source character.
type ErrCharacter rune

func (err ErrCharacter) Error() string {
	return f("unexpected character '%c'", rune(err))
}

type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("#(%v) is not a valid expression", string(err))
}

// ErrParamRange is a macro parameter reference beyond the declared parameters.
type ErrParamRange struct {
	Kind  ArgKind
	Index int
}

func (err ErrParamRange) Error() string {
	return f("macro %v parameter '%d' exceeds parameter count", err.Kind, err.Index)
}

// ErrUnknownInstruction is a call that matches neither the catalog nor a macro.
type ErrUnknownInstruction Key

func (err ErrUnknownInstruction) Error() string {
	return f("unknown instruction or macro %v", string(err))
}

type ErrIncludeMissing string

func (err ErrIncludeMissing) Error() string {
	return f("cannot resolve include '%v'", string(err))
}

type ErrIncludeCycle string

func (err ErrIncludeCycle) Error() string {
	return f("include '%v' includes itself", string(err))
}

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v cannot be resolved", string(el))
}

type ErrLabelDuplicate string

func (el ErrLabelDuplicate) Error() string {
	return f("label %v duplicated", string(el))
}

// ErrLiteralRange is a literal too wide for its encoding.
type ErrLiteralRange struct {
	Value uint64
	Max   uint64
}

func (err ErrLiteralRange) Error() string {
	return f("a literal value of '%d' exceeds maximum of %#x (%d)", err.Value, err.Max, err.Max)
}

// ErrRecursionLimit is an include or macro expansion nested too deeply.
type ErrRecursionLimit struct {
	Name  string
	Depth int
}

func (err ErrRecursionLimit) Error() string {
	return f("%v exceeds expansion depth %d", err.Name, err.Depth)
}

// ErrOutOfBounds is a memory access outside of the machine's memory.
type ErrOutOfBounds uint32

func (err ErrOutOfBounds) Error() string {
	return f("address %#04x out of bounds", uint32(err))
}

func (err ErrOutOfBounds) Is(target error) (ok bool) {
	_, ok = target.(ErrOutOfBounds)
	return
}

type ErrOpcode Code

func (eo ErrOpcode) Error() string {
	return f("opcode '%v'", Code(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrSyntax locates an assembler failure in its source.
type ErrSyntax struct {
	File   string // Include path; empty for the root source.
	Offset int    // Byte offset into the source.
	LineNo int    // 1-based line number.
	Line   string // Text of the line.
	Err    error
}

func (err ErrSyntax) Error() string {
	if len(err.File) != 0 {
		return f("%v: line %d '%v' %v", err.File, err.LineNo, err.Line, err.Err)
	}
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrMacro records the macro call an expansion failure came through.
type ErrMacro struct {
	Macro  Key
	File   string
	LineNo int
	Err    error
}

func (err ErrMacro) Error() string {
	return f("macro %v line %v %v", string(err.Macro), err.LineNo, err.Err.Error())
}

func (err ErrMacro) Unwrap() error {
	return err.Err
}
