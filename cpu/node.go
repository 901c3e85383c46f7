// Copyright 2025, The DOC Authors

package cpu

import (
	"fmt"
	"strings"
)

// Node is a top-level program element, in source order.
type Node interface {
	Where() Token
	node()
}

// InstructionNode calls a mnemonic the lexer recognised.
type InstructionNode struct {
	Mnemonic string
	Args     []Arg
	Token    Token
}

// MacroCall calls a bare word, which must resolve to a macro.
type MacroCall struct {
	Name  string
	Args  []Arg
	Token Token
}

// Label declares a jump label at the current address.
type Label struct {
	Name  string
	Token Token
}

// MacroParams are the parameter slots a macro declares.
type MacroParams struct {
	Kinds    []ArgKind // All slots, in declaration order.
	Register int       // Count of register slots.
	Literal  int       // Count of literal slots.
}

// MacroDef defines a macro body.
type MacroDef struct {
	Name   string
	Params MacroParams
	Body   []Node
	Token  Token
}

// Include splices in the source named by Path.
type Include struct {
	Path  string
	Token Token
}

func (n *InstructionNode) Where() Token { return n.Token }
func (n *MacroCall) Where() Token       { return n.Token }
func (n *Label) Where() Token           { return n.Token }
func (n *MacroDef) Where() Token        { return n.Token }
func (n *Include) Where() Token         { return n.Token }

func (*InstructionNode) node() {}
func (*MacroCall) node()       {}
func (*Label) node()           {}
func (*MacroDef) node()        {}
func (*Include) node()         {}

// Key returns the overload key the macro definition is called by.
func (n *MacroDef) Key() Key {
	return MakeKey(n.Name, n.Params.Kinds...)
}

// Arg is an argument of an instruction or macro call.
type Arg interface {
	Kind() ArgKind
	Where() Token
	String() string
}

// RegisterArg names a register.
type RegisterArg struct {
	Name  string
	Index uint8
	Token Token
}

// LiteralArg is a decoded integer literal.
type LiteralArg struct {
	Value uint32
	Token Token
}

// LabelArg refers to a label by name.
type LabelArg struct {
	Name  string
	Token Token
}

// RegisterParam is the %rN register slot of the enclosing macro.
type RegisterParam struct {
	Index int
	Token Token
}

// LiteralParam is the %lN literal slot of the enclosing macro.
type LiteralParam struct {
	Index int
	Token Token
}

func (RegisterArg) Kind() ArgKind   { return KIND_REGISTER }
func (LiteralArg) Kind() ArgKind    { return KIND_LITERAL }
func (LabelArg) Kind() ArgKind      { return KIND_LITERAL }
func (RegisterParam) Kind() ArgKind { return KIND_REGISTER }
func (LiteralParam) Kind() ArgKind  { return KIND_LITERAL }

func (a RegisterArg) Where() Token   { return a.Token }
func (a LiteralArg) Where() Token    { return a.Token }
func (a LabelArg) Where() Token      { return a.Token }
func (a RegisterParam) Where() Token { return a.Token }
func (a LiteralParam) Where() Token  { return a.Token }

func (a RegisterArg) String() string   { return a.Name }
func (a LiteralArg) String() string    { return fmt.Sprintf("#%d", a.Value) }
func (a LabelArg) String() string      { return "$" + a.Name }
func (a RegisterParam) String() string { return fmt.Sprintf("%%r%d", a.Index) }
func (a LiteralParam) String() string  { return fmt.Sprintf("%%l%d", a.Index) }

// kindsOf returns the argument kinds of a call, in call order.
func kindsOf(args []Arg) []ArgKind {
	kinds := make([]ArgKind, len(args))
	for n, arg := range args {
		kinds[n] = arg.Kind()
	}
	return kinds
}

// words renders a call as its name and arguments, for program listings.
func words(name string, args []Arg) []string {
	out := []string{name}
	for _, arg := range args {
		out = append(out, arg.String())
	}
	return out
}

// callText renders a call back into assembly syntax.
func callText(name string, args []Arg) string {
	w := words(name, args)
	if len(w) == 1 {
		return name
	}
	return name + " " + strings.Join(w[1:], ", ")
}
