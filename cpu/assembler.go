// Copyright 2025, The DOC Authors

package cpu

import (
	"errors"
	"fmt"
	"io"
	"log"
	"maps"
	"strings"
)

// Predefined system defines, visible to #( ... ) expressions.
var sysDefine = func() map[string]string {
	defines := map[string]string{
		"FLAG_HALT":      fmt.Sprintf("%#x", FLAG_HALT),
		"FLAG_CARRY":     fmt.Sprintf("%#x", FLAG_CARRY),
		"FLAG_BORROW":    fmt.Sprintf("%#x", FLAG_BORROW),
		"MEMORY_SIZE":    fmt.Sprintf("%d", MEMORY_SIZE),
		"REGISTER_COUNT": fmt.Sprintf("%d", REGISTER_COUNT),
	}
	for name, index := range registerMap {
		defines["REG_"+strings.ToUpper(name)] = fmt.Sprintf("%d", index)
	}
	return defines
}()

// Resolver maps an include path to source text.
// Resolve must be free of side effects; ok is false if the path is unknown.
type Resolver interface {
	Resolve(path string) (source string, ok bool)
}

// ResolverFunc adapts a function to a Resolver.
type ResolverFunc func(path string) (source string, ok bool)

func (fn ResolverFunc) Resolve(path string) (string, bool) {
	return fn(path)
}

// Assembler is a two pass macro assembler for the DOC machine.
// An Assembler is reset by every call to Assemble; run independent
// assemblies on separate Assemblers.
type Assembler struct {
	Verbose  bool     // If set, verbosely logs the assembler actions.
	Resolver Resolver // Include resolver; if nil, every @include fails.
	MaxDepth int      // Maximum include and macro nesting; STACK_LIMIT if zero.

	Label  map[string]uint16 // Map of labels to byte addresses.
	Macro  map[Key]*MacroDef // Map of macros, by overload key.
	Define map[string]string // Map of defines visible to expressions.

	predefine map[string]string // Predefines
	sources   map[string]string // Source text, by include path.
}

// Predefine defines a new name for #( ... ) expressions, or redefines an existing one.
func (asm *Assembler) Predefine(name string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{name: value}
	} else {
		asm.predefine[name] = value
	}
}

// expanded is an instruction or label that survived macro expansion.
type expanded struct {
	node  Node        // *InstructionNode or *Label.
	ins   Instruction // Catalog entry of an instruction.
	calls []macroCall // Macro calls the node was expanded through, outermost first.
}

type macroCall struct {
	key   Key
	token Token
}

// Assemble is a convenience wrapper: it assembles source into a byte image.
func Assemble(source string, resolver Resolver) (image []byte, err error) {
	asm := &Assembler{Resolver: resolver}
	prog, err := asm.Assemble(source)
	if err != nil {
		return
	}

	image = prog.Binary()
	return
}

// Parse assembles an input stream into a Program.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	data, err := io.ReadAll(input)
	if err != nil {
		return
	}

	return asm.Assemble(string(data))
}

// Assemble assembles source text into a Program.
func (asm *Assembler) Assemble(source string) (prog *Program, err error) {
	asm.reset()
	asm.sources[""] = source

	parser := &Parser{Source: source, Defines: asm.Define}
	nodes, err := parser.Parse()
	if err != nil {
		return
	}

	nodes, err = asm.expandIncludes(nodes)
	if err != nil {
		return
	}

	items, err := asm.expandMacros(nodes)
	if err != nil {
		return
	}

	err = asm.resolveLabels(items)
	if err != nil {
		return
	}

	return asm.emit(items)
}

func (asm *Assembler) reset() {
	if asm.Label == nil {
		asm.Label = make(map[string]uint16, 16)
	}
	clear(asm.Label)
	if asm.Macro == nil {
		asm.Macro = make(map[Key]*MacroDef)
	}
	clear(asm.Macro)
	asm.Define = maps.Clone(sysDefine)
	maps.Copy(asm.Define, asm.predefine)
	asm.sources = make(map[string]string)
}

// fail builds a located assembler error. The macro calls, outermost first,
// are recorded between the location and the cause.
func (asm *Assembler) fail(tok Token, calls []macroCall, errs ...error) error {
	err := errors.Join(errs...)
	for n := len(calls) - 1; n >= 0; n-- {
		call := calls[n]
		err = &ErrMacro{Macro: call.key, File: call.token.File, LineNo: call.token.LineNo, Err: err}
	}

	return &ErrSyntax{
		File:   tok.File,
		Offset: tok.Offset,
		LineNo: tok.LineNo,
		Line:   lineAt(asm.sources[tok.File], tok.Offset),
		Err:    err,
	}
}

// resolveLabels assigns every label the address of the instruction that follows it.
func (asm *Assembler) resolveLabels(items []expanded) (err error) {
	addr := 0
	for _, item := range items {
		switch node := item.node.(type) {
		case *Label:
			if _, ok := asm.Label[node.Name]; ok {
				err = asm.fail(node.Token, item.calls, ErrResolution, ErrLabelDuplicate(node.Name))
				return
			}
			if addr > 0xffff {
				err = asm.fail(node.Token, item.calls, ErrRange, ErrLiteralRange{Value: uint64(addr), Max: 0xffff})
				return
			}
			asm.Label[node.Name] = uint16(addr)
			if asm.Verbose {
				log.Printf("asm: $%v = %#04x", node.Name, addr)
			}
		case *InstructionNode:
			addr += item.ins.Length
		}
	}

	return
}

// emit encodes every instruction, with label references resolved.
func (asm *Assembler) emit(items []expanded) (prog *Program, err error) {
	prog = &Program{Label: maps.Clone(asm.Label)}

	addr := 0
	for _, item := range items {
		node, ok := item.node.(*InstructionNode)
		if !ok {
			continue
		}

		var code Code
		code, err = asm.encode(item.ins, node, item.calls)
		if err != nil {
			prog = nil
			return
		}

		prog.Opcodes = append(prog.Opcodes, Opcode{
			File:   node.Token.File,
			LineNo: node.Token.LineNo,
			Ip:     addr,
			Words:  words(node.Mnemonic, node.Args),
			Code:   code,
		})
		addr += item.ins.Length
	}

	return
}

func registerOf(arg Arg) uint8 {
	reg, _ := arg.(RegisterArg)
	return reg.Index
}

// encode packs the operands of an instruction according to its catalog shape.
func (asm *Assembler) encode(ins Instruction, node *InstructionNode, calls []macroCall) (code Code, err error) {
	args := node.Args

	switch ins.Shape() {
	case SHAPE_RR:
		code = MakeCodeRR(ins.Op, registerOf(args[0]), registerOf(args[1]))
	case SHAPE_RL:
		switch lit := args[1].(type) {
		case LabelArg:
			err = asm.fail(lit.Token, calls, ErrRange, ErrLabelImmediate)
		case LiteralArg:
			if lit.Value > 0xff {
				err = asm.fail(lit.Token, calls, ErrRange, ErrLiteralRange{Value: uint64(lit.Value), Max: 0xff})
				return
			}
			code = MakeCodeRL(ins.Op, registerOf(args[0]), uint8(lit.Value))
		}
	case SHAPE_R:
		code = MakeCodeR(ins.Op, registerOf(args[0]))
	case SHAPE_L:
		var value uint64
		switch lit := args[0].(type) {
		case LabelArg:
			addr, ok := asm.Label[lit.Name]
			if !ok {
				err = asm.fail(lit.Token, calls, ErrResolution, ErrLabelMissing(lit.Name))
				return
			}
			value = uint64(addr)
		case LiteralArg:
			value = uint64(lit.Value)
		}
		if value > 0xffff {
			err = asm.fail(args[0].Where(), calls, ErrRange, ErrLiteralRange{Value: value, Max: 0xffff})
			return
		}
		code = MakeCodeL(ins.Op, uint16(value))
	default:
		err = asm.fail(node.Token, calls, ErrResolution, ErrUnknownInstruction(ins.Key()))
	}

	return
}
