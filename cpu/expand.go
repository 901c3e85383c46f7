package cpu

import (
	"log"
	"slices"
)

// includeFrame is a source being spliced into the program.
type includeFrame struct {
	path  string
	nodes []Node
	index int
}

func (asm *Assembler) depth() int {
	if asm.MaxDepth <= 0 {
		return STACK_LIMIT
	}
	return asm.MaxDepth
}

// expandIncludes replaces every @include with the parsed nodes of the included
// source, recursively.
func (asm *Assembler) expandIncludes(nodes []Node) (out []Node, err error) {
	stack := Stack[includeFrame]{Limit: asm.depth()}
	stack.Push(includeFrame{nodes: nodes})

	for !stack.Empty() {
		frame := stack.Top()
		if frame.index >= len(frame.nodes) {
			stack.Pop()
			continue
		}
		node := frame.nodes[frame.index]
		frame.index++

		inc, ok := node.(*Include)
		if !ok {
			out = append(out, node)
			continue
		}

		// Frames above the root are the active include chain.
		for _, active := range stack.Data[1:] {
			if active.path == inc.Path {
				err = asm.fail(inc.Token, nil, ErrResolution, ErrIncludeCycle(inc.Path))
				return
			}
		}

		var source string
		ok = false
		if asm.Resolver != nil {
			source, ok = asm.Resolver.Resolve(inc.Path)
		}
		if !ok {
			err = asm.fail(inc.Token, nil, ErrResolution, ErrIncludeMissing(inc.Path))
			return
		}

		if asm.Verbose {
			log.Printf("asm: @include %q", inc.Path)
		}

		asm.sources[inc.Path] = source
		parser := &Parser{File: inc.Path, Source: source, Defines: asm.Define}
		var included []Node
		included, err = parser.Parse()
		if err != nil {
			return
		}

		if !stack.Push(includeFrame{path: inc.Path, nodes: included}) {
			err = asm.fail(inc.Token, nil, ErrRecursion, ErrRecursionLimit{Name: inc.Path, Depth: stack.Limit})
			return
		}
	}

	return
}

// macroFrame is a macro body being expanded.
type macroFrame struct {
	nodes []Node
	index int
	calls []macroCall
}

// expandMacros registers every macro definition, then replaces every call
// that does not match a catalog instruction with the bound body of its macro.
func (asm *Assembler) expandMacros(nodes []Node) (out []expanded, err error) {
	var top []Node
	for _, node := range nodes {
		def, ok := node.(*MacroDef)
		if !ok {
			top = append(top, node)
			continue
		}

		key := def.Key()
		if _, ok := asm.Macro[key]; ok {
			err = asm.fail(def.Token, nil, ErrResolution, ErrMacroDuplicate)
			return
		}
		asm.Macro[key] = def
	}

	stack := Stack[macroFrame]{Limit: asm.depth()}
	stack.Push(macroFrame{nodes: top})

	for !stack.Empty() {
		frame := stack.Top()
		if frame.index >= len(frame.nodes) {
			stack.Pop()
			continue
		}
		node := frame.nodes[frame.index]
		frame.index++
		calls := frame.calls

		var name string
		var args []Arg
		switch n := node.(type) {
		case *Label:
			out = append(out, expanded{node: n, calls: calls})
			continue
		case *InstructionNode:
			name, args = n.Mnemonic, n.Args
		case *MacroCall:
			name, args = n.Name, n.Args
		default:
			continue
		}

		key := MakeKey(name, kindsOf(args)...)
		if ins, ok := Lookup(key); ok {
			out = append(out, expanded{
				node:  &InstructionNode{Mnemonic: name, Args: args, Token: node.Where()},
				ins:   ins,
				calls: calls,
			})
			continue
		}

		def, ok := asm.Macro[key]
		if !ok {
			err = asm.fail(node.Where(), calls, ErrResolution, ErrUnknownInstruction(key))
			return
		}

		if asm.Verbose {
			log.Printf("asm: %v => %v", callText(name, args), key)
		}

		inner := append(slices.Clip(calls), macroCall{key: key, token: node.Where()})
		if !stack.Push(macroFrame{nodes: bind(def, args), calls: inner}) {
			// Only the outermost call is kept; the rest repeat the cycle.
			err = asm.fail(node.Where(), calls[:min(len(calls), 1)], ErrRecursion, ErrRecursionLimit{Name: string(key), Depth: stack.Limit})
			return
		}
	}

	return
}

// bind returns a copy of the macro body with every parameter replaced by the
// call argument it names. Register arguments fill the %rN slots in call order,
// and literal or label arguments fill the %lN slots.
func bind(def *MacroDef, args []Arg) (body []Node) {
	var registers, literals []Arg
	for _, arg := range args {
		if arg.Kind() == KIND_REGISTER {
			registers = append(registers, arg)
		} else {
			literals = append(literals, arg)
		}
	}

	substitute := func(in []Arg) []Arg {
		out := make([]Arg, len(in))
		for n, arg := range in {
			switch param := arg.(type) {
			case RegisterParam:
				out[n] = registers[param.Index]
			case LiteralParam:
				out[n] = literals[param.Index]
			default:
				out[n] = arg
			}
		}
		return out
	}

	body = make([]Node, 0, len(def.Body))
	for _, node := range def.Body {
		switch n := node.(type) {
		case *InstructionNode:
			body = append(body, &InstructionNode{Mnemonic: n.Mnemonic, Args: substitute(n.Args), Token: n.Token})
		case *MacroCall:
			body = append(body, &MacroCall{Name: n.Name, Args: substitute(n.Args), Token: n.Token})
		default:
			body = append(body, node)
		}
	}

	return
}
