package cpu

import (
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"
)

// Opcode is one row of a program listing: an emitted instruction with its source location.
type Opcode struct {
	File   string   // Include path; empty for the root source.
	LineNo int      // Source line of the instruction.
	Ip     int      // Address of the first byte.
	Words  []string // Mnemonic and arguments, as written after macro substitution.
	Code   Code
}

// Program is an assembled byte image and its listing.
type Program struct {
	Opcodes []Opcode
	Label   map[string]uint16 // Resolved label addresses.
}

// Debug locates a byte address within the program listing.
type Debug struct {
	*Opcode
	Index int // Offset of the address into the instruction.
}

// Debug finds the listing row holding a byte address.
func (prog *Program) Debug(ip uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(ip) >= op.Ip && int(ip) < op.Ip+op.Code.Length() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(ip) - op.Ip,
			}
			break
		}
	}

	return
}

// Binary returns the byte image of the program, loaded at address 0.
func (prog *Program) Binary() (bins []byte) {
	for _, op := range prog.Opcodes {
		bins = append(bins, op.Code.Bytes()...)
	}

	return
}

// Codes iterates over the instructions of the program by address.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(ip uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			if !yield(uint16(op.Ip), op.Code) {
				return
			}
		}
	}
}

// WriteListing writes an address, bytes, and source listing of the program.
func (prog *Program) WriteListing(w io.Writer) (err error) {
	labels := make(map[int][]string, len(prog.Label))
	for name, addr := range prog.Label {
		labels[int(addr)] = append(labels[int(addr)], name)
	}

	for _, op := range prog.Opcodes {
		names := labels[op.Ip]
		slices.Sort(names)
		for _, name := range names {
			_, err = fmt.Fprintf(w, "%04x:              $%v:\n", op.Ip, name)
			if err != nil {
				return
			}
		}
		delete(labels, op.Ip)

		var hex []string
		for _, b := range op.Code.Bytes() {
			hex = append(hex, fmt.Sprintf("%02x", b))
		}
		where := fmt.Sprintf("%d", op.LineNo)
		if len(op.File) != 0 {
			where = op.File + ":" + where
		}
		_, err = fmt.Fprintf(w, "%04x: %-9v %-20v ; %v\n", op.Ip, strings.Join(hex, " "), op.Code, where)
		if err != nil {
			return
		}
	}

	return
}
