// Package cpu implements the microprocessor and assembler for the DOC 8-bit machine.
//
// The CPU consists of a 16-bit instruction pointer (IP), sixteen 8-bit
// registers, and 48KiB of unified code and data memory. The rah:ral register
// pair addresses memory for loads, stores, and jumps; rsp is a downward
// growing stack pointer; rf holds the halt, carry, and borrow flags.
//
// The assembler provides an assembly language for the DOC instruction set,
// supporting overloaded macros, labels, file includes, and compile-time
// expression evaluation. Assembly runs as a pipeline:
//
//	Lex -> Parse -> include expansion -> macro expansion -> label resolution -> encoding
package cpu
