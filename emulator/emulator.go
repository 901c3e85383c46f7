// Copyright 2025, The DOC Authors

// Package emulator runs assembled DOC programs, attributing runtime
// failures to the source lines of the program listing.
package emulator

import (
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/QcO-dev/doc/cpu"
	"github.com/QcO-dev/doc/internal"
)

const (
	IMAGE_BASE = 0x0000 // Load address of program images.
	STACK_PAGE = 0x0000 // Page the 8-bit stack pointer addresses.
)

var _emulator_defines = map[string]string{
	"IMAGE_BASE": fmt.Sprintf("%#x", IMAGE_BASE),
	"STACK_PAGE": fmt.Sprintf("%#x", STACK_PAGE),
}

// Emulator state. CPU + program listing.
type Emulator struct {
	Verbose   bool         // If set, enables verbose logging.
	*cpu.Cpu               // Reference to the CPU simulation.
	Program   *cpu.Program // Reference to the currently running program listing.
	TickLimit int          // Maximum ticks before Run fails; 0 is unlimited.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Cpu:     cpu.NewCpu(),
		Program: &cpu.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.Concat2(maps.All(_emulator_defines),
		emu.Cpu.Defines(),
	)
}

// Reset the emulator state, and load the program image.
func (emu *Emulator) Reset() (err error) {
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Load(emu.Program.Binary())
	if err != nil {
		err = &ErrRuntime{Err: err}
		return
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %d opcodes", len(emu.Program.Opcodes))
	}

	return
}

// Load resets the emulator with a raw image, which has no listing.
func (emu *Emulator) Load(image []byte) (err error) {
	emu.Program = &cpu.Program{}
	emu.Cpu.Verbose = emu.Verbose

	err = emu.Cpu.Load(image)
	if err != nil {
		err = &ErrRuntime{Err: err}
		return
	}

	return
}

// Ticks returns the total ticks since a reset.
func (emu *Emulator) Ticks() int {
	return emu.Cpu.Ticks
}

// Ip returns current instruction pointer.
func (emu *Emulator) Ip() int {
	return int(emu.Cpu.Ip)
}

// Code returns the current instruction code.
func (emu *Emulator) Code() cpu.Code {
	for ip, code := range emu.Program.Codes() {
		if emu.Cpu.Ip == ip {
			return code
		}
	}

	return cpu.Code{}
}

// LineNo returns the current line number for the executing opcode.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Cpu.Ip)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Tick performs a single tick of the emulator.
// done is set once the program has halted.
func (emu *Emulator) Tick() (done bool, err error) {
	// Set CPU verbosity
	emu.Cpu.Verbose = emu.Verbose

	if emu.Cpu.Halted() {
		done = true
		return
	}

	dbg := emu.Program.Debug(emu.Cpu.Ip)
	ip := emu.Cpu.Ip
	defer func() {
		if err != nil {
			rt := &ErrRuntime{Ip: ip, Err: err}
			if dbg.Opcode != nil {
				rt.File = dbg.File
				rt.LineNo = dbg.LineNo
			}
			err = rt
		}
	}()

	if emu.TickLimit > 0 && emu.Cpu.Ticks >= emu.TickLimit {
		err = ErrTickLimit
		return
	}

	err = emu.Cpu.Tick()
	if err != nil {
		return
	}

	done = emu.Cpu.Halted()
	if done && emu.Verbose {
		log.Printf("emulator: halted after %d ticks", emu.Cpu.Ticks)
	}

	return
}

// Run ticks the emulator until the program halts.
func (emu *Emulator) Run() (err error) {
	for {
		var done bool
		done, err = emu.Tick()
		if err != nil || done {
			return
		}
	}
}

// Result is the machine state after a program has run.
type Result struct {
	Registers [cpu.REGISTER_COUNT]uint8
	Memory    []byte
	Ticks     int
}

// Emulate runs a byte image from address 0 until it halts.
// The result holds the machine state, even if the run failed.
func Emulate(image []byte) (result *Result, err error) {
	emu := NewEmulator()

	err = emu.Load(image)
	if err != nil {
		return
	}

	err = emu.Run()

	result = &Result{
		Registers: emu.Cpu.Register,
		Memory:    emu.Cpu.Memory,
		Ticks:     emu.Cpu.Ticks,
	}

	return
}
