package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"strings"
)

// Cpu is the simulation context of the DOC machine.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.

	Ip       uint16                // Current instruction pointer.
	Register [REGISTER_COUNT]uint8 // Register bank.
	Memory   []byte                // Unified code and data memory.

	Ticks int // CPU ticks counter.
}

// NewCpu creates a new CPU with zeroed registers and memory.
func NewCpu() (cpu *Cpu) {
	cpu = &Cpu{
		Memory: make([]byte, MEMORY_SIZE),
	}

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(sysDefine)
}

// String returns the current CPU state as a string.
func (cpu *Cpu) String() (text string) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "% 5s: %04x\n", "ip", cpu.Ip)
	for n, name := range RegisterNames {
		fmt.Fprintf(&sb, "% 5s: %02x\n", name, cpu.Register[n])
	}

	return sb.String()
}

// Reset the CPU state.
// - Clears the registers and memory.
// - Zeros the tick counter.
// - Sets the IP to 0.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu: reset")
	}

	if len(cpu.Memory) != MEMORY_SIZE {
		cpu.Memory = make([]byte, MEMORY_SIZE)
	}

	clear(cpu.Register[:])
	clear(cpu.Memory)
	cpu.Ip = 0
	cpu.Ticks = 0
}

// Load resets the CPU, and copies an image into memory at address 0.
func (cpu *Cpu) Load(image []byte) (err error) {
	if len(image) > MEMORY_SIZE {
		err = ErrImageSize
		return
	}

	cpu.Reset()
	copy(cpu.Memory, image)

	if cpu.Verbose {
		log.Printf("cpu: loaded %d bytes", len(image))
	}

	return
}

// Halted returns true if the halt flag is set.
func (cpu *Cpu) Halted() bool {
	return cpu.Register[REG_RF]&FLAG_HALT != 0
}

// address returns the address held by the rah:ral register pair.
func (cpu *Cpu) address() uint16 {
	return uint16(cpu.Register[REG_RAH])<<8 | uint16(cpu.Register[REG_RAL])
}

func (cpu *Cpu) load(addr uint16) (value uint8, err error) {
	if int(addr) >= len(cpu.Memory) {
		err = ErrOutOfBounds(addr)
		return
	}

	value = cpu.Memory[addr]
	return
}

func (cpu *Cpu) store(addr uint16, value uint8) (err error) {
	if int(addr) >= len(cpu.Memory) {
		err = ErrOutOfBounds(addr)
		return
	}

	cpu.Memory[addr] = value
	return
}

// FetchCode decodes the instruction at the IP.
func (cpu *Cpu) FetchCode() (code Code, err error) {
	if int(cpu.Ip) >= len(cpu.Memory) {
		err = ErrOutOfBounds(cpu.Ip)
		return
	}

	code, err = DecodeCode(cpu.Memory[cpu.Ip:])
	if errors.Is(err, ErrOpcodeShort) {
		err = errors.Join(err, ErrOutOfBounds(int(cpu.Ip)+code.Length()-1))
	}

	return
}

// Tick executes a single CPU instruction cycle.
func (cpu *Cpu) Tick() (err error) {
	code, err := cpu.FetchCode()
	if err != nil {
		return
	}

	err = cpu.Execute(code)
	if err != nil {
		return
	}

	cpu.Ticks++
	return
}

// setFlag sets or clears a flag bit of rf.
func (cpu *Cpu) setFlag(flag uint8, set bool) {
	if set {
		cpu.Register[REG_RF] |= flag
	} else {
		cpu.Register[REG_RF] &^= flag
	}
}

// Execute executes a single decoded instruction.
// The IP is advanced past the instruction, unless the instruction jumps.
func (cpu *Cpu) Execute(code Code) (err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(code), err)
		}
	}()
	if cpu.Verbose {
		log.Printf("%04x: %v", cpu.Ip, code)
	}

	next_ip := int(cpu.Ip) + code.Length()

	reg := &cpu.Register
	dst := code.Reg & 0xf
	src := code.Src & 0xf

	switch code.Op & 0xf {
	case OP_MOV_RR:
		reg[dst] = reg[src]
	case OP_MOV_RL:
		reg[dst] = uint8(code.Imm)
	case OP_LDR:
		var value uint8
		value, err = cpu.load(cpu.address())
		if err != nil {
			return
		}
		reg[dst] = value
	case OP_STA:
		err = cpu.store(cpu.address(), reg[dst])
		if err != nil {
			return
		}
	case OP_LDA:
		reg[REG_RAH] = uint8(code.Imm >> 8)
		reg[REG_RAL] = uint8(code.Imm)
	case OP_PSH:
		err = cpu.store(uint16(reg[REG_RSP]), reg[dst])
		if err != nil {
			return
		}
		reg[REG_RSP]--
	case OP_POP:
		sp := reg[REG_RSP] + 1
		var value uint8
		value, err = cpu.load(uint16(sp))
		if err != nil {
			return
		}
		reg[REG_RSP] = sp
		reg[dst] = value
	case OP_JNZ:
		if reg[dst] != 0 {
			next_ip = int(cpu.address())
		}
	case OP_ADD:
		cpu.setFlag(FLAG_CARRY, int(dst)+int(src) > 0xff)
		reg[dst] += reg[src]
	case OP_ADC:
		carry := reg[REG_RF] & FLAG_CARRY
		reg[dst] += reg[src] + carry
	case OP_SUB:
		cpu.setFlag(FLAG_BORROW, src >= dst)
		reg[dst] -= reg[src]
	case OP_SBB:
		borrow := reg[REG_RF] & FLAG_BORROW
		cpu.setFlag(FLAG_BORROW, int(src)+int(borrow) >= int(dst))
		reg[dst] -= reg[src] - borrow
	case OP_OR:
		reg[dst] |= reg[src]
	case OP_AND:
		reg[dst] &= reg[src]
	case OP_NOT:
		reg[dst] = ^reg[dst]
	default:
		// Undefined opcodes are one byte no-ops.
	}

	if next_ip >= len(cpu.Memory) && !cpu.Halted() {
		err = ErrOutOfBounds(next_ip)
		return
	}

	cpu.Ip = uint16(next_ip)

	return
}
