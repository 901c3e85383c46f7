package emulator

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/QcO-dev/doc/cpu"
	"github.com/QcO-dev/doc/include"
)

func TestEmulator(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()

	assert.False(emu.Verbose)
	assert.Equal(cpu.MEMORY_SIZE, len(emu.Cpu.Memory))
	assert.Equal(0, emu.TickLimit)

	defines := map[string]string{}
	for key, value := range emu.Defines() {
		defines[key] = value
	}
	assert.Equal("0x0", defines["IMAGE_BASE"])
	assert.Equal("9", defines["REG_RV"])
	assert.Equal("49152", defines["MEMORY_SIZE"])
}

func assemble(t *testing.T, program []string) (prog *cpu.Program) {
	asm := &cpu.Assembler{Resolver: include.Std}
	prog, err := asm.Parse(strings.NewReader(strings.Join(program, "\n")))
	if err != nil {
		t.Fatal(err)
	}

	return
}

func doRunSingle(emu *Emulator, program []string, t *testing.T) {
	assert := assert.New(t)

	prog := assemble(t, program)
	emu.Program = prog

	err := emu.Reset()
	assert.NoError(err)

	for n, op := range prog.Opcodes {
		assert.Equal(emu.LineNo(), op.LineNo)
		assert.Equal(op.Ip, emu.Ip())
		assert.Equal(op.Code, emu.Code())
		here := program[op.LineNo-1]
		done, err := emu.Tick()
		if err != nil {
			t.Log(emu.Cpu.String())
			t.Fatalf("%v", err)
		}
		assert.Equal(n == len(prog.Opcodes)-1, done, here)
	}

	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
	assert.Equal(len(prog.Opcodes), emu.Ticks())
}

func TestEmulatorRegisters(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"mov r1, #10h",
		"mov r2, #20h",
		"mov r3, r2",
		"not r3",
		"or r1, r2",
		"and r3, r1",
		"mov rv, #(FLAG_HALT)",
		"or rf, rv",
	}

	doRunSingle(emu, program, t)

	assert.Equal(uint8(0x30), emu.Cpu.Register[cpu.REG_R1])
	assert.Equal(uint8(0x20), emu.Cpu.Register[cpu.REG_R2])
	assert.Equal(uint8(0x10), emu.Cpu.Register[cpu.REG_R3])
	assert.True(emu.Cpu.Halted())
}

func TestEmulatorMemory(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"@include \"std.asm\"",
		"lda $data",
		"mov r1",
		"add r1, #1",
		"sta r1",
		"mov rsp, #80h",
		"psh r1",
		"pop r2",
		"hlt",
		"$data:",
		"not r1",
	}

	emu.Program = assemble(t, program)
	err := emu.Reset()
	assert.NoError(err)

	err = emu.Run()
	assert.NoError(err)

	data := emu.Program.Label["data"]
	assert.Equal(uint8(0xe2), emu.Cpu.Memory[data])
	assert.Equal(uint8(0xe2), emu.Cpu.Register[cpu.REG_R1])
	assert.Equal(uint8(0xe2), emu.Cpu.Register[cpu.REG_R2])
	assert.Equal(uint8(0xe2), emu.Cpu.Memory[0x80])
	assert.Equal(uint8(0x80), emu.Cpu.Register[cpu.REG_RSP])
}

func TestEmulatorMultiply(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"@include \"std.asm\"",
		"mov r1, #5",
		"mov r2, #10",
		"mov r3, r0",
		"$loop:",
		"add r3, r1",
		"dec r2",
		"jnz r2, $loop",
		"hlt",
	}

	emu.Program = assemble(t, program)
	err := emu.Reset()
	assert.NoError(err)

	err = emu.Run()
	assert.NoError(err)

	assert.True(emu.Cpu.Halted())
	assert.Equal(uint8(50), emu.Cpu.Register[cpu.REG_R3])

	// Halted emulators stay done.
	done, err := emu.Tick()
	assert.NoError(err)
	assert.True(done)
}

func TestEmulatorRuntimeError(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	program := []string{
		"mov r1, #1",
		"lda #(MEMORY_SIZE)",
		"",
		"sta r1",
	}

	emu.Program = assemble(t, program)
	err := emu.Reset()
	assert.NoError(err)

	err = emu.Run()
	assert.Error(err)
	assert.True(errors.Is(err, cpu.ErrOutOfBounds(0)))

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(4, rt.LineNo)
		assert.Equal(uint16(5), rt.Ip)
		assert.Equal("", rt.File)
	}
}

func TestEmulatorTickLimit(t *testing.T) {
	assert := assert.New(t)

	emu := NewEmulator()
	emu.TickLimit = 100
	program := []string{
		"@include \"std.asm\"",
		"$spin:",
		"jmp $spin",
	}

	emu.Program = assemble(t, program)
	err := emu.Reset()
	assert.NoError(err)

	err = emu.Run()
	assert.True(errors.Is(err, ErrTickLimit))
	assert.Equal(100, emu.Ticks())

	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.NotEqual(0, rt.LineNo)
		assert.Equal(include.STD_PATH, rt.File)
	}
}

func TestEmulate(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"@include \"std.asm\"",
		"mov r1, #5",
		"mov r2, #10",
		"mov r3, r0",
		"$loop:",
		"add r3, r1",
		"dec r2",
		"jnz r2, $loop",
		"hlt",
	}

	image, err := cpu.Assemble(strings.Join(program, "\n"), include.Std)
	assert.NoError(err)

	result, err := Emulate(image)
	assert.NoError(err)
	if assert.NotNil(result) {
		assert.Equal(uint8(50), result.Registers[cpu.REG_R3])
		assert.NotEqual(uint8(0), result.Registers[cpu.REG_RF]&cpu.FLAG_HALT)
		assert.Equal(cpu.MEMORY_SIZE, len(result.Memory))
		assert.Equal(image, result.Memory[:len(image)])
	}

	// A raw image has no listing; faults report the address.
	result, err = Emulate([]byte{0x40, 0xff, 0xff, 0x11, 0x01, 0x71})
	var rt *ErrRuntime
	if assert.True(errors.As(err, &rt)) {
		assert.Equal(0, rt.LineNo)
		assert.Equal(uint16(5), rt.Ip)
		assert.Contains(rt.Error(), "ip ")
	}
	assert.NotNil(result)

	_, err = Emulate(make([]byte, cpu.MEMORY_SIZE+1))
	assert.True(errors.Is(err, cpu.ErrImageSize))
}
