package cpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzCpu(f *testing.F) {
	for op := range 0x10 {
		f.Add(byte(op<<4|0x3), byte(0x50), byte(0x12), uint8(0x00))
		f.Add(byte(op<<4|0xf), byte(0xf0), byte(0xff), uint8(0xc0))
		f.Add(byte(op<<4|0xb), byte(0xc0), byte(0x34), uint8(0x7f))
	}

	f.Fuzz(func(t *testing.T, b0, b1, b2 byte, seed uint8) {
		assert := assert.New(t)

		code, err := DecodeCode([]byte{b0, b1, b2})
		assert.NoError(err)

		// Encoding a decoded instruction is stable.
		again, err := DecodeCode(code.Bytes())
		assert.NoError(err)
		assert.Equal(code, again)
		assert.Equal(code.Length(), len(code.Bytes()))

		cpu := NewCpu()
		for n := range cpu.Register {
			cpu.Register[n] = seed + uint8(n)*0x11
		}
		cpu.Ip = 0x100
		cpu.Memory[0x80] = 0xa5

		pre := cpu.Register
		addr := uint16(pre[REG_RAH])<<8 | uint16(pre[REG_RAL])
		dst := code.Reg & 0xf
		src := code.Src & 0xf
		next_ip := cpu.Ip + uint16(code.Length())

		err = cpu.Execute(code)

		code_str := fmt.Sprintf("%02x %02x %02x (%v) seed:%#02x\ncpu:%v", b0, b1, b2, code, seed, cpu.String())

		if err != nil {
			assert.True(errors.Is(err, ErrOpcode{}), code_str)
			assert.True(errors.Is(err, ErrOutOfBounds(0)), code_str)
			switch code.Op {
			case OP_LDR, OP_STA:
				assert.GreaterOrEqual(int(addr), MEMORY_SIZE, code_str)
			case OP_JNZ:
				assert.NotEqual(uint8(0), pre[dst], code_str)
				assert.GreaterOrEqual(int(addr), MEMORY_SIZE, code_str)
			default:
				assert.NoError(err, code_str)
			}
			// Faulting instructions leave the IP in place.
			assert.Equal(uint16(0x100), cpu.Ip, code_str)
			return
		}

		switch code.Op {
		case OP_MOV_RR:
			assert.Equal(pre[src], cpu.Register[dst], code_str)
		case OP_MOV_RL:
			assert.Equal(uint8(code.Imm), cpu.Register[dst], code_str)
		case OP_LDR:
			assert.Equal(cpu.Memory[addr], cpu.Register[dst], code_str)
		case OP_STA:
			assert.Equal(pre[dst], cpu.Memory[addr], code_str)
		case OP_LDA:
			assert.Equal(uint8(code.Imm>>8), cpu.Register[REG_RAH], code_str)
			assert.Equal(uint8(code.Imm), cpu.Register[REG_RAL], code_str)
		case OP_PSH:
			assert.Equal(pre[dst], cpu.Memory[pre[REG_RSP]], code_str)
			if dst != REG_RSP {
				assert.Equal(pre[REG_RSP]-1, cpu.Register[REG_RSP], code_str)
			}
		case OP_POP:
			if dst != REG_RSP {
				assert.Equal(pre[REG_RSP]+1, cpu.Register[REG_RSP], code_str)
				assert.Equal(cpu.Memory[cpu.Register[REG_RSP]], cpu.Register[dst], code_str)
			}
		case OP_JNZ:
			if pre[dst] != 0 {
				next_ip = addr
			}
		case OP_ADD:
			if dst != REG_RF && src != REG_RF {
				assert.Equal(pre[dst]+pre[src], cpu.Register[dst], code_str)
				assert.Equal(uint8(0), cpu.Register[REG_RF]&FLAG_CARRY, code_str)
			}
		case OP_SUB:
			if dst != REG_RF && src != REG_RF {
				assert.Equal(pre[dst]-pre[src], cpu.Register[dst], code_str)
				assert.Equal(src >= dst, cpu.Register[REG_RF]&FLAG_BORROW != 0, code_str)
			}
		case OP_OR:
			assert.Equal(pre[dst]|pre[src], cpu.Register[dst], code_str)
		case OP_AND:
			assert.Equal(pre[dst]&pre[src], cpu.Register[dst], code_str)
		case OP_NOT:
			assert.Equal(^pre[dst], cpu.Register[dst], code_str)
		case 0xf:
			assert.Equal(pre, cpu.Register, code_str)
		}

		assert.Equal(next_ip, cpu.Ip, code_str)
		assert.Equal(0, cpu.Ticks, code_str)
	})
}
