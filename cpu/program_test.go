package cpu

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testProgram() *Program {
	return &Program{
		Opcodes: []Opcode{
			{LineNo: 1, Ip: 0, Words: []string{"mov", "r1", "#16"},
				Code: MakeCodeRL(OP_MOV_RL, REG_R1, 0x10)},
			{LineNo: 2, Ip: 2, Words: []string{"lda", "$end"},
				Code: MakeCodeL(OP_LDA, 6)},
			{LineNo: 3, Ip: 5, Words: []string{"not", "r1"},
				Code: MakeCodeR(OP_NOT, REG_R1)},
		},
		Label: map[string]uint16{"end": 6},
	}
}

func TestProgram_Debug(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(1)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(4)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.Opcode.LineNo)
	assert.Equal(2, dbg.Index)

	dbg = prog.Debug(5)
	assert.NotNil(dbg.Opcode)
	assert.Equal(3, dbg.Opcode.LineNo)
	assert.Equal(0, dbg.Index)
}

func TestProgram_Debug_NotFound(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	dbg := prog.Debug(6)
	assert.Nil(dbg.Opcode)
	assert.Equal(0, dbg.Index)

	dbg = (&Program{}).Debug(0)
	assert.Nil(dbg.Opcode)
}

func TestProgram_Binary(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	assert.Equal([]byte{0x11, 0x10, 0x40, 0x00, 0x06, 0xe1}, prog.Binary())
}

func TestProgram_Codes(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	ips := []uint16{}
	codes := []Code{}
	for ip, code := range prog.Codes() {
		ips = append(ips, ip)
		codes = append(codes, code)
	}

	assert.Equal([]uint16{0, 2, 5}, ips)
	assert.Equal(3, len(codes))
	assert.Equal(OP_LDA, codes[1].Op)
}

func TestProgram_Codes_EarlyReturn(t *testing.T) {
	assert := assert.New(t)

	prog := testProgram()

	count := 0
	for range prog.Codes() {
		count++
		if count == 1 {
			break
		}
	}

	assert.Equal(1, count)
}

func TestProgram_Codes_Empty(t *testing.T) {
	assert := assert.New(t)

	prog := &Program{
		Opcodes: []Opcode{},
	}

	count := 0
	for range prog.Codes() {
		count++
	}

	assert.Equal(0, count)
}

func TestProgram_WriteListing(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := strings.Join([]string{
		"mov r1, #5",
		"$loop: $again:",
		"add r1, r2",
		"lda $loop",
	}, "\n")

	prog, err := asm.Parse(strings.NewReader(program))
	assert.NoError(err)
	if err != nil {
		return
	}

	var out bytes.Buffer
	err = prog.WriteListing(&out)
	assert.NoError(err)

	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")
	assert.Equal(5, len(lines))
	if len(lines) == 5 {
		assert.True(strings.HasPrefix(lines[0], "0000: 11 05"), lines[0])
		assert.Contains(lines[0], "mov r1, #05h")
		assert.True(strings.HasSuffix(lines[0], "; 1"), lines[0])
		assert.Contains(lines[1], "$again:")
		assert.Contains(lines[2], "$loop:")
		assert.True(strings.HasPrefix(lines[3], "0002: 81 20"), lines[3])
		assert.True(strings.HasSuffix(lines[3], "; 3"), lines[3])
		assert.Contains(lines[4], "lda #0002h")
	}
}

func TestProgram_Integration_ParseAndDebug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	program := strings.Join([]string{
		"mov r1, #1",
		"mov r2, #2",
		"add r1, r2",
	}, "\n")

	prog, err := asm.Parse(strings.NewReader(program))
	assert.NoError(err)

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.Opcode.LineNo)

	dbg = prog.Debug(2)
	assert.NotNil(dbg.Opcode)
	assert.Equal(2, dbg.Opcode.LineNo)

	dbg = prog.Debug(5)
	assert.NotNil(dbg.Opcode)
	assert.Equal(3, dbg.Opcode.LineNo)
	assert.Equal(1, dbg.Index)
}
