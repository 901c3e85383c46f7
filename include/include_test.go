package include

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"

	"github.com/QcO-dev/doc/cpu"
)

func TestMap(t *testing.T) {
	assert := assert.New(t)

	m := Map{"a.asm": "not r1"}

	source, ok := m.Resolve("a.asm")
	assert.True(ok)
	assert.Equal("not r1", source)

	_, ok = m.Resolve("b.asm")
	assert.False(ok)

	_, ok = Map(nil).Resolve("a.asm")
	assert.False(ok)
}

func TestFS(t *testing.T) {
	assert := assert.New(t)

	r := &FS{FS: fstest.MapFS{
		"lib/a.asm": &fstest.MapFile{Data: []byte("not r1\n")},
	}}

	source, ok := r.Resolve("lib/a.asm")
	assert.True(ok)
	assert.Equal("not r1\n", source)

	source, ok = r.Resolve("./lib/../lib/a.asm")
	assert.True(ok)
	assert.Equal("not r1\n", source)

	for _, name := range []string{"lib/b.asm", "../a.asm", "/lib/a.asm"} {
		_, ok = r.Resolve(name)
		assert.False(ok, name)
	}
}

func TestDir(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "b.asm"), []byte("not r2\n"), 0o644)
	assert.NoError(err)

	source, ok := Dir(dir).Resolve("b.asm")
	assert.True(ok)
	assert.Equal("not r2\n", source)
}

func TestChain(t *testing.T) {
	assert := assert.New(t)

	c := Chain{
		nil,
		Map{"a.asm": "first"},
		Map{"a.asm": "second", "b.asm": "only"},
	}

	source, ok := c.Resolve("a.asm")
	assert.True(ok)
	assert.Equal("first", source)

	source, ok = c.Resolve("b.asm")
	assert.True(ok)
	assert.Equal("only", source)

	_, ok = c.Resolve("c.asm")
	assert.False(ok)

	_, ok = Chain(nil).Resolve("a.asm")
	assert.False(ok)
}

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, STD_PATH), []byte("; shadowed\n"), 0o644)
	assert.NoError(err)

	source, ok := Default(false).Resolve(STD_PATH)
	assert.True(ok)
	assert.Equal(stdSource, source)

	// Directories are searched before the standard library.
	source, ok = Default(false, dir).Resolve(STD_PATH)
	assert.True(ok)
	assert.Equal("; shadowed\n", source)
}

func TestStd(t *testing.T) {
	assert := assert.New(t)

	program := []string{
		"@include \"std.asm\"",
		"hlt",
		"add r1, #2",
		"sub r1, #3",
		"inc r2",
		"dec r2",
		"$top:",
		"jnz r3, $top",
		"jmp $top",
		"nop",
	}

	image, err := cpu.Assemble(strings.Join(program, "\n"), Std)
	assert.NoError(err)
	assert.Equal([]byte{
		0x19, 0x01, 0xcf, 0x90, // hlt
		0x19, 0x02, 0x81, 0x90, // add r1, #2
		0x19, 0x03, 0xa1, 0x90, // sub r1, #3
		0x19, 0x01, 0x82, 0x90, // inc r2
		0x19, 0x01, 0xa2, 0x90, // dec r2
		0x40, 0x00, 0x14, 0x73, // jnz r3, $top
		0x40, 0x00, 0x14, 0x19, 0x01, 0x79, // jmp $top
		0xc0, 0x00, // nop
	}, image)

	// The library can only be included once; its macros would be duplicated.
	_, err = cpu.Assemble("@include \"std.asm\"\n@include \"std.asm\"\n", Std)
	assert.True(errors.Is(err, cpu.ErrResolution))
}
