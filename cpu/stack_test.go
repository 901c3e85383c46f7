package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[int]{}
	assert.True(s.Empty())
	assert.False(s.Full())

	assert.True(s.Push(0x1234))
	assert.False(s.Empty())
	assert.Equal(1, s.Len())
	assert.Equal(0x1234, s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[string]{}
	s.Push("outer")
	s.Push("inner")

	val, ok := s.Pop()
	assert.True(ok)
	assert.Equal("inner", val)
	assert.Equal(1, s.Len())

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal("outer", val)
	assert.True(s.Empty())

	val, ok = s.Pop()
	assert.False(ok)
	assert.Equal("", val)
}

func TestStack_Top(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[int]{}
	assert.Nil(s.Top())

	s.Push(1)
	s.Push(2)
	top := s.Top()
	assert.NotNil(top)
	*top = 3

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(3, val)
	assert.Equal(2, s.Len())
}

func TestStack_Limit(t *testing.T) {
	assert := assert.New(t)

	s := &Stack[int]{Limit: 2}
	assert.True(s.Push(1))
	assert.True(s.Push(2))
	assert.True(s.Full())
	assert.False(s.Push(3))
	assert.Equal(2, s.Len())

	d := &Stack[int]{}
	for n := range STACK_LIMIT {
		assert.True(d.Push(n))
	}
	assert.True(d.Full())
	assert.False(d.Push(STACK_LIMIT))
}
