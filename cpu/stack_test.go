package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	assert.True(s.Empty())
	assert.False(s.Full())

	s.Push(0x234)
	assert.False(s.Empty())
	assert.Equal(1, s.Depth())
	assert.Equal(uint16(0x234), s.Data[0])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	s.Push(0x234)
	s.Push(0xabc)

	val, ok := s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0xabc), val)
	assert.Equal(1, s.Depth())

	val, ok = s.Pop()
	assert.True(ok)
	assert.Equal(uint16(0x234), val)
	assert.True(s.Empty())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	val, ok := s.Pop()
	assert.False(ok)
	assert.Equal(uint16(0), val)
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}
	_, ok := s.Peek()
	assert.False(ok)

	s.Push(0x234)
	s.Push(0xabc)

	val, ok := s.Peek()
	assert.True(ok)
	assert.Equal(uint16(0xabc), val)
	assert.Equal(2, s.Depth())
}

func TestStack_Capacity(t *testing.T) {
	assert := assert.New(t)

	s := &Stack{}

	for i := 0; i < STACK_LIMIT; i++ {
		assert.False(s.Full())
		s.Push(uint16(i))
	}

	assert.True(s.Full())
	assert.Equal(STACK_LIMIT, s.Depth())

	s.Reset()
	assert.True(s.Empty())
	assert.False(s.Full())
}
