package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ls8/io"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.True(cpu.StackEmpty())

	err := cpu.push(0x12)
	assert.NoError(err)
	assert.False(cpu.StackEmpty())
	assert.Equal(1, cpu.StackDepth())
	assert.Equal(uint8(SP_INIT-1), cpu.Register[REG_SP])
	assert.Equal(uint8(0x12), cpu.Memory[SP_INIT-1])
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.push(0x12))
	assert.NoError(cpu.push(0xAB))

	val, err := cpu.pop()
	assert.NoError(err)
	assert.Equal(uint8(0xAB), val)
	assert.Equal(1, cpu.StackDepth())

	val, err = cpu.pop()
	assert.NoError(err)
	assert.Equal(uint8(0x12), val)
	assert.Equal(0, cpu.StackDepth())
	assert.Equal(uint8(SP_INIT), cpu.Register[REG_SP])
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	val, err := cpu.pop()
	assert.ErrorIs(err, ErrStackEmpty)
	assert.Equal(uint8(0), val)
	assert.Equal(uint8(SP_INIT), cpu.Register[REG_SP])
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.push(0x12))
	assert.NoError(cpu.push(0xAB))

	val, ok := cpu.StackPeek()
	assert.True(ok)
	assert.Equal(uint8(0xAB), val)
	assert.Equal(2, cpu.StackDepth())
}

func TestStack_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	val, ok := cpu.StackPeek()
	assert.False(ok)
	assert.Equal(uint8(0), val)
}

func TestStack_Full(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()

	for i := range SP_INIT {
		assert.NoError(cpu.push(uint8(i)))
	}

	assert.Equal(uint8(0), cpu.Register[REG_SP])
	assert.ErrorIs(cpu.push(0xff), ErrStackFull)
	assert.Equal(SP_INIT, cpu.StackDepth())
}

func TestStack_Full_Code(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	err := cpu.Reset(&io.Rom{Data: make([]uint8, SP_INIT-2)})
	assert.NoError(err)

	assert.NoError(cpu.push(1))
	assert.NoError(cpu.push(2))
	assert.ErrorIs(cpu.push(3), ErrStackFull)
	assert.Equal(2, cpu.StackDepth())

	// The loaded image is untouched.
	assert.Equal(uint8(0), cpu.Memory[SP_INIT-3])
}

func TestStack_Reset(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.push(0x12))
	assert.NoError(cpu.push(0xAB))
	assert.Equal(2, cpu.StackDepth())

	assert.NoError(cpu.Reset(nil))
	assert.True(cpu.StackEmpty())
	assert.Equal(0, cpu.StackDepth())
	assert.Equal(uint8(SP_INIT), cpu.StackBase())
}

func TestStack_Relocate(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.NoError(cpu.push(0x12))

	assert.NoError(cpu.setRegister(REG_SP, 0x40))
	assert.Equal(uint8(0x40), cpu.StackBase())
	assert.True(cpu.StackEmpty())

	_, err := cpu.pop()
	assert.ErrorIs(err, ErrStackEmpty)

	assert.NoError(cpu.push(0x34))
	assert.Equal(uint8(0x34), cpu.Memory[0x3f])

	// Writes through the stack operations do not move the base.
	assert.Equal(uint8(0x40), cpu.StackBase())
}

func TestStack_Empty(t *testing.T) {
	assert := assert.New(t)

	cpu := NewCpu()
	assert.True(cpu.StackEmpty())

	assert.NoError(cpu.push(1))
	assert.False(cpu.StackEmpty())

	_, err := cpu.pop()
	assert.NoError(err)
	assert.True(cpu.StackEmpty())
}
