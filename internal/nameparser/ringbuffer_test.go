package nameparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRingBuffer_PushReportsEviction(t *testing.T) {
	rb := newRingBuffer[int](3)

	for i := 1; i <= 3; i++ {
		_, evicted := rb.push(i)
		assert.False(t, evicted)
	}
	assert.Equal(t, []int{1, 2, 3}, rb.items())

	old, evicted := rb.push(4)
	assert.True(t, evicted)
	assert.Equal(t, 1, old)
	assert.Equal(t, []int{2, 3, 4}, rb.items())
	assert.Equal(t, 3, rb.len())

	rb.clear()
	assert.Equal(t, 0, rb.len())
	assert.Empty(t, rb.items())
}
