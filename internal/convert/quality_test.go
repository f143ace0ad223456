package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNonBlank(t *testing.T) {
	gate := NonBlank()

	assert.True(t, gate("hello"))
	assert.True(t, gate("  x  "))
	assert.False(t, gate(""))
	assert.False(t, gate("  \n\t "))
}

func TestMinLength(t *testing.T) {
	gate := MinLength(10)

	assert.False(t, gate("abc"))
	assert.False(t, gate("  123456789  ")) // 9 after trimming
	assert.True(t, gate("exactly10!"))
	assert.True(t, gate("well over the minimum"))
}
