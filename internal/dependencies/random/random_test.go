package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntnStaysInRange(t *testing.T) {
	r := New()
	seen := make(map[int]bool)
	for i := 0; i < 500; i++ {
		n := r.Intn(3)
		assert.GreaterOrEqual(t, n, 0)
		assert.Less(t, n, 3)
		seen[n] = true
	}
	assert.Len(t, seen, 3, "all values in range should be drawn eventually")
}

func TestIntnNonPositive(t *testing.T) {
	r := New()
	assert.Equal(t, 0, r.Intn(0))
	assert.Equal(t, 0, r.Intn(-5))
}
