package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
}

func TestSum(t *testing.T) {
	assert.Equal(t, 0.0, Sum(nil))
	assert.Equal(t, 6.0, Sum([]float64{1, 2, 3}))
}

func TestMax(t *testing.T) {
	assert.Equal(t, 0.0, Max(nil))
	assert.Equal(t, 4.4, Max([]float64{1.2, 4.4, 3.0}))
	assert.Equal(t, -1.0, Max([]float64{-5, -1, -3}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 10))
	assert.Equal(t, 0.0, Clamp(-3, 0, 10))
	assert.Equal(t, 10.0, Clamp(15, 0, 10))
}

func TestClamp100(t *testing.T) {
	assert.Equal(t, 0.0, Clamp100(-12))
	assert.Equal(t, 42.5, Clamp100(42.5))
	assert.Equal(t, 100.0, Clamp100(150))
}
