package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPositionSize_PercentOfBalance(t *testing.T) {
	assert.Equal(t, 50.0, PositionSize(1000, 5, 10))
}

func TestPositionSize_FlooredAtMinimum(t *testing.T) {
	assert.Equal(t, 10.0, PositionSize(100, 5, 10))
	assert.Equal(t, 10.0, PositionSize(0, 5, 10))
}
