package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA_Calculate_InsufficientData(t *testing.T) {
	ema := NewEMA(20)
	data := generateTestData(19)

	_, err := ema.Calculate(data)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEMA_Calculate_ExactPeriodIsSMA(t *testing.T) {
	ema := NewEMA(5)
	data := generateTestData(5)

	value, err := ema.Calculate(data)
	require.NoError(t, err)

	sum := 0.0
	for _, c := range data {
		sum += c.Close
	}
	assert.InDelta(t, sum/5, value, 1e-9)
}

func TestEMA_Calculate_PeriodOneTracksClose(t *testing.T) {
	ema := NewEMA(1)
	data := seriesFromCloses(100, 105, 98, 123.45)

	value, err := ema.Calculate(data)
	require.NoError(t, err)
	assert.InDelta(t, 123.45, value, 1e-9)
}

func TestEMA_Calculate_FlatData(t *testing.T) {
	ema := NewEMA(10)
	data := generateFlatData(40)

	value, err := ema.Calculate(data)
	require.NoError(t, err)
	assert.InDelta(t, 100.0, value, 1e-9)
}

func TestEMA_Calculate_LeansTowardRecent(t *testing.T) {
	ema := NewEMA(5)
	// Old closes at 100, recent closes at 200.
	data := seriesFromCloses(100, 100, 100, 100, 100, 200, 200, 200, 200, 200)

	value, err := ema.Calculate(data)
	require.NoError(t, err)
	assert.Greater(t, value, 150.0)
	assert.Less(t, value, 200.0)
}

func TestEMA_GetRequiredPeriods(t *testing.T) {
	assert.Equal(t, 20, NewEMA(20).GetRequiredPeriods())
}
