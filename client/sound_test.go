package client

import (
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
)

func TestClearFrequency(t *testing.T) {
	assert.InDelta(t, 440.0, clearFrequency(1), 1e-9)
	assert.InDelta(t, 660.0, clearFrequency(2), 1e-9)
	assert.InDelta(t, 1485.0, clearFrequency(4), 1e-9)
}

func TestTone(t *testing.T) {
	rate := beep.SampleRate(44100)
	streamer := beep.Take(rate.N(100*time.Millisecond), newTone(rate, 440))

	samples := make([][2]float64, 512)
	total := 0
	peak := 0.0
	for {
		n, ok := streamer.Stream(samples)
		for _, s := range samples[:n] {
			assert.Equal(t, s[0], s[1], "expected the same sample on both channels")
			peak = math.Max(peak, math.Abs(s[0]))
		}
		total += n
		if !ok {
			break
		}
	}
	assert.Equal(t, rate.N(100*time.Millisecond), total)
	assert.Greater(t, peak, 0.1)
	assert.LessOrEqual(t, peak, 0.2)
	assert.NoError(t, streamer.Err())
}

func TestToneFadesIn(t *testing.T) {
	rate := beep.SampleRate(44100)
	samples := make([][2]float64, 1)
	n, ok := newTone(rate, 440).Stream(samples)
	assert.Equal(t, 1, n)
	assert.True(t, ok)
	assert.Zero(t, samples[0][0])
}
