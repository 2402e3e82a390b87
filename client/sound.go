package client

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(48000)

type sounder interface {
	// lineClear plays the cue for n lines cleared by a single lock.
	lineClear(n int)
}

type noSound struct{}

func (noSound) lineClear(int) {}

// sound plays short tones through the speaker. Every cue goes through one
// mixer so overlapping clears don't reopen the device.
type sound struct {
	mixer *beep.Mixer
}

func newSound() (*sound, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}
	s := &sound{mixer: &beep.Mixer{}}
	speaker.Play(s.mixer)
	return s, nil
}

func (s *sound) lineClear(n int) {
	if n <= 0 {
		return
	}
	speaker.Lock()
	s.mixer.Add(beep.Take(sampleRate.N(time.Millisecond*120), newTone(sampleRate, clearFrequency(n))))
	speaker.Unlock()
}

// clearFrequency raises the pitch a fifth for every extra line.
func clearFrequency(n int) float64 {
	return 440 * math.Pow(1.5, float64(n-1))
}

// tone is a sine wave with a short fade in.
type tone struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newTone(sr beep.SampleRate, freq float64) *tone {
	return &tone{sr: sr, freq: freq}
}

func (g *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		envelope := math.Min(t/0.01, 1.0)
		sample := 0.2 * envelope * math.Sin(2*math.Pi*g.freq*t)
		samples[i][0] = sample
		samples[i][1] = sample
		g.pos++
	}
	return len(samples), true
}

func (g *tone) Err() error {
	return nil
}
