package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
)

// tone is a sine oscillator with a linear attack and release
type tone struct {
	freq     float64
	phase    float64
	rate     beep.SampleRate
	position int
	total    int
	attack   int
	release  int
}

// newTone creates a cue tone of freq Hz lasting d
func newTone(freq float64, d time.Duration, rate beep.SampleRate) *tone {
	total := rate.N(d)
	return &tone{
		freq:    freq,
		rate:    rate,
		total:   total,
		attack:  min(rate.N(5*time.Millisecond), total/4),
		release: min(rate.N(30*time.Millisecond), total/2),
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if t.position >= t.total {
			return i, i > 0
		}

		v := math.Sin(2*math.Pi*t.phase) * t.envelope()
		samples[i][0] = v
		samples[i][1] = v

		t.phase += t.freq / float64(t.rate)
		t.phase -= math.Floor(t.phase)
		t.position++
	}
	return len(samples), true
}

func (t *tone) envelope() float64 {
	switch {
	case t.attack > 0 && t.position < t.attack:
		return float64(t.position) / float64(t.attack)
	case t.release > 0 && t.position >= t.total-t.release:
		return float64(t.total-t.position) / float64(t.release)
	default:
		return 1
	}
}

func (t *tone) Err() error { return nil }
