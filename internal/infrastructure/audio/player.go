// Package audio plays short synthesized cues for simulation events.
package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
	"github.com/sirupsen/logrus"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
)

const defaultSampleRate = 44100

type cue struct {
	freq     float64
	duration time.Duration
	volume   float64 // log2 gain
}

// Player mixes one voice per cue event, dropping cues beyond MaxVoices
type Player struct {
	mu        sync.Mutex
	mixer     *beep.Mixer
	rate      beep.SampleRate
	volume    float64
	maxVoices int
	cues      map[event.Type]cue
	log       logrus.FieldLogger

	bus       *event.Bus
	listeners map[event.Type]event.Listener

	played  int
	dropped int
}

// NewPlayer builds a player from the audio config. It does not open a device.
func NewPlayer(cfg config.AudioConfig, log logrus.FieldLogger) *Player {
	if log == nil {
		log = logrus.StandardLogger()
	}
	rate := cfg.SampleRate
	if rate <= 0 {
		rate = defaultSampleRate
	}
	p := &Player{
		mixer:     &beep.Mixer{},
		rate:      beep.SampleRate(rate),
		volume:    cfg.Volume,
		maxVoices: cfg.MaxVoices,
		cues:      make(map[event.Type]cue, len(cfg.Cues)),
		log:       log,
	}
	for name, c := range cfg.Cues {
		if c.Frequency <= 0 || c.DurationMs <= 0 {
			log.WithField("cue", name).Warn("ignoring cue without frequency or duration")
			continue
		}
		p.cues[event.Type(name)] = cue{
			freq:     c.Frequency,
			duration: time.Duration(c.DurationMs) * time.Millisecond,
			volume:   c.Volume,
		}
	}
	return p
}

// Start opens the speaker and begins streaming the mixer
func (p *Player) Start() error {
	if err := speaker.Init(p.rate, p.rate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p)
	return nil
}

// Attach subscribes the player to every event type it has a cue for
func (p *Player) Attach(bus *event.Bus) {
	p.Detach()
	p.bus = bus
	p.listeners = make(map[event.Type]event.Listener, len(p.cues))
	for t := range p.cues {
		p.listeners[t] = bus.SubscribeFunc(t, p.onEvent)
	}
}

// Detach unsubscribes from the bus passed to Attach
func (p *Player) Detach() {
	if p.bus == nil {
		return
	}
	for t, l := range p.listeners {
		p.bus.Unsubscribe(t, l)
	}
	p.bus = nil
	p.listeners = nil
}

func (p *Player) onEvent(e event.Event) {
	p.Play(e.Type)
}

// Play queues the cue for t. It never blocks on the audio device.
func (p *Player) Play(t event.Type) bool {
	c, ok := p.cues[t]
	if !ok {
		return false
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.maxVoices > 0 && p.mixer.Len() >= p.maxVoices {
		p.dropped++
		return false
	}
	p.mixer.Add(&effects.Volume{
		Streamer: newTone(c.freq, c.duration, p.rate),
		Base:     2,
		Volume:   c.volume + p.volume,
	})
	p.played++
	return true
}

// Stream implements beep.Streamer over the voice mixer
func (p *Player) Stream(samples [][2]float64) (n int, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Stream(samples)
}

// Err implements beep.Streamer
func (p *Player) Err() error { return nil }

// Voices returns the number of cues still sounding
func (p *Player) Voices() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mixer.Len()
}

// Stats returns how many cues were played and dropped
func (p *Player) Stats() (played, dropped int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.played, p.dropped
}

// Close detaches from the bus and silences every voice
func (p *Player) Close() {
	p.Detach()
	p.mu.Lock()
	p.mixer.Clear()
	p.mu.Unlock()
}
