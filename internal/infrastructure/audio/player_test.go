package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/towerdefense/internal/application/event"
	"github.com/younwookim/towerdefense/internal/infrastructure/config"
)

func testAudioConfig(maxVoices int) config.AudioConfig {
	return config.AudioConfig{
		Enabled:    true,
		SampleRate: 8000,
		MaxVoices:  maxVoices,
		Cues: map[string]config.CueConfig{
			"tower_fire":  {Frequency: 880, DurationMs: 40, Volume: -2},
			"enemy_death": {Frequency: 220, DurationMs: 100},
			"broken":      {Frequency: 0, DurationMs: 40},
		},
	}
}

func newTestPlayer(maxVoices int) (*Player, *test.Hook) {
	log, hook := test.NewNullLogger()
	return NewPlayer(testAudioConfig(maxVoices), log), hook
}

func TestTone_StreamsWithinRange(t *testing.T) {
	rate := beep.SampleRate(8000)
	tn := newTone(440, 50*time.Millisecond, rate)

	buf := make([][2]float64, 1000)
	n, ok := tn.Stream(buf)
	assert.True(t, ok)
	assert.Equal(t, rate.N(50*time.Millisecond), n)
	for i := range n {
		assert.GreaterOrEqual(t, buf[i][0], -1.0)
		assert.LessOrEqual(t, buf[i][0], 1.0)
		assert.Equal(t, buf[i][0], buf[i][1])
	}
	assert.Equal(t, 0.0, buf[0][0], "attack starts silent")

	n, ok = tn.Stream(buf)
	assert.Equal(t, 0, n)
	assert.False(t, ok)
	assert.NoError(t, tn.Err())
}

func TestNewPlayer_SkipsInvalidCues(t *testing.T) {
	p, hook := newTestPlayer(4)

	assert.Len(t, p.cues, 2)
	require.Len(t, hook.Entries, 1)
	assert.Equal(t, "broken", hook.LastEntry().Data["cue"])
	assert.Equal(t, beep.SampleRate(8000), p.rate)

	p = NewPlayer(config.AudioConfig{}, nil)
	assert.Equal(t, beep.SampleRate(defaultSampleRate), p.rate)
}

func TestPlayer_PlaysCuesForEvents(t *testing.T) {
	p, _ := newTestPlayer(4)
	bus := event.NewBus()
	p.Attach(bus)

	bus.Emit(event.TowerFire, nil)
	bus.Emit(event.EnemyDeath, event.EnemyData{})
	bus.Emit(event.WaveStart, nil) // no cue

	assert.Equal(t, 2, p.Voices())
	played, dropped := p.Stats()
	assert.Equal(t, 2, played)
	assert.Equal(t, 0, dropped)
}

func TestPlayer_VoiceCap(t *testing.T) {
	p, _ := newTestPlayer(2)

	assert.True(t, p.Play(event.TowerFire))
	assert.True(t, p.Play(event.TowerFire))
	assert.False(t, p.Play(event.TowerFire))

	played, dropped := p.Stats()
	assert.Equal(t, 2, played)
	assert.Equal(t, 1, dropped)
}

func TestPlayer_VoicesDrain(t *testing.T) {
	p, _ := newTestPlayer(4)
	p.Play(event.TowerFire)  // 320 samples
	p.Play(event.EnemyDeath) // 800 samples

	buf := make([][2]float64, 400)
	p.Stream(buf)
	assert.Equal(t, 1, p.Voices())

	p.Stream(buf)
	p.Stream(buf)
	assert.Equal(t, 0, p.Voices())
	assert.True(t, p.Play(event.TowerFire), "freed voices are reusable")
}

func TestPlayer_DetachAndClose(t *testing.T) {
	p, _ := newTestPlayer(4)
	bus := event.NewBus()
	p.Attach(bus)
	assert.Equal(t, 1, bus.Listeners(event.TowerFire))

	p.Play(event.TowerFire)
	p.Close()
	assert.Equal(t, 0, bus.Listeners(event.TowerFire))
	assert.Equal(t, 0, p.Voices())

	bus.Emit(event.TowerFire, nil)
	assert.Equal(t, 0, p.Voices())
	assert.NoError(t, p.Err())
}
