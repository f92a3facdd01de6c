package replay

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/younwookim/towerdefense/internal/application/session"
)

// Recorder collects the intents applied to a session for deterministic replay
type Recorder struct {
	data      ReplayData
	recording bool
}

// NewRecorder creates a recorder for a session started with seed on stage.
// dt is the fixed step the host passes to Session.Update.
func NewRecorder(seed int64, stage string, dt float64) *Recorder {
	return &Recorder{
		data: ReplayData{
			Version:   Version,
			Seed:      seed,
			Stage:     stage,
			StartTime: time.Now().Format(time.RFC3339),
			DT:        dt,
			Intents:   make([]TimedIntent, 0, 64),
		},
		recording: true,
	}
}

var _ session.Recorder = (*Recorder)(nil)

// Record implements session.Recorder
func (r *Recorder) Record(tick uint64, in session.Intent) {
	if !r.recording {
		return
	}
	r.data.Intents = append(r.data.Intents, TimedIntent{Tick: tick, Intent: in})
}

// Stop stops recording, keeping the final tick
func (r *Recorder) Stop(lastTick uint64) {
	r.recording = false
	r.data.Ticks = lastTick
}

// IsRecording returns whether recording is active
func (r *Recorder) IsRecording() bool {
	return r.recording
}

// IntentCount returns the number of recorded intents
func (r *Recorder) IntentCount() int {
	return len(r.data.Intents)
}

// Data returns the recorded replay
func (r *Recorder) Data() ReplayData {
	return r.data
}

// Save writes the replay up to lastTick to a file. Recording continues, so a
// later Save overwrites the file with the longer run.
func (r *Recorder) Save(filename string, lastTick uint64) error {
	r.data.Ticks = lastTick

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(r.data); err != nil {
		return fmt.Errorf("failed to encode replay: %w", err)
	}

	return nil
}

// GenerateFilename creates a filename based on current time
func GenerateFilename() string {
	return fmt.Sprintf("replay_%s.json", time.Now().Format("20060102_150405"))
}
