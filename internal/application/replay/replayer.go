package replay

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/younwookim/towerdefense/internal/application/session"
)

var (
	// ErrSeedMismatch means the session was not built with the replay's seed
	ErrSeedMismatch = errors.New("session seed does not match replay")
	// ErrStalled means the session stopped advancing before the recorded intents ran out
	ErrStalled = errors.New("replay stalled")
)

// Replayer feeds recorded intents back into a session
type Replayer struct {
	data ReplayData
	next int
}

// Result summarizes a replay run
type Result struct {
	Applied  int
	Rejected int
	Ticks    uint64
}

// NewReplayer creates a new replayer from replay data
func NewReplayer(data ReplayData) *Replayer {
	return &Replayer{data: data}
}

// LoadReplay loads replay data from a file
func LoadReplay(filename string) (*ReplayData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var data ReplayData
	decoder := json.NewDecoder(file)
	if err := decoder.Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode replay: %w", err)
	}
	if data.DT <= 0 {
		return nil, fmt.Errorf("invalid replay step %v", data.DT)
	}

	return &data, nil
}

// Next returns the intents due at or before tick and advances past them
func (r *Replayer) Next(tick uint64) []session.Intent {
	var due []session.Intent
	for r.next < len(r.data.Intents) && r.data.Intents[r.next].Tick <= tick {
		due = append(due, r.data.Intents[r.next].Intent)
		r.next++
	}
	return due
}

// Done reports whether every intent has been returned
func (r *Replayer) Done() bool {
	return r.next >= len(r.data.Intents)
}

// Seed returns the seed used for the replay
func (r *Replayer) Seed() int64 {
	return r.data.Seed
}

// Stage returns the stage the replay was recorded on
func (r *Replayer) Stage() string {
	return r.data.Stage
}

// Reset resets the replayer to the beginning
func (r *Replayer) Reset() {
	r.next = 0
}

// Run starts s and drives it with the recorded step, applying each intent on
// the tick it was recorded at. It stops when the game ends or when every
// intent has run and the recorded tick count is reached.
func (r *Replayer) Run(s *session.Session) (Result, error) {
	var res Result
	if s.Seed() != r.data.Seed {
		return res, fmt.Errorf("%w: %d != %d", ErrSeedMismatch, s.Seed(), r.data.Seed)
	}

	s.Start()
	for {
		for _, in := range r.Next(s.Tick()) {
			if err := s.Apply(in); err != nil {
				res.Rejected++
				continue
			}
			res.Applied++
		}

		if s.State().Finished() || (r.Done() && s.Tick() >= r.data.Ticks) {
			break
		}
		if !s.State().Running() {
			if r.Done() {
				break
			}
			return res, fmt.Errorf("%w at tick %d in state %s", ErrStalled, s.Tick(), s.State())
		}
		s.Update(r.data.DT)
	}

	res.Ticks = s.Tick()
	return res, nil
}
