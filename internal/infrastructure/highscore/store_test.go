package highscore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/towerdefense/internal/application/session"
)

var (
	_ session.ScoreBoard = (*FileStore)(nil)
	_ session.ScoreBoard = (*MemoryStore)(nil)
)

func TestOpen_MissingFileIsEmpty(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "scores.json"))
	require.NoError(t, err)

	best, err := s.Best("Meadow Crossing")
	require.NoError(t, err)
	assert.Equal(t, 0, best)
}

func TestOpen_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := Open(path)
	assert.Error(t, err)
}

func TestFileStore_Submit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "scores.json")
	s, err := Open(path)
	require.NoError(t, err)
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	tests := []struct {
		name  string
		score int
		want  bool
		best  int
	}{
		{"first score is a record", 120, true, 120},
		{"lower score is ignored", 80, false, 120},
		{"equal score is ignored", 120, false, 120},
		{"higher score replaces", 300, true, 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, err := s.Submit("meadow", tt.score)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			best, _ := s.Best("meadow")
			assert.Equal(t, tt.best, best)
		})
	}

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, Entry{Score: 300, At: fixed}, reopened.Entries()["meadow"])
}

func TestFileStore_SaveFailureKeepsPrevious(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	s, err := Open(filepath.Join(dir, "scores.json"))
	require.NoError(t, err)
	// the parent of the store path is a regular file, so saving fails
	s.path = filepath.Join(blocker, "scores.json")

	ok, err := s.Submit("meadow", 50)
	assert.Error(t, err)
	assert.False(t, ok)
	best, _ := s.Best("meadow")
	assert.Equal(t, 0, best)
}

func TestMemoryStore(t *testing.T) {
	m := NewMemoryStore()

	ok, err := m.Submit("a", 10)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = m.Submit("a", 5)
	assert.False(t, ok)

	best, _ := m.Best("a")
	assert.Equal(t, 10, best)
}
