package session

import (
	"fmt"

	"github.com/younwookim/towerdefense/internal/domain/entity"
)

// IntentKind names a player command
type IntentKind string

const (
	IntentPlace      IntentKind = "place"
	IntentSelectType IntentKind = "select_type"
	IntentSelect     IntentKind = "select"
	IntentUpgrade    IntentKind = "upgrade"
	IntentSell       IntentKind = "sell"
	IntentStartWave  IntentKind = "start_wave"
	IntentPause      IntentKind = "pause"
	IntentSpeed      IntentKind = "speed"
	IntentRestart    IntentKind = "restart"
)

// Intent is one discrete player command, as produced by input translation
// and stored in replays
type Intent struct {
	Kind  IntentKind `json:"k" msgpack:"k"`
	Tower string     `json:"t,omitempty" msgpack:"t,omitempty"`
	X     float64    `json:"x,omitempty" msgpack:"x,omitempty"`
	Y     float64    `json:"y,omitempty" msgpack:"y,omitempty"`
	Speed int        `json:"s,omitempty" msgpack:"s,omitempty"` // 0 cycles to the next speed
}

// Apply executes an intent. The error reports a rejected command; the
// session state is unchanged in that case.
func (s *Session) Apply(in Intent) error {
	switch in.Kind {
	case IntentPlace:
		kind, err := entity.ParseTowerKind(in.Tower)
		if err != nil {
			return err
		}
		_, err = s.PlaceTower(kind, in.X, in.Y)
		return err
	case IntentSelectType:
		kind, err := entity.ParseTowerKind(in.Tower)
		if err != nil {
			return err
		}
		return s.SelectTowerType(kind)
	case IntentSelect:
		s.SelectTower(in.X, in.Y)
		return nil
	case IntentUpgrade:
		return s.UpgradeSelectedTower()
	case IntentSell:
		_, err := s.SellSelectedTower()
		return err
	case IntentStartWave:
		return s.StartNextWave()
	case IntentPause:
		return s.TogglePause()
	case IntentSpeed:
		if in.Speed == 0 {
			s.CycleSpeed()
			return nil
		}
		return s.SetSpeed(in.Speed)
	case IntentRestart:
		s.Restart()
		return nil
	default:
		return fmt.Errorf("unknown intent %q", in.Kind)
	}
}
