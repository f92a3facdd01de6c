package replay

import "github.com/younwookim/towerdefense/internal/application/session"

// Version is the replay file format version
const Version = "2.0"

// TimedIntent is a player command and the tick it was applied on
type TimedIntent struct {
	Tick   uint64         `json:"tick" msgpack:"tick"`
	Intent session.Intent `json:"in" msgpack:"in"`
}

// ReplayData contains all data needed to replay a game session
type ReplayData struct {
	Version   string        `json:"version" msgpack:"version"`
	Seed      int64         `json:"seed" msgpack:"seed"`
	Stage     string        `json:"stage" msgpack:"stage"`
	StartTime string        `json:"startTime" msgpack:"startTime"`
	DT        float64       `json:"dt" msgpack:"dt"`       // seconds per Update call
	Ticks     uint64        `json:"ticks" msgpack:"ticks"` // simulation ticks when recording stopped
	Intents   []TimedIntent `json:"intents" msgpack:"intents"`
}
