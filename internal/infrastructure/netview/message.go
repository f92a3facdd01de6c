package netview

import (
	"github.com/vmihailenco/msgpack/v5"

	"github.com/younwookim/towerdefense/internal/application/session"
)

// MessageKind tags a spectator message
type MessageKind string

const (
	KindSnapshot MessageKind = "snapshot"
	KindEvent    MessageKind = "event"
)

// Message is one binary websocket frame, msgpack encoded
type Message struct {
	Kind     MessageKind       `msgpack:"kind"`
	Tick     uint64            `msgpack:"tick"`
	Snapshot *session.Snapshot `msgpack:"snap,omitempty"`
	Event    string            `msgpack:"event,omitempty"`
	Data     any               `msgpack:"data,omitempty"`
}

// Encode serializes m
func Encode(m Message) ([]byte, error) {
	return msgpack.Marshal(&m)
}

// Decode parses a frame written by Encode
func Decode(b []byte) (Message, error) {
	var m Message
	err := msgpack.Unmarshal(b, &m)
	return m, err
}
