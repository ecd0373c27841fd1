package amqp

import (
	"encoding/json"
	"time"
)

// ReloadMessage asks running dashboards to drop their cached report.
// An empty Source clears every cached report.
type ReloadMessage struct {
	Source      string    `json:"source,omitempty"`
	RequestedBy string    `json:"requested_by,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewReloadMessage creates a reload command for one source identity, or for
// all of them when source is empty.
func NewReloadMessage(source, requestedBy string) *ReloadMessage {
	return &ReloadMessage{
		Source:      source,
		RequestedBy: requestedBy,
		Timestamp:   time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReloadMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ReloadMessageFromJSON creates a message from JSON bytes
func ReloadMessageFromJSON(data []byte) (*ReloadMessage, error) {
	var msg ReloadMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
