package websocket

import "encoding/json"

const (
	EventBattleUpdated   = "battle_updated"
	EventPlaybackStarted = "playback_started"
	EventPlaybackEnded   = "playback_ended"
	EventCheer           = "cheer"
)

// Event is the envelope pushed to spectators. Payload is marshaled once at
// broadcast time so every client receives identical bytes.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func newEvent(eventType string, payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Type: eventType, Payload: raw})
}
