package battle

import "github.com/google/uuid"

// Event names pushed to spectators. These mirror the websocket hub's event
// vocabulary so viewers see one consistent stream.
const (
	eventBattleUpdated   = "battle_updated"
	eventPlaybackStarted = "playback_started"
	eventPlaybackEnded   = "playback_ended"
)

// Notifier publishes battle events to whoever is watching. The websocket
// hub implements it; tests use NopNotifier.
type Notifier interface {
	Broadcast(battleID uuid.UUID, eventType string, payload any)
}

type NopNotifier struct{}

func (NopNotifier) Broadcast(uuid.UUID, string, any) {}
