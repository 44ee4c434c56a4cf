package service

import "github.com/civiform/civiform-go/internal/model"

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	// BroadcastDraftEvent pushes a draft-change event to every admin
	// console subscribed to draft updates.
	BroadcastDraftEvent(event model.DraftEvent)
}

// NopBroadcaster drops every event. Used by the seed tool and tests.
type NopBroadcaster struct{}

func (NopBroadcaster) BroadcastDraftEvent(model.DraftEvent) {}
