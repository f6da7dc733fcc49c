package websocket

import (
	"namescan/internal/search"
)

// ProgressBroadcaster adapts the hub to the search observer interface so
// scan runs stream per-workbook progress to connected clients.
type ProgressBroadcaster struct {
	hub *Hub
}

// NewProgressBroadcaster wraps a hub as a search observer.
func NewProgressBroadcaster(hub *Hub) *ProgressBroadcaster {
	return &ProgressBroadcaster{hub: hub}
}

// OnWorkbook implements search.Observer.
func (b *ProgressBroadcaster) OnWorkbook(ev search.ProgressEvent) {
	payload := ProgressPayload{
		File:    ev.File,
		Index:   ev.Index,
		Total:   ev.Total,
		Matches: ev.Matches,
	}
	if ev.Err != nil {
		payload.Error = ev.Err.Error()
	}
	b.hub.BroadcastProgress(payload)
}
