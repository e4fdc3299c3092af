package ws

import (
	"github.com/google/uuid"

	"shipcal/internal/log"
	"shipcal/internal/simulator"
)

// Bridge implements simulator.Callback and broadcasts the progress of one
// run to the WebSocket hub.
type Bridge struct {
	hub   *Hub
	runID uuid.UUID
}

func NewBridge(hub *Hub, runID uuid.UUID) *Bridge {
	return &Bridge{hub: hub, runID: runID}
}

func (b *Bridge) OnProgress(p simulator.Progress) {
	msg, err := NewEnvelope(TypeRunProgress, RunProgressPayload{RunID: b.runID, Progress: p})
	if err != nil {
		log.Errorf("marshaling run progress: %v", err)
		return
	}
	b.hub.Broadcast(msg)
}
