package websocket

import "github.com/attendly/rollcall-backend/internal/model"

// ─── Events (Server → Client) ───────────────────────────────────────

type EventType string

const (
	EventCreated EventType = "created"
	EventUpdated EventType = "updated"
	EventDeleted EventType = "deleted"
	// EventReset tells clients to refetch the whole roster, e.g. after the
	// daily rollover flipped everyone back to absent.
	EventReset EventType = "reset"
)

// RosterEvent is broadcast to every connected client after a mutation.
type RosterEvent struct {
	Event     EventType      `json:"event"`
	Student   *model.Student `json:"student,omitempty"`
	StudentID int            `json:"student_id,omitempty"`
}
