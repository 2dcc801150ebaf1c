package chatqueue

import (
	"github.com/billie-coop/genomechat/internal/chat"
)

// State is the scheduling state of a ChatQueue.
type State int

const (
	// Idle: nothing active, nothing queued.
	Idle State = iota
	// Queued: requests waiting and the slot free. Activation leaves this
	// state within the same transition, so observers normally never see it.
	Queued
	// Active: one backend call in flight; more may be queued behind it.
	Active
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Queued:
		return "queued"
	case Active:
		return "active"
	default:
		return "unknown"
	}
}

// Snapshot is an immutable copy of the observable chat state.
type Snapshot struct {
	Messages []chat.Message

	State State

	// ActiveMessageID is the user message the in-flight request serves.
	// Zero when idle.
	ActiveMessageID chat.ID

	QueueLength int

	// NextPending previews the content of the head of the queue.
	NextPending string

	// Pending lists the queued requests in activation order.
	Pending []Request

	// LastError is the banner text: the description of the latest failure,
	// cleared by a success or DismissError.
	LastError string

	Stats Stats
}

// Busy reports whether a request is in flight.
func (s Snapshot) Busy() bool {
	return s.State == Active
}

// IsPending reports whether the user message is still waiting in the queue.
func (s Snapshot) IsPending(id chat.ID) bool {
	for _, r := range s.Pending {
		if r.UserMessageID == id {
			return true
		}
	}
	return false
}
