package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/nerrad567/gray-logic-keypad/internal/access"
)

// Kind classifies an event.
type Kind string

const (
	KindAccess   Kind = "access"
	KindDoorbell Kind = "doorbell"
)

// Access outcomes as carried in Event.Outcome.
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"
)

// Totals are the running counters at the moment an event was raised.
type Totals struct {
	Accepted uint64 `json:"accepted_total"`
	Rejected uint64 `json:"rejected_total"`
	Doorbell uint64 `json:"doorbell_total"`
}

// Event is one access verdict or doorbell ring. It never carries the
// digits that were entered.
type Event struct {
	ID     string `json:"id"`
	SiteID string `json:"site_id"`
	Kind   Kind   `json:"kind"`

	// Outcome is "accepted" or "rejected" for access events.
	Outcome string `json:"outcome,omitempty"`
	Owner   string `json:"owner,omitempty"`
	// OwnerIndex is the registry index of Owner, -1 when there is none.
	OwnerIndex int `json:"owner_index"`

	Totals
	Time time.Time `json:"timestamp"`
}

// AccessEvent builds the event for a verification result. owner is the
// matched credential's owner and is ignored for rejections.
func AccessEvent(outcome access.Outcome, owner string, totals Totals) Event {
	e := Event{
		Kind:       KindAccess,
		Outcome:    OutcomeRejected,
		OwnerIndex: -1,
		Totals:     totals,
	}
	if outcome.IsAccepted() {
		e.Outcome = OutcomeAccepted
		e.Owner = owner
		e.OwnerIndex = outcome.Index()
	}
	return e
}

// DoorbellEvent builds the event for a doorbell ring.
func DoorbellEvent(totals Totals) Event {
	return Event{Kind: KindDoorbell, OwnerIndex: -1, Totals: totals}
}

// IsAccepted reports whether e is a successful access event.
func (e Event) IsAccepted() bool {
	return e.Kind == KindAccess && e.Outcome == OutcomeAccepted
}

func (e *Event) stamp(siteID string, now time.Time) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.SiteID == "" {
		e.SiteID = siteID
	}
	if e.Time.IsZero() {
		e.Time = now
	}
}
