package models

import (
	"errors"
	"fmt"
)

// QueueState is the user's matchmaking state.
type QueueState string

const (
	QueueIdle    QueueState = "idle"
	QueueWaiting QueueState = "waiting"
	QueueMatched QueueState = "matched"
)

var ErrUnknownQueueState = errors.New("unknown queue state")

// ParseQueueState validates a wire value.
func ParseQueueState(s string) (QueueState, error) {
	switch q := QueueState(s); q {
	case QueueIdle, QueueWaiting, QueueMatched:
		return q, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownQueueState, s)
	}
}

// QueueUpdate is the payload of the book/status endpoints and of the
// queueStatus/queueUpdated channel events.
type QueueUpdate struct {
	State       QueueState `json:"state"`
	MatchedWith *User      `json:"matchedWith,omitempty"`
}

// Validate checks the state value.
func (q QueueUpdate) Validate() error {
	_, err := ParseQueueState(string(q.State))
	return err
}
