package models

import "time"

type EventStatus string

const (
	EventPending   EventStatus = "pending"
	EventConfirmed EventStatus = "confirmed"
	EventCanceled  EventStatus = "canceled"
)

// CalendarEvent is a scheduled follow-up meeting with a match.
type CalendarEvent struct {
	ID            string      `json:"_id"`
	ParticipantID string      `json:"participantId"`
	ScheduledTime time.Time   `json:"scheduledTime"`
	Status        EventStatus `json:"status,omitempty"`

	// MatchCount is filled on the client from the user's matchCount map.
	MatchCount int `json:"-"`
}

// MeetingLength is how long a follow-up is assumed to last.
const MeetingLength = time.Hour

// End returns the assumed end of the meeting.
func (e CalendarEvent) End() time.Time {
	return e.ScheduledTime.Add(MeetingLength)
}
