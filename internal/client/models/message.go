package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// UserRef is a message participant. The backend sends either a bare id
// string or a populated user object; both decode into a UserRef.
type UserRef struct {
	ID   string
	User *User
}

func (r UserRef) MarshalJSON() ([]byte, error) {
	if r.User != nil {
		return json.Marshal(r.User)
	}
	return json.Marshal(r.ID)
}

func (r *UserRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*r = UserRef{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var id string
		if err := json.Unmarshal(b, &id); err != nil {
			return err
		}
		*r = UserRef{ID: id}
		return nil
	}
	var u User
	if err := json.Unmarshal(b, &u); err != nil {
		return err
	}
	*r = UserRef{ID: u.ID, User: &u}
	return nil
}

// ChatMessage is one message of a conversation.
type ChatMessage struct {
	ID              string    `json:"_id"`
	Sender          UserRef   `json:"sender"`
	Receiver        UserRef   `json:"receiver"`
	Content         string    `json:"content"`
	CreatedAt       time.Time `json:"createdAt"`
	Read            bool      `json:"read"`
	ClientMessageID string    `json:"clientMessageId,omitempty"`
}

// Counterpart returns the id of the participant that is not selfID. This
// is the key a conversation is filed under, whoever authored the message.
func (m ChatMessage) Counterpart(selfID string) string {
	if m.Sender.ID == selfID {
		return m.Receiver.ID
	}
	return m.Sender.ID
}
