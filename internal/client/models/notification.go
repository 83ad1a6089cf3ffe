package models

import "time"

type Notification struct {
	ID        string    `json:"_id"`
	UserID    string    `json:"userId"`
	Type      string    `json:"type"`
	Content   string    `json:"content"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}
