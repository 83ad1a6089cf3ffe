// Package models defines the client-side copies of server-owned Relate15
// records: users, chat messages, queue updates, calendar events and
// notifications. The server is authoritative; the client only reads them.
package models

import "encoding/json"

// User is a Relate15 account as returned by the backend.
type User struct {
	ID                string         `json:"_id"`
	Email             string         `json:"email"`
	Name              string         `json:"name"`
	Role              string         `json:"role"`
	ProfilePictureURL string         `json:"profilePictureUrl,omitempty"`
	Bio               string         `json:"bio"`
	Interests         []string       `json:"interests"`
	Matches           []string       `json:"matches"`
	MatchCount        map[string]int `json:"matchCount"`
}

// UnmarshalJSON accepts both the database-style "_id" and a plain "id".
func (u *User) UnmarshalJSON(b []byte) error {
	type plain User
	var aux struct {
		plain
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.AltID
	}
	return nil
}

// Clone returns a deep copy so callers cannot alias store internals.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.Interests != nil {
		c.Interests = append([]string(nil), u.Interests...)
	}
	if u.Matches != nil {
		c.Matches = append([]string(nil), u.Matches...)
	}
	if u.MatchCount != nil {
		c.MatchCount = make(map[string]int, len(u.MatchCount))
		for k, v := range u.MatchCount {
			c.MatchCount[k] = v
		}
	}
	return &c
}

// LatestMatch returns the most recent match id, or "" when there is none.
func (u *User) LatestMatch() string {
	if u == nil || len(u.Matches) == 0 {
		return ""
	}
	return u.Matches[len(u.Matches)-1]
}

// DisplayRole falls back to "Team Member" when the role is unset.
func (u *User) DisplayRole() string {
	if u == nil || u.Role == "" {
		return "Team Member"
	}
	return u.Role
}
