package credentials

import (
	"context"
	"sync"
	"time"
)

// Ephemeral keeps the token in memory only.
type Ephemeral struct {
	mu      sync.RWMutex
	token   string
	savedAt time.Time
	userID  string
	now     func() time.Time
}

func NewEphemeral() *Ephemeral {
	return &Ephemeral{now: time.Now}
}

func (e *Ephemeral) Load(ctx context.Context) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.token, nil
}

func (e *Ephemeral) Save(ctx context.Context, token string) error {
	e.mu.Lock()
	e.token = token
	e.savedAt = time.Time{}
	if token != "" {
		e.savedAt = e.now().UTC().Truncate(time.Second)
	}
	e.mu.Unlock()
	return nil
}

func (e *Ephemeral) Clear(ctx context.Context) error {
	return e.Save(ctx, "")
}

func (e *Ephemeral) SaveUserID(ctx context.Context, id string) error {
	e.mu.Lock()
	e.userID = id
	e.mu.Unlock()
	return nil
}

func (e *Ephemeral) Info(ctx context.Context) (Info, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return Info{HasToken: e.token != "", SavedAt: e.savedAt, LastUserID: e.userID}, nil
}
