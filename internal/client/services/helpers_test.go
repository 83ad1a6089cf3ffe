package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/dmitrijs2005/relate15/internal/client/credentials"
	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/client/session"
)

// ---- fakes ----

type fakeQueueAPI struct {
	book       *models.QueueUpdate
	bookErr    error
	status     *models.QueueUpdate
	statusErr  error
	history    []models.User
	historyErr error
	counts     map[string]int
	current    *models.User
	currentErr error

	bookCalls    int
	currentCalls int
}

func (f *fakeQueueAPI) BookCall(ctx context.Context) (*models.QueueUpdate, error) {
	f.bookCalls++
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	u := *f.book
	return &u, nil
}

func (f *fakeQueueAPI) QueueStatus(ctx context.Context) (*models.QueueUpdate, error) {
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	u := *f.status
	return &u, nil
}

func (f *fakeQueueAPI) MatchHistory(ctx context.Context) ([]models.User, error) {
	return f.history, f.historyErr
}

func (f *fakeQueueAPI) MatchCounts(ctx context.Context) (map[string]int, error) {
	return f.counts, nil
}

func (f *fakeQueueAPI) CurrentMatch(ctx context.Context) (*models.User, error) {
	f.currentCalls++
	return f.current, f.currentErr
}

type fakeCalendarAPI struct {
	events  []models.CalendarEvent
	created []api.EventRequest
	updated map[string]api.EventRequest
	deleted []string
	err     error
}

func (f *fakeCalendarAPI) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	return f.events, f.err
}

func (f *fakeCalendarAPI) CreateEvent(ctx context.Context, in api.EventRequest) (*models.CalendarEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, in)
	return &models.CalendarEvent{ID: "new", ParticipantID: in.ParticipantID, ScheduledTime: in.ScheduledTime, Status: models.EventPending}, nil
}

func (f *fakeCalendarAPI) UpdateEvent(ctx context.Context, id string, in api.EventRequest) (*models.CalendarEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.updated == nil {
		f.updated = map[string]api.EventRequest{}
	}
	f.updated[id] = in
	return &models.CalendarEvent{ID: id, ParticipantID: in.ParticipantID, ScheduledTime: in.ScheduledTime}, nil
}

func (f *fakeCalendarAPI) DeleteEvent(ctx context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeCalendarAPI) ConfirmEvent(ctx context.Context, id string) (*models.CalendarEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.CalendarEvent{ID: id, ParticipantID: "ann", Status: models.EventConfirmed}, nil
}

// ---- helpers ----

func newSession(t *testing.T, user *models.User) *session.Store {
	t.Helper()
	s := session.NewStore(nil, credentials.NewEphemeral(), nil)
	if user != nil {
		s.Dispatch(session.User(user))
		s.Dispatch(session.Auth(true))
	}
	s.Dispatch(session.Verifying(false))
	return s
}
