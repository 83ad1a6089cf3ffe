package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/logging"
)

// ErrNoMatch is returned by Schedule when the user is not matched or has no
// match to schedule with.
var ErrNoMatch = errors.New("no available match to schedule with")

type CalendarAPI interface {
	ListEvents(ctx context.Context) ([]models.CalendarEvent, error)
	CreateEvent(ctx context.Context, in api.EventRequest) (*models.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id string, in api.EventRequest) (*models.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
	ConfirmEvent(ctx context.Context, id string) (*models.CalendarEvent, error)
}

// CalendarService manages follow-up meetings with matches.
type CalendarService interface {
	// List returns the user's events, each with MatchCount filled in.
	List(ctx context.Context) ([]models.CalendarEvent, error)
	// Schedule books a meeting at when with the most recent match.
	Schedule(ctx context.Context, when time.Time) (*models.CalendarEvent, error)
	Update(ctx context.Context, ev models.CalendarEvent) (*models.CalendarEvent, error)
	Cancel(ctx context.Context, id string) error
	Confirm(ctx context.Context, id string) (*models.CalendarEvent, error)
}

type calendarService struct {
	api   CalendarAPI
	queue QueueService
	sess  Session
	log   logging.Logger
}

func NewCalendarService(a CalendarAPI, queue QueueService, sess Session, log logging.Logger) CalendarService {
	if log == nil {
		log = logging.Discard()
	}
	return &calendarService{api: a, queue: queue, sess: sess, log: log.With("component", "calendar")}
}

func (s *calendarService) List(ctx context.Context) ([]models.CalendarEvent, error) {
	events, err := s.api.ListEvents(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	user := s.sess.State().User
	for i := range events {
		events[i].MatchCount = matchCount(user, events[i].ParticipantID)
	}
	return events, nil
}

func (s *calendarService) Schedule(ctx context.Context, when time.Time) (*models.CalendarEvent, error) {
	if _, err := s.queue.Refresh(ctx); err != nil {
		return nil, err
	}

	st := s.sess.State()
	latest := st.User.LatestMatch()
	if st.QueueStatus != models.QueueMatched || latest == "" {
		s.log.Info(ctx, "no available match or not in matched state", "state", st.QueueStatus)
		return nil, ErrNoMatch
	}

	ev, err := s.api.CreateEvent(ctx, api.EventRequest{ScheduledTime: when, ParticipantID: latest})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	// The new meeting adds one to the count the server has not reported yet.
	ev.MatchCount = matchCount(st.User, latest) + 1
	s.log.Info(ctx, "event scheduled", "event_id", ev.ID, "participant_id", latest)
	return ev, nil
}

func (s *calendarService) Update(ctx context.Context, ev models.CalendarEvent) (*models.CalendarEvent, error) {
	out, err := s.api.UpdateEvent(ctx, ev.ID, api.EventRequest{
		ScheduledTime: ev.ScheduledTime,
		ParticipantID: ev.ParticipantID,
	})
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	out.MatchCount = matchCount(s.sess.State().User, out.ParticipantID)
	return out, nil
}

func (s *calendarService) Cancel(ctx context.Context, id string) error {
	if err := s.api.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}
	return nil
}

func (s *calendarService) Confirm(ctx context.Context, id string) (*models.CalendarEvent, error) {
	out, err := s.api.ConfirmEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("confirm event: %w", err)
	}
	out.MatchCount = matchCount(s.sess.State().User, out.ParticipantID)
	return out, nil
}

func matchCount(u *models.User, participantID string) int {
	if u == nil {
		return 0
	}
	return u.MatchCount[participantID]
}
