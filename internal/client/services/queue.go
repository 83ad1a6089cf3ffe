package services

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/client/session"
	"github.com/dmitrijs2005/relate15/internal/logging"
)

// ErrAlreadyQueued is returned by Book while the user is waiting or matched.
var ErrAlreadyQueued = errors.New("already in queue or matched")

// QueueAPI is the queue part of the REST client.
type QueueAPI interface {
	BookCall(ctx context.Context) (*models.QueueUpdate, error)
	QueueStatus(ctx context.Context) (*models.QueueUpdate, error)
	MatchHistory(ctx context.Context) ([]models.User, error)
	MatchCounts(ctx context.Context) (map[string]int, error)
	CurrentMatch(ctx context.Context) (*models.User, error)
}

// MatchStat is one row of the match statistics view: a past match and how
// often it appears across the match history.
type MatchStat struct {
	User  models.User
	Count int
}

// QueueService drives the matchmaking queue.
//
// Contract:
//   - Book: enter the queue; the resulting state (and matched user) is
//     written to the session.
//   - Refresh: re-read the queue state into the session.
//   - History, Counts: read-only match views.
//   - CurrentMatch: fetch the ongoing match and store it as the matched user.
//   - Statistics: aggregate match frequency over the history.
//
// Transient failures are recorded as the session error. A 401 is left to the
// REST client, which already logged the session out.
type QueueService interface {
	Book(ctx context.Context) (*models.QueueUpdate, error)
	Refresh(ctx context.Context) (*models.QueueUpdate, error)
	History(ctx context.Context) ([]models.User, error)
	Counts(ctx context.Context) (map[string]int, error)
	CurrentMatch(ctx context.Context) (*models.User, error)
	Statistics(ctx context.Context) ([]MatchStat, error)
}

type queueService struct {
	api  QueueAPI
	sess Session
	log  logging.Logger
}

func NewQueueService(a QueueAPI, sess Session, log logging.Logger) QueueService {
	if log == nil {
		log = logging.Discard()
	}
	return &queueService{api: a, sess: sess, log: log.With("component", "queue")}
}

func (s *queueService) Book(ctx context.Context) (*models.QueueUpdate, error) {
	if q := s.sess.State().QueueStatus; q == models.QueueWaiting || q == models.QueueMatched {
		return nil, ErrAlreadyQueued
	}

	s.sess.Dispatch(session.Loading(true))
	defer s.sess.Dispatch(session.Loading(false))

	u, err := s.api.BookCall(ctx)
	if err != nil {
		s.fail(ctx, err, "Failed to book call")
		return nil, err
	}

	if u.State == models.QueueMatched && u.MatchedWith == nil {
		// The book reply does not always carry the partner; ask for it.
		m, err := s.api.CurrentMatch(ctx)
		if err != nil {
			s.log.Warn(ctx, "matched without partner and current match lookup failed", "error", err)
		} else {
			u.MatchedWith = m
		}
	}

	s.apply(*u)
	s.log.Info(ctx, "call booked", "state", u.State)
	return u, nil
}

func (s *queueService) Refresh(ctx context.Context) (*models.QueueUpdate, error) {
	u, err := s.api.QueueStatus(ctx)
	if err != nil {
		s.fail(ctx, err, "Failed to fetch queue status")
		return nil, err
	}
	s.apply(*u)
	return u, nil
}

func (s *queueService) History(ctx context.Context) ([]models.User, error) {
	h, err := s.api.MatchHistory(ctx)
	if err != nil {
		s.fail(ctx, err, "Failed to load data")
		return nil, err
	}
	return h, nil
}

func (s *queueService) Counts(ctx context.Context) (map[string]int, error) {
	c, err := s.api.MatchCounts(ctx)
	if err != nil {
		s.fail(ctx, err, "Failed to load data")
		return nil, err
	}
	return c, nil
}

func (s *queueService) CurrentMatch(ctx context.Context) (*models.User, error) {
	m, err := s.api.CurrentMatch(ctx)
	if err != nil {
		s.fail(ctx, err, "Failed to load current match")
		return nil, err
	}
	s.sess.Dispatch(session.MatchedUser(m))
	return m, nil
}

// Statistics counts, for every id listed in the matches of the history
// users, how many times it occurs. Ids that are not themselves in the
// history are skipped. Rows are ordered by count, then by name.
func (s *queueService) Statistics(ctx context.Context) ([]MatchStat, error) {
	history, err := s.History(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	for _, u := range history {
		for _, id := range u.Matches {
			counts[id]++
		}
	}

	var out []MatchStat
	seen := make(map[string]bool)
	for _, u := range history {
		n, ok := counts[u.ID]
		if !ok || seen[u.ID] {
			continue
		}
		seen[u.ID] = true
		out = append(out, MatchStat{User: u, Count: n})
	}
	slices.SortStableFunc(out, func(a, b MatchStat) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.User.Name, b.User.Name)
	})
	return out, nil
}

// apply writes a queue update to the session, keeping the matched user in
// step with the state.
func (s *queueService) apply(u models.QueueUpdate) {
	s.sess.Dispatch(session.Queue(u.State))
	switch {
	case u.State == models.QueueMatched && u.MatchedWith != nil:
		s.sess.Dispatch(session.MatchedUser(u.MatchedWith))
	case u.State != models.QueueMatched:
		s.sess.Dispatch(session.MatchedUser(nil))
	}
}

func (s *queueService) fail(ctx context.Context, err error, fallback string) {
	if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, context.Canceled) {
		return
	}
	s.log.Warn(ctx, fallback, "error", err)
	s.sess.Dispatch(session.ErrorMessage(api.Message(err, fallback)))
}
