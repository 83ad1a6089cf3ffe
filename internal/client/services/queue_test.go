package services

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/client/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBook(t *testing.T) {
	ann := &models.User{ID: "ann", Name: "Ann"}

	tests := []struct {
		name        string
		api         *fakeQueueAPI
		wantState   models.QueueState
		wantMatched string
		wantLookups int
	}{
		{
			name:      "waiting",
			api:       &fakeQueueAPI{book: &models.QueueUpdate{State: models.QueueWaiting}},
			wantState: models.QueueWaiting,
		},
		{
			name:        "matched with user",
			api:         &fakeQueueAPI{book: &models.QueueUpdate{State: models.QueueMatched, MatchedWith: ann}},
			wantState:   models.QueueMatched,
			wantMatched: "ann",
		},
		{
			name:        "matched without user falls back to current match",
			api:         &fakeQueueAPI{book: &models.QueueUpdate{State: models.QueueMatched}, current: ann},
			wantState:   models.QueueMatched,
			wantMatched: "ann",
			wantLookups: 1,
		},
		{
			name:        "matched without user and lookup fails",
			api:         &fakeQueueAPI{book: &models.QueueUpdate{State: models.QueueMatched}, currentErr: errors.New("boom")},
			wantState:   models.QueueMatched,
			wantLookups: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newSession(t, &models.User{ID: "me"})
			svc := NewQueueService(tt.api, sess, nil)

			u, err := svc.Book(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantState, u.State)

			st := sess.State()
			assert.Equal(t, tt.wantState, st.QueueStatus)
			assert.False(t, st.IsLoading)
			if tt.wantMatched == "" {
				assert.Nil(t, st.MatchedUser)
			} else {
				require.NotNil(t, st.MatchedUser)
				assert.Equal(t, tt.wantMatched, st.MatchedUser.ID)
			}
			assert.Equal(t, tt.wantLookups, tt.api.currentCalls)
		})
	}
}

func TestBook_RefusedWhileQueued(t *testing.T) {
	fake := &fakeQueueAPI{book: &models.QueueUpdate{State: models.QueueWaiting}}
	sess := newSession(t, &models.User{ID: "me"})
	sess.Dispatch(session.Queue(models.QueueWaiting))

	_, err := NewQueueService(fake, sess, nil).Book(context.Background())
	require.ErrorIs(t, err, ErrAlreadyQueued)
	assert.Zero(t, fake.bookCalls)
}

func TestBook_FailureSetsSessionError(t *testing.T) {
	sess := newSession(t, &models.User{ID: "me"})
	fake := &fakeQueueAPI{bookErr: &api.StatusError{Code: 500, Message: "Queue is closed"}}

	_, err := NewQueueService(fake, sess, nil).Book(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Queue is closed", sess.State().Error)
	assert.Equal(t, models.QueueIdle, sess.State().QueueStatus)
}

func TestBook_UnauthorizedLeavesErrorUnset(t *testing.T) {
	sess := newSession(t, &models.User{ID: "me"})
	fake := &fakeQueueAPI{bookErr: api.ErrUnauthorized}

	_, err := NewQueueService(fake, sess, nil).Book(context.Background())
	require.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Empty(t, sess.State().Error)
}

func TestRefresh_ClearsMatchedUserWhenNotMatched(t *testing.T) {
	sess := newSession(t, &models.User{ID: "me"})
	sess.Dispatch(session.Queue(models.QueueMatched))
	sess.Dispatch(session.MatchedUser(&models.User{ID: "ann"}))

	fake := &fakeQueueAPI{status: &models.QueueUpdate{State: models.QueueIdle}}
	u, err := NewQueueService(fake, sess, nil).Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.QueueIdle, u.State)
	assert.Nil(t, sess.State().MatchedUser)
}

func TestCurrentMatch_StoresMatchedUser(t *testing.T) {
	sess := newSession(t, &models.User{ID: "me"})
	fake := &fakeQueueAPI{current: &models.User{ID: "bob", Name: "Bob"}}

	m, err := NewQueueService(fake, sess, nil).CurrentMatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bob", m.Name)
	assert.Equal(t, "bob", sess.State().MatchedUser.ID)
}

func TestHistoryAndCounts(t *testing.T) {
	sess := newSession(t, &models.User{ID: "me"})
	fake := &fakeQueueAPI{
		history: []models.User{{ID: "ann"}, {ID: "bob"}},
		counts:  map[string]int{"ann": 2, "bob": 1},
	}
	svc := NewQueueService(fake, sess, nil)

	h, err := svc.History(context.Background())
	require.NoError(t, err)
	assert.Len(t, h, 2)

	c, err := svc.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"ann": 2, "bob": 1}, c)
}

func TestHistory_FailureSetsSessionError(t *testing.T) {
	sess := newSession(t, &models.User{ID: "me"})
	fake := &fakeQueueAPI{historyErr: errors.New("down")}

	_, err := NewQueueService(fake, sess, nil).History(context.Background())
	require.Error(t, err)
	assert.Equal(t, "Failed to load data", sess.State().Error)
}

func TestStatistics(t *testing.T) {
	sess := newSession(t, &models.User{ID: "me"})
	fake := &fakeQueueAPI{history: []models.User{
		{ID: "ann", Name: "Ann", Matches: []string{"me", "bob"}},
		{ID: "bob", Name: "Bob", Matches: []string{"me", "ann", "cid"}},
		{ID: "cid", Name: "Cid", Matches: []string{"bob", "ann"}},
		{ID: "ann", Name: "Ann", Matches: []string{"me"}},
	}}

	stats, err := NewQueueService(fake, sess, nil).Statistics(context.Background())
	require.NoError(t, err)

	got := make([]string, 0, len(stats))
	for _, s := range stats {
		got = append(got, s.User.ID)
	}
	// ann: 2, bob: 2, cid: 1; "me" is not a history user.
	assert.Equal(t, []string{"ann", "bob", "cid"}, got)
	assert.Equal(t, 2, stats[0].Count)
	assert.Equal(t, 1, stats[2].Count)
}
