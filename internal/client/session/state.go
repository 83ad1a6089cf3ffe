package session

import "github.com/dmitrijs2005/relate15/internal/client/models"

// State is a snapshot of the session.
type State struct {
	User            *models.User
	IsAuthenticated bool
	QueueStatus     models.QueueState
	MatchedUser     *models.User
	IsLoading       bool
	IsVerifying     bool
	// Error is the last user-visible error, "" when there is none.
	Error string
}

// Initial is the state of a freshly created session: verification is about
// to start.
func Initial() State {
	return State{
		QueueStatus: models.QueueIdle,
		IsVerifying: true,
	}
}

// loggedOut is what LogoutReset produces.
func loggedOut() State {
	s := Initial()
	s.IsVerifying = false
	s.IsLoading = false
	return s
}

// Clone copies the users so the snapshot can be handed out safely.
func (s State) Clone() State {
	s.User = s.User.Clone()
	s.MatchedUser = s.MatchedUser.Clone()
	return s
}

// UserID is the id of the logged-in user, or "".
func (s State) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

type Phase string

const (
	PhaseVerifying       Phase = "verifying"
	PhaseAuthenticated   Phase = "authenticated"
	PhaseUnauthenticated Phase = "unauthenticated"
)

// Phase collapses the flags into the session lifecycle state.
func (s State) Phase() Phase {
	switch {
	case s.IsVerifying:
		return PhaseVerifying
	case s.IsAuthenticated:
		return PhaseAuthenticated
	default:
		return PhaseUnauthenticated
	}
}
