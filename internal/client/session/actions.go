package session

import "github.com/dmitrijs2005/relate15/internal/client/models"

type ActionType string

const (
	SetUser        ActionType = "SET_USER"
	SetAuth        ActionType = "SET_AUTH"
	SetQueueStatus ActionType = "SET_QUEUE_STATUS"
	SetMatchedUser ActionType = "SET_MATCHED_USER"
	SetLoading     ActionType = "SET_LOADING"
	SetError       ActionType = "SET_ERROR"
	SetVerifying   ActionType = "SET_VERIFYING"
	LogoutReset    ActionType = "LOGOUT"
)

// Action is one named transition. Only the field matching Type is read.
type Action struct {
	Type  ActionType
	User  *models.User
	Flag  bool
	Queue models.QueueState
	Text  string
}

func User(u *models.User) Action        { return Action{Type: SetUser, User: u} }
func Auth(v bool) Action                { return Action{Type: SetAuth, Flag: v} }
func Queue(q models.QueueState) Action  { return Action{Type: SetQueueStatus, Queue: q} }
func MatchedUser(u *models.User) Action { return Action{Type: SetMatchedUser, User: u} }
func Loading(v bool) Action             { return Action{Type: SetLoading, Flag: v} }
func ErrorMessage(msg string) Action    { return Action{Type: SetError, Text: msg} }
func Verifying(v bool) Action           { return Action{Type: SetVerifying, Flag: v} }
func Logout() Action                    { return Action{Type: LogoutReset} }

// Reduce applies a to s. Each action writes exactly one field, except
// LogoutReset which restores the logged-out defaults. ok is false for an
// unknown action type, in which case s is returned unchanged.
func Reduce(s State, a Action) (next State, ok bool) {
	switch a.Type {
	case SetUser:
		s.User = a.User.Clone()
	case SetAuth:
		s.IsAuthenticated = a.Flag
	case SetQueueStatus:
		s.QueueStatus = a.Queue
	case SetMatchedUser:
		s.MatchedUser = a.User.Clone()
	case SetLoading:
		s.IsLoading = a.Flag
	case SetError:
		s.Error = a.Text
	case SetVerifying:
		s.IsVerifying = a.Flag
	case LogoutReset:
		return loggedOut(), true
	default:
		return s, false
	}
	return s, true
}
