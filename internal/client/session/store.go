package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/dmitrijs2005/relate15/internal/client/credentials"
	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/logging"
)

// ErrSuperseded is returned when the session was reset while a call was in
// flight; its result has been dropped.
var ErrSuperseded = errors.New("session changed while the call was in flight")

// AuthAPI is the part of the REST client the store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
	Verify(ctx context.Context) (*api.VerifyResponse, error)
	Logout(ctx context.Context) error
}

// Store is the single source of truth for the session. It is safe for
// concurrent use; observers run outside the lock, in the dispatching
// goroutine.
type Store struct {
	auth  AuthAPI
	creds credentials.Store
	log   logging.Logger
	now   func() time.Time

	mu      sync.Mutex
	state   State
	epoch   uint64
	subs    map[int]func(State)
	nextSub int
}

func NewStore(auth AuthAPI, creds credentials.Store, log logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	return &Store{
		auth:  auth,
		creds: creds,
		log:   log.With("component", "session"),
		now:   time.Now,
		state: Initial(),
		subs:  make(map[int]func(State)),
	}
}

// State returns a snapshot.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Subscribe registers fn to be called with every new state. The returned
// function unregisters it.
func (s *Store) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Dispatch applies a. Unknown action types are logged and ignored.
func (s *Store) Dispatch(a Action) {
	s.mu.Lock()
	next, ok := Reduce(s.state, a)
	if !ok {
		s.mu.Unlock()
		s.log.Warn(context.Background(), "unhandled action type", "type", a.Type)
		return
	}
	if a.Type == LogoutReset {
		s.epoch++
	}
	s.state = next
	subs := make([]func(State), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	s.log.Debug(context.Background(), "action dispatched", "type", a.Type)
	for _, fn := range subs {
		fn(next.Clone())
	}
}

func (s *Store) currentEpoch() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.epoch
}

// Init runs the start-up verification and clears the loading flag.
func (s *Store) Init(ctx context.Context) error {
	err := s.VerifyAuth(ctx)
	s.Dispatch(Loading(false))
	return err
}

// VerifyAuth checks the stored credential with the backend.
//
// No credential, or a JWT credential that has already expired, logs the
// session out without a network call. Any failure of the verify call clears
// the credential and logs out. The verifying flag is cleared in every case.
func (s *Store) VerifyAuth(ctx context.Context) error {
	s.Dispatch(Verifying(true))
	defer s.Dispatch(Verifying(false))

	epoch := s.currentEpoch()

	token, err := s.creds.Load(ctx)
	if err != nil {
		s.log.Error(ctx, "failed to load credential", "error", err)
		s.Dispatch(Logout())
		s.Dispatch(ErrorMessage("Session verification failed"))
		return err
	}
	if token == "" {
		s.log.Info(ctx, "no credential found, logged out")
		s.Dispatch(Logout())
		return nil
	}
	if credentials.Expired(token, s.now()) {
		s.log.Info(ctx, "credential expired, logged out")
		s.clearCredential(ctx)
		s.Dispatch(Logout())
		return nil
	}

	if info, err := s.creds.Info(ctx); err == nil {
		s.log.Debug(ctx, "verifying stored credential",
			"last_user_id", info.LastUserID, "saved_at", info.SavedAt)
	}

	resp, err := s.auth.Verify(ctx)
	if s.currentEpoch() != epoch {
		return ErrSuperseded
	}
	if err != nil {
		s.log.Warn(ctx, "credential verification failed", "error", err)
		s.clearCredential(ctx)
		s.Dispatch(Logout())
		if errors.Is(err, api.ErrUnavailable) {
			s.Dispatch(ErrorMessage("Session verification failed"))
		}
		return err
	}

	if resp.Token != "" {
		if err := s.creds.Save(ctx, resp.Token); err != nil {
			s.log.Warn(ctx, "failed to store refreshed credential", "error", err)
		} else {
			token = resp.Token
		}
	}
	s.rememberUser(ctx, token, resp.User)
	s.Dispatch(User(resp.User))
	s.Dispatch(Auth(true))
	s.log.Info(ctx, "session verified", "user_id", resp.User.ID)
	return nil
}

// Login authenticates with email and password and, on success, stores the
// credential and the returned user.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.Dispatch(Loading(true))
	s.Dispatch(ErrorMessage(""))
	defer s.Dispatch(Loading(false))

	epoch := s.currentEpoch()

	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.Dispatch(ErrorMessage(api.Message(err, "Login failed")))
		return err
	}
	if s.currentEpoch() != epoch {
		return ErrSuperseded
	}

	if err := s.creds.Save(ctx, resp.Token); err != nil {
		s.Dispatch(ErrorMessage("Login failed"))
		return err
	}
	s.rememberUser(ctx, resp.Token, resp.User)
	s.Dispatch(User(resp.User))
	s.Dispatch(Auth(true))
	s.Dispatch(Verifying(false))
	s.log.Info(ctx, "logged in", "user_id", resp.User.ID)
	return nil
}

// Logout ends the session. The backend call is best effort; the local
// credential and state are always reset.
func (s *Store) Logout(ctx context.Context) {
	s.Dispatch(Loading(true))

	token, err := s.creds.Load(ctx)
	if err != nil {
		s.log.Warn(ctx, "failed to load credential for logout", "error", err)
	}
	if token != "" {
		if err := s.auth.Logout(ctx); err != nil {
			s.log.Warn(ctx, "logout call failed", "error", err)
		}
	}

	s.clearCredential(ctx)
	s.Dispatch(Logout())
	s.log.Info(ctx, "logged out")
}

// rememberUser records the owner of token as the last known user: the
// token's sub claim, or the returned user for opaque tokens.
func (s *Store) rememberUser(ctx context.Context, token string, u *models.User) {
	id := credentials.Subject(token)
	if id == "" && u != nil {
		id = u.ID
	}
	if id == "" {
		return
	}

	if info, err := s.creds.Info(ctx); err == nil && info.LastUserID != "" && info.LastUserID != id {
		s.log.Info(ctx, "account changed since last session", "previous_user_id", info.LastUserID)
	}
	if err := s.creds.SaveUserID(ctx, id); err != nil {
		s.log.Warn(ctx, "failed to store user id", "error", err)
	}
}

func (s *Store) clearCredential(ctx context.Context) {
	if err := s.creds.Clear(ctx); err != nil {
		s.log.Warn(ctx, "failed to clear credential", "error", err)
	}
}
