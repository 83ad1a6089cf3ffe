package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/relate15/internal/client/channel"
	"github.com/dmitrijs2005/relate15/internal/client/config"
	"github.com/dmitrijs2005/relate15/internal/client/credentials"
	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/client/services"
	"github.com/dmitrijs2005/relate15/internal/client/session"
	"github.com/dmitrijs2005/relate15/internal/logging"
)

type fakeAuthService struct {
	store *session.Store

	signup    services.Signup
	regMsg    string
	regErr    error
	loginUser *models.User
	loginErr  string
	email     string
	password  string
	logouts   int
	onLogout  func()
	pingErr   error
	pings     int
	mu        sync.Mutex
}

func (f *fakeAuthService) Register(_ context.Context, in services.Signup) (string, error) {
	f.signup = in
	return f.regMsg, f.regErr
}

func (f *fakeAuthService) Login(_ context.Context, email, password string) error {
	f.email, f.password = email, password
	if f.loginErr != "" {
		f.store.Dispatch(session.ErrorMessage(f.loginErr))
		return context.Canceled
	}
	f.store.Dispatch(session.User(f.loginUser))
	f.store.Dispatch(session.Auth(true))
	return nil
}

func (f *fakeAuthService) Logout(context.Context) {
	f.logouts++
	if f.onLogout != nil {
		f.onLogout()
	}
	f.store.Dispatch(session.Logout())
}

func (f *fakeAuthService) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

type fakeQueueService struct {
	store *session.Store

	update  *models.QueueUpdate
	err     error
	history []models.User
	counts  map[string]int
	stats   []services.MatchStat
}

func (f *fakeQueueService) apply() (*models.QueueUpdate, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.store.Dispatch(session.Queue(f.update.State))
	f.store.Dispatch(session.MatchedUser(f.update.MatchedWith))
	return f.update, nil
}

func (f *fakeQueueService) Book(context.Context) (*models.QueueUpdate, error)    { return f.apply() }
func (f *fakeQueueService) Refresh(context.Context) (*models.QueueUpdate, error) { return f.apply() }
func (f *fakeQueueService) History(context.Context) ([]models.User, error)       { return f.history, f.err }
func (f *fakeQueueService) Counts(context.Context) (map[string]int, error)       { return f.counts, f.err }
func (f *fakeQueueService) CurrentMatch(context.Context) (*models.User, error)   { return nil, f.err }
func (f *fakeQueueService) Statistics(context.Context) ([]services.MatchStat, error) {
	return f.stats, f.err
}

type fakeCalendarService struct {
	events    []models.CalendarEvent
	err       error
	scheduled time.Time
	updated   *models.CalendarEvent
	canceled  string
}

func (f *fakeCalendarService) List(context.Context) ([]models.CalendarEvent, error) {
	return f.events, f.err
}

func (f *fakeCalendarService) Schedule(_ context.Context, when time.Time) (*models.CalendarEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.scheduled = when
	return &models.CalendarEvent{ID: "new", ScheduledTime: when, MatchCount: 1}, nil
}

func (f *fakeCalendarService) Update(_ context.Context, ev models.CalendarEvent) (*models.CalendarEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.updated = &ev
	return &ev, nil
}

func (f *fakeCalendarService) Cancel(_ context.Context, id string) error {
	f.canceled = id
	return f.err
}

func (f *fakeCalendarService) Confirm(_ context.Context, id string) (*models.CalendarEvent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.CalendarEvent{ID: id, Status: models.EventConfirmed}, nil
}

type fakeChannel struct {
	connected     bool
	conversations map[string][]models.ChatMessage
	notifications []models.Notification
	seeded        []models.CalendarEvent
	joined        []string
	seen          []string
	sent          []models.ChatMessage
	subscribers   []func(channel.Event)
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{connected: true, conversations: map[string][]models.ChatMessage{}}
}

func (f *fakeChannel) Connected() bool { return f.connected }
func (f *fakeChannel) Conversation(id string) []models.ChatMessage {
	return f.conversations[id]
}
func (f *fakeChannel) ReplaceConversation(id string, history []models.ChatMessage) {
	f.conversations[id] = history
}

func (f *fakeChannel) SendMessage(receiverID, content string) (models.ChatMessage, error) {
	if !f.connected {
		return models.ChatMessage{}, channel.ErrNotConnected
	}
	if strings.TrimSpace(content) == "" {
		return models.ChatMessage{}, channel.ErrEmptyMessage
	}
	m := models.ChatMessage{
		Sender:          models.UserRef{ID: "me"},
		Receiver:        models.UserRef{ID: receiverID},
		Content:         content,
		CreatedAt:       time.Now(),
		ClientMessageID: "c1",
	}
	f.sent = append(f.sent, m)
	return m, nil
}

func (f *fakeChannel) JoinRoom(id string) error {
	if !f.connected {
		return channel.ErrNotConnected
	}
	f.joined = append(f.joined, id)
	return nil
}

func (f *fakeChannel) MarkNotificationRead(id string) error {
	if !f.connected {
		return channel.ErrNotConnected
	}
	f.seen = append(f.seen, id)
	return nil
}

func (f *fakeChannel) Notifications() []models.Notification { return f.notifications }
func (f *fakeChannel) UnreadNotifications() int {
	n := 0
	for _, x := range f.notifications {
		if !x.Read {
			n++
		}
	}
	return n
}
func (f *fakeChannel) Events() []models.CalendarEvent           { return f.seeded }
func (f *fakeChannel) SeedEvents(events []models.CalendarEvent) { f.seeded = events }
func (f *fakeChannel) Subscribe(fn func(channel.Event)) func() {
	f.subscribers = append(f.subscribers, fn)
	return func() {}
}

type fakeChatAPI struct {
	history      []models.ChatMessage
	historyErr   error
	historyCalls int
	readIDs      []string
	readErr      error
}

func (f *fakeChatAPI) ChatHistory(context.Context, string) ([]models.ChatMessage, error) {
	f.historyCalls++
	return f.history, f.historyErr
}

func (f *fakeChatAPI) MarkAsRead(_ context.Context, id string) error {
	f.readIDs = append(f.readIDs, id)
	return f.readErr
}

type harness struct {
	app      *App
	out      *bytes.Buffer
	store    *session.Store
	auth     *fakeAuthService
	queue    *fakeQueueService
	calendar *fakeCalendarService
	channel  *fakeChannel
	chat     *fakeChatAPI
}

// newHarness builds an App over fakes. input feeds the shared reader.
func newHarness(t *testing.T, input string) *harness {
	t.Helper()

	store := session.NewStore(nil, credentials.NewEphemeral(), logging.Discard())
	store.Dispatch(session.Verifying(false))

	h := &harness{
		out:      &bytes.Buffer{},
		store:    store,
		auth:     &fakeAuthService{store: store},
		queue:    &fakeQueueService{store: store},
		calendar: &fakeCalendarService{},
		channel:  newFakeChannel(),
		chat:     &fakeChatAPI{},
	}
	h.app = &App{
		config:          &config.Config{RequestTimeout: time.Second},
		log:             logging.Discard(),
		session:         store,
		channel:         h.channel,
		chatAPI:         h.chat,
		authService:     h.auth,
		queueService:    h.queue,
		calendarService: h.calendar,
		reader:          bufio.NewReader(strings.NewReader(input)),
		out:             h.out,
	}
	return h
}

// login puts the session in the authenticated state as u.
func (h *harness) login(u models.User) {
	h.store.Dispatch(session.User(&u))
	h.store.Dispatch(session.Auth(true))
}
