package channel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/relate15/internal/client/credentials"
	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/client/session"
	"github.com/dmitrijs2005/relate15/internal/logging"
	"github.com/google/uuid"
)

var (
	ErrNotConnected = errors.New("channel: not connected")
	ErrEmptyMessage = errors.New("channel: message is empty")
)

// SessionStore is the part of session.Store the manager uses.
type SessionStore interface {
	State() session.State
	Dispatch(session.Action)
	Subscribe(fn func(session.State)) (unsubscribe func())
}

type Config struct {
	Dialer      Dialer
	Credentials credentials.Store
	Logger      logging.Logger
}

// Manager owns at most one connection per authenticated session.
type Manager struct {
	dialer Dialer
	creds  credentials.Store
	log    logging.Logger
	now    func() time.Time

	store SessionStore

	mu        sync.Mutex
	running   bool
	connected bool
	conn      Conn
	cancel    context.CancelFunc
	gen       uint64
	selfID    string
	state     mirror
	pending   map[string]chan models.QueueUpdate
	subs      map[int]func(Event)
	nextSub   int
}

func New(cfg Config) *Manager {
	log := cfg.Logger
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{
		dialer:  cfg.Dialer,
		creds:   cfg.Credentials,
		log:     log.With("component", "channel"),
		now:     time.Now,
		state:   newMirror(),
		pending: make(map[string]chan models.QueueUpdate),
		subs:    make(map[int]func(Event)),
	}
}

// Watch follows store: the manager connects while the session is
// authenticated and tears down otherwise. The returned function stops
// watching and closes any connection.
func (m *Manager) Watch(ctx context.Context, store SessionStore) (stop func()) {
	m.mu.Lock()
	m.store = store
	m.mu.Unlock()

	unsubscribe := store.Subscribe(func(s session.State) { m.follow(ctx, s) })
	m.follow(ctx, store.State())

	return func() {
		unsubscribe()
		m.teardown()
	}
}

func (m *Manager) follow(ctx context.Context, s session.State) {
	if !s.IsAuthenticated {
		m.teardown()
		return
	}

	id := s.UserID()
	m.mu.Lock()
	switched := m.running && m.selfID != "" && id != "" && id != m.selfID
	m.mu.Unlock()
	if switched {
		// Another account logged in: the old connection carries the old
		// credential and the mirror belongs to the old user.
		m.log.Info(ctx, "session user changed, reconnecting", "user_id", id)
		m.teardown()
	}

	m.mu.Lock()
	m.selfID = id
	if m.running {
		m.mu.Unlock()
		return
	}
	m.running = true
	m.gen++
	gen := m.gen
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.mu.Unlock()

	go m.run(runCtx, gen)
}

// run dials and reads until ctx is canceled. A dropped connection is
// redialed with the dialer's retry budget; once that budget is exhausted
// the manager stays disconnected until the session is torn down and
// authenticated again.
func (m *Manager) run(ctx context.Context, gen uint64) {
	for {
		token, err := m.creds.Load(ctx)
		if err != nil || token == "" {
			m.log.Warn(ctx, "no credential for channel", "error", err)
			return
		}

		conn, err := m.dialer.Dial(ctx, token)
		if err != nil {
			if ctx.Err() == nil {
				m.log.Error(ctx, "channel connect failed", "error", err)
				m.emit(Event{Name: EventDisconnected, Text: err.Error()})
			}
			return
		}
		if !m.attach(gen, conn) {
			_ = conn.Close()
			return
		}
		m.log.Info(ctx, "channel connected")
		m.emit(Event{Name: EventConnected})

		go func() {
			reqCtx, cancel := context.WithTimeout(ctx, writeWait)
			defer cancel()
			if _, err := m.RequestQueueStatus(reqCtx); err != nil && ctx.Err() == nil {
				m.log.Warn(ctx, "initial queue status request failed", "error", err)
			}
		}()

		err = m.readLoop(ctx, gen, conn)
		m.detach(gen, conn)
		if ctx.Err() != nil {
			return
		}
		m.log.Warn(ctx, "channel dropped, reconnecting", "error", err)
		m.emit(Event{Name: EventDisconnected, Text: errText(err)})
	}
}

func (m *Manager) readLoop(ctx context.Context, gen uint64, conn Conn) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		f, err := conn.ReadFrame()
		if err != nil {
			return err
		}
		m.handle(ctx, gen, f)
	}
}

// current reports whether gen is still the live connection generation.
func (m *Manager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return gen == m.gen
}

func (m *Manager) attach(gen uint64, conn Conn) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	m.conn = conn
	m.connected = true
	return true
}

func (m *Manager) detach(gen uint64, conn Conn) {
	m.mu.Lock()
	if gen == m.gen && m.conn == conn {
		m.conn = nil
		m.connected = false
		m.failPending()
	}
	m.mu.Unlock()
	_ = conn.Close()
}

// teardown closes the connection and drops every mirrored record.
func (m *Manager) teardown() {
	m.mu.Lock()
	wasRunning := m.running
	cancel, conn := m.cancel, m.conn
	m.gen++
	m.running = false
	m.connected = false
	m.conn = nil
	m.cancel = nil
	m.selfID = ""
	m.state = newMirror()
	m.failPending()
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if conn != nil {
		_ = conn.Close()
	}
	if wasRunning {
		m.log.Info(context.Background(), "channel closed")
	}
}

// failPending wakes every RequestQueueStatus waiter. Caller holds m.mu.
func (m *Manager) failPending() {
	for id, ch := range m.pending {
		close(ch)
		delete(m.pending, id)
	}
}

// Connected reports whether a connection is established.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// Subscribe registers fn for every channel event. fn runs on the reading
// goroutine and must not block.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) emit(e Event) {
	m.mu.Lock()
	subs := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	m.mu.Unlock()

	for _, fn := range subs {
		fn(e)
	}
}

// Conversation returns the messages exchanged with counterpartID.
func (m *Manager) Conversation(counterpartID string) []models.ChatMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.conversation(counterpartID)
}

// ReplaceConversation installs a history fetched out of band, e.g. over
// REST, exactly as a chatHistory event would.
func (m *Manager) ReplaceConversation(counterpartID string, history []models.ChatMessage) {
	m.mu.Lock()
	m.state.replaceHistory(counterpartID, history)
	m.mu.Unlock()
	m.emit(Event{Name: EventChatHistory, Counterpart: counterpartID})
}

func (m *Manager) Notifications() []models.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.state.notifications)
}

// UnreadNotifications counts notifications not yet marked read.
func (m *Manager) UnreadNotifications() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.unreadNotifications()
}

// Events returns the calendar mirror.
func (m *Manager) Events() []models.CalendarEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.state.events)
}

// SeedEvents replaces the calendar mirror with a freshly listed set.
func (m *Manager) SeedEvents(events []models.CalendarEvent) {
	m.mu.Lock()
	m.state.events = slices.Clone(events)
	m.mu.Unlock()
}

func (m *Manager) send(event string, data any, requestID string) error {
	f, err := newFrame(event, data, requestID)
	if err != nil {
		return err
	}

	m.mu.Lock()
	conn, connected := m.conn, m.connected
	m.mu.Unlock()
	if !connected || conn == nil {
		return ErrNotConnected
	}
	if err := conn.WriteFrame(f); err != nil {
		return fmt.Errorf("channel: send %s: %w", event, err)
	}
	return nil
}

// SendMessage appends an optimistic copy of the message to the receiver's
// conversation and emits it without waiting for the server. The echo of the
// server replaces the copy once it arrives.
func (m *Manager) SendMessage(receiverID, content string) (models.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.ChatMessage{}, ErrEmptyMessage
	}

	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return models.ChatMessage{}, ErrNotConnected
	}
	msg := models.ChatMessage{
		Sender:          models.UserRef{ID: m.selfID},
		Receiver:        models.UserRef{ID: receiverID},
		Content:         content,
		CreatedAt:       m.now(),
		ClientMessageID: uuid.NewString(),
	}
	m.state.addMessage(m.selfID, msg)
	m.mu.Unlock()

	m.emit(Event{Name: EventNewMessage, Counterpart: receiverID, Message: &msg})

	err := m.send(EventSendMessage, sendMessagePayload{
		ReceiverID:      receiverID,
		Content:         content,
		ClientMessageID: msg.ClientMessageID,
	}, "")
	return msg, err
}

// JoinRoom asks the server to start delivering the conversation with
// receiverID.
func (m *Manager) JoinRoom(receiverID string) error {
	return m.send(EventJoinRoom, roomPayload{ReceiverID: receiverID}, "")
}

func (m *Manager) MarkNotificationRead(id string) error {
	return m.send(EventMarkNotificationRead, id, "")
}

// RequestQueueStatus asks the server for the queue state and waits for the
// reply that carries the same request id. The reply is also applied to the
// session store.
func (m *Manager) RequestQueueStatus(ctx context.Context) (models.QueueUpdate, error) {
	id := uuid.NewString()
	ch := make(chan models.QueueUpdate, 1)

	m.mu.Lock()
	if !m.connected {
		m.mu.Unlock()
		return models.QueueUpdate{}, ErrNotConnected
	}
	m.pending[id] = ch
	m.mu.Unlock()

	defer func() {
		m.mu.Lock()
		delete(m.pending, id)
		m.mu.Unlock()
	}()

	if err := m.send(EventGetQueueStatus, nil, id); err != nil {
		return models.QueueUpdate{}, err
	}

	select {
	case u, ok := <-ch:
		if !ok {
			return models.QueueUpdate{}, ErrNotConnected
		}
		return u, nil
	case <-ctx.Done():
		return models.QueueUpdate{}, ctx.Err()
	}
}

// handle applies one inbound frame read under generation gen. Frames of a
// torn down generation are dropped, so they never reach the session or the
// mirror of the next one.
func (m *Manager) handle(ctx context.Context, gen uint64, f Frame) {
	if !m.current(gen) {
		m.log.Debug(ctx, "dropping frame of closed connection", "event", f.Event)
		return
	}

	switch f.Event {
	case EventQueueStatus, EventQueueUpdated:
		var u models.QueueUpdate
		if err := f.decode(&u); err != nil {
			m.log.Warn(ctx, "bad queue frame", "error", err)
			return
		}
		if err := u.Validate(); err != nil {
			m.log.Warn(ctx, "bad queue frame", "error", err)
			return
		}
		if !m.current(gen) {
			return
		}
		m.applyQueue(u)
		m.resolve(f.RequestID, u)
		m.emit(Event{Name: f.Event, Queue: &u})

	case EventChatHistory:
		var p chatHistoryPayload
		if err := f.decode(&p); err != nil {
			m.log.Warn(ctx, "bad chat history frame", "error", err)
			return
		}
		if !m.withState(gen, func(st *mirror) { st.replaceHistory(p.ReceiverID, p.History) }) {
			return
		}
		m.emit(Event{Name: EventChatHistory, Counterpart: p.ReceiverID})

	case EventNewMessage:
		var msg models.ChatMessage
		if err := f.decode(&msg); err != nil {
			m.log.Warn(ctx, "bad message frame", "error", err)
			return
		}
		var (
			key   string
			added bool
		)
		if !m.withState(gen, func(st *mirror) { key, added = st.addMessage(m.selfID, msg) }) {
			return
		}
		if !added {
			m.log.Debug(ctx, "duplicate message ignored", "message_id", msg.ID)
			return
		}
		m.emit(Event{Name: EventNewMessage, Counterpart: key, Message: &msg})

	case EventNewNotification:
		var n models.Notification
		if err := f.decode(&n); err != nil {
			m.log.Warn(ctx, "bad notification frame", "error", err)
			return
		}
		var added bool
		if !m.withState(gen, func(st *mirror) { added = st.addNotification(n) }) {
			return
		}
		if added {
			m.emit(Event{Name: EventNewNotification, Notification: &n})
		}

	case EventNotificationRead:
		var id string
		if err := f.decode(&id); err != nil {
			m.log.Warn(ctx, "bad notification frame", "error", err)
			return
		}
		if !m.withState(gen, func(st *mirror) { st.markNotificationRead(id) }) {
			return
		}
		m.emit(Event{Name: EventNotificationRead, ID: id})

	case EventCalendarCreated, EventCalendarUpdated, EventCalendarConfirm:
		var e models.CalendarEvent
		if err := f.decode(&e); err != nil {
			m.log.Warn(ctx, "bad calendar frame", "error", err)
			return
		}
		e.MatchCount = m.matchCount(e.ParticipantID)
		if !m.withState(gen, func(st *mirror) { st.upsertEvent(e) }) {
			return
		}
		m.emit(Event{Name: f.Event, Calendar: &e})

	case EventCalendarCanceled:
		var id string
		if err := f.decode(&id); err != nil {
			m.log.Warn(ctx, "bad calendar frame", "error", err)
			return
		}
		if !m.withState(gen, func(st *mirror) { st.removeEvent(id) }) {
			return
		}
		m.emit(Event{Name: EventCalendarCanceled, ID: id})

	case EventError:
		text := f.errorText()
		m.log.Error(ctx, "channel error", "error", text)
		m.emit(Event{Name: EventError, Text: text})

	default:
		m.log.Debug(ctx, "ignoring unknown event", "event", f.Event)
	}
}

// applyQueue mirrors a queue update into the session store. A matched
// update without a user leaves the matched user untouched.
func (m *Manager) applyQueue(u models.QueueUpdate) {
	store := m.sessionStore()
	if store == nil {
		return
	}
	store.Dispatch(session.Queue(u.State))
	switch {
	case u.State == models.QueueMatched && u.MatchedWith != nil:
		store.Dispatch(session.MatchedUser(u.MatchedWith))
	case u.State != models.QueueMatched:
		store.Dispatch(session.MatchedUser(nil))
	}
}

// withState runs fn on the mirror under m.mu if gen is still current. It
// reports whether fn ran.
func (m *Manager) withState(gen uint64, fn func(st *mirror)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return false
	}
	fn(&m.state)
	return true
}

func (m *Manager) resolve(requestID string, u models.QueueUpdate) {
	if requestID == "" {
		return
	}
	m.mu.Lock()
	ch, ok := m.pending[requestID]
	if ok {
		delete(m.pending, requestID)
	}
	m.mu.Unlock()
	if ok {
		ch <- u
	}
}

func (m *Manager) matchCount(participantID string) int {
	store := m.sessionStore()
	if store == nil {
		return 0
	}
	u := store.State().User
	if u == nil {
		return 0
	}
	return u.MatchCount[participantID]
}

func (m *Manager) sessionStore() SessionStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
