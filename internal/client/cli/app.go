package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/dmitrijs2005/relate15/internal/client/channel"
	"github.com/dmitrijs2005/relate15/internal/client/config"
	"github.com/dmitrijs2005/relate15/internal/client/credentials"
	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/client/services"
	"github.com/dmitrijs2005/relate15/internal/client/session"
	"github.com/dmitrijs2005/relate15/internal/client/storage"
	"github.com/dmitrijs2005/relate15/internal/logging"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// chatChannel is the part of channel.Manager the commands use.
type chatChannel interface {
	Connected() bool
	Conversation(counterpartID string) []models.ChatMessage
	ReplaceConversation(counterpartID string, history []models.ChatMessage)
	SendMessage(receiverID, content string) (models.ChatMessage, error)
	JoinRoom(receiverID string) error
	MarkNotificationRead(id string) error
	Notifications() []models.Notification
	UnreadNotifications() int
	Events() []models.CalendarEvent
	SeedEvents(events []models.CalendarEvent)
	Subscribe(fn func(channel.Event)) (unsubscribe func())
}

// chatAPI is the REST part of chat.
type chatAPI interface {
	ChatHistory(ctx context.Context, matchID string) ([]models.ChatMessage, error)
	MarkAsRead(ctx context.Context, counterpartID string) error
}

type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB

	session         *session.Store
	channel         chatChannel
	watch           func(ctx context.Context) (stop func())
	chatAPI         chatAPI
	authService     services.AuthService
	queueService    services.QueueService
	calendarService services.CalendarService

	reader *bufio.Reader
	out    io.Writer

	mu            sync.Mutex
	mode          Mode
	loginRequired bool
	loggingOut    bool
	activeChat    string
}

// NewApp builds the whole client from c.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	scope, err := credentials.ParseScope(c.CredentialScope)
	if err != nil {
		return nil, err
	}

	var db *sql.DB
	if scope == credentials.ScopeDurable {
		db, err = storage.InitDatabase(ctx, c.DatabasePath)
		if err != nil {
			return nil, fmt.Errorf("error initializing database: %w", err)
		}
	}

	creds, err := credentials.New(scope, db)
	if err != nil {
		return nil, err
	}

	a := &App{
		config: c,
		log:    log,
		db:     db,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	apiClient, err := api.New(api.Config{
		BaseURL:     c.APIBaseURL,
		Credentials: creds,
		Navigator:   a,
		Logger:      log,
	})
	if err != nil {
		return nil, err
	}

	store := session.NewStore(apiClient, creds, log)
	manager := channel.New(channel.Config{
		Dialer: &channel.WSDialer{
			URL:      c.SocketURL,
			Attempts: uint64(max(c.ReconnectAttempts, 1)),
			Delay:    c.ReconnectDelay,
			Log:      log,
		},
		Credentials: creds,
		Logger:      log,
	})

	queue := services.NewQueueService(apiClient, store, log)

	a.session = store
	a.channel = manager
	a.watch = func(ctx context.Context) func() { return manager.Watch(ctx, store) }
	a.chatAPI = apiClient
	a.authService = services.NewAuthService(apiClient, store, log)
	a.queueService = queue
	a.calendarService = services.NewCalendarService(apiClient, queue, store, log)
	return a, nil
}

// Run verifies the stored session, connects the channel, starts the
// connectivity watcher and blocks in the REPL.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stopWatch := a.watch(ctx)
	defer stopWatch()
	unsubscribe := a.channel.Subscribe(a.onChannelEvent)
	defer unsubscribe()

	fmt.Fprintln(a.out, "Welcome to Relate15 CLI (type 'help' for commands)")

	initCtx, initCancel := a.callCtx(ctx)
	_ = a.session.Init(initCtx)
	initCancel()

	if u := a.session.State().User; a.isLoggedIn() && u != nil {
		fmt.Fprintf(a.out, "Welcome back, %s!\n", u.Name)
	} else {
		fmt.Fprintln(a.out, "Please login or register.")
	}

	go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

// Close releases the local database, if any.
func (a *App) Close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

// isLoggedIn is false while the stored credential is still being verified.
func (a *App) isLoggedIn() bool {
	return a.session != nil && a.session.State().Phase() == session.PhaseAuthenticated
}

// callCtx scopes one backend call with the configured request timeout.
func (a *App) callCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	changed := a.mode != mode
	a.mode = mode
	a.mu.Unlock()

	if changed {
		fmt.Fprintf(a.out, "Switched to %s mode\n", mode)
	}
}

func (a *App) currentMode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

// StartOnlineStatusWatcher probes the backend every interval and flips the
// mode between online and offline. It returns when ctx is done.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 3 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
			err := a.authService.Ping(pingCtx)
			cancel()

			if err != nil {
				a.log.Debug(ctx, "health check failed", "error", err)
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
