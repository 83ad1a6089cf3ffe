package channel

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dmitrijs2005/relate15/internal/common"
	"github.com/dmitrijs2005/relate15/internal/logging"
	"github.com/gorilla/websocket"
	"github.com/sethvargo/go-retry"
)

// ErrRejected is returned when the server refuses the handshake with 401 or
// 403. Such a dial is not retried.
var ErrRejected = errors.New("channel: handshake rejected")

const writeWait = 10 * time.Second

// Conn is an established connection. ReadFrame is called from a single
// goroutine; WriteFrame and Close may be called concurrently.
type Conn interface {
	ReadFrame() (Frame, error)
	WriteFrame(Frame) error
	Close() error
}

// Dialer opens a connection authenticated with token.
type Dialer interface {
	Dial(ctx context.Context, token string) (Conn, error)
}

// WSDialer dials a WebSocket endpoint. A failed handshake is retried up to
// Attempts times in total, Delay apart.
type WSDialer struct {
	URL      string
	Attempts uint64
	Delay    time.Duration
	Log      logging.Logger

	// Dialer defaults to websocket.DefaultDialer.
	Dialer *websocket.Dialer
}

func (d *WSDialer) Dial(ctx context.Context, token string) (Conn, error) {
	dialer := d.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	log := d.Log
	if log == nil {
		log = logging.Discard()
	}

	header := http.Header{}
	header.Set(common.AuthorizationHeader, common.FormatBearer(token))

	attempts := d.Attempts
	if attempts == 0 {
		attempts = 1
	}
	delay := d.Delay
	if delay <= 0 {
		delay = time.Second
	}
	backoff := retry.WithMaxRetries(attempts-1, retry.NewConstant(delay))

	attempt := 0
	conn, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (*websocket.Conn, error) {
		attempt++
		c, resp, err := dialer.DialContext(ctx, d.URL, header)
		if err != nil {
			if resp != nil && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
				return nil, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
			}
			log.Warn(ctx, "channel dial failed", "attempt", attempt, "error", err)
			return nil, retry.RetryableError(err)
		}
		return c, nil
	})
	if err != nil {
		return nil, fmt.Errorf("channel: dial %s: %w", d.URL, err)
	}
	return &wsConn{c: conn}, nil
}

type wsConn struct {
	c *websocket.Conn

	wmu sync.Mutex
}

func (w *wsConn) ReadFrame() (Frame, error) {
	var f Frame
	err := w.c.ReadJSON(&f)
	return f, err
}

func (w *wsConn) WriteFrame(f Frame) error {
	w.wmu.Lock()
	defer w.wmu.Unlock()
	if err := w.c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return w.c.WriteJSON(f)
}

func (w *wsConn) Close() error {
	w.wmu.Lock()
	_ = w.c.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	w.wmu.Unlock()
	return w.c.Close()
}
