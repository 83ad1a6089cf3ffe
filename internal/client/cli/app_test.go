package cli

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/client/session"
)

func TestIsLoggedIn(t *testing.T) {
	require.False(t, (&App{}).isLoggedIn())

	h := newHarness(t, "")
	require.False(t, h.app.isLoggedIn())

	h.login(models.User{ID: "u1", Name: "Ann"})
	require.True(t, h.app.isLoggedIn())
}

func TestSetMode_ChangesAndPrintsOnce(t *testing.T) {
	h := newHarness(t, "")

	h.app.setMode(ModeOnline)
	require.Equal(t, ModeOnline, h.app.currentMode())
	require.Contains(t, h.out.String(), "Switched to online mode")

	h.out.Reset()
	h.app.setMode(ModeOnline)
	require.Empty(t, h.out.String(), "no output when mode does not change")

	h.app.setMode(ModeOffline)
	require.Equal(t, ModeOffline, h.app.currentMode())
	require.Contains(t, h.out.String(), "Switched to offline mode")
}

func TestGetStatus(t *testing.T) {
	h := newHarness(t, "")
	require.Equal(t, "", h.app.getStatus())

	h.app.setMode(ModeOnline)
	require.Equal(t, "(online)", h.app.getStatus())

	h.login(models.User{ID: "u1", Name: "Ann"})
	require.Equal(t, "(Ann online)", h.app.getStatus())

	h.channel.notifications = []models.Notification{{ID: "n1"}, {ID: "n2", Read: true}}
	require.Equal(t, "(Ann online 1 new)", h.app.getStatus())
	h.channel.notifications = nil

	h.app.ToLogin()
	require.Equal(t, "(online login required)", h.app.getStatus())
}

func TestToLogin_ResetsSessionAndWarnsOnce(t *testing.T) {
	h := newHarness(t, "")
	h.login(models.User{ID: "u1", Name: "Ann"})
	h.store.Dispatch(session.Queue(models.QueueWaiting))
	h.app.activeChat = "u2"

	h.app.ToLogin()

	st := h.store.State()
	require.False(t, st.IsAuthenticated)
	require.Nil(t, st.User)
	require.Equal(t, models.QueueIdle, st.QueueStatus)
	require.Empty(t, h.app.activeChat)
	require.Contains(t, h.out.String(), "session has expired")

	h.out.Reset()
	h.app.ToLogin()
	require.Empty(t, h.out.String(), "no notice when already logged out")
}

func TestCallCtx_UsesRequestTimeout(t *testing.T) {
	h := newHarness(t, "")
	h.app.config.RequestTimeout = 50 * time.Millisecond

	ctx, cancel := h.app.callCtx(context.Background())
	defer cancel()
	dl, ok := ctx.Deadline()
	require.True(t, ok)
	require.WithinDuration(t, time.Now().Add(50*time.Millisecond), dl, 40*time.Millisecond)

	h.app.config.RequestTimeout = 0
	ctx2, cancel2 := h.app.callCtx(context.Background())
	defer cancel2()
	_, ok = ctx2.Deadline()
	require.False(t, ok)
}

func TestStartOnlineStatusWatcher(t *testing.T) {
	h := newHarness(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go h.app.StartOnlineStatusWatcher(ctx, 5*time.Millisecond)
	require.Eventually(t, func() bool { return h.app.currentMode() == ModeOnline }, time.Second, 5*time.Millisecond)

	h.auth.mu.Lock()
	h.auth.pingErr = errors.New("down")
	h.auth.mu.Unlock()
	require.Eventually(t, func() bool { return h.app.currentMode() == ModeOffline }, time.Second, 5*time.Millisecond)

	cancel()
}
