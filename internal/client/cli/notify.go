package cli

import (
	"fmt"

	"github.com/dmitrijs2005/relate15/internal/client/channel"
	"github.com/dmitrijs2005/relate15/internal/client/models"
)

// onChannelEvent prints what the server pushes while the prompt is idle.
func (a *App) onChannelEvent(e channel.Event) {
	selfID := ""
	if a.session != nil {
		selfID = a.session.State().UserID()
	}

	switch e.Name {
	case channel.EventNewMessage:
		if e.Message == nil || e.Message.Sender.ID == selfID {
			return
		}
		a.mu.Lock()
		active := a.activeChat == e.Counterpart
		a.mu.Unlock()
		if active {
			fmt.Fprintln(a.out, renderMessage(defaultTheme, selfID, *e.Message))
		} else {
			fmt.Fprintf(a.out, "New message from %s (chat %s)\n", senderName(*e.Message), e.Counterpart)
		}

	case channel.EventQueueUpdated:
		if e.Queue != nil && e.Queue.State == models.QueueMatched {
			fmt.Fprintln(a.out, renderStatus(defaultTheme, a.session.State()))
		}

	case channel.EventNewNotification:
		if e.Notification != nil {
			fmt.Fprintf(a.out, "Notification: %s\n", e.Notification.Content)
		}

	case channel.EventCalendarCreated, channel.EventCalendarUpdated, channel.EventCalendarConfirm:
		if e.Calendar != nil {
			fmt.Fprintln(a.out, renderEvent(defaultTheme, *e.Calendar))
		}

	case channel.EventCalendarCanceled:
		fmt.Fprintf(a.out, "Meeting %s was canceled\n", e.ID)

	case channel.EventError:
		fmt.Fprintf(a.out, "Chat error: %s\n", e.Text)

	case channel.EventDisconnected:
		if e.Text != "" {
			fmt.Fprintf(a.out, "Chat disconnected: %s\n", e.Text)
		}
	}
}

func senderName(m models.ChatMessage) string {
	if m.Sender.User != nil && m.Sender.User.Name != "" {
		return m.Sender.User.Name
	}
	return m.Sender.ID
}
