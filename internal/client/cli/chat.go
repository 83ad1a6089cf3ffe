package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/relate15/internal/client/channel"
)

// Chat opens the conversation with counterpartID: it joins the room, loads
// the stored history when nothing has been mirrored yet, marks the
// conversation read and prints it. Incoming messages from this counterpart
// are printed as they arrive until another chat is opened.
func (a *App) Chat(ctx context.Context, counterpartID string) error {
	if err := a.channel.JoinRoom(counterpartID); err != nil {
		return channelError(err)
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if len(a.channel.Conversation(counterpartID)) == 0 {
		history, err := a.chatAPI.ChatHistory(ctx, counterpartID)
		if err != nil {
			a.log.Warn(ctx, "chat history unavailable", "counterpart_id", counterpartID, "error", err)
		} else if len(history) > 0 {
			a.channel.ReplaceConversation(counterpartID, history)
		}
	}

	if err := a.chatAPI.MarkAsRead(ctx, counterpartID); err != nil {
		a.log.Debug(ctx, "mark as read failed", "counterpart_id", counterpartID, "error", err)
	}

	a.mu.Lock()
	a.activeChat = counterpartID
	a.mu.Unlock()

	fmt.Fprintln(a.out, renderConversation(defaultTheme, a.session.State().UserID(), a.channel.Conversation(counterpartID)))
	return nil
}

// Send posts text to counterpartID. The message is shown immediately and
// replaced by the server copy once it is echoed back.
func (a *App) Send(ctx context.Context, counterpartID, text string) error {
	msg, err := a.channel.SendMessage(counterpartID, text)
	if err != nil {
		return channelError(err)
	}
	fmt.Fprintln(a.out, renderMessage(defaultTheme, a.session.State().UserID(), msg))
	return nil
}

// Read marks every message from counterpartID as read.
func (a *App) Read(ctx context.Context, counterpartID string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.chatAPI.MarkAsRead(ctx, counterpartID); err != nil {
		return commandError(err, "Failed to mark messages as read")
	}
	fmt.Fprintln(a.out, "Marked as read")
	return nil
}

func (a *App) Notifications(ctx context.Context) error {
	fmt.Fprintln(a.out, renderNotifications(defaultTheme, a.channel.Notifications()))
	return nil
}

// Seen marks one notification read.
func (a *App) Seen(ctx context.Context, id string) error {
	if err := a.channel.MarkNotificationRead(id); err != nil {
		return channelError(err)
	}
	return nil
}

func channelError(err error) error {
	switch {
	case errors.Is(err, channel.ErrNotConnected):
		return errors.New("Chat is not connected, try again in a moment")
	case errors.Is(err, channel.ErrEmptyMessage):
		return errors.New("Message is empty")
	}
	return fmt.Errorf("Error: %v", err)
}
