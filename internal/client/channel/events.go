package channel

import (
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/relate15/internal/client/models"
)

// Server to client events.
const (
	EventNewMessage       = "newMessage"
	EventChatHistory      = "chatHistory"
	EventQueueStatus      = "queueStatus"
	EventQueueUpdated     = "queueUpdated"
	EventNewNotification  = "newNotification"
	EventNotificationRead = "notificationRead"
	EventCalendarCreated  = "eventCreated"
	EventCalendarUpdated  = "eventUpdated"
	EventCalendarCanceled = "eventCanceled"
	EventCalendarConfirm  = "eventConfirmed"
	EventError            = "error"
)

// Client to server events.
const (
	EventSendMessage          = "sendMessage"
	EventJoinRoom             = "joinRoom"
	EventGetQueueStatus       = "getQueueStatus"
	EventMarkNotificationRead = "markNotificationRead"
)

// Local lifecycle events, never sent over the wire.
const (
	EventConnected    = "connect"
	EventDisconnected = "disconnect"
)

// Frame is one message on the wire.
type Frame struct {
	Event     string          `json:"event"`
	Data      json.RawMessage `json:"data,omitempty"`
	RequestID string          `json:"requestId,omitempty"`
}

func newFrame(event string, data any, requestID string) (Frame, error) {
	f := Frame{Event: event, RequestID: requestID}
	if data == nil {
		return f, nil
	}
	b, err := json.Marshal(data)
	if err != nil {
		return Frame{}, fmt.Errorf("channel: encode %s: %w", event, err)
	}
	f.Data = b
	return f, nil
}

func (f Frame) decode(v any) error {
	if len(f.Data) == 0 {
		return fmt.Errorf("channel: %s frame has no data", f.Event)
	}
	if err := json.Unmarshal(f.Data, v); err != nil {
		return fmt.Errorf("channel: decode %s: %w", f.Event, err)
	}
	return nil
}

// errorText extracts a readable message from an error frame, whose payload
// is either a bare string or an object with a message field.
func (f Frame) errorText() string {
	var s string
	if json.Unmarshal(f.Data, &s) == nil {
		return s
	}
	var obj struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(f.Data, &obj) == nil && obj.Message != "" {
		return obj.Message
	}
	return string(f.Data)
}

type chatHistoryPayload struct {
	ReceiverID string               `json:"receiverId"`
	History    []models.ChatMessage `json:"history"`
}

type sendMessagePayload struct {
	ReceiverID      string `json:"receiverId"`
	Content         string `json:"content"`
	ClientMessageID string `json:"clientMessageId"`
}

type roomPayload struct {
	ReceiverID string `json:"receiverId"`
}

// Event is a change observed on the channel, handed to subscribers. Only
// the fields relevant to Name are set.
type Event struct {
	Name string

	// Counterpart is the conversation key for message and history events.
	Counterpart string
	Message     *models.ChatMessage

	Queue        *models.QueueUpdate
	Notification *models.Notification
	Calendar     *models.CalendarEvent

	// ID is the id carried by notificationRead and eventCanceled.
	ID string
	// Text is the message of an error event.
	Text string
}
