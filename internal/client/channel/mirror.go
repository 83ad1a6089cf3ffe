package channel

import (
	"slices"

	"github.com/dmitrijs2005/relate15/internal/client/models"
)

// mirror is the local copy of server-pushed state. It is not safe for
// concurrent use; Manager guards it.
type mirror struct {
	conversations map[string][]models.ChatMessage
	notifications []models.Notification
	events        []models.CalendarEvent
}

func newMirror() mirror {
	return mirror{conversations: make(map[string][]models.ChatMessage)}
}

// addMessage files msg under its counterpart. A message whose id is already
// present is dropped; an echo of an optimistic placeholder replaces it.
// The backend may drop clientMessageId, so an echo without one replaces the
// oldest placeholder with the same sender, receiver and content.
func (m *mirror) addMessage(selfID string, msg models.ChatMessage) (key string, added bool) {
	key = msg.Counterpart(selfID)
	list := m.conversations[key]

	if msg.ID != "" {
		for _, have := range list {
			if have.ID == msg.ID {
				return key, false
			}
		}
	}
	if i := placeholderFor(list, msg); i >= 0 {
		list[i] = msg
		return key, true
	}

	m.conversations[key] = append(list, msg)
	return key, true
}

// placeholderFor returns the index of the unsent copy msg confirms, or -1.
func placeholderFor(list []models.ChatMessage, msg models.ChatMessage) int {
	if msg.ID == "" {
		return -1
	}
	if msg.ClientMessageID != "" {
		for i := range list {
			if list[i].ID == "" && list[i].ClientMessageID == msg.ClientMessageID {
				return i
			}
		}
		return -1
	}
	for i := range list {
		p := list[i]
		if p.ID == "" && p.ClientMessageID != "" &&
			p.Sender.ID == msg.Sender.ID &&
			p.Receiver.ID == msg.Receiver.ID &&
			p.Content == msg.Content {
			return i
		}
	}
	return -1
}

func (m *mirror) replaceHistory(key string, history []models.ChatMessage) {
	m.conversations[key] = slices.Clone(history)
}

func (m *mirror) conversation(key string) []models.ChatMessage {
	return slices.Clone(m.conversations[key])
}

func (m *mirror) addNotification(n models.Notification) bool {
	for _, have := range m.notifications {
		if n.ID != "" && have.ID == n.ID {
			return false
		}
	}
	m.notifications = append(m.notifications, n)
	return true
}

func (m *mirror) markNotificationRead(id string) bool {
	for i := range m.notifications {
		if m.notifications[i].ID == id {
			m.notifications[i].Read = true
			return true
		}
	}
	return false
}

func (m *mirror) unreadNotifications() int {
	n := 0
	for _, x := range m.notifications {
		if !x.Read {
			n++
		}
	}
	return n
}

// upsertEvent replaces the event with the same id, or appends it.
func (m *mirror) upsertEvent(e models.CalendarEvent) {
	for i := range m.events {
		if m.events[i].ID == e.ID {
			m.events[i] = e
			return
		}
	}
	m.events = append(m.events, e)
}

func (m *mirror) removeEvent(id string) bool {
	before := len(m.events)
	m.events = slices.DeleteFunc(m.events, func(e models.CalendarEvent) bool { return e.ID == id })
	return len(m.events) != before
}
