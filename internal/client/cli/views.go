package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmitrijs2005/relate15/internal/client/models"
	"github.com/dmitrijs2005/relate15/internal/client/services"
	"github.com/dmitrijs2005/relate15/internal/client/session"
)

const timeLayout = "Mon 02 Jan 2006 15:04"

// Theme holds the colors used by the views.
type Theme struct {
	NormalText lipgloss.Color
	FaintText  lipgloss.Color

	HeaderForeground lipgloss.Color
	BorderColor      lipgloss.Color

	// Message authors.
	OwnMessage   lipgloss.Color
	OtherMessage lipgloss.Color

	// Queue and event states.
	StatusIdle    lipgloss.Color
	StatusWaiting lipgloss.Color
	StatusMatched lipgloss.Color
	StatusPending lipgloss.Color

	ErrorText lipgloss.Color
}

// defaultTheme targets dark terminals using the 256-color palette.
var defaultTheme = Theme{
	NormalText:       lipgloss.Color("252"),
	FaintText:        lipgloss.Color("243"),
	HeaderForeground: lipgloss.Color("39"),
	BorderColor:      lipgloss.Color("240"),
	OwnMessage:       lipgloss.Color("75"),
	OtherMessage:     lipgloss.Color("114"),
	StatusIdle:       lipgloss.Color("245"),
	StatusWaiting:    lipgloss.Color("214"),
	StatusMatched:    lipgloss.Color("78"),
	StatusPending:    lipgloss.Color("221"),
	ErrorText:        lipgloss.Color("203"),
}

func (t Theme) header(s string) string {
	return lipgloss.NewStyle().Foreground(t.HeaderForeground).Bold(true).Render(s)
}

func (t Theme) faint(s string) string {
	return lipgloss.NewStyle().Foreground(t.FaintText).Render(s)
}

func (t Theme) box() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
}

func (t Theme) queueColor(q models.QueueState) lipgloss.Color {
	switch q {
	case models.QueueWaiting:
		return t.StatusWaiting
	case models.QueueMatched:
		return t.StatusMatched
	default:
		return t.StatusIdle
	}
}

// renderProfile draws the profile card of u.
func renderProfile(t Theme, u models.User) string {
	label := lipgloss.NewStyle().Foreground(t.FaintText).Width(10)
	row := func(name, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, label.Render(name), value)
	}

	interests := "-"
	if len(u.Interests) > 0 {
		interests = strings.Join(u.Interests, ", ")
	}

	lines := []string{
		t.header(u.Name),
		t.faint(u.DisplayRole()),
		"",
		row("Email", u.Email),
		row("Interests", interests),
		row("Matches", fmt.Sprintf("%d", len(u.Matches))),
	}
	if u.Bio != "" {
		lines = append(lines, "", u.Bio)
	}
	if u.ProfilePictureURL != "" {
		lines = append(lines, t.faint(u.ProfilePictureURL))
	}
	return t.box().Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderStatus draws the queue status dialog.
func renderStatus(t Theme, st session.State) string {
	state := st.QueueStatus
	if state == "" {
		state = models.QueueIdle
	}
	badge := lipgloss.NewStyle().Foreground(t.queueColor(state)).Bold(true).Render(strings.ToUpper(string(state)))

	var body string
	switch state {
	case models.QueueWaiting:
		body = "Looking for a partner. You will be notified when matched."
	case models.QueueMatched:
		if st.MatchedUser != nil {
			body = fmt.Sprintf("You are matched with %s (%s).", st.MatchedUser.Name, st.MatchedUser.DisplayRole())
			if len(st.MatchedUser.Interests) > 0 {
				body += "\nInterests: " + strings.Join(st.MatchedUser.Interests, ", ")
			}
			body += fmt.Sprintf("\nChat with: chat %s", st.MatchedUser.ID)
		} else {
			body = "You have been matched."
		}
	default:
		body = "You are not in the queue. Type 'book' to find a partner."
	}

	lines := []string{t.header("15-minute call") + "  " + badge, "", body}
	if st.Error != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(t.ErrorText).Render(st.Error))
	}
	return t.box().Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderMessage formats one chat line. Messages not yet echoed by the server
// are marked as sending.
func renderMessage(t Theme, selfID string, m models.ChatMessage) string {
	own := m.Sender.ID == selfID
	name := "You"
	color := t.OwnMessage
	if !own {
		name = senderName(m)
		color = t.OtherMessage
	}

	line := fmt.Sprintf("%s %s: %s",
		t.faint(m.CreatedAt.Local().Format("15:04")),
		lipgloss.NewStyle().Foreground(color).Bold(true).Render(name),
		m.Content,
	)
	if own && m.ID == "" {
		line += " " + t.faint("(sending)")
	}
	return line
}

func renderConversation(t Theme, selfID string, msgs []models.ChatMessage) string {
	if len(msgs) == 0 {
		return t.faint("No messages yet. Say hello with: send <id> <text>")
	}
	lines := make([]string, 0, len(msgs))
	for _, m := range msgs {
		lines = append(lines, renderMessage(t, selfID, m))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderEvent formats a meeting as "Meeting (Nx)" with a one-hour slot.
func renderEvent(t Theme, ev models.CalendarEvent) string {
	start := ev.ScheduledTime.Local()
	end := ev.End().Local()

	status := ev.Status
	if status == "" {
		status = models.EventPending
	}
	color := t.StatusPending
	switch status {
	case models.EventConfirmed:
		color = t.StatusMatched
	case models.EventCanceled:
		color = t.FaintText
	}

	return fmt.Sprintf("%s  %s  %s-%s  %s",
		t.faint(ev.ID),
		lipgloss.NewStyle().Bold(true).Render(fmt.Sprintf("Meeting (%dx)", ev.MatchCount)),
		start.Format(timeLayout),
		end.Format("15:04"),
		lipgloss.NewStyle().Foreground(color).Render(string(status)),
	)
}

func renderEvents(t Theme, events []models.CalendarEvent) string {
	if len(events) == 0 {
		return t.faint("No meetings scheduled.")
	}
	sorted := append([]models.CalendarEvent(nil), events...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ScheduledTime.Before(sorted[j].ScheduledTime)
	})

	lines := []string{t.header("Meetings")}
	for _, ev := range sorted {
		lines = append(lines, renderEvent(t, ev))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderHistory(t Theme, users []models.User) string {
	if len(users) == 0 {
		return t.faint("No matches yet.")
	}
	lines := []string{t.header("Match history")}
	for _, u := range users {
		lines = append(lines, fmt.Sprintf("%s  %s  %s", t.faint(u.ID), u.Name, t.faint(u.DisplayRole())))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderCounts(t Theme, counts map[string]int) string {
	if len(counts) == 0 {
		return t.faint("No matches yet.")
	}
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	lines := []string{t.header("Match counts")}
	for _, id := range ids {
		lines = append(lines, fmt.Sprintf("%s  %d", id, counts[id]))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderStats(t Theme, stats []services.MatchStat) string {
	if len(stats) == 0 {
		return t.faint("No statistics yet.")
	}
	name := lipgloss.NewStyle().Width(24)
	lines := []string{t.header("Match statistics")}
	for _, s := range stats {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, name.Render(s.User.Name), fmt.Sprintf("%dx", s.Count)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderNotifications(t Theme, ns []models.Notification) string {
	if len(ns) == 0 {
		return t.faint("No notifications.")
	}
	lines := []string{t.header("Notifications")}
	for _, n := range ns {
		mark := "*"
		if n.Read {
			mark = " "
		}
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s", mark, t.faint(n.ID), n.Content, t.faint(n.CreatedAt.Local().Format(timeLayout))))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
