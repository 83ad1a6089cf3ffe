package api

import "net/url"

// Endpoints is the path table of the backend, relative to the base URL.
var Endpoints = struct {
	Auth struct {
		Register, Login, Verify, Logout string
	}
	Queue struct {
		Book, Status, History, Counts, Current string
	}
	Calendar struct {
		Events string
	}
	Chat struct {
		MarkAsRead string
	}
	Health string
}{
	Auth: struct{ Register, Login, Verify, Logout string }{
		Register: "/auth/register",
		Login:    "/auth/login",
		Verify:   "/auth/verify",
		Logout:   "/auth/logout",
	},
	Queue: struct{ Book, Status, History, Counts, Current string }{
		Book:    "/queue/book",
		Status:  "/queue/status",
		History: "/queue/history",
		Counts:  "/queue/match-counts",
		Current: "/queue/current",
	},
	Calendar: struct{ Events string }{
		Events: "/calendar/events",
	},
	Chat: struct{ MarkAsRead string }{
		MarkAsRead: "/chat/mark-as-read",
	},
	Health: "/health",
}

// EventPath is the path of a single calendar event.
func EventPath(id string) string {
	return Endpoints.Calendar.Events + "/" + url.PathEscape(id)
}

// ConfirmEventPath is the confirm action of a single calendar event.
func ConfirmEventPath(id string) string {
	return EventPath(id) + "/confirm"
}

// ChatHistoryPath is the stored conversation with a match, nested under the
// calendar resource by the backend.
func ChatHistoryPath(matchID string) string {
	return EventPath(matchID) + "/chat"
}
