// Package channel keeps the real-time connection of an authenticated
// session.
//
// A Manager watches the session store: it dials the backend when the
// session becomes authenticated and tears the connection down when it does
// not. Server-pushed events are mirrored into local state (conversations
// keyed by counterpart, notifications, calendar events) and into the
// session store (queue status and the matched user). Views observe changes
// through Manager.Subscribe.
//
// Frames are JSON text messages:
//
//	{"event": "newMessage", "data": {...}, "requestId": "..."}
package channel
