// Package common contains small helpers shared by the REST wrapper and the
// real-time channel: bearer header handling and memory wiping.
package common

const (
	// AuthorizationHeader carries the bearer credential on REST calls and on
	// the WebSocket handshake.
	AuthorizationHeader = "Authorization"

	// BearerScheme is the auth scheme prefix used by the backend.
	BearerScheme = "Bearer"
)
