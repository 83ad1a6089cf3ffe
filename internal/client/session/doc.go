// Package session holds the process-wide record of who is logged in and
// where they are in the matchmaking queue.
//
// State only changes through Dispatch with one of the named actions, which
// are applied by the pure Reduce function. Store adds the operations that
// talk to the backend (VerifyAuth, Login, Logout) and lets views and the
// real-time channel observe every change through Subscribe.
//
// Lifecycle:
//
//	verifying ──VerifyAuth ok──▶ authenticated ──Logout──▶ unauthenticated
//	    └────── no/invalid credential ──────────────────▶ unauthenticated
package session
