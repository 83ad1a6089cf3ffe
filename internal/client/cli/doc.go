// Package cli provides the interactive Relate15 command-line client.
//
// It wires configuration, local storage, the session store, the REST client,
// the real-time channel and the services into a REPL. Typical flow: verify a
// stored credential, start the connectivity watcher, then execute user
// commands until exit.
//
// Key features:
//   - Register / Login / Logout, profile card
//   - Matchmaking queue: book a call, status, history, counts, statistics
//   - Chat with matches over the real-time channel
//   - Calendar: list, schedule, confirm and cancel follow-up meetings
//   - Notifications pushed by the server
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
