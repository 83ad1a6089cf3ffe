package services

import "github.com/dmitrijs2005/relate15/internal/client/session"

// Session is the part of session.Store the services read and update.
type Session interface {
	State() session.State
	Dispatch(session.Action)
}
