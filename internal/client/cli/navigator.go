package cli

import (
	"fmt"

	"github.com/dmitrijs2005/relate15/internal/client/session"
)

// ToLogin is invoked by the REST client after the backend rejected the
// credential. The credential is already gone; the session is reset so the
// channel closes, and the next prompt asks for a login. A rejection of the
// logout call itself is not reported.
func (a *App) ToLogin() {
	wasAuthenticated := a.isLoggedIn()
	if a.session != nil {
		a.session.Dispatch(session.Logout())
	}

	a.mu.Lock()
	if a.loggingOut {
		a.mu.Unlock()
		return
	}
	a.loginRequired = true
	a.activeChat = ""
	a.mu.Unlock()

	if wasAuthenticated {
		fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
	}
}

func (a *App) clearLoginRequired() {
	a.mu.Lock()
	a.loginRequired = false
	a.mu.Unlock()
}

// getStatus renders the prompt status: user name, connectivity mode, unread
// notifications, and a login hint after the session was rejected.
func (a *App) getStatus() string {
	a.mu.Lock()
	mode, loginRequired := a.mode, a.loginRequired
	a.mu.Unlock()

	s := ""
	if a.session != nil {
		if u := a.session.State().User; u != nil {
			s = u.Name + " "
		}
	}
	if mode != "" {
		s += string(mode)
	}
	if a.channel != nil {
		if n := a.channel.UnreadNotifications(); n > 0 {
			if s != "" {
				s += " "
			}
			s += fmt.Sprintf("%d new", n)
		}
	}
	if loginRequired {
		if s != "" && s[len(s)-1] != ' ' {
			s += " "
		}
		s += "login required"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
