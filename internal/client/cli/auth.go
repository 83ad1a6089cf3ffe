package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/dmitrijs2005/relate15/internal/client/services"
	"github.com/dmitrijs2005/relate15/internal/common"
)

// getSimpleText, getPassword, getMultiline and getList are indirections used
// to facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline
var getList = GetList

// Register prompts for the signup form and creates the account. It does not
// log in; the user is asked to do so afterwards.
func (a *App) Register(ctx context.Context) error {
	var (
		in  services.Signup
		err error
	)

	if in.Email, err = getSimpleText(a.reader, "Enter email", a.out); err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	in.Password = string(password)

	if in.Name, err = getSimpleText(a.reader, "Enter name", a.out); err != nil {
		return err
	}
	if in.Role, err = getSimpleText(a.reader, "Enter role (e.g. student, mentor)", a.out); err != nil {
		return err
	}
	if in.Interests, err = getList(a.reader, "Enter interests", a.out); err != nil {
		return err
	}
	if in.Bio, err = getMultiline(a.reader, "Enter bio", a.out); err != nil {
		return err
	}
	if in.PicturePath, err = getSimpleText(a.reader, "Profile picture path (empty to skip)", a.out); err != nil {
		return err
	}

	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	msg, err := a.authService.Register(ctx, in)
	if err != nil {
		if errors.Is(err, services.ErrMissingField) {
			return fmt.Errorf("Error: %v", err)
		}
		return fmt.Errorf("Error: %s", api.Message(err, "Registration failed"))
	}

	if msg == "" {
		msg = "Registration successful"
	}
	fmt.Fprintf(a.out, "%s. You can now log in.\n", msg)
	return nil
}

// Login prompts for credentials and authenticates through the session store.
// On failure the message stored in the session is shown.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	callCtx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.authService.Login(callCtx, email, string(password)); err != nil {
		return a.sessionError("Login failed")
	}

	a.clearLoginRequired()
	name := email
	if u := a.session.State().User; u != nil {
		name = u.Name
	}
	fmt.Fprintf(a.out, "Welcome, %s!\n", name)
	return nil
}

// Logout ends the session. The local state is reset even when the server
// call fails.
func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	a.mu.Lock()
	a.loggingOut = true
	a.mu.Unlock()

	a.authService.Logout(ctx)

	a.mu.Lock()
	a.loggingOut = false
	a.activeChat = ""
	a.mu.Unlock()

	fmt.Fprintln(a.out, "Logged out")
	return nil
}

// Whoami prints the profile card of the logged-in user.
func (a *App) Whoami(ctx context.Context) error {
	st := a.session.State()
	if st.User == nil {
		return errors.New("Error: no user information available")
	}
	fmt.Fprintln(a.out, renderProfile(defaultTheme, *st.User))
	return nil
}

// sessionError turns the error message recorded in the session into a
// user-facing error, falling back to fallback.
func (a *App) sessionError(fallback string) error {
	msg := a.session.State().Error
	if msg == "" {
		msg = fallback
	}
	return fmt.Errorf("Error: %s", msg)
}
