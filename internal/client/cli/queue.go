package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/relate15/internal/client/api"
	"github.com/dmitrijs2005/relate15/internal/client/services"
)

// Book puts the user in the matchmaking queue and prints the resulting
// status dialog.
func (a *App) Book(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if _, err := a.queueService.Book(ctx); err != nil {
		return commandError(err, "Failed to book call")
	}
	fmt.Fprintln(a.out, renderStatus(defaultTheme, a.session.State()))
	return nil
}

// Status refreshes and prints the queue status dialog.
func (a *App) Status(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if _, err := a.queueService.Refresh(ctx); err != nil {
		return commandError(err, "Failed to fetch queue status")
	}
	fmt.Fprintln(a.out, renderStatus(defaultTheme, a.session.State()))
	return nil
}

func (a *App) History(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	h, err := a.queueService.History(ctx)
	if err != nil {
		return commandError(err, "Failed to load data")
	}
	fmt.Fprintln(a.out, renderHistory(defaultTheme, h))
	return nil
}

func (a *App) Counts(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	c, err := a.queueService.Counts(ctx)
	if err != nil {
		return commandError(err, "Failed to load data")
	}
	fmt.Fprintln(a.out, renderCounts(defaultTheme, c))
	return nil
}

// Stats prints how often each past match appears across the match lists
// of the history.
func (a *App) Stats(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	stats, err := a.queueService.Statistics(ctx)
	if err != nil {
		return commandError(err, "Failed to load data")
	}
	fmt.Fprintln(a.out, renderStats(defaultTheme, stats))
	return nil
}

// commandError maps service errors to the message shown at the prompt.
// Unauthorized calls return nil: the navigator has already told the user.
func commandError(err error, fallback string) error {
	switch {
	case err == nil, errors.Is(err, api.ErrUnauthorized):
		return nil
	case errors.Is(err, services.ErrAlreadyQueued):
		return errors.New("You are already waiting for or matched with a partner")
	case errors.Is(err, services.ErrNoMatch):
		return errors.New("No available match to schedule a meeting with")
	case errors.Is(err, api.ErrUnavailable):
		return errors.New("Error: server unavailable, try again later")
	case errors.Is(err, context.DeadlineExceeded):
		return errors.New("Error: request timed out")
	}
	return fmt.Errorf("Error: %s", api.Message(err, fallback))
}
