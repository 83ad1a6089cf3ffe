package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/relate15/internal/client/api"
)

// Events lists the calendar and refreshes the channel's copy of it. The
// channel's copy is what gets rendered; when the backend cannot be reached
// the last known copy is shown instead.
func (a *App) Events(ctx context.Context) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	events, err := a.calendarService.List(ctx)
	if err != nil {
		cached := a.channel.Events()
		if len(cached) == 0 || errors.Is(err, api.ErrUnauthorized) {
			return commandError(err, "Failed to load events")
		}
		a.log.Warn(ctx, "calendar list failed, showing last known events", "error", err)
		fmt.Fprintln(a.out, "Could not refresh events, showing the last known ones.")
		fmt.Fprintln(a.out, renderEvents(defaultTheme, cached))
		return nil
	}
	a.channel.SeedEvents(events)
	fmt.Fprintln(a.out, renderEvents(defaultTheme, a.channel.Events()))
	return nil
}

// Schedule books a follow-up meeting with the latest match at when.
func (a *App) Schedule(ctx context.Context, when time.Time) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	ev, err := a.calendarService.Schedule(ctx, when)
	if err != nil {
		return commandError(err, "Failed to schedule meeting")
	}
	fmt.Fprintf(a.out, "Scheduled: %s\n", renderEvent(defaultTheme, *ev))
	return nil
}

// Reschedule moves an existing event to when.
func (a *App) Reschedule(ctx context.Context, id string, when time.Time) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	events, err := a.calendarService.List(ctx)
	if err != nil {
		return commandError(err, "Failed to load events")
	}
	for _, ev := range events {
		if ev.ID != id {
			continue
		}
		ev.ScheduledTime = when
		out, err := a.calendarService.Update(ctx, ev)
		if err != nil {
			return commandError(err, "Failed to update meeting")
		}
		fmt.Fprintf(a.out, "Rescheduled: %s\n", renderEvent(defaultTheme, *out))
		return nil
	}
	return fmt.Errorf("Event %s not found", id)
}

func (a *App) Confirm(ctx context.Context, id string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	ev, err := a.calendarService.Confirm(ctx, id)
	if err != nil {
		return commandError(err, "Failed to confirm meeting")
	}
	fmt.Fprintf(a.out, "Confirmed: %s\n", renderEvent(defaultTheme, *ev))
	return nil
}

func (a *App) Cancel(ctx context.Context, id string) error {
	ctx, cancel := a.callCtx(ctx)
	defer cancel()

	if err := a.calendarService.Cancel(ctx, id); err != nil {
		return commandError(err, "Failed to cancel meeting")
	}
	fmt.Fprintln(a.out, "Meeting canceled")
	return nil
}
