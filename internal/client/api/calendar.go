package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/relate15/internal/client/models"
)

type EventRequest struct {
	ScheduledTime time.Time `json:"scheduledTime"`
	ParticipantID string    `json:"participantId"`
}

func (c *Client) ListEvents(ctx context.Context) ([]models.CalendarEvent, error) {
	var out struct {
		Events []models.CalendarEvent `json:"events"`
	}
	if err := c.getJSON(ctx, Endpoints.Calendar.Events, &out); err != nil {
		return nil, err
	}
	return out.Events, nil
}

func (c *Client) CreateEvent(ctx context.Context, in EventRequest) (*models.CalendarEvent, error) {
	var out models.CalendarEvent
	if err := c.sendJSON(ctx, http.MethodPost, Endpoints.Calendar.Events, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateEvent(ctx context.Context, id string, in EventRequest) (*models.CalendarEvent, error) {
	var out models.CalendarEvent
	if err := c.sendJSON(ctx, http.MethodPut, EventPath(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	return c.sendJSON(ctx, http.MethodDelete, EventPath(id), nil, nil)
}

func (c *Client) ConfirmEvent(ctx context.Context, id string) (*models.CalendarEvent, error) {
	var out models.CalendarEvent
	if err := c.sendJSON(ctx, http.MethodPost, ConfirmEventPath(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
