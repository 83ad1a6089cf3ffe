package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/relate15/internal/client/models"
)

// BookCall enters the matchmaking queue.
func (c *Client) BookCall(ctx context.Context) (*models.QueueUpdate, error) {
	var out models.QueueUpdate
	if err := c.sendJSON(ctx, http.MethodPost, Endpoints.Queue.Book, nil, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("api: book: %w", err)
	}
	return &out, nil
}

// QueueStatus reads the current queue state.
func (c *Client) QueueStatus(ctx context.Context) (*models.QueueUpdate, error) {
	var out models.QueueUpdate
	if err := c.getJSON(ctx, Endpoints.Queue.Status, &out); err != nil {
		return nil, err
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("api: queue status: %w", err)
	}
	return &out, nil
}

// MatchHistory lists the users the caller has been matched with.
func (c *Client) MatchHistory(ctx context.Context) ([]models.User, error) {
	var out []models.User
	if err := c.getJSON(ctx, Endpoints.Queue.History, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MatchCounts maps a matched user id to the number of times matched.
func (c *Client) MatchCounts(ctx context.Context) (map[string]int, error) {
	out := map[string]int{}
	if err := c.getJSON(ctx, Endpoints.Queue.Counts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentMatch returns the user of the ongoing match.
func (c *Client) CurrentMatch(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.getJSON(ctx, Endpoints.Queue.Current, &out); err != nil {
		return nil, err
	}
	if out.ID == "" {
		return nil, fmt.Errorf("api: current match lacks id")
	}
	return &out, nil
}
