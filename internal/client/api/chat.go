package api

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/relate15/internal/client/models"
)

// MarkAsRead marks every message received from counterpartID as read.
func (c *Client) MarkAsRead(ctx context.Context, counterpartID string) error {
	return c.sendJSON(ctx, http.MethodPost, Endpoints.Chat.MarkAsRead, map[string]string{
		"senderId": counterpartID,
	}, nil)
}

// ChatHistory fetches the stored conversation with matchID.
func (c *Client) ChatHistory(ctx context.Context, matchID string) ([]models.ChatMessage, error) {
	var out struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if err := c.getJSON(ctx, ChatHistoryPath(matchID), &out); err != nil {
		return nil, err
	}
	return out.Messages, nil
}
