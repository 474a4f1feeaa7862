package api

import (
	"context"
	"fmt"
	"strconv"

	"github.com/matrixlogger/mxl/pkg/types"
)

const (
	// DefaultLogLimit is used when no page size is requested.
	DefaultLogLimit = 50
	// MaxLogLimit is the server's page size ceiling.
	MaxLogLimit = 500
)

// FetchLogs fetches one page of log entries for an app, newest first.
// A nil-equivalent (empty) cursor requests the head of the stream.
func (c *Client) FetchLogs(ctx context.Context, appID, cursor string, limit int) (*types.LogPage, error) {
	if appID == "" {
		return nil, fmt.Errorf("%w: app id is required", ErrValidation)
	}
	if limit <= 0 {
		limit = DefaultLogLimit
	}
	if limit > MaxLogLimit {
		return nil, fmt.Errorf("%w: limit must be at most %d", ErrValidation, MaxLogLimit)
	}

	var page types.LogPage
	q := query(map[string]string{
		"appId":  appID,
		"limit":  strconv.Itoa(limit),
		"cursor": cursor,
	})
	if err := c.get(ctx, "/logs"+q, &page); err != nil {
		return nil, err
	}
	return &page, nil
}
