// internal/adapter/remotehttp/gateway.go

// Package remotehttp implements the remote gateway over the backend's
// JSON API.
package remotehttp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-resty/resty/v2"

	"unispace/internal/domain/remote"
)

// Config contains configuration for the HTTP gateway.
type Config struct {
	BaseURL     string
	Timeout     time.Duration
	MaxRetries  uint64
	BaseBackoff time.Duration
}

// Gateway talks to the remote space service over HTTP. Transient
// failures (5xx, transport errors) are retried with exponential
// backoff; 4xx responses fail fast.
type Gateway struct {
	client *resty.Client
	config Config
}

// New creates an HTTP gateway.
func New(config Config) *Gateway {
	client := resty.New().
		SetBaseURL(config.BaseURL).
		SetTimeout(config.Timeout).
		SetHeader("Accept", "application/json")

	return &Gateway{client: client, config: config}
}

// ListSpaces fetches the full space list.
func (g *Gateway) ListSpaces(ctx context.Context) ([]remote.SpaceRecord, error) {
	var records []remote.SpaceRecord
	err := g.retry(ctx, func() error {
		resp, err := g.client.R().
			SetContext(ctx).
			SetResult(&records).
			Get("/spaces")
		return g.checkResponse(resp, err)
	})
	if err != nil {
		return nil, fmt.Errorf("listing spaces: %w", err)
	}
	return records, nil
}

// CreateSpace asks the remote to create a space and returns the record
// carrying the remote-assigned id.
func (g *Gateway) CreateSpace(ctx context.Context, draft remote.SpaceDraft) (remote.SpaceRecord, error) {
	var record remote.SpaceRecord
	err := g.retry(ctx, func() error {
		resp, err := g.client.R().
			SetContext(ctx).
			SetBody(draft).
			SetResult(&record).
			Post("/spaces")
		return g.checkResponse(resp, err)
	})
	if err != nil {
		return remote.SpaceRecord{}, fmt.Errorf("creating space: %w", err)
	}
	return record, nil
}

// JoinSpace registers userID as a participant on the remote.
func (g *Gateway) JoinSpace(ctx context.Context, spaceID, userID string) error {
	err := g.retry(ctx, func() error {
		resp, err := g.client.R().
			SetContext(ctx).
			SetBody(map[string]string{"user_id": userID}).
			Post(fmt.Sprintf("/spaces/%s/join", spaceID))
		return g.checkResponse(resp, err)
	})
	if err != nil {
		return fmt.Errorf("joining space %s: %w", spaceID, err)
	}
	return nil
}

// LeaveSpace removes userID from the space on the remote.
func (g *Gateway) LeaveSpace(ctx context.Context, spaceID, userID string) error {
	err := g.retry(ctx, func() error {
		resp, err := g.client.R().
			SetContext(ctx).
			SetBody(map[string]string{"user_id": userID}).
			Post(fmt.Sprintf("/spaces/%s/leave", spaceID))
		return g.checkResponse(resp, err)
	})
	if err != nil {
		return fmt.Errorf("leaving space %s: %w", spaceID, err)
	}
	return nil
}

func (g *Gateway) retry(ctx context.Context, op func() error) error {
	exp := backoff.NewExponentialBackOff()
	if g.config.BaseBackoff > 0 {
		exp.InitialInterval = g.config.BaseBackoff
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(exp, g.config.MaxRetries), ctx)
	return backoff.Retry(op, policy)
}

// checkResponse classifies a response: client errors are permanent,
// server errors and transport failures are retried.
func (g *Gateway) checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	code := resp.StatusCode()
	switch {
	case code >= 200 && code < 300:
		return nil
	case code >= 400 && code < 500 && code != http.StatusTooManyRequests && code != http.StatusRequestTimeout:
		return backoff.Permanent(fmt.Errorf("remote returned %d: %s", code, resp.Status()))
	default:
		return fmt.Errorf("remote returned %d: %s", code, resp.Status())
	}
}
