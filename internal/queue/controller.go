// Package queue drives the admission lifecycle for one event: entering the
// waiting line, polling until admission, recovering from rejected tokens,
// and wrapping the protected seat/booking calls with bounded retry.
package queue

import (
	"context"
	"errors"
	"log/slog"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/tokenstore"
)

// ErrNoToken is returned by WithToken when no queue token is held for the
// event; the caller left the protected surface (or never entered it).
var ErrNoToken = errors.New("no queue token held for event")

// ErrReentryWaiting is returned when a recovery re-entry landed back in
// the waiting line: the protected call cannot proceed and the caller must
// return to the waiting surface with the fresh token.
var ErrReentryWaiting = errors.New("re-entered queue but admission is pending")

// Controller owns the queue-token lifecycle for protected calls. The
// server is the single authority on token validity: every rejection is
// final and the controller never assumes local validity beyond the last
// server response.
type Controller struct {
	api    api.TicketAPI
	store  tokenstore.Store
	logger *slog.Logger
}

// NewController wires a controller over the gateway and token store.
func NewController(a api.TicketAPI, store tokenstore.Store, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{api: a, store: store, logger: logger}
}

// API exposes the underlying gateway for callers that combine protected
// calls with WithToken.
func (c *Controller) API() api.TicketAPI { return c.api }

// Store exposes the token store backing this controller.
func (c *Controller) Store() tokenstore.Store { return c.store }

// EnsureToken returns an admission status for the event. A locally held
// token short-circuits without a network call unless force is set; the
// server decides later whether it is still valid. Otherwise the queue is
// entered and the issued token persisted. Callers must check the returned
// Phase: WAITING means redirect to the waiting surface, the token is not
// usable for protected calls yet.
func (c *Controller) EnsureToken(ctx context.Context, eventID int64, force bool) (*api.QueueStatus, error) {
	if !force {
		if token := c.store.Queue(eventID); token != "" {
			return &api.QueueStatus{Token: token, Phase: api.PhaseAllowed}, nil
		}
	}
	status, err := c.api.EnterQueue(ctx, eventID)
	if err != nil {
		return nil, err
	}
	c.store.SetQueue(eventID, status.Token)
	return status, nil
}

// CheckOnce verifies the token against the server and persists the
// possibly rotated token from the response.
func (c *Controller) CheckOnce(ctx context.Context, eventID int64, token string) (*api.QueueStatus, error) {
	status, err := c.api.CheckQueueStatus(ctx, eventID, token)
	if err != nil {
		return nil, err
	}
	c.store.SetQueue(eventID, status.Token)
	return status, nil
}

// Recover drops the rejected local token and re-enters the queue once.
// This is the single bounded re-entry every recovery path goes through.
func (c *Controller) Recover(ctx context.Context, eventID int64) (*api.QueueStatus, error) {
	c.store.ClearQueue(eventID)
	status, err := c.api.EnterQueue(ctx, eventID)
	if err != nil {
		return nil, err
	}
	c.store.SetQueue(eventID, status.Token)
	return status, nil
}

// WithToken runs fn with the held queue token. If the server rejects the
// token, the controller recovers (one re-entry) and retries fn exactly
// once; a second rejection, an expired session, or any other failure is
// returned as-is. This is the retry contract shared by seat fetches and
// booking submission.
func (c *Controller) WithToken(ctx context.Context, eventID int64, fn func(token string) error) error {
	token := c.store.Queue(eventID)
	if token == "" {
		return ErrNoToken
	}

	err := fn(token)
	if err == nil || Classify(err) != KindTokenInvalid {
		return err
	}

	c.logger.Info("queue token rejected, re-entering once",
		"event_id", eventID, "error", err)
	status, rerr := c.Recover(ctx, eventID)
	if rerr != nil {
		return rerr
	}
	if status.Phase != api.PhaseAllowed {
		return ErrReentryWaiting
	}
	return fn(status.Token)
}
