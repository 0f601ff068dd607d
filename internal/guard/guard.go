// Package guard protects a held admission slot while the user is on the
// seat-selection surface. Leaving the surface — deliberately or by tearing
// the process down — releases the slot on a best-effort basis so it does
// not sit idle until server-side expiry.
package guard

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/tokenstore"
)

// Guard watches one event's seat session. It only acts while a queue token
// is held; once the token is gone there is nothing left to protect.
type Guard struct {
	api     api.TicketAPI
	store   tokenstore.Store
	logger  *slog.Logger
	eventID int64

	mu              sync.Mutex
	allowInternal   bool
	leaveInProgress bool
}

// New creates a guard for the given event.
func New(a api.TicketAPI, store tokenstore.Store, logger *slog.Logger, eventID int64) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{api: a, store: store, logger: logger, eventID: eventID}
}

// AllowInternal marks the next exit as a deliberate in-flow redirect
// (successful booking, hand-off to the waiting surface). Such exits skip
// both the confirmation and the leave-queue call.
func (g *Guard) AllowInternal() {
	g.mu.Lock()
	g.allowInternal = true
	g.mu.Unlock()
}

// InternalAllowed reports whether the next exit is pre-approved.
func (g *Guard) InternalAllowed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.allowInternal
}

// ConfirmNavigation intercepts an in-app navigation attempt. It returns
// true when navigation may proceed. With a token held and no internal
// approval, confirm is asked; cancelling keeps the token untouched and
// blocks the navigation. Confirming releases the slot (best-effort leave,
// failure logged and swallowed), clears the token, and lets the
// navigation through.
func (g *Guard) ConfirmNavigation(ctx context.Context, confirm func(message string) bool) bool {
	token := g.store.Queue(g.eventID)
	if token == "" || g.InternalAllowed() {
		return true
	}

	g.mu.Lock()
	if g.leaveInProgress {
		g.mu.Unlock()
		return true
	}
	g.mu.Unlock()

	if !confirm(LeaveSeatSelectionMessage) {
		return false
	}

	g.mu.Lock()
	g.leaveInProgress = true
	g.mu.Unlock()

	g.leave(ctx, token)
	return true
}

// unloadWait bounds how long HandleUnload holds the teardown open for the
// detached leave attempt. Without this grace period a caller exiting right
// after HandleUnload would kill the process before the request is written.
const unloadWait = 3 * time.Second

// HandleUnload covers the non-interactive teardown (tab close, SIGINT):
// the leave call is dispatched in detached keepalive mode and the local
// token is cleared synchronously. The return waits, bounded by unloadWait,
// for the attempt to finish so the call survives an immediate process
// exit; its outcome is still ignored. Returns true when the unload needed
// the generic leave warning, i.e. a slot was actually being held.
func (g *Guard) HandleUnload() bool {
	token := g.store.Queue(g.eventID)
	if token == "" || g.InternalAllowed() {
		return false
	}

	g.mu.Lock()
	if g.leaveInProgress {
		g.mu.Unlock()
		return false
	}
	g.leaveInProgress = true
	g.mu.Unlock()

	done := g.api.LeaveQueueDetached(g.eventID, token)
	g.store.ClearQueue(g.eventID)
	select {
	case <-done:
	case <-time.After(unloadWait):
		g.logger.Warn("unload leave still pending at teardown",
			"event_id", g.eventID)
	}
	return true
}

// Release is the explicit exit: leave the queue (best-effort) and clear
// the token, no confirmation. Booking success does not clear the token by
// itself; the flow ends by calling Release (or navigating away).
func (g *Guard) Release(ctx context.Context) {
	token := g.store.Queue(g.eventID)
	if token == "" {
		g.store.ClearQueue(g.eventID)
		return
	}
	g.leave(ctx, token)
}

// leave releases the slot and always clears the local token: the leave
// call failing must never re-surface or keep the token alive.
func (g *Guard) leave(ctx context.Context, token string) {
	defer g.store.ClearQueue(g.eventID)
	if err := g.api.LeaveQueue(ctx, g.eventID, token); err != nil {
		g.logger.Warn("leave queue call failed",
			"event_id", g.eventID, "error", err)
	}
}
