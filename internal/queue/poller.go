package queue

import (
	"context"
	"log/slog"
	"time"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/session"
)

// DefaultInterval is the fixed spacing between status checks.
const DefaultInterval = 2 * time.Second

// Poller runs the cooperative polling loop for one event's waiting line.
// Checks are strictly sequential: the timer for the next check is armed
// only after the previous response has been fully handled, so two checks
// for the same event never overlap.
type Poller struct {
	Ctrl    *Controller
	Monitor *session.Monitor

	// Interval defaults to DefaultInterval when zero.
	Interval time.Duration
	// OnUpdate is invoked after every handled WAITING response.
	OnUpdate func(api.QueueStatus)
	// FromPath is recorded on the session prompt if auth expires mid-poll.
	FromPath string
	Logger   *slog.Logger
}

// Run polls until admission. It returns the final ALLOWED status exactly
// once, or the terminal error that stopped polling:
//   - auth expiry raises the monitor prompt (deduplicated) and halts;
//   - a rejected token triggers one re-entry, then polling resumes from
//     the next check; a second rejection or a failed re-entry halts;
//   - any other error halts and is surfaced — no silent retry;
//   - ctx cancellation (teardown) stops the pending timer and discards
//     any in-flight result.
func (p *Poller) Run(ctx context.Context, eventID int64, token string) (*api.QueueStatus, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	reentered := false
	for {
		status, err := p.Ctrl.CheckOnce(ctx, eventID, token)
		if err != nil {
			switch Classify(err) {
			case KindAuthExpired:
				if p.Monitor != nil {
					p.Monitor.Prompt(session.ExpiredPrompt{
						FromPath:          p.FromPath,
						RequiresAuthRoute: true,
					})
				}
				return nil, err
			case KindTokenInvalid:
				if reentered {
					return nil, err
				}
				reentered = true
				logger.Info("queue token rejected mid-poll, re-entering",
					"event_id", eventID)
				recovered, rerr := p.Ctrl.Recover(ctx, eventID)
				if rerr != nil {
					return nil, rerr
				}
				if recovered.Phase == api.PhaseAllowed {
					return recovered, nil
				}
				token = recovered.Token
				if p.OnUpdate != nil {
					p.OnUpdate(*recovered)
				}
				continue
			default:
				return nil, err
			}
		}

		token = status.Token
		if status.Phase == api.PhaseAllowed {
			return status, nil
		}
		if p.OnUpdate != nil {
			p.OnUpdate(*status)
		}

		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}
