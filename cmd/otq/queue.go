package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/nats-io/nats.go"
	"github.com/spf13/cobra"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/events"
	"github.com/openticket/otq/internal/queue"
	"github.com/openticket/otq/internal/session"
)

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Enter and monitor the admission queue",
}

var queueEnterCmd = &cobra.Command{
	Use:   "enter <event-id>",
	Short: "Enter the admission queue for an event",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args[0])
		if err != nil {
			return err
		}
		force, _ := cmd.Flags().GetBool("force")

		status, err := ctrl.EnsureToken(cmd.Context(), eventID, force)
		if err != nil {
			return sessionAware(err)
		}
		printQueueStatus(status)
		return nil
	},
}

var queueStatusCmd = &cobra.Command{
	Use:   "status <event-id>",
	Short: "Check the held queue token once",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		token := store.Queue(eventID)
		if token == "" {
			return fmt.Errorf("no queue token held for event %d; run 'otq queue enter %d'", eventID, eventID)
		}

		status, err := ctrl.CheckOnce(cmd.Context(), eventID, token)
		if err != nil {
			if queue.Classify(err) == queue.KindTokenInvalid {
				store.ClearQueue(eventID)
				return fmt.Errorf("queue token expired; run 'otq queue enter %d'", eventID)
			}
			return sessionAware(err)
		}
		printQueueStatus(status)
		return nil
	},
}

var queueLeaveCmd = &cobra.Command{
	Use:   "leave <event-id>",
	Short: "Leave the queue and discard the held token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		token := store.Queue(eventID)
		if token == "" {
			fmt.Println("no queue token held")
			return nil
		}
		// The local token is discarded even when the server call fails;
		// an unreachable server must not pin the client in the queue.
		defer store.ClearQueue(eventID)
		if err := client.LeaveQueue(cmd.Context(), eventID, token); err != nil {
			logger.Warn("leave queue failed", "event", eventID, "error", err)
		}
		fmt.Println("left the queue")
		return nil
	},
}

var queueWatchCmd = &cobra.Command{
	Use:   "watch <event-id>",
	Short: "Wait in the queue until admission is granted",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args[0])
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("interval") {
			cfg.PollInterval, _ = cmd.Flags().GetDuration("interval")
			if cfg.PollInterval <= 0 {
				return fmt.Errorf("--interval must be positive")
			}
		}
		if cmd.Flags().Changed("nats") {
			cfg.NATSURL, _ = cmd.Flags().GetString("nats")
		}
		once, _ := cmd.Flags().GetBool("once")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		// Enter only when no token is held; the first poll cycle verifies
		// a held token against the server either way.
		token := store.Queue(eventID)
		if token == "" {
			status, err := ctrl.EnsureToken(ctx, eventID, false)
			if err != nil {
				return sessionAware(err)
			}
			if status.Phase == api.PhaseAllowed {
				printQueueStatus(status)
				return nil
			}
			printQueueStatus(status)
			token = status.Token
		} else if once {
			status, err := ctrl.CheckOnce(ctx, eventID, token)
			if err != nil {
				return sessionAware(err)
			}
			printQueueStatus(status)
			return nil
		}
		if once {
			return nil
		}

		var status *api.QueueStatus
		if cfg.NATSURL != "" {
			status, err = watchNATS(ctx, eventID, token)
		} else {
			status, err = watchPoll(ctx, eventID, token)
		}
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return sessionAware(err)
		}
		printQueueStatus(status)
		return nil
	},
}

// watchPoll drives the self-scheduling status poller until admission.
func watchPoll(ctx context.Context, eventID int64, token string) (*api.QueueStatus, error) {
	p := &queue.Poller{
		Ctrl:     ctrl,
		Monitor:  monitor,
		Interval: cfg.PollInterval,
		OnUpdate: func(s api.QueueStatus) { printQueueStatus(&s) },
		FromPath: fmt.Sprintf("/events/%d/seats/queue", eventID),
		Logger:   logger,
	}
	return p.Run(ctx, eventID, token)
}

// watchNATS consumes pushed admission updates instead of polling. Status is
// still confirmed against the server once an ALLOWED update arrives, since
// the token may have rotated.
func watchNATS(ctx context.Context, eventID int64, token string) (*api.QueueStatus, error) {
	sub, err := events.NewNATSSubscriber(cfg.NATSURL,
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats: disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			log.Printf("nats: reconnected")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS: %w", err)
	}
	defer sub.Close()

	ch, cancel, err := sub.Subscribe(events.QueueTopic(eventID))
	if err != nil {
		return nil, fmt.Errorf("subscribing to queue updates: %w", err)
	}
	defer cancel()

	// One check up front, after subscribing so no push is missed: a token
	// that is already ALLOWED would otherwise wait for an update that may
	// never come.
	status, err := ctrl.CheckOnce(ctx, eventID, token)
	if err != nil {
		return nil, err
	}
	if status.Phase == api.PhaseAllowed {
		return status, nil
	}
	token = status.Token
	printQueueStatus(status)

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil, fmt.Errorf("queue update stream closed")
			}
			update, err := events.DecodeQueueUpdate(msg)
			if err != nil {
				logger.Warn("dropping malformed queue update", "error", err)
				continue
			}
			if update.Status.Phase != api.PhaseAllowed {
				printQueueStatus(&update.Status)
				continue
			}
			// Confirm against the server before reporting admission.
			status, err := ctrl.CheckOnce(ctx, eventID, token)
			if err != nil {
				return nil, err
			}
			if status.Phase == api.PhaseAllowed {
				return status, nil
			}
			token = status.Token
			printQueueStatus(status)
		}
	}
}

// sessionAware maps an expired session to the monitor prompt so the notice
// printed for the user explains the required re-login.
func sessionAware(err error) error {
	if session.IsAuthExpired(err) {
		monitor.Prompt(session.ExpiredPrompt{RequiresAuthRoute: true})
		return fmt.Errorf("session expired")
	}
	return err
}

func init() {
	queueEnterCmd.Flags().Bool("force", false, "re-enter even when a token is already held")
	queueWatchCmd.Flags().Duration("interval", 0, "polling interval (defaults to OTQ_POLL_INTERVAL)")
	queueWatchCmd.Flags().Bool("once", false, "exit after one enter or status check")
	queueWatchCmd.Flags().String("nats", "", "NATS URL for pushed updates (empty = poll)")

	queueCmd.AddCommand(queueEnterCmd)
	queueCmd.AddCommand(queueStatusCmd)
	queueCmd.AddCommand(queueLeaveCmd)
	queueCmd.AddCommand(queueWatchCmd)
}
