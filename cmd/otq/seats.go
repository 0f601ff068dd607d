package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/booking"
	"github.com/openticket/otq/internal/queue"
	"github.com/openticket/otq/internal/session"
)

var seatsCmd = &cobra.Command{
	Use:   "seats <event-id>",
	Short: "Show the seat map for an event (requires queue admission)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args[0])
		if err != nil {
			return err
		}

		seats, err := booking.FetchSeats(cmd.Context(), ctrl, eventID)
		if err != nil {
			switch {
			case errors.Is(err, queue.ErrNoToken):
				return fmt.Errorf("no queue token held; run 'otq queue enter %d' first", eventID)
			case errors.Is(err, queue.ErrReentryWaiting):
				return fmt.Errorf("queue token expired and the re-entered queue is still waiting; run 'otq queue watch %d'", eventID)
			case api.IsNetwork(err):
				// Same degraded mode as the catalog: the seat map stays
				// viewable offline with canned demo data.
				monitor.ShowBanner(session.Banner{
					Tone:    session.ToneInfo,
					Message: "server unreachable, showing demo seat map",
				})
				seats = api.SampleSeats()
			default:
				return sessionAware(err)
			}
		}

		// An empty list usually means the grant lapsed rather than a sold
		// out event. One status check disambiguates.
		if len(seats) == 0 {
			token := store.Queue(eventID)
			status, cerr := ctrl.CheckOnce(cmd.Context(), eventID, token)
			if cerr == nil && status.Phase == api.PhaseAllowed {
				seats, err = booking.FetchSeats(cmd.Context(), ctrl, eventID)
				if err != nil {
					return sessionAware(err)
				}
			} else {
				return fmt.Errorf("admission no longer valid; run 'otq queue watch %d'", eventID)
			}
		}

		if jsonOutput {
			printJSON(seats)
			return nil
		}
		printSeatsTable(seats)
		return nil
	},
}
