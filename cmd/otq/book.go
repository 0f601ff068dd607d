package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/booking"
	"github.com/openticket/otq/internal/guard"
	"github.com/openticket/otq/internal/queue"
	"github.com/openticket/otq/internal/ui"
)

var bookCmd = &cobra.Command{
	Use:   "book <event-id>",
	Short: "Wait for admission, pick seats, and submit a booking",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		eventID, err := parseEventID(args[0])
		if err != nil {
			return err
		}
		seatsFlag, _ := cmd.Flags().GetString("seats")
		yes, _ := cmd.Flags().GetBool("yes")

		ctx := cmd.Context()

		status, err := ctrl.EnsureToken(ctx, eventID, false)
		if err != nil {
			return sessionAware(err)
		}
		if status.Phase != api.PhaseAllowed {
			fmt.Println("waiting for queue admission...")
			if status, err = watchPoll(ctx, eventID, status.Token); err != nil {
				if errors.Is(err, context.Canceled) {
					return fmt.Errorf("interrupted while waiting")
				}
				return sessionAware(err)
			}
			printQueueStatus(status)
		}

		// From here a held admission slot is at stake. An interrupt fires
		// the same best-effort leave an unload would, then exits.
		g := guard.New(client, store, logger, eventID)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt)
		defer signal.Stop(sigCh)
		go func() {
			if _, ok := <-sigCh; !ok {
				return
			}
			if !g.InternalAllowed() {
				g.HandleUnload()
			}
			os.Exit(130)
		}()

		seats, err := booking.FetchSeats(ctx, ctrl, eventID)
		if err != nil {
			if errors.Is(err, queue.ErrReentryWaiting) {
				return fmt.Errorf("queue token expired and the re-entered queue is still waiting; run 'otq queue watch %d'", eventID)
			}
			return sessionAware(err)
		}
		printSeatsTable(seats)

		if seatsFlag == "" {
			return fmt.Errorf("no seats selected; pass --seats, e.g. --seats 1,2")
		}
		seatIDs, err := parseSeatIDs(seatsFlag)
		if err != nil {
			return err
		}
		total, err := seatSelectionTotal(seats, seatIDs)
		if err != nil {
			return err
		}

		if !yes {
			msg := fmt.Sprintf("book %d seat(s) for %s won?", len(seatIDs), formatPrice(total))
			if !ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), msg) {
				// Declining the booking means leaving the seat selection
				// surface, which forfeits the admission slot.
				left := g.ConfirmNavigation(ctx, func(warning string) bool {
					return ui.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), warning)
				})
				if left {
					fmt.Println("booking cancelled, queue slot released")
				} else {
					fmt.Println("booking cancelled, queue slot kept")
				}
				return nil
			}
		}

		id, err := booking.Submit(ctx, ctrl, eventID, seatIDs)
		if err != nil {
			if errors.Is(err, queue.ErrReentryWaiting) {
				return fmt.Errorf("queue token expired and the re-entered queue is still waiting; run 'otq queue watch %d'", eventID)
			}
			return sessionAware(err)
		}

		// Moving on to the confirmation surface is an internal redirect,
		// not an abandonment; the admission slot stays held.
		g.AllowInternal()

		if jsonOutput {
			printJSON(map[string]int64{"bookingId": id})
		} else {
			fmt.Printf("%s booking %d created\n", ui.RenderSuccess("OK"), id)
		}
		return nil
	},
}

// parseSeatIDs parses a comma-separated seat id list like "1,2,3".
func parseSeatIDs(s string) ([]int64, error) {
	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	seen := make(map[int64]bool)
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid seat id %q", p)
		}
		if seen[id] {
			return nil, fmt.Errorf("duplicate seat id %d", id)
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("no seat ids in %q", s)
	}
	return ids, nil
}

// seatSelectionTotal sums the prices of the selected seats, rejecting ids
// that are missing from the seat map or not on sale.
func seatSelectionTotal(seats []api.Seat, seatIDs []int64) (int64, error) {
	byID := make(map[int64]api.Seat, len(seats))
	for _, s := range seats {
		byID[s.ID] = s
	}
	var total int64
	for _, id := range seatIDs {
		s, ok := byID[id]
		if !ok {
			return 0, fmt.Errorf("seat %d not found for this event", id)
		}
		if s.Status != api.SeatAvailable {
			return 0, fmt.Errorf("seat %s is not available", s.SeatNumber)
		}
		total += s.Price
	}
	return total, nil
}

func init() {
	bookCmd.Flags().String("seats", "", "comma-separated seat ids to book, e.g. 1,2")
	bookCmd.Flags().Bool("yes", false, "skip the confirmation prompt")
}
