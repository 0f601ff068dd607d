// Package booking submits the terminal write of the flow: a seat booking
// against a held admission token.
package booking

import (
	"context"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/queue"
)

// Submit books the given seats for an event. A rejected queue token is
// recovered through the controller exactly once (clear, re-enter, retry);
// every other failure is returned with the server message intact. Booking
// success does not release the admission slot — the caller signals the
// lifecycle guard and performs an explicit leave or navigation.
func Submit(ctx context.Context, ctrl *queue.Controller, eventID int64, seatIDs []int64) (int64, error) {
	var bookingID int64
	err := ctrl.WithToken(ctx, eventID, func(token string) error {
		resp, err := ctrl.API().CreateBooking(ctx, eventID, token, seatIDs)
		if err != nil {
			return err
		}
		bookingID = resp.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return bookingID, nil
}

// FetchSeats loads the seat inventory under the same bounded
// token-recovery contract as Submit.
func FetchSeats(ctx context.Context, ctrl *queue.Controller, eventID int64) ([]api.Seat, error) {
	var seats []api.Seat
	err := ctrl.WithToken(ctx, eventID, func(token string) error {
		fetched, err := ctrl.API().ListSeats(ctx, eventID, token)
		if err != nil {
			return err
		}
		seats = fetched
		return nil
	})
	if err != nil {
		return nil, err
	}
	return seats, nil
}
