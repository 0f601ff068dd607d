package queue

import (
	"context"
	"time"

	"github.com/openticket/otq/internal/api"
)

// fakeAPI is a scriptable api.TicketAPI for controller and poller tests.
// Enter/check responses are consumed in order; the last one repeats.
type fakeAPI struct {
	enterResults []result
	checkResults []result

	enterCalls int
	checkCalls int
	leaveCalls int

	checkedTokens []string
	checkTimes    []time.Time

	seats    []api.Seat
	seatsErr error
}

type result struct {
	status *api.QueueStatus
	err    error
}

func take(results []result, call int) result {
	if call < len(results) {
		return results[call]
	}
	if len(results) > 0 {
		return results[len(results)-1]
	}
	return result{err: context.Canceled}
}

func (f *fakeAPI) EnterQueue(ctx context.Context, eventID int64) (*api.QueueStatus, error) {
	r := take(f.enterResults, f.enterCalls)
	f.enterCalls++
	return r.status, r.err
}

func (f *fakeAPI) CheckQueueStatus(ctx context.Context, eventID int64, token string) (*api.QueueStatus, error) {
	r := take(f.checkResults, f.checkCalls)
	f.checkCalls++
	f.checkedTokens = append(f.checkedTokens, token)
	f.checkTimes = append(f.checkTimes, time.Now())
	return r.status, r.err
}

func (f *fakeAPI) LeaveQueue(ctx context.Context, eventID int64, queueToken string) error {
	f.leaveCalls++
	return nil
}

func (f *fakeAPI) LeaveQueueDetached(eventID int64, queueToken string) <-chan struct{} {
	f.leaveCalls++
	done := make(chan struct{})
	close(done)
	return done
}

func (f *fakeAPI) ListSeats(ctx context.Context, eventID int64, queueToken string) ([]api.Seat, error) {
	return f.seats, f.seatsErr
}

func (f *fakeAPI) Login(ctx context.Context, req api.LoginRequest) (*api.LoginResponse, error) {
	return &api.LoginResponse{Token: "jwt"}, nil
}

func (f *fakeAPI) ListEvents(ctx context.Context, q api.EventListQuery) (*api.EventPage, error) {
	return api.SampleEvents(), nil
}

func (f *fakeAPI) GetEvent(ctx context.Context, eventID int64) (*api.Event, error) {
	ev := api.SampleEvent()
	return &ev, nil
}

func (f *fakeAPI) CreateBooking(ctx context.Context, eventID int64, queueToken string, seatIDs []int64) (*api.BookingResponse, error) {
	return &api.BookingResponse{ID: 1}, nil
}

func waiting(token string, position int) result {
	return result{status: &api.QueueStatus{Token: token, Phase: api.PhaseWaiting, Position: position}}
}

func allowed(token string, remaining int) result {
	return result{status: &api.QueueStatus{Token: token, Phase: api.PhaseAllowed, RemainingSeconds: remaining}}
}

func failure(err error) result {
	return result{err: err}
}
