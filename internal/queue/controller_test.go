package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/tokenstore"
)

var errTokenInvalid = &api.HTTPError{Status: 400, Message: "유효하지 않은 대기열 토큰"}

func TestEnsureToken_LocalTokenSkipsNetwork(t *testing.T) {
	f := &fakeAPI{}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "held")
	c := NewController(f, store, nil)

	status, err := c.EnsureToken(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("EnsureToken() error = %v", err)
	}
	if status.Token != "held" || status.Phase != api.PhaseAllowed {
		t.Errorf("status = %+v", status)
	}
	if f.enterCalls != 0 {
		t.Errorf("enter calls = %d, want 0 (no network for held token)", f.enterCalls)
	}
}

func TestEnsureToken_ForceRefreshEnters(t *testing.T) {
	f := &fakeAPI{enterResults: []result{allowed("fresh", 600)}}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "held")
	c := NewController(f, store, nil)

	status, err := c.EnsureToken(context.Background(), 1, true)
	if err != nil {
		t.Fatalf("EnsureToken() error = %v", err)
	}
	if status.Token != "fresh" {
		t.Errorf("token = %q, want fresh", status.Token)
	}
	if f.enterCalls != 1 {
		t.Errorf("enter calls = %d, want 1", f.enterCalls)
	}
	if store.Queue(1) != "fresh" {
		t.Errorf("persisted token = %q, want fresh", store.Queue(1))
	}
}

func TestEnsureToken_WaitingPhasePersistsAndSignalsRedirect(t *testing.T) {
	f := &fakeAPI{enterResults: []result{waiting("t1", 3)}}
	store := tokenstore.NewMemory()
	c := NewController(f, store, nil)

	status, err := c.EnsureToken(context.Background(), 1, false)
	if err != nil {
		t.Fatalf("EnsureToken() error = %v", err)
	}
	if status.Phase != api.PhaseWaiting || status.Position != 3 {
		t.Errorf("status = %+v, want WAITING at position 3", status)
	}
	if store.Queue(1) != "t1" {
		t.Errorf("persisted token = %q, want t1", store.Queue(1))
	}
}

func TestCheckOnce_PersistsRotatedToken(t *testing.T) {
	f := &fakeAPI{checkResults: []result{waiting("rotated", 1)}}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "t1")
	c := NewController(f, store, nil)

	status, err := c.CheckOnce(context.Background(), 1, "t1")
	if err != nil {
		t.Fatalf("CheckOnce() error = %v", err)
	}
	if status.Token != "rotated" {
		t.Errorf("token = %q, want rotated", status.Token)
	}
	if store.Queue(1) != "rotated" {
		t.Errorf("persisted token = %q, want rotated", store.Queue(1))
	}
}

func TestWithToken_NoTokenHeld(t *testing.T) {
	c := NewController(&fakeAPI{}, tokenstore.NewMemory(), nil)

	err := c.WithToken(context.Background(), 1, func(string) error { return nil })
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("error = %v, want ErrNoToken", err)
	}
}

func TestWithToken_SuccessFirstTry(t *testing.T) {
	f := &fakeAPI{}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "t1")
	c := NewController(f, store, nil)

	var used []string
	err := c.WithToken(context.Background(), 1, func(token string) error {
		used = append(used, token)
		return nil
	})
	if err != nil {
		t.Fatalf("WithToken() error = %v", err)
	}
	if len(used) != 1 || used[0] != "t1" {
		t.Errorf("fn tokens = %v, want [t1]", used)
	}
	if f.enterCalls != 0 {
		t.Errorf("enter calls = %d, want 0", f.enterCalls)
	}
}

func TestWithToken_RetriesOnceAfterReentry(t *testing.T) {
	f := &fakeAPI{enterResults: []result{allowed("t2", 590)}}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "t1")
	c := NewController(f, store, nil)

	var used []string
	err := c.WithToken(context.Background(), 1, func(token string) error {
		used = append(used, token)
		if token == "t1" {
			return errTokenInvalid
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithToken() error = %v", err)
	}
	if len(used) != 2 || used[1] != "t2" {
		t.Errorf("fn tokens = %v, want [t1 t2]", used)
	}
	if f.enterCalls != 1 {
		t.Errorf("enter calls = %d, want exactly 1 re-entry", f.enterCalls)
	}
	if store.Queue(1) != "t2" {
		t.Errorf("persisted token = %q, want t2", store.Queue(1))
	}
}

func TestWithToken_SecondRejectionIsTerminal(t *testing.T) {
	f := &fakeAPI{enterResults: []result{allowed("t2", 590)}}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "t1")
	c := NewController(f, store, nil)

	calls := 0
	err := c.WithToken(context.Background(), 1, func(token string) error {
		calls++
		return errTokenInvalid
	})
	if Classify(err) != KindTokenInvalid {
		t.Errorf("error = %v, want the second rejection surfaced", err)
	}
	if calls != 2 {
		t.Errorf("fn calls = %d, want exactly 2 (no unbounded retry)", calls)
	}
	if f.enterCalls != 1 {
		t.Errorf("enter calls = %d, want exactly 1", f.enterCalls)
	}
}

func TestWithToken_FailedRecoverySurfaces(t *testing.T) {
	enterErr := &api.HTTPError{Status: 500, Message: "queue closed"}
	f := &fakeAPI{enterResults: []result{failure(enterErr)}}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "t1")
	c := NewController(f, store, nil)

	err := c.WithToken(context.Background(), 1, func(string) error { return errTokenInvalid })
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Status != 500 {
		t.Errorf("error = %v, want the re-entry failure", err)
	}
	if store.Queue(1) != "" {
		t.Errorf("rejected token still held: %q", store.Queue(1))
	}
}

func TestWithToken_ReentryStillWaiting(t *testing.T) {
	f := &fakeAPI{enterResults: []result{waiting("t2", 5)}}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "t1")
	c := NewController(f, store, nil)

	calls := 0
	err := c.WithToken(context.Background(), 1, func(string) error {
		calls++
		return errTokenInvalid
	})
	if !errors.Is(err, ErrReentryWaiting) {
		t.Errorf("error = %v, want ErrReentryWaiting", err)
	}
	if calls != 1 {
		t.Errorf("fn calls = %d, want 1 (no retry while waiting)", calls)
	}
	if store.Queue(1) != "t2" {
		t.Errorf("persisted token = %q, want t2 for the waiting surface", store.Queue(1))
	}
}

func TestWithToken_AuthExpiryNotRetried(t *testing.T) {
	f := &fakeAPI{}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "t1")
	c := NewController(f, store, nil)

	authErr := &api.HTTPError{Status: 401, Message: "세션이 만료되었습니다."}
	calls := 0
	err := c.WithToken(context.Background(), 1, func(string) error {
		calls++
		return authErr
	})
	if !errors.Is(err, error(authErr)) {
		t.Errorf("error = %v, want the auth error as-is", err)
	}
	if calls != 1 || f.enterCalls != 0 {
		t.Errorf("calls = %d, enters = %d; auth expiry must not trigger re-entry", calls, f.enterCalls)
	}
}

func TestRecover_ClearsThenPersistsFreshToken(t *testing.T) {
	f := &fakeAPI{enterResults: []result{waiting("fresh", 2)}}
	store := tokenstore.NewMemory()
	store.SetQueue(1, "stale")
	store.SetQueue(2, "other-event")
	c := NewController(f, store, nil)

	status, err := c.Recover(context.Background(), 1)
	if err != nil {
		t.Fatalf("Recover() error = %v", err)
	}
	if status.Token != "fresh" {
		t.Errorf("token = %q, want fresh", status.Token)
	}
	if store.Queue(1) != "fresh" {
		t.Errorf("persisted token = %q, want fresh", store.Queue(1))
	}
	if store.Queue(2) != "other-event" {
		t.Error("recovery touched another event's token")
	}
}
