// Package api provides a typed client for the OpenTicket REST API.
// Every response is wrapped in the uniform envelope
// {code, status, message, data}; the client unwraps it and returns data.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/openticket/otq/internal/idgen"
)

// TicketAPI is the interface the orchestration layers (queue controller,
// lifecycle guard, booking) use to talk to the backend. It is implemented
// by Client and can be backed by fakes in tests.
type TicketAPI interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	ListEvents(ctx context.Context, q EventListQuery) (*EventPage, error)
	GetEvent(ctx context.Context, eventID int64) (*Event, error)
	EnterQueue(ctx context.Context, eventID int64) (*QueueStatus, error)
	CheckQueueStatus(ctx context.Context, eventID int64, token string) (*QueueStatus, error)
	LeaveQueue(ctx context.Context, eventID int64, queueToken string) error
	LeaveQueueDetached(eventID int64, queueToken string) <-chan struct{}
	ListSeats(ctx context.Context, eventID int64, queueToken string) ([]Seat, error)
	CreateBooking(ctx context.Context, eventID int64, queueToken string, seatIDs []int64) (*BookingResponse, error)
}

// detachedLeaveTimeout bounds the best-effort leave call fired during
// teardown. The connection may outlive the caller; it never outlives this.
const detachedLeaveTimeout = 5 * time.Second

// Client implements TicketAPI over HTTP/JSON.
type Client struct {
	baseURL    string
	authSource func() string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithAuthToken attaches a fixed bearer token to every request.
func WithAuthToken(token string) Option {
	return WithAuthSource(func() string { return token })
}

// WithAuthSource attaches the bearer token returned by fn at request time,
// so a token cleared mid-flow (session teardown) stops being sent.
func WithAuthSource(fn func() string) Option {
	return func(c *Client) { c.authSource = fn }
}

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for best-effort call failures.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client targeting the given base URL
// (e.g. "http://localhost:8080").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/auth/login", req, &resp, reqOpts{}); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListEvents fetches one page of the event catalog.
func (c *Client) ListEvents(ctx context.Context, q EventListQuery) (*EventPage, error) {
	vals := url.Values{}
	vals.Set("page", strconv.Itoa(q.Page))
	size := q.Size
	if size == 0 {
		size = 10
	}
	vals.Set("size", strconv.Itoa(size))
	sort := q.Sort
	if sort == "" {
		sort = "id,desc"
	}
	vals.Set("sort", sort)
	if q.Title != "" {
		vals.Set("title", q.Title)
	}
	if q.Category != "" {
		vals.Set("category", string(q.Category))
	}
	if q.Venue != "" {
		vals.Set("venue", q.Venue)
	}

	var page EventPage
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/events?"+vals.Encode(), nil, &page, reqOpts{}); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetEvent fetches one event's detail.
func (c *Client) GetEvent(ctx context.Context, eventID int64) (*Event, error) {
	var ev Event
	if err := c.doJSON(ctx, http.MethodGet, "/api/v1/events/"+strconv.FormatInt(eventID, 10), nil, &ev, reqOpts{}); err != nil {
		return nil, err
	}
	return &ev, nil
}

// EnterQueue requests a slot in the admission queue for an event.
func (c *Client) EnterQueue(ctx context.Context, eventID int64) (*QueueStatus, error) {
	path := fmt.Sprintf("/api/v1/queue/events/%d", eventID)
	var status QueueStatus
	if err := c.doJSON(ctx, http.MethodPost, path, struct{}{}, &status, reqOpts{}); err != nil {
		return nil, err
	}
	return &status, nil
}

// CheckQueueStatus polls the admission state of a held queue token.
// The _ts cache buster and no-cache header force the request past any
// intermediate response cache.
func (c *Client) CheckQueueStatus(ctx context.Context, eventID int64, token string) (*QueueStatus, error) {
	path := fmt.Sprintf("/api/v1/queue/events/%d?token=%s&_ts=%d",
		eventID, url.QueryEscape(token), time.Now().UnixMilli())
	hdr := http.Header{}
	hdr.Set("Cache-Control", "no-cache")

	var status QueueStatus
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &status, reqOpts{header: hdr}); err != nil {
		return nil, err
	}
	return &status, nil
}

// LeaveQueue releases a held admission slot.
func (c *Client) LeaveQueue(ctx context.Context, eventID int64, queueToken string) error {
	path := fmt.Sprintf("/api/v1/queue/events/%d/leave", eventID)
	body := map[string]string{"queueToken": queueToken}
	return c.doJSON(ctx, http.MethodPost, path, body, nil, reqOpts{})
}

// LeaveQueueDetached fires LeaveQueue on its own context so the caller's
// teardown cannot cancel it. It returns immediately; the returned channel
// closes once the attempt finishes. Failures are logged, never returned.
func (c *Client) LeaveQueueDetached(eventID int64, queueToken string) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		ctx, cancel := context.WithTimeout(context.Background(), detachedLeaveTimeout)
		defer cancel()
		if err := c.LeaveQueue(ctx, eventID, queueToken); err != nil {
			c.logger.Warn("detached leave-queue call failed",
				"event_id", eventID, "error", err)
		}
	}()
	return done
}

// ListSeats fetches the seat inventory for an event. Seat inventory is
// gated by admission: the queue token and event id ride along as headers.
func (c *Client) ListSeats(ctx context.Context, eventID int64, queueToken string) ([]Seat, error) {
	path := fmt.Sprintf("/api/v1/events/%d/seats", eventID)
	var seats []Seat
	opts := reqOpts{eventID: eventID, queueToken: queueToken}
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &seats, opts); err != nil {
		return nil, err
	}
	return seats, nil
}

// CreateBooking submits a booking for the given seats.
func (c *Client) CreateBooking(ctx context.Context, eventID int64, queueToken string, seatIDs []int64) (*BookingResponse, error) {
	body := map[string][]int64{"seatIds": seatIDs}
	var resp BookingResponse
	opts := reqOpts{eventID: eventID, queueToken: queueToken}
	if err := c.doJSON(ctx, http.MethodPost, "/api/v1/bookings", body, &resp, opts); err != nil {
		return nil, err
	}
	return &resp, nil
}

// --- internal helpers ---

// reqOpts carries per-request header inputs. The queue token is scoped to
// one event and must never be attached to another event's request, so it
// is plumbed per call rather than stored on the client.
type reqOpts struct {
	eventID    int64
	queueToken string
	header     http.Header
}

// envelope is the uniform response wrapper used by every endpoint.
type envelope struct {
	Code    int             `json:"code"`
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// doJSON performs an HTTP request with optional JSON body, unwraps the
// response envelope and decodes its data field into result. If result is
// nil the data field is ignored (best-effort acks).
func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any, opts reqOpts) error {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	for k, vs := range opts.header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.authSource != nil {
		if token := c.authSource(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	if opts.queueToken != "" {
		req.Header.Set("X-Queue-Token", opts.queueToken)
	}
	if opts.eventID > 0 {
		req.Header.Set("X-Event-Id", strconv.FormatInt(opts.eventID, 10))
	}
	if reqID, err := idgen.Generate(); err == nil {
		req.Header.Set("X-Request-Id", reqID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	// The request path without query noise, for error reporting.
	reqPath := req.URL.Path

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		httpErr := &HTTPError{Status: resp.StatusCode, Path: reqPath}
		var env envelope
		if json.Unmarshal(respBody, &env) == nil && env.Message != "" {
			httpErr.Message = env.Message
		}
		return httpErr
	}

	var env envelope
	if err := json.Unmarshal(respBody, &env); err != nil {
		return &ValidationError{Path: reqPath, Reason: "malformed envelope: " + err.Error()}
	}
	if result == nil {
		return nil
	}
	if env.Data == nil {
		return &ValidationError{Path: reqPath, Reason: "envelope has no data"}
	}
	if err := json.Unmarshal(env.Data, result); err != nil {
		return &ValidationError{Path: reqPath, Reason: "unexpected data shape: " + err.Error()}
	}
	return nil
}
