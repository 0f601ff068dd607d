// Package session detects auth expiry and owns the global UI-intent state
// (the re-login prompt and the top banner). The state lives in an
// injectable Monitor with subscribe/notify semantics instead of package
// globals, so tests can reset it deterministically.
package session

import (
	"errors"
	"net/http"
	"sync"

	"github.com/openticket/otq/internal/api"
	"github.com/openticket/otq/internal/tokenstore"
)

// IsAuthExpired reports whether err means the auth token is no longer
// accepted by the server (HTTP 401).
func IsAuthExpired(err error) bool {
	var httpErr *api.HTTPError
	return errors.As(err, &httpErr) && httpErr.Status == http.StatusUnauthorized
}

// ExpiredPrompt asks the user to re-authenticate. FromPath records where
// the expiry was detected; RequiresAuthRoute marks surfaces that cannot be
// shown at all without a session.
type ExpiredPrompt struct {
	FromPath          string
	RequiresAuthRoute bool
}

// BannerTone selects the banner styling.
type BannerTone string

const (
	ToneError   BannerTone = "error"
	ToneSuccess BannerTone = "success"
	ToneInfo    BannerTone = "info"
)

// Banner is a transient top-of-page notice.
type Banner struct {
	Tone    BannerTone
	Message string
}

// Monitor holds the session-expiry prompt and banner state. At most one
// prompt is live at a time: concurrent failures collapse into the first.
type Monitor struct {
	store tokenstore.Store

	mu        sync.Mutex
	prompt    *ExpiredPrompt
	banner    *Banner
	listeners map[int]func()
	nextID    int
}

// NewMonitor creates a Monitor that tears the given store down on Resolve.
func NewMonitor(store tokenstore.Store) *Monitor {
	return &Monitor{store: store, listeners: map[int]func(){}}
}

// Subscribe registers fn to run after every state change and returns an
// unsubscribe function.
func (m *Monitor) Subscribe(fn func()) func() {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.listeners, id)
		m.mu.Unlock()
	}
}

// Prompt records the re-login prompt unless one is already active; a
// duplicate call is a no-op and does not overwrite the original reason.
func (m *Monitor) Prompt(p ExpiredPrompt) {
	m.mu.Lock()
	if m.prompt != nil {
		m.mu.Unlock()
		return
	}
	m.prompt = &p
	m.mu.Unlock()
	m.notify()
}

// Active returns a copy of the live prompt, or nil.
func (m *Monitor) Active() *ExpiredPrompt {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.prompt == nil {
		return nil
	}
	p := *m.prompt
	return &p
}

// Dismiss clears the prompt without touching the stored tokens.
func (m *Monitor) Dismiss() {
	m.mu.Lock()
	if m.prompt == nil {
		m.mu.Unlock()
		return
	}
	m.prompt = nil
	m.mu.Unlock()
	m.notify()
}

// Resolve clears the prompt and tears the session down: the auth token and
// every queue token are dropped. Used both when the user heads to re-login
// and when they cancel out of the prompt.
func (m *Monitor) Resolve() {
	m.mu.Lock()
	m.prompt = nil
	m.mu.Unlock()
	m.store.ClearAuth()
	m.store.ClearAllQueue()
	m.notify()
}

// ShowBanner replaces the current banner.
func (m *Monitor) ShowBanner(b Banner) {
	m.mu.Lock()
	m.banner = &b
	m.mu.Unlock()
	m.notify()
}

// ClearBanner removes the banner if one is shown.
func (m *Monitor) ClearBanner() {
	m.mu.Lock()
	if m.banner == nil {
		m.mu.Unlock()
		return
	}
	m.banner = nil
	m.mu.Unlock()
	m.notify()
}

// ActiveBanner returns a copy of the current banner, or nil.
func (m *Monitor) ActiveBanner() *Banner {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.banner == nil {
		return nil
	}
	b := *m.banner
	return &b
}

// notify runs the listeners outside the lock.
func (m *Monitor) notify() {
	m.mu.Lock()
	fns := make([]func(), 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}
