// Package tokenstore persists the session's auth token and the per-event
// queue tokens across command invocations.
package tokenstore

import "sync"

// Store is the key-value persistence for tokens. All operations are
// synchronous and idempotent: clearing an absent key is a no-op. Queue
// tokens are namespaced per event id so tokens can never leak across events.
type Store interface {
	Auth() string
	SetAuth(token string)
	ClearAuth()

	Queue(eventID int64) string
	SetQueue(eventID int64, token string)
	ClearQueue(eventID int64)
	ClearAllQueue()
}

// Memory is an in-memory Store, used by tests and one-shot flows.
type Memory struct {
	mu    sync.Mutex
	auth  string
	queue map[int64]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{queue: make(map[int64]string)}
}

func (m *Memory) Auth() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auth
}

func (m *Memory) SetAuth(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = token
}

func (m *Memory) ClearAuth() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = ""
}

func (m *Memory) Queue(eventID int64) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.queue[eventID]
}

func (m *Memory) SetQueue(eventID int64, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue[eventID] = token
}

func (m *Memory) ClearQueue(eventID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.queue, eventID)
}

func (m *Memory) ClearAllQueue() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = make(map[int64]string)
}
