package events

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/openticket/otq/internal/api"
)

// Queue admission updates are published per event under
// openticket.queue.<eventID>. A wildcard subscription on QueueTopicAll
// receives updates for every event.
const (
	queueTopicPrefix = "openticket.queue."

	QueueTopicAll = "openticket.queue.>"
)

// QueueTopic returns the subject carrying admission updates for one event.
func QueueTopic(eventID int64) string {
	return queueTopicPrefix + strconv.FormatInt(eventID, 10)
}

// QueueUpdate is the payload published on queue topics. It mirrors the
// status returned by the admission endpoint so push and poll consumers
// see the same shape.
type QueueUpdate struct {
	EventID int64           `json:"eventId"`
	Status  api.QueueStatus `json:"status"`
}

// DecodeQueueUpdate parses a raw queue topic payload.
func DecodeQueueUpdate(data []byte) (*QueueUpdate, error) {
	var u QueueUpdate
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decoding queue update: %w", err)
	}
	return &u, nil
}
