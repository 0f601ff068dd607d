package queue

import (
	"errors"
	"net/http"
	"strings"

	"github.com/openticket/otq/internal/api"
)

// Kind buckets a failed queue/seat/booking call into one of the three
// recovery paths.
type Kind int

const (
	// KindOther is any failure without a dedicated recovery path: it is
	// surfaced to the user and never retried automatically.
	KindOther Kind = iota
	// KindAuthExpired means the auth token was rejected (401); the global
	// re-login prompt takes over.
	KindAuthExpired
	// KindTokenInvalid means the server rejected the queue token; recovery
	// is one re-entry followed by one retry.
	KindTokenInvalid
)

// tokenInvalidFragments is the exhaustive list of server message fragments
// that identify a rejected queue token. The backend reports this condition
// only as free text, so the client has to pattern-match; keep the coupling
// confined to this file. TODO: switch to the envelope code once the server
// starts returning a structured error code for queue-token rejection.
var tokenInvalidFragments = []string{
	"대기열 토큰이 유효하지 않거나 만료되었습니다.",
	"유효하지 않은 대기열 토큰",
	"대기열 토큰이 필요합니다.",
}

// Classify buckets err. Classification happens here, next to the callers,
// rather than in the gateway: the same HTTP status means different things
// in different contexts (a 400 is generic unless its message names the
// queue token).
func Classify(err error) Kind {
	var httpErr *api.HTTPError
	if !errors.As(err, &httpErr) {
		return KindOther
	}
	if httpErr.Status == http.StatusUnauthorized {
		return KindAuthExpired
	}
	for _, fragment := range tokenInvalidFragments {
		if strings.Contains(httpErr.Message, fragment) {
			return KindTokenInvalid
		}
	}
	return KindOther
}
