package peers

import (
	"errors"
	"fmt"
)

// ErrUnreachable marks a downstream call that never produced an HTTP
// response: refused connection, DNS failure, timeout.
var ErrUnreachable = errors.New("peer unreachable")

// StatusError is a downstream response with a non-success status. The
// status code and body are kept verbatim so the aggregator can propagate
// them to its own caller.
type StatusError struct {
	Peer       string
	StatusCode int
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("peer %s returned status %d", e.Peer, e.StatusCode)
}
