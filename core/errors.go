package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound reports a coordinate that has never been painted, or a
	// record that does not exist. It is an expected outcome, not a fault.
	ErrNotFound = errors.New("not found")

	// ErrCacheUnavailable reports that the backing cache could not be
	// reached. Store operations degrade to mirror-only state instead of
	// failing; the sentinel exists so call sites can log the degradation.
	ErrCacheUnavailable = errors.New("backing cache unavailable")

	// ErrSendFailed reports that an outbound message could not be
	// delivered to a connection. The connection is removed; other
	// connections are unaffected.
	ErrSendFailed = errors.New("send failed")
)

// DecodeError reports a malformed inbound payload. It is local to the one
// message that carried it; the connection that sent it stays open.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("decode: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
