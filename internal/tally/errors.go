package tally

import (
	"errors"
	"fmt"
)

// lineErrorMarker is the literal substring the remote system embeds in an
// HTTP 200 body to signal a business-level failure; the protocol never uses
// non-200 status codes.
const lineErrorMarker = "<LINEERROR>"

// BusinessError reports the marker error: the remote system accepted the
// request at the transport level but rejected it in its books.
type BusinessError struct {
	Operation string
}

func (e *BusinessError) Error() string {
	return fmt.Sprintf("tally: %s rejected by remote system, please log in to Tally", e.Operation)
}

// TransportError reports a timeout or connection failure. The remote call may
// or may not have been processed; retrying is always safe for exports and
// handled durably for invoice posts.
type TransportError struct {
	Operation string
	Err       error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("tally: %s transport failure, ensure Tally is open and accessible: %v", e.Operation, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsBusinessError reports whether err is the remote marker error.
func IsBusinessError(err error) bool {
	var be *BusinessError
	return errors.As(err, &be)
}

// IsTransportError reports whether err is a timeout/connection failure.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
