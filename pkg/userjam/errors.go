package userjam

import (
	"github.com/pkg/errors"
)

// ErrNotConfigured is returned synchronously by Track and Identify when the
// client has no tracking key.
var ErrNotConfigured = errors.New("userjam: tracking key not set, call Auth first")

// SerializationError fails a Future whose payload could not be encoded to JSON.
// No request was sent.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return "userjam: serialize payload: " + e.Err.Error()
}

func (e *SerializationError) Unwrap() error { return e.Err }

func (e *SerializationError) Cause() error { return e.Err }

// TransportError fails a Future whose request could not be completed, e.g.
// because of a network failure or the request timeout.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return "userjam: send report request: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Cause() error { return e.Err }

// IsTransportError reports whether err is or wraps a *TransportError.
func IsTransportError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// IsSerializationError reports whether err is or wraps a *SerializationError.
func IsSerializationError(err error) bool {
	var serializationErr *SerializationError
	return errors.As(err, &serializationErr)
}
