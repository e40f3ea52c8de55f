package entsoe

import "fmt"

// ValidationError is returned when the caller-supplied query is rejected
// before any network call is made.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid query: %s", e.Reason)
}

// TransportError wraps network-level failures (DNS, refused connection,
// timeout). The request may or may not have reached the platform.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamError is an error signalled by the transparency platform itself,
// either as a non-2xx status or as an in-band acknowledgement document.
// The platform answers "no data for this interval" with HTTP 200 and an
// acknowledgement body, so callers must not rely on the status code alone.
type UpstreamError struct {
	Code   string // upstream reason code, e.g. "999", empty if unavailable
	Reason string
}

func (e *UpstreamError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("upstream error: %s", e.Reason)
	}
	return fmt.Sprintf("upstream error %s: %s", e.Code, e.Reason)
}

// ParseError is returned when the response body does not match the expected
// publication document schema.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed response: %s", e.Reason)
	}
	return fmt.Sprintf("malformed response: %s: %v", e.Reason, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
