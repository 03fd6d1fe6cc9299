package sokosumi

import "fmt"

// InvalidRequestError reports a missing or malformed request field,
// detected before any network call is made.
type InvalidRequestError struct {
	Field  string
	Reason string
}

func (e *InvalidRequestError) Error() string {
	return fmt.Sprintf("invalid request: %s %s", e.Field, e.Reason)
}

// UpstreamError reports a failed call to the Sokosumi API: a non-success
// HTTP status, a request timeout, or a transport failure (DNS, connection
// refused). Transport failures carry no status code so the caller-visible
// error shape stays uniform.
type UpstreamError struct {
	// StatusCode is the HTTP status, or 0 when the request never
	// produced a response.
	StatusCode int
	// Body is the decoded JSON error body when the upstream returned
	// one, otherwise the raw response text or nil.
	Body any
	// Timeout is set when the request exceeded the client timeout.
	Timeout bool
	// Err is the underlying transport error, if any.
	Err error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Timeout:
		return "upstream request timed out"
	case e.StatusCode != 0:
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("upstream request failed: %v", e.Err)
	default:
		return "upstream request failed"
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
