package tracker

import "errors"

var (
	// ErrUnauthorized indicates the tracker rejected the credentials or token.
	ErrUnauthorized = errors.New("tracker rejected credentials")

	// ErrUnavailable indicates the tracker could not be reached or failed
	// to serve the request.
	ErrUnavailable = errors.New("tracker unavailable")

	// ErrMalformedResponse indicates a response body that could not be
	// decoded into the expected shape.
	ErrMalformedResponse = errors.New("malformed tracker response")
)
