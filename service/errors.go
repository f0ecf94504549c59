package service

import "errors"

// Error taxonomy. Services wrap these with fmt.Errorf and %w; the API layer
// maps them to response statuses.
var (
	// ErrBadRequest means the caller's input is missing or invalid
	ErrBadRequest = errors.New("bad request")

	// ErrUnauthorized means the credential or session is missing, invalid or expired
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden means the request is well formed but not allowed (e.g. malformed API key)
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound means the requested record does not exist
	ErrNotFound = errors.New("not found")

	// ErrUpstream means a game or Discord API call failed or returned unusable data
	ErrUpstream = errors.New("upstream failure")

	// ErrStorage means a persistent store read or write failed
	ErrStorage = errors.New("storage failure")
)
