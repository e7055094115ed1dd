package application

import "errors"

// Error taxonomy surfaced to the HTTP layer. Wrap with %w so handlers can map
// each class to a status code and envelope.
var (
	ErrNotFound  = errors.New("not found")
	ErrUpstream  = errors.New("upstream failure")
	ErrMalformed = errors.New("malformed upstream payload")
	ErrStore     = errors.New("store failure")
)
