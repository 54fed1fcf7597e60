package models

import "errors"

var (
	// ErrUpstreamUnavailable: the generation endpoint stayed throttled or down
	// after the retry budget was spent.
	ErrUpstreamUnavailable = errors.New("upstream model unavailable")

	// ErrStoreUnavailable: a catalog query failed. Callers degrade to an empty
	// grounding context instead of surfacing this to the customer.
	ErrStoreUnavailable = errors.New("catalog store unavailable")

	// ErrNotFound: the referenced catalog row does not exist or is deleted.
	ErrNotFound = errors.New("not found")

	// ErrEmptyQuery: no usable search target was supplied.
	ErrEmptyQuery = errors.New("empty query")
)
