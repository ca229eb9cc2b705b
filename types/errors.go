package types

import "errors"

// Pipeline error kinds. Callers classify with errors.Is; the concrete
// cause is carried by wrapping.
var (
	// ErrInvalidRecord marks a raw recipe record that failed validation
	// during ingestion. Per-record, never aborts a batch.
	ErrInvalidRecord = errors.New("invalid recipe record")

	// ErrRetrievalUnavailable means the search store could not be reached.
	// Fatal to the request; never silently degraded to empty results.
	ErrRetrievalUnavailable = errors.New("retrieval unavailable")

	// ErrGenerationFailed covers model backend errors, timeouts, and
	// empty model output.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrDuplicateRecord means a terminal result was recorded twice for
	// the same exchange. Programming-invariant violation, surfaced.
	ErrDuplicateRecord = errors.New("exchange result already recorded")

	// ErrUnknownExchange means the referenced exchange does not exist.
	ErrUnknownExchange = errors.New("unknown exchange")
)
