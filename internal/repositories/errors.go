package repositories

import "errors"

var (
	// ErrNoCodeColumn is returned when no barcode column can be detected in
	// the catalog sheet headers, which makes any catalog write impossible.
	ErrNoCodeColumn = errors.New("no barcode column detected in sheet headers")

	// ErrPendingLogUnavailable is returned when the pending log itself cannot
	// be written. This is the last-resort durability path, so callers must
	// treat it as fatal for the write in question and report it loudly.
	ErrPendingLogUnavailable = errors.New("pending log not writable")

	// ErrMalformedRow is returned when a pending log row cannot be parsed
	// back into a consumo during reconciliation.
	ErrMalformedRow = errors.New("malformed pending log row")
)
