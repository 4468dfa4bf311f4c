package leads

import "errors"

var (
	// ErrStorage wraps every failure to read or write the lead collection.
	ErrStorage = errors.New("lead storage unavailable")

	// ErrCorruptStore is returned by the file loader when the stored
	// collection cannot be decoded or fails the record checks.
	ErrCorruptStore = errors.New("lead store contents invalid")
)
