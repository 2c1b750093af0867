package places

import "errors"

// Lookup error taxonomy. ErrNotFound is terminal for the attempt but counts
// toward the retry ceiling; ErrRateLimited and ErrTransient are retryable
// within a call, subject to the same ceiling; ErrPermanentlyFailed means the
// ceiling was reached on an earlier run; ErrLookupTimeout means the caller's
// deadline expired first, leaving the id retryable later.
var (
	ErrNotFound          = errors.New("place not found")
	ErrRateLimited       = errors.New("lookup rate limited")
	ErrTransient         = errors.New("transient lookup error")
	ErrPermanentlyFailed = errors.New("place permanently failed")
	ErrLookupTimeout     = errors.New("lookup timed out")
)
