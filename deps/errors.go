package deps

import "errors"

// ErrNoCurrentComputation is returned by the current-computation form of
// OnInvalidate when no computation is running.
var ErrNoCurrentComputation = errors.New("deps: no current computation")

// ErrFlushInProgress is returned when Flush is called while the same context
// is already flushing. The running flush is not affected.
var ErrFlushInProgress = errors.New("deps: flush already in progress")
