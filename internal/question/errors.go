package question

import (
	"errors"
	"fmt"
)

// ErrEmptyPool means no eligible question exists for a request.
var ErrEmptyPool = errors.New("question pool empty")

// RepositoryError wraps failures of the upstream question source.
type RepositoryError struct {
	Op  string
	Err error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("question repository %s: %v", e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// LowPoolWarning reports a selection that came back short. It is informational.
type LowPoolWarning struct {
	Requested int  `json:"requested"`
	Returned  int  `json:"returned"`
	Widened   int  `json:"widened"`
	Band      Band `json:"band"`
}

func (w LowPoolWarning) String() string {
	return fmt.Sprintf("low question pool: requested %d, returned %d after %d widening step(s), band %s",
		w.Requested, w.Returned, w.Widened, w.Band)
}
