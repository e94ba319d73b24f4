package storage

import (
	"errors"
	"fmt"
)

// OpError reports a failed read or write against the store. Callers facing
// the user show a generic message instead of Err.
type OpError struct {
	Op  string
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// Wrap returns err as an *OpError for op. A nil error and one that already
// carries an *OpError are returned unchanged.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var oe *OpError
	if errors.As(err, &oe) {
		return err
	}
	return &OpError{Op: op, Err: err}
}
