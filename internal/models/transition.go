package models

import (
	"errors"
	"fmt"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// allowedTransitions lists, for each status, the statuses it may move to.
// Restarting an active entry and re-resetting a pending one are allowed.
var allowedTransitions = map[BlockStatus][]BlockStatus{
	StatusPending:   {StatusPending, StatusActive, StatusCompleted, StatusSkipped},
	StatusActive:    {StatusActive, StatusPending, StatusCompleted, StatusSkipped},
	StatusCompleted: {StatusPending},
	StatusSkipped:   {StatusPending},
}

// CanTransition reports whether an entry may move from one status to another.
func CanTransition(from, to BlockStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckTransition returns a wrapped ErrInvalidTransition when the move is not
// allowed.
func CheckTransition(from, to BlockStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}
