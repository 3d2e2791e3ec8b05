package services

import (
	"fmt"

	"github.com/yeremiapane/weekly-menu/models"
)

// TransitionPolicy decides whether staff may move an order from one status to another.
type TransitionPolicy interface {
	Allow(from, to models.OrderStatus) error
}

// UnrestrictedTransitions lets staff set any status from any status.
type UnrestrictedTransitions struct{}

func (UnrestrictedTransitions) Allow(from, to models.OrderStatus) error {
	if !to.IsValid() {
		return models.ErrInvalidStatus
	}
	return nil
}

// StrictTransitions treats completed and cancelled as terminal.
type StrictTransitions struct{}

func (StrictTransitions) Allow(from, to models.OrderStatus) error {
	if !to.IsValid() {
		return models.ErrInvalidStatus
	}
	if from == to {
		return nil
	}
	if from == models.StatusCompleted || from == models.StatusCancelled {
		return fmt.Errorf("%w: %s -> %s", ErrTransitionForbidden, from, to)
	}
	return nil
}

// PolicyFor picks the transition policy from configuration.
func PolicyFor(strict bool) TransitionPolicy {
	if strict {
		return StrictTransitions{}
	}
	return UnrestrictedTransitions{}
}
