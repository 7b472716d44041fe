// Package workflow governs the lifecycle of a project assignment's status.
//
// The API uses direct-set semantics: the caller supplies the desired status
// verbatim and it is written as-is after validation. Direct-set is idempotent
// under retries, which the cyclic-advance alternative is not.
package workflow

import (
	"errors"

	"github.com/planora-dev/planora/internal/models"
)

var ErrInvalidStatus = errors.New("invalid status")

// Validate rejects any status outside the three-element set.
func Validate(status string) error {
	switch status {
	case models.StatusPending, models.StatusInProgress, models.StatusDone:
		return nil
	}
	return ErrInvalidStatus
}

// Next computes the deterministic cycle a client may use to advance a task:
// Pending -> InProgress -> Done -> InProgress. Done never returns to Pending;
// it toggles with InProgress.
func Next(status string) (string, error) {
	switch status {
	case models.StatusPending:
		return models.StatusInProgress, nil
	case models.StatusInProgress:
		return models.StatusDone, nil
	case models.StatusDone:
		return models.StatusInProgress, nil
	}
	return "", ErrInvalidStatus
}
