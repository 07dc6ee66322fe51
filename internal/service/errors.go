package service

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/store/model"
)

type ErrResourceNotFound struct {
	error
}

func NewErrResourceNotFound(id uuid.UUID, resourceType string) *ErrResourceNotFound {
	return &ErrResourceNotFound{fmt.Errorf("%s %s not found", resourceType, id)}
}

func NewErrApplicationNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "application")
}

func NewErrInterviewNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "interview")
}

func NewErrOfferNotFound(id uuid.UUID) *ErrResourceNotFound {
	return NewErrResourceNotFound(id, "offer")
}

// ErrForbidden means the actor's role or identity does not permit the
// requested action.
type ErrForbidden struct {
	error
}

func NewErrForbidden(format string, args ...any) *ErrForbidden {
	return &ErrForbidden{fmt.Errorf(format, args...)}
}

// ErrInvalidTransition means the requested move violates the application
// status graph.
type ErrInvalidTransition struct {
	error
}

func NewErrInvalidTransition(from, to model.ApplicationStatus) *ErrInvalidTransition {
	return &ErrInvalidTransition{fmt.Errorf("transition from %s to %s is not allowed", from, to)}
}

// ErrInvalidState means a sub-entity is not in the precondition state for
// the requested action, e.g. reviewing a non-pending offer.
type ErrInvalidState struct {
	error
}

func NewErrInvalidState(format string, args ...any) *ErrInvalidState {
	return &ErrInvalidState{fmt.Errorf(format, args...)}
}

// ErrConflictingOffer guards against two internal actors racing to extend
// different monetary terms on the same application.
type ErrConflictingOffer struct {
	error
}

// The conflicting offer is nil when the conflict surfaced as a unique
// constraint violation, the losing transaction can not read the winner.
func NewErrConflictingOffer(applicationID uuid.UUID, offerID *uuid.UUID) *ErrConflictingOffer {
	if offerID != nil {
		return &ErrConflictingOffer{fmt.Errorf("application %s already has an active offer %s", applicationID, *offerID)}
	}
	return &ErrConflictingOffer{fmt.Errorf("application %s already has an active offer", applicationID)}
}

// ErrTransitionConflict is the transient error returned when a concurrent
// writer updated the application first. Callers may retry.
type ErrTransitionConflict struct {
	error
}

func NewErrTransitionConflict(id uuid.UUID) *ErrTransitionConflict {
	return &ErrTransitionConflict{fmt.Errorf("application %s was updated concurrently", id)}
}
