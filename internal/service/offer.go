package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/auth"
	"github.com/talentpool/pipeline/internal/notify"
	"github.com/talentpool/pipeline/internal/service/mappers"
	"github.com/talentpool/pipeline/internal/store"
	"github.com/talentpool/pipeline/internal/store/model"
)

// OfferService runs the commercial-offer negotiation. An application holds
// at most one active offer at a time, and an accepted offer drives the
// application to hired in the same transaction that closes the offer.
type OfferService struct {
	store          store.Store
	applicationSrv *ApplicationService
	notifier       *notify.Dispatcher
}

func NewOfferService(store store.Store, applicationSrv *ApplicationService, notifier *notify.Dispatcher) *OfferService {
	return &OfferService{store: store, applicationSrv: applicationSrv, notifier: notifier}
}

// Create opens a new offer negotiation on an offer-extended application.
// A second active offer on the same application is refused, two internal
// actors must not race to extend different monetary terms.
func (s *OfferService) Create(ctx context.Context, form mappers.OfferCreateForm, actor auth.User) (*model.SalesOffer, error) {
	if !actor.Role.Internal() {
		return nil, NewErrForbidden("role %s may not create offers", actor.Role)
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	application, err := s.applicationSrv.GetApplication(ctx, form.ApplicationID)
	if err != nil {
		return nil, err
	}
	if application.Status != model.ApplicationStatusOfferExtended {
		return nil, NewErrInvalidState("application %s is %s, an offer requires %s",
			application.ID, application.Status, model.ApplicationStatusOfferExtended)
	}

	active, err := s.store.Offer().GetActiveByApplication(ctx, application.ID)
	if err != nil && !errors.Is(err, store.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check for active offers: %w", err)
	}
	if active != nil {
		return nil, NewErrConflictingOffer(application.ID, &active.ID)
	}

	offer, err := s.store.Offer().Create(ctx, form.ToModel(application, actor))
	if err != nil {
		// the read above cannot see an uncommitted concurrent create, the
		// partial unique index on active offers catches that race
		if errors.Is(err, store.ErrDuplicateKey) {
			return nil, NewErrConflictingOffer(application.ID, nil)
		}
		return nil, fmt.Errorf("failed to create offer: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Send(notify.OfferMessageKind, notify.OfferNotification{
		OfferID:       offer.ID,
		ApplicationID: offer.ApplicationID,
		CandidateID:   offer.CandidateID,
		Action:        "created",
		Status:        string(offer.Status),
	})

	return offer, nil
}

func (s *OfferService) GetOffer(ctx context.Context, id uuid.UUID) (*model.SalesOffer, error) {
	offer, err := s.store.Offer().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrOfferNotFound(id)
		}
		return nil, err
	}
	return offer, nil
}

// ApplicantRespond records the candidate's answer to an offer. An
// acceptance closes the offer and drives the application to hired in one
// transaction, either both writes land or neither does. A rejection queues
// the offer for sales review and leaves the application alone.
func (s *OfferService) ApplicantRespond(ctx context.Context, id uuid.UUID, actor auth.User, response model.CandidateResponse, notes *string) (*model.SalesOffer, error) {
	if response != model.ResponseAccepted && response != model.ResponseRejected {
		return nil, NewErrInvalidState("response must be accepted or rejected, got %s", response)
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	offer, err := s.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != auth.RoleCandidate || actor.ID != offer.CandidateID {
		return nil, NewErrForbidden("actor %s may not respond to offer %s", actor.ID, offer.ID)
	}
	// a settled offer never moves again, accepting twice fails cleanly
	if offer.ApplicantResponse != model.ResponsePending {
		return nil, NewErrInvalidState("offer %s already has applicant response %s", offer.ID, offer.ApplicantResponse)
	}

	now := time.Now()
	update := model.SalesOffer{
		ID:                   offer.ID,
		ApplicantNotes:       notes,
		ApplicantRespondedAt: &now,
	}

	var fields []string
	if response == model.ResponseAccepted {
		update.ApplicantResponse = model.ResponseAccepted
		update.Status = model.OfferStatusAccepted
		fields = []string{"applicant_response", "status", "applicant_notes", "applicant_responded_at"}
	} else {
		update.ApplicantResponse = model.ResponseRejected
		update.Status = model.OfferStatusRejected
		update.SalesResponse = model.ReviewPending
		fields = []string{"applicant_response", "status", "sales_response", "applicant_notes", "applicant_responded_at"}
	}

	updated, err := s.store.Offer().UpdateApplicantResponse(ctx, update, fields...)
	if err != nil {
		if errors.Is(err, store.ErrConcurrentUpdate) {
			return nil, NewErrInvalidState("offer %s was settled by a concurrent response", offer.ID)
		}
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}

	if response == model.ResponseAccepted {
		application, err := s.applicationSrv.GetApplication(ctx, offer.ApplicationID)
		if err != nil {
			return nil, err
		}
		if _, err := s.applicationSrv.transitionTx(ctx, application, model.ApplicationStatusHired, actor, "offer accepted", true); err != nil {
			return nil, err
		}
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Send(notify.OfferMessageKind, notify.OfferNotification{
		OfferID:       updated.ID,
		ApplicationID: updated.ApplicationID,
		CandidateID:   updated.CandidateID,
		Action:        "applicant_" + string(response),
		Status:        string(updated.Status),
	})

	return updated, nil
}

// ReviewDecision settles an applicant-rejected offer. Approval signals that
// a revised offer should follow; it does not create one. Rejection is a
// dead end for this offer, the application itself is untouched either way.
func (s *OfferService) ReviewDecision(ctx context.Context, id uuid.UUID, actor auth.User, decision model.ReviewerResponse, notes *string) (*model.SalesOffer, error) {
	if !actor.Role.Internal() {
		return nil, NewErrForbidden("role %s may not review offers", actor.Role)
	}
	if decision != model.ReviewApproved && decision != model.ReviewRejected {
		return nil, NewErrInvalidState("decision must be approved or rejected, got %s", decision)
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	offer, err := s.GetOffer(ctx, id)
	if err != nil {
		return nil, err
	}
	if offer.ApplicantResponse != model.ResponseRejected || offer.SalesResponse != model.ReviewPending {
		return nil, NewErrInvalidState("offer %s is not pending review (applicant %s, sales %s)",
			offer.ID, offer.ApplicantResponse, offer.SalesResponse)
	}

	now := time.Now()
	update := model.SalesOffer{
		ID:               offer.ID,
		SalesResponse:    decision,
		SalesNotes:       notes,
		SalesRespondedAt: &now,
	}
	if decision == model.ReviewApproved {
		update.Status = model.OfferStatusSalesApproved
	} else {
		update.Status = model.OfferStatusSalesRejected
	}

	updated, err := s.store.Offer().UpdateSalesResponse(ctx, update,
		"sales_response", "status", "sales_notes", "sales_responded_at")
	if err != nil {
		if errors.Is(err, store.ErrConcurrentUpdate) {
			return nil, NewErrInvalidState("offer %s was reviewed concurrently", offer.ID)
		}
		return nil, fmt.Errorf("failed to update offer: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Send(notify.OfferMessageKind, notify.OfferNotification{
		OfferID:       updated.ID,
		ApplicationID: updated.ApplicationID,
		CandidateID:   updated.CandidateID,
		Action:        "sales_" + string(decision),
		Status:        string(updated.Status),
	})

	return updated, nil
}

// ListPendingReviews returns the sales work queue, optionally scoped to
// offers the given reviewer created.
func (s *OfferService) ListPendingReviews(ctx context.Context, creatorID *uuid.UUID) (model.SalesOfferList, error) {
	filter := store.NewOfferQueryFilter()
	if creatorID != nil {
		filter = filter.ByCreatedByID(*creatorID)
	}
	return s.store.Offer().ListPendingReviews(ctx, filter)
}
