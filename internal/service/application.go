package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/auth"
	"github.com/talentpool/pipeline/internal/notify"
	"github.com/talentpool/pipeline/internal/service/mappers"
	"github.com/talentpool/pipeline/internal/store"
	"github.com/talentpool/pipeline/internal/store/model"
	"go.uber.org/zap"
)

// roleSet encodes who may request a given status move. roleWorkflow is
// never derived from a caller: it is asserted by the negotiation services
// when a move is the direct outcome of a closed negotiation, so edges like
// offer-accepted → hired can not be requested over the API.
type roleSet uint8

const (
	roleCandidate roleSet = 1 << iota
	roleInternal
	roleWorkflow
)

// transitionTable is the single place where status graph legality lives:
// current status × target status → roles allowed to request the move.
// Terminal statuses have no row, so nothing ever leaves them. Internal
// staff may walk the pipeline in both directions between non-terminal
// statuses and may reject; candidates may only withdraw their own
// application, which is blocked once hired because hired has no row.
var transitionTable = map[model.ApplicationStatus]map[model.ApplicationStatus]roleSet{
	model.ApplicationStatusSubmitted: {
		model.ApplicationStatusInterviewing:  roleInternal | roleWorkflow,
		model.ApplicationStatusOfferExtended: roleInternal,
		model.ApplicationStatusRejected:      roleInternal,
		model.ApplicationStatusWithdrawn:     roleCandidate,
	},
	model.ApplicationStatusInterviewing: {
		model.ApplicationStatusSubmitted:     roleInternal,
		model.ApplicationStatusOfferExtended: roleInternal,
		model.ApplicationStatusRejected:      roleInternal,
		model.ApplicationStatusWithdrawn:     roleCandidate,
	},
	model.ApplicationStatusOfferExtended: {
		model.ApplicationStatusSubmitted:    roleInternal,
		model.ApplicationStatusInterviewing: roleInternal,
		model.ApplicationStatusHired:        roleWorkflow,
		model.ApplicationStatusRejected:     roleInternal,
		model.ApplicationStatusWithdrawn:    roleCandidate,
	},
}

func actorRoles(actor auth.User) roleSet {
	if actor.Role.Internal() {
		return roleInternal
	}
	return roleCandidate
}

// ApplicationService owns the canonical status field of a job application.
// Every status write in the system goes through it, so the timeline ledger
// and the status field can never diverge.
type ApplicationService struct {
	store    store.Store
	notifier *notify.Dispatcher
}

func NewApplicationService(store store.Store, notifier *notify.Dispatcher) *ApplicationService {
	return &ApplicationService{store: store, notifier: notifier}
}

// CreateApplication records a new submission with its initial timeline
// entry. Candidates may submit for themselves; internal staff may register
// an application on a candidate's behalf.
func (s *ApplicationService) CreateApplication(ctx context.Context, form mappers.ApplicationCreateForm, actor auth.User) (*model.Application, error) {
	if !actor.Role.Internal() && actor.ID != form.CandidateID {
		return nil, NewErrForbidden("candidate %s may not submit an application for candidate %s", actor.ID, form.CandidateID)
	}

	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	application, err := s.store.Application().Create(ctx, form.ToModel())
	if err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	entry := model.TimelineEntry{
		ApplicationID: application.ID,
		Status:        model.ApplicationStatusSubmitted,
		Note:          "application submitted",
		ActorID:       actor.ID,
	}
	if _, err := s.store.Timeline().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record submission: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Send(notify.ApplicationMessageKind, notify.ApplicationNotification{
		ApplicationID: application.ID,
		CandidateID:   application.CandidateID,
		Status:        string(application.Status),
		ActorID:       actor.ID,
	})

	return application, nil
}

func (s *ApplicationService) GetApplication(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	application, err := s.store.Application().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrApplicationNotFound(id)
		}
		return nil, err
	}
	return application, nil
}

func (s *ApplicationService) ListApplications(ctx context.Context, filter *store.ApplicationQueryFilter) (model.ApplicationList, error) {
	return s.store.Application().List(ctx, filter)
}

// CurrentStatus is a read-only lookup of the canonical status.
func (s *ApplicationService) CurrentStatus(ctx context.Context, id uuid.UUID) (model.ApplicationStatus, error) {
	application, err := s.GetApplication(ctx, id)
	if err != nil {
		return "", err
	}
	return application.Status, nil
}

// History returns the append-only audit sequence, oldest first.
func (s *ApplicationService) History(ctx context.Context, id uuid.UUID) (model.TimelineEntryList, error) {
	if _, err := s.GetApplication(ctx, id); err != nil {
		return nil, err
	}
	return s.store.Timeline().History(ctx, id)
}

// Transition moves an application to the target status on behalf of the
// actor. The new status and its timeline entry are written in one
// transaction and the row is re-read before success is reported.
func (s *ApplicationService) Transition(ctx context.Context, id uuid.UUID, target model.ApplicationStatus, actor auth.User, note string) (*model.Application, error) {
	ctx, err := s.store.NewTransactionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func() {
		_, _ = store.Rollback(ctx)
	}()

	application, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}

	application, err = s.transitionTx(ctx, application, target, actor, note, false)
	if err != nil {
		return nil, err
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Send(notify.ApplicationMessageKind, notify.ApplicationNotification{
		ApplicationID: application.ID,
		CandidateID:   application.CandidateID,
		Status:        string(application.Status),
		ActorID:       actor.ID,
		Note:          note,
	})

	return application, nil
}

// transitionTx applies one status move inside the transaction already bound
// to ctx. The negotiation services call it with viaWorkflow=true when the
// move is the outcome of a closed negotiation; it never commits, that is
// the caller's job.
func (s *ApplicationService) transitionTx(ctx context.Context, application *model.Application, target model.ApplicationStatus, actor auth.User, note string, viaWorkflow bool) (*model.Application, error) {
	edges, ok := transitionTable[application.Status]
	if !ok {
		// terminal status, nothing leaves it
		return nil, NewErrInvalidTransition(application.Status, target)
	}
	allowed, ok := edges[target]
	if !ok {
		return nil, NewErrInvalidTransition(application.Status, target)
	}

	roles := actorRoles(actor)
	if viaWorkflow {
		roles |= roleWorkflow
	}
	if roles&allowed == 0 {
		return nil, NewErrForbidden("role %s may not move application %s to %s", actor.Role, application.ID, target)
	}
	if actor.Role == auth.RoleCandidate && actor.ID != application.CandidateID {
		return nil, NewErrForbidden("candidate %s does not own application %s", actor.ID, application.ID)
	}

	if err := s.store.Application().UpdateStatus(ctx, application.ID, application.Version, target); err != nil {
		switch {
		case errors.Is(err, store.ErrConcurrentUpdate):
			return nil, NewErrTransitionConflict(application.ID)
		case errors.Is(err, store.ErrRecordNotFound):
			return nil, NewErrApplicationNotFound(application.ID)
		}
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}

	entry := model.TimelineEntry{
		ApplicationID: application.ID,
		Status:        target,
		Note:          note,
		ActorID:       actor.ID,
	}
	if _, err := s.store.Timeline().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to record transition: %w", err)
	}

	// re-read inside the transaction instead of trusting the write
	updated, err := s.store.Application().Get(ctx, application.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to re-read application: %w", err)
	}
	if updated.Status != target {
		return nil, fmt.Errorf("application %s status is %s after writing %s", application.ID, updated.Status, target)
	}

	zap.S().Named("application_service").Debugw("application transitioned",
		"application_id", application.ID, "from", application.Status, "to", target, "actor_id", actor.ID)

	return updated, nil
}
