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

// InterviewService runs the two-party interview negotiation. Candidates can
// not unilaterally reschedule, and reviewers can not overrule an
// acceptance: a reviewer only ever reviews a rejection.
type InterviewService struct {
	store          store.Store
	applicationSrv *ApplicationService
	notifier       *notify.Dispatcher
}

func NewInterviewService(store store.Store, applicationSrv *ApplicationService, notifier *notify.Dispatcher) *InterviewService {
	return &InterviewService{store: store, applicationSrv: applicationSrv, notifier: notifier}
}

// Schedule creates an interview for an application and, when the
// application is still in submitted, advances it to interviewing in the
// same transaction.
func (s *InterviewService) Schedule(ctx context.Context, form mappers.InterviewScheduleForm, actor auth.User) (*model.Interview, error) {
	if !actor.Role.Internal() {
		return nil, NewErrForbidden("role %s may not schedule interviews", actor.Role)
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
	if application.Status.Terminal() {
		return nil, NewErrInvalidState("application %s is %s, no interview can be scheduled", application.ID, application.Status)
	}

	interview, err := s.store.Interview().Create(ctx, form.ToModel(application, actor))
	if err != nil {
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}

	if application.Status == model.ApplicationStatusSubmitted {
		if _, err := s.applicationSrv.transitionTx(ctx, application, model.ApplicationStatusInterviewing, actor, "interview scheduled", true); err != nil {
			return nil, err
		}
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Send(notify.InterviewMessageKind, notify.InterviewNotification{
		InterviewID:   interview.ID,
		ApplicationID: interview.ApplicationID,
		CandidateID:   interview.CandidateID,
		Action:        "scheduled",
		ScheduledAt:   &interview.ScheduledAt,
	})

	return interview, nil
}

func (s *InterviewService) GetInterview(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	interview, err := s.store.Interview().Get(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrRecordNotFound) {
			return nil, NewErrInterviewNotFound(id)
		}
		return nil, err
	}
	return interview, nil
}

func (s *InterviewService) ListByApplication(ctx context.Context, applicationID uuid.UUID) (model.InterviewList, error) {
	return s.store.Interview().ListByApplication(ctx, applicationID)
}

// CandidateRespond records the candidate's answer to a scheduled interview.
// An acceptance closes the negotiation immediately: the reviewer response
// is set to approved as a side effect, not a separately requested action.
// A rejection queues the interview for internal review. Application status
// is never touched here.
func (s *InterviewService) CandidateRespond(ctx context.Context, id uuid.UUID, actor auth.User, response model.CandidateResponse, notes *string, suggestedTime *time.Time) (*model.Interview, error) {
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

	interview, err := s.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if actor.Role != auth.RoleCandidate || actor.ID != interview.CandidateID {
		return nil, NewErrForbidden("actor %s may not respond to interview %s", actor.ID, interview.ID)
	}
	if interview.CandidateResponse != model.ResponsePending {
		return nil, NewErrInvalidState("interview %s already has candidate response %s", interview.ID, interview.CandidateResponse)
	}

	now := time.Now()
	update := model.Interview{
		ID:                   interview.ID,
		CandidateNotes:       notes,
		CandidateRespondedAt: &now,
	}

	var fields []string
	if response == model.ResponseAccepted {
		update.CandidateResponse = model.ResponseAccepted
		update.ReviewerResponse = model.ReviewApproved
		update.Status = model.InterviewStatusConfirmed
		fields = []string{"candidate_response", "reviewer_response", "status", "candidate_notes", "candidate_responded_at"}
	} else {
		update.CandidateResponse = model.ResponseRejected
		update.ReviewerResponse = model.ReviewPending
		update.CandidateSuggestedTime = suggestedTime
		fields = []string{"candidate_response", "reviewer_response", "candidate_notes", "candidate_responded_at", "candidate_suggested_time"}
	}

	updated, err := s.store.Interview().UpdateCandidateResponse(ctx, update, fields...)
	if err != nil {
		if errors.Is(err, store.ErrConcurrentUpdate) {
			return nil, NewErrInvalidState("interview %s was settled by a concurrent response", interview.ID)
		}
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Send(notify.InterviewMessageKind, notify.InterviewNotification{
		InterviewID:   updated.ID,
		ApplicationID: updated.ApplicationID,
		CandidateID:   updated.CandidateID,
		Action:        "candidate_" + string(response),
	})

	return updated, nil
}

// ReviewerDecide settles a candidate-rejected interview. An approval picks
// the effective new time, reviewer-suggested first, candidate-suggested
// second, original time last, and closes the negotiation as successful. A
// rejection ends the negotiation without rescheduling.
func (s *InterviewService) ReviewerDecide(ctx context.Context, id uuid.UUID, actor auth.User, decision model.ReviewerResponse, suggestedTime *time.Time, notes *string) (*model.Interview, error) {
	if !actor.Role.Internal() {
		return nil, NewErrForbidden("role %s may not review interviews", actor.Role)
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

	interview, err := s.GetInterview(ctx, id)
	if err != nil {
		return nil, err
	}
	if interview.CandidateResponse != model.ResponseRejected || interview.ReviewerResponse != model.ReviewPending {
		return nil, NewErrInvalidState("interview %s is not pending review (candidate %s, reviewer %s)",
			interview.ID, interview.CandidateResponse, interview.ReviewerResponse)
	}

	now := time.Now()
	update := model.Interview{
		ID:                  interview.ID,
		ReviewerNotes:       notes,
		ReviewerRespondedAt: &now,
	}

	var fields []string
	if decision == model.ReviewApproved {
		effective := interview.ScheduledAt
		switch {
		case suggestedTime != nil:
			effective = *suggestedTime
			update.ReviewerSuggestedTime = suggestedTime
		case interview.CandidateSuggestedTime != nil:
			effective = *interview.CandidateSuggestedTime
		}

		update.ScheduledAt = effective
		if effective.Equal(interview.ScheduledAt) {
			update.Status = model.InterviewStatusScheduled
		} else {
			update.Status = model.InterviewStatusRescheduled
		}
		update.CandidateResponse = model.ResponseAccepted
		update.ReviewerResponse = model.ReviewApproved
		fields = []string{"candidate_response", "reviewer_response", "status", "scheduled_at",
			"reviewer_suggested_time", "reviewer_notes", "reviewer_responded_at"}
	} else {
		update.ReviewerResponse = model.ReviewRejected
		fields = []string{"reviewer_response", "reviewer_notes", "reviewer_responded_at"}
	}

	updated, err := s.store.Interview().UpdateReviewerResponse(ctx, update, fields...)
	if err != nil {
		if errors.Is(err, store.ErrConcurrentUpdate) {
			return nil, NewErrInvalidState("interview %s was reviewed concurrently", interview.ID)
		}
		return nil, fmt.Errorf("failed to update interview: %w", err)
	}

	if _, err := store.Commit(ctx); err != nil {
		return nil, err
	}

	s.notifier.Send(notify.InterviewMessageKind, notify.InterviewNotification{
		InterviewID:   updated.ID,
		ApplicationID: updated.ApplicationID,
		CandidateID:   updated.CandidateID,
		Action:        "reviewer_" + string(decision),
		ScheduledAt:   &updated.ScheduledAt,
	})

	return updated, nil
}

// ListPendingReviews returns the internal reviewer's work queue, oldest
// rejection first.
func (s *InterviewService) ListPendingReviews(ctx context.Context) (model.InterviewList, error) {
	return s.store.Interview().ListPendingReviews(ctx)
}

// Cancel deletes an interview. Only the scheduler or an admin may do it;
// this is the one path that destroys an interview row.
func (s *InterviewService) Cancel(ctx context.Context, id uuid.UUID, actor auth.User) error {
	interview, err := s.GetInterview(ctx, id)
	if err != nil {
		return err
	}
	if actor.ID != interview.ScheduledByID && actor.Role != auth.RoleAdmin {
		return NewErrForbidden("actor %s may not cancel interview %s", actor.ID, interview.ID)
	}

	if err := s.store.Interview().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}

	s.notifier.Send(notify.InterviewMessageKind, notify.InterviewNotification{
		InterviewID:   interview.ID,
		ApplicationID: interview.ApplicationID,
		CandidateID:   interview.CandidateID,
		Action:        "cancelled",
	})

	return nil
}
