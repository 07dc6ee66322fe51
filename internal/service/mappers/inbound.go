package mappers

import (
	"time"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/auth"
	"github.com/talentpool/pipeline/internal/store/model"
)

// ApplicationCreateForm carries the only fields an application can be
// created with.
type ApplicationCreateForm struct {
	JobID       uuid.UUID
	CandidateID uuid.UUID
	ResumeRef   string
}

func (f ApplicationCreateForm) ToModel() model.Application {
	return model.Application{
		ID:          uuid.New(),
		JobID:       f.JobID,
		CandidateID: f.CandidateID,
		ResumeRef:   f.ResumeRef,
		Status:      model.ApplicationStatusSubmitted,
	}
}

// InterviewScheduleForm carries the only fields an interview can be
// scheduled with. The negotiation sub-state always starts pending.
type InterviewScheduleForm struct {
	ApplicationID   uuid.UUID
	ScheduledAt     time.Time
	DurationMinutes int
	Participants    []uuid.UUID
}

func (f InterviewScheduleForm) ToModel(application *model.Application, scheduler auth.User) model.Interview {
	return model.Interview{
		ID:                uuid.New(),
		ApplicationID:     application.ID,
		CandidateID:       application.CandidateID,
		ScheduledByID:     scheduler.ID,
		ScheduledAt:       f.ScheduledAt,
		DurationMinutes:   f.DurationMinutes,
		Participants:      f.Participants,
		Status:            model.InterviewStatusScheduled,
		CandidateResponse: model.ResponsePending,
		ReviewerResponse:  model.ReviewPending,
	}
}

// OfferCreateForm carries the only fields an offer can be created with.
// Amount is in minor units of Currency.
type OfferCreateForm struct {
	ApplicationID uuid.UUID
	Amount        int64
	Currency      string
	Notes         *string
}

func (f OfferCreateForm) ToModel(application *model.Application, creator auth.User) model.SalesOffer {
	return model.SalesOffer{
		ID:                uuid.New(),
		ApplicationID:     application.ID,
		CandidateID:       application.CandidateID,
		JobID:             application.JobID,
		CreatedByID:       creator.ID,
		Amount:            f.Amount,
		Currency:          f.Currency,
		Notes:             f.Notes,
		Status:            model.OfferStatusPending,
		ApplicantResponse: model.ResponsePending,
		SalesResponse:     model.ReviewPending,
	}
}
