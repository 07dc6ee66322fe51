package v1alpha1

import (
	"time"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/store/model"
)

type ApplicationCreateRequest struct {
	JobID       uuid.UUID `json:"job_id" validate:"required"`
	CandidateID uuid.UUID `json:"candidate_id" validate:"required"`
	ResumeRef   string    `json:"resume_ref"`
}

type TransitionRequest struct {
	Status string `json:"status" validate:"required,application_status"`
	Note   string `json:"note"`
}

type WithdrawRequest struct {
	Note string `json:"note"`
}

type InterviewScheduleRequest struct {
	ApplicationID   uuid.UUID   `json:"application_id" validate:"required"`
	ScheduledAt     time.Time   `json:"scheduled_at" validate:"required,future_time"`
	DurationMinutes int         `json:"duration_minutes" validate:"required,gt=0"`
	Participants    []uuid.UUID `json:"participants"`
}

type CandidateResponseRequest struct {
	Response      string     `json:"response" validate:"required,negotiation_response"`
	Notes         *string    `json:"notes"`
	SuggestedTime *time.Time `json:"suggested_time"`
}

type ReviewerDecisionRequest struct {
	Decision      string     `json:"decision" validate:"required,review_decision"`
	SuggestedTime *time.Time `json:"suggested_time"`
	Notes         *string    `json:"notes"`
}

type OfferCreateRequest struct {
	ApplicationID uuid.UUID `json:"application_id" validate:"required"`
	Amount        int64     `json:"amount" validate:"required,gt=0"`
	Currency      string    `json:"currency" validate:"required,len=3"`
	Notes         *string   `json:"notes"`
}

type ApplicantResponseRequest struct {
	Response string  `json:"response" validate:"required,negotiation_response"`
	Notes    *string `json:"notes"`
}

type OfferReviewRequest struct {
	Decision string  `json:"decision" validate:"required,review_decision"`
	Notes    *string `json:"notes"`
}

type Application struct {
	ID          uuid.UUID  `json:"id"`
	JobID       uuid.UUID  `json:"job_id"`
	CandidateID uuid.UUID  `json:"candidate_id"`
	Status      string     `json:"status"`
	ResumeRef   string     `json:"resume_ref,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

type Interview struct {
	ID                     uuid.UUID   `json:"id"`
	ApplicationID          uuid.UUID   `json:"application_id"`
	CandidateID            uuid.UUID   `json:"candidate_id"`
	ScheduledAt            time.Time   `json:"scheduled_at"`
	DurationMinutes        int         `json:"duration_minutes"`
	Participants           []uuid.UUID `json:"participants,omitempty"`
	Status                 string      `json:"status"`
	CandidateResponse      string      `json:"candidate_response"`
	CandidateNotes         *string     `json:"candidate_notes,omitempty"`
	CandidateSuggestedTime *time.Time  `json:"candidate_suggested_time,omitempty"`
	ReviewerResponse       string      `json:"reviewer_response"`
	ReviewerNotes          *string     `json:"reviewer_notes,omitempty"`
	ReviewerSuggestedTime  *time.Time  `json:"reviewer_suggested_time,omitempty"`
}

type Offer struct {
	ID                uuid.UUID `json:"id"`
	ApplicationID     uuid.UUID `json:"application_id"`
	CandidateID       uuid.UUID `json:"candidate_id"`
	JobID             uuid.UUID `json:"job_id"`
	Amount            int64     `json:"amount"`
	Currency          string    `json:"currency"`
	Notes             *string   `json:"notes,omitempty"`
	Status            string    `json:"status"`
	ApplicantResponse string    `json:"applicant_response"`
	ApplicantNotes    *string   `json:"applicant_notes,omitempty"`
	SalesResponse     string    `json:"sales_response"`
	SalesNotes        *string   `json:"sales_notes,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

type TimelineEntry struct {
	ApplicationID uuid.UUID `json:"application_id"`
	Status        string    `json:"status"`
	Note          string    `json:"note,omitempty"`
	ActorID       uuid.UUID `json:"actor_id"`
	CreatedAt     time.Time `json:"created_at"`
}

func applicationToApi(m *model.Application) Application {
	return Application{
		ID:          m.ID,
		JobID:       m.JobID,
		CandidateID: m.CandidateID,
		Status:      string(m.Status),
		ResumeRef:   m.ResumeRef,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func applicationListToApi(list model.ApplicationList) []Application {
	out := make([]Application, 0, len(list))
	for i := range list {
		out = append(out, applicationToApi(&list[i]))
	}
	return out
}

func interviewToApi(m *model.Interview) Interview {
	return Interview{
		ID:                     m.ID,
		ApplicationID:          m.ApplicationID,
		CandidateID:            m.CandidateID,
		ScheduledAt:            m.ScheduledAt,
		DurationMinutes:        m.DurationMinutes,
		Participants:           m.Participants,
		Status:                 string(m.Status),
		CandidateResponse:      string(m.CandidateResponse),
		CandidateNotes:         m.CandidateNotes,
		CandidateSuggestedTime: m.CandidateSuggestedTime,
		ReviewerResponse:       string(m.ReviewerResponse),
		ReviewerNotes:          m.ReviewerNotes,
		ReviewerSuggestedTime:  m.ReviewerSuggestedTime,
	}
}

func interviewListToApi(list model.InterviewList) []Interview {
	out := make([]Interview, 0, len(list))
	for i := range list {
		out = append(out, interviewToApi(&list[i]))
	}
	return out
}

func offerToApi(m *model.SalesOffer) Offer {
	return Offer{
		ID:                m.ID,
		ApplicationID:     m.ApplicationID,
		CandidateID:       m.CandidateID,
		JobID:             m.JobID,
		Amount:            m.Amount,
		Currency:          m.Currency,
		Notes:             m.Notes,
		Status:            string(m.Status),
		ApplicantResponse: string(m.ApplicantResponse),
		ApplicantNotes:    m.ApplicantNotes,
		SalesResponse:     string(m.SalesResponse),
		SalesNotes:        m.SalesNotes,
		CreatedAt:         m.CreatedAt,
	}
}

func offerListToApi(list model.SalesOfferList) []Offer {
	out := make([]Offer, 0, len(list))
	for i := range list {
		out = append(out, offerToApi(&list[i]))
	}
	return out
}

func timelineToApi(list model.TimelineEntryList) []TimelineEntry {
	out := make([]TimelineEntry, 0, len(list))
	for _, e := range list {
		out = append(out, TimelineEntry{
			ApplicationID: e.ApplicationID,
			Status:        string(e.Status),
			Note:          e.Note,
			ActorID:       e.ActorID,
			CreatedAt:     e.CreatedAt,
		})
	}
	return out
}
