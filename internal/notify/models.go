package notify

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationNotification is sent after an application changed status.
type ApplicationNotification struct {
	ApplicationID uuid.UUID `json:"application_id"`
	CandidateID   uuid.UUID `json:"candidate_id"`
	Status        string    `json:"status"`
	ActorID       uuid.UUID `json:"actor_id"`
	Note          string    `json:"note,omitempty"`
}

// InterviewNotification is sent when an interview is scheduled, answered,
// reviewed or cancelled.
type InterviewNotification struct {
	InterviewID   uuid.UUID  `json:"interview_id"`
	ApplicationID uuid.UUID  `json:"application_id"`
	CandidateID   uuid.UUID  `json:"candidate_id"`
	Action        string     `json:"action"`
	ScheduledAt   *time.Time `json:"scheduled_at,omitempty"`
}

// OfferNotification is sent when an offer is created, answered or reviewed.
type OfferNotification struct {
	OfferID       uuid.UUID `json:"offer_id"`
	ApplicationID uuid.UUID `json:"application_id"`
	CandidateID   uuid.UUID `json:"candidate_id"`
	Action        string    `json:"action"`
	Status        string    `json:"status"`
}
