package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InterviewStatus tracks whether the meeting happened. It is independent of
// the negotiation sub-state below.
type InterviewStatus string

const (
	InterviewStatusScheduled   InterviewStatus = "scheduled"
	InterviewStatusConfirmed   InterviewStatus = "confirmed"
	InterviewStatusAttended    InterviewStatus = "attended"
	InterviewStatusNoShow      InterviewStatus = "no_show"
	InterviewStatusCancelled   InterviewStatus = "cancelled"
	InterviewStatusRescheduled InterviewStatus = "rescheduled"
)

// CandidateResponse is the initiator side of a two-party negotiation.
// It is shared by interviews (candidate) and offers (applicant).
type CandidateResponse string

const (
	ResponsePending  CandidateResponse = "pending"
	ResponseAccepted CandidateResponse = "accepted"
	ResponseRejected CandidateResponse = "rejected"
)

// ReviewerResponse is the reviewer side of a two-party negotiation.
// It is shared by interviews (internal reviewer) and offers (sales).
type ReviewerResponse string

const (
	ReviewPending  ReviewerResponse = "pending"
	ReviewApproved ReviewerResponse = "approved"
	ReviewRejected ReviewerResponse = "rejected"
)

// ParticipantList holds the internal participant ids of an interview as a
// single jsonb column.
type ParticipantList []uuid.UUID

func (p ParticipantList) Value() (driver.Value, error) {
	val, err := json.Marshal(p)
	return string(val), err
}

func (p *ParticipantList) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, p)
	case string:
		return json.Unmarshal([]byte(v), p)
	}
	return fmt.Errorf("unsupported participant list type %T", value)
}

// Interview is one scheduled negotiation round tied to exactly one
// application. The candidate id is denormalized for access checks.
type Interview struct {
	ID              uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt       time.Time
	UpdatedAt       *time.Time
	ApplicationID   uuid.UUID       `gorm:"not null;index:interviews_application_id_idx"`
	CandidateID     uuid.UUID       `gorm:"not null"`
	ScheduledByID   uuid.UUID       `gorm:"not null"`
	ScheduledAt     time.Time       `gorm:"not null"`
	DurationMinutes int             `gorm:"not null"`
	Participants    ParticipantList `gorm:"type:jsonb"`
	Status          InterviewStatus `gorm:"not null;type:VARCHAR(50)"`

	CandidateResponse      CandidateResponse `gorm:"not null;type:VARCHAR(50)"`
	CandidateNotes         *string
	CandidateRespondedAt   *time.Time
	CandidateSuggestedTime *time.Time

	ReviewerResponse      ReviewerResponse `gorm:"not null;type:VARCHAR(50)"`
	ReviewerNotes         *string
	ReviewerRespondedAt   *time.Time
	ReviewerSuggestedTime *time.Time
}

type InterviewList []Interview

func (i Interview) String() string {
	val, _ := json.Marshal(i)
	return string(val)
}
