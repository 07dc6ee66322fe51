package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus is the canonical lifecycle status of a job application.
// Only the application service writes it, through its transition table.
type ApplicationStatus string

const (
	ApplicationStatusSubmitted     ApplicationStatus = "submitted"
	ApplicationStatusInterviewing  ApplicationStatus = "interviewing"
	ApplicationStatusOfferExtended ApplicationStatus = "offer_extended"
	ApplicationStatusHired         ApplicationStatus = "hired"
	ApplicationStatusRejected      ApplicationStatus = "rejected"
	ApplicationStatusWithdrawn     ApplicationStatus = "withdrawn"
)

// Valid reports whether the status is one of the known statuses.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusSubmitted, ApplicationStatusInterviewing, ApplicationStatusOfferExtended,
		ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// Terminal reports whether no further transition is legal from this status.
func (s ApplicationStatus) Terminal() bool {
	switch s {
	case ApplicationStatusHired, ApplicationStatusRejected, ApplicationStatusWithdrawn:
		return true
	}
	return false
}

// Application is one candidate's bid for one job opening. It is the
// aggregate root of the workflow: interviews, offers and timeline entries
// all hang off it.
type Application struct {
	ID          uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	JobID       uuid.UUID         `gorm:"not null;index:applications_job_id_idx"`
	CandidateID uuid.UUID         `gorm:"not null;index:applications_candidate_id_idx"`
	Status      ApplicationStatus `gorm:"not null;type:VARCHAR(50)"`
	ResumeRef   string            `gorm:"type:VARCHAR(512)"`
	// Version guards concurrent status writes. Every status update bumps it
	// and matches against the value it read.
	Version    int             `gorm:"not null;default:0"`
	Interviews []Interview     `gorm:"foreignKey:ApplicationID;references:ID;constraint:OnDelete:CASCADE;"`
	Offers     []SalesOffer    `gorm:"foreignKey:ApplicationID;references:ID;constraint:OnDelete:CASCADE;"`
	Timeline   []TimelineEntry `gorm:"foreignKey:ApplicationID;references:ID;constraint:OnDelete:CASCADE;"`
}

type ApplicationList []Application

func (a Application) String() string {
	val, _ := json.Marshal(a)
	return string(val)
}
