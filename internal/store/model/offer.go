package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// OfferStatus is the overall status of a sales offer. Pending and Rejected
// (awaiting sales review) are active; Accepted, SalesApproved and
// SalesRejected are terminal for that offer.
type OfferStatus string

const (
	OfferStatusPending       OfferStatus = "pending"
	OfferStatusAccepted      OfferStatus = "accepted"
	OfferStatusRejected      OfferStatus = "rejected"
	OfferStatusSalesApproved OfferStatus = "sales_approved"
	OfferStatusSalesRejected OfferStatus = "sales_rejected"
)

// SalesOffer is one monetary offer negotiation tied to exactly one
// application. Amount is in minor units of Currency.
type SalesOffer struct {
	ID            uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	// the partial unique index keeps concurrent creates from slipping a
	// second active offer past the service's read
	ApplicationID uuid.UUID   `gorm:"not null;index:sales_offers_application_id_idx;index:sales_offers_one_active_idx,unique,where:status = 'pending' OR status = 'rejected'"`
	CandidateID   uuid.UUID   `gorm:"not null"`
	JobID         uuid.UUID   `gorm:"not null"`
	CreatedByID   uuid.UUID   `gorm:"not null"`
	Amount        int64       `gorm:"not null"`
	Currency      string      `gorm:"not null;type:VARCHAR(3)"`
	Notes         *string
	Status        OfferStatus `gorm:"not null;type:VARCHAR(50)"`

	ApplicantResponse    CandidateResponse `gorm:"not null;type:VARCHAR(50)"`
	ApplicantNotes       *string
	ApplicantRespondedAt *time.Time

	SalesResponse    ReviewerResponse `gorm:"not null;type:VARCHAR(50)"`
	SalesNotes       *string
	SalesRespondedAt *time.Time
}

type SalesOfferList []SalesOffer

func (o SalesOffer) String() string {
	val, _ := json.Marshal(o)
	return string(val)
}
