package store

import (
	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/store/model"
	"gorm.io/gorm"
)

type BaseQuerier struct {
	QueryFn []func(tx *gorm.DB) *gorm.DB
}

type ApplicationQueryFilter BaseQuerier

func NewApplicationQueryFilter() *ApplicationQueryFilter {
	return &ApplicationQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *ApplicationQueryFilter) ByCandidateID(candidateID uuid.UUID) *ApplicationQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("candidate_id = ?", candidateID)
	})
	return qf
}

func (qf *ApplicationQueryFilter) ByJobID(jobID uuid.UUID) *ApplicationQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("job_id = ?", jobID)
	})
	return qf
}

func (qf *ApplicationQueryFilter) ByStatus(status model.ApplicationStatus) *ApplicationQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("status = ?", status)
	})
	return qf
}

type OfferQueryFilter BaseQuerier

func NewOfferQueryFilter() *OfferQueryFilter {
	return &OfferQueryFilter{QueryFn: make([]func(tx *gorm.DB) *gorm.DB, 0)}
}

func (qf *OfferQueryFilter) ByCreatedByID(creatorID uuid.UUID) *OfferQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("created_by_id = ?", creatorID)
	})
	return qf
}

func (qf *OfferQueryFilter) ByApplicationID(applicationID uuid.UUID) *OfferQueryFilter {
	qf.QueryFn = append(qf.QueryFn, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("application_id = ?", applicationID)
	})
	return qf
}
