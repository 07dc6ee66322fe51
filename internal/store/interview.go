package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Interview interface {
	Get(ctx context.Context, id uuid.UUID) (*model.Interview, error)
	Create(ctx context.Context, interview model.Interview) (*model.Interview, error)
	UpdateCandidateResponse(ctx context.Context, interview model.Interview, fields ...string) (*model.Interview, error)
	UpdateReviewerResponse(ctx context.Context, interview model.Interview, fields ...string) (*model.Interview, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByApplication(ctx context.Context, applicationID uuid.UUID) (model.InterviewList, error)
	ListPendingReviews(ctx context.Context) (model.InterviewList, error)
}

type InterviewStore struct {
	db *gorm.DB
}

// Make sure we conform to Interview interface
var _ Interview = (*InterviewStore)(nil)

func NewInterviewStore(db *gorm.DB) Interview {
	return &InterviewStore{db: db}
}

func (i *InterviewStore) Get(ctx context.Context, id uuid.UUID) (*model.Interview, error) {
	var interview model.Interview
	result := i.getDB(ctx).First(&interview, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &interview, nil
}

func (i *InterviewStore) Create(ctx context.Context, interview model.Interview) (*model.Interview, error) {
	result := i.getDB(ctx).Clauses(clause.Returning{}).Create(&interview)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &interview, nil
}

// UpdateCandidateResponse writes the named fields only while the candidate
// response is still pending, so a late response can not overwrite a
// settled one.
func (i *InterviewStore) UpdateCandidateResponse(ctx context.Context, interview model.Interview, fields ...string) (*model.Interview, error) {
	return i.update(ctx, interview, "candidate_response = ?", []any{model.ResponsePending}, fields)
}

// UpdateReviewerResponse writes the named fields only while the interview
// sits in the review queue: candidate rejected, reviewer still pending.
func (i *InterviewStore) UpdateReviewerResponse(ctx context.Context, interview model.Interview, fields ...string) (*model.Interview, error) {
	return i.update(ctx, interview, "candidate_response = ? AND reviewer_response = ?",
		[]any{model.ResponseRejected, model.ReviewPending}, fields)
}

func (i *InterviewStore) update(ctx context.Context, interview model.Interview, guard string, args []any, fields []string) (*model.Interview, error) {
	result := i.getDB(ctx).Model(&model.Interview{}).
		Where("id = ?", interview.ID).
		Where(guard, args...).
		Select(fields).
		Updates(&interview)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// either the row is gone or another response settled it first
		var count int64
		if err := i.getDB(ctx).Model(&model.Interview{}).Where("id = ?", interview.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrRecordNotFound
		}
		return nil, ErrConcurrentUpdate
	}
	return i.Get(ctx, interview.ID)
}

func (i *InterviewStore) Delete(ctx context.Context, id uuid.UUID) error {
	result := i.getDB(ctx).Unscoped().Delete(&model.Interview{}, "id = ?", id)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}
	return nil
}

func (i *InterviewStore) ListByApplication(ctx context.Context, applicationID uuid.UUID) (model.InterviewList, error) {
	var interviews model.InterviewList
	result := i.getDB(ctx).
		Where("application_id = ?", applicationID).
		Order("scheduled_at").
		Find(&interviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return interviews, nil
}

// ListPendingReviews is the internal reviewer's work queue: interviews the
// candidate rejected and nobody reviewed yet, oldest rejection first.
func (i *InterviewStore) ListPendingReviews(ctx context.Context) (model.InterviewList, error) {
	var interviews model.InterviewList
	result := i.getDB(ctx).
		Where("candidate_response = ? AND reviewer_response = ?", model.ResponseRejected, model.ReviewPending).
		Order("candidate_responded_at").
		Find(&interviews)
	if result.Error != nil {
		return nil, result.Error
	}
	return interviews, nil
}

func (i *InterviewStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return i.db
}
