package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Offer interface {
	Get(ctx context.Context, id uuid.UUID) (*model.SalesOffer, error)
	Create(ctx context.Context, offer model.SalesOffer) (*model.SalesOffer, error)
	UpdateApplicantResponse(ctx context.Context, offer model.SalesOffer, fields ...string) (*model.SalesOffer, error)
	UpdateSalesResponse(ctx context.Context, offer model.SalesOffer, fields ...string) (*model.SalesOffer, error)
	GetActiveByApplication(ctx context.Context, applicationID uuid.UUID) (*model.SalesOffer, error)
	ListPendingReviews(ctx context.Context, filter *OfferQueryFilter) (model.SalesOfferList, error)
}

type OfferStore struct {
	db *gorm.DB
}

// Make sure we conform to Offer interface
var _ Offer = (*OfferStore)(nil)

func NewOfferStore(db *gorm.DB) Offer {
	return &OfferStore{db: db}
}

func (o *OfferStore) Get(ctx context.Context, id uuid.UUID) (*model.SalesOffer, error) {
	var offer model.SalesOffer
	result := o.getDB(ctx).First(&offer, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &offer, nil
}

func (o *OfferStore) Create(ctx context.Context, offer model.SalesOffer) (*model.SalesOffer, error) {
	result := o.getDB(ctx).Clauses(clause.Returning{}).Create(&offer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &offer, nil
}

// UpdateApplicantResponse writes the named fields only while the applicant
// response is still pending, so a late response can not overwrite a
// settled one.
func (o *OfferStore) UpdateApplicantResponse(ctx context.Context, offer model.SalesOffer, fields ...string) (*model.SalesOffer, error) {
	return o.update(ctx, offer, "applicant_response = ?", []any{model.ResponsePending}, fields)
}

// UpdateSalesResponse writes the named fields only while the offer sits in
// the sales review queue: applicant rejected, sales still pending.
func (o *OfferStore) UpdateSalesResponse(ctx context.Context, offer model.SalesOffer, fields ...string) (*model.SalesOffer, error) {
	return o.update(ctx, offer, "applicant_response = ? AND sales_response = ?",
		[]any{model.ResponseRejected, model.ReviewPending}, fields)
}

func (o *OfferStore) update(ctx context.Context, offer model.SalesOffer, guard string, args []any, fields []string) (*model.SalesOffer, error) {
	result := o.getDB(ctx).Model(&model.SalesOffer{}).
		Where("id = ?", offer.ID).
		Where(guard, args...).
		Select(fields).
		Updates(&offer)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		// either the row is gone or another response settled it first
		var count int64
		if err := o.getDB(ctx).Model(&model.SalesOffer{}).Where("id = ?", offer.ID).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, ErrRecordNotFound
		}
		return nil, ErrConcurrentUpdate
	}
	return o.Get(ctx, offer.ID)
}

// GetActiveByApplication returns the one non-terminal offer of an
// application, or ErrRecordNotFound when none is active. An offer stays
// active while it waits for the applicant or for sales review.
func (o *OfferStore) GetActiveByApplication(ctx context.Context, applicationID uuid.UUID) (*model.SalesOffer, error) {
	var offer model.SalesOffer
	result := o.getDB(ctx).
		Where("application_id = ? AND status IN ?", applicationID,
			[]model.OfferStatus{model.OfferStatusPending, model.OfferStatusRejected}).
		First(&offer)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &offer, nil
}

// ListPendingReviews is the sales reviewer's work queue: offers the
// applicant rejected and sales did not decide on yet, oldest first.
func (o *OfferStore) ListPendingReviews(ctx context.Context, filter *OfferQueryFilter) (model.SalesOfferList, error) {
	var offers model.SalesOfferList
	tx := o.getDB(ctx).
		Where("applicant_response = ? AND sales_response = ?", model.ResponseRejected, model.ReviewPending).
		Order("applicant_responded_at")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&offers)
	if result.Error != nil {
		return nil, result.Error
	}
	return offers, nil
}

func (o *OfferStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return o.db
}
