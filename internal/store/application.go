package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Application interface {
	List(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Application, error)
	Create(ctx context.Context, application model.Application) (*model.Application, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, version int, status model.ApplicationStatus) error
}

type ApplicationStore struct {
	db *gorm.DB
}

// Make sure we conform to Application interface
var _ Application = (*ApplicationStore)(nil)

func NewApplicationStore(db *gorm.DB) Application {
	return &ApplicationStore{db: db}
}

func (a *ApplicationStore) List(ctx context.Context, filter *ApplicationQueryFilter) (model.ApplicationList, error) {
	var applications model.ApplicationList
	tx := a.getDB(ctx).Model(&applications).Order("created_at DESC")

	if filter != nil {
		for _, fn := range filter.QueryFn {
			tx = fn(tx)
		}
	}

	result := tx.Find(&applications)
	if result.Error != nil {
		return nil, result.Error
	}
	return applications, nil
}

func (a *ApplicationStore) Get(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var application model.Application
	result := a.getDB(ctx).First(&application, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &application, nil
}

func (a *ApplicationStore) Create(ctx context.Context, application model.Application) (*model.Application, error) {
	result := a.getDB(ctx).Clauses(clause.Returning{}).Create(&application)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateKey
		}
		return nil, result.Error
	}
	return &application, nil
}

// UpdateStatus writes the status only when the row still carries the version
// the caller read. A zero-row update means another writer got there first.
func (a *ApplicationStore) UpdateStatus(ctx context.Context, id uuid.UUID, version int, status model.ApplicationStatus) error {
	now := time.Now()
	application := model.Application{
		Status:    status,
		Version:   version + 1,
		UpdatedAt: &now,
	}

	result := a.getDB(ctx).Model(&model.Application{}).
		Where("id = ? AND version = ?", id, version).
		Select("status", "version", "updated_at").
		Updates(&application)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// either the row is gone or someone bumped the version under us
		var count int64
		if err := a.getDB(ctx).Model(&model.Application{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrRecordNotFound
		}
		return ErrConcurrentUpdate
	}
	return nil
}

func (a *ApplicationStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return a.db
}
