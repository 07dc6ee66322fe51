package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/talentpool/pipeline/internal/store/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Timeline is the append-only ledger of status changes. There are no update
// or delete methods on purpose.
type Timeline interface {
	Append(ctx context.Context, entry model.TimelineEntry) (*model.TimelineEntry, error)
	History(ctx context.Context, applicationID uuid.UUID) (model.TimelineEntryList, error)
}

type TimelineStore struct {
	db *gorm.DB
}

// Make sure we conform to Timeline interface
var _ Timeline = (*TimelineStore)(nil)

func NewTimelineStore(db *gorm.DB) Timeline {
	return &TimelineStore{db: db}
}

func (t *TimelineStore) Append(ctx context.Context, entry model.TimelineEntry) (*model.TimelineEntry, error) {
	result := t.getDB(ctx).Clauses(clause.Returning{}).Create(&entry)
	if result.Error != nil {
		return nil, result.Error
	}
	return &entry, nil
}

// History returns the entries oldest to newest. The sequence is the
// authoritative lifecycle record of the application.
func (t *TimelineStore) History(ctx context.Context, applicationID uuid.UUID) (model.TimelineEntryList, error) {
	var entries model.TimelineEntryList
	result := t.getDB(ctx).
		Where("application_id = ?", applicationID).
		Order("id").
		Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}
	return entries, nil
}

func (t *TimelineStore) getDB(ctx context.Context) *gorm.DB {
	tx := FromContext(ctx)
	if tx != nil {
		return tx
	}
	return t.db
}
