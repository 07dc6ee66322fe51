package store

import (
	"context"

	"github.com/talentpool/pipeline/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	NewTransactionContext(ctx context.Context) (context.Context, error)
	Application() Application
	Interview() Interview
	Offer() Offer
	Timeline() Timeline
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db          *gorm.DB
	application Application
	interview   Interview
	offer       Offer
	timeline    Timeline
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		db:          db,
		application: NewApplicationStore(db),
		interview:   NewInterviewStore(db),
		offer:       NewOfferStore(db),
		timeline:    NewTimelineStore(db),
	}
}

func (s *DataStore) NewTransactionContext(ctx context.Context) (context.Context, error) {
	return newTransactionContext(ctx, s.db)
}

func (s *DataStore) Application() Application {
	return s.application
}

func (s *DataStore) Interview() Interview {
	return s.interview
}

func (s *DataStore) Offer() Offer {
	return s.offer
}

func (s *DataStore) Timeline() Timeline {
	return s.timeline
}

func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(
		&model.Application{},
		&model.Interview{},
		&model.SalesOffer{},
		&model.TimelineEntry{},
	)
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
