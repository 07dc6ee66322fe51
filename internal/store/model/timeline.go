package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// TimelineEntry is one append-only record of a status change. Entries are
// never updated or deleted; the sequence for an application is the
// authoritative history of its lifecycle.
type TimelineEntry struct {
	ID            uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt     time.Time
	ApplicationID uuid.UUID         `gorm:"not null;index:timeline_entries_application_id_idx"`
	Status        ApplicationStatus `gorm:"not null;type:VARCHAR(50)"`
	Note          string
	ActorID       uuid.UUID `gorm:"not null"`
}

type TimelineEntryList []TimelineEntry

func (t TimelineEntry) String() string {
	val, _ := json.Marshal(t)
	return string(val)
}
