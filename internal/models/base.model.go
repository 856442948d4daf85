package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BaseUUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"autoCreateTime"       json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"       json:"updatedAt"`
}

// BeforeCreate assigns a time ordered UUIDv7 so insertion order and id order agree.
func (b *BaseUUIDModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		b.ID = id
	}
	return nil
}

// BaseLinkModel backs the ordered membership rows (playlist tracks, library items).
type BaseLinkModel struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Position int       `gorm:"type:int;not null"    json:"position"`
	AddedAt  time.Time `gorm:"autoCreateTime"       json:"addedAt"`
}

func (b *BaseLinkModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		b.ID = id
	}
	return nil
}
