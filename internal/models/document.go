package models

import (
	"time"

	"gorm.io/datatypes"
)

// Document is one leaf of the document tree.
type Document struct {
	Namespace string         `gorm:"primaryKey;type:varchar(64)"`
	Path      string         `gorm:"primaryKey;type:text"`
	Value     datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

func (Document) TableName() string {
	return "documents"
}
