package models

import "time"

// Account holds the password hash for one email, outside the document tree.
type Account struct {
	Namespace    string `gorm:"primaryKey;type:varchar(64)"`
	Email        string `gorm:"primaryKey;type:varchar(320)"`
	Subject      string `gorm:"type:varchar(64);not null"`
	PasswordHash []byte `gorm:"type:bytea;not null"`
	CreatedAt    time.Time
}

func (Account) TableName() string {
	return "accounts"
}
