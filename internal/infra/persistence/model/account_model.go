// Package model holds the GORM persistence models of the relational store.
package model

import (
	"time"

	"github.com/google/uuid"
)

// AccountModel mirrors the 'users' table. The id is generated by the application (UUIDv7).
type AccountModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Username     string    `gorm:"type:text;uniqueIndex:users_username_key;not null"`
	Email        string    `gorm:"type:text;uniqueIndex:users_email_key;not null"`
	PasswordHash string    `gorm:"type:text;not null"`
	FirstName    *string   `gorm:"type:text"`
	LastName     *string   `gorm:"type:text"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TableName explicitly sets the table name for GORM.
func (AccountModel) TableName() string {
	return "users"
}
