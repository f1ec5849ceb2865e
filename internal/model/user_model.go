package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MembershipModel struct {
	Status        string     `gorm:"type:text;not null;default:'none'"`
	Type          *string    `gorm:"type:text"`
	PurchasedAt   *time.Time `gorm:"type:timestamptz"`
	TransactionID *string    `gorm:"type:text"`
	Amount        *float64   `gorm:"type:double precision"`
}

type UserModel struct {
	ID           string          `gorm:"type:uuid;primary_key"`
	Email        string          `gorm:"type:text;not null;uniqueIndex"`
	Name         string          `gorm:"type:text;not null;default:''"`
	Photo        string          `gorm:"type:text;not null;default:''"`
	Bio          string          `gorm:"type:text;not null;default:''"`
	AuthProvider string          `gorm:"type:text;not null;default:'password'"`
	Role         string          `gorm:"type:text;not null;default:'user'"`
	Membership   MembershipModel `gorm:"embedded;embeddedPrefix:membership_"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}
