package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CouponModel struct {
	ID             string    `gorm:"type:uuid;primary_key"`
	Code           string    `gorm:"type:text;not null;uniqueIndex"`
	Description    string    `gorm:"type:text;not null"`
	DiscountAmount float64   `gorm:"type:double precision;not null"`
	ExpiryDate     time.Time `gorm:"type:timestamptz;not null"`
	MaxUses        *int
	MinOrderAmount *float64 `gorm:"type:double precision"`
	IsActive       bool     `gorm:"not null"`
	UsedCount      int      `gorm:"not null;default:0"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (CouponModel) TableName() string {
	return "coupons"
}

func (c *CouponModel) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
