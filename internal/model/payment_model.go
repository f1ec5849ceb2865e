package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PaymentModel struct {
	ID             string    `gorm:"type:uuid;primary_key"`
	Email          string    `gorm:"type:text;not null;index"`
	Amount         float64   `gorm:"type:double precision;not null"`
	TransactionID  string    `gorm:"type:text;not null"`
	MembershipType string    `gorm:"type:text;not null"`
	Status         string    `gorm:"type:text;not null"`
	Service        string    `gorm:"type:text;not null"`
	PaidAt         time.Time `gorm:"type:timestamptz;not null"`
	CreatedAt      time.Time
}

func (PaymentModel) TableName() string {
	return "payments"
}

func (p *PaymentModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
