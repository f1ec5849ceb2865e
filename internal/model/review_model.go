package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReviewModel struct {
	ID            string `gorm:"type:uuid;primary_key"`
	ProductID     string `gorm:"type:uuid;not null;index"`
	ReviewerName  string `gorm:"type:text;not null;default:''"`
	ReviewerImage string `gorm:"type:text;not null;default:''"`
	ReviewerEmail string `gorm:"type:text;not null;default:''"`
	Description   string `gorm:"type:text;not null"`
	Rating        int    `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ReviewModel) TableName() string {
	return "reviews"
}

func (r *ReviewModel) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
