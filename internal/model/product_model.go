package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type OwnerModel struct {
	Name  string `gorm:"type:text;not null;default:''"`
	Email string `gorm:"type:text;not null;index"`
	Photo string `gorm:"type:text;not null;default:''"`
}

type ProductModel struct {
	ID            string         `gorm:"type:uuid;primary_key"`
	Name          string         `gorm:"type:text;not null"`
	Image         string         `gorm:"type:text;not null"`
	Description   string         `gorm:"type:text;not null"`
	Tags          pq.StringArray `gorm:"type:text[]"`
	ExternalLink  string         `gorm:"type:text;not null;default:''"`
	Owner         OwnerModel     `gorm:"embedded;embeddedPrefix:owner_"`
	Votes         int            `gorm:"not null;default:0"`
	Status        string         `gorm:"type:text;not null;default:'pending'"`
	Featured      bool           `gorm:"not null;default:false"`
	Reported      bool           `gorm:"not null;default:false"`
	ReportedBy    *string        `gorm:"type:text"`
	ReporterName  *string        `gorm:"type:text"`
	ReporterImage *string        `gorm:"type:text"`
	ReportReason  *string        `gorm:"type:text"`
	ReportedAt    *time.Time     `gorm:"type:timestamptz"`
	ReviewedAt    *time.Time     `gorm:"type:timestamptz"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (ProductModel) TableName() string {
	return "products"
}

func (p *ProductModel) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return nil
}
