package entity

import (
	"strings"
	"time"
)

type ProductStatus string

const (
	ProductPending  ProductStatus = "pending"
	ProductAccepted ProductStatus = "accepted"
	ProductRejected ProductStatus = "rejected"
)

func (s ProductStatus) Valid() bool {
	switch s {
	case ProductPending, ProductAccepted, ProductRejected:
		return true
	}
	return false
}

type Owner struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Photo string `json:"photo"`
}

type Product struct {
	ID            string        `json:"_id"`
	Name          string        `json:"name"`
	Image         string        `json:"image"`
	Description   string        `json:"description"`
	Tags          []string      `json:"tags"`
	ExternalLink  string        `json:"externalLink"`
	Owner         Owner         `json:"owner"`
	Votes         int           `json:"votes"`
	Status        ProductStatus `json:"status"`
	Featured      bool          `json:"featured"`
	Reported      bool          `json:"reported"`
	ReportedBy    string        `json:"reportedBy,omitempty"`
	ReporterName  string        `json:"reporterName,omitempty"`
	ReporterImage string        `json:"reporterImage,omitempty"`
	ReportReason  string        `json:"reportReason,omitempty"`
	ReportedAt    *time.Time    `json:"reportedAt,omitempty"`
	ReviewedAt    *time.Time    `json:"reviewedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// ProductContent is the user-editable part of a product.
type ProductContent struct {
	Name         string
	Image        string
	Description  string
	Tags         []string
	ExternalLink string
}

type ProductReport struct {
	ReporterEmail string
	ReporterName  string
	ReporterImage string
	Reason        string
}

// ProductModeration is a moderator edit. Nil fields are left unchanged.
type ProductModeration struct {
	Status   *ProductStatus
	Featured *bool
}

type ProductPage struct {
	Products      []*Product `json:"products"`
	TotalPages    int        `json:"totalPages"`
	CurrentPage   int        `json:"currentPage"`
	TotalProducts int64      `json:"totalProducts"`
}

type ProductQuery struct {
	Page   int
	Limit  int
	Search string
}

const (
	DefaultPageSize = 6
	MaxPageSize     = 100
	FeaturedLimit   = 4
	TrendingLimit   = 6
)

// Normalize applies paging defaults and caps and trims the search pattern.
func (q ProductQuery) Normalize() ProductQuery {
	q.Search = strings.TrimSpace(q.Search)
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageSize
	}
	if q.Limit > MaxPageSize {
		q.Limit = MaxPageSize
	}
	return q
}

func (q ProductQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}
