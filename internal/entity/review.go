package entity

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

type Review struct {
	ID            string    `json:"_id"`
	ProductID     string    `json:"productId"`
	ReviewerName  string    `json:"reviewerName"`
	ReviewerImage string    `json:"reviewerImage"`
	ReviewerEmail string    `json:"reviewerEmail,omitempty"`
	Description   string    `json:"description"`
	Rating        int       `json:"rating"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}
