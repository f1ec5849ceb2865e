package entity

import "time"

const (
	PaymentCompleted         = "completed"
	PaymentServiceMembership = "membership_upgrade"
	DefaultPaymentMembership = "premium"
	DefaultMembershipType    = "monthly"
	PaymentIntentService     = "StackVault_membership"
)

type Payment struct {
	ID             string    `json:"_id"`
	Email          string    `json:"email"`
	Amount         float64   `json:"amount"`
	TransactionID  string    `json:"transactionId"`
	MembershipType string    `json:"membershipType"`
	PaidAt         time.Time `json:"paidAt"`
	Status         string    `json:"status"`
	Service        string    `json:"service"`
}

type PaymentIntent struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type PaymentIntentRequest struct {
	Amount     float64
	UserEmail  string
	CouponCode string
}

type PaymentRequest struct {
	Email          string
	Amount         float64
	TransactionID  string
	MembershipType string
}

type PaymentResult struct {
	Payment     *Payment
	UserUpdated bool
}
