package entity

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type MembershipStatus string

const (
	MembershipNone    MembershipStatus = "none"
	MembershipPremium MembershipStatus = "premium"
)

type Membership struct {
	Status        MembershipStatus `json:"status"`
	Type          string           `json:"type,omitempty"`
	PurchasedAt   *time.Time       `json:"purchasedAt,omitempty"`
	TransactionID string           `json:"transactionId,omitempty"`
	Amount        *float64         `json:"amount,omitempty"`
}

type User struct {
	ID           string     `json:"_id"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Photo        string     `json:"photo"`
	Bio          string     `json:"bio"`
	AuthProvider string     `json:"authProvider"`
	Role         Role       `json:"role"`
	Membership   Membership `json:"membership"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func (u *User) IsPremium() bool {
	return u.Membership.Status == MembershipPremium
}

// UserProfile holds the fields a sign-in may overwrite.
type UserProfile struct {
	Email        string
	Name         string
	Photo        string
	Bio          string
	AuthProvider string
	CreatedAt    *time.Time
}
