package entity

// Unlimited marks a quota without a ceiling.
const Unlimited = -1

// FreeProductLimit is the lifetime number of products a non-premium user may submit.
const FreeProductLimit = 1

type QuotaDecision struct {
	Allowed      bool  `json:"allowed"`
	CurrentCount int64 `json:"currentCount"`
	Limit        int   `json:"limit"`
	Premium      bool  `json:"isPremium"`
}

// CanSubmitProduct decides whether an owner with the given membership and
// product count may submit one more product.
func CanSubmitProduct(status MembershipStatus, currentCount int64) QuotaDecision {
	if status == MembershipPremium {
		return QuotaDecision{
			Allowed:      true,
			CurrentCount: currentCount,
			Limit:        Unlimited,
			Premium:      true,
		}
	}

	return QuotaDecision{
		Allowed:      currentCount < FreeProductLimit,
		CurrentCount: currentCount,
		Limit:        FreeProductLimit,
	}
}
