package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanSubmitProduct(t *testing.T) {
	tests := []struct {
		name    string
		status  MembershipStatus
		count   int64
		allowed bool
		limit   int
	}{
		{"first free submission", MembershipNone, 0, true, FreeProductLimit},
		{"second free submission", MembershipNone, 1, false, FreeProductLimit},
		{"free user over the limit", MembershipNone, 4, false, FreeProductLimit},
		{"premium with no products", MembershipPremium, 0, true, Unlimited},
		{"premium with many products", MembershipPremium, 250, true, Unlimited},
		{"unknown status is treated as free", MembershipStatus(""), 1, false, FreeProductLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := CanSubmitProduct(tt.status, tt.count)

			assert.Equal(t, tt.allowed, decision.Allowed)
			assert.Equal(t, tt.limit, decision.Limit)
			assert.Equal(t, tt.count, decision.CurrentCount)
			assert.Equal(t, tt.status == MembershipPremium, decision.Premium)
		})
	}
}

func TestQuotaError_IsForbidden(t *testing.T) {
	err := error(&QuotaError{Decision: CanSubmitProduct(MembershipNone, 1)})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.NotErrorIs(t, err, ErrValidation)
}
