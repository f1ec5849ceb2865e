package usecase

import (
	"context"

	"stackvault/pkg/logger"
)

const (
	EventUserCreated      = "user.created"
	EventUserRoleChanged  = "user.role_changed"
	EventProductSubmitted = "product.submitted"
	EventProductUpdated   = "product.updated"
	EventProductModerated = "product.moderated"
	EventProductDeleted   = "product.deleted"
	EventProductReported  = "product.reported"
	EventProductUpvoted   = "product.upvoted"
	EventPaymentRecorded  = "payment.recorded"
	EventCouponRedeemed   = "coupon.redeemed"
	EventCouponChanged    = "coupon.changed"
	EventReviewCreated    = "review.created"
)

// publish never fails the calling operation. A nil publisher disables events.
func publish(ctx context.Context, publisher EventPublisher, log *logger.Logger, eventType string, payload interface{}) {
	if publisher == nil {
		return
	}
	if err := publisher.PublishEvent(ctx, eventType, payload); err != nil {
		log.Warn("Failed to publish %s event: %v", eventType, err)
	}
}
