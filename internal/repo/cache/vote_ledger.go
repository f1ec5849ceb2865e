package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const voteTTL = 365 * 24 * time.Hour

type VoteLedger struct {
	client *redis.Client
}

func NewVoteLedger(client *redis.Client) *VoteLedger {
	return &VoteLedger{client: client}
}

func voteKey(productID, email string) string {
	return fmt.Sprintf("product_voted:%s:%s", productID, email)
}

// Claim reports false when email already upvoted productID.
func (l *VoteLedger) Claim(ctx context.Context, productID, email string) (bool, error) {
	set, err := l.client.SetNX(ctx, voteKey(productID, email), "1", voteTTL).Result()
	if err != nil {
		return false, fmt.Errorf("failed to track vote: %w", err)
	}
	return set, nil
}

func (l *VoteLedger) Release(ctx context.Context, productID, email string) error {
	return l.client.Del(ctx, voteKey(productID, email)).Err()
}
