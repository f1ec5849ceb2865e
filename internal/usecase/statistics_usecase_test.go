package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"stackvault/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingStatsRepo struct {
	calls int
	since time.Time
}

func (r *countingStatsRepo) Collect(_ context.Context, since time.Time) (*entity.Statistics, error) {
	r.calls++
	r.since = since
	return &entity.Statistics{Products: entity.ProductStats{Total: int64(r.calls)}}, nil
}

type mapStatsCache struct {
	entries map[entity.StatsRange]*entity.Statistics
	getErr  error
}

func (c *mapStatsCache) Get(_ context.Context, r entity.StatsRange) (*entity.Statistics, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	s, ok := c.entries[r]
	return s, ok, nil
}

func (c *mapStatsCache) Set(_ context.Context, r entity.StatsRange, s *entity.Statistics) error {
	c.entries[r] = s
	return nil
}

func TestGetStatistics_CacheAside(t *testing.T) {
	repo := &countingStatsRepo{}
	cache := &mapStatsCache{entries: map[entity.StatsRange]*entity.Statistics{}}
	uc := NewStatisticsUseCase(repo, cache, testLogger()).(*statisticsUseCase)
	uc.now = fixedClock(testNow)
	ctx := context.Background()

	first, err := uc.GetStatistics(ctx, entity.RangeWeek)
	require.NoError(t, err)
	second, err := uc.GetStatistics(ctx, entity.RangeWeek)
	require.NoError(t, err)

	assert.Equal(t, 1, repo.calls)
	assert.Equal(t, first, second)
	assert.Equal(t, testNow.AddDate(0, 0, -7), repo.since)

	_, err = uc.GetStatistics(ctx, entity.RangeAll)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
	assert.Equal(t, 2020, repo.since.Year())
}

func TestGetStatistics_CacheFailureFallsThrough(t *testing.T) {
	repo := &countingStatsRepo{}
	cache := &mapStatsCache{entries: map[entity.StatsRange]*entity.Statistics{}, getErr: errors.New("redis down")}
	uc := NewStatisticsUseCase(repo, cache, testLogger())

	stats, err := uc.GetStatistics(context.Background(), entity.RangeMonth)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.Products.Total)
}

func TestGetStatistics_NoCache(t *testing.T) {
	repo := &countingStatsRepo{}
	uc := NewStatisticsUseCase(repo, nil, testLogger())

	_, err := uc.GetStatistics(context.Background(), entity.RangeAll)
	require.NoError(t, err)
	_, err = uc.GetStatistics(context.Background(), entity.RangeAll)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
