package usecase

import (
	"context"
	"time"

	"stackvault/internal/entity"
	"stackvault/internal/repo/persistent"
	"stackvault/pkg/logger"
)

type StatisticsUseCase interface {
	GetStatistics(ctx context.Context, r entity.StatsRange) (*entity.Statistics, error)
}

type statisticsUseCase struct {
	statsRepo persistent.StatisticsRepository
	cache     StatsCache
	logger    *logger.Logger
	now       func() time.Time
}

// NewStatisticsUseCase reads through cache when it is non-nil.
func NewStatisticsUseCase(statsRepo persistent.StatisticsRepository, cache StatsCache, logger *logger.Logger) StatisticsUseCase {
	return &statisticsUseCase{
		statsRepo: statsRepo,
		cache:     cache,
		logger:    logger,
		now:       time.Now,
	}
}

func (uc *statisticsUseCase) GetStatistics(ctx context.Context, r entity.StatsRange) (*entity.Statistics, error) {
	if uc.cache != nil {
		stats, ok, err := uc.cache.Get(ctx, r)
		if err != nil {
			uc.logger.Warn("Statistics cache read failed for range=%s: %v", r, err)
		} else if ok {
			return stats, nil
		}
	}

	stats, err := uc.statsRepo.Collect(ctx, r.Since(uc.now().UTC()))
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Set(ctx, r, stats); err != nil {
			uc.logger.Warn("Statistics cache write failed for range=%s: %v", r, err)
		}
	}
	return stats, nil
}
