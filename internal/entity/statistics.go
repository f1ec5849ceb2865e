package entity

import "time"

type StatsRange string

const (
	RangeAll   StatsRange = "all"
	RangeMonth StatsRange = "month"
	RangeWeek  StatsRange = "week"
)

var allTimeStart = time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC)

func ParseStatsRange(raw string) StatsRange {
	switch StatsRange(raw) {
	case RangeMonth:
		return RangeMonth
	case RangeWeek:
		return RangeWeek
	}
	return RangeAll
}

// Since returns the lower bound of the window ending at now.
func (r StatsRange) Since(now time.Time) time.Time {
	switch r {
	case RangeMonth:
		return now.AddDate(0, -1, 0)
	case RangeWeek:
		return now.AddDate(0, 0, -7)
	}
	return allTimeStart
}

type ProductStats struct {
	Accepted int64 `json:"accepted"`
	Pending  int64 `json:"pending"`
	Rejected int64 `json:"rejected"`
	Total    int64 `json:"total"`
}

type UserStats struct {
	Total   int64 `json:"total"`
	Premium int64 `json:"premium"`
	Regular int64 `json:"regular"`
}

type ReviewStats struct {
	Total int64 `json:"total"`
}

type RevenueStats struct {
	Total   float64 `json:"total"`
	Monthly float64 `json:"monthly"`
}

type Statistics struct {
	Products ProductStats `json:"products"`
	Users    UserStats    `json:"users"`
	Reviews  ReviewStats  `json:"reviews"`
	Revenue  RevenueStats `json:"revenue"`
}
