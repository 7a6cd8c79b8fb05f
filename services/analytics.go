package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/finassist/finance-bot-api/models"
	"github.com/finassist/finance-bot-api/store"
)

// reportCacheDays is the only report window cached in Redis.
const reportCacheDays = 30

// AnalyticsService serves the aggregated read views the chart/export
// collaborator consumes. Results are cached in Redis with short TTLs when a
// client is configured; cache failures degrade to uncached reads and never
// touch ledger state.
type AnalyticsService struct {
	store store.Ledger
	cache *redis.Client
}

func NewAnalyticsService(st store.Ledger, cache *redis.Client) *AnalyticsService {
	return &AnalyticsService{store: st, cache: cache}
}

func statsKey(userID int64) string  { return fmt.Sprintf("stats:%d", userID) }
func reportKey(userID int64) string { return fmt.Sprintf("report:%d:%d", userID, reportCacheDays) }

// ExpenseStats returns per-category expense totals, biggest spend first.
func (s *AnalyticsService) ExpenseStats(ctx context.Context, userID int64) ([]models.CategoryTotal, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, statsKey(userID)).Result(); err == nil {
			var stats []models.CategoryTotal
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return stats, nil
			}
		}
	}

	stats, err := s.store.ExpenseStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.cache.SetEx(ctx, statsKey(userID), data, 60*time.Second)
		}
	}
	return stats, nil
}

// Report returns the income/expense/balance summary for the last days days.
func (s *AnalyticsService) Report(ctx context.Context, userID int64, days int) (*models.Report, error) {
	if days <= 0 {
		days = reportCacheDays
	}

	if s.cache != nil && days == reportCacheDays {
		if cached, err := s.cache.Get(ctx, reportKey(userID)).Result(); err == nil {
			var report models.Report
			if err := json.Unmarshal([]byte(cached), &report); err == nil {
				return &report, nil
			}
		}
	}

	report, err := s.store.TransactionReport(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	if s.cache != nil && days == reportCacheDays {
		if data, err := json.Marshal(report); err == nil {
			s.cache.SetEx(ctx, reportKey(userID), data, 5*time.Minute)
		}
	}
	return report, nil
}

// Invalidate drops the user's cached views. Called after every mutating
// ledger operation; errors are ignored on purpose.
func (s *AnalyticsService) Invalidate(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	s.cache.Del(ctx, statsKey(userID), reportKey(userID))
}
