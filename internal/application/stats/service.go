// Package stats derives summary counters and rankings from the history store.
package stats

import (
	"sort"

	"github.com/doeshing/hangwatch/internal/domain"
	"github.com/doeshing/hangwatch/internal/ports"
)

// Service aggregates statistics on demand.
type Service struct {
	History ports.HistoryRepository
}

// GetStatistics derives counters over the stored results.
func (s *Service) GetStatistics() (domain.Statistics, error) {
	records, err := s.History.Records()
	if err != nil {
		return domain.Statistics{}, err
	}
	return Aggregate(records), nil
}

// Aggregate computes statistics over a result slice.
func Aggregate(records []domain.CommandResult) domain.Statistics {
	stats := domain.Statistics{TotalRuns: len(records)}

	var durations int
	var sum float64
	for _, rec := range records {
		if rec.TimedOut {
			stats.TimedOutRuns++
		}
		if rec.Killed {
			stats.KilledRuns++
		}
		if rec.DiagnosticRun {
			stats.DiagnosticRuns++
		}
		if rec.EndedAt.IsZero() {
			continue
		}
		durations++
		sum += rec.Duration
		if durations == 1 || rec.Duration < stats.MinDuration {
			stats.MinDuration = rec.Duration
		}
		if rec.Duration > stats.MaxDuration {
			stats.MaxDuration = rec.Duration
		}
		if rec.Duration > domain.SlowCommandThreshold {
			stats.Slowest = append(stats.Slowest, rec)
		}
	}

	if stats.TotalRuns > 0 {
		stats.TimeoutRate = float64(stats.TimedOutRuns) / float64(stats.TotalRuns) * 100.0
	}
	if durations > 0 {
		stats.AvgDuration = sum / float64(durations)
	}

	sort.SliceStable(stats.Slowest, func(i, j int) bool {
		return stats.Slowest[i].Duration > stats.Slowest[j].Duration
	})
	if len(stats.Slowest) > domain.SlowestRankingSize {
		stats.Slowest = stats.Slowest[:domain.SlowestRankingSize]
	}
	return stats
}
