package usecase

import (
	"fmt"
	"time"

	"github.com/pomokit/pomo/internal/domain"
)

// StatsPeriod selects the reporting window for work stats.
type StatsPeriod string

const (
	PeriodToday StatsPeriod = "today"
	PeriodWeek  StatsPeriod = "week"
	PeriodMonth StatsPeriod = "month"
)

// ParsePeriod validates a CLI period argument; empty defaults to today.
func ParsePeriod(s string) (StatsPeriod, error) {
	switch StatsPeriod(s) {
	case "", PeriodToday:
		return PeriodToday, nil
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	}
	return "", fmt.Errorf("unknown period %q (want today, week, or month)", s)
}

// StatsReport aggregates archived sessions over a period.
type StatsReport struct {
	Period       StatsPeriod
	Sessions     int
	TotalSeconds int64
	AvgSeconds   int64
	From         time.Time
	To           time.Time
}

// StatsEngine computes focus statistics from the session archive.
type StatsEngine struct {
	archive domain.Archive
	now     func() time.Time
}

// NewStatsEngine creates a stats engine.
func NewStatsEngine(archive domain.Archive) *StatsEngine {
	return &StatsEngine{archive: archive, now: time.Now}
}

// Report aggregates all sessions whose end time falls in the period.
func (s *StatsEngine) Report(period StatsPeriod) (*StatsReport, error) {
	from, to := s.window(period)

	recs, err := s.archive.Sessions(from, to)
	if err != nil {
		return nil, err
	}

	report := &StatsReport{Period: period, From: from, To: to}
	for _, rec := range recs {
		report.Sessions++
		report.TotalSeconds += rec.DurationSeconds
	}
	if report.Sessions > 0 {
		report.AvgSeconds = report.TotalSeconds / int64(report.Sessions)
	}
	return report, nil
}

// window returns [from, to) in local time. Week starts on Monday;
// month is the current calendar month.
func (s *StatsEngine) window(period StatsPeriod) (time.Time, time.Time) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case PeriodWeek:
		weekday := int(midnight.Weekday())
		if weekday == 0 {
			weekday = 7 // Sunday closes the week
		}
		return midnight.AddDate(0, 0, -(weekday - 1)), now
	case PeriodMonth:
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()), now
	default:
		return midnight, now
	}
}
