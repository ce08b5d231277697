// Package analytics computes the headline KPIs of the dashboard
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/findosh/tourdesk/internal/i18n"
	"github.com/findosh/tourdesk/internal/models"
	"github.com/shopspring/decimal"
)

// Window is the length of one comparison period
const Window = 30 * 24 * time.Hour

// CountFunc returns a running total
type CountFunc func(ctx context.Context) (int64, error)

// RangeCountFunc counts records in [from, to)
type RangeCountFunc func(ctx context.Context, from, to time.Time) (int64, error)

// Metric describes one KPI and where its numbers come from. A metric
// without Between has no period comparison.
type Metric struct {
	Key     string
	Label   i18n.Key
	Icon    string
	Total   CountFunc
	Between RangeCountFunc
}

// Counts holds the raw numbers behind a KPI
type Counts struct {
	Total    int64
	Current  int64
	Previous int64
	Compared bool
}

// Service provides KPI calculations
type Service struct {
	metrics []Metric
	tr      *i18n.Translator
	now     func() time.Time
}

// NewService creates a new analytics service
func NewService(tr *i18n.Translator, metrics ...Metric) *Service {
	return &Service{
		metrics: metrics,
		tr:      tr,
		now:     time.Now,
	}
}

// Windows returns the start of the current and previous periods ending at now
func Windows(now time.Time) (currentFrom, previousFrom time.Time) {
	currentFrom = now.Add(-Window)
	previousFrom = currentFrom.Add(-Window)
	return currentFrom, previousFrom
}

// Snapshot gathers the counts of every metric, in registration order
func (s *Service) Snapshot(ctx context.Context) ([]Counts, error) {
	now := s.now().UTC()
	currentFrom, previousFrom := Windows(now)

	out := make([]Counts, 0, len(s.metrics))
	for _, m := range s.metrics {
		var c Counts
		var err error

		if c.Total, err = m.Total(ctx); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", m.Key, err)
		}
		if m.Between != nil {
			if c.Current, err = m.Between(ctx, currentFrom, now); err != nil {
				return nil, fmt.Errorf("failed to count %s in current window: %w", m.Key, err)
			}
			if c.Previous, err = m.Between(ctx, previousFrom, currentFrom); err != nil {
				return nil, fmt.Errorf("failed to count %s in previous window: %w", m.Key, err)
			}
			c.Compared = true
		}
		out = append(out, c)
	}
	return out, nil
}

// KPIs computes the localized KPI cards
func (s *Service) KPIs(ctx context.Context, lang models.Language) ([]models.KPI, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	kpis := make([]models.KPI, 0, len(s.metrics))
	for i, m := range s.metrics {
		kpis = append(kpis, BuildKPI(m, snapshot[i], s.tr.T(lang, m.Label)))
	}
	return kpis, nil
}

// BuildKPI turns counts into a KPI card
func BuildKPI(m Metric, c Counts, label string) models.KPI {
	kpi := models.KPI{
		Key:   m.Key,
		Label: label,
		Value: c.Total,
		Icon:  m.Icon,
	}
	if !c.Compared {
		return kpi
	}
	if change := ChangePercent(c.Current, c.Previous); change != nil {
		kpi.Change = change
		kpi.ChangeType = ChangeTypeOf(*change)
	}
	return kpi
}

// ChangePercent returns the change from previous to current in percent,
// rounded to one decimal place. It is nil when previous is zero.
func ChangePercent(current, previous int64) *decimal.Decimal {
	if previous == 0 {
		return nil
	}
	prev := decimal.NewFromInt(previous)
	change := decimal.NewFromInt(current).Sub(prev).
		Div(prev).
		Mul(decimal.NewFromInt(100)).
		Round(1)
	return &change
}

// ChangeTypeOf classifies a change; zero counts as an increase
func ChangeTypeOf(change decimal.Decimal) models.ChangeType {
	if change.IsNegative() {
		return models.ChangeDecrease
	}
	return models.ChangeIncrease
}

// UserCounter counts dashboard accounts
type UserCounter interface {
	Count(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// NewsCounter counts published news
type NewsCounter interface {
	CountPublished(ctx context.Context) (int64, error)
	CountPublishedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// NoticeCounter counts notices
type NoticeCounter interface {
	CountActive(ctx context.Context) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int64, error)
}

// SessionCounter counts signed-in clients
type SessionCounter interface {
	ActiveSessions(ctx context.Context) int64
}

// DashboardMetrics returns the KPIs of the analytics screen in display order
func DashboardMetrics(users UserCounter, news NewsCounter, notices NoticeCounter, sessions SessionCounter) []Metric {
	return []Metric{
		{Key: "users", Label: i18n.KPIUsers, Icon: "users", Total: users.Count, Between: users.CountCreatedBetween},
		{Key: "activeSessions", Label: i18n.KPIActiveSessions, Icon: "activity", Total: func(ctx context.Context) (int64, error) {
			return sessions.ActiveSessions(ctx), nil
		}},
		{Key: "publishedNews", Label: i18n.KPIPublishedNews, Icon: "newspaper", Total: news.CountPublished, Between: news.CountPublishedBetween},
		{Key: "notices", Label: i18n.KPINotices, Icon: "bell", Total: notices.CountActive, Between: notices.CountCreatedBetween},
	}
}
