// Package state holds the client-side mirrors of server entities. The
// reducers are pure: value receivers return the next state and never
// mutate shared slices, so a late-completing request cannot corrupt a
// snapshot another caller is holding.
package state

import (
	"sort"
	"time"

	"github.com/asgsolar/luxclient/internal/domain"
)

// HistoryRetention caps the locally retained generation history at the
// most recent year of daily points.
const HistoryRetention = 365

// SolarState mirrors the site, its generation history, FIT payments
// and alerts.
type SolarState struct {
	CurrentSite       *domain.SolarSite
	GenerationHistory []domain.GenerationHistory
	FITPayments       []domain.FITPayment
	PerformanceAlerts []domain.PerformanceAlert
	LastUpdated       time.Time
}

// WithSite installs the dashboard payload.
func (s SolarState) WithSite(site domain.SolarSite, now time.Time) SolarState {
	s.CurrentSite = &site
	s.LastUpdated = now
	return s
}

// WithLiveGeneration merges a live reading into the current site.
// No-op until a site is loaded.
func (s SolarState) WithLiveGeneration(live domain.LiveGeneration, now time.Time) SolarState {
	if s.CurrentSite == nil {
		return s
	}
	site := *s.CurrentSite
	site.CurrentGenerationKW = live.CurrentKW
	site.TodayGenerationKWH = live.TodayKWH
	s.CurrentSite = &site
	s.LastUpdated = now
	return s
}

// WithSystemHealth overrides the health rollup on the current site.
func (s SolarState) WithSystemHealth(health domain.SystemHealth) SolarState {
	if s.CurrentSite == nil {
		return s
	}
	site := *s.CurrentSite
	site.SystemHealth = health
	s.CurrentSite = &site
	return s
}

// WithGenerationHistory replaces the history wholesale.
func (s SolarState) WithGenerationHistory(points []domain.GenerationHistory) SolarState {
	s.GenerationHistory = append([]domain.GenerationHistory(nil), points...)
	return s
}

// UpsertGenerationPoint inserts or replaces the point for its date,
// then re-sorts descending by date and truncates to HistoryRetention.
func (s SolarState) UpsertGenerationPoint(p domain.GenerationHistory) SolarState {
	next := append([]domain.GenerationHistory(nil), s.GenerationHistory...)

	replaced := false
	for i := range next {
		if next[i].Date == p.Date {
			next[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, p)
	}

	sort.Slice(next, func(i, j int) bool { return next[i].Date > next[j].Date })
	if len(next) > HistoryRetention {
		next = next[:HistoryRetention]
	}
	s.GenerationHistory = next
	return s
}

// WithFITPayments replaces the payment list wholesale.
func (s SolarState) WithFITPayments(payments []domain.FITPayment) SolarState {
	s.FITPayments = append([]domain.FITPayment(nil), payments...)
	return s
}

// UpsertFITPayment replaces a payment in place by id, or prepends a
// new one so the newest statement stays first.
func (s SolarState) UpsertFITPayment(p domain.FITPayment) SolarState {
	next := append([]domain.FITPayment(nil), s.FITPayments...)
	for i := range next {
		if next[i].ID == p.ID {
			next[i] = p
			s.FITPayments = next
			return s
		}
	}
	s.FITPayments = append([]domain.FITPayment{p}, next...)
	return s
}

// WithAlerts replaces the alert list wholesale.
func (s SolarState) WithAlerts(alerts []domain.PerformanceAlert) SolarState {
	s.PerformanceAlerts = append([]domain.PerformanceAlert(nil), alerts...)
	return s
}

// ResolveAlert stamps an alert resolved. Unknown ids are ignored.
func (s SolarState) ResolveAlert(id string, now time.Time) SolarState {
	next := append([]domain.PerformanceAlert(nil), s.PerformanceAlerts...)
	for i := range next {
		if next[i].ID == id {
			next[i].ResolvedAt = now.UTC().Format(time.RFC3339)
			break
		}
	}
	s.PerformanceAlerts = next
	return s
}

// RemoveAlert drops an alert by id.
func (s SolarState) RemoveAlert(id string) SolarState {
	next := make([]domain.PerformanceAlert, 0, len(s.PerformanceAlerts))
	for _, a := range s.PerformanceAlerts {
		if a.ID != id {
			next = append(next, a)
		}
	}
	s.PerformanceAlerts = next
	return s
}
