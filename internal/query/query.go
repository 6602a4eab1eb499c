// Package query sits on top of the request pipeline: cached,
// tag-invalidated reads, validated writes, and live polling.
package query

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/asgsolar/luxclient/internal/domain"
	"github.com/asgsolar/luxclient/internal/session"
	"github.com/asgsolar/luxclient/internal/transport"
)

// Result wraps a read outcome. Skipped marks a site-scoped query that
// was not issued because no site reference is loaded yet; it is
// neither a success nor an error.
type Result[T any] struct {
	Data      T
	Skipped   bool
	FromCache bool
}

// Queries is the read/write surface over the authenticated pipeline.
type Queries struct {
	client *transport.Client
	sess   *session.Store
	cache  *Cache
	log    zerolog.Logger
}

// New creates the query layer over the given client.
func New(client *transport.Client, log zerolog.Logger) *Queries {
	return &Queries{
		client: client,
		sess:   client.Session(),
		cache:  NewCache(),
		log:    log,
	}
}

// Cache exposes the underlying cache, mainly so hosts can Flush on
// logout.
func (q *Queries) Cache() *Cache {
	return q.cache
}

// siteRef returns the session user's site reference, empty when no
// user is loaded.
func (q *Queries) siteRef() string {
	if u := q.sess.Get().User; u != nil {
		return u.SiteReference
	}
	return ""
}

// fetch runs a cacheable read: cache hit short-circuits, a miss goes
// through the pipeline, decodes the envelope, and registers the
// result under the given tags.
func fetch[T any](ctx context.Context, q *Queries, key string, tags []Tag, req transport.Request) (Result[T], error) {
	var res Result[T]

	if data, ok := q.cache.Get(key); ok {
		if err := json.Unmarshal(data, &res.Data); err == nil {
			res.FromCache = true
			return res, nil
		}
		// Undecodable entry: fall through and refetch.
	}

	resp, err := q.client.Do(ctx, req)
	if err != nil {
		return res, err
	}
	data, err := transport.Decode[T](resp)
	if err != nil {
		return res, err
	}
	res.Data = data

	if raw, err := json.Marshal(data); err == nil {
		q.cache.Set(key, raw, tags...)
	}
	return res, nil
}

// SiteDashboard returns the dashboard view of the user's site.
func (q *Queries) SiteDashboard(ctx context.Context) (Result[domain.SolarSite], error) {
	site := q.siteRef()
	if site == "" {
		return Result[domain.SolarSite]{Skipped: true}, nil
	}
	return fetch[domain.SolarSite](ctx, q, "dashboard:"+site, []Tag{TagSite}, transport.Request{
		Method: http.MethodGet,
		Path:   "/sites/" + site + "/dashboard",
	})
}

// LiveGeneration returns the current reading. Never cached: this is
// the polled endpoint.
func (q *Queries) LiveGeneration(ctx context.Context) (Result[domain.LiveGeneration], error) {
	site := q.siteRef()
	if site == "" {
		return Result[domain.LiveGeneration]{Skipped: true}, nil
	}

	resp, err := q.client.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/sites/" + site + "/generation/live",
	})
	if err != nil {
		return Result[domain.LiveGeneration]{}, err
	}
	live, err := transport.Decode[domain.LiveGeneration](resp)
	if err != nil {
		return Result[domain.LiveGeneration]{}, err
	}
	return Result[domain.LiveGeneration]{Data: live}, nil
}

// GenerationHistory returns daily generation for the period.
func (q *Queries) GenerationHistory(ctx context.Context, period domain.HistoryPeriod) (Result[[]domain.GenerationHistory], error) {
	if !period.Valid() {
		return Result[[]domain.GenerationHistory]{}, fmt.Errorf("invalid history period %q", period)
	}
	site := q.siteRef()
	if site == "" {
		return Result[[]domain.GenerationHistory]{Skipped: true}, nil
	}
	return fetch[[]domain.GenerationHistory](ctx, q, "history:"+site+":"+string(period), []Tag{TagGeneration}, transport.Request{
		Method: http.MethodGet,
		Path:   "/sites/" + site + "/generation/history",
		Query:  url.Values{"period": {string(period)}},
	})
}

// FITPayments returns one page of feed-in-tariff statements.
func (q *Queries) FITPayments(ctx context.Context, page int) (Result[domain.PaginatedResponse[domain.FITPayment]], error) {
	site := q.siteRef()
	if site == "" {
		return Result[domain.PaginatedResponse[domain.FITPayment]]{Skipped: true}, nil
	}
	if page < 1 {
		page = 1
	}
	key := "fit:" + site + ":" + strconv.Itoa(page)
	return fetch[domain.PaginatedResponse[domain.FITPayment]](ctx, q, key, []Tag{TagFIT}, transport.Request{
		Method: http.MethodGet,
		Path:   "/sites/" + site + "/fit-payments",
		Query:  url.Values{"page": {strconv.Itoa(page)}},
	})
}

// PerformanceAlerts returns the open alerts for the site.
func (q *Queries) PerformanceAlerts(ctx context.Context) (Result[[]domain.PerformanceAlert], error) {
	site := q.siteRef()
	if site == "" {
		return Result[[]domain.PerformanceAlert]{Skipped: true}, nil
	}
	return fetch[[]domain.PerformanceAlert](ctx, q, "alerts:"+site, []Tag{TagNotifications}, transport.Request{
		Method: http.MethodGet,
		Path:   "/sites/" + site + "/alerts",
	})
}

// MaintenanceBookings returns the site's bookings.
func (q *Queries) MaintenanceBookings(ctx context.Context) (Result[[]domain.MaintenanceBooking], error) {
	site := q.siteRef()
	if site == "" {
		return Result[[]domain.MaintenanceBooking]{Skipped: true}, nil
	}
	return fetch[[]domain.MaintenanceBooking](ctx, q, "bookings:"+site, []Tag{TagMaintenance}, transport.Request{
		Method: http.MethodGet,
		Path:   "/sites/" + site + "/maintenance/bookings",
	})
}

// ServiceHistory returns completed service records.
func (q *Queries) ServiceHistory(ctx context.Context) (Result[[]domain.ServiceHistory], error) {
	site := q.siteRef()
	if site == "" {
		return Result[[]domain.ServiceHistory]{Skipped: true}, nil
	}
	return fetch[[]domain.ServiceHistory](ctx, q, "servicehistory:"+site, []Tag{TagMaintenance}, transport.Request{
		Method: http.MethodGet,
		Path:   "/sites/" + site + "/maintenance/history",
	})
}

// AvailableSlots returns bookable slots for a service type. Not
// cached: availability changes under the caller's feet.
func (q *Queries) AvailableSlots(ctx context.Context, serviceType string) (Result[[]string], error) {
	site := q.siteRef()
	if site == "" {
		return Result[[]string]{Skipped: true}, nil
	}

	resp, err := q.client.Do(ctx, transport.Request{
		Method: http.MethodGet,
		Path:   "/sites/" + site + "/maintenance/available-slots",
		Query:  url.Values{"service_type": {serviceType}},
	})
	if err != nil {
		return Result[[]string]{}, err
	}
	slots, err := transport.Decode[[]string](resp)
	if err != nil {
		return Result[[]string]{}, err
	}
	return Result[[]string]{Data: slots}, nil
}

// BatteryQuote returns a storage retrofit quote for the usage pattern.
func (q *Queries) BatteryQuote(ctx context.Context, usagePattern string) (Result[domain.BatteryQuote], error) {
	site := q.siteRef()
	if site == "" {
		return Result[domain.BatteryQuote]{Skipped: true}, nil
	}
	key := "batteryquote:" + site + ":" + usagePattern
	return fetch[domain.BatteryQuote](ctx, q, key, []Tag{TagSite}, transport.Request{
		Method: http.MethodGet,
		Path:   "/sites/" + site + "/battery-quote",
		Query:  url.Values{"usage_pattern": {usagePattern}},
	})
}

// Profile returns the full user record.
func (q *Queries) Profile(ctx context.Context) (Result[domain.User], error) {
	res, err := fetch[domain.User](ctx, q, "profile", []Tag{TagUser}, transport.Request{
		Method: http.MethodGet,
		Path:   "/user/profile",
	})
	if err == nil && !res.Skipped {
		q.sess.UpdateUser(res.Data)
	}
	return res, err
}
