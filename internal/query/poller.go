package query

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/asgsolar/luxclient/internal/domain"
)

// DefaultPollInterval matches the live-generation refresh cadence of
// the dashboard.
const DefaultPollInterval = 30 * time.Second

// Poller reissues the live-generation read on a fixed interval while
// active. Foreground/background detection belongs to the host: the
// poller only reacts to SetActive, never to OS lifecycle APIs.
type Poller struct {
	queries   *Queries
	interval  time.Duration
	onReading func(domain.LiveGeneration)
	log       zerolog.Logger

	mu     sync.Mutex
	active bool
	wake   chan struct{}
}

// NewPoller creates a poller delivering readings to onReading. It
// starts inactive.
func NewPoller(q *Queries, interval time.Duration, log zerolog.Logger, onReading func(domain.LiveGeneration)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		queries:   q,
		interval:  interval,
		onReading: onReading,
		log:       log,
		wake:      make(chan struct{}, 1),
	}
}

// SetActive resumes or suspends polling. Activation triggers an
// immediate poll rather than waiting out a full interval.
func (p *Poller) SetActive(active bool) {
	p.mu.Lock()
	changed := p.active != active
	p.active = active
	p.mu.Unlock()

	if changed {
		p.log.Debug().Bool("active", active).Msg("live poller state changed")
		select {
		case p.wake <- struct{}{}:
		default:
		}
	}
}

func (p *Poller) isActive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.active
}

// Run polls until ctx is cancelled. While inactive it parks without
// issuing requests.
func (p *Poller) Run(ctx context.Context) error {
	for {
		if !p.isActive() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-p.wake:
			}
			continue
		}

		res, err := p.queries.LiveGeneration(ctx)
		switch {
		case err != nil:
			p.log.Warn().Err(err).Msg("live generation poll failed")
		case res.Skipped:
			p.log.Debug().Msg("live generation poll skipped, no site loaded")
		default:
			p.onReading(res.Data)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.interval):
		case <-p.wake:
		}
	}
}
