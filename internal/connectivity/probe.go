// Package connectivity wraps the reachability signal every operation
// branches on.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/fekuna/omnipos-terminal/pkg/logger"
)

type Probe interface {
	IsOnline(ctx context.Context) bool
}

// PingProbe decides reachability by pinging the remote store, reusing the
// verdict for a TTL so hot paths don't ping per call. The hosting platform
// may also push its own signal via SetOnline, which resets the TTL window.
type PingProbe struct {
	db     *sqlx.DB
	ttl    time.Duration
	logger logger.Logger

	mu      sync.Mutex
	online  bool
	checked time.Time
	subs    []chan bool
}

func NewPingProbe(db *sqlx.DB, ttl time.Duration, log logger.Logger) *PingProbe {
	return &PingProbe{db: db, ttl: ttl, logger: log}
}

func (p *PingProbe) IsOnline(ctx context.Context) bool {
	p.mu.Lock()
	if time.Since(p.checked) < p.ttl {
		online := p.online
		p.mu.Unlock()
		return online
	}
	p.mu.Unlock()

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	online := p.db.PingContext(pingCtx) == nil

	p.record(online)
	return online
}

// SetOnline feeds a host-pushed reachability change (e.g. the OS network
// monitor) into the probe.
func (p *PingProbe) SetOnline(online bool) {
	p.record(online)
}

// Subscribe returns a channel receiving every reachability transition.
// Sends are non-blocking; a slow subscriber misses intermediate flips but
// always ends on the latest value it reads.
func (p *PingProbe) Subscribe() <-chan bool {
	ch := make(chan bool, 1)
	p.mu.Lock()
	p.subs = append(p.subs, ch)
	p.mu.Unlock()
	return ch
}

func (p *PingProbe) record(online bool) {
	p.mu.Lock()
	changed := online != p.online
	p.online = online
	p.checked = time.Now()
	subs := p.subs
	p.mu.Unlock()

	if !changed {
		return
	}
	p.logger.Info("connectivity changed", zap.Bool("online", online))
	for _, ch := range subs {
		select {
		case ch <- online:
		default:
		}
	}
}
