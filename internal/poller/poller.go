// Package poller refreshes the in-memory task registry from the daemon
// on a fixed beat.
package poller

import (
	"context"
	"time"

	"aria2ctl/internal/log"
	"aria2ctl/internal/task"
)

// DefaultInterval is the delay between polls when the caller does not
// pick one.
const DefaultInterval = 2 * time.Second

// Lister is the slice of the RPC session the poller consumes.
type Lister interface {
	ListAll(ctx context.Context) ([]task.Snapshot, error)
}

// Poller drives a registry from periodic ListAll calls. A successful
// cycle replaces the registry contents wholesale and publishes the
// fresh snapshots; a failed cycle leaves the registry holding its last
// good data.
type Poller struct {
	lister   Lister
	registry *task.Registry
	interval time.Duration
	updates  chan []task.Snapshot
}

// New returns a Poller over the given session slice and registry. A
// non-positive interval falls back to DefaultInterval.
func New(lister Lister, registry *task.Registry, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller{
		lister:   lister,
		registry: registry,
		interval: interval,
		updates:  make(chan []task.Snapshot, 1),
	}
}

// Updates delivers the snapshot list of each successful poll. The
// channel holds only the latest result: a slow consumer skips
// intermediate polls instead of lagging behind the daemon.
func (p *Poller) Updates() <-chan []task.Snapshot {
	return p.updates
}

// Run polls once immediately, then on every tick, until ctx is
// cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("poll cycle panicked: %v", r)
		}
	}()

	snaps, err := p.lister.ListAll(ctx)
	if err != nil {
		log.Warn("poll failed: %v", err)
		return
	}
	p.registry.Replace(snaps)
	p.publish(snaps)
}

// publish drains the stale pending result, if any, so the send can
// never block.
func (p *Poller) publish(snaps []task.Snapshot) {
	select {
	case <-p.updates:
	default:
	}
	p.updates <- snaps
}
