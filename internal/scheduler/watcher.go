package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
	"github.com/CBonnell/discord-dns-webhook/internal/notify"
	"github.com/CBonnell/discord-dns-webhook/internal/repo"
	"github.com/CBonnell/discord-dns-webhook/internal/resolver"
)

// cycleState tracks where the watcher is within a cycle:
// IDLE → SCANNING → (RESOLVING → EVALUATING → PERSISTING)* → SLEEPING → SCANNING …
type cycleState int

const (
	stateIdle cycleState = iota
	stateScanning
	stateResolving
	stateEvaluating
	statePersisting
	stateSleeping
)

func (s cycleState) String() string {
	switch s {
	case stateIdle:
		return "idle"
	case stateScanning:
		return "scanning"
	case stateResolving:
		return "resolving"
	case stateEvaluating:
		return "evaluating"
	case statePersisting:
		return "persisting"
	case stateSleeping:
		return "sleeping"
	}
	return "unknown"
}

// sleepFloor prevents tight-loop hammering even when an expiry is already in
// the past.
const sleepFloor = 30 * time.Second

// Watcher drives the resolution loop: scan for stale hosts, resolve each in
// config order, notify on notable changes, persist after every host, then
// sleep until the earliest expiry across the whole cache.
type Watcher struct {
	Logger   *zap.Logger
	Hosts    []domain.Host
	Resolver resolver.Resolver
	Store    repo.ResponseStore
	Notifier notify.Notifier
	Clock    Clock

	mu        sync.RWMutex
	responses map[string]domain.DNSResponse
	state     cycleState
}

// NewWatcher builds a watcher seeded with the responses loaded from the
// store at startup. initial may be nil.
func NewWatcher(
	logger *zap.Logger,
	hosts []domain.Host,
	res resolver.Resolver,
	store repo.ResponseStore,
	notifier notify.Notifier,
	clock Clock,
	initial map[string]domain.DNSResponse,
) *Watcher {
	if clock == nil {
		clock = SystemClock{}
	}
	if initial == nil {
		initial = map[string]domain.DNSResponse{}
	}
	return &Watcher{
		Logger:    logger,
		Hosts:     hosts,
		Resolver:  res,
		Store:     store,
		Notifier:  notifier,
		Clock:     clock,
		responses: initial,
		state:     stateIdle,
	}
}

// Run loops until ctx is cancelled. There is no terminal state of its own;
// the sleep between cycles is interrupted only by cancellation.
func (w *Watcher) Run(ctx context.Context) {
	for {
		sleepFor := w.runCycle(ctx)
		if ctx.Err() != nil {
			w.Logger.Info("watcher_stopped")
			return
		}

		w.setState(stateSleeping)
		w.Logger.Debug("sleeping", zap.Duration("duration", sleepFor))
		w.Clock.Sleep(ctx, sleepFor)
		if ctx.Err() != nil {
			w.Logger.Info("watcher_stopped")
			return
		}
	}
}

// runCycle performs one full pass and returns how long to sleep before the
// next one.
func (w *Watcher) runCycle(ctx context.Context) time.Duration {
	w.setState(stateScanning)
	now := w.Clock.Now()

	snapshot := w.Snapshot()
	stale := make([]domain.Host, 0, len(w.Hosts))
	for _, h := range w.Hosts {
		if IsStale(snapshot, h.Hostname, now) {
			stale = append(stale, h)
		}
	}
	w.Logger.Debug("scan_complete", zap.Int("stale_hosts", len(stale)))

	for _, h := range stale {
		if ctx.Err() != nil {
			return sleepFloor
		}
		w.checkHost(ctx, h)
	}

	return w.nextSleep(w.Clock.Now())
}

// checkHost resolves one host and runs it through evaluation and
// persistence. A resolution failure is logged and skipped so one failing
// host never starves the others.
func (w *Watcher) checkHost(ctx context.Context, h domain.Host) {
	w.setState(stateResolving)
	w.Logger.Debug("resolving", zap.String("host", h.Hostname))

	resp, err := w.Resolver.Resolve(ctx, h.Hostname)
	if err != nil {
		w.Logger.Warn("resolution_failed",
			zap.String("host", h.Hostname),
			zap.Error(err),
		)
		return
	}

	w.setState(stateEvaluating)
	prev := w.previous(h.Hostname)
	if IsNotable(prev, resp) {
		oldIPv4 := ""
		if prev != nil {
			oldIPv4 = prev.IPv4
		}
		w.Logger.Info("ip_changed",
			zap.String("host", h.Hostname),
			zap.String("old_ipv4", oldIPv4),
			zap.String("new_ipv4", resp.IPv4),
		)
		// Fire-and-forget: a failed delivery must not block persistence.
		if err := w.Notifier.Notify(ctx, h.Hostname, h.Config, resp); err != nil {
			w.Logger.Warn("notify_failed",
				zap.String("host", h.Hostname),
				zap.Error(err),
			)
		}
	} else {
		w.Logger.Debug("ip_unchanged",
			zap.String("host", h.Hostname),
			zap.String("ipv4", resp.IPv4),
		)
	}

	w.mu.Lock()
	w.responses[h.Hostname] = resp
	w.mu.Unlock()

	w.setState(statePersisting)
	if err := w.Store.Save(ctx, w.Snapshot()); err != nil {
		// Risks duplicate notifications after a restart, but the atomic
		// save discipline keeps the on-disk cache intact.
		w.Logger.Error("cache_persist_failed",
			zap.String("host", h.Hostname),
			zap.Error(err),
		)
	}
}

// nextSleep computes the time until the earliest expiry across ALL cached
// entries — including hosts not just resolved and hosts no longer in config —
// clamped to the floor. An empty cache sleeps the floor.
func (w *Watcher) nextSleep(now time.Time) time.Duration {
	w.mu.RLock()
	defer w.mu.RUnlock()

	var next time.Time
	for _, r := range w.responses {
		if next.IsZero() || r.Expiry.Before(next) {
			next = r.Expiry
		}
	}
	if next.IsZero() {
		return sleepFloor
	}
	if d := next.Sub(now); d > sleepFloor {
		return d
	}
	return sleepFloor
}

func (w *Watcher) previous(host string) *domain.DNSResponse {
	w.mu.RLock()
	defer w.mu.RUnlock()
	r, ok := w.responses[host]
	if !ok {
		return nil
	}
	return &r
}

// Snapshot copies the in-memory cache for persistence and for the status API.
func (w *Watcher) Snapshot() map[string]domain.DNSResponse {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make(map[string]domain.DNSResponse, len(w.responses))
	for k, v := range w.responses {
		out[k] = v
	}
	return out
}

func (w *Watcher) setState(s cycleState) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

// State reports the watcher's current position in the cycle.
func (w *Watcher) State() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state.String()
}
