// Package supervisor keeps the singleton bridge worker reachable. It probes the
// worker's TCP port, launches the worker process when nothing answers and blocks
// callers until the port accepts connections or a bounded wait elapses.
//
// Readiness is decided by the probe alone. A worker that binds its port but
// fails internally still reads as Ready; the process exit code is never used.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrNotReady is wrapped by every EnsureReady failure.
var ErrNotReady = errors.New("worker not ready")

// State is the lifecycle of the worker as seen by the supervisor.
type State int32

const (
	Down State = iota
	Starting
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "down"
	}
}

// Prober reports whether the worker accepts connections.
type Prober interface {
	Probe(ctx context.Context) error
}

// Launcher starts the worker process without waiting for it to exit.
type Launcher interface {
	Launch() (pid int, err error)
}

type Options struct {
	PollInterval time.Duration
	ReadyTimeout time.Duration
}

// DefaultOptions polls every 500ms for up to 15s.
func DefaultOptions() Options {
	return Options{PollInterval: 500 * time.Millisecond, ReadyTimeout: 15 * time.Second}
}

type Supervisor struct {
	prober   Prober
	launcher Launcher
	opts     Options

	mu        sync.Mutex
	state     State
	launching bool

	launches atomic.Int64
}

func New(prober Prober, launcher Launcher, opts Options) *Supervisor {
	def := DefaultOptions()
	if opts.PollInterval <= 0 {
		opts.PollInterval = def.PollInterval
	}
	if opts.ReadyTimeout <= 0 {
		opts.ReadyTimeout = def.ReadyTimeout
	}
	return &Supervisor{prober: prober, launcher: launcher, opts: opts}
}

// EnsureReady returns nil once the worker accepts connections, launching it
// first if needed. Concurrent callers share a single launch.
func (s *Supervisor) EnsureReady(ctx context.Context) error {
	if err := s.prober.Probe(ctx); err == nil {
		s.markReady()
		return nil
	}
	if err := s.launchOnce(ctx); err != nil {
		return err
	}
	return s.waitReady(ctx)
}

// launchOnce holds the lock only for the launch decision; polling happens
// outside it so every caller waits independently.
func (s *Supervisor) launchOnce(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.launching {
		return nil
	}
	// The worker may have come up after our probe failed, including one that
	// finished booting after an earlier wait gave up on it.
	if s.prober.Probe(ctx) == nil {
		return nil
	}
	if s.state == Ready {
		log.Warn().Msg("worker became unreachable")
		s.state = Down
	}

	s.state = Starting
	s.launching = true
	s.launches.Add(1)

	start := time.Now()
	pid, err := s.launcher.Launch()
	if err != nil {
		s.state = Failed
		s.launching = false
		log.Error().Err(err).Msg("worker launch failed")
		return fmt.Errorf("%w: launch: %v", ErrNotReady, err)
	}
	log.Info().Int("pid", pid).Dur("took", time.Since(start)).Msg("worker launched")
	return nil
}

func (s *Supervisor) waitReady(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, s.opts.ReadyTimeout)
	defer cancel()

	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()

	for {
		if err := s.prober.Probe(waitCtx); err == nil {
			s.markReady()
			return nil
		}
		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return fmt.Errorf("%w: %v", ErrNotReady, ctx.Err())
			}
			s.markFailed()
			return fmt.Errorf("%w: not reachable after %s", ErrNotReady, s.opts.ReadyTimeout)
		case <-ticker.C:
		}
	}
}

func (s *Supervisor) markReady() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		log.Info().Str("previous", s.state.String()).Msg("worker ready")
	}
	s.state = Ready
	s.launching = false
}

func (s *Supervisor) markFailed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.launching {
		s.state = Failed
		s.launching = false
		log.Error().Dur("bound", s.opts.ReadyTimeout).Msg("worker did not become ready")
	}
}

// State reports the last observed lifecycle state without probing.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Status is State as a string, for health endpoints.
func (s *Supervisor) Status() string { return s.State().String() }

// Launches counts launch attempts since the supervisor was created.
func (s *Supervisor) Launches() int64 { return s.launches.Load() }
