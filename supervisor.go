// Copyright 2026 The Gatewatch Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use file except in compliance with the License.
// You may obtain a copy of the license at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package gatewatch

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
)

// Default timing for a Supervisor; see Options.
const (
	DefaultGrace        = 10 * time.Second
	DefaultPollInterval = 30 * time.Second
	DefaultHelper       = "gatebridge"
)

type healthState int

const (
	healthUnknown healthState = iota
	healthHealthy
	healthUnhealthy
)

func (h healthState) String() string {
	switch h {
	case healthHealthy:
		return "healthy"
	case healthUnhealthy:
		return "unhealthy"
	}
	return "unknown"
}

type eventKind int

const (
	evExit eventKind = iota
	evSpawnError
	evRestart
)

// procEvent is a message delivered to the supervisor's control loop: a
// process terminal event from the launcher, or a restart timer firing.
// The generation token identifies the process instance the event belongs
// to, so a late notification from a superseded instance is a safe no-op.
type procEvent struct {
	kind eventKind
	name string
	gen  uint64
	code int
	err  error
}

// ManagedGateway is the supervisor's mutable record for one declaration.
// It is created at startup and lives until shutdown.  All mutation happens
// under the supervisor lock, on the control flow: the startup sequence,
// the event handlers, and the periodic health pass.
type ManagedGateway struct {
	decl         Declaration
	handle       *processHandle
	gen          uint64
	skipped      bool
	health       healthState
	restarts     int
	delay        *backoff.ExponentialBackOff
	restartTimer *time.Timer
}

// newRestartBackoff builds the restart delay schedule: 1s, 2s, 4s, ...
// capped at one minute, with no jitter.  There is no attempt cap; a dead
// gateway is retried forever at the capped interval.
func newRestartBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.RandomizationFactor = 0
	b.Multiplier = 2
	b.MaxInterval = time.Minute
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}

// Options adjusts a Supervisor.  The zero value selects the defaults.
type Options struct {
	// Helper is the logical name of the bridge helper executable used to
	// expose owned commands as network services.
	Helper string

	// Grace is how long Start waits after launching owned gateways
	// before the first health pass, so that fresh processes can bind
	// their port.
	Grace time.Duration

	// PollInterval is the period of the recurring health pass.
	PollInterval time.Duration

	// ProbeTimeout bounds each individual health probe.
	ProbeTimeout time.Duration

	// Logger receives all supervisor output.  Defaults to a no-op
	// logger.
	Logger zerolog.Logger
}

// Supervisor owns the declared gateways: it brings owned processes up,
// restarts them with backoff when they die, health-probes everything
// periodically, and answers directory queries.  Failures among supervised
// gateways are absorbed; they surface only in logs and the health
// snapshot.
type Supervisor struct {
	opts     Options
	logger   zerolog.Logger
	launcher *launcher
	prober   *Prober

	mx       sync.Mutex
	gateways map[string]*ManagedGateway
	order    []string
	started  bool
	stopped  bool
	looping  bool

	events   chan procEvent
	stopq    chan struct{}
	loopDone chan struct{}
}

// New creates a Supervisor for the given declarations.  Nothing is
// launched until Start is called.
func New(decls []Declaration, opts Options) *Supervisor {
	if opts.Helper == "" {
		opts.Helper = DefaultHelper
	}
	if opts.Grace <= 0 {
		opts.Grace = DefaultGrace
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultPollInterval
	}
	if opts.ProbeTimeout <= 0 {
		opts.ProbeTimeout = ProbeTimeout
	}

	s := &Supervisor{
		opts:     opts,
		logger:   opts.Logger,
		prober:   NewProber(opts.ProbeTimeout),
		gateways: make(map[string]*ManagedGateway),
		events:   make(chan procEvent, 64),
		stopq:    make(chan struct{}),
		loopDone: make(chan struct{}),
	}
	s.launcher = &launcher{
		helper: opts.Helper,
		logger: opts.Logger,
		post:   s.post,
	}

	// Last declaration wins on a duplicated name, same as load.
	for _, d := range decls {
		if _, ok := s.gateways[d.Name]; !ok {
			s.order = append(s.order, d.Name)
		}
		s.gateways[d.Name] = &ManagedGateway{
			decl:  d,
			delay: newRestartBackoff(),
		}
	}
	return s
}

// post delivers an event to the control loop without ever wedging the
// sender: once shutdown begins, events are discarded.
func (s *Supervisor) post(ev procEvent) {
	select {
	case s.events <- ev:
	case <-s.stopq:
	}
}

// Start launches all owned gateways with valid declarations, waits the
// startup grace period (or until ctx is done), runs one health pass, logs
// a per-gateway summary, and starts the recurring health poll.  Calling
// Start more than once is a no-op.  Start never fails; configuration
// problems are logged and the offending gateway skipped.
func (s *Supervisor) Start(ctx context.Context) {
	s.mx.Lock()
	if s.started || s.stopped {
		s.mx.Unlock()
		return
	}
	s.started = true
	for _, name := range s.order {
		g := s.gateways[name]
		if g.decl.External() {
			continue
		}
		if g.decl.Command == "" || g.decl.Port == 0 {
			g.skipped = true
			s.logger.Error().Str("gateway", name).
				Msg("invalid declaration: command and port are required")
			continue
		}
		s.launch(g)
	}
	s.mx.Unlock()

	grace := time.NewTimer(s.opts.Grace)
	defer grace.Stop()
wait:
	for {
		select {
		case <-grace.C:
			break wait
		case <-ctx.Done():
			break wait
		case <-s.stopq:
			return
		case ev := <-s.events:
			// Processes can die during the grace period; service their
			// events here so the buffer cannot fill and wedge the wait
			// goroutines behind post.
			s.handleEvent(ev)
		}
	}

	s.healthPass()
	s.summarize()

	s.mx.Lock()
	if s.stopped {
		s.mx.Unlock()
		return
	}
	s.looping = true
	s.mx.Unlock()
	go s.run()
}

// Stop shuts the supervisor down: the health poll stops, pending restart
// timers are cancelled, and live owned processes are asked to terminate.
// Stop does not wait for process exit confirmation.  Stop is idempotent.
func (s *Supervisor) Stop() {
	s.mx.Lock()
	if s.stopped {
		s.mx.Unlock()
		return
	}
	s.stopped = true
	looping := s.looping
	s.mx.Unlock()

	close(s.stopq)
	if looping {
		<-s.loopDone
	}

	s.mx.Lock()
	for _, name := range s.order {
		g := s.gateways[name]
		if g.restartTimer != nil {
			g.restartTimer.Stop()
			g.restartTimer = nil
		}
		if g.handle != nil {
			g.handle.terminate()
			g.handle = nil
		}
	}
	s.gateways = make(map[string]*ManagedGateway)
	s.order = nil
	s.mx.Unlock()
	s.logger.Info().Msg("supervisor stopped")
}

// launch starts a new process instance for g.  Called with the lock held.
func (s *Supervisor) launch(g *ManagedGateway) {
	g.gen++
	g.handle = s.launcher.launch(g.decl, g.gen)
}

// run is the control loop.  Process events, restart timers, and the poll
// tick all funnel through here, so no two handlers for the same gateway
// ever execute concurrently.
func (s *Supervisor) run() {
	ticker := time.NewTicker(s.opts.PollInterval)
	defer ticker.Stop()
	defer close(s.loopDone)
	for {
		select {
		case <-s.stopq:
			return
		case <-ticker.C:
			s.healthPass()
		case ev := <-s.events:
			s.handleEvent(ev)
		}
	}
}

func (s *Supervisor) handleEvent(ev procEvent) {
	s.mx.Lock()
	defer s.mx.Unlock()

	g := s.gateways[ev.name]
	if g == nil || g.gen != ev.gen {
		// Shutdown already discarded the entry, or the event belongs
		// to a superseded process instance.
		return
	}

	switch ev.kind {
	case evExit, evSpawnError:
		if g.handle == nil {
			// Duplicate notification for an instance we already
			// handled.
			return
		}
		g.handle = nil
		g.health = healthUnhealthy
		delay := g.delay.NextBackOff()
		g.restarts++

		log := s.logger.Warn().Str("gateway", ev.name).
			Dur("delay", delay).Int("restarts", g.restarts)
		if ev.kind == evSpawnError {
			log.Err(ev.err).Msg("gateway failed to spawn; restart scheduled")
		} else {
			log.Int("code", ev.code).Msg("gateway exited; restart scheduled")
		}

		if g.restartTimer != nil {
			// A newly scheduled restart supersedes the old one.
			g.restartTimer.Stop()
		}
		name, gen := ev.name, g.gen
		g.restartTimer = time.AfterFunc(delay, func() {
			s.post(procEvent{kind: evRestart, name: name, gen: gen})
		})

	case evRestart:
		if g.handle != nil {
			// A process instance is already outstanding.
			return
		}
		g.restartTimer = nil
		s.launch(g)
	}
}

// healthPass probes every gateway once and applies the resulting health
// transitions.  Probes for distinct gateways run concurrently; the state
// writes serialize under the lock.
func (s *Supervisor) healthPass() {
	type target struct {
		name string
		addr string
	}

	s.mx.Lock()
	targets := make([]target, 0, len(s.order))
	for _, name := range s.order {
		g := s.gateways[name]
		if g.skipped {
			continue
		}
		targets = append(targets, target{name, g.decl.Address()})
	}
	s.mx.Unlock()

	results := make([]bool, len(targets))
	var wg sync.WaitGroup
	for i, t := range targets {
		wg.Add(1)
		go func(i int, addr string) {
			defer wg.Done()
			results[i] = s.prober.Probe(addr)
		}(i, t.addr)
	}
	wg.Wait()

	s.mx.Lock()
	for i, t := range targets {
		if g := s.gateways[t.name]; g != nil {
			s.applyHealth(g, results[i])
		}
	}
	s.mx.Unlock()
}

// applyHealth records one probe result.  Only edge transitions are logged;
// a steady state stays silent.  Called with the lock held.
func (s *Supervisor) applyHealth(g *ManagedGateway, reachable bool) {
	if reachable {
		if g.health != healthHealthy {
			g.health = healthHealthy
			// A successful probe means the current instance is
			// stable; backoff must not persist across an unrelated
			// future failure.
			g.restarts = 0
			g.delay.Reset()
			s.logger.Info().Str("gateway", g.decl.Name).Msg("gateway healthy")
		}
		return
	}
	was := g.health
	g.health = healthUnhealthy
	if was == healthHealthy {
		log := s.logger.Error()
		if g.decl.Optional {
			log = s.logger.Warn()
		}
		log.Str("gateway", g.decl.Name).Msg("gateway unreachable")
	}
}

// summarize logs one line per gateway after the first health pass.
func (s *Supervisor) summarize() {
	s.mx.Lock()
	defer s.mx.Unlock()
	for _, name := range s.order {
		g := s.gateways[name]
		switch {
		case g.health == healthHealthy:
			s.logger.Info().Str("gateway", name).
				Str("kind", g.decl.Kind()).Msg("gateway ready")
		case g.decl.Optional:
			s.logger.Warn().Str("gateway", name).
				Msg("optional gateway unavailable")
		default:
			s.logger.Error().Str("gateway", name).
				Msg("gateway unavailable")
		}
	}
}
