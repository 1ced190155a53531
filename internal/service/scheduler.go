package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/abdulrafay1716/shopflow-automation/internal/pkg/clock"
	"github.com/abdulrafay1716/shopflow-automation/internal/repository"
)

type SchedulerState string

const (
	StateIdle         SchedulerState = "idle"
	StateWindowClosed SchedulerState = "window_closed"
	StateGenerating   SchedulerState = "generating"
	StateCooldown     SchedulerState = "cooldown"
	StateBusy         SchedulerState = "busy"
)

// RunResult is what one scheduler invocation reports to its trigger.
type RunResult struct {
	Success   bool           `json:"success"`
	Generated int            `json:"generated"`
	Attempted int            `json:"attempted"`
	Message   string         `json:"message,omitempty"`
	State     SchedulerState `json:"state"`
}

type SchedulerOptions struct {
	BatchMin    int
	BatchMax    int
	DelayMin    time.Duration
	DelayMax    time.Duration
	CallTimeout time.Duration
	LeaseTTL    time.Duration
}

// Sleeper waits between generator calls; it returns early with ctx.Err().
type Sleeper func(ctx context.Context, d time.Duration) error

func ContextSleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Scheduler interface {
	Run(ctx context.Context) (*RunResult, error)
	State() SchedulerState
}

type schedulerImpl struct {
	generator    OrderGenerator
	settingsRepo repository.SettingsRepository
	lease        Lease
	rng          Rand
	clock        clock.Clock
	sleep        Sleeper
	opts         SchedulerOptions
	log          zerolog.Logger

	state *stateBox
}

type stateBox struct {
	mu    sync.RWMutex
	state SchedulerState
}

func newStateBox(initial SchedulerState) *stateBox {
	return &stateBox{state: initial}
}

func (b *stateBox) get() SchedulerState {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.state
}

func (b *stateBox) set(state SchedulerState) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = state
}

func NewScheduler(
	generator OrderGenerator,
	settingsRepo repository.SettingsRepository,
	lease Lease,
	rng Rand,
	clk clock.Clock,
	sleep Sleeper,
	opts SchedulerOptions,
	log zerolog.Logger,
) Scheduler {
	if sleep == nil {
		sleep = ContextSleep
	}
	if opts.CallTimeout <= 0 {
		opts.CallTimeout = 10 * time.Second
	}
	if opts.LeaseTTL <= 0 {
		opts.LeaseTTL = 15 * time.Minute
	}

	return &schedulerImpl{
		generator:    generator,
		settingsRepo: settingsRepo,
		lease:        lease,
		rng:          rng,
		clock:        clk,
		sleep:        sleep,
		opts:         opts,
		log:          log.With().Str("component", "scheduler").Logger(),
		state:        newStateBox(StateIdle),
	}
}

func (s *schedulerImpl) State() SchedulerState {
	return s.state.get()
}

// Run executes one batch when automation is on and the local hour is inside
// [start, end). A started batch is not stopped by the enable flag; ctx is
// only checked between calls.
func (s *schedulerImpl) Run(ctx context.Context) (*RunResult, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: read settings: %v", ErrUpstreamUnavailable, err)
	}

	if !settings.AutomationEnabled {
		s.state.set(StateIdle)
		return &RunResult{Success: true, State: StateIdle, Message: ErrAutomationDisabled.Error()}, nil
	}

	loc, err := time.LoadLocation(settings.AutomationTimezone)
	if err != nil {
		s.log.Warn().Err(err).Str("timezone", settings.AutomationTimezone).Msg("unknown automation timezone, using UTC")
		loc = time.UTC
	}

	hour := s.clock.Now().In(loc).Hour()
	if hour < settings.AutomationStartHour || hour >= settings.AutomationEndHour {
		s.state.set(StateWindowClosed)
		s.log.Info().
			Int("hour", hour).
			Int("start", settings.AutomationStartHour).
			Int("end", settings.AutomationEndHour).
			Msg("automation window closed")
		return &RunResult{Success: true, State: StateWindowClosed, Message: ErrOutsideWindow.Error()}, nil
	}

	release, ok, err := s.lease.Acquire(ctx, s.opts.LeaseTTL)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Info().Msg("batch already running elsewhere")
		return &RunResult{Success: true, State: StateBusy, Message: "batch already running"}, nil
	}
	defer func() {
		if err := release(); err != nil {
			s.log.Warn().Err(err).Dur("ttl", s.opts.LeaseTTL).Msg("release batch lease")
		}
	}()

	return s.runBatch(ctx), nil
}

func (s *schedulerImpl) runBatch(ctx context.Context) *RunResult {
	s.state.set(StateGenerating)
	defer s.state.set(StateCooldown)

	size := intBetween(s.rng, s.opts.BatchMin, s.opts.BatchMax)
	started := s.clock.Now()
	s.log.Info().Int("batch_size", size).Msg("batch started")

	result := &RunResult{Success: true, State: StateCooldown}
	for i := 0; i < size; i++ {
		if i > 0 {
			delay := durationBetween(s.rng, s.opts.DelayMin, s.opts.DelayMax)
			if err := s.sleep(ctx, delay); err != nil {
				result.Message = "batch interrupted"
				break
			}
		}
		if ctx.Err() != nil {
			result.Message = "batch interrupted"
			break
		}

		result.Attempted++
		if s.generateOne(ctx) {
			result.Generated++
		}
	}

	s.log.Info().
		Int("generated", result.Generated).
		Int("attempted", result.Attempted).
		Dur("took", s.clock.Now().Sub(started)).
		Msg("batch finished")

	return result
}

func (s *schedulerImpl) generateOne(ctx context.Context) bool {
	callCtx, cancel := context.WithTimeout(ctx, s.opts.CallTimeout)
	defer cancel()

	summary, err := s.generator.Generate(callCtx)
	if err != nil {
		s.log.Warn().Err(err).Msg("order generation failed")
		return false
	}

	s.log.Debug().Str("order_code", summary.OrderCode).Msg("order generated")
	return true
}
