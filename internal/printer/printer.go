// Package printer drives one-shot report printing: it renders the report
// document into a fresh rendering surface, waits for font readiness, and
// triggers the surface's print path exactly once before releasing it.
package printer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"khazana/internal/core"
	"khazana/internal/report"
)

var (
	// ErrNothingToPrint aborts an invocation with an empty filtered set
	// before any surface is created.
	ErrNothingToPrint = errors.New("no records to print")

	// ErrSurfaceUnavailable aborts an invocation when no rendering
	// surface can be obtained.
	ErrSurfaceUnavailable = errors.New("print surface unavailable")
)

// State of one print invocation. Transitions are strictly ordered; the
// only races are between the readiness signal and the fallback timer, and
// both funnel through the print-once guard.
type State int

const (
	StateIdle State = iota
	StateRendering
	StateAwaitingFonts
	StatePrinting
	StateCleaningUp
	StateDone
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRendering:
		return "rendering"
	case StateAwaitingFonts:
		return "awaiting_fonts"
	case StatePrinting:
		return "printing"
	case StateCleaningUp:
		return "cleaning_up"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Config holds the invocation timing knobs.
type Config struct {
	// SettleDelay runs after the readiness signal so layout settles
	// before the print trigger.
	SettleDelay time.Duration

	// ReadyRecheck arms a redundant print trigger shortly after surface
	// creation in case the primary readiness signal never fires.
	ReadyRecheck time.Duration

	// PrintFallback guarantees the print trigger even when readiness
	// neither resolves nor fails in time.
	PrintFallback time.Duration

	// CleanupFallback bounds how long the surface may live after the
	// print trigger when no completion signal arrives.
	CleanupFallback time.Duration
}

// DefaultConfig returns the standard timings.
func DefaultConfig() Config {
	return Config{
		SettleDelay:     50 * time.Millisecond,
		ReadyRecheck:    300 * time.Millisecond,
		PrintFallback:   2 * time.Second,
		CleanupFallback: 15 * time.Second,
	}
}

// Orchestrator runs print invocations. Each invocation owns its surface
// exclusively and tears it down before returning.
type Orchestrator struct {
	builder    *report.Builder
	newSurface func(context.Context) (Surface, error)
	cfg        Config
	log        *slog.Logger
}

func New(builder *report.Builder, newSurface func(context.Context) (Surface, error), cfg Config, log *slog.Logger) *Orchestrator {
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		builder:    builder,
		newSurface: newSurface,
		cfg:        cfg,
		log:        log,
	}
}

// PrintRecords builds the report for the (already filtered) records and
// runs the print flow to completion. It blocks until the surface has been
// released or ctx is cancelled.
func (o *Orchestrator) PrintRecords(ctx context.Context, records []core.Record, meta report.Meta) error {
	run, err := o.Prepare(ctx, records, meta)
	if err != nil {
		return err
	}
	return run(ctx)
}

// Prepare builds the report document and acquires the surface, failing
// fast when none can be created so callers can surface that to the user
// before detaching. The returned run function drives the flow to
// completion and releases the surface; call it exactly once.
func (o *Orchestrator) Prepare(ctx context.Context, records []core.Record, meta report.Meta) (func(context.Context) error, error) {
	if len(records) == 0 {
		return nil, ErrNothingToPrint
	}

	doc, err := o.builder.Build(records, meta, report.ModePrint)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}

	surface, err := o.newSurface(ctx)
	if err != nil {
		// Still Idle: nothing to clean up.
		return nil, fmt.Errorf("%w: %v", ErrSurfaceUnavailable, err)
	}

	inv := &invocation{surface: surface, cfg: o.cfg, log: o.log}
	return func(runCtx context.Context) error {
		return inv.run(runCtx, []byte(doc))
	}, nil
}

// invocation is the per-print state machine.
type invocation struct {
	surface Surface
	cfg     Config
	log     *slog.Logger

	state     State
	printOnce sync.Once
	closeOnce sync.Once
	printErr  error
}

func (inv *invocation) transition(next State) {
	inv.log.Debug("print state transition", "from", inv.state.String(), "to", next.String())
	inv.state = next
}

func (inv *invocation) run(ctx context.Context, doc []byte) error {
	defer inv.cleanup()

	inv.transition(StateRendering)
	if err := inv.surface.Render(ctx, doc); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	inv.transition(StateAwaitingFonts)
	inv.awaitReadiness(ctx)

	if err := inv.printErr; err != nil {
		return fmt.Errorf("trigger print: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	inv.transition(StateCleaningUp)
	inv.awaitCompletion(ctx)
	return nil
}

// awaitReadiness races the surface's readiness signal against the
// redundant recheck and the hard fallback. Whichever fires first wins;
// the print-once guard absorbs the losers.
func (inv *invocation) awaitReadiness(ctx context.Context) {
	readyCh := make(chan error, 1)
	go func() { readyCh <- inv.surface.Ready(ctx) }()

	recheck := time.NewTimer(timerOr(inv.cfg.ReadyRecheck, 300*time.Millisecond))
	defer recheck.Stop()
	fallback := time.NewTimer(timerOr(inv.cfg.PrintFallback, 2*time.Second))
	defer fallback.Stop()

	// The recheck probe only stands in for a readiness signal that
	// already failed. A healthy warm-up that is merely slow keeps
	// its settle delay.
	readinessFailed := false

	for {
		select {
		case err := <-readyCh:
			if err != nil {
				inv.log.Warn("font readiness failed, waiting for fallback", "error", err)
				readinessFailed = true
				if inv.surfaceLooksReady() {
					inv.triggerPrint(ctx)
					return
				}
				continue
			}
			inv.settle(ctx)
			inv.triggerPrint(ctx)
			return
		case <-recheck.C:
			if readinessFailed && inv.surfaceLooksReady() {
				inv.triggerPrint(ctx)
				return
			}
		case <-fallback.C:
			inv.triggerPrint(ctx)
			return
		case <-ctx.Done():
			return
		}
	}
}

// surfaceLooksReady consults an optional fast-path readiness probe.
func (inv *invocation) surfaceLooksReady() bool {
	type prober interface{ Rendered() bool }
	if p, ok := inv.surface.(prober); ok {
		return p.Rendered()
	}
	return false
}

// settle waits the configured grace delay so layout settles after the
// font signal before printing.
func (inv *invocation) settle(ctx context.Context) {
	delay := inv.cfg.SettleDelay
	if delay <= 0 {
		return
	}
	t := time.NewTimer(delay)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}

func (inv *invocation) triggerPrint(ctx context.Context) {
	inv.printOnce.Do(func() {
		if ctx.Err() != nil {
			inv.printErr = ctx.Err()
			return
		}
		inv.transition(StatePrinting)
		inv.printErr = inv.surface.Print(ctx)
	})
}

// awaitCompletion waits for the surface's completion signal or the
// cleanup fallback, whichever comes first.
func (inv *invocation) awaitCompletion(ctx context.Context) {
	fallback := time.NewTimer(timerOr(inv.cfg.CleanupFallback, 15*time.Second))
	defer fallback.Stop()
	select {
	case <-inv.surface.Done():
	case <-fallback.C:
		inv.log.Debug("print completion signal missing, cleaning up on timeout")
	case <-ctx.Done():
	}
}

func (inv *invocation) cleanup() {
	inv.closeOnce.Do(func() {
		if err := inv.surface.Close(); err != nil {
			inv.log.Warn("release print surface", "error", err)
		}
		inv.transition(StateDone)
	})
}

func timerOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
