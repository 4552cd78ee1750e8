package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mad-life/pkg/history"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("mad-life/session")

// ErrTooFar is returned when a request would compute more generations than
// the caller allows.
var ErrTooFar = errors.New("serial too far ahead")

// Snapshot is a generation together with the run state at read time.
// Generations are immutable, so a Snapshot is safe to use after the session
// lock is released.
type Snapshot struct {
	Generation *history.Generation
	Over       bool
}

// Frame flattens the snapshot for presentation.
func (s Snapshot) Frame() history.Frame { return s.Generation.Frame(s.Over) }

// Status describes a session's run.
type Status struct {
	Initialized bool   `json:"initialized"`
	State       string `json:"state"`
	Generations int    `json:"generations"`
	Over        bool   `json:"over"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Remembered  int    `json:"remembered"`
}

// NewLife starts a random run in the session. Zero dimensions fall back to the
// session defaults; the dimensions used become the new defaults.
func (r *Registry) NewLife(ctx context.Context, id string, width, height int) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "session.NewLife", trace.WithAttributes(
		attribute.Int("life.width", width),
		attribute.Int("life.height", height),
	))
	defer span.End()

	var snap Snapshot
	err := r.Do(ctx, id, func(s *Session) error {
		d := s.Defaults()
		if width == 0 {
			width = d.Width
		}
		if height == 0 {
			height = d.Height
		}
		h := s.History()
		if err := h.Create(width, height); err != nil {
			return err
		}
		s.SetDefaults(Defaults{Width: width, Height: height})
		g, err := h.Get(0)
		if err != nil {
			return err
		}
		snap = Snapshot{Generation: g, Over: h.IsOver()}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Snapshot{}, err
	}
	r.opts.Metrics.LifeCreated()
	r.logger.InfoContext(ctx, "life created", "session_id", id, "width", width, "height", height)
	return snap, nil
}

// Generation returns the generation with the given serial, computing at most
// maxAdvance new generations. maxAdvance <= 0 means no limit.
func (r *Registry) Generation(ctx context.Context, id string, serial, maxAdvance int) (Snapshot, error) {
	ctx, span := tracer.Start(ctx, "session.Generation", trace.WithAttributes(
		attribute.Int("life.serial", serial),
	))
	defer span.End()

	var (
		snap       Snapshot
		computed   int
		elapsed    time.Duration
		stabilized bool
	)
	err := r.Do(ctx, id, func(s *Session) error {
		h := s.History()
		before := h.Len()
		wasOver := h.IsOver()
		if maxAdvance > 0 && !wasOver && h.State() != history.Uninitialized && serial-(before-1) > maxAdvance {
			return fmt.Errorf("%w: serial %d is %d generations past %d, limit %d",
				ErrTooFar, serial, serial-(before-1), before-1, maxAdvance)
		}
		start := time.Now()
		g, err := h.Get(serial)
		if err != nil {
			return err
		}
		elapsed = time.Since(start)
		computed = h.Len() - before
		stabilized = !wasOver && h.IsOver()
		snap = Snapshot{Generation: g, Over: h.IsOver()}
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return Snapshot{}, err
	}

	span.SetAttributes(attribute.Int("life.computed", computed), attribute.Bool("life.over", snap.Over))
	r.opts.Metrics.Advanced(computed, elapsed)
	if stabilized {
		r.opts.Metrics.Stabilized()
		r.logger.InfoContext(ctx, "life stabilized",
			"session_id", id, "serial", snap.Generation.Serial())
	}
	return snap, nil
}

// Status reports the session's run state.
func (r *Registry) Status(ctx context.Context, id string) (Status, error) {
	var st Status
	err := r.Do(ctx, id, func(s *Session) error {
		h := s.History()
		size := h.Size()
		st = Status{
			Initialized: h.State() != history.Uninitialized,
			State:       h.State().String(),
			Generations: h.Len(),
			Over:        h.IsOver(),
			Width:       size.W,
			Height:      size.H,
			Remembered:  h.Remembered(),
		}
		if !st.Initialized {
			d := s.Defaults()
			st.Width, st.Height = d.Width, d.Height
		}
		return nil
	})
	return st, err
}
