// Package history keeps the generations of one Game of Life run and extends
// them on demand.
//
// A History starts Uninitialized. Create (or CreateFrom) seeds generation 0
// and makes it Active. Get computes missing generations one by one and stops
// early when a plane repeats an earlier one; the run is then Stable and every
// later serial is answered with the last generation computed, since all
// following generations would repeat the cycle.
//
// A History is not safe for concurrent use. Callers serialize access, see
// internal/session.
package history

import (
	"fmt"
	"math/rand/v2"
	"time"

	"mad-life/pkg/bitplane"
	"mad-life/pkg/core"
)

// State is the lifecycle stage of a run.
type State int

const (
	// Uninitialized means no life has been created.
	Uninitialized State = iota
	// Active means later generations may still differ from all earlier ones.
	Active
	// Stable means a generation repeated an earlier one; no more are computed.
	Stable
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Active:
		return "active"
	case Stable:
		return "stable"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Option configures a History.
type Option func(*History)

// WithLookback bounds duplicate detection to the last k planes plus the
// all-dead plane. k <= 0 keeps the full history, which is the default.
// A bounded run never reports oscillators whose period exceeds k.
func WithLookback(k int) Option {
	return func(h *History) { h.lookback = k }
}

// WithRand sets the source used by Create.
func WithRand(r *rand.Rand) Option {
	return func(h *History) { h.rng = r }
}

// WithSeed makes Create reproducible.
func WithSeed(seed int64) Option {
	return func(h *History) { h.rng = core.NewRNG(seed).Source() }
}

// History is the ordered list of generations of one run.
type History struct {
	generations []*Generation
	seen        Detector
	state       State
	lookback    int
	rng         *rand.Rand
}

// New returns an Uninitialized history.
func New(opts ...Option) *History {
	h := &History{}
	for _, opt := range opts {
		opt(h)
	}
	if h.rng == nil {
		h.rng = core.NewRNG(time.Now().UnixNano()).Source()
	}
	h.seen = NewDetector(h.lookback)
	return h
}

// Create discards any previous run and starts a new one from a random plane.
func (h *History) Create(width, height int) error {
	p, err := bitplane.NewRandom(width, height, bitplane.Kernel, h.rng)
	if err != nil {
		return fmt.Errorf("create life: %w", err)
	}
	return h.start(p)
}

// CreateFrom discards any previous run and starts a new one from a copy of p.
func (h *History) CreateFrom(p *bitplane.Plane) error {
	if p == nil {
		return fmt.Errorf("create life: %w: nil plane", ErrInvalidArgument)
	}
	return h.start(p.Repack(bitplane.Kernel))
}

func (h *History) start(initial *bitplane.Plane) error {
	empty, err := bitplane.New(initial.Width(), initial.Height(), bitplane.Kernel)
	if err != nil {
		return fmt.Errorf("create life: %w", err)
	}
	h.generations = []*Generation{{serial: 0, world: initial}}
	h.seen.Reset(empty, initial)
	h.state = Active
	return nil
}

// Get returns the generation with the given serial, computing missing ones.
// Once the run is Stable, serials past the end return the last generation.
func (h *History) Get(serial int) (*Generation, error) {
	if serial < 0 {
		return nil, fmt.Errorf("%w: serial %d is negative", ErrInvalidArgument, serial)
	}
	if h.state == Uninitialized {
		return nil, ErrNotInitialized
	}
	if serial < len(h.generations) {
		return h.generations[serial], nil
	}
	g := h.generations[len(h.generations)-1]
	for g.serial < serial && h.state != Stable {
		g = g.next()
		h.generations = append(h.generations, g)
		if h.seen.Observe(g.world) {
			h.state = Stable
		}
	}
	return g, nil
}

// IsOver reports whether the run has stabilized.
func (h *History) IsOver() bool { return h.state == Stable }

// State returns the lifecycle stage.
func (h *History) State() State { return h.state }

// Len returns the number of generations computed so far.
func (h *History) Len() int { return len(h.generations) }

// Last returns the most recent generation, or nil before Create.
func (h *History) Last() *Generation {
	if len(h.generations) == 0 {
		return nil
	}
	return h.generations[len(h.generations)-1]
}

// Size returns the grid dimensions of the run, zero before Create.
func (h *History) Size() core.Size {
	if last := h.Last(); last != nil {
		return last.world.Size()
	}
	return core.Size{}
}

// Remembered returns the number of planes the duplicate detector retains.
func (h *History) Remembered() int {
	if h.state == Uninitialized {
		return 0
	}
	return h.seen.Len()
}
