package history

import "mad-life/pkg/bitplane"

// Detector remembers planes a run has produced and reports repeats.
type Detector interface {
	// Reset forgets everything and seeds the detector with the all-dead plane
	// of the given shape and the run's initial plane.
	Reset(empty, initial *bitplane.Plane)
	// Observe records p and reports whether an equal plane was already known.
	Observe(p *bitplane.Plane) bool
	// Len returns the number of planes retained.
	Len() int
}

// NewDetector returns the full-history detector for lookback 0 and a window
// over the last lookback planes otherwise.
func NewDetector(lookback int) Detector {
	if lookback > 0 {
		return &windowDetector{size: lookback}
	}
	return &setDetector{}
}

// setDetector keeps every distinct plane, bucketed by hash. Memory grows with
// the number of distinct generations.
type setDetector struct {
	buckets map[uint64][]*bitplane.Plane
	n       int
}

func (d *setDetector) Reset(empty, initial *bitplane.Plane) {
	d.buckets = make(map[uint64][]*bitplane.Plane)
	d.n = 0
	d.Observe(empty)
	d.Observe(initial)
}

func (d *setDetector) Observe(p *bitplane.Plane) bool {
	key := p.Hash()
	for _, q := range d.buckets[key] {
		if q.Equal(p) {
			return true
		}
	}
	d.buckets[key] = append(d.buckets[key], p)
	d.n++
	return false
}

func (d *setDetector) Len() int { return d.n }

// windowDetector compares against the all-dead plane and the last size
// planes. Oscillators with a period longer than size are never reported.
type windowDetector struct {
	size   int
	empty  *bitplane.Plane
	recent []*bitplane.Plane
	next   int
}

func (d *windowDetector) Reset(empty, initial *bitplane.Plane) {
	d.empty = empty
	d.recent = make([]*bitplane.Plane, 0, d.size)
	d.next = 0
	d.Observe(initial)
}

func (d *windowDetector) Observe(p *bitplane.Plane) bool {
	if p.Equal(d.empty) {
		return true
	}
	for _, q := range d.recent {
		if q.Equal(p) {
			return true
		}
	}
	if len(d.recent) < d.size {
		d.recent = append(d.recent, p)
	} else {
		d.recent[d.next] = p
		d.next = (d.next + 1) % d.size
	}
	return false
}

func (d *windowDetector) Len() int { return len(d.recent) + 1 }
