package life

import (
	"math/rand/v2"
	"testing"

	"mad-life/pkg/bitplane"
)

func mustParse(t *testing.T, text string) *bitplane.Plane {
	t.Helper()
	p, err := bitplane.Parse(text, bitplane.Kernel)
	if err != nil {
		t.Fatalf("parse pattern: %v", err)
	}
	return p
}

func TestBlinkerOscillation(t *testing.T) {
	vertical := mustParse(t, `
.....
..#..
..#..
..#..
.....`)
	horizontal := mustParse(t, `
.....
.....
.###.
.....
.....`)

	next := Advance(vertical)
	if !next.Equal(horizontal) {
		t.Fatalf("after one step got\n%s\nexpected\n%s", next, horizontal)
	}
	next = Advance(next)
	if !next.Equal(vertical) {
		t.Fatalf("after second step got\n%s\nexpected\n%s", next, vertical)
	}
}

func TestAdvanceDoesNotMutateInput(t *testing.T) {
	p := mustParse(t, `
.#..
..#.
###.
....`)
	before := p.Clone()
	_ = Advance(p)
	if !p.Equal(before) {
		t.Fatal("Advance modified its input plane")
	}
}

func TestGliderWrapsAcrossEdges(t *testing.T) {
	// A glider on a 6x6 torus returns to its start after 4*6 generations.
	start := mustParse(t, `
.#....
..#...
###...
......
......
......`)
	got := Run(start, 24)
	if !got.Equal(start) {
		t.Fatalf("glider did not return home\n%s", got)
	}
}

func TestAdvanceMatchesNaive(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	sizes := [][2]int{
		{1, 1}, {1, 2}, {2, 1}, {2, 2}, {3, 3},
		{1, 17}, {17, 1}, {5, 1}, {1, 40},
		{15, 7}, {16, 16}, {17, 9}, {31, 4}, {32, 5}, {33, 33},
		{47, 3}, {64, 8}, {65, 12}, {100, 37},
	}
	for _, sz := range sizes {
		w, h := sz[0], sz[1]
		for trial := 0; trial < 8; trial++ {
			p, err := bitplane.NewRandom(w, h, bitplane.Kernel, rng)
			if err != nil {
				t.Fatalf("%dx%d: %v", w, h, err)
			}
			for step := 0; step < 4; step++ {
				fast := Advance(p)
				slow := AdvanceNaive(p)
				if !fast.Equal(slow) {
					t.Fatalf("%dx%d trial %d step %d mismatch\ninput:\n%s\nword-parallel:\n%s\nnaive:\n%s",
						w, h, trial, step, p, fast, slow)
				}
				p = fast
			}
		}
	}
}

func TestSingleCellTorus(t *testing.T) {
	// On a 1x1 torus the lone cell is its own eight neighbours and dies of
	// overcrowding.
	p, _ := bitplane.New(1, 1, bitplane.Kernel)
	p.Set(0, 0)
	if got := Advance(p); !got.Empty() {
		t.Fatalf("1x1 live cell should die, got %s", got)
	}
}

func TestAdvanceRejectsCompactPlanes(t *testing.T) {
	p, _ := bitplane.New(4, 4, 1)
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for 1-bit plane")
		}
	}()
	Advance(p)
}

func TestNaiveAcceptsAnyPacking(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for _, bits := range []int{1, 2, 4} {
		p, _ := bitplane.NewRandom(23, 9, bits, rng)
		got := AdvanceNaive(p)
		want := Advance(p.Repack(bitplane.Kernel))
		if !got.Repack(bitplane.Kernel).Equal(want) {
			t.Fatalf("%d-bit naive step disagrees with kernel", bits)
		}
	}
}

func BenchmarkAdvance(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	p, _ := bitplane.NewRandom(256, 256, bitplane.Kernel, rng)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p = Advance(p)
	}
}

func BenchmarkAdvanceNaive(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	p, _ := bitplane.NewRandom(256, 256, bitplane.Kernel, rng)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		p = AdvanceNaive(p)
	}
}
