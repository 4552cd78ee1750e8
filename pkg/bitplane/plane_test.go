package bitplane

import (
	"errors"
	"math/rand/v2"
	"testing"
)

func TestNewRejectsNonPositiveDimensions(t *testing.T) {
	for _, sz := range [][2]int{{0, 5}, {5, 0}, {-1, 3}, {3, -1}} {
		if _, err := New(sz[0], sz[1], Kernel); !errors.Is(err, ErrInvalidDimension) {
			t.Fatalf("New(%d, %d) err = %v, want ErrInvalidDimension", sz[0], sz[1], err)
		}
	}
}

func TestStrideRoundsUpToWholeWords(t *testing.T) {
	cases := []struct {
		width, bits, stride int
	}{
		{1, 4, 1}, {16, 4, 1}, {17, 4, 2}, {32, 2, 1}, {33, 2, 2}, {64, 1, 1}, {65, 1, 2},
	}
	for _, c := range cases {
		p, err := New(c.width, 3, c.bits)
		if err != nil {
			t.Fatal(err)
		}
		if p.Stride() != c.stride {
			t.Fatalf("width %d at %d bits: stride %d, want %d", c.width, c.bits, p.Stride(), c.stride)
		}
		if len(p.Words()) != c.stride*3 {
			t.Fatalf("width %d at %d bits: %d words", c.width, c.bits, len(p.Words()))
		}
	}
}

func TestSetGetClear(t *testing.T) {
	for _, bits := range []int{1, 2, 4} {
		p, _ := New(37, 5, bits)
		p.Set(4, 36)
		p.Set(0, 0)
		p.Set(2, 16)
		if !p.Get(4, 36) || !p.Get(0, 0) || !p.Get(2, 16) {
			t.Fatalf("%d bits: set cells not live", bits)
		}
		if p.Get(4, 35) || p.Get(1, 0) {
			t.Fatalf("%d bits: neighbours of set cells became live", bits)
		}
		if p.Population() != 3 {
			t.Fatalf("%d bits: population %d, want 3", bits, p.Population())
		}
		p.Clear(4, 36)
		if p.Get(4, 36) {
			t.Fatalf("%d bits: cleared cell still live", bits)
		}
	}
}

func TestRandomKeepsPaddingClear(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 0))
	p, err := NewRandom(21, 6, Kernel, rng)
	if err != nil {
		t.Fatal(err)
	}
	for i, w := range p.Words() {
		mask := p.LaneMask()
		if i%p.Stride() == p.Stride()-1 {
			mask = p.TailMask()
		}
		if w&^mask != 0 {
			t.Fatalf("word %d has bits outside live lanes: %#x", i, w)
		}
	}
	if p.Population() == 0 || p.Population() == 21*6 {
		t.Fatalf("implausible random population %d", p.Population())
	}
}

func TestEqualAndHash(t *testing.T) {
	a, _ := New(20, 4, Kernel)
	b, _ := New(20, 4, Kernel)
	a.Set(3, 19)
	b.Set(3, 19)
	if !a.Equal(b) || a.Hash() != b.Hash() {
		t.Fatal("identical planes should be equal with equal hashes")
	}
	b.Set(0, 0)
	if a.Equal(b) {
		t.Fatal("different planes compare equal")
	}
	c, _ := New(4, 20, Kernel)
	if a.Equal(c) {
		t.Fatal("planes with different shapes compare equal")
	}
}

func TestFromWordsMasksPadding(t *testing.T) {
	words := []uint64{^uint64(0), ^uint64(0)}
	p, err := FromWords(3, 2, Kernel, words)
	if err != nil {
		t.Fatal(err)
	}
	if p.Population() != 6 {
		t.Fatalf("population %d, want 6", p.Population())
	}
	if _, err := FromWords(3, 2, Kernel, []uint64{0}); err == nil {
		t.Fatal("expected error for short word slice")
	}
}

func TestRepackAndParseRoundTrip(t *testing.T) {
	text := "#..#.\n.##..\n....#\n"
	p, err := Parse(text, Kernel)
	if err != nil {
		t.Fatal(err)
	}
	if p.String() != text {
		t.Fatalf("String() = %q, want %q", p.String(), text)
	}
	compact := p.Repack(1)
	if compact.BitsPerCell() != 1 || compact.String() != text {
		t.Fatalf("repacked plane renders %q", compact.String())
	}
	if !compact.Repack(Kernel).Equal(p) {
		t.Fatal("repacking back to 4 bits lost cells")
	}
}

func TestGridRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewPCG(9, 9))
	p, _ := NewRandom(18, 7, Kernel, rng)
	back, err := FromGrid(p.Grid(), Kernel)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(p) {
		t.Fatal("grid round trip changed the plane")
	}
}
