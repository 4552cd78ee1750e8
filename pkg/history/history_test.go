package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mad-life/pkg/bitplane"
)

func parse(t *testing.T, text string) *bitplane.Plane {
	t.Helper()
	p, err := bitplane.Parse(text, bitplane.Kernel)
	require.NoError(t, err)
	return p
}

func started(t *testing.T, text string, opts ...Option) *History {
	t.Helper()
	h := New(opts...)
	require.NoError(t, h.CreateFrom(parse(t, text)))
	return h
}

const blinker5 = `
.....
..#..
..#..
..#..
.....`

func TestGetBeforeCreate(t *testing.T) {
	h := New()
	_, err := h.Get(0)
	assert.ErrorIs(t, err, ErrNotInitialized)
	assert.Equal(t, Uninitialized, h.State())
	assert.False(t, h.IsOver())
	assert.Nil(t, h.Last())
}

func TestGetNegativeSerial(t *testing.T) {
	h := New()
	_, err := h.Get(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	require.NoError(t, h.Create(4, 4))
	_, err = h.Get(-1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestCreateRejectsBadDimensions(t *testing.T) {
	h := New()
	assert.ErrorIs(t, h.Create(0, 5), ErrInvalidDimension)
	assert.ErrorIs(t, h.Create(5, -1), ErrInvalidDimension)
	assert.Equal(t, Uninitialized, h.State())
}

func TestCreateStartsActiveAtSerialZero(t *testing.T) {
	h := New(WithSeed(1))
	require.NoError(t, h.Create(12, 7))
	assert.Equal(t, Active, h.State())
	assert.Equal(t, 1, h.Len())

	g, err := h.Get(0)
	require.NoError(t, err)
	assert.Equal(t, 0, g.Serial())
	assert.Nil(t, g.Previous())
	assert.Equal(t, 12, g.Width())
	assert.Equal(t, 7, g.Height())
}

func TestSeededRunsAreReproducible(t *testing.T) {
	a := New(WithSeed(99))
	b := New(WithSeed(99))
	require.NoError(t, a.Create(40, 30))
	require.NoError(t, b.Create(40, 30))

	ga, err := a.Get(25)
	require.NoError(t, err)
	gb, err := b.Get(25)
	require.NoError(t, err)
	assert.True(t, ga.World().Equal(gb.World()))
}

func TestSerialsAreDenseAndStable(t *testing.T) {
	h := New(WithSeed(5))
	require.NoError(t, h.Create(32, 32))

	for _, serial := range []int{3, 1, 10, 10, 4, 12} {
		g, err := h.Get(serial)
		require.NoError(t, err)
		if !h.IsOver() {
			assert.Equal(t, serial, g.Serial())
		}
	}
	for i := 0; i < h.Len(); i++ {
		g, err := h.Get(i)
		require.NoError(t, err)
		assert.Equal(t, i, g.Serial())
		if i > 0 {
			prev, _ := h.Get(i - 1)
			assert.Same(t, prev.World(), g.Previous())
		}
	}
}

func TestRepeatedGetIsIdempotent(t *testing.T) {
	h := New(WithSeed(8))
	require.NoError(t, h.Create(24, 24))

	first, err := h.Get(7)
	require.NoError(t, err)
	over := h.IsOver()
	remembered := h.Remembered()
	length := h.Len()

	again, err := h.Get(7)
	require.NoError(t, err)
	assert.Same(t, first, again)
	assert.True(t, first.World().Equal(again.World()))
	assert.Equal(t, over, h.IsOver())
	assert.Equal(t, remembered, h.Remembered())
	assert.Equal(t, length, h.Len())
}

func TestAllDeadIsAbsorbing(t *testing.T) {
	empty, err := bitplane.New(6, 4, bitplane.Kernel)
	require.NoError(t, err)
	h := New()
	require.NoError(t, h.CreateFrom(empty))

	_, err = h.Get(0)
	require.NoError(t, err)
	g, err := h.Get(1)
	require.NoError(t, err)
	assert.True(t, g.World().Empty())
	assert.True(t, h.IsOver())
}

func TestDyingWorldStopsWhenEmpty(t *testing.T) {
	// A lone cell dies at once; the empty plane is always known.
	h := started(t, `
.....
..#..
.....
.....`)
	g, err := h.Get(100)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Serial())
	assert.True(t, h.IsOver())
	assert.Equal(t, 2, h.Len())
}

func TestStillLifeStabilizesAfterOneStep(t *testing.T) {
	h := started(t, `
......
..##..
..##..
......`)
	g, err := h.Get(3)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Serial())
	assert.True(t, h.IsOver())
}

func TestOscillatorStabilizesAndAnswersLaterSerials(t *testing.T) {
	h := started(t, blinker5)

	g1, err := h.Get(1)
	require.NoError(t, err)
	assert.False(t, h.IsOver())

	g, err := h.Get(50)
	require.NoError(t, err)
	assert.True(t, h.IsOver())
	assert.Equal(t, Stable, h.State())
	assert.Equal(t, 2, g.Serial())
	assert.Equal(t, 3, h.Len())

	for _, serial := range []int{3, 7, 1000} {
		later, err := h.Get(serial)
		require.NoError(t, err)
		assert.Same(t, g, later)
	}
	zero, _ := h.Get(0)
	assert.True(t, g.World().Equal(zero.World()))
	assert.False(t, g1.World().Equal(zero.World()))
}

func TestBoundedLookbackMissesLongerPeriods(t *testing.T) {
	short := started(t, blinker5, WithLookback(1))
	g, err := short.Get(40)
	require.NoError(t, err)
	assert.False(t, short.IsOver())
	assert.Equal(t, 40, g.Serial())
	assert.Equal(t, 2, short.Remembered())

	enough := started(t, blinker5, WithLookback(2))
	g, err = enough.Get(40)
	require.NoError(t, err)
	assert.True(t, enough.IsOver())
	assert.Equal(t, 2, g.Serial())
}

func TestCreateResetsStableRun(t *testing.T) {
	h := started(t, blinker5)
	_, err := h.Get(10)
	require.NoError(t, err)
	require.True(t, h.IsOver())

	require.NoError(t, h.Create(8, 8))
	assert.Equal(t, Active, h.State())
	assert.Equal(t, 1, h.Len())
	assert.Equal(t, 8, h.Size().W)
}

func TestCreateFromCopiesInput(t *testing.T) {
	p := parse(t, blinker5)
	h := New()
	require.NoError(t, h.CreateFrom(p))
	p.Set(0, 0)

	g, err := h.Get(0)
	require.NoError(t, err)
	assert.False(t, g.World().Get(0, 0))
	assert.ErrorIs(t, h.CreateFrom(nil), ErrInvalidArgument)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "uninitialized", Uninitialized.String())
	assert.Equal(t, "active", Active.String())
	assert.Equal(t, "stable", Stable.String())
}
