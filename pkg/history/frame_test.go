package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyBlinkerOnFiveByFive(t *testing.T) {
	h := started(t, blinker5)
	g, err := h.Get(1)
	require.NoError(t, err)

	want := map[[2]int]CellState{
		{1, 2}: CellDied,
		{3, 2}: CellDied,
		{2, 1}: CellBorn,
		{2, 3}: CellBorn,
		{2, 2}: CellLiving,
	}
	for row := 0; row < 5; row++ {
		for col := 0; col < 5; col++ {
			expected, ok := want[[2]int{row, col}]
			if !ok {
				expected = CellEmpty
			}
			assert.Equal(t, expected, g.Classify(row, col), "cell (%d,%d)", row, col)
		}
	}
}

func TestClassifyBlinkerOnThreeByThree(t *testing.T) {
	// On a 3x3 torus every cell neighbours all eight others, so a row of three
	// fills the board and the full board then dies out.
	h := started(t, `
...
###
...`)
	g, err := h.Get(1)
	require.NoError(t, err)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			expected := CellBorn
			if row == 1 {
				expected = CellLiving
			}
			assert.Equal(t, expected, g.Classify(row, col), "cell (%d,%d)", row, col)
		}
	}

	g, err = h.Get(2)
	require.NoError(t, err)
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			assert.Equal(t, CellDied, g.Classify(row, col))
		}
	}
	assert.True(t, h.IsOver())
}

func TestSerialZeroClassifiesAgainstEmpty(t *testing.T) {
	h := started(t, blinker5)
	g, err := h.Get(0)
	require.NoError(t, err)
	assert.Equal(t, CellBorn, g.Classify(2, 2))
	assert.Equal(t, CellEmpty, g.Classify(0, 0))
}

func TestFrameFlattensRowMajor(t *testing.T) {
	h := started(t, blinker5)
	g, err := h.Get(1)
	require.NoError(t, err)

	f := g.Frame(h.IsOver())
	assert.Equal(t, 1, f.Serial)
	assert.Equal(t, 5, f.Width)
	assert.Equal(t, 5, f.Height)
	assert.False(t, f.Over)
	assert.Equal(t, 3, f.Population)
	require.Len(t, f.Cells, 25)
	assert.Equal(t, int(CellDied), f.Cells[1*5+2])
	assert.Equal(t, int(CellBorn), f.Cells[2*5+1])
	assert.Equal(t, CellLiving, f.State(2, 2))

	assert.Equal(t, "serial=1 over=false population=3\n"+
		".....\n"+
		"..x..\n"+
		".+#+.\n"+
		"..x..\n"+
		".....\n", f.Text())
}

func TestPackedDumpUsesOneBitPerCell(t *testing.T) {
	h := started(t, `
#.#
...`)
	g, err := h.Get(0)
	require.NoError(t, err)
	dump := g.Packed()
	require.Len(t, dump, 16)
	assert.Equal(t, byte(0b101), dump[0])
	assert.Equal(t, byte(0), dump[8])
}

func TestCellStateNames(t *testing.T) {
	assert.Equal(t, "empty", CellEmpty.String())
	assert.Equal(t, "newly-born", CellBorn.String())
	assert.Equal(t, "dead", CellDied.String())
	assert.Equal(t, "living", CellLiving.String())
}
