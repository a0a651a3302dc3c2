package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/collabcross/internal/layout"
)

func newTestDraft(size int) *Draft {
	return newDraft("draft1", layout.New(size))
}

func TestDraftFirstWord(t *testing.T) {
	d := newTestDraft(layout.DefaultGridSize)

	placed, err := d.AddWord(" abc ", "clue1")
	require.NoError(t, err)

	assert.Equal(t, layout.PlacedWord{Text: "ABC", Clue: "clue1", Row: 0, Col: 0, Direction: layout.Across, Number: 1}, placed)
	assert.Equal(t, []layout.PlacedWord{placed}, d.Words())
}

func TestDraftShiftsExistingWords(t *testing.T) {
	d := newTestDraft(layout.DefaultGridSize)
	_, err := d.AddWord("abc", "clue1")
	require.NoError(t, err)

	placed, err := d.AddWord("scott", "clue2")
	require.NoError(t, err)

	assert.Equal(t, layout.Placement{Row: 0, Col: 2, Direction: layout.Down}, placed.Placement())
	assert.Equal(t, 2, placed.Number)

	words := d.Words()
	require.Len(t, words, 2)
	assert.Equal(t, 1, words[0].Row)
	assert.Equal(t, 0, words[0].Col)

	v := d.View()
	assert.Equal(t, "C", v.Grid[1][2].Letter)
	assert.Equal(t, "S", v.Grid[0][2].Letter)
	assert.Equal(t, 1, v.Grid[1][0].AcrossNumber)
	assert.Equal(t, 2, v.Grid[0][2].DownNumber)
}

func TestDraftRejectsBadInput(t *testing.T) {
	d := newTestDraft(layout.DefaultGridSize)
	_, err := d.AddWord("cat", "pet")
	require.NoError(t, err)

	_, err = d.AddWord("ab", "too short")
	assert.ErrorIs(t, err, layout.ErrInvalidWordLength)

	_, err = d.AddWord("c4t", "digit")
	assert.ErrorIs(t, err, layout.ErrInvalidWord)

	_, err = d.AddWord("tac", "   ")
	assert.ErrorIs(t, err, ErrEmptyClue)

	assert.Len(t, d.Words(), 1)

	placed, err := d.AddWord("tac", "cat backwards")
	require.NoError(t, err)
	assert.Equal(t, 2, placed.Number, "failed attempts must not consume numbers")
}

func TestDraftWordLongerThanGrid(t *testing.T) {
	d := newTestDraft(5)

	_, err := d.AddWord("crossword", "puzzle")
	require.ErrorIs(t, err, layout.ErrBoundsExceeded)
	assert.ErrorIs(t, err, layout.ErrNoLegalPlacement)
	assert.Empty(t, d.Words())
}

func TestDraftNoLegalPlacementKeepsWords(t *testing.T) {
	d := newTestDraft(3)
	_, err := d.AddWord("cat", "pet")
	require.NoError(t, err)
	_, err = d.AddWord("dog", "pet")
	require.NoError(t, err)
	before := d.Words()

	_, err = d.AddWord("pig", "farm")
	require.ErrorIs(t, err, layout.ErrNoLegalPlacement)
	assert.Equal(t, before, d.Words())
}

func TestDraftClear(t *testing.T) {
	d := newTestDraft(layout.DefaultGridSize)
	_, _ = d.AddWord("cat", "pet")
	_, _ = d.AddWord("tac", "tap")

	d.Clear()
	assert.Empty(t, d.Words())
	assert.NotNil(t, d.Words())
	assert.Empty(t, d.View().Clues.Across)

	placed, err := d.AddWord("dog", "pet")
	require.NoError(t, err)
	assert.Equal(t, 1, placed.Number)
	assert.Equal(t, 0, placed.Row)
}

func TestDraftLoadContinuesNumbering(t *testing.T) {
	d := newTestDraft(layout.DefaultGridSize)
	d.Load(&Puzzle{
		ID:    "p1",
		Title: "Loaded",
		Words: []layout.PlacedWord{
			{Text: "CAT", Row: 0, Col: 0, Direction: layout.Across, Number: 1},
			{Text: "TEN", Row: 0, Col: 2, Direction: layout.Down, Number: 2},
			{Text: "NAP", Row: 2, Col: 2, Direction: layout.Across, Number: 5},
		},
	})
	assert.Equal(t, "Loaded", d.Title())

	placed, err := d.AddWord("pine", "tree")
	require.NoError(t, err)
	assert.Equal(t, 6, placed.Number)

	p := d.snapshot("")
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Loaded", p.Title)
}
