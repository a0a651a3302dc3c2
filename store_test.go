package main

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodul/collabcross/internal/layout"
)

func newTestStore() *Store {
	return NewStore(layout.New(layout.DefaultGridSize))
}

func testWords() []layout.PlacedWord {
	return []layout.PlacedWord{
		{Text: "ABC", Clue: "clue1", Row: 1, Col: 0, Direction: layout.Across, Number: 1},
		{Text: "SCOTT", Clue: "clue2", Row: 0, Col: 2, Direction: layout.Down, Number: 2},
	}
}

func TestSaveAndGetPuzzle(t *testing.T) {
	s := newTestStore()
	p := s.SavePuzzle(&Puzzle{Title: "Letters", Words: testWords()})

	require.NotEmpty(t, p.ID)
	assert.Len(t, p.ID, 8)
	assert.False(t, p.CreatedAt.IsZero())

	got := s.GetPuzzle(p.ID)
	require.NotNil(t, got)
	assert.Equal(t, p, got)

	assert.Nil(t, s.GetPuzzle("nonexistent"))
}

func TestSavePuzzleReplaces(t *testing.T) {
	s := newTestStore()
	first := s.SavePuzzle(&Puzzle{Title: "v1", Words: testWords()[:1]})

	second := s.SavePuzzle(&Puzzle{ID: first.ID, Title: "v2", Words: testWords()})

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.False(t, second.UpdatedAt.Before(first.UpdatedAt))

	got := s.GetPuzzle(first.ID)
	assert.Equal(t, "v2", got.Title)
	assert.Len(t, got.Words, 2)
	assert.Len(t, s.ListPuzzles(), 1)
}

func TestGetPuzzleReturnsCopy(t *testing.T) {
	s := newTestStore()
	p := s.SavePuzzle(&Puzzle{Words: testWords()})

	got := s.GetPuzzle(p.ID)
	got.Words[0].Text = "XYZ"
	got.Title = "changed"

	again := s.GetPuzzle(p.ID)
	assert.Equal(t, "ABC", again.Words[0].Text)
	assert.Empty(t, again.Title)
}

func TestListPuzzles(t *testing.T) {
	s := newTestStore()
	s.SavePuzzle(&Puzzle{Title: "old", Words: testWords()})
	time.Sleep(time.Millisecond)
	s.SavePuzzle(&Puzzle{Title: "new", Words: testWords()})

	list := s.ListPuzzles()
	require.Len(t, list, 2)
	// Most recent first.
	assert.False(t, list[0].UpdatedAt.Before(list[1].UpdatedAt))
	assert.Equal(t, "new", list[0].Title)
}

func TestCreatePlay(t *testing.T) {
	s := newTestStore()

	_, err := s.CreatePlay("unknown")
	require.ErrorIs(t, err, ErrPuzzleNotFound)

	p := s.SavePuzzle(&Puzzle{Words: testWords()})
	play, err := s.CreatePlay(p.ID)
	require.NoError(t, err)

	assert.Equal(t, p.ID, play.PuzzleID)
	assert.Len(t, play.Board, layout.DefaultGridSize)
	assert.Same(t, play, s.GetPlay(play.ID))
	assert.Nil(t, s.GetPlay("unknown"))
}

func TestSaveAndLoadDraft(t *testing.T) {
	s := newTestStore()
	d := s.CreateDraft()
	assert.Same(t, d, s.GetDraft(d.ID))

	_, err := d.AddWord("abc", "clue1")
	require.NoError(t, err)
	_, err = d.AddWord("scott", "clue2")
	require.NoError(t, err)
	before := d.View()

	p := s.SaveDraft(d, "Letters")
	assert.Equal(t, "Letters", p.Title)

	// Saving again replaces the same puzzle.
	again := s.SaveDraft(d, "")
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, "Letters", again.Title)

	other := s.CreateDraft()
	require.ErrorIs(t, s.LoadDraft(other, "unknown"), ErrPuzzleNotFound)
	require.NoError(t, s.LoadDraft(other, p.ID))

	assert.Equal(t, before, other.View())
	assert.Equal(t, d.Words(), other.Words())
	assert.Equal(t, "Letters", other.Title())
}

func TestConcurrentAccess(t *testing.T) {
	s := newTestStore()
	p := s.SavePuzzle(&Puzzle{Words: testWords()})
	play, err := s.CreatePlay(p.ID)
	require.NoError(t, err)
	d := s.CreateDraft()

	words := []string{"crane", "egret", "tern", "heron", "stork"}

	var wg sync.WaitGroup
	for i := range 100 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = play.SetCell(1, i%3, "A")
			play.GetState()
			play.Check()
			_, _ = d.AddWord(words[i%len(words)], "bird")
			d.View()
			s.SavePuzzle(&Puzzle{Words: testWords()})
			s.ListPuzzles()
		}(i)
	}
	wg.Wait()

	assert.Len(t, s.ListPuzzles(), 101)
}
