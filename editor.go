package main

import (
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/bodul/collabcross/internal/layout"
)

var ErrEmptyClue = errors.New("a clue is required")

// Draft is a puzzle being created. It owns the canonical word list and the
// clue counter; the grid and clues are rebuilt from the list on demand.
type Draft struct {
	ID        string
	CreatedAt time.Time

	engine *layout.Engine

	mu         sync.Mutex
	title      string
	puzzleID   string
	words      []layout.PlacedWord
	nextNumber int
}

func newDraft(id string, engine *layout.Engine) *Draft {
	return &Draft{
		ID:         id,
		CreatedAt:  time.Now(),
		engine:     engine,
		nextNumber: 1,
	}
}

// AddWord places word on the grid and commits it with the next clue number.
// On error the word list is unchanged.
func (d *Draft) AddWord(word, clue string) (layout.PlacedWord, error) {
	text, err := layout.NormalizeWord(word)
	if err != nil {
		return layout.PlacedWord{}, err
	}
	clue = strings.TrimSpace(clue)
	if clue == "" {
		return layout.PlacedWord{}, ErrEmptyClue
	}
	if utf8.RuneCountInString(text) > d.engine.Size() {
		return layout.PlacedWord{}, layout.ErrBoundsExceeded
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.words) == 0 {
		placed := d.engine.PlaceFirstWord(text, clue)
		placed.Number = d.nextNumber
		d.commit(nil, placed)
		return placed, nil
	}

	res, err := d.engine.FindPlacement(d.words, text)
	if err != nil {
		return layout.PlacedWord{}, err
	}
	placed := res.Placement.Place(text, clue, d.nextNumber)
	d.commit(res.Words, placed)
	return placed, nil
}

func (d *Draft) commit(words []layout.PlacedWord, placed layout.PlacedWord) {
	d.words = append(slices.Clip(words), placed)
	d.nextNumber++
}

// Clear starts a new puzzle in the draft.
func (d *Draft) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.words = nil
	d.nextNumber = 1
	d.title = ""
	d.puzzleID = ""
}

// Load replaces the draft's words with a saved puzzle's. Later words are
// numbered after the highest number already in use.
func (d *Draft) Load(p *Puzzle) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.words = slices.Clone(p.Words)
	d.title = p.Title
	d.puzzleID = p.ID
	d.nextNumber = 1
	for _, w := range d.words {
		d.nextNumber = max(d.nextNumber, w.Number+1)
	}
}

// Words returns a copy of the committed words.
func (d *Draft) Words() []layout.PlacedWord {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]layout.PlacedWord{}, d.words...)
}

// View rebuilds the grid and clue lists.
func (d *Draft) View() layout.View {
	return d.engine.Rebuild(d.Words())
}

// Title returns the title the draft was last saved or loaded with.
func (d *Draft) Title() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.title
}

// snapshot returns the puzzle to save under title. A draft that was saved
// or loaded before keeps its puzzle ID, so saving again replaces it.
func (d *Draft) snapshot(title string) *Puzzle {
	d.mu.Lock()
	defer d.mu.Unlock()

	if title = strings.TrimSpace(title); title == "" {
		title = d.title
	}
	return &Puzzle{
		ID:    d.puzzleID,
		Title: title,
		Words: slices.Clone(d.words),
	}
}

func (d *Draft) saved(p *Puzzle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.title = p.Title
	d.puzzleID = p.ID
}
