package main

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bodul/collabcross/internal/layout"
)

var ErrPuzzleNotFound = errors.New("puzzle not found")

// Store holds saved puzzles, drafts and play sessions in memory. Every
// component that reads or writes puzzles is handed the same *Store.
type Store struct {
	engine *layout.Engine

	mu      sync.RWMutex
	puzzles map[string]*Puzzle
	drafts  map[string]*Draft
	plays   map[string]*PlaySession
}

// NewStore creates an empty store whose puzzles use engine's grid.
func NewStore(engine *layout.Engine) *Store {
	return &Store{
		engine:  engine,
		puzzles: make(map[string]*Puzzle),
		drafts:  make(map[string]*Draft),
		plays:   make(map[string]*PlaySession),
	}
}

// Engine returns the placement engine shared by the store's drafts.
func (s *Store) Engine() *layout.Engine {
	return s.engine
}

// SavePuzzle stores p, replacing any puzzle with the same ID. An ID is
// generated when p has none. The stored copy is returned.
func (s *Store) SavePuzzle(p *Puzzle) *Puzzle {
	now := time.Now()
	if p.ID == "" {
		p.ID = generateID()
	}
	p.UpdatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()

	if old, ok := s.puzzles[p.ID]; ok {
		p.CreatedAt = old.CreatedAt
	} else if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	s.puzzles[p.ID] = p.clone()
	return p.clone()
}

// GetPuzzle returns a copy of a puzzle, or nil if not found.
func (s *Store) GetPuzzle(id string) *Puzzle {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if p, ok := s.puzzles[id]; ok {
		return p.clone()
	}
	return nil
}

// ListPuzzles returns all puzzles, most recently saved first.
func (s *Store) ListPuzzles() []*Puzzle {
	s.mu.RLock()
	list := make([]*Puzzle, 0, len(s.puzzles))
	for _, p := range s.puzzles {
		list = append(list, p.clone())
	}
	s.mu.RUnlock()

	slices.SortFunc(list, func(a, b *Puzzle) int {
		return cmp.Or(b.UpdatedAt.Compare(a.UpdatedAt), cmp.Compare(a.ID, b.ID))
	})
	return list
}

// CreateDraft starts an empty draft.
func (s *Store) CreateDraft() *Draft {
	d := newDraft(generateID(), s.engine)

	s.mu.Lock()
	s.drafts[d.ID] = d
	s.mu.Unlock()

	return d
}

// GetDraft returns a draft by ID, or nil if not found.
func (s *Store) GetDraft(id string) *Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.drafts[id]
}

// SaveDraft saves the draft's words as a puzzle titled title.
func (s *Store) SaveDraft(d *Draft, title string) *Puzzle {
	p := s.SavePuzzle(d.snapshot(title))
	d.saved(p)
	return p
}

// LoadDraft replaces the draft's words with those of a saved puzzle.
func (s *Store) LoadDraft(d *Draft, puzzleID string) error {
	p := s.GetPuzzle(puzzleID)
	if p == nil {
		return fmt.Errorf("%w: %s", ErrPuzzleNotFound, puzzleID)
	}
	d.Load(p)
	return nil
}

// CreatePlay starts a play session on a saved puzzle.
func (s *Store) CreatePlay(puzzleID string) (*PlaySession, error) {
	p := s.GetPuzzle(puzzleID)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPuzzleNotFound, puzzleID)
	}

	play := newPlaySession(generateID(), p, s.engine.Size())

	s.mu.Lock()
	s.plays[play.ID] = play
	s.mu.Unlock()

	return play, nil
}

// GetPlay returns a play session by ID, or nil if not found.
func (s *Store) GetPlay(id string) *PlaySession {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.plays[id]
}

func generateID() string {
	return uuid.New().String()[:8]
}
