package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"github.com/bodul/collabcross/internal/layout"
)

const maxBodySize = 16 << 10

// Server is the main HTTP server.
type Server struct {
	router *httprouter.Router
	cfg    *Config
	store  *Store
	events *Broadcaster
	wordRL *rateLimiter
	moveRL *rateLimiter
}

// NewServer creates a configured HTTP server.
func NewServer(cfg *Config, store *Store) *Server {
	s := &Server{
		router: httprouter.New(),
		cfg:    cfg,
		store:  store,
		events: NewBroadcaster(),
		wordRL: newRateLimiter(30, time.Minute), // 30 words/min per client
		moveRL: newRateLimiter(60, time.Second), // 60 moves/sec per client
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	// Draft API
	s.router.POST("/api/drafts", s.handleCreateDraft)
	s.router.GET("/api/drafts/:id", s.handleGetDraft)
	s.router.POST("/api/drafts/:id/words", s.handleAddWord)
	s.router.POST("/api/drafts/:id/clear", s.handleClearDraft)
	s.router.POST("/api/drafts/:id/save", s.handleSaveDraft)
	s.router.POST("/api/drafts/:id/load", s.handleLoadDraft)

	// Puzzle API
	s.router.GET("/api/puzzles", s.handleListPuzzles)
	s.router.GET("/api/puzzles/:id", s.handleGetPuzzle)
	s.router.GET("/api/puzzles/:id/qr", s.handlePuzzleQR)

	// Play API
	s.router.POST("/api/plays", s.handleCreatePlay)
	s.router.GET("/api/plays/:id", s.handleGetPlay)
	s.router.POST("/api/plays/:id/cells", s.handleMove)
	s.router.GET("/api/plays/:id/check", s.handleCheck)
	s.router.GET("/play/:id", s.handlePlayLink)

	// Live events for a draft or play session
	s.router.GET("/api/events/:topic", s.handleEvents)
	s.router.GET("/api/ws/:topic", s.handleWS)

	s.router.GET("/healthz", s.handleHealth)
	s.router.GET("/version", s.handleVersion)

	s.router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		log.Printf("panic serving %s %s: %v", r.Method, r.URL.Path, v)
		jsonError(w, "internal error", http.StatusInternalServerError)
	}
}

// sweep drops idle rate limiter entries until ctx is done.
func (s *Server) sweep(ctx context.Context) {
	sweepLimiters(ctx, limiterSweepEvery, limiterIdle, s.wordRL, s.moveRL)
}

func (s *Server) clientIP(r *http.Request) string {
	return clientIP(r, s.cfg.trustedProxy)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy", "default-src 'self'")
	s.router.ServeHTTP(w, r)
}

// --- Draft handlers ---

type draftResponse struct {
	ID    string              `json:"id"`
	Title string              `json:"title"`
	Words []layout.PlacedWord `json:"words"`
	View  layout.View         `json:"view"`
}

func newDraftResponse(d *Draft) draftResponse {
	words := d.Words()
	return draftResponse{
		ID:    d.ID,
		Title: d.Title(),
		Words: words,
		View:  d.engine.Rebuild(words),
	}
}

// POST /api/drafts — start a new puzzle.
func (s *Server) handleCreateDraft(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	d := s.store.CreateDraft()
	logf(s.cfg, "DRAFT: created %s", d.ID)
	writeJSON(w, http.StatusCreated, newDraftResponse(d))
}

// GET /api/drafts/:id — draft words with rebuilt grid and clues.
func (s *Server) handleGetDraft(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	d := s.store.GetDraft(ps.ByName("id"))
	if d == nil {
		jsonError(w, "draft not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, newDraftResponse(d))
}

// POST /api/drafts/:id/words — place a word.
func (s *Server) handleAddWord(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !s.wordRL.allow(s.clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	d := s.store.GetDraft(ps.ByName("id"))
	if d == nil {
		jsonError(w, "draft not found", http.StatusNotFound)
		return
	}

	var req struct {
		Word string `json:"word"`
		Clue string `json:"clue"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		requestError(w, err, "invalid request")
		return
	}

	placed, err := d.AddWord(req.Word, req.Clue)
	switch {
	case err == nil:
	case errors.Is(err, layout.ErrNoLegalPlacement):
		logf(s.cfg, "DRAFT: %s rejected %q: %v", d.ID, req.Word, err)
		jsonError(w, layout.ErrNoLegalPlacement.Error(), http.StatusUnprocessableEntity)
		return
	case errors.Is(err, layout.ErrInvalidWordLength),
		errors.Is(err, layout.ErrInvalidWord),
		errors.Is(err, ErrEmptyClue):
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	default:
		log.Printf("add word to draft %s: %v", d.ID, err)
		jsonError(w, "could not add word", http.StatusInternalServerError)
		return
	}

	logf(s.cfg, "DRAFT: %s placed %s %d %s at (%d,%d)",
		d.ID, placed.Text, placed.Number, placed.Direction, placed.Row, placed.Col)

	resp := newDraftResponse(d)
	s.publish(d.ID, "draft_updated", "draft", resp)

	writeJSON(w, http.StatusCreated, struct {
		Placed layout.PlacedWord `json:"placed"`
		Draft  draftResponse     `json:"draft"`
	}{placed, resp})
}

// POST /api/drafts/:id/clear — start over with an empty grid.
func (s *Server) handleClearDraft(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	d := s.store.GetDraft(ps.ByName("id"))
	if d == nil {
		jsonError(w, "draft not found", http.StatusNotFound)
		return
	}

	d.Clear()
	resp := newDraftResponse(d)
	s.publish(d.ID, "draft_updated", "draft", resp)
	writeJSON(w, http.StatusOK, resp)
}

// POST /api/drafts/:id/save — save the draft as a puzzle.
func (s *Server) handleSaveDraft(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	d := s.store.GetDraft(ps.ByName("id"))
	if d == nil {
		jsonError(w, "draft not found", http.StatusNotFound)
		return
	}

	var req struct {
		Title string `json:"title"`
	}
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		requestError(w, err, "invalid request")
		return
	}
	if len(d.Words()) == 0 {
		jsonError(w, "add at least one word before saving", http.StatusBadRequest)
		return
	}

	p := s.store.SaveDraft(d, req.Title)
	logf(s.cfg, "PUZZLE: saved %s (%q, %d words) from draft %s", p.ID, p.Title, len(p.Words), d.ID)
	writeJSON(w, http.StatusOK, p)
}

// POST /api/drafts/:id/load — replace the draft with a saved puzzle.
func (s *Server) handleLoadDraft(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	d := s.store.GetDraft(ps.ByName("id"))
	if d == nil {
		jsonError(w, "draft not found", http.StatusNotFound)
		return
	}

	var req struct {
		PuzzleID string `json:"puzzle_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil || req.PuzzleID == "" {
		requestError(w, err, "field 'puzzle_id' required")
		return
	}

	if err := s.store.LoadDraft(d, req.PuzzleID); err != nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}

	resp := newDraftResponse(d)
	s.publish(d.ID, "draft_updated", "draft", resp)
	writeJSON(w, http.StatusOK, resp)
}

// --- Puzzle handlers ---

// GET /api/puzzles — list saved puzzles.
func (s *Server) handleListPuzzles(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	writeJSON(w, http.StatusOK, s.store.ListPuzzles())
}

// GET /api/puzzles/:id — a saved puzzle with its rebuilt grid and clues.
func (s *Server) handleGetPuzzle(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	p := s.store.GetPuzzle(ps.ByName("id"))
	if p == nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		*Puzzle
		View layout.View `json:"view"`
	}{p, s.store.Engine().Rebuild(p.Words)})
}

// --- Play handlers ---

// POST /api/plays — start solving a saved puzzle.
func (s *Server) handleCreatePlay(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req struct {
		PuzzleID string `json:"puzzle_id"`
	}
	if err := decodeJSON(w, r, &req); err != nil || req.PuzzleID == "" {
		requestError(w, err, "field 'puzzle_id' required")
		return
	}

	play, err := s.store.CreatePlay(req.PuzzleID)
	if err != nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}

	logf(s.cfg, "PLAY: started %s on puzzle %s", play.ID, play.PuzzleID)
	writeJSON(w, http.StatusCreated, play)
}

// GET /play/:id — shared link: start a play session on the puzzle and
// redirect to it.
func (s *Server) handlePlayLink(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	play, err := s.store.CreatePlay(ps.ByName("id"))
	if err != nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}

	logf(s.cfg, "PLAY: started %s on puzzle %s from shared link", play.ID, play.PuzzleID)
	http.Redirect(w, r, "/api/plays/"+play.ID, http.StatusSeeOther)
}

// GET /api/plays/:id — board, clues and current letters.
func (s *Server) handleGetPlay(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	play := s.store.GetPlay(ps.ByName("id"))
	if play == nil {
		jsonError(w, "play session not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		*PlaySession
		State [][]string `json:"state"`
		Stats PlayStats  `json:"stats"`
	}{play, play.GetState(), play.Stats()})
}

// POST /api/plays/:id/cells — write or erase a letter.
func (s *Server) handleMove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if !s.moveRL.allow(s.clientIP(r)) {
		jsonError(w, "too many requests, try again later", http.StatusTooManyRequests)
		return
	}

	play := s.store.GetPlay(ps.ByName("id"))
	if play == nil {
		jsonError(w, "play session not found", http.StatusNotFound)
		return
	}

	var req struct {
		Row   int    `json:"row"`
		Col   int    `json:"col"`
		Value string `json:"value"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		requestError(w, err, "invalid request")
		return
	}

	if err := play.SetCell(req.Row, req.Col, req.Value); err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	state := play.GetState()
	s.publishEvent(play.ID, map[string]any{
		"type":  "cell_update",
		"row":   req.Row,
		"col":   req.Col,
		"value": state[req.Row][req.Col],
	})
	if res := play.Check(); res.Solved {
		logf(s.cfg, "PLAY: %s solved", play.ID)
		s.publish(play.ID, "solved", "stats", play.Stats())
	}

	w.WriteHeader(http.StatusNoContent)
}

// GET /api/plays/:id/check — which filled squares are wrong.
func (s *Server) handleCheck(w http.ResponseWriter, _ *http.Request, ps httprouter.Params) {
	play := s.store.GetPlay(ps.ByName("id"))
	if play == nil {
		jsonError(w, "play session not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, play.Check())
}

// --- Live events ---

// snapshot returns the first event sent to a new subscriber of topic.
func (s *Server) snapshot(topic string) (string, bool) {
	if d := s.store.GetDraft(topic); d != nil {
		return eventJSON(map[string]any{"type": "draft_state", "draft": newDraftResponse(d)}), true
	}
	if play := s.store.GetPlay(topic); play != nil {
		return eventJSON(map[string]any{
			"type":  "game_state",
			"state": play.GetState(),
			"stats": play.Stats(),
		}), true
	}
	return "", false
}

// GET /api/events/:topic — SSE stream.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	topic := ps.ByName("topic")
	initial, ok := s.snapshot(topic)
	if !ok {
		jsonError(w, "draft or play session not found", http.StatusNotFound)
		return
	}
	logf(s.cfg, "EVENTS: sse subscriber for %s (%d live topics)", topic, s.events.TopicCount())
	s.events.ServeSSE(w, r, topic, initial)
}

// GET /api/ws/:topic — websocket stream.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	topic := ps.ByName("topic")
	initial, ok := s.snapshot(topic)
	if !ok {
		jsonError(w, "draft or play session not found", http.StatusNotFound)
		return
	}
	logf(s.cfg, "EVENTS: websocket subscriber for %s (%d live topics)", topic, s.events.TopicCount())
	s.events.ServeWS(w, r, topic, initial)
}

func (s *Server) publish(topic, typ, key string, v any) {
	s.publishEvent(topic, map[string]any{"type": typ, key: v})
}

func (s *Server) publishEvent(topic string, evt map[string]any) {
	s.events.Broadcast(topic, eventJSON(evt))
}

// --- Misc ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *Server) handleVersion(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "collabcross v"+releaseVersion+"\n")
}

// --- Helpers ---

func eventJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		log.Printf("encode event: %v", err)
		return ""
	}
	return string(b)
}

// decodeJSON reads a request body of at most maxBodySize bytes into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	return json.NewDecoder(r.Body).Decode(v)
}

func requestError(w http.ResponseWriter, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		jsonError(w, "request body too large", http.StatusRequestEntityTooLarge)
		return
	}
	jsonError(w, msg, http.StatusBadRequest)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	writeJSON(w, code, map[string]string{"error": msg})
}
