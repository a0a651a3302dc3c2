package main

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const qrSize = 320

// GET /api/puzzles/:id/qr — PNG QR code of the link that starts playing
// the puzzle.
func (s *Server) handlePuzzleQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	if s.store.GetPuzzle(id) == nil {
		jsonError(w, "puzzle not found", http.StatusNotFound)
		return
	}

	png, err := qrcode.Encode(shareURL(r, id), qrcode.Medium, qrSize)
	if err != nil {
		jsonError(w, "qr generation failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}

// shareURL is the absolute /play link for a puzzle. X-Forwarded-Proto is
// honoured only when it names http or https.
func shareURL(r *http.Request, puzzleID string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	switch proto := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); proto {
	case "http", "https":
		scheme = proto
	}
	return scheme + "://" + r.Host + "/play/" + url.PathEscape(puzzleID)
}
