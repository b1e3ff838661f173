package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"knights_gambit/internal/diagram"
	"knights_gambit/internal/game"
	"knights_gambit/internal/saves"
	"knights_gambit/internal/settings"
	"knights_gambit/internal/shared"
)

// Server wires the HTTP layer to one engine plus the settings and save stores.
type Server struct {
	engineMu sync.Mutex
	engine   *game.Engine
	settings *settings.Store
	saves    *saves.Store
	srvMu    sync.Mutex
	srv      *http.Server
}

const (
	maxJSONBodyBytes int64 = 1 << 20
	apiCSP                 = "default-src 'none'; frame-ancestors 'none'; base-uri 'none'"
	svgCSP                 = "default-src 'none'; style-src 'unsafe-inline'; frame-ancestors 'none'"
)

// NewServer builds a Server. Either store may be nil, which disables its
// routes and autosave.
func NewServer(engine *game.Engine, settingsStore *settings.Store, saveStore *saves.Store) *Server {
	return &Server{
		engine:   engine,
		settings: settingsStore,
		saves:    saveStore,
	}
}

// Listen starts the HTTP server.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	log.Printf("HTTP listening on %s", addr)
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close attempts a graceful shutdown of the HTTP server.
func (s *Server) Close(ctx context.Context) error {
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/state", s.withJSON(s.handleState))
	mux.HandleFunc("/api/moves", s.withJSON(s.handleMoves))
	mux.HandleFunc("/api/move", s.withJSON(s.handleMove))
	mux.HandleFunc("/api/undo", s.withJSON(s.handleUndo))
	mux.HandleFunc("/api/reset", s.withJSON(s.handleReset))
	mux.HandleFunc("/api/snapshot", s.withJSON(s.handleSnapshot))

	mux.HandleFunc("/api/settings", s.withJSON(s.handleSettings))
	mux.HandleFunc("/api/settings/reset", s.withJSON(s.handleSettingsReset))

	mux.HandleFunc("/api/saves", s.withJSON(s.handleSaves))
	mux.HandleFunc("/api/saves/{id}", s.withJSON(s.handleSaveSlot))
	mux.HandleFunc("/api/saves/{id}/load", s.withJSON(s.handleSaveLoad))

	mux.HandleFunc("/api/board.svg", s.handleBoardSVG)

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ---- JSON helpers ----

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		applyAPISecurityHeaders(w.Header(), apiCSP)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.WriteHeader(status)
	writeJSON(w, map[string]string{"error": msg})
}

// writeFailure maps domain errors onto status codes.
func writeFailure(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case isBodyTooLarge(err):
		writeError(w, http.StatusRequestEntityTooLarge, "request too large")
		return
	case errors.Is(err, game.ErrInvalidMove), errors.Is(err, settings.ErrInvalidSettings):
		status = http.StatusBadRequest
	case errors.Is(err, game.ErrNoMoveToUndo):
		status = http.StatusConflict
	case errors.Is(err, saves.ErrSlotNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrMalformedSnapshot):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		log.Printf("http: %v", err)
	}
	writeError(w, status, err.Error())
}

// decodeBody reads one JSON value from the request, answering 400 or 413
// itself when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if isBodyTooLarge(err) {
			writeError(w, http.StatusRequestEntityTooLarge, "request too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid json")
		return false
	}
	return true
}

func allowMethods(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	return false
}

func applyAPISecurityHeaders(h http.Header, csp string) {
	h.Set("Content-Security-Policy", csp)
	h.Set("Cross-Origin-Opener-Policy", "same-origin")
	h.Set("Cross-Origin-Embedder-Policy", "require-corp")
	h.Set("X-Content-Type-Options", "nosniff")
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

func parseSquare(s string) (shared.Square, bool) {
	return shared.CoordToSquare(strings.ToLower(strings.TrimSpace(s)))
}

// ---- API: game ----

type stateResponse struct {
	State  game.GameState `json:"state"`
	Status game.Status    `json:"status"`
}

func (s *Server) stateLocked() stateResponse {
	return stateResponse{State: s.engine.State(), Status: s.engine.Status()}
}

// autosaveLocked writes the autosave slot when the player asked for it.
// Failures are logged only.
func (s *Server) autosaveLocked() {
	if s.saves == nil || s.settings == nil || !s.settings.Get().AutoSave {
		return
	}
	if _, err := s.saves.Autosave(s.engine.Snapshot()); err != nil {
		log.Printf("autosave: %v", err)
	}
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	s.engineMu.Lock()
	resp := s.stateLocked()
	s.engineMu.Unlock()
	writeJSON(w, resp)
}

func (s *Server) handleMoves(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	sq, ok := parseSquare(r.URL.Query().Get("square"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid square")
		return
	}
	s.engineMu.Lock()
	sel, selectable := s.engine.Select(sq)
	s.engineMu.Unlock()
	writeJSON(w, map[string]any{"selection": sel, "selectable": selectable})
}

type moveBody struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type moveResponse struct {
	stateResponse
	Result game.MoveResult `json:"result"`
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	var body moveBody
	if !decodeBody(w, r, &body) {
		return
	}
	from, ok := parseSquare(body.From)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid from square")
		return
	}
	to, ok := parseSquare(body.To)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid to square")
		return
	}

	s.engineMu.Lock()
	result, err := s.engine.ApplyMove(from, to)
	if err == nil {
		s.autosaveLocked()
	}
	resp := s.stateLocked()
	s.engineMu.Unlock()

	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, moveResponse{stateResponse: resp, Result: result})
}

func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	s.engineMu.Lock()
	undone, err := s.engine.Undo()
	if err == nil {
		s.autosaveLocked()
	}
	resp := s.stateLocked()
	s.engineMu.Unlock()

	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, map[string]any{"state": resp.State, "status": resp.Status, "undone": undone.Move})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	s.engineMu.Lock()
	s.engine.Reset()
	s.autosaveLocked()
	resp := s.stateLocked()
	s.engineMu.Unlock()
	writeJSON(w, resp)
}

// handleSnapshot exports the game on GET and replaces it on POST.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodGet {
		s.engineMu.Lock()
		snap := s.engine.Snapshot()
		s.engineMu.Unlock()
		writeJSON(w, snap)
		return
	}

	defer r.Body.Close()
	snap, err := game.DecodeSnapshot(r.Body)
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.engineMu.Lock()
	err = s.engine.Restore(snap)
	resp := s.stateLocked()
	s.engineMu.Unlock()
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, resp)
}

// ---- API: settings ----

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if s.settings == nil {
		writeError(w, http.StatusNotFound, "settings disabled")
		return
	}
	if r.Method == http.MethodGet {
		writeJSON(w, s.settings.Get())
		return
	}
	var patch map[string]any
	if !decodeBody(w, r, &patch) {
		return
	}
	updated, err := s.settings.Update(patch)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, updated)
}

func (s *Server) handleSettingsReset(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	if s.settings == nil {
		writeError(w, http.StatusNotFound, "settings disabled")
		return
	}
	reset, err := s.settings.Reset()
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, reset)
}

// ---- API: saves ----

func (s *Server) handleSaves(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if s.saves == nil {
		writeError(w, http.StatusNotFound, "saves disabled")
		return
	}
	if r.Method == http.MethodGet {
		slots, err := s.saves.List()
		if err != nil {
			writeFailure(w, err)
			return
		}
		writeJSON(w, map[string]any{"saves": slots})
		return
	}

	s.engineMu.Lock()
	snap := s.engine.Snapshot()
	s.engineMu.Unlock()
	slot, err := s.saves.Save(snap)
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, map[string]any{"slot": slot})
}

func (s *Server) handleSaveSlot(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodDelete) {
		return
	}
	if s.saves == nil {
		writeError(w, http.StatusNotFound, "saves disabled")
		return
	}
	id := r.PathValue("id")
	if err := s.saves.Delete(id); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, map[string]string{"deleted": id})
}

func (s *Server) handleSaveLoad(w http.ResponseWriter, r *http.Request) {
	if !allowMethods(w, r, http.MethodPost) {
		return
	}
	if s.saves == nil {
		writeError(w, http.StatusNotFound, "saves disabled")
		return
	}
	snap, err := s.saves.Load(r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	s.engineMu.Lock()
	err = s.engine.Restore(snap)
	resp := s.stateLocked()
	s.engineMu.Unlock()
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, resp)
}

// ---- board diagram ----

// handleBoardSVG renders the current board. ?select=b1 highlights that
// piece's legal destinations, ?flip=1 draws from black's side.
func (s *Server) handleBoardSVG(w http.ResponseWriter, r *http.Request) {
	applyAPISecurityHeaders(w.Header(), svgCSP)
	if !allowMethods(w, r, http.MethodGet) {
		return
	}
	q := r.URL.Query()
	opts := diagram.Options{Flip: q.Get("flip") == "1" || q.Get("flip") == "true"}

	s.engineMu.Lock()
	board := s.engine.Board()
	if raw := q.Get("select"); raw != "" {
		if sq, ok := parseSquare(raw); ok {
			if sel, ok := s.engine.Select(sq); ok {
				opts.Highlights = sel.Targets.Add(sq)
			}
		}
	}
	s.engineMu.Unlock()

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := diagram.Render(w, board, opts); err != nil {
		log.Printf("board.svg: %v", err)
	}
}
