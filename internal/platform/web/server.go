// Package web serves Doteat sessions over HTTP: a REST API to create and
// steer games and a websocket stream of snapshots.
package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/doteat/internal/games/doteat"
	"github.com/vovakirdan/doteat/internal/session"
	"github.com/vovakirdan/doteat/internal/storage"
)

// ScoreReader lists high scores. *storage.Store satisfies it.
type ScoreReader interface {
	TopScores(gameID string, limit int) ([]storage.ScoreEntry, error)
}

// Options configures the web server.
type Options struct {
	Addr string
	// FPS drives every session at this many ticks per second. Zero leaves
	// sessions to the step endpoint.
	FPS    int
	Scores ScoreReader
	Logger *log.Logger
}

// Server represents the REST and websocket API.
type Server struct {
	manager *session.Manager
	hub     *Hub
	router  *mux.Router
	opts    Options
	logger  *log.Logger

	mu      sync.Mutex
	ctx     context.Context
	runners map[string]context.CancelFunc
}

// NewServer creates a server for the sessions of manager. It serves REST
// requests right away; websocket streaming waits for Start (or Run).
func NewServer(manager *session.Manager, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	s := &Server{
		manager: manager,
		router:  mux.NewRouter(),
		opts:    opts,
		logger:  opts.Logger,
		ctx:     context.Background(),
		runners: make(map[string]context.CancelFunc),
	}
	s.hub = NewHub(opts.Logger, s.handleClientMessage, s.welcome)

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/levels", s.handleListLevels).Methods("GET")
	api.HandleFunc("/scores/{game}", s.handleScores).Methods("GET")

	api.HandleFunc("/sessions", s.handleCreateSession).Methods("POST")
	api.HandleFunc("/sessions", s.handleListSessions).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleGetSession).Methods("GET")
	api.HandleFunc("/sessions/{id}", s.handleDeleteSession).Methods("DELETE")
	api.HandleFunc("/sessions/{id}/intent", s.handleIntent).Methods("POST")
	api.HandleFunc("/sessions/{id}/step", s.handleStep).Methods("POST")
	api.HandleFunc("/sessions/{id}/board", s.handleBoard).Methods("GET")

	s.router.HandleFunc("/ws/{id}", s.handleWebSocket)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start runs the hub and binds session runners to ctx. It returns at once.
func (s *Server) Start(ctx context.Context) {
	s.mu.Lock()
	s.ctx = ctx
	s.mu.Unlock()

	go s.hub.Run(ctx)
}

// Run starts the server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.Start(ctx)

	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	s.logger.Info("starting web server", "address", s.opts.Addr, "fps", s.opts.FPS)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("web server stopped")
	return nil
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data) //nolint:errcheck
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// lookup fetches the session named in the route, answering 404 itself.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.manager.Get(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return nil, false
	}
	return sess, true
}

type levelInfo struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Format string `json:"format"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleListLevels(w http.ResponseWriter, r *http.Request) {
	lvls := s.manager.Levels()
	out := make([]levelInfo, 0, len(lvls))
	for _, lvl := range lvls {
		info := levelInfo{ID: lvl.ID, Name: lvl.Title(), Format: string(lvl.Format)}
		if g, err := lvl.Grid(); err == nil {
			info.Width, info.Height = g.Width(), g.Height()
		}
		out = append(out, info)
	}
	respondJSON(w, http.StatusOK, out)
}

type scoreInfo struct {
	Score     int       `json:"score"`
	LevelID   string    `json:"level_id"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.opts.Scores == nil {
		respondError(w, http.StatusServiceUnavailable, "scores are not available")
		return
	}

	limit := 10
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	entries, err := s.opts.Scores.TopScores(mux.Vars(r)["game"], limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]scoreInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, scoreInfo{Score: e.Score, LevelID: e.LevelID, CreatedAt: e.CreatedAt})
	}
	respondJSON(w, http.StatusOK, out)
}

type sessionResponse struct {
	ID        string          `json:"id"`
	Mode      string          `json:"mode"`
	Seed      int64           `json:"seed"`
	CreatedAt time.Time       `json:"created_at"`
	Snapshot  doteat.Snapshot `json:"snapshot"`
}

func newSessionResponse(sess *session.Session) sessionResponse {
	return sessionResponse{
		ID:        sess.ID,
		Mode:      string(sess.Mode),
		Seed:      sess.Seed,
		CreatedAt: sess.CreatedAt,
		Snapshot:  sess.Snapshot(),
	}
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode  string `json:"mode"`
		Level string `json:"level"`
		Seed  int64  `json:"seed"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	sess, err := s.manager.Create(session.CreateOptions{
		Mode:  doteat.Mode(req.Mode),
		Level: req.Level,
		Seed:  req.Seed,
	})
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.logger.Info("session created", "id", sess.ID, "mode", sess.Mode, "level", req.Level)
	s.startRunner(sess)
	respondJSON(w, http.StatusCreated, newSessionResponse(sess))
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := s.manager.List()
	out := make([]sessionResponse, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, newSessionResponse(sess))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, newSessionResponse(sess))
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.manager.Delete(id); err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.stopRunner(id)
	s.hub.Broadcast(&Message{SessionID: id, Event: "deleted"})
	s.logger.Info("session deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// intentRequest is accepted both over REST and over the websocket.
type intentRequest struct {
	Direction string `json:"direction"`
}

type intentResponse struct {
	Direction string          `json:"direction"`
	Accepted  bool            `json:"accepted"`
	Snapshot  doteat.Snapshot `json:"snapshot"`
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	accepted, err := sess.Command(req.Direction)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, intentResponse{
		Direction: req.Direction,
		Accepted:  accepted,
		Snapshot:  sess.Snapshot(),
	})
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}

	n := 1
	if v := r.URL.Query().Get("ticks"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "invalid ticks")
			return
		}
		n = parsed
	}

	snap := sess.Step(n)
	s.hub.BroadcastSnapshot(sess.ID, snap)
	respondJSON(w, http.StatusOK, snap)
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(sess.Board() + "\n")) //nolint:errcheck
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.lookup(w, r)
	if !ok {
		return
	}
	s.hub.ServeWS(w, r, sess.ID)
}

// handleClientMessage applies an intent sent over the websocket.
func (s *Server) handleClientMessage(sessionID string, data []byte) *Message {
	sess, err := s.manager.Get(sessionID)
	if err != nil {
		return &Message{SessionID: sessionID, Event: "error", Data: err.Error()}
	}

	var req intentRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return &Message{SessionID: sessionID, Event: "error", Data: "invalid message"}
	}

	accepted, err := sess.Command(req.Direction)
	if err != nil {
		return &Message{SessionID: sessionID, Event: "error", Data: err.Error()}
	}
	return &Message{
		SessionID: sessionID,
		Event:     "intent",
		Data:      map[string]any{"direction": req.Direction, "accepted": accepted},
	}
}

// welcome greets a new websocket client with the current snapshot.
func (s *Server) welcome(sessionID string) *Message {
	sess, err := s.manager.Get(sessionID)
	if err != nil {
		return nil
	}
	snap := sess.Snapshot()
	return &Message{SessionID: sessionID, Event: "state", Snapshot: &snap}
}

// startRunner drives a session at the configured FPS until the server
// context ends or the session is deleted.
func (s *Server) startRunner(sess *session.Session) {
	if s.opts.FPS <= 0 {
		return
	}

	s.mu.Lock()
	ctx, cancel := context.WithCancel(s.ctx)
	s.runners[sess.ID] = cancel
	s.mu.Unlock()

	go s.run(ctx, sess)
}

func (s *Server) stopRunner(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cancel, ok := s.runners[id]; ok {
		cancel()
		delete(s.runners, id)
	}
}

func (s *Server) run(ctx context.Context, sess *session.Session) {
	ticker := time.NewTicker(time.Second / time.Duration(s.opts.FPS))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.hub.BroadcastSnapshot(sess.ID, sess.Step(1))
		}
	}
}
