package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/wricardo/mcp-training/mazegame/game/config"
	"github.com/wricardo/mcp-training/mazegame/game/engine"
	"github.com/wricardo/mcp-training/mazegame/game/service"
	"github.com/wricardo/mcp-training/mazegame/game/session"
	"github.com/wricardo/mcp-training/mazegame/logger"
	"github.com/wricardo/mcp-training/mazegame/transport/websocket"
)

// RequestObserver receives per-request latency
type RequestObserver interface {
	ObserveRequest(route, method string, code int, d time.Duration)
}

// Server represents the REST API server
type Server struct {
	service  service.GameService
	hub      *websocket.Hub
	observer RequestObserver
	router   *mux.Router
}

// NewServer creates a new API server. hub and observer may be nil.
func NewServer(gameService service.GameService, hub *websocket.Hub, observer RequestObserver) *Server {
	s := &Server{
		service:  gameService,
		hub:      hub,
		observer: observer,
		router:   mux.NewRouter(),
	}

	s.router.Use(s.loggingMiddleware)
	s.setupRoutes()
	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()
	api.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)
	s.router.MethodNotAllowedHandler = http.HandlerFunc(handleMethodNotAllowed)

	// Game state
	api.HandleFunc("/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/room", s.handleGetRoom).Methods("GET")
	api.HandleFunc("/history", s.handleGetHistory).Methods("GET")

	// Game operations
	api.HandleFunc("/choose", s.handleChoose).Methods("POST")
	api.HandleFunc("/restart", s.handleRestart).Methods("POST")
	api.HandleFunc("/actions", s.handleAction).Methods("POST")

	// Mazes
	api.HandleFunc("/maze", s.handleGetMaze).Methods("GET")
	api.HandleFunc("/mazes", s.handleListMazes).Methods("GET")
	api.HandleFunc("/mazes/{name}", s.handleGetCatalogMaze).Methods("GET")

	s.router.HandleFunc("/healthz", s.handleHealth).Methods("GET")

	// WebSocket
	s.router.HandleFunc("/ws", s.handleWebSocket)
}

func handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
}

// Handle mounts an extra handler, e.g. /metrics or /mcp
func (s *Server) Handle(path string, handler http.Handler, methods ...string) {
	route := s.router.Handle(path, handler)
	if len(methods) > 0 {
		route.Methods(methods...)
	}
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Response helpers
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps service errors to status codes
func respondServiceError(w http.ResponseWriter, err error) {
	var loadErr *engine.LoadError
	switch {
	case errors.Is(err, config.ErrMazeNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &loadErr):
		respondError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Log.Errorw("request failed", "error", err)
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// Game State Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	state, err := s.service.GetState(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, state)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.service.GetRoom(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleGetHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	opts := service.HistoryOptions{
		Page:  1,
		Limit: 20,
		Order: "desc",
	}

	if page := query.Get("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil && p > 0 {
			opts.Page = p
		}
	}
	if limit := query.Get("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			opts.Limit = l
		}
	}
	if order := query.Get("order"); order == "asc" || order == "desc" {
		opts.Order = order
	}

	history, err := s.service.GetMoveHistory(r.Context(), opts)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// Game Operation Handlers

func (s *Server) handleChoose(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index *int `json:"index"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Index == nil {
		respondError(w, http.StatusBadRequest, "index is required")
		return
	}

	s.apply(w, r, session.ChooseExit(*req.Index))
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	s.apply(w, r, session.Restart())
}

func (s *Server) handleAction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Action string `json:"action"`
		Index  *int   `json:"index,omitempty"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	kind, err := session.ParseActionKind(req.Action)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	action := session.Restart()
	if kind == session.ActionChooseExit {
		if req.Index == nil {
			respondError(w, http.StatusBadRequest, "index is required for choose_exit")
			return
		}
		action = session.ChooseExit(*req.Index)
	}

	s.apply(w, r, action)
}

// apply runs an action and broadcasts the new state to watchers
func (s *Server) apply(w http.ResponseWriter, r *http.Request, action session.Action) {
	result, err := s.service.Apply(r.Context(), action)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if result.Success && s.hub != nil {
		s.hub.BroadcastState(result.State, result.Events)
	}

	if result.Step != nil {
		logger.Log.Infow("move",
			"session", result.State.SessionID,
			"exit", result.Step.ExitIndex,
			"from", result.Step.From,
			"to", result.Step.To,
			"finished", result.Step.Finished)
	} else if !result.Success {
		logger.Log.Infow("move rejected", "session", result.State.SessionID, "action", action.String())
	}

	respondJSON(w, http.StatusOK, result)
}

// Maze Handlers

func (s *Server) handleGetMaze(w http.ResponseWriter, r *http.Request) {
	info, err := s.service.GetMazeInfo(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleListMazes(w http.ResponseWriter, r *http.Request) {
	mazes, err := s.service.ListMazes(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count": len(mazes),
		"mazes": mazes,
	})
}

func (s *Server) handleGetCatalogMaze(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	info, err := s.service.GetCatalogMaze(r.Context(), name)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, info)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.hub == nil {
		respondError(w, http.StatusServiceUnavailable, "websocket not available")
		return
	}

	state, err := s.service.GetState(r.Context())
	if err != nil {
		respondServiceError(w, err)
		return
	}

	s.hub.ServeWS(w, r, &websocket.Message{
		Event:     websocket.EventSnapshot,
		SessionID: state.SessionID,
		State:     state,
	})
}
