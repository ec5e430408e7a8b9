package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/config"
	"github.com/ManGo0j/ai-agent-creater-tgbot/internal/core"
)

// Server is the internal status surface: the bot layer polls it to observe a
// document's terminal state instead of trusting fire-and-forget delivery.
type Server struct {
	httpServer *http.Server
	db         core.DbClient
	logger     *zap.Logger
}

// NewServer builds and wires the status routes.
func NewServer(cfg *config.Config, db core.DbClient, logger *zap.Logger) *Server {
	s := &Server{db: db, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Route("/api/agents/{agentID}/documents", func(api chi.Router) {
		api.Get("/", s.listDocuments)
		api.Get("/{documentID}", s.getDocument)
	})

	s.httpServer = &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}
	return s
}

func (s *Server) listDocuments(w http.ResponseWriter, r *http.Request) {
	agentID, err := strconv.ParseInt(chi.URLParam(r, "agentID"), 10, 64)
	if err != nil {
		http.Error(w, "invalid agent id", http.StatusBadRequest)
		return
	}
	docs, err := s.db.ListDocumentsByAgent(r.Context(), agentID)
	if err != nil {
		s.logger.Error("list documents failed", zap.Int64("agent_id", agentID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, docs)
}

func (s *Server) getDocument(w http.ResponseWriter, r *http.Request) {
	agentID, err1 := strconv.ParseInt(chi.URLParam(r, "agentID"), 10, 64)
	docID, err2 := strconv.ParseInt(chi.URLParam(r, "documentID"), 10, 64)
	if err1 != nil || err2 != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	doc, err := s.db.GetDocumentByID(r.Context(), docID)
	if errors.Is(err, core.ErrDocumentNotFound) {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	if err != nil {
		s.logger.Error("get document failed", zap.Int64("document_id", docID), zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	// A document belonging to another agent is indistinguishable from a
	// missing one.
	if doc.AgentID != agentID {
		http.Error(w, "document not found", http.StatusNotFound)
		return
	}
	writeJSON(w, doc)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// Start runs the HTTP server.
func (s *Server) Start() {
	s.logger.Info("status server listening", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Fatal("server error", zap.Error(err))
	}
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down status server")
	return s.httpServer.Shutdown(ctx)
}
