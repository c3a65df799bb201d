// Package preview serves a processed session directory over HTTP so the
// rewritten agenda document and its attachment links can be checked in a
// browser before publishing.
package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dgallion1/edtrpub/internal/attachment"
	"github.com/dgallion1/edtrpub/internal/session"
)

// Server is the read-only preview server for one session directory.
type Server struct {
	router       chi.Router
	dir          string
	closedSuffix string
	log          *slog.Logger
}

// NewServer creates and configures the preview server.
func NewServer(dir, closedSuffix string, log *slog.Logger) *Server {
	s := &Server{
		dir:          dir,
		closedSuffix: closedSuffix,
		log:          log,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))
	r.Use(ReadOnly)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)
	r.Get("/inventory", s.handleInventory)
	r.Get("/api/inventory", s.handleInventoryJSON)
	r.Handle("/*", http.FileServer(http.Dir(s.dir)))

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleIndex redirects to the agenda document.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	doc, err := session.FindDocument(s.dir)
	if err != nil {
		jsonError(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Redirect(w, r, "/"+filepath.Base(doc), http.StatusFound)
}

func (s *Server) handleInventory(w http.ResponseWriter, r *http.Request) {
	inv, err := attachment.Build(s.dir, s.closedSuffix)
	if err != nil {
		jsonError(w, "failed to build inventory: "+err.Error(), http.StatusInternalServerError)
		return
	}
	body, err := attachment.RenderHTML(inv.Markdown())
	if err != nil {
		jsonError(w, "failed to render inventory: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write([]byte("<!DOCTYPE html>\n<html><head><meta charset=\"utf-8\"><title>Inventory</title></head><body>\n"))
	w.Write([]byte(body))
	w.Write([]byte("</body></html>\n"))
}

func (s *Server) handleInventoryJSON(w http.ResponseWriter, r *http.Request) {
	inv, err := attachment.Build(s.dir, s.closedSuffix)
	if err != nil {
		jsonError(w, "failed to build inventory: "+err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(inv)
}

func jsonError(w http.ResponseWriter, msg string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
