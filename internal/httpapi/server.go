package httpapi

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/CBonnell/discord-dns-webhook/internal/domain"
	"github.com/CBonnell/discord-dns-webhook/internal/scheduler"
)

// CacheView is the read-only view of the watcher the status API needs.
type CacheView interface {
	Snapshot() map[string]domain.DNSResponse
	State() string
}

// Server exposes a read-only status API: configured hosts with their last
// known responses, and the raw cache (which also surfaces orphaned entries
// for hosts removed from config).
type Server struct {
	Logger *zap.Logger
	Hosts  []domain.Host
	View   CacheView
}

func NewServer(l *zap.Logger, hosts []domain.Host, view CacheView) *Server {
	return &Server{Logger: l, Hosts: hosts, View: view}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/hosts", s.handleListHosts)
	r.Get("/api/cache", s.handleDumpCache)

	return r
}

type hostStatus struct {
	Hostname string              `json:"hostname"`
	Name     string              `json:"name"`
	Last     *domain.DNSResponse `json:"last,omitempty"`
	Stale    bool                `json:"stale"`
}

func (s *Server) handleListHosts(w http.ResponseWriter, r *http.Request) {
	snapshot := s.View.Snapshot()
	now := time.Now()

	out := make([]hostStatus, 0, len(s.Hosts))
	for _, h := range s.Hosts {
		hs := hostStatus{
			Hostname: h.Hostname,
			Name:     h.Config.Name,
			Stale:    scheduler.IsStale(snapshot, h.Hostname, now),
		}
		if resp, ok := snapshot[h.Hostname]; ok {
			cp := resp
			hs.Last = &cp
		}
		out = append(out, hs)
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"state": s.View.State(),
		"hosts": out,
	})
}

func (s *Server) handleDumpCache(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.View.Snapshot())
}
