package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"

	"github.com/robinbraemer/event"
	"golang.org/x/exp/maps"

	"go.lodestone.dev/lodestone/pkg/mods"
	"go.lodestone.dev/lodestone/pkg/version"
)

// Loader is the part of the mod pipeline the API exposes.
type Loader interface {
	InstanceID() string
	Attached() bool
	HookActive() bool
	Registry() *mods.Registry
	ResolveDependency(ctx context.Context, name string) (path string, ok bool)
	Event() event.Manager
}

func NewService(l Loader) *Service {
	return &Service{l: l}
}

// Service serves the debug API over plain JSON endpoints.
type Service struct {
	l Loader
}

// Register mounts all API routes on mux.
func (s *Service) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/mods", s.handleMods)
	mux.HandleFunc("GET /api/mods/{name}", s.handleMod)
	mux.HandleFunc("GET /api/paths", s.handlePaths)
	mux.HandleFunc("GET /api/resolve", s.handleResolve)
	mux.HandleFunc("GET /api/events", s.handleEvents)
}

func (s *Service) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, StatusResponse{
		Instance:   s.l.InstanceID(),
		Version:    version.String(),
		Mods:       s.l.Registry().Len(),
		Attached:   s.l.Attached(),
		HookActive: s.l.HookActive(),
	})
}

func (s *Service) handleMods(w http.ResponseWriter, r *http.Request) {
	reg := s.l.Registry()
	duplicates := maps.Keys(reg.Duplicates())
	sort.Strings(duplicates)
	writeJSON(w, http.StatusOK, ModsResponse{
		Mods:       ModsToJSON(reg.Descriptors()),
		Duplicates: duplicates,
	})
}

func (s *Service) handleMod(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	ds := s.l.Registry().Named(name)
	if len(ds) == 0 {
		writeJSONError(w, http.StatusNotFound, "no mod named "+name)
		return
	}
	writeJSON(w, http.StatusOK, ModsToJSON(ds))
}

func (s *Service) handlePaths(w http.ResponseWriter, r *http.Request) {
	reg := s.l.Registry()
	resp := PathsResponse{}
	for p := range reg.PatcherPaths() {
		resp.Patchers = append(resp.Patchers, p)
	}
	for p := range reg.PluginPaths() {
		resp.Plugins = append(resp.Plugins, p)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Service) handleResolve(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		writeJSONError(w, http.StatusBadRequest, "name query parameter must be set")
		return
	}
	// A dependency no mod provides is a regular answer, not an error.
	path, ok := s.l.ResolveDependency(r.Context(), name)
	writeJSON(w, http.StatusOK, ResolveResponse{
		Name:     name,
		Path:     path,
		Resolved: ok,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	_ = encoder.Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, description string) {
	writeJSON(w, status, ErrorResponse{Error: description})
}
