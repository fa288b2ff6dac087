package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/zone"
)

// HooksHandler handles HTTP requests for zone hook resources.
type HooksHandler struct {
	store *store.Store
}

// NewHooksHandler creates a new HooksHandler with the given store.
func NewHooksHandler(s *store.Store) *HooksHandler {
	return &HooksHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *HooksHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/hooks or /api/hooks/{id}
	path := strings.TrimPrefix(r.URL.Path, "/api/hooks")
	path = strings.TrimPrefix(path, "/")

	if path == "" {
		switch r.Method {
		case http.MethodGet:
			h.list(w, r)
		case http.MethodPost:
			h.create(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	id := path
	switch r.Method {
	case http.MethodGet:
		h.get(w, r, id)
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		h.delete(w, r, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// Request and response types

type createHookRequest struct {
	Zone    string          `json:"zone"`
	Command string          `json:"command"`
	Config  json.RawMessage `json:"config"`
	Enabled *bool           `json:"enabled"`
}

type updateHookRequest struct {
	Zone    string          `json:"zone"`
	Command string          `json:"command"`
	Config  json.RawMessage `json:"config"`
	Enabled *bool           `json:"enabled"`
}

type hookResponse struct {
	ID        string          `json:"id"`
	Zone      string          `json:"zone"`
	Command   string          `json:"command"`
	Config    json.RawMessage `json:"config"`
	Enabled   bool            `json:"enabled"`
	CreatedAt string          `json:"created_at"`
}

type listHooksResponse struct {
	Hooks []hookResponse `json:"hooks"`
}

// toHookResponse converts a store.Hook to a hookResponse.
func toHookResponse(h *store.Hook) hookResponse {
	return hookResponse{
		ID:        h.ID,
		Zone:      h.Zone,
		Command:   h.Command,
		Config:    h.Config,
		Enabled:   h.Enabled,
		CreatedAt: h.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// validZone reports whether s names a zone a session can transition into.
func validZone(s string) bool {
	switch zone.Zone(s) {
	case zone.NotDetected, zone.TooFar, zone.GoodDistance, zone.TooClose, zone.PalmTooLarge, zone.Error:
		return true
	}
	return false
}

// list handles GET /api/hooks and returns all hooks.
func (h *HooksHandler) list(w http.ResponseWriter, r *http.Request) {
	hooks, err := h.store.Hooks().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list hooks")
		return
	}

	response := listHooksResponse{
		Hooks: make([]hookResponse, 0, len(hooks)),
	}
	for _, hk := range hooks {
		response.Hooks = append(response.Hooks, toHookResponse(hk))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/hooks/{id} and returns a single hook.
func (h *HooksHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	hk, err := h.store.Hooks().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hook not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get hook")
		return
	}

	writeJSON(w, http.StatusOK, toHookResponse(hk))
}

// create handles POST /api/hooks and creates a new hook.
func (h *HooksHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !validZone(req.Zone) {
		writeError(w, http.StatusBadRequest, "Invalid zone")
		return
	}
	if req.Command == "" {
		writeError(w, http.StatusBadRequest, "Command is required")
		return
	}

	// New hooks are enabled unless the request says otherwise.
	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	hk := &store.Hook{
		ID:      uuid.New().String(),
		Zone:    req.Zone,
		Command: req.Command,
		Config:  req.Config,
		Enabled: enabled,
	}

	if err := h.store.Hooks().Create(hk); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create hook")
		return
	}

	writeJSON(w, http.StatusCreated, toHookResponse(hk))
}

// update handles PUT /api/hooks/{id} and updates an existing hook.
func (h *HooksHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	hk, err := h.store.Hooks().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hook not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get hook")
		return
	}

	var req updateHookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Zone != "" {
		if !validZone(req.Zone) {
			writeError(w, http.StatusBadRequest, "Invalid zone")
			return
		}
		hk.Zone = req.Zone
	}
	if req.Command != "" {
		hk.Command = req.Command
	}
	if len(req.Config) > 0 {
		hk.Config = req.Config
	}
	if req.Enabled != nil {
		hk.Enabled = *req.Enabled
	}

	if err := h.store.Hooks().Update(hk); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update hook")
		return
	}

	writeJSON(w, http.StatusOK, toHookResponse(hk))
}

// delete handles DELETE /api/hooks/{id} and removes a hook.
func (h *HooksHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	err := h.store.Hooks().Delete(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Hook not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to delete hook")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
