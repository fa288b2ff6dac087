package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/store"
)

// ProfilesHandler handles HTTP requests for calibration profile resources.
type ProfilesHandler struct {
	store *store.Store
}

// NewProfilesHandler creates a new ProfilesHandler with the given store.
func NewProfilesHandler(s *store.Store) *ProfilesHandler {
	return &ProfilesHandler{store: s}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *ProfilesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/profiles, /api/profiles/{id},
	// /api/profiles/{id}/activate
	path := strings.TrimPrefix(r.URL.Path, "/api/profiles")
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

	parts := strings.Split(path, "/")
	id := parts[0]

	if len(parts) == 2 && parts[1] == "activate" {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.activate(w, r, id)
		return
	}

	if len(parts) != 1 {
		writeError(w, http.StatusNotFound, "Not found")
		return
	}

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

type createProfileRequest struct {
	Name    string          `json:"name"`
	Options json.RawMessage `json:"options"`
}

type updateProfileRequest struct {
	Name    string          `json:"name"`
	Options json.RawMessage `json:"options"`
}

type profileResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Options   json.RawMessage `json:"options"`
	Active    bool            `json:"active"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}

type listProfilesResponse struct {
	Profiles []profileResponse `json:"profiles"`
}

// toProfileResponse converts a store.Profile to a profileResponse.
func toProfileResponse(p *store.Profile, activeName string) profileResponse {
	return profileResponse{
		ID:        p.ID,
		Name:      p.Name,
		Options:   p.Options,
		Active:    p.Name == activeName,
		CreatedAt: p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt: p.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// activeName returns the name bound to the active-profile setting, if any.
func (h *ProfilesHandler) activeName() string {
	name, err := h.store.Settings().Get(store.ActiveProfileKey)
	if err != nil {
		return ""
	}
	return name
}

// validateOptions rejects profile documents whose pipeline options cannot be
// decoded or violate the configuration orderings.
func validateOptions(raw json.RawMessage) error {
	if len(raw) == 0 {
		return nil
	}
	opts := pipeline.DefaultOptions()
	if err := json.Unmarshal(raw, &opts); err != nil {
		return err
	}
	return opts.Validate()
}

// list handles GET /api/profiles and returns all profiles.
func (h *ProfilesHandler) list(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.store.Profiles().List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list profiles")
		return
	}

	active := h.activeName()
	response := listProfilesResponse{
		Profiles: make([]profileResponse, 0, len(profiles)),
	}
	for _, p := range profiles {
		response.Profiles = append(response.Profiles, toProfileResponse(p, active))
	}

	writeJSON(w, http.StatusOK, response)
}

// get handles GET /api/profiles/{id} and returns a single profile.
func (h *ProfilesHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p, h.activeName()))
}

// create handles POST /api/profiles and creates a new profile.
func (h *ProfilesHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "Name is required")
		return
	}
	if err := validateOptions(req.Options); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid pipeline options: "+err.Error())
		return
	}

	profile := &store.Profile{
		ID:      uuid.New().String(),
		Name:    req.Name,
		Options: req.Options,
	}

	if err := h.store.Profiles().Create(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create profile")
		return
	}

	writeJSON(w, http.StatusCreated, toProfileResponse(profile, h.activeName()))
}

// update handles PUT /api/profiles/{id} and updates an existing profile.
func (h *ProfilesHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	profile, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.Name != "" {
		profile.Name = req.Name
	}
	if len(req.Options) > 0 {
		if err := validateOptions(req.Options); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid pipeline options: "+err.Error())
			return
		}
		profile.Options = req.Options
	}

	if err := h.store.Profiles().Update(profile); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile, h.activeName()))
}

// delete handles DELETE /api/profiles/{id} and removes a profile. Deleting
// the active profile clears the active-profile setting.
func (h *ProfilesHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	if err := h.store.Profiles().Delete(id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete profile")
		return
	}

	if p.Name == h.activeName() {
		h.store.Settings().Delete(store.ActiveProfileKey)
	}

	w.WriteHeader(http.StatusNoContent)
}

// activate handles POST /api/profiles/{id}/activate and marks the profile as
// the default for new sessions.
func (h *ProfilesHandler) activate(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.store.Profiles().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to get profile")
		return
	}

	if err := h.store.Settings().Set(store.ActiveProfileKey, p.Name); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to activate profile")
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(p, p.Name))
}
