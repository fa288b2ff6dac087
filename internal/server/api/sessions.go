// Package api provides HTTP API handlers for the Mudra hand analysis service.
package api

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/vision"
	"github.com/ayusman/mudra/internal/zone"
)

// SessionsHandler handles HTTP requests for analysis session resources.
type SessionsHandler struct {
	app *app.App
}

// NewSessionsHandler creates a new SessionsHandler with the given app.
func NewSessionsHandler(a *app.App) *SessionsHandler {
	return &SessionsHandler{app: a}
}

// ServeHTTP implements the http.Handler interface and routes requests to appropriate methods.
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Expected paths: /api/sessions, /api/sessions/{id},
	// /api/sessions/{id}/frames, /api/sessions/{id}/landmarks
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions")
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

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.get(w, r, id)
		case http.MethodDelete:
			h.delete(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
		return
	}

	if len(parts) == 2 {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		switch parts[1] {
		case "frames":
			h.analyzeFrame(w, r, id)
			return
		case "landmarks":
			h.analyzeLandmarks(w, r, id)
			return
		}
	}

	writeError(w, http.StatusNotFound, "Not found")
}

// Request and response types

type createSessionRequest struct {
	Profile string            `json:"profile"`
	Options *pipeline.Options `json:"options"`
}

type sessionResponse struct {
	ID        string           `json:"id"`
	CreatedAt string           `json:"created_at"`
	Tracks    int              `json:"tracks"`
	Options   pipeline.Options `json:"options"`
}

type listSessionsResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type frameRequest struct {
	Width  int    `json:"width"`
	Height int    `json:"height"`
	// Data is the packed NV21 buffer, base64 encoded.
	Data       string           `json:"data"`
	Thresholds *zone.Thresholds `json:"thresholds"`
}

type handRequest struct {
	Handedness string         `json:"handedness"`
	Points     []hand.Point3D `json:"points"`
}

type landmarksRequest struct {
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Hands      []handRequest    `json:"hands"`
	Thresholds *zone.Thresholds `json:"thresholds"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// toSessionResponse converts an app.Session to a sessionResponse.
func toSessionResponse(s *app.Session) sessionResponse {
	return sessionResponse{
		ID:        s.ID,
		CreatedAt: s.Created.Format("2006-01-02T15:04:05Z07:00"),
		Tracks:    s.TrackCount(),
		Options:   s.Options(),
	}
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// list handles GET /api/sessions and returns all open sessions.
func (h *SessionsHandler) list(w http.ResponseWriter, r *http.Request) {
	sessions := h.app.Sessions()

	response := listSessionsResponse{
		Sessions: make([]sessionResponse, 0, len(sessions)),
	}
	for _, s := range sessions {
		response.Sessions = append(response.Sessions, toSessionResponse(s))
	}

	writeJSON(w, http.StatusOK, response)
}

// create handles POST /api/sessions and opens a new analysis session.
func (h *SessionsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	s, err := h.app.CreateSession(req.Options, req.Profile)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, toSessionResponse(s))
}

// get handles GET /api/sessions/{id} and returns a single session.
func (h *SessionsHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := h.app.Session(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(s))
}

// delete handles DELETE /api/sessions/{id} and closes a session.
func (h *SessionsHandler) delete(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.app.CloseSession(id); err != nil {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// analyzeFrame handles POST /api/sessions/{id}/frames: it runs the contour
// path on one NV21 frame and returns the result record.
func (h *SessionsHandler) analyzeFrame(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := h.app.Session(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var req frameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	data, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Frame data is not valid base64")
		return
	}

	in := pipeline.FrameInput{Data: data, Width: req.Width, Height: req.Height}
	res, err := s.AnalyzeFrame(in, req.Thresholds)
	if err != nil {
		var formatErr *vision.FormatError
		if errors.As(err, &formatErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Frame analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// analyzeLandmarks handles POST /api/sessions/{id}/landmarks: it runs the
// landmark path on one frame's detected hands and returns the result record.
func (h *SessionsHandler) analyzeLandmarks(w http.ResponseWriter, r *http.Request, id string) {
	s, ok := h.app.Session(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Session not found")
		return
	}

	var req landmarksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	in := pipeline.HandsInput{Width: req.Width, Height: req.Height}
	for _, hr := range req.Hands {
		handedness := hand.Handedness(hr.Handedness)
		if !handedness.Valid() {
			writeError(w, http.StatusBadRequest, "Handedness must be Left or Right")
			return
		}
		in.Hands = append(in.Hands, pipeline.HandInput{
			Handedness: handedness,
			Points:     hr.Points,
		})
	}

	res, err := s.AnalyzeHands(in, req.Thresholds)
	if err != nil {
		var shapeErr *hand.SkeletonShapeError
		if errors.As(err, &shapeErr) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "Landmark analysis failed")
		return
	}

	writeJSON(w, http.StatusOK, res)
}
