package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/mudra/internal/zone"
)

// CalibrateHandler derives zone thresholds from sampled candidate areas.
type CalibrateHandler struct{}

// NewCalibrateHandler creates a new CalibrateHandler.
func NewCalibrateHandler() *CalibrateHandler {
	return &CalibrateHandler{}
}

// Request and response types

type calibrateRequest struct {
	// Samples are candidate areas recorded while a hand was held at good
	// distance, in pixels.
	Samples []float64              `json:"samples"`
	Options *zone.CalibrateOptions `json:"options"`
}

type calibrateResponse struct {
	Thresholds zone.Thresholds `json:"thresholds"`
}

// ServeHTTP handles POST /api/calibrate.
func (h *CalibrateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req calibrateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	opts := zone.DefaultCalibrateOptions()
	if req.Options != nil {
		opts = *req.Options
	}

	thresholds, err := zone.Calibrate(req.Samples, opts)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, calibrateResponse{Thresholds: thresholds})
}
