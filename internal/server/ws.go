package server

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/hand"
	"github.com/ayusman/mudra/internal/pipeline"
	"github.com/ayusman/mudra/internal/zone"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// streamMessage is one inbound analysis request on a session stream. Type
// selects the path: "frame" carries a base64 NV21 buffer, "landmarks"
// carries detected hands.
type streamMessage struct {
	Type       string           `json:"type"`
	Width      int              `json:"width"`
	Height     int              `json:"height"`
	Data       string           `json:"data"`
	Hands      []streamHand     `json:"hands"`
	Thresholds *zone.Thresholds `json:"thresholds"`
}

type streamHand struct {
	Handedness string         `json:"handedness"`
	Points     []hand.Point3D `json:"points"`
}

// StreamHandler serves the per-session WebSocket stream: clients push frames
// or landmarks through the session mailbox and receive every result record
// the session emits. Submissions that pile up behind a slow analysis are
// replaced by newer ones, so the stream never backs up.
type StreamHandler struct {
	app *app.App
}

// NewStreamHandler creates a new StreamHandler with the given app.
func NewStreamHandler(a *app.App) *StreamHandler {
	return &StreamHandler{app: a}
}

// ServeHTTP handles WebSocket upgrade requests.
// Expected paths: /api/sessions/{id}/stream
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/sessions/")
	parts := strings.Split(path, "/")

	if len(parts) != 2 || parts[1] != "stream" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	session, ok := h.app.Session(parts[0])
	if !ok {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	results := session.Subscribe()

	// Single writer: the result fan-out owns the connection's write side.
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for res := range results {
			if err := conn.WriteJSON(res); err != nil {
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			break
		}

		var msg streamMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			log.Printf("Session %s stream: malformed message: %v", session.ID, err)
			continue
		}

		switch msg.Type {
		case "frame":
			buf, err := base64.StdEncoding.DecodeString(msg.Data)
			if err != nil {
				log.Printf("Session %s stream: bad frame data: %v", session.ID, err)
				continue
			}
			session.SubmitFrame(pipeline.FrameInput{
				Data:   buf,
				Width:  msg.Width,
				Height: msg.Height,
			}, msg.Thresholds)

		case "landmarks":
			in, err := toHandsInput(msg)
			if err != nil {
				log.Printf("Session %s stream: %v", session.ID, err)
				continue
			}
			session.SubmitHands(in, msg.Thresholds)

		default:
			log.Printf("Session %s stream: unknown message type %q", session.ID, msg.Type)
		}
	}

	// Unsubscribing closes the results channel and stops the writer.
	session.Unsubscribe(results)
	<-writerDone
}

// toHandsInput converts a landmarks stream message into pipeline input.
func toHandsInput(msg streamMessage) (pipeline.HandsInput, error) {
	in := pipeline.HandsInput{Width: msg.Width, Height: msg.Height}
	for _, sh := range msg.Hands {
		handedness := hand.Handedness(sh.Handedness)
		if !handedness.Valid() {
			return pipeline.HandsInput{}, &badHandednessError{Label: sh.Handedness}
		}
		in.Hands = append(in.Hands, pipeline.HandInput{
			Handedness: handedness,
			Points:     sh.Points,
		})
	}
	return in, nil
}

type badHandednessError struct {
	Label string
}

func (e *badHandednessError) Error() string {
	return "handedness must be Left or Right, got " + e.Label
}
