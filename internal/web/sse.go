package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/navikt/huddle/internal/models"
	"github.com/r3labs/sse/v2"
	"github.com/rs/zerolog/log"
)

// RoomsStream is the SSE stream carrying room lifecycle events
const RoomsStream = "rooms"

// EventRoomLifecycle is the SSE event name of a lifecycle transition
const EventRoomLifecycle = "room-lifecycle"

// LifecycleStream publishes room lifecycle transitions to operators over SSE
type LifecycleStream struct {
	server *sse.Server
}

// NewLifecycleStream creates the SSE server with the rooms stream
func NewLifecycleStream() *LifecycleStream {
	server := sse.New()
	server.AutoReplay = false
	server.AutoStream = false
	server.Headers = map[string]string{
		"X-Accel-Buffering":      "no", // Disable nginx proxy buffering
		"X-Content-Type-Options": "nosniff",
	}
	server.CreateStream(RoomsStream)

	return &LifecycleStream{server: server}
}

// Publish sends one lifecycle event to every subscriber
func (s *LifecycleStream) Publish(event models.RoomLifecycleEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Str("module", "web").Msg("failed to encode lifecycle event")
		return
	}

	s.server.Publish(RoomsStream, &sse.Event{
		ID:    []byte(strconv.FormatInt(event.At.UnixNano(), 10)),
		Event: []byte(EventRoomLifecycle),
		Data:  data,
	})
}

// ServeHTTP subscribes the caller. The stream defaults to rooms; any other
// stream is not found.
func (s *LifecycleStream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

	// Handle CORS preflight
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}

	switch r.URL.Query().Get("stream") {
	case RoomsStream:
	case "":
		r = r.Clone(r.Context())
		query := r.URL.Query()
		query.Set("stream", RoomsStream)
		r.URL.RawQuery = query.Encode()
	default:
		http.NotFound(w, r)
		return
	}

	log.Debug().Str("module", "web").Str("remote", r.RemoteAddr).Msg("SSE client connected")
	s.server.ServeHTTP(w, r)
}

// Close disconnects all subscribers
func (s *LifecycleStream) Close() {
	s.server.Close()
}
