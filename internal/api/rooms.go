package api

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/navikt/huddle/internal/service"
	"github.com/navikt/huddle/internal/utils"
	"github.com/rs/zerolog/log"
)

// RoomHandler handles HTTP requests for live room status
type RoomHandler struct {
	rooms RoomServicer
}

// NewRoomHandler creates a new room handler with the given service
func NewRoomHandler(rooms RoomServicer) *RoomHandler {
	return &RoomHandler{
		rooms: rooms,
	}
}

// ListRooms handles GET /api/rooms
func (h *RoomHandler) ListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListRooms(r.Context())
	if err != nil {
		log.Error().Err(err).Str("module", "api").Msg("error listing rooms")
		http.Error(w, "Error retrieving rooms", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, rooms)
}

// GetRoom handles GET /api/rooms/{code}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	room, err := h.rooms.GetRoom(r.Context(), code)
	if errors.Is(err, service.ErrRoomNotFound) {
		http.Error(w, "Room not found", http.StatusNotFound)
		return
	}
	if err != nil {
		log.Error().Err(err).Str("module", "api").Str("room", utils.SanitizeLogString(code)).Msg("error getting room")
		http.Error(w, "Error retrieving room", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, room)
}
