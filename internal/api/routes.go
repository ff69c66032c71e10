package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/navikt/huddle/internal/config"
	"github.com/navikt/huddle/internal/web"
)

// Dependencies are the components the HTTP surface is built from
type Dependencies struct {
	Rooms     RoomServicer
	Readiness ReadinessChecker
	Operator  *web.OperatorAuth
	ICE       config.ICEConfig
	WebSocket http.Handler
	Events    http.Handler
}

// SetupRoutes configures the HTTP routes for the API
func SetupRoutes(deps Dependencies) *mux.Router {
	router := mux.NewRouter()

	// Health check endpoints for Kubernetes
	router.HandleFunc("/health/live", HealthLiveHandler).Methods(http.MethodGet)
	router.HandleFunc("/health/ready", HealthReadyHandler(deps.Readiness)).Methods(http.MethodGet)

	// Signaling channel
	if deps.WebSocket != nil {
		router.Handle("/ws", deps.WebSocket).Methods(http.MethodGet)
	}

	// Room lifecycle stream
	if deps.Events != nil {
		router.Handle("/events", deps.Events).Methods(http.MethodGet, http.MethodOptions)
	}

	router.HandleFunc("/api/ice-servers", ICEServersHandler(deps.ICE)).Methods(http.MethodGet)

	// Operator endpoints
	operator := deps.Operator
	if operator == nil {
		operator = web.NewOperatorAuth("")
	}
	roomHandler := NewRoomHandler(deps.Rooms)
	router.HandleFunc("/api/rooms", operator.RequireAuth(roomHandler.ListRooms)).Methods(http.MethodGet)
	router.HandleFunc("/api/rooms/{code}", operator.RequireAuth(roomHandler.GetRoom)).Methods(http.MethodGet)

	return router
}
