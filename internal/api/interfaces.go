package api

import (
	"context"

	"github.com/navikt/huddle/internal/service"
)

// RoomServicer defines the room service operations needed by API handlers
type RoomServicer interface {
	ListRooms(ctx context.Context) ([]service.RoomStatusData, error)
	GetRoom(ctx context.Context, code string) (*service.RoomStatusData, error)
}

// ReadinessChecker reports whether the signaling hub is accepting work
type ReadinessChecker interface {
	Running() bool
}
