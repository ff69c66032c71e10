// Package repository defines the room directory used by the signaling core
package repository

import (
	"context"

	"github.com/navikt/huddle/internal/models"
)

// RoomDirectory is the persistent store of rooms and user profiles.
// Lookups return a nil record and a nil error when nothing is stored
// under the key; deleting a missing room is not an error.
type RoomDirectory interface {
	// Room operations
	LookupRoomByCode(ctx context.Context, code string) (*models.RoomRecord, error)
	SaveRoom(ctx context.Context, room *models.RoomRecord) error
	DeleteRoomRecord(ctx context.Context, code string) error

	// Profile operations
	LookupUserProfile(ctx context.Context, userID string) (*models.UserProfile, error)
	SaveUserProfile(ctx context.Context, profile *models.UserProfile) error
}
