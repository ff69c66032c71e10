// Package memory provides an in-memory implementation of the room directory
package memory

import (
	"context"
	"sync"

	"github.com/navikt/huddle/internal/models"
)

// Repository implements the room directory with in-memory storage
type Repository struct {
	rooms    map[string]models.RoomRecord
	profiles map[string]models.UserProfile
	mu       sync.RWMutex
}

// NewRepository creates a new in-memory repository
func NewRepository() *Repository {
	return &Repository{
		rooms:    make(map[string]models.RoomRecord),
		profiles: make(map[string]models.UserProfile),
	}
}

// SaveRoom stores or replaces a room record
func (r *Repository) SaveRoom(ctx context.Context, room *models.RoomRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rooms[room.Code] = *room
	return nil
}

// LookupRoomByCode returns a copy of the stored room, or nil if unknown
func (r *Repository) LookupRoomByCode(ctx context.Context, code string) (*models.RoomRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	room, ok := r.rooms[code]
	if !ok {
		return nil, nil
	}
	return &room, nil
}

// DeleteRoomRecord removes a room record
func (r *Repository) DeleteRoomRecord(ctx context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.rooms, code)
	return nil
}

// SaveUserProfile stores or replaces a profile
func (r *Repository) SaveUserProfile(ctx context.Context, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.profiles[profile.UserID] = *profile
	return nil
}

// LookupUserProfile returns a copy of the stored profile, or nil if unknown
func (r *Repository) LookupUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profile, ok := r.profiles[userID]
	if !ok {
		return nil, nil
	}
	return &profile, nil
}
