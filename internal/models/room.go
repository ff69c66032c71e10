package models

import "time"

// RoomRecord is the persisted room as known to the room directory
type RoomRecord struct {
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
}

// IsOwnedBy returns true if userID created the room
func (r *RoomRecord) IsOwnedBy(userID string) bool {
	return r != nil && r.OwnerID != "" && r.OwnerID == userID
}

// UserProfile is the public profile of an account
type UserProfile struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar,omitempty"`
}
