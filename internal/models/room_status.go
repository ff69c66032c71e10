package models

import "time"

// RoomState is the lifecycle state of an in-memory room
type RoomState int

const (
	RoomStateActive RoomState = iota
	RoomStatePendingDeletion
	RoomStateDeleted
)

// String returns the string representation of a room state
func (s RoomState) String() string {
	return [...]string{"active", "pending-deletion", "deleted"}[s]
}

// MarshalText encodes the state by name
func (s RoomState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// RoomStatus represents the live state of a room for display purposes
type RoomStatus struct {
	Code             string        `json:"code"`
	State            RoomState     `json:"state"`
	ParticipantCount int           `json:"participant_count"`
	Participants     []Participant `json:"participants"`
	ScreenSharer     *ScreenSharer `json:"screen_sharer,omitempty"`
	RaisedHands      []RaisedHand  `json:"raised_hands"`
	Moderators       []string      `json:"moderators"`
}

// RoomLifecycleEvent is emitted whenever a room changes lifecycle state
type RoomLifecycleEvent struct {
	Code             string    `json:"code"`
	State            RoomState `json:"state"`
	ParticipantCount int       `json:"participant_count"`
	At               time.Time `json:"at"`
}
