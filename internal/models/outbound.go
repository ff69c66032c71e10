package models

import "encoding/json"

// Outbound event names (server to client). Relay events reuse the inbound
// names (offer, answer, ice-candidate, chat-message, admin-action, ...).
const (
	EventRoomParticipants         = "room-participants"
	EventUserJoined               = "user-joined"
	EventUserLeft                 = "user-left"
	EventUserRoleUpdated          = "user-role-updated"
	EventUserMediaState           = "user-media-state"
	EventUserMediaStateChanged    = "user-media-state-changed"
	EventMessageDeleted           = "message-deleted"
	EventMessageReaction          = "message-reaction"
	EventUserScreenSharing        = "user-screen-sharing"
	EventUserStoppedScreenSharing = "user-stopped-screen-sharing"
	EventScreenShareRejected      = "screen-share-rejected"
	EventKicked                   = "kicked"
	EventHandRaised               = "hand-raised"
	EventHandLowered              = "hand-lowered"
	EventAllHandsLowered          = "all-hands-lowered"
	EventError                    = "error"
)

// ReasonAlreadySharing is sent when the screen-share slot is taken
const ReasonAlreadySharing = "already-sharing"

// Outbound is one server-to-client message. Data must be a value that is
// safe to encode from another goroutine.
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// RoomParticipantsPayload is the participant snapshot sent to a joiner
type RoomParticipantsPayload struct {
	RoomCode     string        `json:"roomCode"`
	Participants []Participant `json:"participants"`
}

type ConnectionRef struct {
	ConnectionID string `json:"connectionId"`
}

type UserLeftPayload struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
}

type RoleUpdatedPayload struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
	Role         Role   `json:"role"`
	Avatar       string `json:"avatar,omitempty"`
}

type MediaStatePayload struct {
	ConnectionID string `json:"connectionId"`
	MediaState
}

type MediaStateChangedPayload struct {
	ConnectionID string    `json:"connectionId"`
	Type         MediaKind `json:"type"`
	Enabled      bool      `json:"enabled"`
}

// SignalPayload carries negotiation data verbatim from one peer to another
type SignalPayload struct {
	From    string          `json:"from"`
	Payload json.RawMessage `json:"payload"`
}

type ChatPayload struct {
	ID           string `json:"id"`
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	Type         string `json:"type"`
	Text         string `json:"text,omitempty"`
	ImageData    string `json:"imageData,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

type MessageDeletedPayload struct {
	ID        string `json:"id"`
	DeletedBy string `json:"deletedBy"`
}

type ReactionPayload struct {
	MessageID    string `json:"messageId"`
	Emoji        string `json:"emoji"`
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

type ScreenShareRejectedPayload struct {
	Reason            string `json:"reason"`
	SharerDisplayName string `json:"sharerDisplayName"`
}

type TrackReplacedPayload struct {
	ConnectionID string `json:"connectionId"`
	TrackType    string `json:"trackType"`
}

// AdminCommandPayload asks the target's client to act on its own tracks
type AdminCommandPayload struct {
	Action          AdminActionKind `json:"action"`
	FromConnection  string          `json:"fromConnectionId"`
	FromDisplayName string          `json:"fromDisplayName"`
}

type KickedPayload struct {
	RoomCode string `json:"roomCode"`
	By       string `json:"by"`
}

type SpeakingPayload struct {
	ConnectionID string `json:"connectionId"`
	Speaking     bool   `json:"speaking"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

// NewError builds the protocol error reply
func NewError(message string) Outbound {
	return Outbound{Event: EventError, Data: ErrorPayload{Message: message}}
}
