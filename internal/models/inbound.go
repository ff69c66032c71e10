package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Inbound event names (client to server)
const (
	EventJoinRoom           = "join-room"
	EventOffer              = "offer"
	EventAnswer             = "answer"
	EventICECandidate       = "ice-candidate"
	EventChatMessage        = "chat-message"
	EventDeleteMessage      = "delete-message"
	EventReactToMessage     = "react-to-message"
	EventScreenShareStarted = "screen-share-started"
	EventScreenShareStopped = "screen-share-stopped"
	EventTrackReplaced      = "track-replaced"
	EventAdminAction        = "admin-action"
	EventSetModerator       = "set-moderator"
	EventMediaStateChange   = "media-state-change"
	EventRaiseHand          = "raise-hand"
	EventLowerHand          = "lower-hand"
	EventClearAllHands      = "clear-all-hands"
	EventSpeakingState      = "speaking-state"
)

var (
	// ErrUnknownEvent is returned for event names outside the protocol
	ErrUnknownEvent = errors.New("unknown event")
	// ErrInvalidPayload is returned when a known event is missing required fields
	ErrInvalidPayload = errors.New("invalid payload")
)

// Envelope is the framing shared by every message on the wire
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// InboundEvent is one variant of the client-to-server protocol
type InboundEvent interface {
	EventName() string
}

// JoinRoom asks to enter a room
type JoinRoom struct {
	RoomCode          string
	InitialMediaState *MediaState
}

// Signal is an opaque WebRTC negotiation message for one peer
type Signal struct {
	Kind    string
	To      string
	Payload json.RawMessage
}

// ChatMessage is either a text message or an image message
type ChatMessage struct {
	Text      string
	Type      string
	ImageData string
}

type DeleteMessage struct {
	ID string
}

type ReactToMessage struct {
	MessageID string
	Emoji     string
}

type ScreenShareStarted struct{}

type ScreenShareStopped struct{}

type TrackReplaced struct {
	TrackType string
}

// AdminActionKind is a moderation command
type AdminActionKind string

const (
	AdminMuteMic      AdminActionKind = "mute-mic"
	AdminToggleCamera AdminActionKind = "toggle-camera"
	AdminKick         AdminActionKind = "kick"
)

type AdminAction struct {
	TargetConnectionID string
	Action             AdminActionKind
}

type SetModerator struct {
	TargetUserID string
	Grant        bool
}

type MediaStateChange struct {
	Type    MediaKind
	Enabled bool
}

type RaiseHand struct{}

type LowerHand struct{}

type ClearAllHands struct{}

type SpeakingState struct {
	Speaking bool
}

func (JoinRoom) EventName() string { return EventJoinRoom }
func (s Signal) EventName() string { return s.Kind }
func (ChatMessage) EventName() string { return EventChatMessage }
func (DeleteMessage) EventName() string { return EventDeleteMessage }
func (ReactToMessage) EventName() string { return EventReactToMessage }
func (ScreenShareStarted) EventName() string { return EventScreenShareStarted }
func (ScreenShareStopped) EventName() string { return EventScreenShareStopped }
func (TrackReplaced) EventName() string { return EventTrackReplaced }
func (AdminAction) EventName() string { return EventAdminAction }
func (SetModerator) EventName() string { return EventSetModerator }
func (MediaStateChange) EventName() string { return EventMediaStateChange }
func (RaiseHand) EventName() string { return EventRaiseHand }
func (LowerHand) EventName() string { return EventLowerHand }
func (ClearAllHands) EventName() string { return EventClearAllHands }
func (SpeakingState) EventName() string { return EventSpeakingState }

// DecodeInbound parses one wire message into its protocol variant.
// Unknown events and payloads missing required fields are rejected here so
// handlers never see a partially filled event.
func DecodeInbound(raw []byte) (InboundEvent, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	switch env.Event {
	case EventJoinRoom:
		var p struct {
			RoomCode          string          `json:"roomCode"`
			InitialMediaState json.RawMessage `json:"initialMediaState"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		code := strings.TrimSpace(p.RoomCode)
		if code == "" {
			return nil, missing(env.Event, "roomCode")
		}
		join := JoinRoom{RoomCode: code}
		if len(p.InitialMediaState) > 0 && string(p.InitialMediaState) != "null" {
			// Flags the client leaves out keep their defaults
			state := DefaultMediaState()
			if err := json.Unmarshal(p.InitialMediaState, &state); err != nil {
				return nil, fmt.Errorf("%w: %s: initialMediaState: %v", ErrInvalidPayload, env.Event, err)
			}
			join.InitialMediaState = &state
		}
		return join, nil

	case EventOffer, EventAnswer, EventICECandidate:
		var p struct {
			Payload json.RawMessage `json:"payload"`
			To      string          `json:"to"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if p.To == "" {
			return nil, missing(env.Event, "to")
		}
		if len(p.Payload) == 0 {
			return nil, missing(env.Event, "payload")
		}
		return Signal{Kind: env.Event, To: p.To, Payload: p.Payload}, nil

	case EventChatMessage:
		var p struct {
			Text      string `json:"text"`
			Type      string `json:"type"`
			ImageData string `json:"imageData"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if p.Type == "image" {
			if p.ImageData == "" {
				return nil, missing(env.Event, "imageData")
			}
			return ChatMessage{Type: "image", ImageData: p.ImageData, Text: p.Text}, nil
		}
		if strings.TrimSpace(p.Text) == "" {
			return nil, missing(env.Event, "text")
		}
		return ChatMessage{Type: "text", Text: p.Text}, nil

	case EventDeleteMessage:
		var p struct {
			ID string `json:"id"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if p.ID == "" {
			return nil, missing(env.Event, "id")
		}
		return DeleteMessage{ID: p.ID}, nil

	case EventReactToMessage:
		var p struct {
			MessageID string `json:"messageId"`
			Emoji     string `json:"emoji"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if p.MessageID == "" {
			return nil, missing(env.Event, "messageId")
		}
		if p.Emoji == "" {
			return nil, missing(env.Event, "emoji")
		}
		return ReactToMessage{MessageID: p.MessageID, Emoji: p.Emoji}, nil

	case EventScreenShareStarted:
		return ScreenShareStarted{}, nil
	case EventScreenShareStopped:
		return ScreenShareStopped{}, nil

	case EventTrackReplaced:
		var p struct {
			TrackType string `json:"trackType"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if p.TrackType == "" {
			return nil, missing(env.Event, "trackType")
		}
		return TrackReplaced{TrackType: p.TrackType}, nil

	case EventAdminAction:
		var p struct {
			TargetConnectionID string          `json:"targetConnectionId"`
			Action             AdminActionKind `json:"action"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if p.TargetConnectionID == "" {
			return nil, missing(env.Event, "targetConnectionId")
		}
		switch p.Action {
		case AdminMuteMic, AdminToggleCamera, AdminKick:
		default:
			return nil, fmt.Errorf("%w: %s: unsupported action %q", ErrInvalidPayload, env.Event, p.Action)
		}
		return AdminAction{TargetConnectionID: p.TargetConnectionID, Action: p.Action}, nil

	case EventSetModerator:
		var p struct {
			TargetUserID string `json:"targetUserId"`
			Grant        *bool  `json:"grant"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if p.TargetUserID == "" {
			return nil, missing(env.Event, "targetUserId")
		}
		if p.Grant == nil {
			return nil, missing(env.Event, "grant")
		}
		return SetModerator{TargetUserID: p.TargetUserID, Grant: *p.Grant}, nil

	case EventMediaStateChange:
		var p struct {
			Type    MediaKind `json:"type"`
			Enabled *bool     `json:"enabled"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if !p.Type.Valid() {
			return nil, fmt.Errorf("%w: %s: unsupported type %q", ErrInvalidPayload, env.Event, p.Type)
		}
		if p.Enabled == nil {
			return nil, missing(env.Event, "enabled")
		}
		return MediaStateChange{Type: p.Type, Enabled: *p.Enabled}, nil

	case EventRaiseHand:
		return RaiseHand{}, nil
	case EventLowerHand:
		return LowerHand{}, nil
	case EventClearAllHands:
		return ClearAllHands{}, nil

	case EventSpeakingState:
		var p struct {
			Speaking *bool `json:"speaking"`
		}
		if err := decodeData(env, &p); err != nil {
			return nil, err
		}
		if p.Speaking == nil {
			return nil, missing(env.Event, "speaking")
		}
		return SpeakingState{Speaking: *p.Speaking}, nil

	case "":
		return nil, fmt.Errorf("%w: missing event name", ErrInvalidPayload)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, env.Event)
	}
}

func decodeData(env Envelope, v any) error {
	if len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidPayload, env.Event, err)
	}
	return nil
}

func missing(event, field string) error {
	return fmt.Errorf("%w: %s: %s is required", ErrInvalidPayload, event, field)
}
