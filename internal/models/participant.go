package models

// Role is a participant's permission level inside a room
type Role string

const (
	RoleOwner       Role = "owner"
	RoleModerator   Role = "moderator"
	RoleParticipant Role = "participant"
)

// CanModerate reports whether the role may run moderation actions
func (r Role) CanModerate() bool {
	return r == RoleOwner || r == RoleModerator
}

// Identity is what the authenticator attaches to a connection
type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	IsGuest     bool   `json:"isGuest"`
}

// Participant is one connection's presence inside one room
type Participant struct {
	ConnectionID string `json:"connectionId"`
	UserID       string `json:"userId"`
	DisplayName  string `json:"displayName"`
	Avatar       string `json:"avatar,omitempty"`
	Role         Role   `json:"role"`
	IsGuest      bool   `json:"isGuest,omitempty"`
}

// MediaKind names one of the two advertised media tracks
type MediaKind string

const (
	MediaAudio MediaKind = "audio"
	MediaVideo MediaKind = "video"
)

// Valid reports whether k is a known media kind
func (k MediaKind) Valid() bool {
	return k == MediaAudio || k == MediaVideo
}

// MediaState is the sender-reported enablement of a connection's tracks
type MediaState struct {
	Audio bool `json:"audio"`
	Video bool `json:"video"`
}

// DefaultMediaState is assumed until a client says otherwise
func DefaultMediaState() MediaState {
	return MediaState{Audio: true, Video: true}
}

// With returns a copy of s with one track toggled
func (s MediaState) With(kind MediaKind, enabled bool) MediaState {
	switch kind {
	case MediaAudio:
		s.Audio = enabled
	case MediaVideo:
		s.Video = enabled
	}
	return s
}

// ScreenSharer occupies a room's single screen-share slot
type ScreenSharer struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
}

// RaisedHand is one entry of a room's raised-hand queue.
// Timestamp is in Unix milliseconds.
type RaisedHand struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"displayName"`
	Order        int    `json:"order"`
	Timestamp    int64  `json:"timestamp"`
}
