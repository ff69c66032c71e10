package signaling

import (
	"slices"
	"time"

	"github.com/navikt/huddle/internal/models"
)

// room is the in-memory participant set of one room code
type room struct {
	code         string
	record       *models.RoomRecord
	participants map[string]*models.Participant
	order        []string
}

func newRoom(code string) *room {
	return &room{
		code:         code,
		participants: make(map[string]*models.Participant),
	}
}

func (r *room) add(p *models.Participant) {
	if _, exists := r.participants[p.ConnectionID]; !exists {
		r.order = append(r.order, p.ConnectionID)
	}
	r.participants[p.ConnectionID] = p
}

func (r *room) remove(connID string) *models.Participant {
	p, ok := r.participants[connID]
	if !ok {
		return nil
	}
	delete(r.participants, connID)
	for i, id := range r.order {
		if id == connID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return p
}

func (r *room) empty() bool {
	return len(r.participants) == 0
}

// snapshot returns participant copies in join order
func (r *room) snapshot() []models.Participant {
	out := make([]models.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.participants[id])
	}
	return out
}

// connection is the hub's bookkeeping for one registered Conn
type connection struct {
	conn     Conn
	roomCode string
}

func (c *connection) id() string {
	return c.conn.ID()
}

type deletionTimer struct {
	timer      *time.Timer
	generation uint64
}

// SignalingState owns every piece of mutable room state. It is only touched
// from the hub goroutine.
type SignalingState struct {
	rooms       map[string]*room
	connections map[string]*connection
	moderators  map[string]map[string]struct{}
	media       *mediaTracker
	screens     *screenShareTracker
	hands       *handTracker
	timers      map[string]*deletionTimer
	generation  uint64
}

// NewSignalingState creates an empty state aggregate
func NewSignalingState() *SignalingState {
	return &SignalingState{
		rooms:       make(map[string]*room),
		connections: make(map[string]*connection),
		moderators:  make(map[string]map[string]struct{}),
		media:       newMediaTracker(),
		screens:     newScreenShareTracker(),
		hands:       newHandTracker(),
		timers:      make(map[string]*deletionTimer),
	}
}

func (s *SignalingState) roomOrCreate(code string) *room {
	r, ok := s.rooms[code]
	if !ok {
		r = newRoom(code)
		s.rooms[code] = r
	}
	return r
}

// participant returns the participant record of a joined connection
func (s *SignalingState) participant(c *connection) *models.Participant {
	if c.roomCode == "" {
		return nil
	}
	r, ok := s.rooms[c.roomCode]
	if !ok {
		return nil
	}
	return r.participants[c.id()]
}

// peer returns a connection joined to roomCode, or nil
func (s *SignalingState) peer(roomCode, connID string) *connection {
	c, ok := s.connections[connID]
	if !ok || c.roomCode != roomCode {
		return nil
	}
	return c
}

func (s *SignalingState) isModerator(roomCode, userID string) bool {
	_, ok := s.moderators[roomCode][userID]
	return ok
}

func (s *SignalingState) setModerator(roomCode, userID string, grant bool) {
	if grant {
		set, ok := s.moderators[roomCode]
		if !ok {
			set = make(map[string]struct{})
			s.moderators[roomCode] = set
		}
		set[userID] = struct{}{}
		return
	}
	delete(s.moderators[roomCode], userID)
	if len(s.moderators[roomCode]) == 0 {
		delete(s.moderators, roomCode)
	}
}

// roleFor computes the role of userID in roomCode given the room's directory record
func (s *SignalingState) roleFor(roomCode, userID string, record *models.RoomRecord) models.Role {
	switch {
	case record.IsOwnedBy(userID):
		return models.RoleOwner
	case s.isModerator(roomCode, userID):
		return models.RoleModerator
	default:
		return models.RoleParticipant
	}
}

// purgeRoom drops all room-scoped state
func (s *SignalingState) purgeRoom(code string) {
	delete(s.rooms, code)
	delete(s.moderators, code)
	s.screens.clearRoom(code)
	s.hands.clearRoom(code)
}

func (s *SignalingState) status(r *room) models.RoomStatus {
	status := models.RoomStatus{
		Code:             r.code,
		State:            models.RoomStateActive,
		ParticipantCount: len(r.participants),
		Participants:     r.snapshot(),
		RaisedHands:      s.hands.list(r.code),
		Moderators:       []string{},
	}
	if r.empty() {
		status.State = models.RoomStatePendingDeletion
	}
	if status.RaisedHands == nil {
		status.RaisedHands = []models.RaisedHand{}
	}
	if sharer, ok := s.screens.get(r.code); ok {
		status.ScreenSharer = &sharer
	}
	for userID := range s.moderators[r.code] {
		status.Moderators = append(status.Moderators, userID)
	}
	slices.Sort(status.Moderators)
	return status
}
