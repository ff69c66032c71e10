package signaling

import "github.com/navikt/huddle/internal/models"

// screenShareTracker holds the single screen-share slot of each room
type screenShareTracker struct {
	slots map[string]models.ScreenSharer
}

func newScreenShareTracker() *screenShareTracker {
	return &screenShareTracker{slots: make(map[string]models.ScreenSharer)}
}

// start claims the slot for sharer. When another connection holds it the
// current holder is returned with ok set to false.
func (s *screenShareTracker) start(roomCode string, sharer models.ScreenSharer) (models.ScreenSharer, bool) {
	if current, taken := s.slots[roomCode]; taken && current.ConnectionID != sharer.ConnectionID {
		return current, false
	}
	s.slots[roomCode] = sharer
	return sharer, true
}

// stop frees the slot if connID holds it and reports whether it did
func (s *screenShareTracker) stop(roomCode, connID string) bool {
	if current, taken := s.slots[roomCode]; taken && current.ConnectionID == connID {
		delete(s.slots, roomCode)
		return true
	}
	return false
}

func (s *screenShareTracker) get(roomCode string) (models.ScreenSharer, bool) {
	sharer, ok := s.slots[roomCode]
	return sharer, ok
}

func (s *screenShareTracker) holds(roomCode, connID string) bool {
	sharer, ok := s.slots[roomCode]
	return ok && sharer.ConnectionID == connID
}

func (s *screenShareTracker) clearRoom(roomCode string) {
	delete(s.slots, roomCode)
}
