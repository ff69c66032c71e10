package signaling

import (
	"slices"

	"github.com/navikt/huddle/internal/models"
)

// handTracker keeps each room's raised hands ranked 1..N by raise time
type handTracker struct {
	queues map[string][]models.RaisedHand
}

func newHandTracker() *handTracker {
	return &handTracker{queues: make(map[string][]models.RaisedHand)}
}

// raise appends a hand at the back of the queue. Raising twice is a no-op
// and returns false.
func (h *handTracker) raise(roomCode, connID, displayName string, timestamp int64) (models.RaisedHand, bool) {
	queue := h.queues[roomCode]
	for _, hand := range queue {
		if hand.ConnectionID == connID {
			return hand, false
		}
	}

	hand := models.RaisedHand{
		ConnectionID: connID,
		DisplayName:  displayName,
		Order:        len(queue) + 1,
		Timestamp:    timestamp,
	}
	h.queues[roomCode] = append(queue, hand)
	return hand, true
}

// lower removes connID's hand and re-ranks the rest. It reports whether a
// hand was removed.
func (h *handTracker) lower(roomCode, connID string) bool {
	queue := h.queues[roomCode]
	idx := slices.IndexFunc(queue, func(hand models.RaisedHand) bool {
		return hand.ConnectionID == connID
	})
	if idx < 0 {
		return false
	}

	queue = slices.Delete(queue, idx, idx+1)
	if len(queue) == 0 {
		delete(h.queues, roomCode)
		return true
	}

	slices.SortStableFunc(queue, func(a, b models.RaisedHand) int {
		switch {
		case a.Timestamp < b.Timestamp:
			return -1
		case a.Timestamp > b.Timestamp:
			return 1
		}
		return 0
	})
	for i := range queue {
		queue[i].Order = i + 1
	}
	h.queues[roomCode] = queue
	return true
}

// list returns a copy of the room's queue in rank order
func (h *handTracker) list(roomCode string) []models.RaisedHand {
	return slices.Clone(h.queues[roomCode])
}

func (h *handTracker) clearRoom(roomCode string) {
	delete(h.queues, roomCode)
}
