package signaling

import (
	"context"
	"time"

	"github.com/navikt/huddle/internal/models"
	"github.com/navikt/huddle/internal/utils"
)

// DefaultDeletionDelay is how long a room must stay empty before it is deleted
const DefaultDeletionDelay = 5 * time.Minute

// armDeletion schedules deletion of an empty room, replacing any pending timer
func (h *Hub) armDeletion(code string) {
	h.cancelDeletion(code)

	h.state.generation++
	generation := h.state.generation
	timer := time.AfterFunc(h.cfg.DeletionDelay, func() {
		h.enqueue(func() {
			h.fireDeletion(code, generation)
		})
	})
	h.state.timers[code] = &deletionTimer{timer: timer, generation: generation}

	h.logger.Debug().
		Str("room", utils.SanitizeLogString(code)).
		Dur("delay", h.cfg.DeletionDelay).
		Msg("room deletion scheduled")
}

// cancelDeletion stops a pending timer. Cancelling twice, or after the timer
// fired, does nothing.
func (h *Hub) cancelDeletion(code string) {
	t, ok := h.state.timers[code]
	if !ok {
		return
	}
	t.timer.Stop()
	delete(h.state.timers, code)
	h.logger.Debug().Str("room", utils.SanitizeLogString(code)).Msg("room deletion cancelled")
}

// fireDeletion purges the room if the timer is still current and the room is
// still empty, then removes the persistent record
func (h *Hub) fireDeletion(code string, generation uint64) {
	t, ok := h.state.timers[code]
	if !ok || t.generation != generation {
		return
	}
	delete(h.state.timers, code)

	if r, ok := h.state.rooms[code]; ok && !r.empty() {
		return
	}

	h.state.purgeRoom(code)
	h.logger.Info().Str("room", utils.SanitizeLogString(code)).Msg("room deleted")
	h.notifyLifecycle(code, models.RoomStateDeleted, 0)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.cfg.LookupTimeout)
		defer cancel()
		if err := h.directory.DeleteRoomRecord(ctx, code); err != nil {
			h.logger.Error().Err(err).Str("room", utils.SanitizeLogString(code)).Msg("failed to delete room record")
		}
	}()
}
