package signaling

import (
	"context"

	"github.com/navikt/huddle/internal/models"
	"github.com/navikt/huddle/internal/utils"
)

// join adds c to the requested room, sends the current room state to it and
// starts resolving its role
func (h *Hub) join(c *connection, ev models.JoinRoom) {
	code := ev.RoomCode

	if c.roomCode == code {
		if r, ok := h.state.rooms[code]; ok {
			h.sendSnapshot(c, r)
			return
		}
	}
	if c.roomCode != "" {
		h.leave(c)
	}

	h.cancelDeletion(code)
	r := h.state.roomOrCreate(code)

	identity := c.conn.Identity()
	participant := &models.Participant{
		ConnectionID: c.id(),
		UserID:       identity.UserID,
		DisplayName:  identity.DisplayName,
		Role:         models.RoleParticipant,
		IsGuest:      identity.IsGuest,
	}
	r.add(participant)
	c.roomCode = code
	media := h.state.media.init(c.id(), ev.InitialMediaState)

	h.broadcast(code, models.Outbound{Event: models.EventUserJoined, Data: *participant}, c.id())
	h.broadcast(code, models.Outbound{
		Event: models.EventUserMediaState,
		Data:  models.MediaStatePayload{ConnectionID: c.id(), MediaState: media},
	}, c.id())
	h.sendSnapshot(c, r)

	h.logger.Info().
		Str("room", utils.SanitizeLogString(code)).
		Str("conn", c.id()).
		Int("participants", len(r.participants)).
		Msg("participant joined")
	h.notifyLifecycle(code, models.RoomStateActive, len(r.participants))

	h.resolveRole(code, c.id(), identity)
}

// sendSnapshot brings a joiner up to date: participants, other peers' media
// state, the active screen sharer and the raised-hand queue
func (h *Hub) sendSnapshot(c *connection, r *room) {
	h.send(c, models.Outbound{
		Event: models.EventRoomParticipants,
		Data:  models.RoomParticipantsPayload{RoomCode: r.code, Participants: r.snapshot()},
	})

	for _, id := range r.order {
		if id == c.id() {
			continue
		}
		h.send(c, models.Outbound{
			Event: models.EventUserMediaState,
			Data:  models.MediaStatePayload{ConnectionID: id, MediaState: h.state.media.get(id)},
		})
	}

	if sharer, ok := h.state.screens.get(r.code); ok {
		h.send(c, models.Outbound{Event: models.EventUserScreenSharing, Data: sharer})
	}
	for _, hand := range h.state.hands.list(r.code) {
		h.send(c, models.Outbound{Event: models.EventHandRaised, Data: hand})
	}
}

// resolveRole looks up room ownership and the user's profile off the hub
// goroutine and applies the result as a new task. Lookup failures degrade to
// the participant role without an avatar.
func (h *Hub) resolveRole(code, connID string, identity models.Identity) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.cfg.LookupTimeout)
		defer cancel()

		var avatar string

		record, err := h.directory.LookupRoomByCode(ctx, code)
		if err != nil {
			h.logger.Warn().Err(err).Str("room", utils.SanitizeLogString(code)).Msg("room lookup failed")
			record = nil
		}

		if !identity.IsGuest {
			profile, err := h.directory.LookupUserProfile(ctx, identity.UserID)
			if err != nil {
				h.logger.Warn().Err(err).Str("user", utils.SanitizeLogString(identity.UserID)).Msg("profile lookup failed")
			} else if profile != nil {
				avatar = profile.Avatar
			}
		}

		h.enqueue(func() {
			h.applyRole(code, connID, record, avatar)
		})
	}()
}

func (h *Hub) applyRole(code, connID string, record *models.RoomRecord, avatar string) {
	r, ok := h.state.rooms[code]
	if !ok {
		return
	}
	p, ok := r.participants[connID]
	if !ok {
		return
	}

	if record != nil {
		r.record = record
	}
	p.Role = h.state.roleFor(code, p.UserID, r.record)
	if avatar != "" {
		p.Avatar = avatar
	}

	h.broadcastAll(code, roleUpdated(p))
}

func roleUpdated(p *models.Participant) models.Outbound {
	return models.Outbound{
		Event: models.EventUserRoleUpdated,
		Data: models.RoleUpdatedPayload{
			ConnectionID: p.ConnectionID,
			UserID:       p.UserID,
			Role:         p.Role,
			Avatar:       p.Avatar,
		},
	}
}

// leave removes c from its room and releases everything it held
func (h *Hub) leave(c *connection) {
	code := c.roomCode
	if code == "" {
		return
	}
	c.roomCode = ""
	h.state.media.clear(c.id())

	r, ok := h.state.rooms[code]
	if !ok {
		return
	}
	p := r.remove(c.id())
	if p == nil {
		return
	}

	if h.state.screens.stop(code, c.id()) {
		h.broadcastAll(code, models.Outbound{
			Event: models.EventUserStoppedScreenSharing,
			Data:  models.ConnectionRef{ConnectionID: c.id()},
		})
	}
	if h.state.hands.lower(code, c.id()) {
		h.broadcastHandsAfterLower(code, c.id())
	}

	h.broadcastAll(code, models.Outbound{
		Event: models.EventUserLeft,
		Data: models.UserLeftPayload{
			ConnectionID: p.ConnectionID,
			UserID:       p.UserID,
			DisplayName:  p.DisplayName,
		},
	})

	h.logger.Info().
		Str("room", utils.SanitizeLogString(code)).
		Str("conn", c.id()).
		Int("participants", len(r.participants)).
		Msg("participant left")

	if r.empty() {
		h.armDeletion(code)
		h.notifyLifecycle(code, models.RoomStatePendingDeletion, 0)
		return
	}
	h.notifyLifecycle(code, models.RoomStateActive, len(r.participants))
}

// setModerator grants or revokes moderator for targetUserID and updates every
// live participant of that user. Owners keep their role.
func (h *Hub) setModerator(c *connection, ev models.SetModerator) {
	code := c.roomCode
	h.state.setModerator(code, ev.TargetUserID, ev.Grant)

	r := h.state.rooms[code]
	for _, id := range r.order {
		p := r.participants[id]
		if p.UserID != ev.TargetUserID || p.Role == models.RoleOwner {
			continue
		}
		role := h.state.roleFor(code, p.UserID, r.record)
		if role == p.Role {
			continue
		}
		p.Role = role
		h.broadcastAll(code, roleUpdated(p))
	}

	h.logger.Info().
		Str("room", utils.SanitizeLogString(code)).
		Str("target", utils.SanitizeLogString(ev.TargetUserID)).
		Bool("grant", ev.Grant).
		Msg("moderator updated")
}
