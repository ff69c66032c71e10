package signaling

import (
	"fmt"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/navikt/huddle/internal/models"
	"github.com/navikt/huddle/internal/utils"
)

// policy is the precondition of one inbound event
type policy struct {
	joined  bool
	allowed func(role models.Role, ev models.InboundEvent) bool
}

func moderatorOnly(role models.Role, _ models.InboundEvent) bool {
	return role.CanModerate()
}

func ownerOnly(role models.Role, _ models.InboundEvent) bool {
	return role == models.RoleOwner
}

// camera control is reserved for the owner; other admin actions are open to moderators
func adminActionAllowed(role models.Role, ev models.InboundEvent) bool {
	action, ok := ev.(models.AdminAction)
	if !ok {
		return false
	}
	if action.Action == models.AdminToggleCamera {
		return role == models.RoleOwner
	}
	return role.CanModerate()
}

var policies = map[string]policy{
	models.EventJoinRoom:           {},
	models.EventOffer:              {joined: true},
	models.EventAnswer:             {joined: true},
	models.EventICECandidate:       {joined: true},
	models.EventChatMessage:        {joined: true},
	models.EventDeleteMessage:      {joined: true, allowed: moderatorOnly},
	models.EventReactToMessage:     {joined: true},
	models.EventScreenShareStarted: {joined: true},
	models.EventScreenShareStopped: {joined: true},
	models.EventTrackReplaced:      {joined: true},
	models.EventAdminAction:        {joined: true, allowed: adminActionAllowed},
	models.EventSetModerator:       {joined: true, allowed: ownerOnly},
	models.EventMediaStateChange:   {joined: true},
	models.EventRaiseHand:          {joined: true},
	models.EventLowerHand:          {joined: true},
	models.EventClearAllHands:      {joined: true, allowed: moderatorOnly},
	models.EventSpeakingState:      {joined: true},
}

// route checks the event's policy and runs its handler. Denied moderation
// events are dropped without a reply.
func (h *Hub) route(c *connection, ev models.InboundEvent) {
	name := ev.EventName()
	pol, ok := policies[name]
	if !ok {
		h.send(c, models.NewError(fmt.Sprintf("unknown event %q", name)))
		return
	}

	var p *models.Participant
	if pol.joined {
		p = h.state.participant(c)
		if p == nil {
			h.send(c, models.NewError("join a room first"))
			return
		}
	}
	if pol.allowed != nil && !pol.allowed(p.Role, ev) {
		h.logger.Debug().Str("conn", c.id()).Str("event", name).Str("role", string(p.Role)).Msg("event denied")
		return
	}

	switch e := ev.(type) {
	case models.JoinRoom:
		h.join(c, e)
	case models.Signal:
		h.relaySignal(c, e)
	case models.ChatMessage:
		h.chat(c, p, e)
	case models.DeleteMessage:
		h.broadcastAll(c.roomCode, models.Outbound{
			Event: models.EventMessageDeleted,
			Data:  models.MessageDeletedPayload{ID: e.ID, DeletedBy: c.id()},
		})
	case models.ReactToMessage:
		h.broadcastAll(c.roomCode, models.Outbound{
			Event: models.EventMessageReaction,
			Data: models.ReactionPayload{
				MessageID:    e.MessageID,
				Emoji:        e.Emoji,
				ConnectionID: c.id(),
				DisplayName:  p.DisplayName,
			},
		})
	case models.ScreenShareStarted:
		h.startScreenShare(c, p)
	case models.ScreenShareStopped:
		h.stopScreenShare(c)
	case models.TrackReplaced:
		h.broadcast(c.roomCode, models.Outbound{
			Event: models.EventTrackReplaced,
			Data:  models.TrackReplacedPayload{ConnectionID: c.id(), TrackType: e.TrackType},
		}, c.id())
	case models.AdminAction:
		h.adminAction(c, p, e)
	case models.SetModerator:
		h.setModerator(c, e)
	case models.MediaStateChange:
		h.state.media.set(c.id(), e.Type, e.Enabled)
		h.broadcastAll(c.roomCode, models.Outbound{
			Event: models.EventUserMediaStateChanged,
			Data:  models.MediaStateChangedPayload{ConnectionID: c.id(), Type: e.Type, Enabled: e.Enabled},
		})
	case models.RaiseHand:
		if hand, ok := h.state.hands.raise(c.roomCode, c.id(), p.DisplayName, h.now().UnixMilli()); ok {
			h.broadcastAll(c.roomCode, models.Outbound{Event: models.EventHandRaised, Data: hand})
		}
	case models.LowerHand:
		if h.state.hands.lower(c.roomCode, c.id()) {
			h.broadcastHandsAfterLower(c.roomCode, c.id())
		}
	case models.ClearAllHands:
		h.state.hands.clearRoom(c.roomCode)
		h.broadcastAll(c.roomCode, models.Outbound{Event: models.EventAllHandsLowered})
	case models.SpeakingState:
		h.broadcast(c.roomCode, models.Outbound{
			Event: models.EventSpeakingState,
			Data:  models.SpeakingPayload{ConnectionID: c.id(), Speaking: e.Speaking},
		}, c.id())
	default:
		h.logger.Error().Str("event", name).Msg("event has a policy but no handler")
	}
}

// relaySignal forwards negotiation data to one peer in the sender's room
func (h *Hub) relaySignal(c *connection, ev models.Signal) {
	target := h.state.peer(c.roomCode, ev.To)
	if target == nil {
		return
	}
	h.send(target, models.Outbound{
		Event: ev.Kind,
		Data:  models.SignalPayload{From: c.id(), Payload: ev.Payload},
	})
}

func (h *Hub) chat(c *connection, p *models.Participant, ev models.ChatMessage) {
	if h.cfg.MaxChatLength > 0 && utf8.RuneCountInString(ev.Text) > h.cfg.MaxChatLength {
		h.send(c, models.NewError("message too long"))
		return
	}
	if h.cfg.MaxImageBytes > 0 && len(ev.ImageData) > h.cfg.MaxImageBytes {
		h.send(c, models.NewError("image too large"))
		return
	}

	now := h.now()
	h.broadcastAll(c.roomCode, models.Outbound{
		Event: models.EventChatMessage,
		Data: models.ChatPayload{
			ID:           newMessageID(now.UnixMilli()),
			ConnectionID: c.id(),
			UserID:       p.UserID,
			DisplayName:  p.DisplayName,
			Type:         ev.Type,
			Text:         ev.Text,
			ImageData:    ev.ImageData,
			Timestamp:    now.UnixMilli(),
		},
	})
}

// newMessageID combines the send time with a random suffix
func newMessageID(unixMilli int64) string {
	return fmt.Sprintf("%d-%s", unixMilli, uuid.NewString()[:8])
}

func (h *Hub) startScreenShare(c *connection, p *models.Participant) {
	if h.state.screens.holds(c.roomCode, c.id()) {
		return
	}

	sharer, ok := h.state.screens.start(c.roomCode, models.ScreenSharer{
		ConnectionID: c.id(),
		DisplayName:  p.DisplayName,
	})
	if !ok {
		h.send(c, models.Outbound{
			Event: models.EventScreenShareRejected,
			Data: models.ScreenShareRejectedPayload{
				Reason:            models.ReasonAlreadySharing,
				SharerDisplayName: sharer.DisplayName,
			},
		})
		return
	}
	h.broadcastAll(c.roomCode, models.Outbound{Event: models.EventUserScreenSharing, Data: sharer})
}

// stopScreenShare always notifies the room, even when c did not hold the slot
func (h *Hub) stopScreenShare(c *connection) {
	h.state.screens.stop(c.roomCode, c.id())
	h.broadcastAll(c.roomCode, models.Outbound{
		Event: models.EventUserStoppedScreenSharing,
		Data:  models.ConnectionRef{ConnectionID: c.id()},
	})
}

func (h *Hub) broadcastHandsAfterLower(code, connID string) {
	h.broadcastAll(code, models.Outbound{
		Event: models.EventHandLowered,
		Data:  models.ConnectionRef{ConnectionID: connID},
	})
	for _, hand := range h.state.hands.list(code) {
		h.broadcastAll(code, models.Outbound{Event: models.EventHandRaised, Data: hand})
	}
}

func (h *Hub) adminAction(c *connection, p *models.Participant, ev models.AdminAction) {
	target := h.state.peer(c.roomCode, ev.TargetConnectionID)
	if target == nil {
		return
	}

	h.logger.Info().
		Str("room", utils.SanitizeLogString(c.roomCode)).
		Str("conn", c.id()).
		Str("target", target.id()).
		Str("action", string(ev.Action)).
		Msg("admin action")

	if ev.Action != models.AdminKick {
		h.send(target, models.Outbound{
			Event: models.EventAdminAction,
			Data: models.AdminCommandPayload{
				Action:          ev.Action,
				FromConnection:  c.id(),
				FromDisplayName: p.DisplayName,
			},
		})
		return
	}

	h.send(target, models.Outbound{
		Event: models.EventKicked,
		Data:  models.KickedPayload{RoomCode: c.roomCode, By: p.DisplayName},
	})
	h.leave(target)
	delete(h.state.connections, target.id())
	target.conn.Close()
}
