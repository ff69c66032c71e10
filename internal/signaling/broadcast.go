package signaling

import "github.com/navikt/huddle/internal/models"

// send delivers msg to one connection. A connection that cannot keep up is
// closed; its disconnect cleanup runs when the transport unregisters it.
func (h *Hub) send(c *connection, msg models.Outbound) {
	if err := c.conn.Send(msg); err != nil {
		h.logger.Warn().Err(err).Str("conn", c.id()).Str("event", msg.Event).Msg("dropping slow or closed connection")
		c.conn.Close()
	}
}

// broadcast delivers msg to every connection in the room except the one
// with id except (empty for the whole room)
func (h *Hub) broadcast(roomCode string, msg models.Outbound, except string) {
	r, ok := h.state.rooms[roomCode]
	if !ok {
		return
	}
	for _, id := range r.order {
		if id == except {
			continue
		}
		if c, ok := h.state.connections[id]; ok {
			h.send(c, msg)
		}
	}
}

func (h *Hub) broadcastAll(roomCode string, msg models.Outbound) {
	h.broadcast(roomCode, msg, "")
}
