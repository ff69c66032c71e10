package web

import (
	"github.com/navikt/huddle/internal/models"
	"github.com/navikt/huddle/internal/signaling"
)

// Hub is the part of the signaling hub used by the websocket transport
type Hub interface {
	Register(conn signaling.Conn) error
	Unregister(conn signaling.Conn)
	Dispatch(conn signaling.Conn, event models.InboundEvent)
}

// Authenticator resolves the credential presented on connect
type Authenticator interface {
	Authenticate(credential string) (models.Identity, error)
}
