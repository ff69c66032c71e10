package signaling

import "github.com/navikt/huddle/internal/models"

// Conn is one authenticated client channel as seen by the hub.
// Send must not block; Close must be safe to call more than once.
type Conn interface {
	ID() string
	Identity() models.Identity
	Send(msg models.Outbound) error
	Close()
}
