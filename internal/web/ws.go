package web

import (
	"errors"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/navikt/huddle/internal/auth"
	"github.com/navikt/huddle/internal/config"
	"github.com/navikt/huddle/internal/models"
	"github.com/rs/zerolog/log"
)

var (
	// ErrSendBufferFull is returned when a client does not drain its queue fast enough
	ErrSendBufferFull = errors.New("send buffer full")
	// ErrClosed is returned when sending to a closed client
	ErrClosed = errors.New("connection closed")
)

// WSHandler authenticates and upgrades signaling connections
type WSHandler struct {
	hub      Hub
	auth     Authenticator
	cfg      config.ServerConfig
	upgrader websocket.Upgrader
}

// NewWSHandler creates a websocket handler feeding hub
func NewWSHandler(hub Hub, authenticator Authenticator, cfg config.ServerConfig) *WSHandler {
	h := &WSHandler{
		hub:  hub,
		auth: authenticator,
		cfg:  cfg,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// checkOrigin allows any origin when none are configured. Requests without an
// Origin header come from non-browser clients and are allowed.
func (h *WSHandler) checkOrigin(r *http.Request) bool {
	if len(h.cfg.AllowedOrigins) == 0 {
		return true
	}
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(h.cfg.AllowedOrigins, origin)
}

// ServeHTTP rejects unauthenticated requests before the upgrade and then
// serves the connection until it closes
func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	identity, err := h.auth.Authenticate(auth.CredentialFromRequest(r))
	if err != nil {
		log.Warn().Err(err).Str("module", "web").Str("remote", r.RemoteAddr).Msg("websocket authentication failed")
		http.Error(w, auth.ErrAuthentication.Error(), http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Str("module", "web").Msg("websocket upgrade failed")
		return
	}

	client := newWSClient(uuid.NewString(), identity, conn, h.cfg)
	if err := h.hub.Register(client); err != nil {
		deadline := time.Now().Add(h.cfg.WriteTimeout)
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server shutting down"), deadline)
		_ = conn.Close()
		return
	}

	log.Debug().Str("module", "web").Str("conn", client.id).Str("user", identity.UserID).Msg("websocket connected")
	go client.writePump()
	client.readPump(h.hub)
}

// wsClient is one websocket connection. The hub writes through Send, which
// never blocks; a dedicated goroutine owns all writes to the socket.
type wsClient struct {
	id       string
	identity models.Identity
	conn     *websocket.Conn
	cfg      config.ServerConfig

	send      chan models.Outbound
	quit      chan struct{}
	closeOnce sync.Once
	mu        sync.Mutex
	closed    bool
}

func newWSClient(id string, identity models.Identity, conn *websocket.Conn, cfg config.ServerConfig) *wsClient {
	if cfg.SendBuffer <= 0 {
		cfg.SendBuffer = 64
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 4 * time.Second
	}
	if cfg.PongWait <= 0 {
		cfg.PongWait = 45 * time.Second
	}
	if cfg.PingInterval <= 0 || cfg.PingInterval >= cfg.PongWait {
		cfg.PingInterval = cfg.PongWait / 2
	}
	return &wsClient{
		id:       id,
		identity: identity,
		conn:     conn,
		cfg:      cfg,
		send:     make(chan models.Outbound, cfg.SendBuffer),
		quit:     make(chan struct{}),
	}
}

func (c *wsClient) ID() string {
	return c.id
}

func (c *wsClient) Identity() models.Identity {
	return c.identity
}

// Send queues msg for the write pump
func (c *wsClient) Send(msg models.Outbound) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// Close stops the client after the write pump has flushed what is queued
func (c *wsClient) Close() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.quit)
	})
}

func (c *wsClient) write(msg models.Outbound) error {
	if c.cfg.WriteTimeout > 0 {
		_ = c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
	}
	return c.conn.WriteJSON(msg)
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				log.Debug().Err(err).Str("module", "web").Str("conn", c.id).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			if err := c.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-c.quit:
			c.drain()
			deadline := time.Now().Add(c.cfg.WriteTimeout)
			_ = c.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
			return
		}
	}
}

// drain writes whatever was queued before Close
func (c *wsClient) drain() {
	for {
		select {
		case msg := <-c.send:
			if err := c.write(msg); err != nil {
				return
			}
		default:
			return
		}
	}
}

func (c *wsClient) readPump(hub Hub) {
	defer func() {
		hub.Unregister(c)
		c.Close()
		log.Debug().Str("module", "web").Str("conn", c.id).Msg("websocket disconnected")
	}()

	if c.cfg.ReadLimit > 0 {
		c.conn.SetReadLimit(c.cfg.ReadLimit)
	}
	_ = c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.cfg.PongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				log.Debug().Err(err).Str("module", "web").Str("conn", c.id).Msg("websocket closed unexpectedly")
			}
			return
		}

		event, err := models.DecodeInbound(raw)
		if err != nil {
			_ = c.Send(models.NewError(err.Error()))
			continue
		}
		hub.Dispatch(c, event)
	}
}
