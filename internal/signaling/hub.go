// Package signaling implements the room registry, ephemeral trackers, event
// router and room lifecycle of the signaling server.
package signaling

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/navikt/huddle/internal/config"
	"github.com/navikt/huddle/internal/models"
	"github.com/navikt/huddle/internal/repository"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ErrHubStopped is returned when work is submitted after the hub shut down
var ErrHubStopped = errors.New("signaling hub stopped")

// LifecycleCallback receives every room lifecycle transition
type LifecycleCallback func(event models.RoomLifecycleEvent)

// Hub serializes all signaling work onto a single goroutine. Connections,
// lookups and timers talk to it by queueing tasks.
type Hub struct {
	state     *SignalingState
	directory repository.RoomDirectory
	cfg       config.SignalingConfig
	logger    zerolog.Logger
	now       func() time.Time

	tasks    chan func()
	done     chan struct{}
	stopOnce sync.Once
	running  atomic.Bool

	callbackMutex sync.RWMutex
	callbacks     []LifecycleCallback
}

// NewHub creates a hub backed by directory. Run must be started before
// connections are registered.
func NewHub(directory repository.RoomDirectory, cfg config.SignalingConfig) *Hub {
	if cfg.TaskQueueSize <= 0 {
		cfg.TaskQueueSize = 1024
	}
	if cfg.LookupTimeout <= 0 {
		cfg.LookupTimeout = 5 * time.Second
	}
	if cfg.DeletionDelay <= 0 {
		cfg.DeletionDelay = DefaultDeletionDelay
	}
	return &Hub{
		state:     NewSignalingState(),
		directory: directory,
		cfg:       cfg,
		logger:    log.With().Str("module", "signaling").Logger(),
		now:       time.Now,
		tasks:     make(chan func(), cfg.TaskQueueSize),
		done:      make(chan struct{}),
	}
}

// RegisterLifecycleCallback adds a callback invoked on the hub goroutine for
// every lifecycle transition. Callbacks must not block.
func (h *Hub) RegisterLifecycleCallback(callback LifecycleCallback) {
	h.callbackMutex.Lock()
	defer h.callbackMutex.Unlock()
	h.callbacks = append(h.callbacks, callback)
}

// Run processes tasks until ctx is cancelled, then stops all timers and
// closes every registered connection.
func (h *Hub) Run(ctx context.Context) {
	h.running.Store(true)
	defer h.running.Store(false)
	h.logger.Info().Msg("signaling hub started")

	for {
		select {
		case <-ctx.Done():
			h.stop()
			return
		case task := <-h.tasks:
			task()
		}
	}
}

// Running reports whether the hub loop is processing tasks
func (h *Hub) Running() bool {
	return h.running.Load()
}

func (h *Hub) stop() {
	h.stopOnce.Do(func() {
		close(h.done)
	})

	for code, t := range h.state.timers {
		t.timer.Stop()
		delete(h.state.timers, code)
	}
	for id, c := range h.state.connections {
		c.conn.Close()
		delete(h.state.connections, id)
	}
	h.logger.Info().Msg("signaling hub stopped")
}

// enqueue hands a task to the hub goroutine. It blocks while the queue is
// full and gives up once the hub has stopped.
func (h *Hub) enqueue(task func()) bool {
	select {
	case <-h.done:
		return false
	default:
	}

	select {
	case h.tasks <- task:
		return true
	case <-h.done:
		return false
	}
}

// call runs fn on the hub goroutine and waits for it to finish
func (h *Hub) call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !h.enqueue(func() {
		fn()
		close(finished)
	}) {
		return ErrHubStopped
	}

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-h.done:
		return ErrHubStopped
	}
}

// Register admits an authenticated connection
func (h *Hub) Register(conn Conn) error {
	if !h.enqueue(func() {
		h.state.connections[conn.ID()] = &connection{conn: conn}
		h.logger.Debug().Str("conn", conn.ID()).Str("user", conn.Identity().UserID).Msg("connection registered")
	}) {
		return ErrHubStopped
	}
	return nil
}

// Unregister runs disconnect cleanup for a connection. Unknown connections
// are ignored.
func (h *Hub) Unregister(conn Conn) {
	h.enqueue(func() {
		c, ok := h.state.connections[conn.ID()]
		if !ok {
			return
		}
		h.leave(c)
		delete(h.state.connections, conn.ID())
		h.logger.Debug().Str("conn", conn.ID()).Msg("connection unregistered")
	})
}

// Dispatch queues an inbound event from conn
func (h *Hub) Dispatch(conn Conn, event models.InboundEvent) {
	h.enqueue(func() {
		c, ok := h.state.connections[conn.ID()]
		if !ok {
			return
		}
		h.route(c, event)
	})
}

// RoomStatuses returns the live state of every room held in memory
func (h *Hub) RoomStatuses(ctx context.Context) ([]models.RoomStatus, error) {
	var statuses []models.RoomStatus
	err := h.call(ctx, func() {
		statuses = make([]models.RoomStatus, 0, len(h.state.rooms))
		for _, r := range h.state.rooms {
			statuses = append(statuses, h.state.status(r))
		}
		slices.SortFunc(statuses, func(a, b models.RoomStatus) int {
			return strings.Compare(a.Code, b.Code)
		})
	})
	return statuses, err
}

// RoomStatus returns the live state of one room, or nil if it is not in memory
func (h *Hub) RoomStatus(ctx context.Context, code string) (*models.RoomStatus, error) {
	var status *models.RoomStatus
	err := h.call(ctx, func() {
		if r, ok := h.state.rooms[code]; ok {
			s := h.state.status(r)
			status = &s
		}
	})
	return status, err
}

func (h *Hub) notifyLifecycle(code string, state models.RoomState, count int) {
	event := models.RoomLifecycleEvent{
		Code:             code,
		State:            state,
		ParticipantCount: count,
		At:               h.now(),
	}

	h.callbackMutex.RLock()
	callbacks := make([]LifecycleCallback, len(h.callbacks))
	copy(callbacks, h.callbacks)
	h.callbackMutex.RUnlock()

	for _, callback := range callbacks {
		callback(event)
	}
}
