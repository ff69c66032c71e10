package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/navikt/huddle/internal/models"
	"github.com/navikt/huddle/internal/repository"
	"github.com/navikt/huddle/internal/utils"
	"github.com/rs/zerolog/log"
)

// ErrRoomNotFound is returned when a room is not live in memory
var ErrRoomNotFound = errors.New("room not found")

// StatusProvider exposes the live state held by the signaling hub
type StatusProvider interface {
	RoomStatuses(ctx context.Context) ([]models.RoomStatus, error)
	RoomStatus(ctx context.Context, code string) (*models.RoomStatus, error)
}

// RoomUpdateCallback is a function type for room lifecycle callbacks
type RoomUpdateCallback func(models.RoomLifecycleEvent)

// RoomService combines live room state with directory records
type RoomService struct {
	directory       repository.RoomDirectory
	status          StatusProvider
	callbackMutex   sync.RWMutex
	updateCallbacks []RoomUpdateCallback
}

// NewRoomService creates a new RoomService
func NewRoomService(directory repository.RoomDirectory, status StatusProvider) *RoomService {
	return &RoomService{
		directory:       directory,
		status:          status,
		updateCallbacks: make([]RoomUpdateCallback, 0),
	}
}

// RegisterUpdateCallback registers a callback function to be called when a room changes lifecycle state
func (s *RoomService) RegisterUpdateCallback(callback RoomUpdateCallback) {
	s.callbackMutex.Lock()
	defer s.callbackMutex.Unlock()
	s.updateCallbacks = append(s.updateCallbacks, callback)
}

// NotifyLifecycle forwards a lifecycle transition to all registered callbacks
func (s *RoomService) NotifyLifecycle(event models.RoomLifecycleEvent) {
	log.Debug().
		Str("module", "service").
		Str("room", utils.SanitizeLogString(event.Code)).
		Str("state", event.State.String()).
		Int("participants", event.ParticipantCount).
		Msg("room lifecycle")

	s.callbackMutex.RLock()
	defer s.callbackMutex.RUnlock()
	for _, callback := range s.updateCallbacks {
		callback(event)
	}
}

// RoomStatusData is the live state of a room together with its directory record
type RoomStatusData struct {
	models.RoomStatus
	Name    string `json:"name,omitempty"`
	OwnerID string `json:"owner_id,omitempty"`
}

// ListRooms returns every live room. Directory lookup failures leave the
// record fields empty.
func (s *RoomService) ListRooms(ctx context.Context) ([]RoomStatusData, error) {
	statuses, err := s.status.RoomStatuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read room state: %w", err)
	}

	result := make([]RoomStatusData, 0, len(statuses))
	for _, status := range statuses {
		result = append(result, s.enrich(ctx, status))
	}
	return result, nil
}

// GetRoom returns one live room or ErrRoomNotFound
func (s *RoomService) GetRoom(ctx context.Context, code string) (*RoomStatusData, error) {
	status, err := s.status.RoomStatus(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to read room state: %w", err)
	}
	if status == nil {
		return nil, ErrRoomNotFound
	}

	data := s.enrich(ctx, *status)
	return &data, nil
}

func (s *RoomService) enrich(ctx context.Context, status models.RoomStatus) RoomStatusData {
	data := RoomStatusData{RoomStatus: status}

	record, err := s.directory.LookupRoomByCode(ctx, status.Code)
	if err != nil {
		log.Warn().Err(err).Str("module", "service").Str("room", utils.SanitizeLogString(status.Code)).Msg("room lookup failed")
		return data
	}
	if record != nil {
		data.Name = record.Name
		data.OwnerID = record.OwnerID
	}
	return data
}

// SeedRoom stores a room record unless one already exists
func (s *RoomService) SeedRoom(ctx context.Context, code, name, ownerID string) error {
	existing, err := s.directory.LookupRoomByCode(ctx, code)
	if err != nil {
		return fmt.Errorf("failed to look up room %s: %w", code, err)
	}
	if existing != nil {
		return nil
	}

	record := &models.RoomRecord{
		Code:      code,
		Name:      name,
		OwnerID:   ownerID,
		CreatedAt: time.Now(),
	}
	if err := s.directory.SaveRoom(ctx, record); err != nil {
		return fmt.Errorf("failed to save room %s: %w", code, err)
	}
	log.Info().Str("module", "service").Str("room", utils.SanitizeLogString(code)).Msg("seeded room")
	return nil
}
