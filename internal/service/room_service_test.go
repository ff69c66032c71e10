package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/navikt/huddle/internal/models"
	"github.com/navikt/huddle/internal/repository/memory"
	"github.com/navikt/huddle/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockStatusProvider is a mock of the hub's status snapshots
type MockStatusProvider struct {
	mock.Mock
}

func (m *MockStatusProvider) RoomStatuses(ctx context.Context) ([]models.RoomStatus, error) {
	args := m.Called(ctx)
	statuses, _ := args.Get(0).([]models.RoomStatus)
	return statuses, args.Error(1)
}

func (m *MockStatusProvider) RoomStatus(ctx context.Context, code string) (*models.RoomStatus, error) {
	args := m.Called(ctx, code)
	status, _ := args.Get(0).(*models.RoomStatus)
	return status, args.Error(1)
}

// MockUpdateCallback is a mock for testing callbacks
type MockUpdateCallback struct {
	mock.Mock
}

func (m *MockUpdateCallback) OnUpdate(event models.RoomLifecycleEvent) {
	m.Called(event)
}

func TestRoomService_ListRooms(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()
	require.NoError(t, repo.SaveRoom(ctx, &models.RoomRecord{Code: "abc", Name: "Standup", OwnerID: "user-1"}))

	status := &MockStatusProvider{}
	status.On("RoomStatuses", mock.Anything).Return([]models.RoomStatus{
		{Code: "abc", State: models.RoomStateActive, ParticipantCount: 2},
		{Code: "unknown", State: models.RoomStatePendingDeletion},
	}, nil)

	roomService := service.NewRoomService(repo, status)
	rooms, err := roomService.ListRooms(ctx)
	require.NoError(t, err)
	require.Len(t, rooms, 2)

	assert.Equal(t, "Standup", rooms[0].Name)
	assert.Equal(t, "user-1", rooms[0].OwnerID)
	assert.Equal(t, 2, rooms[0].ParticipantCount)

	// Rooms without a directory record are still listed
	assert.Equal(t, "unknown", rooms[1].Code)
	assert.Empty(t, rooms[1].Name)
	status.AssertExpectations(t)
}

func TestRoomService_ListRoomsHubError(t *testing.T) {
	status := &MockStatusProvider{}
	status.On("RoomStatuses", mock.Anything).Return(nil, errors.New("hub stopped"))

	roomService := service.NewRoomService(memory.NewRepository(), status)
	_, err := roomService.ListRooms(context.Background())
	assert.Error(t, err)
}

func TestRoomService_GetRoom(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()
	require.NoError(t, repo.SaveRoom(ctx, &models.RoomRecord{Code: "abc", Name: "Standup", OwnerID: "user-1"}))

	status := &MockStatusProvider{}
	status.On("RoomStatus", mock.Anything, "abc").Return(&models.RoomStatus{Code: "abc", ParticipantCount: 1}, nil)
	status.On("RoomStatus", mock.Anything, "gone").Return(nil, nil)

	roomService := service.NewRoomService(repo, status)

	room, err := roomService.GetRoom(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "Standup", room.Name)
	assert.Equal(t, 1, room.ParticipantCount)

	_, err = roomService.GetRoom(ctx, "gone")
	assert.ErrorIs(t, err, service.ErrRoomNotFound)
}

func TestRoomService_UpdateCallbacks(t *testing.T) {
	roomService := service.NewRoomService(memory.NewRepository(), &MockStatusProvider{})

	event := models.RoomLifecycleEvent{Code: "abc", State: models.RoomStateDeleted, At: time.Now()}

	first := &MockUpdateCallback{}
	first.On("OnUpdate", event).Return()
	second := &MockUpdateCallback{}
	second.On("OnUpdate", event).Return()

	roomService.RegisterUpdateCallback(first.OnUpdate)
	roomService.RegisterUpdateCallback(second.OnUpdate)
	roomService.NotifyLifecycle(event)

	first.AssertExpectations(t)
	second.AssertExpectations(t)
}

func TestRoomService_SeedRoom(t *testing.T) {
	repo := memory.NewRepository()
	ctx := context.Background()
	roomService := service.NewRoomService(repo, &MockStatusProvider{})

	require.NoError(t, roomService.SeedRoom(ctx, "dev", "Dev room", "dev-user"))
	record, err := repo.LookupRoomByCode(ctx, "dev")
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "dev-user", record.OwnerID)
	assert.False(t, record.CreatedAt.IsZero())

	// An existing record is left alone
	require.NoError(t, roomService.SeedRoom(ctx, "dev", "Renamed", "someone-else"))
	record, err = repo.LookupRoomByCode(ctx, "dev")
	require.NoError(t, err)
	assert.Equal(t, "Dev room", record.Name)
	assert.Equal(t, "dev-user", record.OwnerID)
}
