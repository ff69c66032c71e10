// Package redis_test provides tests for the Redis repository
package redis_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/navikt/huddle/internal/config"
	"github.com/navikt/huddle/internal/models"
	"github.com/navikt/huddle/internal/repository/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Repository, *miniredis.Miniredis, func()) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	cfg := config.RedisConfig{
		Enabled:   true,
		Host:      mr.Host(),
		Port:      mr.Port(),
		DB:        0,
		KeyPrefix: "test:",
		RoomTTL:   time.Hour * 24,
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)

	cleanup := func() {
		repo.Close()
		mr.Close()
	}

	return repo, mr, cleanup
}

// TestRedisWithURI tests connection with URI format
func TestRedisWithURI(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	cfg := config.RedisConfig{
		Enabled:   true,
		URI:       fmt.Sprintf("redis://%s:%s", mr.Host(), mr.Port()),
		KeyPrefix: "test:",
	}

	repo, err := redis.NewRepository(cfg)
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	require.NoError(t, repo.SaveRoom(ctx, &models.RoomRecord{Code: "uri-room", OwnerID: "user-1"}))
	assert.True(t, mr.Exists("test:rooms:uri-room"))
}

func TestRedisConnectionFailure(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	addr := mr.Port()
	mr.Close()

	_, err = redis.NewRepository(config.RedisConfig{Enabled: true, Host: "127.0.0.1", Port: addr})
	assert.Error(t, err)
}

func TestRoomRepository(t *testing.T) {
	repo, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	room := &models.RoomRecord{
		Code:      "abc123",
		Name:      "Standup",
		OwnerID:   "user-1",
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	t.Run("SaveAndLookupRoom", func(t *testing.T) {
		require.NoError(t, repo.SaveRoom(ctx, room))

		saved, err := repo.LookupRoomByCode(ctx, room.Code)
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, room.Name, saved.Name)
		assert.Equal(t, room.OwnerID, saved.OwnerID)
		assert.True(t, room.CreatedAt.Equal(saved.CreatedAt))
	})

	t.Run("RoomKeyHasTTL", func(t *testing.T) {
		ttl := mr.TTL("test:rooms:abc123")
		assert.Equal(t, 24*time.Hour, ttl)
	})

	t.Run("UnknownRoomIsNil", func(t *testing.T) {
		missing, err := repo.LookupRoomByCode(ctx, "nope")
		assert.NoError(t, err)
		assert.Nil(t, missing)
	})

	t.Run("CorruptRecordIsError", func(t *testing.T) {
		require.NoError(t, mr.Set("test:rooms:broken", "{not json"))
		_, err := repo.LookupRoomByCode(ctx, "broken")
		assert.Error(t, err)
	})

	t.Run("DeleteRoomRecord", func(t *testing.T) {
		require.NoError(t, repo.DeleteRoomRecord(ctx, room.Code))
		assert.False(t, mr.Exists("test:rooms:abc123"))

		// Missing keys are ignored
		assert.NoError(t, repo.DeleteRoomRecord(ctx, room.Code))
	})

	t.Run("RoomExpires", func(t *testing.T) {
		require.NoError(t, repo.SaveRoom(ctx, &models.RoomRecord{Code: "short", OwnerID: "user-1"}))
		mr.FastForward(25 * time.Hour)

		expired, err := repo.LookupRoomByCode(ctx, "short")
		assert.NoError(t, err)
		assert.Nil(t, expired)
	})
}

func TestProfileRepository(t *testing.T) {
	repo, mr, cleanup := setupTestRedis(t)
	defer cleanup()
	ctx := context.Background()

	profile := &models.UserProfile{UserID: "user-1", DisplayName: "Ada", Avatar: "https://example.org/ada.png"}
	require.NoError(t, repo.SaveUserProfile(ctx, profile))
	assert.True(t, mr.Exists("test:users:user-1"))

	saved, err := repo.LookupUserProfile(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, *profile, *saved)

	missing, err := repo.LookupUserProfile(ctx, "user-2")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}
