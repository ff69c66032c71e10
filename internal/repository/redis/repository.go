// Package redis provides a Redis/Valkey implementation of the room directory
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/navikt/huddle/internal/config"
	"github.com/navikt/huddle/internal/models"
	"github.com/redis/go-redis/v9"
)

// Repository implements the room directory with Redis storage
type Repository struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRepository creates a new Redis repository
func NewRepository(cfg config.RedisConfig) (*Repository, error) {
	var client *redis.Client

	// Use URI if provided, otherwise build connection from individual parameters
	if cfg.URI != "" {
		opt, err := redis.ParseURL(cfg.URI)
		if err != nil {
			return nil, fmt.Errorf("failed to parse Redis URI: %w", err)
		}

		// Use DB from config if not specified in the URI
		if opt.DB == 0 {
			opt.DB = cfg.DB
		}
		if opt.Password == "" && cfg.Password != "" {
			opt.Password = cfg.Password
		}

		client = redis.NewClient(opt)
	} else {
		client = redis.NewClient(&redis.Options{
			Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
			Username: cfg.Username,
			Password: cfg.Password,
			DB:       cfg.DB,
		})
	}

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &Repository{
		client:    client,
		keyPrefix: cfg.KeyPrefix,
		ttl:       cfg.RoomTTL,
	}, nil
}

// Close closes the Redis connection
func (r *Repository) Close() error {
	return r.client.Close()
}

func (r *Repository) roomKey(code string) string {
	return fmt.Sprintf("%srooms:%s", r.keyPrefix, code)
}

func (r *Repository) profileKey(userID string) string {
	return fmt.Sprintf("%susers:%s", r.keyPrefix, userID)
}

// SaveRoom stores a room record with the configured TTL
func (r *Repository) SaveRoom(ctx context.Context, room *models.RoomRecord) error {
	data, err := json.Marshal(room)
	if err != nil {
		return fmt.Errorf("failed to marshal room: %w", err)
	}

	if err := r.client.Set(ctx, r.roomKey(room.Code), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}
	return nil
}

// LookupRoomByCode returns the stored room, or nil if the key does not exist
func (r *Repository) LookupRoomByCode(ctx context.Context, code string) (*models.RoomRecord, error) {
	var room models.RoomRecord
	found, err := r.getJSON(ctx, r.roomKey(code), &room)
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &room, nil
}

// DeleteRoomRecord removes a room record. Missing keys are ignored.
func (r *Repository) DeleteRoomRecord(ctx context.Context, code string) error {
	if err := r.client.Del(ctx, r.roomKey(code)).Err(); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

// SaveUserProfile stores a profile without expiry
func (r *Repository) SaveUserProfile(ctx context.Context, profile *models.UserProfile) error {
	data, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}

	if err := r.client.Set(ctx, r.profileKey(profile.UserID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// LookupUserProfile returns the stored profile, or nil if the key does not exist
func (r *Repository) LookupUserProfile(ctx context.Context, userID string) (*models.UserProfile, error) {
	var profile models.UserProfile
	found, err := r.getJSON(ctx, r.profileKey(userID), &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &profile, nil
}

func (r *Repository) getJSON(ctx context.Context, key string, v any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}
