// Package repository provides the initialization for repository implementations
package repository

import (
	"github.com/navikt/huddle/internal/config"
	"github.com/navikt/huddle/internal/repository/memory"
	"github.com/navikt/huddle/internal/repository/redis"
	"github.com/rs/zerolog/log"
)

var (
	_ RoomDirectory = (*memory.Repository)(nil)
	_ RoomDirectory = (*redis.Repository)(nil)
)

// NewRoomDirectory picks the Redis directory when enabled and falls back to
// an in-memory one otherwise
func NewRoomDirectory(cfg config.RedisConfig) (RoomDirectory, error) {
	if !cfg.Enabled {
		log.Info().Str("module", "repository").Msg("using in-memory room directory")
		return memory.NewRepository(), nil
	}

	repo, err := redis.NewRepository(cfg)
	if err != nil {
		return nil, err
	}
	log.Info().Str("module", "repository").Str("prefix", cfg.KeyPrefix).Msg("using redis room directory")
	return repo, nil
}
