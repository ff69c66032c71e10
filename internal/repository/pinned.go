package repository

import (
	"context"

	"github.com/navikt/huddle/internal/utils"
	"github.com/rs/zerolog/log"
)

// PinnedDirectory keeps the records of a fixed set of room codes when the
// lifecycle deletes empty rooms. Everything else passes through.
type PinnedDirectory struct {
	RoomDirectory
	pinned map[string]struct{}
}

// NewPinnedDirectory wraps directory so that codes survive DeleteRoomRecord
func NewPinnedDirectory(directory RoomDirectory, codes ...string) *PinnedDirectory {
	pinned := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if code != "" {
			pinned[code] = struct{}{}
		}
	}
	return &PinnedDirectory{RoomDirectory: directory, pinned: pinned}
}

// DeleteRoomRecord removes the record unless the room is pinned
func (d *PinnedDirectory) DeleteRoomRecord(ctx context.Context, code string) error {
	if _, ok := d.pinned[code]; ok {
		log.Debug().Str("module", "repository").Str("room", utils.SanitizeLogString(code)).Msg("keeping pinned room record")
		return nil
	}
	return d.RoomDirectory.DeleteRoomRecord(ctx, code)
}
