package persistence

import (
	"context"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
)

// RoomAwareDirectory resolves subject ids against the room store. An id
// matching a stored room resolves as a room; every other id is treated as
// a user, since user identity lives in the surrounding system and is
// validated before requests reach the engine.
type RoomAwareDirectory struct {
	rooms    domain.RoomRepository
	timeZone string
}

// NewRoomAwareDirectory creates a directory over the room store. All
// resolved subjects report the given IANA time zone.
func NewRoomAwareDirectory(rooms domain.RoomRepository, timeZone string) *RoomAwareDirectory {
	if timeZone == "" {
		timeZone = "UTC"
	}
	return &RoomAwareDirectory{
		rooms:    rooms,
		timeZone: timeZone,
	}
}

// Lookup resolves a subject id to its kind and display name.
func (d *RoomAwareDirectory) Lookup(ctx context.Context, id sharedDomain.SubjectID) (*domain.Subject, error) {
	if id.IsEmpty() {
		return nil, sharedDomain.InvalidRequestf("subject id is empty")
	}

	room, err := d.rooms.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if room != nil {
		return &domain.Subject{
			ID:          id,
			Kind:        domain.SubjectKindRoom,
			DisplayName: room.Name(),
			TimeZone:    d.timeZone,
		}, nil
	}

	return &domain.Subject{
		ID:       id,
		Kind:     domain.SubjectKindUser,
		TimeZone: d.timeZone,
	}, nil
}
