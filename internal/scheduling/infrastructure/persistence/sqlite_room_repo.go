package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	sharedPersistence "github.com/atlasops/atlas/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
)

// SQLiteRoomRepository implements domain.RoomRepository using SQLite.
type SQLiteRoomRepository struct {
	dbConn *sql.DB
}

// NewSQLiteRoomRepository creates a new SQLite room repository.
func NewSQLiteRoomRepository(dbConn *sql.DB) *SQLiteRoomRepository {
	return &SQLiteRoomRepository{dbConn: dbConn}
}

func (r *SQLiteRoomRepository) querier(ctx context.Context) sqlQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// FindByID retrieves a room by its id. Returns (nil, nil) when absent.
func (r *SQLiteRoomRepository) FindByID(ctx context.Context, id sharedDomain.SubjectID) (*domain.MeetingRoom, error) {
	row := r.querier(ctx).QueryRowContext(ctx, `
		SELECT id, name, capacity, max_duration_minutes, min_advance_minutes, max_advance_minutes, requires_approval, created_at, updated_at
		FROM meeting_rooms WHERE id = ?`, id.String())

	room, err := scanRoom(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return room, nil
}

// List returns every room ordered by name.
func (r *SQLiteRoomRepository) List(ctx context.Context) ([]*domain.MeetingRoom, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, name, capacity, max_duration_minutes, min_advance_minutes, max_advance_minutes, requires_approval, created_at, updated_at
		FROM meeting_rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*domain.MeetingRoom, 0)
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// Save upserts a room.
func (r *SQLiteRoomRepository) Save(ctx context.Context, room *domain.MeetingRoom) error {
	rules := room.Rules()
	_, err := r.querier(ctx).ExecContext(ctx, `
		INSERT INTO meeting_rooms (id, name, capacity, max_duration_minutes, min_advance_minutes, max_advance_minutes, requires_approval, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			capacity = excluded.capacity,
			max_duration_minutes = excluded.max_duration_minutes,
			min_advance_minutes = excluded.min_advance_minutes,
			max_advance_minutes = excluded.max_advance_minutes,
			requires_approval = excluded.requires_approval,
			updated_at = excluded.updated_at`,
		room.ID().String(),
		room.Name(),
		room.Capacity(),
		int(rules.MaxDuration/time.Minute),
		int(rules.MinAdvance/time.Minute),
		int(rules.MaxAdvance/time.Minute),
		rules.RequiresApproval,
		encodeTime(room.CreatedAt()),
		encodeTime(room.UpdatedAt()),
	)
	return err
}

func scanRoom(row scannable) (*domain.MeetingRoom, error) {
	var (
		id, name                    string
		capacity                    int
		maxDuration, minAdv, maxAdv int
		requiresApproval            bool
		createdAt, updatedAt        string
	)
	err := row.Scan(&id, &name, &capacity, &maxDuration, &minAdv, &maxAdv, &requiresApproval, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	roomID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	created, err := decodeTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := decodeTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateMeetingRoom(
		roomID, name, capacity,
		domain.BookingRules{
			MaxDuration:      time.Duration(maxDuration) * time.Minute,
			MinAdvance:       time.Duration(minAdv) * time.Minute,
			MaxAdvance:       time.Duration(maxAdv) * time.Minute,
			RequiresApproval: requiresApproval,
		},
		created, updated,
	), nil
}
