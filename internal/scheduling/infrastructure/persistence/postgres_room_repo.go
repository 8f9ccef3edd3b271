package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/atlasops/atlas/internal/scheduling/domain"
	sharedDomain "github.com/atlasops/atlas/internal/shared/domain"
	sharedPersistence "github.com/atlasops/atlas/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRoomRepository implements domain.RoomRepository using PostgreSQL.
// Booking rule durations are stored as minutes; zero disables the rule.
type PostgresRoomRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRoomRepository creates a new PostgreSQL room repository.
func NewPostgresRoomRepository(pool *pgxpool.Pool) *PostgresRoomRepository {
	return &PostgresRoomRepository{pool: pool}
}

type roomRow struct {
	ID                 uuid.UUID
	Name               string
	Capacity           int
	MaxDurationMinutes int
	MinAdvanceMinutes  int
	MaxAdvanceMinutes  int
	RequiresApproval   bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const roomColumns = `id, name, capacity, max_duration_minutes, min_advance_minutes, max_advance_minutes, requires_approval, created_at, updated_at`

// FindByID retrieves a room by its id. Returns (nil, nil) when absent.
func (r *PostgresRoomRepository) FindByID(ctx context.Context, id sharedDomain.SubjectID) (*domain.MeetingRoom, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	query := `SELECT ` + roomColumns + ` FROM meeting_rooms WHERE id = $1`

	var row roomRow
	err := exec.QueryRow(ctx, query, id.UUID()).Scan(
		&row.ID, &row.Name, &row.Capacity,
		&row.MaxDurationMinutes, &row.MinAdvanceMinutes, &row.MaxAdvanceMinutes,
		&row.RequiresApproval, &row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rowToRoom(row), nil
}

// List returns every room ordered by name.
func (r *PostgresRoomRepository) List(ctx context.Context) ([]*domain.MeetingRoom, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	rows, err := exec.Query(ctx, `SELECT `+roomColumns+` FROM meeting_rooms ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rooms := make([]*domain.MeetingRoom, 0)
	for rows.Next() {
		var row roomRow
		err := rows.Scan(
			&row.ID, &row.Name, &row.Capacity,
			&row.MaxDurationMinutes, &row.MinAdvanceMinutes, &row.MaxAdvanceMinutes,
			&row.RequiresApproval, &row.CreatedAt, &row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, rowToRoom(row))
	}
	return rooms, rows.Err()
}

// Save upserts a room.
func (r *PostgresRoomRepository) Save(ctx context.Context, room *domain.MeetingRoom) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	query := `
		INSERT INTO meeting_rooms (` + roomColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			capacity = EXCLUDED.capacity,
			max_duration_minutes = EXCLUDED.max_duration_minutes,
			min_advance_minutes = EXCLUDED.min_advance_minutes,
			max_advance_minutes = EXCLUDED.max_advance_minutes,
			requires_approval = EXCLUDED.requires_approval,
			updated_at = EXCLUDED.updated_at
	`

	rules := room.Rules()
	_, err := exec.Exec(ctx, query,
		room.ID(),
		room.Name(),
		room.Capacity(),
		int(rules.MaxDuration/time.Minute),
		int(rules.MinAdvance/time.Minute),
		int(rules.MaxAdvance/time.Minute),
		rules.RequiresApproval,
		room.CreatedAt(),
		room.UpdatedAt(),
	)
	return err
}

func rowToRoom(row roomRow) *domain.MeetingRoom {
	return domain.RehydrateMeetingRoom(
		row.ID,
		row.Name,
		row.Capacity,
		domain.BookingRules{
			MaxDuration:      time.Duration(row.MaxDurationMinutes) * time.Minute,
			MinAdvance:       time.Duration(row.MinAdvanceMinutes) * time.Minute,
			MaxAdvance:       time.Duration(row.MaxAdvanceMinutes) * time.Minute,
			RequiresApproval: row.RequiresApproval,
		},
		row.CreatedAt,
		row.UpdatedAt,
	)
}
