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

// PostgresAvailabilityRepository implements domain.AvailabilityRepository
// using PostgreSQL. Window offsets are stored as minutes from midnight.
type PostgresAvailabilityRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresAvailabilityRepository creates a new PostgreSQL availability repository.
func NewPostgresAvailabilityRepository(pool *pgxpool.Pool) *PostgresAvailabilityRepository {
	return &PostgresAvailabilityRepository{pool: pool}
}

type availabilityRow struct {
	ID                 uuid.UUID
	UserID             uuid.UUID
	Weekday            int
	WindowStartMinutes int
	WindowEndMinutes   int
	Available          bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const availabilityColumns = `id, user_id, weekday, window_start_minutes, window_end_minutes, available, created_at, updated_at`

// FindByUserAndWeekday returns the single record for the pair, or
// (nil, nil) when the user has declared nothing for that weekday.
func (r *PostgresAvailabilityRepository) FindByUserAndWeekday(ctx context.Context, user sharedDomain.SubjectID, weekday time.Weekday) (*domain.WeeklyAvailability, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	query := `SELECT ` + availabilityColumns + ` FROM weekly_availability WHERE user_id = $1 AND weekday = $2`

	var row availabilityRow
	err := exec.QueryRow(ctx, query, user.UUID(), int(weekday)).Scan(
		&row.ID, &row.UserID, &row.Weekday,
		&row.WindowStartMinutes, &row.WindowEndMinutes, &row.Available,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return rowToAvailability(row), nil
}

// FindByUser returns all of the user's records ordered by weekday.
func (r *PostgresAvailabilityRepository) FindByUser(ctx context.Context, user sharedDomain.SubjectID) ([]*domain.WeeklyAvailability, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	query := `SELECT ` + availabilityColumns + ` FROM weekly_availability WHERE user_id = $1 ORDER BY weekday`

	rows, err := exec.Query(ctx, query, user.UUID())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.WeeklyAvailability, 0)
	for rows.Next() {
		var row availabilityRow
		err := rows.Scan(
			&row.ID, &row.UserID, &row.Weekday,
			&row.WindowStartMinutes, &row.WindowEndMinutes, &row.Available,
			&row.CreatedAt, &row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		records = append(records, rowToAvailability(row))
	}
	return records, rows.Err()
}

// Save upserts the record on its (user, weekday) pair, preserving the
// single-record invariant at the store.
func (r *PostgresAvailabilityRepository) Save(ctx context.Context, record *domain.WeeklyAvailability) error {
	exec := sharedPersistence.Executor(ctx, r.pool)

	query := `
		INSERT INTO weekly_availability (` + availabilityColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, weekday) DO UPDATE SET
			window_start_minutes = EXCLUDED.window_start_minutes,
			window_end_minutes = EXCLUDED.window_end_minutes,
			available = EXCLUDED.available,
			updated_at = EXCLUDED.updated_at
	`

	_, err := exec.Exec(ctx, query,
		record.ID(),
		record.UserID().UUID(),
		int(record.Weekday()),
		int(record.WindowStart()/time.Minute),
		int(record.WindowEnd()/time.Minute),
		record.IsAvailable(),
		record.CreatedAt(),
		record.UpdatedAt(),
	)
	return err
}

func rowToAvailability(row availabilityRow) *domain.WeeklyAvailability {
	return domain.RehydrateWeeklyAvailability(
		row.ID,
		sharedDomain.NewSubjectID(row.UserID),
		time.Weekday(row.Weekday),
		time.Duration(row.WindowStartMinutes)*time.Minute,
		time.Duration(row.WindowEndMinutes)*time.Minute,
		row.Available,
		row.CreatedAt,
		row.UpdatedAt,
	)
}
