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

// SQLiteAvailabilityRepository implements domain.AvailabilityRepository
// using SQLite. Window offsets are stored as minutes from midnight.
type SQLiteAvailabilityRepository struct {
	dbConn *sql.DB
}

// NewSQLiteAvailabilityRepository creates a new SQLite availability repository.
func NewSQLiteAvailabilityRepository(dbConn *sql.DB) *SQLiteAvailabilityRepository {
	return &SQLiteAvailabilityRepository{dbConn: dbConn}
}

func (r *SQLiteAvailabilityRepository) querier(ctx context.Context) sqlQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// FindByUserAndWeekday returns the single record for the pair, or
// (nil, nil) when the user has declared nothing for that weekday.
func (r *SQLiteAvailabilityRepository) FindByUserAndWeekday(ctx context.Context, user sharedDomain.SubjectID, weekday time.Weekday) (*domain.WeeklyAvailability, error) {
	row := r.querier(ctx).QueryRowContext(ctx, `
		SELECT id, user_id, weekday, window_start_minutes, window_end_minutes, available, created_at, updated_at
		FROM weekly_availability WHERE user_id = ? AND weekday = ?`,
		user.String(), int(weekday))

	record, err := scanAvailability(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// FindByUser returns all of the user's records ordered by weekday.
func (r *SQLiteAvailabilityRepository) FindByUser(ctx context.Context, user sharedDomain.SubjectID) ([]*domain.WeeklyAvailability, error) {
	rows, err := r.querier(ctx).QueryContext(ctx, `
		SELECT id, user_id, weekday, window_start_minutes, window_end_minutes, available, created_at, updated_at
		FROM weekly_availability WHERE user_id = ? ORDER BY weekday`,
		user.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.WeeklyAvailability, 0)
	for rows.Next() {
		record, err := scanAvailability(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// Save upserts the record on its (user, weekday) pair.
func (r *SQLiteAvailabilityRepository) Save(ctx context.Context, record *domain.WeeklyAvailability) error {
	_, err := r.querier(ctx).ExecContext(ctx, `
		INSERT INTO weekly_availability (id, user_id, weekday, window_start_minutes, window_end_minutes, available, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, weekday) DO UPDATE SET
			window_start_minutes = excluded.window_start_minutes,
			window_end_minutes = excluded.window_end_minutes,
			available = excluded.available,
			updated_at = excluded.updated_at`,
		record.ID().String(),
		record.UserID().String(),
		int(record.Weekday()),
		int(record.WindowStart()/time.Minute),
		int(record.WindowEnd()/time.Minute),
		record.IsAvailable(),
		encodeTime(record.CreatedAt()),
		encodeTime(record.UpdatedAt()),
	)
	return err
}

func scanAvailability(row scannable) (*domain.WeeklyAvailability, error) {
	var (
		id, userID           string
		weekday              int
		startMin, endMin     int
		available            bool
		createdAt, updatedAt string
	)
	err := row.Scan(&id, &userID, &weekday, &startMin, &endMin, &available, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	user, err := sharedDomain.ParseSubjectID(userID)
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

	return domain.RehydrateWeeklyAvailability(
		recordID, user, time.Weekday(weekday),
		time.Duration(startMin)*time.Minute,
		time.Duration(endMin)*time.Minute,
		available, created, updated,
	), nil
}
