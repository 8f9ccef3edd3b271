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

// PostgresEventRepository implements domain.EventRepository using PostgreSQL.
type PostgresEventRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresEventRepository creates a new PostgreSQL event repository.
func NewPostgresEventRepository(pool *pgxpool.Pool) *PostgresEventRepository {
	return &PostgresEventRepository{pool: pool}
}

// eventRow represents a database row for calendar events.
type eventRow struct {
	ID          uuid.UUID
	Title       string
	OrganizerID uuid.UUID
	RoomID      *uuid.UUID
	StartTime   time.Time
	EndTime     time.Time
	Status      string
	SeriesID    *uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

const eventColumns = `id, title, organizer_id, room_id, start_time, end_time, status, series_id, created_at, updated_at`

// Save persists an event and its attendee list.
func (r *PostgresEventRepository) Save(ctx context.Context, event *domain.CalendarEvent) error {
	if info, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		return r.saveWithTx(ctx, info.Tx, event)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.saveWithTx(ctx, tx, event); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// SaveAll persists a batch of events in one transaction.
func (r *PostgresEventRepository) SaveAll(ctx context.Context, events []*domain.CalendarEvent) error {
	if info, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		for _, event := range events {
			if err := r.saveWithTx(ctx, info.Tx, event); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, event := range events {
		if err := r.saveWithTx(ctx, tx, event); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *PostgresEventRepository) saveWithTx(ctx context.Context, tx pgx.Tx, event *domain.CalendarEvent) error {
	query := `
		INSERT INTO calendar_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			status = EXCLUDED.status,
			series_id = EXCLUDED.series_id,
			updated_at = EXCLUDED.updated_at
	`

	_, err := tx.Exec(ctx, query,
		event.ID(),
		event.Title(),
		event.Organizer().UUID(),
		roomIDValue(event.RoomID()),
		event.Interval().Start,
		event.Interval().End,
		string(event.Status()),
		event.SeriesID(),
		event.CreatedAt(),
		event.UpdatedAt(),
	)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, "DELETE FROM event_attendees WHERE event_id = $1", event.ID())
	if err != nil {
		return err
	}

	for _, attendee := range event.Attendees() {
		_, err = tx.Exec(ctx,
			"INSERT INTO event_attendees (event_id, attendee_id) VALUES ($1, $2)",
			event.ID(), attendee.UUID(),
		)
		if err != nil {
			return err
		}
	}

	return nil
}

// FindByID retrieves an event by its id. Returns (nil, nil) when absent.
func (r *PostgresEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE id = $1`

	var row eventRow
	err := exec.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.Title, &row.OrganizerID, &row.RoomID,
		&row.StartTime, &row.EndTime, &row.Status, &row.SeriesID,
		&row.CreatedAt, &row.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	attendees, err := r.loadAttendees(ctx, exec, row.ID)
	if err != nil {
		return nil, err
	}

	return rowToEvent(row, attendees), nil
}

// FindOccupying returns the confirmed and tentative events involving the
// subject whose intervals overlap the range, ordered by start time.
// Overlap is strict: touching boundaries do not match.
func (r *PostgresEventRepository) FindOccupying(ctx context.Context, subject sharedDomain.SubjectID, interval domain.Interval) ([]*domain.CalendarEvent, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)
	return r.findOccupying(ctx, exec, subject, interval)
}

func (r *PostgresEventRepository) findOccupying(ctx context.Context, exec sharedPersistence.DBExecutor, subject sharedDomain.SubjectID, interval domain.Interval) ([]*domain.CalendarEvent, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM calendar_events e
		WHERE e.status IN ('confirmed', 'tentative')
		  AND e.start_time < $3
		  AND e.end_time > $2
		  AND (
			e.organizer_id = $1
			OR e.room_id = $1
			OR EXISTS (
				SELECT 1 FROM event_attendees a
				WHERE a.event_id = e.id AND a.attendee_id = $1
			)
		  )
		ORDER BY e.start_time
	`

	rows, err := exec.Query(ctx, query, subject.UUID(), interval.Start, interval.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanEvents(ctx, exec, rows)
}

// FindBySeries returns every instance of a recurring series ordered by
// start time, cancelled ones included.
func (r *PostgresEventRepository) FindBySeries(ctx context.Context, seriesID uuid.UUID) ([]*domain.CalendarEvent, error) {
	exec := sharedPersistence.Executor(ctx, r.pool)

	query := `SELECT ` + eventColumns + ` FROM calendar_events WHERE series_id = $1 ORDER BY start_time`

	rows, err := exec.Query(ctx, query, seriesID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanEvents(ctx, exec, rows)
}

// SaveRoomBooking inserts a booking after re-checking for overlaps inside
// one transaction. The room's row is locked first, so concurrent bookings
// on the same room serialize at the store even across processes.
func (r *PostgresEventRepository) SaveRoomBooking(ctx context.Context, booking *domain.CalendarEvent, room sharedDomain.SubjectID) error {
	if info, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		return r.saveRoomBookingWithTx(ctx, info.Tx, booking, room)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := r.saveRoomBookingWithTx(ctx, tx, booking, room); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *PostgresEventRepository) saveRoomBookingWithTx(ctx context.Context, tx pgx.Tx, booking *domain.CalendarEvent, room sharedDomain.SubjectID) error {
	var roomID uuid.UUID
	err := tx.QueryRow(ctx,
		"SELECT id FROM meeting_rooms WHERE id = $1 FOR UPDATE",
		room.UUID(),
	).Scan(&roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sharedDomain.NotFoundf("room %s", room)
		}
		return err
	}

	occupying, err := r.findOccupying(ctx, tx, room, booking.Interval())
	if err != nil {
		return err
	}
	if len(occupying) > 0 {
		return sharedDomain.Conflictf("room %s is already booked during %s", room, booking.Interval())
	}

	return r.saveWithTx(ctx, tx, booking)
}

func (r *PostgresEventRepository) scanEvents(ctx context.Context, exec sharedPersistence.DBExecutor, rows pgx.Rows) ([]*domain.CalendarEvent, error) {
	eventRows := make([]eventRow, 0)
	for rows.Next() {
		var row eventRow
		err := rows.Scan(
			&row.ID, &row.Title, &row.OrganizerID, &row.RoomID,
			&row.StartTime, &row.EndTime, &row.Status, &row.SeriesID,
			&row.CreatedAt, &row.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		eventRows = append(eventRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	events := make([]*domain.CalendarEvent, 0, len(eventRows))
	for _, row := range eventRows {
		attendees, err := r.loadAttendees(ctx, exec, row.ID)
		if err != nil {
			return nil, err
		}
		events = append(events, rowToEvent(row, attendees))
	}
	return events, nil
}

func (r *PostgresEventRepository) loadAttendees(ctx context.Context, exec sharedPersistence.DBExecutor, eventID uuid.UUID) ([]sharedDomain.SubjectID, error) {
	rows, err := exec.Query(ctx,
		"SELECT attendee_id FROM event_attendees WHERE event_id = $1 ORDER BY attendee_id",
		eventID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]sharedDomain.SubjectID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		attendees = append(attendees, sharedDomain.NewSubjectID(id))
	}
	return attendees, rows.Err()
}

func rowToEvent(row eventRow, attendees []sharedDomain.SubjectID) *domain.CalendarEvent {
	var roomID *sharedDomain.SubjectID
	if row.RoomID != nil {
		id := sharedDomain.NewSubjectID(*row.RoomID)
		roomID = &id
	}

	return domain.RehydrateCalendarEvent(
		row.ID,
		row.Title,
		sharedDomain.NewSubjectID(row.OrganizerID),
		attendees,
		roomID,
		domain.Interval{Start: row.StartTime, End: row.EndTime},
		domain.EventStatus(row.Status),
		row.SeriesID,
		row.CreatedAt,
		row.UpdatedAt,
	)
}

func roomIDValue(roomID *sharedDomain.SubjectID) *uuid.UUID {
	if roomID == nil {
		return nil
	}
	id := roomID.UUID()
	return &id
}
