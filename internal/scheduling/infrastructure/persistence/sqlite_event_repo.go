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

// sqlQuerier abstracts *sql.DB and *sql.Tx for shared query execution.
type sqlQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// sqliteTimeLayout pads the fraction to nine digits. RFC3339Nano trims
// trailing zeros, and "14:00:00.5Z" sorts before "14:00:00Z" as text, so
// trimmed timestamps would break the overlap comparisons in SQL.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Timestamps are stored as fixed-width UTC strings so lexicographic
// comparison matches chronological order.
func encodeTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

// SQLiteEventRepository implements domain.EventRepository using SQLite,
// the zero-dependency local mode backend.
type SQLiteEventRepository struct {
	dbConn *sql.DB
}

// NewSQLiteEventRepository creates a new SQLite event repository.
func NewSQLiteEventRepository(dbConn *sql.DB) *SQLiteEventRepository {
	return &SQLiteEventRepository{dbConn: dbConn}
}

func (r *SQLiteEventRepository) querier(ctx context.Context) sqlQuerier {
	if info, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return info.Tx
	}
	return r.dbConn
}

// Save persists an event and its attendee list.
func (r *SQLiteEventRepository) Save(ctx context.Context, event *domain.CalendarEvent) error {
	if _, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return r.save(ctx, r.querier(ctx), event)
	}

	tx, err := r.dbConn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.save(ctx, tx, event); err != nil {
		return err
	}
	return tx.Commit()
}

// SaveAll persists a batch of events in one transaction.
func (r *SQLiteEventRepository) SaveAll(ctx context.Context, events []*domain.CalendarEvent) error {
	if _, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		q := r.querier(ctx)
		for _, event := range events {
			if err := r.save(ctx, q, event); err != nil {
				return err
			}
		}
		return nil
	}

	tx, err := r.dbConn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, event := range events {
		if err := r.save(ctx, tx, event); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteEventRepository) save(ctx context.Context, q sqlQuerier, event *domain.CalendarEvent) error {
	var roomID sql.NullString
	if event.RoomID() != nil {
		roomID = sql.NullString{String: event.RoomID().String(), Valid: true}
	}
	var seriesID sql.NullString
	if event.SeriesID() != nil {
		seriesID = sql.NullString{String: event.SeriesID().String(), Valid: true}
	}

	_, err := q.ExecContext(ctx, `
		INSERT INTO calendar_events (id, title, organizer_id, room_id, start_time, end_time, status, series_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			status = excluded.status,
			series_id = excluded.series_id,
			updated_at = excluded.updated_at`,
		event.ID().String(),
		event.Title(),
		event.Organizer().String(),
		roomID,
		encodeTime(event.Interval().Start),
		encodeTime(event.Interval().End),
		string(event.Status()),
		seriesID,
		encodeTime(event.CreatedAt()),
		encodeTime(event.UpdatedAt()),
	)
	if err != nil {
		return err
	}

	_, err = q.ExecContext(ctx, "DELETE FROM event_attendees WHERE event_id = ?", event.ID().String())
	if err != nil {
		return err
	}

	for _, attendee := range event.Attendees() {
		_, err = q.ExecContext(ctx,
			"INSERT INTO event_attendees (event_id, attendee_id) VALUES (?, ?)",
			event.ID().String(), attendee.String(),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

// FindByID retrieves an event by its id. Returns (nil, nil) when absent.
func (r *SQLiteEventRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.CalendarEvent, error) {
	q := r.querier(ctx)

	row := q.QueryRowContext(ctx, `
		SELECT id, title, organizer_id, room_id, start_time, end_time, status, series_id, created_at, updated_at
		FROM calendar_events WHERE id = ?`, id.String())

	event, err := r.scanEvent(ctx, q, row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return event, nil
}

// FindOccupying returns the confirmed and tentative events involving the
// subject whose intervals overlap the range, ordered by start time.
func (r *SQLiteEventRepository) FindOccupying(ctx context.Context, subject sharedDomain.SubjectID, interval domain.Interval) ([]*domain.CalendarEvent, error) {
	q := r.querier(ctx)
	return r.findOccupying(ctx, q, subject, interval)
}

func (r *SQLiteEventRepository) findOccupying(ctx context.Context, q sqlQuerier, subject sharedDomain.SubjectID, interval domain.Interval) ([]*domain.CalendarEvent, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, organizer_id, room_id, start_time, end_time, status, series_id, created_at, updated_at
		FROM calendar_events e
		WHERE e.status IN ('confirmed', 'tentative')
		  AND e.start_time < ?
		  AND e.end_time > ?
		  AND (
			e.organizer_id = ?
			OR e.room_id = ?
			OR EXISTS (
				SELECT 1 FROM event_attendees a
				WHERE a.event_id = e.id AND a.attendee_id = ?
			)
		  )
		ORDER BY e.start_time`,
		encodeTime(interval.End),
		encodeTime(interval.Start),
		subject.String(),
		subject.String(),
		subject.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanEvents(ctx, q, rows)
}

// FindBySeries returns every instance of a recurring series ordered by
// start time, cancelled ones included.
func (r *SQLiteEventRepository) FindBySeries(ctx context.Context, seriesID uuid.UUID) ([]*domain.CalendarEvent, error) {
	q := r.querier(ctx)

	rows, err := q.QueryContext(ctx, `
		SELECT id, title, organizer_id, room_id, start_time, end_time, status, series_id, created_at, updated_at
		FROM calendar_events WHERE series_id = ? ORDER BY start_time`,
		seriesID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanEvents(ctx, q, rows)
}

// SaveRoomBooking re-checks the overlap and inserts inside one transaction.
// SQLite serializes writers, so the check-then-insert pair cannot interleave
// with another booking on the same database.
func (r *SQLiteEventRepository) SaveRoomBooking(ctx context.Context, booking *domain.CalendarEvent, room sharedDomain.SubjectID) error {
	if _, ok := sharedPersistence.SQLiteTxInfoFromContext(ctx); ok {
		return r.saveRoomBooking(ctx, r.querier(ctx), booking, room)
	}

	tx, err := r.dbConn.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := r.saveRoomBooking(ctx, tx, booking, room); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *SQLiteEventRepository) saveRoomBooking(ctx context.Context, q sqlQuerier, booking *domain.CalendarEvent, room sharedDomain.SubjectID) error {
	occupying, err := r.findOccupying(ctx, q, room, booking.Interval())
	if err != nil {
		return err
	}
	if len(occupying) > 0 {
		return sharedDomain.Conflictf("room %s is already booked during %s", room, booking.Interval())
	}
	return r.save(ctx, q, booking)
}

type scannable interface {
	Scan(dest ...any) error
}

type sqliteEventRow struct {
	id, title, organizerID, status string
	roomID, seriesID               sql.NullString
	startTime, endTime             string
	createdAt, updatedAt           string
}

func scanEventRow(row scannable) (sqliteEventRow, error) {
	var r sqliteEventRow
	err := row.Scan(&r.id, &r.title, &r.organizerID, &r.roomID,
		&r.startTime, &r.endTime, &r.status, &r.seriesID,
		&r.createdAt, &r.updatedAt)
	return r, err
}

func (r *SQLiteEventRepository) scanEvent(ctx context.Context, q sqlQuerier, row scannable) (*domain.CalendarEvent, error) {
	raw, err := scanEventRow(row)
	if err != nil {
		return nil, err
	}
	return r.hydrate(ctx, q, raw)
}

// scanEvents drains the rows before loading attendees: the transaction's
// single connection cannot run a sub-query while the iterator is open.
func (r *SQLiteEventRepository) scanEvents(ctx context.Context, q sqlQuerier, rows *sql.Rows) ([]*domain.CalendarEvent, error) {
	raws := make([]sqliteEventRow, 0)
	for rows.Next() {
		raw, err := scanEventRow(rows)
		if err != nil {
			return nil, err
		}
		raws = append(raws, raw)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	events := make([]*domain.CalendarEvent, 0, len(raws))
	for _, raw := range raws {
		event, err := r.hydrate(ctx, q, raw)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}

func (r *SQLiteEventRepository) hydrate(ctx context.Context, q sqlQuerier, raw sqliteEventRow) (*domain.CalendarEvent, error) {
	eventID, err := uuid.Parse(raw.id)
	if err != nil {
		return nil, err
	}
	organizer, err := sharedDomain.ParseSubjectID(raw.organizerID)
	if err != nil {
		return nil, err
	}

	var room *sharedDomain.SubjectID
	if raw.roomID.Valid {
		parsed, err := sharedDomain.ParseSubjectID(raw.roomID.String)
		if err != nil {
			return nil, err
		}
		room = &parsed
	}

	var series *uuid.UUID
	if raw.seriesID.Valid {
		parsed, err := uuid.Parse(raw.seriesID.String)
		if err != nil {
			return nil, err
		}
		series = &parsed
	}

	start, err := decodeTime(raw.startTime)
	if err != nil {
		return nil, err
	}
	end, err := decodeTime(raw.endTime)
	if err != nil {
		return nil, err
	}
	created, err := decodeTime(raw.createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := decodeTime(raw.updatedAt)
	if err != nil {
		return nil, err
	}

	attendees, err := r.loadAttendees(ctx, q, eventID)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateCalendarEvent(
		eventID, raw.title, organizer, attendees, room,
		domain.Interval{Start: start, End: end},
		domain.EventStatus(raw.status), series,
		created, updated,
	), nil
}

func (r *SQLiteEventRepository) loadAttendees(ctx context.Context, q sqlQuerier, eventID uuid.UUID) ([]sharedDomain.SubjectID, error) {
	rows, err := q.QueryContext(ctx,
		"SELECT attendee_id FROM event_attendees WHERE event_id = ? ORDER BY attendee_id",
		eventID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := make([]sharedDomain.SubjectID, 0)
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		id, err := sharedDomain.ParseSubjectID(raw)
		if err != nil {
			return nil, err
		}
		attendees = append(attendees, id)
	}
	return attendees, rows.Err()
}
