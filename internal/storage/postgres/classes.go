package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	pq "github.com/lib/pq"

	"github.com/julianstephens/freeweek/internal/models"
)

const classColumns = "id, owner_id, title, day, start_time, end_time, source"

func (s *Store) GetClasses(ctx context.Context, ownerIDs ...string) ([]models.ClassMeeting, error) {
	if len(ownerIDs) == 0 {
		return []models.ClassMeeting{}, nil
	}
	return s.queryClasses(ctx,
		"SELECT "+classColumns+" FROM classes WHERE owner_id = ANY($1) ORDER BY owner_id, day, start_time, end_time, title",
		pq.Array(ownerIDs))
}

func (s *Store) GetAllClasses(ctx context.Context) ([]models.ClassMeeting, error) {
	return s.queryClasses(ctx, "SELECT "+classColumns+" FROM classes ORDER BY owner_id, day, start_time, end_time, title")
}

func (s *Store) queryClasses(ctx context.Context, query string, args ...any) ([]models.ClassMeeting, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query classes: %w", err)
	}
	defer rows.Close()

	var meetings []models.ClassMeeting
	for rows.Next() {
		var m models.ClassMeeting
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.Title, &m.Day, &m.StartTime, &m.EndTime, &m.Source); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return models.CleanStoredMeetings(meetings), nil
}

func (s *Store) ReplaceImportedClasses(ctx context.Context, ownerID string, meetings []models.ClassMeeting) error {
	rows, err := models.PrepareForWrite(ownerID, models.SourceICS, meetings)
	if err != nil {
		return err
	}
	return s.replace(ctx, ownerID, rows,
		"DELETE FROM classes WHERE owner_id = $1 AND source IN ('ics', '')", ownerID)
}

func (s *Store) SaveManualGroup(ctx context.Context, ownerID, source string, meetings []models.ClassMeeting) error {
	if !strings.HasPrefix(source, models.ManualSourcePrefix) {
		return fmt.Errorf("manual group source %q must start with %q", source, models.ManualSourcePrefix)
	}
	rows, err := models.PrepareForWrite(ownerID, source, meetings)
	if err != nil {
		return err
	}
	return s.replace(ctx, ownerID, rows, "DELETE FROM classes WHERE owner_id = $1 AND source = $2", ownerID, source)
}

func (s *Store) DeleteManualGroup(ctx context.Context, ownerID, source string) error {
	if !strings.HasPrefix(source, models.ManualSourcePrefix) {
		return fmt.Errorf("%q is not a manual group", source)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM classes WHERE owner_id = $1 AND source = $2", ownerID, source)
	return checkAffected(res, err, "group "+source)
}

func (s *Store) replace(ctx context.Context, ownerID string, rows []models.ClassMeeting, clear string, clearArgs ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Lock the owner row so concurrent imports for the same person serialize.
	var id string
	err = tx.QueryRowContext(ctx, "SELECT id FROM people WHERE id = $1 FOR UPDATE", ownerID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("person %s: %w", ownerID, err)
	}
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, clear, clearArgs...); err != nil {
		return fmt.Errorf("failed to clear classes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO classes ("+classColumns+") VALUES ($1, $2, $3, $4, $5, $6, $7)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, m := range rows {
		if _, err := stmt.ExecContext(ctx, m.ID, m.OwnerID, m.Title, int(m.Day), m.StartTime, m.EndTime, m.Source); err != nil {
			return fmt.Errorf("failed to insert class %q: %w", m.Title, err)
		}
	}
	return tx.Commit()
}
