package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/julianstephens/freeweek/internal/models"
)

const classColumns = "id, owner_id, title, day, start_time, end_time, source"

// GetClasses returns the classes of the given owners. With no owners it
// returns nothing.
func (s *Store) GetClasses(ctx context.Context, ownerIDs ...string) ([]models.ClassMeeting, error) {
	if len(ownerIDs) == 0 {
		return []models.ClassMeeting{}, nil
	}
	args := make([]any, len(ownerIDs))
	for i, id := range ownerIDs {
		args[i] = id
	}
	query := "SELECT " + classColumns + " FROM classes WHERE owner_id IN (" +
		strings.TrimSuffix(strings.Repeat("?,", len(ownerIDs)), ",") +
		") ORDER BY owner_id, day, start_time, end_time, title"
	return s.queryClasses(ctx, query, args...)
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
		"DELETE FROM classes WHERE owner_id = ? AND (source = 'ics' OR source = '')", ownerID)
}

func (s *Store) SaveManualGroup(ctx context.Context, ownerID, source string, meetings []models.ClassMeeting) error {
	if !strings.HasPrefix(source, models.ManualSourcePrefix) {
		return fmt.Errorf("manual group source %q must start with %q", source, models.ManualSourcePrefix)
	}
	rows, err := models.PrepareForWrite(ownerID, source, meetings)
	if err != nil {
		return err
	}
	return s.replace(ctx, ownerID, rows, "DELETE FROM classes WHERE owner_id = ? AND source = ?", ownerID, source)
}

func (s *Store) DeleteManualGroup(ctx context.Context, ownerID, source string) error {
	if !strings.HasPrefix(source, models.ManualSourcePrefix) {
		return fmt.Errorf("%q is not a manual group", source)
	}
	res, err := s.db.ExecContext(ctx, "DELETE FROM classes WHERE owner_id = ? AND source = ?", ownerID, source)
	return checkAffected(res, err, "group "+source)
}

// replace runs clear and inserts rows inside one transaction.
func (s *Store) replace(ctx context.Context, ownerID string, rows []models.ClassMeeting, clear string, clearArgs ...any) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM people WHERE id = ?", ownerID).Scan(&exists); err != nil {
		return err
	}
	if exists == 0 {
		return fmt.Errorf("person %s: %w", ownerID, sql.ErrNoRows)
	}

	if _, err := tx.ExecContext(ctx, clear, clearArgs...); err != nil {
		return fmt.Errorf("failed to clear classes: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, "INSERT INTO classes ("+classColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)")
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
