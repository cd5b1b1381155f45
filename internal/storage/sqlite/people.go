package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/freeweek/internal/models"
)

func (s *Store) AddPerson(ctx context.Context, p models.Person) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt == "" {
		p.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO people (id, display_name, created_at, hidden)
		VALUES (?, ?, ?, ?)`,
		p.ID, strings.TrimSpace(p.DisplayName), p.CreatedAt, p.Hidden)
	if err != nil {
		return fmt.Errorf("failed to add person %s: %w", p.ID, err)
	}
	return nil
}

func (s *Store) GetPerson(ctx context.Context, id string) (models.Person, error) {
	var p models.Person
	err := s.db.QueryRowContext(ctx, `
		SELECT id, display_name, created_at, hidden
		FROM people WHERE id = ?`, id).
		Scan(&p.ID, &p.DisplayName, &p.CreatedAt, &p.Hidden)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Person{}, fmt.Errorf("person %s: %w", id, err)
	}
	if err != nil {
		return models.Person{}, fmt.Errorf("failed to get person %s: %w", id, err)
	}
	return p, nil
}

// GetAllPeople returns the roster ordered by display name.
func (s *Store) GetAllPeople(ctx context.Context, includeHidden bool) ([]models.Person, error) {
	query := "SELECT id, display_name, created_at, hidden FROM people"
	if !includeHidden {
		query += " WHERE hidden = 0"
	}
	query += " ORDER BY display_name COLLATE NOCASE, id"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	people := []models.Person{}
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.DisplayName, &p.CreatedAt, &p.Hidden); err != nil {
			return nil, err
		}
		people = append(people, p)
	}
	return people, rows.Err()
}

func (s *Store) RenamePerson(ctx context.Context, id, displayName string) error {
	res, err := s.db.ExecContext(ctx, "UPDATE people SET display_name = ? WHERE id = ?", strings.TrimSpace(displayName), id)
	return checkAffected(res, err, "person "+id)
}

func (s *Store) SetPersonHidden(ctx context.Context, id string, hidden bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE people SET hidden = ? WHERE id = ?", hidden, id)
	return checkAffected(res, err, "person "+id)
}

func (s *Store) DeletePerson(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM classes WHERE owner_id = ?", id); err != nil {
		return fmt.Errorf("failed to delete classes for %s: %w", id, err)
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM people WHERE id = ?", id)
	if err := checkAffected(res, err, "person "+id); err != nil {
		return err
	}
	return tx.Commit()
}

// checkAffected turns a write that touched nothing into a wrapped sql.ErrNoRows.
func checkAffected(res sql.Result, err error, what string) error {
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", what, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", what, sql.ErrNoRows)
	}
	return nil
}
