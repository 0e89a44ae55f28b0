package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fbianco/proghelper/internal/persona"
)

const personaColumns = "id, name, version, content, experiences, restricted, english"

// Save inserts or replaces a persona by (name, version) and returns the
// stored row.
func (s *personaStore) Save(ctx context.Context, p persona.Persona) (persona.Persona, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO personas (name, version, content, experiences, restricted, english)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name, version) DO UPDATE SET
			content = excluded.content,
			experiences = excluded.experiences,
			restricted = excluded.restricted,
			english = excluded.english`,
		p.Name, p.Version, p.Content, p.Experiences, p.Restricted, p.English,
	)
	if err != nil {
		return persona.Persona{}, fmt.Errorf("sqlite: save persona: %w", err)
	}

	if id, err := res.LastInsertId(); err == nil && id != 0 {
		p.ID = id
	}
	stored, err := s.GetByName(ctx, p.Name, p.Version)
	if err != nil {
		return persona.Persona{}, err
	}
	return *stored, nil
}

// GetByID returns the persona with the given ID.
func (s *personaStore) GetByID(ctx context.Context, id int64) (*persona.Persona, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+personaColumns+" FROM personas WHERE id = ?", id)
	return scanPersona(row)
}

// GetByName returns the persona with the given name and version.
func (s *personaStore) GetByName(ctx context.Context, name, version string) (*persona.Persona, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+personaColumns+" FROM personas WHERE name = ? AND version = ?", name, version)
	return scanPersona(row)
}

// List returns personas sorted by name, hiding restricted ones unless
// includeRestricted is set.
func (s *personaStore) List(ctx context.Context, includeRestricted bool) ([]persona.Persona, error) {
	query := "SELECT " + personaColumns + " FROM personas"
	if !includeRestricted {
		query += " WHERE restricted = 0"
	}
	query += " ORDER BY name, version"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list personas: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []persona.Persona
	for rows.Next() {
		var p persona.Persona
		if err := rows.Scan(&p.ID, &p.Name, &p.Version, &p.Content, &p.Experiences, &p.Restricted, &p.English); err != nil {
			return nil, fmt.Errorf("sqlite: scan persona: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: list personas: %w", err)
	}
	return out, nil
}

// AppendExperience merges a text fragment into the persona's experience
// log in a single transaction.
func (s *personaStore) AppendExperience(ctx context.Context, name, version, text string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: begin append experience: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var existing string
	err = tx.QueryRowContext(ctx,
		"SELECT experiences FROM personas WHERE name = ? AND version = ?", name, version,
	).Scan(&existing)
	if errors.Is(err, sql.ErrNoRows) {
		return persona.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("sqlite: read experiences: %w", err)
	}

	merged := persona.MergeExperience(existing, text)
	if _, err := tx.ExecContext(ctx,
		"UPDATE personas SET experiences = ? WHERE name = ? AND version = ?", merged, name, version,
	); err != nil {
		return fmt.Errorf("sqlite: update experiences: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: commit append experience: %w", err)
	}
	return nil
}

// scanPersona reads one row, mapping sql.ErrNoRows onto ErrNotFound.
func scanPersona(row *sql.Row) (*persona.Persona, error) {
	var p persona.Persona
	err := row.Scan(&p.ID, &p.Name, &p.Version, &p.Content, &p.Experiences, &p.Restricted, &p.English)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persona.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: scan persona: %w", err)
	}
	return &p, nil
}
