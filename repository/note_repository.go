package repository

import (
	"context"
	"fmt"

	"github.com/OpNop/TINY-API/database"
	"github.com/OpNop/TINY-API/models"
)

// NoteRepository implements member note data access
type NoteRepository struct {
	q queryable
}

// NewNoteRepository creates a new note repository
func NewNoteRepository(db *database.DB) *NoteRepository {
	return &NoteRepository{q: db.Pool}
}

// Create inserts a note
func (r *NoteRepository) Create(ctx context.Context, note *models.Note) error {
	query := `
		INSERT INTO members_note (account, creator, message)
		VALUES ($1, $2, $3)
		RETURNING id, date_created
	`

	err := r.q.QueryRow(ctx, query, note.Account, note.Creator, note.Message).
		Scan(&note.ID, &note.DateCreated)
	if err != nil {
		return fmt.Errorf("failed to create note for %s: %w", note.Account, err)
	}

	return nil
}

// List returns notes newest first, optionally filtered by account and
// limited. account "" means all accounts; limit 0 means no limit.
func (r *NoteRepository) List(ctx context.Context, account string, limit int) ([]*models.Note, error) {
	query := `
		SELECT id, account, creator, message, date_created
		FROM v_member_notes
	`
	args := []interface{}{}

	if account != "" {
		args = append(args, account)
		query += fmt.Sprintf(" WHERE account = $%d", len(args))
	}
	query += " ORDER BY date_created DESC"
	if limit > 0 {
		args = append(args, limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	var notes []*models.Note
	for rows.Next() {
		var note models.Note
		if err := rows.Scan(&note.ID, &note.Account, &note.Creator, &note.Message, &note.DateCreated); err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		notes = append(notes, &note)
	}

	return notes, rows.Err()
}
