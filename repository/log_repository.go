package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/OpNop/TINY-API/database"
	"github.com/OpNop/TINY-API/models"
)

// LogRepository implements guild log data access
type LogRepository struct {
	q queryable
}

// NewLogRepository creates a new log repository
func NewLogRepository(db *database.DB) *LogRepository {
	return &LogRepository{q: db.Pool}
}

// MaxAPIID returns the greatest source event id ingested for a guild,
// 0 when no rows exist. This is the ingestion high-water mark.
func (r *LogRepository) MaxAPIID(ctx context.Context, guildID string) (int64, error) {
	query := `SELECT COALESCE(MAX(api_id), 0) FROM log WHERE guild_id = $1`

	var maxID int64
	if err := r.q.QueryRow(ctx, query, guildID).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to get max api_id for guild %s: %w", guildID, err)
	}
	return maxID, nil
}

// Create inserts a log entry
func (r *LogRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	query := `
		INSERT INTO log (api_id, guild_id, date, account, type, message, raw)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		entry.APIID,
		entry.GuildID,
		entry.Date,
		entry.Account,
		entry.Type,
		entry.Message,
		entry.Raw,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create log entry %d for guild %s: %w", entry.APIID, entry.GuildID, err)
	}

	return nil
}

// List returns log entries newest first along with the unpaginated total.
func (r *LogRepository) List(ctx context.Context, filter models.LogFilter) ([]*models.LogEntry, int64, error) {
	where := " WHERE 1=1"
	args := []interface{}{}

	if filter.GuildID != "" {
		args = append(args, filter.GuildID)
		where += fmt.Sprintf(" AND guild_id = $%d", len(args))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}

	var total int64
	if err := r.q.QueryRow(ctx, "SELECT COUNT(*) FROM log"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count log entries: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}

	args = append(args, limit, (page-1)*limit)
	query := `SELECT id, api_id, guild_id, date, account, type, message, raw FROM log` +
		where + fmt.Sprintf(" ORDER BY date DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer rows.Close()

	var entries []*models.LogEntry
	for rows.Next() {
		var entry models.LogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.APIID,
			&entry.GuildID,
			&entry.Date,
			&entry.Account,
			&entry.Type,
			&entry.Message,
			&entry.Raw,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate log entries: %w", err)
	}

	return entries, total, nil
}

// ListTreasuryMissingItemName returns treasury rows whose raw payload has no
// resolved item name yet, oldest first. Used by the backfill task.
func (r *LogRepository) ListTreasuryMissingItemName(ctx context.Context, limit int) ([]*models.LogEntry, error) {
	query := `
		SELECT id, api_id, guild_id, date, account, type, message, raw
		FROM log
		WHERE type = 'treasury'
		  AND (raw->>'item_id')::bigint <> 0
		  AND raw->>'item_name' IS NULL
		ORDER BY id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list treasury entries for backfill: %w", err)
	}
	defer rows.Close()

	var entries []*models.LogEntry
	for rows.Next() {
		var entry models.LogEntry
		err := rows.Scan(
			&entry.ID,
			&entry.APIID,
			&entry.GuildID,
			&entry.Date,
			&entry.Account,
			&entry.Type,
			&entry.Message,
			&entry.Raw,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

// UpdateRaw rewrites the raw payload of one log row. This is the only
// permitted mutation of a log entry.
func (r *LogRepository) UpdateRaw(ctx context.Context, guildID string, apiID int64, raw json.RawMessage) error {
	query := `UPDATE log SET raw = $3 WHERE guild_id = $1 AND api_id = $2`

	result, err := r.q.Exec(ctx, query, guildID, apiID, raw)
	if err != nil {
		return fmt.Errorf("failed to update raw payload for %s/%d: %w", guildID, apiID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("log entry %s/%d not found", guildID, apiID)
	}

	return nil
}
