package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/OpNop/TINY-API/database"
	"github.com/OpNop/TINY-API/models"
)

// GuildStatsRepository implements guild stats snapshot data access
type GuildStatsRepository struct {
	q queryable
}

// NewGuildStatsRepository creates a new guild stats repository
func NewGuildStatsRepository(db *database.DB) *GuildStatsRepository {
	return &GuildStatsRepository{q: db.Pool}
}

// Create inserts a stats snapshot
func (r *GuildStatsRepository) Create(ctx context.Context, stat *models.GuildStat) error {
	query := `
		INSERT INTO guild_stats (gold, members)
		VALUES ($1, $2)
		RETURNING id, date
	`

	err := r.q.QueryRow(ctx, query, stat.Gold, stat.Members).Scan(&stat.ID, &stat.Date)
	if err != nil {
		return fmt.Errorf("failed to create guild stat: %w", err)
	}

	return nil
}

// LatestDate returns the timestamp of the newest snapshot, zero when no
// snapshots exist.
func (r *GuildStatsRepository) LatestDate(ctx context.Context) (time.Time, error) {
	query := `SELECT date FROM guild_stats ORDER BY date DESC LIMIT 1`

	var date time.Time
	err := r.q.QueryRow(ctx, query).Scan(&date)
	if err == pgx.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest guild stat date: %w", err)
	}

	return date, nil
}

// List returns snapshots newest first.
func (r *GuildStatsRepository) List(ctx context.Context, limit int) ([]*models.GuildStat, error) {
	query := `
		SELECT id, date, gold, members
		FROM guild_stats
		ORDER BY date DESC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list guild stats: %w", err)
	}
	defer rows.Close()

	var stats []*models.GuildStat
	for rows.Next() {
		var stat models.GuildStat
		if err := rows.Scan(&stat.ID, &stat.Date, &stat.Gold, &stat.Members); err != nil {
			return nil, fmt.Errorf("failed to scan guild stat: %w", err)
		}
		stats = append(stats, &stat)
	}

	return stats, rows.Err()
}
