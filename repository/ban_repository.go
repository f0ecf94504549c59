package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/OpNop/TINY-API/database"
	"github.com/OpNop/TINY-API/models"
)

// BanRepository implements ban list data access
type BanRepository struct {
	q queryable
}

// NewBanRepository creates a new ban repository
func NewBanRepository(db *database.DB) *BanRepository {
	return &BanRepository{q: db.Pool}
}

// List returns the full ban list ordered by account.
func (r *BanRepository) List(ctx context.Context) ([]*models.Ban, error) {
	query := `
		SELECT account, date_added, reason
		FROM ban_list
		ORDER BY account ASC
	`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list bans: %w", err)
	}
	defer rows.Close()

	var bans []*models.Ban
	for rows.Next() {
		var ban models.Ban
		if err := rows.Scan(&ban.Account, &ban.DateAdded, &ban.Reason); err != nil {
			return nil, fmt.Errorf("failed to scan ban: %w", err)
		}
		bans = append(bans, &ban)
	}

	return bans, rows.Err()
}

// GetByAccount returns the ban row for an account, nil when the account is
// not banned. A lookup failure is an error, not "no ban".
func (r *BanRepository) GetByAccount(ctx context.Context, account string) (*models.Ban, error) {
	query := `
		SELECT account, date_added, reason
		FROM ban_list
		WHERE account = $1
	`

	var ban models.Ban
	err := r.q.QueryRow(ctx, query, account).Scan(&ban.Account, &ban.DateAdded, &ban.Reason)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ban for %s: %w", account, err)
	}

	return &ban, nil
}
