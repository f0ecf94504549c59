package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/OpNop/TINY-API/database"
	"github.com/OpNop/TINY-API/models"
)

// LotteryRepository implements lottery entry data access
type LotteryRepository struct {
	q queryable
}

// NewLotteryRepository creates a new lottery repository
func NewLotteryRepository(db *database.DB) *LotteryRepository {
	return &LotteryRepository{q: db.Pool}
}

// MaxAPIID returns the lottery ingestion high-water mark for a guild,
// tracked independently of the log table's mark.
func (r *LotteryRepository) MaxAPIID(ctx context.Context, guildID string) (int64, error) {
	query := `SELECT COALESCE(MAX(api_id), 0) FROM lottery_entries WHERE guild_id = $1`

	var maxID int64
	if err := r.q.QueryRow(ctx, query, guildID).Scan(&maxID); err != nil {
		return 0, fmt.Errorf("failed to get max api_id for guild %s: %w", guildID, err)
	}
	return maxID, nil
}

// Create inserts a lottery entry
func (r *LotteryRepository) Create(ctx context.Context, entry *models.LotteryEntry) error {
	query := `
		INSERT INTO lottery_entries (api_id, guild_id, time, account, coins)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		entry.APIID,
		entry.GuildID,
		entry.Time,
		entry.Account,
		entry.Coins,
	).Scan(&entry.ID)
	if err != nil {
		return fmt.Errorf("failed to create lottery entry %d for guild %s: %w", entry.APIID, entry.GuildID, err)
	}

	return nil
}

// SumCoinsByAccountSince returns per-account coin sums for deposits at or
// after the window start.
func (r *LotteryRepository) SumCoinsByAccountSince(ctx context.Context, since time.Time) ([]models.AccountCoins, error) {
	query := `
		SELECT account, SUM(coins) AS coins
		FROM lottery_entries
		WHERE time >= $1
		GROUP BY account
	`

	rows, err := r.q.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("failed to sum lottery coins: %w", err)
	}
	defer rows.Close()

	var sums []models.AccountCoins
	for rows.Next() {
		var sum models.AccountCoins
		if err := rows.Scan(&sum.Account, &sum.Coins); err != nil {
			return nil, fmt.Errorf("failed to scan coin sum: %w", err)
		}
		sums = append(sums, sum)
	}

	return sums, rows.Err()
}

// SumCoinsForAccountSince returns one account's coin sum within the window.
func (r *LotteryRepository) SumCoinsForAccountSince(ctx context.Context, account string, since time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(coins), 0)
		FROM lottery_entries
		WHERE account = $1 AND time >= $2
	`

	var sum int64
	if err := r.q.QueryRow(ctx, query, account, since).Scan(&sum); err != nil {
		return 0, fmt.Errorf("failed to sum coins for account %s: %w", account, err)
	}
	return sum, nil
}

// ListByAccount returns an account's full deposit history, newest first.
func (r *LotteryRepository) ListByAccount(ctx context.Context, account string) ([]*models.LotteryEntry, error) {
	query := `
		SELECT id, api_id, guild_id, time, account, coins
		FROM lottery_entries
		WHERE account = $1
		ORDER BY time DESC
	`

	rows, err := r.q.Query(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("failed to list lottery entries for %s: %w", account, err)
	}
	defer rows.Close()

	var entries []*models.LotteryEntry
	for rows.Next() {
		var entry models.LotteryEntry
		err := rows.Scan(
			&entry.ID,
			&entry.APIID,
			&entry.GuildID,
			&entry.Time,
			&entry.Account,
			&entry.Coins,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan lottery entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}
