package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/OpNop/TINY-API/database"
	"github.com/OpNop/TINY-API/models"
)

// memberUpdateColumns are the columns an API caller may set through the
// member update endpoint.
var memberUpdateColumns = map[string]bool{
	"discord":   true,
	"access":    true,
	"is_banned": true,
}

// MemberRepository implements member data access
type MemberRepository struct {
	q queryable
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{q: db.Pool}
}

// GetByAccount returns a member by account name, nil when not found.
func (r *MemberRepository) GetByAccount(ctx context.Context, account string) (*models.Member, error) {
	query := `
		SELECT account, discord, api_key, access, is_banned, created
		FROM members
		WHERE account = $1
	`

	var member models.Member
	err := r.q.QueryRow(ctx, query, account).Scan(
		&member.Account,
		&member.Discord,
		&member.APIKey,
		&member.Access,
		&member.IsBanned,
		&member.Created,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", account, err)
	}

	return &member, nil
}

// Search returns members whose account starts with the given prefix.
func (r *MemberRepository) Search(ctx context.Context, prefix string) ([]*models.Member, error) {
	query := `
		SELECT account, discord, api_key, access, is_banned, created
		FROM members
		WHERE account ILIKE $1 || '%'
		ORDER BY account ASC
	`

	rows, err := r.q.Query(ctx, query, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to search members: %w", err)
	}
	defer rows.Close()

	return scanMembers(rows)
}

// Update sets the given member fields. Column names outside the update
// whitelist are rejected.
func (r *MemberRepository) Update(ctx context.Context, account string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return fmt.Errorf("no fields to update")
	}

	set := make([]string, 0, len(fields))
	args := []interface{}{account}
	for column, value := range fields {
		if !memberUpdateColumns[column] {
			return fmt.Errorf("column %q may not be updated", column)
		}
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	query := fmt.Sprintf(`UPDATE members SET %s WHERE account = $1`, strings.Join(set, ", "))
	result, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update member %s: %w", account, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("member %s not found", account)
	}

	return nil
}

// SetAPIKey stores a member's GW2 API key.
func (r *MemberRepository) SetAPIKey(ctx context.Context, account, apiKey string) error {
	query := `UPDATE members SET api_key = $2 WHERE account = $1`

	result, err := r.q.Exec(ctx, query, account, apiKey)
	if err != nil {
		return fmt.Errorf("failed to set api key for %s: %w", account, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("member %s not found", account)
	}

	return nil
}

// ListMemberships returns the guilds a member belongs to, oldest first.
func (r *MemberRepository) ListMemberships(ctx context.Context, account string) ([]models.GuildMembership, error) {
	query := `
		SELECT account, guild_id, guild_name, rank, date_joined
		FROM v_members
		WHERE account = $1
		ORDER BY date_joined ASC
	`

	rows, err := r.q.Query(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("failed to list memberships for %s: %w", account, err)
	}
	defer rows.Close()

	var memberships []models.GuildMembership
	for rows.Next() {
		var m models.GuildMembership
		if err := rows.Scan(&m.Account, &m.GuildID, &m.GuildName, &m.Rank, &m.DateJoined); err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		memberships = append(memberships, m)
	}

	return memberships, rows.Err()
}

// ReplaceCharacters replaces a member's character list.
func (r *MemberRepository) ReplaceCharacters(ctx context.Context, account string, characters []models.Character) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM members_character WHERE account = $1`, account); err != nil {
		return fmt.Errorf("failed to clear characters for %s: %w", account, err)
	}

	for _, character := range characters {
		query := `
			INSERT INTO members_character (account, name, race, created)
			VALUES ($1, $2, $3, $4)
		`
		if _, err := r.q.Exec(ctx, query, account, character.Name, character.Race, character.Created); err != nil {
			return fmt.Errorf("failed to insert character %s for %s: %w", character.Name, account, err)
		}
	}

	return nil
}

// ListCharacters returns a member's characters sorted by name.
func (r *MemberRepository) ListCharacters(ctx context.Context, account string) ([]models.Character, error) {
	query := `
		SELECT account, name, race, created
		FROM members_character
		WHERE account = $1
		ORDER BY name ASC
	`

	rows, err := r.q.Query(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters for %s: %w", account, err)
	}
	defer rows.Close()

	var characters []models.Character
	for rows.Next() {
		var c models.Character
		if err := rows.Scan(&c.Account, &c.Name, &c.Race, &c.Created); err != nil {
			return nil, fmt.Errorf("failed to scan character: %w", err)
		}
		characters = append(characters, c)
	}

	return characters, rows.Err()
}

// GetDiscord returns a member's Discord link, nil when none exists.
func (r *MemberRepository) GetDiscord(ctx context.Context, account string) (*models.DiscordLink, error) {
	query := `
		SELECT account, id, username, discriminator, avatar, last_update
		FROM members_discord
		WHERE account = $1
	`

	var link models.DiscordLink
	err := r.q.QueryRow(ctx, query, account).Scan(
		&link.Account,
		&link.ID,
		&link.Username,
		&link.Discriminator,
		&link.Avatar,
		&link.LastUpdate,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get discord link for %s: %w", account, err)
	}

	return &link, nil
}

// UpsertDiscord creates or refreshes a member's Discord link.
func (r *MemberRepository) UpsertDiscord(ctx context.Context, link *models.DiscordLink) error {
	query := `
		INSERT INTO members_discord (account, id, username, discriminator, avatar, last_update)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (account) DO UPDATE
		SET id = EXCLUDED.id,
		    username = EXCLUDED.username,
		    discriminator = EXCLUDED.discriminator,
		    avatar = EXCLUDED.avatar,
		    last_update = NOW()
	`

	if _, err := r.q.Exec(ctx, query, link.Account, link.ID, link.Username, link.Discriminator, link.Avatar); err != nil {
		return fmt.Errorf("failed to upsert discord link for %s: %w", link.Account, err)
	}
	return nil
}

// DeleteDiscord removes a member's Discord link.
func (r *MemberRepository) DeleteDiscord(ctx context.Context, account string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM members_discord WHERE account = $1`, account); err != nil {
		return fmt.Errorf("failed to delete discord link for %s: %w", account, err)
	}
	return nil
}

// GetStalestDiscord returns the Discord link least recently refreshed and
// older than the cutoff, nil when nothing is stale.
func (r *MemberRepository) GetStalestDiscord(ctx context.Context, olderThan time.Time) (*models.DiscordLink, error) {
	query := `
		SELECT account, id, username, discriminator, avatar, last_update
		FROM members_discord
		WHERE last_update < $1
		ORDER BY last_update ASC
		LIMIT 1
	`

	var link models.DiscordLink
	err := r.q.QueryRow(ctx, query, olderThan).Scan(
		&link.Account,
		&link.ID,
		&link.Username,
		&link.Discriminator,
		&link.Avatar,
		&link.LastUpdate,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get stalest discord link: %w", err)
	}

	return &link, nil
}

func scanMembers(rows pgx.Rows) ([]*models.Member, error) {
	var members []*models.Member
	for rows.Next() {
		var member models.Member
		err := rows.Scan(
			&member.Account,
			&member.Discord,
			&member.APIKey,
			&member.Access,
			&member.IsBanned,
			&member.Created,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, &member)
	}

	return members, rows.Err()
}
