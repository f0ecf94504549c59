package testutil

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/OpNop/TINY-API/database"
	"github.com/OpNop/TINY-API/models"

	"github.com/stretchr/testify/require"
)

// CreateTestLogEntry creates a log entry with default values
func CreateTestLogEntry(apiID int64, guildID, account, eventType string) *models.LogEntry {
	return &models.LogEntry{
		APIID:   apiID,
		GuildID: guildID,
		Date:    time.Now().UTC().Truncate(time.Second),
		Account: account,
		Type:    eventType,
		Message: account + " did something",
		Raw:     json.RawMessage(`{"id":` + strconv.FormatInt(apiID, 10) + `,"type":"` + eventType + `"}`),
	}
}

// CreateTestLotteryEntry creates a lottery entry with default values
func CreateTestLotteryEntry(apiID int64, guildID, account string, coins int64) *models.LotteryEntry {
	return &models.LotteryEntry{
		APIID:   apiID,
		GuildID: guildID,
		Time:    time.Now().UTC().Truncate(time.Second),
		Account: account,
		Coins:   coins,
	}
}

// SeedMember inserts a member row directly. Members are created out of band
// in production (roster import), so the repository has no Create to use.
func SeedMember(t *testing.T, db *database.DB, account string, access int) {
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO members (account, access) VALUES ($1, $2)`,
		account, access)
	require.NoError(t, err)
}

// SeedGuild inserts a guild row for the v_members view join.
func SeedGuild(t *testing.T, db *database.DB, guildID, name string) {
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO guilds (guild_id, name) VALUES ($1, $2)`,
		guildID, name)
	require.NoError(t, err)
}

// SeedGuildMembership links an account to a guild with a rank.
func SeedGuildMembership(t *testing.T, db *database.DB, account, guildID, rank string) {
	joined := time.Now().UTC().Truncate(time.Second)
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO members_guild (account, guild_id, rank, date_joined) VALUES ($1, $2, $3, $4)`,
		account, guildID, rank, joined)
	require.NoError(t, err)
}

// SeedBan inserts a ban-list row.
func SeedBan(t *testing.T, db *database.DB, account, reason string) {
	_, err := db.Pool.Exec(context.Background(),
		`INSERT INTO ban_list (account, reason) VALUES ($1, $2)`,
		account, reason)
	require.NoError(t, err)
}
