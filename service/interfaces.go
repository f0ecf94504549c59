package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/OpNop/TINY-API/discord"
	"github.com/OpNop/TINY-API/gw2"
	"github.com/OpNop/TINY-API/models"
)

// LogRepository defines guild log data access
type LogRepository interface {
	MaxAPIID(ctx context.Context, guildID string) (int64, error)
	Create(ctx context.Context, entry *models.LogEntry) error
	List(ctx context.Context, filter models.LogFilter) ([]*models.LogEntry, int64, error)
	ListTreasuryMissingItemName(ctx context.Context, limit int) ([]*models.LogEntry, error)
	UpdateRaw(ctx context.Context, guildID string, apiID int64, raw json.RawMessage) error
}

// LotteryRepository defines lottery entry data access
type LotteryRepository interface {
	MaxAPIID(ctx context.Context, guildID string) (int64, error)
	Create(ctx context.Context, entry *models.LotteryEntry) error
	SumCoinsByAccountSince(ctx context.Context, since time.Time) ([]models.AccountCoins, error)
	SumCoinsForAccountSince(ctx context.Context, account string, since time.Time) (int64, error)
	ListByAccount(ctx context.Context, account string) ([]*models.LotteryEntry, error)
}

// MemberRepository defines member data access
type MemberRepository interface {
	GetByAccount(ctx context.Context, account string) (*models.Member, error)
	Search(ctx context.Context, prefix string) ([]*models.Member, error)
	Update(ctx context.Context, account string, fields map[string]interface{}) error
	SetAPIKey(ctx context.Context, account, apiKey string) error
	ListMemberships(ctx context.Context, account string) ([]models.GuildMembership, error)
	ReplaceCharacters(ctx context.Context, account string, characters []models.Character) error
	ListCharacters(ctx context.Context, account string) ([]models.Character, error)
	GetDiscord(ctx context.Context, account string) (*models.DiscordLink, error)
	UpsertDiscord(ctx context.Context, link *models.DiscordLink) error
	DeleteDiscord(ctx context.Context, account string) error
	GetStalestDiscord(ctx context.Context, olderThan time.Time) (*models.DiscordLink, error)
}

// NoteRepository defines member note data access
type NoteRepository interface {
	Create(ctx context.Context, note *models.Note) error
	List(ctx context.Context, account string, limit int) ([]*models.Note, error)
}

// BanRepository defines ban list data access
type BanRepository interface {
	List(ctx context.Context) ([]*models.Ban, error)
	GetByAccount(ctx context.Context, account string) (*models.Ban, error)
}

// GuildStatsRepository defines stats snapshot data access
type GuildStatsRepository interface {
	Create(ctx context.Context, stat *models.GuildStat) error
	LatestDate(ctx context.Context) (time.Time, error)
	List(ctx context.Context, limit int) ([]*models.GuildStat, error)
}

// GW2Client defines the game API operations the system consumes
type GW2Client interface {
	Build(ctx context.Context) (int64, error)
	GuildLogSince(ctx context.Context, apiKey, guildID string, sinceID int64) ([]gw2.LogEvent, error)
	GuildMembers(ctx context.Context, apiKey, guildID string) ([]gw2.GuildMember, error)
	GuildDetails(ctx context.Context, apiKey, guildID string) (*gw2.GuildDetails, error)
	GuildStash(ctx context.Context, apiKey, guildID string) ([]gw2.StashTab, error)
	Item(ctx context.Context, id int64) (*gw2.Item, error)
	AccountByToken(ctx context.Context, token string) (*gw2.Account, error)
	CharactersByToken(ctx context.Context, token string) ([]gw2.Character, error)
}

// DiscordClient defines Discord user metadata lookup
type DiscordClient interface {
	GetUser(id string) (*discord.User, error)
}

// TokenCache defines refresh-token storage
type TokenCache interface {
	Set(ctx context.Context, token string, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}
