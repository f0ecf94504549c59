package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/OpNop/TINY-API/discord"
	"github.com/OpNop/TINY-API/gw2"
	"github.com/OpNop/TINY-API/models"
)

// MockLogRepository is a mock implementation of LogRepository
type MockLogRepository struct {
	mock.Mock
}

func (m *MockLogRepository) MaxAPIID(ctx context.Context, guildID string) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLogRepository) Create(ctx context.Context, entry *models.LogEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLogRepository) List(ctx context.Context, filter models.LogFilter) ([]*models.LogEntry, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*models.LogEntry), args.Get(1).(int64), args.Error(2)
}

func (m *MockLogRepository) ListTreasuryMissingItemName(ctx context.Context, limit int) ([]*models.LogEntry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LogEntry), args.Error(1)
}

func (m *MockLogRepository) UpdateRaw(ctx context.Context, guildID string, apiID int64, raw json.RawMessage) error {
	args := m.Called(ctx, guildID, apiID, raw)
	return args.Error(0)
}

// MockLotteryRepository is a mock implementation of LotteryRepository
type MockLotteryRepository struct {
	mock.Mock
}

func (m *MockLotteryRepository) MaxAPIID(ctx context.Context, guildID string) (int64, error) {
	args := m.Called(ctx, guildID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLotteryRepository) Create(ctx context.Context, entry *models.LotteryEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLotteryRepository) SumCoinsByAccountSince(ctx context.Context, since time.Time) ([]models.AccountCoins, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.AccountCoins), args.Error(1)
}

func (m *MockLotteryRepository) SumCoinsForAccountSince(ctx context.Context, account string, since time.Time) (int64, error) {
	args := m.Called(ctx, account, since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLotteryRepository) ListByAccount(ctx context.Context, account string) ([]*models.LotteryEntry, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LotteryEntry), args.Error(1)
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) GetByAccount(ctx context.Context, account string) (*models.Member, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) Search(ctx context.Context, prefix string) ([]*models.Member, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Member), args.Error(1)
}

func (m *MockMemberRepository) Update(ctx context.Context, account string, fields map[string]interface{}) error {
	args := m.Called(ctx, account, fields)
	return args.Error(0)
}

func (m *MockMemberRepository) SetAPIKey(ctx context.Context, account, apiKey string) error {
	args := m.Called(ctx, account, apiKey)
	return args.Error(0)
}

func (m *MockMemberRepository) ListMemberships(ctx context.Context, account string) ([]models.GuildMembership, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.GuildMembership), args.Error(1)
}

func (m *MockMemberRepository) ReplaceCharacters(ctx context.Context, account string, characters []models.Character) error {
	args := m.Called(ctx, account, characters)
	return args.Error(0)
}

func (m *MockMemberRepository) ListCharacters(ctx context.Context, account string) ([]models.Character, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Character), args.Error(1)
}

func (m *MockMemberRepository) GetDiscord(ctx context.Context, account string) (*models.DiscordLink, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordLink), args.Error(1)
}

func (m *MockMemberRepository) UpsertDiscord(ctx context.Context, link *models.DiscordLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockMemberRepository) DeleteDiscord(ctx context.Context, account string) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockMemberRepository) GetStalestDiscord(ctx context.Context, olderThan time.Time) (*models.DiscordLink, error) {
	args := m.Called(ctx, olderThan)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DiscordLink), args.Error(1)
}

// MockNoteRepository is a mock implementation of NoteRepository
type MockNoteRepository struct {
	mock.Mock
}

func (m *MockNoteRepository) Create(ctx context.Context, note *models.Note) error {
	args := m.Called(ctx, note)
	return args.Error(0)
}

func (m *MockNoteRepository) List(ctx context.Context, account string, limit int) ([]*models.Note, error) {
	args := m.Called(ctx, account, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Note), args.Error(1)
}

// MockBanRepository is a mock implementation of BanRepository
type MockBanRepository struct {
	mock.Mock
}

func (m *MockBanRepository) List(ctx context.Context) ([]*models.Ban, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ban), args.Error(1)
}

func (m *MockBanRepository) GetByAccount(ctx context.Context, account string) (*models.Ban, error) {
	args := m.Called(ctx, account)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ban), args.Error(1)
}

// MockGuildStatsRepository is a mock implementation of GuildStatsRepository
type MockGuildStatsRepository struct {
	mock.Mock
}

func (m *MockGuildStatsRepository) Create(ctx context.Context, stat *models.GuildStat) error {
	args := m.Called(ctx, stat)
	return args.Error(0)
}

func (m *MockGuildStatsRepository) LatestDate(ctx context.Context) (time.Time, error) {
	args := m.Called(ctx)
	return args.Get(0).(time.Time), args.Error(1)
}

func (m *MockGuildStatsRepository) List(ctx context.Context, limit int) ([]*models.GuildStat, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.GuildStat), args.Error(1)
}

// MockGW2Client is a mock implementation of GW2Client
type MockGW2Client struct {
	mock.Mock
}

func (m *MockGW2Client) Build(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockGW2Client) GuildLogSince(ctx context.Context, apiKey, guildID string, sinceID int64) ([]gw2.LogEvent, error) {
	args := m.Called(ctx, apiKey, guildID, sinceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gw2.LogEvent), args.Error(1)
}

func (m *MockGW2Client) GuildMembers(ctx context.Context, apiKey, guildID string) ([]gw2.GuildMember, error) {
	args := m.Called(ctx, apiKey, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gw2.GuildMember), args.Error(1)
}

func (m *MockGW2Client) GuildDetails(ctx context.Context, apiKey, guildID string) (*gw2.GuildDetails, error) {
	args := m.Called(ctx, apiKey, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gw2.GuildDetails), args.Error(1)
}

func (m *MockGW2Client) GuildStash(ctx context.Context, apiKey, guildID string) ([]gw2.StashTab, error) {
	args := m.Called(ctx, apiKey, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gw2.StashTab), args.Error(1)
}

func (m *MockGW2Client) Item(ctx context.Context, id int64) (*gw2.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gw2.Item), args.Error(1)
}

func (m *MockGW2Client) AccountByToken(ctx context.Context, token string) (*gw2.Account, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gw2.Account), args.Error(1)
}

func (m *MockGW2Client) CharactersByToken(ctx context.Context, token string) ([]gw2.Character, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]gw2.Character), args.Error(1)
}

// MockDiscordClient is a mock implementation of DiscordClient
type MockDiscordClient struct {
	mock.Mock
}

func (m *MockDiscordClient) GetUser(id string) (*discord.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*discord.User), args.Error(1)
}

// MockTokenCache is a mock implementation of TokenCache
type MockTokenCache struct {
	mock.Mock
}

func (m *MockTokenCache) Set(ctx context.Context, token string, session *models.Session) error {
	args := m.Called(ctx, token, session)
	return args.Error(0)
}

func (m *MockTokenCache) Get(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Session), args.Error(1)
}

func (m *MockTokenCache) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}
