package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/OpNop/TINY-API/config"
	"github.com/OpNop/TINY-API/gw2"
	"github.com/OpNop/TINY-API/models"
)

var testGuilds = []config.Guild{
	{ID: "guild-1", Name: "TINY", APIKey: "leader-key-1"},
	{ID: "guild-2", Name: "TINYrc", APIKey: "leader-key-2"},
}

func TestGuildService_ListLogs(t *testing.T) {
	ctx := context.Background()

	t.Run("pages and totals", func(t *testing.T) {
		logs := new(MockLogRepository)
		logs.On("List", ctx, models.LogFilter{GuildID: "guild-1", Page: 2, Limit: 20}).
			Return([]*models.LogEntry{{ID: 51}}, int64(101), nil)

		svc := NewGuildService(logs, new(MockGuildStatsRepository), new(MockGW2Client), "info-key", testGuilds)
		page, err := svc.ListLogs(ctx, models.LogFilter{GuildID: "guild-1", Page: 2})

		require.NoError(t, err)
		assert.Equal(t, 2, page.Page)
		assert.Equal(t, 20, page.PageSize)
		assert.Equal(t, int64(101), page.Total)
		assert.Equal(t, int64(6), page.PageTotal)
	})

	t.Run("empty table still reports one page", func(t *testing.T) {
		logs := new(MockLogRepository)
		logs.On("List", ctx, models.LogFilter{Page: 1, Limit: 20}).
			Return([]*models.LogEntry{}, int64(0), nil)

		svc := NewGuildService(logs, new(MockGuildStatsRepository), new(MockGW2Client), "info-key", testGuilds)
		page, err := svc.ListLogs(ctx, models.LogFilter{})

		require.NoError(t, err)
		assert.Equal(t, int64(1), page.PageTotal)
	})

	t.Run("unknown type filter is a bad request", func(t *testing.T) {
		svc := NewGuildService(new(MockLogRepository), new(MockGuildStatsRepository), new(MockGW2Client), "info-key", testGuilds)
		_, err := svc.ListLogs(ctx, models.LogFilter{Type: "motd"})
		assert.ErrorIs(t, err, ErrBadRequest)
	})

	t.Run("known type filters pass through", func(t *testing.T) {
		logs := new(MockLogRepository)
		logs.On("List", ctx, models.LogFilter{Type: models.EventStash, Page: 1, Limit: 20}).
			Return([]*models.LogEntry{}, int64(0), nil)

		svc := NewGuildService(logs, new(MockGuildStatsRepository), new(MockGW2Client), "info-key", testGuilds)
		_, err := svc.ListLogs(ctx, models.LogFilter{Type: models.EventStash})
		assert.NoError(t, err)
	})

	t.Run("oversized page size is clamped", func(t *testing.T) {
		logs := new(MockLogRepository)
		logs.On("List", ctx, models.LogFilter{Page: 1, Limit: 200}).
			Return([]*models.LogEntry{}, int64(0), nil)

		svc := NewGuildService(logs, new(MockGuildStatsRepository), new(MockGW2Client), "info-key", testGuilds)
		_, err := svc.ListLogs(ctx, models.LogFilter{Limit: 5000})
		assert.NoError(t, err)
		logs.AssertExpectations(t)
	})
}

func TestGuildService_Roster(t *testing.T) {
	ctx := context.Background()

	t.Run("uses the guild's own leader key", func(t *testing.T) {
		gw2Client := new(MockGW2Client)
		gw2Client.On("GuildMembers", ctx, "leader-key-2", "guild-2").
			Return([]gw2.GuildMember{{Name: "alice.1234", Rank: "Leader"}}, nil)

		svc := NewGuildService(new(MockLogRepository), new(MockGuildStatsRepository), gw2Client, "info-key", testGuilds)
		members, err := svc.Roster(ctx, "guild-2")

		require.NoError(t, err)
		assert.Len(t, members, 1)
		gw2Client.AssertExpectations(t)
	})

	t.Run("untracked guild is not found", func(t *testing.T) {
		svc := NewGuildService(new(MockLogRepository), new(MockGuildStatsRepository), new(MockGW2Client), "info-key", testGuilds)
		_, err := svc.Roster(ctx, "guild-999")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestGuildService_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults and clamps the limit", func(t *testing.T) {
		stats := new(MockGuildStatsRepository)
		stats.On("List", ctx, 30).Return([]*models.GuildStat{{ID: 1, Gold: 1250000, Members: 412}}, nil)
		stats.On("List", ctx, 365).Return([]*models.GuildStat{}, nil)

		svc := NewGuildService(new(MockLogRepository), stats, new(MockGW2Client), "info-key", testGuilds)

		snapshots, err := svc.Stats(ctx, 0)
		require.NoError(t, err)
		require.Len(t, snapshots, 1)
		assert.Equal(t, int64(1250000), snapshots[0].Gold)

		_, err = svc.Stats(ctx, 10000)
		require.NoError(t, err)
		stats.AssertExpectations(t)
	})

	t.Run("storage failure surfaces", func(t *testing.T) {
		stats := new(MockGuildStatsRepository)
		stats.On("List", ctx, 30).Return(nil, assert.AnError)

		svc := NewGuildService(new(MockLogRepository), stats, new(MockGW2Client), "info-key", testGuilds)
		_, err := svc.Stats(ctx, 0)
		assert.ErrorIs(t, err, ErrStorage)
	})
}

func TestGuildService_Guilds(t *testing.T) {
	svc := NewGuildService(new(MockLogRepository), new(MockGuildStatsRepository), new(MockGW2Client), "info-key", testGuilds)

	guilds := svc.Guilds()
	require.Len(t, guilds, 2)
	for _, g := range guilds {
		assert.Empty(t, g.APIKey)
	}
}
