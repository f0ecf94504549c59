package service

import (
	"context"
	"fmt"

	"github.com/OpNop/TINY-API/config"
	"github.com/OpNop/TINY-API/gw2"
	"github.com/OpNop/TINY-API/models"
)

const (
	defaultLogPageSize = 20
	maxLogPageSize     = 200

	defaultStatsLimit = 30
	maxStatsLimit     = 365
)

// LogPage is one page of guild log entries plus the totals the pagination
// headers are built from.
type LogPage struct {
	Entries   []*models.LogEntry
	Page      int
	PageSize  int
	Total     int64
	PageTotal int64
}

// GuildService serves stored guild logs and proxies live guild info from
// the game API.
type GuildService struct {
	logs        LogRepository
	stats       GuildStatsRepository
	gw2         GW2Client
	guildAPIKey string
	guilds      []config.Guild
}

// NewGuildService creates a new guild service
func NewGuildService(logs LogRepository, stats GuildStatsRepository, gw2Client GW2Client, guildAPIKey string, guilds []config.Guild) *GuildService {
	return &GuildService{
		logs:        logs,
		stats:       stats,
		gw2:         gw2Client,
		guildAPIKey: guildAPIKey,
		guilds:      guilds,
	}
}

// ListLogs returns one page of stored log entries, newest first. An unknown
// type filter is rejected rather than silently matching nothing.
func (s *GuildService) ListLogs(ctx context.Context, filter models.LogFilter) (*LogPage, error) {
	if filter.Type != "" && !validLogType(filter.Type) {
		return nil, fmt.Errorf("%w: unknown log type %q", ErrBadRequest, filter.Type)
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLogPageSize
	}
	if filter.Limit > maxLogPageSize {
		filter.Limit = maxLogPageSize
	}

	entries, total, err := s.logs.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: log listing: %v", ErrStorage, err)
	}

	pageTotal := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 || total == 0 {
		pageTotal++
	}

	return &LogPage{
		Entries:   entries,
		Page:      filter.Page,
		PageSize:  filter.Limit,
		Total:     total,
		PageTotal: pageTotal,
	}, nil
}

// Details proxies the guild info endpoint for a configured guild.
func (s *GuildService) Details(ctx context.Context, guildID string) (*gw2.GuildDetails, error) {
	if _, ok := s.findGuild(guildID); !ok {
		return nil, fmt.Errorf("%w: guild %s is not tracked", ErrNotFound, guildID)
	}

	details, err := s.gw2.GuildDetails(ctx, s.guildAPIKey, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: guild details: %v", ErrUpstream, err)
	}
	return details, nil
}

// Roster proxies the live guild member list for a configured guild.
func (s *GuildService) Roster(ctx context.Context, guildID string) ([]gw2.GuildMember, error) {
	guild, ok := s.findGuild(guildID)
	if !ok {
		return nil, fmt.Errorf("%w: guild %s is not tracked", ErrNotFound, guildID)
	}

	members, err := s.gw2.GuildMembers(ctx, guild.APIKey, guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: guild roster: %v", ErrUpstream, err)
	}
	return members, nil
}

// Stats returns daily snapshots, newest first.
func (s *GuildService) Stats(ctx context.Context, limit int) ([]*models.GuildStat, error) {
	if limit < 1 {
		limit = defaultStatsLimit
	}
	if limit > maxStatsLimit {
		limit = maxStatsLimit
	}

	stats, err := s.stats.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: stats listing: %v", ErrStorage, err)
	}
	return stats, nil
}

// Guilds returns the configured guild list without API keys.
func (s *GuildService) Guilds() []config.Guild {
	out := make([]config.Guild, len(s.guilds))
	for i, g := range s.guilds {
		out[i] = config.Guild{ID: g.ID, Name: g.Name}
	}
	return out
}

func (s *GuildService) findGuild(guildID string) (config.Guild, bool) {
	for _, g := range s.guilds {
		if g.ID == guildID {
			return g, true
		}
	}
	return config.Guild{}, false
}

func validLogType(t string) bool {
	for _, valid := range models.ValidLogTypes {
		if t == valid {
			return true
		}
	}
	return false
}
