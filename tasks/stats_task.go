package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/OpNop/TINY-API/config"
	"github.com/OpNop/TINY-API/models"
	"github.com/OpNop/TINY-API/service"
)

// StatsTask snapshots aggregate guild wealth and headcount once per UTC
// day: total vault coins across every tab of every guild plus the distinct
// account count across all rosters.
type StatsTask struct {
	stats   service.GuildStatsRepository
	gw2     service.GW2Client
	guilds  []config.Guild
	hourUTC int
	now     func() time.Time
}

// NewStatsTask creates the daily stats snapshot task
func NewStatsTask(stats service.GuildStatsRepository, gw2Client service.GW2Client, guilds []config.Guild, hourUTC int) *StatsTask {
	return &StatsTask{
		stats:   stats,
		gw2:     gw2Client,
		guilds:  guilds,
		hourUTC: hourUTC,
		now:     time.Now,
	}
}

func (t *StatsTask) Name() string { return "guild_stats" }

// Run writes at most one snapshot per day, and only within the configured
// hour so consecutive days measure at the same time.
func (t *StatsTask) Run(ctx context.Context) error {
	now := t.now().UTC()
	if now.Hour() != t.hourUTC {
		return nil
	}

	last, err := t.stats.LatestDate(ctx)
	if err != nil {
		return fmt.Errorf("latest snapshot date: %w", err)
	}
	if sameDay(last.UTC(), now) {
		return nil
	}

	var gold int64
	accounts := map[string]bool{}

	for _, guild := range t.guilds {
		log := logrus.WithField("guild", guild.Name)

		tabs, err := t.gw2.GuildStash(ctx, guild.APIKey, guild.ID)
		if err != nil {
			log.WithError(err).Warn("Stash unavailable, skipping guild in snapshot")
			continue
		}
		for _, tab := range tabs {
			gold += tab.Coins
		}

		members, err := t.gw2.GuildMembers(ctx, guild.APIKey, guild.ID)
		if err != nil {
			log.WithError(err).Warn("Roster unavailable, skipping guild in snapshot")
			continue
		}
		for _, member := range members {
			accounts[member.Name] = true
		}
	}

	stat := &models.GuildStat{
		Date:    now,
		Gold:    gold,
		Members: len(accounts),
	}
	if err := t.stats.Create(ctx, stat); err != nil {
		return fmt.Errorf("snapshot insert: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"gold":    stat.Gold,
		"members": stat.Members,
	}).Info("Recorded guild stats snapshot")
	return nil
}

func sameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
