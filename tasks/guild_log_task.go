package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/OpNop/TINY-API/config"
	"github.com/OpNop/TINY-API/gw2"
	"github.com/OpNop/TINY-API/models"
	"github.com/OpNop/TINY-API/service"
)

// GuildLogTask polls each guild's log since its high-water mark, classifies
// new events into readable log rows and records qualifying coin deposits as
// lottery entries.
type GuildLogTask struct {
	logs    service.LogRepository
	lottery service.LotteryRepository
	gw2     service.GW2Client
	guilds  []config.Guild
}

// NewGuildLogTask creates the log ingestion task
func NewGuildLogTask(logs service.LogRepository, lottery service.LotteryRepository, gw2Client service.GW2Client, guilds []config.Guild) *GuildLogTask {
	return &GuildLogTask{
		logs:    logs,
		lottery: lottery,
		gw2:     gw2Client,
		guilds:  guilds,
	}
}

func (t *GuildLogTask) Name() string { return "guild_log" }

// Run ingests new log events for every configured guild. One guild failing
// never blocks the others.
func (t *GuildLogTask) Run(ctx context.Context) error {
	for _, guild := range t.guilds {
		if err := t.ingestGuild(ctx, guild); err != nil {
			logrus.WithError(err).WithField("guild", guild.Name).Warn("Guild ingestion skipped")
		}
	}
	return nil
}

func (t *GuildLogTask) ingestGuild(ctx context.Context, guild config.Guild) error {
	log := logrus.WithField("guild", guild.Name)

	logMark, err := t.logs.MaxAPIID(ctx, guild.ID)
	if err != nil {
		return fmt.Errorf("log high-water mark: %w", err)
	}
	lotteryMark, err := t.lottery.MaxAPIID(ctx, guild.ID)
	if err != nil {
		return fmt.Errorf("lottery high-water mark: %w", err)
	}

	// One poll serves both tables. Each table applies its own mark, so a
	// crash between the two writes heals on the next run.
	since := logMark
	if lotteryMark < since {
		since = lotteryMark
	}

	events, err := t.gw2.GuildLogSince(ctx, guild.APIKey, guild.ID, since)
	if err != nil {
		return fmt.Errorf("log poll: %w", err)
	}
	if len(events) == 0 {
		return nil
	}

	// The API returns newest first, process oldest first
	for i := len(events) - 1; i >= 0; i-- {
		event := events[i]

		if event.ID > logMark {
			if err := t.recordLogEntry(ctx, guild, event); err != nil {
				log.WithError(err).WithField("api_id", event.ID).Warn("Log entry skipped")
			}
		}

		if event.ID > lotteryMark && isLotteryDeposit(event) {
			if err := t.recordLotteryEntry(ctx, guild, event); err != nil {
				log.WithError(err).WithField("api_id", event.ID).Warn("Lottery entry skipped")
			}
		}
	}

	return nil
}

func (t *GuildLogTask) recordLogEntry(ctx context.Context, guild config.Guild, event gw2.LogEvent) error {
	message, ok := t.classify(ctx, &event)
	if !ok {
		return nil
	}

	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal raw payload: %w", err)
	}

	return t.logs.Create(ctx, &models.LogEntry{
		APIID:   event.ID,
		GuildID: guild.ID,
		Date:    event.Time,
		Account: event.User,
		Type:    event.Type,
		Message: message,
		Raw:     raw,
	})
}

func (t *GuildLogTask) recordLotteryEntry(ctx context.Context, guild config.Guild, event gw2.LogEvent) error {
	return t.lottery.Create(ctx, &models.LotteryEntry{
		APIID:   event.ID,
		GuildID: guild.ID,
		Time:    event.Time,
		Account: event.User,
		Coins:   event.Coins,
	})
}

// classify renders an event into its display message. Events that produce
// no row (upgrades, unknown kinds) return ok=false. Item names resolved
// here are written back onto the event so they land in the raw payload.
func (t *GuildLogTask) classify(ctx context.Context, event *gw2.LogEvent) (string, bool) {
	switch event.Type {
	case models.EventJoined:
		return fmt.Sprintf("%s has joined the guild", event.User), true

	case models.EventInvited:
		return fmt.Sprintf("%s invited %s", event.InvitedBy, event.User), true

	case models.EventKick:
		if event.User == event.KickedBy {
			return fmt.Sprintf("%s has left the guild", event.User), true
		}
		return fmt.Sprintf("%s was kicked by %s", event.User, event.KickedBy), true

	case models.EventRankChange:
		return fmt.Sprintf("%s changed the rank of %s from %s to %s",
			event.ChangedBy, event.User, event.OldRank, event.NewRank), true

	case models.EventTreasury:
		return fmt.Sprintf("%s deposited %d %s", event.User, event.Count, t.itemName(ctx, event)), true

	case models.EventStash:
		return t.classifyStash(ctx, event)

	case models.EventUpgrade:
		return "", false

	default:
		logrus.WithFields(logrus.Fields{
			"type":   event.Type,
			"api_id": event.ID,
		}).Info("Unknown log event type")
		return "", false
	}
}

func (t *GuildLogTask) classifyStash(ctx context.Context, event *gw2.LogEvent) (string, bool) {
	switch event.Operation {
	case "deposit":
		if event.Coins > 0 {
			return fmt.Sprintf("%s deposited %d", event.User, event.Coins), true
		}
		return fmt.Sprintf("%s deposited %d %s", event.User, event.Count, t.itemName(ctx, event)), true

	case "withdraw":
		if event.Coins > 0 {
			return fmt.Sprintf("%s withdrew %d", event.User, event.Coins), true
		}
		return fmt.Sprintf("%s withdrew %d %s", event.User, event.Count, t.itemName(ctx, event)), true

	case "move":
		return fmt.Sprintf("%s moved an item around in the vault", event.User), true

	default:
		return "", false
	}
}

// itemName resolves the item display name, falling back to the numeric id
// when the lookup fails. The resolved name sticks to the event so the raw
// payload carries it.
func (t *GuildLogTask) itemName(ctx context.Context, event *gw2.LogEvent) string {
	if event.ItemID == 0 {
		return "unknown item"
	}

	item, err := t.gw2.Item(ctx, event.ItemID)
	if err != nil {
		logrus.WithError(err).WithField("item_id", event.ItemID).Warn("Item lookup failed")
		return fmt.Sprintf("item %d", event.ItemID)
	}

	event.ItemName = item.Name
	return item.Name
}

func isLotteryDeposit(event gw2.LogEvent) bool {
	return event.Type == models.EventStash && event.Operation == "deposit" && event.Coins > 0
}
