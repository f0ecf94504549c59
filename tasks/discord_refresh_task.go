package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/OpNop/TINY-API/models"
	"github.com/OpNop/TINY-API/service"
)

// discordStaleAfter is how old a Discord link row gets before it is
// refreshed from the Discord API.
const discordStaleAfter = 24 * time.Hour

// DiscordRefreshTask keeps Discord usernames and avatars current by
// refreshing the single stalest link per run. One row per cycle keeps the
// Discord API rate limits comfortable.
type DiscordRefreshTask struct {
	members service.MemberRepository
	discord service.DiscordClient
	now     func() time.Time
}

// NewDiscordRefreshTask creates the Discord metadata refresh task
func NewDiscordRefreshTask(members service.MemberRepository, discordClient service.DiscordClient) *DiscordRefreshTask {
	return &DiscordRefreshTask{
		members: members,
		discord: discordClient,
		now:     time.Now,
	}
}

func (t *DiscordRefreshTask) Name() string { return "discord_refresh" }

func (t *DiscordRefreshTask) Run(ctx context.Context) error {
	link, err := t.members.GetStalestDiscord(ctx, t.now().Add(-discordStaleAfter))
	if err != nil {
		return fmt.Errorf("stalest link lookup: %w", err)
	}
	if link == nil {
		return nil
	}

	log := logrus.WithField("account", link.Account)

	user, err := t.discord.GetUser(link.ID)
	if err != nil {
		log.WithError(err).Warn("Discord lookup failed, will retry next cycle")
		return nil
	}

	err = t.members.UpsertDiscord(ctx, &models.DiscordLink{
		Account:       link.Account,
		ID:            user.ID,
		Username:      user.Username,
		Discriminator: user.Discriminator,
		Avatar:        user.Avatar,
	})
	if err != nil {
		return fmt.Errorf("link refresh for %s: %w", link.Account, err)
	}

	log.Debug("Refreshed Discord metadata")
	return nil
}
