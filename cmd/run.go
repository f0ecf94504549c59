package cmd

import (
	"context"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/OpNop/TINY-API/api"
	"github.com/OpNop/TINY-API/banner"
	"github.com/OpNop/TINY-API/cache"
	"github.com/OpNop/TINY-API/config"
	"github.com/OpNop/TINY-API/database"
	"github.com/OpNop/TINY-API/discord"
	"github.com/OpNop/TINY-API/gw2"
	"github.com/OpNop/TINY-API/repository"
	"github.com/OpNop/TINY-API/service"
	"github.com/OpNop/TINY-API/tasks"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connecting to token cache...")
	tokens, err := cache.NewTokenCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer func() {
		if err := tokens.Close(); err != nil {
			log.WithError(err).Warn("Error closing token cache")
		}
	}()

	gw2Client := gw2.NewClient()

	discordClient, err := discord.NewClient(cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("failed to create discord client: %w", err)
	}

	// Repositories
	logs := repository.NewLogRepository(db)
	lotteryEntries := repository.NewLotteryRepository(db)
	members := repository.NewMemberRepository(db)
	notes := repository.NewNoteRepository(db)
	bans := repository.NewBanRepository(db)
	stats := repository.NewGuildStatsRepository(db)

	// Services
	authService := service.NewAuthService(gw2Client, members, tokens, cfg.JWTKey, cfg.JWTIssuer)
	memberService := service.NewMemberService(members, notes, bans, gw2Client, discordClient)
	guildService := service.NewGuildService(logs, stats, gw2Client, cfg.GuildAPIKey, cfg.Guilds)
	lotteryService := service.NewLotteryService(lotteryEntries, cfg.LotteryExcludedAccounts)

	// Background tasks
	runner := tasks.NewRunner(gw2Client, time.Duration(cfg.TaskIntervalSeconds)*time.Second,
		tasks.NewStatsTask(stats, gw2Client, cfg.Guilds, cfg.StatsHourUTC),
		tasks.NewGuildLogTask(logs, lotteryEntries, gw2Client, cfg.Guilds),
		tasks.NewDiscordRefreshTask(members, discordClient),
		tasks.NewRawBackfillTask(logs, gw2Client, cfg.BackfillLimit),
	)
	go runner.Start(ctx)

	server := api.NewServer(cfg, authService, memberService, guildService, lotteryService,
		banner.NewGenerator(cfg.BannerImagePath))

	serverErr := make(chan error, 1)
	go func() {
		log.WithField("addr", cfg.ListenAddr).Infof("API is running in %s mode", cfg.Environment)
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("Error draining HTTP server")
	}

	log.Info("Shutdown completed")
	return nil
}
