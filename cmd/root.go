package cmd

import (
	"context"
	"fmt"
	"os"

	"jvdveen/dealwatch/config"
	"jvdveen/dealwatch/internal/refresh"
	"jvdveen/dealwatch/internal/scraper"
	"jvdveen/dealwatch/internal/store"
	"jvdveen/dealwatch/logger"
	"jvdveen/dealwatch/services/cache"
	"jvdveen/dealwatch/services/notifier"
	"jvdveen/dealwatch/services/publisher"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "dealwatch",
	Short: "Dealwatch - curated fashion deal tracker",
	Long:  "A curated deal tracker for fashion retailers with best-effort price and availability refresh.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("deals-file", "", "Path to the deals JSON file")
}

func initConfig() {
	// Load environment variables
	godotenv.Load()

	logger.Init()

	cfg = config.LoadConfig()

	// Override from flags
	if v, _ := rootCmd.PersistentFlags().GetString("deals-file"); v != "" {
		cfg.DealsFile = v
	}

	if err := cfg.Validate(); err != nil {
		logger.Default.Fatal().Err(err).Msg("Invalid configuration")
	}
}

// openStore opens the record store at the configured path.
func openStore() (*store.Store, error) {
	return store.Open(cfg.DealsFile)
}

// newScraper builds the fetcher with the cooldown guard cache when one is
// configured.
func newScraper() *scraper.Scraper {
	var cacheService cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheService = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Connected to Memcache at %s", cfg.MemcacheAddr)
	}

	return scraper.New(scraper.Config{
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.FetchTimeout,
		RespectRobots: cfg.RespectRobots,
		CooldownTTL:   cfg.RetailerBlockTime,
	}, cacheService)
}

// newRefresher wires the refresh orchestrator with the optional publisher
// and notifier backends. The returned cleanup closes the connections.
func newRefresher(ctx context.Context, st *store.Store) (*refresh.Refresher, func()) {
	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		pub = publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		logger.Info("Connected to Redis at %s (DB: %d, Stream: %s)", cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream)
	}

	var not notifier.Notifier
	if cfg.TelegramBotToken != "" {
		tg, err := notifier.NewTelegramNotifier(cfg.TelegramBotToken, cfg.TelegramChatID)
		if err != nil {
			logger.Default.Warn().Err(err).Msg("Telegram notifier unavailable, alerts disabled")
		} else {
			not = tg
		}
	}

	cleanup := func() {
		if pub != nil {
			pub.Close()
		}
		if not != nil {
			not.Close()
		}
	}

	return refresh.New(st, newScraper(), cfg.RefreshDelay, pub, not), cleanup
}
