package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"gridblitz.dev/platform/internal/api"
	"gridblitz.dev/platform/internal/broadcast"
	"gridblitz.dev/platform/internal/cache"
	"gridblitz.dev/platform/internal/config"
	"gridblitz.dev/platform/internal/db"
	"gridblitz.dev/platform/internal/echo"
	"gridblitz.dev/platform/internal/eventstore"
	"gridblitz.dev/platform/internal/middleware"
	"gridblitz.dev/platform/internal/repository"
	"gridblitz.dev/platform/internal/season"
)

// ServerCmd creates the server command group
func ServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "server",
		Short: "Server operations",
		Long:  "Start and manage the GridBlitz API server.",
	}

	cmd.AddCommand(ServerStartCmd())
	cmd.AddCommand(ServerHealthCmd())
	return cmd
}

// ServerStartCmd creates the start command
func ServerStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start the API server",
		Long:  "Start the GridBlitz HTTP server: the read-only game endpoints, the SSE broadcast, and the cron-invoked /api/simulate tick.",
		RunE:  startServer,
	}

	cmd.Flags().Bool("debug", false, "Enable debug mode (disables rate limiting)")
	return cmd
}

// ServerHealthCmd creates the health command
func ServerHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check server health",
		Long:  "Perform a health check against a running GridBlitz API server.",
		RunE:  checkHealth,
	}
}

func checkHealth(cmd *cobra.Command, args []string) error {
	echo.Header("Health Check")

	serverURL := "http://localhost:8080/health"
	echo.Infof("Checking: %s", serverURL)
	echo.Info("")

	resp, err := http.Get(serverURL)
	if err != nil {
		return fmt.Errorf("error: server is not running or unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		echo.Successf("✓ Server is healthy (Status: %s)", resp.Status)
		return nil
	}

	return fmt.Errorf("error: server returned status: %s", resp.Status)
}

func startServer(cmd *cobra.Command, args []string) error {
	echo.Header("Starting Server")
	echo.Info("Loading configuration...")

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("error: failed to load config: %w", err)
	}

	debugMode, _ := cmd.Flags().GetBool("debug")

	if debugMode {
		echo.Info("⚠ Debug mode enabled - rate limiting disabled")
	}
	if cfg.Cron.Secret == "" {
		echo.Info("⚠ No cron.secret configured - POST /api/simulate is unreachable until one is set")
	}

	echo.Info("Connecting to database...")
	database, err := db.Connect(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("error: %w", err)
	}
	defer database.Close()
	echo.Success("✓ Connected to database")

	echo.Info("Running migrations...")
	ctx := cmd.Context()
	if err := database.Migrate(ctx); err != nil {
		return fmt.Errorf("error: failed to migrate: %w", err)
	}
	echo.Success("✓ Schema up to date")

	echo.Info("Connecting event store...")
	events, err := eventstore.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("error: failed to connect event store: %w", err)
	}
	defer events.Close()
	echo.Success("✓ Event store connected")

	echo.Info("Connecting to Redis...")
	redisOpts, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("error: failed to parse Redis URL: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	if _, err := redisClient.Ping(cmd.Context()).Result(); err != nil {
		echo.Infof("⚠ Redis connection failed: %v", err)
		echo.Info("  Caching, rate limiting, and cross-process broadcast wakeups will be disabled")
		redisClient = nil
	} else {
		echo.Success("✓ Connected to Redis")
	}

	events.Notify = broadcast.NewFanout(redisClient)

	teams := repository.NewTeamRepository(database.DB)
	players := repository.NewPlayerRepository(database.DB)
	seasons := repository.NewSeasonRepository(database.DB)
	games := repository.NewGameRepository(database.DB)
	standings := repository.NewStandingsRepository(database.DB)

	controller := season.New(seasons, games, teams, players, standings, events)
	controller.Gaps = season.Gaps{
		InterGame:    time.Duration(cfg.Broadcast.InterGameGapSeconds) * time.Second,
		InterWeek:    time.Duration(cfg.Broadcast.InterWeekGapSeconds) * time.Second,
		Offseason:    time.Duration(cfg.Broadcast.OffseasonGapSeconds) * time.Second,
		ActionBudget: time.Duration(cfg.Broadcast.ActionBudgetSeconds) * time.Second,
	}

	stream := broadcast.New(games, events)
	stream.Config = broadcast.Config{
		HeartbeatInterval: time.Duration(cfg.Broadcast.HeartbeatIntervalSeconds) * time.Second,
		ReconnectAfter:    time.Duration(cfg.Broadcast.ReconnectSeconds) * time.Second,
		MaxEventDelay:     time.Duration(cfg.Broadcast.MaxEventDelaySeconds) * time.Second,
	}

	var cacheClient *cache.Client
	if redisClient != nil {
		cacheClient = cache.NewClient(redisClient, cache.Config{
			App:     "gridblitz",
			Env:     envName(debugMode),
			Version: cfg.Cache.Version,
			Enabled: cfg.Cache.Enabled,
			TTLs: cache.TTLConfig{
				Entity: time.Duration(cfg.Cache.TTLs.Entity) * time.Second,
				List:   time.Duration(cfg.Cache.TTLs.List) * time.Second,
				Search: time.Duration(cfg.Cache.TTLs.Search) * time.Second,
			},
		})
	}

	server := api.NewServer(api.Deps{
		Games:      games,
		Seasons:    seasons,
		Events:     events,
		Cache:      cacheClient,
		Controller: controller,
		Stream:     stream,
		CronSecret: cfg.Cron.Secret,
	})

	timeFmt := time.DateTime
	if debugMode {
		timeFmt = time.Kitchen
	}

	logger := log.NewWithOptions(cmd.OutOrStdout(), log.Options{
		ReportTimestamp: true,
		TimeFormat:      timeFmt,
		Prefix:          "🏈",
		ReportCaller:    debugMode,
	})

	rateLimiter := middleware.NewRateLimiter(redisClient, debugMode, 60, 60, time.Minute)

	var handler http.Handler = server
	handler = middleware.Logger(logger)(handler)

	if !debugMode && redisClient != nil {
		handler = rateLimiter.Middleware(handler)
		echo.Info("✓ Rate limiting enabled (60 req/min per caller)")
	} else {
		echo.Info("⚠ Rate limiting disabled (debug mode or Redis unavailable)")
	}

	echo.Info("✓ Request logging enabled")

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	echo.Success(fmt.Sprintf("✓ Server starting on %s", addr))
	echo.Info("Press Ctrl+C to stop")
	echo.Info("")
	return http.ListenAndServe(addr, handler)
}

func envName(debugMode bool) string {
	if debugMode {
		return "dev"
	}
	return "prod"
}
