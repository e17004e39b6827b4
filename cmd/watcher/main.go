package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"visa_slot_watcher/internal/app"
	"visa_slot_watcher/internal/domain/schedule"
	"visa_slot_watcher/internal/infra/config"
	idb "visa_slot_watcher/internal/infra/database"
	"visa_slot_watcher/internal/infra/logger"
	"visa_slot_watcher/internal/infra/scheduler"
	"visa_slot_watcher/internal/infra/telegram"
	"visa_slot_watcher/internal/infra/web"

	"github.com/gin-gonic/gin"
	"gopkg.in/telebot.v3"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Log.Fatalf("FATAL: Could not load application configuration: %v", err)
	}
	logger.Init(cfg)
	mainLogger := logger.Component("main")

	mainLogger.Infof("Configuration loaded. LogLevel: %s, Environment: %s, Chat ID: %d", cfg.LogLevel, cfg.Environment, cfg.TelegramChatID)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize Database Connection
	db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not connect to database: %v", err)
	}
	defer db.Close()
	if err := idb.EnsureSchema(ctx, db); err != nil {
		mainLogger.Fatalf("FATAL: Could not prepare database schema: %v", err)
	}
	mainLogger.Info("Database connection established successfully.")

	requestRepo := idb.NewPostgresWatchRequestRepository(db)

	// Initialize Telegram Bot
	pref := telebot.Settings{
		Token:  cfg.TelegramToken,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
		OnError: func(err error, c telebot.Context) { // Global error handler
			entry := logger.Component("telebot").WithError(err)
			if c != nil && c.Sender() != nil && c.Chat() != nil {
				entry = entry.WithField("sender_id", c.Sender().ID).WithField("chat_id", c.Chat().ID)
			}
			entry.Error("Telegram bot error")
		},
	}
	bot, err := telebot.NewBot(pref)
	if err != nil {
		mainLogger.Fatalf("FATAL: Could not create Telegram bot: %v", err)
	}
	notifier := telegram.NewChatNotifier(bot, cfg.TelegramChatID)

	rules := schedule.DefaultRules()
	requestService := app.NewRequestService(requestRepo, schedule.MonthCursor(rules.Start, rules.End))
	watchService := app.NewWatchService(requestRepo, notifier, rules, cfg.LocationLabel, cfg.NotifyDelay, logger.Component("watch"))
	mainLogger.Infof("Schedule computed: %d available dates.", watchService.Schedule().Len())

	// Register Handlers
	telegram.RegisterBotCommands(bot, cfg.AdminTelegramID, rules, watchService.Schedule(), logger.Component("telegram"))
	if cfg.AdminTelegramID != 0 {
		telegram.RegisterAdminHandlers(ctx, bot, requestService, cfg.AdminTelegramID, logger.Component("telegram"))
		mainLogger.Info("Admin command handlers registered.")
	}
	go bot.Start()

	// Web form
	if logger.IsProduction(cfg.Environment) {
		gin.SetMode(gin.ReleaseMode)
	}
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           web.NewRouter(requestService, logger.Component("web")),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		mainLogger.Infof("Web form listening on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			mainLogger.Fatalf("FATAL: Web server failed: %v", err)
		}
	}()

	// Watch loop
	cycleSchedule, err := scheduler.NewSchedule(cfg.PollInterval, cfg.CycleCronSpec)
	if err != nil {
		mainLogger.Fatalf("FATAL: %v", err)
	}
	mainLogger.Infof("Starting combined listener, polling every %s", cfg.PollInterval)
	if cfg.CycleCronSpec != "" {
		mainLogger.Infof("Cycle cron spec %q overrides the poll interval", cfg.CycleCronSpec)
	}
	mainLogger.Infof("Location: %s", cfg.LocationLabel)
	mainLogger.Warn("Global alerts are sent for EVERY month on every cycle.")
	runner := scheduler.NewCycleRunner(watchService.RunCycle, cycleSchedule, logger.Component("scheduler"))
	runner.Start(ctx)

	<-ctx.Done() // Block until a signal is received

	mainLogger.Info("Shutting down application...")
	runner.Stop()
	bot.Stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		mainLogger.WithError(err).Error("Web server shutdown failed")
	}
	mainLogger.Info("Application shut down gracefully.")
}
