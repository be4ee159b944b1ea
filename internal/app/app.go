package app

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"daily-check/internal/config"
	"daily-check/internal/database"
	"daily-check/internal/services"
	"daily-check/internal/telegram"
)

type Application struct {
	config     *config.Config
	db         *database.Database
	bot        *telegram.Bot
	services   *services.ServiceManager
	cron       *cron.Cron
	logger     *zap.Logger
	cancelFunc context.CancelFunc
	ctx        context.Context
}

func New(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if err := cfg.ValidateTelegram(); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	db, err := database.New(cfg.Database.Path, logger)
	if err != nil {
		return nil, err
	}

	serviceManager := services.NewServiceManager(db, loc, logger)
	bot, err := telegram.NewBot(cfg.Telegram.Token, cfg.Telegram.ChatID, serviceManager, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	serviceManager.SetNotificationSender(bot)
	ctx, cancel := context.WithCancel(context.Background())

	app := &Application{
		config:     cfg,
		db:         db,
		bot:        bot,
		services:   serviceManager,
		cron:       cron.New(cron.WithLocation(loc)),
		logger:     logger,
		cancelFunc: cancel,
		ctx:        ctx,
	}

	if err := app.setupCronJobs(); err != nil {
		cancel()
		db.Close()
		return nil, err
	}

	return app, nil
}

func (a *Application) Start() error {
	a.logger.Info("🚀 starting")

	go a.bot.Start(a.ctx)
	a.cron.Start()

	records, err := a.services.Repository().CountRecords()
	if err != nil {
		a.logger.Warn("⚠️ record count failed", zap.Error(err))
	}

	a.logger.Info("✅ started",
		zap.String("bot", a.bot.GetUsername()),
		zap.String("timezone", a.config.Schedule.Timezone),
		zap.Int("records", records),
	)
	return nil
}

func (a *Application) Stop() error {
	a.logger.Info("🛑 stopping")

	a.cancelFunc()
	<-a.cron.Stop().Done()

	if err := a.db.Close(); err != nil {
		a.logger.Warn("⚠️ database close failed", zap.Error(err))
		return err
	}

	a.logger.Info("✅ stopped")
	return nil
}

func (a *Application) setupCronJobs() error {
	// Evening nudge when yesterday is still empty
	if _, err := a.cron.AddFunc(a.config.Schedule.Reminder, func() {
		a.services.Notification.SendReminder()
	}); err != nil {
		return fmt.Errorf("reminder schedule %q: %w", a.config.Schedule.Reminder, err)
	}

	// Weekly activity summary
	if _, err := a.cron.AddFunc(a.config.Schedule.Summary, func() {
		a.services.Notification.SendWeeklySummary()
	}); err != nil {
		return fmt.Errorf("summary schedule %q: %w", a.config.Schedule.Summary, err)
	}

	return nil
}
