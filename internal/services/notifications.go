package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"daily-check/internal/database"
	"daily-check/internal/utils"
)

// NotificationSender delivers a formatted message to the user.
type NotificationSender interface {
	SendMessage(text string) error
}

type NotificationService struct {
	sender     NotificationSender
	repository *database.Repository
	analytics  *AnalyticsService
	clock      *clock
	logger     *zap.Logger
}

func NewNotificationService(sender NotificationSender, repo *database.Repository, analytics *AnalyticsService, c *clock, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		sender:     sender,
		repository: repo,
		analytics:  analytics,
		clock:      c,
		logger:     logger,
	}
}

// SendReminder nudges the user when yesterday has no record yet. It
// reports whether a reminder was sent.
func (ns *NotificationService) SendReminder() (bool, error) {
	date := utils.Yesterday(ns.clock.now(), ns.clock.loc)

	_, err := ns.repository.GetRecord(date)
	if err == nil {
		ns.logger.Debug("reminder skipped, day already recorded", zap.String("date", date))
		return false, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		ns.logger.Warn("⚠️ reminder lookup failed", zap.String("date", date), zap.Error(err))
		return false, err
	}

	message := fmt.Sprintf(
		"📝 <b>%s</b> is still empty.\n\nWhat did you do? Open the form with /day %s",
		utils.FormatDateForDisplay(date), date,
	)
	if err := ns.sender.SendMessage(message); err != nil {
		ns.logger.Error("❌ reminder not sent", zap.String("date", date), zap.Error(err))
		return false, err
	}
	ns.logger.Info("🔔 reminder sent", zap.String("date", date))
	return true, nil
}

// SendWeeklySummary sends the last week's activity summary.
func (ns *NotificationService) SendWeeklySummary() error {
	period, _ := ParsePeriod("week")
	summary, err := ns.analytics.Summary(period)
	if err != nil {
		ns.logger.Warn("⚠️ weekly summary failed", zap.Error(err))
		return err
	}

	if err := ns.sender.SendMessage(FormatSummary(summary)); err != nil {
		ns.logger.Error("❌ weekly summary not sent", zap.Error(err))
		return err
	}
	return nil
}
