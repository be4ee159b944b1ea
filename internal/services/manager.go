package services

import (
	"time"

	"go.uber.org/zap"

	"daily-check/internal/database"
)

type clock struct {
	loc *time.Location
	now func() time.Time
}

type ServiceManager struct {
	Notification *NotificationService
	Analytics    *AnalyticsService
	Form         *FormService
	repository   *database.Repository
	clock        *clock
	logger       *zap.Logger
}

func NewServiceManager(db *database.Database, loc *time.Location, logger *zap.Logger) *ServiceManager {
	repo := database.NewRepository(db)
	c := &clock{loc: loc, now: time.Now}

	return &ServiceManager{
		Notification: nil,
		Analytics:    NewAnalyticsService(repo, c),
		Form:         NewFormService(repo, c, logger),
		repository:   repo,
		clock:        c,
		logger:       logger,
	}
}

func (sm *ServiceManager) SetNotificationSender(sender NotificationSender) {
	sm.Notification = NewNotificationService(sender, sm.repository, sm.Analytics, sm.clock, sm.logger)
}

// SetClock replaces the time source of every service.
func (sm *ServiceManager) SetClock(now func() time.Time) {
	sm.clock.now = now
}

func (sm *ServiceManager) Repository() *database.Repository {
	return sm.repository
}
