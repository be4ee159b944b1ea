package app

import (
	"testing"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daily-check/internal/config"
)

func TestSetupCronJobs(t *testing.T) {
	cfg := &config.Config{}
	cfg.Schedule.Reminder = "0 20 * * *"
	cfg.Schedule.Summary = "0 9 * * 1"

	a := &Application{config: cfg, cron: cron.New(), logger: zap.NewNop()}
	require.NoError(t, a.setupCronJobs())
	assert.Len(t, a.cron.Entries(), 2)
}

func TestSetupCronJobsRejectsBadSchedule(t *testing.T) {
	cfg := &config.Config{}
	cfg.Schedule.Reminder = "every evening"
	cfg.Schedule.Summary = "0 9 * * 1"

	a := &Application{config: cfg, cron: cron.New(), logger: zap.NewNop()}
	assert.ErrorContains(t, a.setupCronJobs(), "reminder schedule")
}

func TestNewRequiresTelegramSettings(t *testing.T) {
	cfg := &config.Config{}
	cfg.Schedule.Timezone = "UTC"

	_, err := New(cfg, zap.NewNop())
	assert.Error(t, err)
}
