package services

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"daily-check/internal/allocator"
	"daily-check/internal/database"
)

// 2024-03-15 10:00 IST
var testNow = time.Date(2024, 3, 15, 4, 30, 0, 0, time.UTC)

func newTestManager(t *testing.T) *ServiceManager {
	t.Helper()
	db, err := database.New(filepath.Join(t.TempDir(), "test.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	sm := NewServiceManager(db, loc, zap.NewNop())
	sm.SetClock(func() time.Time { return testNow })
	return sm
}

type fakeSender struct {
	messages []string
	err      error
}

func (f *fakeSender) SendMessage(text string) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, text)
	return nil
}

func TestFormOpenDefaults(t *testing.T) {
	sm := newTestManager(t)

	assert.Equal(t, "2024-03-14", sm.Form.DefaultDate())

	form, err := sm.Form.Open("2024-03-14")
	require.NoError(t, err)
	assert.False(t, form.Existing)
	assert.Equal(t, allocator.Default, form.Proportions)
	assert.Equal(t, [3]string{"Playing", "Reading", "Drawing"}, form.Activities)
}

func TestFormRejectsTodayAndFuture(t *testing.T) {
	sm := newTestManager(t)

	for _, date := range []string{"2024-03-15", "2024-04-01"} {
		_, err := sm.Form.Open(date)
		assert.ErrorIs(t, err, ErrFutureDate, date)
	}

	_, err := sm.Form.Open("15/03/2024")
	assert.Error(t, err)
}

func TestFormEditSaveAndReload(t *testing.T) {
	sm := newTestManager(t)

	form, err := sm.Form.Open("2024-03-10")
	require.NoError(t, err)

	form, err = sm.Form.Edit(form, 0, 60)
	require.NoError(t, err)
	assert.Equal(t, allocator.Triple{60, 33, 7}, form.Proportions)

	form, err = sm.Form.Adjust(form, 1, 7)
	require.NoError(t, err)
	assert.Equal(t, allocator.Triple{60, 40, 0}, form.Proportions)

	_, err = sm.Form.Edit(form, allocator.FreeSlot, 10)
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)
	_, err = sm.Form.Adjust(form, 5, 10)
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)

	form, err = sm.Form.SetActivity(form, 2, "Reading")
	require.NoError(t, err)
	form, err = sm.Form.SetNote(form, "  рисовали и читали  ")
	require.NoError(t, err)

	rec, err := sm.Form.Save(form)
	require.NoError(t, err)
	assert.Equal(t, "рисовали и читали", rec.Note)

	loaded, err := sm.Form.Open("2024-03-10")
	require.NoError(t, err)
	assert.True(t, loaded.Existing)
	assert.Equal(t, allocator.Triple{60, 40, 0}, loaded.Proportions)
	assert.Equal(t, [3]string{"Playing", "Reading", "Reading"}, loaded.Activities)
}

func TestFormSaveKeepsNoteWhenBlank(t *testing.T) {
	sm := newTestManager(t)

	form := sm.Form.Reset("2024-03-01")
	form.Note = "park day"
	_, err := sm.Form.Save(form)
	require.NoError(t, err)

	form = sm.Form.Reset("2024-03-01")
	form, err = sm.Form.Edit(form, 0, 80)
	require.NoError(t, err)
	rec, err := sm.Form.Save(form)
	require.NoError(t, err)
	assert.Equal(t, "park day", rec.Note)
	assert.Equal(t, allocator.Triple{80, 20, 0}, rec.Proportions)
}

func TestFormValidation(t *testing.T) {
	sm := newTestManager(t)
	form := sm.Form.Reset("2024-03-01")

	_, err := sm.Form.SetActivity(form, 0, "Skydiving")
	assert.True(t, errors.Is(err, ErrUnknownActivity))

	_, err = sm.Form.SetActivity(form, 3, "Reading")
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)

	_, err = sm.Form.SetNote(form, strings.Repeat("ж", MaxNoteLength+1))
	assert.ErrorIs(t, err, ErrNoteTooLong)

	_, err = sm.Form.SetNote(form, strings.Repeat("ж", MaxNoteLength))
	assert.NoError(t, err)

	broken := form
	broken.Proportions = allocator.Triple{50, 50, 50}
	_, err = sm.Form.Save(broken)
	assert.ErrorIs(t, err, allocator.ErrInvalidInput)
}

func TestSummarize(t *testing.T) {
	records := []database.ActivityRecord{
		{Activities: [3]string{"Reading", "Playing", "Reading"}, Proportions: allocator.Triple{50, 30, 20}},
		{Activities: [3]string{"Playing", "Math", "Eating"}, Proportions: allocator.Triple{60, 39, 1}},
	}

	shares := Summarize(records)
	require.Len(t, shares, 3)
	assert.Equal(t, ActivityShare{Activity: "Playing", TimeSpent: 90, Percentage: 45}, shares[0])
	assert.Equal(t, ActivityShare{Activity: "Reading", TimeSpent: 70, Percentage: 35}, shares[1])
	assert.Equal(t, ActivityShare{Activity: "Math", TimeSpent: 39, Percentage: 19.5}, shares[2])

	assert.Nil(t, Summarize(nil))
}

func TestSummarizeKeepsTopTen(t *testing.T) {
	names := []string{"Playing", "Reading", "Drawing", "Dancing", "Singing", "Math", "Science", "Puzzle", "Craft", "Coding", "Yoga", "Music"}
	var records []database.ActivityRecord
	for i := 0; i < len(names); i += 3 {
		records = append(records, database.ActivityRecord{
			Activities:  [3]string{names[i], names[i+1], names[i+2]},
			Proportions: allocator.Triple{34, 33, 33},
		})
	}

	shares := Summarize(records)
	assert.Len(t, shares, MaxShares)
	// four names tie at 34; ties order by name
	assert.Equal(t, "Coding", shares[0].Activity)
}

func TestAnalyticsSummaryWindow(t *testing.T) {
	sm := newTestManager(t)
	repo := sm.Repository()

	save := func(date, a string) {
		require.NoError(t, repo.SaveRecord(database.ActivityRecord{
			Date:        date,
			Activities:  [3]string{a, a, a},
			Proportions: allocator.Default,
		}))
	}
	save("2024-03-14", "Reading")
	save("2024-03-08", "Reading")
	save("2024-03-07", "Playing")
	save("2023-01-01", "Sleeping")

	week, err := ParsePeriod("week")
	require.NoError(t, err)
	s, err := sm.Analytics.Summary(week)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-08", s.Since)
	assert.Equal(t, 2, s.Records)
	require.Len(t, s.Shares, 1)
	assert.Equal(t, "Reading", s.Shares[0].Activity)
	assert.Equal(t, 100.0, s.Shares[0].Percentage)

	all, err := ParsePeriod("")
	require.NoError(t, err)
	s, err = sm.Analytics.Summary(all)
	require.NoError(t, err)
	assert.Equal(t, 4, s.Records)
	assert.Len(t, s.Shares, 3)

	_, err = ParsePeriod("decade")
	assert.Error(t, err)
}

func TestFormatSummary(t *testing.T) {
	empty := FormatSummary(&Summary{Period: Periods[1], Since: "2024-03-08"})
	assert.Contains(t, empty, "No data available")

	text := FormatSummary(&Summary{
		Period:  Periods[0],
		Records: 2,
		Shares:  []ActivityShare{{Activity: "Reading", TimeSpent: 120, Percentage: 60}},
	})
	assert.Contains(t, text, "<b>Reading</b>")
	assert.Contains(t, text, "▓▓▓▓▓▓░░░░ 60.0%")

	assert.Equal(t, "░░░░", ProgressBar(0, 4))
	assert.Equal(t, "▓▓▓▓", ProgressBar(150, 4))
}

func TestReminder(t *testing.T) {
	sm := newTestManager(t)
	sender := &fakeSender{}
	sm.SetNotificationSender(sender)

	sent, err := sm.Notification.SendReminder()
	require.NoError(t, err)
	assert.True(t, sent)
	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], "/day 2024-03-14")

	_, err = sm.Form.Save(sm.Form.Reset("2024-03-14"))
	require.NoError(t, err)

	sent, err = sm.Notification.SendReminder()
	require.NoError(t, err)
	assert.False(t, sent)
	assert.Len(t, sender.messages, 1)
}

func TestWeeklySummaryPropagatesSendError(t *testing.T) {
	sm := newTestManager(t)
	sender := &fakeSender{err: errors.New("telegram down")}
	sm.SetNotificationSender(sender)

	assert.Error(t, sm.Notification.SendWeeklySummary())

	sender.err = nil
	require.NoError(t, sm.Notification.SendWeeklySummary())
	assert.Contains(t, sender.messages[0], "Last Week")
}
