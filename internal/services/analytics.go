package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"daily-check/internal/database"
	"daily-check/internal/utils"
)

const (
	// MinSharePercent hides activities below this share of the total.
	MinSharePercent = 1.0
	// MaxShares is the number of activities a summary lists.
	MaxShares = 10
)

// Period is a rolling window ending today. Days == 0 means all data.
type Period struct {
	Key   string
	Label string
	Days  int
}

var Periods = []Period{
	{Key: "all", Label: "All Data", Days: 0},
	{Key: "week", Label: "Last Week", Days: 7},
	{Key: "month", Label: "Last Month", Days: 30},
	{Key: "6months", Label: "Last 6 Months", Days: 180},
	{Key: "year", Label: "Last Year", Days: 365},
}

// ParsePeriod resolves a period key. An empty key is all data.
func ParsePeriod(key string) (Period, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "" {
		return Periods[0], nil
	}
	for _, p := range Periods {
		if p.Key == key {
			return p, nil
		}
	}
	return Period{}, fmt.Errorf("unknown period %q", key)
}

// ActivityShare is one row of the summary. TimeSpent is the sum of the
// activity's daily proportions; Percentage is its share of all of them.
type ActivityShare struct {
	Activity   string  `json:"activity"`
	TimeSpent  int     `json:"time_spent"`
	Percentage float64 `json:"percentage"`
}

type Summary struct {
	Period  Period          `json:"period"`
	Since   string          `json:"since,omitempty"`
	Records int             `json:"records"`
	Shares  []ActivityShare `json:"shares"`
}

type AnalyticsService struct {
	repository *database.Repository
	clock      *clock
}

func NewAnalyticsService(repo *database.Repository, c *clock) *AnalyticsService {
	return &AnalyticsService{
		repository: repo,
		clock:      c,
	}
}

// Summary aggregates the records inside period.
func (as *AnalyticsService) Summary(period Period) (*Summary, error) {
	since := ""
	if period.Days > 0 {
		since = utils.DaysAgo(as.clock.now(), as.clock.loc, period.Days)
	}

	records, err := as.repository.ListRecords(since)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Period:  period,
		Since:   since,
		Records: len(records),
		Shares:  Summarize(records),
	}, nil
}

// Summarize sums proportions per activity over all slots, largest first,
// dropping shares under MinSharePercent and keeping at most MaxShares.
func Summarize(records []database.ActivityRecord) []ActivityShare {
	totals := make(map[string]int)
	grand := 0
	for _, rec := range records {
		for i, name := range rec.Activities {
			totals[name] += rec.Proportions[i]
			grand += rec.Proportions[i]
		}
	}
	if grand == 0 {
		return nil
	}

	shares := make([]ActivityShare, 0, len(totals))
	for name, spent := range totals {
		pct := math.Round(float64(spent)/float64(grand)*1000) / 10
		if pct < MinSharePercent {
			continue
		}
		shares = append(shares, ActivityShare{Activity: name, TimeSpent: spent, Percentage: pct})
	}

	sort.Slice(shares, func(i, j int) bool {
		if shares[i].TimeSpent != shares[j].TimeSpent {
			return shares[i].TimeSpent > shares[j].TimeSpent
		}
		return shares[i].Activity < shares[j].Activity
	})

	if len(shares) > MaxShares {
		shares = shares[:MaxShares]
	}
	return shares
}

// ProgressBar draws pct as a bar of width cells.
func ProgressBar(pct float64, width int) string {
	filled := int(math.Round(pct / 100 * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return strings.Repeat("▓", filled) + strings.Repeat("░", width-filled)
}

// FormatSummary renders a summary as Telegram HTML.
func FormatSummary(s *Summary) string {
	var message strings.Builder
	message.WriteString(fmt.Sprintf("📊 <b>Activity Summary: %s</b>\n", s.Period.Label))
	if s.Since != "" {
		message.WriteString(fmt.Sprintf("<i>since %s, %d days recorded</i>\n", s.Since, s.Records))
	} else {
		message.WriteString(fmt.Sprintf("<i>%d days recorded</i>\n", s.Records))
	}
	message.WriteString("\n")

	if s.Records == 0 {
		message.WriteString("📭 No data available for the selected time period.")
		return message.String()
	}
	if len(s.Shares) == 0 {
		message.WriteString("🤷 No activities with significant time spent.")
		return message.String()
	}

	for _, share := range s.Shares {
		message.WriteString(fmt.Sprintf(
			"%s <b>%s</b>\n%s %.1f%% (time spent %d%%)\n",
			utils.GetActivityEmoji(share.Activity),
			share.Activity,
			ProgressBar(share.Percentage, 10),
			share.Percentage,
			share.TimeSpent,
		))
	}
	return message.String()
}
