package telegram

import (
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"daily-check/internal/services"
	"daily-check/internal/utils"
)

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	message := `🌸 <b>My Daily Activities</b>

Commands:
/day - fill in yesterday
/day [YYYY-MM-DD] - open any past day
/note [text] - attach a note to the open day
/summary [week|month|6months|year|all] - what you spent time on
/activities - the activity list
/help - this help

Move activities 1 and 2 with the -10 -1 +1 +10 buttons; activity 3 always
takes the rest of the day, so the three add up to 100%.`

	b.SendMessageOrLogError(message)
}

func (b *Bot) handleDay(msg *tgbotapi.Message) {
	date := commandArgs(msg)
	if date == "" {
		date = b.services.Form.DefaultDate()
	}

	form, err := b.services.Form.Open(date)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrFutureDate):
			b.SendMessageOrLogError(fmt.Sprintf("❌ Only past days can be filled in, the latest is %s", b.services.Form.DefaultDate()))
		default:
			b.logger.Warn("⚠️ open day failed", zap.String("date", date), zap.Error(err))
			b.SendMessageOrLogError("❌ Format: /day YYYY-MM-DD")
		}
		return
	}

	if err := b.sendForm(msg.Chat.ID, form); err != nil {
		b.logger.Error("❌ form not sent", zap.String("date", form.Date), zap.Error(err))
	}
}

func (b *Bot) handleNote(msg *tgbotapi.Message) {
	s, ok := b.currentSession(msg.Chat.ID)
	if !ok {
		b.SendMessageOrLogError("📭 No day is open. Start with /day")
		return
	}

	form, err := b.services.Form.SetNote(s.form, commandArgs(msg))
	if err != nil {
		b.SendMessageOrLogError(fmt.Sprintf("❌ Notes can be at most %d characters", services.MaxNoteLength))
		return
	}

	b.setForm(msg.Chat.ID, form)
	b.editForm(msg.Chat.ID, s.messageID, form)
	b.SendMessageOrLogError("📝 Note added. Press 💾 Save to keep it.")
}

func (b *Bot) handleSummary(msg *tgbotapi.Message) {
	period, err := services.ParsePeriod(commandArgs(msg))
	if err != nil {
		keys := make([]string, 0, len(services.Periods))
		for _, p := range services.Periods {
			keys = append(keys, p.Key)
		}
		b.SendMessageOrLogError("❌ Format: /summary [" + strings.Join(keys, "|") + "]")
		return
	}

	summary, err := b.services.Analytics.Summary(period)
	if err != nil {
		b.logger.Error("❌ summary failed", zap.Error(err))
		b.SendMessageOrLogError("❌ Could not build the summary")
		return
	}

	b.SendMessageOrLogError(services.FormatSummary(summary))
}

func (b *Bot) handleActivities(msg *tgbotapi.Message) {
	var message strings.Builder
	message.WriteString("🎒 <b>Activities</b>\n\n")
	for _, name := range utils.Activities {
		message.WriteString(fmt.Sprintf("%s %s\n", utils.GetActivityEmoji(name), name))
	}
	b.SendMessageOrLogError(message.String())
}
