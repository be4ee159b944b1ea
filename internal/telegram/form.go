package telegram

import (
	"errors"
	"fmt"
	"html"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"daily-check/internal/allocator"
	"daily-check/internal/services"
	"daily-check/internal/utils"
)

const (
	actionAdjust   = "adj"
	actionActivity = "act"
	actionSave     = "save"
	actionLoad     = "load"
	actionReset    = "reset"
)

var sliderSteps = []int{-10, -1, 1, 10}

// formAction is a decoded callback: "adj:<slot>:<delta>",
// "act:<slot>:<dir>", "save", "load" or "reset".
type formAction struct {
	kind string
	slot int
	arg  int
}

func parseCallback(data string) (formAction, error) {
	parts := strings.Split(data, ":")
	switch parts[0] {
	case actionSave, actionLoad, actionReset:
		if len(parts) != 1 {
			break
		}
		return formAction{kind: parts[0]}, nil
	case actionAdjust, actionActivity:
		if len(parts) != 3 {
			break
		}
		slot, err := strconv.Atoi(parts[1])
		if err != nil {
			return formAction{}, fmt.Errorf("slot: %w", err)
		}
		arg, err := strconv.Atoi(parts[2])
		if err != nil {
			return formAction{}, fmt.Errorf("argument: %w", err)
		}
		return formAction{kind: parts[0], slot: slot, arg: arg}, nil
	}
	return formAction{}, fmt.Errorf("malformed callback %q", data)
}

func adjustData(slot, delta int) string {
	return fmt.Sprintf("%s:%d:%d", actionAdjust, slot, delta)
}

func activityData(slot, dir int) string {
	return fmt.Sprintf("%s:%d:%d", actionActivity, slot, dir)
}

// renderForm describes a form as Telegram HTML.
func renderForm(f services.Form) string {
	var message strings.Builder

	state := "🆕 new entry"
	if f.Existing {
		state = "💾 saved entry"
	}
	message.WriteString(fmt.Sprintf("📅 <b>%s</b>\n<i>%s</i>\n\n", utils.FormatDateForDisplay(f.Date), state))

	for i, name := range f.Activities {
		suffix := ""
		if i == allocator.FreeSlot {
			suffix = " <i>(the rest of the day)</i>"
		}
		message.WriteString(fmt.Sprintf(
			"%d. %s <b>%s</b>: %d%%%s\n%s\n",
			i+1,
			utils.GetActivityEmoji(name),
			html.EscapeString(name),
			f.Proportions[i],
			suffix,
			services.ProgressBar(float64(f.Proportions[i]), 20),
		))
	}

	if f.Note != "" {
		message.WriteString(fmt.Sprintf("\n📝 %s\n", html.EscapeString(f.Note)))
	} else {
		message.WriteString("\n📝 <i>no note, add one with /note ...</i>\n")
	}
	return message.String()
}

// formKeyboard has activity pickers for every slot, sliders for the
// editable ones and the form buttons.
func formKeyboard() tgbotapi.InlineKeyboardMarkup {
	var rows [][]tgbotapi.InlineKeyboardButton

	for slot := 0; slot < allocator.Slots; slot++ {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("◀ %d", slot+1), activityData(slot, -1)),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d ▶", slot+1), activityData(slot, 1)),
		))
		if !allocator.Editable(slot) {
			continue
		}

		var sliders []tgbotapi.InlineKeyboardButton
		for _, step := range sliderSteps {
			sliders = append(sliders, tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%+d", step), adjustData(slot, step)))
		}
		rows = append(rows, sliders)
	}

	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("💾 Save", actionSave),
		tgbotapi.NewInlineKeyboardButtonData("🔍 Load", actionLoad),
		tgbotapi.NewInlineKeyboardButtonData("↺ Reset", actionReset),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// sendForm posts a new form message and makes it the chat's session.
func (b *Bot) sendForm(chatID int64, f services.Form) error {
	msg := tgbotapi.NewMessage(chatID, renderForm(f))
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = formKeyboard()

	sent, err := b.api.Send(msg)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.sessions[chatID] = &session{form: f, messageID: sent.MessageID}
	b.mu.Unlock()
	return nil
}

// editForm redraws the form message in place.
func (b *Bot) editForm(chatID int64, messageID int, f services.Form) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, messageID, renderForm(f), formKeyboard())
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("⚠️ form redraw failed", zap.Int("message_id", messageID), zap.Error(err))
	}
}

func (b *Bot) currentSession(chatID int64) (session, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.sessions[chatID]
	if !ok {
		return session{}, false
	}
	return *s, true
}

func (b *Bot) setForm(chatID int64, f services.Form) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s, ok := b.sessions[chatID]; ok {
		s.form = f
	}
}

func (b *Bot) dropSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.sessions, chatID)
}

// handleFormAction applies a keyboard press to the chat's form and returns
// the text for the callback answer.
func (b *Bot) handleFormAction(chatID int64, messageID int, action formAction) string {
	s, ok := b.currentSession(chatID)
	if !ok || s.messageID != messageID {
		return "⌛ This form has expired, open a new one with /day"
	}

	fs := b.services.Form
	form := s.form
	var err error

	switch action.kind {
	case actionAdjust:
		form, err = fs.Adjust(form, action.slot, action.arg)
	case actionActivity:
		if action.slot < 0 || action.slot >= allocator.Slots {
			err = &allocator.InvalidSlotError{Slot: action.slot}
			break
		}
		form, err = fs.SetActivity(form, action.slot, utils.CycleActivity(form.Activities[action.slot], action.arg))
	case actionReset:
		form = fs.Reset(form.Date)
	case actionLoad:
		return b.loadForm(chatID, messageID, form.Date)
	case actionSave:
		return b.saveForm(chatID, messageID, form)
	}

	if err != nil {
		b.logger.Warn("⚠️ form action rejected", zap.String("action", action.kind), zap.Int("slot", action.slot), zap.Error(err))
		return "❌ " + err.Error()
	}

	b.setForm(chatID, form)
	b.editForm(chatID, messageID, form)
	return fmt.Sprintf("%d%% / %d%% / %d%%", form.Proportions[0], form.Proportions[1], form.Proportions[2])
}

func (b *Bot) loadForm(chatID int64, messageID int, date string) string {
	form, err := b.services.Form.Open(date)
	if err != nil {
		b.logger.Warn("⚠️ load failed", zap.String("date", date), zap.Error(err))
		return "❌ Could not load this day"
	}

	b.setForm(chatID, form)
	b.editForm(chatID, messageID, form)
	if form.Existing {
		return "Found your day! Here's what you did."
	}
	return "No activities found for this date. Ready to add new ones!"
}

// saveForm persists the form, freezes its message and ends the session.
func (b *Bot) saveForm(chatID int64, messageID int, form services.Form) string {
	rec, err := b.services.Form.Save(form)
	if err != nil {
		b.logger.Warn("⚠️ save failed", zap.String("date", form.Date), zap.Error(err))
		if errors.Is(err, services.ErrFutureDate) {
			return "❌ Only past days can be saved"
		}
		return "❌ Could not save this day"
	}

	saved := form
	saved.Note = rec.Note
	saved.Existing = true
	edit := tgbotapi.NewEditMessageText(chatID, messageID, renderForm(saved))
	edit.ParseMode = tgbotapi.ModeHTML
	if _, err := b.api.Send(edit); err != nil {
		b.logger.Warn("⚠️ form freeze failed", zap.Error(err))
	}

	b.dropSession(chatID)
	b.SendMessageOrLogError("✅ Saved successfully! Great job today! 👏")
	return "💾"
}
