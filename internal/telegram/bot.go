package telegram

import (
	"context"
	"fmt"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"daily-check/internal/services"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
}

// session is the open form of a chat and the message that displays it.
type session struct {
	form      services.Form
	messageID int
}

type Bot struct {
	api      API
	username string
	chatID   int64
	services *services.ServiceManager
	logger   *zap.Logger
	handlers map[string]func(*tgbotapi.Message)

	mu       sync.Mutex
	sessions map[int64]*session
}

func NewBot(token string, chatID int64, serviceManager *services.ServiceManager, logger *zap.Logger) (*Bot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	bot := newBot(botAPI, botAPI.Self.UserName, chatID, serviceManager, logger)
	logger.Info("🤖 bot initialized", zap.String("username", bot.username))
	return bot, nil
}

func newBot(api API, username string, chatID int64, serviceManager *services.ServiceManager, logger *zap.Logger) *Bot {
	bot := &Bot{
		api:      api,
		username: username,
		chatID:   chatID,
		services: serviceManager,
		logger:   logger,
		handlers: make(map[string]func(*tgbotapi.Message)),
		sessions: make(map[int64]*session),
	}
	bot.registerHandlers()
	return bot
}

func (b *Bot) registerHandlers() {
	b.handlers["/start"] = b.handleStart
	b.handlers["/help"] = b.handleStart
	b.handlers["/day"] = b.handleDay
	b.handlers["/note"] = b.handleNote
	b.handlers["/summary"] = b.handleSummary
	b.handlers["/activities"] = b.handleActivities
}

func (b *Bot) SendMessage(text string) error {
	msg := tgbotapi.NewMessage(b.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	_, err := b.api.Send(msg)
	return err
}

func (b *Bot) GetUsername() string {
	return b.username
}

func (b *Bot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		b.handleCallbackQuery(update.CallbackQuery)
		return
	}

	if update.Message == nil {
		return
	}

	if update.Message.Chat.ID != b.chatID {
		b.logger.Warn("⛔ message from foreign chat", zap.Int64("chat_id", update.Message.Chat.ID))
		reply := tgbotapi.NewMessage(update.Message.Chat.ID, "⛔ Access denied")
		if _, err := b.api.Send(reply); err != nil {
			b.logger.Debug("access denied reply failed", zap.Error(err))
		}
		return
	}

	b.handleMessage(update.Message)
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	text := strings.TrimSpace(msg.Text)
	if !strings.HasPrefix(text, "/") {
		return
	}

	command := strings.Fields(text)[0]
	// "/day@my_bot" in group chats
	command, _, _ = strings.Cut(command, "@")

	if handler, exists := b.handlers[command]; exists {
		handler(msg)
		return
	}
	b.SendMessageOrLogError("❌ Unknown command. Use /help")
}

// commandArgs returns the text after the command word.
func commandArgs(msg *tgbotapi.Message) string {
	text := strings.TrimSpace(msg.Text)
	_, rest, _ := strings.Cut(text, " ")
	return strings.TrimSpace(rest)
}

func (b *Bot) handleCallbackQuery(callback *tgbotapi.CallbackQuery) {
	answer := "✅"
	defer func() {
		if _, err := b.api.Request(tgbotapi.NewCallback(callback.ID, answer)); err != nil {
			b.logger.Debug("callback answer failed", zap.Error(err))
		}
	}()

	if callback.Message == nil || callback.Message.Chat.ID != b.chatID {
		answer = "⛔"
		return
	}

	data := callback.Data
	b.logger.Debug("callback received", zap.String("data", data))

	action, err := parseCallback(data)
	if err != nil {
		b.logger.Warn("⚠️ bad callback data", zap.String("data", data), zap.Error(err))
		answer = "❌"
		return
	}

	answer = b.handleFormAction(callback.Message.Chat.ID, callback.Message.MessageID, action)
}
