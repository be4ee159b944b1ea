package telegram

import "go.uber.org/zap"

func (b *Bot) SendMessageOrLogError(message string) {
	if err := b.SendMessage(message); err != nil {
		b.logger.Error("❌ send failed", zap.Error(err))
	}
}
