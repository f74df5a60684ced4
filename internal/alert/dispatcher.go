package alert

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/tharun242005/EMPATH-AI/internal/models"
)

// Dispatcher delivers escalation alerts for Medium/High harassment messages.
// Implementations must never fail the request path: delivery errors are
// logged and swallowed.
type Dispatcher interface {
	Trigger(sessionKey, message string, tier models.Severity, score float64)
}

// LogDispatcher writes alerts to the structured log. It is the default
// dispatcher when no external channel is configured.
type LogDispatcher struct {
	logger *zap.Logger
}

func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Trigger(sessionKey, message string, tier models.Severity, score float64) {
	d.logger.Warn("Harassment alert",
		zap.String("session", sessionKey),
		zap.String("severity", string(tier)),
		zap.Float64("score", score),
		zap.Int("message_length", len(message)))
}

// TelegramDispatcher forwards alerts to a Telegram chat.
type TelegramDispatcher struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramDispatcher authenticates the bot eagerly so a bad token fails at
// startup rather than on the first alert.
func NewTelegramDispatcher(token string, chatID int64, logger *zap.Logger) (*TelegramDispatcher, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	logger.Info("Telegram alert dispatcher ready", zap.String("bot", bot.Self.UserName))
	return &TelegramDispatcher{
		bot:    bot,
		chatID: chatID,
		logger: logger,
	}, nil
}

func (d *TelegramDispatcher) Trigger(sessionKey, message string, tier models.Severity, score float64) {
	text := fmt.Sprintf("🚨 %s severity harassment detected\nSession: %s\nScore: %.3f\nMessage: %s",
		tier, sessionKey, score, message)
	if _, err := d.bot.Send(tgbotapi.NewMessage(d.chatID, text)); err != nil {
		d.logger.Warn("Failed to send telegram alert", zap.Error(err))
	}
}
