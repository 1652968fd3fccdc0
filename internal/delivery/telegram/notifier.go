package telegram

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
)

// Notifier delivers due-card reminders to Telegram chats.
type Notifier struct {
	bot    Sender
	logger *zap.Logger
}

func NewNotifier(bot Sender, logger *zap.Logger) *Notifier {
	return &Notifier{bot: bot, logger: logger}
}

// SendReminder sends the reminder for payload to chatID.
func (n *Notifier) SendReminder(chatID int64, payload entities.ReminderPayload) error {
	msg := newHTMLMessage(chatID, buildReminderNotification(payload))
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send reminder to chat %d: %w", chatID, err)
	}

	n.logger.Debug("reminder sent",
		zap.Int64("chat_id", chatID),
		zap.Int("total_due", payload.TotalDue),
	)
	return nil
}
