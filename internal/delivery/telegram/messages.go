// messages.go contains message templates and formatting functions for Telegram.

package telegram

import (
	"fmt"
	"html"
	"strings"

	"github.com/aliskhannn/nihon-flash/internal/domain/entities"
)

const (
	msgUnknownCommand = "Unknown command. Available commands:\n\n/start - connect reminders to this chat\n/help - how reminders work"
	msgHelp           = "nihon-flash sends a reminder when cards in your decks are due.\n\n" +
		"1. Send /start to get your chat id.\n" +
		"2. Save it with <code>PUT /me/reminders</code> as <code>telegram_chat_id</code>.\n" +
		"3. Adjust <code>interval_hours</code>, <code>start_time</code>, <code>end_time</code> and <code>timezone</code> there too."
)

// maxListedDecks caps the per-deck breakdown in one reminder.
const maxListedDecks = 10

func buildStartMessage(chatID int64) string {
	return fmt.Sprintf(
		"<b>Welcome to nihon-flash!</b>\n\nYour chat id is <code>%d</code>.\n\n"+
			"Save it with <code>PUT /me/reminders</code> and field <code>telegram_chat_id</code> to receive study reminders here.",
		chatID,
	)
}

// buildReminderNotification builds the due-cards reminder text.
func buildReminderNotification(payload entities.ReminderPayload) string {
	var sb strings.Builder

	sb.WriteString("🔔 <b>Time to study!</b>\n\n")
	sb.WriteString(fmt.Sprintf("%s waiting for review.\n", pluralCards(payload.TotalDue)))

	if len(payload.Decks) == 0 {
		return sb.String()
	}

	sb.WriteString("\n")
	for i, d := range payload.Decks {
		if i == maxListedDecks {
			sb.WriteString(fmt.Sprintf("…and %d more decks\n", len(payload.Decks)-maxListedDecks))
			break
		}
		sb.WriteString(fmt.Sprintf("📚 <b>%s</b>: %d\n", html.EscapeString(d.DeckName), d.Due))
	}

	return sb.String()
}

func pluralCards(n int) string {
	if n == 1 {
		return "1 card is"
	}
	return fmt.Sprintf("%d cards are", n)
}
