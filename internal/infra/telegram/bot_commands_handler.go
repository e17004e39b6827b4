// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"fmt"
	"html"
	"strings"
	"time"

	"visa_slot_watcher/internal/domain/schedule"
	"visa_slot_watcher/internal/domain/watchrequest"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	b *telebot.Bot,
	adminTelegramID int64,
	rules schedule.Rules,
	slots *schedule.Schedule,
	baseLogger *logrus.Entry,
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /start command")
		return c.Send("Hi! I announce visa appointment availability in this chat. Use /help for the command list.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("`/slots`\n - Show the number of open dates per month.\n\n")
		if adminTelegramID != 0 && senderID == adminTelegramID {
			helpText.WriteString("`/requests`\n - List stored watch requests.\n\n")
			helpText.WriteString("`/delete_request <UniqueID>`\n - Delete a watch request.\n\n")
		}
		helpText.WriteString("`/help`\n - Show this message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/slots", func(c telebot.Context) error {
		startHelpLogger.WithField("command", "/slots").WithField("sender_id", c.Sender().ID).Info("Processing /slots command")
		return c.Send(FormatSlotSummary(rules, slots), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	})
}

// FormatSlotSummary renders one line per month with its open date count.
func FormatSlotSummary(rules schedule.Rules, slots *schedule.Schedule) string {
	var b strings.Builder
	b.WriteString("<b>Open dates per month</b>\n")
	for _, m := range schedule.MonthCursor(rules.Start, rules.End) {
		n := len(slots.InMonth(m.Year(), m.Month()))
		if rules.IsUnavailable(m) {
			n = 0
		}
		fmt.Fprintf(&b, "%s: %d\n", m.Format("January 2006"), n)
	}
	return b.String()
}

// FormatRequestList renders stored watch requests as an HTML list.
func FormatRequestList(reqs []*watchrequest.WatchRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Watch requests (%d)</b>\n", len(reqs))
	for _, r := range reqs {
		window := fmt.Sprintf("%s-%02d", r.TargetMonthYear, r.TargetDayStart)
		if r.TargetDayEnd.Valid {
			window += fmt.Sprintf("..%02d", r.TargetDayEnd.Int32)
		}
		fmt.Fprintf(&b, "• <code>%s</code> %s (%s) %s, added %s\n",
			html.EscapeString(r.UniqueID),
			html.EscapeString(r.FullName()),
			r.AppointmentType,
			window,
			r.LastChecked.Format(time.DateOnly),
		)
	}
	return b.String()
}
