package telegram

import (
	"context"
	"fmt"
	"strings"

	"visa_slot_watcher/internal/app"
	idb "visa_slot_watcher/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const unauthorizedReply = "Error: you are not allowed to run this command."

// RegisterAdminHandlers registers the watch request management commands.
// Only the configured admin may use them.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, requests *app.RequestService, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/requests", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/requests",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		reqs, err := requests.ListRequests(ctx)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list watch requests")
			return c.Send(fmt.Sprintf("Failed to load watch requests: %s", err.Error()))
		}
		if len(reqs) == 0 {
			handlerLogger.Info("No watch requests stored")
			return c.Send("No watch requests stored.")
		}

		handlerLogger.WithField("requests_count", len(reqs)).Info("Successfully retrieved watch requests")
		return c.Send(FormatRequestList(reqs), &telebot.SendOptions{ParseMode: telebot.ModeHTML})
	})

	b.Handle("/delete_request", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/delete_request",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		args := c.Args()
		// Expected format: /delete_request <UniqueID>
		if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
			return c.Send("Invalid format. Use: /delete_request <UniqueID>")
		}
		uniqueID := args[0]
		handlerLogger = handlerLogger.WithField("unique_id", uniqueID)

		if err := requests.DeleteByUniqueID(ctx, uniqueID); err != nil {
			if err == idb.ErrWatchRequestNotFound {
				handlerLogger.Warn("Watch request to delete not found")
				return c.Send(fmt.Sprintf("No watch request with ID %s.", uniqueID))
			}
			handlerLogger.WithError(err).Error("Failed to delete watch request")
			return c.Send(fmt.Sprintf("Failed to delete watch request: %s", err.Error()))
		}

		handlerLogger.Info("Watch request deleted")
		return c.Send(fmt.Sprintf("Watch request %s deleted.", uniqueID))
	})
}
