// internal/infra/telegram/client.go
package telegram

import (
	"context"
	"fmt"

	"gopkg.in/telebot.v3"
)

// Sender is the part of *telebot.Bot the notifier needs.
type Sender interface {
	Send(to telebot.Recipient, what interface{}, opts ...interface{}) (*telebot.Message, error)
}

// ChatNotifier implements the domain Notifier by posting HTML messages to one chat.
type ChatNotifier struct {
	sender Sender
	chat   telebot.ChatID
}

func NewChatNotifier(s Sender, chatID int64) *ChatNotifier {
	return &ChatNotifier{sender: s, chat: telebot.ChatID(chatID)}
}

// Notify sends htmlText to the configured chat. The transport enforces its own timeouts;
// ctx is only checked before sending.
func (n *ChatNotifier) Notify(ctx context.Context, htmlText string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := n.sender.Send(n.chat, htmlText, &telebot.SendOptions{
		ParseMode:             telebot.ModeHTML,
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to send telegram message to chat %d: %w", int64(n.chat), err)
	}
	return nil
}
