// Package notify tells the shop owner about new bookings.
package notify

import (
	"context"
	"fmt"
	"net/http"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"barberbook/internal/metrics"
	"barberbook/internal/model"
)

// Sender is the part of the bot API the notifier uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts a message to the owner's chat for every booking.
type Telegram struct {
	bot    Sender
	chatID int64
	logger zerolog.Logger
}

// NewTelegram connects to the bot API. endpoint may be empty for the
// public API.
func NewTelegram(token, endpoint string, chatID int64, client *http.Client, logger *zerolog.Logger) (*Telegram, error) {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if client == nil {
		client = &http.Client{}
	}
	bot, err := tgbotapi.NewBotAPIWithClient(token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	return New(bot, chatID, logger), nil
}

// New wraps an existing sender.
func New(bot Sender, chatID int64, logger *zerolog.Logger) *Telegram {
	l := zerolog.Nop()
	if logger != nil {
		l = logger.With().Str("component", "notify").Logger()
	}
	return &Telegram{bot: bot, chatID: chatID, logger: l}
}

// NotifyBooking sends the confirmation text with a short header.
func (t *Telegram) NotifyBooking(_ context.Context, b model.Booking, message string) error {
	msg := tgbotapi.NewMessage(t.chatID, "📥 Nueva reserva "+b.Slot.String()+"\n\n"+message)
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		metrics.IncOwnerNotified("error")
		return fmt.Errorf("send telegram message: %w", err)
	}
	metrics.IncOwnerNotified("ok")
	t.logger.Debug().Int64("chat_id", t.chatID).Str("slot", b.Slot.String()).Msg("owner notified")
	return nil
}
