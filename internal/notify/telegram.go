package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"printcost/internal/domain"
	"printcost/internal/export"
)

type chatSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Telegram posts new quotes to a staff chat.
type Telegram struct {
	bot    chatSender
	chatID int64
}

// telegramTimeout bounds every Bot API round trip. Bot API calls take no
// context.
const telegramTimeout = 15 * time.Second

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPIWithClient(token, tgbotapi.APIEndpoint, &http.Client{Timeout: telegramTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &Telegram{bot: bot, chatID: chatID}, nil
}

func (t *Telegram) QuoteCreated(ctx context.Context, quote domain.Quote, attachment []byte) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("telegram notification skipped: %w", err)
	}
	if len(attachment) == 0 {
		if _, err := t.bot.Send(tgbotapi.NewMessage(t.chatID, summary(quote))); err != nil {
			return fmt.Errorf("failed to send telegram message: %w", err)
		}
		return nil
	}

	doc := tgbotapi.NewDocument(t.chatID, tgbotapi.FileBytes{
		Name:  export.Filename(quote),
		Bytes: attachment,
	})
	doc.Caption = summary(quote)
	if _, err := t.bot.Send(doc); err != nil {
		return fmt.Errorf("failed to send telegram document: %w", err)
	}
	return nil
}
