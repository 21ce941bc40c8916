package notify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"printcost/internal/domain"
	"printcost/internal/export"
)

type mailSender interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// Mailer emails the quote to the customer with the workbook attached.
type Mailer struct {
	client   mailSender
	from     string
	fromName string
	logger   *zap.Logger
}

func NewMailer(apiKey, from, fromName string, logger *zap.Logger) (*Mailer, error) {
	if apiKey == "" {
		return nil, errors.New("sendgrid api key is empty")
	}
	if from == "" {
		return nil, errors.New("from address is empty")
	}
	return newMailer(sendgrid.NewSendClient(apiKey), from, fromName, logger), nil
}

func newMailer(client mailSender, from, fromName string, logger *zap.Logger) *Mailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Mailer{client: client, from: from, fromName: fromName, logger: logger}
}

func (m *Mailer) QuoteCreated(ctx context.Context, quote domain.Quote, attachment []byte) error {
	if quote.Customer.Email == "" {
		return nil
	}

	subject := fmt.Sprintf("Your print quote %s", quote.ID)
	body := summary(quote)
	message := mail.NewSingleEmail(
		mail.NewEmail(m.fromName, m.from),
		subject,
		mail.NewEmail(quote.Customer.Name, quote.Customer.Email),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)
	if len(attachment) > 0 {
		a := mail.NewAttachment()
		a.SetContent(base64.StdEncoding.EncodeToString(attachment))
		a.SetType("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		a.SetFilename(export.Filename(quote))
		a.SetDisposition("attachment")
		message.AddAttachment(a)
	}

	response, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", response.StatusCode, response.Body)
	}

	m.logger.Info("quote mail sent",
		zap.String("quote_id", quote.ID),
		zap.Int("status", response.StatusCode))
	return nil
}
