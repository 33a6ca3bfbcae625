// Package notify tells the support inbox about new tickets.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"storefront/models"
)

// TicketNotifier is called after a ticket is stored. Failures never reach
// the customer.
type TicketNotifier interface {
	TicketCreated(ctx context.Context, t models.SupportTicket) error
}

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	dialer sender
	from   string
	to     string
}

func NewMailer(host string, port int, user, password, from, to string) *Mailer {
	if from == "" {
		from = user
	}
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
		to:     to,
	}
}

func (m *Mailer) TicketCreated(ctx context.Context, t models.SupportTicket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := ticketMessage(m.from, m.to, t)
	if err := m.dialer.DialAndSend(msg); err != nil {
		return errors.Wrapf(err, "send ticket %s notification", t.ID)
	}
	return nil
}

func ticketMessage(from, to string, t models.SupportTicket) *gomail.Message {
	subject := fmt.Sprintf("[%s] New support ticket from %s", t.Topic, t.Name)
	if t.Subject != nil {
		subject = fmt.Sprintf("[%s] %s", t.Topic, *t.Subject)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Ticket: %s\n", t.ID)
	fmt.Fprintf(&body, "From: %s <%s>\n", t.Name, t.Email)
	fmt.Fprintf(&body, "Topic: %s\n", t.Topic)
	if t.OrderNumber != nil {
		fmt.Fprintf(&body, "Order: %s\n", *t.OrderNumber)
	}
	fmt.Fprintf(&body, "\n%s\n", t.Message)

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to)
	msg.SetHeader("Reply-To", t.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body.String())
	return msg
}

// Nop is used when no SMTP host is configured.
type Nop struct {
	Log *zap.Logger
}

func (n Nop) TicketCreated(_ context.Context, t models.SupportTicket) error {
	if n.Log != nil {
		n.Log.Debug("ticket notification skipped", zap.String("ticket_id", t.ID))
	}
	return nil
}
