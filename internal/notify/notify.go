// Package notify persists notification records and triggers the external
// email send. The record write is the primary operation; the email is
// best-effort and never fails the caller.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/avashist/upkeep/internal/model"
	"github.com/avashist/upkeep/internal/store"
)

// Mailer sends a plain-text email to a single recipient.
type Mailer interface {
	Send(to, body string) error
}

// SMTPMailer sends mail through an SMTP relay without authentication
// (a local or network-trusted relay).
type SMTPMailer struct {
	Addr string // host:port of the relay
	From string
}

// Send delivers the message body to the recipient.
func (m *SMTPMailer) Send(to, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: New maintenance request\r\n\r\n%s\r\n", m.From, to, body)
	if err := smtp.SendMail(m.Addr, nil, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// Dispatcher persists notifications and emails the target incharge.
type Dispatcher struct {
	DB     *sql.DB
	Mailer Mailer // nil disables email, record-only
}

// NotifyIncharge records a notification addressed to the incharge and
// sends the message by email. An email failure is logged and swallowed:
// the notification record is the source of truth and the overall
// operation already succeeded by the time the send is attempted.
func (d *Dispatcher) NotifyIncharge(ctx context.Context, userGovID string, incharge *model.User, message string) (*model.Notification, error) {
	n, err := store.CreateNotification(ctx, d.DB, userGovID, incharge.GovID, message)
	if err != nil {
		return nil, err
	}

	if d.Mailer == nil || incharge.Email == "" {
		slog.Debug("email skipped", "incharge", incharge.GovID)
		return n, nil
	}

	if err := d.Mailer.Send(incharge.Email, message); err != nil {
		slog.Warn("notification email failed", "incharge", incharge.GovID, "error", err)
	}

	return n, nil
}
