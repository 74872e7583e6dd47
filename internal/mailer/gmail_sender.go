package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"
)

const (
	smtpGmailHost = "smtp.gmail.com"
	smtpGmailPort = 587

	senderEmailName    = "HorizonMart Auctions"
	senderEmailAddress = "auctions@horizonmart.example"
)

// EmailSender delivers transactional auction emails.
type EmailSender interface {
	SendEmail(ctx context.Context, subject string, htmlBody string, to []string) error
}

type GmailSender struct {
	client *mail.Client
}

func NewGmailSender(username, password string) (*GmailSender, error) {
	client, err := mail.NewClient(smtpGmailHost, mail.WithPort(smtpGmailPort), mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(username), mail.WithPassword(password))
	if err != nil {
		return nil, err
	}
	if err = client.DialWithContext(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}

	return &GmailSender{client: client}, nil
}

func (sender *GmailSender) SendEmail(ctx context.Context, subject string, htmlBody string, to []string) error {
	msg := mail.NewMsg()

	if err := msg.FromFormat(senderEmailName, senderEmailAddress); err != nil {
		return fmt.Errorf("failed to set From address: %w", err)
	}

	msg.Subject(subject)

	if err := msg.To(to...); err != nil {
		return fmt.Errorf("failed to set To address: %w", err)
	}

	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := sender.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
