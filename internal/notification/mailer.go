package notification

import (
	"context"
	"fmt"
	"time"

	gomail "github.com/wneessen/go-mail"
)

// Sender delivers visit-related emails to the member.
type Sender interface {
	SendVisitScheduledEmail(ctx context.Context, toEmail, memberName, unitLabel, localTime string) error
	SendVisitRescheduledEmail(ctx context.Context, toEmail, memberName, oldLocalTime, newLocalTime, reason string) error
	SendVisitReminderEmail(ctx context.Context, toEmail, memberName, unitLabel, localTime string) error
}

// NoopSender is used when email is not configured; operations proceed
// without notification.
type NoopSender struct{}

func (NoopSender) SendVisitScheduledEmail(ctx context.Context, toEmail, memberName, unitLabel, localTime string) error {
	return nil
}

func (NoopSender) SendVisitRescheduledEmail(ctx context.Context, toEmail, memberName, oldLocalTime, newLocalTime, reason string) error {
	return nil
}

func (NoopSender) SendVisitReminderEmail(ctx context.Context, toEmail, memberName, unitLabel, localTime string) error {
	return nil
}

// SMTPSender implements Sender over a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromName  string
	fromEmail string
}

// NewSMTPSender creates an SMTPSender with the given credentials.
func NewSMTPSender(host string, port int, username, password, fromEmail, fromName string) *SMTPSender {
	return &SMTPSender{
		host:      host,
		port:      port,
		username:  username,
		password:  password,
		fromName:  fromName,
		fromEmail: fromEmail,
	}
}

func (s *SMTPSender) send(ctx context.Context, toEmail, subject, htmlContent string) error {
	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.fromName, s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(toEmail); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlContent)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) SendVisitScheduledEmail(ctx context.Context, toEmail, memberName, unitLabel, localTime string) error {
	content, err := renderVisitScheduled(memberName, unitLabel, localTime)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectVisitScheduled, content)
}

func (s *SMTPSender) SendVisitRescheduledEmail(ctx context.Context, toEmail, memberName, oldLocalTime, newLocalTime, reason string) error {
	content, err := renderVisitRescheduled(memberName, oldLocalTime, newLocalTime, reason)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectVisitRescheduled, content)
}

func (s *SMTPSender) SendVisitReminderEmail(ctx context.Context, toEmail, memberName, unitLabel, localTime string) error {
	content, err := renderVisitReminder(memberName, unitLabel, localTime)
	if err != nil {
		return err
	}
	return s.send(ctx, toEmail, subjectVisitReminder, content)
}
