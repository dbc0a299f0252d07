package mailingservices

import (
	"context"
	"fmt"
	"time"

	"github.com/jisetihq/jiseti/config"
	"github.com/mailgun/mailgun-go/v4"
	log "github.com/sirupsen/logrus"
)

const sendTimeout = 10 * time.Second

// Mailgun wraps the mailgun client with the sender identity used across the
// service.
type Mailgun struct {
	Client *mailgun.MailgunImpl
	Domain string
	From   string
}

// Init configures the client from the loaded config. With no domain
// configured the mailer stays disabled and sends become logged no-ops, which
// keeps local development working without credentials.
func (m *Mailgun) Init(c *config.Config) {
	m.Domain = c.MgDomain
	m.From = c.MgEmailFrom
	apiKey := c.MailgunApiKey

	if m.Domain == "" || apiKey == "" {
		log.Println("mailgun is not configured, emails will not be sent")
		return
	}
	if m.From == "" {
		m.From = fmt.Sprintf("Jiseti <no-reply@%s>", m.Domain)
	}
	m.Client = mailgun.NewMailgun(m.Domain, apiKey)
}

func (m *Mailgun) send(subject, body, recipient string) (string, error) {
	if m.Client == nil {
		log.Printf("mailgun disabled, skipping email %q to %s", subject, recipient)
		return "", nil
	}

	message := m.Client.NewMessage(m.From, subject, body, recipient)

	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	_, id, err := m.Client.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (m *Mailgun) SendWelcomeMessage(userEmail, subject string) (string, error) {
	body := "Welcome to Jiseti!\n\n" +
		"Your account is ready. You can now report red-flags, request interventions and follow them through to resolution.\n\n" +
		"Thank you for using Jiseti."
	return m.send(subject, body, userEmail)
}

func (m *Mailgun) SendResetPassword(userEmail, resetLink string) (string, error) {
	body := fmt.Sprintf("We received a request to reset your Jiseti password.\n\n"+
		"Follow this link to choose a new one:\n%s\n\n"+
		"The link expires in one hour. If you did not request a reset, ignore this email.", resetLink)
	return m.send("Reset your Jiseti password", body, userEmail)
}

func (m *Mailgun) SendStatusUpdate(userEmail, subject, body string) (string, error) {
	return m.send(subject, body, userEmail)
}
