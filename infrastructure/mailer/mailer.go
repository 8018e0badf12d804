package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/smtp"
	"strconv"
	"time"

	"scriptgo/domain/model"
	"scriptgo/infrastructure/configuration"
	"scriptgo/infrastructure/logger"
)

const resendEndpoint = "https://api.resend.com/emails"

type IMailer interface {
	Send(ctx context.Context, msg model.EmailMessage) error
}

// NewMailer picks Resend when an API key is configured and SMTP otherwise.
func NewMailer(cfg configuration.Email) IMailer {
	from := sender(cfg.FromName, cfg.FromEmail)
	if cfg.ResendAPIKey != "" {
		logger.GetLogger().Info("Email delivery via Resend")
		return NewResendMailer(cfg.ResendAPIKey, from, resendEndpoint, nil)
	}
	logger.GetLogger().WithField("host", cfg.SMTPHost).Info("Email delivery via SMTP")
	return &SMTPMailer{
		Host: cfg.SMTPHost,
		Port: cfg.SMTPPort,
		User: cfg.SMTPUser,
		Pass: cfg.SMTPPass,
		From: from,
		Addr: cfg.FromEmail,
	}
}

func sender(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type ResendMailer struct {
	apiKey   string
	from     string
	endpoint string
	client   *http.Client
}

func NewResendMailer(apiKey, from, endpoint string, client *http.Client) *ResendMailer {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if endpoint == "" {
		endpoint = resendEndpoint
	}
	return &ResendMailer{apiKey: apiKey, from: from, endpoint: endpoint, client: client}
}

func (m *ResendMailer) Send(ctx context.Context, msg model.EmailMessage) error {
	body, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+m.apiKey)

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend API error: status %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}

// SMTPMailer sends through an authenticated relay such as Gmail on port 587.
type SMTPMailer struct {
	Host string
	Port int
	User string
	Pass string
	From string
	Addr string

	// send is smtp.SendMail unless replaced in tests.
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func (m *SMTPMailer) Send(_ context.Context, msg model.EmailMessage) error {
	send := m.send
	if send == nil {
		send = smtp.SendMail
	}
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	envelopeFrom := m.Addr
	if envelopeFrom == "" {
		envelopeFrom = m.User
	}
	addr := m.Host + ":" + strconv.Itoa(m.Port)
	if err := send(addr, auth, envelopeFrom, []string{msg.To}, buildMIME(m.From, msg)); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func buildMIME(from string, msg model.EmailMessage) []byte {
	var b bytes.Buffer
	b.WriteString("From: " + from + "\r\n")
	b.WriteString("To: " + msg.To + "\r\n")
	b.WriteString("Subject: " + mime.QEncoding.Encode("utf-8", msg.Subject) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTML)
	return b.Bytes()
}
