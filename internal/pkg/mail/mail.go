package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"strings"
	"time"
)

// Config holds mail provider settings (matches SiteConfig.MailOptions).
type Config struct {
	Enable    bool   `json:"enable"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	User      string `json:"user"`
	Pass      string `json:"pass"`
	From      string `json:"from"`
	UseResend bool   `json:"use_resend"`
	ResendKey string `json:"resend_key"`
}

// Message is a single email to send. Bcc recipients receive the mail
// without being listed in any visible header.
type Message struct {
	To      []string
	Bcc     []string
	Subject string
	HTML    string
}

// Sender sends emails via SMTP or Resend.
type Sender struct {
	cfg Config
}

func New(cfg Config) *Sender {
	return &Sender{cfg: cfg}
}

// Send dispatches an email. Uses Resend if configured, otherwise SMTP.
func (s *Sender) Send(ctx context.Context, msg Message) error {
	if !s.cfg.Enable {
		return fmt.Errorf("mail is not enabled")
	}
	if len(msg.To) == 0 && len(msg.Bcc) == 0 {
		return fmt.Errorf("message has no recipients")
	}
	if s.cfg.UseResend && s.cfg.ResendKey != "" {
		return s.sendResend(ctx, msg)
	}
	return s.sendSMTP(msg)
}

// SendBCC delivers one message to many recipients, all in the
// blind-carbon-copy field.
func (s *Sender) SendBCC(ctx context.Context, bcc []string, subject, html string) error {
	return s.Send(ctx, Message{Bcc: bcc, Subject: subject, HTML: html})
}

// sendSMTP sends via net/smtp. Bcc addresses go only into the SMTP
// envelope, never into the headers.
func (s *Sender) sendSMTP(msg Message) error {
	host := s.cfg.Host
	port := s.cfg.Port
	if port == 0 {
		port = 587
	}
	addr := fmt.Sprintf("%s:%d", host, port)

	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	headerTo := msg.To
	if len(headerTo) == 0 {
		// BCC-only message: the visible To header points at the sender.
		headerTo = []string{from}
	}

	var body bytes.Buffer
	body.WriteString("MIME-Version: 1.0\r\n")
	body.WriteString(fmt.Sprintf("From: %s\r\n", from))
	body.WriteString(fmt.Sprintf("To: %s\r\n", strings.Join(headerTo, ", ")))
	body.WriteString(fmt.Sprintf("Subject: %s\r\n", msg.Subject))
	body.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	body.WriteString("\r\n")
	body.WriteString(msg.HTML)

	envelope := make([]string, 0, len(msg.To)+len(msg.Bcc))
	envelope = append(envelope, msg.To...)
	envelope = append(envelope, msg.Bcc...)

	auth := smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, host)
	return smtp.SendMail(addr, auth, from, envelope, body.Bytes())
}

// sendResend sends via the Resend HTTP API.
func (s *Sender) sendResend(ctx context.Context, msg Message) error {
	from := s.cfg.From
	if from == "" {
		from = s.cfg.User
	}

	to := msg.To
	if len(to) == 0 {
		to = []string{from}
	}
	payloadMap := map[string]interface{}{
		"from":    from,
		"to":      to,
		"subject": msg.Subject,
		"html":    msg.HTML,
	}
	if len(msg.Bcc) > 0 {
		payloadMap["bcc"] = msg.Bcc
	}
	payload, _ := json.Marshal(payloadMap)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.resend.com/emails", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.ResendKey)
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		var errResp struct {
			Message string `json:"message"`
		}
		json.NewDecoder(resp.Body).Decode(&errResp)
		return fmt.Errorf("resend error %d: %s", resp.StatusCode, errResp.Message)
	}
	return nil
}
