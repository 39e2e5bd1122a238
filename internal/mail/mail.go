// Package mail renders and delivers transactional email.
package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"net/smtp"
	"strings"

	html "github.com/gofiber/template/html/v2"

	applog "toolstore/internal/log"
)

//go:embed templates/*.html
var templateFS embed.FS

// NewViews returns the html engine over the embedded mail templates.
func NewViews() *html.Engine {
	sub, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}

func render(views *html.Engine, template string, data map[string]any) (string, error) {
	var buf bytes.Buffer
	if err := views.Render(&buf, template, data); err != nil {
		return "", fmt.Errorf("mail: render %s: %w", template, err)
	}
	return buf.String(), nil
}

type SMTPConfig struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

// SMTP delivers through a relay. Auth is skipped when User is empty (MailHog and similar).
type SMTP struct {
	cfg   SMTPConfig
	views *html.Engine
	send  func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTP(cfg SMTPConfig) *SMTP {
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &SMTP{cfg: cfg, views: NewViews(), send: smtp.SendMail}
}

func (s *SMTP) Send(ctx context.Context, to, subject, template string, data map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := render(s.views, template, data)
	if err != nil {
		return err
	}
	msg := "From: " + s.cfg.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/html; charset=utf-8\r\n\r\n" +
		body

	var auth smtp.Auth
	if s.cfg.User != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}
	addr := s.cfg.Host + ":" + s.cfg.Port
	if err := s.send(addr, auth, s.cfg.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("mail: send to %s: %w", to, err)
	}
	return nil
}

// Log stands in for a relay in development: it renders the message and
// writes it to the structured log instead of sending it.
type Log struct {
	views *html.Engine
}

func NewLog() *Log { return &Log{views: NewViews()} }

func (l *Log) Send(_ context.Context, to, subject, template string, data map[string]any) error {
	body, err := render(l.views, template, data)
	if err != nil {
		return err
	}
	fields := map[string]any{"to": to, "subject": subject, "template": template, "bytes": len(body)}
	if code, ok := data["Code"]; ok {
		fields["code"] = code
	}
	applog.Info(nil, "mail.logged", fields)
	return nil
}

// Sender is satisfied by SMTP and Log.
type Sender interface {
	Send(ctx context.Context, to, subject, template string, data map[string]any) error
}

// New picks SMTP when a host is configured and the log mailer otherwise.
func New(cfg SMTPConfig) Sender {
	if strings.TrimSpace(cfg.Host) == "" {
		return NewLog()
	}
	return NewSMTP(cfg)
}
