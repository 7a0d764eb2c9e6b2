// Package notification delivers outbound email over SMTP.
package notification

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/careerpath-hub/career-path-builder/internal/domain/notification"
	"github.com/careerpath-hub/career-path-builder/internal/domain/shared"
	"github.com/careerpath-hub/career-path-builder/pkg/circuitbreaker"
	"github.com/careerpath-hub/career-path-builder/pkg/logger"
)

// SMTPConfig describes the mail relay. Credentials come from the
// environment; nothing here has a built-in default for them.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

// Configured reports whether credentials are present.
func (c SMTPConfig) Configured() bool {
	return c.Host != "" && c.Username != "" && c.Password != ""
}

func (c SMTPConfig) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

func (c SMTPConfig) sender() string {
	if c.From != "" {
		return c.From
	}
	return c.Username
}

// NewWelcomeSender returns an SMTP sender, or a no-op sender when the relay
// credentials are not configured.
func NewWelcomeSender(cfg SMTPConfig, log *logger.Logger) notification.WelcomeSender {
	if log == nil {
		log = logger.Nop()
	}
	if !cfg.Configured() {
		log.Warn("smtp credentials not configured, welcome emails disabled",
			logger.Component("notification"))
		return NopSender{log: log}
	}
	return NewSMTPSender(cfg, log)
}

// ══════════════════════════════════════════════════════════════════════════════
// SMTP SENDER
// ══════════════════════════════════════════════════════════════════════════════

// SMTPSender sends the welcome email through an authenticated, encrypted
// SMTP session. Port 465 uses implicit TLS; other ports require STARTTLS.
// Repeated relay failures trip a breaker that skips sending for a while.
type SMTPSender struct {
	cfg     SMTPConfig
	log     *logger.Logger
	breaker *circuitbreaker.Breaker
}

var _ notification.WelcomeSender = (*SMTPSender)(nil)

// NewSMTPSender creates a sender. A zero timeout defaults to 10 seconds.
func NewSMTPSender(cfg SMTPConfig, log *logger.Logger) *SMTPSender {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if log == nil {
		log = logger.Nop()
	}
	log = log.With(logger.Component("notification.smtp"))
	return &SMTPSender{
		cfg: cfg,
		log: log,
		breaker: circuitbreaker.ForMailRelay(func(name string, from, to circuitbreaker.State) {
			log.Warn("mail relay breaker changed state",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()))
		}),
	}
}

// SendWelcome reports whether the relay accepted the message. Failures are
// logged and never returned.
func (s *SMTPSender) SendWelcome(ctx context.Context, email, name string) bool {
	start := time.Now()
	msg := BuildMessage(s.cfg.sender(), email, notification.WelcomeSubject, notification.WelcomeBody(name))

	err := s.breaker.Execute(ctx, func(ctx context.Context) error {
		return s.send(ctx, email, msg)
	})
	if circuitbreaker.IsRejected(err) {
		s.log.Warn("welcome email skipped, mail relay unavailable", logger.Email(email))
		return false
	}
	if err != nil {
		s.log.Warn("welcome email not sent",
			logger.Email(email),
			logger.Latency(time.Since(start)),
			logger.Err(shared.WrapError("notification", "SendWelcome", shared.ErrExternalService, "smtp delivery failed", err)))
		return false
	}

	s.log.Info("welcome email sent", logger.Email(email), logger.Latency(time.Since(start)))
	return true
}

func (s *SMTPSender) send(ctx context.Context, to string, msg []byte) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	tlsConfig := &tls.Config{ServerName: s.cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	if s.cfg.Port == 465 {
		conn, err = (&tls.Dialer{Config: tlsConfig}).DialContext(ctx, "tcp", s.cfg.addr())
	} else {
		conn, err = (&net.Dialer{}).DialContext(ctx, "tcp", s.cfg.addr())
	}
	if err != nil {
		return fmt.Errorf("dial %s: %w", s.cfg.addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if s.cfg.Port != 465 {
		if ok, _ := c.Extension("STARTTLS"); !ok {
			return fmt.Errorf("relay %s does not offer STARTTLS", s.cfg.addr())
		}
		if err := c.StartTLS(tlsConfig); err != nil {
			return fmt.Errorf("starttls: %w", err)
		}
	}

	if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Mail(s.cfg.sender()); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write(msg); err != nil {
		w.Close()
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish body: %w", err)
	}
	return c.Quit()
}

// BuildMessage renders a plain-text UTF-8 message with CRLF line endings.
// Header values are stripped of line breaks.
func BuildMessage(from, to, subject, body string) []byte {
	var b bytes.Buffer
	header := func(k, v string) {
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(headerValue(v))
		b.WriteString("\r\n")
	}
	header("From", from)
	header("To", to)
	header("Subject", subject)
	header("MIME-Version", "1.0")
	header("Content-Type", `text/plain; charset="UTF-8"`)
	header("Content-Transfer-Encoding", "8bit")
	b.WriteString("\r\n")

	body = strings.ReplaceAll(body, "\r\n", "\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.Bytes()
}

func headerValue(v string) string {
	return strings.NewReplacer("\r", "", "\n", "").Replace(v)
}

// ══════════════════════════════════════════════════════════════════════════════
// NO-OP SENDER
// ══════════════════════════════════════════════════════════════════════════════

// NopSender is used when no relay is configured. It never sends.
type NopSender struct {
	log *logger.Logger
}

// SendWelcome logs and reports false.
func (n NopSender) SendWelcome(_ context.Context, email, _ string) bool {
	if n.log != nil {
		n.log.Info("welcome email skipped, smtp not configured", logger.Email(email))
	}
	return false
}
