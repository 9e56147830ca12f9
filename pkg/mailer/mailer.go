package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/ikkim/marketing-survey/config"
	"github.com/ikkim/marketing-survey/pkg/logger"
)

var ErrNoRecipients = errors.New("mailer: no recipients")

// Message 발송할 메일 한 통. To 전체가 하나의 envelope로 발송된다.
type Message struct {
	To      []string
	Subject string
	HTML    string
	Text    string // 비어 있으면 HTML에서 생성
}

// Sender Message.To 전체에 메일 한 통 발송
type Sender interface {
	Send(ctx context.Context, msg *Message) error
}

// NewSender SMTP 자격 증명이 없으면 로그만 남기는 개발용 sender를 반환
func NewSender(cfg *config.SMTPConfig) Sender {
	if !cfg.Enabled() {
		logger.Warn("SMTP credentials not configured, mail will only be logged", map[string]interface{}{
			"host": cfg.Host,
		})
		return &DevSender{}
	}
	return NewSMTPSender(cfg)
}

type SMTPSender struct {
	host     string
	port     string
	username string
	password string
	from     string
	fromName string
	secure   bool
	timeout  time.Duration
}

func NewSMTPSender(cfg *config.SMTPConfig) *SMTPSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &SMTPSender{
		host:     cfg.Host,
		port:     cfg.Port,
		username: cfg.Username,
		password: cfg.Password,
		from:     from,
		fromName: cfg.FromName,
		secure:   cfg.Secure,
		timeout:  timeout,
	}
}

func (s *SMTPSender) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := BuildMessage(s.from, s.fromName, msg, time.Now())
	if err != nil {
		return fmt.Errorf("build message: %w", err)
	}

	conn, err := s.dial(ctx)
	if err != nil {
		return fmt.Errorf("dial %s: %w", net.JoinHostPort(s.host, s.port), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	client, err := smtp.NewClient(conn, s.host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if err := s.deliver(client, msg.To, raw); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ctxErr, err)
		}
		return err
	}

	logger.Info("Mail sent", map[string]interface{}{
		"recipients": len(msg.To),
		"subject":    msg.Subject,
	})
	return nil
}

func (s *SMTPSender) dial(ctx context.Context) (net.Conn, error) {
	addr := net.JoinHostPort(s.host, s.port)
	dialer := &net.Dialer{}
	if s.secure {
		tlsDialer := &tls.Dialer{NetDialer: dialer, Config: &tls.Config{ServerName: s.host}}
		return tlsDialer.DialContext(ctx, "tcp", addr)
	}
	return dialer.DialContext(ctx, "tcp", addr)
}

func (s *SMTPSender) deliver(client *smtp.Client, to []string, raw []byte) error {
	if !s.secure {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: s.host}); err != nil {
				return fmt.Errorf("starttls: %w", err)
			}
		}
	}

	if s.username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(smtp.PlainAuth("", s.username, s.password, s.host)); err != nil {
				return fmt.Errorf("smtp auth: %w", err)
			}
		}
	}

	if err := client.Mail(s.from); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("smtp RCPT TO %s: %w", addr, err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(raw); err != nil {
		return fmt.Errorf("write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp DATA close: %w", err)
	}

	return client.Quit()
}

// DevSender 발송 대신 로그만 남김 (SMTP 미설정)
type DevSender struct{}

func (d *DevSender) Send(ctx context.Context, msg *Message) error {
	if len(msg.To) == 0 {
		return ErrNoRecipients
	}
	logger.Info("[DEV MODE] 메일 발송 생략", map[string]interface{}{
		"to":      strings.Join(msg.To, ", "),
		"subject": msg.Subject,
	})
	return nil
}
