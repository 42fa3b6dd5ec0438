package mail

import (
	"crypto/tls"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/campus-tools/ecard-notify/pkg/config"
	"github.com/campus-tools/ecard-notify/pkg/metrics"
)

type Sender interface {
	Send(subject, body string) error
	GetHost() string
	GetPort() int
}

type sender struct {
	dialer     *gomail.Dialer
	from       string
	senderName string
	to         string
	log        *zap.SugaredLogger
}

// NewSender builds an SMTP sender from configuration. The session is
// TLS-upgraded (STARTTLS) and authenticated; the configured user doubles as
// the From address.
func NewSender(cfg config.Mail, log *zap.SugaredLogger) Sender {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.InsecureSkipVerify {
		log.Warnw("InsecureSkipVerify is enabled for the mail TLS connection", "host", cfg.Host)
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true}
	}

	senderName := cfg.SenderName
	if senderName == "" {
		senderName = "Campus Card Notifier"
	}

	return &sender{
		dialer:     d,
		from:       cfg.User,
		senderName: senderName,
		to:         cfg.To,
		log:        log.Named("mail"),
	}
}

// Send delivers one UTF-8 HTML message. It makes exactly one attempt; the
// caller decides what a failure means, so errors are returned, not retried.
func (s *sender) Send(subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.from, s.senderName)
	msg.SetHeader("To", s.to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(msg); err != nil {
		metrics.MailSendFailure.WithLabelValues(s.GetHost()).Inc()
		s.log.Errorw("Failed to send mail", "subject", subject, "error", err)
		return err
	}

	metrics.MailSendSuccess.WithLabelValues(s.GetHost()).Inc()
	s.log.Infow("Mail sent", "subject", subject, "to", s.to)
	return nil
}

func (s *sender) GetHost() string {
	return s.dialer.Host
}

func (s *sender) GetPort() int {
	return s.dialer.Port
}
