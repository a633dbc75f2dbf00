package notify

import (
	"fmt"
	"net/smtp"
)

type Sender interface {
	Send(job Job) error
}

type SMTPConfig struct {
	From     string
	FromName string
	Host     string
	Port     string
	User     string
	Pass     string
}

type smtpSender struct {
	cfg  SMTPConfig
	send func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

func NewSMTPSender(cfg SMTPConfig) Sender {
	return &smtpSender{cfg: cfg, send: smtp.SendMail}
}

func (s *smtpSender) Send(job Job) error {
	var auth smtp.Auth
	if s.cfg.User != "" && s.cfg.Pass != "" {
		auth = smtp.PlainAuth("", s.cfg.User, s.cfg.Pass, s.cfg.Host)
	}

	addr := s.cfg.Host + ":" + s.cfg.Port
	return s.send(addr, auth, s.cfg.From, []string{job.To}, buildMessage(s.cfg, job))
}

func buildMessage(cfg SMTPConfig, job Job) []byte {
	msg := fmt.Sprintf("From: %s <%s>\r\n", cfg.FromName, cfg.From)
	msg += fmt.Sprintf("To: %s\r\n", job.To)
	msg += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	msg += "MIME-Version: 1.0\r\n"
	msg += "Content-Type: text/plain; charset=UTF-8\r\n"
	msg += "\r\n" + job.Body
	return []byte(msg)
}
