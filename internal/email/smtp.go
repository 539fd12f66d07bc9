package email

import (
	"encoding/base64"
	"fmt"
	"log/slog"
	"net/smtp"
	"strings"
)

// SMTPSender mails through a plain SMTP relay. Sends run in the
// background so a slow relay never blocks a report worker.
type SMTPSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	return &SMTPSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *SMTPSender) auth() smtp.Auth {
	if s.User != "" && s.Password != "" {
		return smtp.PlainAuth("", s.User, s.Password, s.Host)
	}
	return nil
}

func (s *SMTPSender) SendDownloadLink(email, downloadURL string, summary string) {
	go func() {
		addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

		subject := "Your Tender Analysis Report is Ready"
		body := fmt.Sprintf("Hello,\n\nYour tender analysis report has been generated.\n\n%s\nDownload Link:\n%s\n\nThe link expiry depends on your storage policy.\n", summary, downloadURL)

		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"Subject: %s\r\n"+
			"\r\n"+
			"%s\r\n", email, subject, body))

		slog.Info("Sending email via SMTP", "to", email, "host", s.Host)

		if err := smtp.SendMail(addr, s.auth(), s.From, []string{email}, msg); err != nil {
			slog.Error("Failed to send email", "error", err, "to", email)
		} else {
			slog.Info("Email sent successfully", "to", email)
		}
	}()
}

func (s *SMTPSender) SendWithAttachment(emailAddr, filename string, content []byte, summary string) {
	go func() {
		addr := fmt.Sprintf("%s:%d", s.Host, s.Port)

		boundary := "tenderReportBoundary"
		subject := "Your Tender Analysis Report (Attached)"
		bodyText := fmt.Sprintf("Hello,\n\nYour tender analysis report has been generated.\n\n%s\nThe report is attached.\n", summary)

		var msg strings.Builder
		msg.WriteString(fmt.Sprintf("To: %s\r\n", emailAddr))
		msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
		msg.WriteString("MIME-Version: 1.0\r\n")
		msg.WriteString(fmt.Sprintf("Content-Type: multipart/mixed; boundary=%q\r\n\r\n", boundary))

		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n")
		msg.WriteString(bodyText + "\r\n")

		msg.WriteString(fmt.Sprintf("--%s\r\n", boundary))
		msg.WriteString("Content-Type: application/octet-stream\r\n")
		msg.WriteString("Content-Transfer-Encoding: base64\r\n")
		msg.WriteString(fmt.Sprintf("Content-Disposition: attachment; filename=%q\r\n\r\n", filename))

		encoded := base64.StdEncoding.EncodeToString(content)
		// RFC 2045 line length limit.
		for len(encoded) > 76 {
			msg.WriteString(encoded[:76] + "\r\n")
			encoded = encoded[76:]
		}
		msg.WriteString(encoded + "\r\n")
		msg.WriteString(fmt.Sprintf("--%s--\r\n", boundary))

		slog.Info("Sending email with attachment via SMTP", "to", emailAddr, "filename", filename)

		if err := smtp.SendMail(addr, s.auth(), s.From, []string{emailAddr}, []byte(msg.String())); err != nil {
			slog.Error("Failed to send email", "error", err, "to", emailAddr)
		} else {
			slog.Info("Email sent successfully", "to", emailAddr)
		}
	}()
}
