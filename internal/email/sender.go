package email

import (
	"log/slog"
	"time"
)

// Sender notifies a requester that their tender report is ready.
type Sender interface {
	SendDownloadLink(email, downloadURL string, summary string)
	SendWithAttachment(email, filename string, content []byte, summary string)
}

// LogSender is the development sender: it logs instead of mailing,
// preserving the async behavior of the real implementation.
type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) SendDownloadLink(email, downloadURL string, summary string) {
	go func() {
		time.Sleep(100 * time.Millisecond)
		slog.Info("EMAIL SENT",
			"to", email,
			"url", downloadURL,
			"summary", summary,
		)
	}()
}

func (s *LogSender) SendWithAttachment(email, filename string, content []byte, summary string) {
	go func() {
		time.Sleep(100 * time.Millisecond)
		slog.Info("EMAIL SENT WITH ATTACHMENT",
			"to", email,
			"filename", filename,
			"size", len(content),
			"summary", summary,
		)
	}()
}
