// Package mail sends notification emails through an SMTP relay.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/emersion/go-message/mail"
)

// Message is a rendered email ready for delivery.
type Message struct {
	From    string // RFC 5322 address, display name allowed
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Transport delivers a message. Implementations make a single attempt.
type Transport interface {
	Send(ctx context.Context, m *Message) error
}

// Compose renders m as a multipart/alternative MIME message.
func Compose(m *Message, date time.Time) ([]byte, error) {
	from, err := mail.ParseAddress(m.From)
	if err != nil {
		return nil, fmt.Errorf("parse from %q: %w", m.From, err)
	}
	to, err := parseAddresses(m.To)
	if err != nil {
		return nil, err
	}

	var h mail.Header
	h.SetDate(date)
	h.SetAddressList("From", []*mail.Address{from})
	h.SetAddressList("To", to)
	if m.ReplyTo != "" {
		// Reply-To is a convenience; the message still goes out without it.
		if replyTo, err := mail.ParseAddress(m.ReplyTo); err != nil {
			slog.Warn("dropping unparseable reply-to", "reply_to", m.ReplyTo, "error", err)
		} else {
			h.SetAddressList("Reply-To", []*mail.Address{replyTo})
		}
	}
	h.SetSubject(m.Subject)
	if err := h.GenerateMessageID(); err != nil {
		return nil, fmt.Errorf("generate message id: %w", err)
	}

	var buf bytes.Buffer
	mw, err := mail.CreateWriter(&buf, h)
	if err != nil {
		return nil, fmt.Errorf("create writer: %w", err)
	}
	iw, err := mw.CreateInline()
	if err != nil {
		return nil, fmt.Errorf("create inline: %w", err)
	}
	if err := writePart(iw, "text/plain", m.Text); err != nil {
		return nil, err
	}
	if m.HTML != "" {
		if err := writePart(iw, "text/html", m.HTML); err != nil {
			return nil, err
		}
	}
	if err := iw.Close(); err != nil {
		return nil, fmt.Errorf("close inline: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("close writer: %w", err)
	}
	return buf.Bytes(), nil
}

func writePart(iw *mail.InlineWriter, contentType, body string) error {
	var h mail.InlineHeader
	h.SetContentType(contentType, map[string]string{"charset": "utf-8"})
	w, err := iw.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create %s part: %w", contentType, err)
	}
	if _, err := io.WriteString(w, body); err != nil {
		w.Close()
		return fmt.Errorf("write %s part: %w", contentType, err)
	}
	return w.Close()
}

func parseAddresses(list []string) ([]*mail.Address, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("no recipients")
	}
	out := make([]*mail.Address, 0, len(list))
	for _, s := range list {
		a, err := mail.ParseAddress(s)
		if err != nil {
			return nil, fmt.Errorf("parse recipient %q: %w", s, err)
		}
		out = append(out, a)
	}
	return out, nil
}

// LogTransport logs messages instead of sending them. It is used when no SMTP
// host is configured.
type LogTransport struct {
	logger *slog.Logger
}

// NewLogTransport returns a LogTransport writing to logger (slog.Default if nil).
func NewLogTransport(logger *slog.Logger) *LogTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogTransport{logger: logger}
}

func (t *LogTransport) Send(_ context.Context, m *Message) error {
	t.logger.Info("mail not sent: no SMTP host configured",
		"to", m.To,
		"subject", m.Subject,
	)
	return nil
}
