// Package notify renders and sends the two emails triggered by a contact
// submission: a confirmation to the submitter and an alert to the administrator.
// Delivery is best-effort: failures are logged and counted, never returned.
package notify

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmltemplate "html/template"
	"log/slog"
	"net/url"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/NdeyeSokhna722/loumshoes/internal/mail"
	"github.com/NdeyeSokhna722/loumshoes/internal/metrics"
	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/NdeyeSokhna722/loumshoes/internal/repository"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Kind identifies which notification a Result belongs to.
type Kind string

const (
	KindConfirmation Kind = "confirmation"
	KindAdmin        Kind = "admin"
)

// Result is the outcome of one notification attempt.
type Result struct {
	Kind      Kind
	MessageID int64
	To        string
	Err       error
}

// OK reports whether the notification was handed to the transport successfully.
func (r Result) OK() bool { return r.Err == nil }

// Site is branding shown in the templates.
type Site struct {
	Name           string
	ContactPhone   string
	ContactAddress string
	WhatsAppNumber string
}

// Config configures a Notifier.
type Config struct {
	From       string
	AdminEmail string
	Site       Site
	Location   *time.Location // dates in mails; defaults to time.Local
}

// Notifier sends contact form notifications over a mail.Transport.
type Notifier struct {
	transport mail.Transport
	cfg       Config
	now       func() time.Time

	text *texttemplate.Template
	html *htmltemplate.Template
}

// New parses the embedded templates and returns a Notifier.
func New(transport mail.Transport, cfg Config) (*Notifier, error) {
	if cfg.Location == nil {
		cfg.Location = time.Local
	}
	text, err := texttemplate.ParseFS(templateFS, "templates/*.txt.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse text templates: %w", err)
	}
	html, err := htmltemplate.ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse html templates: %w", err)
	}
	return &Notifier{transport: transport, cfg: cfg, now: time.Now, text: text, html: html}, nil
}

type templateData struct {
	Site        Site
	Msg         *model.ContactMessage
	Date        string
	DateTime    string
	Year        int
	StorageKey  string
	WhatsAppURL string
}

func (n *Notifier) data(msg *model.ContactMessage) templateData {
	ts := msg.Timestamp.In(n.cfg.Location)
	d := templateData{
		Site:       n.cfg.Site,
		Msg:        msg,
		Date:       ts.Format("02/01/2006"),
		DateTime:   ts.Format("02/01/2006 15:04"),
		Year:       n.now().In(n.cfg.Location).Year(),
		StorageKey: repository.RecordKey(msg.ID),
	}
	if num := strings.TrimLeft(n.cfg.Site.WhatsAppNumber, "+"); num != "" {
		text := fmt.Sprintf("Hello, replying to the message from %s (reference: %d)", msg.FullName(), msg.ID)
		d.WhatsAppURL = "https://wa.me/" + num + "?text=" + url.QueryEscape(text)
	}
	return d
}

func (n *Notifier) render(name string, data templateData) (string, string, error) {
	var text, html bytes.Buffer
	if err := n.text.ExecuteTemplate(&text, name+".txt.tmpl", data); err != nil {
		return "", "", fmt.Errorf("render %s text: %w", name, err)
	}
	if err := n.html.ExecuteTemplate(&html, name+".html.tmpl", data); err != nil {
		return "", "", fmt.Errorf("render %s html: %w", name, err)
	}
	return text.String(), html.String(), nil
}

// ConfirmationMessage renders the email sent back to the submitter.
func (n *Notifier) ConfirmationMessage(msg *model.ContactMessage) (*mail.Message, error) {
	text, html, err := n.render("confirmation", n.data(msg))
	if err != nil {
		return nil, err
	}
	return &mail.Message{
		From:    n.cfg.From,
		To:      []string{msg.Email},
		Subject: "We received your message - " + n.cfg.Site.Name,
		Text:    text,
		HTML:    html,
	}, nil
}

// AdminMessage renders the alert sent to the administrator. Replies go to the submitter.
func (n *Notifier) AdminMessage(msg *model.ContactMessage) (*mail.Message, error) {
	text, html, err := n.render("admin", n.data(msg))
	if err != nil {
		return nil, err
	}
	return &mail.Message{
		From:    n.cfg.From,
		To:      []string{n.cfg.AdminEmail},
		ReplyTo: msg.Email,
		Subject: "New contact message - " + strings.Join(strings.Fields(msg.Subject), " "),
		Text:    text,
		HTML:    html,
	}, nil
}

// NotifyConfirmation sends the confirmation email. It never fails the caller.
func (n *Notifier) NotifyConfirmation(ctx context.Context, msg *model.ContactMessage) Result {
	m, err := n.ConfirmationMessage(msg)
	return n.deliver(ctx, KindConfirmation, msg, msg.Email, m, err)
}

// NotifyAdmin sends the administrator alert. It never fails the caller.
func (n *Notifier) NotifyAdmin(ctx context.Context, msg *model.ContactMessage) Result {
	m, err := n.AdminMessage(msg)
	return n.deliver(ctx, KindAdmin, msg, n.cfg.AdminEmail, m, err)
}

func (n *Notifier) deliver(ctx context.Context, kind Kind, msg *model.ContactMessage, to string, m *mail.Message, err error) Result {
	if err == nil {
		err = n.transport.Send(ctx, m)
	}
	res := Result{Kind: kind, MessageID: msg.ID, To: to, Err: err}
	if err != nil {
		metrics.Notifications.WithLabelValues(string(kind), "failed").Inc()
		slog.Error("notification failed",
			"kind", string(kind),
			"message_id", msg.ID,
			"to", to,
			"error", err,
		)
		return res
	}
	metrics.Notifications.WithLabelValues(string(kind), "sent").Inc()
	slog.Info("notification sent", "kind", string(kind), "message_id", msg.ID, "to", to)
	return res
}
