package notify

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/NdeyeSokhna722/loumshoes/internal/mail"
	"github.com/NdeyeSokhna722/loumshoes/internal/model"
	"github.com/sebdah/goldie/v2"
)

// ---------------------------------------------------------------------------
// mockTransport - records sends, optionally failing
// ---------------------------------------------------------------------------

type mockTransport struct {
	sent     []*mail.Message
	sendFunc func(ctx context.Context, m *mail.Message) error
}

func (m *mockTransport) Send(ctx context.Context, msg *mail.Message) error {
	m.sent = append(m.sent, msg)
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

func newTestNotifier(t *testing.T, tr mail.Transport, site Site) *Notifier {
	t.Helper()
	n, err := New(tr, Config{
		From:       "LoumShoes <noreply@loumshoes.com>",
		AdminEmail: "admin@loumshoes.com",
		Site:       site,
		Location:   time.UTC,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	n.now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }
	return n
}

func testRecord() *model.ContactMessage {
	ts := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	return &model.ContactMessage{
		ID:         ts.UnixMilli(),
		Timestamp:  ts,
		FirstName:  "Amy",
		LastName:   "Lee",
		Email:      "amy@x.com",
		Phone:      model.PhoneNotProvided,
		Subject:    "Order",
		Message:    "Where is my order?",
		Newsletter: true,
		Status:     model.StatusNew,
	}
}

var testSite = Site{
	Name:           "LoumShoes",
	ContactPhone:   "+221 77 000 00 00",
	ContactAddress: "Dakar, Senegal",
}

func TestConfirmationMessage_TextGolden(t *testing.T) {
	n := newTestNotifier(t, &mockTransport{}, testSite)
	m, err := n.ConfirmationMessage(testRecord())
	if err != nil {
		t.Fatalf("ConfirmationMessage: %v", err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata"))
	g.Assert(t, "confirmation_text", []byte(m.Text))

	if m.To[0] != "amy@x.com" {
		t.Errorf("expected recipient amy@x.com, got %v", m.To)
	}
	if m.Subject != "We received your message - LoumShoes" {
		t.Errorf("unexpected subject %q", m.Subject)
	}
}

func TestAdminMessage_TextGolden(t *testing.T) {
	n := newTestNotifier(t, &mockTransport{}, testSite)
	m, err := n.AdminMessage(testRecord())
	if err != nil {
		t.Fatalf("AdminMessage: %v", err)
	}

	g := goldie.New(t, goldie.WithFixtureDir("testdata"))
	g.Assert(t, "admin_text", []byte(m.Text))

	if m.To[0] != "admin@loumshoes.com" {
		t.Errorf("expected admin recipient, got %v", m.To)
	}
	if m.ReplyTo != "amy@x.com" {
		t.Errorf("expected reply-to submitter, got %q", m.ReplyTo)
	}
	if m.Subject != "New contact message - Order" {
		t.Errorf("unexpected subject %q", m.Subject)
	}
}

func TestAdminMessage_WhatsAppLink(t *testing.T) {
	site := testSite
	site.WhatsAppNumber = "+221770000000"
	n := newTestNotifier(t, &mockTransport{}, site)

	m, err := n.AdminMessage(testRecord())
	if err != nil {
		t.Fatalf("AdminMessage: %v", err)
	}
	if !strings.Contains(m.Text, "Reply by WhatsApp: https://wa.me/221770000000?text=") {
		t.Errorf("expected WhatsApp link in text body:\n%s", m.Text)
	}
	if !strings.Contains(m.HTML, "https://wa.me/221770000000") {
		t.Error("expected WhatsApp link in HTML body")
	}
}

func TestAdminMessage_SubjectCollapsesWhitespace(t *testing.T) {
	n := newTestNotifier(t, &mockTransport{}, testSite)
	rec := testRecord()
	rec.Subject = "Order\r\nBcc: victim@example.com"

	m, err := n.AdminMessage(rec)
	if err != nil {
		t.Fatalf("AdminMessage: %v", err)
	}
	if strings.ContainsAny(m.Subject, "\r\n") {
		t.Errorf("subject must not contain line breaks: %q", m.Subject)
	}
}

func TestHTMLBodies_EscapeUserInput(t *testing.T) {
	n := newTestNotifier(t, &mockTransport{}, testSite)
	rec := testRecord()
	rec.Message = "<script>alert(1)</script>"
	rec.FirstName = "<b>Amy</b>"

	admin, err := n.AdminMessage(rec)
	if err != nil {
		t.Fatalf("AdminMessage: %v", err)
	}
	if strings.Contains(admin.HTML, "<script>") {
		t.Error("admin HTML must escape the message body")
	}
	if !strings.Contains(admin.HTML, "&lt;script&gt;") {
		t.Error("expected escaped script tag in admin HTML")
	}

	conf, err := n.ConfirmationMessage(rec)
	if err != nil {
		t.Fatalf("ConfirmationMessage: %v", err)
	}
	if strings.Contains(conf.HTML, "<b>Amy</b>") {
		t.Error("confirmation HTML must escape the first name")
	}
}

func TestNotify_SendsBoth(t *testing.T) {
	tr := &mockTransport{}
	n := newTestNotifier(t, tr, testSite)
	rec := testRecord()

	if res := n.NotifyConfirmation(context.Background(), rec); !res.OK() {
		t.Errorf("confirmation failed: %v", res.Err)
	}
	if res := n.NotifyAdmin(context.Background(), rec); !res.OK() {
		t.Errorf("admin failed: %v", res.Err)
	}
	if len(tr.sent) != 2 {
		t.Fatalf("expected 2 sends, got %d", len(tr.sent))
	}
}

func TestNotify_TransportFailureIsReportedNotPropagated(t *testing.T) {
	tr := &mockTransport{
		sendFunc: func(ctx context.Context, m *mail.Message) error {
			return errors.New("smtp: connection refused")
		},
	}
	n := newTestNotifier(t, tr, testSite)
	rec := testRecord()

	res := n.NotifyConfirmation(context.Background(), rec)
	if res.OK() {
		t.Fatal("expected failed result")
	}
	if res.Kind != KindConfirmation || res.MessageID != rec.ID || res.To != "amy@x.com" {
		t.Errorf("unexpected result %+v", res)
	}

	res = n.NotifyAdmin(context.Background(), rec)
	if res.OK() || res.Kind != KindAdmin || res.To != "admin@loumshoes.com" {
		t.Errorf("unexpected admin result %+v", res)
	}
	if len(tr.sent) != 2 {
		t.Errorf("expected exactly one attempt per notification, got %d", len(tr.sent))
	}
}

func TestNotifyAdmin_DeliveredWhenReplyToUnparseable(t *testing.T) {
	tr := &mockTransport{
		sendFunc: func(ctx context.Context, m *mail.Message) error {
			_, err := mail.Compose(m, time.Now())
			return err
		},
	}
	n := newTestNotifier(t, tr, testSite)
	rec := testRecord()
	rec.Email = "amy,lee@x.com"

	res := n.NotifyAdmin(context.Background(), rec)
	if !res.OK() {
		t.Fatalf("admin alert lost: %v", res.Err)
	}
	if len(tr.sent) != 1 || tr.sent[0].To[0] != "admin@loumshoes.com" {
		t.Errorf("unexpected sends %+v", tr.sent)
	}
}
