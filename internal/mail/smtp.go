package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/emersion/go-message/mail"
	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// DefaultSMTPTimeout bounds a whole SMTP session, dial included.
const DefaultSMTPTimeout = 15 * time.Second

// SMTPConfig holds relay coordinates and credentials.
type SMTPConfig struct {
	Host     string
	Port     int
	Secure   bool // implicit TLS; otherwise STARTTLS is used when offered
	Username string
	Password string
	Timeout  time.Duration // zero means DefaultSMTPTimeout
}

// SMTPTransport submits messages to an SMTP relay, one connection per message.
type SMTPTransport struct {
	cfg     SMTPConfig
	timeout time.Duration
	now     func() time.Time
}

// NewSMTPTransport creates an SMTPTransport for cfg.
func NewSMTPTransport(cfg SMTPConfig) *SMTPTransport {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultSMTPTimeout
	}
	return &SMTPTransport{cfg: cfg, timeout: timeout, now: time.Now}
}

// Ensure SMTPTransport implements Transport at compile time.
var _ Transport = (*SMTPTransport)(nil)

func (t *SMTPTransport) addr() string {
	return net.JoinHostPort(t.cfg.Host, strconv.Itoa(t.cfg.Port))
}

func (t *SMTPTransport) auth() sasl.Client {
	if t.cfg.Username == "" {
		return nil
	}
	return sasl.NewPlainClient("", t.cfg.Username, t.cfg.Password)
}

// dial opens a client whose connection is closed once ctx is done, so a
// stalled relay cannot outlive the caller. The returned stop func releases
// that hook and must be called before the client is closed.
func (t *SMTPTransport) dial(ctx context.Context) (*smtp.Client, func(), error) {
	d := net.Dialer{Timeout: t.timeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr())
	if err != nil {
		return nil, nil, fmt.Errorf("smtp dial %s: %w", t.addr(), err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	if t.cfg.Secure {
		conn = tls.Client(conn, &tls.Config{ServerName: t.cfg.Host})
	}
	c := smtp.NewClient(conn)

	if !t.cfg.Secure {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: t.cfg.Host}); err != nil {
				stop()
				c.Close()
				return nil, nil, fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}
	if a := t.auth(); a != nil {
		if err := c.Auth(a); err != nil {
			stop()
			c.Close()
			return nil, nil, fmt.Errorf("smtp auth: %w", err)
		}
	}
	return c, func() { stop() }, nil
}

// session runs fn on a fresh client bounded by the transport timeout and ctx.
func (t *SMTPTransport) session(ctx context.Context, fn func(c *smtp.Client) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	c, stop, err := t.dial(ctx)
	if err != nil {
		return sessionErr(ctx, err)
	}
	defer c.Close()
	defer stop()

	if err := fn(c); err != nil {
		return sessionErr(ctx, err)
	}
	if err := c.Quit(); err != nil {
		return sessionErr(ctx, fmt.Errorf("smtp quit: %w", err))
	}
	return nil
}

// sessionErr attaches the context error when ctx ending is what broke the session.
func sessionErr(ctx context.Context, err error) error {
	if cerr := ctx.Err(); cerr != nil {
		return fmt.Errorf("%w: %w", err, cerr)
	}
	// The connection deadline can fire just ahead of the context timer.
	if d, ok := ctx.Deadline(); ok && !time.Now().Before(d) {
		return fmt.Errorf("%w: %w", err, context.DeadlineExceeded)
	}
	return err
}

// Send composes m and submits it. The envelope sender is the bare From address.
func (t *SMTPTransport) Send(ctx context.Context, m *Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	raw, err := Compose(m, t.now())
	if err != nil {
		return err
	}
	from, err := mail.ParseAddress(m.From)
	if err != nil {
		return fmt.Errorf("parse from %q: %w", m.From, err)
	}
	rcpts, err := parseAddresses(m.To)
	if err != nil {
		return err
	}
	to := make([]string, 0, len(rcpts))
	for _, a := range rcpts {
		to = append(to, a.Address)
	}

	return t.session(ctx, func(c *smtp.Client) error {
		if err := c.SendMail(from.Address, to, bytes.NewReader(raw)); err != nil {
			return fmt.Errorf("smtp send to %v: %w", to, err)
		}
		return nil
	})
}

// Verify opens a connection to the relay and issues NOOP.
func (t *SMTPTransport) Verify(ctx context.Context) error {
	return t.session(ctx, func(c *smtp.Client) error {
		if err := c.Noop(); err != nil {
			return fmt.Errorf("smtp noop: %w", err)
		}
		return nil
	})
}
