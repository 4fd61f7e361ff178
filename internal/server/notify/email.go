package notify

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/mail"
	"net/smtp"
	"os"
	"strings"
	"time"

	"github.com/valyala/fasttemplate"
)

const (
	emailSubject = "Your LinkProof receipt for {{filename}}"
	emailBody    = `Hello,

Your file "{{filename}}" was recorded on {{created_at}}.

SHA-256: {{digest}}
Proof:   {{link}}

Anyone holding the same file can confirm it existed at that time by
verifying it against the proof link above.

LinkProof
`
)

// sendMail is a seam for tests.
var sendMail = sendMailContext

// sendMailContext performs the smtp.SendMail exchange on a connection bound
// to ctx: the deadline applies to every read and write, and cancellation
// closes the connection.
func sendMailContext(ctx context.Context, addr string, a smtp.Auth, from string, to []string, msg []byte) (err error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return err
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			conn.Close()
			return err
		}
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer func() {
		stop()
		switch {
		case err == nil:
		case errors.Is(err, os.ErrDeadlineExceeded):
			err = errors.Join(context.DeadlineExceeded, err)
		case ctx.Err() != nil:
			err = errors.Join(ctx.Err(), err)
		}
	}()

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: host}); err != nil {
			return err
		}
	}
	if a != nil {
		if ok, _ := c.Extension("AUTH"); ok {
			if err := c.Auth(a); err != nil {
				return err
			}
		}
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

// EmailSink mails the proof link to the receipt's contact address.
// Receipts without a contact email are skipped.
type EmailSink struct {
	addr    string
	from    string
	auth    smtp.Auth
	subject *fasttemplate.Template
	body    *fasttemplate.Template
}

// NewEmailSink builds a sink for the SMTP server at addr (host:port). PLAIN
// auth is used when user is set.
func NewEmailSink(addr, from, user, password string) (*EmailSink, error) {
	if _, err := mail.ParseAddress(from); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", from, err)
	}

	s := &EmailSink{
		addr:    addr,
		from:    from,
		subject: fasttemplate.New(emailSubject, "{{", "}}"),
		body:    fasttemplate.New(emailBody, "{{", "}}"),
	}
	if user != "" {
		host, _, _ := strings.Cut(addr, ":")
		s.auth = smtp.PlainAuth("", user, password, host)
	}
	return s, nil
}

func (s *EmailSink) Name() string { return "email" }

func (s *EmailSink) Deliver(ctx context.Context, e Event) error {
	to := e.Receipt.ContactEmail
	if to == "" {
		return nil
	}
	rcpt, err := mail.ParseAddress(to)
	if err != nil {
		return fmt.Errorf("invalid contact email: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := s.render(rcpt.Address, e)
	if err := sendMail(ctx, s.addr, s.auth, s.from, []string{rcpt.Address}, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (s *EmailSink) render(to string, e Event) []byte {
	values := map[string]any{
		"filename":   e.Receipt.DisplayName(),
		"digest":     e.Receipt.Digest,
		"link":       e.Locator,
		"created_at": e.Receipt.CreatedAt.UTC().Format(time.RFC1123),
	}

	var b strings.Builder
	b.WriteString("From: " + s.from + "\r\n")
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + headerSafe(s.subject.ExecuteString(values)) + "\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(s.body.ExecuteString(values), "\n", "\r\n"))
	return []byte(b.String())
}

// headerSafe strips line breaks so user-supplied filenames cannot inject headers.
func headerSafe(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}
