package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a plain-text email.
type Message struct {
	From    string
	ReplyTo string
	To      []string
	Subject string
	Body    string
}

// Mailer delivers messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// envelope is the validated SMTP sender and recipient list of a message.
type envelope struct {
	from string
	to   []string
}

// envelope resolves the sender, falling back to defaultFrom, and validates
// every address.
func (m Message) envelope(defaultFrom string) (envelope, error) {
	to := dedupeAddresses(m.To)
	if len(to) == 0 {
		return envelope{}, errors.New("mail: at least one recipient is required")
	}

	from := strings.TrimSpace(m.From)
	if from == "" {
		from = strings.TrimSpace(defaultFrom)
	}
	if from == "" {
		return envelope{}, errors.New("mail: sender address is required")
	}

	sender, err := mail.ParseAddress(from)
	if err != nil {
		return envelope{}, fmt.Errorf("mail: invalid from address: %w", err)
	}

	addrs := make([]string, 0, len(to))
	for _, rcpt := range to {
		parsed, err := mail.ParseAddress(rcpt)
		if err != nil {
			return envelope{}, fmt.Errorf("mail: invalid recipient address %q: %w", rcpt, err)
		}
		addrs = append(addrs, parsed.Address)
	}

	return envelope{from: sender.Address, to: addrs}, nil
}

// encode renders RFC 5322 headers and the body with CRLF line endings.
func (m Message) encode(env envelope, now time.Time) []byte {
	var buf bytes.Buffer
	header := func(name, value string) {
		buf.WriteString(name)
		buf.WriteString(": ")
		buf.WriteString(value)
		buf.WriteString("\r\n")
	}

	header("From", env.from)
	header("To", strings.Join(env.to, ", "))
	if reply := strings.TrimSpace(m.ReplyTo); reply != "" {
		header("Reply-To", stripLineBreaks(reply))
	}
	header("Subject", mime.QEncoding.Encode("utf-8", stripLineBreaks(m.Subject)))
	header("Date", now.UTC().Format(time.RFC1123Z))
	header("Message-ID", fmt.Sprintf("<%s@%s>", uuid.NewString(), senderDomain(env.from)))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/plain; charset=UTF-8")
	buf.WriteString("\r\n")

	body := strings.ReplaceAll(m.Body, "\r\n", "\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return buf.Bytes()
}

func senderDomain(address string) string {
	if idx := strings.LastIndex(address, "@"); idx >= 0 && idx < len(address)-1 {
		return address[idx+1:]
	}
	return "localhost"
}

func stripLineBreaks(value string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(value)
}

func dedupeAddresses(addresses []string) []string {
	seen := make(map[string]struct{}, len(addresses))
	var out []string
	for _, addr := range addresses {
		addr = strings.TrimSpace(addr)
		if addr == "" {
			continue
		}
		key := strings.ToLower(addr)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, addr)
	}
	return out
}
