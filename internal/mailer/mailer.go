package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Mailer delivers transactional email over plain SMTP. Local development
// points it at Mailpit; production supplies a real relay via config.
type Mailer struct {
	addr    string
	from    string
	printer *message.Printer
}

// New constructs a Mailer for the given SMTP endpoint.
func New(host string, port int, from string) *Mailer {
	return &Mailer{
		addr:    fmt.Sprintf("%s:%d", host, port),
		from:    from,
		printer: message.NewPrinter(language.English),
	}
}

// FormatAmount renders a monetary amount with locale-aware grouping.
func (m *Mailer) FormatAmount(amount float64) string {
	return m.printer.Sprintf("$%.2f", amount)
}

// Send delivers a single plain-text message.
func (m *Mailer) Send(to, subject, body string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "From: %s\r\n", m.from)
	fmt.Fprintf(&sb, "To: %s\r\n", to)
	fmt.Fprintf(&sb, "Subject: %s\r\n", subject)
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)

	if err := smtp.SendMail(m.addr, nil, m.from, []string{to}, []byte(sb.String())); err != nil {
		return fmt.Errorf("mailer: send to %s: %w", to, err)
	}
	return nil
}
