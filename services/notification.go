package services

import (
	"fmt"
	"net"
	"net/smtp"
	"os"
	"strings"

	"github.com/bistrodev/bistro-pos/models"
)

// NotificationSink receives reservation confirmations. The booking flow
// treats it as fire-and-forget; tests plug in a recorder.
type NotificationSink interface {
	ReservationConfirmed(r *models.Reservation, tableNumbers []string) error
}

// SMTPNotifier mails plain-text confirmations through a single SMTP host.
type SMTPNotifier struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
}

// NewSMTPNotifierFromEnv builds a notifier from SMTP_* env vars, or nil
// when no host is configured (confirmation mail simply stays off).
func NewSMTPNotifierFromEnv() *SMTPNotifier {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		return nil
	}
	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	return &SMTPNotifier{
		Host:     host,
		Port:     port,
		From:     os.Getenv("SMTP_FROM"),
		Username: os.Getenv("SMTP_USERNAME"),
		Password: os.Getenv("SMTP_PASSWORD"),
	}
}

func (n *SMTPNotifier) ReservationConfirmed(r *models.Reservation, tableNumbers []string) error {
	var body strings.Builder
	fmt.Fprintf(&body, "To: %s\r\n", r.CustomerEmail)
	fmt.Fprintf(&body, "From: %s\r\n", n.From)
	fmt.Fprintf(&body, "Subject: Reservation %s confirmed\r\n\r\n", r.Code)
	fmt.Fprintf(&body, "Dear %s,\r\n\r\n", r.CustomerName)
	fmt.Fprintf(&body, "Your reservation for %d guests on %s is booked.\r\n", r.People, r.Date)
	if len(tableNumbers) > 0 {
		fmt.Fprintf(&body, "Table(s): %s\r\n", strings.Join(tableNumbers, ", "))
	}
	fmt.Fprintf(&body, "\r\nReference: %s\r\n", r.Code)

	var auth smtp.Auth
	if n.Username != "" {
		auth = smtp.PlainAuth("", n.Username, n.Password, n.Host)
	}
	addr := net.JoinHostPort(n.Host, n.Port)
	return smtp.SendMail(addr, auth, n.From, []string{r.CustomerEmail}, []byte(body.String()))
}
