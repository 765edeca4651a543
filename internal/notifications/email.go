// Package notifications sends the fatal-failure alert email. Delivery
// is best effort: a failed send is logged and swallowed, so it can
// never mask the error being reported.
package notifications

import (
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"
)

type Sender struct {
	host string
	port int
	user string
	pass string
	to   string

	// send is swapped out by tests.
	send func(m *gomail.Message) error
}

func NewSender(host string, port int, user, pass, to string) *Sender {
	s := &Sender{host: host, port: port, user: user, pass: pass, to: to}
	s.send = func(m *gomail.Message) error {
		d := gomail.NewDialer(s.host, s.port, s.user, s.pass)
		// 465 is implicit TLS; other ports negotiate STARTTLS
		d.SSL = s.port == 465
		return d.DialAndSend(m)
	}
	return s
}

func (s *Sender) Enabled() bool {
	return s.user != "" && s.pass != "" && s.to != ""
}

// SendFailure emails one alert for a fatal run error. Never returns an
// error; console output is the only trace when sending fails.
func (s *Sender) SendFailure(errMsg string, at time.Time) {
	fmt.Printf("[EMAIL] Fund sync failed at %s: %s\n", at.UTC().Format(time.RFC3339), errMsg)

	if !s.Enabled() {
		return
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.user, "Fund Sync Alert"))
	m.SetHeader("To", s.to)
	m.SetHeader("Subject", "Fund sync failure")
	m.SetBody("text/plain", fmt.Sprintf(
		"The fund sync failed at %s.\n\nError: %s\n",
		at.UTC().Format(time.RFC3339), errMsg))

	if err := s.send(m); err != nil {
		fmt.Printf("[EMAIL] Failed to send alert: %v\n", err)
		return
	}
	fmt.Println("[EMAIL] Failure alert sent.")
}
