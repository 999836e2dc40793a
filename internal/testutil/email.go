package testutil

import (
	"context"
	"testing"
	"time"
)

// SentEmail is one delivery captured by CapturingEmailSender.
type SentEmail struct {
	Recipient string
	Subject   string
	Body      string
}

// CapturingEmailSender records deliveries instead of sending them. Sends
// happen on background goroutines, so reads go through WaitForEmail.
type CapturingEmailSender struct {
	sent chan SentEmail
}

func NewCapturingEmailSender() *CapturingEmailSender {
	return &CapturingEmailSender{sent: make(chan SentEmail, 16)}
}

func (c *CapturingEmailSender) Send(ctx context.Context, recipient, subject, body string) error {
	c.sent <- SentEmail{Recipient: recipient, Subject: subject, Body: body}
	return nil
}

// WaitForEmail blocks until a delivery arrives or fails the test after a
// second of silence.
func (c *CapturingEmailSender) WaitForEmail(t *testing.T) SentEmail {
	t.Helper()

	select {
	case email := <-c.sent:
		return email
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a notification email")
		return SentEmail{}
	}
}

// TryReceive reports whether anything was delivered, allowing a short grace
// period for in-flight goroutines.
func (c *CapturingEmailSender) TryReceive() (SentEmail, bool) {
	select {
	case email := <-c.sent:
		return email, true
	case <-time.After(100 * time.Millisecond):
		return SentEmail{}, false
	}
}

// WaitForEmails collects n deliveries in arrival order.
func (c *CapturingEmailSender) WaitForEmails(t *testing.T, n int) []SentEmail {
	t.Helper()

	emails := make([]SentEmail, 0, n)
	for i := 0; i < n; i++ {
		emails = append(emails, c.WaitForEmail(t))
	}
	return emails
}
