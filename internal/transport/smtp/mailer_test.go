package smtp

import (
	"context"
	"strings"
	"testing"

	gosmtp "net/smtp"
)

func TestSendBuildsMessage(t *testing.T) {
	var capturedAddr, capturedFrom string
	var capturedTo []string
	var capturedMsg []byte

	mailer := New(Config{Host: "mail.example.com", Port: 2525, From: "Docfolio <bot@example.com>"})
	mailer.sendMail = func(addr string, _ gosmtp.Auth, from string, to []string, msg []byte) error {
		capturedAddr, capturedFrom, capturedTo, capturedMsg = addr, from, to, msg
		return nil
	}

	err := mailer.Send(context.Background(), "user@example.com", "Your lease summary", "Line one.\nLine two.")
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if capturedAddr != "mail.example.com:2525" {
		t.Fatalf("unexpected server address: %q", capturedAddr)
	}
	if capturedFrom != "bot@example.com" {
		t.Fatalf("unexpected envelope sender: %q", capturedFrom)
	}
	if len(capturedTo) != 1 || capturedTo[0] != "user@example.com" {
		t.Fatalf("unexpected recipients: %v", capturedTo)
	}
	message := string(capturedMsg)
	if !strings.Contains(message, "Subject: Your lease summary") {
		t.Fatalf("subject header missing:\n%s", message)
	}
	if !strings.Contains(message, "Line one.\r\nLine two.") {
		t.Fatalf("body not CRLF-normalized:\n%s", message)
	}
}

func TestSendRejectsBadInput(t *testing.T) {
	mailer := New(Config{Host: "mail.example.com", From: "bot@example.com"})
	mailer.sendMail = func(string, gosmtp.Auth, string, []string, []byte) error {
		t.Fatal("sendMail must not be called for invalid input")
		return nil
	}

	cases := []struct {
		name    string
		to      string
		subject string
		body    string
	}{
		{"bad recipient", "not-an-address", "subject", "body"},
		{"empty subject", "user@example.com", "  ", "body"},
		{"empty body", "user@example.com", "subject", "  "},
	}
	for _, tc := range cases {
		if err := mailer.Send(context.Background(), tc.to, tc.subject, tc.body); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
}

func TestSendRequiresConfiguredHost(t *testing.T) {
	mailer := New(Config{From: "bot@example.com"})
	if err := mailer.Send(context.Background(), "user@example.com", "s", "b"); err == nil {
		t.Fatal("expected configuration error")
	}
}
