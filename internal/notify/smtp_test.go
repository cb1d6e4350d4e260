package notify

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
)

func TestSMTPSenderBuildsMessage(t *testing.T) {
	s := NewSMTPSender("mail.example.com", 587, "user", "secret", "Institute <no-reply@example.com>")

	var gotAddr, gotFrom string
	var gotTo []string
	var gotMsg []byte
	s.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotFrom, gotTo, gotMsg = addr, from, to, msg
		return nil
	}

	res, err := s.Send(context.Background(), Message{
		To:      []string{"a@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MessageID == "" {
		t.Error("expected a message id")
	}
	if gotAddr != "mail.example.com:587" {
		t.Errorf("addr = %q", gotAddr)
	}
	if gotFrom != "no-reply@example.com" {
		t.Errorf("envelope from = %q", gotFrom)
	}
	if len(gotTo) != 1 || gotTo[0] != "a@example.com" {
		t.Errorf("to = %v", gotTo)
	}
	msg := string(gotMsg)
	for _, want := range []string{"Subject: Hello\r\n", "Content-Type: text/html; charset=UTF-8\r\n", "\r\n\r\n<p>Hi</p>"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q:\n%s", want, msg)
		}
	}
}

func TestSMTPSenderPropagatesError(t *testing.T) {
	s := NewSMTPSender("mail.example.com", 25, "", "", "no-reply@example.com")
	s.sendMail = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("550 mailbox unavailable")
	}

	if _, err := s.Send(context.Background(), Message{To: []string{"a@example.com"}}); err == nil {
		t.Fatal("expected an error")
	}
}

func TestMIMEHeaderEncodesNonASCII(t *testing.T) {
	if got := mimeHeader("plain"); got != "plain" {
		t.Errorf("mimeHeader(plain) = %q", got)
	}
	if got := mimeHeader("परिणाम"); !strings.HasPrefix(got, "=?utf-8?q?") {
		t.Errorf("mimeHeader(non-ascii) = %q", got)
	}
}
