package mailer

import (
	"context"
	"strings"
	"testing"

	"review-catalog/pkg/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewPicksLogSenderWithoutHost(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	sender := New(utils.EmailConfig{}, zap.New(core))

	if _, ok := sender.(*LogSender); !ok {
		t.Fatalf("New() = %T, want *LogSender", sender)
	}

	if err := sender.Send(context.Background(), "a@example.com", "Your code", "code: X1Y2Z3"); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	entries := logs.FilterMessageSnippet("not delivered").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if body := entries[0].ContextMap()["body"]; !strings.Contains(body.(string), "X1Y2Z3") {
		t.Errorf("logged body = %v", body)
	}
}

func TestNewPicksSMTPSenderWithHost(t *testing.T) {
	sender := New(utils.EmailConfig{Host: "smtp.example.com", Port: 587}, zap.NewNop())
	if _, ok := sender.(*SMTPSender); !ok {
		t.Fatalf("New() = %T, want *SMTPSender", sender)
	}
}

func TestSMTPSenderHonoursCancelledContext(t *testing.T) {
	sender := New(utils.EmailConfig{Host: "smtp.invalid", Port: 25}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sender.Send(ctx, "a@example.com", "s", "b"); err == nil {
		t.Fatal("Send() with cancelled context should fail")
	}
}
