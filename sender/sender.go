package sender

import (
	"context"
	"strings"
	"time"
)

// ProviderLog marks results produced by LogSender.
const ProviderLog = "log"

type SendResult struct {
	MessageID string
	Provider  string
	SentAt    time.Time
}

type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) (SendResult, error)
}

type SMSSender interface {
	SendSMS(ctx context.Context, to, msg string) (SendResult, error)
}

// ChatSender delivers instant-messaging notifications (WhatsApp).
type ChatSender interface {
	SendChat(ctx context.Context, to, msg string) (SendResult, error)
}

// FormatPhone returns the number in E.164 form, assuming India (+91) when no
// country code is given.
func FormatPhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if phone == "" || strings.HasPrefix(phone, "+") {
		return phone
	}
	return "+91" + phone
}
