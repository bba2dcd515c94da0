package sender

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// LogSender stands in for any provider that is not configured. Messages are
// written to the logger instead of being delivered.
type LogSender struct {
	logger *zap.Logger
}

func NewLogSender(logger *zap.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (l *LogSender) SendEmail(_ context.Context, to, subject, _ string) (SendResult, error) {
	l.logger.Info("email provider not configured, logging message",
		zap.String("to", to),
		zap.String("subject", subject),
	)
	return l.result(), nil
}

func (l *LogSender) SendSMS(_ context.Context, to, msg string) (SendResult, error) {
	l.logger.Info("sms provider not configured, logging message",
		zap.String("to", FormatPhone(to)),
		zap.String("body", msg),
	)
	return l.result(), nil
}

func (l *LogSender) SendChat(_ context.Context, to, msg string) (SendResult, error) {
	l.logger.Info("whatsapp provider not configured, logging message",
		zap.String("to", FormatPhone(to)),
		zap.String("body", msg),
	)
	return l.result(), nil
}

func (l *LogSender) result() SendResult {
	return SendResult{
		MessageID: fmt.Sprintf("log-%d", time.Now().UnixNano()),
		Provider:  ProviderLog,
		SentAt:    time.Now(),
	}
}

// Senders bundles the providers the notification service uses.
type Senders struct {
	Email EmailSender
	SMS   SMSSender
	Chat  ChatSender
}

// NewSenders picks real providers where credentials exist and falls back to
// LogSender for the rest.
func NewSenders(smtpCfg SMTPConfig, twilioCfg TwilioConfig, logger *zap.Logger) Senders {
	fallback := NewLogSender(logger)
	s := Senders{Email: fallback, SMS: fallback, Chat: fallback}

	if smtpCfg.Complete() {
		if email, err := NewSMTPSender(smtpCfg); err == nil {
			s.Email = email
		} else {
			logger.Warn("smtp sender disabled", zap.Error(err))
		}
	}

	if twilioCfg.Configured() {
		if tw, err := NewTwilioSender(twilioCfg); err == nil {
			s.SMS = tw
			s.Chat = tw
		} else {
			logger.Warn("twilio sender disabled", zap.Error(err))
		}
	}

	return s
}
