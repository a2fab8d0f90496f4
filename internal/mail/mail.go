// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

// Package mail delivers outbound email.
package mail

import (
	"context"
	"fmt"
	"log/slog"
)

// Message is a plain-text email.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Sender delivers messages. Implementations may block on the network and must
// not be called while a storage transaction is open.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// PasswordResetSubject is the subject line of password reset mails.
const PasswordResetSubject = "DEI Adventures Password Reset"

// PasswordReset builds the mail carrying a freshly generated password.
func PasswordReset(to, password, siteURL string) Message {
	return Message{
		To:      to,
		Subject: PasswordResetSubject,
		Body:    fmt.Sprintf("This is your new password for DEI Adventures!\n\n%s\n\nLogin at %s", password, siteURL),
	}
}

// LogSender writes messages to a logger instead of delivering them. The body
// is not logged.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender returns a LogSender writing to logger, or to slog.Default when
// logger is nil.
func NewLogSender(logger *slog.Logger) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{logger: logger}
}

// Send logs msg.
func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "mail not delivered, log backend configured",
		"to", msg.To, "subject", msg.Subject, "body_bytes", len(msg.Body))
	recordSend(backendLog, nil)
	return nil
}
