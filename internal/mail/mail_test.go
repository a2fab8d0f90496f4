// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Guildhall Contributors

package mail

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/deiadventures/guildhall/pkg/errutil"
)

type mockSES struct {
	mock.Mock
}

func (m *mockSES) SendEmail(ctx context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sesv2.SendEmailOutput) //nolint:errcheck // nil on failure
	return out, args.Error(1)
}

func TestPasswordReset(t *testing.T) {
	msg := PasswordReset("ada@example.org", "s3cr3t!", "https://dei.example.org")

	assert.Equal(t, "ada@example.org", msg.To)
	assert.Equal(t, PasswordResetSubject, msg.Subject)
	assert.Equal(t, "This is your new password for DEI Adventures!\n\ns3cr3t!\n\nLogin at https://dei.example.org", msg.Body)
}

func TestSESSender_Send(t *testing.T) {
	client := &mockSES{}
	client.On("SendEmail", mock.Anything, mock.MatchedBy(func(in *sesv2.SendEmailInput) bool {
		return aws.ToString(in.FromEmailAddress) == "noreply@example.org" &&
			len(in.Destination.ToAddresses) == 1 &&
			in.Destination.ToAddresses[0] == "ada@example.org" &&
			aws.ToString(in.Content.Simple.Subject.Data) == "hello" &&
			aws.ToString(in.Content.Simple.Body.Text.Data) == "body"
	})).Return(&sesv2.SendEmailOutput{MessageId: aws.String("m-1")}, nil).Once()

	sender := newSESSender(client, "noreply@example.org")
	before := testutil.ToFloat64(Sent.WithLabelValues(backendSES, "success"))

	err := sender.Send(context.Background(), Message{To: "ada@example.org", Subject: "hello", Body: "body"})
	require.NoError(t, err)
	client.AssertExpectations(t)
	assert.InDelta(t, before+1, testutil.ToFloat64(Sent.WithLabelValues(backendSES, "success")), 0)
}

func TestSESSender_SendFailure(t *testing.T) {
	client := &mockSES{}
	client.On("SendEmail", mock.Anything, mock.Anything).Return(nil, errors.New("throttled")).Once()

	sender := newSESSender(client, "noreply@example.org")
	err := sender.Send(context.Background(), Message{To: "ada@example.org"})

	errutil.AssertErrorCode(t, err, "MAIL_SEND_FAILED")
	errutil.AssertErrorContext(t, err, "to", "ada@example.org")
}

func TestNewSESSender_RequiresFrom(t *testing.T) {
	_, err := NewSESSender(context.Background(), SESConfig{Region: "us-east-1"})
	errutil.AssertErrorCode(t, err, "MAIL_CONFIG_INVALID")
}

func TestLogSender_OmitsBody(t *testing.T) {
	var buf bytes.Buffer
	sender := NewLogSender(slog.New(slog.NewTextHandler(&buf, nil)))

	require.NoError(t, sender.Send(context.Background(), PasswordReset("ada@example.org", "hunter22", "")))
	assert.Contains(t, buf.String(), "ada@example.org")
	assert.NotContains(t, buf.String(), "hunter22")
}
