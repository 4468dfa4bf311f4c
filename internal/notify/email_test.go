package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "test@example.com"}, nil)
	assert.Nil(t, sender)
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "test@example.com"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, defaultFromName, sender.fromName)
}

func TestNewSendGridSender_CustomFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "test@example.com", FromName: "Ventas"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "Ventas", sender.fromName)
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	sender := &SendGridSender{}
	err := sender.Send(context.Background(), EmailMessage{To: "r@example.com", Subject: "Test", Body: "body"})
	assert.Error(t, err)
}

func TestSendGridSender_Send(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &got)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "from@example.com", Host: srv.URL}, nil)
	require.NotNil(t, sender)

	err := sender.Send(context.Background(), EmailMessage{To: "to@example.com", Subject: "Hola", Body: "texto"})
	require.NoError(t, err)
	assert.Equal(t, "Hola", got["subject"])
}

func TestSendGridSender_Send_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	sender := NewSendGridSender(SendGridConfig{APIKey: "bad", FromEmail: "from@example.com", Host: srv.URL}, nil)
	err := sender.Send(context.Background(), EmailMessage{To: "to@example.com", Subject: "Hola", Body: "texto"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(ctx context.Context, params *sesv2.SendEmailInput, optFns ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSESSender_NilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{FromEmail: "from@example.com"}, nil))
}

func TestSESSender_Send(t *testing.T) {
	api := &fakeSES{}
	sender := NewSESSender(api, SESConfig{FromEmail: "from@example.com"}, nil)
	require.NotNil(t, sender)

	err := sender.Send(context.Background(), EmailMessage{To: "to@example.com", Subject: "Nuevo", Body: "texto"})
	require.NoError(t, err)

	require.NotNil(t, api.input)
	assert.Equal(t, "Landing Leads <from@example.com>", aws.ToString(api.input.FromEmailAddress))
	assert.Equal(t, []string{"to@example.com"}, api.input.Destination.ToAddresses)
	assert.Equal(t, "Nuevo", aws.ToString(api.input.Content.Simple.Subject.Data))
	assert.Equal(t, "texto", aws.ToString(api.input.Content.Simple.Body.Text.Data))
	assert.Nil(t, api.input.Content.Simple.Body.Html)
}

func TestSESSender_Send_Error(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{FromEmail: "from@example.com"}, nil)
	err := sender.Send(context.Background(), EmailMessage{To: "to@example.com", Subject: "x", Body: "y"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
}

func TestStubEmailSender_Send(t *testing.T) {
	sender := NewStubEmailSender(nil)
	assert.NoError(t, sender.Send(context.Background(), EmailMessage{To: "to@example.com", Subject: "x"}))
}
