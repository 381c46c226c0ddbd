package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"contestlet/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWinnerMessage(t *testing.T) {
	msg, err := RenderMessage("winner", MessageData{
		ContestName:      "Summer Giveaway",
		SponsorName:      "Acme Corp",
		PrizeDescription: "$500 gift card",
	})
	require.NoError(t, err)
	assert.Contains(t, msg, "You won Summer Giveaway")
	assert.Contains(t, msg, "$500 gift card")
	assert.Contains(t, msg, "Acme Corp")
	assert.Contains(t, msg, "Reply STOP")
}

func TestRenderWinnerMessageWithoutOptionalFields(t *testing.T) {
	msg, err := RenderMessage("winner", MessageData{ContestName: "Summer Giveaway"})
	require.NoError(t, err)
	assert.Contains(t, msg, "You won Summer Giveaway")
	assert.NotContains(t, msg, "Brought to you by")
}

func TestRenderReminderMessage(t *testing.T) {
	msg, err := RenderMessage("reminder", MessageData{
		ContestName: "Summer Giveaway",
		EndTime:     "Aug 31, 2025, 11:59 PM MDT",
	})
	require.NoError(t, err)
	assert.Contains(t, msg, "ends Aug 31, 2025, 11:59 PM MDT")
}

func TestRenderCustomMessage(t *testing.T) {
	msg, err := RenderCustom("Hi {{.WinnerName}}, you won {{.ContestName}}!", MessageData{
		WinnerName:  "+15551234567",
		ContestName: "Summer Giveaway",
	})
	require.NoError(t, err)
	assert.Equal(t, "Hi +15551234567, you won Summer Giveaway!", msg)
}

func TestRenderCustomMessageBadTemplate(t *testing.T) {
	_, err := RenderCustom("Hi {{.WinnerName", MessageData{})
	assert.Error(t, err)

	_, err = RenderCustom("Hi {{.NoSuchField}}", MessageData{})
	assert.Error(t, err)
}

func TestRenderUnknownTemplate(t *testing.T) {
	_, err := RenderMessage("carrier_pigeon", MessageData{})
	assert.Error(t, err)
}

func TestNewSenderTestMode(t *testing.T) {
	sender := NewSender(config.SMSConfig{TestMode: true})
	assert.IsType(t, &ConsoleSender{}, sender)

	sender = NewSender(config.SMSConfig{TestMode: false})
	assert.IsType(t, &TwilioSender{}, sender)
}

func TestTwilioSenderSend(t *testing.T) {
	var gotPath, gotTo, gotBody, gotFrom string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotPath = r.URL.Path
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "AC123", user)
		assert.Equal(t, "secret", pass)

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	sender := NewTwilioSender(config.SMSConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		FromNumber: "+15550001111",
	})
	sender.baseURL = server.URL

	err := sender.Send(context.Background(), "+15551234567", "hello")
	require.NoError(t, err)
	assert.Equal(t, "/2010-04-01/Accounts/AC123/Messages.json", gotPath)
	assert.Equal(t, "+15551234567", gotTo)
	assert.Equal(t, "+15550001111", gotFrom)
	assert.Equal(t, "hello", gotBody)
}

func TestTwilioSenderProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"authentication failed"}`))
	}))
	defer server.Close()

	sender := NewTwilioSender(config.SMSConfig{
		AccountSID: "AC123",
		AuthToken:  "wrong",
		FromNumber: "+15550001111",
	})
	sender.baseURL = server.URL

	err := sender.Send(context.Background(), "+15551234567", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}

func TestTwilioSenderIncompleteConfig(t *testing.T) {
	sender := NewTwilioSender(config.SMSConfig{})
	err := sender.Send(context.Background(), "+15551234567", "hello")
	assert.Error(t, err)
}
