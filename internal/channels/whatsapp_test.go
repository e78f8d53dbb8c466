package channels

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBotmaker_Send(t *testing.T) {
	var got botmakerPayload
	var gotToken, gotAccept string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("access-token")
		gotAccept = r.Header.Get("Accept")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	b := NewBotmaker("secret", server.URL, "5527996989507")
	res := b.Send(context.Background(), Message{
		Ref:    "welcome_rule",
		To:     "5527000000000",
		Fields: map[string]string{"name": "Ana"},
	})

	require.True(t, res.OK())
	assert.Equal(t, "Message welcome_rule sent to 5527000000000", res.Message)

	assert.Equal(t, "secret", gotToken)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "whatsapp", got.ChatPlatform)
	assert.Equal(t, "5527996989507", got.ChatChannelNumber)
	assert.Equal(t, "5527000000000", got.PlatformContactID)
	assert.Equal(t, "welcome_rule", got.RuleNameOrID)
	assert.Equal(t, map[string]string{"name": "Ana"}, got.Params)
}

func TestBotmaker_SendWithoutAPIKey(t *testing.T) {
	b := NewBotmaker("", "https://go.botmaker.com/api/v1.0/intent/v2", "5527996989507")
	res := b.Send(context.Background(), Message{Ref: "welcome_rule", To: "5527000000000"})

	assert.Equal(t, http.StatusForbidden, res.Code)
	assert.Equal(t, "No API Key was provided", res.Message)
}

func TestBotmaker_SendHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	b := NewBotmaker("secret", server.URL, "5527996989507")
	res := b.Send(context.Background(), Message{Ref: "welcome_rule", To: "5527000000000"})

	assert.Equal(t, http.StatusUnauthorized, res.Code)
	assert.Equal(t, "Unauthorized", res.Message)
}

func TestBotmaker_SendTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	b := NewBotmaker("secret", server.URL, "5527996989507")
	b.client.Timeout = 20 * time.Millisecond

	res := b.Send(context.Background(), Message{Ref: "welcome_rule", To: "5527000000000"})

	assert.Equal(t, http.StatusGatewayTimeout, res.Code)
	assert.Equal(t, "Timeout Error ocurred, program waits and retries again", res.Message)
}

func TestBotmaker_SendTooManyRedirects(t *testing.T) {
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, server.URL, http.StatusFound)
	}))
	defer server.Close()

	b := NewBotmaker("secret", server.URL, "5527996989507")
	res := b.Send(context.Background(), Message{Ref: "welcome_rule", To: "5527000000000"})

	assert.Equal(t, http.StatusLoopDetected, res.Code)
	assert.Equal(t, "Too many redirects", res.Message)
}

func TestBotmaker_SendConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	b := NewBotmaker("secret", server.URL, "5527996989507")
	res := b.Send(context.Background(), Message{Ref: "welcome_rule", To: "5527000000000"})

	assert.Equal(t, http.StatusBadGateway, res.Code)
	assert.NotEmpty(t, res.Message)
}
