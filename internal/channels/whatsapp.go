package channels

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/lumaensino/notify/internal/logger"
)

const maxRedirects = 10

var errTooManyRedirects = errors.New("too many redirects")

// Botmaker posts structured WhatsApp messages to the Botmaker intent webhook.
// The message Ref selects the rule and Fields become its params.
type Botmaker struct {
	APIKey string
	URL    string
	// ChannelNumber is the WhatsApp business number messages are sent from.
	ChannelNumber string

	client *http.Client
}

type botmakerPayload struct {
	ChatPlatform      string            `json:"chatPlatform"`
	ChatChannelNumber string            `json:"chatChannelNumber"`
	PlatformContactID string            `json:"platformContactId"`
	RuleNameOrID      string            `json:"ruleNameOrId"`
	Params            map[string]string `json:"params"`
}

func NewBotmaker(apiKey, apiURL, channelNumber string) *Botmaker {
	return &Botmaker{
		APIKey:        apiKey,
		URL:           apiURL,
		ChannelNumber: channelNumber,
		client: &http.Client{
			Timeout: 10 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return errTooManyRedirects
				}
				return nil
			},
		},
	}
}

func (b *Botmaker) Send(ctx context.Context, m Message) Result {
	if b.APIKey == "" {
		logger.Log().Error("Botmaker API error: 403. Here is the error message: No API Key was provided")
		return Result{Code: http.StatusForbidden, Message: "No API Key was provided"}
	}

	payload := botmakerPayload{
		ChatPlatform:      "whatsapp",
		ChatChannelNumber: b.ChannelNumber,
		PlatformContactID: m.To,
		RuleNameOrID:      m.Ref,
		Params:            m.Fields,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return Result{Code: http.StatusInternalServerError, Message: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.URL, bytes.NewReader(body))
	if err != nil {
		return Result{Code: http.StatusInternalServerError, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("access-token", b.APIKey)

	resp, err := b.client.Do(req)
	if err != nil {
		return b.failure(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		reason := http.StatusText(resp.StatusCode)
		logger.WithFields(map[string]interface{}{"rule": m.Ref, "status": resp.StatusCode}).
			Errorf("Botmaker API error: %s", reason)
		return Result{Code: resp.StatusCode, Message: reason}
	}

	return Result{
		Code:    resp.StatusCode,
		Message: fmt.Sprintf("Message %s sent to %s", m.Ref, m.To),
	}
}

// failure maps transport-level errors into category-specific results.
func (b *Botmaker) failure(err error) Result {
	var uerr *url.Error
	switch {
	case errors.As(err, &uerr) && uerr.Timeout():
		logger.Log().Errorf("Botmaker API error: %d. Here is the error message: Timeout Error ocurred, program waits and retries again", http.StatusGatewayTimeout)
		return Result{Code: http.StatusGatewayTimeout, Message: "Timeout Error ocurred, program waits and retries again"}
	case errors.Is(err, errTooManyRedirects):
		logger.Log().Errorf("Botmaker API error: %d. Here is the error message: Too many redirects", http.StatusLoopDetected)
		return Result{Code: http.StatusLoopDetected, Message: "Too many redirects"}
	default:
		logger.Log().Errorf("Botmaker API error: %d. Here is the error message: %v", http.StatusBadGateway, err)
		return Result{Code: http.StatusBadGateway, Message: err.Error()}
	}
}
