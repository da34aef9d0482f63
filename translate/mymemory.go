package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aphorium/aphorium/core"
)

const defaultMyMemoryBaseURL = "https://api.mymemory.translated.net"

// MyMemoryProvider translates through the free MyMemory API. Passing a
// contact email raises the daily quota.
type MyMemoryProvider struct {
	email   string
	baseURL string
	client  *http.Client
}

var _ Provider = (*MyMemoryProvider)(nil)

// MyMemoryOption configures a MyMemoryProvider.
type MyMemoryOption func(*MyMemoryProvider)

// WithMyMemoryBaseURL overrides the API endpoint, used in tests.
func WithMyMemoryBaseURL(baseURL string) MyMemoryOption {
	return func(p *MyMemoryProvider) {
		p.baseURL = baseURL
	}
}

// NewMyMemoryProvider creates a MyMemory provider.
func NewMyMemoryProvider(email string, opts ...MyMemoryOption) *MyMemoryProvider {
	p := &MyMemoryProvider{
		email:   email,
		baseURL: defaultMyMemoryBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name identifies the provider in logs.
func (p *MyMemoryProvider) Name() string {
	return "mymemory"
}

// Translate translates text with the MyMemory API.
func (p *MyMemoryProvider) Translate(ctx context.Context, text string, from, to core.Language) (string, error) {
	apiURL := fmt.Sprintf("%s/get?q=%s&langpair=%s",
		p.baseURL,
		url.QueryEscape(text),
		url.QueryEscape(string(from)+"|"+string(to)))
	if p.email != "" {
		apiURL += "&de=" + url.QueryEscape(p.email)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return "", err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: unexpected status %d", ErrProviderUnavailable, resp.StatusCode)
	}

	var body struct {
		ResponseData struct {
			TranslatedText string `json:"translatedText"`
		} `json:"responseData"`
		ResponseStatus  int    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}

	if body.ResponseStatus != 200 {
		return "", fmt.Errorf("%w: %s (%d)", ErrProviderUnavailable, body.ResponseDetails, body.ResponseStatus)
	}
	return body.ResponseData.TranslatedText, nil
}
