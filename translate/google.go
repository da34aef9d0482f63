package translate

import (
	"context"
	"fmt"
	"sync"

	"cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"

	"github.com/aphorium/aphorium/core"
)

// GoogleProvider translates through the Google Cloud Translation API.
// Credentials come from the given service-account file, or from the ambient
// GOOGLE_APPLICATION_CREDENTIALS environment when the path is empty.
type GoogleProvider struct {
	credentialsFile string

	initOnce sync.Once
	client   *translate.Client
	initErr  error
}

var _ Provider = (*GoogleProvider)(nil)

// NewGoogleProvider creates a Google Cloud Translation provider. The API
// client is built lazily on first use and reused across calls.
func NewGoogleProvider(credentialsFile string) *GoogleProvider {
	return &GoogleProvider{credentialsFile: credentialsFile}
}

// Name identifies the provider in logs.
func (p *GoogleProvider) Name() string {
	return "google"
}

// conn returns the shared API client, building it on the first call. The
// client outlives any single request, so it is not tied to a call context.
func (p *GoogleProvider) conn() (*translate.Client, error) {
	p.initOnce.Do(func() {
		var opts []option.ClientOption
		if p.credentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(p.credentialsFile))
		}
		p.client, p.initErr = translate.NewClient(context.Background(), opts...)
	})
	if p.initErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderUnavailable, p.initErr)
	}
	return p.client, nil
}

// Translate translates text with the Google Cloud Translation API.
func (p *GoogleProvider) Translate(ctx context.Context, text string, from, to core.Language) (string, error) {
	client, err := p.conn()
	if err != nil {
		return "", err
	}

	target, err := language.Parse(string(to))
	if err != nil {
		return "", err
	}
	source, err := language.Parse(string(from))
	if err != nil {
		return "", err
	}

	translations, err := client.Translate(ctx, []string{text}, target, &translate.Options{
		Source: source,
		Format: translate.Text,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrProviderUnavailable, err)
	}
	if len(translations) == 0 {
		return "", fmt.Errorf("%w: no translation returned", ErrProviderUnavailable)
	}

	return translations[0].Text, nil
}
