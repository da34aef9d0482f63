package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aphorium/aphorium/core"
)

func TestMyMemoryProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/get", r.URL.Path)
		assert.Equal(t, "wisdom", r.URL.Query().Get("q"))
		assert.Equal(t, "en|ru", r.URL.Query().Get("langpair"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"responseData":{"translatedText":"мудрость"},"responseStatus":200}`))
	}))
	defer srv.Close()

	p := NewMyMemoryProvider("", WithMyMemoryBaseURL(srv.URL))

	got, err := p.Translate(context.Background(), "wisdom", core.LanguageEN, core.LanguageRU)
	require.NoError(t, err)
	assert.Equal(t, "мудрость", got)
}

func TestMyMemoryProviderAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"responseData":{"translatedText":""},"responseStatus":429,"responseDetails":"quota exceeded"}`))
	}))
	defer srv.Close()

	p := NewMyMemoryProvider("", WithMyMemoryBaseURL(srv.URL))

	_, err := p.Translate(context.Background(), "wisdom", core.LanguageEN, core.LanguageRU)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}

func TestMyMemoryProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewMyMemoryProvider("", WithMyMemoryBaseURL(srv.URL))

	_, err := p.Translate(context.Background(), "wisdom", core.LanguageEN, core.LanguageRU)
	assert.ErrorIs(t, err, ErrProviderUnavailable)
}
