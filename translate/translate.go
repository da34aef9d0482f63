// Copyright 2025 Aphorium Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package translate turns search queries from one supported language into the
// other. A Service runs an ordered chain of providers and degrades to the
// identity translation when every provider fails, so callers never block on a
// broken external service.
package translate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aphorium/aphorium/core"
)

var (
	// ErrProviderUnavailable indicates that a provider cannot serve requests
	// right now (missing credentials, network failure, quota).
	ErrProviderUnavailable = errors.New("translation provider unavailable")

	// ErrAllProvidersFailed indicates that no provider in the chain produced
	// a translation.
	ErrAllProvidersFailed = errors.New("all translation providers failed")
)

// Provider translates text between the supported languages.
type Provider interface {
	// Name identifies the provider in logs.
	Name() string

	// Translate returns the text translated from one language to the other.
	Translate(ctx context.Context, text string, from, to core.Language) (string, error)
}

const (
	defaultProviderTimeout = 10 * time.Second
	defaultCacheSize       = 4096
)

type cacheKey struct {
	text string
	from core.Language
	to   core.Language
}

// Service runs a provider chain with memoization. Providers are tried in
// order; the first success wins and is cached. Repeated queries for the same
// text therefore hit the network at most once.
type Service struct {
	providers []Provider
	timeout   time.Duration
	maxCache  int
	logger    *slog.Logger

	mu    sync.RWMutex
	cache map[cacheKey]string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for provider failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithProviderTimeout bounds each provider attempt.
func WithProviderTimeout(timeout time.Duration) Option {
	return func(s *Service) {
		s.timeout = timeout
	}
}

// WithCacheSize bounds the memoization cache. The cache is cleared wholesale
// when the bound is reached; query translation is cheap to redo and the reset
// keeps memory flat on long runs.
func WithCacheSize(size int) Option {
	return func(s *Service) {
		s.maxCache = size
	}
}

// NewService creates a translation service over an ordered provider chain.
func NewService(providers []Provider, opts ...Option) *Service {
	s := &Service{
		providers: providers,
		timeout:   defaultProviderTimeout,
		maxCache:  defaultCacheSize,
		logger:    slog.Default(),
		cache:     make(map[cacheKey]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Translate returns text translated from one language to the other, falling
// back to the original text when every provider fails. It never returns an
// error; use TranslateStrict when the caller must know.
func (s *Service) Translate(ctx context.Context, text string, from, to core.Language) string {
	translated, err := s.TranslateStrict(ctx, text, from, to)
	if err != nil {
		s.logger.Warn("translation degraded to identity", "from", from, "to", to, "err", err)
		return text
	}
	return translated
}

// TranslateStrict returns text translated from one language to the other, or
// ErrAllProvidersFailed when no provider produced a result.
func (s *Service) TranslateStrict(ctx context.Context, text string, from, to core.Language) (string, error) {
	if text == "" || from == to {
		return text, nil
	}

	key := cacheKey{text: text, from: from, to: to}
	if cached, ok := s.lookup(key); ok {
		return cached, nil
	}

	var errs []error
	for _, provider := range s.providers {
		attemptCtx, cancel := context.WithTimeout(ctx, s.timeout)
		translated, err := provider.Translate(attemptCtx, text, from, to)
		cancel()

		if err != nil {
			s.logger.Debug("translation provider failed", "provider", provider.Name(), "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", provider.Name(), err))
			continue
		}
		if translated == "" {
			errs = append(errs, fmt.Errorf("%s: empty translation", provider.Name()))
			continue
		}

		s.store(key, translated)
		return translated, nil
	}

	return "", fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
}

// CacheLen returns the number of memoized translations.
func (s *Service) CacheLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.cache)
}

func (s *Service) lookup(key cacheKey) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.cache[key]
	return v, ok
}

func (s *Service) store(key cacheKey, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cache) >= s.maxCache {
		s.cache = make(map[cacheKey]string)
	}
	s.cache[key] = value
}
