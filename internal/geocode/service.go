// Package geocode resolves district names to coordinates through an
// external geocoding provider.
package geocode

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Provider defines the interface for geocoding providers.
type Provider interface {
	// Lookup returns up to limit matches for a free-text place name.
	// An empty slice means the name could not be resolved.
	Lookup(ctx context.Context, name string, limit int) ([]Location, error)

	// Name returns the provider name for logging.
	Name() string
}

// ServiceConfig holds configuration for the geocoding service.
type ServiceConfig struct {
	// Provider is the geocoding provider.
	Provider Provider

	// Logger for service operations.
	Logger zerolog.Logger

	// CacheTTL is how long resolved districts are cached (default: 24h).
	// District coordinates are effectively static.
	CacheTTL time.Duration

	// ResultLimit is the maximum number of matches requested from the
	// provider (default: 5). Only the first match is used.
	ResultLimit int
}

// Service resolves district names with caching.
type Service struct {
	provider    Provider
	logger      zerolog.Logger
	cacheTTL    time.Duration
	resultLimit int

	mu    sync.RWMutex
	cache map[string]cachedLocation
}

type cachedLocation struct {
	location  Location
	expiresAt time.Time
}

// NewService creates a new geocoding service.
func NewService(cfg ServiceConfig) *Service {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 24 * time.Hour
	}

	resultLimit := cfg.ResultLimit
	if resultLimit == 0 {
		resultLimit = 5
	}

	return &Service{
		provider:    cfg.Provider,
		logger:      cfg.Logger,
		cacheTTL:    cacheTTL,
		resultLimit: resultLimit,
		cache:       make(map[string]cachedLocation),
	}
}

// Resolve returns the coordinates for a district name. The first provider
// match wins. Returns ErrNoMatch when the provider finds nothing.
func (s *Service) Resolve(ctx context.Context, district string) (Location, error) {
	key := strings.ToLower(strings.TrimSpace(district))

	s.mu.RLock()
	if cached, ok := s.cache[key]; ok && time.Now().Before(cached.expiresAt) {
		s.mu.RUnlock()
		return cached.location, nil
	}
	s.mu.RUnlock()

	s.logger.Debug().
		Str("district", district).
		Str("provider", s.provider.Name()).
		Msg("resolving district coordinates")

	matches, err := s.provider.Lookup(ctx, district, s.resultLimit)
	if err != nil {
		s.logger.Error().Err(err).
			Str("district", district).
			Msg("geocoding lookup failed")
		return Location{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	if len(matches) == 0 {
		return Location{}, fmt.Errorf("%w: %q", ErrNoMatch, district)
	}

	loc := matches[0]

	s.mu.Lock()
	s.cache[key] = cachedLocation{
		location:  loc,
		expiresAt: time.Now().Add(s.cacheTTL),
	}
	s.mu.Unlock()

	return loc, nil
}

// InvalidateCache clears all cached locations.
func (s *Service) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]cachedLocation)
}
