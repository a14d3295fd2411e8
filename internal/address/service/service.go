// Package service provides CEP lookups with caching.
package service

import (
	"context"
	"sync"
	"time"

	"simulador_solar_backend/internal/address/client"
	"simulador_solar_backend/internal/address/transport"
	"simulador_solar_backend/internal/simulator/validation"
	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/logger"
)

// DefaultNotFoundTTL bounds how long an unknown CEP is remembered. New CEPs are
// published by Correios from time to time, so misses expire much sooner than hits.
const DefaultNotFoundTTL = 10 * time.Minute

// Resolver is the upstream lookup used by the service.
type Resolver interface {
	Lookup(ctx context.Context, cep string) (transport.Address, error)
}

var _ Resolver = (*client.Client)(nil)

type cacheEntry struct {
	address   transport.Address
	notFound  bool
	expiresAt time.Time
}

// Service resolves CEPs through the client and caches the outcome.
type Service struct {
	resolver    Resolver
	log         *logger.Logger
	cache       map[string]cacheEntry
	cacheMu     sync.RWMutex
	cacheTTL    time.Duration
	notFoundTTL time.Duration
	now         func() time.Time
}

// New creates a new address service.
func New(resolver Resolver, cacheTTL time.Duration, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Discard()
	}
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Service{
		resolver:    resolver,
		log:         log,
		cache:       make(map[string]cacheEntry),
		cacheTTL:    cacheTTL,
		notFoundTTL: DefaultNotFoundTTL,
		now:         time.Now,
	}
}

// Lookup resolves a CEP. The boolean reports whether the answer came from the cache.
func (s *Service) Lookup(ctx context.Context, cep string) (transport.Address, bool, error) {
	if err := validation.ValidateCEP(cep); err != nil {
		return transport.Address{}, false, err
	}
	key := validation.CleanCEP(cep)

	if entry, ok := s.getFromCache(key); ok {
		if entry.notFound {
			return transport.Address{}, true, apperr.Coded(apperr.KindNotFound, client.CodeNotFound, "CEP não encontrado. Preencha o endereço manualmente.")
		}
		return entry.address, true, nil
	}

	addr, err := s.resolver.Lookup(ctx, key)
	if err != nil {
		if apperr.HasCode(err, client.CodeNotFound) {
			s.setCache(key, cacheEntry{notFound: true, expiresAt: s.now().Add(s.notFoundTTL)})
		}
		return transport.Address{}, false, err
	}

	s.setCache(key, cacheEntry{address: addr, expiresAt: s.now().Add(s.cacheTTL)})
	s.log.Debug("address cached", "cep", key, "city", addr.City, "state", addr.State)
	return addr, false, nil
}

// ClearCache removes all cached entries.
func (s *Service) ClearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache = make(map[string]cacheEntry)
}

func (s *Service) getFromCache(key string) (cacheEntry, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()

	entry, ok := s.cache[key]
	if !ok || s.now().After(entry.expiresAt) {
		return cacheEntry{}, false
	}
	return entry, true
}

func (s *Service) setCache(key string, entry cacheEntry) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.cache[key] = entry
}
