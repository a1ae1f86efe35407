// Package cache is the redis-backed cache-aside layer.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

// DefaultAlias names the client used when no alias is given.
const DefaultAlias = "default"

// ErrUnknownAlias is returned when an alias has no registered client.
var ErrUnknownAlias = errors.New("cache: unknown alias")

// Store is a registry of redis clients keyed by alias.
// It is populated during startup and read-only afterwards.
type Store struct {
	clients map[string]redis.UniversalClient
}

// NewStore returns an empty registry.
func NewStore() *Store {
	return &Store{clients: make(map[string]redis.UniversalClient)}
}

// Open connects one client per alias → redis URL and pings each of them.
// On failure every client opened so far is closed.
func Open(ctx context.Context, urls map[string]string) (*Store, error) {
	s := NewStore()
	for _, alias := range sortedKeys(urls) {
		opts, err := redis.ParseURL(urls[alias])
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("cache alias %q: %w", alias, err)
		}
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			s.Close()
			return nil, fmt.Errorf("cache alias %q: ping: %w", alias, err)
		}
		s.Add(alias, client)
	}
	return s, nil
}

// Add registers client under alias, replacing any previous one.
func (s *Store) Add(alias string, client redis.UniversalClient) {
	s.clients[alias] = client
}

// Client returns the client registered under alias. An empty alias selects
// DefaultAlias.
func (s *Store) Client(alias string) (redis.UniversalClient, error) {
	if alias == "" {
		alias = DefaultAlias
	}
	if s != nil {
		if c, ok := s.clients[alias]; ok {
			return c, nil
		}
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownAlias, alias)
}

// Aliases returns the registered aliases in sorted order.
func (s *Store) Aliases() []string {
	return sortedKeys(s.clients)
}

// Delete removes keys from the aliased client.
func (s *Store) Delete(ctx context.Context, alias string, keys ...string) error {
	c, err := s.Client(alias)
	if err != nil {
		return err
	}
	return c.Del(ctx, keys...).Err()
}

// Ping checks every registered client.
func (s *Store) Ping(ctx context.Context) error {
	var errs []error
	for _, alias := range s.Aliases() {
		if err := s.clients[alias].Ping(ctx).Err(); err != nil {
			errs = append(errs, fmt.Errorf("cache alias %q: %w", alias, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes every registered client.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var errs []error
	for _, alias := range s.Aliases() {
		if err := s.clients[alias].Close(); err != nil {
			errs = append(errs, fmt.Errorf("cache alias %q: %w", alias, err))
		}
	}
	return errors.Join(errs...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
