package game

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/xid"
)

// ErrGameNotFound is returned for unknown or malformed ids.
var ErrGameNotFound = errors.New("game not found")

// Store keeps running games in memory, keyed by xid.
type Store struct {
	opts []Option

	mu    sync.RWMutex
	games map[string]*Game
}

// NewStore returns an empty store. opts are applied to every created game.
func NewStore(opts ...Option) *Store {
	return &Store{
		opts:  opts,
		games: make(map[string]*Game),
	}
}

// Create deals a new game and returns its id.
func (s *Store) Create(cfg Config, opts ...Option) (string, *Game, error) {
	g, err := New(cfg, append(append([]Option(nil), s.opts...), opts...)...)
	if err != nil {
		return "", nil, err
	}
	id := xid.New().String()

	s.mu.Lock()
	s.games[id] = g
	s.mu.Unlock()
	return id, g, nil
}

// Get returns the game stored under id.
func (s *Store) Get(id string) (*Game, error) {
	if _, err := xid.FromString(id); err != nil {
		return nil, fmt.Errorf("%w: malformed id %q", ErrGameNotFound, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	g, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return g, nil
}

// Delete drops a game and closes its subscriptions.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	g, ok := s.games[id]
	delete(s.games, id)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	g.Close()
	return nil
}

// Len returns the number of stored games.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.games)
}
