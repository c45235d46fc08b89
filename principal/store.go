package principal

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrDuplicateUsername is returned by Register for a username already in use.
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrNotFound is returned by ReplaceRoles for an unknown principal id.
	ErrNotFound = errors.New("principal not found")
)

// Principal is a registered identity: a user or a component acting as one.
type Principal struct {
	ID       string
	Username string
	Secret   string
	Roles    []string
}

// Store is the repository interface the engine depends on. Implementations
// must be safe under concurrent calls and must never expose a principal
// mid-mutation.
type Store interface {
	Register(username, secret string, roles []string) (Principal, error)
	FindByUsername(username string) (Principal, bool)
	FindByID(id string) (Principal, bool)
	ReplaceRoles(id string, roles []string) error
}

// MemoryStore is the in-memory Store implementation.
type MemoryStore struct {
	mu         sync.RWMutex
	byUsername map[string]*Principal
	byID       map[string]*Principal
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byUsername: make(map[string]*Principal),
		byID:       make(map[string]*Principal),
	}
}

// Register creates a principal with a fresh id. Usernames are unique across
// all live principals.
func (s *MemoryStore) Register(username, secret string, roles []string) (Principal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byUsername[username]; exists {
		return Principal{}, ErrDuplicateUsername
	}

	p := &Principal{
		ID:       uuid.NewString(),
		Username: username,
		Secret:   secret,
		Roles:    append([]string(nil), roles...),
	}
	s.byUsername[username] = p
	s.byID[p.ID] = p
	return copyOf(p), nil
}

// FindByUsername returns the principal registered under username.
func (s *MemoryStore) FindByUsername(username string) (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byUsername[username]
	if !ok {
		return Principal{}, false
	}
	return copyOf(p), true
}

// FindByID returns the principal with the given id.
func (s *MemoryStore) FindByID(id string) (Principal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.byID[id]
	if !ok {
		return Principal{}, false
	}
	return copyOf(p), true
}

// ReplaceRoles swaps the principal's role set.
func (s *MemoryStore) ReplaceRoles(id string, roles []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	p.Roles = append([]string(nil), roles...)
	return nil
}

// Len returns the number of registered principals.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func copyOf(p *Principal) Principal {
	out := *p
	out.Roles = append([]string(nil), p.Roles...)
	return out
}
