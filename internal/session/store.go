package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

// Store owns the process-wide session. The in-memory value is authoritative;
// every change is written through to the optional Storage.
type Store struct {
	mu         sync.RWMutex
	current    models.Session
	generation uint64
	storage    Storage

	hooksMu sync.Mutex
	hooks   []func(models.Session)
}

// NewStore loads any persisted session. storage may be nil.
func NewStore(ctx context.Context, storage Storage) (*Store, error) {
	s := &Store{storage: storage}
	if storage == nil {
		return s, nil
	}
	loaded, err := storage.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	s.current = loaded
	return s, nil
}

func (s *Store) Set(ctx context.Context, token string, role models.Role) {
	l := logging.FromContext(ctx).With("svc", "session.set")

	next := models.Session{Token: token, Role: role}
	s.mu.Lock()
	s.current = next
	s.generation++
	s.mu.Unlock()
	s.notify(next)

	if s.storage == nil {
		return
	}
	if err := s.storage.Save(ctx, next); err != nil {
		l.Error("session_persist_failed", "reason", "cannot save session", "error", err)
	}
}

func (s *Store) Clear(ctx context.Context) {
	l := logging.FromContext(ctx).With("svc", "session.clear")

	s.mu.Lock()
	s.current = models.Session{}
	s.generation++
	s.mu.Unlock()
	s.notify(models.Session{})

	if s.storage == nil {
		return
	}
	if err := s.storage.Clear(ctx); err != nil {
		l.Error("session_persist_failed", "reason", "cannot clear session", "error", err)
	}
}

func (s *Store) Current() models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Token() string { return s.Current().Token }

func (s *Store) IsAuthenticated() bool { return s.Current().Authenticated() }

func (s *Store) IsAdmin() bool {
	cur := s.Current()
	return cur.Authenticated() && cur.Role == models.RoleAdmin
}

// Generation changes on every Set and Clear. Callers compare it before and
// after a remote call to detect that the session changed underneath them.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// OnChange registers fn to run after every Set and Clear with the new
// session. Hooks run outside the store lock and may call back into it.
func (s *Store) OnChange(fn func(models.Session)) {
	s.hooksMu.Lock()
	s.hooks = append(s.hooks, fn)
	s.hooksMu.Unlock()
}

func (s *Store) notify(next models.Session) {
	s.hooksMu.Lock()
	hooks := make([]func(models.Session), len(s.hooks))
	copy(hooks, s.hooks)
	s.hooksMu.Unlock()

	for _, fn := range hooks {
		fn(next)
	}
}
