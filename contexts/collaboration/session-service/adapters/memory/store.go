package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	domainerrors "retroboard/contexts/collaboration/session-service/domain/errors"
	"retroboard/contexts/collaboration/session-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory lifecycle repository used by tests and local
// wiring.
type Store struct {
	mu      sync.RWMutex
	retros  map[string]ports.Retro
	columns map[string][]ports.RetroColumn
}

func NewStore() *Store {
	return &Store{
		retros:  make(map[string]ports.Retro),
		columns: make(map[string][]ports.RetroColumn),
	}
}

func (s *Store) CreateRetro(_ context.Context, retro ports.Retro, columns []ports.RetroColumn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.retros[retro.RetroID]; ok {
		return domainerrors.ErrConflict
	}
	s.retros[retro.RetroID] = retro
	s.columns[retro.RetroID] = append([]ports.RetroColumn(nil), columns...)
	return nil
}

func (s *Store) GetRetro(_ context.Context, retroID string) (ports.Retro, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	retro, ok := s.retros[strings.TrimSpace(retroID)]
	if !ok {
		return ports.Retro{}, domainerrors.ErrRetroNotFound
	}
	return retro, nil
}

func (s *Store) ListRetros(_ context.Context) ([]ports.Retro, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	retros := make([]ports.Retro, 0, len(s.retros))
	for _, retro := range s.retros {
		retros = append(retros, retro)
	}
	sort.Slice(retros, func(i, j int) bool {
		if !retros[i].CreatedAt.Equal(retros[j].CreatedAt) {
			return retros[i].CreatedAt.After(retros[j].CreatedAt)
		}
		return retros[i].RetroID < retros[j].RetroID
	})
	return retros, nil
}

func (s *Store) ListTags(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tags := make([]string, 0, len(s.retros))
	for _, retro := range s.retros {
		if strings.TrimSpace(retro.Tags) != "" {
			tags = append(tags, retro.Tags)
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// Columns exposes seeded columns for test assertions.
func (s *Store) Columns(retroID string) []ports.RetroColumn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ports.RetroColumn(nil), s.columns[strings.TrimSpace(retroID)]...)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
