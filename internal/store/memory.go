package store

import (
	"context"
	"sync"

	"vie_bot/internal/domain"
)

// MemoryBackend keeps records in process memory. Used by tests and the
// "memory" store backend.
type MemoryBackend struct {
	mu       sync.Mutex
	order    []string
	players  map[string]*domain.PlayerRecord
	guilds   map[string]*domain.Guild
	saves    int
	failErr  error
	guildErr error
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		players: make(map[string]*domain.PlayerRecord),
		guilds:  make(map[string]*domain.Guild),
	}
}

// FailWith makes subsequent saves return err. nil restores normal behaviour.
func (m *MemoryBackend) FailWith(err error) {
	m.mu.Lock()
	m.failErr = err
	m.mu.Unlock()
}

// FailGuildsWith makes subsequent guild saves return err.
func (m *MemoryBackend) FailGuildsWith(err error) {
	m.mu.Lock()
	m.guildErr = err
	m.mu.Unlock()
}

// Saves counts successful SavePlayers calls.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *MemoryBackend) LoadPlayers(ctx context.Context) ([]*domain.PlayerRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.PlayerRecord, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.players[id].Clone())
	}
	return out, nil
}

func (m *MemoryBackend) SavePlayers(ctx context.Context, players []*domain.PlayerRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	for _, p := range players {
		if _, ok := m.players[p.UserID]; !ok {
			m.order = append(m.order, p.UserID)
		}
		m.players[p.UserID] = p.Clone()
	}
	m.saves++
	return nil
}

func (m *MemoryBackend) LoadGuilds(ctx context.Context) ([]*domain.Guild, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.Guild, 0, len(m.guilds))
	for _, g := range m.guilds {
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryBackend) SaveGuild(ctx context.Context, g *domain.Guild) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failErr != nil {
		return m.failErr
	}
	if m.guildErr != nil {
		return m.guildErr
	}
	cp := *g
	m.guilds[g.ID] = &cp
	return nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error { return nil }

func (m *MemoryBackend) Close() error { return nil }
