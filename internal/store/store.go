// Package store owns the in-memory player table and its persistence.
//
// Every mutation goes through Update, which serializes access per user,
// applies the change to a private copy and commits it only when the callback
// succeeds. A callback returning a *domain.Failure therefore never leaves a
// partially mutated record behind.
package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"vie_bot/internal/domain"
	"vie_bot/internal/gamedata"
	"vie_bot/internal/logger"
	"vie_bot/internal/random"
)

var ErrClosed = errors.New("store closed")

type entry struct {
	mu  sync.Mutex
	rec *domain.PlayerRecord
	seq int // position in insertion order
}

// Store is the player state store.
type Store struct {
	backend     Backend
	data        *gamedata.Data
	rng         random.Source
	now         func() time.Time
	log         *slog.Logger
	writeBehind bool

	mu      sync.RWMutex
	players map[string]*entry
	order   []string
	dirty   map[string]struct{}
	guilds  map[string]*domain.Guild
	closed  bool

	// persistMu orders backend writes with the swaps they commit, so records
	// reach the backend in insertion order and never overtake each other.
	persistMu sync.Mutex
}

type Option func(*Store)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithRandom replaces the crypto-seeded source.
func WithRandom(src random.Source) Option {
	return func(s *Store) { s.rng = src }
}

// WithWriteBehind makes Update commit in memory only; Flush persists.
func WithWriteBehind() Option {
	return func(s *Store) { s.writeBehind = true }
}

// Open loads every player and guild from backend.
func Open(ctx context.Context, backend Backend, data *gamedata.Data, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		data:    data,
		now:     time.Now,
		log:     logger.With("component", "store"),
		players: make(map[string]*entry),
		dirty:   make(map[string]struct{}),
		guilds:  make(map[string]*domain.Guild),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		src, err := random.NewSeeded()
		if err != nil {
			return nil, err
		}
		s.rng = src
	}

	players, err := backend.LoadPlayers(ctx)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	for _, p := range players {
		p.Normalize()
		if _, dup := s.players[p.UserID]; dup {
			continue
		}
		s.players[p.UserID] = &entry{rec: p, seq: len(s.order)}
		s.order = append(s.order, p.UserID)
	}

	guilds, err := backend.LoadGuilds(ctx)
	if err != nil {
		return nil, fmt.Errorf("load guilds: %w", err)
	}
	for _, g := range guilds {
		s.guilds[g.ID] = g
	}

	s.log.Info("store opened", "players", len(s.order), "guilds", len(s.guilds), "write_behind", s.writeBehind)
	return s, nil
}

func (s *Store) Data() *gamedata.Data { return s.data }
func (s *Store) Rand() random.Source  { return s.rng }
func (s *Store) Now() time.Time       { return s.now() }
func (s *Store) Backend() Backend     { return s.backend }
func (s *Store) Logger() *slog.Logger { return s.log }

// entryFor returns the entry of id, creating a default record on miss.
func (s *Store) entryFor(id string) *entry {
	s.mu.RLock()
	e, ok := s.players[id]
	s.mu.RUnlock()
	if ok {
		return e
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if e, ok = s.players[id]; ok {
		return e
	}
	e = &entry{rec: domain.NewPlayerRecord(id, s.now()), seq: len(s.order)}
	s.players[id] = e
	s.order = append(s.order, id)
	s.dirty[id] = struct{}{}
	return e
}

// GetUser returns a copy of the record of id, creating it on first access.
func (s *Store) GetUser(id string) *domain.PlayerRecord {
	e := s.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rec.Clone()
}

// Exists reports whether id already has a record.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.players[id]
	return ok
}

// AllUsers returns copies of every record in insertion order.
func (s *Store) AllUsers() []*domain.PlayerRecord {
	s.mu.RLock()
	ids := append([]string(nil), s.order...)
	s.mu.RUnlock()

	out := make([]*domain.PlayerRecord, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.GetUser(id))
	}
	return out
}

// Len is the number of known players.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Update runs fn against a private copy of id's record while holding the
// user's lock. The copy replaces the stored record only when fn returns nil
// and, unless write-behind is enabled, only after the backend accepted it.
func (s *Store) Update(ctx context.Context, id string, fn func(p *domain.PlayerRecord) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	e := s.entryFor(id)
	e.mu.Lock()
	defer e.mu.Unlock()

	work := e.rec.Clone()
	if err := fn(work); err != nil {
		return err
	}
	return s.commit(ctx, []*entry{e}, []*domain.PlayerRecord{work})
}

// UpdatePair is Update for two distinct players. Locks are taken in ascending
// id order so concurrent transfers cannot deadlock.
func (s *Store) UpdatePair(ctx context.Context, a, b string, fn func(pa, pb *domain.PlayerRecord) error) error {
	if a == b {
		return domain.Fail(domain.ErrInvalidTarget, "cannot target yourself")
	}
	if err := s.checkOpen(); err != nil {
		return err
	}
	ea, eb := s.entryFor(a), s.entryFor(b)
	first, second := ea, eb
	if b < a {
		first, second = eb, ea
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	wa, wb := ea.rec.Clone(), eb.rec.Clone()
	if err := fn(wa, wb); err != nil {
		return err
	}
	return s.commit(ctx, []*entry{ea, eb}, []*domain.PlayerRecord{wa, wb})
}

// commit must be called with every entry lock held. In write-through mode
// records created by a read and not saved yet go out in the same batch, so
// the backend sees every player in insertion order.
func (s *Store) commit(ctx context.Context, entries []*entry, recs []*domain.PlayerRecord) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if !s.writeBehind {
		batch := s.pendingBatch(entries, recs)
		if err := s.backend.SavePlayers(ctx, batch); err != nil {
			return fmt.Errorf("persist players: %w", err)
		}
		s.mu.Lock()
		for i, e := range entries {
			e.rec = recs[i]
		}
		for _, p := range batch {
			delete(s.dirty, p.UserID)
		}
		s.mu.Unlock()
		return nil
	}

	s.mu.Lock()
	for i, e := range entries {
		e.rec = recs[i]
		s.dirty[recs[i].UserID] = struct{}{}
	}
	s.mu.Unlock()
	return nil
}

type pending struct {
	seq int
	rec *domain.PlayerRecord
}

// pendingBatch merges recs with every other dirty record, ordered by
// insertion position. Records are never mutated in place once stored, so the
// stored pointers are safe to hand to the backend.
func (s *Store) pendingBatch(entries []*entry, recs []*domain.PlayerRecord) []*domain.PlayerRecord {
	s.mu.RLock()
	items := make([]pending, 0, len(recs)+len(s.dirty))
	own := make(map[string]struct{}, len(recs))
	for i, e := range entries {
		items = append(items, pending{seq: e.seq, rec: recs[i]})
		own[recs[i].UserID] = struct{}{}
	}
	for id := range s.dirty {
		if _, ok := own[id]; ok {
			continue
		}
		e := s.players[id]
		items = append(items, pending{seq: e.seq, rec: e.rec})
	}
	s.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool { return items[i].seq < items[j].seq })
	out := make([]*domain.PlayerRecord, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}

// Flush persists every record changed since the last successful flush, in
// insertion order.
func (s *Store) Flush(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	batch := s.pendingBatch(nil, nil)
	if len(batch) == 0 {
		return nil
	}
	if err := s.backend.SavePlayers(ctx, batch); err != nil {
		return fmt.Errorf("flush %d players: %w", len(batch), err)
	}

	s.mu.Lock()
	for _, p := range batch {
		delete(s.dirty, p.UserID)
	}
	s.mu.Unlock()
	s.log.Debug("store flushed", "players", len(batch))
	return nil
}

// Pending is the number of records waiting for a flush.
func (s *Store) Pending() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.dirty)
}

// Ping checks the backend.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Close flushes pending changes and closes the backend.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	flushErr := s.Flush(ctx)
	closeErr := s.backend.Close()
	s.log.Info("store closed")
	return errors.Join(flushErr, closeErr)
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

// Snapshot is a point-in-time copy of the whole store.
type Snapshot struct {
	TakenAt time.Time              `json:"taken_at"`
	Players []*domain.PlayerRecord `json:"players"`
	Guilds  []*domain.Guild        `json:"guilds"`
}

// Snapshot copies all players and guilds.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		TakenAt: s.now(),
		Players: s.AllUsers(),
		Guilds:  s.Guilds(),
	}
}
