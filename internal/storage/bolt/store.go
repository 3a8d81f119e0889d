// Package bolt is the embedded, single-file player backend.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"vie_bot/internal/domain"

	"go.etcd.io/bbolt"
)

const (
	playerBucket = "players"
	orderBucket  = "player_order"
	guildBucket  = "guilds"
)

// Store provides a BoltDB-backed player store.
type Store struct {
	db *bbolt.DB
}

// Open opens a BoltDB-backed store at the provided path, creating parent
// directories as needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	cleanPath := filepath.Clean(path)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	db, err := bbolt.Open(cleanPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	store := &Store{db: db}
	if err := store.ensureBuckets(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Ping verifies the database is open.
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(playerBucket)) == nil {
			return fmt.Errorf("player bucket is missing")
		}
		return nil
	})
}

// LoadPlayers returns every record in first-write order.
func (s *Store) LoadPlayers(ctx context.Context) ([]*domain.PlayerRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []*domain.PlayerRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		players := tx.Bucket([]byte(playerBucket))
		order := tx.Bucket([]byte(orderBucket))
		if players == nil || order == nil {
			return fmt.Errorf("player buckets are missing")
		}
		return order.ForEach(func(_, id []byte) error {
			payload := players.Get(id)
			if payload == nil {
				return nil
			}
			var p domain.PlayerRecord
			if err := json.Unmarshal(payload, &p); err != nil {
				return fmt.Errorf("unmarshal player %s: %w", id, err)
			}
			out = append(out, &p)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SavePlayers writes all records in a single transaction.
func (s *Store) SavePlayers(ctx context.Context, records []*domain.PlayerRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return fmt.Errorf("storage is not configured")
	}

	payloads := make([][]byte, len(records))
	for i, p := range records {
		if strings.TrimSpace(p.UserID) == "" {
			return fmt.Errorf("player id is required")
		}
		b, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("marshal player: %w", err)
		}
		payloads[i] = b
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		players := tx.Bucket([]byte(playerBucket))
		order := tx.Bucket([]byte(orderBucket))
		if players == nil || order == nil {
			return fmt.Errorf("player buckets are missing")
		}
		for i, p := range records {
			key := []byte(p.UserID)
			if players.Get(key) == nil {
				seq, err := order.NextSequence()
				if err != nil {
					return fmt.Errorf("next player sequence: %w", err)
				}
				if err := order.Put(seqKey(seq), key); err != nil {
					return err
				}
			}
			if err := players.Put(key, payloads[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// LoadGuilds returns all guilds ordered by id.
func (s *Store) LoadGuilds(ctx context.Context) ([]*domain.Guild, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var out []*domain.Guild
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(guildBucket))
		if bucket == nil {
			return fmt.Errorf("guild bucket is missing")
		}
		return bucket.ForEach(func(_, payload []byte) error {
			var g domain.Guild
			if err := json.Unmarshal(payload, &g); err != nil {
				return fmt.Errorf("unmarshal guild: %w", err)
			}
			out = append(out, &g)
			return nil
		})
	})
	return out, err
}

// SaveGuild persists a guild record.
func (s *Store) SaveGuild(ctx context.Context, g *domain.Guild) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(g.ID) == "" {
		return fmt.Errorf("guild id is required")
	}
	payload, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("marshal guild: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(guildBucket))
		if bucket == nil {
			return fmt.Errorf("guild bucket is missing")
		}
		return bucket.Put([]byte(g.ID), payload)
	})
}

func (s *Store) ensureBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range []string{playerBucket, orderBucket, guildBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

func seqKey(seq uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], seq)
	return b[:]
}
