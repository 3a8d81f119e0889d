package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"vie_bot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PlayerRepository stores player records as jsonb rows. Balance and level are
// duplicated into columns for SQL-side leaderboards. It satisfies
// store.Backend.
type PlayerRepository struct {
	db *pgxpool.Pool
}

func NewPlayerRepository(db *pgxpool.Pool) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// LoadPlayers returns every record in insertion order.
func (r *PlayerRepository) LoadPlayers(ctx context.Context) ([]*domain.PlayerRecord, error) {
	rows, err := r.db.Query(ctx, `SELECT record FROM players ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.PlayerRecord
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var p domain.PlayerRecord
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("decode player record: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// SavePlayers upserts all records in one transaction.
func (r *PlayerRepository) SavePlayers(ctx context.Context, players []*domain.PlayerRecord) error {
	if len(players) == 0 {
		return nil
	}
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range players {
		raw, err := json.Marshal(p)
		if err != nil {
			return fmt.Errorf("encode player %s: %w", p.UserID, err)
		}
		batch.Queue(`
			INSERT INTO players (user_id, record, balance, level, updated_at)
			VALUES ($1, $2, $3, $4, NOW())
			ON CONFLICT (user_id) DO UPDATE
			SET record = EXCLUDED.record, balance = EXCLUDED.balance, level = EXCLUDED.level, updated_at = NOW()
		`, p.UserID, raw, p.Balance, p.Level)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PlayerRepository) LoadGuilds(ctx context.Context) ([]*domain.Guild, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, owner_id, role_id, rank_level, created_at FROM guilds ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Guild
	for rows.Next() {
		var g domain.Guild
		var created time.Time
		if err := rows.Scan(&g.ID, &g.Name, &g.OwnerID, &g.RoleID, &g.RankLevel, &created); err != nil {
			return nil, err
		}
		g.CreatedAt = created.UnixMilli()
		out = append(out, &g)
	}
	return out, rows.Err()
}

func (r *PlayerRepository) SaveGuild(ctx context.Context, g *domain.Guild) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO guilds (id, name, owner_id, role_id, rank_level, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE
		SET name = EXCLUDED.name, owner_id = EXCLUDED.owner_id, role_id = EXCLUDED.role_id, rank_level = EXCLUDED.rank_level
	`, g.ID, g.Name, g.OwnerID, g.RoleID, g.RankLevel, time.UnixMilli(g.CreatedAt))
	return err
}

func (r *PlayerRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// Close is a no-op: the pool is owned by the caller.
func (r *PlayerRepository) Close() error {
	return nil
}
