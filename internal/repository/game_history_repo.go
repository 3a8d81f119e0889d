package repository

import (
	"context"
	"encoding/json"

	"vie_bot/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type GameHistoryRepository struct {
	db *pgxpool.Pool
}

func NewGameHistoryRepository(db *pgxpool.Pool) *GameHistoryRepository {
	return &GameHistoryRepository{db: db}
}

// Create stores a finished casino game
func (r *GameHistoryRepository) Create(ctx context.Context, g *domain.GameRecord) error {
	detailsJSON, err := json.Marshal(g.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return r.db.QueryRow(ctx,
		`INSERT INTO game_history (user_id, game_type, result, bet_amount, payout, details)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`,
		g.UserID, g.GameType, g.Result, g.BetAmount, g.Payout, detailsJSON,
	).Scan(&g.ID, &g.CreatedAt)
}

// GetByUser returns the latest games of a user
func (r *GameHistoryRepository) GetByUser(ctx context.Context, userID string, limit int) ([]*domain.GameRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, game_type, result, bet_amount, payout, details, created_at
		 FROM game_history
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanGameRecords(rows)
}

func scanGameRecords(rows pgx.Rows) ([]*domain.GameRecord, error) {
	var out []*domain.GameRecord
	for rows.Next() {
		var g domain.GameRecord
		var detailsJSON []byte
		if err := rows.Scan(&g.ID, &g.UserID, &g.GameType, &g.Result, &g.BetAmount, &g.Payout, &detailsJSON, &g.CreatedAt); err != nil {
			return nil, err
		}
		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &g.Details)
		}
		out = append(out, &g)
	}
	return out, rows.Err()
}
