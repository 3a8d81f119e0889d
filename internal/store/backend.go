package store

import (
	"context"

	"vie_bot/internal/domain"
)

// Backend is the durable side of the store. Players come back in insertion
// order.
type Backend interface {
	LoadPlayers(ctx context.Context) ([]*domain.PlayerRecord, error)
	SavePlayers(ctx context.Context, players []*domain.PlayerRecord) error
	LoadGuilds(ctx context.Context) ([]*domain.Guild, error)
	SaveGuild(ctx context.Context, g *domain.Guild) error
	Ping(ctx context.Context) error
	Close() error
}
