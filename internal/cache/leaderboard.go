// Package cache keeps the wealth leaderboard in a Redis sorted set.
package cache

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

const (
	leaderboardKey = "vie:leaderboard:balance"
	leaderboardTTL = 10 * time.Minute
)

// Score is one leaderboard member.
type Score struct {
	UserID  string
	Balance int64
}

type Leaderboard struct {
	client *redis.Client
}

// NewRedisClient connects and pings. A nil client is returned when addr is
// empty.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func NewLeaderboard(client *redis.Client) *Leaderboard {
	return &Leaderboard{client: client}
}

// Replace swaps the whole set for scores in one transaction.
func (l *Leaderboard) Replace(ctx context.Context, scores []Score) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, leaderboardKey)
		if len(scores) == 0 {
			return nil
		}
		members := make([]redis.Z, 0, len(scores))
		for _, s := range scores {
			members = append(members, redis.Z{Score: float64(s.Balance), Member: s.UserID})
		}
		pipe.ZAdd(ctx, leaderboardKey, members...)
		pipe.Expire(ctx, leaderboardKey, leaderboardTTL)
		return nil
	})
	return err
}

// Update sets the score of one player.
func (l *Leaderboard) Update(ctx context.Context, userID string, balance int64) error {
	return l.client.ZAdd(ctx, leaderboardKey, redis.Z{Score: float64(balance), Member: userID}).Err()
}

// Top returns the n richest players. ok is false when the set is missing.
func (l *Leaderboard) Top(ctx context.Context, n int64) ([]Score, bool, error) {
	exists, err := l.client.Exists(ctx, leaderboardKey).Result()
	if err != nil {
		return nil, false, err
	}
	if exists == 0 {
		return nil, false, nil
	}
	zs, err := l.client.ZRevRangeWithScores(ctx, leaderboardKey, 0, n-1).Result()
	if err != nil {
		return nil, false, err
	}
	out := make([]Score, 0, len(zs))
	for _, z := range zs {
		id, _ := z.Member.(string)
		out = append(out, Score{UserID: id, Balance: int64(z.Score)})
	}
	return out, true, nil
}

// Rank is the 1-based position of userID. ok is false when it is not ranked.
func (l *Leaderboard) Rank(ctx context.Context, userID string) (int64, bool, error) {
	r, err := l.client.ZRevRank(ctx, leaderboardKey, userID).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return r + 1, true, nil
}
