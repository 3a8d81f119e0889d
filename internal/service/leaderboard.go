package service

import (
	"context"
	"sort"

	"vie_bot/internal/cache"
	"vie_bot/internal/logger"
	"vie_bot/internal/store"
)

// LeaderboardCache is the Redis sorted set behind the wealth leaderboard.
type LeaderboardCache interface {
	Replace(ctx context.Context, scores []cache.Score) error
	Update(ctx context.Context, userID string, balance int64) error
	Top(ctx context.Context, n int64) ([]cache.Score, bool, error)
	Rank(ctx context.Context, userID string) (int64, bool, error)
}

// LeaderboardService ranks players by balance.
type LeaderboardService struct {
	store *store.Store
	cache LeaderboardCache
}

// NewLeaderboardService creates the service; c may be nil.
func NewLeaderboardService(st *store.Store, c LeaderboardCache) *LeaderboardService {
	return &LeaderboardService{store: st, cache: c}
}

// LeaderboardEntry is one wealth leaderboard line.
type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	UserID  string `json:"user_id"`
	Balance int64  `json:"balance"`
	Title   string `json:"title"`
}

// scan ranks every player by balance. Ties keep insertion order.
func (s *LeaderboardService) scan() []cache.Score {
	users := s.store.AllUsers()
	scores := make([]cache.Score, 0, len(users))
	for _, p := range users {
		scores = append(scores, cache.Score{UserID: p.UserID, Balance: p.Balance})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Balance > scores[j].Balance })
	return scores
}

// Top returns the limit richest players, from the cache when it is warm.
func (s *LeaderboardService) Top(ctx context.Context, limit int) []LeaderboardEntry {
	if limit <= 0 {
		limit = 10
	}
	var scores []cache.Score
	if s.cache != nil {
		cached, ok, err := s.cache.Top(ctx, int64(limit))
		if err != nil {
			logger.Warn("leaderboard cache read failed", "error", err)
		} else if ok {
			scores = cached
		}
	}
	if scores == nil {
		scores = s.scan()
		if len(scores) > limit {
			scores = scores[:limit]
		}
	}

	out := make([]LeaderboardEntry, 0, len(scores))
	for i, sc := range scores {
		out = append(out, LeaderboardEntry{
			Rank:    i + 1,
			UserID:  sc.UserID,
			Balance: sc.Balance,
			Title:   s.store.Data().WealthTitle(sc.Balance),
		})
	}
	return out
}

// Rank is the 1-based wealth position of userID.
func (s *LeaderboardService) Rank(ctx context.Context, userID string) int64 {
	if s.cache != nil {
		r, ok, err := s.cache.Rank(ctx, userID)
		if err != nil {
			logger.Warn("leaderboard cache rank failed", "error", err, "user_id", userID)
		} else if ok {
			return r
		}
	}
	for i, sc := range s.scan() {
		if sc.UserID == userID {
			return int64(i + 1)
		}
	}
	return 0
}

// Refresh rebuilds the cached set from the store.
func (s *LeaderboardService) Refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Replace(ctx, s.scan())
}

// Touch updates one player's cached score after a balance change.
func (s *LeaderboardService) Touch(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Update(ctx, userID, s.store.GetUser(userID).Balance); err != nil {
		logger.Warn("leaderboard cache update failed", "error", err, "user_id", userID)
	}
}
