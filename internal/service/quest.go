package service

import (
	"context"
	"time"

	"vie_bot/internal/domain"
	"vie_bot/internal/logger"
	"vie_bot/internal/store"
)

// QuestService hands out daily quests. Finished quests pay out through Claim.
type QuestService struct {
	store *store.Store
}

func NewQuestService(st *store.Store) *QuestService {
	return &QuestService{store: st}
}

// ensure assigns today's quests when the stored set is from another day.
func (s *QuestService) ensure(p *domain.PlayerRecord, now time.Time) {
	if !p.DailyQuests.Expired(now) {
		return
	}
	p.DailyQuests = &domain.DailyQuests{Date: domain.DayKey(now), Quests: s.pick()}
}

func (s *QuestService) pick() []domain.Quest {
	data := s.store.Data()
	pool := make([]int, len(data.Quests))
	for i := range pool {
		pool[i] = i
	}
	n := data.Economy.QuestsPerDay
	if n <= 0 || n > len(pool) {
		n = len(pool)
	}
	rng := s.store.Rand()
	out := make([]domain.Quest, 0, n)
	for i := 0; i < n; i++ {
		j := i + rng.Intn(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
		t := data.Quests[pool[i]]
		out = append(out, domain.Quest{ID: t.ID, Title: t.Title, Action: t.Action, Target: t.Target, Reward: t.Reward})
	}
	return out
}

// Track advances quests for action inside a running transaction and returns
// the quests that completed. It never touches the balance.
func (s *QuestService) Track(p *domain.PlayerRecord, action domain.QuestAction, n int, now time.Time) []domain.Quest {
	s.ensure(p, now)
	return p.DailyQuests.Advance(action, n)
}

// ClaimResult lists the quests paid out by Claim.
type ClaimResult struct {
	Claimed []domain.Quest `json:"claimed"`
	Reward  int64          `json:"reward"`
	Balance int64          `json:"balance"`
}

// Claim credits the rewards of today's finished quests that were not paid yet.
func (s *QuestService) Claim(ctx context.Context, userID string) (ClaimResult, error) {
	var res ClaimResult
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		s.ensure(p, s.store.Now())
		claimed, total := p.DailyQuests.Claim()
		if len(claimed) == 0 {
			return domain.Fail(domain.ErrStateConflict, "no finished quest to claim")
		}
		p.Credit(total)
		res = ClaimResult{Claimed: claimed, Reward: total, Balance: p.Balance}
		return nil
	})
	if err != nil {
		return ClaimResult{}, err
	}
	logger.WithContext(ctx).Debug("quests claimed", "user_id", userID, "count", len(res.Claimed), "reward", res.Reward)
	return res, nil
}

// Today returns the player's quests for the current day, assigning them if
// needed.
func (s *QuestService) Today(ctx context.Context, userID string) (*domain.DailyQuests, error) {
	var out *domain.DailyQuests
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		s.ensure(p, s.store.Now())
		cp := *p.DailyQuests
		cp.Quests = append([]domain.Quest(nil), p.DailyQuests.Quests...)
		out = &cp
		return nil
	})
	return out, err
}

// Refresh replaces today's quests for a fee.
func (s *QuestService) Refresh(ctx context.Context, userID string) (*domain.DailyQuests, int64, error) {
	cost := s.store.Data().Economy.QuestRefreshCost
	var out *domain.DailyQuests
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		if err := p.Debit(cost); err != nil {
			return err
		}
		p.DailyQuests = &domain.DailyQuests{Date: domain.DayKey(s.store.Now()), Quests: s.pick()}
		out = p.DailyQuests
		return nil
	})
	if err != nil {
		return nil, 0, err
	}
	logger.WithContext(ctx).Debug("quests refreshed", "user_id", userID, "cost", cost)
	return out, cost, nil
}
