package service

import (
	"context"

	"vie_bot/internal/domain"
	"vie_bot/internal/logger"
	"vie_bot/internal/store"
)

// HatcheryService plants and collects eggs.
type HatcheryService struct {
	engine
}

func NewHatcheryService(st *store.Store, quests *QuestService) *HatcheryService {
	return &HatcheryService{engine{store: st, quests: quests, log: logger.With("component", "hatchery")}}
}

// HatcheryStatus is the view of a player's hatchery.
type HatcheryStatus struct {
	Level            int              `json:"level"`
	MaxLevel         int              `json:"max_level"`
	NextUpgradeCost  int64            `json:"next_upgrade_cost,omitempty"`
	Planted          string           `json:"planted,omitempty"`
	PlantedName      string           `json:"planted_name,omitempty"`
	Ready            bool             `json:"ready"`
	RemainingMinutes int64            `json:"remaining_minutes"`
	Eggs             map[string]int64 `json:"eggs"`
}

func (s *HatcheryService) Status(userID string) HatcheryStatus {
	p := s.store.GetUser(userID)
	now := s.now()
	st := HatcheryStatus{
		Level:    p.Hatchery.Level,
		MaxLevel: s.data().Hatchery.MaxLevel(),
		Eggs:     p.CategorizedInventory[domain.CategoryEggs],
	}
	if cost, ok := s.data().HatcheryUpgradeCost(p.Hatchery.Level); ok {
		st.NextUpgradeCost = cost
	}
	if egg := p.Hatchery.PlantedEgg; !egg.Empty() {
		st.Planted = egg.Type
		st.PlantedName = itemName(s.data(), egg.Type)
		st.Ready = egg.Ready(now)
		st.RemainingMinutes = egg.RemainingMinutes(now)
	}
	return st
}

// PlantResult describes a freshly planted egg.
type PlantResult struct {
	EggType   string `json:"egg_type"`
	EggName   string `json:"egg_name"`
	GrowTime  int64  `json:"grow_time"`
	HarvestAt int64  `json:"harvest_at"`
}

func (s *HatcheryService) Plant(ctx context.Context, userID, eggType string) (PlantResult, error) {
	var res PlantResult
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		if err := store.Plant(p, s.data(), eggType, s.now()); err != nil {
			return err
		}
		egg, _ := s.data().Egg(eggType)
		res = PlantResult{
			EggType:   eggType,
			EggName:   egg.Name,
			GrowTime:  egg.GrowTime,
			HarvestAt: p.Hatchery.PlantedEgg.HarvestAt,
		}
		return nil
	})
	return res, err
}

// CollectResult wraps a hatch with the quests it completed.
type CollectResult struct {
	store.HatchResult
	Balance    int64          `json:"balance"`
	QuestsDone []domain.Quest `json:"quests_done,omitempty"`
}

// Collect hatches a ready egg.
func (s *HatcheryService) Collect(ctx context.Context, userID string) (CollectResult, error) {
	var res CollectResult
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		now := s.now()
		h, err := store.Hatch(p, s.data(), s.rng(), now)
		if err != nil {
			return err
		}
		res.HatchResult = h
		res.QuestsDone = s.track(p, domain.QuestActionHatch, now)
		res.Balance = p.Balance
		return nil
	})
	if err == nil {
		s.log.Info("egg hatched", "user_id", userID, "egg", res.EggType, "reward", res.Reward)
	}
	return res, err
}

func (s *HatcheryService) Upgrade(ctx context.Context, userID string) (store.UpgradeResult, error) {
	var res store.UpgradeResult
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		var err error
		res, err = store.UpgradeHatcheryLevel(p, s.data())
		return err
	})
	return res, err
}
