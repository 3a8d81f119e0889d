package store

import (
	"context"

	"vie_bot/internal/domain"
)

// CheckCooldown reports whether id may repeat action key now.
func (s *Store) CheckCooldown(id, key string) domain.CooldownStatus {
	return s.GetUser(id).CheckCooldown(key, s.now())
}

// SetCooldown blocks key for minutes from now.
func (s *Store) SetCooldown(ctx context.Context, id, key string, minutes int64) error {
	return s.Update(ctx, id, func(p *domain.PlayerRecord) error {
		p.SetCooldown(key, minutes, s.now())
		return nil
	})
}

// CalculateSuccessRate resolves the odds of id's next attempt in category.
func (s *Store) CalculateSuccessRate(id string, baseRate float64, category string, weaponBonus float64) domain.SuccessRate {
	return s.GetUser(id).CalculateSuccessRate(baseRate, category, weaponBonus, s.data.Pity.Rules())
}

// UpdatePity records the outcome of one resolved attempt.
func (s *Store) UpdatePity(ctx context.Context, id, category string, outcome domain.GameResult) error {
	return s.Update(ctx, id, func(p *domain.PlayerRecord) error {
		p.UpdatePity(category, outcome)
		return nil
	})
}

func (s *Store) AddXP(ctx context.Context, id string, amount int64) (domain.XPResult, error) {
	var res domain.XPResult
	err := s.Update(ctx, id, func(p *domain.PlayerRecord) error {
		res = p.AddXP(amount)
		return nil
	})
	return res, err
}

func (s *Store) ItemQuantity(id string, category domain.Category, item string) int64 {
	return s.GetUser(id).ItemQuantity(category, item)
}

func (s *Store) AddItem(ctx context.Context, id string, category domain.Category, item string, qty int64) error {
	return s.Update(ctx, id, func(p *domain.PlayerRecord) error {
		return p.AddItem(category, item, qty)
	})
}

func (s *Store) RemoveItem(ctx context.Context, id string, category domain.Category, item string, qty int64) error {
	return s.Update(ctx, id, func(p *domain.PlayerRecord) error {
		return p.RemoveItem(category, item, qty)
	})
}

func (s *Store) EquipItem(ctx context.Context, id string, slot domain.Slot, item string) error {
	return s.Update(ctx, id, func(p *domain.PlayerRecord) error {
		return p.Equip(slot, item)
	})
}

func (s *Store) PlantEgg(ctx context.Context, id, eggType string) error {
	return s.Update(ctx, id, func(p *domain.PlayerRecord) error {
		return Plant(p, s.data, eggType, s.now())
	})
}

func (s *Store) HatchEgg(ctx context.Context, id string) (HatchResult, error) {
	var res HatchResult
	err := s.Update(ctx, id, func(p *domain.PlayerRecord) error {
		var err error
		res, err = Hatch(p, s.data, s.rng, s.now())
		return err
	})
	return res, err
}

func (s *Store) UpgradeHatchery(ctx context.Context, id string) (UpgradeResult, error) {
	var res UpgradeResult
	err := s.Update(ctx, id, func(p *domain.PlayerRecord) error {
		var err error
		res, err = UpgradeHatcheryLevel(p, s.data)
		return err
	})
	return res, err
}
