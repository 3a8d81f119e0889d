package store

import (
	"math"
	"time"

	"vie_bot/internal/domain"
	"vie_bot/internal/gamedata"
	"vie_bot/internal/random"
)

// HatchResult describes a collected egg.
type HatchResult struct {
	EggType      string          `json:"egg_type"`
	EggName      string          `json:"egg_name"`
	Pet          string          `json:"pet,omitempty"`
	Reward       int64           `json:"reward"`
	BonusPercent int64           `json:"bonus_percent"`
	Kg           float64         `json:"kg"`
	XP           domain.XPResult `json:"xp"`
}

// UpgradeResult describes a hatchery upgrade.
type UpgradeResult struct {
	NewLevel int   `json:"new_level"`
	Cost     int64 `json:"cost"`
}

// Plant puts one eggType egg from the inventory into the hatchery.
func Plant(p *domain.PlayerRecord, data *gamedata.Data, eggType string, now time.Time) error {
	egg, err := data.Egg(eggType)
	if err != nil {
		return err
	}
	if !p.Hatchery.PlantedEgg.Empty() {
		return domain.Fail(domain.ErrStateConflict, "an egg (%s) is already planted", p.Hatchery.PlantedEgg.Type)
	}
	if p.Hatchery.Level < egg.LevelRequired {
		return domain.Fail(domain.ErrLevelTooLow, "%s needs hatchery level %d, yours is %d", egg.Name, egg.LevelRequired, p.Hatchery.Level)
	}
	if err := p.RemoveItem(domain.CategoryEggs, eggType, 1); err != nil {
		return err
	}
	return p.Hatchery.Plant(eggType, egg.GrowTime, now)
}

// Hatch collects a ready egg: credits the reward, adds the pet and grants XP.
func Hatch(p *domain.PlayerRecord, data *gamedata.Data, rng random.Source, now time.Time) (HatchResult, error) {
	planted := p.Hatchery.PlantedEgg
	if planted.Empty() {
		return HatchResult{}, domain.Fail(domain.ErrStateConflict, "no egg planted")
	}
	egg, err := data.Egg(planted.Type)
	if err != nil {
		return HatchResult{}, err
	}
	if _, err := p.Hatchery.Harvest(now); err != nil {
		return HatchResult{}, err
	}

	maxBonus := data.Hatchery.BonusBasePercent + int64(p.Hatchery.Level)*data.Hatchery.BonusPerLevelPercent
	bonus := random.Between(rng, 0, maxBonus)
	reward := egg.BaseReward + domain.BonusPercent(egg.BaseReward, bonus)

	kg := egg.KgMin + rng.Float64()*(egg.KgMax-egg.KgMin)
	kg = math.Round(kg*10) / 10

	p.Credit(reward)
	if egg.Pet != "" {
		if err := p.AddItem(domain.CategoryPets, egg.Pet, 1); err != nil {
			return HatchResult{}, err
		}
	}
	xp := p.AddXP(data.Hatchery.XP)

	return HatchResult{
		EggType:      planted.Type,
		EggName:      egg.Name,
		Pet:          egg.Pet,
		Reward:       reward,
		BonusPercent: bonus,
		Kg:           kg,
		XP:           xp,
	}, nil
}

// UpgradeHatcheryLevel pays the tier cost and raises the hatchery level.
func UpgradeHatcheryLevel(p *domain.PlayerRecord, data *gamedata.Data) (UpgradeResult, error) {
	cost, ok := data.HatcheryUpgradeCost(p.Hatchery.Level)
	if !ok {
		return UpgradeResult{}, domain.Fail(domain.ErrStateConflict, "hatchery is already at max level %d", p.Hatchery.Level)
	}
	if err := p.Debit(cost); err != nil {
		return UpgradeResult{}, err
	}
	p.Hatchery.Level++
	return UpgradeResult{NewLevel: p.Hatchery.Level, Cost: cost}, nil
}
