package service

import (
	"context"
	"sort"

	"vie_bot/internal/domain"
	"vie_bot/internal/gamedata"
	"vie_bot/internal/logger"
	"vie_bot/internal/random"
	"vie_bot/internal/store"
)

const dungeonAction = "dungeon"

// DungeonService runs dungeon tiers and crafting.
type DungeonService struct {
	engine
}

func NewDungeonService(st *store.Store, quests *QuestService) *DungeonService {
	return &DungeonService{engine{store: st, quests: quests, log: logger.With("component", "dungeon")}}
}

// TierView describes a dungeon tier as seen by one player.
type TierView struct {
	ID            string                  `json:"id"`
	Name          string                  `json:"name"`
	LevelRequired int                     `json:"level_required"`
	SuccessRate   domain.SuccessRate      `json:"success_rate"`
	RewardMin     int64                   `json:"reward_min"`
	RewardMax     int64                   `json:"reward_max"`
	Requirements  []gamedata.ItemQuantity `json:"requirements"`
	Cooldown      domain.CooldownStatus   `json:"cooldown"`
	Unlocked      bool                    `json:"unlocked"`
}

func (s *DungeonService) Tiers(userID string) []TierView {
	p := s.store.GetUser(userID)
	data := s.data()
	bonus, _ := s.gear(p)
	now := s.now()
	ids := data.DungeonIDs()
	out := make([]TierView, 0, len(ids))
	for _, id := range ids {
		t := data.Dungeons[id]
		key := domain.CooldownKey(dungeonAction, id)
		out = append(out, TierView{
			ID:            id,
			Name:          t.Name,
			LevelRequired: t.LevelRequired,
			SuccessRate:   p.CalculateSuccessRate(t.SuccessRate, key, bonus, data.Pity.Rules()),
			RewardMin:     t.RewardMin,
			RewardMax:     t.RewardMax,
			Requirements:  t.Requirements,
			Cooldown:      p.CheckCooldown(key, now),
			Unlocked:      p.Level >= t.LevelRequired,
		})
	}
	return out
}

// LootDrop is one item obtained in a run.
type LootDrop struct {
	Category domain.Category `json:"category"`
	Item     string          `json:"item"`
	Qty      int64           `json:"qty"`
}

// DungeonResult is the outcome of one run.
type DungeonResult struct {
	Tier            string              `json:"tier"`
	TierName        string              `json:"tier_name"`
	Result          domain.GameResult   `json:"result"`
	Rate            domain.SuccessRate  `json:"rate"`
	Reward          int64               `json:"reward"`
	GearBonus       int64               `json:"gear_bonus"`
	Drops           []LootDrop          `json:"drops,omitempty"`
	Consumed        []LootDrop          `json:"consumed,omitempty"`
	Balance         int64               `json:"balance"`
	CooldownMinutes int64               `json:"cooldown_minutes"`
	XP              domain.XPResult     `json:"xp"`
	Stats           domain.DungeonStats `json:"stats"`
	QuestsDone      []domain.Quest      `json:"quests_done,omitempty"`
}

// Enter attempts tier. Every check runs before the first mutation; required
// items are consumed whether the run is cleared or not.
func (s *DungeonService) Enter(ctx context.Context, userID, tierID string) (DungeonResult, error) {
	data := s.data()
	tier, err := data.DungeonTier(tierID)
	if err != nil {
		return DungeonResult{}, err
	}
	key := domain.CooldownKey(dungeonAction, tierID)

	var res DungeonResult
	err = s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		now := s.now()
		if err := p.RequireLevel(tier.LevelRequired); err != nil {
			return err
		}
		for _, req := range tier.Requirements {
			if have := p.ItemQuantity(req.Category, req.Item); have < req.Qty {
				return domain.Fail(domain.ErrInsufficientItems, "%s requires %d x %s, you have %d",
					tier.Name, req.Qty, itemName(data, req.Item), have)
			}
		}
		if err := p.RequireCooldown(key, now); err != nil {
			return err
		}

		bonus, rewardPct := s.gear(p)
		rate := p.CalculateSuccessRate(tier.SuccessRate, key, bonus, data.Pity.Rules())
		outcome := domain.Roll(rate, random.Percent(s.rng()))
		p.UpdatePity(key, outcome)

		for _, req := range tier.Requirements {
			if err := p.RemoveItem(req.Category, req.Item, req.Qty); err != nil {
				return err
			}
			res.Consumed = append(res.Consumed, LootDrop{Category: req.Category, Item: req.Item, Qty: req.Qty})
		}

		res.Tier = tierID
		res.TierName = tier.Name
		res.Rate = rate
		res.Result = outcome
		if outcome == domain.GameResultWin {
			base := random.Between(s.rng(), tier.RewardMin, tier.RewardMax)
			res.GearBonus = domain.BonusPercent(base, rewardPct)
			res.Reward = base + res.GearBonus
			p.Credit(res.Reward)
			for _, d := range tier.Drops {
				if random.Percent(s.rng()) >= d.Chance {
					continue
				}
				qty := random.Between(s.rng(), max(d.Min, 1), max(d.Max, 1))
				if err := p.AddItem(d.Category, d.Item, qty); err != nil {
					return err
				}
				countDrop(&p.DungeonStats, d.Stat, qty)
				res.Drops = append(res.Drops, LootDrop{Category: d.Category, Item: d.Item, Qty: qty})
			}
		}
		// every resolved run earns XP, cleared or not
		res.XP = s.grantXP(p, tier.XP)
		p.DungeonStats.RecordRun(outcome == domain.GameResultWin, res.Reward)

		res.CooldownMinutes = s.startCooldown(p, key, tier.Cooldown, now)
		res.QuestsDone = s.track(p, domain.QuestActionDungeon, now)
		res.Stats = p.DungeonStats
		res.Balance = p.Balance
		return nil
	})
	if err == nil {
		s.log.Info("dungeon run", "user_id", userID, "tier", tierID, "result", res.Result, "reward", res.Reward)
	}
	return res, err
}

func countDrop(st *domain.DungeonStats, stat string, qty int64) {
	switch stat {
	case "eggs":
		st.EggsCollected += qty
	case "souls":
		st.SoulsCollected += qty
	case "ngoc_linh":
		st.NgocLinhCollected += qty
	}
}

func (s *DungeonService) Stats(userID string) domain.DungeonStats {
	return s.store.GetUser(userID).DungeonStats
}

// DungeonEntry is a dungeon leaderboard line.
type DungeonEntry struct {
	Rank   int                 `json:"rank"`
	UserID string              `json:"user_id"`
	Stats  domain.DungeonStats `json:"stats"`
}

// Leaderboard ranks players with at least one run by clears, then earnings.
func (s *DungeonService) Leaderboard(limit int) []DungeonEntry {
	var rows []DungeonEntry
	for _, p := range s.store.AllUsers() {
		if p.DungeonStats.TotalRuns == 0 {
			continue
		}
		rows = append(rows, DungeonEntry{UserID: p.UserID, Stats: p.DungeonStats})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Stats, rows[j].Stats
		if a.TotalClears != b.TotalClears {
			return a.TotalClears > b.TotalClears
		}
		return a.TotalEarned > b.TotalEarned
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows
}

// CraftResult lists what a recipe consumed.
type CraftResult struct {
	Item     string     `json:"item"`
	Name     string     `json:"name"`
	Qty      int64      `json:"qty"`
	Consumed []LootDrop `json:"consumed"`
}

// Craft turns recipe inputs into qty units of the recipe's item.
func (s *DungeonService) Craft(ctx context.Context, userID, item string, qty int64) (CraftResult, error) {
	if qty == 0 {
		qty = 1
	}
	if err := requirePositive(qty, "quantity"); err != nil {
		return CraftResult{}, err
	}
	recipe, err := s.data().Recipe(item)
	if err != nil {
		return CraftResult{}, err
	}
	res := CraftResult{Item: item, Name: itemName(s.data(), item), Qty: qty}
	err = s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		for _, in := range recipe.Inputs {
			need := in.Qty * qty
			if have := p.ItemQuantity(in.Category, in.Item); have < need {
				return domain.Fail(domain.ErrInsufficientItems, "crafting %d x %s needs %d x %s, you have %d",
					qty, res.Name, need, itemName(s.data(), in.Item), have)
			}
		}
		res.Consumed = res.Consumed[:0]
		for _, in := range recipe.Inputs {
			need := in.Qty * qty
			if err := p.RemoveItem(in.Category, in.Item, need); err != nil {
				return err
			}
			res.Consumed = append(res.Consumed, LootDrop{Category: in.Category, Item: in.Item, Qty: need})
		}
		return p.AddItem(recipe.Category, item, qty)
	})
	return res, err
}
