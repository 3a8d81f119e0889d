package service

import (
	"context"
	"sort"

	"vie_bot/internal/domain"
	"vie_bot/internal/logger"
	"vie_bot/internal/random"
	"vie_bot/internal/store"
)

const (
	KeyHunt     = "hunt"
	PityHunt    = "hunt"
	huntLootQty = 1
)

// HuntService resolves monster hunts.
type HuntService struct {
	engine
}

func NewHuntService(st *store.Store, quests *QuestService) *HuntService {
	return &HuntService{engine{store: st, quests: quests, log: logger.With("component", "hunt")}}
}

// HuntResult is the outcome of one hunt.
type HuntResult struct {
	Monster         string             `json:"monster"`
	MonsterName     string             `json:"monster_name"`
	Result          domain.GameResult  `json:"result"`
	Rate            domain.SuccessRate `json:"rate"`
	Reward          int64              `json:"reward"`
	GearBonus       int64              `json:"gear_bonus"`
	Loot            string             `json:"loot,omitempty"`
	Balance         int64              `json:"balance"`
	CooldownMinutes int64              `json:"cooldown_minutes"`
	XP              domain.XPResult    `json:"xp"`
	QuestsDone      []domain.Quest     `json:"quests_done,omitempty"`
}

// gear sums the bonuses of everything the player has equipped.
func (e *engine) gear(p *domain.PlayerRecord) (success float64, rewardPct int64) {
	for _, slot := range []domain.Slot{domain.SlotWeapon, domain.SlotPhuChu, domain.SlotLinhDan} {
		item, ok := p.Equipped(slot)
		if !ok {
			continue
		}
		eq := e.data().EquipmentFor(item)
		success += eq.SuccessBonus
		rewardPct += eq.RewardMultiplier
	}
	return success, rewardPct
}

// Hunt fights a random monster the player's level allows.
func (s *HuntService) Hunt(ctx context.Context, userID string) (HuntResult, error) {
	var res HuntResult
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		now := s.now()
		if err := p.RequireCooldown(KeyHunt, now); err != nil {
			return err
		}
		data := s.data()
		ids := data.MonstersFor(p.Level)
		if len(ids) == 0 {
			return domain.Fail(domain.ErrLevelTooLow, "no monster is available at level %d", p.Level)
		}
		id := random.Pick(s.rng(), ids)
		m, err := data.Monster(id)
		if err != nil {
			return err
		}

		bonus, rewardPct := s.gear(p)
		rate := p.CalculateSuccessRate(m.SuccessRate, PityHunt, bonus, data.Pity.Rules())
		outcome := domain.Roll(rate, random.Percent(s.rng()))
		p.UpdatePity(PityHunt, outcome)

		res.Monster = id
		res.MonsterName = m.Name
		res.Rate = rate
		res.Result = outcome
		if outcome == domain.GameResultWin {
			base := random.Between(s.rng(), m.RewardMin, m.RewardMax)
			res.GearBonus = domain.BonusPercent(base, rewardPct)
			res.Reward = base + res.GearBonus
			p.Credit(res.Reward)
			if m.Loot != "" && random.Percent(s.rng()) < data.Hunt.LootChance {
				if err := p.AddItem(domain.CategoryMonsterItems, m.Loot, huntLootQty); err != nil {
					return err
				}
				res.Loot = m.Loot
			}
			res.XP = s.grantXP(p, data.Hunt.XP)
		}
		res.CooldownMinutes = s.startCooldown(p, KeyHunt, data.Hunt.Cooldown, now)
		res.QuestsDone = s.track(p, domain.QuestActionHunt, now)
		res.Balance = p.Balance
		return nil
	})
	return res, err
}

// Equip puts item into slot. The category is derived from the slot.
func (s *HuntService) Equip(ctx context.Context, userID string, slot domain.Slot, item string) error {
	return s.store.EquipItem(ctx, userID, slot, item)
}

// UseCharm equips a dungeon gear charm into the phuChu slot.
func (s *HuntService) UseCharm(ctx context.Context, userID, item string) error {
	eq := s.data().EquipmentFor(item)
	if eq.Slot != domain.SlotPhuChu {
		return domain.Fail(domain.ErrInvalidTarget, "%s is not a charm", item)
	}
	return s.store.EquipItem(ctx, userID, domain.SlotPhuChu, item)
}

// HuntGear is one equippable item and whether it is worn.
type HuntGear struct {
	ItemStack
	Slot         domain.Slot `json:"slot"`
	SuccessBonus float64     `json:"success_bonus"`
	RewardBonus  int64       `json:"reward_bonus"`
	Equipped     bool        `json:"equipped"`
}

// HuntInventoryView lists weapons, charms and monster loot.
type HuntInventoryView struct {
	Gear         []HuntGear  `json:"gear"`
	Loot         []ItemStack `json:"loot"`
	TotalSuccess float64     `json:"total_success"`
	TotalReward  int64       `json:"total_reward"`
}

func (s *HuntService) HuntInventory(userID string) HuntInventoryView {
	p := s.store.GetUser(userID)
	data := s.data()
	var v HuntInventoryView
	for _, cat := range []domain.Category{domain.CategoryWeapons, domain.CategoryDungeonGear} {
		for _, st := range inventoryView(p, data, cat).Categories[cat] {
			eq, ok := data.Equipment[st.ID]
			if !ok {
				continue
			}
			worn, _ := p.Equipped(eq.Slot)
			v.Gear = append(v.Gear, HuntGear{
				ItemStack:    st,
				Slot:         eq.Slot,
				SuccessBonus: eq.SuccessBonus,
				RewardBonus:  eq.RewardMultiplier,
				Equipped:     worn == st.ID,
			})
		}
	}
	sort.SliceStable(v.Gear, func(i, j int) bool { return v.Gear[i].Slot < v.Gear[j].Slot })
	v.Loot = inventoryView(p, data, domain.CategoryMonsterItems).Categories[domain.CategoryMonsterItems]
	v.TotalSuccess, v.TotalReward = s.gear(p)
	return v
}
