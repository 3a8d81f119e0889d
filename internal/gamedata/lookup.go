package gamedata

import (
	"sort"

	"vie_bot/internal/domain"
)

func (d *Data) Egg(id string) (Egg, error) {
	e, ok := d.Eggs[id]
	if !ok {
		return Egg{}, domain.Fail(domain.ErrInvalidTarget, "unknown egg %q", id)
	}
	return e, nil
}

func (d *Data) Monster(id string) (Monster, error) {
	m, ok := d.Monsters[id]
	if !ok {
		return Monster{}, domain.Fail(domain.ErrInvalidTarget, "unknown monster %q", id)
	}
	return m, nil
}

func (d *Data) DungeonTier(id string) (DungeonTier, error) {
	t, ok := d.Dungeons[id]
	if !ok {
		return DungeonTier{}, domain.Fail(domain.ErrInvalidTarget, "unknown dungeon tier %q", id)
	}
	return t, nil
}

func (d *Data) Recipe(id string) (Recipe, error) {
	r, ok := d.Recipes[id]
	if !ok {
		return Recipe{}, domain.Fail(domain.ErrInvalidTarget, "unknown recipe %q", id)
	}
	return r, nil
}

func (d *Data) ShopItem(id string) (ShopItem, error) {
	it, ok := d.Shop[id]
	if !ok {
		return ShopItem{}, domain.Fail(domain.ErrInvalidTarget, "unknown item %q", id)
	}
	return it, nil
}

// EquipmentFor returns the bonus of item, or a zero value when it grants none.
func (d *Data) EquipmentFor(item string) Equipment {
	return d.Equipment[item]
}

// GuildRank returns the buffs of rank, clamped to the configured range.
func (d *Data) GuildRank(rank int) (GuildRank, bool) {
	if rank < 1 || len(d.Guild.Ranks) == 0 {
		return GuildRank{}, false
	}
	if rank > len(d.Guild.Ranks) {
		rank = len(d.Guild.Ranks)
	}
	return d.Guild.Ranks[rank-1], true
}

// GuildBuffs returns the passive bonuses of rank with the cooldown reduction capped.
func (d *Data) GuildBuffs(rank int) domain.GuildBuffs {
	r, ok := d.GuildRank(rank)
	if !ok {
		return domain.GuildBuffs{}
	}
	cd := r.CooldownReduction
	if max := d.Guild.MaxCooldownReduction; max > 0 && cd > max {
		cd = max
	}
	return domain.GuildBuffs{IncomeBonus: r.IncomeBonus, CooldownReduction: cd, XPBonus: r.XPBonus}
}

// HatcheryUpgradeCost is the price of leaving level. ok is false at max level.
func (d *Data) HatcheryUpgradeCost(level int) (int64, bool) {
	if level < 1 || level > len(d.Hatchery.UpgradeCosts) {
		return 0, false
	}
	return d.Hatchery.UpgradeCosts[level-1], true
}

// MonstersFor lists monster ids a player of level may meet, sorted.
func (d *Data) MonstersFor(level int) []string {
	var ids []string
	for id, m := range d.Monsters {
		if m.LevelRequired <= level {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// EggIDs lists egg ids sorted by level requirement, then id.
func (d *Data) EggIDs() []string {
	ids := make([]string, 0, len(d.Eggs))
	for id := range d.Eggs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := d.Eggs[ids[i]], d.Eggs[ids[j]]
		if a.LevelRequired != b.LevelRequired {
			return a.LevelRequired < b.LevelRequired
		}
		return ids[i] < ids[j]
	})
	return ids
}

// DungeonIDs lists tiers by level requirement, then id.
func (d *Data) DungeonIDs() []string {
	ids := make([]string, 0, len(d.Dungeons))
	for id := range d.Dungeons {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := d.Dungeons[ids[i]], d.Dungeons[ids[j]]
		if a.LevelRequired != b.LevelRequired {
			return a.LevelRequired < b.LevelRequired
		}
		return ids[i] < ids[j]
	})
	return ids
}

// ShopIDs lists catalog ids in category (all when empty), sorted by price.
func (d *Data) ShopIDs(category domain.Category) []string {
	var ids []string
	for id, it := range d.Shop {
		if category == "" || it.Category == category {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		a, b := d.Shop[ids[i]], d.Shop[ids[j]]
		if a.Price != b.Price {
			return a.Price < b.Price
		}
		return ids[i] < ids[j]
	})
	return ids
}

// WealthTitle returns the highest rank whose threshold balance reaches.
func (d *Data) WealthTitle(balance int64) string {
	title := ""
	for _, r := range d.WealthRanks {
		if balance >= r.Min {
			title = r.Title
		}
	}
	return title
}

// CategoryOf finds the category a catalog or configured item belongs to.
func (d *Data) CategoryOf(item string) (domain.Category, bool) {
	if it, ok := d.Shop[item]; ok {
		return it.Category, true
	}
	if _, ok := d.Eggs[item]; ok {
		return domain.CategoryEggs, true
	}
	if r, ok := d.Recipes[item]; ok {
		return r.Category, true
	}
	return "", false
}

// SellPrice is what the shop pays per unit of item. ok is false when the shop
// does not buy it.
func (d *Data) SellPrice(item string) (int64, bool) {
	it, found := d.Shop[item]
	if !found {
		return 0, false
	}
	if it.SellPrice > 0 {
		return it.SellPrice, true
	}
	p := it.Price * d.Economy.SellRatioPercent / 100
	return p, p > 0
}
