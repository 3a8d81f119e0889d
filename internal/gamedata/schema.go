package gamedata

import "vie_bot/internal/domain"

// Data is the validated, read-only game dataset.
type Data struct {
	Economy     Economy                `mapstructure:"economy"`
	Pity        Pity                   `mapstructure:"pity"`
	Eggs        map[string]Egg         `mapstructure:"eggs"`
	Hatchery    Hatchery               `mapstructure:"hatchery"`
	Monsters    map[string]Monster     `mapstructure:"monsters"`
	Hunt        Hunt                   `mapstructure:"hunt"`
	Equipment   map[string]Equipment   `mapstructure:"equipment"`
	Dungeons    map[string]DungeonTier `mapstructure:"dungeon_tiers"`
	Recipes     map[string]Recipe      `mapstructure:"recipes"`
	Guild       Guild                  `mapstructure:"guild"`
	Quests      []QuestTemplate        `mapstructure:"quests"`
	WealthRanks []WealthRank           `mapstructure:"wealth_ranks"`
	Shop        map[string]ShopItem    `mapstructure:"-"`
}

type Economy struct {
	Work             Reward    `mapstructure:"work"`
	Daily            Daily     `mapstructure:"daily"`
	Weekly           Weekly    `mapstructure:"weekly"`
	Bet              Bet       `mapstructure:"bet"`
	XocDiaMultiplier float64   `mapstructure:"xocdia_multiplier"`
	Blackjack        Blackjack `mapstructure:"blackjack"`
	SellRatioPercent int64     `mapstructure:"sell_ratio_percent"`
	QuestRefreshCost int64     `mapstructure:"quest_refresh_cost"`
	QuestsPerDay     int       `mapstructure:"quests_per_day"`
}

// Reward is a cooldown-gated income action paying Min..Max + level*PerLevel.
type Reward struct {
	Min      int64 `mapstructure:"min"`
	Max      int64 `mapstructure:"max"`
	PerLevel int64 `mapstructure:"per_level"`
	Cooldown int64 `mapstructure:"cooldown"`
	XP       int64 `mapstructure:"xp"`
}

type Daily struct {
	Base      int64 `mapstructure:"base"`
	PerStreak int64 `mapstructure:"per_streak"`
	Cooldown  int64 `mapstructure:"cooldown"`
	XP        int64 `mapstructure:"xp"`
}

type Weekly struct {
	Base      int64 `mapstructure:"base"`
	PerLevel  int64 `mapstructure:"per_level"`
	RandomMax int64 `mapstructure:"random_max"`
	Cooldown  int64 `mapstructure:"cooldown"`
	XP        int64 `mapstructure:"xp"`
}

type Bet struct {
	WinChance     float64 `mapstructure:"win_chance"`
	WinMultiplier float64 `mapstructure:"win_multiplier"`
}

type Blackjack struct {
	BlackjackMultiplier float64 `mapstructure:"blackjack_multiplier"`
	WinMultiplier       float64 `mapstructure:"win_multiplier"`
	DealerStand         int     `mapstructure:"dealer_stand"`
}

type Pity struct {
	BonusPerFail float64 `mapstructure:"bonus_per_fail"`
	MaxBonus     float64 `mapstructure:"max_bonus"`
}

// Rules converts the configured curve to the domain type.
func (p Pity) Rules() domain.PityRules {
	return domain.PityRules{BonusPerFail: p.BonusPerFail, MaxBonus: p.MaxBonus}
}

type Egg struct {
	Name          string  `mapstructure:"name"`
	Description   string  `mapstructure:"description"`
	GrowTime      int64   `mapstructure:"grow_time"` // minutes
	BaseReward    int64   `mapstructure:"base_reward"`
	Rarity        string  `mapstructure:"rarity"`
	LevelRequired int     `mapstructure:"level_required"`
	KgMin         float64 `mapstructure:"kg_min"`
	KgMax         float64 `mapstructure:"kg_max"`
	Pet           string  `mapstructure:"pet"`
}

type Hatchery struct {
	UpgradeCosts         []int64 `mapstructure:"upgrade_costs"` // index 0 is the cost of leaving level 1
	BonusBasePercent     int64   `mapstructure:"bonus_base_percent"`
	BonusPerLevelPercent int64   `mapstructure:"bonus_per_level_percent"`
	XP                   int64   `mapstructure:"xp"`
}

// MaxLevel is the highest hatchery level reachable by upgrades.
func (h Hatchery) MaxLevel() int {
	return len(h.UpgradeCosts) + 1
}

type Monster struct {
	Name          string  `mapstructure:"name"`
	Health        int     `mapstructure:"health"`
	Damage        int     `mapstructure:"damage"`
	RewardMin     int64   `mapstructure:"reward_min"`
	RewardMax     int64   `mapstructure:"reward_max"`
	SuccessRate   float64 `mapstructure:"success_rate"`
	Loot          string  `mapstructure:"loot"`
	LevelRequired int     `mapstructure:"level_required"`
}

type Hunt struct {
	Cooldown   int64   `mapstructure:"cooldown"`
	XP         int64   `mapstructure:"xp"`
	LootChance float64 `mapstructure:"loot_chance"`
}

// Equipment is the bonus an item grants while equipped.
type Equipment struct {
	Slot             domain.Slot `mapstructure:"slot"`
	SuccessBonus     float64     `mapstructure:"success_bonus"`
	RewardMultiplier int64       `mapstructure:"reward_multiplier"` // extra percent of the reward
}

type DungeonTier struct {
	Name          string         `mapstructure:"name"`
	Cooldown      int64          `mapstructure:"cooldown"`
	SuccessRate   float64        `mapstructure:"success_rate"`
	LevelRequired int            `mapstructure:"level_required"`
	Requirements  []ItemQuantity `mapstructure:"requirements"`
	RewardMin     int64          `mapstructure:"reward_min"`
	RewardMax     int64          `mapstructure:"reward_max"`
	XP            int64          `mapstructure:"xp"`
	Drops         []Drop         `mapstructure:"drops"`
}

type ItemQuantity struct {
	Category domain.Category `mapstructure:"category"`
	Item     string          `mapstructure:"item"`
	Qty      int64           `mapstructure:"qty"`
}

// Drop is a chance-based loot roll. Stat names the DungeonStats counter it
// feeds: "eggs", "souls", "ngoc_linh" or empty.
type Drop struct {
	Category domain.Category `mapstructure:"category"`
	Item     string          `mapstructure:"item"`
	Chance   float64         `mapstructure:"chance"`
	Min      int64           `mapstructure:"min"`
	Max      int64           `mapstructure:"max"`
	Stat     string          `mapstructure:"stat"`
}

type Recipe struct {
	Category domain.Category `mapstructure:"category"`
	Inputs   []ItemQuantity  `mapstructure:"inputs"`
}

type Guild struct {
	Ranks                []GuildRank `mapstructure:"ranks"`
	MaxCooldownReduction int64       `mapstructure:"max_cooldown_reduction"`
}

// GuildRank buffs apply to members; UpgradeCost is paid to reach this rank.
type GuildRank struct {
	Level             int   `mapstructure:"level"`
	IncomeBonus       int64 `mapstructure:"income_bonus"`
	CooldownReduction int64 `mapstructure:"cooldown_reduction"`
	XPBonus           int64 `mapstructure:"xp_bonus"`
	UpgradeCost       int64 `mapstructure:"upgrade_cost"`
}

type QuestTemplate struct {
	ID     string             `mapstructure:"id"`
	Title  string             `mapstructure:"title"`
	Action domain.QuestAction `mapstructure:"action"`
	Target int                `mapstructure:"target"`
	Reward int64              `mapstructure:"reward"`
}

type WealthRank struct {
	Min   int64  `mapstructure:"min"`
	Title string `mapstructure:"title"`
}

// ShopItem is a catalog entry. Price 0 means the item is not sold. SellPrice
// overrides the default buy-back of Price*sell_ratio_percent/100.
type ShopItem struct {
	Name          string          `mapstructure:"name"`
	Description   string          `mapstructure:"description"`
	Category      domain.Category `mapstructure:"category"`
	Price         int64           `mapstructure:"price"`
	SellPrice     int64           `mapstructure:"sell_price"`
	LevelRequired int             `mapstructure:"level_required"`
}
