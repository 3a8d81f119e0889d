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

// Cooldown keys of the income commands.
const (
	KeyWork   = "work"
	KeyDaily  = "daily"
	KeyWeekly = "weekly"
)

// EconomyService covers income commands, transfers and player views.
type EconomyService struct {
	engine
	audit *AuditService
}

func NewEconomyService(st *store.Store, quests *QuestService, audit *AuditService) *EconomyService {
	return &EconomyService{
		engine: engine{store: st, quests: quests, log: logger.With("component", "economy")},
		audit:  audit,
	}
}

// IncomeResult is returned by Work, Daily and Weekly.
type IncomeResult struct {
	Base            int64           `json:"base"`
	LevelBonus      int64           `json:"level_bonus"`
	GuildBonus      int64           `json:"guild_bonus"`
	Earned          int64           `json:"earned"`
	Balance         int64           `json:"balance"`
	Streak          int             `json:"streak,omitempty"`
	CooldownMinutes int64           `json:"cooldown_minutes"`
	XP              domain.XPResult `json:"xp"`
	QuestsDone      []domain.Quest  `json:"quests_done,omitempty"`
}

// Work pays Min..Max plus a per-level bonus once per cooldown.
func (s *EconomyService) Work(ctx context.Context, userID string) (IncomeResult, error) {
	var res IncomeResult
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		now := s.now()
		if err := p.RequireCooldown(KeyWork, now); err != nil {
			return err
		}
		cfg := s.data().Economy.Work
		res.Base = random.Between(s.rng(), cfg.Min, cfg.Max)
		res.LevelBonus = int64(p.Level) * cfg.PerLevel
		s.payIncome(p, &res)
		res.CooldownMinutes = s.startCooldown(p, KeyWork, cfg.Cooldown, now)
		res.XP = s.grantXP(p, cfg.XP)
		res.QuestsDone = s.track(p, domain.QuestActionWork, now)
		res.Balance = p.Balance
		return nil
	})
	return res, err
}

// Daily pays base + streak*per_streak once per calendar day. Missing a day
// resets the streak.
func (s *EconomyService) Daily(ctx context.Context, userID string) (IncomeResult, error) {
	var res IncomeResult
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		now := s.now()
		today := domain.DayKey(now)
		if p.LastDailyDate == today {
			return domain.Fail(domain.ErrStateConflict, "daily reward already claimed today")
		}
		if err := p.RequireCooldown(KeyDaily, now); err != nil {
			return err
		}
		cfg := s.data().Economy.Daily

		streak := p.DailyStreak
		if p.LastDailyDate != "" && domain.DaysBetween(p.LastDailyDate, today) > 1 {
			streak = 0
		}
		streak++
		p.DailyStreak = streak
		p.LastDailyDate = today

		res.Streak = streak
		res.Base = cfg.Base
		res.LevelBonus = int64(streak) * cfg.PerStreak
		s.payIncome(p, &res)
		res.CooldownMinutes = s.startCooldown(p, KeyDaily, cfg.Cooldown, now)
		res.XP = s.grantXP(p, cfg.XP)
		res.Balance = p.Balance
		return nil
	})
	return res, err
}

// Weekly pays base + level*per_level + a random bonus.
func (s *EconomyService) Weekly(ctx context.Context, userID string) (IncomeResult, error) {
	var res IncomeResult
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		now := s.now()
		if err := p.RequireCooldown(KeyWeekly, now); err != nil {
			return err
		}
		cfg := s.data().Economy.Weekly
		res.Base = cfg.Base
		if cfg.RandomMax > 0 {
			res.Base += int64(s.rng().Intn(int(cfg.RandomMax)))
		}
		res.LevelBonus = int64(p.Level) * cfg.PerLevel
		s.payIncome(p, &res)
		res.CooldownMinutes = s.startCooldown(p, KeyWeekly, cfg.Cooldown, now)
		res.XP = s.grantXP(p, cfg.XP)
		res.Balance = p.Balance
		return nil
	})
	return res, err
}

func (s *EconomyService) payIncome(p *domain.PlayerRecord, res *IncomeResult) {
	total := res.Base + res.LevelBonus
	res.GuildBonus = domain.BonusPercent(total, s.store.GuildBuffsFor(p).IncomeBonus)
	res.Earned = total + res.GuildBonus
	p.Credit(res.Earned)
}

// TransferResult is the outcome of Give.
type TransferResult struct {
	Amount        int64 `json:"amount"`
	SenderBalance int64 `json:"sender_balance"`
}

// Give moves amount from one player to another.
func (s *EconomyService) Give(ctx context.Context, fromID, toID string, amount int64) (TransferResult, error) {
	if fromID == toID {
		return TransferResult{}, domain.Fail(domain.ErrInvalidTarget, "you cannot give V to yourself")
	}
	if err := requirePositive(amount, "amount"); err != nil {
		return TransferResult{}, err
	}
	var res TransferResult
	err := s.store.UpdatePair(ctx, fromID, toID, func(from, to *domain.PlayerRecord) error {
		if err := from.Debit(amount); err != nil {
			return err
		}
		to.Credit(amount)
		res = TransferResult{Amount: amount, SenderBalance: from.Balance}
		return nil
	})
	if err != nil {
		return TransferResult{}, err
	}
	s.audit.LogBalanceChange(ctx, fromID, domain.AuditActionTransfer, -amount, map[string]any{"to": toID})
	return res, nil
}

// CashView is the wallet summary.
type CashView struct {
	Balance int64  `json:"balance"`
	Title   string `json:"title"`
	Rank    int    `json:"rank"`
	Players int    `json:"players"`
}

func (s *EconomyService) Cash(userID string) CashView {
	p := s.store.GetUser(userID)
	all := s.store.AllUsers()
	rank := 1
	for _, o := range all {
		if o.UserID != userID && o.Balance > p.Balance {
			rank++
		}
	}
	return CashView{Balance: p.Balance, Title: s.data().WealthTitle(p.Balance), Rank: rank, Players: len(all)}
}

// ProfileView is the player card.
type ProfileView struct {
	UserID      string              `json:"user_id"`
	Balance     int64               `json:"balance"`
	Title       string              `json:"title"`
	Level       int                 `json:"level"`
	XP          int64               `json:"xp"`
	NextLevelXP int64               `json:"next_level_xp"`
	DailyStreak int                 `json:"daily_streak"`
	Guild       *domain.Guild       `json:"guild,omitempty"`
	GuildBuffs  domain.GuildBuffs   `json:"guild_buffs"`
	Dungeon     domain.DungeonStats `json:"dungeon"`
	Items       int64               `json:"items"`
}

func (s *EconomyService) Profile(userID string) ProfileView {
	p := s.store.GetUser(userID)
	v := ProfileView{
		UserID:      p.UserID,
		Balance:     p.Balance,
		Title:       s.data().WealthTitle(p.Balance),
		Level:       p.Level,
		XP:          p.XP,
		NextLevelXP: domain.XPThreshold(p.Level),
		DailyStreak: p.DailyStreak,
		GuildBuffs:  s.store.GuildBuffsFor(p),
		Dungeon:     p.DungeonStats,
		Items:       p.TotalItems(),
	}
	if p.GuildMembership != nil {
		if g, ok := s.store.Guild(p.GuildMembership.GuildID); ok {
			v.Guild = g
		}
	}
	return v
}

// ItemStack is one inventory line.
type ItemStack struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

// InventoryView lists non-empty categories and equipment.
type InventoryView struct {
	Categories map[domain.Category][]ItemStack `json:"categories"`
	Equipped   map[domain.Slot]string          `json:"equipped"`
}

func (s *EconomyService) Inventory(userID string) InventoryView {
	return inventoryView(s.store.GetUser(userID), s.data(), domain.Categories...)
}

func inventoryView(p *domain.PlayerRecord, data *gamedata.Data, cats ...domain.Category) InventoryView {
	v := InventoryView{
		Categories: make(map[domain.Category][]ItemStack),
		Equipped:   make(map[domain.Slot]string),
	}
	for _, cat := range cats {
		items := p.CategorizedInventory[cat]
		if len(items) == 0 {
			continue
		}
		ids := make([]string, 0, len(items))
		for id := range items {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		stacks := make([]ItemStack, 0, len(ids))
		for _, id := range ids {
			stacks = append(stacks, ItemStack{ID: id, Name: itemName(data, id), Quantity: items[id]})
		}
		v.Categories[cat] = stacks
	}
	for _, slot := range []domain.Slot{domain.SlotWeapon, domain.SlotPhuChu, domain.SlotLinhDan} {
		if item, ok := p.Equipped(slot); ok {
			v.Equipped[slot] = item
		}
	}
	return v
}

// itemName resolves a display name from the shop or egg tables.
func itemName(data *gamedata.Data, id string) string {
	if it, ok := data.Shop[id]; ok && it.Name != "" {
		return it.Name
	}
	if egg, ok := data.Eggs[id]; ok && egg.Name != "" {
		return egg.Name
	}
	return id
}
