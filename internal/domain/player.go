package domain

import (
	"encoding/json"
	"time"
)

// PlayerRecord is the persisted state of one player. All timestamps are unix
// milliseconds so a record round-trips through JSON without coercion.
type PlayerRecord struct {
	UserID               string                `json:"userId"`
	Balance              int64                 `json:"balance"`
	Level                int                   `json:"level"`
	XP                   int64                 `json:"xp"`
	DailyStreak          int                   `json:"dailyStreak"`
	LastDailyDate        string                `json:"lastDailyDate,omitempty"` // YYYY-MM-DD, local calendar day
	Cooldowns            map[string]int64      `json:"cooldowns"`
	PitySystem           map[string]*PityState `json:"pitySystem"`
	CategorizedInventory Inventory             `json:"categorizedInventory"`
	EquippedItems        map[Slot]string       `json:"equippedItems"`
	Hatchery             Hatchery              `json:"hatchery"`
	DungeonStats         DungeonStats          `json:"dungeonStats"`
	GuildMembership      *GuildMembership      `json:"guildMembership,omitempty"`
	DailyQuests          *DailyQuests          `json:"dailyQuests,omitempty"`
	CreatedAt            int64                 `json:"createdAt"`
}

// DungeonStats aggregates dungeon runs. SuccessRate is a whole percentage.
type DungeonStats struct {
	TotalRuns         int64 `json:"totalRuns"`
	TotalClears       int64 `json:"totalClears"`
	SuccessRate       int64 `json:"successRate"`
	TotalEarned       int64 `json:"totalEarned"`
	EggsCollected     int64 `json:"eggsCollected"`
	SoulsCollected    int64 `json:"soulsCollected"`
	NgocLinhCollected int64 `json:"ngocLinhCollected"`
}

// RecordRun updates the counters after a resolved dungeon attempt.
func (s *DungeonStats) RecordRun(cleared bool, earned int64) {
	s.TotalRuns++
	if cleared {
		s.TotalClears++
		s.TotalEarned += earned
	}
	s.SuccessRate = s.TotalClears * 100 / s.TotalRuns
}

// NewPlayerRecord returns the default record created on first access.
func NewPlayerRecord(userID string, now time.Time) *PlayerRecord {
	p := &PlayerRecord{
		UserID:    userID,
		Level:     1,
		Hatchery:  Hatchery{Level: 1},
		CreatedAt: now.UnixMilli(),
	}
	p.Normalize()
	return p
}

// Normalize fills nil maps left behind by older or hand-edited records.
func (p *PlayerRecord) Normalize() {
	if p.Cooldowns == nil {
		p.Cooldowns = make(map[string]int64)
	}
	if p.PitySystem == nil {
		p.PitySystem = make(map[string]*PityState)
	}
	if p.CategorizedInventory == nil {
		p.CategorizedInventory = make(Inventory)
	}
	for _, c := range Categories {
		if p.CategorizedInventory[c] == nil {
			p.CategorizedInventory[c] = make(map[string]int64)
		}
	}
	if p.EquippedItems == nil {
		p.EquippedItems = make(map[Slot]string)
	}
	if p.Level < 1 {
		p.Level = 1
	}
	if p.Hatchery.Level < 1 {
		p.Hatchery.Level = 1
	}
}

// Clone returns a deep copy.
func (p *PlayerRecord) Clone() *PlayerRecord {
	b, err := json.Marshal(p)
	if err != nil {
		panic("domain: marshal player record: " + err.Error())
	}
	var out PlayerRecord
	if err := json.Unmarshal(b, &out); err != nil {
		panic("domain: unmarshal player record: " + err.Error())
	}
	out.Normalize()
	return &out
}

// Debit removes amount from the balance, refusing to go negative.
func (p *PlayerRecord) Debit(amount int64) error {
	if amount < 0 {
		return Fail(ErrInvalidTarget, "amount must be positive")
	}
	if p.Balance < amount {
		return Fail(ErrInsufficientFunds, "not enough V: need %d, have %d", amount, p.Balance)
	}
	p.Balance -= amount
	return nil
}

// Credit adds a non-negative amount to the balance.
func (p *PlayerRecord) Credit(amount int64) {
	if amount > 0 {
		p.Balance += amount
	}
}

// CanAfford reports whether the balance covers amount.
func (p *PlayerRecord) CanAfford(amount int64) bool {
	return amount >= 0 && p.Balance >= amount
}
