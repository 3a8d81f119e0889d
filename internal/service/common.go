package service

import (
	"log/slog"
	"time"

	"vie_bot/internal/domain"
	"vie_bot/internal/gamedata"
	"vie_bot/internal/random"
	"vie_bot/internal/store"
)

// engine bundles what every game service needs inside a store transaction.
type engine struct {
	store  *store.Store
	quests *QuestService
	log    *slog.Logger
}

func (e *engine) data() *gamedata.Data { return e.store.Data() }
func (e *engine) rng() random.Source   { return e.store.Rand() }
func (e *engine) now() time.Time       { return e.store.Now() }

// startCooldown applies the player's guild cooldown reduction to minutes.
func (e *engine) startCooldown(p *domain.PlayerRecord, key string, minutes int64, now time.Time) int64 {
	cd := domain.ReducedMinutes(minutes, e.store.GuildBuffsFor(p).CooldownReduction)
	p.SetCooldown(key, cd, now)
	return cd
}

// grantXP adds amount plus the guild XP bonus.
func (e *engine) grantXP(p *domain.PlayerRecord, amount int64) domain.XPResult {
	amount += domain.BonusPercent(amount, e.store.GuildBuffsFor(p).XPBonus)
	return p.AddXP(amount)
}

// track advances quests when a quest service is wired.
func (e *engine) track(p *domain.PlayerRecord, action domain.QuestAction, now time.Time) []domain.Quest {
	if e.quests == nil {
		return nil
	}
	return e.quests.Track(p, action, 1, now)
}

func requirePositive(amount int64, what string) error {
	if amount <= 0 {
		return domain.Fail(domain.ErrInvalidTarget, "%s must be positive", what)
	}
	return nil
}
