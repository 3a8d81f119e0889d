package domain

import "time"

// CooldownStatus tells whether a timed action may be repeated.
type CooldownStatus struct {
	CanUse           bool  `json:"can_use"`
	RemainingMinutes int64 `json:"remaining_minutes"`
}

// CooldownKey names the cooldown slot of a dungeon tier.
func CooldownKey(action, target string) string {
	if target == "" {
		return action
	}
	return action + "_" + target
}

// CheckCooldown reports eligibility for action key at now. A missing entry is
// always usable.
func (p *PlayerRecord) CheckCooldown(key string, now time.Time) CooldownStatus {
	expiry, ok := p.Cooldowns[key]
	if !ok {
		return CooldownStatus{CanUse: true}
	}
	diff := expiry - now.UnixMilli()
	if diff <= 0 {
		return CooldownStatus{CanUse: true}
	}
	return CooldownStatus{RemainingMinutes: (diff + 59_999) / 60_000}
}

// SetCooldown stores now+minutes as the expiry of key, replacing any prior
// value. Non-positive durations clear the slot.
func (p *PlayerRecord) SetCooldown(key string, minutes int64, now time.Time) {
	if minutes <= 0 {
		delete(p.Cooldowns, key)
		return
	}
	p.Cooldowns[key] = now.UnixMilli() + minutes*60_000
}

// RequireCooldown returns a CooldownActive failure when key is still blocked.
func (p *PlayerRecord) RequireCooldown(key string, now time.Time) error {
	st := p.CheckCooldown(key, now)
	if !st.CanUse {
		return Fail(ErrCooldownActive, "%s is on cooldown for %d more minute(s)", key, st.RemainingMinutes)
	}
	return nil
}

// ReducedMinutes applies a percentage reduction to a cooldown, rounding up so a
// reduced cooldown never drops to zero.
func ReducedMinutes(minutes int64, reductionPercent int64) int64 {
	if reductionPercent <= 0 || minutes <= 0 {
		return minutes
	}
	if reductionPercent >= 100 {
		return 1
	}
	out := (minutes*(100-reductionPercent) + 99) / 100
	if out < 1 {
		out = 1
	}
	return out
}
