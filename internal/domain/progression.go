package domain

import "fmt"

// XPThreshold is the XP needed to leave level.
func XPThreshold(level int) int64 {
	n := int64(level + 1)
	return n * n * 100
}

// XPResult describes the effect of an XP grant.
type XPResult struct {
	Gained    int64  `json:"gained"`
	LeveledUp bool   `json:"leveled_up"`
	NewLevel  int    `json:"new_level,omitempty"`
	Message   string `json:"message"`
}

// AddXP accumulates XP and levels up as many times as the total allows,
// carrying surplus XP into the next level.
func (p *PlayerRecord) AddXP(amount int64) XPResult {
	if amount <= 0 {
		return XPResult{Message: fmt.Sprintf("+0 XP (%d/%d)", p.XP, XPThreshold(p.Level))}
	}

	start := p.Level
	p.XP += amount
	for p.XP >= XPThreshold(p.Level) {
		p.XP -= XPThreshold(p.Level)
		p.Level++
	}

	res := XPResult{Gained: amount}
	if p.Level > start {
		res.LeveledUp = true
		res.NewLevel = p.Level
		res.Message = fmt.Sprintf("+%d XP, level up! Now level %d", amount, p.Level)
	} else {
		res.Message = fmt.Sprintf("+%d XP (%d/%d)", amount, p.XP, XPThreshold(p.Level))
	}
	return res
}

// XPToNext is the XP still missing for the next level.
func (p *PlayerRecord) XPToNext() int64 {
	return XPThreshold(p.Level) - p.XP
}

// RequireLevel fails with LevelTooLow when the player is below min.
func (p *PlayerRecord) RequireLevel(min int) error {
	if p.Level < min {
		return Fail(ErrLevelTooLow, "requires level %d, you are level %d", min, p.Level)
	}
	return nil
}

// BonusPercent returns floor(amount*percent/100).
func BonusPercent(amount, percent int64) int64 {
	if percent <= 0 || amount <= 0 {
		return 0
	}
	return amount * percent / 100
}
