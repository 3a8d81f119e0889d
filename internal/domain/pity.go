package domain

import "fmt"

// MaxSuccessRate is the hard ceiling of any success roll, in percent.
const MaxSuccessRate = 95.0

// PityState counts consecutive failures of one action category.
type PityState struct {
	ConsecutiveFails int `json:"consecutiveFails"`
}

// PityRules configure the bonus curve: BonusPerFail percent per consecutive
// failure, capped at MaxBonus.
type PityRules struct {
	BonusPerFail float64
	MaxBonus     float64
}

// Bonus returns the pity bonus for a failure streak. It never decreases as
// fails grows.
func (r PityRules) Bonus(fails int) float64 {
	if fails <= 0 || r.BonusPerFail <= 0 {
		return 0
	}
	b := float64(fails) * r.BonusPerFail
	if r.MaxBonus > 0 && b > r.MaxBonus {
		b = r.MaxBonus
	}
	return b
}

// SuccessRate is the resolved probability of one attempt.
type SuccessRate struct {
	BaseRate         float64 `json:"base_rate"`
	WeaponBonus      float64 `json:"weapon_bonus"`
	PityBonus        float64 `json:"pity_bonus"`
	FinalRate        float64 `json:"final_rate"`
	ConsecutiveFails int     `json:"consecutive_fails"`
	Breakdown        string  `json:"breakdown"`
}

// ConsecutiveFails returns the failure streak of category.
func (p *PlayerRecord) ConsecutiveFails(category string) int {
	if st, ok := p.PitySystem[category]; ok && st != nil {
		return st.ConsecutiveFails
	}
	return 0
}

// CalculateSuccessRate combines base rate, equipment bonus and pity bonus,
// clamped to [0, MaxSuccessRate].
func (p *PlayerRecord) CalculateSuccessRate(baseRate float64, category string, weaponBonus float64, rules PityRules) SuccessRate {
	fails := p.ConsecutiveFails(category)
	pity := rules.Bonus(fails)

	final := baseRate + weaponBonus + pity
	if final > MaxSuccessRate {
		final = MaxSuccessRate
	}
	if final < 0 {
		final = 0
	}

	return SuccessRate{
		BaseRate:         baseRate,
		WeaponBonus:      weaponBonus,
		PityBonus:        pity,
		FinalRate:        final,
		ConsecutiveFails: fails,
		Breakdown: fmt.Sprintf("base %.1f%% + gear %.1f%% + pity %.1f%% (%d fails) = %.1f%% (cap %.0f%%)",
			baseRate, weaponBonus, pity, fails, final, MaxSuccessRate),
	}
}

// UpdatePity resets the streak on a win and extends it on a loss. Draws leave
// it untouched.
func (p *PlayerRecord) UpdatePity(category string, outcome GameResult) {
	st, ok := p.PitySystem[category]
	if !ok || st == nil {
		st = &PityState{}
		p.PitySystem[category] = st
	}
	switch outcome {
	case GameResultWin:
		st.ConsecutiveFails = 0
	case GameResultLose:
		st.ConsecutiveFails++
	}
}

// Roll resolves an attempt against rate using a uniform draw in [0,100).
func Roll(rate SuccessRate, draw float64) GameResult {
	if draw < rate.FinalRate {
		return GameResultWin
	}
	return GameResultLose
}
