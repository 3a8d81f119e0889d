package service

import (
	"context"

	"vie_bot/internal/domain"
	"vie_bot/internal/logger"
	"vie_bot/internal/store"
)

// AdminService provides admin statistics and balance operations
type AdminService struct {
	store *store.Store
	audit *AuditService
}

// NewAdminService creates a new admin service
func NewAdminService(st *store.Store, audit *AuditService) *AdminService {
	return &AdminService{store: st, audit: audit}
}

// Stats represents economy statistics
type Stats struct {
	TotalPlayers   int   `json:"total_players"`
	TotalBalance   int64 `json:"total_balance"` // V in circulation
	TotalItems     int64 `json:"total_items"`
	Guilds         int   `json:"guilds"`
	GuildMembers   int   `json:"guild_members"`
	DungeonRuns    int64 `json:"dungeon_runs"`
	DungeonClears  int64 `json:"dungeon_clears"`
	EggsPlanted    int   `json:"eggs_planted"`
	PendingFlushes int   `json:"pending_flushes"`
}

// GetStats scans the store for economy statistics
func (s *AdminService) GetStats() Stats {
	var st Stats
	for _, p := range s.store.AllUsers() {
		st.TotalPlayers++
		st.TotalBalance += p.Balance
		st.TotalItems += p.TotalItems()
		st.DungeonRuns += p.DungeonStats.TotalRuns
		st.DungeonClears += p.DungeonStats.TotalClears
		if p.GuildMembership != nil {
			st.GuildMembers++
		}
		if !p.Hatchery.PlantedEgg.Empty() {
			st.EggsPlanted++
		}
	}
	st.Guilds = len(s.store.Guilds())
	st.PendingFlushes = s.store.Pending()
	return st
}

// BalanceChange is the result of an admin balance operation
type BalanceChange struct {
	UserID     string `json:"user_id"`
	OldBalance int64  `json:"old_balance"`
	NewBalance int64  `json:"new_balance"`
}

func (s *AdminService) adjust(ctx context.Context, adminID, userID, action string, fn func(p *domain.PlayerRecord)) (BalanceChange, error) {
	res := BalanceChange{UserID: userID}
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		res.OldBalance = p.Balance
		fn(p)
		res.NewBalance = p.Balance
		return nil
	})
	if err != nil {
		return BalanceChange{}, err
	}
	s.audit.LogAdminAction(ctx, adminID, action, userID, map[string]any{
		"old_balance": res.OldBalance,
		"new_balance": res.NewBalance,
	})
	logger.Info("admin balance change", "admin_id", adminID, "user_id", userID, "action", action, "old", res.OldBalance, "new", res.NewBalance)
	return res, nil
}

// AddBalance credits amount to userID
func (s *AdminService) AddBalance(ctx context.Context, adminID, userID string, amount int64) (BalanceChange, error) {
	if err := requirePositive(amount, "amount"); err != nil {
		return BalanceChange{}, err
	}
	return s.adjust(ctx, adminID, userID, domain.AuditActionAdminAddBalance, func(p *domain.PlayerRecord) {
		p.Credit(amount)
	})
}

// RemoveBalance debits amount, clamping the balance at zero
func (s *AdminService) RemoveBalance(ctx context.Context, adminID, userID string, amount int64) (BalanceChange, error) {
	if err := requirePositive(amount, "amount"); err != nil {
		return BalanceChange{}, err
	}
	return s.adjust(ctx, adminID, userID, domain.AuditActionAdminRemoveBalance, func(p *domain.PlayerRecord) {
		p.Balance = max(p.Balance-amount, 0)
	})
}

// ResetBalance sets the balance of userID to zero
func (s *AdminService) ResetBalance(ctx context.Context, adminID, userID string) (BalanceChange, error) {
	return s.adjust(ctx, adminID, userID, domain.AuditActionAdminResetBalance, func(p *domain.PlayerRecord) {
		p.Balance = 0
	})
}

// GetUser returns a copy of the record of userID without creating it
func (s *AdminService) GetUser(userID string) (*domain.PlayerRecord, bool) {
	if !s.store.Exists(userID) {
		return nil, false
	}
	return s.store.GetUser(userID), true
}

// GetRecentGames returns the latest game audit entries
func (s *AdminService) GetRecentGames(ctx context.Context, limit int) ([]*domain.AuditLog, error) {
	return s.audit.GetRecentLogs(ctx, domain.AuditCategoryGame, limit)
}
