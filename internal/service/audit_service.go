package service

import (
	"context"

	"vie_bot/internal/domain"
	"vie_bot/internal/logger"
)

// AuditRepository persists audit entries. Implemented by repository.AuditRepository.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	GetByUserID(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error)
	GetRecent(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error)
}

// GameHistoryRepository persists finished casino games.
type GameHistoryRepository interface {
	Create(ctx context.Context, g *domain.GameRecord) error
	GetByUser(ctx context.Context, userID string, limit int) ([]*domain.GameRecord, error)
}

// AuditService handles audit logging. Without a repository entries only go
// to the structured log.
type AuditService struct {
	repo    AuditRepository
	history GameHistoryRepository
}

// NewAuditService creates a new audit service; both repositories may be nil.
func NewAuditService(repo AuditRepository, history GameHistoryRepository) *AuditService {
	return &AuditService{repo: repo, history: history}
}

// Log creates a new audit log entry
func (s *AuditService) Log(ctx context.Context, userID, action, category string, details map[string]any) {
	if s == nil {
		return
	}
	entry := &domain.AuditLog{
		UserID:   userID,
		Action:   action,
		Category: category,
		Details:  details,
	}
	if actor, ok := details["actor_id"].(string); ok {
		entry.ActorID = actor
	}

	logger.WithContext(ctx).Info("audit", "user_id", userID, "action", action, "category", category)
	if s.repo == nil {
		return
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		logger.Error("failed to create audit log", "error", err, "action", action, "user_id", userID)
	}
}

// LogGame records a finished casino game
func (s *AuditService) LogGame(ctx context.Context, rec *domain.GameRecord) {
	if s == nil {
		return
	}
	s.Log(ctx, rec.UserID, domain.AuditActionGameEnd, domain.AuditCategoryGame, map[string]any{
		"game_type": rec.GameType,
		"bet":       rec.BetAmount,
		"payout":    rec.Payout,
		"result":    rec.Result,
	})
	if s.history == nil {
		return
	}
	if err := s.history.Create(ctx, rec); err != nil {
		logger.Error("failed to store game history", "error", err, "user_id", rec.UserID)
	}
}

// LogAdminAction logs an admin action against targetUserID
func (s *AuditService) LogAdminAction(ctx context.Context, adminID, action, targetUserID string, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	details["actor_id"] = adminID
	s.Log(ctx, targetUserID, action, domain.AuditCategoryAdmin, details)
}

// LogBalanceChange logs a player-initiated balance movement
func (s *AuditService) LogBalanceChange(ctx context.Context, userID, action string, change int64, details map[string]any) {
	if details == nil {
		details = make(map[string]any)
	}
	details["change"] = change
	s.Log(ctx, userID, action, domain.AuditCategoryBalance, details)
}

// GetUserAuditLogs returns audit logs for a user
func (s *AuditService) GetUserAuditLogs(ctx context.Context, userID string, limit int) ([]*domain.AuditLog, error) {
	if s == nil || s.repo == nil {
		return nil, nil
	}
	return s.repo.GetByUserID(ctx, userID, limit)
}

// GetRecentLogs returns recent audit logs, optionally filtered by category
func (s *AuditService) GetRecentLogs(ctx context.Context, category string, limit int) ([]*domain.AuditLog, error) {
	if s == nil || s.repo == nil {
		return nil, nil
	}
	return s.repo.GetRecent(ctx, category, limit)
}

// GameHistory returns the latest casino games of a user
func (s *AuditService) GameHistory(ctx context.Context, userID string, limit int) ([]*domain.GameRecord, error) {
	if s == nil || s.history == nil {
		return nil, nil
	}
	return s.history.GetByUser(ctx, userID, limit)
}
