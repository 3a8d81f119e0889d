package domain

import "time"

// AuditLog is one entry of the audit trail.
type AuditLog struct {
	ID        int64          `db:"id" json:"id"`
	UserID    string         `db:"user_id" json:"user_id"`
	ActorID   string         `db:"actor_id" json:"actor_id,omitempty"`
	Action    string         `db:"action" json:"action"`
	Category  string         `db:"category" json:"category"`
	Details   map[string]any `db:"details" json:"details"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}

// Audit categories
const (
	AuditCategoryGame    = "game"
	AuditCategoryBalance = "balance"
	AuditCategoryAdmin   = "admin"
	AuditCategoryGuild   = "guild"
)

// Audit actions
const (
	AuditActionGameEnd = "game_end"

	AuditActionTransfer = "transfer"
	AuditActionPurchase = "purchase"
	AuditActionSale     = "sale"

	AuditActionAdminAddBalance    = "admin_add_balance"
	AuditActionAdminRemoveBalance = "admin_remove_balance"
	AuditActionAdminResetBalance  = "admin_reset_balance"
	AuditActionAdminIssueToken    = "admin_issue_token"

	AuditActionGuildOwner   = "guild_set_owner"
	AuditActionGuildUpgrade = "guild_upgrade"
)
