package domain

// Guild is an in-game faction. ID is a slug of Name.
type Guild struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	OwnerID   string `json:"ownerId"`
	RoleID    string `json:"roleId,omitempty"`
	RankLevel int    `json:"rankLevel"`
	CreatedAt int64  `json:"createdAt"`
}

// GuildMembership links a player to a guild.
type GuildMembership struct {
	GuildID  string `json:"guildId"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joinedAt"`
}

const (
	GuildRoleOwner  = "owner"
	GuildRoleMember = "member"
)

// GuildBuffs are the passive percentages a guild rank grants.
type GuildBuffs struct {
	IncomeBonus       int64 `json:"income_bonus"`
	CooldownReduction int64 `json:"cooldown_reduction"`
	XPBonus           int64 `json:"xp_bonus"`
}
