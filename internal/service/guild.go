package service

import (
	"context"
	"strings"

	"github.com/gosimple/slug"

	"vie_bot/internal/domain"
	"vie_bot/internal/logger"
	"vie_bot/internal/store"
)

// GuildService manages in-game factions.
type GuildService struct {
	engine
	audit *AuditService
}

func NewGuildService(st *store.Store, audit *AuditService) *GuildService {
	return &GuildService{
		engine: engine{store: st, log: logger.With("component", "guild")},
		audit:  audit,
	}
}

// GuildID derives the id of a guild from its display name.
func GuildID(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

func (s *GuildService) guild(id string) (*domain.Guild, error) {
	g, ok := s.store.Guild(id)
	if !ok {
		return nil, domain.Fail(domain.ErrInvalidTarget, "guild %q does not exist", id)
	}
	return g, nil
}

// SetOwner creates the guild named name if needed and makes ownerID its owner.
// The previous owner stays on as a member.
func (s *GuildService) SetOwner(ctx context.Context, adminID, name, ownerID, roleID string) (*domain.Guild, error) {
	id := GuildID(name)
	if id == "" {
		return nil, domain.Fail(domain.ErrInvalidTarget, "guild name %q is empty", name)
	}
	now := s.now()
	g, ok := s.store.Guild(id)
	if !ok {
		g = &domain.Guild{ID: id, Name: strings.TrimSpace(name), RankLevel: 1, CreatedAt: now.UnixMilli()}
	}
	prev := g.OwnerID
	g.OwnerID = ownerID
	if roleID != "" {
		g.RoleID = roleID
	}

	// membership first, so a guild is never stored naming an owner who is not in it
	var before *domain.GuildMembership
	err := s.store.Update(ctx, ownerID, func(p *domain.PlayerRecord) error {
		m := p.GuildMembership
		if m != nil && m.GuildID != id {
			return domain.Fail(domain.ErrStateConflict, "%s already belongs to guild %s", ownerID, m.GuildID)
		}
		joined := now.UnixMilli()
		if m != nil {
			cp := *m
			before = &cp
			joined = m.JoinedAt
		}
		p.GuildMembership = &domain.GuildMembership{GuildID: id, Role: domain.GuildRoleOwner, JoinedAt: joined}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := s.store.PutGuild(ctx, g); err != nil {
		rerr := s.store.Update(ctx, ownerID, func(p *domain.PlayerRecord) error {
			p.GuildMembership = before
			return nil
		})
		if rerr != nil {
			s.log.Error("guild owner revert failed", "error", rerr, "guild", id, "user_id", ownerID)
		}
		return nil, err
	}
	if prev != "" && prev != ownerID {
		err := s.store.Update(ctx, prev, func(p *domain.PlayerRecord) error {
			if p.GuildMembership != nil && p.GuildMembership.GuildID == id {
				p.GuildMembership.Role = domain.GuildRoleMember
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	s.audit.LogAdminAction(ctx, adminID, domain.AuditActionGuildOwner, ownerID, map[string]any{
		"guild":          id,
		"previous_owner": prev,
	})
	return g, nil
}

// Join adds userID to guildID.
func (s *GuildService) Join(ctx context.Context, userID, guildID string) (*domain.Guild, error) {
	g, err := s.guild(guildID)
	if err != nil {
		return nil, err
	}
	err = s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		if p.GuildMembership != nil {
			return domain.Fail(domain.ErrStateConflict, "you are already in guild %s", p.GuildMembership.GuildID)
		}
		p.GuildMembership = &domain.GuildMembership{GuildID: g.ID, Role: domain.GuildRoleMember, JoinedAt: s.now().UnixMilli()}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return g, nil
}

// Leave removes userID from its guild. Owners cannot leave.
func (s *GuildService) Leave(ctx context.Context, userID string) (string, error) {
	var left string
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		m := p.GuildMembership
		if m == nil {
			return domain.Fail(domain.ErrStateConflict, "you are not in a guild")
		}
		if m.Role == domain.GuildRoleOwner {
			return domain.Fail(domain.ErrStateConflict, "the owner cannot leave %s", m.GuildID)
		}
		left = m.GuildID
		p.GuildMembership = nil
		return nil
	})
	return left, err
}

// RankUpgrade describes a paid guild rank increase.
type RankUpgrade struct {
	Guild   *domain.Guild     `json:"guild"`
	Cost    int64             `json:"cost"`
	Buffs   domain.GuildBuffs `json:"buffs"`
	Balance int64             `json:"balance"`
}

// UpgradeRank lets the owner pay for the next guild rank.
func (s *GuildService) UpgradeRank(ctx context.Context, userID string) (RankUpgrade, error) {
	var res RankUpgrade
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		m := p.GuildMembership
		if m == nil || m.Role != domain.GuildRoleOwner {
			return domain.Fail(domain.ErrInvalidTarget, "only a guild owner can upgrade the rank")
		}
		g, err := s.guild(m.GuildID)
		if err != nil {
			return err
		}
		next, ok := s.data().GuildRank(g.RankLevel + 1)
		if !ok {
			return domain.Fail(domain.ErrStateConflict, "%s is already at max rank %d", g.Name, g.RankLevel)
		}
		if err := p.Debit(next.UpgradeCost); err != nil {
			return err
		}
		g.RankLevel = next.Level
		if err := s.store.PutGuild(ctx, g); err != nil {
			return err
		}
		res = RankUpgrade{Guild: g, Cost: next.UpgradeCost, Buffs: s.data().GuildBuffs(g.RankLevel), Balance: p.Balance}
		return nil
	})
	if err != nil {
		if res.Guild != nil {
			// the rank was stored but the owner's debit was not
			g := *res.Guild
			g.RankLevel--
			if rerr := s.store.PutGuild(ctx, &g); rerr != nil {
				s.log.Error("guild rank revert failed", "error", rerr, "guild", g.ID)
			}
		}
		return RankUpgrade{}, err
	}
	s.audit.Log(ctx, userID, domain.AuditActionGuildUpgrade, domain.AuditCategoryGuild, map[string]any{
		"guild": res.Guild.ID,
		"rank":  res.Guild.RankLevel,
		"cost":  res.Cost,
	})
	return res, nil
}

// GuildView is a guild with its members and buffs.
type GuildView struct {
	Guild   *domain.Guild     `json:"guild"`
	Buffs   domain.GuildBuffs `json:"buffs"`
	Members []string          `json:"members"`
}

func (s *GuildService) Info(guildID string) (GuildView, error) {
	g, err := s.guild(guildID)
	if err != nil {
		return GuildView{}, err
	}
	return GuildView{Guild: g, Buffs: s.data().GuildBuffs(g.RankLevel), Members: s.store.GuildMembers(g.ID)}, nil
}

// Buffs returns the buffs userID currently receives.
func (s *GuildService) Buffs(userID string) domain.GuildBuffs {
	return s.store.GuildBuffsFor(s.store.GetUser(userID))
}

func (s *GuildService) List() []*domain.Guild {
	return s.store.Guilds()
}
