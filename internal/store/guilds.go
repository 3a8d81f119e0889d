package store

import (
	"context"
	"fmt"
	"sort"

	"vie_bot/internal/domain"
)

// Guild returns a copy of the guild with id.
func (s *Store) Guild(id string) (*domain.Guild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.guilds[id]
	if !ok {
		return nil, false
	}
	cp := *g
	return &cp, true
}

// Guilds lists guilds by rank (highest first), then name.
func (s *Store) Guilds() []*domain.Guild {
	s.mu.RLock()
	out := make([]*domain.Guild, 0, len(s.guilds))
	for _, g := range s.guilds {
		cp := *g
		out = append(out, &cp)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].RankLevel != out[j].RankLevel {
			return out[i].RankLevel > out[j].RankLevel
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// PutGuild persists g and then makes it visible.
func (s *Store) PutGuild(ctx context.Context, g *domain.Guild) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	cp := *g
	if err := s.backend.SaveGuild(ctx, &cp); err != nil {
		return fmt.Errorf("persist guild %s: %w", g.ID, err)
	}
	s.mu.Lock()
	s.guilds[cp.ID] = &cp
	s.mu.Unlock()
	return nil
}

// GuildBuffsFor returns the buffs p receives from its guild, if any.
func (s *Store) GuildBuffsFor(p *domain.PlayerRecord) domain.GuildBuffs {
	if p.GuildMembership == nil {
		return domain.GuildBuffs{}
	}
	g, ok := s.Guild(p.GuildMembership.GuildID)
	if !ok {
		return domain.GuildBuffs{}
	}
	return s.data.GuildBuffs(g.RankLevel)
}

// GuildMembers lists the ids of players in guild id, in insertion order.
func (s *Store) GuildMembers(id string) []string {
	var out []string
	for _, p := range s.AllUsers() {
		if p.GuildMembership != nil && p.GuildMembership.GuildID == id {
			out = append(out, p.UserID)
		}
	}
	return out
}
