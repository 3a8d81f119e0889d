package service

import (
	"errors"
	"testing"

	"vie_bot/internal/domain"
)

func TestGuildLifecycle(t *testing.T) {
	f := newFixture(t, alwaysWin)
	guilds := NewGuildService(f.st, nil)
	eco := NewEconomyService(f.st, nil, nil)

	g, err := guilds.SetOwner(f.ctx, "admin", "Rồng Vàng", "owner", "")
	if err != nil {
		t.Fatalf("SetOwner: %v", err)
	}
	if g.ID != GuildID("Rồng Vàng") || g.RankLevel != 1 || g.OwnerID != "owner" {
		t.Fatalf("unexpected guild %+v", g)
	}

	if _, err := guilds.Join(f.ctx, "member", g.ID); err != nil {
		t.Fatalf("Join: %v", err)
	}
	_, err = guilds.Join(f.ctx, "member", g.ID)
	requireKind(t, err, domain.ErrStateConflict)
	_, err = guilds.Join(f.ctx, "x", "no-such-guild")
	requireKind(t, err, domain.ErrInvalidTarget)

	res, err := eco.Work(f.ctx, "member")
	if err != nil {
		t.Fatalf("Work: %v", err)
	}
	if res.GuildBonus != 5 || res.Earned != 110 || res.CooldownMinutes != 57 {
		t.Fatalf("guild buffs not applied: %+v", res)
	}

	_, err = guilds.UpgradeRank(f.ctx, "member")
	requireKind(t, err, domain.ErrInvalidTarget)
	_, err = guilds.UpgradeRank(f.ctx, "owner")
	requireKind(t, err, domain.ErrInsufficientFunds)

	f.setup(t, "owner", func(p *domain.PlayerRecord) { p.Balance = 60000 })
	up, err := guilds.UpgradeRank(f.ctx, "owner")
	if err != nil {
		t.Fatalf("UpgradeRank: %v", err)
	}
	if up.Guild.RankLevel != 2 || up.Cost != 50000 || f.balance("owner") != 10000 {
		t.Fatalf("unexpected upgrade %+v", up)
	}
	if b := guilds.Buffs("member"); b.IncomeBonus != 10 {
		t.Fatalf("member buffs %+v", b)
	}

	_, err = guilds.Leave(f.ctx, "owner")
	requireKind(t, err, domain.ErrStateConflict)
	if left, err := guilds.Leave(f.ctx, "member"); err != nil || left != g.ID {
		t.Fatalf("Leave: %q %v", left, err)
	}
	info, err := guilds.Info(g.ID)
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if len(info.Members) != 1 || info.Members[0] != "owner" {
		t.Fatalf("members %v", info.Members)
	}
}

func TestSetOwnerDemotesPreviousOwner(t *testing.T) {
	f := newFixture(t, nil)
	guilds := NewGuildService(f.st, nil)

	g, err := guilds.SetOwner(f.ctx, "admin", "Phượng Hoàng", "first", "")
	if err != nil {
		t.Fatalf("SetOwner: %v", err)
	}
	if _, err := guilds.SetOwner(f.ctx, "admin", "Phượng Hoàng", "second", ""); err != nil {
		t.Fatalf("SetOwner again: %v", err)
	}
	got, _ := f.st.Guild(g.ID)
	if got.OwnerID != "second" {
		t.Fatalf("owner %q", got.OwnerID)
	}
	if m := f.st.GetUser("first").GuildMembership; m == nil || m.Role != domain.GuildRoleMember {
		t.Fatalf("previous owner membership %+v", m)
	}

	_, err = guilds.SetOwner(f.ctx, "admin", "   ", "x", "")
	requireKind(t, err, domain.ErrInvalidTarget)
}

func TestSetOwnerFailedGuildSaveKeepsMembership(t *testing.T) {
	f := newFixture(t, nil)
	guilds := NewGuildService(f.st, nil)

	f.be.FailGuildsWith(errors.New("disk full"))
	if _, err := guilds.SetOwner(f.ctx, "admin", "Bạch Hổ", "u1", ""); err == nil {
		t.Fatal("expected SetOwner to fail")
	}
	if _, ok := f.st.Guild(GuildID("Bạch Hổ")); ok {
		t.Fatal("guild stored after failed save")
	}
	if m := f.st.GetUser("u1").GuildMembership; m != nil {
		t.Fatalf("membership left behind: %+v", m)
	}

	f.be.FailGuildsWith(nil)
	if _, err := guilds.SetOwner(f.ctx, "admin", "Bạch Hổ", "u1", ""); err != nil {
		t.Fatalf("SetOwner: %v", err)
	}
	if _, err := guilds.SetOwner(f.ctx, "admin", "Thanh Long", "u1", ""); !errors.Is(err, domain.ErrStateConflict) {
		t.Fatalf("owner of two guilds: %v", err)
	}
	if _, ok := f.st.Guild(GuildID("Thanh Long")); ok {
		t.Fatal("conflicting guild was stored")
	}
}
