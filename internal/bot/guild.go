package bot

import (
	"context"
	"fmt"
	"strings"

	"vie_bot/internal/domain"
	"vie_bot/internal/service"
)

func buffsLine(b domain.GuildBuffs) string {
	return fmt.Sprintf("+%d%% income · -%d%% cooldowns · +%d%% XP", b.IncomeBonus, b.CooldownReduction, b.XPBonus)
}

func (d *Dispatcher) guildInfo(ctx context.Context, in Interaction) (Reply, error) {
	id := service.GuildID(in.opt("name"))
	if id == "" {
		p := d.svc.Economy.Profile(in.UserID)
		if p.Guild == nil {
			list := d.svc.Guilds.List()
			names := make([]string, 0, len(list))
			for _, g := range list {
				names = append(names, fmt.Sprintf("%s (rank %d)", g.Name, g.RankLevel))
			}
			r := Reply{Title: "Guilds", Content: "You are not in a guild.", Data: list}
			if len(names) > 0 {
				r.add("Open guilds", strings.Join(names, "\n"))
			}
			return r, nil
		}
		id = p.Guild.ID
	}
	view, err := d.svc.Guilds.Info(id)
	if err != nil {
		return Reply{}, err
	}
	r := Reply{Title: view.Guild.Name, Data: view}
	r.add("Owner", "<@"+view.Guild.OwnerID+">")
	r.add("Rank", fmt.Sprint(view.Guild.RankLevel))
	r.add("Members", fmt.Sprint(len(view.Members)))
	r.add("Buffs", buffsLine(view.Buffs))
	return r, nil
}

func (d *Dispatcher) guildJoin(ctx context.Context, in Interaction) (Reply, error) {
	name, err := in.required("name")
	if err != nil {
		return Reply{}, err
	}
	g, err := d.svc.Guilds.Join(ctx, in.UserID, service.GuildID(name))
	if err != nil {
		return Reply{}, err
	}
	d.publish("guild_join", in.UserID, "joined "+g.Name, 0)
	return Reply{Title: g.Name, Content: fmt.Sprintf("Welcome to %s!", g.Name), Data: g}, nil
}

func (d *Dispatcher) guildLeave(ctx context.Context, in Interaction) (Reply, error) {
	id, err := d.svc.Guilds.Leave(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Content: fmt.Sprintf("You left %s.", id)}, nil
}

func (d *Dispatcher) guildUpgrade(ctx context.Context, in Interaction) (Reply, error) {
	res, err := d.svc.Guilds.UpgradeRank(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	r := Reply{Title: res.Guild.Name, Content: fmt.Sprintf("Rank %d reached for %s.", res.Guild.RankLevel, fmtV(res.Cost)), Data: res}
	r.add("Buffs", buffsLine(res.Buffs))
	r.add("Balance", fmtV(res.Balance))
	d.publish("guild_rank", in.UserID, fmt.Sprintf("%s reached rank %d", res.Guild.Name, res.Guild.RankLevel), res.Cost)
	d.touch(ctx, in.UserID)
	return r, nil
}

func (d *Dispatcher) guildOwner(ctx context.Context, in Interaction) (Reply, error) {
	owner := in.user("user")
	if owner == "" {
		return Reply{}, domain.Fail(domain.ErrInvalidTarget, "missing option %q", "user")
	}
	name, err := in.required("name")
	if err != nil {
		return Reply{}, err
	}
	g, err := d.svc.Guilds.SetOwner(ctx, in.UserID, name, owner, in.opt("role"))
	if err != nil {
		return Reply{}, err
	}
	return Reply{Title: g.Name, Content: fmt.Sprintf("<@%s> now owns %s.", owner, g.Name), Data: g}, nil
}
