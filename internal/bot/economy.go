package bot

import (
	"context"
	"fmt"
	"strings"

	"vie_bot/internal/domain"
	"vie_bot/internal/game"
	"vie_bot/internal/service"
)

var fmtV = game.FormatV

func questLines(r *Reply, done []domain.Quest) {
	for _, q := range done {
		r.add("Quest complete", fmt.Sprintf("%s, /quest-claim for %s", q.Title, fmtV(q.Reward)))
	}
}

func xpLine(r *Reply, xp domain.XPResult) {
	if xp.Gained > 0 || xp.LeveledUp {
		r.add("XP", xp.Message)
	}
}

func (d *Dispatcher) income(ctx context.Context, in Interaction, title string, res service.IncomeResult) Reply {
	r := Reply{Title: title, Content: fmt.Sprintf("You earned %s.", fmtV(res.Earned)), Data: res}
	if res.GuildBonus > 0 {
		r.add("Guild bonus", fmtV(res.GuildBonus))
	}
	if res.Streak > 0 {
		r.add("Streak", fmt.Sprintf("%d day(s)", res.Streak))
	}
	r.add("Balance", fmtV(res.Balance))
	r.add("Next in", fmt.Sprintf("%d min", res.CooldownMinutes))
	xpLine(&r, res.XP)
	questLines(&r, res.QuestsDone)
	if res.XP.LeveledUp {
		d.publish("level_up", in.UserID, fmt.Sprintf("reached level %d", res.XP.NewLevel), 0)
	}
	d.touch(ctx, in.UserID)
	return r
}

func (d *Dispatcher) work(ctx context.Context, in Interaction) (Reply, error) {
	res, err := d.svc.Economy.Work(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	return d.income(ctx, in, "Work", res), nil
}

func (d *Dispatcher) daily(ctx context.Context, in Interaction) (Reply, error) {
	res, err := d.svc.Economy.Daily(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	return d.income(ctx, in, "Daily reward", res), nil
}

func (d *Dispatcher) weekly(ctx context.Context, in Interaction) (Reply, error) {
	res, err := d.svc.Economy.Weekly(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	return d.income(ctx, in, "Weekly reward", res), nil
}

func (d *Dispatcher) cash(ctx context.Context, in Interaction) (Reply, error) {
	c := d.svc.Economy.Cash(in.UserID)
	r := Reply{Title: "Wallet", Content: fmtV(c.Balance), Data: c}
	r.add("Title", c.Title)
	r.add("Rank", fmt.Sprintf("#%d of %d", c.Rank, c.Players))
	return r, nil
}

func (d *Dispatcher) profile(ctx context.Context, in Interaction) (Reply, error) {
	target := in.user("user")
	if target == "" {
		target = in.UserID
	}
	p := d.svc.Economy.Profile(target)
	r := Reply{Title: "Profile", Content: fmt.Sprintf("<@%s> · %s", p.UserID, p.Title), Data: p}
	r.add("Balance", fmtV(p.Balance))
	r.add("Level", fmt.Sprintf("%d (%d/%d XP)", p.Level, p.XP, p.NextLevelXP))
	r.add("Daily streak", fmt.Sprint(p.DailyStreak))
	if p.Guild != nil {
		r.add("Guild", fmt.Sprintf("%s (rank %d)", p.Guild.Name, p.Guild.RankLevel))
	}
	r.add("Dungeon", fmt.Sprintf("%d clears / %d runs (%d%%)", p.Dungeon.TotalClears, p.Dungeon.TotalRuns, p.Dungeon.SuccessRate))
	r.add("Items", fmt.Sprint(p.Items))
	return r, nil
}

func (d *Dispatcher) give(ctx context.Context, in Interaction) (Reply, error) {
	to := in.user("user")
	if to == "" {
		return Reply{}, domain.Fail(domain.ErrInvalidTarget, "missing option %q", "user")
	}
	amount, err := in.amount("amount")
	if err != nil {
		return Reply{}, err
	}
	res, err := d.svc.Economy.Give(ctx, in.UserID, to, amount)
	if err != nil {
		return Reply{}, err
	}
	d.touch(ctx, in.UserID, to)
	r := Reply{Title: "Transfer", Content: fmt.Sprintf("Sent %s to <@%s>.", fmtV(res.Amount), to), Data: res}
	r.add("Balance", fmtV(res.SenderBalance))
	return r, nil
}

func (d *Dispatcher) inventory(ctx context.Context, in Interaction) (Reply, error) {
	inv := d.svc.Economy.Inventory(in.UserID)
	r := Reply{Title: "Inventory", Data: inv}
	for _, cat := range domain.Categories {
		stacks := inv.Categories[cat]
		if len(stacks) == 0 {
			continue
		}
		lines := make([]string, 0, len(stacks))
		for _, s := range stacks {
			lines = append(lines, fmt.Sprintf("%s x%d", s.Name, s.Quantity))
		}
		r.add(string(cat), strings.Join(lines, "\n"))
	}
	if len(r.Fields) == 0 {
		r.Content = "Your inventory is empty."
	}
	return r, nil
}

func (d *Dispatcher) leaderboard(ctx context.Context, in Interaction) (Reply, error) {
	top := d.svc.Leaderboard.Top(ctx, 10)
	lines := make([]string, 0, len(top))
	for _, e := range top {
		lines = append(lines, fmt.Sprintf("%d. <@%s> %s · %s", e.Rank, e.UserID, fmtV(e.Balance), e.Title))
	}
	r := Reply{Title: "Richest players", Content: strings.Join(lines, "\n"), Data: top}
	if rank := d.svc.Leaderboard.Rank(ctx, in.UserID); rank > 0 {
		r.add("Your rank", fmt.Sprintf("#%d", rank))
	}
	return r, nil
}

func (d *Dispatcher) quest(ctx context.Context, in Interaction) (Reply, error) {
	dq, err := d.svc.Quests.Today(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	return questReply(dq), nil
}

func (d *Dispatcher) questRefresh(ctx context.Context, in Interaction) (Reply, error) {
	dq, cost, err := d.svc.Quests.Refresh(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	r := questReply(dq)
	r.Content = fmt.Sprintf("New quests for %s.", fmtV(cost))
	return r, nil
}

func (d *Dispatcher) questClaim(ctx context.Context, in Interaction) (Reply, error) {
	res, err := d.svc.Quests.Claim(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	names := make([]string, 0, len(res.Claimed))
	for _, q := range res.Claimed {
		names = append(names, q.Title)
	}
	r := Reply{Title: "Quest rewards", Content: fmt.Sprintf("You received %s.", fmtV(res.Reward)), Data: res}
	r.add("Quests", strings.Join(names, "\n"))
	r.add("Balance", fmtV(res.Balance))
	d.touch(ctx, in.UserID)
	return r, nil
}

func questReply(dq *domain.DailyQuests) Reply {
	r := Reply{Title: "Daily quests " + dq.Date, Data: dq}
	for i := range dq.Quests {
		q := &dq.Quests[i]
		status := fmt.Sprintf("%d/%d (%d%%) · %s", q.Progress, q.Target, q.Percent(), fmtV(q.Reward))
		switch {
		case q.Claimed:
			status = "✅ " + status
		case q.Done:
			status = "🎁 " + status
		}
		r.add(q.Title, status)
	}
	return r
}

func (d *Dispatcher) help(ctx context.Context, in Interaction) (Reply, error) {
	return Reply{Title: "Commands", Content: `/work /daily /weekly /cash /profile /give /inventory /leaderboard
/quest /quest-claim /quest-reset
/hatch /hatch-place /hatch-collect /hatch-upgrade
/hunt /hunt-equip /hunt-inventory /hunt-use
/dungeon /dungeon-enter /dungeon-stats /dungeon-leaderboard /craft
/shop /buy /sell
/bet /baucua /xocdia /blackjack
/guild /guild-join /guild-leave /guild-upgrade`, Ephemeral: true}, nil
}
