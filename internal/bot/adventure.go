package bot

import (
	"context"
	"fmt"
	"strings"

	"vie_bot/internal/domain"
)

func (d *Dispatcher) hatch(ctx context.Context, in Interaction) (Reply, error) {
	st := d.svc.Hatchery.Status(in.UserID)
	r := Reply{Title: "Hatchery", Data: st}
	r.add("Level", fmt.Sprintf("%d/%d", st.Level, st.MaxLevel))
	switch {
	case st.Planted == "":
		r.Content = "Nothing is planted. Use /hatch-place."
	case st.Ready:
		r.Content = fmt.Sprintf("%s is ready! Use /hatch-collect.", st.PlantedName)
	default:
		r.Content = fmt.Sprintf("%s hatches in %d min.", st.PlantedName, st.RemainingMinutes)
	}
	if st.NextUpgradeCost > 0 {
		r.add("Next upgrade", fmtV(st.NextUpgradeCost))
	}
	return r, nil
}

func (d *Dispatcher) hatchPlace(ctx context.Context, in Interaction) (Reply, error) {
	egg, err := in.required("egg_type")
	if err != nil {
		return Reply{}, err
	}
	res, err := d.svc.Hatchery.Plant(ctx, in.UserID, egg)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Title: "Hatchery", Content: fmt.Sprintf("Planted %s. Ready in %d min.", res.EggName, res.GrowTime), Data: res}, nil
}

func (d *Dispatcher) hatchCollect(ctx context.Context, in Interaction) (Reply, error) {
	res, err := d.svc.Hatchery.Collect(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	r := Reply{Title: "Hatched!", Content: fmt.Sprintf("%s hatched: %.1f kg, +%s (+%d%%).", res.EggName, res.Kg, fmtV(res.Reward), res.BonusPercent), Data: res}
	if res.Pet != "" {
		r.add("Pet", res.Pet)
	}
	r.add("Balance", fmtV(res.Balance))
	xpLine(&r, res.XP)
	questLines(&r, res.QuestsDone)
	d.publish("hatch", in.UserID, fmt.Sprintf("hatched %s (%.1f kg)", res.EggName, res.Kg), res.Reward)
	d.touch(ctx, in.UserID)
	return r, nil
}

func (d *Dispatcher) hatchUpgrade(ctx context.Context, in Interaction) (Reply, error) {
	res, err := d.svc.Hatchery.Upgrade(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	d.touch(ctx, in.UserID)
	return Reply{Title: "Hatchery", Content: fmt.Sprintf("Upgraded to level %d for %s.", res.NewLevel, fmtV(res.Cost)), Data: res}, nil
}

func (d *Dispatcher) hunt(ctx context.Context, in Interaction) (Reply, error) {
	res, err := d.svc.Hunt.Hunt(ctx, in.UserID)
	if err != nil {
		return Reply{}, err
	}
	r := Reply{Title: "Hunt · " + res.MonsterName, Data: res}
	if res.Result == domain.GameResultWin {
		r.Content = fmt.Sprintf("You defeated %s and earned %s.", res.MonsterName, fmtV(res.Reward))
		if res.Loot != "" {
			r.add("Loot", res.Loot)
		}
		d.touch(ctx, in.UserID)
	} else {
		r.Content = fmt.Sprintf("%s got away.", res.MonsterName)
	}
	r.add("Odds", res.Rate.Breakdown)
	r.add("Balance", fmtV(res.Balance))
	xpLine(&r, res.XP)
	questLines(&r, res.QuestsDone)
	return r, nil
}

func (d *Dispatcher) huntEquip(ctx context.Context, in Interaction) (Reply, error) {
	item, err := in.required("weapon")
	if err != nil {
		return Reply{}, err
	}
	if err := d.svc.Hunt.Equip(ctx, in.UserID, domain.SlotWeapon, item); err != nil {
		return Reply{}, err
	}
	return Reply{Content: fmt.Sprintf("Equipped %s.", item)}, nil
}

func (d *Dispatcher) huntUse(ctx context.Context, in Interaction) (Reply, error) {
	item, err := in.required("item")
	if err != nil {
		return Reply{}, err
	}
	if err := d.svc.Hunt.UseCharm(ctx, in.UserID, item); err != nil {
		return Reply{}, err
	}
	return Reply{Content: fmt.Sprintf("%s is now active.", item)}, nil
}

func (d *Dispatcher) huntInventory(ctx context.Context, in Interaction) (Reply, error) {
	inv := d.svc.Hunt.HuntInventory(in.UserID)
	r := Reply{Title: "Hunting gear", Data: inv}
	for _, g := range inv.Gear {
		mark := ""
		if g.Equipped {
			mark = " (equipped)"
		}
		r.add(g.Name+mark, fmt.Sprintf("x%d · +%.0f%% success · +%d%% reward", g.Quantity, g.SuccessBonus, g.RewardBonus))
	}
	r.Content = fmt.Sprintf("Total bonus: +%.0f%% success, +%d%% reward.", inv.TotalSuccess, inv.TotalReward)
	return r, nil
}

func (d *Dispatcher) dungeon(ctx context.Context, in Interaction) (Reply, error) {
	tiers := d.svc.Dungeon.Tiers(in.UserID)
	r := Reply{Title: "Dungeons", Data: tiers}
	for _, t := range tiers {
		var reqs []string
		for _, q := range t.Requirements {
			reqs = append(reqs, fmt.Sprintf("%d x %s", q.Qty, q.Item))
		}
		line := fmt.Sprintf("Level %d · %.0f%% · %s to %s", t.LevelRequired, t.SuccessRate.FinalRate, fmtV(t.RewardMin), fmtV(t.RewardMax))
		if len(reqs) > 0 {
			line += " · needs " + strings.Join(reqs, ", ")
		}
		if !t.Cooldown.CanUse {
			line += fmt.Sprintf(" · %d min left", t.Cooldown.RemainingMinutes)
		}
		r.add(fmt.Sprintf("%s (%s)", t.Name, t.ID), line)
	}
	return r, nil
}

func (d *Dispatcher) dungeonEnter(ctx context.Context, in Interaction) (Reply, error) {
	tier, err := in.required("tier")
	if err != nil {
		return Reply{}, err
	}
	res, err := d.svc.Dungeon.Enter(ctx, in.UserID, tier)
	if err != nil {
		return Reply{}, err
	}
	r := Reply{Title: res.TierName, Data: res}
	if res.Result == domain.GameResultWin {
		r.Content = fmt.Sprintf("Cleared! +%s", fmtV(res.Reward))
		for _, drop := range res.Drops {
			r.add("Drop", fmt.Sprintf("%s x%d", drop.Item, drop.Qty))
		}
		d.publish("dungeon_clear", in.UserID, "cleared "+res.TierName, res.Reward)
		d.touch(ctx, in.UserID)
	} else {
		r.Content = "You were defeated."
	}
	r.add("Odds", res.Rate.Breakdown)
	r.add("Record", fmt.Sprintf("%d/%d (%d%%)", res.Stats.TotalClears, res.Stats.TotalRuns, res.Stats.SuccessRate))
	xpLine(&r, res.XP)
	questLines(&r, res.QuestsDone)
	return r, nil
}

func (d *Dispatcher) dungeonStats(ctx context.Context, in Interaction) (Reply, error) {
	st := d.svc.Dungeon.Stats(in.UserID)
	r := Reply{Title: "Dungeon stats", Data: st}
	r.add("Runs", fmt.Sprint(st.TotalRuns))
	r.add("Clears", fmt.Sprintf("%d (%d%%)", st.TotalClears, st.SuccessRate))
	r.add("Earned", fmtV(st.TotalEarned))
	r.add("Souls", fmt.Sprint(st.SoulsCollected))
	r.add("Eggs", fmt.Sprint(st.EggsCollected))
	r.add("Ngọc linh", fmt.Sprint(st.NgocLinhCollected))
	return r, nil
}

func (d *Dispatcher) dungeonLeaderboard(ctx context.Context, in Interaction) (Reply, error) {
	rows := d.svc.Dungeon.Leaderboard(10)
	lines := make([]string, 0, len(rows))
	for _, e := range rows {
		lines = append(lines, fmt.Sprintf("%d. <@%s> %d clears · %s", e.Rank, e.UserID, e.Stats.TotalClears, fmtV(e.Stats.TotalEarned)))
	}
	return Reply{Title: "Dungeon leaderboard", Content: strings.Join(lines, "\n"), Data: rows}, nil
}

func (d *Dispatcher) craft(ctx context.Context, in Interaction) (Reply, error) {
	item, err := in.required("item")
	if err != nil {
		return Reply{}, err
	}
	qty, err := in.quantity("quantity")
	if err != nil {
		return Reply{}, err
	}
	res, err := d.svc.Dungeon.Craft(ctx, in.UserID, item, qty)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Title: "Crafting", Content: fmt.Sprintf("Crafted %d x %s.", res.Qty, res.Name), Data: res}, nil
}
