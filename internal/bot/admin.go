package bot

import (
	"context"
	"fmt"

	"vie_bot/internal/domain"
	"vie_bot/internal/service"
)

func (d *Dispatcher) target(in Interaction) (string, error) {
	id := in.user("user")
	if id == "" {
		return "", domain.Fail(domain.ErrInvalidTarget, "missing option %q", "user")
	}
	return id, nil
}

func balanceReply(title string, c service.BalanceChange) Reply {
	return Reply{Title: title, Content: fmt.Sprintf("<@%s>: %s → %s", c.UserID, fmtV(c.OldBalance), fmtV(c.NewBalance)), Ephemeral: true, Data: c}
}

func (d *Dispatcher) adminAdd(ctx context.Context, in Interaction) (Reply, error) {
	id, err := d.target(in)
	if err != nil {
		return Reply{}, err
	}
	amount, err := in.amount("amount")
	if err != nil {
		return Reply{}, err
	}
	c, err := d.svc.Admin.AddBalance(ctx, in.UserID, id, amount)
	if err != nil {
		return Reply{}, err
	}
	d.touch(ctx, id)
	return balanceReply("Balance added", c), nil
}

func (d *Dispatcher) adminRemove(ctx context.Context, in Interaction) (Reply, error) {
	id, err := d.target(in)
	if err != nil {
		return Reply{}, err
	}
	amount, err := in.amount("amount")
	if err != nil {
		return Reply{}, err
	}
	c, err := d.svc.Admin.RemoveBalance(ctx, in.UserID, id, amount)
	if err != nil {
		return Reply{}, err
	}
	d.touch(ctx, id)
	return balanceReply("Balance removed", c), nil
}

func (d *Dispatcher) adminReset(ctx context.Context, in Interaction) (Reply, error) {
	id, err := d.target(in)
	if err != nil {
		return Reply{}, err
	}
	c, err := d.svc.Admin.ResetBalance(ctx, in.UserID, id)
	if err != nil {
		return Reply{}, err
	}
	d.touch(ctx, id)
	return balanceReply("Balance reset", c), nil
}

func (d *Dispatcher) adminStats(ctx context.Context, in Interaction) (Reply, error) {
	st := d.svc.Admin.GetStats()
	r := Reply{Title: "Economy stats", Ephemeral: true, Data: st}
	r.add("Players", fmt.Sprint(st.TotalPlayers))
	r.add("V in circulation", fmtV(st.TotalBalance))
	r.add("Items", fmt.Sprint(st.TotalItems))
	r.add("Guilds", fmt.Sprintf("%d (%d members)", st.Guilds, st.GuildMembers))
	r.add("Dungeon", fmt.Sprintf("%d runs, %d clears", st.DungeonRuns, st.DungeonClears))
	r.add("Eggs planted", fmt.Sprint(st.EggsPlanted))
	r.add("Pending writes", fmt.Sprint(st.PendingFlushes))
	return r, nil
}
