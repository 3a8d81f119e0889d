package bot

import (
	"context"
	"fmt"

	"vie_bot/internal/domain"
	"vie_bot/internal/service"
)

// bigWin is the net gain that gets announced on the feed.
const bigWin = 50_000

func (d *Dispatcher) played(ctx context.Context, in Interaction, title string, res service.PlayResult) Reply {
	r := Reply{Title: title, Data: res}
	net := res.Net
	switch res.Outcome.Result {
	case domain.GameResultWin:
		r.Content = fmt.Sprintf("You won %s!", fmtV(net))
	case domain.GameResultDraw:
		r.Content = "Draw, your stake is returned."
	default:
		r.Content = fmt.Sprintf("You lost %s.", fmtV(-net))
	}
	for _, k := range []string{"pick", "dice", "matches", "parity"} {
		if v, ok := res.Details[k]; ok {
			r.add(k, fmt.Sprint(v))
		}
	}
	r.add("Balance", fmtV(res.Balance))
	if net >= bigWin {
		d.publish("big_win", in.UserID, fmt.Sprintf("won %s at %s", fmtV(net), res.Game), net)
	}
	d.touch(ctx, in.UserID)
	return r
}

func (d *Dispatcher) bet(ctx context.Context, in Interaction) (Reply, error) {
	amount, err := in.amount("amount")
	if err != nil {
		return Reply{}, err
	}
	res, err := d.svc.Casino.Bet(ctx, in.UserID, amount)
	if err != nil {
		return Reply{}, err
	}
	return d.played(ctx, in, "Coin flip", res), nil
}

func (d *Dispatcher) baucua(ctx context.Context, in Interaction) (Reply, error) {
	pick, err := in.required("choice")
	if err != nil {
		return Reply{}, err
	}
	amount, err := in.amount("amount")
	if err != nil {
		return Reply{}, err
	}
	res, err := d.svc.Casino.BauCua(ctx, in.UserID, pick, amount)
	if err != nil {
		return Reply{}, err
	}
	return d.played(ctx, in, "Bầu cua", res), nil
}

func (d *Dispatcher) xocdia(ctx context.Context, in Interaction) (Reply, error) {
	pick, err := in.required("choice")
	if err != nil {
		return Reply{}, err
	}
	amount, err := in.amount("amount")
	if err != nil {
		return Reply{}, err
	}
	res, err := d.svc.Casino.XocDia(ctx, in.UserID, pick, amount)
	if err != nil {
		return Reply{}, err
	}
	return d.played(ctx, in, "Xóc đĩa", res), nil
}

func (d *Dispatcher) table(ctx context.Context, in Interaction, v service.BlackjackView) Reply {
	r := Reply{Title: "Blackjack", Data: v}
	r.add("You", fmt.Sprintf("%s (%d)", v.Player, v.Player.Value()))
	if v.Outcome == nil {
		r.add("Dealer", v.Dealer.String()+" ??")
		r.Content = "Hit, stand or double?"
		return r
	}
	r.add("Dealer", fmt.Sprintf("%s (%d)", v.Dealer, v.Dealer.Value()))
	net := v.Outcome.Net(v.Bet)
	switch v.Outcome.Result {
	case domain.GameResultWin:
		r.Content = fmt.Sprintf("You won %s (%s).", fmtV(net), v.Outcome.Reason)
	case domain.GameResultDraw:
		r.Content = "Push, your stake is returned."
	default:
		r.Content = fmt.Sprintf("You lost %s (%s).", fmtV(-net), v.Outcome.Reason)
	}
	r.add("Balance", fmtV(v.Balance))
	if net >= bigWin {
		d.publish("big_win", in.UserID, fmt.Sprintf("won %s at blackjack", fmtV(net)), net)
	}
	d.touch(ctx, in.UserID)
	return r
}

func (d *Dispatcher) blackjack(ctx context.Context, in Interaction) (Reply, error) {
	amount, err := in.amount("amount")
	if err != nil {
		return Reply{}, err
	}
	v, err := d.svc.Casino.BlackjackStart(ctx, in.UserID, amount)
	if err != nil {
		return Reply{}, err
	}
	return d.table(ctx, in, v), nil
}

func (d *Dispatcher) blackjackHit(ctx context.Context, in Interaction) (Reply, error) {
	v, err := d.svc.Casino.BlackjackHit(ctx, in.UserID, in.opt("session"))
	if err != nil {
		return Reply{}, err
	}
	return d.table(ctx, in, v), nil
}

func (d *Dispatcher) blackjackStand(ctx context.Context, in Interaction) (Reply, error) {
	v, err := d.svc.Casino.BlackjackStand(ctx, in.UserID, in.opt("session"))
	if err != nil {
		return Reply{}, err
	}
	return d.table(ctx, in, v), nil
}

func (d *Dispatcher) blackjackDouble(ctx context.Context, in Interaction) (Reply, error) {
	v, err := d.svc.Casino.BlackjackDouble(ctx, in.UserID, in.opt("session"))
	if err != nil {
		return Reply{}, err
	}
	return d.table(ctx, in, v), nil
}
