package bot

import (
	"context"
	"fmt"
)

func (d *Dispatcher) shop(ctx context.Context, in Interaction) (Reply, error) {
	items, err := d.svc.Shop.Catalog(in.opt("category"))
	if err != nil {
		return Reply{}, err
	}
	r := Reply{Title: "Shop", Data: items}
	for _, it := range items {
		line := fmtV(it.Price)
		if it.LevelRequired > 0 {
			line += fmt.Sprintf(" · level %d", it.LevelRequired)
		}
		if it.SellPrice > 0 {
			line += " · sells for " + fmtV(it.SellPrice)
		}
		r.add(fmt.Sprintf("%s (%s)", it.Name, it.ID), line)
	}
	if len(items) == 0 {
		r.Content = "Nothing for sale here."
	}
	return r, nil
}

func (d *Dispatcher) trade(in Interaction) (string, int64, error) {
	item, err := in.required("item_id")
	if err != nil {
		return "", 0, err
	}
	qty, err := in.quantity("quantity")
	return item, qty, err
}

func (d *Dispatcher) buy(ctx context.Context, in Interaction) (Reply, error) {
	item, qty, err := d.trade(in)
	if err != nil {
		return Reply{}, err
	}
	res, err := d.svc.Shop.Buy(ctx, in.UserID, item, qty)
	if err != nil {
		return Reply{}, err
	}
	r := Reply{Title: "Shop", Content: fmt.Sprintf("Bought %d x %s for %s.", res.Qty, res.Name, fmtV(res.Total)), Data: res}
	r.add("Owned", fmt.Sprint(res.Owned))
	r.add("Balance", fmtV(res.Balance))
	questLines(&r, res.QuestsDone)
	d.touch(ctx, in.UserID)
	return r, nil
}

func (d *Dispatcher) sell(ctx context.Context, in Interaction) (Reply, error) {
	item, qty, err := d.trade(in)
	if err != nil {
		return Reply{}, err
	}
	res, err := d.svc.Shop.Sell(ctx, in.UserID, item, qty)
	if err != nil {
		return Reply{}, err
	}
	r := Reply{Title: "Shop", Content: fmt.Sprintf("Sold %d x %s for %s.", res.Qty, res.Name, fmtV(res.Total)), Data: res}
	r.add("Left", fmt.Sprint(res.Owned))
	r.add("Balance", fmtV(res.Balance))
	d.touch(ctx, in.UserID)
	return r, nil
}
