package service

import (
	"context"
	"math"

	"vie_bot/internal/domain"
	"vie_bot/internal/logger"
	"vie_bot/internal/store"
)

// ShopService buys and sells catalog items.
type ShopService struct {
	engine
	audit *AuditService
}

func NewShopService(st *store.Store, quests *QuestService, audit *AuditService) *ShopService {
	return &ShopService{
		engine: engine{store: st, quests: quests, log: logger.With("component", "shop")},
		audit:  audit,
	}
}

// CatalogItem is one purchasable line.
type CatalogItem struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Category      domain.Category `json:"category"`
	Price         int64           `json:"price"`
	SellPrice     int64           `json:"sell_price,omitempty"`
	LevelRequired int             `json:"level_required,omitempty"`
}

// Catalog lists items for sale, optionally limited to one category.
func (s *ShopService) Catalog(category string) ([]CatalogItem, error) {
	var cat domain.Category
	if category != "" {
		c, err := domain.ParseCategory(category)
		if err != nil {
			return nil, err
		}
		cat = c
	}
	data := s.data()
	var out []CatalogItem
	for _, id := range data.ShopIDs(cat) {
		it := data.Shop[id]
		if it.Price <= 0 {
			continue
		}
		sell, _ := data.SellPrice(id)
		out = append(out, CatalogItem{
			ID:            id,
			Name:          it.Name,
			Description:   it.Description,
			Category:      it.Category,
			Price:         it.Price,
			SellPrice:     sell,
			LevelRequired: it.LevelRequired,
		})
	}
	return out, nil
}

// TradeResult is the outcome of Buy or Sell.
type TradeResult struct {
	Item       string          `json:"item"`
	Name       string          `json:"name"`
	Category   domain.Category `json:"category"`
	Qty        int64           `json:"qty"`
	UnitPrice  int64           `json:"unit_price"`
	Total      int64           `json:"total"`
	Balance    int64           `json:"balance"`
	Owned      int64           `json:"owned"`
	QuestsDone []domain.Quest  `json:"quests_done,omitempty"`
}

func total(unit, qty int64) (int64, error) {
	if err := requirePositive(qty, "quantity"); err != nil {
		return 0, err
	}
	if unit > 0 && qty > math.MaxInt64/unit {
		return 0, domain.Fail(domain.ErrInvalidTarget, "quantity %d is too large", qty)
	}
	return unit * qty, nil
}

// Buy purchases qty units of item.
func (s *ShopService) Buy(ctx context.Context, userID, item string, qty int64) (TradeResult, error) {
	it, err := s.data().ShopItem(item)
	if err != nil {
		return TradeResult{}, err
	}
	if it.Price <= 0 {
		return TradeResult{}, domain.Fail(domain.ErrInvalidTarget, "%s is not for sale", it.Name)
	}
	cost, err := total(it.Price, qty)
	if err != nil {
		return TradeResult{}, err
	}

	res := TradeResult{Item: item, Name: it.Name, Category: it.Category, Qty: qty, UnitPrice: it.Price, Total: cost}
	err = s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		if err := p.RequireLevel(it.LevelRequired); err != nil {
			return err
		}
		if err := p.Debit(cost); err != nil {
			return err
		}
		if err := p.AddItem(it.Category, item, qty); err != nil {
			return err
		}
		res.QuestsDone = s.track(p, domain.QuestActionBuy, s.now())
		res.Balance = p.Balance
		res.Owned = p.ItemQuantity(it.Category, item)
		return nil
	})
	if err != nil {
		return TradeResult{}, err
	}
	s.audit.LogBalanceChange(ctx, userID, domain.AuditActionPurchase, -cost, map[string]any{"item": item, "qty": qty})
	return res, nil
}

// Sell returns qty units of item to the shop. Selling the last equipped unit
// unequips it.
func (s *ShopService) Sell(ctx context.Context, userID, item string, qty int64) (TradeResult, error) {
	it, err := s.data().ShopItem(item)
	if err != nil {
		return TradeResult{}, err
	}
	unit, ok := s.data().SellPrice(item)
	if !ok {
		return TradeResult{}, domain.Fail(domain.ErrInvalidTarget, "the shop does not buy %s", it.Name)
	}
	gain, err := total(unit, qty)
	if err != nil {
		return TradeResult{}, err
	}

	res := TradeResult{Item: item, Name: it.Name, Category: it.Category, Qty: qty, UnitPrice: unit, Total: gain}
	err = s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		if err := p.RemoveItem(it.Category, item, qty); err != nil {
			return err
		}
		p.Credit(gain)
		res.Balance = p.Balance
		res.Owned = p.ItemQuantity(it.Category, item)
		return nil
	})
	if err != nil {
		return TradeResult{}, err
	}
	s.audit.LogBalanceChange(ctx, userID, domain.AuditActionSale, gain, map[string]any{"item": item, "qty": qty})
	return res, nil
}
