package domain

// Category groups inventory items.
type Category string

const (
	CategoryEggs         Category = "eggs"
	CategoryPets         Category = "pets"
	CategoryWeapons      Category = "weapons"
	CategoryMonsterItems Category = "monsterItems"
	CategoryDungeonGear  Category = "dungeonGear"
	CategoryDungeonLoot  Category = "dungeonLoot"
	CategoryMisc         Category = "misc"
)

// Categories lists every inventory category in display order.
var Categories = []Category{
	CategoryEggs,
	CategoryPets,
	CategoryWeapons,
	CategoryMonsterItems,
	CategoryDungeonGear,
	CategoryDungeonLoot,
	CategoryMisc,
}

// ParseCategory validates a category name.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", Fail(ErrInvalidTarget, "unknown inventory category %q", s)
}

// Inventory maps category to item id to quantity.
type Inventory map[Category]map[string]int64

// Slot is an equipment slot.
type Slot string

const (
	SlotWeapon  Slot = "weapon"
	SlotPhuChu  Slot = "phuChu"
	SlotLinhDan Slot = "linhDan"
)

// SlotCategory is the inventory category an item must come from to be
// equipped in slot.
func SlotCategory(slot Slot) (Category, error) {
	switch slot {
	case SlotWeapon:
		return CategoryWeapons, nil
	case SlotPhuChu, SlotLinhDan:
		return CategoryDungeonGear, nil
	default:
		return "", Fail(ErrInvalidTarget, "unknown equipment slot %q", slot)
	}
}

// ItemQuantity returns how many of item the player holds in category.
func (p *PlayerRecord) ItemQuantity(category Category, item string) int64 {
	return p.CategorizedInventory[category][item]
}

// AddItem adds qty units of item. Non-positive quantities are rejected.
func (p *PlayerRecord) AddItem(category Category, item string, qty int64) error {
	if qty <= 0 {
		return Fail(ErrInvalidTarget, "quantity must be positive")
	}
	items := p.CategorizedInventory[category]
	if items == nil {
		items = make(map[string]int64)
		p.CategorizedInventory[category] = items
	}
	items[item] += qty
	return nil
}

// RemoveItem takes qty units of item. If fewer are held nothing changes and an
// InsufficientItems failure is returned. Entries that reach zero are pruned.
func (p *PlayerRecord) RemoveItem(category Category, item string, qty int64) error {
	if qty <= 0 {
		return Fail(ErrInvalidTarget, "quantity must be positive")
	}
	have := p.ItemQuantity(category, item)
	if have < qty {
		return Fail(ErrInsufficientItems, "need %d x %s, have %d", qty, item, have)
	}
	items := p.CategorizedInventory[category]
	if have == qty {
		delete(items, item)
	} else {
		items[item] = have - qty
	}
	p.unequipIfGone(category, item)
	return nil
}

// Equip puts item into slot. The player must hold at least one unit in the
// slot's category. Equipping does not consume the item.
func (p *PlayerRecord) Equip(slot Slot, item string) error {
	category, err := SlotCategory(slot)
	if err != nil {
		return err
	}
	if p.ItemQuantity(category, item) < 1 {
		return Fail(ErrInsufficientItems, "you do not own %s", item)
	}
	p.EquippedItems[slot] = item
	return nil
}

// Unequip clears slot.
func (p *PlayerRecord) Unequip(slot Slot) {
	delete(p.EquippedItems, slot)
}

// Equipped returns the item in slot, if it is still held.
func (p *PlayerRecord) Equipped(slot Slot) (string, bool) {
	item, ok := p.EquippedItems[slot]
	if !ok || item == "" {
		return "", false
	}
	category, err := SlotCategory(slot)
	if err != nil || p.ItemQuantity(category, item) < 1 {
		return "", false
	}
	return item, true
}

func (p *PlayerRecord) unequipIfGone(category Category, item string) {
	if p.ItemQuantity(category, item) > 0 {
		return
	}
	for slot, equipped := range p.EquippedItems {
		if equipped != item {
			continue
		}
		if c, err := SlotCategory(slot); err == nil && c == category {
			delete(p.EquippedItems, slot)
		}
	}
}

// TotalItems counts units across all categories.
func (p *PlayerRecord) TotalItems() int64 {
	var n int64
	for _, items := range p.CategorizedInventory {
		for _, q := range items {
			n += q
		}
	}
	return n
}
