// Package gamedata loads the game dataset (eggs, monsters, dungeon tiers,
// shop catalog) and answers typed lookups over it.
package gamedata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"vie_bot/internal/domain"

	"github.com/spf13/viper"
)

// Load reads and validates the game and shop configuration files.
func Load(gamePath, shopPath string) (*Data, error) {
	var data Data
	if err := readInto(gamePath, &data); err != nil {
		return nil, fmt.Errorf("game config: %w", err)
	}

	var shop struct {
		Items map[string]ShopItem `mapstructure:"items"`
	}
	if err := readInto(shopPath, &shop); err != nil {
		return nil, fmt.Errorf("shop config: %w", err)
	}
	data.Shop = shop.Items

	if err := data.Validate(); err != nil {
		return nil, err
	}
	return &data, nil
}

func readInto(path string, out any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	// viper folds keys to lower case, so a mixed-case id would load under a
	// name no lookup can reach
	if strings.EqualFold(filepath.Ext(path), ".json") {
		if err := checkKeyCase(path); err != nil {
			return err
		}
	}
	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func checkKeyCase(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	var errs []error
	var walk func(prefix string, v any)
	walk = func(prefix string, v any) {
		switch t := v.(type) {
		case map[string]any:
			for k, child := range t {
				at := strings.TrimPrefix(prefix+"."+k, ".")
				if k != strings.ToLower(k) {
					errs = append(errs, fmt.Errorf("%s: key must be lower case", at))
				}
				walk(at, child)
			}
		case []any:
			for i, child := range t {
				walk(fmt.Sprintf("%s[%d]", prefix, i), child)
			}
		}
	}
	walk("", doc)
	return errors.Join(errs...)
}

// Validate checks internal consistency. Every problem found is reported.
func (d *Data) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}
	lower := func(where, id string) {
		if id != strings.ToLower(id) {
			bad("%s: id %q must be lower case", where, id)
		}
	}

	if d.Economy.Work.Max < d.Economy.Work.Min {
		bad("economy.work: max < min")
	}
	if d.Economy.Bet.WinChance < 0 || d.Economy.Bet.WinChance > 100 {
		bad("economy.bet.win_chance out of range")
	}
	if d.Pity.BonusPerFail < 0 || d.Pity.MaxBonus < 0 {
		bad("pity: negative values")
	}
	for id, e := range d.Eggs {
		lower("eggs", id)
		lower("eggs."+id+".pet", e.Pet)
		if e.GrowTime < 0 || e.BaseReward < 0 {
			bad("eggs.%s: negative grow_time or base_reward", id)
		}
		if e.KgMax < e.KgMin {
			bad("eggs.%s: kg_max < kg_min", id)
		}
	}
	for id, m := range d.Monsters {
		lower("monsters", id)
		lower("monsters."+id+".loot", m.Loot)
		if m.RewardMax < m.RewardMin {
			bad("monsters.%s: reward_max < reward_min", id)
		}
	}
	for id, e := range d.Equipment {
		lower("equipment", id)
		if _, err := domain.SlotCategory(e.Slot); err != nil {
			bad("equipment.%s: %v", id, err)
		}
	}
	for id, t := range d.Dungeons {
		lower("dungeon_tiers", id)
		if t.RewardMax < t.RewardMin {
			bad("dungeon_tiers.%s: reward_max < reward_min", id)
		}
		for _, r := range t.Requirements {
			lower("dungeon_tiers."+id+".requirements", r.Item)
			if _, err := domain.ParseCategory(string(r.Category)); err != nil {
				bad("dungeon_tiers.%s.requirements: %v", id, err)
			}
		}
		for _, dr := range t.Drops {
			lower("dungeon_tiers."+id+".drops", dr.Item)
			if _, err := domain.ParseCategory(string(dr.Category)); err != nil {
				bad("dungeon_tiers.%s.drops: %v", id, err)
			}
		}
	}
	for id, r := range d.Recipes {
		lower("recipes", id)
		for _, in := range r.Inputs {
			lower("recipes."+id+".inputs", in.Item)
		}
		if _, err := domain.ParseCategory(string(r.Category)); err != nil {
			bad("recipes.%s: %v", id, err)
		}
		if len(r.Inputs) == 0 {
			bad("recipes.%s: no inputs", id)
		}
	}
	for i, r := range d.Guild.Ranks {
		if r.Level != i+1 {
			bad("guild.ranks[%d]: level must be %d", i, i+1)
		}
	}
	for id, it := range d.Shop {
		lower("shop.items", id)
		if _, err := domain.ParseCategory(string(it.Category)); err != nil {
			bad("shop.items.%s: %v", id, err)
		}
		if it.Price < 0 {
			bad("shop.items.%s: negative price", id)
		}
	}
	for _, q := range d.Quests {
		lower("quests", q.ID)
		if q.Target <= 0 {
			bad("quests.%s: target must be positive", q.ID)
		}
	}

	sort.Slice(d.WealthRanks, func(i, j int) bool { return d.WealthRanks[i].Min < d.WealthRanks[j].Min })
	return errors.Join(errs...)
}
