package domain

import "time"

// Hatchery is the timed egg slot of a player.
type Hatchery struct {
	Level      int        `json:"level"`
	PlantedEgg PlantedEgg `json:"plantedEgg"`
}

// PlantedEgg is empty when Type is "". Times are unix milliseconds.
type PlantedEgg struct {
	Type      string `json:"type,omitempty"`
	PlantedAt int64  `json:"plantedAt,omitempty"`
	HarvestAt int64  `json:"harvestAt,omitempty"`
}

// Empty reports whether no egg is planted.
func (e PlantedEgg) Empty() bool { return e.Type == "" }

// Ready reports whether the planted egg can be collected at now.
func (e PlantedEgg) Ready(now time.Time) bool {
	return !e.Empty() && now.UnixMilli() >= e.HarvestAt
}

// RemainingMinutes until harvest, rounded up.
func (e PlantedEgg) RemainingMinutes(now time.Time) int64 {
	diff := e.HarvestAt - now.UnixMilli()
	if e.Empty() || diff <= 0 {
		return 0
	}
	return (diff + 59_999) / 60_000
}

// Plant occupies the slot with eggType. It fails while another egg is pending.
func (h *Hatchery) Plant(eggType string, growMinutes int64, now time.Time) error {
	if !h.PlantedEgg.Empty() {
		return Fail(ErrStateConflict, "an egg (%s) is already planted", h.PlantedEgg.Type)
	}
	if growMinutes < 0 {
		growMinutes = 0
	}
	ms := now.UnixMilli()
	h.PlantedEgg = PlantedEgg{
		Type:      eggType,
		PlantedAt: ms,
		HarvestAt: ms + growMinutes*60_000,
	}
	return nil
}

// Harvest clears a ready slot and returns the egg that was in it.
func (h *Hatchery) Harvest(now time.Time) (PlantedEgg, error) {
	egg := h.PlantedEgg
	if egg.Empty() {
		return PlantedEgg{}, Fail(ErrStateConflict, "no egg planted")
	}
	if !egg.Ready(now) {
		return PlantedEgg{}, Fail(ErrStateConflict, "egg is not ready yet, %d minute(s) left", egg.RemainingMinutes(now))
	}
	h.PlantedEgg = PlantedEgg{}
	return egg, nil
}
