package domain

import "time"

// QuestAction is a tracked player action that advances quests.
type QuestAction string

const (
	QuestActionWork    QuestAction = "work"
	QuestActionHunt    QuestAction = "hunt"
	QuestActionDungeon QuestAction = "dungeon"
	QuestActionHatch   QuestAction = "hatch"
	QuestActionGamble  QuestAction = "gamble"
	QuestActionBuy     QuestAction = "buy"
)

// Quest is one daily objective.
type Quest struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Action   QuestAction `json:"action"`
	Target   int         `json:"target"`
	Progress int         `json:"progress"`
	Reward   int64       `json:"reward"`
	Done     bool        `json:"done"`
	Claimed  bool        `json:"claimed"`
}

// Percent returns progress in 0..100.
func (q *Quest) Percent() int {
	if q.Target <= 0 {
		return 100
	}
	p := q.Progress * 100 / q.Target
	if p > 100 {
		return 100
	}
	return p
}

// DailyQuests holds the quest set of one calendar day.
type DailyQuests struct {
	Date   string  `json:"date"`
	Quests []Quest `json:"quests"`
}

// Expired reports whether the set belongs to another day than now.
func (d *DailyQuests) Expired(now time.Time) bool {
	return d == nil || d.Date != DayKey(now)
}

// Advance adds n to every unfinished quest tracking action and returns the
// quests that completed on this call.
func (d *DailyQuests) Advance(action QuestAction, n int) []Quest {
	var done []Quest
	for i := range d.Quests {
		q := &d.Quests[i]
		if q.Done || q.Action != action {
			continue
		}
		q.Progress += n
		if q.Progress >= q.Target {
			q.Progress = q.Target
			q.Done = true
			done = append(done, *q)
		}
	}
	return done
}

// Claim marks every finished, unclaimed quest as claimed and returns them
// with their summed reward.
func (d *DailyQuests) Claim() ([]Quest, int64) {
	var (
		out   []Quest
		total int64
	)
	for i := range d.Quests {
		q := &d.Quests[i]
		if !q.Done || q.Claimed {
			continue
		}
		q.Claimed = true
		total += q.Reward
		out = append(out, *q)
	}
	return out, total
}

// DayKey formats the calendar day of t as YYYY-MM-DD.
func DayKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaysBetween counts whole calendar days from day a to day b. Unparseable
// inputs count as far apart.
func DaysBetween(a, b string) int {
	ta, err1 := time.Parse("2006-01-02", a)
	tb, err2 := time.Parse("2006-01-02", b)
	if err1 != nil || err2 != nil {
		return 1 << 30
	}
	return int(tb.Sub(ta).Hours() / 24)
}
