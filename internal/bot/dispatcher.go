// Package bot turns slash command interactions into service calls and plain
// replies.
package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"vie_bot/internal/domain"
	"vie_bot/internal/logger"
	"vie_bot/internal/metrics"
	"vie_bot/internal/service"
)

// Services are the game services the dispatcher drives.
type Services struct {
	Economy     *service.EconomyService
	Hatchery    *service.HatcheryService
	Hunt        *service.HuntService
	Dungeon     *service.DungeonService
	Shop        *service.ShopService
	Casino      *service.CasinoService
	Quests      *service.QuestService
	Guilds      *service.GuildService
	Admin       *service.AdminService
	Leaderboard *service.LeaderboardService
}

type handlerFunc func(ctx context.Context, in Interaction) (Reply, error)

// Dispatcher routes interactions to handlers.
type Dispatcher struct {
	svc     Services
	isAdmin func(userID string) bool
	feed    Publisher
	now     func() time.Time
	log     *slog.Logger

	routes map[string]handlerFunc
}

// NewDispatcher wires every command. feed may be nil.
func NewDispatcher(svc Services, isAdmin func(string) bool, feed Publisher) *Dispatcher {
	d := &Dispatcher{
		svc:     svc,
		isAdmin: isAdmin,
		feed:    feed,
		now:     time.Now,
		log:     logger.With("component", "dispatcher"),
	}
	d.routes = map[string]handlerFunc{
		"help":    d.help,
		"work":    d.work,
		"daily":   d.daily,
		"weekly":  d.weekly,
		"cash":    d.cash,
		"profile": d.profile,
		"give":    d.give,

		"inventory":   d.inventory,
		"leaderboard": d.leaderboard,
		"quest":       d.quest,
		"quest-claim": d.questClaim,
		"quest-reset": d.questRefresh,

		"hatch":         d.hatch,
		"hatch-place":   d.hatchPlace,
		"hatch-collect": d.hatchCollect,
		"hatch-upgrade": d.hatchUpgrade,

		"hunt":           d.hunt,
		"hunt-equip":     d.huntEquip,
		"hunt-inventory": d.huntInventory,
		"hunt-use":       d.huntUse,

		"dungeon":             d.dungeon,
		"dungeon-enter":       d.dungeonEnter,
		"dungeon-stats":       d.dungeonStats,
		"dungeon-leaderboard": d.dungeonLeaderboard,
		"craft":               d.craft,

		"shop": d.shop,
		"buy":  d.buy,
		"sell": d.sell,

		"bet":              d.bet,
		"baucua":           d.baucua,
		"xocdia":           d.xocdia,
		"blackjack":        d.blackjack,
		"blackjack-hit":    d.blackjackHit,
		"blackjack-stand":  d.blackjackStand,
		"blackjack-double": d.blackjackDouble,

		"guild":         d.guildInfo,
		"guild-join":    d.guildJoin,
		"guild-leave":   d.guildLeave,
		"guild-upgrade": d.guildUpgrade,
		"guildowner":    d.admin(d.guildOwner),

		"admin-add":    d.admin(d.adminAdd),
		"admin-remove": d.admin(d.adminRemove),
		"admin-reset":  d.admin(d.adminReset),
		"admin-stats":  d.admin(d.adminStats),
	}
	return d
}

// Commands lists the routed command names.
func (d *Dispatcher) Commands() []string {
	out := make([]string, 0, len(d.routes))
	for name := range d.routes {
		out = append(out, name)
	}
	return out
}

// Handle runs one interaction. Failures become ephemeral replies carrying the
// reason; faults are logged and answered with a generic apology.
func (d *Dispatcher) Handle(ctx context.Context, in Interaction) (reply Reply) {
	start := time.Now()
	ctx = logger.NewContext(ctx, "user_id", in.UserID, "command", in.Command)
	log := logger.WithContext(ctx)

	outcome := "ok"
	defer func() {
		if r := recover(); r != nil {
			log.Error("command panicked", "panic", r, "stack", string(debug.Stack()))
			outcome = "fault"
			reply = apology()
		}
		metrics.Commands.WithLabelValues(in.Command, outcome).Inc()
		metrics.CommandDuration.WithLabelValues(in.Command).Observe(time.Since(start).Seconds())
	}()

	if in.UserID == "" {
		outcome = domain.KindName(domain.ErrInvalidTarget)
		return failureReply(domain.Fail(domain.ErrInvalidTarget, "missing user"))
	}
	h, ok := d.routes[in.Command]
	if !ok {
		outcome = "unknown"
		return Reply{Content: fmt.Sprintf("Unknown command %q. Use /help for the list of commands.", in.Command), Ephemeral: true}
	}

	reply, err := h(ctx, in)
	if err == nil {
		return reply
	}
	if domain.IsFailure(err) {
		outcome = domain.KindName(domain.FailureKind(err))
		log.Debug("command rejected", "reason", err)
		return failureReply(err)
	}
	outcome = "fault"
	log.Error("command failed", "error", err)
	return apology()
}

func failureReply(err error) Reply {
	return Reply{
		Content:   "❌ " + err.Error(),
		Ephemeral: true,
		Failure:   domain.KindName(domain.FailureKind(err)),
	}
}

func apology() Reply {
	return Reply{Content: "Sorry, something went wrong. Please try again later.", Ephemeral: true}
}

func (d *Dispatcher) admin(h handlerFunc) handlerFunc {
	return func(ctx context.Context, in Interaction) (Reply, error) {
		if d.isAdmin == nil || !d.isAdmin(in.UserID) {
			return Reply{}, domain.Fail(domain.ErrInvalidTarget, "this command is for administrators only")
		}
		return h(ctx, in)
	}
}

func (d *Dispatcher) publish(typ, userID, msg string, amount int64) {
	if d.feed == nil {
		return
	}
	d.feed.Publish(Event{Type: typ, UserID: userID, Message: msg, Amount: amount, At: d.now()})
}

// touch keeps the cached leaderboard in step with balance changes.
func (d *Dispatcher) touch(ctx context.Context, ids ...string) {
	if d.svc.Leaderboard == nil {
		return
	}
	for _, id := range ids {
		d.svc.Leaderboard.Touch(ctx, id)
	}
}
