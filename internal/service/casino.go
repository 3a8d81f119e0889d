package service

import (
	"context"
	"sync"
	"time"

	"vie_bot/internal/domain"
	"vie_bot/internal/game"
	"vie_bot/internal/logger"
	"vie_bot/internal/metrics"
	"vie_bot/internal/store"

	"github.com/google/uuid"
)

// CasinoLimits bound every wager.
type CasinoLimits struct {
	MinBet           int64
	MaxBet           int64
	BlackjackTimeout time.Duration
}

// blackjackSession is an open hand. The stake is already debited.
type blackjackSession struct {
	ID         string
	UserID     string
	Game       *game.Blackjack
	StartedAt  time.Time
	LastAction time.Time
}

// CasinoService runs the gambling mini-games.
type CasinoService struct {
	engine
	audit  *AuditService
	limits CasinoLimits

	mu       sync.Mutex
	sessions map[string]*blackjackSession
	byUser   map[string]string

	onFinish func(rec *domain.GameRecord)
}

func NewCasinoService(st *store.Store, quests *QuestService, audit *AuditService, limits CasinoLimits) *CasinoService {
	if limits.BlackjackTimeout <= 0 {
		limits.BlackjackTimeout = time.Minute
	}
	return &CasinoService{
		engine:   engine{store: st, quests: quests, log: logger.With("component", "casino")},
		audit:    audit,
		limits:   limits,
		sessions: make(map[string]*blackjackSession),
		byUser:   make(map[string]string),
	}
}

// OnFinish registers a hook called after every settled game.
func (s *CasinoService) OnFinish(fn func(rec *domain.GameRecord)) {
	s.onFinish = fn
}

func (s *CasinoService) checkBet(amount int64) error {
	if err := requirePositive(amount, "bet"); err != nil {
		return err
	}
	if s.limits.MinBet > 0 && amount < s.limits.MinBet {
		return domain.Fail(domain.ErrInvalidTarget, "minimum bet is %s", game.FormatV(s.limits.MinBet))
	}
	if s.limits.MaxBet > 0 && amount > s.limits.MaxBet {
		return domain.Fail(domain.ErrInvalidTarget, "maximum bet is %s", game.FormatV(s.limits.MaxBet))
	}
	return nil
}

// PlayResult is the settled result of a one-shot game.
type PlayResult struct {
	Game    domain.GameType `json:"game"`
	Bet     int64           `json:"bet"`
	Outcome game.Outcome    `json:"outcome"`
	Net     int64           `json:"net"`
	Balance int64           `json:"balance"`
	Details map[string]any  `json:"details,omitempty"`
}

// play debits bet, resolves the game and credits the payout in one
// transaction.
func (s *CasinoService) play(ctx context.Context, userID string, gt domain.GameType, bet int64,
	resolve func() (game.Outcome, map[string]any)) (PlayResult, error) {
	if err := s.checkBet(bet); err != nil {
		return PlayResult{}, err
	}
	res := PlayResult{Game: gt, Bet: bet}
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		if err := p.Debit(bet); err != nil {
			return err
		}
		res.Outcome, res.Details = resolve()
		p.Credit(res.Outcome.Payout)
		s.track(p, domain.QuestActionGamble, s.now())
		res.Net = res.Outcome.Net(bet)
		res.Balance = p.Balance
		return nil
	})
	if err != nil {
		return PlayResult{}, err
	}
	s.record(ctx, userID, gt, bet, res.Outcome, res.Details)
	return res, nil
}

// Bet is a coin flip paying the configured multiplier.
func (s *CasinoService) Bet(ctx context.Context, userID string, amount int64) (PlayResult, error) {
	cfg := s.data().Economy.Bet
	return s.play(ctx, userID, domain.GameTypeBet, amount, func() (game.Outcome, map[string]any) {
		return game.CoinFlip(amount, cfg.WinChance, cfg.WinMultiplier, s.rng()), nil
	})
}

func (s *CasinoService) BauCua(ctx context.Context, userID, pick string, amount int64) (PlayResult, error) {
	face, err := game.ParseBauCua(pick)
	if err != nil {
		return PlayResult{}, err
	}
	return s.play(ctx, userID, domain.GameTypeBauCua, amount, func() (game.Outcome, map[string]any) {
		r := game.PlayBauCua(face, amount, s.rng())
		return r.Outcome, map[string]any{"pick": r.Pick, "dice": r.Dice, "matches": r.Matches}
	})
}

func (s *CasinoService) XocDia(ctx context.Context, userID, pick string, amount int64) (PlayResult, error) {
	parity, err := game.ParseXocDia(pick)
	if err != nil {
		return PlayResult{}, err
	}
	mult := s.data().Economy.XocDiaMultiplier
	return s.play(ctx, userID, domain.GameTypeXocDia, amount, func() (game.Outcome, map[string]any) {
		r := game.PlayXocDia(parity, amount, mult, s.rng())
		return r.Outcome, map[string]any{"pick": r.Pick, "dice": r.Dice, "parity": r.Parity}
	})
}

// BlackjackView is the state of a hand returned to the player. The dealer's
// second card stays hidden while the hand is open.
type BlackjackView struct {
	SessionID string              `json:"session_id"`
	Bet       int64               `json:"bet"`
	Player    game.Hand           `json:"player"`
	Dealer    game.Hand           `json:"dealer"`
	State     game.BlackjackState `json:"state"`
	Doubled   bool                `json:"doubled"`
	Outcome   *game.Outcome       `json:"outcome,omitempty"`
	Balance   int64               `json:"balance"`
}

func viewOf(sess *blackjackSession, balance int64) BlackjackView {
	v := BlackjackView{
		SessionID: sess.ID,
		Bet:       sess.Game.Stake(),
		Player:    sess.Game.Player,
		Dealer:    sess.Game.Dealer,
		State:     sess.Game.State,
		Doubled:   sess.Game.Doubled,
		Outcome:   sess.Game.Outcome,
		Balance:   balance,
	}
	if !sess.Game.Finished() && len(v.Dealer) > 1 {
		v.Dealer = v.Dealer[:1]
	}
	return v
}

func (s *CasinoService) rules() game.BlackjackRules {
	bj := s.data().Economy.Blackjack
	return game.BlackjackRules{
		BlackjackMultiplier: bj.BlackjackMultiplier,
		WinMultiplier:       bj.WinMultiplier,
		DealerStand:         bj.DealerStand,
	}
}

// BlackjackStart debits the bet and deals. A player has at most one open hand.
func (s *CasinoService) BlackjackStart(ctx context.Context, userID string, amount int64) (BlackjackView, error) {
	if err := s.checkBet(amount); err != nil {
		return BlackjackView{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.byUser[userID]; ok {
		return BlackjackView{}, domain.Fail(domain.ErrStateConflict, "you already have a blackjack hand open (%s)", id)
	}

	var sess *blackjackSession
	var balance int64
	err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
		if err := p.Debit(amount); err != nil {
			return err
		}
		now := s.now()
		sess = &blackjackSession{
			ID:         uuid.NewString(),
			UserID:     userID,
			Game:       game.DealBlackjack(amount, s.rules(), s.rng()),
			StartedAt:  now,
			LastAction: now,
		}
		s.track(p, domain.QuestActionGamble, now)
		balance = p.Balance
		return nil
	})
	if err != nil {
		return BlackjackView{}, err
	}
	s.sessions[sess.ID] = sess
	s.byUser[userID] = sess.ID
	if sess.Game.Finished() {
		return s.settle(ctx, sess)
	}
	return viewOf(sess, balance), nil
}

// session must be called with s.mu held.
func (s *CasinoService) session(userID, sessionID string) (*blackjackSession, error) {
	sess, ok := s.sessions[sessionID]
	if !ok {
		if id, open := s.byUser[userID]; open && sessionID == "" {
			sess, ok = s.sessions[id]
		}
	}
	if !ok || sess.UserID != userID {
		return nil, domain.Fail(domain.ErrStateConflict, "no open blackjack hand")
	}
	return sess, nil
}

// BlackjackHit draws a card. An empty sessionID means the player's open hand.
func (s *CasinoService) BlackjackHit(ctx context.Context, userID, sessionID string) (BlackjackView, error) {
	return s.act(ctx, userID, sessionID, func(sess *blackjackSession) error {
		return sess.Game.Hit(s.rng())
	})
}

func (s *CasinoService) BlackjackStand(ctx context.Context, userID, sessionID string) (BlackjackView, error) {
	return s.act(ctx, userID, sessionID, func(sess *blackjackSession) error {
		return sess.Game.Stand(s.rng())
	})
}

// BlackjackDouble debits a second stake, then draws one card and stands. The
// debit and the draw commit together.
func (s *CasinoService) BlackjackDouble(ctx context.Context, userID, sessionID string) (BlackjackView, error) {
	return s.act(ctx, userID, sessionID, func(sess *blackjackSession) error {
		if err := sess.Game.CanDouble(); err != nil {
			return err
		}
		next := sess.Game.Clone()
		err := s.store.Update(ctx, userID, func(p *domain.PlayerRecord) error {
			if err := p.Debit(next.Bet); err != nil {
				return err
			}
			return next.Double(s.rng())
		})
		if err != nil {
			return err
		}
		sess.Game = next
		return nil
	})
}

func (s *CasinoService) act(ctx context.Context, userID, sessionID string, fn func(sess *blackjackSession) error) (BlackjackView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, err := s.session(userID, sessionID)
	if err != nil {
		return BlackjackView{}, err
	}
	if err := fn(sess); err != nil {
		return BlackjackView{}, err
	}
	sess.LastAction = s.now()
	if sess.Game.Finished() {
		return s.settle(ctx, sess)
	}
	return viewOf(sess, s.store.GetUser(userID).Balance), nil
}

// settle credits the payout and drops the session. A failed payout keeps the
// session so the sweep retries it. Called with s.mu held.
func (s *CasinoService) settle(ctx context.Context, sess *blackjackSession) (BlackjackView, error) {
	out := *sess.Game.Outcome
	var balance int64
	err := s.store.Update(ctx, sess.UserID, func(p *domain.PlayerRecord) error {
		p.Credit(out.Payout)
		balance = p.Balance
		return nil
	})
	if err != nil {
		s.log.Error("blackjack payout failed", "error", err, "user_id", sess.UserID, "session", sess.ID, "payout", out.Payout)
		return BlackjackView{}, err
	}
	delete(s.sessions, sess.ID)
	if s.byUser[sess.UserID] == sess.ID {
		delete(s.byUser, sess.UserID)
	}
	s.record(ctx, sess.UserID, domain.GameTypeBlackjack, sess.Game.Stake(), out, map[string]any{
		"session": sess.ID,
		"player":  sess.Game.Player.String(),
		"dealer":  sess.Game.Dealer.String(),
		"doubled": sess.Game.Doubled,
	})
	return viewOf(sess, balance), nil
}

// OpenSessions is the number of unsettled blackjack hands.
func (s *CasinoService) OpenSessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// SweepExpired auto-stands hands idle longer than the configured timeout.
// Hands settled in the meantime are already gone from the table.
func (s *CasinoService) SweepExpired(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, sess := range s.sessions {
		if now.Sub(sess.LastAction) < s.limits.BlackjackTimeout {
			continue
		}
		if !sess.Game.Finished() {
			_ = sess.Game.Stand(s.rng())
		}
		if _, err := s.settle(ctx, sess); err != nil {
			continue
		}
		n++
		s.log.Info("blackjack hand timed out", "user_id", sess.UserID, "session", sess.ID)
	}
	return n
}

func (s *CasinoService) record(ctx context.Context, userID string, gt domain.GameType, bet int64, out game.Outcome, details map[string]any) {
	rec := &domain.GameRecord{
		UserID:    userID,
		GameType:  gt,
		Result:    out.Result,
		BetAmount: bet,
		Payout:    out.Payout,
		Details:   details,
		CreatedAt: s.now(),
	}
	metrics.Games.WithLabelValues(string(gt), string(out.Result)).Inc()
	metrics.Wagered.WithLabelValues(string(gt)).Add(float64(bet))
	s.audit.LogGame(ctx, rec)
	if s.onFinish != nil {
		s.onFinish(rec)
	}
}
