package domain

import "time"

// GameType names a casino mini-game.
type GameType string

const (
	GameTypeBet       GameType = "bet"
	GameTypeBlackjack GameType = "blackjack"
	GameTypeBauCua    GameType = "baucua"
	GameTypeXocDia    GameType = "xocdia"
)

// GameResult is the outcome of a resolved attempt or game.
type GameResult string

const (
	GameResultWin  GameResult = "win"
	GameResultLose GameResult = "lose"
	GameResultDraw GameResult = "draw"
)

// GameRecord summarizes one finished game for the audit log and activity feed.
type GameRecord struct {
	ID        int64          `json:"id,omitempty"`
	UserID    string         `json:"user_id"`
	GameType  GameType       `json:"game_type"`
	Result    GameResult     `json:"result"`
	BetAmount int64          `json:"bet_amount"`
	Payout    int64          `json:"payout"`
	Details   map[string]any `json:"details,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Net is the balance delta of the game.
func (g *GameRecord) Net() int64 {
	return g.Payout - g.BetAmount
}
