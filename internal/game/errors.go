package game

import "vie_bot/internal/domain"

var (
	errFinished   = domain.Fail(domain.ErrStateConflict, "this game is already finished")
	errDoubleLate = domain.Fail(domain.ErrStateConflict, "you can only double on your first two cards")
)
