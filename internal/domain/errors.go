package domain

import apperrors "blackjack/internal/errors"

var (
	ErrMatchNotFound    = apperrors.New(apperrors.CodeNotFound, "match not found")
	ErrPlayerNotFound   = apperrors.New(apperrors.CodeNotFound, "player not found")
	ErrInvalidBet       = apperrors.New(apperrors.CodeInvalidBet, "bet must be positive and not exceed the balance")
	ErrInvalidMove      = apperrors.New(apperrors.CodeInvalidMove, "move must be DRAW_CARD or STAND")
	ErrMatchFinished    = apperrors.New(apperrors.CodeInvalidState, "match is finished")
	ErrMatchNotFinished = apperrors.New(apperrors.CodeInvalidState, "match is not finished")
	ErrMatchContinued   = apperrors.New(apperrors.CodeInvalidState, "match already continued by a rematch")
	ErrPlayerInactive   = apperrors.New(apperrors.CodeInvalidState, "player is no longer active")
	ErrBetAlreadyPlaced = apperrors.New(apperrors.CodeInvalidState, "bet already placed this round")
	ErrTableFull        = apperrors.New(apperrors.CodeInvalidState, "match has no free seat")
)
