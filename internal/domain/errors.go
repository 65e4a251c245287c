package domain

import "errors"

// Battle lifecycle errors
var (
	ErrBattleNotFound     = errors.New("battle not found")
	ErrTurnNotFound       = errors.New("turn not found")
	ErrTrackNotFound      = errors.New("music track not found")
	ErrThemeNotFound      = errors.New("theme not found")
	ErrNotAwaitingPartner = errors.New("battle is not waiting for a partner")
	ErrOwnBattle          = errors.New("cannot join your own battle")
	ErrStateRegression    = errors.New("battle state cannot move backward")
)

// Instruction gate errors
var (
	ErrNotYourTurn     = errors.New("not your turn")
	ErrDeadlineExpired = errors.New("turn deadline has passed")
)

// Generation errors
var (
	// ErrGenerationFailed aborts the current turn. The turn is never
	// partially recorded and the battle stays in its pre-turn state.
	ErrGenerationFailed = errors.New("generation failed")
)

// Cheer errors
var (
	ErrPartnerCannotCheer = errors.New("rapping partners cannot send cheers")
	ErrInvalidCheerType   = errors.New("invalid cheer type")
	ErrUnknownAgent       = errors.New("agent is not part of this battle")
)
