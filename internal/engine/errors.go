package engine

import "errors"

// Expected, recoverable-by-caller conditions. The engine always surfaces the
// specific kind instead of silently dropping a requested mutation; handlers
// translate kinds into HTTP statuses.
var (
	ErrAlreadyQueued      = errors.New("user is already queued for this session")
	ErrAlreadyRostered    = errors.New("user is already on this session's roster")
	ErrNotQueued          = errors.New("user is not queued for this session")
	ErrNotParticipating   = errors.New("user is neither queued nor rostered for this session")
	ErrSessionNotJoinable = errors.New("session is not joinable")
	ErrSessionCancelled   = errors.New("session is cancelled")
	ErrForbidden          = errors.New("only the session creator may do this")
	ErrRoleFull           = errors.New("role is already at capacity")
	ErrIneligibleAccount  = errors.New("account is not eligible for this role")
	ErrNotFound           = errors.New("not found")
	ErrInvalidGameMode    = errors.New("unknown game mode")
	ErrInvalidRole        = errors.New("role is not part of this game mode")
	ErrInvalidRank        = errors.New("unknown rank or division")
	ErrInvalidStatus      = errors.New("status transition not permitted")
	ErrInvalidSchedule    = errors.New("scheduled time is not representable")
	ErrDuplicateAccount   = errors.New("account name already in use")
)
