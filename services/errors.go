package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed        = errors.New("validation failed")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrInvalidCredentials      = errors.New("invalid username or password")
	ErrTournamentNameRequired  = errors.New("tournament name is required")
	ErrTeamNameRequired        = errors.New("team name is required")
	ErrPlayerNameRequired      = errors.New("player name is required")
	ErrInvalidPlayerPosition   = errors.New("player position must be one of PG, SG, SF, PF, C")
	ErrMatchTeamsIdentical     = errors.New("a match requires two distinct teams")
	ErrMatchTeamsWrongTourney  = errors.New("both teams must belong to the match tournament")
	ErrTournamentInvalidDates  = errors.New("tournament end date must not be before start date")
	ErrNegativeScore           = errors.New("scores must not be negative")
	ErrNegativeStatValue       = errors.New("stat counters must not be negative")
	ErrImportEmptyTournament   = errors.New("tournament sheet contains no importable row")

	// Conflicts
	ErrUserEmailConflict    = errors.New("email address is already in use")
	ErrUserUsernameConflict = errors.New("username is already in use")
	ErrScoreAlreadyExists   = errors.New("match already has a score")
	ErrStatsAlreadyExist    = errors.New("player already has stats for this match")
	ErrAlreadyHasAccess     = errors.New("user already has access to this tournament")

	// Authentication and authorization
	ErrForbiddenOperation = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors, more context than the generic one
	ErrUserNotFound        = errors.New("user not found")
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrTeamNotFound        = errors.New("team not found")
	ErrPlayerNotFound      = errors.New("player not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrScoreNotFound       = errors.New("match score not found")
	ErrStatsNotFound       = errors.New("player stats not found")
	ErrAccessNotFound      = errors.New("access grant not found")
)
