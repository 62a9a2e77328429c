package errors

import "errors"

var (
	ErrInvalidInput      = errors.New("invalid board event input")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionClosed     = errors.New("session is closed")
	ErrColumnNotFound    = errors.New("column not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrActionNotFound    = errors.New("action item not found")
	ErrVoteNotFound      = errors.New("vote not found")
	ErrVoteUnchanged     = errors.New("vote count already at requested value")
	ErrPhaseUnchanged    = errors.New("session already in requested phase")
	ErrPhaseConflict     = errors.New("session phase changed since observed")
	ErrInvalidTransition = errors.New("phase transition not allowed")
	ErrNotCreator        = errors.New("operation restricted to session creator")
	ErrNotRegistered     = errors.New("connection not registered for session")
	ErrConflict          = errors.New("board state conflict")
)

// Dropped reports whether err belongs to the silently-dropped taxonomy:
// stale or misaddressed events that must not produce a broadcast and must
// not surface to other participants.
func Dropped(err error) bool {
	switch {
	case errors.Is(err, ErrSessionNotFound),
		errors.Is(err, ErrSessionClosed),
		errors.Is(err, ErrColumnNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrActionNotFound),
		errors.Is(err, ErrVoteNotFound),
		errors.Is(err, ErrVoteUnchanged),
		errors.Is(err, ErrPhaseUnchanged),
		errors.Is(err, ErrPhaseConflict),
		errors.Is(err, ErrInvalidTransition),
		errors.Is(err, ErrNotCreator),
		errors.Is(err, ErrNotRegistered):
		return true
	}
	return false
}
