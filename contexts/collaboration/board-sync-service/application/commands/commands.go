package commands

import (
	"context"
	"strings"
	"time"

	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
	"retroboard/contexts/collaboration/board-sync-service/ports"
)

// requireOpenSession loads the session and rejects mutations once it has
// reached the terminal phase. Action-item toggles bypass this on purpose.
func requireOpenSession(ctx context.Context, store ports.BoardStore, sessionID string) (entities.Session, error) {
	session, err := store.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return entities.Session{}, err
	}
	if session.Phase == entities.PhaseClosed {
		return entities.Session{}, domainerrors.ErrSessionClosed
	}
	return session, nil
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}

// requireCreator applies the boundary policy for creator-restricted
// operations. An empty requester means the caller is an internal trusted
// path and the check is skipped.
func requireCreator(session entities.Session, requestedBy string) error {
	requestedBy = strings.TrimSpace(requestedBy)
	if requestedBy == "" {
		return nil
	}
	if requestedBy != strings.TrimSpace(session.Creator) {
		return domainerrors.ErrNotCreator
	}
	return nil
}
