package queries

import (
	"context"
	"log/slog"
	"strings"

	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	"retroboard/contexts/collaboration/board-sync-service/ports"
)

// SnapshotUseCase reads the canonical board view. For anonymous sessions
// author display names are blanked before the snapshot leaves the core;
// author ids stay so clients can mark their own items and votes.
type SnapshotUseCase struct {
	Store  ports.BoardStore
	Logger *slog.Logger
}

func (uc SnapshotUseCase) Snapshot(ctx context.Context, sessionID string) (entities.Snapshot, error) {
	snapshot, err := uc.Store.GetSessionSnapshot(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return entities.Snapshot{}, err
	}
	if snapshot.Session.Anonymous {
		for c := range snapshot.Columns {
			for i := range snapshot.Columns[c].Items {
				snapshot.Columns[c].Items[i].Item.AuthorName = ""
			}
		}
	}
	return snapshot, nil
}

// RemainingBudget is the fixed session allotment minus what the
// participant has already spent. It can go negative: the ledger applies
// deltas as requested and only the client path pre-checks the budget.
func (uc SnapshotUseCase) RemainingBudget(ctx context.Context, sessionID string, participantID string) (int, error) {
	votes, err := uc.Store.ListVotesBySession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return 0, err
	}
	total := 0
	for _, vote := range votes {
		if vote.ParticipantID == strings.TrimSpace(participantID) {
			total += vote.Count
		}
	}
	return entities.VoteBudget - total, nil
}
