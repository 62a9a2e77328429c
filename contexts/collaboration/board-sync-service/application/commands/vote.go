package commands

import (
	"context"
	"log/slog"
	"strings"

	application "retroboard/contexts/collaboration/board-sync-service/application"
	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
	"retroboard/contexts/collaboration/board-sync-service/ports"
)

// VoteDeltaCommand adjusts one (item, participant) vote count by delta.
type VoteDeltaCommand struct {
	SessionID     string
	ItemID        string
	ParticipantID string
	Delta         int
}

// SetVoteCommand requests an absolute vote count. The effective delta is
// computed from the authoritative stored count inside the serialized
// session path, never from a client-cached value.
type SetVoteCommand struct {
	SessionID     string
	ItemID        string
	ParticipantID string
	Target        int
}

// LedgerUseCase maintains per-item per-participant vote counts. A record
// exists only while its count is positive; a delta that lands at or below
// zero deletes the record. The per-participant session budget is not
// enforced here: clients pre-check remaining budget and the server applies
// deltas as requested.
type LedgerUseCase struct {
	Store  ports.BoardStore
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func (uc LedgerUseCase) ApplyDelta(ctx context.Context, cmd VoteDeltaCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.SessionID) == "" ||
		strings.TrimSpace(cmd.ItemID) == "" ||
		strings.TrimSpace(cmd.ParticipantID) == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, err := requireOpenSession(ctx, uc.Store, cmd.SessionID); err != nil {
		return err
	}
	if _, err := uc.Store.GetItemByID(ctx, strings.TrimSpace(cmd.ItemID)); err != nil {
		return err
	}

	existing, found, err := uc.Store.FindVote(ctx, strings.TrimSpace(cmd.ItemID), strings.TrimSpace(cmd.ParticipantID))
	if err != nil {
		return err
	}
	current := 0
	if found {
		current = existing.Count
	}
	next := current + cmd.Delta

	now := resolveNow(uc.Clock)
	switch {
	case next <= 0 && found:
		if err := uc.Store.DeleteVote(ctx, existing.VoteID); err != nil {
			return err
		}
	case next <= 0:
		// No record and a non-positive delta: nothing to do.
		return nil
	case found:
		existing.Count = next
		existing.UpdatedAt = now
		if err := uc.Store.UpsertVote(ctx, existing); err != nil {
			return err
		}
	default:
		voteID, err := uc.IDGen.NewID(ctx)
		if err != nil {
			return err
		}
		if err := uc.Store.UpsertVote(ctx, entities.Vote{
			VoteID:        voteID,
			ItemID:        strings.TrimSpace(cmd.ItemID),
			ParticipantID: strings.TrimSpace(cmd.ParticipantID),
			Count:         next,
			CreatedAt:     now,
			UpdatedAt:     now,
		}); err != nil {
			return err
		}
	}

	logger.Info("vote delta applied",
		"event", "board_vote_delta_applied",
		"module", "collaboration/board-sync-service",
		"layer", "application",
		"session_id", strings.TrimSpace(cmd.SessionID),
		"item_id", strings.TrimSpace(cmd.ItemID),
		"participant_id", strings.TrimSpace(cmd.ParticipantID),
		"delta", cmd.Delta,
		"count", max(next, 0),
	)
	return nil
}

// SetCount applies target − current as a single delta, reading current
// from the store so concurrent tabs cannot race on stale counts.
func (uc LedgerUseCase) SetCount(ctx context.Context, cmd SetVoteCommand) error {
	if strings.TrimSpace(cmd.SessionID) == "" ||
		strings.TrimSpace(cmd.ItemID) == "" ||
		strings.TrimSpace(cmd.ParticipantID) == "" {
		return domainerrors.ErrInvalidInput
	}
	existing, found, err := uc.Store.FindVote(ctx, strings.TrimSpace(cmd.ItemID), strings.TrimSpace(cmd.ParticipantID))
	if err != nil {
		return err
	}
	current := 0
	if found {
		current = existing.Count
	}
	// Nothing changed; the coordinator drops this without a broadcast,
	// matching the phase machine's same-phase no-op.
	if cmd.Target == current {
		return domainerrors.ErrVoteUnchanged
	}
	return uc.ApplyDelta(ctx, VoteDeltaCommand{
		SessionID:     cmd.SessionID,
		ItemID:        cmd.ItemID,
		ParticipantID: cmd.ParticipantID,
		Delta:         cmd.Target - current,
	})
}

// TotalForParticipant sums the participant's vote counts across every item
// in the session. Remaining budget is entities.VoteBudget minus this.
func (uc LedgerUseCase) TotalForParticipant(ctx context.Context, sessionID string, participantID string) (int, error) {
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
	return total, nil
}
