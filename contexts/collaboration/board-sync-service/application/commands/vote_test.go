package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"retroboard/contexts/collaboration/board-sync-service/adapters/memory"
	"retroboard/contexts/collaboration/board-sync-service/application/commands"
	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
)

func seedBoard(t *testing.T, phase entities.Phase) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	store.SeedSession(entities.Session{
		SessionID:      "retro-1",
		Title:          "Sprint 12",
		Creator:        "alice",
		Phase:          phase,
		PhaseStartTime: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	})
	store.SeedColumn(entities.Column{ColumnID: "col-1", SessionID: "retro-1", Title: "What went well", Type: entities.ColumnWentWell, Position: 0})
	store.SeedItem(entities.Item{ItemID: "item-1", ColumnID: "col-1", Content: "CI got faster", Order: 0})
	return store
}

func ledgerFor(store *memory.Store) commands.LedgerUseCase {
	return commands.LedgerUseCase{Store: store, Clock: store, IDGen: store}
}

func TestLedgerDeltaCreatesAndRemoves(t *testing.T) {
	store := seedBoard(t, entities.PhaseVoting)
	ledger := ledgerFor(store)
	ctx := context.Background()

	if err := ledger.ApplyDelta(ctx, commands.VoteDeltaCommand{
		SessionID: "retro-1", ItemID: "item-1", ParticipantID: "bob", Delta: 3,
	}); err != nil {
		t.Fatalf("apply +3 failed: %v", err)
	}
	vote, found, err := store.FindVote(ctx, "item-1", "bob")
	if err != nil || !found {
		t.Fatalf("expected vote record, found=%v err=%v", found, err)
	}
	if vote.Count != 3 {
		t.Fatalf("expected count 3, got %d", vote.Count)
	}

	if err := ledger.ApplyDelta(ctx, commands.VoteDeltaCommand{
		SessionID: "retro-1", ItemID: "item-1", ParticipantID: "bob", Delta: -3,
	}); err != nil {
		t.Fatalf("apply -3 failed: %v", err)
	}
	if _, found, _ := store.FindVote(ctx, "item-1", "bob"); found {
		t.Fatal("expected vote record removed when count reaches zero")
	}
}

func TestLedgerDeltaSequence(t *testing.T) {
	store := seedBoard(t, entities.PhaseVoting)
	ledger := ledgerFor(store)
	ctx := context.Background()

	steps := []struct {
		delta     int
		wantCount int
		wantFound bool
	}{
		{delta: 4, wantCount: 4, wantFound: true},
		{delta: -1, wantCount: 3, wantFound: true},
		{delta: -5, wantFound: false},
		{delta: -2, wantFound: false},
	}
	for _, step := range steps {
		if err := ledger.ApplyDelta(ctx, commands.VoteDeltaCommand{
			SessionID: "retro-1", ItemID: "item-1", ParticipantID: "bob", Delta: step.delta,
		}); err != nil {
			t.Fatalf("delta %d failed: %v", step.delta, err)
		}
		vote, found, _ := store.FindVote(ctx, "item-1", "bob")
		if found != step.wantFound {
			t.Fatalf("after delta %d: found=%v, want %v", step.delta, found, step.wantFound)
		}
		if found && vote.Count != step.wantCount {
			t.Fatalf("after delta %d: count=%d, want %d", step.delta, vote.Count, step.wantCount)
		}
	}
}

func TestLedgerSetCount(t *testing.T) {
	store := seedBoard(t, entities.PhaseVoting)
	ledger := ledgerFor(store)
	ctx := context.Background()

	if err := ledger.SetCount(ctx, commands.SetVoteCommand{
		SessionID: "retro-1", ItemID: "item-1", ParticipantID: "bob", Target: 5,
	}); err != nil {
		t.Fatalf("set 5 failed: %v", err)
	}
	vote, found, _ := store.FindVote(ctx, "item-1", "bob")
	if !found || vote.Count != 5 {
		t.Fatalf("expected count 5, found=%v count=%d", found, vote.Count)
	}

	// Setting the same target again is a dropped no-op.
	err := ledger.SetCount(ctx, commands.SetVoteCommand{
		SessionID: "retro-1", ItemID: "item-1", ParticipantID: "bob", Target: 5,
	})
	if !errors.Is(err, domainerrors.ErrVoteUnchanged) {
		t.Fatalf("expected ErrVoteUnchanged, got %v", err)
	}
	if !domainerrors.Dropped(err) {
		t.Fatal("unchanged set-count must be in the dropped taxonomy")
	}

	if err := ledger.SetCount(ctx, commands.SetVoteCommand{
		SessionID: "retro-1", ItemID: "item-1", ParticipantID: "bob", Target: 0,
	}); err != nil {
		t.Fatalf("set 0 failed: %v", err)
	}
	if _, found, _ := store.FindVote(ctx, "item-1", "bob"); found {
		t.Fatal("expected record removed when target is zero")
	}
}

func TestLedgerClosedSessionDropped(t *testing.T) {
	store := seedBoard(t, entities.PhaseClosed)
	ledger := ledgerFor(store)

	err := ledger.ApplyDelta(context.Background(), commands.VoteDeltaCommand{
		SessionID: "retro-1", ItemID: "item-1", ParticipantID: "bob", Delta: 1,
	})
	if !errors.Is(err, domainerrors.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
	if !domainerrors.Dropped(err) {
		t.Fatal("closed-session votes must be in the dropped taxonomy")
	}
}

func TestLedgerTotalForParticipant(t *testing.T) {
	store := seedBoard(t, entities.PhaseVoting)
	store.SeedItem(entities.Item{ItemID: "item-2", ColumnID: "col-1", Content: "Deploys broke twice", Order: 1})
	ledger := ledgerFor(store)
	ctx := context.Background()

	for _, cmd := range []commands.VoteDeltaCommand{
		{SessionID: "retro-1", ItemID: "item-1", ParticipantID: "bob", Delta: 4},
		{SessionID: "retro-1", ItemID: "item-2", ParticipantID: "bob", Delta: 2},
		{SessionID: "retro-1", ItemID: "item-2", ParticipantID: "carol", Delta: 7},
	} {
		if err := ledger.ApplyDelta(ctx, cmd); err != nil {
			t.Fatalf("seed delta failed: %v", err)
		}
	}

	total, err := ledger.TotalForParticipant(ctx, "retro-1", "bob")
	if err != nil {
		t.Fatalf("total failed: %v", err)
	}
	if total != 6 {
		t.Fatalf("expected total 6 for bob, got %d", total)
	}
}
