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

func phaseFixture(t *testing.T, phase entities.Phase) (commands.PhaseUseCase, *memory.Store, *memory.Roster) {
	t.Helper()
	store := seedBoard(t, phase)
	roster := memory.NewRoster()
	return commands.PhaseUseCase{Store: store, Presence: roster, Clock: store}, store, roster
}

func TestTransitionForwardResetsReadiness(t *testing.T) {
	phases, store, roster := phaseFixture(t, entities.PhaseInput)
	ctx := context.Background()

	if err := roster.Join(ctx, "retro-1", entities.Participant{ConnectionID: "conn-1", ParticipantID: "bob"}); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if _, err := roster.SetReady(ctx, "retro-1", "conn-1", true); err != nil {
		t.Fatalf("set ready failed: %v", err)
	}

	if err := phases.Transition(ctx, commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseVoting,
	}); err != nil {
		t.Fatalf("transition failed: %v", err)
	}

	session, err := store.GetSession(ctx, "retro-1")
	if err != nil {
		t.Fatalf("get session failed: %v", err)
	}
	if session.Phase != entities.PhaseVoting {
		t.Fatalf("expected VOTING, got %s", session.Phase)
	}
	if !session.PhaseStartTime.After(time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)) {
		t.Fatal("expected PhaseStartTime restamped on transition")
	}

	participants, _ := roster.Roster(ctx, "retro-1")
	if len(participants) != 1 || participants[0].Ready {
		t.Fatalf("expected readiness cleared, got %+v", participants)
	}
}

func TestTransitionSkippingPhasesAllowed(t *testing.T) {
	phases, store, _ := phaseFixture(t, entities.PhaseInput)

	if err := phases.Transition(context.Background(), commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseActions,
	}); err != nil {
		t.Fatalf("skip-ahead transition failed: %v", err)
	}
	session, _ := store.GetSession(context.Background(), "retro-1")
	if session.Phase != entities.PhaseActions {
		t.Fatalf("expected ACTIONS, got %s", session.Phase)
	}
}

func TestTransitionBackwardRejected(t *testing.T) {
	phases, _, _ := phaseFixture(t, entities.PhaseReview)

	err := phases.Transition(context.Background(), commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseInput,
	})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestTransitionSamePhaseIsNoOp(t *testing.T) {
	phases, _, _ := phaseFixture(t, entities.PhaseVoting)

	err := phases.Transition(context.Background(), commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseVoting,
	})
	if !errors.Is(err, domainerrors.ErrPhaseUnchanged) {
		t.Fatalf("expected ErrPhaseUnchanged, got %v", err)
	}
	if !domainerrors.Dropped(err) {
		t.Fatal("same-phase requests must drop silently")
	}
}

func TestTransitionClosedIsTerminal(t *testing.T) {
	phases, _, _ := phaseFixture(t, entities.PhaseClosed)

	err := phases.Transition(context.Background(), commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseInput,
	})
	if !errors.Is(err, domainerrors.ErrSessionClosed) {
		t.Fatalf("expected ErrSessionClosed, got %v", err)
	}
}

func TestTransitionExpectedPhaseMismatch(t *testing.T) {
	phases, store, _ := phaseFixture(t, entities.PhaseInput)
	ctx := context.Background()

	// First owner connection advances the session.
	if err := phases.Transition(ctx, commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseVoting, Expected: entities.PhaseInput,
	}); err != nil {
		t.Fatalf("first transition failed: %v", err)
	}

	// Second owner connection raced on the same timer and loses.
	err := phases.Transition(ctx, commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseReview, Expected: entities.PhaseInput,
	})
	if !errors.Is(err, domainerrors.ErrPhaseConflict) {
		t.Fatalf("expected ErrPhaseConflict, got %v", err)
	}
	session, _ := store.GetSession(ctx, "retro-1")
	if session.Phase != entities.PhaseVoting {
		t.Fatalf("expected phase to stay VOTING, got %s", session.Phase)
	}
}

func TestTransitionCreatorRestriction(t *testing.T) {
	phases, _, _ := phaseFixture(t, entities.PhaseInput)

	err := phases.Transition(context.Background(), commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseVoting, RequestedBy: "mallory",
	})
	if !errors.Is(err, domainerrors.ErrNotCreator) {
		t.Fatalf("expected ErrNotCreator, got %v", err)
	}

	// Identities are opaque ids; a case variant is a different identity.
	err = phases.Transition(context.Background(), commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseVoting, RequestedBy: "ALICE",
	})
	if !errors.Is(err, domainerrors.ErrNotCreator) {
		t.Fatalf("expected ErrNotCreator for case variant, got %v", err)
	}

	if err := phases.Transition(context.Background(), commands.TransitionCommand{
		SessionID: "retro-1", Target: entities.PhaseVoting, RequestedBy: "alice",
	}); err != nil {
		t.Fatalf("creator transition failed: %v", err)
	}
}

func TestExtendTimer(t *testing.T) {
	phases, store, _ := phaseFixture(t, entities.PhaseInput)
	ctx := context.Background()

	before, _ := store.GetSession(ctx, "retro-1")
	if err := phases.ExtendTimer(ctx, commands.ExtendTimerCommand{SessionID: "retro-1"}); err != nil {
		t.Fatalf("extend failed: %v", err)
	}
	after, _ := store.GetSession(ctx, "retro-1")
	if got := after.PhaseStartTime.Sub(before.PhaseStartTime); got != entities.TimerExtension {
		t.Fatalf("expected start time pushed by %s, got %s", entities.TimerExtension, got)
	}
	if after.Phase != before.Phase {
		t.Fatalf("extend must not change phase, got %s", after.Phase)
	}
}
