package coordinator

import (
	"context"
	"log/slog"
	"sync"

	application "retroboard/contexts/collaboration/board-sync-service/application"
	"retroboard/contexts/collaboration/board-sync-service/application/commands"
	"retroboard/contexts/collaboration/board-sync-service/application/queries"
	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
	"retroboard/contexts/collaboration/board-sync-service/ports"
)

// Coordinator is the per-session serialization point. Every mutating
// operation for a session id runs one at a time, in arrival order, store
// round-trips and broadcast included, so read-modify-write paths on vote
// counts and item orders never interleave. Operations on different
// sessions proceed in parallel.
//
// After each applied mutation the coordinator reads the canonical snapshot
// back from the store and publishes it to every subscriber of the session,
// so broadcast order always matches apply order. Dropped events (stale,
// misaddressed, closed-session) publish nothing, and a store failure
// leaves the session at its last successfully broadcast state.
type Coordinator struct {
	Presence  commands.PresenceUseCase
	Ledger    commands.LedgerUseCase
	Ordering  commands.OrderingUseCase
	Board     commands.BoardUseCase
	Phases    commands.PhaseUseCase
	Snapshots queries.SnapshotUseCase
	Store     ports.BoardStore
	Broadcast ports.Broadcaster
	Logger    *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Outbound event names of the broadcast channel contract.
const (
	EventSessionUpdated = "session-updated"
	EventRosterUpdated  = "roster-updated"
)

func (c *Coordinator) lockSession(sessionID string) func() {
	c.mu.Lock()
	if c.locks == nil {
		c.locks = make(map[string]*sync.Mutex)
	}
	lock, ok := c.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[sessionID] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// run executes one serialized operation for the session. Domain errors in
// the dropped taxonomy are swallowed after logging; everything else is a
// store failure surfaced to the caller with no broadcast sent.
func (c *Coordinator) run(ctx context.Context, sessionID string, op string, fn func(context.Context) error, after func(context.Context) error) error {
	logger := application.ResolveLogger(c.Logger)
	unlock := c.lockSession(sessionID)
	defer unlock()

	if err := fn(ctx); err != nil {
		if domainerrors.Dropped(err) {
			logger.Debug("board event dropped",
				"event", "coordinator_event_dropped",
				"module", "collaboration/board-sync-service",
				"layer", "application",
				"op", op,
				"session_id", sessionID,
				"reason", err.Error(),
			)
			return nil
		}
		logger.Error("board event failed",
			"event", "coordinator_event_failed",
			"module", "collaboration/board-sync-service",
			"layer", "application",
			"op", op,
			"session_id", sessionID,
			"error", err.Error(),
		)
		return err
	}
	return after(ctx)
}

func (c *Coordinator) publishBoard(ctx context.Context, sessionID string) error {
	snapshot, err := c.Snapshots.Snapshot(ctx, sessionID)
	if err != nil {
		return err
	}
	return c.Broadcast.Publish(ctx, sessionID, EventSessionUpdated, snapshot)
}

func (c *Coordinator) publishRoster(ctx context.Context, sessionID string) error {
	roster, err := c.Presence.Registry.Roster(ctx, sessionID)
	if err != nil {
		return err
	}
	return c.Broadcast.Publish(ctx, sessionID, EventRosterUpdated, roster)
}

func (c *Coordinator) Join(ctx context.Context, cmd commands.JoinCommand) error {
	return c.run(ctx, cmd.SessionID, "join", func(ctx context.Context) error {
		return c.Presence.Join(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishRoster(ctx, cmd.SessionID)
	})
}

func (c *Coordinator) SetReady(ctx context.Context, cmd commands.SetReadyCommand) error {
	return c.run(ctx, cmd.SessionID, "set-ready", func(ctx context.Context) error {
		return c.Presence.SetReady(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishRoster(ctx, cmd.SessionID)
	})
}

// Disconnect removes the connection from every session it joined. Each
// affected session broadcasts its updated roster unless it has closed; in
// flight operations the connection triggered still complete, the departed
// connection just never sees them.
func (c *Coordinator) Disconnect(ctx context.Context, connectionID string) error {
	logger := application.ResolveLogger(c.Logger)
	affected, err := c.Presence.Disconnect(ctx, connectionID)
	if err != nil {
		if domainerrors.Dropped(err) {
			return nil
		}
		return err
	}
	for _, sessionID := range affected {
		err := c.run(ctx, sessionID, "disconnect", func(ctx context.Context) error {
			session, err := c.Store.GetSession(ctx, sessionID)
			if err != nil {
				return err
			}
			if session.Phase == entities.PhaseClosed {
				return domainerrors.ErrSessionClosed
			}
			return nil
		}, func(ctx context.Context) error {
			return c.publishRoster(ctx, sessionID)
		})
		if err != nil {
			logger.Warn("roster broadcast skipped on disconnect",
				"event", "coordinator_disconnect_broadcast_skipped",
				"module", "collaboration/board-sync-service",
				"layer", "application",
				"session_id", sessionID,
				"connection_id", connectionID,
				"error", err.Error(),
			)
		}
	}
	return nil
}

func (c *Coordinator) AddItem(ctx context.Context, cmd commands.AddItemCommand) error {
	return c.run(ctx, cmd.SessionID, "add-item", func(ctx context.Context) error {
		return c.Board.AddItem(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishBoard(ctx, cmd.SessionID)
	})
}

func (c *Coordinator) ApplyVoteDelta(ctx context.Context, cmd commands.VoteDeltaCommand) error {
	return c.run(ctx, cmd.SessionID, "vote-delta", func(ctx context.Context) error {
		return c.Ledger.ApplyDelta(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishBoard(ctx, cmd.SessionID)
	})
}

func (c *Coordinator) SetVoteCount(ctx context.Context, cmd commands.SetVoteCommand) error {
	return c.run(ctx, cmd.SessionID, "set-vote", func(ctx context.Context) error {
		return c.Ledger.SetCount(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishBoard(ctx, cmd.SessionID)
	})
}

func (c *Coordinator) MoveItem(ctx context.Context, cmd commands.MoveItemCommand) error {
	return c.run(ctx, cmd.SessionID, "move-item", func(ctx context.Context) error {
		return c.Ordering.MoveItem(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishBoard(ctx, cmd.SessionID)
	})
}

func (c *Coordinator) UpdateItemSummary(ctx context.Context, cmd commands.UpdateSummaryCommand) error {
	return c.run(ctx, cmd.SessionID, "update-item-summary", func(ctx context.Context) error {
		return c.Board.UpdateItemSummary(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishBoard(ctx, cmd.SessionID)
	})
}

func (c *Coordinator) AddActionItem(ctx context.Context, cmd commands.AddActionCommand) error {
	return c.run(ctx, cmd.SessionID, "add-action-item", func(ctx context.Context) error {
		return c.Board.AddActionItem(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishBoard(ctx, cmd.SessionID)
	})
}

func (c *Coordinator) ToggleActionItem(ctx context.Context, cmd commands.ToggleActionCommand) error {
	return c.run(ctx, cmd.SessionID, "toggle-action-item", func(ctx context.Context) error {
		return c.Board.ToggleActionItem(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishBoard(ctx, cmd.SessionID)
	})
}

func (c *Coordinator) ToggleReaction(ctx context.Context, cmd commands.ToggleReactionCommand) error {
	return c.run(ctx, cmd.SessionID, "toggle-reaction", func(ctx context.Context) error {
		return c.Board.ToggleReaction(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishBoard(ctx, cmd.SessionID)
	})
}

// SetPhase applies a phase transition and, when effective, broadcasts the
// board snapshot first and the readiness-reset roster second.
func (c *Coordinator) SetPhase(ctx context.Context, cmd commands.TransitionCommand) error {
	return c.run(ctx, cmd.SessionID, "set-status", func(ctx context.Context) error {
		return c.Phases.Transition(ctx, cmd)
	}, func(ctx context.Context) error {
		if err := c.publishBoard(ctx, cmd.SessionID); err != nil {
			return err
		}
		return c.publishRoster(ctx, cmd.SessionID)
	})
}

func (c *Coordinator) ExtendTimer(ctx context.Context, cmd commands.ExtendTimerCommand) error {
	return c.run(ctx, cmd.SessionID, "extend-timer", func(ctx context.Context) error {
		return c.Phases.ExtendTimer(ctx, cmd)
	}, func(ctx context.Context) error {
		return c.publishBoard(ctx, cmd.SessionID)
	})
}

// Snapshot serves read-only canonical state through the same session lock
// so a reader never observes a state older than the latest broadcast.
func (c *Coordinator) Snapshot(ctx context.Context, sessionID string) (entities.Snapshot, error) {
	unlock := c.lockSession(sessionID)
	defer unlock()
	return c.Snapshots.Snapshot(ctx, sessionID)
}

func (c *Coordinator) RemainingBudget(ctx context.Context, sessionID string, participantID string) (int, error) {
	unlock := c.lockSession(sessionID)
	defer unlock()
	return c.Snapshots.RemainingBudget(ctx, sessionID, participantID)
}
