package ports

import (
	"context"
	"time"

	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
)

// ItemOrder is one row of a batched order rewrite. The whole batch is
// applied atomically or not at all.
type ItemOrder struct {
	ItemID string
	Order  int
}

// BoardStore is the narrow contract to the external transactional record
// store. Single-entity calls are assumed atomic; UpdateItemOrders must be
// atomic as a unit.
type BoardStore interface {
	GetSession(ctx context.Context, sessionID string) (entities.Session, error)
	UpdateSessionPhase(ctx context.Context, sessionID string, phase entities.Phase, startedAt time.Time) error
	UpdateSessionPhaseStart(ctx context.Context, sessionID string, startedAt time.Time) error

	GetColumn(ctx context.Context, columnID string) (entities.Column, error)
	ListItemsByColumn(ctx context.Context, columnID string) ([]entities.Item, error)
	GetItemByID(ctx context.Context, itemID string) (entities.Item, error)
	CreateItem(ctx context.Context, item entities.Item) error
	UpdateItemColumn(ctx context.Context, itemID string, columnID string) error
	UpdateItemSummary(ctx context.Context, itemID string, summary string) error
	UpdateItemOrders(ctx context.Context, batch []ItemOrder) error

	FindVote(ctx context.Context, itemID string, participantID string) (entities.Vote, bool, error)
	UpsertVote(ctx context.Context, vote entities.Vote) error
	DeleteVote(ctx context.Context, voteID string) error
	ListVotesBySession(ctx context.Context, sessionID string) ([]entities.Vote, error)

	FindReaction(ctx context.Context, itemID string, participantID string, emoji string) (entities.Reaction, bool, error)
	CreateReaction(ctx context.Context, reaction entities.Reaction) error
	DeleteReaction(ctx context.Context, reactionID string) error

	CreateActionItem(ctx context.Context, action entities.ActionItem) error
	ToggleActionItem(ctx context.Context, actionID string, now time.Time) (entities.ActionItem, error)

	GetSessionSnapshot(ctx context.Context, sessionID string) (entities.Snapshot, error)
}

// Broadcaster fans an event out to every connection currently subscribed
// to the session. Delivery is at-least-once and in publish order per
// session.
type Broadcaster interface {
	Publish(ctx context.Context, sessionID string, eventName string, payload any) error
}

// PresenceRegistry tracks connection-scoped participants per session. The
// default implementation is process-local memory; the port exists so a
// shared store can replace it for multi-process deployments.
type PresenceRegistry interface {
	Join(ctx context.Context, sessionID string, participant entities.Participant) error
	SetReady(ctx context.Context, sessionID string, connectionID string, ready bool) (bool, error)
	Remove(ctx context.Context, connectionID string) ([]string, error)
	Roster(ctx context.Context, sessionID string) ([]entities.Participant, error)
	ResetReady(ctx context.Context, sessionID string) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
