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

type AddItemCommand struct {
	SessionID  string
	ColumnID   string
	Content    string
	AuthorID   string
	AuthorName string
}

type UpdateSummaryCommand struct {
	SessionID string
	ItemID    string
	Summary   string
}

type AddActionCommand struct {
	SessionID string
	Content   string
}

type ToggleActionCommand struct {
	SessionID   string
	ActionID    string
	RequestedBy string
}

type ToggleReactionCommand struct {
	SessionID     string
	ItemID        string
	ParticipantID string
	Emoji         string
}

// BoardUseCase owns item, summary, reaction and action-item mutations.
// Vote counts live in LedgerUseCase and placement in OrderingUseCase.
type BoardUseCase struct {
	Store  ports.BoardStore
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// AddItem appends a new item at the end of the column. Missing author
// fields fall back to the anonymous identity the way anonymous drop-ins
// are recorded.
func (uc BoardUseCase) AddItem(ctx context.Context, cmd AddItemCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.SessionID) == "" ||
		strings.TrimSpace(cmd.ColumnID) == "" ||
		strings.TrimSpace(cmd.Content) == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, err := requireOpenSession(ctx, uc.Store, cmd.SessionID); err != nil {
		return err
	}
	column, err := uc.Store.GetColumn(ctx, strings.TrimSpace(cmd.ColumnID))
	if err != nil {
		return err
	}
	if column.SessionID != strings.TrimSpace(cmd.SessionID) {
		return domainerrors.ErrColumnNotFound
	}

	siblings, err := uc.Store.ListItemsByColumn(ctx, column.ColumnID)
	if err != nil {
		return err
	}
	nextOrder := 0
	for _, sibling := range siblings {
		if sibling.Order >= nextOrder {
			nextOrder = sibling.Order + 1
		}
	}

	authorID := strings.TrimSpace(cmd.AuthorID)
	if authorID == "" {
		authorID = "anonymous"
	}
	authorName := strings.TrimSpace(cmd.AuthorName)
	if authorName == "" {
		authorName = "Anonymous"
	}

	itemID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	now := resolveNow(uc.Clock)
	if err := uc.Store.CreateItem(ctx, entities.Item{
		ItemID:     itemID,
		ColumnID:   column.ColumnID,
		Content:    strings.TrimSpace(cmd.Content),
		AuthorID:   authorID,
		AuthorName: authorName,
		Order:      nextOrder,
		CreatedAt:  now,
		UpdatedAt:  now,
	}); err != nil {
		return err
	}

	logger.Info("item added",
		"event", "board_item_added",
		"module", "collaboration/board-sync-service",
		"layer", "application",
		"session_id", strings.TrimSpace(cmd.SessionID),
		"column_id", column.ColumnID,
		"item_id", itemID,
		"order", nextOrder,
	)
	return nil
}

func (uc BoardUseCase) UpdateItemSummary(ctx context.Context, cmd UpdateSummaryCommand) error {
	if strings.TrimSpace(cmd.SessionID) == "" || strings.TrimSpace(cmd.ItemID) == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, err := requireOpenSession(ctx, uc.Store, cmd.SessionID); err != nil {
		return err
	}
	if _, err := uc.Store.GetItemByID(ctx, strings.TrimSpace(cmd.ItemID)); err != nil {
		return err
	}
	return uc.Store.UpdateItemSummary(ctx, strings.TrimSpace(cmd.ItemID), cmd.Summary)
}

func (uc BoardUseCase) AddActionItem(ctx context.Context, cmd AddActionCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.SessionID) == "" || strings.TrimSpace(cmd.Content) == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, err := requireOpenSession(ctx, uc.Store, cmd.SessionID); err != nil {
		return err
	}
	actionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	now := resolveNow(uc.Clock)
	if err := uc.Store.CreateActionItem(ctx, entities.ActionItem{
		ActionID:  actionID,
		SessionID: strings.TrimSpace(cmd.SessionID),
		Content:   strings.TrimSpace(cmd.Content),
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return err
	}
	logger.Info("action item added",
		"event", "board_action_added",
		"module", "collaboration/board-sync-service",
		"layer", "application",
		"session_id", strings.TrimSpace(cmd.SessionID),
		"action_id", actionID,
	)
	return nil
}

// ToggleActionItem flips the completed flag. This is the one mutation
// still allowed after the session closes, and only for the creator.
func (uc BoardUseCase) ToggleActionItem(ctx context.Context, cmd ToggleActionCommand) error {
	if strings.TrimSpace(cmd.SessionID) == "" || strings.TrimSpace(cmd.ActionID) == "" {
		return domainerrors.ErrInvalidInput
	}
	session, err := uc.Store.GetSession(ctx, strings.TrimSpace(cmd.SessionID))
	if err != nil {
		return err
	}
	if err := requireCreator(session, cmd.RequestedBy); err != nil {
		return err
	}
	_, err = uc.Store.ToggleActionItem(ctx, strings.TrimSpace(cmd.ActionID), resolveNow(uc.Clock))
	return err
}

// ToggleReaction deletes the (item, participant, emoji) marker when it
// exists and creates it otherwise.
func (uc BoardUseCase) ToggleReaction(ctx context.Context, cmd ToggleReactionCommand) error {
	if strings.TrimSpace(cmd.SessionID) == "" ||
		strings.TrimSpace(cmd.ItemID) == "" ||
		strings.TrimSpace(cmd.ParticipantID) == "" ||
		strings.TrimSpace(cmd.Emoji) == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, err := requireOpenSession(ctx, uc.Store, cmd.SessionID); err != nil {
		return err
	}
	if _, err := uc.Store.GetItemByID(ctx, strings.TrimSpace(cmd.ItemID)); err != nil {
		return err
	}

	existing, found, err := uc.Store.FindReaction(ctx,
		strings.TrimSpace(cmd.ItemID),
		strings.TrimSpace(cmd.ParticipantID),
		strings.TrimSpace(cmd.Emoji),
	)
	if err != nil {
		return err
	}
	if found {
		return uc.Store.DeleteReaction(ctx, existing.ReactionID)
	}

	reactionID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return err
	}
	return uc.Store.CreateReaction(ctx, entities.Reaction{
		ReactionID:    reactionID,
		ItemID:        strings.TrimSpace(cmd.ItemID),
		ParticipantID: strings.TrimSpace(cmd.ParticipantID),
		Emoji:         strings.TrimSpace(cmd.Emoji),
		CreatedAt:     resolveNow(uc.Clock),
	})
}
