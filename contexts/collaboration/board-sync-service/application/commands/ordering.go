package commands

import (
	"context"
	"log/slog"
	"strings"

	application "retroboard/contexts/collaboration/board-sync-service/application"
	domainerrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
	"retroboard/contexts/collaboration/board-sync-service/ports"
)

// MoveItemCommand places an item at newIndex inside the target column,
// moving it across columns when needed. Column-level drop targets pass an
// index past the end; clamping turns that into an append.
type MoveItemCommand struct {
	SessionID      string
	ItemID         string
	TargetColumnID string
	NewIndex       int
}

// OrderingUseCase keeps a dense zero-based total order of items per
// column. After every successful move the orders in each affected column
// are a contiguous permutation of [0, n-1].
type OrderingUseCase struct {
	Store  ports.BoardStore
	Logger *slog.Logger
}

func (uc OrderingUseCase) MoveItem(ctx context.Context, cmd MoveItemCommand) error {
	logger := application.ResolveLogger(uc.Logger)
	if strings.TrimSpace(cmd.SessionID) == "" ||
		strings.TrimSpace(cmd.ItemID) == "" ||
		strings.TrimSpace(cmd.TargetColumnID) == "" {
		return domainerrors.ErrInvalidInput
	}
	if _, err := requireOpenSession(ctx, uc.Store, cmd.SessionID); err != nil {
		return err
	}

	item, err := uc.Store.GetItemByID(ctx, strings.TrimSpace(cmd.ItemID))
	if err != nil {
		return err
	}
	column, err := uc.Store.GetColumn(ctx, strings.TrimSpace(cmd.TargetColumnID))
	if err != nil {
		return err
	}
	if column.SessionID != strings.TrimSpace(cmd.SessionID) {
		return domainerrors.ErrColumnNotFound
	}

	sourceColumnID := item.ColumnID
	if sourceColumnID != column.ColumnID {
		if err := uc.Store.UpdateItemColumn(ctx, item.ItemID, column.ColumnID); err != nil {
			return err
		}
	}

	siblings, err := uc.Store.ListItemsByColumn(ctx, column.ColumnID)
	if err != nil {
		return err
	}
	others := siblings[:0:0]
	for _, sibling := range siblings {
		if sibling.ItemID != item.ItemID {
			others = append(others, sibling)
		}
	}

	index := cmd.NewIndex
	if index < 0 {
		index = 0
	}
	if index > len(others) {
		index = len(others)
	}

	batch := make([]ports.ItemOrder, 0, len(others)+1)
	position := 0
	for i := 0; i <= len(others); i++ {
		if i == index {
			batch = append(batch, ports.ItemOrder{ItemID: item.ItemID, Order: position})
			position++
		}
		if i < len(others) {
			batch = append(batch, ports.ItemOrder{ItemID: others[i].ItemID, Order: position})
			position++
		}
	}
	// A cross-column move re-densifies the vacated column in the same
	// atomic batch.
	if sourceColumnID != column.ColumnID {
		remaining, err := uc.Store.ListItemsByColumn(ctx, sourceColumnID)
		if err != nil {
			return err
		}
		for i, sibling := range remaining {
			batch = append(batch, ports.ItemOrder{ItemID: sibling.ItemID, Order: i})
		}
	}
	if err := uc.Store.UpdateItemOrders(ctx, batch); err != nil {
		return err
	}

	logger.Info("item moved",
		"event", "board_item_moved",
		"module", "collaboration/board-sync-service",
		"layer", "application",
		"session_id", strings.TrimSpace(cmd.SessionID),
		"item_id", item.ItemID,
		"target_column_id", column.ColumnID,
		"index", index,
	)
	return nil
}
