package commands_test

import (
	"context"
	"testing"

	"retroboard/contexts/collaboration/board-sync-service/adapters/memory"
	"retroboard/contexts/collaboration/board-sync-service/application/commands"
	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
)

func seedOrderedColumn(t *testing.T) *memory.Store {
	t.Helper()
	store := seedBoard(t, entities.PhaseInput)
	store.SeedItem(entities.Item{ItemID: "item-2", ColumnID: "col-1", Content: "b", Order: 1})
	store.SeedItem(entities.Item{ItemID: "item-3", ColumnID: "col-1", Content: "c", Order: 2})
	store.SeedColumn(entities.Column{ColumnID: "col-2", SessionID: "retro-1", Title: "What didn't go well", Type: entities.ColumnDidntGoWell, Position: 1})
	return store
}

func columnOrder(t *testing.T, store *memory.Store, columnID string) []string {
	t.Helper()
	items, err := store.ListItemsByColumn(context.Background(), columnID)
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	ids := make([]string, 0, len(items))
	for i, item := range items {
		if item.Order != i {
			t.Fatalf("column %s is not densely ordered: item %s has order %d at position %d", columnID, item.ItemID, item.Order, i)
		}
		ids = append(ids, item.ItemID)
	}
	return ids
}

func TestMoveItemWithinColumn(t *testing.T) {
	store := seedOrderedColumn(t)
	ordering := commands.OrderingUseCase{Store: store}

	err := ordering.MoveItem(context.Background(), commands.MoveItemCommand{
		SessionID: "retro-1", ItemID: "item-1", TargetColumnID: "col-1", NewIndex: 2,
	})
	if err != nil {
		t.Fatalf("move failed: %v", err)
	}

	got := columnOrder(t, store, "col-1")
	want := []string{"item-2", "item-3", "item-1"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, got)
		}
	}
}

func TestMoveItemAcrossColumns(t *testing.T) {
	store := seedOrderedColumn(t)
	store.SeedItem(entities.Item{ItemID: "item-4", ColumnID: "col-2", Content: "d", Order: 0})
	ordering := commands.OrderingUseCase{Store: store}

	err := ordering.MoveItem(context.Background(), commands.MoveItemCommand{
		SessionID: "retro-1", ItemID: "item-2", TargetColumnID: "col-2", NewIndex: 0,
	})
	if err != nil {
		t.Fatalf("cross-column move failed: %v", err)
	}

	source := columnOrder(t, store, "col-1")
	if len(source) != 2 || source[0] != "item-1" || source[1] != "item-3" {
		t.Fatalf("unexpected source column order: %v", source)
	}
	target := columnOrder(t, store, "col-2")
	if len(target) != 2 || target[0] != "item-2" || target[1] != "item-4" {
		t.Fatalf("unexpected target column order: %v", target)
	}
}

func TestMoveItemClampsIndex(t *testing.T) {
	store := seedOrderedColumn(t)
	ordering := commands.OrderingUseCase{Store: store}
	ctx := context.Background()

	// Far past the end appends.
	if err := ordering.MoveItem(ctx, commands.MoveItemCommand{
		SessionID: "retro-1", ItemID: "item-1", TargetColumnID: "col-1", NewIndex: 99,
	}); err != nil {
		t.Fatalf("move with large index failed: %v", err)
	}
	got := columnOrder(t, store, "col-1")
	if got[len(got)-1] != "item-1" {
		t.Fatalf("expected item-1 appended, got %v", got)
	}

	// Negative index prepends.
	if err := ordering.MoveItem(ctx, commands.MoveItemCommand{
		SessionID: "retro-1", ItemID: "item-3", TargetColumnID: "col-1", NewIndex: -5,
	}); err != nil {
		t.Fatalf("move with negative index failed: %v", err)
	}
	got = columnOrder(t, store, "col-1")
	if got[0] != "item-3" {
		t.Fatalf("expected item-3 first, got %v", got)
	}
}
