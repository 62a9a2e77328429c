package unit

import (
	"context"
	"errors"
	"testing"

	sessionservice "retroboard/contexts/collaboration/session-service"
	sessionerrors "retroboard/contexts/collaboration/session-service/domain/errors"
	sessionhttp "retroboard/contexts/collaboration/session-service/transport/http"
)

func TestSessionServiceCreateRetroSeedsColumns(t *testing.T) {
	module := sessionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	resp, err := module.Handler.CreateRetroHandler(ctx, sessionhttp.CreateRetroRequest{
		Title:   "Sprint 12",
		Tags:    "platform, backend",
		Creator: "alice",
	})
	if err != nil {
		t.Fatalf("create retro failed: %v", err)
	}
	retro := resp.Data.Retro
	if retro.Phase != "INPUT" {
		t.Fatalf("new retro must start in INPUT, got %s", retro.Phase)
	}
	if retro.RetroID == "" {
		t.Fatal("expected generated retro id")
	}

	columns := module.Store.Columns(retro.RetroID)
	if len(columns) != 3 {
		t.Fatalf("expected three seeded columns, got %d", len(columns))
	}
	wantTypes := []string{"went-well", "didnt-go-well", "improve"}
	for i, column := range columns {
		if column.Type != wantTypes[i] {
			t.Fatalf("column %d: expected type %s, got %s", i, wantTypes[i], column.Type)
		}
		if column.Position != i {
			t.Fatalf("column %d: expected position %d, got %d", i, i, column.Position)
		}
	}
}

func TestSessionServiceCreateRetroRequiresTitle(t *testing.T) {
	module := sessionservice.NewInMemoryModule(nil)

	_, err := module.Handler.CreateRetroHandler(context.Background(), sessionhttp.CreateRetroRequest{
		Title: "   ",
	})
	if !errors.Is(err, sessionerrors.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSessionServiceCreatorFallback(t *testing.T) {
	module := sessionservice.NewInMemoryModule(nil)

	resp, err := module.Handler.CreateRetroHandler(context.Background(), sessionhttp.CreateRetroRequest{
		Title: "Drive-by retro",
	})
	if err != nil {
		t.Fatalf("create retro failed: %v", err)
	}
	if resp.Data.Retro.Creator != "anonymous" {
		t.Fatalf("expected anonymous creator fallback, got %q", resp.Data.Retro.Creator)
	}
}

func TestSessionServiceHistoryNewestFirst(t *testing.T) {
	module := sessionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	titles := []string{"Sprint 10", "Sprint 11", "Sprint 12"}
	for _, title := range titles {
		if _, err := module.Handler.CreateRetroHandler(ctx, sessionhttp.CreateRetroRequest{
			Title: title, Creator: "alice",
		}); err != nil {
			t.Fatalf("create %s failed: %v", title, err)
		}
	}

	resp, err := module.Handler.ListRetrosHandler(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(resp.Data.Retros) != 3 {
		t.Fatalf("expected 3 retros, got %d", len(resp.Data.Retros))
	}
}

func TestSessionServiceTags(t *testing.T) {
	module := sessionservice.NewInMemoryModule(nil)
	ctx := context.Background()

	seeds := []string{"platform, backend", "backend", "backend, frontend", ""}
	for i, tags := range seeds {
		if _, err := module.Handler.CreateRetroHandler(ctx, sessionhttp.CreateRetroRequest{
			Title: "Sprint", Tags: tags, Creator: "alice",
		}); err != nil {
			t.Fatalf("create %d failed: %v", i, err)
		}
	}

	unique, err := module.Handler.TagsHandler(ctx)
	if err != nil {
		t.Fatalf("tags failed: %v", err)
	}
	want := []string{"backend", "frontend", "platform"}
	if len(unique.Data.Tags) != len(want) {
		t.Fatalf("expected %v, got %v", want, unique.Data.Tags)
	}
	for i := range want {
		if unique.Data.Tags[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, unique.Data.Tags)
		}
	}

	popular, err := module.Handler.PopularTagsHandler(ctx, 2)
	if err != nil {
		t.Fatalf("popular tags failed: %v", err)
	}
	if len(popular.Data.Tags) != 2 || popular.Data.Tags[0] != "backend" {
		t.Fatalf("expected backend first, got %v", popular.Data.Tags)
	}
}
