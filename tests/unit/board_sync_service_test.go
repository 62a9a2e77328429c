package unit

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	boardsync "retroboard/contexts/collaboration/board-sync-service"
	"retroboard/contexts/collaboration/board-sync-service/adapters/memory"
	"retroboard/contexts/collaboration/board-sync-service/application/coordinator"
	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	gatewaytransport "retroboard/contexts/collaboration/board-sync-service/transport/gateway"
)

func seedBoardModule(t *testing.T, phase entities.Phase, anonymous bool) boardsync.Module {
	t.Helper()
	module := boardsync.NewInMemoryModule(nil)
	module.Store.SeedSession(entities.Session{
		SessionID:      "retro-1",
		Title:          "Sprint 12",
		Creator:        "alice",
		Phase:          phase,
		Anonymous:      anonymous,
		PhaseStartTime: time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
		CreatedAt:      time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC),
	})
	module.Store.SeedColumn(entities.Column{ColumnID: "col-1", SessionID: "retro-1", Title: "What went well", Type: entities.ColumnWentWell, Position: 0})
	module.Store.SeedColumn(entities.Column{ColumnID: "col-2", SessionID: "retro-1", Title: "What didn't go well", Type: entities.ColumnDidntGoWell, Position: 1})
	return module
}

func dispatch(t *testing.T, module boardsync.Module, connectionID string, event string, payload string) {
	t.Helper()
	if err := module.Handler.HandleEvent(context.Background(), connectionID, event, []byte(payload)); err != nil {
		t.Fatalf("event %s failed: %v", event, err)
	}
}

func lastSnapshot(t *testing.T, module boardsync.Module) gatewaytransport.SnapshotView {
	t.Helper()
	records := module.Broadcast.RecordsFor("retro-1")
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].EventName == coordinator.EventSessionUpdated {
			view, ok := records[i].Payload.(gatewaytransport.SnapshotView)
			if !ok {
				t.Fatalf("session-updated payload is %T, want SnapshotView", records[i].Payload)
			}
			return view
		}
	}
	t.Fatal("no session-updated broadcast recorded")
	return gatewaytransport.SnapshotView{}
}

func TestBoardSyncJoinBroadcastsRoster(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseInput, false)

	dispatch(t, module, "conn-1", gatewaytransport.EventJoin,
		`{"session_id":"retro-1","participant_id":"bob","name":"Bob"}`)

	records := module.Broadcast.RecordsFor("retro-1")
	if len(records) != 1 || records[0].EventName != coordinator.EventRosterUpdated {
		t.Fatalf("expected one roster-updated broadcast, got %+v", records)
	}
	roster, ok := records[0].Payload.(gatewaytransport.RosterView)
	if !ok {
		t.Fatalf("roster payload is %T", records[0].Payload)
	}
	if len(roster.Participants) != 1 || roster.Participants[0].ParticipantID != "bob" || roster.Participants[0].Ready {
		t.Fatalf("unexpected roster: %+v", roster.Participants)
	}
}

func TestBoardSyncJoinClosedSessionSilent(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseClosed, false)

	dispatch(t, module, "conn-1", gatewaytransport.EventJoin,
		`{"session_id":"retro-1","participant_id":"bob","name":"Bob"}`)

	if records := module.Broadcast.Records(); len(records) != 0 {
		t.Fatalf("closed-session join must broadcast nothing, got %+v", records)
	}
}

func TestBoardSyncAddItemBroadcastsSnapshot(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseInput, false)

	dispatch(t, module, "conn-1", gatewaytransport.EventAddItem,
		`{"session_id":"retro-1","column_id":"col-1","content":"CI got faster","participant_id":"bob","name":"Bob"}`)

	view := lastSnapshot(t, module)
	if len(view.Columns) != 2 {
		t.Fatalf("expected two columns in snapshot, got %d", len(view.Columns))
	}
	items := view.Columns[0].Items
	if len(items) != 1 || items[0].Content != "CI got faster" || items[0].AuthorName != "Bob" {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[0].Order != 0 {
		t.Fatalf("first item must take order 0, got %d", items[0].Order)
	}
}

func TestBoardSyncAddItemAnonymousFallback(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseInput, false)

	dispatch(t, module, "conn-1", gatewaytransport.EventAddItem,
		`{"session_id":"retro-1","column_id":"col-1","content":"drive-by note"}`)

	items := lastSnapshot(t, module).Columns[0].Items
	if items[0].AuthorID != "anonymous" || items[0].AuthorName != "Anonymous" {
		t.Fatalf("expected anonymous author fallback, got %q / %q", items[0].AuthorID, items[0].AuthorName)
	}
}

func TestBoardSyncAnonymousSessionHidesAuthorNames(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseInput, true)

	dispatch(t, module, "conn-1", gatewaytransport.EventAddItem,
		`{"session_id":"retro-1","column_id":"col-1","content":"too many meetings","participant_id":"bob","name":"Bob"}`)

	items := lastSnapshot(t, module).Columns[0].Items
	if items[0].AuthorName != "" {
		t.Fatalf("anonymous session must blank author names, got %q", items[0].AuthorName)
	}
	if items[0].AuthorID != "bob" {
		t.Fatalf("author id must survive for ownership checks, got %q", items[0].AuthorID)
	}
}

func TestBoardSyncVoteFlow(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseVoting, false)
	module.Store.SeedItem(entities.Item{ItemID: "item-1", ColumnID: "col-1", Content: "CI got faster", Order: 0})

	dispatch(t, module, "conn-1", gatewaytransport.EventVoteDelta,
		`{"session_id":"retro-1","item_id":"item-1","participant_id":"bob","delta":2}`)

	items := lastSnapshot(t, module).Columns[0].Items
	if len(items[0].Votes) != 1 || items[0].Votes[0].Count != 2 {
		t.Fatalf("expected one vote with count 2, got %+v", items[0].Votes)
	}

	// Setting the count the vote already has changes nothing and stays
	// silent.
	broadcasts := len(module.Broadcast.Records())
	dispatch(t, module, "conn-1", gatewaytransport.EventVoteDelta,
		`{"session_id":"retro-1","item_id":"item-1","participant_id":"bob","target":2}`)
	if len(module.Broadcast.Records()) != broadcasts {
		t.Fatal("unchanged set-count must not broadcast")
	}

	dispatch(t, module, "conn-1", gatewaytransport.EventVoteDelta,
		`{"session_id":"retro-1","item_id":"item-1","participant_id":"bob","target":0}`)

	items = lastSnapshot(t, module).Columns[0].Items
	if len(items[0].Votes) != 0 {
		t.Fatalf("expected vote removed at target 0, got %+v", items[0].Votes)
	}

	remaining, err := module.Handler.RemainingVotesHandler(context.Background(), "retro-1", "bob")
	if err != nil {
		t.Fatalf("remaining votes failed: %v", err)
	}
	if remaining != entities.VoteBudget {
		t.Fatalf("expected full budget back, got %d", remaining)
	}
}

func TestBoardSyncPhaseBroadcastOrder(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseInput, false)

	dispatch(t, module, "conn-1", gatewaytransport.EventJoin,
		`{"session_id":"retro-1","participant_id":"bob","name":"Bob"}`)
	dispatch(t, module, "conn-1", gatewaytransport.EventSetReady,
		`{"session_id":"retro-1","ready":true}`)

	before := len(module.Broadcast.RecordsFor("retro-1"))
	dispatch(t, module, "conn-1", gatewaytransport.EventSetStatus,
		`{"session_id":"retro-1","status":"VOTING","requested_by":"alice"}`)

	records := module.Broadcast.RecordsFor("retro-1")[before:]
	if len(records) != 2 {
		t.Fatalf("expected snapshot then roster broadcast, got %d records", len(records))
	}
	if records[0].EventName != coordinator.EventSessionUpdated || records[1].EventName != coordinator.EventRosterUpdated {
		t.Fatalf("wrong broadcast order: %s then %s", records[0].EventName, records[1].EventName)
	}
	roster := records[1].Payload.(gatewaytransport.RosterView)
	if roster.Participants[0].Ready {
		t.Fatal("phase change must clear readiness")
	}
	if view := records[0].Payload.(gatewaytransport.SnapshotView); view.Session.Phase != "VOTING" {
		t.Fatalf("expected snapshot in VOTING, got %s", view.Session.Phase)
	}
}

func TestBoardSyncStaleEventsDropSilently(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseVoting, false)

	// Vote against an item that was never created: no error, no broadcast.
	dispatch(t, module, "conn-1", gatewaytransport.EventVoteDelta,
		`{"session_id":"retro-1","item_id":"ghost","participant_id":"bob","delta":1}`)
	// Backward phase request from the creator: also dropped.
	dispatch(t, module, "conn-1", gatewaytransport.EventSetStatus,
		`{"session_id":"retro-1","status":"INPUT","requested_by":"alice"}`)

	if records := module.Broadcast.Records(); len(records) != 0 {
		t.Fatalf("dropped events must not broadcast, got %+v", records)
	}
}

func TestBoardSyncUnknownEventIgnored(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseInput, false)

	if err := module.Handler.HandleEvent(context.Background(), "conn-1", "time-travel", []byte(`{}`)); err != nil {
		t.Fatalf("unknown event must be ignored, got %v", err)
	}
}

func TestBoardSyncMoveItemKeepsDenseOrder(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseInput, false)
	for i := 0; i < 3; i++ {
		module.Store.SeedItem(entities.Item{
			ItemID:   fmt.Sprintf("item-%d", i+1),
			ColumnID: "col-1",
			Content:  fmt.Sprintf("note %d", i+1),
			Order:    i,
		})
	}

	dispatch(t, module, "conn-1", gatewaytransport.EventMoveItem,
		`{"session_id":"retro-1","item_id":"item-3","target_column_id":"col-2","new_index":0}`)

	view := lastSnapshot(t, module)
	source := view.Columns[0].Items
	if len(source) != 2 || source[0].Order != 0 || source[1].Order != 1 {
		t.Fatalf("source column not dense after move: %+v", source)
	}
	target := view.Columns[1].Items
	if len(target) != 1 || target[0].ItemID != "item-3" || target[0].Order != 0 {
		t.Fatalf("unexpected target column: %+v", target)
	}
}

func TestBoardSyncActionItemsAfterClose(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseActions, false)

	dispatch(t, module, "conn-1", gatewaytransport.EventAddActionItem,
		`{"session_id":"retro-1","content":"document the deploy runbook"}`)
	view := lastSnapshot(t, module)
	if len(view.Actions) != 1 || view.Actions[0].Completed {
		t.Fatalf("unexpected actions: %+v", view.Actions)
	}
	actionID := view.Actions[0].ActionID

	dispatch(t, module, "conn-1", gatewaytransport.EventSetStatus,
		`{"session_id":"retro-1","status":"CLOSED","requested_by":"alice"}`)

	// Toggling by the creator still works after close.
	dispatch(t, module, "conn-1", gatewaytransport.EventToggleActionItem,
		`{"session_id":"retro-1","action_id":"`+actionID+`","requested_by":"alice"}`)
	view = lastSnapshot(t, module)
	if !view.Actions[0].Completed {
		t.Fatal("expected action completed after toggle")
	}

	// Adding new items does not.
	before := len(module.Broadcast.Records())
	dispatch(t, module, "conn-1", gatewaytransport.EventAddItem,
		`{"session_id":"retro-1","column_id":"col-1","content":"late idea"}`)
	if len(module.Broadcast.Records()) != before {
		t.Fatal("closed session must drop new items silently")
	}
}

// brokenVoteStore fails every vote write so the store-failure path can be
// observed end to end.
type brokenVoteStore struct {
	*memory.Store
}

func (s brokenVoteStore) UpsertVote(context.Context, entities.Vote) error {
	return errors.New("connection reset")
}

func TestBoardSyncStoreFailureBroadcastsNothing(t *testing.T) {
	store := memory.NewStore()
	store.SeedSession(entities.Session{SessionID: "retro-1", Title: "Sprint 12", Creator: "alice", Phase: entities.PhaseVoting})
	store.SeedColumn(entities.Column{ColumnID: "col-1", SessionID: "retro-1", Type: entities.ColumnWentWell})
	store.SeedItem(entities.Item{ItemID: "item-1", ColumnID: "col-1", Content: "note"})
	broadcast := memory.NewBroadcastLog()
	module := boardsync.NewModule(boardsync.Dependencies{
		Store:     brokenVoteStore{store},
		Presence:  memory.NewRoster(),
		Broadcast: broadcast,
		Clock:     store,
		IDGen:     store,
	})

	err := module.Handler.HandleEvent(context.Background(), "conn-1", gatewaytransport.EventVoteDelta,
		[]byte(`{"session_id":"retro-1","item_id":"item-1","participant_id":"bob","delta":1}`))
	if err == nil {
		t.Fatal("expected store failure to surface")
	}
	if records := broadcast.Records(); len(records) != 0 {
		t.Fatalf("store failure must not broadcast, got %+v", records)
	}
}

func TestBoardSyncBroadcastOrderAcrossSessions(t *testing.T) {
	module := seedBoardModule(t, entities.PhaseInput, false)
	module.Store.SeedSession(entities.Session{SessionID: "retro-2", Title: "Sprint 13", Creator: "carol", Phase: entities.PhaseInput})
	module.Store.SeedColumn(entities.Column{ColumnID: "col-9", SessionID: "retro-2", Type: entities.ColumnWentWell, Position: 0})

	for i := 0; i < 3; i++ {
		dispatch(t, module, "conn-1", gatewaytransport.EventAddItem,
			fmt.Sprintf(`{"session_id":"retro-1","column_id":"col-1","content":"a%d"}`, i))
		dispatch(t, module, "conn-2", gatewaytransport.EventAddItem,
			fmt.Sprintf(`{"session_id":"retro-2","column_id":"col-9","content":"b%d"}`, i))
	}

	for _, sessionID := range []string{"retro-1", "retro-2"} {
		records := module.Broadcast.RecordsFor(sessionID)
		if len(records) != 3 {
			t.Fatalf("%s: expected 3 broadcasts, got %d", sessionID, len(records))
		}
		for i, record := range records {
			if record.EventName != coordinator.EventSessionUpdated {
				t.Fatalf("%s: record %d is %s", sessionID, i, record.EventName)
			}
			view := record.Payload.(gatewaytransport.SnapshotView)
			if got := len(view.Columns[0].Items); got != i+1 {
				t.Fatalf("%s: broadcast %d shows %d items, apply order broken", sessionID, i, got)
			}
		}
	}
}
