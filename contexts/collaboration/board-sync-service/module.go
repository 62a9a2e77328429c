package boardsync

import (
	"log/slog"

	gatewayadapter "retroboard/contexts/collaboration/board-sync-service/adapters/gateway"
	"retroboard/contexts/collaboration/board-sync-service/adapters/memory"
	"retroboard/contexts/collaboration/board-sync-service/application/commands"
	"retroboard/contexts/collaboration/board-sync-service/application/coordinator"
	"retroboard/contexts/collaboration/board-sync-service/application/queries"
	"retroboard/contexts/collaboration/board-sync-service/ports"
)

type Module struct {
	Handler     gatewayadapter.Handler
	Coordinator *coordinator.Coordinator

	// Populated by NewInMemoryModule for test wiring.
	Store     *memory.Store
	Roster    *memory.Roster
	Broadcast *memory.BroadcastLog
}

type Dependencies struct {
	Store     ports.BoardStore
	Presence  ports.PresenceRegistry
	Broadcast ports.Broadcaster
	Subs      gatewayadapter.Subscriptions
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	ledger := commands.LedgerUseCase{
		Store:  deps.Store,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	ordering := commands.OrderingUseCase{
		Store:  deps.Store,
		Logger: deps.Logger,
	}
	board := commands.BoardUseCase{
		Store:  deps.Store,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	phases := commands.PhaseUseCase{
		Store:    deps.Store,
		Presence: deps.Presence,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	presence := commands.PresenceUseCase{
		Store:    deps.Store,
		Registry: deps.Presence,
		Logger:   deps.Logger,
	}
	snapshots := queries.SnapshotUseCase{
		Store:  deps.Store,
		Logger: deps.Logger,
	}
	sessions := &coordinator.Coordinator{
		Presence:  presence,
		Ledger:    ledger,
		Ordering:  ordering,
		Board:     board,
		Phases:    phases,
		Snapshots: snapshots,
		Store:     deps.Store,
		Broadcast: gatewayadapter.ViewPublisher{Next: deps.Broadcast},
		Logger:    deps.Logger,
	}
	return Module{
		Handler: gatewayadapter.Handler{
			Coordinator: sessions,
			Subs:        deps.Subs,
			Logger:      deps.Logger,
		},
		Coordinator: sessions,
	}
}

// NewInMemoryModule wires the module against in-process adapters and keeps
// them reachable so tests can seed state and inspect broadcasts.
func NewInMemoryModule(logger *slog.Logger) Module {
	store := memory.NewStore()
	roster := memory.NewRoster()
	broadcast := memory.NewBroadcastLog()
	module := NewModule(Dependencies{
		Store:     store,
		Presence:  roster,
		Broadcast: broadcast,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	module.Roster = roster
	module.Broadcast = broadcast
	return module
}
