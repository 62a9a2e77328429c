package gatewayadapter

import (
	"context"
	"encoding/json"
	"log/slog"

	application "retroboard/contexts/collaboration/board-sync-service/application"
	"retroboard/contexts/collaboration/board-sync-service/application/commands"
	"retroboard/contexts/collaboration/board-sync-service/application/coordinator"
	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
	gatewaytransport "retroboard/contexts/collaboration/board-sync-service/transport/gateway"
)

// Subscriptions is the per-connection fan-out registration the transport
// layer tears down on disconnect.
type Subscriptions interface {
	Subscribe(sessionID string, connectionID string)
	Unsubscribe(connectionID string)
}

// Handler is the seam between the realtime transport and the sync engine.
// It decodes inbound event payloads, applies boundary policy, and routes
// everything through the session coordinator.
type Handler struct {
	Coordinator *coordinator.Coordinator
	Subs        Subscriptions
	Logger      *slog.Logger
}

// HandleEvent dispatches one decoded transport frame. Unknown event names
// are logged and ignored so a newer client cannot wedge the stream.
func (h Handler) HandleEvent(ctx context.Context, connectionID string, eventName string, raw []byte) error {
	logger := application.ResolveLogger(h.Logger)
	switch eventName {
	case gatewaytransport.EventJoin:
		var p gatewaytransport.JoinPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleJoin(ctx, connectionID, p)
	case gatewaytransport.EventSetReady:
		var p gatewaytransport.SetReadyPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleSetReady(ctx, connectionID, p)
	case gatewaytransport.EventAddItem:
		var p gatewaytransport.AddItemPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleAddItem(ctx, p)
	case gatewaytransport.EventVoteDelta:
		var p gatewaytransport.VotePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleVote(ctx, p)
	case gatewaytransport.EventSetStatus:
		var p gatewaytransport.SetStatusPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleSetStatus(ctx, p)
	case gatewaytransport.EventUpdateItemSummary:
		var p gatewaytransport.UpdateSummaryPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleUpdateSummary(ctx, p)
	case gatewaytransport.EventAddActionItem:
		var p gatewaytransport.AddActionPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleAddAction(ctx, p)
	case gatewaytransport.EventToggleActionItem:
		var p gatewaytransport.ToggleActionPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleToggleAction(ctx, p)
	case gatewaytransport.EventToggleReaction:
		var p gatewaytransport.ToggleReactionPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleToggleReaction(ctx, p)
	case gatewaytransport.EventMoveItem:
		var p gatewaytransport.MoveItemPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleMoveItem(ctx, p)
	case gatewaytransport.EventExtendTimer:
		var p gatewaytransport.ExtendTimerPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return domainerrors.ErrInvalidInput
		}
		return h.HandleExtendTimer(ctx, p)
	case gatewaytransport.EventDisconnect:
		return h.HandleDisconnect(ctx, connectionID)
	default:
		logger.Warn("unknown gateway event ignored",
			"event", "gateway_unknown_event",
			"module", "collaboration/board-sync-service",
			"layer", "adapter",
			"event_name", eventName,
			"connection_id", connectionID,
		)
		return nil
	}
}

// HandleJoin subscribes the connection to the session stream before the
// presence registration, mirroring room joins in socket transports; a join
// against a closed session keeps the subscription but registers nothing
// and broadcasts nothing.
func (h Handler) HandleJoin(ctx context.Context, connectionID string, p gatewaytransport.JoinPayload) error {
	if h.Subs != nil {
		h.Subs.Subscribe(p.SessionID, connectionID)
	}
	return h.Coordinator.Join(ctx, commands.JoinCommand{
		SessionID:     p.SessionID,
		ConnectionID:  connectionID,
		ParticipantID: p.ParticipantID,
		Name:          p.Name,
	})
}

func (h Handler) HandleSetReady(ctx context.Context, connectionID string, p gatewaytransport.SetReadyPayload) error {
	return h.Coordinator.SetReady(ctx, commands.SetReadyCommand{
		SessionID:    p.SessionID,
		ConnectionID: connectionID,
		Ready:        p.Ready,
	})
}

func (h Handler) HandleAddItem(ctx context.Context, p gatewaytransport.AddItemPayload) error {
	return h.Coordinator.AddItem(ctx, commands.AddItemCommand{
		SessionID:  p.SessionID,
		ColumnID:   p.ColumnID,
		Content:    p.Content,
		AuthorID:   p.ParticipantID,
		AuthorName: p.Name,
	})
}

func (h Handler) HandleVote(ctx context.Context, p gatewaytransport.VotePayload) error {
	if p.Target != nil {
		return h.Coordinator.SetVoteCount(ctx, commands.SetVoteCommand{
			SessionID:     p.SessionID,
			ItemID:        p.ItemID,
			ParticipantID: p.ParticipantID,
			Target:        *p.Target,
		})
	}
	return h.Coordinator.ApplyVoteDelta(ctx, commands.VoteDeltaCommand{
		SessionID:     p.SessionID,
		ItemID:        p.ItemID,
		ParticipantID: p.ParticipantID,
		Delta:         p.Delta,
	})
}

func (h Handler) HandleSetStatus(ctx context.Context, p gatewaytransport.SetStatusPayload) error {
	return h.Coordinator.SetPhase(ctx, commands.TransitionCommand{
		SessionID:   p.SessionID,
		Target:      entities.Phase(p.Status),
		Expected:    entities.Phase(p.Expected),
		RequestedBy: p.RequestedBy,
	})
}

func (h Handler) HandleUpdateSummary(ctx context.Context, p gatewaytransport.UpdateSummaryPayload) error {
	return h.Coordinator.UpdateItemSummary(ctx, commands.UpdateSummaryCommand{
		SessionID: p.SessionID,
		ItemID:    p.ItemID,
		Summary:   p.Summary,
	})
}

func (h Handler) HandleAddAction(ctx context.Context, p gatewaytransport.AddActionPayload) error {
	return h.Coordinator.AddActionItem(ctx, commands.AddActionCommand{
		SessionID: p.SessionID,
		Content:   p.Content,
	})
}

func (h Handler) HandleToggleAction(ctx context.Context, p gatewaytransport.ToggleActionPayload) error {
	return h.Coordinator.ToggleActionItem(ctx, commands.ToggleActionCommand{
		SessionID:   p.SessionID,
		ActionID:    p.ActionID,
		RequestedBy: p.RequestedBy,
	})
}

func (h Handler) HandleToggleReaction(ctx context.Context, p gatewaytransport.ToggleReactionPayload) error {
	return h.Coordinator.ToggleReaction(ctx, commands.ToggleReactionCommand{
		SessionID:     p.SessionID,
		ItemID:        p.ItemID,
		ParticipantID: p.ParticipantID,
		Emoji:         p.Emoji,
	})
}

func (h Handler) HandleMoveItem(ctx context.Context, p gatewaytransport.MoveItemPayload) error {
	return h.Coordinator.MoveItem(ctx, commands.MoveItemCommand{
		SessionID:      p.SessionID,
		ItemID:         p.ItemID,
		TargetColumnID: p.TargetColumnID,
		NewIndex:       p.NewIndex,
	})
}

func (h Handler) HandleExtendTimer(ctx context.Context, p gatewaytransport.ExtendTimerPayload) error {
	return h.Coordinator.ExtendTimer(ctx, commands.ExtendTimerCommand{SessionID: p.SessionID})
}

func (h Handler) HandleDisconnect(ctx context.Context, connectionID string) error {
	err := h.Coordinator.Disconnect(ctx, connectionID)
	if h.Subs != nil {
		h.Subs.Unsubscribe(connectionID)
	}
	return err
}

// SnapshotHandler serves the canonical board view for HTTP reads and
// reconnect resyncs.
func (h Handler) SnapshotHandler(ctx context.Context, sessionID string) (gatewaytransport.SnapshotView, error) {
	snapshot, err := h.Coordinator.Snapshot(ctx, sessionID)
	if err != nil {
		return gatewaytransport.SnapshotView{}, err
	}
	return gatewaytransport.SnapshotViewFrom(snapshot), nil
}

func (h Handler) RemainingVotesHandler(ctx context.Context, sessionID string, participantID string) (int, error) {
	return h.Coordinator.RemainingBudget(ctx, sessionID, participantID)
}
