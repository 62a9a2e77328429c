package gatewayadapter

import (
	"context"

	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	"retroboard/contexts/collaboration/board-sync-service/ports"
	gatewaytransport "retroboard/contexts/collaboration/board-sync-service/transport/gateway"
)

// ViewPublisher converts domain payloads into their wire views before
// handing them to the underlying broadcast channel, so clients never see
// internal entity shapes.
type ViewPublisher struct {
	Next ports.Broadcaster
}

func (p ViewPublisher) Publish(ctx context.Context, sessionID string, eventName string, payload any) error {
	switch value := payload.(type) {
	case entities.Snapshot:
		return p.Next.Publish(ctx, sessionID, eventName, gatewaytransport.SnapshotViewFrom(value))
	case []entities.Participant:
		return p.Next.Publish(ctx, sessionID, eventName, gatewaytransport.RosterViewFrom(value))
	default:
		return p.Next.Publish(ctx, sessionID, eventName, payload)
	}
}
