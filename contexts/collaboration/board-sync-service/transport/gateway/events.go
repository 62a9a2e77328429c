package gateway

// Inbound event names accepted from the realtime transport. The socket
// layer itself lives outside the core; it decodes frames into these
// payloads and hands them to the gateway handler.
const (
	EventJoin              = "join"
	EventSetReady          = "set-ready"
	EventAddItem           = "add-item"
	EventVoteDelta         = "vote-delta"
	EventSetStatus         = "set-status"
	EventUpdateItemSummary = "update-item-summary"
	EventAddActionItem     = "add-action-item"
	EventToggleActionItem  = "toggle-action-item"
	EventToggleReaction    = "toggle-reaction"
	EventMoveItem          = "move-item"
	EventExtendTimer       = "extend-timer"
	EventDisconnect        = "disconnect"
)

type JoinPayload struct {
	SessionID     string `json:"session_id"`
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
}

type SetReadyPayload struct {
	SessionID string `json:"session_id"`
	Ready     bool   `json:"ready"`
}

type AddItemPayload struct {
	SessionID     string `json:"session_id"`
	ColumnID      string `json:"column_id"`
	Content       string `json:"content"`
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
}

// VotePayload adjusts a vote count. When Target is set the server computes
// the delta from its own stored count; Delta is ignored in that case.
type VotePayload struct {
	SessionID     string `json:"session_id"`
	ItemID        string `json:"item_id"`
	ParticipantID string `json:"participant_id"`
	Delta         int    `json:"delta"`
	Target        *int   `json:"target,omitempty"`
}

type SetStatusPayload struct {
	SessionID   string `json:"session_id"`
	Status      string `json:"status"`
	Expected    string `json:"expected,omitempty"`
	RequestedBy string `json:"requested_by"`
}

type UpdateSummaryPayload struct {
	SessionID string `json:"session_id"`
	ItemID    string `json:"item_id"`
	Summary   string `json:"summary"`
}

type AddActionPayload struct {
	SessionID string `json:"session_id"`
	Content   string `json:"content"`
}

type ToggleActionPayload struct {
	SessionID   string `json:"session_id"`
	ActionID    string `json:"action_id"`
	RequestedBy string `json:"requested_by"`
}

type ToggleReactionPayload struct {
	SessionID     string `json:"session_id"`
	ItemID        string `json:"item_id"`
	ParticipantID string `json:"participant_id"`
	Emoji         string `json:"emoji"`
}

type MoveItemPayload struct {
	SessionID      string `json:"session_id"`
	ItemID         string `json:"item_id"`
	TargetColumnID string `json:"target_column_id"`
	NewIndex       int    `json:"new_index"`
}

type ExtendTimerPayload struct {
	SessionID string `json:"session_id"`
}
