package entities

import "time"

// Phase is one stage of a session lifecycle. Transitions are forward-only
// and PhaseClosed is terminal.
type Phase string

const (
	PhaseInput   Phase = "INPUT"
	PhaseVoting  Phase = "VOTING"
	PhaseReview  Phase = "REVIEW"
	PhaseActions Phase = "ACTIONS"
	PhaseClosed  Phase = "CLOSED"
)

var phaseRank = map[Phase]int{
	PhaseInput:   0,
	PhaseVoting:  1,
	PhaseReview:  2,
	PhaseActions: 3,
	PhaseClosed:  4,
}

func (p Phase) Valid() bool {
	_, ok := phaseRank[p]
	return ok
}

// CanAdvanceTo reports whether target is a strictly forward transition.
// Re-entering the current phase and any backward step are rejected here;
// callers treat same-phase requests as idempotent no-ops.
func (p Phase) CanAdvanceTo(target Phase) bool {
	from, ok := phaseRank[p]
	if !ok {
		return false
	}
	to, ok := phaseRank[target]
	if !ok {
		return false
	}
	return to > from
}

// Next returns the phase that timer-driven advancement moves into. The
// second return is false for PhaseActions and PhaseClosed, which only
// advance manually.
func (p Phase) Next() (Phase, bool) {
	switch p {
	case PhaseInput:
		return PhaseVoting, true
	case PhaseVoting:
		return PhaseReview, true
	case PhaseReview:
		return PhaseActions, true
	default:
		return p, false
	}
}

// VoteBudget is the fixed per-participant vote allotment for one session.
const VoteBudget = 10

// TimerExtension is the fixed increment applied by an extend-timer request.
const TimerExtension = 5 * time.Minute

type ColumnType string

const (
	ColumnWentWell      ColumnType = "went-well"
	ColumnDidntGoWell   ColumnType = "didnt-go-well"
	ColumnShouldImprove ColumnType = "improve"
)

type Session struct {
	SessionID      string
	Title          string
	Tags           string
	Creator        string
	TeamID         string
	Phase          Phase
	PhaseStartTime time.Time
	InputDuration  *int
	VotingDuration *int
	ReviewDuration *int
	Anonymous      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PhaseDuration returns the configured duration in minutes for the current
// phase, or false when the phase has no timer.
func (s Session) PhaseDuration() (int, bool) {
	var d *int
	switch s.Phase {
	case PhaseInput:
		d = s.InputDuration
	case PhaseVoting:
		d = s.VotingDuration
	case PhaseReview:
		d = s.ReviewDuration
	}
	if d == nil {
		return 0, false
	}
	return *d, true
}

type Column struct {
	ColumnID  string
	SessionID string
	Title     string
	Type      ColumnType
	Position  int
}

type Item struct {
	ItemID     string
	ColumnID   string
	Content    string
	Summary    string
	AuthorID   string
	AuthorName string
	Order      int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Vote holds the per-participant count for one item. A record exists only
// while its count is positive.
type Vote struct {
	VoteID        string
	ItemID        string
	ParticipantID string
	Count         int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Reaction is a presence-only participant/emoji marker on an item.
type Reaction struct {
	ReactionID    string
	ItemID        string
	ParticipantID string
	Emoji         string
	CreatedAt     time.Time
}

type ActionItem struct {
	ActionID  string
	SessionID string
	Content   string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Snapshot is the full canonical board state broadcast after every
// mutation: columns in position order, items in column order, with votes,
// reactions and action items attached.
type Snapshot struct {
	Session Session
	Columns []ColumnSnapshot
	Actions []ActionItem
}

type ColumnSnapshot struct {
	Column Column
	Items  []ItemSnapshot
}

type ItemSnapshot struct {
	Item      Item
	Votes     []Vote
	Reactions []Reaction
}
