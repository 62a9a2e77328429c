package gateway

import (
	"time"

	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
)

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SnapshotView is the wire shape of a session-updated broadcast and of the
// snapshot read endpoint.
type SnapshotView struct {
	Session SessionView  `json:"session"`
	Columns []ColumnView `json:"columns"`
	Actions []ActionView `json:"actions"`
}

type SessionView struct {
	SessionID      string    `json:"session_id"`
	Title          string    `json:"title"`
	Tags           string    `json:"tags"`
	Creator        string    `json:"creator"`
	TeamID         string    `json:"team_id,omitempty"`
	Phase          string    `json:"phase"`
	PhaseStartTime time.Time `json:"phase_start_time"`
	InputDuration  *int      `json:"input_duration,omitempty"`
	VotingDuration *int      `json:"voting_duration,omitempty"`
	ReviewDuration *int      `json:"review_duration,omitempty"`
	Anonymous      bool      `json:"anonymous"`
}

type ColumnView struct {
	ColumnID string     `json:"column_id"`
	Title    string     `json:"title"`
	Type     string     `json:"type"`
	Items    []ItemView `json:"items"`
}

type ItemView struct {
	ItemID     string         `json:"item_id"`
	Content    string         `json:"content"`
	Summary    string         `json:"summary,omitempty"`
	AuthorID   string         `json:"author_id"`
	AuthorName string         `json:"author_name,omitempty"`
	Order      int            `json:"order"`
	Votes      []VoteView     `json:"votes"`
	Reactions  []ReactionView `json:"reactions"`
}

type VoteView struct {
	ParticipantID string `json:"participant_id"`
	Count         int    `json:"count"`
}

type ReactionView struct {
	ParticipantID string `json:"participant_id"`
	Emoji         string `json:"emoji"`
}

type ActionView struct {
	ActionID  string `json:"action_id"`
	Content   string `json:"content"`
	Completed bool   `json:"completed"`
}

// RosterView is the wire shape of a roster-updated broadcast.
type RosterView struct {
	Participants []ParticipantView `json:"participants"`
}

type ParticipantView struct {
	ConnectionID  string `json:"connection_id"`
	ParticipantID string `json:"participant_id"`
	Name          string `json:"name"`
	Ready         bool   `json:"ready"`
}

func SnapshotViewFrom(snapshot entities.Snapshot) SnapshotView {
	view := SnapshotView{
		Session: SessionView{
			SessionID:      snapshot.Session.SessionID,
			Title:          snapshot.Session.Title,
			Tags:           snapshot.Session.Tags,
			Creator:        snapshot.Session.Creator,
			TeamID:         snapshot.Session.TeamID,
			Phase:          string(snapshot.Session.Phase),
			PhaseStartTime: snapshot.Session.PhaseStartTime,
			InputDuration:  snapshot.Session.InputDuration,
			VotingDuration: snapshot.Session.VotingDuration,
			ReviewDuration: snapshot.Session.ReviewDuration,
			Anonymous:      snapshot.Session.Anonymous,
		},
		Columns: make([]ColumnView, 0, len(snapshot.Columns)),
		Actions: make([]ActionView, 0, len(snapshot.Actions)),
	}
	for _, column := range snapshot.Columns {
		columnView := ColumnView{
			ColumnID: column.Column.ColumnID,
			Title:    column.Column.Title,
			Type:     string(column.Column.Type),
			Items:    make([]ItemView, 0, len(column.Items)),
		}
		for _, item := range column.Items {
			itemView := ItemView{
				ItemID:     item.Item.ItemID,
				Content:    item.Item.Content,
				Summary:    item.Item.Summary,
				AuthorID:   item.Item.AuthorID,
				AuthorName: item.Item.AuthorName,
				Order:      item.Item.Order,
				Votes:      make([]VoteView, 0, len(item.Votes)),
				Reactions:  make([]ReactionView, 0, len(item.Reactions)),
			}
			for _, vote := range item.Votes {
				itemView.Votes = append(itemView.Votes, VoteView{
					ParticipantID: vote.ParticipantID,
					Count:         vote.Count,
				})
			}
			for _, reaction := range item.Reactions {
				itemView.Reactions = append(itemView.Reactions, ReactionView{
					ParticipantID: reaction.ParticipantID,
					Emoji:         reaction.Emoji,
				})
			}
			columnView.Items = append(columnView.Items, itemView)
		}
		view.Columns = append(view.Columns, columnView)
	}
	for _, action := range snapshot.Actions {
		view.Actions = append(view.Actions, ActionView{
			ActionID:  action.ActionID,
			Content:   action.Content,
			Completed: action.Completed,
		})
	}
	return view
}

func RosterViewFrom(roster []entities.Participant) RosterView {
	view := RosterView{Participants: make([]ParticipantView, 0, len(roster))}
	for _, participant := range roster {
		view.Participants = append(view.Participants, ParticipantView{
			ConnectionID:  participant.ConnectionID,
			ParticipantID: participant.ParticipantID,
			Name:          participant.Name,
			Ready:         participant.Ready,
		})
	}
	return view
}
