package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
	"retroboard/contexts/collaboration/board-sync-service/ports"

	"github.com/google/uuid"
)

// Store is the in-memory board store used by tests and local wiring. It
// mirrors the persistent adapter's contract, including all-or-nothing
// batched order rewrites.
type Store struct {
	mu sync.RWMutex

	sessions  map[string]entities.Session
	columns   map[string]entities.Column
	items     map[string]entities.Item
	votes     map[string]entities.Vote
	reactions map[string]entities.Reaction
	actions   map[string]entities.ActionItem
}

func NewStore() *Store {
	return &Store{
		sessions:  make(map[string]entities.Session),
		columns:   make(map[string]entities.Column),
		items:     make(map[string]entities.Item),
		votes:     make(map[string]entities.Vote),
		reactions: make(map[string]entities.Reaction),
		actions:   make(map[string]entities.ActionItem),
	}
}

func (s *Store) SeedSession(session entities.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[strings.TrimSpace(session.SessionID)] = session
}

func (s *Store) SeedColumn(column entities.Column) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.columns[strings.TrimSpace(column.ColumnID)] = column
}

func (s *Store) SeedItem(item entities.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[strings.TrimSpace(item.ItemID)] = item
}

func (s *Store) GetSession(_ context.Context, sessionID string) (entities.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[strings.TrimSpace(sessionID)]
	if !ok {
		return entities.Session{}, domainerrors.ErrSessionNotFound
	}
	return session, nil
}

func (s *Store) UpdateSessionPhase(_ context.Context, sessionID string, phase entities.Phase, startedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[strings.TrimSpace(sessionID)]
	if !ok {
		return domainerrors.ErrSessionNotFound
	}
	session.Phase = phase
	session.PhaseStartTime = startedAt
	session.UpdatedAt = startedAt
	s.sessions[session.SessionID] = session
	return nil
}

func (s *Store) UpdateSessionPhaseStart(_ context.Context, sessionID string, startedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[strings.TrimSpace(sessionID)]
	if !ok {
		return domainerrors.ErrSessionNotFound
	}
	session.PhaseStartTime = startedAt
	s.sessions[session.SessionID] = session
	return nil
}

func (s *Store) GetColumn(_ context.Context, columnID string) (entities.Column, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	column, ok := s.columns[strings.TrimSpace(columnID)]
	if !ok {
		return entities.Column{}, domainerrors.ErrColumnNotFound
	}
	return column, nil
}

func (s *Store) ListItemsByColumn(_ context.Context, columnID string) ([]entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.listItemsLocked(strings.TrimSpace(columnID)), nil
}

func (s *Store) listItemsLocked(columnID string) []entities.Item {
	items := make([]entities.Item, 0)
	for _, item := range s.items {
		if item.ColumnID == columnID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].Order != items[j].Order {
			return items[i].Order < items[j].Order
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items
}

func (s *Store) GetItemByID(_ context.Context, itemID string) (entities.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[strings.TrimSpace(itemID)]
	if !ok {
		return entities.Item{}, domainerrors.ErrItemNotFound
	}
	return item, nil
}

func (s *Store) CreateItem(_ context.Context, item entities.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.columns[item.ColumnID]; !ok {
		return domainerrors.ErrColumnNotFound
	}
	s.items[strings.TrimSpace(item.ItemID)] = item
	return nil
}

func (s *Store) UpdateItemColumn(_ context.Context, itemID string, columnID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[strings.TrimSpace(itemID)]
	if !ok {
		return domainerrors.ErrItemNotFound
	}
	if _, ok := s.columns[strings.TrimSpace(columnID)]; !ok {
		return domainerrors.ErrColumnNotFound
	}
	item.ColumnID = strings.TrimSpace(columnID)
	s.items[item.ItemID] = item
	return nil
}

func (s *Store) UpdateItemSummary(_ context.Context, itemID string, summary string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[strings.TrimSpace(itemID)]
	if !ok {
		return domainerrors.ErrItemNotFound
	}
	item.Summary = summary
	s.items[item.ItemID] = item
	return nil
}

// UpdateItemOrders applies the whole batch or none of it.
func (s *Store) UpdateItemOrders(_ context.Context, batch []ports.ItemOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, row := range batch {
		if _, ok := s.items[row.ItemID]; !ok {
			return domainerrors.ErrItemNotFound
		}
	}
	for _, row := range batch {
		item := s.items[row.ItemID]
		item.Order = row.Order
		s.items[row.ItemID] = item
	}
	return nil
}

func (s *Store) FindVote(_ context.Context, itemID string, participantID string) (entities.Vote, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, vote := range s.votes {
		if vote.ItemID == strings.TrimSpace(itemID) && vote.ParticipantID == strings.TrimSpace(participantID) {
			return vote, true, nil
		}
	}
	return entities.Vote{}, false, nil
}

func (s *Store) UpsertVote(_ context.Context, vote entities.Vote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.votes[strings.TrimSpace(vote.VoteID)] = vote
	return nil
}

func (s *Store) DeleteVote(_ context.Context, voteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.votes, strings.TrimSpace(voteID))
	return nil
}

func (s *Store) ListVotesBySession(_ context.Context, sessionID string) ([]entities.Vote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	itemIDs := make(map[string]bool)
	for _, column := range s.columns {
		if column.SessionID != strings.TrimSpace(sessionID) {
			continue
		}
		for _, item := range s.items {
			if item.ColumnID == column.ColumnID {
				itemIDs[item.ItemID] = true
			}
		}
	}
	votes := make([]entities.Vote, 0)
	for _, vote := range s.votes {
		if itemIDs[vote.ItemID] {
			votes = append(votes, vote)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].CreatedAt.Before(votes[j].CreatedAt) })
	return votes, nil
}

func (s *Store) FindReaction(_ context.Context, itemID string, participantID string, emoji string) (entities.Reaction, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, reaction := range s.reactions {
		if reaction.ItemID == strings.TrimSpace(itemID) &&
			reaction.ParticipantID == strings.TrimSpace(participantID) &&
			reaction.Emoji == strings.TrimSpace(emoji) {
			return reaction, true, nil
		}
	}
	return entities.Reaction{}, false, nil
}

func (s *Store) CreateReaction(_ context.Context, reaction entities.Reaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reactions[strings.TrimSpace(reaction.ReactionID)] = reaction
	return nil
}

func (s *Store) DeleteReaction(_ context.Context, reactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.reactions, strings.TrimSpace(reactionID))
	return nil
}

func (s *Store) CreateActionItem(_ context.Context, action entities.ActionItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions[strings.TrimSpace(action.ActionID)] = action
	return nil
}

func (s *Store) ToggleActionItem(_ context.Context, actionID string, now time.Time) (entities.ActionItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.actions[strings.TrimSpace(actionID)]
	if !ok {
		return entities.ActionItem{}, domainerrors.ErrActionNotFound
	}
	action.Completed = !action.Completed
	action.UpdatedAt = now
	s.actions[action.ActionID] = action
	return action, nil
}

func (s *Store) GetSessionSnapshot(_ context.Context, sessionID string) (entities.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[strings.TrimSpace(sessionID)]
	if !ok {
		return entities.Snapshot{}, domainerrors.ErrSessionNotFound
	}

	columns := make([]entities.Column, 0)
	for _, column := range s.columns {
		if column.SessionID == session.SessionID {
			columns = append(columns, column)
		}
	}
	sort.Slice(columns, func(i, j int) bool { return columns[i].Position < columns[j].Position })

	snapshot := entities.Snapshot{Session: session, Columns: make([]entities.ColumnSnapshot, 0, len(columns))}
	for _, column := range columns {
		columnSnapshot := entities.ColumnSnapshot{Column: column}
		for _, item := range s.listItemsLocked(column.ColumnID) {
			itemSnapshot := entities.ItemSnapshot{Item: item}
			for _, vote := range s.votes {
				if vote.ItemID == item.ItemID {
					itemSnapshot.Votes = append(itemSnapshot.Votes, vote)
				}
			}
			sort.Slice(itemSnapshot.Votes, func(i, j int) bool {
				return itemSnapshot.Votes[i].CreatedAt.Before(itemSnapshot.Votes[j].CreatedAt)
			})
			for _, reaction := range s.reactions {
				if reaction.ItemID == item.ItemID {
					itemSnapshot.Reactions = append(itemSnapshot.Reactions, reaction)
				}
			}
			sort.Slice(itemSnapshot.Reactions, func(i, j int) bool {
				return itemSnapshot.Reactions[i].CreatedAt.Before(itemSnapshot.Reactions[j].CreatedAt)
			})
			columnSnapshot.Items = append(columnSnapshot.Items, itemSnapshot)
		}
		snapshot.Columns = append(snapshot.Columns, columnSnapshot)
	}

	for _, action := range s.actions {
		if action.SessionID == session.SessionID {
			snapshot.Actions = append(snapshot.Actions, action)
		}
	}
	sort.Slice(snapshot.Actions, func(i, j int) bool {
		return snapshot.Actions[i].CreatedAt.Before(snapshot.Actions[j].CreatedAt)
	})
	return snapshot, nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
