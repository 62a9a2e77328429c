package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"retroboard/contexts/collaboration/board-sync-service/domain/entities"
	domainerrors "retroboard/contexts/collaboration/board-sync-service/domain/errors"
	"retroboard/contexts/collaboration/board-sync-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository is the gorm-backed board store. It is the production
// implementation of the persistence port the sync engine talks to.
type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{db: db, logger: logger}
}

func (r *Repository) GetSession(ctx context.Context, sessionID string) (entities.Session, error) {
	var row sessionModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(sessionID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Session{}, domainerrors.ErrSessionNotFound
		}
		return entities.Session{}, r.logError("board_repo_get_session_failed", err, "session_id", strings.TrimSpace(sessionID))
	}
	return row.toEntity(), nil
}

func (r *Repository) UpdateSessionPhase(ctx context.Context, sessionID string, phase entities.Phase, startedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&sessionModel{}).
		Where("id = ?", strings.TrimSpace(sessionID)).
		Updates(map[string]any{
			"phase":            string(phase),
			"phase_start_time": startedAt,
			"updated_at":       startedAt,
		})
	if result.Error != nil {
		return r.logError("board_repo_update_phase_failed", result.Error, "session_id", strings.TrimSpace(sessionID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) UpdateSessionPhaseStart(ctx context.Context, sessionID string, startedAt time.Time) error {
	result := r.db.WithContext(ctx).Model(&sessionModel{}).
		Where("id = ?", strings.TrimSpace(sessionID)).
		Update("phase_start_time", startedAt)
	if result.Error != nil {
		return r.logError("board_repo_update_phase_start_failed", result.Error, "session_id", strings.TrimSpace(sessionID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrSessionNotFound
	}
	return nil
}

func (r *Repository) GetColumn(ctx context.Context, columnID string) (entities.Column, error) {
	var row columnModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(columnID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Column{}, domainerrors.ErrColumnNotFound
		}
		return entities.Column{}, r.logError("board_repo_get_column_failed", err, "column_id", strings.TrimSpace(columnID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListItemsByColumn(ctx context.Context, columnID string) ([]entities.Item, error) {
	var rows []itemModel
	if err := r.db.WithContext(ctx).
		Where("column_id = ?", strings.TrimSpace(columnID)).
		Order("sort_order ASC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("board_repo_list_items_failed", err, "column_id", strings.TrimSpace(columnID))
	}
	items := make([]entities.Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetItemByID(ctx context.Context, itemID string) (entities.Item, error) {
	var row itemModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(itemID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Item{}, domainerrors.ErrItemNotFound
		}
		return entities.Item{}, r.logError("board_repo_get_item_failed", err, "item_id", strings.TrimSpace(itemID))
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateItem(ctx context.Context, item entities.Item) error {
	row := itemModelFromEntity(item)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("board_repo_create_item_failed", err, "item_id", item.ItemID)
	}
	return nil
}

func (r *Repository) UpdateItemColumn(ctx context.Context, itemID string, columnID string) error {
	result := r.db.WithContext(ctx).Model(&itemModel{}).
		Where("id = ?", strings.TrimSpace(itemID)).
		Update("column_id", strings.TrimSpace(columnID))
	if result.Error != nil {
		return r.logError("board_repo_update_item_column_failed", result.Error, "item_id", strings.TrimSpace(itemID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrItemNotFound
	}
	return nil
}

func (r *Repository) UpdateItemSummary(ctx context.Context, itemID string, summary string) error {
	result := r.db.WithContext(ctx).Model(&itemModel{}).
		Where("id = ?", strings.TrimSpace(itemID)).
		Update("summary", summary)
	if result.Error != nil {
		return r.logError("board_repo_update_item_summary_failed", result.Error, "item_id", strings.TrimSpace(itemID))
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrItemNotFound
	}
	return nil
}

// UpdateItemOrders rewrites a column's order values inside one
// transaction so the dense [0, n-1] invariant survives a mid-batch
// failure.
func (r *Repository) UpdateItemOrders(ctx context.Context, batch []ports.ItemOrder) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, row := range batch {
			result := tx.Model(&itemModel{}).
				Where("id = ?", row.ItemID).
				Update("sort_order", row.Order)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return domainerrors.ErrItemNotFound
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrItemNotFound) {
			return err
		}
		return r.logError("board_repo_update_item_orders_failed", err, "batch_size", len(batch))
	}
	return nil
}

func (r *Repository) FindVote(ctx context.Context, itemID string, participantID string) (entities.Vote, bool, error) {
	var row voteModel
	err := r.db.WithContext(ctx).
		Where("item_id = ?", strings.TrimSpace(itemID)).
		Where("participant_id = ?", strings.TrimSpace(participantID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Vote{}, false, nil
		}
		return entities.Vote{}, false, r.logError("board_repo_find_vote_failed", err,
			"item_id", strings.TrimSpace(itemID),
			"participant_id", strings.TrimSpace(participantID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) UpsertVote(ctx context.Context, vote entities.Vote) error {
	row := voteModelFromEntity(vote)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "item_id"}, {Name: "participant_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"count":      row.Count,
			"updated_at": row.UpdatedAt,
		}),
	}).Create(&row).Error
	if err != nil {
		return r.logError("board_repo_upsert_vote_failed", err,
			"vote_id", vote.VoteID,
			"item_id", vote.ItemID,
		)
	}
	return nil
}

func (r *Repository) DeleteVote(ctx context.Context, voteID string) error {
	if err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(voteID)).
		Delete(&voteModel{}).Error; err != nil {
		return r.logError("board_repo_delete_vote_failed", err, "vote_id", strings.TrimSpace(voteID))
	}
	return nil
}

func (r *Repository) ListVotesBySession(ctx context.Context, sessionID string) ([]entities.Vote, error) {
	var rows []voteModel
	err := r.db.WithContext(ctx).
		Table("retro_votes AS v").
		Select("v.*").
		Joins("JOIN retro_items AS i ON i.id = v.item_id").
		Joins("JOIN retro_columns AS c ON c.id = i.column_id").
		Where("c.session_id = ?", strings.TrimSpace(sessionID)).
		Order("v.created_at ASC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, r.logError("board_repo_list_votes_failed", err, "session_id", strings.TrimSpace(sessionID))
	}
	votes := make([]entities.Vote, 0, len(rows))
	for _, row := range rows {
		votes = append(votes, row.toEntity())
	}
	return votes, nil
}

func (r *Repository) FindReaction(ctx context.Context, itemID string, participantID string, emoji string) (entities.Reaction, bool, error) {
	var row reactionModel
	err := r.db.WithContext(ctx).
		Where("item_id = ?", strings.TrimSpace(itemID)).
		Where("participant_id = ?", strings.TrimSpace(participantID)).
		Where("emoji = ?", strings.TrimSpace(emoji)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Reaction{}, false, nil
		}
		return entities.Reaction{}, false, r.logError("board_repo_find_reaction_failed", err,
			"item_id", strings.TrimSpace(itemID),
			"participant_id", strings.TrimSpace(participantID),
		)
	}
	return row.toEntity(), true, nil
}

func (r *Repository) CreateReaction(ctx context.Context, reaction entities.Reaction) error {
	row := reactionModelFromEntity(reaction)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("board_repo_create_reaction_failed", err, "reaction_id", reaction.ReactionID)
	}
	return nil
}

func (r *Repository) DeleteReaction(ctx context.Context, reactionID string) error {
	if err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(reactionID)).
		Delete(&reactionModel{}).Error; err != nil {
		return r.logError("board_repo_delete_reaction_failed", err, "reaction_id", strings.TrimSpace(reactionID))
	}
	return nil
}

func (r *Repository) CreateActionItem(ctx context.Context, action entities.ActionItem) error {
	row := actionModelFromEntity(action)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return r.logError("board_repo_create_action_failed", err, "action_id", action.ActionID)
	}
	return nil
}

func (r *Repository) ToggleActionItem(ctx context.Context, actionID string, now time.Time) (entities.ActionItem, error) {
	var row actionModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", strings.TrimSpace(actionID)).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrActionNotFound
			}
			return err
		}
		row.Completed = !row.Completed
		row.UpdatedAt = now
		return tx.Model(&actionModel{}).
			Where("id = ?", row.ID).
			Updates(map[string]any{"completed": row.Completed, "updated_at": row.UpdatedAt}).
			Error
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrActionNotFound) {
			return entities.ActionItem{}, err
		}
		return entities.ActionItem{}, r.logError("board_repo_toggle_action_failed", err, "action_id", strings.TrimSpace(actionID))
	}
	return row.toEntity(), nil
}

func (r *Repository) GetSessionSnapshot(ctx context.Context, sessionID string) (entities.Snapshot, error) {
	session, err := r.GetSession(ctx, sessionID)
	if err != nil {
		return entities.Snapshot{}, err
	}

	var columnRows []columnModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", session.SessionID).
		Order("position ASC").
		Find(&columnRows).Error; err != nil {
		return entities.Snapshot{}, r.logError("board_repo_snapshot_columns_failed", err, "session_id", session.SessionID)
	}

	columnIDs := make([]string, 0, len(columnRows))
	for _, row := range columnRows {
		columnIDs = append(columnIDs, row.ID)
	}

	var itemRows []itemModel
	if len(columnIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("column_id IN ?", columnIDs).
			Order("sort_order ASC").
			Find(&itemRows).Error; err != nil {
			return entities.Snapshot{}, r.logError("board_repo_snapshot_items_failed", err, "session_id", session.SessionID)
		}
	}

	itemIDs := make([]string, 0, len(itemRows))
	for _, row := range itemRows {
		itemIDs = append(itemIDs, row.ID)
	}

	var voteRows []voteModel
	var reactionRows []reactionModel
	if len(itemIDs) > 0 {
		if err := r.db.WithContext(ctx).
			Where("item_id IN ?", itemIDs).
			Order("created_at ASC").
			Find(&voteRows).Error; err != nil {
			return entities.Snapshot{}, r.logError("board_repo_snapshot_votes_failed", err, "session_id", session.SessionID)
		}
		if err := r.db.WithContext(ctx).
			Where("item_id IN ?", itemIDs).
			Order("created_at ASC").
			Find(&reactionRows).Error; err != nil {
			return entities.Snapshot{}, r.logError("board_repo_snapshot_reactions_failed", err, "session_id", session.SessionID)
		}
	}

	var actionRows []actionModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", session.SessionID).
		Order("created_at ASC").
		Find(&actionRows).Error; err != nil {
		return entities.Snapshot{}, r.logError("board_repo_snapshot_actions_failed", err, "session_id", session.SessionID)
	}

	votesByItem := make(map[string][]entities.Vote)
	for _, row := range voteRows {
		votesByItem[row.ItemID] = append(votesByItem[row.ItemID], row.toEntity())
	}
	reactionsByItem := make(map[string][]entities.Reaction)
	for _, row := range reactionRows {
		reactionsByItem[row.ItemID] = append(reactionsByItem[row.ItemID], row.toEntity())
	}
	itemsByColumn := make(map[string][]entities.ItemSnapshot)
	for _, row := range itemRows {
		item := row.toEntity()
		itemsByColumn[item.ColumnID] = append(itemsByColumn[item.ColumnID], entities.ItemSnapshot{
			Item:      item,
			Votes:     votesByItem[item.ItemID],
			Reactions: reactionsByItem[item.ItemID],
		})
	}

	snapshot := entities.Snapshot{Session: session, Columns: make([]entities.ColumnSnapshot, 0, len(columnRows))}
	for _, row := range columnRows {
		column := row.toEntity()
		snapshot.Columns = append(snapshot.Columns, entities.ColumnSnapshot{
			Column: column,
			Items:  itemsByColumn[column.ColumnID],
		})
	}
	for _, row := range actionRows {
		snapshot.Actions = append(snapshot.Actions, row.toEntity())
	}
	return snapshot, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "collaboration/board-sync-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("board repository call failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type sessionModel struct {
	ID             string    `gorm:"column:id;primaryKey"`
	Title          string    `gorm:"column:title"`
	Tags           string    `gorm:"column:tags"`
	Creator        string    `gorm:"column:creator"`
	TeamID         string    `gorm:"column:team_id"`
	Phase          string    `gorm:"column:phase"`
	PhaseStartTime time.Time `gorm:"column:phase_start_time"`
	InputDuration  *int      `gorm:"column:input_duration"`
	VotingDuration *int      `gorm:"column:voting_duration"`
	ReviewDuration *int      `gorm:"column:review_duration"`
	Anonymous      bool      `gorm:"column:anonymous"`
	CreatedAt      time.Time `gorm:"column:created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at"`
}

func (sessionModel) TableName() string {
	return "retro_sessions"
}

func (m sessionModel) toEntity() entities.Session {
	return entities.Session{
		SessionID:      m.ID,
		Title:          m.Title,
		Tags:           m.Tags,
		Creator:        m.Creator,
		TeamID:         m.TeamID,
		Phase:          entities.Phase(m.Phase),
		PhaseStartTime: m.PhaseStartTime,
		InputDuration:  m.InputDuration,
		VotingDuration: m.VotingDuration,
		ReviewDuration: m.ReviewDuration,
		Anonymous:      m.Anonymous,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

type columnModel struct {
	ID        string `gorm:"column:id;primaryKey"`
	SessionID string `gorm:"column:session_id"`
	Title     string `gorm:"column:title"`
	Type      string `gorm:"column:type"`
	Position  int    `gorm:"column:position"`
}

func (columnModel) TableName() string {
	return "retro_columns"
}

func (m columnModel) toEntity() entities.Column {
	return entities.Column{
		ColumnID:  m.ID,
		SessionID: m.SessionID,
		Title:     m.Title,
		Type:      entities.ColumnType(m.Type),
		Position:  m.Position,
	}
}

type itemModel struct {
	ID         string    `gorm:"column:id;primaryKey"`
	ColumnID   string    `gorm:"column:column_id"`
	Content    string    `gorm:"column:content"`
	Summary    string    `gorm:"column:summary"`
	AuthorID   string    `gorm:"column:author_id"`
	AuthorName string    `gorm:"column:author_name"`
	SortOrder  int       `gorm:"column:sort_order"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (itemModel) TableName() string {
	return "retro_items"
}

func itemModelFromEntity(item entities.Item) itemModel {
	return itemModel{
		ID:         strings.TrimSpace(item.ItemID),
		ColumnID:   strings.TrimSpace(item.ColumnID),
		Content:    item.Content,
		Summary:    item.Summary,
		AuthorID:   strings.TrimSpace(item.AuthorID),
		AuthorName: item.AuthorName,
		SortOrder:  item.Order,
		CreatedAt:  item.CreatedAt,
		UpdatedAt:  item.UpdatedAt,
	}
}

func (m itemModel) toEntity() entities.Item {
	return entities.Item{
		ItemID:     m.ID,
		ColumnID:   m.ColumnID,
		Content:    m.Content,
		Summary:    m.Summary,
		AuthorID:   m.AuthorID,
		AuthorName: m.AuthorName,
		Order:      m.SortOrder,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

type voteModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	ItemID        string    `gorm:"column:item_id"`
	ParticipantID string    `gorm:"column:participant_id"`
	Count         int       `gorm:"column:count"`
	CreatedAt     time.Time `gorm:"column:created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at"`
}

func (voteModel) TableName() string {
	return "retro_votes"
}

func voteModelFromEntity(vote entities.Vote) voteModel {
	return voteModel{
		ID:            strings.TrimSpace(vote.VoteID),
		ItemID:        strings.TrimSpace(vote.ItemID),
		ParticipantID: strings.TrimSpace(vote.ParticipantID),
		Count:         vote.Count,
		CreatedAt:     vote.CreatedAt,
		UpdatedAt:     vote.UpdatedAt,
	}
}

func (m voteModel) toEntity() entities.Vote {
	return entities.Vote{
		VoteID:        m.ID,
		ItemID:        m.ItemID,
		ParticipantID: m.ParticipantID,
		Count:         m.Count,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

type reactionModel struct {
	ID            string    `gorm:"column:id;primaryKey"`
	ItemID        string    `gorm:"column:item_id"`
	ParticipantID string    `gorm:"column:participant_id"`
	Emoji         string    `gorm:"column:emoji"`
	CreatedAt     time.Time `gorm:"column:created_at"`
}

func (reactionModel) TableName() string {
	return "retro_reactions"
}

func reactionModelFromEntity(reaction entities.Reaction) reactionModel {
	return reactionModel{
		ID:            strings.TrimSpace(reaction.ReactionID),
		ItemID:        strings.TrimSpace(reaction.ItemID),
		ParticipantID: strings.TrimSpace(reaction.ParticipantID),
		Emoji:         strings.TrimSpace(reaction.Emoji),
		CreatedAt:     reaction.CreatedAt,
	}
}

func (m reactionModel) toEntity() entities.Reaction {
	return entities.Reaction{
		ReactionID:    m.ID,
		ItemID:        m.ItemID,
		ParticipantID: m.ParticipantID,
		Emoji:         m.Emoji,
		CreatedAt:     m.CreatedAt,
	}
}

type actionModel struct {
	ID        string    `gorm:"column:id;primaryKey"`
	SessionID string    `gorm:"column:session_id"`
	Content   string    `gorm:"column:content"`
	Completed bool      `gorm:"column:completed"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (actionModel) TableName() string {
	return "retro_actions"
}

func actionModelFromEntity(action entities.ActionItem) actionModel {
	return actionModel{
		ID:        strings.TrimSpace(action.ActionID),
		SessionID: strings.TrimSpace(action.SessionID),
		Content:   action.Content,
		Completed: action.Completed,
		CreatedAt: action.CreatedAt,
		UpdatedAt: action.UpdatedAt,
	}
}

func (m actionModel) toEntity() entities.ActionItem {
	return entities.ActionItem{
		ActionID:  m.ID,
		SessionID: m.SessionID,
		Content:   m.Content,
		Completed: m.Completed,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
