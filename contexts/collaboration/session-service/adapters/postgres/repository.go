package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "retroboard/contexts/collaboration/session-service/domain/errors"
	"retroboard/contexts/collaboration/session-service/ports"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Repository persists retro lifecycle records. It shares the session and
// column tables with the board sync engine; each side only touches the
// rows its operations own.
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

func (r *Repository) CreateRetro(ctx context.Context, retro ports.Retro, columns []ports.RetroColumn) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := retroModelFromEntity(retro)
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
		for _, column := range columns {
			columnRow := columnModelFromEntity(column)
			if err := tx.Create(&columnRow).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrConflict
		}
		return r.logError("session_repo_create_retro_failed", err, "retro_id", retro.RetroID)
	}
	return nil
}

func (r *Repository) GetRetro(ctx context.Context, retroID string) (ports.Retro, error) {
	var row retroModel
	err := r.db.WithContext(ctx).
		Where("id = ?", strings.TrimSpace(retroID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Retro{}, domainerrors.ErrRetroNotFound
		}
		return ports.Retro{}, r.logError("session_repo_get_retro_failed", err, "retro_id", strings.TrimSpace(retroID))
	}
	return row.toEntity(), nil
}

func (r *Repository) ListRetros(ctx context.Context) ([]ports.Retro, error) {
	var rows []retroModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).Error; err != nil {
		return nil, r.logError("session_repo_list_retros_failed", err)
	}
	retros := make([]ports.Retro, 0, len(rows))
	for _, row := range rows {
		retros = append(retros, row.toEntity())
	}
	return retros, nil
}

func (r *Repository) ListTags(ctx context.Context) ([]string, error) {
	var tags []string
	err := r.db.WithContext(ctx).Model(&retroModel{}).
		Where("tags <> ''").
		Pluck("tags", &tags).
		Error
	if err != nil {
		return nil, r.logError("session_repo_list_tags_failed", err)
	}
	return tags, nil
}

func (r *Repository) logError(event string, err error, args ...any) error {
	fields := append([]any{
		"event", event,
		"module", "collaboration/session-service",
		"layer", "adapter",
		"error", err.Error(),
	}, args...)
	r.logger.Error("session repository call failed", fields...)
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

type retroModel struct {
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

func (retroModel) TableName() string {
	return "retro_sessions"
}

func retroModelFromEntity(retro ports.Retro) retroModel {
	return retroModel{
		ID:             strings.TrimSpace(retro.RetroID),
		Title:          retro.Title,
		Tags:           retro.Tags,
		Creator:        retro.Creator,
		TeamID:         retro.TeamID,
		Phase:          retro.Phase,
		PhaseStartTime: retro.PhaseStartTime,
		InputDuration:  retro.InputDuration,
		VotingDuration: retro.VotingDuration,
		ReviewDuration: retro.ReviewDuration,
		Anonymous:      retro.Anonymous,
		CreatedAt:      retro.CreatedAt,
		UpdatedAt:      retro.UpdatedAt,
	}
}

func (m retroModel) toEntity() ports.Retro {
	return ports.Retro{
		RetroID:        m.ID,
		Title:          m.Title,
		Tags:           m.Tags,
		Creator:        m.Creator,
		TeamID:         m.TeamID,
		Phase:          m.Phase,
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

func columnModelFromEntity(column ports.RetroColumn) columnModel {
	return columnModel{
		ID:        strings.TrimSpace(column.ColumnID),
		SessionID: strings.TrimSpace(column.RetroID),
		Title:     column.Title,
		Type:      column.Type,
		Position:  column.Position,
	}
}
