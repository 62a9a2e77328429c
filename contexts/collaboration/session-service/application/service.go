package application

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	domainerrors "retroboard/contexts/collaboration/session-service/domain/errors"
	"retroboard/contexts/collaboration/session-service/ports"
)

// Seeded column layout every new retro starts with.
var defaultColumns = []struct {
	Title string
	Type  string
}{
	{Title: "What went well", Type: "went-well"},
	{Title: "What didn't go well", Type: "didnt-go-well"},
	{Title: "What should we improve", Type: "improve"},
}

const initialPhase = "INPUT"

type Service struct {
	Repo   ports.Repository
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

// CreateRetro opens a new session in the input phase with the three
// canonical columns already in place.
func (s Service) CreateRetro(ctx context.Context, input ports.CreateRetroInput) (ports.Retro, error) {
	if strings.TrimSpace(input.Title) == "" {
		return ports.Retro{}, domainerrors.ErrInvalidRequest
	}
	creator := strings.TrimSpace(input.Creator)
	if creator == "" {
		creator = "anonymous"
	}

	retroID, err := s.IDGen.NewID(ctx)
	if err != nil {
		return ports.Retro{}, err
	}
	now := s.now()
	retro := ports.Retro{
		RetroID:        retroID,
		Title:          strings.TrimSpace(input.Title),
		Tags:           strings.TrimSpace(input.Tags),
		Creator:        creator,
		TeamID:         strings.TrimSpace(input.TeamID),
		Phase:          initialPhase,
		PhaseStartTime: now,
		InputDuration:  input.InputDuration,
		VotingDuration: input.VotingDuration,
		ReviewDuration: input.ReviewDuration,
		Anonymous:      input.Anonymous,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	columns := make([]ports.RetroColumn, 0, len(defaultColumns))
	for position, column := range defaultColumns {
		columnID, err := s.IDGen.NewID(ctx)
		if err != nil {
			return ports.Retro{}, err
		}
		columns = append(columns, ports.RetroColumn{
			ColumnID: columnID,
			RetroID:  retroID,
			Title:    column.Title,
			Type:     column.Type,
			Position: position,
		})
	}

	if err := s.Repo.CreateRetro(ctx, retro, columns); err != nil {
		return ports.Retro{}, err
	}
	resolveLogger(s.Logger).Info("retro created",
		"event", "session_retro_created",
		"module", "collaboration/session-service",
		"layer", "application",
		"retro_id", retroID,
		"creator", creator,
	)
	return retro, nil
}

func (s Service) GetRetro(ctx context.Context, retroID string) (ports.Retro, error) {
	if strings.TrimSpace(retroID) == "" {
		return ports.Retro{}, domainerrors.ErrInvalidRequest
	}
	return s.Repo.GetRetro(ctx, retroID)
}

// RetroHistory lists all sessions, newest first.
func (s Service) RetroHistory(ctx context.Context) ([]ports.Retro, error) {
	return s.Repo.ListRetros(ctx)
}

// UniqueTags returns the distinct tags used across all sessions, sorted
// alphabetically. Tags are stored comma-separated per session.
func (s Service) UniqueTags(ctx context.Context) ([]string, error) {
	counts, err := s.tagCounts(ctx)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags, nil
}

// PopularTags returns up to limit tags ordered by usage count, ties
// broken alphabetically.
func (s Service) PopularTags(ctx context.Context, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	counts, err := s.tagCounts(ctx)
	if err != nil {
		return nil, err
	}
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Slice(tags, func(i, j int) bool {
		if counts[tags[i]] != counts[tags[j]] {
			return counts[tags[i]] > counts[tags[j]]
		}
		return tags[i] < tags[j]
	})
	if len(tags) > limit {
		tags = tags[:limit]
	}
	return tags, nil
}

func (s Service) tagCounts(ctx context.Context) (map[string]int, error) {
	raw, err := s.Repo.ListTags(ctx)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, entry := range raw {
		for _, tag := range strings.Split(entry, ",") {
			tag = strings.TrimSpace(tag)
			if tag == "" {
				continue
			}
			counts[tag]++
		}
	}
	return counts, nil
}

func (s Service) now() time.Time {
	if s.Clock == nil {
		return time.Now().UTC()
	}
	return s.Clock.Now()
}
