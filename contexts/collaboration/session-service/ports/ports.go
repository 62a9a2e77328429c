package ports

import (
	"context"
	"time"
)

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// Retro is one retrospective session as the lifecycle service sees it:
// metadata plus the current phase, never the live board content.
type Retro struct {
	RetroID        string
	Title          string
	Tags           string
	Creator        string
	TeamID         string
	Phase          string
	PhaseStartTime time.Time
	InputDuration  *int
	VotingDuration *int
	ReviewDuration *int
	Anonymous      bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type RetroColumn struct {
	ColumnID string
	RetroID  string
	Title    string
	Type     string
	Position int
}

type CreateRetroInput struct {
	Title          string
	Tags           string
	Creator        string
	TeamID         string
	Anonymous      bool
	InputDuration  *int
	VotingDuration *int
	ReviewDuration *int
}

type Repository interface {
	CreateRetro(ctx context.Context, retro Retro, columns []RetroColumn) error
	GetRetro(ctx context.Context, retroID string) (Retro, error)
	ListRetros(ctx context.Context) ([]Retro, error)
	ListTags(ctx context.Context) ([]string, error)
}
