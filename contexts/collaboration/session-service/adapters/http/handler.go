package httpadapter

import (
	"context"
	"log/slog"
	"time"

	"retroboard/contexts/collaboration/session-service/application"
	"retroboard/contexts/collaboration/session-service/ports"
	httptransport "retroboard/contexts/collaboration/session-service/transport/http"
)

type Handler struct {
	Service application.Service
	Logger  *slog.Logger
}

// CreateRetroHandler godoc
// @Summary Create a retrospective session
// @Tags retros
// @Accept json
// @Produce json
// @Param request body httptransport.CreateRetroRequest true "retro attributes"
// @Success 201 {object} httptransport.CreateRetroResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Router /api/retros [post]
func (h Handler) CreateRetroHandler(ctx context.Context, req httptransport.CreateRetroRequest) (httptransport.CreateRetroResponse, error) {
	retro, err := h.Service.CreateRetro(ctx, ports.CreateRetroInput{
		Title:          req.Title,
		Tags:           req.Tags,
		Creator:        req.Creator,
		TeamID:         req.TeamID,
		Anonymous:      req.Anonymous,
		InputDuration:  req.InputDuration,
		VotingDuration: req.VotingDuration,
		ReviewDuration: req.ReviewDuration,
	})
	if err != nil {
		return httptransport.CreateRetroResponse{}, err
	}
	resp := httptransport.CreateRetroResponse{Status: "success"}
	resp.Data.Retro = toRetroDTO(retro)
	return resp, nil
}

// GetRetroHandler godoc
// @Summary Fetch one retrospective session
// @Tags retros
// @Produce json
// @Param retro_id path string true "retro id"
// @Success 200 {object} httptransport.GetRetroResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /api/retros/{retro_id} [get]
func (h Handler) GetRetroHandler(ctx context.Context, retroID string) (httptransport.GetRetroResponse, error) {
	retro, err := h.Service.GetRetro(ctx, retroID)
	if err != nil {
		return httptransport.GetRetroResponse{}, err
	}
	resp := httptransport.GetRetroResponse{Status: "success"}
	resp.Data.Retro = toRetroDTO(retro)
	return resp, nil
}

// ListRetrosHandler godoc
// @Summary List retrospective sessions, newest first
// @Tags retros
// @Produce json
// @Success 200 {object} httptransport.ListRetrosResponse
// @Router /api/retros [get]
func (h Handler) ListRetrosHandler(ctx context.Context) (httptransport.ListRetrosResponse, error) {
	retros, err := h.Service.RetroHistory(ctx)
	if err != nil {
		return httptransport.ListRetrosResponse{}, err
	}
	resp := httptransport.ListRetrosResponse{Status: "success"}
	resp.Data.Retros = make([]httptransport.RetroDTO, 0, len(retros))
	for _, retro := range retros {
		resp.Data.Retros = append(resp.Data.Retros, toRetroDTO(retro))
	}
	return resp, nil
}

// TagsHandler godoc
// @Summary List distinct tags across all sessions
// @Tags tags
// @Produce json
// @Success 200 {object} httptransport.TagsResponse
// @Router /api/tags [get]
func (h Handler) TagsHandler(ctx context.Context) (httptransport.TagsResponse, error) {
	tags, err := h.Service.UniqueTags(ctx)
	if err != nil {
		return httptransport.TagsResponse{}, err
	}
	resp := httptransport.TagsResponse{Status: "success"}
	resp.Data.Tags = tags
	return resp, nil
}

// PopularTagsHandler godoc
// @Summary List most used tags
// @Tags tags
// @Produce json
// @Param limit query int false "max tags returned"
// @Success 200 {object} httptransport.TagsResponse
// @Router /api/tags/popular [get]
func (h Handler) PopularTagsHandler(ctx context.Context, limit int) (httptransport.TagsResponse, error) {
	tags, err := h.Service.PopularTags(ctx, limit)
	if err != nil {
		return httptransport.TagsResponse{}, err
	}
	resp := httptransport.TagsResponse{Status: "success"}
	resp.Data.Tags = tags
	return resp, nil
}

func toRetroDTO(retro ports.Retro) httptransport.RetroDTO {
	return httptransport.RetroDTO{
		RetroID:        retro.RetroID,
		Title:          retro.Title,
		Tags:           retro.Tags,
		Creator:        retro.Creator,
		TeamID:         retro.TeamID,
		Phase:          retro.Phase,
		PhaseStartTime: retro.PhaseStartTime.UTC().Format(time.RFC3339),
		InputDuration:  retro.InputDuration,
		VotingDuration: retro.VotingDuration,
		ReviewDuration: retro.ReviewDuration,
		Anonymous:      retro.Anonymous,
		CreatedAt:      retro.CreatedAt.UTC().Format(time.RFC3339),
	}
}
