package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type RetroDTO struct {
	RetroID        string `json:"retro_id"`
	Title          string `json:"title"`
	Tags           string `json:"tags,omitempty"`
	Creator        string `json:"creator"`
	TeamID         string `json:"team_id,omitempty"`
	Phase          string `json:"phase"`
	PhaseStartTime string `json:"phase_start_time"`
	InputDuration  *int   `json:"input_duration,omitempty"`
	VotingDuration *int   `json:"voting_duration,omitempty"`
	ReviewDuration *int   `json:"review_duration,omitempty"`
	Anonymous      bool   `json:"anonymous"`
	CreatedAt      string `json:"created_at"`
}

type CreateRetroRequest struct {
	Title          string `json:"title"`
	Tags           string `json:"tags,omitempty"`
	Creator        string `json:"creator,omitempty"`
	TeamID         string `json:"team_id,omitempty"`
	Anonymous      bool   `json:"anonymous,omitempty"`
	InputDuration  *int   `json:"input_duration,omitempty"`
	VotingDuration *int   `json:"voting_duration,omitempty"`
	ReviewDuration *int   `json:"review_duration,omitempty"`
}

type CreateRetroResponse struct {
	Status string `json:"status"`
	Data   struct {
		Retro RetroDTO `json:"retro"`
	} `json:"data"`
}

type GetRetroResponse struct {
	Status string `json:"status"`
	Data   struct {
		Retro RetroDTO `json:"retro"`
	} `json:"data"`
}

type ListRetrosResponse struct {
	Status string `json:"status"`
	Data   struct {
		Retros []RetroDTO `json:"retros"`
	} `json:"data"`
}

type TagsResponse struct {
	Status string `json:"status"`
	Data   struct {
		Tags []string `json:"tags"`
	} `json:"data"`
}
