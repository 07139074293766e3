package models

// RecommendDraftRequest is the incoming draft state for a recommendation.
type RecommendDraftRequest struct {
	Username string `json:"username,omitempty"`
	Region   Region `json:"region,omitempty"`

	Role    Role     `json:"role" validate:"required"`
	Allies  []string `json:"allies"`
	Enemies []string `json:"enemies"`
	Bans    []string `json:"bans"`

	TopK int `json:"top_k" validate:"omitempty,gte=1,lte=50"`
}

// Recommendation is one ranked candidate in the response.
type Recommendation struct {
	Champion    string   `json:"champion"`
	Score       float64  `json:"score"`
	Reasons     []string `json:"reasons"`
	Explanation string   `json:"explanation,omitempty"`
}

// RecommendDraftResponse echoes the draft state alongside the ranked picks.
type RecommendDraftResponse struct {
	Role            Role             `json:"role"`
	Allies          []string         `json:"allies"`
	Enemies         []string         `json:"enemies"`
	Bans            []string         `json:"bans"`
	Recommendations []Recommendation `json:"recommendations"`
}

// ModelVersionsResponse lists registered model versions, newest first.
type ModelVersionsResponse struct {
	Versions []VersionInfo `json:"versions"`
}

// TrainResponse reports the outcome of a training trigger.
type TrainResponse struct {
	RunID     string `json:"run_id,omitempty"`
	Version   string `json:"version,omitempty"`
	RowsCount int    `json:"rows_count,omitempty"`
	Message   string `json:"message"`
}
