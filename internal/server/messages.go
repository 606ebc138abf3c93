package server

import (
	"rift-rewind/internal/api"
	"rift-rewind/internal/domain"
	"rift-rewind/internal/heatmap"
	"rift-rewind/internal/pipeline"
)

type SearchRequest struct {
	RiotID string `json:"riotId"`
	Region string `json:"region"`
}

type SearchResponse struct {
	SessionID string                 `json:"sessionId"`
	Steps     []pipeline.Progress    `json:"steps"`
	Player    domain.PlayerIdentity  `json:"player"`
	Receipt   *api.ProcessingReceipt `json:"receipt"`
}

// SessionRequest is the empty body of session-scoped reads; the session
// travels in the X-Session-ID header.
type SessionRequest struct{}

type HeatmapPlanRequest struct {
	Intensity int    `json:"intensity"`
	Mode      string `json:"mode"`
}

type HeatmapPlanResponse struct {
	Size     heatmap.Size        `json:"size"`
	Config   domain.RenderConfig `json:"config"`
	Points   int                 `json:"points"`
	Commands []heatmap.Command   `json:"commands"`
}
