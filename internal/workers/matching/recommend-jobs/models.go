// internal/workers/matching/recommend-jobs/models.go
package recommendjobs

import "matching-workers/internal/models"

type Input struct {
	UserID string `json:"userId"`
	// Limit <= 0 selects the engine's default limit.
	Limit int `json:"limit,omitempty"`
}

type Output struct {
	Recommendations []models.Recommendation `json:"recommendations"`
	Count           int                     `json:"count"`
}
