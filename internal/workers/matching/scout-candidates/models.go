// internal/workers/matching/scout-candidates/models.go
package scoutcandidates

import "matching-workers/internal/models"

type Input struct {
	Skills          []string `json:"skills"`
	ExperienceLevel string   `json:"experienceLevel,omitempty"`
	Location        string   `json:"location,omitempty"`
}

type Output struct {
	Candidates []models.CandidateMatch `json:"candidates"`
	Count      int                     `json:"count"`
}
