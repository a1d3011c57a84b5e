// internal/workers/matching/compute-match/models.go
package computematch

type Input struct {
	UserID string `json:"userId"`
	JobID  string `json:"jobId"`
}

type Output struct {
	MatchScore    int `json:"matchScore"`
	SkillMatch    int `json:"skillMatch"`
	LocationMatch int `json:"locationMatch"`
	RoleMatch     int `json:"roleMatch"`
}
