// internal/models/match.go
package models

import "time"

// Feedback is a seeker's reaction to a recommended posting.
type Feedback string

const (
	FeedbackThumbsUp   Feedback = "thumbs_up"
	FeedbackThumbsDown Feedback = "thumbs_down"
)

func (f Feedback) Valid() bool {
	return f == FeedbackThumbsUp || f == FeedbackThumbsDown
}

// MatchScores holds the four sub-scores of a profile/posting pair, each in [0, 100].
type MatchScores struct {
	MatchScore    int `json:"matchScore"`
	SkillMatch    int `json:"skillMatch"`
	LocationMatch int `json:"locationMatch"`
	RoleMatch     int `json:"roleMatch"`
}

// MatchRecord is the persisted score cache for a (UserID, JobID) pair.
type MatchRecord struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"userId" db:"user_id"`
	JobID        string    `json:"jobId" db:"job_id"`
	MatchScores
	UserFeedback *Feedback `json:"userFeedback,omitempty" db:"user_feedback"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// Recommendation is a posting returned by the recommendation generator with its scores attached.
type Recommendation struct {
	Job    JobPosting  `json:"job"`
	Scores MatchScores `json:"scores"`
}

// CandidateMatch is an ephemeral scout result; it is never persisted.
type CandidateMatch struct {
	UserID            string   `json:"userId"`
	Name              string   `json:"name,omitempty"`
	Skills            string   `json:"skills"`
	DesiredRoles      string   `json:"desiredRoles"`
	ExperienceLevel   string   `json:"experienceLevel"`
	PreferredLocation string   `json:"preferredLocation"`
	MatchScore        int      `json:"matchScore"`
	SkillMatchScore   int      `json:"skillMatchScore"`
	ExperienceBonus   int      `json:"experienceBonus"`
	MatchedSkills     []string `json:"matchedSkills"`
}
