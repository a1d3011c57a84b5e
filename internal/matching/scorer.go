// internal/matching/scorer.go
package matching

import (
	"math"
	"strings"

	"matching-workers/internal/models"
)

// Scorer computes the pairwise profile/posting sub-scores. It holds no
// mutable state and is safe for concurrent use.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights.WithDefaults()}
}

// Score returns the four sub-scores for profile against job. A nil profile or
// job yields the zero tuple.
func (s *Scorer) Score(profile *models.JobSeekerProfile, job *models.JobPosting) models.MatchScores {
	if profile == nil || job == nil {
		return models.MatchScores{}
	}

	searchable := searchableText(job)
	roleText := strings.ToLower(strings.Join([]string{job.Title, job.Category, searchable}, " "))

	skill := s.overlap(Tokenize(profile.Skills), searchable)
	role := s.overlap(Tokenize(profile.DesiredRoles), roleText)

	return models.MatchScores{
		MatchScore:    composite(skill, role),
		SkillMatch:    skill,
		LocationMatch: 0, // not scored: every posting sits in the same service area
		RoleMatch:     role,
	}
}

// overlap credits PhraseWeight per whole phrase and WordWeight per word found
// in text, then scales the tally by the number of words.
func (s *Scorer) overlap(tokens Tokens, text string) int {
	if tokens.Empty() || text == "" {
		return 0
	}

	tally := 0
	for _, phrase := range tokens.Phrases {
		if strings.Contains(text, phrase) {
			tally += s.weights.PhraseWeight
		}
	}
	for _, word := range tokens.Words {
		if strings.Contains(text, word) {
			tally += s.weights.WordWeight
		}
	}
	if tally <= 0 {
		return 0
	}

	total := len(tokens.Words)
	if total < 1 {
		total = 1
	}
	score := math.Round(float64(tally) / float64(total) * float64(s.weights.ScoreMultiplier))
	return clamp(int(score))
}

func searchableText(job *models.JobPosting) string {
	return strings.ToLower(strings.Join([]string{
		job.Title,
		job.Description,
		job.Requirements,
		job.Category,
		job.RequiredSkills,
		job.Benefits,
		job.Company,
	}, " "))
}

func composite(skill, role int) int {
	return clamp(int(math.Round(float64(skill)*compositeShare + float64(role)*(1-compositeShare))))
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > maxScore {
		return maxScore
	}
	return v
}
