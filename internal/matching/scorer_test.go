package matching

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"matching-workers/internal/models"
)

func TestScorer_Score(t *testing.T) {
	tests := []struct {
		name     string
		profile  *models.JobSeekerProfile
		job      *models.JobPosting
		expected models.MatchScores
	}{
		{
			name:    "required skills cover every profile skill",
			profile: &models.JobSeekerProfile{Skills: "Web Development, JavaScript, React"},
			job: &models.JobPosting{
				Title:          "Frontend Engineer",
				RequiredSkills: "Web Development, JavaScript, React, HTML, CSS",
			},
			expected: models.MatchScores{MatchScore: 50, SkillMatch: 100, RoleMatch: 0},
		},
		{
			name: "partial word overlap and full role match",
			profile: &models.JobSeekerProfile{
				Skills:       "Customer Service Management Skills",
				DesiredRoles: "Driver",
			},
			job: &models.JobPosting{
				Title:       "Delivery Driver",
				Description: "Friendly customer care on every route",
			},
			// skill: 1 word of 4 -> 1/4*300 = 75; role: phrase+word -> 100; (75+100)/2 = 87.5 -> 88
			expected: models.MatchScores{MatchScore: 88, SkillMatch: 75, RoleMatch: 100},
		},
		{
			name:    "half rounds up",
			profile: &models.JobSeekerProfile{Skills: "aa bb cc dd ee ff gg hh"},
			job:     &models.JobPosting{Description: "aa"},
			// 1/8*300 = 37.5 -> 38; 38/2 = 19
			expected: models.MatchScores{MatchScore: 19, SkillMatch: 38},
		},
		{
			name:     "empty profile scores zero",
			profile:  &models.JobSeekerProfile{},
			job:      &models.JobPosting{Title: "Anything", Description: "at all"},
			expected: models.MatchScores{},
		},
		{
			name:     "nothing in common",
			profile:  &models.JobSeekerProfile{Skills: "Welding", DesiredRoles: "Welder"},
			job:      &models.JobPosting{Title: "Accountant", Description: "Spreadsheets"},
			expected: models.MatchScores{},
		},
		{
			name:    "role match uses category and company text",
			profile: &models.JobSeekerProfile{DesiredRoles: "Hospitality"},
			job:     &models.JobPosting{Title: "Host", Category: "Hospitality", Company: "Grand Hotel"},
			// phrase 3 + word 1 = 4/1*300 -> capped at 100
			expected: models.MatchScores{MatchScore: 50, RoleMatch: 100},
		},
		{
			name:     "nil job",
			profile:  &models.JobSeekerProfile{Skills: "Go"},
			job:      nil,
			expected: models.MatchScores{},
		},
		{
			name:     "nil profile",
			profile:  nil,
			job:      &models.JobPosting{Title: "Go developer"},
			expected: models.MatchScores{},
		},
	}

	scorer := NewScorer(DefaultWeights())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scorer.Score(tt.profile, tt.job))
		})
	}
}

func TestScorer_CompositeInvariant(t *testing.T) {
	skills := []string{
		"",
		"Driving",
		"Web Development, JavaScript, React",
		"Customer Service Management Skills",
		"aa bb cc dd ee ff gg hh ii jj",
		"Forklift, Inventory, Shipping and Receiving",
	}
	roles := []string{"", "Driver", "Frontend Developer", "Warehouse Associate, Picker"}
	jobs := []models.JobPosting{
		{Title: "Delivery Driver", Description: "Drive a van", Category: "Logistics"},
		{Title: "Frontend Developer", RequiredSkills: "JavaScript, React", Company: "Acme"},
		{Title: "Warehouse Associate", Requirements: "Forklift license", Benefits: "Shipping discounts"},
		{Title: "aa", Description: "bb cc"},
		{},
	}

	scorer := NewScorer(DefaultWeights())
	for _, s := range skills {
		for _, r := range roles {
			for i := range jobs {
				name := fmt.Sprintf("%q/%q/job-%d", s, r, i)
				scores := scorer.Score(&models.JobSeekerProfile{Skills: s, DesiredRoles: r}, &jobs[i])

				expected := int(math.Round(float64(scores.SkillMatch)*0.5 + float64(scores.RoleMatch)*0.5))
				assert.Equal(t, expected, scores.MatchScore, name)
				assert.Zero(t, scores.LocationMatch, name)
				for _, v := range []int{scores.MatchScore, scores.SkillMatch, scores.RoleMatch} {
					assert.GreaterOrEqual(t, v, 0, name)
					assert.LessOrEqual(t, v, 100, name)
				}
				if s == "" && r == "" {
					assert.Equal(t, models.MatchScores{}, scores, name)
				}
			}
		}
	}
}

func TestScorer_CustomWeights(t *testing.T) {
	scorer := NewScorer(Weights{ScoreMultiplier: 100})
	profile := &models.JobSeekerProfile{Skills: "Customer Service Management Skills"}
	job := &models.JobPosting{Description: "customer care"}

	// 1/4*100 = 25
	assert.Equal(t, 25, scorer.Score(profile, job).SkillMatch)
}

func TestWeights_WithDefaults(t *testing.T) {
	w := Weights{PhraseWeight: 5, RecommendationFloor: 10}.WithDefaults()

	assert.Equal(t, 5, w.PhraseWeight)
	assert.Equal(t, 10, w.RecommendationFloor)
	assert.Equal(t, DefaultWordWeight, w.WordWeight)
	assert.Equal(t, DefaultScoreMultiplier, w.ScoreMultiplier)
	assert.Equal(t, DefaultLimit, w.DefaultLimit)
	assert.Equal(t, DefaultExperienceBonus, w.ExperienceBonus)
	assert.Equal(t, DefaultScoutSkillWeight, w.ScoutSkillWeight)
	assert.Equal(t, DefaultScoutRoleWeight, w.ScoutRoleWeight)
	assert.Equal(t, DefaultScoutTextWeight, w.ScoutTextWeight)
}
