// internal/matching/scout.go
package matching

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"matching-workers/internal/common/metrics"
	"matching-workers/internal/models"
)

// ScoutRequest is an employer's candidate search.
type ScoutRequest struct {
	Skills          []string `validate:"required,min=1"`
	ExperienceLevel string
	// Location is accepted for API compatibility; all candidates share one service region.
	Location string
}

// Scout ranks active job seekers against the requested skills. Candidates
// with no matched skill or role phrase are dropped.
func (e *Engine) Scout(ctx context.Context, req ScoutRequest) ([]models.CandidateMatch, error) {
	ctx, span := e.tracer.Start(ctx, "matching.Scout", trace.WithAttributes(
		attribute.Int("requestedSkills", len(req.Skills)),
		attribute.String("experienceLevel", req.ExperienceLevel),
	))
	defer span.End()

	if err := e.validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: skills must be a non-empty list", ErrInvalidSkills)
	}
	skills := normalizeSkills(req.Skills)
	if len(skills) == 0 {
		return nil, fmt.Errorf("%w: skills must contain at least one non-blank entry", ErrInvalidSkills)
	}

	profiles, err := e.profiles.ListCandidates(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("%w: list candidates: %w", ErrProfileLookup, err)
	}

	results := make([]*models.CandidateMatch, len(profiles))
	g := new(errgroup.Group)
	g.SetLimit(e.concurrency)
	for i := range profiles {
		if strings.TrimSpace(profiles[i].Skills) == "" {
			continue
		}
		i := i // per-iteration copy (go.mod targets go1.21)
		g.Go(func() error {
			results[i] = e.scoreCandidate(&profiles[i], skills, req.ExperienceLevel)
			return nil
		})
	}
	_ = g.Wait()
	metrics.ScoresComputed.WithLabelValues("scout").Add(float64(len(profiles)))

	candidates := make([]models.CandidateMatch, 0, len(profiles))
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].MatchScore > candidates[b].MatchScore
	})

	metrics.CandidatesReturned.Observe(float64(len(candidates)))
	e.logger.Info("candidate scout completed", map[string]interface{}{
		"requestedSkills": skills,
		"experienceLevel": req.ExperienceLevel,
		"scanned":         len(profiles),
		"returned":        len(candidates),
	})
	span.SetAttributes(attribute.Int("returned", len(candidates)))

	return candidates, nil
}

// scoreCandidate returns nil when nothing in the profile matched.
func (e *Engine) scoreCandidate(p *models.JobSeekerProfile, skills []string, experienceLevel string) *models.CandidateMatch {
	skillPhrases := Tokenize(p.Skills).Phrases
	rolePhrases := Tokenize(p.DesiredRoles).Phrases
	combined := strings.ToLower(p.Skills + " " + p.DesiredRoles)

	total := 0
	var matched []string
	seen := make(map[string]bool)
	record := func(m string) {
		if !seen[m] {
			seen[m] = true
			matched = append(matched, m)
		}
	}

	for _, skill := range skills {
		found := false
		for _, phrase := range skillPhrases {
			if containsEither(phrase, skill) {
				total += e.weights.ScoutSkillWeight
				record(phrase)
				found = true
			}
		}
		for _, phrase := range rolePhrases {
			if containsEither(phrase, skill) {
				total += e.weights.ScoutRoleWeight
				record(phrase)
				found = true
			}
		}
		if !found && strings.Contains(combined, skill) {
			total += e.weights.ScoutTextWeight
			record(skill)
		}
	}

	if len(matched) == 0 {
		return nil
	}

	skillScore := int(math.Round(float64(total) / float64(len(skills)*e.weights.ScoutSkillWeight) * maxScore))
	if len(matched) >= len(skills) {
		skillScore = maxScore
	}
	skillScore = clamp(skillScore)

	bonus := 0
	if experienceLevel != "" && experienceLevel == p.ExperienceLevel {
		bonus = e.weights.ExperienceBonus
	}

	return &models.CandidateMatch{
		UserID:            p.UserID,
		Name:              p.Name,
		Skills:            p.Skills,
		DesiredRoles:      p.DesiredRoles,
		ExperienceLevel:   p.ExperienceLevel,
		PreferredLocation: p.PreferredLocation,
		MatchScore:        clamp(skillScore + bonus),
		SkillMatchScore:   skillScore,
		ExperienceBonus:   bonus,
		MatchedSkills:     matched,
	}
}

func normalizeSkills(skills []string) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}
