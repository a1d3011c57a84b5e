// internal/matching/weights.go
package matching

// Default tuning values.
const (
	DefaultPhraseWeight        = 3
	DefaultWordWeight          = 1
	DefaultScoreMultiplier     = 300
	DefaultRecommendationFloor = 6
	DefaultLimit               = 20
	DefaultExperienceBonus     = 20
	DefaultScoutSkillWeight    = 3
	DefaultScoutRoleWeight     = 2
	DefaultScoutTextWeight     = 1
)

// compositeShare is the share of skillMatch (and, complementarily, roleMatch) in matchScore.
const compositeShare = 0.5

const maxScore = 100

// Weights carries every tunable constant used by the scorers.
type Weights struct {
	PhraseWeight        int `mapstructure:"phrase_weight"`
	WordWeight          int `mapstructure:"word_weight"`
	ScoreMultiplier     int `mapstructure:"score_multiplier"`
	RecommendationFloor int `mapstructure:"recommendation_floor"`
	DefaultLimit        int `mapstructure:"default_limit"`
	ExperienceBonus     int `mapstructure:"experience_bonus"`
	ScoutSkillWeight    int `mapstructure:"scout_skill_weight"`
	ScoutRoleWeight     int `mapstructure:"scout_role_weight"`
	ScoutTextWeight     int `mapstructure:"scout_text_weight"`
}

func DefaultWeights() Weights {
	return Weights{
		PhraseWeight:        DefaultPhraseWeight,
		WordWeight:          DefaultWordWeight,
		ScoreMultiplier:     DefaultScoreMultiplier,
		RecommendationFloor: DefaultRecommendationFloor,
		DefaultLimit:        DefaultLimit,
		ExperienceBonus:     DefaultExperienceBonus,
		ScoutSkillWeight:    DefaultScoutSkillWeight,
		ScoutRoleWeight:     DefaultScoutRoleWeight,
		ScoutTextWeight:     DefaultScoutTextWeight,
	}
}

// WithDefaults returns a copy of w where every zero field is replaced by its default.
func (w Weights) WithDefaults() Weights {
	d := DefaultWeights()
	if w.PhraseWeight == 0 {
		w.PhraseWeight = d.PhraseWeight
	}
	if w.WordWeight == 0 {
		w.WordWeight = d.WordWeight
	}
	if w.ScoreMultiplier == 0 {
		w.ScoreMultiplier = d.ScoreMultiplier
	}
	if w.RecommendationFloor == 0 {
		w.RecommendationFloor = d.RecommendationFloor
	}
	if w.DefaultLimit == 0 {
		w.DefaultLimit = d.DefaultLimit
	}
	if w.ExperienceBonus == 0 {
		w.ExperienceBonus = d.ExperienceBonus
	}
	if w.ScoutSkillWeight == 0 {
		w.ScoutSkillWeight = d.ScoutSkillWeight
	}
	if w.ScoutRoleWeight == 0 {
		w.ScoutRoleWeight = d.ScoutRoleWeight
	}
	if w.ScoutTextWeight == 0 {
		w.ScoutTextWeight = d.ScoutTextWeight
	}
	return w
}
