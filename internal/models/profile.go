// internal/models/profile.go
package models

const (
	RoleJobSeeker = "jobseeker"
	RoleEmployer  = "employer"

	// AnyLocation is the sentinel stored in PreferredLocation when the seeker has no preference.
	AnyLocation = "Any Location"
)

// JobSeekerProfile is the read-only view of a seeker used for matching.
type JobSeekerProfile struct {
	UserID            string `json:"userId" db:"id"`
	Name              string `json:"name,omitempty" db:"name"`
	Role              string `json:"role" db:"role"`
	IsActive          bool   `json:"isActive" db:"is_active"`
	Skills            string `json:"skills" db:"skills"`
	DesiredRoles      string `json:"desiredRoles" db:"desired_roles"`
	ExperienceLevel   string `json:"experienceLevel" db:"experience_level"`
	PreferredLocation string `json:"preferredLocation" db:"preferred_location"`
}

func (p *JobSeekerProfile) IsJobSeeker() bool {
	return p != nil && p.Role == RoleJobSeeker
}
