// internal/models/job.go
package models

// JobPosting is the read-only view of a posting used for matching.
type JobPosting struct {
	ID             string `json:"id" db:"id"`
	Title          string `json:"title" db:"title"`
	Description    string `json:"description" db:"description"`
	Requirements   string `json:"requirements" db:"requirements"`
	Category       string `json:"category" db:"category"`
	RequiredSkills string `json:"requiredSkills" db:"required_skills"`
	Benefits       string `json:"benefits" db:"benefits"`
	Company        string `json:"company" db:"company"`
	Location       string `json:"location" db:"location"`
	IsActive       bool   `json:"isActive" db:"is_active"`
}
