package models

import "time"

// MaxResumesPerUser caps how many resumes one user can keep
const MaxResumesPerUser = 10

// ResumeTemplate selects the rendering layout
type ResumeTemplate string

const (
	TemplateClassic ResumeTemplate = "classic"
	TemplateModern  ResumeTemplate = "modern"
)

// Resume is a user-owned resume document
type Resume struct {
	ID        int64          `json:"id" db:"id"`
	UserID    int64          `json:"userId" db:"user_id"`
	Title     string         `json:"title" db:"title"`
	Template  ResumeTemplate `json:"template" db:"template"`
	Data      ResumeData     `json:"data" db:"data"`
	CreatedAt time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time      `json:"updatedAt" db:"updated_at"`
}

// ResumeData is stored as jsonb
type ResumeData struct {
	Personal   PersonalInfo      `json:"personal"`
	Summary    string            `json:"summary"`
	Education  []EducationEntry  `json:"education"`
	Experience []ExperienceEntry `json:"experience"`
	Projects   []ProjectEntry    `json:"projects"`
	Skills     []string          `json:"skills"`
}

type PersonalInfo struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
}

type EducationEntry struct {
	School    string `json:"school"`
	Degree    string `json:"degree"`
	Field     string `json:"field"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type ExperienceEntry struct {
	Company     string   `json:"company"`
	Role        string   `json:"role"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Highlights  []string `json:"highlights"`
	Description string   `json:"description"`
}

type ProjectEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	URL         string `json:"url"`
}
