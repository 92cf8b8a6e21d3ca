package model

import "strings"

// Go models that match schema/resume.schema.json, used for validation and rendering.

type Contact struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	LinkedIn string `json:"linkedin,omitempty"`
}

type Experience struct {
	ID          string `json:"id"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	Description string `json:"description"`
}

type Education struct {
	ID        string `json:"id"`
	School    string `json:"school"`
	Degree    string `json:"degree"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

type Project struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Award struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

type Activity struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ResumeDocument is the immutable snapshot handed to the renderer. Dates are
// display strings and IDs only give list items a stable identity.
type ResumeDocument struct {
	Contact    Contact      `json:"contact"`
	Summary    string       `json:"summary"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	Skills     []string     `json:"skills"`
	Languages  []string     `json:"languages"`
	Projects   []Project    `json:"projects"`
	Awards     []Award      `json:"awards"`
	Activities []Activity   `json:"activities"`
}

// IsEmpty reports a document with no contact name and nothing to put in a
// section. Rendering such a document still yields a header-only page.
func (d ResumeDocument) IsEmpty() bool {
	return strings.TrimSpace(d.Contact.Name) == "" &&
		strings.TrimSpace(d.Summary) == "" &&
		len(d.Experience) == 0 &&
		len(d.Education) == 0 &&
		len(d.Skills) == 0 &&
		len(d.Languages) == 0 &&
		len(d.Projects) == 0 &&
		len(d.Awards) == 0 &&
		len(d.Activities) == 0
}
