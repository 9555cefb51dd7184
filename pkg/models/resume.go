package models

// PersonalInfo carries the applicant's contact details and summary text.
// Every free-text field is untrusted and escaped by the engine before it
// reaches LaTeX.
type PersonalInfo struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone,omitempty"`
	Address  string `json:"address,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Github   string `json:"github,omitempty"`
	Summary  string `json:"summary,omitempty"`
}

// Education represents a single educational qualification
type Education struct {
	School    string `json:"school" validate:"required"`
	Degree    string `json:"degree" validate:"required"`
	StartDate string `json:"start_date,omitempty"`
	EndDate   string `json:"end_date,omitempty"`
	Location  string `json:"location,omitempty"`
	GPA       string `json:"gpa,omitempty"`
}

// Experience represents a single work experience entry. Highlights are
// already-segmented bullet points; Description is a fallback for callers
// that only have a prose blob.
type Experience struct {
	Title       string   `json:"title" validate:"required"`
	Company     string   `json:"company" validate:"required"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Location    string   `json:"location,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Project represents a single project entry
type Project struct {
	Name        string   `json:"name" validate:"required"`
	Tagline     string   `json:"tagline,omitempty"` // e.g. the tech stack line
	EndDate     string   `json:"end_date,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
	Description string   `json:"description,omitempty"`
}

// SkillCategory is one named group of technical skills. Categories are a
// list rather than a map so the caller's ordering survives into the
// rendered document.
type SkillCategory struct {
	Category string   `json:"category" validate:"required"`
	Skills   []string `json:"skills" validate:"required,min=1"`
}

// ResumeData is the aggregate engine input. List ordering is
// caller-significant and preserved verbatim; most-recent-first is a caller
// convention, not enforced here.
type ResumeData struct {
	Info            PersonalInfo    `json:"information"`
	Education       []Education     `json:"education,omitempty" validate:"dive"`
	Experience      []Experience    `json:"experience,omitempty" validate:"dive"`
	Projects        []Project       `json:"projects,omitempty" validate:"dive"`
	TechnicalSkills []SkillCategory `json:"technical_skills,omitempty" validate:"dive"`
	SoftSkills      []string        `json:"soft_skills,omitempty"`
}

// OutputFormat selects what the engine produces
type OutputFormat string

const (
	FormatRendered OutputFormat = "rendered" // compiled PDF only
	FormatSource   OutputFormat = "source"   // composed LaTeX only, compiler never runs
	FormatBoth     OutputFormat = "both"
)

// Valid reports whether the selector is one of the known formats
func (f OutputFormat) Valid() bool {
	switch f {
	case FormatRendered, FormatSource, FormatBoth:
		return true
	}
	return false
}

// WantsRendered reports whether a compiled PDF is part of the requested output
func (f OutputFormat) WantsRendered() bool {
	return f == FormatRendered || f == FormatBoth
}

// WantsSource reports whether the composed LaTeX source is part of the
// requested output
func (f OutputFormat) WantsSource() bool {
	return f == FormatSource || f == FormatBoth
}

// CreateResumeRequest is the wire request for resume compilation
type CreateResumeRequest struct {
	ResumeData
	TemplateID   string       `json:"template_id,omitempty" validate:"omitempty,template_id"`
	OutputFormat OutputFormat `json:"output_format,omitempty" validate:"omitempty,output_format"`
}
