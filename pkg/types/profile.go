package types

import "strings"

// Profile is one complete CV record: the contact block, objective and
// skills, plus ordered education and work-experience children.
type Profile struct {
	ID            int64  `json:"id,omitempty" yaml:"id,omitempty"`
	ProfileName   string `json:"profile_name" yaml:"profile_name"` // Unique key chosen on "save as new".
	Name          string `json:"name" yaml:"name" validate:"notblank" label:"Full Name"`
	ContactNumber string `json:"contact_number" yaml:"contact_number" validate:"notblank" label:"Contact Number"`
	Email         string `json:"email" yaml:"email" validate:"notblank" label:"Email Address"`
	Location      string `json:"location" yaml:"location" validate:"notblank" label:"Location"`
	Objective     string `json:"objective" yaml:"objective" validate:"notblank" label:"Career Objective"`
	Skills        string `json:"skills" yaml:"skills" validate:"notblank" label:"Skills"`
	PhotoPath     string `json:"photo_path,omitempty" yaml:"photo_path,omitempty"` // Empty means no photo.

	Education  []EducationEntry  `json:"education,omitempty" yaml:"education,omitempty"`
	Experience []ExperienceEntry `json:"experience,omitempty" yaml:"experience,omitempty"`
}

// EducationEntry belongs to exactly one profile. Order is storage order.
type EducationEntry struct {
	Course         string `json:"course" yaml:"course"`
	YearCompletion string `json:"year_completion" yaml:"year_completion"`
	Grade          string `json:"grade" yaml:"grade"`
	Institution    string `json:"institution" yaml:"institution"`
}

// ExperienceEntry belongs to exactly one profile.
type ExperienceEntry struct {
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
	Duration    string `json:"duration" yaml:"duration"`
}

// ProfileRef is one row of the profile picker: id and unique name.
type ProfileRef struct {
	ID   int64  `json:"id"`
	Name string `json:"profile_name"`
}

// Validate is the save gate: full name, contact number, email, location,
// objective and skills must be non-blank after trimming. The photo is not
// checked here.
func (p *Profile) Validate() error {
	return validateStruct(p)
}

// ValidateForExport applies the save gate and additionally requires a photo.
func (p *Profile) ValidateForExport() error {
	err := p.Validate()
	if strings.TrimSpace(p.PhotoPath) != "" {
		return err
	}
	ve, ok := err.(*ValidationError)
	if err != nil && !ok {
		return err
	}
	if ve == nil {
		ve = &ValidationError{}
	}
	ve.Missing = append(ve.Missing, "Photo")
	return ve
}

// Kept reports whether the entry carries enough to be persisted: a course
// or an institution.
func (e EducationEntry) Kept() bool {
	return !isBlank(e.Course) || !isBlank(e.Institution)
}

// Kept reports whether the entry has a title.
func (e ExperienceEntry) Kept() bool {
	return !isBlank(e.Title)
}

// KeptEducation returns the education entries that survive a save, in order.
func (p *Profile) KeptEducation() []EducationEntry {
	var kept []EducationEntry
	for _, e := range p.Education {
		if e.Kept() {
			kept = append(kept, e)
		}
	}
	return kept
}

// KeptExperience returns the experience entries that survive a save, in order.
func (p *Profile) KeptExperience() []ExperienceEntry {
	var kept []ExperienceEntry
	for _, e := range p.Experience {
		if e.Kept() {
			kept = append(kept, e)
		}
	}
	return kept
}

// DefaultFileName is the suggested export name for a CV: the full name with
// spaces replaced by underscores, plus "_CV.pdf".
func DefaultFileName(fullName string) string {
	return strings.ReplaceAll(fullName, " ", "_") + "_CV.pdf"
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
