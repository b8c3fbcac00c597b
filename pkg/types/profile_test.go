package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProfile() *Profile {
	return &Profile{
		ProfileName:   "default",
		Name:          "Ada Lovelace",
		ContactNumber: "+44 20 7946 0000",
		Email:         "ada@example.com",
		Location:      "London",
		Objective:     "Build analytical engines.",
		Skills:        "Mathematics, Poetry",
	}
}

func TestProfileValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(p *Profile)
		wantMissing []string
	}{
		{
			name:   "complete profile passes",
			mutate: func(p *Profile) {},
		},
		{
			name:   "photo is not required to save",
			mutate: func(p *Profile) { p.PhotoPath = "" },
		},
		{
			name:        "whitespace-only name is missing",
			mutate:      func(p *Profile) { p.Name = "   \t" },
			wantMissing: []string{"Full Name"},
		},
		{
			name: "missing fields are reported in form order",
			mutate: func(p *Profile) {
				p.Skills = ""
				p.Email = ""
				p.Objective = "\n"
			},
			wantMissing: []string{"Email Address", "Career Objective", "Skills"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(p)
			err := p.Validate()
			if tt.wantMissing == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tt.wantMissing, ve.Missing)
		})
	}
}

func TestProfileValidateForExport(t *testing.T) {
	t.Run("photo required", func(t *testing.T) {
		p := validProfile()
		err := p.ValidateForExport()
		require.ErrorIs(t, err, ErrValidation)
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, []string{"Photo"}, ve.Missing)
	})

	t.Run("photo appended after other missing fields", func(t *testing.T) {
		p := validProfile()
		p.Location = ""
		var ve *ValidationError
		require.True(t, errors.As(p.ValidateForExport(), &ve))
		assert.Equal(t, []string{"Location", "Photo"}, ve.Missing)
	})

	t.Run("complete profile with photo passes", func(t *testing.T) {
		p := validProfile()
		p.PhotoPath = "/tmp/me.png"
		assert.NoError(t, p.ValidateForExport())
	})
}

func TestKeptChildren(t *testing.T) {
	p := validProfile()
	p.Education = []EducationEntry{
		{Course: "BSc Mathematics", Institution: "UCL"},
		{Grade: "First"},
		{Institution: "  Open University "},
		{Course: "   ", Institution: "\t", YearCompletion: "2020"},
	}
	p.Experience = []ExperienceEntry{
		{Title: "Analyst", Duration: "1842"},
		{Description: "no title"},
		{Title: " "},
	}

	edu := p.KeptEducation()
	require.Len(t, edu, 2)
	assert.Equal(t, "BSc Mathematics", edu[0].Course)
	assert.Equal(t, "  Open University ", edu[1].Institution)

	exp := p.KeptExperience()
	require.Len(t, exp, 1)
	assert.Equal(t, "Analyst", exp[0].Title)
}

func TestDefaultFileName(t *testing.T) {
	assert.Equal(t, "Ada_Lovelace_CV.pdf", DefaultFileName("Ada Lovelace"))
	assert.Equal(t, "Prince_CV.pdf", DefaultFileName("Prince"))
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(&ValidationError{Missing: []string{"Title"}}))
	assert.True(t, IsUserError(ErrDuplicateName))
	assert.False(t, IsUserError(ErrPersistence))
	assert.False(t, IsUserError(errors.New("boom")))
}
