package sqlite

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

func sampleProfile(name string) *types.Profile {
	return &types.Profile{
		ProfileName:   name,
		Name:          "Ada Lovelace",
		ContactNumber: "+44 20 7946 0000",
		Email:         "ada@example.com",
		Location:      "London",
		Objective:     "Design general-purpose computing machines.",
		Skills:        "Mathematics\nAlgorithms, Notes on the Analytical Engine",
		PhotoPath:     "/photos/ada.png",
		Education: []types.EducationEntry{
			{Course: "Mathematics", YearCompletion: "1833-1835", Grade: "Private tuition", Institution: "De Morgan"},
			{Course: "Astronomy", YearCompletion: "1840", Institution: "Somerville"},
		},
		Experience: []types.ExperienceEntry{
			{Title: "Translator", Description: "Translated Menabrea\nAdded notes A-G", Duration: "1842-1843"},
		},
	}
}

func countRows(t *testing.T, b *Backend, table string, profileID int64) int {
	t.Helper()
	var n int
	require.NoError(t, b.db.QueryRow("SELECT COUNT(*) FROM "+table+" WHERE profile_id = ?", profileID).Scan(&n))
	return n
}

func TestProfiles_CreateAndLoad(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Profiles()

	in := sampleProfile("  main  ")
	id, err := store.CreateProfile(ctx, in)
	require.NoError(t, err)
	assert.Positive(t, id)
	assert.Equal(t, id, in.ID)

	got, err := store.LoadProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "main", got.ProfileName, "profile name is stored trimmed")
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.Skills, got.Skills)
	assert.Equal(t, in.PhotoPath, got.PhotoPath)
	assert.Equal(t, in.Education, got.Education)
	assert.Equal(t, in.Experience, got.Experience)
}

func TestProfiles_LoadMissing(t *testing.T) {
	b := setupBackend(t)
	_, err := b.Profiles().LoadProfile(context.Background(), 42)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestProfiles_DuplicateName(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Profiles()

	first := sampleProfile("work")
	id, err := store.CreateProfile(ctx, first)
	require.NoError(t, err)

	second := sampleProfile("work")
	second.Name = "Somebody Else"
	_, err = store.CreateProfile(ctx, second)
	require.ErrorIs(t, err, types.ErrDuplicateName)

	got, err := store.LoadProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name, "first profile is untouched")

	refs, err := store.ListProfileNames(ctx)
	require.NoError(t, err)
	assert.Len(t, refs, 1)

	_, err = store.CreateProfile(ctx, sampleProfile("Work"))
	assert.NoError(t, err, "names are case-sensitive")
}

func TestProfiles_ValidationHasNoSideEffect(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Profiles()

	p := sampleProfile("incomplete")
	p.Email = "  "
	_, err := store.CreateProfile(ctx, p)
	require.ErrorIs(t, err, types.ErrValidation)

	_, err = store.CreateProfile(ctx, sampleProfile("   "))
	require.ErrorIs(t, err, types.ErrValidation)

	refs, err := store.ListProfileNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, refs)
}

func TestProfiles_ListSortedByName(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Profiles()

	for _, name := range []string{"charlie", "alpha", "bravo"} {
		_, err := store.CreateProfile(ctx, sampleProfile(name))
		require.NoError(t, err)
	}

	refs, err := store.ListProfileNames(ctx)
	require.NoError(t, err)
	require.Len(t, refs, 3)
	assert.Equal(t, "alpha", refs[0].Name)
	assert.Equal(t, "bravo", refs[1].Name)
	assert.Equal(t, "charlie", refs[2].Name)

	id, err := store.FindProfileByName(ctx, "bravo")
	require.NoError(t, err)
	assert.Equal(t, refs[1].ID, id)

	_, err = store.FindProfileByName(ctx, "delta")
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestProfiles_BlankChildrenDropped(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Profiles()

	p := sampleProfile("sparse")
	p.Education = []types.EducationEntry{
		{Grade: "A+"},
		{Course: "Physics", Institution: "MIT"},
	}
	p.Experience = []types.ExperienceEntry{
		{Description: "no title", Duration: "2 years"},
	}
	id, err := store.CreateProfile(ctx, p)
	require.NoError(t, err)

	got, err := store.LoadProfile(ctx, id)
	require.NoError(t, err)
	require.Len(t, got.Education, 1)
	assert.Equal(t, "Physics", got.Education[0].Course)
	assert.Empty(t, got.Experience)
}

func TestProfiles_UpdateReplacesChildren(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Profiles()

	id, err := store.CreateProfile(ctx, sampleProfile("cv"))
	require.NoError(t, err)

	changed := sampleProfile("renamed-is-ignored")
	changed.Location = "Paris"
	changed.PhotoPath = ""
	changed.Education = []types.EducationEntry{{Course: "Logic", Institution: "Sorbonne"}}
	changed.Experience = nil
	require.NoError(t, store.UpdateProfile(ctx, id, changed))

	got, err := store.LoadProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "cv", got.ProfileName)
	assert.Equal(t, "Paris", got.Location)
	assert.Empty(t, got.PhotoPath)
	assert.Equal(t, changed.Education, got.Education)
	assert.Empty(t, got.Experience)
	assert.Equal(t, 0, countRows(t, b, tableWorkExperience, id))
}

func TestProfiles_UpdateIsIdempotent(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Profiles()

	id, err := store.CreateProfile(ctx, sampleProfile("same"))
	require.NoError(t, err)

	data := sampleProfile("same")
	require.NoError(t, store.UpdateProfile(ctx, id, data))
	once, err := store.LoadProfile(ctx, id)
	require.NoError(t, err)
	eduOnce := countRows(t, b, tableEducation, id)
	expOnce := countRows(t, b, tableWorkExperience, id)

	require.NoError(t, store.UpdateProfile(ctx, id, sampleProfile("same")))
	twice, err := store.LoadProfile(ctx, id)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
	assert.Equal(t, eduOnce, countRows(t, b, tableEducation, id))
	assert.Equal(t, expOnce, countRows(t, b, tableWorkExperience, id))
}

func TestProfiles_UpdateMissing(t *testing.T) {
	b := setupBackend(t)
	err := b.Profiles().UpdateProfile(context.Background(), 99, sampleProfile("ghost"))
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestProfiles_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Profiles()

	keep, err := store.CreateProfile(ctx, sampleProfile("keep"))
	require.NoError(t, err)
	id, err := store.CreateProfile(ctx, sampleProfile("drop"))
	require.NoError(t, err)
	require.Equal(t, 2, countRows(t, b, tableEducation, id))
	require.Equal(t, 1, countRows(t, b, tableWorkExperience, id))

	require.NoError(t, store.DeleteProfile(ctx, id))

	assert.Equal(t, 0, countRows(t, b, tableEducation, id))
	assert.Equal(t, 0, countRows(t, b, tableWorkExperience, id))
	_, err = store.LoadProfile(ctx, id)
	assert.ErrorIs(t, err, types.ErrNotFound)

	assert.Equal(t, 2, countRows(t, b, tableEducation, keep), "other profiles keep their children")
	assert.ErrorIs(t, store.DeleteProfile(ctx, id), types.ErrNotFound)
}

func TestProfiles_ForeignKeyCascadeEnforcedByStore(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	id, err := b.Profiles().CreateProfile(ctx, sampleProfile("raw"))
	require.NoError(t, err)

	_, err = b.db.Exec("DELETE FROM profile WHERE id = ?", id)
	require.NoError(t, err)
	assert.Equal(t, 0, countRows(t, b, tableEducation, id))
	assert.Equal(t, 0, countRows(t, b, tableWorkExperience, id))
}

func TestProfiles_CreateRollsBackOnChildFailure(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)

	_, err := b.db.Exec(`CREATE TRIGGER fail_education BEFORE INSERT ON education
		WHEN NEW.course_name = 'boom'
		BEGIN SELECT RAISE(ABORT, 'forced failure'); END;`)
	require.NoError(t, err)

	p := sampleProfile("atomic")
	p.Education = append(p.Education, types.EducationEntry{Course: "boom"})
	_, err = b.Profiles().CreateProfile(ctx, p)
	require.ErrorIs(t, err, types.ErrPersistence)

	refs, err := b.Profiles().ListProfileNames(ctx)
	require.NoError(t, err)
	assert.Empty(t, refs, "profile row must not survive a failed child insert")

	var children int
	require.NoError(t, b.db.QueryRow("SELECT COUNT(*) FROM work_experience").Scan(&children))
	assert.Zero(t, children)
}

func TestProfiles_UpdateRollsBackOnChildFailure(t *testing.T) {
	ctx := context.Background()
	b := setupBackend(t)
	store := b.Profiles()

	id, err := store.CreateProfile(ctx, sampleProfile("stable"))
	require.NoError(t, err)

	_, err = b.db.Exec(`CREATE TRIGGER fail_education BEFORE INSERT ON education
		WHEN NEW.course_name = 'boom'
		BEGIN SELECT RAISE(ABORT, 'forced failure'); END;`)
	require.NoError(t, err)

	changed := sampleProfile("stable")
	changed.Location = "Elsewhere"
	changed.Education = []types.EducationEntry{{Course: "boom"}}
	require.ErrorIs(t, store.UpdateProfile(ctx, id, changed), types.ErrPersistence)

	got, err := store.LoadProfile(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "London", got.Location)
	assert.Len(t, got.Education, 2)
}
