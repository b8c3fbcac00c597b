package render

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

func solidImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 0x40, G: 0x80, B: 0xc0, A: 0xff})
		}
	}
	return img
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(w, h)))
	path := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return path
}

func testProfile(photo string) *types.Profile {
	return &types.Profile{
		ID:            7,
		ProfileName:   "main",
		Name:          "Grace Hopper",
		ContactNumber: "555-0100",
		Email:         "grace@example.com",
		Location:      "Arlington",
		Objective:     "Make computers speak English.",
		Skills:        "COBOL, FLOW-MATIC\nCompilers, Debugging, Teaching, Navy, Mathematics, Physics",
		PhotoPath:     photo,
		Education: []types.EducationEntry{
			{Course: "PhD Mathematics", YearCompletion: "1934", Institution: "Yale"},
			{Grade: "blank entry is dropped"},
		},
		Experience: []types.ExperienceEntry{
			{Title: "Rear Admiral", Duration: "1943-1986", Description: "Led COBOL work\n\nFound the first bug"},
		},
	}
}

func TestExport_WritesPDF(t *testing.T) {
	dir := t.TempDir()
	p := testProfile(writePNG(t, dir, 200, 120))
	out := filepath.Join(dir, types.DefaultFileName(p.Name))

	require.NoError(t, New().Export(p, out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.Equal(t, "Grace_Hopper_CV.pdf", filepath.Base(out))
}

func TestExport_FailureLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	p := testProfile(filepath.Join(dir, "missing.png"))
	out := filepath.Join(dir, "cv.pdf")

	err := New().Export(p, out)
	require.ErrorIs(t, err, types.ErrRender)
	assert.NoFileExists(t, out)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "temporary file must be removed")
}

func TestExport_MissingDirectory(t *testing.T) {
	dir := t.TempDir()
	p := testProfile(writePNG(t, dir, 10, 10))
	err := New().Export(p, filepath.Join(dir, "nope", "cv.pdf"))
	assert.ErrorIs(t, err, types.ErrRender)
}

func TestRender_CropFailureFallsBack(t *testing.T) {
	dir := t.TempDir()
	p := testProfile(writePNG(t, dir, 64, 64))

	r := New()
	r.crop = func([]byte, int) ([]byte, error) { return nil, errors.New("no crop today") }

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRender_UnembeddableOriginal(t *testing.T) {
	dir := t.TempDir()
	var img bytes.Buffer
	require.NoError(t, bmp.Encode(&img, solidImage(8, 8)))
	path := filepath.Join(dir, "photo.bmp")
	require.NoError(t, os.WriteFile(path, img.Bytes(), 0o644))

	r := New()
	r.crop = func([]byte, int) ([]byte, error) { return nil, errors.New("no crop today") }

	var buf bytes.Buffer
	err := r.Render(&buf, testProfile(path))
	assert.ErrorIs(t, err, types.ErrRender)
}

func TestExport_LayoutPanicIsRenderError(t *testing.T) {
	dir := t.TempDir()
	p := testProfile(writePNG(t, dir, 64, 64))
	out := filepath.Join(dir, "cv.pdf")

	r := New()
	r.crop = func([]byte, int) ([]byte, error) { panic("index out of range") }

	var err error
	require.NotPanics(t, func() { err = r.Export(p, out) })
	assert.ErrorIs(t, err, types.ErrRender)
	assert.NoFileExists(t, out)
}

func TestRender_WithoutPhotoOrOptionalSections(t *testing.T) {
	p := &types.Profile{Name: "Solo", Skills: "Go"}
	var buf bytes.Buffer
	require.NoError(t, New().Render(&buf, p))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func TestRender_ContactLineOutsideASCII(t *testing.T) {
	tests := []struct {
		name string
		p    *types.Profile
	}{
		{
			name: "joined fields",
			p:    &types.Profile{Name: "Ada", Email: "a@b.c", ContactNumber: "555", Location: "Here", Objective: "x", Skills: "go"},
		},
		{
			name: "accented location",
			p:    &types.Profile{Name: "José Müller", Email: "jose@example.com", Location: "Zürich – Bahnhofstraße"},
		},
		{
			name: "long line wraps",
			p: &types.Profile{
				Name:          "Ada",
				Email:         strings.Repeat("long.address.", 8) + "@example.com",
				ContactNumber: "+41 44 555 01 00",
				Location:      "Genève, Suisse romande",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NotPanics(t, func() {
				require.NoError(t, New().Render(&buf, tt.p))
			})
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
		})
	}
}

func TestSkillGrid_RowNearPageEndMovesWhole(t *testing.T) {
	d := newDocument()
	d.font("", 10, bodyGray)
	_, pageH := d.pdf.GetPageSize()
	d.pdf.SetY(pageH - margin - bodyLeading/2)

	items := []string{"Go", "SQL", "Docker", "Linux", "Git", "Testing", "Kubernetes", "Terraform"}
	d.skillGrid(items, SkillColumns(len(items)))

	require.False(t, d.pdf.Err(), "%v", d.pdf.Error())
	assert.Equal(t, 2, d.pdf.PageNo(), "every row of the grid continues on the second page")
	assert.Less(t, d.pdf.GetY(), pageH/2)
}

func TestRender_ManySkillsPaginate(t *testing.T) {
	p := testProfile("")
	for i := 0; i < 200; i++ {
		p.Skills += ", skill"
	}
	var buf bytes.Buffer
	require.NoError(t, New().Render(&buf, p))
}

func TestCircularPNG(t *testing.T) {
	var src bytes.Buffer
	require.NoError(t, png.Encode(&src, solidImage(300, 150)))

	out, err := CircularPNG(src.Bytes(), 100)
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 100, 100), img.Bounds())

	_, _, _, cornerA := img.At(0, 0).RGBA()
	_, _, _, centerA := img.At(50, 50).RGBA()
	assert.Zero(t, cornerA, "corner is outside the circle")
	assert.Equal(t, uint32(0xffff), centerA)
}

func TestCircularPNG_Garbage(t *testing.T) {
	_, err := CircularPNG([]byte("not an image"), 100)
	assert.Error(t, err)
}

func TestCenterSquare(t *testing.T) {
	assert.Equal(t, image.Rect(50, 0, 150, 100), centerSquare(image.Rect(0, 0, 200, 100)))
	assert.Equal(t, image.Rect(0, 25, 50, 75), centerSquare(image.Rect(0, 0, 50, 100)))
}
