// Package render lays out a CV profile as a US Letter PDF.
package render

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

// Page geometry in points.
const (
	margin        = 36.0 // 0.5 in
	photoSize     = 90.0 // 1.25 in
	photoColumn   = 108.0
	dateColumn    = 144.0 // 2 in
	bulletIndent  = 15.0
	bodyLeading   = 14.0
	nameLeading   = 34.0
	contactLead   = 12.0
	headerSpacing = 18.0
	fontFamily    = "Helvetica"
	photoImage    = "photo"
	contactJoiner = " • "
)

type rgb struct{ r, g, b int }

var (
	nameBlue    = rgb{0x4a, 0x90, 0xe2}
	headingGray = rgb{0x36, 0x36, 0x36}
	bodyGray    = rgb{0x33, 0x33, 0x33}
	ruleGray    = rgb{0xcc, 0xcc, 0xcc}
)

// Renderer turns profiles into PDF documents.
type Renderer struct {
	log       zerolog.Logger
	readPhoto func(path string) ([]byte, error)
	crop      func(data []byte, size int) ([]byte, error)
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Renderer) { r.log = log }
}

// New returns a renderer that reads photos from disk.
func New(opts ...Option) *Renderer {
	r := &Renderer{
		log:       zerolog.Nop(),
		readPhoto: os.ReadFile,
		crop:      CircularPNG,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Export renders p to path. The document is written to a temporary file in
// the same directory and renamed into place, so a failed render never leaves
// a file at path. Failures wrap types.ErrRender.
func (r *Renderer) Export(p *types.Profile, path string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".cv-*.pdf.tmp")
	if err != nil {
		return fmt.Errorf("%w: %w", types.ErrRender, err)
	}
	tmpName := tmp.Name()

	fail := func(err error) error {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := r.Render(tmp, p); err != nil {
		return fail(err)
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("%w: %w", types.ErrRender, err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", types.ErrRender, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("%w: %w", types.ErrRender, err)
	}
	r.log.Info().Str("path", path).Int64("profile_id", p.ID).Msg("cv exported")
	return nil
}

// Render writes the PDF for p to w. Sections without content are omitted.
// A panic inside the layout library is returned as ErrRender.
func (r *Renderer) Render(w io.Writer, p *types.Profile) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: layout panic: %v", types.ErrRender, rec)
		}
	}()

	d := newDocument()
	pdf := d.pdf
	pdf.SetTitle(p.Name, true)
	pdf.SetAuthor(p.Name, true)
	pdf.SetCreator("workbench", false)

	if err := r.header(d, p); err != nil {
		return fmt.Errorf("%w: %w", types.ErrRender, err)
	}
	d.objective(p.Objective)
	d.skills(SplitSkills(p.Skills))
	d.education(p.KeptEducation())
	d.experience(p.KeptExperience())

	if pdf.Err() {
		return fmt.Errorf("%w: %w", types.ErrRender, pdf.Error())
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("%w: %w", types.ErrRender, err)
	}
	return nil
}

func contentWidth(pdf *fpdf.Fpdf) float64 {
	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	return pageW - left - right
}

// header draws the photo on the left and the name and contact line beside
// it, vertically centered on the photo.
func (r *Renderer) header(d *document, p *types.Profile) error {
	pdf := d.pdf
	top := pdf.GetY()

	hasPhoto := strings.TrimSpace(p.PhotoPath) != ""
	if hasPhoto {
		if err := r.placePhoto(pdf, p.PhotoPath, margin, top); err != nil {
			return err
		}
	}

	textX := margin
	if hasPhoto {
		textX += photoColumn
	}
	textW := d.width - (textX - margin)
	contact := contactLine(p)
	lines := 0
	if contact != "" {
		d.font("", 10, bodyGray)
		lines = len(pdf.SplitLines([]byte(d.tr(contact)), textW))
	}
	blockH := nameLeading + 4 + float64(lines)*contactLead
	y := top
	if hasPhoto && blockH < photoSize {
		y += (photoSize - blockH) / 2
	}

	pdf.SetXY(textX, y)
	d.font("B", 28, nameBlue)
	pdf.MultiCell(textW, nameLeading, d.tr(p.Name), "", "L", false)
	if contact != "" {
		pdf.SetXY(textX, pdf.GetY()+4)
		d.font("", 10, bodyGray)
		pdf.MultiCell(textW, contactLead, d.tr(contact), "", "L", false)
	}

	bottom := pdf.GetY()
	if hasPhoto {
		bottom = max(bottom, top+photoSize)
	}
	pdf.SetXY(margin, bottom+headerSpacing)
	return nil
}

// placePhoto embeds the circular crop of the photo, or the original bytes
// when cropping fails. A photo that cannot be read, or an original fpdf
// cannot embed, is an error.
func (r *Renderer) placePhoto(pdf *fpdf.Fpdf, path string, x, y float64) error {
	data, err := r.readPhoto(path)
	if err != nil {
		return fmt.Errorf("read photo: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG"}
	img, cropErr := r.crop(data, photoPixels)
	if cropErr != nil {
		kind, mime := imageType(data)
		r.log.Warn().Err(cropErr).Str("photo", path).Str("mime", mime).
			Msg("photo crop failed, embedding original")
		if kind == "" {
			return fmt.Errorf("photo type %s cannot be embedded", mime)
		}
		img = data
		opts.ImageType = kind
	}

	pdf.RegisterImageOptionsReader(photoImage, opts, bytes.NewReader(img))
	if pdf.Err() {
		return fmt.Errorf("embed photo: %w", pdf.Error())
	}
	pdf.ImageOptions(photoImage, x, y, photoSize, photoSize, false, opts, 0, "")
	return nil
}

func contactLine(p *types.Profile) string {
	var parts []string
	for _, s := range []string{p.Email, p.ContactNumber, p.Location} {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, contactJoiner)
}
