package render

import (
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

// document carries the PDF under construction and the cp1252 translator for
// the core fonts.
type document struct {
	pdf   *fpdf.Fpdf
	tr    func(string) string
	width float64
}

// newDocument starts a Letter page with the layout margins set.
func newDocument() *document {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.AddPage()
	return &document{
		pdf:   pdf,
		tr:    pdf.UnicodeTranslatorFromDescriptor(""),
		width: contentWidth(pdf),
	}
}

func (d *document) font(style string, size float64, c rgb) {
	d.pdf.SetFont(fontFamily, style, size)
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

// heading draws an uppercase section title over a thin rule.
func (d *document) heading(title string) {
	pdf := d.pdf
	pdf.Ln(12)
	d.font("B", 11, headingGray)
	pdf.CellFormat(d.width, 14, d.tr(strings.ToUpper(title)), "", 1, "L", false, 0, "")

	y := pdf.GetY() + 2
	pdf.SetDrawColor(ruleGray.r, ruleGray.g, ruleGray.b)
	pdf.SetLineWidth(0.5)
	pdf.Line(margin, y, margin+d.width, y)
	pdf.SetY(y + 6)
}

func (d *document) objective(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	d.heading("Career Objective")
	d.font("I", 10, bodyGray)
	d.pdf.MultiCell(d.width, bodyLeading, d.tr(text), "", "L", false)
}

func (d *document) skills(items []string) {
	if len(items) == 0 {
		return
	}
	d.heading("Skills")
	d.font("", 10, bodyGray)

	cols := SkillColumns(len(items))
	if cols == 1 {
		for _, item := range items {
			d.pdf.MultiCell(d.width, bodyLeading, d.tr("• "+item), "", "L", false)
		}
		return
	}

	d.skillGrid(items, cols)
}

// skillGrid lays items out column-major. A row that would cross the bottom
// margin starts on a new page so its cells stay level.
func (d *document) skillGrid(items []string, cols int) {
	pdf := d.pdf
	colW := d.width / float64(cols)
	_, pageH := pdf.GetPageSize()
	_, _, _, bottomMargin := pdf.GetMargins()
	for _, row := range SkillGrid(items, cols) {
		cells := make([]string, len(row))
		rowH := 0.0
		for c, item := range row {
			if item == "" {
				continue
			}
			cells[c] = d.tr("• " + item)
			lines := len(pdf.SplitLines([]byte(cells[c]), colW-5))
			rowH = max(rowH, float64(lines)*bodyLeading)
		}

		top := pdf.GetY()
		if top+rowH > pageH-bottomMargin {
			pdf.AddPage()
			top = pdf.GetY()
		}
		bottom := top
		for c, cell := range cells {
			if cell == "" {
				continue
			}
			pdf.SetXY(margin+float64(c)*colW, top)
			pdf.MultiCell(colW-5, bodyLeading, cell, "", "L", false)
			bottom = max(bottom, pdf.GetY())
		}
		pdf.SetXY(margin, bottom+2)
	}
}

func (d *document) education(entries []types.EducationEntry) {
	if len(entries) == 0 {
		return
	}
	d.heading("Education")

	pdf := d.pdf
	leftW := d.width - dateColumn
	for _, e := range entries {
		top := pdf.GetY()

		d.font("B", 10, bodyGray)
		pdf.MultiCell(leftW, bodyLeading, d.tr(e.Course), "", "L", false)
		d.font("", 10, bodyGray)
		for _, line := range []string{e.Institution, e.Grade} {
			if strings.TrimSpace(line) != "" {
				pdf.MultiCell(leftW, bodyLeading, d.tr(line), "", "L", false)
			}
		}
		bottom := pdf.GetY()

		pdf.SetXY(margin+leftW, top)
		pdf.CellFormat(dateColumn, bodyLeading, d.tr(e.YearCompletion), "", 0, "R", false, 0, "")
		pdf.SetXY(margin, max(bottom, top+bodyLeading)+10)
	}
}

func (d *document) experience(entries []types.ExperienceEntry) {
	if len(entries) == 0 {
		return
	}
	d.heading("Work Experience")

	pdf := d.pdf
	leftW := d.width - dateColumn
	for _, e := range entries {
		d.font("B", 10, bodyGray)
		pdf.CellFormat(leftW, bodyLeading, d.tr(e.Title), "", 0, "L", false, 0, "")
		d.font("", 10, bodyGray)
		pdf.CellFormat(dateColumn, bodyLeading, d.tr(e.Duration), "", 1, "R", false, 0, "")

		for _, line := range DescriptionBullets(e.Description) {
			pdf.SetX(margin + bulletIndent)
			pdf.MultiCell(d.width-bulletIndent, bodyLeading, d.tr("• "+line), "", "L", false)
		}
		pdf.Ln(12)
	}
}

// DescriptionBullets returns one bullet per non-blank description line.
func DescriptionBullets(description string) []string {
	var lines []string
	for _, line := range strings.Split(description, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
