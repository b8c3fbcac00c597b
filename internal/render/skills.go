package render

import "strings"

// Skill list layout thresholds.
const (
	maxListSkills      = 6
	maxTwoColumnSkills = 14
)

// SplitSkills splits free-form skills text on commas and newlines, trimming
// each item and dropping blanks.
func SplitSkills(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ',' || r == '\n' })
	items := make([]string, 0, len(fields))
	for _, f := range fields {
		if s := strings.TrimSpace(f); s != "" {
			items = append(items, s)
		}
	}
	return items
}

// SkillColumns returns how many columns the skills section uses: 1 for a
// plain list, then 2 or 3 for a grid.
func SkillColumns(n int) int {
	switch {
	case n <= maxListSkills:
		return 1
	case n <= maxTwoColumnSkills:
		return 2
	default:
		return 3
	}
}

// SkillGrid lays items out column-major: item i goes to row i%rows, so the
// first column fills top to bottom before the second starts. Short rows are
// padded with empty cells.
func SkillGrid(items []string, cols int) [][]string {
	if len(items) == 0 || cols < 1 {
		return nil
	}
	rows := (len(items) + cols - 1) / cols
	grid := make([][]string, rows)
	for i, item := range items {
		grid[i%rows] = append(grid[i%rows], item)
	}
	for i := range grid {
		for len(grid[i]) < cols {
			grid[i] = append(grid[i], "")
		}
	}
	return grid
}
