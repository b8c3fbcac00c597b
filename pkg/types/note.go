package types

import "strings"

// Note is a titled free-text note.
type Note struct {
	ID      int64  `json:"id"`
	Title   string `json:"title" validate:"notblank" label:"Title"`
	Content string `json:"content"`
}

// Normalize trims title and content before saving.
func (n *Note) Normalize() {
	n.Title = strings.TrimSpace(n.Title)
	n.Content = strings.TrimSpace(n.Content)
}

// Validate requires a non-blank title.
func (n *Note) Validate() error {
	return validateStruct(n)
}
