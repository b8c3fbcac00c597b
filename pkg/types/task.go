package types

import (
	"strings"
	"time"
)

// Reminder field layouts as stored in the tasks table.
const (
	ReminderDateLayout = "2006-01-02"
	ReminderTimeLayout = "15:04"
)

// previewWidth is the longest first-line description shown in task lists.
const previewWidth = 80

// Task is one to-do item. It is independent of any profile.
type Task struct {
	ID           int64  `json:"id"`
	Title        string `json:"title" validate:"notblank" label:"Title"`
	Description  string `json:"description,omitempty"`
	Done         bool   `json:"done"`
	ReminderDate string `json:"reminder_date,omitempty" validate:"omitempty,datetime=2006-01-02" label:"Reminder Date"` // Empty means unset.
	ReminderTime string `json:"reminder_time,omitempty" validate:"omitempty,datetime=15:04" label:"Reminder Time"`      // Empty means unset.
}

// Normalize trims the title and description the way the to-do form does
// before saving.
func (t *Task) Normalize() {
	t.Title = strings.TrimSpace(t.Title)
	t.Description = strings.TrimSpace(t.Description)
	t.ReminderDate = strings.TrimSpace(t.ReminderDate)
	t.ReminderTime = strings.TrimSpace(t.ReminderTime)
}

// Validate requires a non-blank title and well-formed reminder fields.
func (t *Task) Validate() error {
	return validateStruct(t)
}

// HasReminder reports whether both reminder fields are set. A task missing
// either one never fires.
func (t *Task) HasReminder() bool {
	return t.ReminderDate != "" && t.ReminderTime != ""
}

// DueAt combines the reminder date and time in loc.
func (t *Task) DueAt(loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(ReminderDateLayout+" "+ReminderTimeLayout, t.ReminderDate+" "+t.ReminderTime, loc)
}

// Preview returns the first line of the description, truncated to 80
// characters. An ellipsis marks truncation or further lines.
func (t *Task) Preview() string {
	if t.Description == "" {
		return ""
	}
	first, _, more := strings.Cut(t.Description, "\n")
	runes := []rune(first)
	switch {
	case len(runes) > previewWidth:
		return string(runes[:previewWidth]) + "..."
	case more:
		return first + "..."
	default:
		return first
	}
}
