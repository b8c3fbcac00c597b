package reminder

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/workbench/pkg/types"
)

// WriterNotifier prints each due task to a writer.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier returns a notifier printing to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

// Notify writes the reminder message followed by a blank line.
func (n *WriterNotifier) Notify(_ context.Context, task types.Task) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, err := fmt.Fprintf(n.w, "%s\n\n", Message(task))
	return err
}

// LogNotifier emits each due task as a log event.
type LogNotifier struct {
	Log zerolog.Logger
}

// Notify logs the task at info level.
func (n LogNotifier) Notify(_ context.Context, task types.Task) error {
	n.Log.Info().Int64("task_id", task.ID).Str("title", task.Title).Msg("task due")
	return nil
}

// Multi fans a notification out to every notifier and returns the first
// error.
type Multi []Notifier

// Notify calls each notifier in order.
func (m Multi) Notify(ctx context.Context, task types.Task) error {
	var first error
	for _, n := range m {
		if err := n.Notify(ctx, task); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Message is the reminder text shown for task.
func Message(task types.Task) string {
	return "Your task is due!\n\nTask: " + task.Title
}
