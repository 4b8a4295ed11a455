// Package view turns a to-do snapshot into a view model and renders it to a
// terminal. The transform is pure so it can be tested without any output
// device; the write step only formats what the transform produced.
package view

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/todoapp/internal/client/models"
)

// EmptyPlaceholder is rendered instead of an empty table.
const EmptyPlaceholder = "No todos yet. Add one!"

// Row is a single rendered list entry.
type Row struct {
	ID          int64
	Done        string
	Priority    string
	Title       string
	Description string
	Created     string
}

// ListModel is the projection of a snapshot (or a filtered view of it).
type ListModel struct {
	Rows        []Row
	Placeholder string
}

// PriorityLabel maps the 1..3 enum to a colored badge. Unknown values fall
// back to medium, matching how the server defaults them.
func PriorityLabel(p int) string {
	switch p {
	case models.PriorityHigh:
		return "\U0001F534 high"
	case models.PriorityLow:
		return "\U0001F7E2 low"
	default:
		return "\U0001F7E1 medium"
	}
}

// NewListModel projects todos into a ListModel. An empty input produces a
// placeholder rather than an empty table.
func NewListModel(todos []models.Todo) ListModel {
	if len(todos) == 0 {
		return ListModel{Placeholder: EmptyPlaceholder}
	}

	rows := make([]Row, 0, len(todos))
	for _, t := range todos {
		done := "[ ]"
		if t.Completed {
			done = "[x]"
		}
		created := ""
		if !t.CreatedAt.IsZero() {
			created = t.CreatedAt.Format("2006-01-02 15:04")
		}
		rows = append(rows, Row{
			ID:          t.ID,
			Done:        done,
			Priority:    PriorityLabel(t.Priority),
			Title:       t.Title,
			Description: t.Description,
			Created:     created,
		})
	}
	return ListModel{Rows: rows}
}

// WriteList renders the model to w as an aligned table.
func WriteList(w io.Writer, m ListModel) error {
	if m.Placeholder != "" {
		_, err := fmt.Fprintln(w, m.Placeholder)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\t \tPRIORITY\tTITLE\tDESCRIPTION\tCREATED")
	for _, r := range m.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", r.ID, r.Done, r.Priority, r.Title, r.Description, r.Created)
	}
	return tw.Flush()
}
