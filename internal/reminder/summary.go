package reminder

import (
	"fmt"
	"io"

	"gradescope-reminder/internal/scrapers/gradescope"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable(out io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(out)
	return t
}

// WriteSummary prints one row per outstanding assignment.
func WriteSummary(out io.Writer, assignments []gradescope.Assignment) {
	if len(assignments) == 0 {
		fmt.Fprintln(out, "\nNo unsubmitted assignments found in any course. Great job!")
		return
	}

	fmt.Fprintln(out, "\nSummary of unsubmitted assignments:")
	t := NewTable(out)
	t.AppendHeader(table.Row{"Course", "Assignment", "Status", "Due Date", "Link"})
	for _, a := range assignments {
		t.AppendRow(table.Row{a.CourseName, a.Name, a.Status, a.DueDate, a.Link})
	}
	t.AppendFooter(table.Row{"", "", "", "Total", len(assignments)})
	t.Render()
}
