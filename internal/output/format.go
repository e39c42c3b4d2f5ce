// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"gtodo/internal/tasklist"
)

const (
	markDone = "[x]"
	markOpen = "[ ]"
)

// FormatTask formats a task line.
// Format: "{N:>4}  [x] {TEXT}\n" where N is the 1-based position in the
// unfiltered list.
func FormatTask(w io.Writer, row tasklist.Row) {
	mark := markOpen
	if row.Task.IsCompleted {
		mark = markDone
	}
	fmt.Fprintf(w, "%4d  %s %s\n", row.Index+1, mark, normalizeText(row.Task.Text))
}

// FormatRows formats every row in order.
func FormatRows(w io.Writer, rows []tasklist.Row) {
	for _, row := range rows {
		FormatTask(w, row)
	}
}

// FormatEdit formats the change made by an edit as an inline diff.
// Deletions render as [-text-], insertions as {+text+}.
// Format: "{N:>4}  {DIFF}\n"
func FormatEdit(w io.Writer, num int, before, after string) {
	fmt.Fprintf(w, "%4d  %s\n", num, InlineDiff(normalizeText(before), normalizeText(after)))
}

// InlineDiff renders a character diff between before and after.
func InlineDiff(before, after string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(before, after, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

// normalizeText replaces newlines with spaces.
func normalizeText(text string) string {
	text = strings.ReplaceAll(text, "\r", " ")
	return strings.ReplaceAll(text, "\n", " ")
}
