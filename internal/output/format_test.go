package output

import (
	"bytes"
	"testing"

	"gtodo/internal/tasklist"
)

func TestFormatTask(t *testing.T) {
	tests := []struct {
		name string
		row  tasklist.Row
		want string
	}{
		{"open", tasklist.Row{Index: 0, Task: tasklist.Task{Text: "buy milk"}}, "   1  [ ] buy milk\n"},
		{"done", tasklist.Row{Index: 11, Task: tasklist.Task{Text: "ship", IsCompleted: true}}, "  12  [x] ship\n"},
		{"newline", tasklist.Row{Index: 2, Task: tasklist.Task{Text: "a\nb"}}, "   3  [ ] a b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			FormatTask(&buf, tt.row)
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
		})
	}
}

func TestInlineDiff(t *testing.T) {
	tests := []struct {
		before, after, want string
	}{
		{"buy milk", "buy oat milk", "buy {+oat +}milk"},
		{"buy oat milk", "buy milk", "buy [-oat -]milk"},
		{"same", "same", "same"},
		{"", "new", "{+new+}"},
	}
	for _, tt := range tests {
		if got := InlineDiff(tt.before, tt.after); got != tt.want {
			t.Errorf("InlineDiff(%q, %q) = %q, want %q", tt.before, tt.after, got, tt.want)
		}
	}
}

func TestFormatEdit(t *testing.T) {
	var buf bytes.Buffer
	FormatEdit(&buf, 2, "buy milk", "buy oat milk")
	want := "   2  buy {+oat +}milk\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}
