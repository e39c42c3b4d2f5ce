package commands_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"gtodo/internal/commands"
	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/tasklist"
	"gtodo/internal/testutil"
)

func newTestConfig(t *testing.T, quiet bool) *config.Config {
	t.Helper()
	return &config.Config{
		Dir:   t.TempDir(),
		Store: config.StoreFile,
		Slot:  config.DefaultSlot,
		Quiet: quiet,
	}
}

// runWithContext runs cmd against a store loaded from slot. A nil slot
// passes a nil store, as the dispatcher does for commands without NeedsStore.
func runWithContext(t *testing.T, ctx context.Context, cmd commands.Command, cfg *config.Config, slot *testutil.MemorySlot, args []string) (stdout, stderr string, code int) {
	t.Helper()

	var st *tasklist.Store
	if slot != nil {
		st = tasklist.NewStore(slot)
		if err := st.Load(ctx); err != nil {
			t.Fatalf("Load: %v", err)
		}
	}

	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(ctx, cfg, st, args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func runWithConfig(t *testing.T, cmd commands.Command, cfg *config.Config, slot *testutil.MemorySlot, args []string) (stdout, stderr string, code int) {
	t.Helper()
	return runWithContext(t, context.Background(), cmd, cfg, slot, args)
}

// runCommand is a helper to run a command with a MemorySlot.
func runCommand(t *testing.T, cmd commands.Command, slot *testutil.MemorySlot, args []string, quiet bool) (stdout, stderr string, code int) {
	t.Helper()
	return runWithConfig(t, cmd, newTestConfig(t, quiet), slot, args)
}

func expectResult(t *testing.T, stdout, stderr string, code int, wantOut, wantErr string, wantCode int) {
	t.Helper()
	if code != wantCode {
		t.Errorf("expected exit code %d, got %d", wantCode, code)
	}
	if stdout != wantOut {
		t.Errorf("expected stdout %q, got %q", wantOut, stdout)
	}
	if stderr != wantErr {
		t.Errorf("expected stderr %q, got %q", wantErr, stderr)
	}
}

func expectStored(t *testing.T, slot *testutil.MemorySlot, want ...tasklist.Task) {
	t.Helper()
	got := slot.Stored()
	if len(got) == 0 && len(want) == 0 {
		return
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("stored tasks mismatch\nwant: %+v\ngot:  %+v", want, got)
	}
}

func seeded() *testutil.MemorySlot {
	return testutil.NewMemorySlotWith(
		tasklist.Task{Text: "Buy milk"},
		tasklist.Task{Text: "Call mom", IsCompleted: true},
		tasklist.Task{Text: "Write report"},
	)
}

// Tests for version command
func TestVersionCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.VersionCmd{}, nil, nil, false)
	expectResult(t, stdout, stderr, code, "gtodo 0.1.0\n", "", exitcode.Success)
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.HelpCmd{}, nil, nil, false)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

// Tests for list command
func TestListCommand_All(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	want := "   1  [ ] Buy milk\n   2  [x] Call mom\n   3  [ ] Write report\n"
	expectResult(t, stdout, stderr, code, want, "", exitcode.Success)
}

func TestListCommand_FilterKeepsUnderlyingNumbers(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("not done")
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	want := "   1  [ ] Buy milk\n   3  [ ] Write report\n"
	expectResult(t, stdout, stderr, code, want, "", exitcode.Success)
}

func TestListCommand_PositionalFilter(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, seeded(), []string{"done"}, false)

	expectResult(t, stdout, stderr, code, "   2  [x] Call mom\n", "", exitcode.Success)
}

func TestListCommand_Empty(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, testutil.NewMemorySlot(), nil, false)

	expectResult(t, stdout, stderr, code, "no tasks found\n", "", exitcode.Success)
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	cmd := &commands.ListCmd{}
	stdout, stderr, code := runCommand(t, cmd, testutil.NewMemorySlot(), nil, true)

	// Quiet mode should suppress "no tasks found"
	expectResult(t, stdout, stderr, code, "", "", exitcode.Success)
}

func TestListCommand_InvalidFilter(t *testing.T) {
	cmd := &commands.ListCmd{}
	cmd.SetFilter("finished")
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	expectResult(t, stdout, stderr, code, "", "error: invalid filter: finished\n", exitcode.UserError)
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	slot := seeded()
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, slot, []string{"Buy", "eggs"}, false)

	expectResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	expectStored(t, slot,
		tasklist.Task{Text: "Buy milk"},
		tasklist.Task{Text: "Call mom", IsCompleted: true},
		tasklist.Task{Text: "Write report"},
		tasklist.Task{Text: "Buy eggs"},
	)
}

func TestAddCommand_Quiet(t *testing.T) {
	slot := testutil.NewMemorySlot()
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, slot, []string{"Buy milk"}, true)

	expectResult(t, stdout, stderr, code, "", "", exitcode.Success)
	expectStored(t, slot, tasklist.Task{Text: "Buy milk"})
}

func TestAddCommand_Empty(t *testing.T) {
	slot := seeded()
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, slot, nil, false)

	expectResult(t, stdout, stderr, code, "", "error: task cannot be empty\n", exitcode.UserError)
	if slot.Saves() != 0 {
		t.Errorf("expected nothing persisted, got %d saves", slot.Saves())
	}
}

func TestAddCommand_StorageError(t *testing.T) {
	slot := seeded()
	slot.SaveErr = errors.New("disk full")
	stdout, stderr, code := runCommand(t, &commands.AddCmd{}, slot, []string{"x"}, false)

	expectResult(t, stdout, stderr, code, "", "error: storage error: save tasks: disk full\n", exitcode.StorageError)
}

// Tests for edit command
func TestEditCommand_Success(t *testing.T) {
	slot := seeded()
	stdout, stderr, code := runCommand(t, &commands.EditCmd{}, slot, []string{"1", "Buy", "oat", "milk"}, false)

	expectResult(t, stdout, stderr, code, "   1  Buy {+oat +}milk\n", "", exitcode.Success)
	expectStored(t, slot,
		tasklist.Task{Text: "Buy oat milk"},
		tasklist.Task{Text: "Call mom", IsCompleted: true},
		tasklist.Task{Text: "Write report"},
	)
}

func TestEditCommand_KeepsCompletion(t *testing.T) {
	slot := seeded()
	_, _, code := runCommand(t, &commands.EditCmd{}, slot, []string{"2", "Call dad"}, true)

	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if got := slot.Stored()[1]; got != (tasklist.Task{Text: "Call dad", IsCompleted: true}) {
		t.Errorf("unexpected task: %+v", got)
	}
}

func TestEditCommand_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"no ref", nil, "error: task number required\n"},
		{"invalid ref", []string{"abc", "x"}, "error: invalid task number: abc\n"},
		{"empty text", []string{"1"}, "error: task cannot be empty\n"},
		{"out of range", []string{"4", "x"}, "error: task number out of range: 4\n"},
		{"zero", []string{"0", "x"}, "error: task number out of range: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := seeded()
			stdout, stderr, code := runCommand(t, &commands.EditCmd{}, slot, tt.args, false)
			expectResult(t, stdout, stderr, code, "", tt.wantErr, exitcode.UserError)
			if slot.Saves() != 0 {
				t.Errorf("expected nothing persisted, got %d saves", slot.Saves())
			}
		})
	}
}

// Tests for rm command
func TestRmCommand_Success(t *testing.T) {
	slot := seeded()
	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, slot, []string{"2"}, false)

	expectResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	expectStored(t, slot, tasklist.Task{Text: "Buy milk"}, tasklist.Task{Text: "Write report"})
}

func TestRmCommand_OutOfRange(t *testing.T) {
	slot := seeded()
	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, slot, []string{"9"}, false)

	expectResult(t, stdout, stderr, code, "", "error: task number out of range: 9\n", exitcode.UserError)
}

func TestRmCommand_NoRef(t *testing.T) {
	stdout, stderr, code := runCommand(t, &commands.RmCmd{}, seeded(), nil, false)

	expectResult(t, stdout, stderr, code, "", "error: task number required\n", exitcode.UserError)
}

// Tests for done command
func TestDoneCommand_TogglesBothWays(t *testing.T) {
	slot := seeded()

	stdout, stderr, code := runCommand(t, &commands.DoneCmd{}, slot, []string{"1"}, false)
	expectResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	if !slot.Stored()[0].IsCompleted {
		t.Error("expected task 1 to be done")
	}

	_, _, code = runCommand(t, &commands.DoneCmd{}, slot, []string{"1"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if slot.Stored()[0].IsCompleted {
		t.Error("expected task 1 to be reopened")
	}
}

// Tests for up and down commands
func TestMoveCommands(t *testing.T) {
	slot := seeded()

	stdout, stderr, code := runCommand(t, commands.UpCmd(), slot, []string{"2"}, false)
	expectResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	expectStored(t, slot,
		tasklist.Task{Text: "Call mom", IsCompleted: true},
		tasklist.Task{Text: "Buy milk"},
		tasklist.Task{Text: "Write report"},
	)

	_, _, code = runCommand(t, commands.DownCmd(), slot, []string{"1"}, false)
	if code != exitcode.Success {
		t.Fatalf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expectStored(t, slot,
		tasklist.Task{Text: "Buy milk"},
		tasklist.Task{Text: "Call mom", IsCompleted: true},
		tasklist.Task{Text: "Write report"},
	)
}

func TestMoveCommands_EdgesAreNoOps(t *testing.T) {
	slot := seeded()

	for _, tc := range []struct {
		cmd commands.Command
		ref string
	}{
		{commands.UpCmd(), "1"},
		{commands.DownCmd(), "3"},
	} {
		stdout, stderr, code := runCommand(t, tc.cmd, slot, []string{tc.ref}, false)
		expectResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	}
	if slot.Saves() != 0 {
		t.Errorf("expected nothing persisted, got %d saves", slot.Saves())
	}
}

// Tests for export command
func TestExportCommand_JSON(t *testing.T) {
	cmd := &commands.ExportCmd{}
	cmd.SetOptions("json", "done", "")
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	want := `[{"text":"Call mom","isCompleted":true}]` + "\n"
	expectResult(t, stdout, stderr, code, want, "", exitcode.Success)
}

func TestExportCommand_PDFToFile(t *testing.T) {
	cfg := newTestConfig(t, false)
	path := filepath.Join(cfg.Dir, "todos.pdf")

	cmd := &commands.ExportCmd{}
	cmd.SetOptions("pdf", "", path)
	stdout, stderr, code := runWithConfig(t, cmd, cfg, seeded(), nil)

	expectResult(t, stdout, stderr, code, "ok\n", "", exitcode.Success)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.HasPrefix(string(data), "%PDF-") {
		t.Error("expected a PDF document")
	}
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	cmd := &commands.ExportCmd{}
	cmd.SetOptions("csv", "", "")
	stdout, stderr, code := runCommand(t, cmd, seeded(), nil, false)

	expectResult(t, stdout, stderr, code, "", "error: unknown export format: csv\n", exitcode.UserError)
}
