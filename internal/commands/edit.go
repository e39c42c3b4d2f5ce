package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/output"
	"gtodo/internal/tasklist"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. It prints the change as an inline diff.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Replace the text of a task" }
func (c *EditCmd) Usage() string     { return "gtodo edit <n> <text...>" }
func (c *EditCmd) NeedsStore() bool  { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, st *tasklist.Store, args []string, out, errOut io.Writer) int {
	index, rest, code, ok := parseRef(errOut, args)
	if !ok {
		return code
	}

	var before string
	if tasks := st.Tasks(); index < len(tasks) {
		before = tasks[index].Text
	}

	text := strings.Join(rest, " ")
	if err := st.Edit(ctx, index, text); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		output.FormatEdit(out, index+1, before, text)
	}
	return exitcode.Success
}
