package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/tasklist"
)

func init() {
	Register(&MoveCmd{name: "up", synopsis: "Move a task one position up", move: (*tasklist.Store).MoveUp})
	Register(&MoveCmd{name: "down", synopsis: "Move a task one position down", move: (*tasklist.Store).MoveDown})
}

// MoveCmd implements the up and down commands. Moving past either end of
// the list succeeds without changing anything.
type MoveCmd struct {
	name     string
	synopsis string
	move     func(*tasklist.Store, context.Context, int) error
}

func (c *MoveCmd) Name() string      { return c.name }
func (c *MoveCmd) Aliases() []string { return nil }
func (c *MoveCmd) Synopsis() string  { return c.synopsis }
func (c *MoveCmd) Usage() string     { return "gtodo " + c.name + " <n>" }
func (c *MoveCmd) NeedsStore() bool  { return true }

func (c *MoveCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *MoveCmd) Run(ctx context.Context, cfg *config.Config, st *tasklist.Store, args []string, out, errOut io.Writer) int {
	index, _, code, ok := parseRef(errOut, args)
	if !ok {
		return code
	}

	if err := c.move(st, ctx, index); err != nil {
		return reportError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}

// UpCmd returns the registered up command.
func UpCmd() Command {
	cmd, _ := DefaultRegistry.Find("up")
	return cmd
}

// DownCmd returns the registered down command.
func DownCmd() Command {
	cmd, _ := DefaultRegistry.Find("down")
	return cmd
}
