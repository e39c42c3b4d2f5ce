package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/tasklist"
)

func init() {
	Register(&HelpCmd{registry: DefaultRegistry})
}

// HelpCmd implements the help command. Command lines are generated from
// the registry.
type HelpCmd struct {
	registry *Registry
}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "gtodo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, st *tasklist.Store, args []string, out, errOut io.Writer) int {
	registry := c.registry
	if registry == nil {
		registry = DefaultRegistry
	}

	fmt.Fprintln(out, "Usage:")
	fmt.Fprintf(out, "  %-48s %s\n", "gtodo", "List all tasks")
	for _, cmd := range registry.All() {
		synopsis := cmd.Synopsis()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			synopsis += " (alias: " + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-48s %s\n", cmd.Usage(), synopsis)
	}
	fmt.Fprintf(out, "  %-48s %s\n", "gtodo shell", "Read commands from stdin, one per line")
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
Task numbers are positions in the full list, also when a filter is active.

Common flags:
  --config <dir>   Override config directory
  --store <kind>   Slot backend: file, mysql or google (env GTODO_STORE)
  --slot <name>    Slot name (env GTODO_SLOT, default "todos")
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

The mysql store reads its DSN from GTODO_MYSQL_DSN.
`
