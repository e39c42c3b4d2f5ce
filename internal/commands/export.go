package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/report"
	"gtodo/internal/tasklist"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	format string
	filter string
	out    string
}

// SetOptions sets the export options (for testing).
func (c *ExportCmd) SetOptions(format, filter, out string) {
	c.format, c.filter, c.out = format, filter, out
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write the task list as JSON or PDF" }
func (c *ExportCmd) Usage() string     { return "gtodo export [--format f] [--filter m] [--out f]" }
func (c *ExportCmd) NeedsStore() bool  { return true }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.format, "format", "json", "")
	fs.StringVar(&c.filter, "filter", "", "")
	fs.StringVar(&c.out, "out", "", "")
	fs.StringVar(&c.out, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, cfg *config.Config, st *tasklist.Store, args []string, out, errOut io.Writer) int {
	filter, err := tasklist.ParseFilter(c.filter)
	if err != nil {
		return reportError(errOut, err)
	}
	rows := st.FilteredView(filter)

	var data []byte
	switch strings.ToLower(c.format) {
	case "", "json":
		tasks := make([]tasklist.Task, len(rows))
		for i, row := range rows {
			tasks[i] = row.Task
		}
		data, err = tasklist.Marshal(tasks)
		if err == nil {
			data = append(data, '\n')
		}
	case "pdf":
		data, err = report.BuildTaskReport(cfg.Slot, rows)
	default:
		fmt.Fprintf(errOut, "error: unknown export format: %s\n", c.format)
		return exitcode.UserError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: export failed: %v\n", err)
		return exitcode.StorageError
	}

	if c.out == "" {
		if _, err := out.Write(data); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.StorageError
		}
		return exitcode.Success
	}

	if err := os.WriteFile(c.out, data, 0644); err != nil {
		fmt.Fprintf(errOut, "error: failed to write %s: %v\n", c.out, err)
		return exitcode.StorageError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
