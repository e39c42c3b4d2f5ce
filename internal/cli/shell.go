package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/tasklist"
)

const shellName = "shell"

// runShell reads one command per line and runs it against a single loaded
// store. Every line counts as new input and clears the store's last error;
// the prompt shows the error left by the previous line.
func (d *Dispatcher) runShell(ctx context.Context, args []string, out, errOut io.Writer) int {
	var common commonFlags
	positional, code, ok := parseFlags(shellName, args, errOut, common.register)
	if !ok {
		return code
	}
	if len(positional) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg, code, ok := newConfig(&common, errOut)
	if !ok {
		return code
	}

	st, closeSlot, code, ok := d.openStore(ctx, cfg, errOut)
	if !ok {
		return code
	}
	defer closeSlot()

	lines, readErr := readLines(ctx, d.input)
	for {
		if !cfg.Quiet {
			fmt.Fprint(out, prompt(st))
		}

		var line string
		var ok bool
		select {
		case <-ctx.Done():
		case line, ok = <-lines:
		}
		if !ok {
			break
		}
		st.InputChanged()

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "quit" || fields[0] == "exit" {
			return exitcode.Success
		}
		d.shellLine(ctx, cfg, st, fields, out, errOut)
	}
	if !cfg.Quiet {
		fmt.Fprintln(out)
	}
	if ctx.Err() != nil {
		return exitcode.Success
	}
	if err := <-readErr; err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}

// readLines scans r on its own goroutine so an interrupt can end the shell
// while a read is blocked. lines is closed at EOF, then the scan error is
// sent on the second channel.
func readLines(ctx context.Context, r io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)
	go func() {
		defer close(errc)
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// shellLine runs one shell command. Common flags are fixed for the session,
// so only the command's own flags are parsed.
func (d *Dispatcher) shellLine(ctx context.Context, cfg *config.Config, st *tasklist.Store, fields []string, out, errOut io.Writer) {
	name := fields[0]
	if name == shellName {
		fmt.Fprintln(errOut, "error: already in shell")
		return
	}
	cmd, ok := d.registry.Find(name)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", name)
		return
	}

	positional, _, ok := parseFlags(cmd.Name(), fields[1:], errOut, cmd.RegisterFlags)
	if !ok {
		return
	}

	var cmdStore *tasklist.Store
	if cmd.NeedsStore() {
		cmdStore = st
	}
	cmd.Run(ctx, cfg, cmdStore, positional, out, errOut)
}

func prompt(st *tasklist.Store) string {
	if err := st.LastError(); err != nil {
		return fmt.Sprintf("gtodo (%v)> ", err)
	}
	return "gtodo> "
}
