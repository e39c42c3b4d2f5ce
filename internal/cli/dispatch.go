package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gtodo/internal/commands"
	"gtodo/internal/config"
	"gtodo/internal/exitcode"
	"gtodo/internal/slots"
	"gtodo/internal/tasklist"
)

// SlotFactory opens the persistence slot selected by cfg.
// Used to inject the backend during dispatch.
type SlotFactory func(ctx context.Context, cfg *config.Config) (tasklist.Slot, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  SlotFactory
	input    io.Reader
}

// NewDispatcher creates a new dispatcher with the given registry and slot factory.
func NewDispatcher(registry *commands.Registry, factory SlotFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		input:    os.Stdin,
	}
}

// SetInput sets the reader the shell reads lines from (for testing).
func (d *Dispatcher) SetInput(r io.Reader) {
	d.input = r
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	store     string
	slot      string
	quiet     bool
	debug     bool
}

func (c *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&c.configDir, "config", "", "")
	fs.StringVar(&c.store, "store", "", "")
	fs.StringVar(&c.slot, "slot", "", "")
	fs.BoolVar(&c.quiet, "quiet", false, "")
	fs.BoolVar(&c.debug, "debug", false, "")
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	if cmdName == shellName {
		return d.runShell(ctx, args[1:], out, errOut)
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	var common commonFlags
	positional, code, ok := parseFlags(cmd.Name(), args, errOut, common.register, cmd.RegisterFlags)
	if !ok {
		return code
	}

	cfg, code, ok := newConfig(&common, errOut)
	if !ok {
		return code
	}

	if !cmd.NeedsStore() {
		return cmd.Run(ctx, cfg, nil, positional, out, errOut)
	}

	st, closeSlot, code, ok := d.openStore(ctx, cfg, errOut)
	if !ok {
		return code
	}
	defer closeSlot()

	return cmd.Run(ctx, cfg, st, positional, out, errOut)
}

// parseFlags parses args into a fresh FlagSet and maps flag errors to the
// CLI's error lines. ok is false when the caller should return code.
func parseFlags(name string, args []string, errOut io.Writer, registers ...func(*flag.FlagSet)) ([]string, int, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves
	for _, register := range registers {
		register(fs)
	}

	if err := fs.Parse(args); err != nil {
		errStr := err.Error()

		// Missing flag value
		if strings.HasPrefix(errStr, "flag needs an argument:") {
			flagName := strings.TrimSpace(strings.TrimPrefix(errStr, "flag needs an argument:"))
			fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", flagName)
			return nil, exitcode.UserError, false
		}

		if strings.HasPrefix(errStr, "flag provided but not defined:") {
			flagName := strings.TrimPrefix(errStr, "flag provided but not defined: ")
			fmt.Fprintf(errOut, "error: unknown flag: %s\n", flagName)
			return nil, exitcode.UserError, false
		}

		fmt.Fprintf(errOut, "error: %s\n", errStr)
		return nil, exitcode.UserError, false
	}

	// A "-x" left over after "--" would otherwise reach the command as text
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") && positional[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return nil, exitcode.UserError, false
	}
	return positional, exitcode.Success, true
}

func newConfig(common *commonFlags, errOut io.Writer) (*config.Config, int, bool) {
	cfg, err := config.New(common.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return nil, exitcode.UserError, false
	}
	cfg.Override(common.store, common.slot)
	cfg.Quiet = common.quiet
	cfg.Debug = common.debug

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return nil, exitcode.AuthError, false
	}
	return cfg, exitcode.Success, true
}

// newLogger returns a debug text logger on errOut when debug is set,
// otherwise a logger that drops everything.
func newLogger(debug bool, errOut io.Writer) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// openStore opens the configured slot and loads it into a new store.
// The returned func closes the slot.
func (d *Dispatcher) openStore(ctx context.Context, cfg *config.Config, errOut io.Writer) (*tasklist.Store, func(), int, bool) {
	log := newLogger(cfg.Debug, errOut).With("store", cfg.Store, "slot", cfg.Slot)

	factory := d.factory
	if factory == nil {
		factory = slots.Open
	}

	slot, err := factory(ctx, cfg)
	if err != nil {
		return nil, nil, reportSlotError(errOut, err), false
	}
	closeSlot := func() {
		if c, ok := slot.(io.Closer); ok {
			if err := c.Close(); err != nil {
				log.Debug("close slot", "err", err)
			}
		}
	}

	st := tasklist.NewStore(slot, tasklist.WithLogger(log))
	if err := st.Load(ctx); err != nil {
		closeSlot()
		return nil, nil, reportSlotError(errOut, err), false
	}
	return st, closeSlot, exitcode.Success, true
}

func reportSlotError(errOut io.Writer, err error) int {
	switch {
	case slots.IsAuthError(err):
		fmt.Fprintf(errOut, "error: auth error: %v\n", err)
		return exitcode.AuthError
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.StorageError
	default:
		fmt.Fprintf(errOut, "error: storage error: %v\n", err)
		return exitcode.StorageError
	}
}
