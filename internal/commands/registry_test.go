package commands

import (
	"context"
	"flag"
	"io"
	"testing"

	"gtodo/internal/config"
	"gtodo/internal/tasklist"
)

type stubCmd struct {
	name    string
	aliases []string
}

func (c *stubCmd) Name() string                   { return c.name }
func (c *stubCmd) Aliases() []string              { return c.aliases }
func (c *stubCmd) Synopsis() string               { return "" }
func (c *stubCmd) Usage() string                  { return "" }
func (c *stubCmd) NeedsStore() bool               { return false }
func (c *stubCmd) RegisterFlags(fs *flag.FlagSet) {}
func (c *stubCmd) Run(ctx context.Context, cfg *config.Config, st *tasklist.Store, args []string, out, errOut io.Writer) int {
	return 0
}

func TestRegistry_FindByAlias(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubCmd{name: "rm", aliases: []string{"delete"}}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	cmd, ok := r.Find("delete")
	if !ok || cmd.Name() != "rm" {
		t.Errorf("expected alias to resolve to rm, got %v %v", cmd, ok)
	}
}

func TestRegistry_DuplicateNames(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&stubCmd{name: "rm", aliases: []string{"delete"}}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(&stubCmd{name: "delete"}); err == nil {
		t.Error("expected error for name clashing with alias")
	}
	if err := r.Register(&stubCmd{name: "remove", aliases: []string{"rm"}}); err == nil {
		t.Error("expected error for alias clashing with name")
	}
}

func TestRegistry_AllSortedWithoutAliases(t *testing.T) {
	r := NewRegistry()
	for _, c := range []*stubCmd{{name: "up"}, {name: "add", aliases: []string{"create"}}, {name: "done"}} {
		if err := r.Register(c); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	var names []string
	for _, c := range r.All() {
		names = append(names, c.Name())
	}
	want := []string{"add", "done", "up"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("expected %v, got %v", want, names)
			break
		}
	}
}

func TestParseTaskRef(t *testing.T) {
	index, rest, err := ParseTaskRef([]string{"12", "new", "text"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if index != 11 {
		t.Errorf("expected index 11, got %d", index)
	}
	if len(rest) != 2 || rest[0] != "new" {
		t.Errorf("unexpected rest: %v", rest)
	}
}

func TestParseTaskRef_Invalid(t *testing.T) {
	for _, args := range [][]string{{"a1"}, {"-1"}, {"1.5"}, {"١"}} {
		if _, _, err := ParseTaskRef(args); err == nil {
			t.Errorf("expected error for %q", args[0])
		}
	}
	if _, _, err := ParseTaskRef(nil); err != ErrTaskRefRequired {
		t.Errorf("expected ErrTaskRefRequired, got %v", err)
	}
}
