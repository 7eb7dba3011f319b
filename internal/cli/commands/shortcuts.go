package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/query"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewShortcutsCommand creates the shortcuts command.
func NewShortcutsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shortcuts",
		Short: "List the configured query shortcuts",
		Long: `List the shortcuts defined under "shortcuts:" in leapquery.yaml.

A shortcut pre-fills the builder with a table, columns, one WHERE condition
and a row limit. "None" is always available and clears the builder.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listShortcuts(cmd)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the configured query shortcuts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listShortcuts(cmd)
		},
	})
	cmd.AddCommand(newShortcutsShowCommand())

	return cmd
}

func listShortcuts(cmd *cobra.Command) error {
	cc := NewCommandContextWithoutDB(cmd)
	catalog, err := cc.Cfg.Catalog()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	styles := NewStyles(out)

	_, _ = fmt.Fprintln(out, styles.Header1.Render(fmt.Sprintf("Shortcuts (%d)", catalog.Len())))
	_, _ = fmt.Fprintln(out)
	for _, name := range catalog.Names() {
		if name == query.NoShortcut {
			continue
		}
		sc, _ := catalog.Get(name)
		_, _ = fmt.Fprintf(out, "  %s  %s\n", styles.Bold.Render(name), styles.Muted.Render(describeShortcut(sc)))
	}
	if catalog.Len() == 0 {
		_, _ = fmt.Fprintln(out, styles.Muted.Render("  No shortcuts configured. Add them under \"shortcuts:\" in leapquery.yaml."))
	}
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, styles.Muted.Render("Use 'leapquery shortcuts show <name>' for details"))
	return nil
}

// describeShortcut summarizes a shortcut on one line.
func describeShortcut(sc query.Shortcut) string {
	parts := []string{sc.Table}
	if len(sc.Columns) > 0 {
		parts = append(parts, "columns: "+strings.Join(sc.Columns, ", "))
	}
	if sc.Where != nil {
		parts = append(parts, fmt.Sprintf("where: %s %s %s", sc.Where.Column, sc.Where.Operator, sc.Where.Value))
	}
	if sc.Limit > 0 {
		parts = append(parts, fmt.Sprintf("limit: %d", sc.Limit))
	}
	return strings.Join(parts, " | ")
}

func newShortcutsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a shortcut's definition and the SQL it generates",
		Args:  cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
			if len(args) > 0 {
				return nil, cobra.ShellCompDirectiveNoFileComp
			}
			catalog, err := NewCommandContextWithoutDB(cmd).Cfg.Catalog()
			if err != nil {
				return nil, cobra.ShellCompDirectiveError
			}
			return catalog.Names()[1:], cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cc := NewCommandContextWithoutDB(cmd)
			catalog, err := cc.Cfg.Catalog()
			if err != nil {
				return err
			}

			name := args[0]
			if name == query.NoShortcut {
				return fmt.Errorf("%q is the empty shortcut", name)
			}
			sc, ok := catalog.Get(name)
			if !ok {
				return fmt.Errorf("unknown shortcut %q", name)
			}

			def, err := yaml.Marshal(map[string]query.Shortcut{name: sc})
			if err != nil {
				return fmt.Errorf("failed to encode shortcut: %w", err)
			}

			out := cmd.OutOrStdout()
			styles := NewStyles(out)
			_, _ = fmt.Fprintln(out, styles.Header1.Render(name))
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, styles.Bold.Render("Definition"))
			_, _ = fmt.Fprint(out, string(def))
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, styles.Bold.Render("SQL"))
			_, _ = fmt.Fprintln(out, styles.Code.Render(query.Compose(sc.Spec())))
			return nil
		},
	}
}
