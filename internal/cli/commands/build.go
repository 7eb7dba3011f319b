package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/leapquery/pkg/query"
	"github.com/spf13/cobra"
)

// BuildOptions holds options for the build command.
type BuildOptions struct {
	Shortcut string
	Table    string
	Columns  []string
	Where    string
	Operator string
	Value    string
	Limit    int

	Base     string
	Contains []string
	Ranges   []string
}

// NewBuildCommand creates the build command.
func NewBuildCommand() *cobra.Command {
	opts := &BuildOptions{}

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Print the SQL generated from builder inputs",
		Long: `Print the SQL statement the query builder generates, without running it.

With --table (or --shortcut) the generic builder renders
  SELECT <columns> FROM <table> [WHERE <column> <operator> <value>] [LIMIT n];

With --base the explorer builder appends contains filters (OR-ed) and range
filters (AND-ed) to a free-form base query. Range filters on the configured
non-digit columns compare only the digits of the value.`,
		Example: `  # Generic builder
  leapquery build --table orders --columns id,status --where status --operator CONTAINS --value ship --limit 10

  # Start from a configured shortcut and override the limit
  leapquery build --shortcut "Shipped orders" --limit 5

  # Explorer builder
  leapquery build --base "SELECT * FROM orders" --contains status=ship --range amount=100:500`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBuild(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Shortcut, "shortcut", "s", "", "Start from a configured shortcut")
	cmd.Flags().StringVar(&opts.Table, "table", "", "Table to select from")
	cmd.Flags().StringSliceVarP(&opts.Columns, "columns", "c", nil, "Columns to select (default: all)")
	cmd.Flags().StringVarP(&opts.Where, "where", "w", "", "Column of the WHERE condition")
	cmd.Flags().StringVar(&opts.Operator, "operator", string(query.OpEqual), "Operator of the WHERE condition")
	cmd.Flags().StringVar(&opts.Value, "value", "", "Value of the WHERE condition")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "l", 0, "Row limit (0 for none)")

	cmd.Flags().StringVar(&opts.Base, "base", "", "Base query for the explorer builder")
	cmd.Flags().StringArrayVar(&opts.Contains, "contains", nil, "Contains filter as column=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Ranges, "range", nil, "Range filter as column=start:end (repeatable)")

	cmd.MarkFlagsMutuallyExclusive("base", "table")
	cmd.MarkFlagsMutuallyExclusive("base", "shortcut")

	_ = cmd.RegisterFlagCompletionFunc("operator", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		ops := make([]string, len(query.Operators))
		for i, op := range query.Operators {
			ops[i] = string(op)
		}
		return ops, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runBuild(cmd *cobra.Command, opts *BuildOptions) error {
	cc := NewCommandContextWithoutDB(cmd)

	var stmt string
	if opts.Base != "" {
		filters, err := parseContains(opts.Contains)
		if err != nil {
			return err
		}
		ranges, err := parseRanges(opts.Ranges)
		if err != nil {
			return err
		}
		b := query.NewBuilder(cc.Cfg.Explorer.BuilderOptions())
		stmt = b.ComposeFiltered(opts.Base, filters, ranges)
	} else {
		spec, err := buildSpec(cmd, cc, opts)
		if err != nil {
			return err
		}
		stmt = query.Compose(spec)
	}

	out := cmd.OutOrStdout()
	if isTerminal(out) {
		stmt = NewStyles(out).Code.Render(stmt)
	}
	_, _ = fmt.Fprintln(out, stmt)
	return nil
}

// buildSpec merges the shortcut, if any, with the explicitly set flags.
func buildSpec(cmd *cobra.Command, cc *CommandContext, opts *BuildOptions) (query.QuerySpec, error) {
	var spec query.QuerySpec
	if opts.Shortcut != "" {
		catalog, err := cc.Cfg.Catalog()
		if err != nil {
			return spec, err
		}
		sc, ok := catalog.Get(opts.Shortcut)
		if !ok {
			return spec, fmt.Errorf("unknown shortcut %q (available: %s)", opts.Shortcut, strings.Join(catalog.Names(), ", "))
		}
		spec = sc.Spec()
	}

	flags := cmd.Flags()
	if flags.Changed("table") {
		spec.Table = opts.Table
	}
	if flags.Changed("columns") {
		spec.Columns = opts.Columns
	}
	if flags.Changed("where") || flags.Changed("value") || flags.Changed("operator") {
		f := query.FilterSpec{Operator: query.Operator(opts.Operator), RawValue: opts.Value}
		if len(spec.Filters) > 0 {
			f = mergeFilter(spec.Filters[0], flags.Changed("where"), flags.Changed("operator"), flags.Changed("value"), opts)
		} else {
			f.Column = opts.Where
		}
		op, ok := query.ParseOperator(string(f.Operator))
		if !ok {
			return spec, fmt.Errorf("unknown operator %q", f.Operator)
		}
		f.Operator = op
		spec.Filters = []query.FilterSpec{f}
	}
	if flags.Changed("limit") {
		if opts.Limit < 0 {
			return spec, fmt.Errorf("limit must be at least 1, or 0 for none")
		}
		spec.Limit = nil
		if opts.Limit > 0 {
			spec.Limit = query.IntPtr(opts.Limit)
		}
	}

	if strings.TrimSpace(spec.Table) == "" {
		return spec, fmt.Errorf("a table is required (use --table or --shortcut)")
	}
	return spec, nil
}

func mergeFilter(f query.FilterSpec, where, operator, value bool, opts *BuildOptions) query.FilterSpec {
	if where {
		f.Column = opts.Where
	}
	if operator {
		f.Operator = query.Operator(opts.Operator)
	}
	if value {
		f.RawValue = opts.Value
	}
	return f
}

// parseContains parses column=value pairs.
func parseContains(raw []string) ([]query.FilterSpec, error) {
	filters := make([]query.FilterSpec, 0, len(raw))
	for _, r := range raw {
		col, val, ok := strings.Cut(r, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("invalid contains filter %q (expected column=value)", r)
		}
		filters = append(filters, query.FilterSpec{
			Column:   strings.TrimSpace(col),
			Operator: query.OpContains,
			RawValue: val,
		})
	}
	return filters, nil
}

// parseRanges parses column=start:end triples.
func parseRanges(raw []string) ([]query.RangeFilterSpec, error) {
	ranges := make([]query.RangeFilterSpec, 0, len(raw))
	for _, r := range raw {
		col, bounds, ok := strings.Cut(r, "=")
		if !ok || strings.TrimSpace(col) == "" {
			return nil, fmt.Errorf("invalid range filter %q (expected column=start:end)", r)
		}
		startRaw, endRaw, ok := strings.Cut(bounds, ":")
		if !ok {
			return nil, fmt.Errorf("invalid range filter %q (expected column=start:end)", r)
		}
		start, err := query.ParseBound(startRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid range start in %q: %w", r, err)
		}
		end, err := query.ParseBound(endRaw)
		if err != nil {
			return nil, fmt.Errorf("invalid range end in %q: %w", r, err)
		}
		ranges = append(ranges, query.RangeFilterSpec{
			Column: strings.TrimSpace(col),
			Start:  query.FloatPtr(start),
			End:    query.FloatPtr(end),
		})
	}
	return ranges, nil
}
