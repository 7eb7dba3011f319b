package commands

import (
	"github.com/leapstack-labs/leapquery/internal/export"
	"github.com/spf13/cobra"
)

// NewTablesCommand creates the tables command.
func NewTablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the target schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			format, err := resolveFormat(cc.Cfg.OutputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			tables, err := cc.Schema.Tables(cmd.Context())
			if err != nil {
				return err
			}
			return export.Write(cmd.OutOrStdout(), listResult("table", tables), format)
		},
	}
}

// NewColumnsCommand creates the columns command.
func NewColumnsCommand() *cobra.Command {
	var types bool

	cmd := &cobra.Command{
		Use:   "columns <table>",
		Short: "List the columns of a table in ordinal order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, cleanup, err := NewCommandContext(cmd)
			if err != nil {
				return err
			}
			defer cleanup()

			format, err := resolveFormat(cc.Cfg.OutputFormat, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			if types {
				columns, err := cc.Adapter.DescribeColumns(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return export.Write(cmd.OutOrStdout(), describeResult(columns), format)
			}
			columns, err := cc.Schema.Columns(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return export.Write(cmd.OutOrStdout(), listResult("column", columns), format)
		},
	}

	cmd.Flags().BoolVarP(&types, "types", "t", false, "Show the type and nullability of each column")
	return cmd
}
