package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) partitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "partition",
		Short: "Inspect registered partitions",
	}
	cmd.AddCommand(a.partitionListCmd())
	return cmd
}

func (a *app) partitionListCmd() *cobra.Command {
	var opts outputOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered partitions",
		Long: `List the partitions known to vbdctl: those in the state file plus any
from the configured partitions_file, which take precedence.

The yaml output is a PartitionList document and can be used as a
partitions_file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := opts.formatter()
			if err != nil {
				return err
			}

			st, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			result, err := formatter.FormatPartitions(st.AllPartitions())
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			a.print(result)
			return nil
		},
	}

	opts.addFlags(cmd)
	return cmd
}
