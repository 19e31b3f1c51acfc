package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/command"
)

func (a *app) vdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vd",
		Short: "Manage virtual disks",
	}
	cmd.AddCommand(a.vdCreateCmd())
	cmd.AddCommand(a.vdDeleteCmd())
	cmd.AddCommand(a.vdListCmd())
	return cmd
}

func (a *app) vdCreateCmd() *cobra.Command {
	var (
		key       string
		partition string
		write     bool
	)

	cmd := &cobra.Command{
		Use:   "create [-k <key>] -p <partition> [-w]",
		Short: "Create a virtual disk on a partition",
		Long: `Create a virtual disk backed by a registered partition and print its
key. A key is generated when -k is not given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePartition(partition); err != nil {
				return err
			}

			mode := modeFlag(write)
			return a.run(cmd.Context(), func(st *v1alpha1.State, env command.Env) command.Command {
				return command.NewCreateVirtualDisk(st, env, key, partition, mode)
			})
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "virtual disk key (default: generated)")
	cmd.Flags().StringVarP(&partition, "partition", "p", "", "backing partition")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "virtual disk is writable")
	return cmd
}

func (a *app) vdDeleteCmd() *cobra.Command {
	var key string

	cmd := &cobra.Command{
		Use:   "delete -k <key>",
		Short: "Delete an unused virtual disk",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if key == "" {
				return command.Invalidf("expected -k <key>")
			}

			return a.run(cmd.Context(), func(st *v1alpha1.State, env command.Env) command.Command {
				return command.NewDeleteVirtualDisk(st, env, key)
			})
		},
	}

	cmd.Flags().StringVarP(&key, "key", "k", "", "virtual disk key")
	return cmd
}

func (a *app) vdListCmd() *cobra.Command {
	var opts outputOptions

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List virtual disks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter, err := opts.formatter()
			if err != nil {
				return err
			}

			st, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			result, err := formatter.FormatVirtualDisks(st.VirtualDisks)
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
