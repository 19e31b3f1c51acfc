package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/command"
	"github.com/jbweber/vbdctl/internal/libvirt"
	"github.com/jbweber/vbdctl/internal/output"
)

func (a *app) vbdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vbd",
		Short: "Manage virtual block devices",
	}
	cmd.AddCommand(a.vbdCreateCmd())
	cmd.AddCommand(a.vbdDeleteCmd())
	cmd.AddCommand(a.vbdListCmd())
	cmd.AddCommand(a.vbdShowCmd())
	return cmd
}

func (a *app) vbdCreateCmd() *cobra.Command {
	var (
		domain    int
		key       string
		partition string
		number    int
		write     bool
	)

	cmd := &cobra.Command{
		Use:   "create -n <domain_id> {-k <key>|-p <partition>} -v <vbd_num> [-w]",
		Short: "Bind a virtual disk or partition to a domain",
		Long: `Create a new virtual block device binding the virtual disk with the
specified key, or the named partition, to the domain and VBD number given.
Add -w to allow read-write access.

Example:
  vbdctl vbd create -n 5 -k vd1 -v 2 -w
  vbdctl vbd create -n 3 -p hda+ -v 0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateBacking(key, partition); err != nil {
				return err
			}
			if err := validateDomain(domain); err != nil {
				return err
			}
			if err := validateVbd(number); err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := a.verifyDomain(ctx, domain); err != nil {
				return err
			}

			mode := modeFlag(write)
			return a.run(ctx, func(st *v1alpha1.State, env command.Env) command.Command {
				if key != "" {
					return command.NewCreateVbd(st, env, key, domain, number, mode)
				}
				return command.NewCreateVbdFromPhysical(st, env, partition, domain, number, mode)
			})
		},
	}

	cmd.Flags().IntVarP(&domain, "domain", "n", unsetDomain, "domain id")
	cmd.Flags().StringVarP(&key, "key", "k", "", "virtual disk key")
	cmd.Flags().StringVarP(&partition, "partition", "p", "", "partition name or pattern")
	cmd.Flags().IntVarP(&number, "vbd", "v", unsetVbd, "VBD number")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "allow read-write access")
	return cmd
}

func (a *app) vbdDeleteCmd() *cobra.Command {
	var domain, number int

	cmd := &cobra.Command{
		Use:   "delete -n <domain_id> -v <vbd_num>",
		Short: "Remove a VBD binding",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateDomain(domain); err != nil {
				return err
			}
			if err := validateVbd(number); err != nil {
				return err
			}

			return a.run(cmd.Context(), func(st *v1alpha1.State, env command.Env) command.Command {
				return command.NewDeleteVbd(st, env, domain, number)
			})
		},
	}

	cmd.Flags().IntVarP(&domain, "domain", "n", unsetDomain, "domain id")
	cmd.Flags().IntVarP(&number, "vbd", "v", unsetVbd, "VBD number")
	return cmd
}

func (a *app) vbdListCmd() *cobra.Command {
	var (
		domain int
		opts   outputOptions
	)

	cmd := &cobra.Command{
		Use:   "list [-n <domain_id>]",
		Short: "List VBD bindings",
		Long: `List VBD bindings, optionally only those of one domain.

Output formats:
  -o table  Human-readable table (default)
  -o yaml   VBDList document
  -o json   VBDList document`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if domain != unsetDomain {
				if err := validateDomain(domain); err != nil {
					return err
				}
			}
			formatter, err := opts.formatter()
			if err != nil {
				return err
			}

			st, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			vbds := st.VBDs
			if domain != unsetDomain {
				vbds = st.VBDsForDomain(domain)
			}

			result, err := formatter.FormatVBDs(vbds)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			a.print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&domain, "domain", "n", unsetDomain, "only list bindings of this domain")
	opts.addFlags(cmd)
	return cmd
}

func (a *app) vbdShowCmd() *cobra.Command {
	var (
		domain, number int
		asXML          bool
		opts           outputOptions
	)

	cmd := &cobra.Command{
		Use:   "show -n <domain_id> -v <vbd_num> [--xml]",
		Short: "Show one VBD binding",
		Long: `Show one VBD binding.

With --xml the binding is printed as a libvirt <disk> element for a Xen
guest, backed by the partition's block device.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateDomain(domain); err != nil {
				return err
			}
			if err := validateVbd(number); err != nil {
				return err
			}
			formatter, err := opts.formatter()
			if err != nil {
				return err
			}

			st, err := a.load(cmd.Context())
			if err != nil {
				return err
			}

			v, ok := st.GetVBD(domain, number)
			if !ok {
				return &command.NotFoundError{Kind: "VBD", Name: fmt.Sprintf("%d of domain %d", number, domain)}
			}

			if asXML {
				xml, err := libvirt.DiskXML(st, *v)
				if err != nil {
					return err
				}
				a.print(xml + "\n")
				return nil
			}

			result, err := formatter.FormatVBD(*v)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			a.print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&domain, "domain", "n", unsetDomain, "domain id")
	cmd.Flags().IntVarP(&number, "vbd", "v", unsetVbd, "VBD number")
	cmd.Flags().BoolVar(&asXML, "xml", false, "print a libvirt <disk> element")
	opts.addFlags(cmd)
	return cmd
}

// outputOptions are the flags shared by listing commands.
type outputOptions struct {
	format    string
	noHeaders bool
}

func (o *outputOptions) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.format, "output", "o", string(output.FormatTable), "output format (table, yaml, json)")
	cmd.Flags().BoolVar(&o.noHeaders, "no-headers", false, "omit table headers")
}

func (o *outputOptions) formatter() (output.Formatter, error) {
	if err := output.ValidateFormat(o.format); err != nil {
		return nil, command.Invalidf("%v", err)
	}
	return output.NewFormatter(output.Options{
		Format:    output.Format(o.format),
		NoHeaders: o.noHeaders,
	})
}
