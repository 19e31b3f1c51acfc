package main

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/command"
	"github.com/jbweber/vbdctl/internal/naming"
)

func (a *app) physicalCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "physical",
		Short: "Grant or revoke raw partition access",
	}
	cmd.AddCommand(a.physicalGrantCmd())
	cmd.AddCommand(a.physicalRevokeCmd())
	return cmd
}

func (a *app) physicalGrantCmd() *cobra.Command {
	var (
		domain    int
		partition string
		subst     int
		write     bool
	)

	cmd := &cobra.Command{
		Use:   "grant -n <domain_id> -p <partition> [-s <subst>] [-w]",
		Short: "Grant a domain raw access to a partition",
		Long: `Grant a domain raw access to a partition by running xi_phys_grant.

"+" in the partition name is replaced by the domain id, or by -s when
given. The result is canonicalised with "xi_helper expand" before the
lookup unless expand_names is disabled. Add -w for read-write access.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateDomain(domain); err != nil {
				return err
			}
			if err := validatePartition(partition); err != nil {
				return err
			}
			if err := validateSubst(subst); err != nil {
				return err
			}
			a.warnUnusedSubst(partition, subst)

			ctx := cmd.Context()
			if err := a.verifyDomain(ctx, domain); err != nil {
				return err
			}

			mode := modeFlag(write)
			return a.run(ctx, func(st *v1alpha1.State, env command.Env) command.Command {
				return command.NewGrantPhysicalAccess(st, env, domain, partition, subst, mode)
			})
		},
	}

	cmd.Flags().IntVarP(&domain, "domain", "n", unsetDomain, "domain id")
	cmd.Flags().StringVarP(&partition, "partition", "p", "", "partition name or pattern")
	cmd.Flags().IntVarP(&subst, "subst", "s", command.SubstUnset, "value substituted for + (default: domain id)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "allow read-write access")
	return cmd
}

func (a *app) physicalRevokeCmd() *cobra.Command {
	var (
		domain    int
		partition string
		subst     int
	)

	cmd := &cobra.Command{
		Use:   "revoke -n <domain_id> -p <partition> [-s <subst>]",
		Short: "Revoke a domain's raw access to a partition",
		Long: `Revoke a domain's raw access to a partition by running xi_phys_revoke.

"+" in the partition name is replaced by the domain id, or by -s when
given, which lets one domain's access to another domain's partition be
revoked. The result is canonicalised with "xi_helper expand" before the
lookup unless expand_names is disabled.

Example:
  vbdctl physical revoke -n 3 -p hda+ -s 7`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateDomain(domain); err != nil {
				return err
			}
			if err := validatePartition(partition); err != nil {
				return err
			}
			if err := validateSubst(subst); err != nil {
				return err
			}
			a.warnUnusedSubst(partition, subst)

			return a.run(cmd.Context(), func(st *v1alpha1.State, env command.Env) command.Command {
				return command.NewRevokePhysicalAccess(st, env, domain, partition, subst)
			})
		},
	}

	cmd.Flags().IntVarP(&domain, "domain", "n", unsetDomain, "domain id")
	cmd.Flags().StringVarP(&partition, "partition", "p", "", "partition name or pattern")
	cmd.Flags().IntVarP(&subst, "subst", "s", command.SubstUnset, "value substituted for + (default: domain id)")
	return cmd
}

// warnUnusedSubst logs when -s cannot change the partition name.
func (a *app) warnUnusedSubst(partition string, subst int) {
	if subst == command.SubstUnset || naming.HasPlaceholder(partition) {
		return
	}
	a.logger.WithFields(logrus.Fields{
		"partition": partition,
		"subst":     subst,
	}).Warn("partition has no placeholder, -s is ignored")
}
