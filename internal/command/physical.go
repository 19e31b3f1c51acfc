package command

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/helper"
	"github.com/jbweber/vbdctl/internal/naming"
)

// RevokePhysicalAccess takes a domain's raw access to a partition away.
type RevokePhysicalAccess struct {
	st      *v1alpha1.State
	env     Env
	domain  int
	pattern string
	subst   int
}

// NewRevokePhysicalAccess builds a RevokePhysicalAccess command against st.
// subst replaces the placeholder in pattern; SubstUnset means the domain id.
func NewRevokePhysicalAccess(st *v1alpha1.State, env Env, domain int, pattern string, subst int) *RevokePhysicalAccess {
	return &RevokePhysicalAccess{st: st, env: env, domain: domain, pattern: pattern, subst: subst}
}

func (c *RevokePhysicalAccess) name() string { return "physical revoke" }

// Execute runs xi_phys_revoke for the resolved partition's extent.
func (c *RevokePhysicalAccess) Execute(ctx context.Context) (string, error) {
	part, err := resolvePartition(ctx, c.st, c.env, c.pattern, substitution(c.subst, c.domain))
	if err != nil {
		return "", wrapFailure("could not revoke physical access", err)
	}

	e := part.ToExtent()
	res, err := c.env.invoke(ctx, naming.HelperPhysRevoke, helper.Args(c.domain, e.Disk, e.Offset, e.Size))
	if err != nil {
		return "", wrapFailure("could not revoke physical access", err)
	}
	if res.Simulated {
		return res.Output, nil
	}

	c.env.logger().WithFields(logrus.Fields{
		"domain":    c.domain,
		"partition": part.Name,
	}).Info("physical access revoked")

	return fmt.Sprintf("Revoked physical access from domain %d", c.domain), nil
}

// GrantPhysicalAccess gives a domain raw access to a partition.
type GrantPhysicalAccess struct {
	st      *v1alpha1.State
	env     Env
	domain  int
	pattern string
	subst   int
	mode    v1alpha1.Mode
}

// NewGrantPhysicalAccess builds a GrantPhysicalAccess command against st.
// subst replaces the placeholder in pattern; SubstUnset means the domain id.
func NewGrantPhysicalAccess(st *v1alpha1.State, env Env, domain int, pattern string, subst int, mode v1alpha1.Mode) *GrantPhysicalAccess {
	return &GrantPhysicalAccess{st: st, env: env, domain: domain, pattern: pattern, subst: subst, mode: mode}
}

func (c *GrantPhysicalAccess) name() string { return "physical grant" }

// Execute runs xi_phys_grant for the resolved partition's extent.
func (c *GrantPhysicalAccess) Execute(ctx context.Context) (string, error) {
	part, err := resolvePartition(ctx, c.st, c.env, c.pattern, substitution(c.subst, c.domain))
	if err != nil {
		return "", wrapFailure("could not grant physical access", err)
	}

	e := part.ToExtent()
	args := helper.Args(c.mode.HelperFlag(), c.domain, e.Disk, e.Offset, e.Size)
	res, err := c.env.invoke(ctx, naming.HelperPhysGrant, args)
	if err != nil {
		return "", wrapFailure("could not grant physical access", err)
	}
	if res.Simulated {
		return res.Output, nil
	}

	c.env.logger().WithFields(logrus.Fields{
		"domain":    c.domain,
		"partition": part.Name,
		"mode":      c.mode,
	}).Info("physical access granted")

	return fmt.Sprintf("Granted physical access to domain %d", c.domain), nil
}

func substitution(subst, domain int) int {
	if subst == SubstUnset {
		return domain
	}
	return subst
}

func (e Env) invoke(ctx context.Context, name string, args []string) (helper.Result, error) {
	if e.Invoker == nil {
		return helper.Result{}, fmt.Errorf("no helper invoker configured for %s", name)
	}
	return e.Invoker.Invoke(ctx, naming.HelperPath(e.ToolsDir, name), args...)
}
