package command

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// CreateVbd binds a keyed virtual disk to a domain.
type CreateVbd struct {
	st     *v1alpha1.State
	env    Env
	key    string
	domain int
	number int
	mode   v1alpha1.Mode
}

// NewCreateVbd builds a CreateVbd command against st.
func NewCreateVbd(st *v1alpha1.State, env Env, key string, domain, number int, mode v1alpha1.Mode) *CreateVbd {
	return &CreateVbd{st: st, env: env, key: key, domain: domain, number: number, mode: mode}
}

func (c *CreateVbd) name() string { return "vbd create" }

// Execute records the binding. A read-only virtual disk cannot be bound
// read-write.
func (c *CreateVbd) Execute(ctx context.Context) (string, error) {
	vd, ok := c.st.GetVirtualDisk(c.key)
	if !ok {
		return "", &NotFoundError{Kind: "virtual disk", Name: c.key}
	}
	if c.mode.Writable() && !vd.Mode.Writable() {
		return "", &ConflictError{Kind: "virtual disk", Name: c.key, Reason: "is read-only"}
	}
	if err := checkVbdFree(c.st, c.domain, c.number); err != nil {
		return "", err
	}

	c.st.AddVBD(v1alpha1.VBD{
		Domain:      c.domain,
		Number:      c.number,
		VirtualDisk: c.key,
		Mode:        c.mode,
	})

	c.env.logger().WithFields(logrus.Fields{
		"domain": c.domain,
		"vbd":    c.number,
		"key":    c.key,
		"mode":   c.mode,
	}).Info("VBD created")

	return fmt.Sprintf("Created VBD %d for domain %d from virtual disk %s", c.number, c.domain, c.key), nil
}

// CreateVbdFromPhysical binds a registered partition to a domain. The
// partition pattern is resolved with the domain id.
type CreateVbdFromPhysical struct {
	st      *v1alpha1.State
	env     Env
	pattern string
	domain  int
	number  int
	mode    v1alpha1.Mode
}

// NewCreateVbdFromPhysical builds a CreateVbdFromPhysical command against st.
func NewCreateVbdFromPhysical(st *v1alpha1.State, env Env, pattern string, domain, number int, mode v1alpha1.Mode) *CreateVbdFromPhysical {
	return &CreateVbdFromPhysical{st: st, env: env, pattern: pattern, domain: domain, number: number, mode: mode}
}

func (c *CreateVbdFromPhysical) name() string { return "vbd create (physical)" }

// Execute resolves the partition and records the binding.
func (c *CreateVbdFromPhysical) Execute(ctx context.Context) (string, error) {
	part, err := resolvePartition(ctx, c.st, c.env, c.pattern, c.domain)
	if err != nil {
		return "", wrapFailure("could not resolve partition", err)
	}
	if err := checkVbdFree(c.st, c.domain, c.number); err != nil {
		return "", err
	}

	c.st.AddVBD(v1alpha1.VBD{
		Domain:    c.domain,
		Number:    c.number,
		Partition: part.Name,
		Mode:      c.mode,
	})

	c.env.logger().WithFields(logrus.Fields{
		"domain":    c.domain,
		"vbd":       c.number,
		"partition": part.Name,
		"mode":      c.mode,
	}).Info("VBD created")

	return fmt.Sprintf("Created VBD %d for domain %d from partition %s", c.number, c.domain, part.Name), nil
}

// DeleteVbd removes a binding.
type DeleteVbd struct {
	st     *v1alpha1.State
	env    Env
	domain int
	number int
}

// NewDeleteVbd builds a DeleteVbd command against st.
func NewDeleteVbd(st *v1alpha1.State, env Env, domain, number int) *DeleteVbd {
	return &DeleteVbd{st: st, env: env, domain: domain, number: number}
}

func (c *DeleteVbd) name() string { return "vbd delete" }

// Execute removes the binding.
func (c *DeleteVbd) Execute(ctx context.Context) (string, error) {
	if !c.st.RemoveVBD(c.domain, c.number) {
		return "", &NotFoundError{Kind: "VBD", Name: vbdName(c.domain, c.number)}
	}

	c.env.logger().WithFields(logrus.Fields{
		"domain": c.domain,
		"vbd":    c.number,
	}).Info("VBD deleted")

	return fmt.Sprintf("Deleted VBD %d from domain %d", c.number, c.domain), nil
}

func checkVbdFree(st *v1alpha1.State, domain, number int) error {
	if _, ok := st.GetVBD(domain, number); ok {
		return &ConflictError{Kind: "VBD", Name: vbdName(domain, number)}
	}
	return nil
}

func vbdName(domain, number int) string {
	return fmt.Sprintf("%d of domain %d", number, domain)
}
