package command

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// CreateVirtualDisk registers a virtual disk backed by a partition.
type CreateVirtualDisk struct {
	st        *v1alpha1.State
	env       Env
	key       string
	partition string
	mode      v1alpha1.Mode
}

// NewCreateVirtualDisk builds a CreateVirtualDisk command against st. An
// empty key is replaced with a generated one.
func NewCreateVirtualDisk(st *v1alpha1.State, env Env, key, partition string, mode v1alpha1.Mode) *CreateVirtualDisk {
	return &CreateVirtualDisk{st: st, env: env, key: key, partition: partition, mode: mode}
}

func (c *CreateVirtualDisk) name() string { return "vd create" }

// Execute records the virtual disk and returns its key.
func (c *CreateVirtualDisk) Execute(ctx context.Context) (string, error) {
	part, ok := c.st.GetPartition(c.partition)
	if !ok {
		return "", &NotFoundError{Kind: "partition", Name: c.partition}
	}

	key := c.key
	if key == "" {
		key = uuid.New().String()
	}
	if _, exists := c.st.GetVirtualDisk(key); exists {
		return "", &ConflictError{Kind: "virtual disk", Name: key}
	}

	c.st.AddVirtualDisk(v1alpha1.VirtualDisk{
		Key:               key,
		Partition:         part.Name,
		Extent:            part.ToExtent(),
		Mode:              c.mode,
		CreationTimestamp: v1alpha1.Time{Time: time.Now()},
	})

	c.env.logger().WithFields(logrus.Fields{
		"key":       key,
		"partition": part.Name,
	}).Info("virtual disk created")

	return key, nil
}

// DeleteVirtualDisk removes a virtual disk that no VBD uses.
type DeleteVirtualDisk struct {
	st  *v1alpha1.State
	env Env
	key string
}

// NewDeleteVirtualDisk builds a DeleteVirtualDisk command against st.
func NewDeleteVirtualDisk(st *v1alpha1.State, env Env, key string) *DeleteVirtualDisk {
	return &DeleteVirtualDisk{st: st, env: env, key: key}
}

func (c *DeleteVirtualDisk) name() string { return "vd delete" }

// Execute removes the virtual disk.
func (c *DeleteVirtualDisk) Execute(ctx context.Context) (string, error) {
	if _, ok := c.st.GetVirtualDisk(c.key); !ok {
		return "", &NotFoundError{Kind: "virtual disk", Name: c.key}
	}
	if users := c.st.VBDsUsingDisk(c.key); len(users) > 0 {
		return "", &ConflictError{
			Kind:   "virtual disk",
			Name:   c.key,
			Reason: fmt.Sprintf("is still bound to %d VBD(s)", len(users)),
		}
	}

	c.st.RemoveVirtualDisk(c.key)
	c.env.logger().WithField("key", c.key).Info("virtual disk deleted")

	return fmt.Sprintf("Deleted virtual disk %s", c.key), nil
}
