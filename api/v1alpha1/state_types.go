package v1alpha1

import "fmt"

// State is the aggregate persisted by vbdctl: the partition registry, the
// virtual disks and the VBD bindings.
//
// +kubebuilder:object:root=true
type State struct {
	TypeMeta `json:",inline" yaml:",inline"`

	// +optional
	ObjectMeta `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	// Partitions is the registry of named extents, keyed by name.
	// +optional
	Partitions []Partition `json:"partitions,omitempty" yaml:"partitions,omitempty"`

	// VirtualDisks are the logical disks created with "vd create".
	// +optional
	VirtualDisks []VirtualDisk `json:"virtualDisks,omitempty" yaml:"virtualDisks,omitempty"`

	// VBDs are the bindings of storage to domains, unique by (domain, number).
	// +optional
	VBDs []VBD `json:"vbds,omitempty" yaml:"vbds,omitempty"`

	// overlay holds partition definitions loaded from an external source for
	// this invocation only. It is never serialized.
	overlay map[string]Partition
}

// Extent is a contiguous byte range on a physical disk.
type Extent struct {
	// Disk is the hypervisor's physical disk number.
	Disk int `json:"disk" yaml:"disk"`

	// Offset is the start of the range in bytes.
	Offset int64 `json:"offset" yaml:"offset"`

	// Size is the length of the range in bytes.
	Size int64 `json:"size" yaml:"size"`
}

// String renders the extent as disk:offset+size.
func (e Extent) String() string {
	return fmt.Sprintf("%d:%d+%d", e.Disk, e.Offset, e.Size)
}

// Partition is a named, registered extent.
type Partition struct {
	Name   string `json:"name" yaml:"name"`
	Extent Extent `json:"extent" yaml:"extent"`
}

// ToExtent returns the partition's extent.
func (p Partition) ToExtent() Extent {
	return p.Extent
}

// VirtualDisk is a named logical disk backed by a partition.
type VirtualDisk struct {
	// Key identifies the disk. Generated when not supplied at creation.
	Key string `json:"key" yaml:"key"`

	// Partition is the resolved name of the backing partition.
	Partition string `json:"partition" yaml:"partition"`

	// Extent is the backing extent captured when the disk was created.
	Extent Extent `json:"extent" yaml:"extent"`

	// Mode is the widest access the disk may be bound with.
	Mode Mode `json:"mode" yaml:"mode"`

	// CreationTimestamp records when the disk was created.
	// +optional
	CreationTimestamp Time `json:"creationTimestamp,omitempty" yaml:"creationTimestamp,omitempty"`
}

// VBD binds a virtual disk or a partition to a domain under an access mode.
// Exactly one of VirtualDisk and Partition is set.
type VBD struct {
	Domain int `json:"domain" yaml:"domain"`
	Number int `json:"vbd" yaml:"vbd"`

	// VirtualDisk is the key of the backing virtual disk.
	// +optional
	VirtualDisk string `json:"key,omitempty" yaml:"key,omitempty"`

	// Partition is the resolved name of the backing partition.
	// +optional
	Partition string `json:"partition,omitempty" yaml:"partition,omitempty"`

	Mode Mode `json:"mode" yaml:"mode"`
}

// Backing describes what the VBD is bound to, for display.
func (v VBD) Backing() string {
	if v.VirtualDisk != "" {
		return "vd:" + v.VirtualDisk
	}
	return "partition:" + v.Partition
}

// Mode is the access mode of a binding.
type Mode string

const (
	// ModeReadOnly grants read access only.
	ModeReadOnly Mode = "ReadOnly"
	// ModeReadWrite grants read and write access.
	ModeReadWrite Mode = "ReadWrite"
)

// ModeFromWritable maps the -w flag to a Mode.
func ModeFromWritable(write bool) Mode {
	if write {
		return ModeReadWrite
	}
	return ModeReadOnly
}

// IsValid reports whether m is a known mode.
func (m Mode) IsValid() bool {
	return m == ModeReadOnly || m == ModeReadWrite
}

// Writable reports whether m permits writes.
func (m Mode) Writable() bool {
	return m == ModeReadWrite
}

// HelperFlag is the access flag passed to the privileged helpers.
func (m Mode) HelperFlag() string {
	if m.Writable() {
		return "rw"
	}
	return "r"
}
