// Package output provides formatters for displaying vbdctl state
// (partitions, virtual disks and VBDs) in table, YAML or JSON form.
package output

import (
	"fmt"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// Format represents an output format type.
type Format string

const (
	// FormatTable is a human-readable table format.
	FormatTable Format = "table"
	// FormatYAML is a YAML format; partition lists can be fed back as a
	// partition definitions file.
	FormatYAML Format = "yaml"
	// FormatJSON is a JSON format for machine consumption.
	FormatJSON Format = "json"
)

// List kinds.
const (
	PartitionListKind   = "PartitionList"
	VirtualDiskListKind = "VirtualDiskList"
	VBDListKind         = "VBDList"
)

// Formatter formats vbdctl resources for output.
type Formatter interface {
	FormatPartitions(parts []v1alpha1.Partition) (string, error)
	FormatVirtualDisks(vds []v1alpha1.VirtualDisk) (string, error)
	FormatVBDs(vbds []v1alpha1.VBD) (string, error)

	// FormatVBD formats a single binding.
	FormatVBD(v v1alpha1.VBD) (string, error)
}

// Options contains options for formatting output.
type Options struct {
	// Format specifies the output format.
	Format Format
	// NoHeaders omits headers in table format.
	NoHeaders bool
}

// NewFormatter creates a new Formatter based on the specified format.
func NewFormatter(opts Options) (Formatter, error) {
	switch opts.Format {
	case FormatTable:
		return &TableFormatter{NoHeaders: opts.NoHeaders}, nil
	case FormatYAML:
		return &YAMLFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (supported: table, yaml, json)", opts.Format)
	}
}

// ValidateFormat checks if a format string is valid.
func ValidateFormat(format string) error {
	f := Format(format)
	switch f {
	case FormatTable, FormatYAML, FormatJSON:
		return nil
	default:
		return fmt.Errorf("invalid format: %s (valid formats: table, yaml, json)", format)
	}
}

// partitionList mirrors the partition definitions file.
type partitionList struct {
	v1alpha1.TypeMeta `json:",inline" yaml:",inline"`
	Partitions        []v1alpha1.Partition `json:"partitions" yaml:"partitions"`
}

type virtualDiskList struct {
	v1alpha1.TypeMeta `json:",inline" yaml:",inline"`
	VirtualDisks      []v1alpha1.VirtualDisk `json:"virtualDisks" yaml:"virtualDisks"`
}

type vbdList struct {
	v1alpha1.TypeMeta `json:",inline" yaml:",inline"`
	VBDs              []v1alpha1.VBD `json:"vbds" yaml:"vbds"`
}

func typeMeta(kind string) v1alpha1.TypeMeta {
	return v1alpha1.TypeMeta{APIVersion: v1alpha1.APIVersion(), Kind: kind}
}

func newPartitionList(parts []v1alpha1.Partition) partitionList {
	if parts == nil {
		parts = []v1alpha1.Partition{}
	}
	return partitionList{TypeMeta: typeMeta(PartitionListKind), Partitions: parts}
}

func newVirtualDiskList(vds []v1alpha1.VirtualDisk) virtualDiskList {
	if vds == nil {
		vds = []v1alpha1.VirtualDisk{}
	}
	return virtualDiskList{TypeMeta: typeMeta(VirtualDiskListKind), VirtualDisks: vds}
}

func newVBDList(vbds []v1alpha1.VBD) vbdList {
	if vbds == nil {
		vbds = []v1alpha1.VBD{}
	}
	return vbdList{TypeMeta: typeMeta(VBDListKind), VBDs: vbds}
}
