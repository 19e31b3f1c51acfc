package output

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// YAMLFormatter formats resources as YAML list documents.
type YAMLFormatter struct{}

// FormatPartitions formats partitions as a PartitionList document, the
// same format accepted as a partition definitions file.
func (f *YAMLFormatter) FormatPartitions(parts []v1alpha1.Partition) (string, error) {
	return marshalYAML(newPartitionList(parts), "partitions")
}

// FormatVirtualDisks formats virtual disks as a VirtualDiskList document.
func (f *YAMLFormatter) FormatVirtualDisks(vds []v1alpha1.VirtualDisk) (string, error) {
	return marshalYAML(newVirtualDiskList(vds), "virtual disks")
}

// FormatVBDs formats bindings as a VBDList document.
func (f *YAMLFormatter) FormatVBDs(vbds []v1alpha1.VBD) (string, error) {
	return marshalYAML(newVBDList(vbds), "VBDs")
}

// FormatVBD formats a single binding.
func (f *YAMLFormatter) FormatVBD(v v1alpha1.VBD) (string, error) {
	return marshalYAML(v, "VBD")
}

func marshalYAML(v interface{}, what string) (string, error) {
	data, err := yaml.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s to YAML: %w", what, err)
	}
	return string(data), nil
}
