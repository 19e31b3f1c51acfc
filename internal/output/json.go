package output

import (
	"encoding/json"
	"fmt"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// JSONFormatter formats resources as JSON list documents.
type JSONFormatter struct{}

// FormatPartitions formats partitions as a PartitionList document.
func (f *JSONFormatter) FormatPartitions(parts []v1alpha1.Partition) (string, error) {
	return marshalJSON(newPartitionList(parts), "partitions")
}

// FormatVirtualDisks formats virtual disks as a VirtualDiskList document.
func (f *JSONFormatter) FormatVirtualDisks(vds []v1alpha1.VirtualDisk) (string, error) {
	return marshalJSON(newVirtualDiskList(vds), "virtual disks")
}

// FormatVBDs formats bindings as a VBDList document.
func (f *JSONFormatter) FormatVBDs(vbds []v1alpha1.VBD) (string, error) {
	return marshalJSON(newVBDList(vbds), "VBDs")
}

// FormatVBD formats a single binding as a JSON object.
func (f *JSONFormatter) FormatVBD(v v1alpha1.VBD) (string, error) {
	return marshalJSON(v, "VBD")
}

func marshalJSON(v interface{}, what string) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal %s to JSON: %w", what, err)
	}
	return string(data) + "\n", nil
}
