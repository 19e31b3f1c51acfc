// Package loader reads and writes the vbdctl state document and external
// partition definition files as YAML.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// PartitionListKind is the kind of an external partition definitions file.
const PartitionListKind = "PartitionList"

// PartitionList is the document format of an external partition
// definitions file.
type PartitionList struct {
	v1alpha1.TypeMeta `yaml:",inline"`
	Partitions        []v1alpha1.Partition `yaml:"partitions"`
}

// LoadFromFile loads a State from a YAML file.
func LoadFromFile(path string) (*v1alpha1.State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	return LoadFromYAML(data)
}

// LoadFromYAML decodes and validates a State document.
func LoadFromYAML(data []byte) (*v1alpha1.State, error) {
	var st v1alpha1.State
	if err := yaml.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}

	if err := checkTypeMeta(st.TypeMeta, v1alpha1.StateKind); err != nil {
		return nil, err
	}

	applyDefaults(&st)

	if err := validateState(&st); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return &st, nil
}

// SaveToFile writes the State to path. The document is written to a
// temporary file in the same directory, synced and renamed over path, so
// readers see either the previous or the new content.
func SaveToFile(st *v1alpha1.State, path string) error {
	v1alpha1.SetDefaultAPIVersion(st)

	data, err := yaml.Marshal(st)
	if err != nil {
		return fmt.Errorf("failed to marshal state to YAML: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file in %s: %w", dir, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		// No-op once the rename has happened.
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpPath, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpPath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpPath, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}

	return nil
}

// LoadPartitionsFromFile reads an external partition definitions file.
func LoadPartitionsFromFile(path string) ([]v1alpha1.Partition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}

	var list PartitionList
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("failed to unmarshal YAML: %w", err)
	}
	if err := checkTypeMeta(list.TypeMeta, PartitionListKind); err != nil {
		return nil, err
	}
	normalizePartitions(list.Partitions)
	if err := validatePartitions(list.Partitions); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	return list.Partitions, nil
}

func checkTypeMeta(tm v1alpha1.TypeMeta, kind string) error {
	if tm.APIVersion == "" {
		return fmt.Errorf("missing required field: apiVersion")
	}
	if tm.Kind == "" {
		return fmt.Errorf("missing required field: kind")
	}
	if tm.APIVersion != v1alpha1.APIVersion() {
		return fmt.Errorf("unsupported apiVersion: %s (expected: %s)", tm.APIVersion, v1alpha1.APIVersion())
	}
	if tm.Kind != kind {
		return fmt.Errorf("unsupported kind: %s (expected: %s)", tm.Kind, kind)
	}
	return nil
}

// applyDefaults fills optional fields.
func applyDefaults(st *v1alpha1.State) {
	normalizePartitions(st.Partitions)

	for i := range st.VirtualDisks {
		if st.VirtualDisks[i].Mode == "" {
			st.VirtualDisks[i].Mode = v1alpha1.ModeReadWrite
		}
	}
	for i := range st.VBDs {
		if st.VBDs[i].Mode == "" {
			st.VBDs[i].Mode = v1alpha1.ModeReadOnly
		}
	}
}

func normalizePartitions(parts []v1alpha1.Partition) {
	for i := range parts {
		parts[i].Name = strings.TrimSpace(parts[i].Name)
	}
}

// validateState checks the document for internal consistency.
func validateState(st *v1alpha1.State) error {
	if err := validatePartitions(st.Partitions); err != nil {
		return err
	}

	keys := make(map[string]bool)
	for i, vd := range st.VirtualDisks {
		if vd.Key == "" {
			return fmt.Errorf("virtualDisks[%d].key is required", i)
		}
		if keys[vd.Key] {
			return fmt.Errorf("virtualDisks[%d].key %q is duplicated", i, vd.Key)
		}
		keys[vd.Key] = true
		if !vd.Mode.IsValid() {
			return fmt.Errorf("virtualDisks[%d].mode %q is invalid", i, vd.Mode)
		}
		if err := validateExtent(vd.Extent); err != nil {
			return fmt.Errorf("virtualDisks[%d].extent: %w", i, err)
		}
	}

	type vbdKey struct{ domain, number int }
	bindings := make(map[vbdKey]bool)
	for i, v := range st.VBDs {
		if v.Domain < 1 {
			return fmt.Errorf("vbds[%d].domain must be >= 1, got %d", i, v.Domain)
		}
		if v.Number < 0 {
			return fmt.Errorf("vbds[%d].vbd must be >= 0, got %d", i, v.Number)
		}
		k := vbdKey{v.Domain, v.Number}
		if bindings[k] {
			return fmt.Errorf("vbds[%d]: domain %d vbd %d is duplicated", i, v.Domain, v.Number)
		}
		bindings[k] = true
		if (v.VirtualDisk == "") == (v.Partition == "") {
			return fmt.Errorf("vbds[%d] must specify exactly one of 'key' or 'partition'", i)
		}
		if v.VirtualDisk != "" && !keys[v.VirtualDisk] {
			return fmt.Errorf("vbds[%d].key %q does not name a virtual disk", i, v.VirtualDisk)
		}
		if !v.Mode.IsValid() {
			return fmt.Errorf("vbds[%d].mode %q is invalid", i, v.Mode)
		}
	}

	return nil
}

func validatePartitions(parts []v1alpha1.Partition) error {
	names := make(map[string]bool)
	for i, p := range parts {
		if p.Name == "" {
			return fmt.Errorf("partitions[%d].name is required", i)
		}
		if names[p.Name] {
			return fmt.Errorf("partitions[%d].name %q is duplicated", i, p.Name)
		}
		names[p.Name] = true
		if err := validateExtent(p.Extent); err != nil {
			return fmt.Errorf("partitions[%d].extent: %w", i, err)
		}
	}
	return nil
}

func validateExtent(e v1alpha1.Extent) error {
	if e.Disk < 0 {
		return fmt.Errorf("disk must be >= 0, got %d", e.Disk)
	}
	if e.Offset < 0 {
		return fmt.Errorf("offset must be >= 0, got %d", e.Offset)
	}
	if e.Size <= 0 {
		return fmt.Errorf("size must be > 0, got %d", e.Size)
	}
	return nil
}
