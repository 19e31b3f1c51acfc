package loader

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

const validState = `
apiVersion: vbdctl.xenoserver.org/v1alpha1
kind: VbdState
metadata:
  name: host-a
partitions:
  - name: sda1
    extent: {disk: 0, offset: 0, size: 1048576}
  - name: part5
    extent: {disk: 1, offset: 4096, size: 8192}
virtualDisks:
  - key: vd1
    partition: sda1
    extent: {disk: 0, offset: 0, size: 1048576}
vbds:
  - domain: 5
    vbd: 2
    key: vd1
    mode: ReadWrite
  - domain: 5
    vbd: 3
    partition: part5
`

func TestLoadFromYAML_Valid(t *testing.T) {
	st, err := LoadFromYAML([]byte(validState))
	if err != nil {
		t.Fatalf("LoadFromYAML() error = %v", err)
	}

	if st.Name != "host-a" {
		t.Errorf("Name = %q, want host-a", st.Name)
	}
	if len(st.Partitions) != 2 || len(st.VirtualDisks) != 1 || len(st.VBDs) != 2 {
		t.Fatalf("unexpected counts: %d partitions, %d vds, %d vbds",
			len(st.Partitions), len(st.VirtualDisks), len(st.VBDs))
	}

	p, ok := st.GetPartition("part5")
	if !ok {
		t.Fatal("part5 not loaded")
	}
	if p.Extent != (v1alpha1.Extent{Disk: 1, Offset: 4096, Size: 8192}) {
		t.Errorf("part5 extent = %v", p.Extent)
	}

	// Defaults
	if st.VirtualDisks[0].Mode != v1alpha1.ModeReadWrite {
		t.Errorf("default vd mode = %q, want ReadWrite", st.VirtualDisks[0].Mode)
	}
	if st.VBDs[1].Mode != v1alpha1.ModeReadOnly {
		t.Errorf("default vbd mode = %q, want ReadOnly", st.VBDs[1].Mode)
	}
}

func TestLoadFromYAML_Invalid(t *testing.T) {
	header := "apiVersion: vbdctl.xenoserver.org/v1alpha1\nkind: VbdState\n"

	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing apiVersion",
			yaml:    "kind: VbdState\n",
			wantErr: "missing required field: apiVersion",
		},
		{
			name:    "missing kind",
			yaml:    "apiVersion: vbdctl.xenoserver.org/v1alpha1\n",
			wantErr: "missing required field: kind",
		},
		{
			name:    "wrong apiVersion",
			yaml:    "apiVersion: example.com/v1\nkind: VbdState\n",
			wantErr: "unsupported apiVersion",
		},
		{
			name:    "wrong kind",
			yaml:    "apiVersion: vbdctl.xenoserver.org/v1alpha1\nkind: VirtualMachine\n",
			wantErr: "unsupported kind",
		},
		{
			name:    "malformed YAML",
			yaml:    "apiVersion: [",
			wantErr: "failed to unmarshal YAML",
		},
		{
			name: "duplicate partition",
			yaml: header + `partitions:
  - {name: sda1, extent: {disk: 0, offset: 0, size: 1}}
  - {name: sda1, extent: {disk: 0, offset: 1, size: 1}}
`,
			wantErr: "is duplicated",
		},
		{
			name:    "zero size partition",
			yaml:    header + "partitions:\n  - {name: sda1, extent: {disk: 0, offset: 0, size: 0}}\n",
			wantErr: "size must be > 0",
		},
		{
			name:    "domain zero",
			yaml:    header + "vbds:\n  - {domain: 0, vbd: 0, partition: sda1}\n",
			wantErr: "domain must be >= 1",
		},
		{
			name: "duplicate binding",
			yaml: header + `vbds:
  - {domain: 1, vbd: 0, partition: sda1}
  - {domain: 1, vbd: 0, partition: sda2}
`,
			wantErr: "domain 1 vbd 0 is duplicated",
		},
		{
			name:    "binding with two backings",
			yaml:    header + "vbds:\n  - {domain: 1, vbd: 0, partition: sda1, key: vd1}\n",
			wantErr: "exactly one of",
		},
		{
			name:    "binding to unknown virtual disk",
			yaml:    header + "vbds:\n  - {domain: 1, vbd: 0, key: vd9}\n",
			wantErr: "does not name a virtual disk",
		},
		{
			name:    "invalid mode",
			yaml:    header + "vbds:\n  - {domain: 1, vbd: 0, partition: sda1, mode: rw}\n",
			wantErr: "mode \"rw\" is invalid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromYAML([]byte(tt.yaml))
			if err == nil {
				t.Fatal("LoadFromYAML() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want substring %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.yaml")

	st := v1alpha1.NewState("host-a")
	st.Partitions = []v1alpha1.Partition{
		{Name: "sda1", Extent: v1alpha1.Extent{Disk: 0, Offset: 0, Size: 512}},
	}
	st.VBDs = []v1alpha1.VBD{
		{Domain: 2, Number: 0, Partition: "sda1", Mode: v1alpha1.ModeReadOnly},
	}

	if err := SaveToFile(st, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if loaded.UID != st.UID {
		t.Errorf("UID = %q, want %q", loaded.UID, st.UID)
	}
	if _, ok := loaded.GetVBD(2, 0); !ok {
		t.Error("binding (2, 0) lost")
	}

	// No temporary files are left next to the state file.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		names := []string{}
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("directory contains %v, want only state.yaml", names)
	}
}

func TestSaveToFile_SetsTypeMeta(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.yaml")

	if err := SaveToFile(&v1alpha1.State{}, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}
	if _, err := LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("error = %v, want not-exist cause", err)
	}
}

func TestLoadPartitionsFromFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "parts.yaml")
	content := `apiVersion: vbdctl.xenoserver.org/v1alpha1
kind: PartitionList
partitions:
  - name: " part3 "
    extent: {disk: 2, offset: 0, size: 2048}
`
	if err := os.WriteFile(good, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	parts, err := LoadPartitionsFromFile(good)
	if err != nil {
		t.Fatalf("LoadPartitionsFromFile() error = %v", err)
	}
	if len(parts) != 1 || parts[0].Name != "part3" {
		t.Errorf("parts = %+v", parts)
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("apiVersion: vbdctl.xenoserver.org/v1alpha1\nkind: VbdState\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadPartitionsFromFile(bad); err == nil {
		t.Error("expected kind mismatch error")
	}
}
