package helper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/jbweber/vbdctl/api/v1alpha1"
)

// writeScript creates an executable shell script in a temp directory.
func writeScript(t *testing.T, name, body string) string {
	t.Helper()
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available, skipping exec test")
	}
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0755); err != nil {
		t.Fatalf("failed to write script: %v", err)
	}
	return path
}

func TestArgs(t *testing.T) {
	got := Args(5, int64(1048576), int32(2), uint64(7), "sda7", v1alpha1.Extent{Disk: 1, Offset: 2, Size: 3}, true)
	want := []string{"5", "1048576", "2", "7", "sda7", "1:2+3", "true"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %v, want %v", got, want)
	}
}

func TestRender(t *testing.T) {
	got := Render([]string{"/usr/lib/xen/bin/xi_phys_revoke", "3", "0", "0", "4096"})
	want := "Would run: /usr/lib/xen/bin/xi_phys_revoke 3 0 0 4096"
	if got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestExec_Success(t *testing.T) {
	script := writeScript(t, "echo_args", `echo "args:$*"`)

	inv := NewExec(nil)
	res, err := inv.Invoke(context.Background(), script, "3", "0", "512", "1024")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if res.Simulated {
		t.Error("Simulated = true for real execution")
	}
	if strings.TrimSpace(res.Output) != "args:3 0 512 1024" {
		t.Errorf("Output = %q", res.Output)
	}
	if len(res.Argv) != 5 || res.Argv[0] != script {
		t.Errorf("Argv = %v", res.Argv)
	}
}

func TestExec_NonZeroExit(t *testing.T) {
	script := writeScript(t, "fail", `echo "no such domain" >&2; exit 3`)

	inv := NewExec(nil)
	_, err := inv.Invoke(context.Background(), script, "9")
	if err == nil {
		t.Fatal("expected error for non-zero exit")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", execErr.ExitCode)
	}
	if execErr.Stderr != "no such domain" {
		t.Errorf("Stderr = %q", execErr.Stderr)
	}
	if !reflect.DeepEqual(execErr.Argv, []string{script, "9"}) {
		t.Errorf("Argv = %v", execErr.Argv)
	}
	if !strings.Contains(err.Error(), "exit code 3") {
		t.Errorf("Error() = %q, want exit code in message", err.Error())
	}
}

func TestExec_MissingExecutable(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "xi_phys_revoke")

	inv := NewExec(nil)
	_, err := inv.Invoke(context.Background(), missing, "1")
	if err == nil {
		t.Fatal("expected error for missing executable")
	}

	var execErr *ExecutionError
	if !errors.As(err, &execErr) {
		t.Fatalf("error type = %T, want *ExecutionError", err)
	}
	if execErr.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", execErr.ExitCode)
	}
	if execErr.Err == nil {
		t.Error("launch cause not attached")
	}
	if !IsExecutionError(err) {
		t.Error("IsExecutionError() = false")
	}
}

func TestDryRun(t *testing.T) {
	inv := NewDryRun(nil)

	res, err := inv.Invoke(context.Background(), "/opt/xi/xi_phys_revoke", "3", "0", "0", "4096")
	if err != nil {
		t.Fatalf("Invoke() error = %v", err)
	}
	if !res.Simulated {
		t.Error("Simulated = false")
	}
	if res.Output != "Would run: /opt/xi/xi_phys_revoke 3 0 0 4096" {
		t.Errorf("Output = %q", res.Output)
	}

	// Same input, same rendering.
	res2, _ := inv.Invoke(context.Background(), "/opt/xi/xi_phys_revoke", "3", "0", "0", "4096")
	if res2.Output != res.Output {
		t.Errorf("rendering not deterministic: %q vs %q", res2.Output, res.Output)
	}
	if len(inv.Calls) != 2 {
		t.Errorf("Calls = %d, want 2", len(inv.Calls))
	}
}
