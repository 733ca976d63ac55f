package git

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func hookFile(dir string) string {
	return filepath.Join(dir, ".git", "hooks", "pre-commit")
}

func writeForeignHook(t *testing.T, dir string) {
	t.Helper()
	path := hookFile(dir)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("#!/bin/sh\nmake lint\n"), 0o755); err != nil {
		t.Fatal(err)
	}
}

func TestHookScript(t *testing.T) {
	script := HookScript(HookOptions{FailUnder: -1})
	if !strings.HasPrefix(script, "#!/bin/sh\n"+hookMarker+"\n") {
		t.Errorf("expected shebang and marker, got:\n%s", script)
	}
	if !strings.Contains(script, "exec memsafe analyze --staged --no-color\n") {
		t.Errorf("expected staged analysis without threshold, got:\n%s", script)
	}

	script = HookScript(HookOptions{FailUnder: 60})
	if !strings.Contains(script, "--no-color --fail-under 60\n") {
		t.Errorf("expected threshold flag, got:\n%s", script)
	}
}

func TestInstallHook_WritesExecutableScript(t *testing.T) {
	dir := setupGitRepo(t)
	svc := NewExecService(dir)

	if err := svc.InstallHook(context.Background(), HookOptions{FailUnder: 70}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(hookFile(dir))
	if err != nil {
		t.Fatalf("reading hook: %v", err)
	}
	if string(data) != HookScript(HookOptions{FailUnder: 70}) {
		t.Errorf("unexpected hook content:\n%s", data)
	}

	info, err := os.Stat(hookFile(dir))
	if err != nil {
		t.Fatalf("stat hook: %v", err)
	}
	if info.Mode()&0o100 == 0 {
		t.Errorf("expected executable hook, got mode %v", info.Mode())
	}
}

func TestInstallHook_RewritesManagedHook(t *testing.T) {
	dir := setupGitRepo(t)
	svc := NewExecService(dir)

	if err := svc.InstallHook(context.Background(), HookOptions{FailUnder: -1}); err != nil {
		t.Fatalf("first install: %v", err)
	}
	if err := svc.InstallHook(context.Background(), HookOptions{FailUnder: 80}); err != nil {
		t.Fatalf("second install: %v", err)
	}

	data, err := os.ReadFile(hookFile(dir))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "--fail-under 80") {
		t.Errorf("expected updated threshold, got:\n%s", data)
	}
}

func TestInstallHook_RefusesForeignHook(t *testing.T) {
	dir := setupGitRepo(t)
	writeForeignHook(t, dir)

	err := NewExecService(dir).InstallHook(context.Background(), HookOptions{FailUnder: -1})
	if !errors.Is(err, ErrForeignHook) {
		t.Fatalf("expected ErrForeignHook, got %v", err)
	}

	data, _ := os.ReadFile(hookFile(dir))
	if !strings.Contains(string(data), "make lint") {
		t.Error("foreign hook must be left untouched")
	}
}

func TestRemoveHook_Managed(t *testing.T) {
	dir := setupGitRepo(t)
	svc := NewExecService(dir)

	if err := svc.InstallHook(context.Background(), HookOptions{FailUnder: -1}); err != nil {
		t.Fatalf("install: %v", err)
	}
	if err := svc.RemoveHook(context.Background()); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := os.Stat(hookFile(dir)); !os.IsNotExist(err) {
		t.Error("expected hook to be removed")
	}
}

func TestRemoveHook_Missing(t *testing.T) {
	dir := setupGitRepo(t)

	if err := NewExecService(dir).RemoveHook(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRemoveHook_ForeignHook(t *testing.T) {
	dir := setupGitRepo(t)
	writeForeignHook(t, dir)

	err := NewExecService(dir).RemoveHook(context.Background())
	if !errors.Is(err, ErrForeignHook) {
		t.Fatalf("expected ErrForeignHook, got %v", err)
	}
	if _, statErr := os.Stat(hookFile(dir)); statErr != nil {
		t.Error("foreign hook must not be deleted")
	}
}

func TestInstallHook_OutsideRepo(t *testing.T) {
	err := NewExecService(t.TempDir()).InstallHook(context.Background(), HookOptions{FailUnder: -1})
	if err == nil {
		t.Fatal("expected error outside a git repository")
	}
}
