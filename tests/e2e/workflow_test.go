package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// habhub runs the built binary against an isolated home directory.
type habhub struct {
	t    *testing.T
	path string
	env  []string
}

func setup(t *testing.T) *habhub {
	t.Helper()
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get cwd: %v", err)
	}

	// Allow overriding bin dir via env var, default to ../../bin (relative to tests/e2e)
	binDir := os.Getenv("HABHUB_BIN_DIR")
	if binDir == "" {
		binDir = filepath.Join(cwd, "..", "..", "bin")
	}
	binDir, _ = filepath.Abs(binDir)
	cliPath := filepath.Join(binDir, "habhub")
	if _, err := os.Stat(cliPath); os.IsNotExist(err) {
		t.Skipf("CLI binary not found at %s. Build it with 'go build -o bin/habhub ./cmd/habhub'.", cliPath)
	}

	tempDir := t.TempDir()
	var env []string
	for _, e := range os.Environ() {
		if strings.HasPrefix(e, "HOME=") || strings.HasPrefix(e, "XDG_CONFIG_HOME=") ||
			strings.HasPrefix(e, "HABHUB_") {
			continue
		}
		env = append(env, e)
	}
	env = append(env,
		fmt.Sprintf("HOME=%s", tempDir),
		fmt.Sprintf("XDG_CONFIG_HOME=%s", tempDir),
	)
	return &habhub{t: t, path: cliPath, env: env}
}

func (h *habhub) run(args ...string) string {
	h.t.Helper()
	cmd := exec.Command(h.path, args...)
	cmd.Env = h.env
	out, err := cmd.CombinedOutput()
	if err != nil {
		h.t.Fatalf("Command habhub %v failed: %v\nOutput: %s", args, err, out)
	}
	return string(out)
}

func TestEndToEndWorkflow(t *testing.T) {
	h := setup(t)
	dir := t.TempDir()
	alice := []string{"--database", filepath.Join(dir, "alice.db"), "--owner", "alice"}
	bob := []string{"--database", filepath.Join(dir, "bob.db"), "--owner", "bob"}
	with := func(base []string, args ...string) []string {
		return append(append([]string{}, args...), base...)
	}

	t.Log("Initializing storage...")
	h.run(with(alice, "init")...)

	t.Log("Adding habits...")
	h.run(with(alice, "habit", "add", "Read", "--goal", "2")...)
	h.run(with(alice, "habit", "add", "Stretch", "--frequency", "flexible", "--target", "3")...)

	t.Log("Logging progress...")
	h.run(with(alice, "log", "Read")...)
	h.run(with(alice, "log", "Read")...)

	out := h.run(with(alice, "today")...)
	if !strings.Contains(out, "[x] Read") {
		t.Errorf("Read should be done after two logs:\n%s", out)
	}
	if !strings.Contains(out, "Stretch") || !strings.Contains(out, "Week goal: 0 / 3") {
		t.Errorf("Stretch should be listed with its weekly goal:\n%s", out)
	}

	t.Log("Exporting and importing...")
	exportPath := filepath.Join(dir, "export.json")
	h.run(with(alice, "export", "-o", exportPath)...)

	h.run(with(bob, "init")...)
	out = h.run(with(bob, "import", exportPath)...)
	if !strings.Contains(out, "habits") {
		t.Errorf("Unexpected import summary:\n%s", out)
	}

	out = h.run(with(bob, "habit", "list")...)
	if !strings.Contains(out, "Read") || !strings.Contains(out, "Stretch") {
		t.Errorf("Imported habits missing:\n%s", out)
	}

	// the import made an automatic backup
	out = h.run(with(bob, "backup", "list")...)
	if !strings.Contains(out, "habhub-") {
		t.Errorf("Expected an automatic backup:\n%s", out)
	}

	h.run(with(bob, "doctor")...)
}
