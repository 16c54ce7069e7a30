package config

import (
	"bytes"
	"os"
	"os/exec"
	"strings"
	"testing"
)

func TestExitfWritesMessageAndCode(t *testing.T) {
	var buf bytes.Buffer
	code := -1
	stderr, exit = &buf, func(c int) { code = c }
	t.Cleanup(func() { stderr, exit = os.Stderr, os.Exit })

	Exitf("create dump file: %s", "permission denied")

	if code != ExitFailure {
		t.Fatalf("expected exit code %d, got %d", ExitFailure, code)
	}
	if got := buf.String(); got != "create dump file: permission denied\n" {
		t.Fatalf("unexpected message %q", got)
	}
}

// TestExitfExitsProcess runs Exitf in a subprocess because os.Exit cannot be
// intercepted in-process.
func TestExitfExitsProcess(t *testing.T) {
	if os.Getenv("TEST_EXITF_SUBPROCESS") == "1" {
		Exitf("fatal: %s", "something broke")
		return
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfExitsProcess$")
	cmd.Env = append(os.Environ(), "TEST_EXITF_SUBPROCESS=1")

	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("expected *exec.ExitError, got %T: %v", err, err)
	}
	if exitErr.ExitCode() != ExitFailure {
		t.Fatalf("expected exit code %d, got %d", ExitFailure, exitErr.ExitCode())
	}
	if !strings.Contains(string(out), "fatal: something broke") {
		t.Fatalf("expected stderr to contain %q, got %q", "fatal: something broke", string(out))
	}
}
