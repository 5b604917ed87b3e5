package main

import (
	"bytes"
	"errors"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"
)

const helperEnv = "CREATETHREAD_TEST_HELPER"

// TestHelperProcess is not a real test: it runs main when re-executed by
// runBinary.
func TestHelperProcess(t *testing.T) {
	if os.Getenv(helperEnv) != "1" {
		t.Skip("helper process only")
	}
	args := os.Args
	for i, arg := range args {
		if arg == "--" {
			args = args[i+1:]
			break
		}
	}
	os.Args = append([]string{"create-thread"}, args...)
	main()
	os.Exit(0)
}

func runBinary(t *testing.T, args ...string) (int, string, string, time.Duration) {
	t.Helper()
	cmdArgs := append([]string{"-test.run=^TestHelperProcess$", "--"}, args...)
	cmd := exec.Command(os.Args[0], cmdArgs...)
	cmd.Env = append(os.Environ(),
		helperEnv+"=1",
		"HOME="+t.TempDir(),
		"TMPDIR="+t.TempDir(),
	)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	elapsed := time.Since(start)

	code := 0
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code = exitErr.ExitCode()
	} else if err != nil {
		t.Fatalf("failed to run helper: %v", err)
	}
	return code, stdout.String(), stderr.String(), elapsed
}

var identityRe = regexp.MustCompile(`^\[(main|thread)\] PID = (\d+); PPID = (\d+)$`)

func TestBinaryOutputAndIdentity(t *testing.T) {
	code, out, errOut, elapsed := runBinary(t, "--delay", "200ms")
	if code != 0 {
		t.Fatalf("exit code = %d, want 0; stderr=%s", code, errOut)
	}
	if elapsed < 200*time.Millisecond {
		t.Fatalf("process exited after %s, before the worker delay", elapsed)
	}

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", out)
	}

	pids := map[string][2]int{}
	for _, line := range lines[:2] {
		m := identityRe.FindStringSubmatch(line)
		if m == nil {
			t.Fatalf("unexpected identity line %q", line)
		}
		pid, _ := strconv.Atoi(m[2])
		ppid, _ := strconv.Atoi(m[3])
		pids[m[1]] = [2]int{pid, ppid}
	}

	mainID, threadID := pids["main"], pids["thread"]
	if mainID[0] == os.Getpid() {
		t.Fatalf("helper reported the test process pid; expected a child process")
	}
	if mainID[1] != os.Getpid() {
		t.Fatalf("[main] PPID = %d, want the launching test process %d", mainID[1], os.Getpid())
	}
	if threadID != mainID {
		t.Fatalf("[thread] identity %v differs from [main] %v", threadID, mainID)
	}
	if lines[2] != "[thread] Message from main thread: OS Rullz!" {
		t.Fatalf("message line = %q", lines[2])
	}
}

func TestBinaryTwoRunsAreStructurallyIdentical(t *testing.T) {
	_, first, _, _ := runBinary(t, "--delay", "0")
	_, second, _, _ := runBinary(t, "--delay", "0")

	shape := func(out string) []string {
		var s []string
		for _, line := range strings.Split(strings.TrimSuffix(out, "\n"), "\n") {
			s = append(s, regexp.MustCompile(`\d+`).ReplaceAllString(line, "N"))
		}
		return s
	}

	a, b := shape(first), shape(second)
	if strings.Join(a, "\n") != strings.Join(b, "\n") {
		t.Fatalf("runs differ in shape:\n%q\n%q", a, b)
	}
	if first == second {
		t.Fatalf("separate runs should report different process ids")
	}
}

func TestBinaryRejectsArguments(t *testing.T) {
	code, out, errOut, _ := runBinary(t, "unexpected")
	if code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if out != "" {
		t.Fatalf("stdout = %q, want empty", out)
	}
	if !strings.Contains(errOut, "ERROR:") {
		t.Fatalf("stderr = %q, want an ERROR diagnostic", errOut)
	}
}
