package cli

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/me/scoop/internal/config"
	"github.com/me/scoop/internal/render"
	"github.com/me/scoop/internal/server"
	"github.com/me/scoop/internal/store"
	"github.com/me/scoop/pkg/model"
)

// startTestServer starts a server with an in-memory SQLite store and returns the URL.
func startTestServer(t *testing.T) string {
	t.Helper()
	srvLogger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelError}))
	st, err := store.NewSQLiteStore(":memory:", srvLogger)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	if err := st.Migrate(context.Background()); err != nil {
		t.Fatalf("migrate test store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := server.New(config.DefaultServerConfig(), st, srvLogger)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	return runCLIWithInput(t, nil, args...)
}

func runCLIWithInput(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()

	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	if stdin != nil {
		root.SetIn(stdin)
	}
	root.SetArgs(append([]string{"--log-level", "error"}, args...))

	err := root.Execute()
	return buf.String(), err
}

func testDB(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "history", "scoop.db")
}

func assertInOrder(t *testing.T, output string, lines ...string) {
	t.Helper()
	pos := 0
	for _, line := range lines {
		i := strings.Index(output[pos:], line)
		if i < 0 {
			t.Fatalf("missing or out of order %q in output:\n%s", line, output)
		}
		pos += i + len(line)
	}
}

var runIDPattern = regexp.MustCompile(`run_[0-9a-f-]{36}`)

func TestRunCommand_FCFS(t *testing.T) {
	output, err := runCLI(t, "run", "--flavors", "vanilla,chocolate", "--times", "3,2")
	if err != nil {
		t.Fatalf("run error: %v\noutput: %s", err, output)
	}
	assertInOrder(t, output,
		"Starting ice cream production simulation with FCFS scheduling:",
		"Producing vanilla ice cream... (3 seconds)",
		"vanilla ice cream production complete!",
		"Producing chocolate ice cream... (2 seconds)",
		"chocolate ice cream production complete!",
		"Production simulation completed.",
	)
	if strings.Contains(output, "time left") {
		t.Errorf("FCFS output contains a preemption:\n%s", output)
	}
}

func TestRootCmd_LogFlags(t *testing.T) {
	_, err := runCLI(t, "--log-level", "loud", "run", "--flavors", "vanilla", "--times", "1")
	if err == nil || !strings.Contains(err.Error(), "unknown log level") {
		t.Errorf("bad level: err = %v, want unknown log level", err)
	}
	_, err = runCLI(t, "--log-format", "xml", "run", "--flavors", "vanilla", "--times", "1")
	if err == nil || !strings.Contains(err.Error(), "unknown log format") {
		t.Errorf("bad format: err = %v, want unknown log format", err)
	}

	// Debug records go to the command's stderr, next to the rendered run.
	output, err := runCLI(t, "--debug", "run", "--flavors", "vanilla", "--times", "1")
	if err != nil {
		t.Fatalf("run error: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "component=scheduler") {
		t.Errorf("expected scheduler debug log in output:\n%s", output)
	}
}

func TestRunCommand_RoundRobin(t *testing.T) {
	output, err := runCLI(t, "run",
		"--flavors", "vanilla, chocolate",
		"--times", "4,3",
		"--mode", "rr", "--quantum", "2",
		"--summary",
	)
	if err != nil {
		t.Fatalf("run error: %v\noutput: %s", err, output)
	}
	assertInOrder(t, output,
		"Round Robin scheduling (quantum 2):",
		"Producing vanilla ice cream (time left: 2 seconds)",
		"Producing chocolate ice cream (time left: 1 second)",
		"Producing vanilla ice cream... (2 seconds)",
		"vanilla ice cream production complete!",
		"Producing chocolate ice cream... (1 second)",
		"chocolate ice cream production complete!",
		"Production simulation completed.",
		"FLAVOR",
		"Total time: 7",
	)
}

func TestRunCommand_JSON(t *testing.T) {
	output, err := runCLI(t, "run", "--flavors", "a,b", "--times", "3,1", "--mode", "round-robin", "-q", "2", "-o", "json")
	if err != nil {
		t.Fatalf("run error: %v\noutput: %s", err, output)
	}

	var recs []render.Record
	sc := bufio.NewScanner(strings.NewReader(output))
	for sc.Scan() {
		var rec render.Record
		if err := json.Unmarshal(sc.Bytes(), &rec); err != nil {
			t.Fatalf("invalid JSON line %q: %v", sc.Text(), err)
		}
		recs = append(recs, rec)
	}
	if len(recs) < 2 || recs[0].Type != "begin" || recs[len(recs)-1].Type != "end" {
		t.Fatalf("records = %+v", recs)
	}
	if recs[0].Mode != model.ModeRoundRobin || recs[0].Quantum != 2 {
		t.Errorf("begin = %+v", recs[0])
	}
	// a: PREEMPTED, b: STARTED+COMPLETED, a: STARTED+COMPLETED
	if got := len(recs) - 2; got != 5 {
		t.Errorf("event records = %d, want 5", got)
	}
}

func TestRunCommand_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"negative duration", []string{"--flavors", "a,b", "--times", "2,-1"}, model.ErrInvalidDuration},
		{"non-integer time", []string{"--flavors", "a", "--times", "two"}, model.ErrInvalidDuration},
		{"zero quantum", []string{"--flavors", "a", "--times", "2", "--mode", "rr", "--quantum", "0"}, model.ErrInvalidQuantum},
		{"negative quantum", []string{"--flavors", "a", "--times", "2", "--mode", "rr", "--quantum", "-3"}, model.ErrInvalidQuantum},
		{"unknown mode", []string{"--flavors", "a", "--times", "2", "--mode", "lottery"}, model.ErrInvalidMode},
		{"mismatched lists", []string{"--flavors", "a,b", "--times", "2"}, model.ErrMismatchedInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLI(t, append([]string{"run"}, tt.args...)...)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
			if strings.Contains(output, "Starting ice cream production") {
				t.Errorf("output rendered before configuration error:\n%s", output)
			}
		})
	}
}

func TestRunCommand_UnknownOutput(t *testing.T) {
	_, err := runCLI(t, "run", "--flavors", "a", "--times", "1", "-o", "xml")
	if err == nil || !strings.Contains(err.Error(), "unknown output format") {
		t.Errorf("err = %v", err)
	}
}

func TestRunCommand_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	content := `mode: round-robin
quantum: 2
jobs:
  - name: vanilla
    duration: 4
  - name: chocolate
    duration: 3
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	output, err := runCLI(t, "run", "--config", path)
	if err != nil {
		t.Fatalf("run error: %v\noutput: %s", err, output)
	}
	assertInOrder(t, output, "Round Robin scheduling (quantum 2):", "time left: 2 seconds")

	// Flags override the file.
	output, err = runCLI(t, "run", "--config", path, "--mode", "fcfs")
	if err != nil {
		t.Fatalf("run error: %v\noutput: %s", err, output)
	}
	assertInOrder(t, output, "FCFS scheduling:", "Producing vanilla ice cream... (4 seconds)")

	output, err = runCLI(t, "run", "--config", path, "--flavors", "mint", "--times", "1")
	if err != nil {
		t.Fatalf("run error: %v\noutput: %s", err, output)
	}
	if strings.Contains(output, "vanilla") || !strings.Contains(output, "mint") {
		t.Errorf("flags did not replace file jobs:\n%s", output)
	}
}

func TestRunCommand_Empty(t *testing.T) {
	output, err := runCLI(t, "run", "--flavors", "", "--times", "")
	if err != nil {
		t.Fatalf("run error: %v\noutput: %s", err, output)
	}
	if strings.Contains(output, "Producing") {
		t.Errorf("empty run produced output:\n%s", output)
	}
	if !strings.Contains(output, "Production simulation completed.") {
		t.Errorf("missing completion banner:\n%s", output)
	}
}

func TestRunSaveAndHistory(t *testing.T) {
	db := testDB(t)

	output, err := runCLI(t, "--db", db, "run",
		"--flavors", "vanilla,chocolate", "--times", "4,3",
		"--mode", "rr", "--quantum", "2",
		"--save", "--label", "morning batch")
	if err != nil {
		t.Fatalf("run error: %v\noutput: %s", err, output)
	}
	id := runIDPattern.FindString(output)
	if id == "" {
		t.Fatalf("no run ID in output:\n%s", output)
	}

	output, err = runCLI(t, "--db", db, "history", "list")
	if err != nil {
		t.Fatalf("history list error: %v", err)
	}
	if !strings.Contains(output, id) || !strings.Contains(output, "ROUND_ROBIN") || !strings.Contains(output, "morning batch") {
		t.Errorf("history list missing run:\n%s", output)
	}

	output, err = runCLI(t, "--db", db, "history", "list", "--mode", "fcfs")
	if err != nil {
		t.Fatalf("history list --mode error: %v", err)
	}
	if !strings.Contains(output, "No runs found.") {
		t.Errorf("expected no FCFS runs:\n%s", output)
	}

	output, err = runCLI(t, "--db", db, "history", "show", id)
	if err != nil {
		t.Fatalf("history show error: %v", err)
	}
	assertInOrder(t, output,
		"Run:     "+id,
		"Label:   morning batch",
		"Producing vanilla ice cream (time left: 2 seconds)",
		"chocolate ice cream production complete!",
		"Total time: 7",
	)

	if _, err := runCLI(t, "--db", db, "history", "delete", id); err != nil {
		t.Fatalf("history delete error: %v", err)
	}
	if _, err := runCLI(t, "--db", db, "history", "show", id); err == nil {
		t.Error("expected error showing deleted run")
	}
}

func TestHistoryShow_NotFound(t *testing.T) {
	_, err := runCLI(t, "--db", testDB(t), "history", "show", "run_missing")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestInteractive_RoundRobin(t *testing.T) {
	in := strings.NewReader("vanilla,chocolate\n4,3\n1\n2\n")
	output, err := runCLIWithInput(t, in, "interactive", "--pace", "0")
	if err != nil {
		t.Fatalf("interactive error: %v\noutput: %s", err, output)
	}
	assertInOrder(t, output,
		"Enter ice cream flavors (comma-separated): ",
		"Enter production times (comma-separated in seconds): ",
		"OKAY!!",
		"1. Round Robin",
		"2. First-Come, First-Served (FCFS)",
		"Enter the number: ",
		"Enter time quantum for Round Robin scheduling (in seconds): ",
		"Round Robin scheduling (quantum 2):",
		"Producing vanilla ice cream (time left: 2 seconds)",
		"chocolate ice cream production complete!",
		"Thank you for choosing us. Have a great day :)",
	)
}

func TestInteractive_FCFSSkipsQuantum(t *testing.T) {
	in := strings.NewReader("vanilla,chocolate\n3,2\n2\n")
	output, err := runCLIWithInput(t, in, "interactive", "--pace", "0")
	if err != nil {
		t.Fatalf("interactive error: %v\noutput: %s", err, output)
	}
	if strings.Contains(output, "Enter time quantum") {
		t.Errorf("FCFS asked for a quantum:\n%s", output)
	}
	assertInOrder(t, output, "FCFS scheduling:", "Producing vanilla ice cream... (3 seconds)")
}

func TestInteractive_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"non-integer time", "vanilla\nfour\n", model.ErrInvalidDuration},
		{"mismatched", "vanilla,chocolate\n4\n", model.ErrMismatchedInput},
		{"bad menu choice", "vanilla\n4\n3\n", model.ErrInvalidMode},
		{"non-integer quantum", "vanilla\n4\n1\nfast\n", model.ErrInvalidQuantum},
		{"zero quantum", "vanilla\n4\n1\n0\n", model.ErrInvalidQuantum},
		{"negative duration", "vanilla\n-4\n2\n", model.ErrInvalidDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := runCLIWithInput(t, strings.NewReader(tt.input), "interactive", "--pace", "0")
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v\noutput: %s", err, tt.want, output)
			}
			if strings.Contains(output, "Producing") {
				t.Errorf("jobs processed despite configuration error:\n%s", output)
			}
		})
	}
}

func TestInteractive_EOF(t *testing.T) {
	_, err := runCLIWithInput(t, strings.NewReader("vanilla\n"), "interactive")
	if err == nil || !strings.Contains(err.Error(), "unexpected end of input") {
		t.Errorf("err = %v, want unexpected end of input", err)
	}
}

func TestSubmitStatusList(t *testing.T) {
	url := startTestServer(t)

	output, err := runCLI(t, "--server", url, "submit",
		"--flavors", "vanilla,chocolate", "--times", "4,3",
		"--mode", "rr", "--quantum", "2", "--label", "remote", "--quiet")
	if err != nil {
		t.Fatalf("submit error: %v\noutput: %s", err, output)
	}
	id := strings.TrimSpace(output)
	if !runIDPattern.MatchString(id) {
		t.Fatalf("submit --quiet printed %q, want a run ID", id)
	}

	output, err = runCLI(t, "--server", url, "status", id)
	if err != nil {
		t.Fatalf("status error: %v", err)
	}
	assertInOrder(t, output,
		"Run:     "+id,
		"Label:   remote",
		"Round Robin scheduling (quantum 2):",
		"vanilla ice cream production complete!",
		"Total time: 7",
	)

	output, err = runCLI(t, "--server", url, "list")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if !strings.Contains(output, id) {
		t.Errorf("list missing %s:\n%s", id, output)
	}
}

func TestSubmit_ShowsRun(t *testing.T) {
	url := startTestServer(t)
	output, err := runCLI(t, "--server", url, "submit", "--flavors", "mint", "--times", "2")
	if err != nil {
		t.Fatalf("submit error: %v\noutput: %s", err, output)
	}
	assertInOrder(t, output, "Run:     run_", "FCFS scheduling:", "mint ice cream production complete!")
}

func TestSubmit_ServerValidation(t *testing.T) {
	url := startTestServer(t)
	_, err := runCLI(t, "--server", url, "submit", "--flavors", "mint", "--times", "-2")
	if err == nil || !strings.Contains(err.Error(), "VALIDATION_ERROR") {
		t.Errorf("err = %v, want VALIDATION_ERROR", err)
	}
}

func TestStatus_NotFound(t *testing.T) {
	url := startTestServer(t)
	_, err := runCLI(t, "--server", url, "status", "run_missing")
	if err == nil || !strings.Contains(err.Error(), "NOT_FOUND") {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestList_Empty(t *testing.T) {
	url := startTestServer(t)
	output, err := runCLI(t, "--server", url, "list")
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if !strings.Contains(output, "No runs found.") {
		t.Errorf("output = %q", output)
	}
}
