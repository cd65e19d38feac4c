package ops

import (
	"database/sql"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hpungsan/scorelog/internal/config"
	"github.com/hpungsan/scorelog/internal/db"
	"github.com/hpungsan/scorelog/internal/errors"
)

const (
	segment1Name = "log050118_OB5B030618_TA23_Dyad_1.wmv"
	segment2Name = "log050118_OB5B030618_TA23_Dyad_2.wmv"
	morningName  = "log050118_OB5B030618_TA23_Dyad_Morning.wmv"
	lightsName   = "log050118_OB5B030618_TA23_Dyad_LIGHTSON.wmv"
)

func initDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestTransfer_SingleSegment(t *testing.T) {
	dir := writeLogDir(t, map[string]string{
		segment1Name: segmentText,
		morningName:  scoredText,
	})
	database := initDB(t)
	cfg := config.DefaultConfig()

	output, err := Transfer(database, cfg, TransferInput{Dir: dir})
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if len(output.Results) != 1 {
		t.Fatalf("got %d results, want 1", len(output.Results))
	}

	result := output.Results[0]
	wantLine := "-40144   -22:18.14    LIGHTS ON"
	if result.MarkLine != wantLine {
		t.Errorf("MarkLine = %q, want %q", result.MarkLine, wantLine)
	}
	if result.MarkFrame != -40144 {
		t.Errorf("MarkFrame = %d, want -40144", result.MarkFrame)
	}
	if result.RunID == "" {
		t.Error("RunID should not be empty")
	}

	// The mark lands as the second-to-last line of the rewritten file.
	content := readFile(t, filepath.Join(dir, morningName))
	if !strings.HasSuffix(content, "\n") {
		t.Error("rewritten file should end with a newline")
	}
	lines := strings.Split(strings.TrimSuffix(content, "\n"), "\n")
	if lines[len(lines)-2] != wantLine {
		t.Errorf("second-to-last line = %q, want %q", lines[len(lines)-2], wantLine)
	}

	// The rewritten file still parses.
	if _, err := readRawLogFile(filepath.Join(dir, morningName)); err != nil {
		t.Errorf("rewritten file does not parse: %v", err)
	}
}

func TestTransfer_LightsOnChain(t *testing.T) {
	dir := writeLogDir(t, map[string]string{
		lightsName:   lightsOnText,
		segment1Name: scoredText,
		morningName:  scoredText,
	})
	database := initDB(t)
	cfg := config.DefaultConfig()

	output, err := Transfer(database, cfg, TransferInput{Dir: dir})
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	result := output.Results[0]
	if result.MarkFrame != -94145 {
		t.Errorf("MarkFrame = %d, want -94145", result.MarkFrame)
	}
	if result.MarkTime != "-52:18.17" {
		t.Errorf("MarkTime = %q, want %q", result.MarkTime, "-52:18.17")
	}

	// Lights-on log leads the chain.
	if len(result.Segments) != 2 ||
		filepath.Base(result.Segments[0]) != lightsName ||
		filepath.Base(result.Segments[1]) != segment1Name {
		t.Errorf("Segments = %v, want lights-on log first then segment 1", result.Segments)
	}
}

func TestTransfer_RecordsRun(t *testing.T) {
	dir := writeLogDir(t, map[string]string{
		segment1Name: segmentText,
		morningName:  scoredText,
	})
	database := initDB(t)
	cfg := config.DefaultConfig()

	output, err := Transfer(database, cfg, TransferInput{Dir: dir})
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	runsOut, err := Runs(database, RunsInput{})
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runsOut.Runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runsOut.Runs))
	}
	run := runsOut.Runs[0]
	if run.ID != output.Results[0].RunID {
		t.Errorf("run ID = %q, want %q", run.ID, output.Results[0].RunID)
	}
	if run.MarkLine != output.Results[0].MarkLine {
		t.Errorf("run MarkLine = %q, want %q", run.MarkLine, output.Results[0].MarkLine)
	}
	if run.Segments != 1 {
		t.Errorf("run Segments = %d, want 1", run.Segments)
	}
}

func TestTransfer_DryRun(t *testing.T) {
	dir := writeLogDir(t, map[string]string{
		segment1Name: segmentText,
		morningName:  scoredText,
	})
	database := initDB(t)
	cfg := config.DefaultConfig()

	before := readFile(t, filepath.Join(dir, morningName))
	output, err := Transfer(database, cfg, TransferInput{Dir: dir, DryRun: true})
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}

	if output.Results[0].MarkFrame != -40144 {
		t.Errorf("MarkFrame = %d, want -40144", output.Results[0].MarkFrame)
	}
	if output.Results[0].RunID != "" {
		t.Errorf("RunID = %q, want empty on dry run", output.Results[0].RunID)
	}
	if after := readFile(t, filepath.Join(dir, morningName)); after != before {
		t.Error("dry run must not modify files")
	}

	runsOut, err := Runs(database, RunsInput{})
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runsOut.Runs) != 0 {
		t.Errorf("got %d runs after dry run, want 0", len(runsOut.Runs))
	}
}

func TestTransfer_InvalidGroupAbortsBatch(t *testing.T) {
	// Second group is missing its segment 1; the whole batch must abort
	// with the first group untouched.
	badMorning := "log050118_OB5B030618_TA25_Dyad_Morning.wmv"
	dir := writeLogDir(t, map[string]string{
		segment1Name: segmentText,
		morningName:  scoredText,
		badMorning:   scoredText,
	})
	database := initDB(t)
	cfg := config.DefaultConfig()

	before := readFile(t, filepath.Join(dir, morningName))
	_, err := Transfer(database, cfg, TransferInput{Dir: dir})
	if !errors.Is(err, errors.ErrInvalidPartition) {
		t.Fatalf("err = %v, want INVALID_PARTITION", err)
	}

	if after := readFile(t, filepath.Join(dir, morningName)); after != before {
		t.Error("failed batch must not modify any file")
	}
	runsOut, err := Runs(database, RunsInput{})
	if err != nil {
		t.Fatalf("Runs failed: %v", err)
	}
	if len(runsOut.Runs) != 0 {
		t.Errorf("got %d runs after failed batch, want 0", len(runsOut.Runs))
	}
}

func TestTransfer_MissingBehaviorList(t *testing.T) {
	dir := writeLogDir(t, map[string]string{
		segment1Name: segmentText,
		morningName:  scoredText,
	})
	database := initDB(t)
	cfg := config.DefaultConfig()
	cfg.BehaviorsFile = "missing_behaviors.txt"

	_, err := Transfer(database, cfg, TransferInput{Dir: dir})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestTransfer_SkipsHiddenAndUnmatchedFiles(t *testing.T) {
	dir := writeLogDir(t, map[string]string{
		segment1Name: segmentText,
		morningName:  scoredText,
		".hidden":    "not a log",
		"notes.txt":  "not a log",
	})
	database := initDB(t)
	cfg := config.DefaultConfig()

	output, err := Transfer(database, cfg, TransferInput{Dir: dir})
	if err != nil {
		t.Fatalf("Transfer failed: %v", err)
	}
	if len(output.Results) != 1 {
		t.Errorf("got %d results, want 1", len(output.Results))
	}
}
