package ops

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hpungsan/scorelog/internal/errors"
)

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, morningName)
	if err := os.WriteFile(path, []byte(scoredText), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	output, err := Inspect(InspectInput{Path: path})
	if err != nil {
		t.Fatalf("Inspect failed: %v", err)
	}

	if output.Source != morningName {
		t.Errorf("Source = %q, want %q", output.Source, morningName)
	}
	if output.Behaviors != 2 {
		t.Errorf("Behaviors = %d, want 2", output.Behaviors)
	}
	if output.Marks != 2 {
		t.Errorf("Marks = %d, want 2", output.Marks)
	}
	if output.FullLines != 2 {
		t.Errorf("FullLines = %d, want 2", output.FullLines)
	}

	if output.FirstBehavior == nil || output.FirstBehavior.Frame != 1 {
		t.Errorf("FirstBehavior = %+v, want frame 1", output.FirstBehavior)
	}
	if output.LastBehavior == nil || output.LastBehavior.Text != "Attack male" {
		t.Errorf("LastBehavior = %+v, want Attack male", output.LastBehavior)
	}

	if len(output.MarkList) != 2 {
		t.Fatalf("MarkList has %d entries, want 2", len(output.MarkList))
	}
	last := output.MarkList[1]
	if last.Frame != 54001 || last.Time != "30:00.03" || last.Text != "video end" {
		t.Errorf("last mark = %+v, want 54001 / 30:00.03 / video end", last)
	}
	if last.Line != "54001    30:00.03    video end" {
		t.Errorf("last mark line = %q, want %q", last.Line, "54001    30:00.03    video end")
	}
}

func TestInspect_MissingFile(t *testing.T) {
	_, err := Inspect(InspectInput{Path: filepath.Join(t.TempDir(), "nope.wmv")})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestInspect_MalformedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.wmv")
	if err := os.WriteFile(path, []byte("not a log\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	_, err := Inspect(InspectInput{Path: path})
	if !errors.Is(err, errors.ErrFormat) {
		t.Errorf("err = %v, want FORMAT_ERROR", err)
	}
}
