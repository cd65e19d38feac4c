package ops

import (
	"os"
	"path/filepath"
	"testing"
)

// logText assembles a full log document around the given FULL LOG and
// MARKS body lines.
func logText(fullLines, markLines string) string {
	return `scorevideo LOG
File:  log050118_OB5B030618_TA23_Dyad_Morning.wmv

VIDEO FILE SET
Video file set name:  log050118_OB5B030618_TA23_Dyad_Morning

COMMAND SET AND SETTINGS
-------------------------------
start|stop|subject|description
-------------------------------
 a          0    Attack male
-------------------------------
subject 1:  subject1
subject 2:  subject2
subj#:  0=either  1=subject1  2=subject2  3=both
No. of simultaneous behaviors:  one

RAW LOG
------------------------------------------
frame|time(min:sec)|command
------------------------------------------
     1     0:00.03    G
------------------------------------------

FULL LOG
------------------------------------------
frame|time(min:sec)|description|action|subject
------------------------------------------
` + fullLines + `
------------------------------------------

NOTES
------------------------------------------
none
------------------------------------------

MARKS
------------------------------------------
frame|time(min:sec)|mark name
------------------------------------------
` + markLines + `
------------------------------------------`
}

var (
	// A fully scored log: no lights-on event, ends at its video end mark.
	scoredText = logText(
		"     1     0:00.03    Good quality video  either\n"+
			" 52475    29:09.17    Attack male  either",
		"     1     0:00.03    video start\n"+
			" 54001    30:00.03    video end")

	// A lights-on-only log: the event at frame 12331, video end at 54001.
	lightsOnText = logText(
		" 12331     6:51.03    Lights On  either",
		"     1     0:00.03    video start\n"+
			" 54001    30:00.03    video end")

	// A segment-1 log carrying both the lights-on event and the first
	// aggressive behavior.
	segmentText = logText(
		" 12331     6:51.03    Lights On  either\n"+
			" 52475    29:09.17    Attack male  either",
		"     1     0:00.03    video start\n"+
			" 54001    30:00.03    video end")
)

// writeLogDir populates a temp directory with the given filename→content
// map plus the behavior list, and returns the directory path.
func writeLogDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	if _, ok := files["fm_behaviors.txt"]; !ok {
		behaviors := "Attack male\nFlee from male\n"
		if err := os.WriteFile(filepath.Join(dir, "fm_behaviors.txt"), []byte(behaviors), 0644); err != nil {
			t.Fatalf("failed to write behavior list: %v", err)
		}
	}
	return dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
