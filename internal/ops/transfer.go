package ops

import (
	"crypto/rand"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/scorelog/internal/config"
	"github.com/hpungsan/scorelog/internal/db"
	"github.com/hpungsan/scorelog/internal/errors"
	"github.com/hpungsan/scorelog/internal/logfile"
	"github.com/hpungsan/scorelog/internal/reconcile"
)

// Last name elements with a fixed structural meaning. Numbered elements
// identify pre-scoring segments in chain order.
const (
	lightsOnElem  = "LIGHTSON"
	morningElem   = "Morning"
	afternoonElem = "Afternoon"
)

// TransferInput contains parameters for the Transfer operation.
type TransferInput struct {
	Dir    string // required
	DryRun bool   // compute marks but do not rewrite files or record runs
}

// TransferResult describes one rewritten scored log.
type TransferResult struct {
	RunID      string   `json:"run_id,omitempty"` // empty on dry runs
	NameCore   string   `json:"name_core"`
	ScoredFile string   `json:"scored_file"`
	MarkLine   string   `json:"mark_line"`
	MarkFrame  int      `json:"mark_frame"`
	MarkTime   string   `json:"mark_time"`
	Segments   []string `json:"segments"` // chain files in order
}

// TransferOutput contains the result of the Transfer operation.
type TransferOutput struct {
	DryRun  bool             `json:"dry_run,omitempty"`
	Results []TransferResult `json:"results"`
}

// Transfer locates the lights-on event in each group's pre-scoring
// segments and rewrites the group's fully scored log with the event
// transplanted in as a negative-coordinate mark.
//
// Every group is validated against the role schema before any file is
// touched; any problem anywhere aborts the whole batch with the full
// problem list, so one bad group cannot silently corrupt the others.
func Transfer(database *sql.DB, cfg *config.Config, input TransferInput) (*TransferOutput, error) {
	groups, err := ScanGroups(input.Dir, cfg)
	if err != nil {
		return nil, err
	}

	roles := DefaultRoles()
	var problems []string
	for _, group := range groups {
		groupProblems, err := ValidatePartition(group.Files, roles, cfg.NamePrefix)
		if err != nil {
			return nil, err
		}
		for _, p := range groupProblems {
			problems = append(problems, fmt.Sprintf("group %q: %s", group.Core, p))
		}
	}
	if len(problems) > 0 {
		return nil, errors.NewInvalidPartition(problems)
	}

	behaviors, err := ReadBehaviorList(filepath.Join(input.Dir, cfg.BehaviorsFile))
	if err != nil {
		return nil, err
	}

	output := &TransferOutput{DryRun: input.DryRun, Results: make([]TransferResult, 0, len(groups))}
	for _, group := range groups {
		result, err := transferGroup(database, cfg, input, group, behaviors)
		if err != nil {
			return nil, err
		}
		output.Results = append(output.Results, *result)
	}

	return output, nil
}

// orderChain splits a validated group into the ordered segment chain and
// the scored destination file. The lights-on log, when present, comes
// first; numbered segments follow in ascending order. Afternoon logs take
// no part in the transfer.
func orderChain(group Group, prefix string) (chain []string, scored string, err error) {
	var lightsOn string
	type numbered struct {
		n    int
		file string
	}
	var segments []numbered

	for _, file := range group.Files {
		elem := LastNameElem(file, prefix)
		switch elem {
		case morningElem:
			scored = file
		case afternoonElem:
		case lightsOnElem:
			lightsOn = file
		default:
			n, convErr := strconv.Atoi(elem)
			if convErr != nil {
				return nil, "", errors.NewInvalidPartition([]string{
					fmt.Sprintf("file %q has unrecognized segment identifier %q", file, elem)})
			}
			segments = append(segments, numbered{n: n, file: file})
		}
	}

	sort.Slice(segments, func(i, j int) bool { return segments[i].n < segments[j].n })

	if lightsOn != "" {
		chain = append(chain, lightsOn)
	}
	for _, seg := range segments {
		chain = append(chain, seg.file)
	}
	return chain, scored, nil
}

func transferGroup(database *sql.DB, cfg *config.Config, input TransferInput,
	group Group, behaviors []string) (*TransferResult, error) {
	chain, scoredFile, err := orderChain(group, cfg.NamePrefix)
	if err != nil {
		return nil, err
	}

	logs := make([]*logfile.Log, 0, len(chain))
	for _, file := range chain {
		log, err := readLogFile(file)
		if err != nil {
			return nil, err
		}
		logs = append(logs, log)
	}

	scored, err := readRawLogFile(scoredFile)
	if err != nil {
		return nil, err
	}

	final, err := reconcile.CopyLightsOn(logs, scored, behaviors,
		cfg.SearchPattern, cfg.EndMarkName, cfg.MarkLabel)
	if err != nil {
		return nil, err
	}

	markLine := final.Marks[len(final.Marks)-1]
	mark, err := logfile.ParseMark(markLine)
	if err != nil {
		return nil, err
	}
	markTime, err := logfile.FormatLogDuration(mark.Time)
	if err != nil {
		return nil, err
	}

	result := &TransferResult{
		NameCore:   group.Core,
		ScoredFile: scoredFile,
		MarkLine:   markLine,
		MarkFrame:  mark.Frame,
		MarkTime:   markTime,
		Segments:   chain,
	}
	if input.DryRun {
		return result, nil
	}

	if err := writeRawLogFile(scoredFile, final); err != nil {
		return nil, err
	}

	run := &db.Run{
		ID:         newULID(),
		Dir:        input.Dir,
		NameCore:   group.Core,
		ScoredFile: scoredFile,
		MarkLine:   markLine,
		MarkFrame:  mark.Frame,
		MarkTime:   markTime,
		Segments:   len(chain),
		CreatedAt:  time.Now().Unix(),
	}
	if err := db.InsertRun(database, run); err != nil {
		return nil, err
	}
	result.RunID = run.ID

	return result, nil
}

func readLogFile(path string) (*logfile.Log, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open log file: %w", err))
	}
	defer file.Close()
	return logfile.ReadLog(file, filepath.Base(path))
}

func readRawLogFile(path string) (*logfile.RawLog, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open log file: %w", err))
	}
	defer file.Close()
	return logfile.ReadRawLog(file, filepath.Base(path))
}

// writeRawLogFile rewrites path in place, each line terminated with a
// single newline.
func writeRawLogFile(path string, raw *logfile.RawLog) error {
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return errors.NewInternal(fmt.Errorf("failed to open log file for writing: %w", err))
	}
	defer file.Close()

	for _, line := range raw.ToLines() {
		if _, err := file.Write([]byte(line + "\n")); err != nil {
			return errors.NewInternal(fmt.Errorf("failed to write log file: %w", err))
		}
	}
	if err := file.Sync(); err != nil {
		return errors.NewInternal(err)
	}
	return nil
}

// newULID generates a new ULID.
func newULID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
