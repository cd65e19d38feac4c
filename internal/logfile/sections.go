package logfile

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/hpungsan/scorelog/internal/errors"
)

// Sentinel lines of the fixed scorevideo log grammar.
const (
	LongDivider  = "------------------------------------------"
	ShortDivider = "-------------------------------"

	videoInfoStart = "VIDEO FILE SET"
	commandsStart  = "COMMAND SET AND SETTINGS"
	rawStart       = "RAW LOG"
	fullStart      = "FULL LOG"
	notesStart     = "NOTES"
	marksStart     = "MARKS"

	headerLineCount = 2
)

var (
	commandsHeader = []string{ShortDivider, "start|stop|subject|description", ShortDivider}
	rawHeader      = []string{LongDivider, "frame|time(min:sec)|command", LongDivider}
	fullHeader     = []string{LongDivider, "frame|time(min:sec)|description|action|subject", LongDivider}
	notesHeader    = []string{LongDivider}
	marksHeader    = []string{LongDivider, "frame|time(min:sec)|mark name", LongDivider}

	// postCommandsText is the fixed settings block scorevideo writes between
	// the command section's end line and the RAW LOG section.
	postCommandsText = []string{
		"subject 1:  subject1",
		"subject 2:  subject2",
		"subj#:  0=either  1=subject1  2=subject2  3=both",
		"No. of simultaneous behaviors:  one",
	}
)

// RawLog stores the untyped, line-per-section form of one log file. Each
// field holds a section's content lines in file order; section boundary
// sentinels are never stored. Section slices are shared by copies, so
// mutation must be append-only.
type RawLog struct {
	Header    []string
	VideoInfo []string
	Commands  []string
	Raw       []string
	Full      []string
	Notes     []string
	Marks     []string
}

// lineReader reads trailing-whitespace-stripped lines from a stream,
// distinguishing end-of-stream from blank lines.
type lineReader struct {
	r      *bufio.Reader
	source string
}

func newLineReader(r io.Reader, source string) *lineReader {
	return &lineReader{r: bufio.NewReader(r), source: source}
}

// next returns the next line with trailing whitespace removed, and false
// once the stream is exhausted. A final line without a newline still counts.
func (lr *lineReader) next() (string, bool) {
	line, err := lr.r.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimRight(line, " \t\r\n"), true
}

// ReadRawLog parses a log stream into its seven sections. The source name
// identifies the stream in errors. After all sections are extracted the
// stream is rewound to its start so the document can be re-read.
func ReadRawLog(rs io.ReadSeeker, source string) (*RawLog, error) {
	lr := newLineReader(rs, source)
	log := &RawLog{}

	// The header is the first two lines, consumed unconditionally.
	for range headerLineCount {
		line, _ := lr.next()
		log.Header = append(log.Header, line)
	}

	sections := []struct {
		dest   *[]string
		start  string
		header []string
		end    string
	}{
		{&log.VideoInfo, videoInfoStart, nil, ""},
		{&log.Commands, commandsStart, commandsHeader, ShortDivider},
		{&log.Raw, rawStart, rawHeader, LongDivider},
		{&log.Full, fullStart, fullHeader, LongDivider},
		{&log.Notes, notesStart, notesHeader, LongDivider},
		{&log.Marks, marksStart, marksHeader, LongDivider},
	}

	for _, s := range sections {
		content, err := getSection(lr, s.start, s.header, s.end)
		if err != nil {
			return nil, err
		}
		*s.dest = content
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, errors.NewInternal(err)
	}

	return log, nil
}

// getSection extracts one section: scan forward to the start sentinel,
// verify each expected header line, then collect content lines until the
// end sentinel. Neither sentinel nor the header lines are returned.
func getSection(lr *lineReader, start string, header []string, end string) ([]string, error) {
	for {
		line, ok := lr.next()
		if !ok {
			return nil, errors.NewFormat(lr.source,
				fmt.Sprintf("the start line '%s' was not found", start))
		}
		if line == start {
			break
		}
	}

	for _, expected := range header {
		found, _ := lr.next()
		if found != expected {
			return nil, errors.NewFormatLines(lr.source, found, expected)
		}
	}

	section := []string{}
	for {
		line, ok := lr.next()
		if !ok {
			return nil, errors.NewFormat(lr.source,
				fmt.Sprintf("the end line '%s' was not found", end))
		}
		if line == end {
			return section, nil
		}
		section = append(section, line)
	}
}

// CopyRawLog makes a shallow, field-by-field copy. The copy shares section
// slices with the original; callers mutate by appending only.
func CopyRawLog(log *RawLog) *RawLog {
	return &RawLog{
		Header:    log.Header,
		VideoInfo: log.VideoInfo,
		Commands:  log.Commands,
		Raw:       log.Raw,
		Full:      log.Full,
		Notes:     log.Notes,
		Marks:     log.Marks,
	}
}

// ToLines converts the log back into the lines of a properly formatted log
// file. Lines do not end in newlines.
func (r *RawLog) ToLines() []string {
	lines := slices.Clone(r.Header)
	lines = append(lines, "")

	sections := []struct {
		start    string
		header   []string
		body     []string
		end      string // empty: section has no end line
		trailing []string
	}{
		{videoInfoStart, nil, r.VideoInfo, "", nil},
		{commandsStart, commandsHeader, r.Commands, ShortDivider, postCommandsText},
		{rawStart, rawHeader, r.Raw, LongDivider, nil},
		{fullStart, fullHeader, r.Full, LongDivider, nil},
		{notesStart, notesHeader, r.Notes, LongDivider, nil},
		{marksStart, marksHeader, r.Marks, LongDivider, nil},
	}

	for _, s := range sections {
		lines = append(lines, s.start)
		lines = append(lines, s.header...)
		lines = append(lines, s.body...)
		if s.end != "" {
			lines = append(lines, s.end)
		}
		lines = append(lines, s.trailing...)
		lines = append(lines, "")
	}

	// The trailing blank separator after the last section is not part of
	// the file.
	return lines[:len(lines)-1]
}

// Equal reports whether two raw logs hold identical section content.
func (r *RawLog) Equal(other *RawLog) bool {
	return slices.Equal(r.Header, other.Header) &&
		slices.Equal(r.VideoInfo, other.VideoInfo) &&
		slices.Equal(r.Commands, other.Commands) &&
		slices.Equal(r.Raw, other.Raw) &&
		slices.Equal(r.Full, other.Full) &&
		slices.Equal(r.Notes, other.Notes) &&
		slices.Equal(r.Marks, other.Marks)
}

// String renders the log's serialized form for debugging.
func (r *RawLog) String() string {
	return strings.Join(r.ToLines(), "\n")
}
