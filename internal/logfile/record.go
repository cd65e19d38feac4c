package logfile

import (
	"cmp"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hpungsan/scorelog/internal/errors"
)

// centi is the smallest time unit a log line can express.
const centi = 10 * time.Millisecond

var (
	framePattern      = regexp.MustCompile(`^[0-9]+$`)
	minSecPattern     = regexp.MustCompile(`^[0-9]{1,2}:[0-9]{2}\.[0-9]{2}$`)
	hourMinSecPattern = regexp.MustCompile(`^[0-9]{1,2}:[0-9]{2}:[0-9]{2}\.[0-9]{2}$`)
	textPattern       = regexp.MustCompile(`^[0-9A-Za-z ]+$`)

	// columnSep is the single tokenization rule for section lines: elements
	// are separated by runs of two or more whitespace characters.
	columnSep = regexp.MustCompile(`\s{2,}`)

	// markLineShape captures the frame column, time column, and the gap
	// between the time and name columns of a MARKS line.
	markLineShape = regexp.MustCompile(`^(\s*\S+)(\s{2,}\S+)(\s{2,})(?:\S+\s*)+`)
)

// Behavior is one scored behavior occurrence from the FULL LOG section.
type Behavior struct {
	// Frame is the frame number on which the behavior was scored. Frames in
	// a log file are non-negative; reconciliation can produce negative ones.
	Frame int

	// Time is the time elapsed from the start of the clip to the behavior.
	Time time.Duration

	// Description is the behavior name assigned in the command set.
	Description string

	// Subject is always the literal "either".
	Subject string
}

// Mark is a named point-in-time annotation from the MARKS section.
type Mark struct {
	Frame int
	Time  time.Duration
	Name  string
}

// splitColumns splits a section line into its elements. Elements are
// separated by runs of two or more whitespace characters; a single leading
// or trailing space on the outer elements is trimmed.
func splitColumns(line string) []string {
	split := columnSep.Split(line, -1)
	if len(split) > 0 {
		split[0] = strings.TrimLeft(split[0], " \t")
		split[len(split)-1] = strings.TrimRight(split[len(split)-1], " \t")
	}
	elems := make([]string, 0, len(split))
	for _, e := range split {
		if e != "" {
			elems = append(elems, e)
		}
	}
	return elems
}

// ValidFrame reports whether frame represents a valid frame number: one or
// more decimal digits, optionally prefixed with a minus sign.
func ValidFrame(frame string) bool {
	if frame == "" {
		return false
	}
	if frame[0] == '-' {
		frame = frame[1:]
	}
	return framePattern.MatchString(frame)
}

// ValidTime reports whether timeStr represents a valid log time stamp:
// M:SS.ss, MM:SS.ss, M:MM:SS.ss, or MM:MM:SS.ss, optionally prefixed with
// a minus sign.
func ValidTime(timeStr string) bool {
	if timeStr == "" {
		return false
	}
	numColons := strings.Count(timeStr, ":")
	if timeStr[0] == '-' {
		timeStr = timeStr[1:]
	}
	switch numColons {
	case 1:
		return minSecPattern.MatchString(timeStr)
	case 2:
		return hourMinSecPattern.MatchString(timeStr)
	}
	return false
}

// ValidText reports whether s is a valid behavior description or mark name:
// one or more letters, digits, and spaces.
func ValidText(s string) bool {
	return textPattern.MatchString(s)
}

// ParseLogDuration converts a validated time stamp string into a signed
// duration. Two colon groups are minutes:seconds, three are
// hours:minutes:seconds.
func ParseLogDuration(timeStr string) (time.Duration, error) {
	if !ValidTime(timeStr) {
		return 0, errors.NewParse(timeStr, "time", fmt.Sprintf("'%s' is not a valid time", timeStr))
	}

	neg := false
	if timeStr[0] == '-' {
		neg = true
		timeStr = timeStr[1:]
	}

	groups := strings.Split(timeStr, ":")
	secStr, fracStr, _ := strings.Cut(groups[len(groups)-1], ".")

	secs, _ := strconv.Atoi(secStr)
	hundredths, _ := strconv.Atoi(fracStr)

	total := time.Duration(secs)*time.Second + time.Duration(hundredths)*centi
	if len(groups) == 2 {
		mins, _ := strconv.Atoi(groups[0])
		total += time.Duration(mins) * time.Minute
	} else {
		hours, _ := strconv.Atoi(groups[0])
		mins, _ := strconv.Atoi(groups[1])
		total += time.Duration(hours)*time.Hour + time.Duration(mins)*time.Minute
	}

	if neg {
		total = -total
	}
	return total, nil
}

// FormatLogDuration renders a duration in the MARKS time column format with
// two decimal places of second precision, truncating (never rounding) the
// fraction. Durations under a minute render as 0:SS.ff, under an hour as
// M:SS.ff with a single leading zero stripped, and under a day as
// H:MM:SS.ff likewise. A negative duration renders as its absolute value
// prefixed with a minus sign. Durations of a day or more are out of range.
func FormatLogDuration(d time.Duration) (string, error) {
	abs := d
	if abs < 0 {
		abs = -abs
	}

	hundredths := int64(abs / centi)
	frac := hundredths % 100
	totalSecs := hundredths / 100
	secs := totalSecs % 60
	mins := (totalSecs / 60) % 60
	hours := totalSecs / 3600

	var timeStr string
	switch {
	case totalSecs < 60:
		timeStr = fmt.Sprintf("0:%02d.%02d", secs, frac)
	case totalSecs < 60*60:
		timeStr = fmt.Sprintf("%d:%02d.%02d", mins, secs, frac)
	case totalSecs < 24*60*60:
		timeStr = fmt.Sprintf("%d:%02d:%02d.%02d", hours, mins, secs, frac)
	default:
		return "", errors.NewOutOfRange(fmt.Sprintf("the duration '%s' is too long (must be < 1 day)", d))
	}

	if d < 0 {
		timeStr = "-" + timeStr
	}
	return timeStr, nil
}

// ParseBehavior creates a Behavior from a FULL LOG section line. The line
// must hold exactly four elements: frame, time, description, and subject,
// each separated by at least two spaces.
func ParseBehavior(line string) (Behavior, error) {
	elems := splitColumns(line)

	switch {
	case len(elems) != 4:
		return Behavior{}, errors.NewParse(line, "count",
			fmt.Sprintf("num elements: %d != 4", len(elems)))
	case !ValidFrame(elems[0]):
		return Behavior{}, errors.NewParse(line, "frame",
			fmt.Sprintf("'%s' is not a valid frame number", elems[0]))
	case !ValidTime(elems[1]):
		return Behavior{}, errors.NewParse(line, "time",
			fmt.Sprintf("'%s' is not a valid time", elems[1]))
	case !ValidText(elems[2]):
		return Behavior{}, errors.NewParse(line, "description",
			fmt.Sprintf("'%s' is not a valid behavior", elems[2]))
	case elems[3] != "either":
		return Behavior{}, errors.NewParse(line, "subject",
			fmt.Sprintf("'%s' is not a valid subject", elems[3]))
	}

	frame, _ := strconv.Atoi(elems[0])
	dur, err := ParseLogDuration(elems[1])
	if err != nil {
		return Behavior{}, err
	}

	return Behavior{
		Frame:       frame,
		Time:        dur,
		Description: elems[2],
		Subject:     elems[3],
	}, nil
}

// ParseMark creates a Mark from a MARKS section line. The line must hold
// exactly three elements: frame, time, and name.
func ParseMark(line string) (Mark, error) {
	elems := splitColumns(line)

	switch {
	case len(elems) != 3:
		return Mark{}, errors.NewParse(line, "count",
			fmt.Sprintf("num elements: %d != 3", len(elems)))
	case !ValidFrame(elems[0]):
		return Mark{}, errors.NewParse(line, "frame",
			fmt.Sprintf("frame '%s' is not valid", elems[0]))
	case !ValidTime(elems[1]):
		return Mark{}, errors.NewParse(line, "time",
			fmt.Sprintf("time '%s' is not valid", elems[1]))
	case !ValidText(elems[2]):
		return Mark{}, errors.NewParse(line, "name",
			fmt.Sprintf("mark name '%s' is invalid", elems[2]))
	}

	frame, _ := strconv.Atoi(elems[0])
	dur, err := ParseLogDuration(elems[1])
	if err != nil {
		return Mark{}, err
	}

	return Mark{Frame: frame, Time: dur, Name: elems[2]}, nil
}

// ToLine renders the mark as a MARKS section line laid out to match
// template, which should be an existing line from the destination log. The
// frame and time columns are right-justified into the template's column
// widths and the gap before the name column is preserved; the name is
// appended unpadded.
func (m Mark) ToLine(template string) (string, error) {
	match := markLineShape.FindStringSubmatch(template)
	if match == nil {
		return "", errors.NewFormat(template, "template is not a valid MARKS section line")
	}

	frameWidth := len(match[1])
	timeWidth := len(match[2])
	gap := len(match[3])

	timeStr, err := FormatLogDuration(m.Time)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%*d%*s%s%s", frameWidth, m.Frame, timeWidth, timeStr,
		strings.Repeat(" ", gap), m.Name), nil
}

// ToLineTab renders the mark with a fixed four-space delimiter instead of
// a destination log's column widths. The output may not line up with the
// columns of the file it came from, but downstream tools that consume
// MARKS lines split on this delimiter.
func (m Mark) ToLineTab() (string, error) {
	timeStr, err := FormatLogDuration(m.Time)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d    %s    %s", m.Frame, timeStr, m.Name), nil
}

// Compare orders behaviors by frame, then time, then description (byte
// order), then subject.
func (b Behavior) Compare(other Behavior) int {
	if c := cmp.Compare(b.Frame, other.Frame); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Time, other.Time); c != 0 {
		return c
	}
	if c := strings.Compare(b.Description, other.Description); c != 0 {
		return c
	}
	return strings.Compare(b.Subject, other.Subject)
}

// Compare orders marks by frame, then time, then name (byte order).
func (m Mark) Compare(other Mark) int {
	if c := cmp.Compare(m.Frame, other.Frame); c != 0 {
		return c
	}
	if c := cmp.Compare(m.Time, other.Time); c != 0 {
		return c
	}
	return strings.Compare(m.Name, other.Name)
}

// String renders the behavior for debugging.
func (b Behavior) String() string {
	return fmt.Sprintf("Behavior{frame: %d, time: %s, description: %q, subject: %q}",
		b.Frame, b.Time, b.Description, b.Subject)
}

// String renders the mark for debugging.
func (m Mark) String() string {
	return fmt.Sprintf("Mark{frame: %d, time: %s, name: %q}", m.Frame, m.Time, m.Name)
}
