package logfile

import (
	"io"
	"slices"
)

// Log is the semantic view of one log file: the parsed FULL LOG behaviors
// and MARKS entries. Deriving a Log from a RawLog is lossy; the other
// sections are dropped.
type Log struct {
	Full  []Behavior
	Marks []Mark
}

// NewLog returns a log holding the null sentinel records, giving equality
// and copy semantics a well-defined base case.
func NewLog() *Log {
	return &Log{
		Full:  []Behavior{{Frame: 0, Time: 0, Description: "null", Subject: "either"}},
		Marks: []Mark{{Frame: 0, Time: 0, Name: ""}},
	}
}

// CopyLog returns a copy of log with its own record slices.
func CopyLog(log *Log) *Log {
	return &Log{
		Full:  slices.Clone(log.Full),
		Marks: slices.Clone(log.Marks),
	}
}

// LogFromRaw parses every FULL LOG line and every MARKS line of a raw log,
// in original order. The first invalid line aborts the conversion.
func LogFromRaw(raw *RawLog) (*Log, error) {
	log := NewLog()

	log.Full = make([]Behavior, 0, len(raw.Full))
	for _, line := range raw.Full {
		behav, err := ParseBehavior(line)
		if err != nil {
			return nil, err
		}
		log.Full = append(log.Full, behav)
	}

	log.Marks = make([]Mark, 0, len(raw.Marks))
	for _, line := range raw.Marks {
		mark, err := ParseMark(line)
		if err != nil {
			return nil, err
		}
		log.Marks = append(log.Marks, mark)
	}

	return log, nil
}

// ReadLog parses a log stream into its semantic form. The raw form is built
// internally first.
func ReadLog(rs io.ReadSeeker, source string) (*Log, error) {
	raw, err := ReadRawLog(rs, source)
	if err != nil {
		return nil, err
	}
	return LogFromRaw(raw)
}

// Sort puts both record lists into canonical order (stable, using each
// record's total order). Reconciliation requires canonical order to locate
// the marker that ends a segment.
func (l *Log) Sort() {
	slices.SortStableFunc(l.Full, Behavior.Compare)
	slices.SortStableFunc(l.Marks, Mark.Compare)
}

// Extend appends every record of other to the corresponding list.
func (l *Log) Extend(other *Log) {
	l.Full = append(l.Full, other.Full...)
	l.Marks = append(l.Marks, other.Marks...)
}

// Equal reports whether two logs hold identical records in the same order.
func (l *Log) Equal(other *Log) bool {
	return slices.Equal(l.Full, other.Full) && slices.Equal(l.Marks, other.Marks)
}
