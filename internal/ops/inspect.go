package ops

import (
	"path/filepath"

	"github.com/hpungsan/scorelog/internal/logfile"
)

// InspectInput contains parameters for the Inspect operation.
type InspectInput struct {
	Path string // required
}

// RecordSummary is the wire form of one parsed record. Line is set for
// marks only: the four-space-delimited form consumed by downstream tools.
type RecordSummary struct {
	Frame int    `json:"frame"`
	Time  string `json:"time"`
	Text  string `json:"text"` // behavior description or mark name
	Line  string `json:"line,omitempty"`
}

// InspectOutput contains the result of the Inspect operation.
type InspectOutput struct {
	Source        string          `json:"source"`
	HeaderLines   int             `json:"header_lines"`
	VideoLines    int             `json:"video_lines"`
	CommandLines  int             `json:"command_lines"`
	RawLines      int             `json:"raw_lines"`
	FullLines     int             `json:"full_lines"`
	NoteLines     int             `json:"note_lines"`
	MarkLines     int             `json:"mark_lines"`
	Behaviors     int             `json:"behaviors"`
	Marks         int             `json:"marks"`
	FirstBehavior *RecordSummary  `json:"first_behavior,omitempty"`
	LastBehavior  *RecordSummary  `json:"last_behavior,omitempty"`
	MarkList      []RecordSummary `json:"mark_list"`
}

// Inspect parses one log file and reports its shape: per-section line
// counts, record counts, the behaviors bracketing the session, and every
// mark.
func Inspect(input InspectInput) (*InspectOutput, error) {
	raw, err := readRawLogFile(input.Path)
	if err != nil {
		return nil, err
	}
	log, err := logfile.LogFromRaw(raw)
	if err != nil {
		return nil, err
	}
	log.Sort()

	output := &InspectOutput{
		Source:       filepath.Base(input.Path),
		HeaderLines:  len(raw.Header),
		VideoLines:   len(raw.VideoInfo),
		CommandLines: len(raw.Commands),
		RawLines:     len(raw.Raw),
		FullLines:    len(raw.Full),
		NoteLines:    len(raw.Notes),
		MarkLines:    len(raw.Marks),
		Behaviors:    len(log.Full),
		Marks:        len(log.Marks),
		MarkList:     make([]RecordSummary, 0, len(log.Marks)),
	}

	if len(log.Full) > 0 {
		first, err := behaviorSummary(log.Full[0])
		if err != nil {
			return nil, err
		}
		last, err := behaviorSummary(log.Full[len(log.Full)-1])
		if err != nil {
			return nil, err
		}
		output.FirstBehavior = first
		output.LastBehavior = last
	}

	for _, mark := range log.Marks {
		timeStr, err := logfile.FormatLogDuration(mark.Time)
		if err != nil {
			return nil, err
		}
		line, err := mark.ToLineTab()
		if err != nil {
			return nil, err
		}
		output.MarkList = append(output.MarkList, RecordSummary{
			Frame: mark.Frame,
			Time:  timeStr,
			Text:  mark.Name,
			Line:  line,
		})
	}

	return output, nil
}

func behaviorSummary(b logfile.Behavior) (*RecordSummary, error) {
	timeStr, err := logfile.FormatLogDuration(b.Time)
	if err != nil {
		return nil, err
	}
	return &RecordSummary{Frame: b.Frame, Time: timeStr, Text: b.Description}, nil
}
