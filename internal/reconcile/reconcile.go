// Package reconcile re-expresses a point in time found in one video
// segment's local coordinates in terms of a downstream segment's
// coordinates, by summing the lengths of the intervening segments.
package reconcile

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hpungsan/scorelog/internal/errors"
	"github.com/hpungsan/scorelog/internal/logfile"
)

// Segment pairs one video session's log with the frame and time, in the
// segment's own local coordinates, at which the next segment in the chain
// begins. For the final segment of a chain this is conventionally where the
// transplant destination begins.
type Segment struct {
	Log            *logfile.Log
	NextStartFrame int
	NextStartTime  time.Duration
}

// offset is the running displacement from the matched event to the
// destination's start. Found is false while the scan is still searching.
type offset struct {
	found  bool
	frames int
	time   time.Duration
}

// CopyMark locates the first full-log behavior whose description matches
// pattern in an ordered chain of consecutive, non-overlapping segments,
// computes its coordinates relative to the destination's start, and returns
// a copy of dest with a mark named label appended to its MARKS lines. The
// pattern anchors at the start of the description.
//
// The new mark's frame and time are negative: the matched event lies before
// the destination's own zero point. dest is left unmodified.
func CopyMark(segments []Segment, pattern string, dest *logfile.RawLog, label string) (*logfile.RawLog, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.NewInvalidRequest(fmt.Sprintf("invalid search pattern %q: %v", pattern, err))
	}

	for _, seg := range segments {
		seg.Log.Sort()
	}

	// Two phases over the chain: search, then accumulate. Segments before
	// the match contribute nothing; the matching segment seeds the offset
	// with the distance from the behavior to its own next-segment start;
	// every later segment adds its full next-segment start.
	var acc offset
	for _, seg := range segments {
		if acc.found {
			acc.frames += seg.NextStartFrame
			acc.time += seg.NextStartTime
			continue
		}
		for _, behav := range seg.Log.Full {
			if loc := re.FindStringIndex(behav.Description); loc != nil && loc[0] == 0 {
				acc = offset{
					found:  true,
					frames: seg.NextStartFrame - behav.Frame,
					time:   seg.NextStartTime - behav.Time,
				}
				break
			}
		}
	}

	if !acc.found {
		return nil, errors.NewNotFound(
			fmt.Sprintf("no behavior matching %q in the segment chain", pattern))
	}

	newMark := logfile.Mark{Frame: -acc.frames, Time: -acc.time, Name: label}
	if len(dest.Marks) == 0 {
		return nil, errors.NewFormat("destination log", "the MARKS section is empty, no template line")
	}
	line, err := newMark.ToLine(dest.Marks[0])
	if err != nil {
		return nil, err
	}

	newLog := logfile.CopyRawLog(dest)
	// Clip forces append to allocate instead of writing into the shared
	// backing array.
	newLog.Marks = append(newLog.Marks[:len(newLog.Marks):len(newLog.Marks)], line)
	return newLog, nil
}

// EndingMark returns the mark that records where the segment's video ends.
func EndingMark(marks []logfile.Mark, endMarkName string) (logfile.Mark, error) {
	for _, mark := range marks {
		if mark.Name == endMarkName {
			return mark, nil
		}
	}
	return logfile.Mark{}, errors.NewNotFound(fmt.Sprintf("mark named %q", endMarkName))
}

// EndingBehavior returns the first behavior whose description contains any
// of the given description sections. Used when a segment's boundary is
// defined by the first aggressive or submissive behavior rather than an
// explicit mark.
func EndingBehavior(behaviors []logfile.Behavior, descriptions []string) (logfile.Behavior, error) {
	for _, behav := range behaviors {
		for _, desc := range descriptions {
			if strings.Contains(behav.Description, desc) {
				return behav, nil
			}
		}
	}
	return logfile.Behavior{}, errors.NewNotFound(
		fmt.Sprintf("behavior matching any of %v", descriptions))
}

// CopyLightsOn copies a behavior matching pattern out of a chain of plain
// consecutive, non-overlapping segment logs into scored as a mark named
// label. Next-segment starts are derived rather than supplied: every log
// but the last ends at its end-of-video mark, and the last ends at its
// first aggressive or submissive behavior (the point at which full scoring
// began), identified by the aggrBehavs description list.
func CopyLightsOn(logs []*logfile.Log, scored *logfile.RawLog, aggrBehavs []string,
	pattern, endMarkName, label string) (*logfile.RawLog, error) {
	if len(logs) == 0 {
		return nil, errors.NewInvalidRequest("segment chain is empty")
	}

	// Canonical order first, so "ending" means first or last in timeline
	// order regardless of file order.
	for _, log := range logs {
		log.Sort()
	}

	segments := make([]Segment, 0, len(logs))
	for _, log := range logs[:len(logs)-1] {
		endMark, err := EndingMark(log.Marks, endMarkName)
		if err != nil {
			return nil, err
		}
		segments = append(segments, Segment{
			Log:            log,
			NextStartFrame: endMark.Frame,
			NextStartTime:  endMark.Time,
		})
	}

	last := logs[len(logs)-1]
	endBehav, err := EndingBehavior(last.Full, aggrBehavs)
	if err != nil {
		return nil, err
	}
	segments = append(segments, Segment{
		Log:            last,
		NextStartFrame: endBehav.Frame,
		NextStartTime:  endBehav.Time,
	})

	return CopyMark(segments, pattern, scored, label)
}
