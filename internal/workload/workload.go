// Workload file parser: turns the scenario text format of spec.md §6 into
// scheduler parameters and a slice of cfs.Task, ready for
// cfs.Scheduler.ScheduleTask.

package workload

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/bgp59/cfssim/internal/cfs"
)

const secondsToNanoseconds = float64(time.Second)

// ParseError names the offending line so the caller can report a
// line-referenced diagnostic, per spec.md §7's input-shape-error taxonomy.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Workload is the parsed content of a workload file: the two scheduler
// parameters on lines 1-2 and the task triples that follow.
type Workload struct {
	TimeQuantum    time.Duration
	MinGranularity time.Duration
	Tasks          []*cfs.Task
}

// Parse reads a workload file from r. Blank lines and lines starting with
// '#' are ignored, as is surrounding whitespace on every line. Seconds are
// scaled to nanoseconds and truncated, matching spec.md §6.
func Parse(r io.Reader) (*Workload, error) {
	scanner := bufio.NewScanner(r)

	var headerVals []time.Duration
	var tasks []*cfs.Task
	pid := int64(1)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		fields := cfs.SplitFields(commentTrim(line))
		if len(fields) == 0 {
			continue
		}

		if len(headerVals) < 2 {
			if len(fields) != 1 {
				return nil, &ParseError{lineNum, line, fmt.Errorf("expected a single value")}
			}
			d, err := parseSecondsField(fields[0])
			if err != nil {
				return nil, &ParseError{lineNum, line, err}
			}
			headerVals = append(headerVals, d)
			continue
		}

		if len(fields) != 3 {
			return nil, &ParseError{lineNum, line, fmt.Errorf("expected 3 fields (arrival nice duration), got %d", len(fields))}
		}
		arrival, err := parseSecondsField(fields[0])
		if err != nil {
			return nil, &ParseError{lineNum, line, fmt.Errorf("arrival: %v", err)}
		}
		nice, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, &ParseError{lineNum, line, fmt.Errorf("nice: %v", err)}
		}
		if nice < cfs.NiceMin || nice > cfs.NiceMax {
			return nil, &ParseError{lineNum, line, fmt.Errorf("nice %d out of range [%d,%d]", nice, cfs.NiceMin, cfs.NiceMax)}
		}
		duration, err := parseSecondsField(fields[2])
		if err != nil {
			return nil, &ParseError{lineNum, line, fmt.Errorf("duration: %v", err)}
		}
		if duration <= 0 {
			return nil, &ParseError{lineNum, line, fmt.Errorf("duration must be positive, got %s", duration)}
		}

		tasks = append(tasks, cfs.NewTask(pid, nice, arrival, duration))
		pid++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if len(headerVals) != 2 {
		return nil, fmt.Errorf("workload file: expected time_quantum and min_granularity header lines, got %d", len(headerVals))
	}

	return &Workload{
		TimeQuantum:    headerVals[0],
		MinGranularity: headerVals[1],
		Tasks:          tasks,
	}, nil
}

// commentTrim returns "" for a comment line, i.e. one whose first character
// after leading spaces and tabs is '#', and otherwise returns the line from
// its first non-blank character on. A '#' after other text on the line is
// not treated as a comment.
func commentTrim(line string) string {
	trimmed := line
	for i, r := range trimmed {
		if r == ' ' || r == '\t' {
			continue
		}
		if r == '#' {
			return ""
		}
		return trimmed[i:]
	}
	return trimmed
}

// parseSecondsField parses a decimal-seconds field and truncates it to
// nanoseconds, as spec.md §6 requires ("multiplied by 1e9 and truncated").
func parseSecondsField(field string) (time.Duration, error) {
	seconds, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, fmt.Errorf("not a decimal number: %v", err)
	}
	return time.Duration(int64(seconds * secondsToNanoseconds)), nil
}
