// Report formats a scheduler's completed-task roster for display: a
// fixed-width text table by default, or JSON when requested.

package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/bgp59/cfssim/internal/cfs"
)

// Row is one reported line: pid, nice, arrival, first_run, completion,
// turnaround and burst count, per spec.md §6.
type Row struct {
	Pid        int64         `json:"pid"`
	Nice       int           `json:"nice"`
	Arrival    time.Duration `json:"arrival"`
	FirstRun   time.Duration `json:"first_run"`
	Completion time.Duration `json:"completion"`
	Turnaround time.Duration `json:"turnaround"`
	Bursts     int           `json:"bursts"`
}

// Rows builds the report rows from a scheduler's completed sequence, in
// completion order.
func Rows(completed []*cfs.Task) []Row {
	rows := make([]Row, len(completed))
	for i, t := range completed {
		rows[i] = Row{
			Pid:        t.Pid,
			Nice:       t.Nice,
			Arrival:    t.Metrics.Arrival,
			FirstRun:   t.Metrics.FirstRun,
			Completion: t.Metrics.Completion,
			Turnaround: t.Turnaround(),
			Bursts:     t.Metrics.Bursts,
		}
	}
	return rows
}

// WriteText renders rows as an aligned text table.
func WriteText(w io.Writer, rows []Row) error {
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "PID\tNICE\tARRIVAL\tFIRST_RUN\tCOMPLETION\tTURNAROUND\tBURSTS")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%d\t%s\t%s\t%s\t%s\t%d\n",
			r.Pid, r.Nice, r.Arrival, r.FirstRun, r.Completion, r.Turnaround, r.Bursts,
		)
	}
	return tw.Flush()
}

// WriteJSON renders rows as a JSON array.
func WriteJSON(w io.Writer, rows []Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}
