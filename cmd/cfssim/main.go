// cfssim simulates CFS-style proportional-fair scheduling of a fixed
// workload on a single CPU and reports per-task completion metrics.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/bgp59/cfssim/internal/cfs"
	"github.com/bgp59/cfssim/internal/report"
	"github.com/bgp59/cfssim/internal/workload"
)

var mainLog = cfs.NewCompLogger("main")

var (
	configFileArg = flag.String(
		"config",
		"",
		cfs.FormatFlagUsage(`Config file to load (optional; flags below override it)`),
	)

	timeQuantumArg = flag.Duration(
		"time-quantum",
		0,
		cfs.FormatFlagUsage(`Override the scheduling latency target (e.g. 100ms). Defaults to the workload file's header value.`),
	)

	minGranularityArg = flag.Duration(
		"min-granularity",
		0,
		cfs.FormatFlagUsage(`Override the minimum accounting granularity (e.g. 4ms). Defaults to the workload file's header value.`),
	)

	traceArg = flag.Bool(
		"trace",
		false,
		cfs.FormatFlagUsage(`Emit a Debug-level log line for every dispatch burst`),
	)

	jsonReportArg = flag.Bool(
		"json",
		false,
		cfs.FormatFlagUsage(`Print the report as JSON instead of a text table`),
	)
)

func main() {
	os.Exit(run())
}

func run() int {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: cfssim [flags] <workload-file>")
		flag.PrintDefaults()
		return 1
	}
	workloadFile := flag.Arg(0)

	simCfg := cfs.DefaultSimConfig()
	if *configFileArg != "" {
		loaded, err := cfs.LoadConfig(*configFileArg, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error loading config file %q: %v\n", *configFileArg, err)
			return 1
		}
		simCfg = loaded
	}
	if err := cfs.SetLogger(simCfg.LoggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "error configuring logger: %v\n", err)
		return 1
	}
	if *traceArg {
		simCfg.Trace = true
	}

	f, err := os.Open(workloadFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening workload file %q: %v\n", workloadFile, err)
		return 1
	}
	defer f.Close()

	wl, err := workload.Parse(f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error parsing workload file %q: %v\n", workloadFile, err)
		return 1
	}

	simCfg.TimeQuantum = wl.TimeQuantum
	simCfg.MinGranularity = wl.MinGranularity
	if *timeQuantumArg > 0 {
		simCfg.TimeQuantum = *timeQuantumArg
	}
	if *minGranularityArg > 0 {
		simCfg.MinGranularity = *minGranularityArg
	}

	mainLog.Infof("loaded %d task(s) from %q: time_quantum=%s min_granularity=%s",
		len(wl.Tasks), workloadFile, simCfg.TimeQuantum, simCfg.MinGranularity)

	scheduler := cfs.NewScheduler(simCfg)
	for _, t := range wl.Tasks {
		if err := scheduler.ScheduleTask(t); err != nil {
			fmt.Fprintf(os.Stderr, "error scheduling pid %d: %v\n", t.Pid, err)
			return 1
		}
	}

	scheduler.RunAllTasks()

	rows := report.Rows(scheduler.Completed())
	if *jsonReportArg {
		err = report.WriteJSON(os.Stdout, rows)
	} else {
		err = report.WriteText(os.Stdout, rows)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error writing report: %v\n", err)
		return 1
	}

	return 0
}
