// Command wfqsim runs the weighted fair queueing scheduler over a trace of
// packet arrivals read from stdin, writing the transmission schedule to
// stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"flag"

	wfq "github.com/ehrlich-b/wfq-sched"
	"github.com/ehrlich-b/wfq-sched/internal/logging"
)

var version = "dev"

func main() {
	var (
		verbose    = flag.Bool("v", false, "Verbose output (Debug-level trace of scheduling decisions)")
		weight     = flag.Float64("weight", wfq.DefaultWeight, "Default weight for channels that never see an explicit W")
		metricsOut = flag.String("metrics", "", "Path to write a JSON metrics summary after the run")
		printVer   = flag.Bool("version", false, "Print build version and exit")
	)
	flag.Parse()

	if *printVer {
		fmt.Println(version)
		os.Exit(0)
	}

	logConfig := logging.DefaultConfig()
	if *verbose {
		logConfig.Level = logging.LevelDebug
	}
	logger := logging.NewLogger(logConfig)
	logging.SetDefault(logger)

	if *weight <= 0 {
		logger.Error("invalid -weight: must be positive", "weight", *weight)
		os.Exit(1)
	}

	metrics := wfq.NewMetrics()
	observer := wfq.NewMetricsObserver(metrics)

	s := wfq.NewScheduler(wfq.Options{
		DefaultWeight: *weight,
		Logger:        logger,
		Observer:      observer,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	err := s.RunToCompletion(ctx, os.Stdin, os.Stdout)

	if *metricsOut != "" {
		if werr := writeMetrics(*metricsOut, metrics.Snapshot()); werr != nil {
			logger.Error("failed to write metrics", "path", *metricsOut, "error", werr)
		}
	}

	if err != nil {
		logger.Error("scheduler aborted", "error", err)
		os.Exit(1)
	}
}

func writeMetrics(path string, snap wfq.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
