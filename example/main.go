package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	analyzer "github.com/Freedom18946/audio-analyzer"
)

func main() {
	// ── Graceful shutdown via signal ──────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Progress channel ──────────────────────────────────────────────────
	progressCh := make(chan analyzer.ProgressUpdate, 32)
	go func() {
		for upd := range progressCh {
			fmt.Printf("[%d/%d] stage=%-8s %s\n", upd.Index, upd.Total, upd.Stage, upd.Path)
		}
	}()

	// Environment overrides are plain config values here, parsed by the
	// caller and passed in as options.
	workers := 0
	if v := os.Getenv("AUDIO_ANALYZER_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}
	verbose := os.Getenv("AUDIO_ANALYZER_VERBOSE") == "1"

	// ── Create analyzer ───────────────────────────────────────────────────
	a, err := analyzer.New(analyzer.Config{
		ProgressCh: progressCh,
	},
		analyzer.WithWorkers(workers),
		analyzer.WithDecodeTimeout(5*time.Minute),
		analyzer.WithVerbose(verbose),
	)
	if err != nil {
		// Initialization failures (missing ffmpeg, invalid config) are fatal
		log.Fatalf("failed to create analyzer: %v", err)
	}
	defer func() {
		close(progressCh)
		a.Close()
	}()

	root := "."
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	result, err := a.AnalyzeDirectory(ctx, root)
	if err != nil {
		log.Fatalf("batch failed to start: %v", err)
	}

	// ── Tabular report ────────────────────────────────────────────────────
	fmt.Printf("\n%-5s %-22s %-40s %8s %8s %8s %8s %8s\n",
		"SCORE", "STATUS", "FILE", "LRA", "PEAK", "LOW", "MID", "HIGH")
	for _, rep := range result.Reports {
		m := rep.Metrics
		if rep.Assessment == nil {
			fmt.Printf("%-5s %-22s %-40s\n", "-", "failed", m.Filename())
			continue
		}
		fmt.Printf("%-5d %-22s %-40s %8s %8s %8s %8s %8s  %s\n",
			rep.Assessment.Score,
			rep.Assessment.Status,
			m.Filename(),
			fmtMetric(m.LRA),
			fmtMetric(m.PeakDB),
			fmtMetric(m.RMSDBLowCut),
			fmtMetric(m.RMSDBMidCut),
			fmtMetric(m.RMSDBHighCut),
			rep.Assessment.Remark,
		)
	}

	// ── Summary ───────────────────────────────────────────────────────────
	fmt.Printf("\nattempted=%d succeeded=%d elapsed=%s\n",
		result.Attempted, result.Succeeded, result.Elapsed)
	for kind, count := range result.FailureCounts {
		fmt.Printf("  %s: %d\n", kind, count)
	}
}

func fmtMetric(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f", *v)
}
