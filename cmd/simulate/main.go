// Package main runs one simulation from command-line flags and prints or exports the result.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/sirupsen/logrus"

	"l2-da-lab/internal/api"
	"l2-da-lab/internal/chaindata"
	"l2-da-lab/internal/config"
	"l2-da-lab/internal/domain"
	"l2-da-lab/internal/logging"
	"l2-da-lab/internal/reporting"
	"l2-da-lab/internal/simulation"
)

func main() {
	// Flag defaults come from the config file, so it is located before flag.Parse.
	configPath := configPathFromArgs(os.Args[1:], os.Getenv("L2DA_CONFIG"))
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	d := cfg.Defaults

	// Parse flags
	_ = flag.String("config", configPath, "Path to YAML config file with default parameters")
	blockSizeMB := flag.Float64("block-size-mb", d.BitcoinBlockSizeMB, "Bitcoin block size (MB)")
	utilization := flag.Float64("utilization", d.BitcoinUtilizationPct, "Bitcoin block utilization (%)")
	mode := flag.String("mode", d.SimulationMode, "Simulation mode (manual, query)")
	manualTPS := flag.Float64("manual-tps", d.ManualTPS, "Manual mode: L2 transactions per second")
	interval := flag.Float64("interval", d.StateUpdateIntervalSec, "Manual mode: state update interval (s)")
	queryTxCount := flag.Float64("query-tx-count", d.QueryTxCount, "Query mode: transactions in the interval")
	queryInterval := flag.Float64("query-interval", d.QueryTimeIntervalSec, "Query mode: time interval (s)")
	queryStart := flag.Int64("query-start", -1, "Query mode: first L2 block of the range (-1 for none)")
	queryEnd := flag.Int64("query-end", -1, "Query mode: last L2 block of the range (-1 for none)")
	blobs := flag.Int("blobs", d.NumberOfBlobs, "Blobs per state update")
	blobSizeKB := flag.Float64("blob-size-kb", d.BlobSizeKB, "Blob size (KB)")
	satsPerVByte := flag.Float64("sats-per-vbyte", d.SatsPerVByte, "Bitcoin fee rate (sat/vB)")
	btcPrice := flag.Float64("btc-price", d.BitcoinPriceUSD, "Bitcoin price (USD)")
	format := flag.String("format", "text", "Output format (text, json, csv, markdown)")
	outPath := flag.String("out", "", "Write output to this file instead of stdout")
	outDir := flag.String("out-dir", "", "Write a timestamped CSV export into this directory")
	verbose := flag.Bool("verbose", false, "Enable debug logging")
	flag.Parse()

	logCfg := cfg.Logging
	logCfg.Format = "text"
	if *verbose {
		logCfg.Level = "debug"
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		os.Exit(1)
	}

	simMode, err := domain.ParseMode(*mode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if (*queryStart < 0) != (*queryEnd < 0) {
		fmt.Fprintln(os.Stderr, "Error: -query-start and -query-end must be set together")
		os.Exit(1)
	}

	manual := domain.ManualWorkload{TPS: *manualTPS, StateUpdateIntervalSec: *interval}
	query := domain.QueryWorkload{TxCount: *queryTxCount, TimeIntervalSec: *queryInterval}
	in := domain.SimulationInput{
		BitcoinBlockSizeMB:    *blockSizeMB,
		BitcoinUtilizationPct: *utilization,
		Workload:              manual,
		NumberOfBlobs:         *blobs,
		BlobSizeKB:            *blobSizeKB,
		SatsPerVByte:          *satsPerVByte,
		BitcoinPriceUSD:       *btcPrice,
	}
	if simMode == domain.ModeQuery {
		in.Workload = query
	}

	session := simulation.NewSession(simulation.SessionOptions{
		Defaults: in,
		Manual:   manual,
		Query:    query,
		Source:   chaindata.NewPlaceholder(logging.WithComponent(logger, "chaindata")),
		Logger:   logging.WithComponent(logger, "simulate"),
		Now:      func() time.Time { return time.Now().UTC() },
	})

	snap := session.Snapshot()
	if *queryStart >= 0 {
		if simMode != domain.ModeQuery {
			fmt.Fprintln(os.Stderr, "Error: a block range requires -mode query")
			os.Exit(1)
		}
		snap, _, err = session.QueryBlockRange(context.Background(), uint64(*queryStart), uint64(*queryEnd))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error querying block range: %v\n", err)
			os.Exit(1)
		}
	}

	if *outDir != "" {
		path, err := writeCSVExport(*outDir, snap)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing CSV export: %v\n", err)
			os.Exit(1)
		}
		logger.WithFields(logrus.Fields{"path": path, "snapshot": snap.ID}).Info("CSV export written")
		return
	}

	if *outPath != "" {
		if err := writeFile(*outPath, *format, snap); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := render(os.Stdout, *format, snap); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering output: %v\n", err)
		os.Exit(1)
	}
}

// writeFile renders snap into path, closing the file before returning.
func writeFile(path, format string, snap simulation.Snapshot) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if err := render(f, format, snap); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// render writes snap to w in the given format.
func render(w io.Writer, format string, snap simulation.Snapshot) error {
	switch strings.ToLower(format) {
	case "text":
		return renderText(w, snap)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(api.NewSnapshotResponse(snap))
	case "csv":
		return reporting.WriteCSV(w, reporting.BuildRows(snap.Input, snap.Metrics))
	case "markdown", "md":
		report := reporting.NewGenerator().WithClock(func() time.Time { return snap.ComputedAt }).Generate(snap)
		_, err := io.WriteString(w, reporting.RenderMarkdown(report))
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}

func renderText(w io.Writer, snap simulation.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, row := range reporting.BuildRows(snap.Input, snap.Metrics) {
		if row.Value == "" {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", row.Parameter, row.Value)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	chart := reporting.BuildChart(snap.Metrics)
	fmt.Fprintf(w, "\n%s (%s)\n", chart.Title, chart.DatasetLabel)
	for _, s := range chart.Series {
		fmt.Fprintf(w, "  %-14s %.2f\n", s.Label, s.Value)
	}
	_, err := fmt.Fprintf(w, "\nSnapshot: %s\n", snap.ID)
	return err
}

// writeCSVExport writes the CSV export of snap into dir under its timestamped name.
func writeCSVExport(dir string, snap simulation.Snapshot) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(dir, reporting.ExportFilename(snap.ComputedAt))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if err := reporting.WriteCSV(f, reporting.BuildRows(snap.Input, snap.Metrics)); err != nil {
		f.Close()
		return "", err
	}
	return path, f.Close()
}

// configPathFromArgs finds the -config value in args, falling back to def.
func configPathFromArgs(args []string, def string) string {
	for i, arg := range args {
		arg = strings.TrimPrefix(arg, "-")
		if v, ok := strings.CutPrefix(arg, "-config="); ok {
			return v
		}
		if v, ok := strings.CutPrefix(arg, "config="); ok {
			return v
		}
		if (arg == "config" || arg == "-config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return def
}
