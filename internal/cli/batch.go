package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ppiankov/profilemap/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Extract many snapshot files in parallel",
	Long: `Batch processes snapshot files concurrently:
- Read snapshot paths from the input file (one per line, # comments allowed)
- Extract each snapshot with a pool of workers
- Write one result file per snapshot and deliver results to the sink

Example:
  profilemap batch snapshots.txt
  profilemap batch snapshots.txt --concurrency 8 --output-dir ./profiles --sink mongo`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./profilemap-results", "output directory for results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().StringVar(&sinkKind, "sink", "", "result sink (none, file, mongo, kafka); overrides sink.kind")
	batchCmd.Flags().BoolVar(&enableNetwork, "network", false, "allow credentialed same-origin endpoint requests")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	rt, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	workers := concurrency
	if workers <= 0 {
		workers = rt.config.Concurrency.Workers
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  profilemap Batch Processing\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Sink:         %s\n", rt.config.Sink.Kind)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	processor := worker.NewBatchProcessor(rt.pipeline, workers)

	fmt.Fprintf(os.Stderr, "⚙️  Processing snapshots with %d workers...\n\n", workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0

	for _, br := range results {
		if br.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", br.Path, br.Error)
			continue
		}

		result := br.Result
		jsonPath := filepath.Join(outputDir, resultName(br.Path))
		if err := writeJSON(jsonPath, result); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", br.Path, err)
			continue
		}
		rt.deliver(ctx, result)

		if result.Failed() {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %s\n", br.Path, result.Error)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (%s, %d fields)\n", result.Source, result.Method, result.Record.Len())
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d snapshots\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// resultName derives the output file name from a snapshot path
func resultName(snapshotPath string) string {
	base := filepath.Base(snapshotPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	base = replacer.Replace(base)

	if len(base) > 100 {
		base = base[:100]
	}
	if base == "" || base == "." {
		base = "snapshot"
	}
	return base + ".result.json"
}
