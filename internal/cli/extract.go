package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/ppiankov/profilemap/internal/model"
	"github.com/spf13/cobra"
)

var (
	dumpBag        bool
	extractTimeout time.Duration
)

var bagDumper = spew.ConfigState{
	Indent:                  "  ",
	SortKeys:                true,
	DisablePointerAddresses: true,
	DisableCapacities:       true,
}

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <snapshot.json>",
	Short: "Extract a canonical profile from a captured page snapshot",
	Long: `Extract runs every raw source against a snapshot file and prints the
projected result.

A snapshot is a JSON object with url (required), html, globals,
localStorage, sessionStorage and cookies.

Example:
  profilemap extract flipkart.json
  profilemap extract flipkart.json --out result.json --sink file
  profilemap extract flipkart.json --dump-bag
  profilemap extract flipkart.json --network --timeout 20s`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVarP(&outPath, "out", "o", "", "output JSON path (default: stdout)")
	extractCmd.Flags().StringVar(&sinkKind, "sink", "", "result sink (none, file, mongo, kafka); overrides sink.kind")
	extractCmd.Flags().BoolVar(&enableNetwork, "network", false, "allow credentialed same-origin endpoint requests")
	extractCmd.Flags().BoolVar(&dumpBag, "dump-bag", false, "print the merged raw bag to stderr")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", time.Minute, "overall extraction timeout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	snap, err := model.LoadSnapshot(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := boundedContext(extractTimeout)
	defer cancel()

	rt, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	result := rt.pipeline.Extract(ctx, snap)
	return rt.report(ctx, result)
}

// report prints or writes result, delivers it to the sink and turns a
// failed extraction into a non-zero exit
func (r *app) report(ctx context.Context, result *model.Result) error {
	if dumpBag && result.Raw != nil {
		fmt.Fprintln(os.Stderr, bagDumper.Sdump(result.Raw))
	}

	if err := writeJSON(outPath, result); err != nil {
		return err
	}
	if outPath != "" && verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outPath)
	}

	r.deliver(ctx, result)

	if result.Failed() {
		return fmt.Errorf("%w: %s", errExtractionFailed, result.Error)
	}
	return nil
}

// boundedContext returns a context that expires after d. A non-positive d
// falls back to the default one minute bound.
func boundedContext(d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = time.Minute
	}
	return context.WithTimeout(context.Background(), d)
}
