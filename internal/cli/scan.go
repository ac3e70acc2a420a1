package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	cookieHeader string
	scanTimeout  time.Duration
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Fetch a live page and extract a canonical profile",
	Long: `Scan fetches a page over HTTP and extracts from its HTML. Without a
browser there is no script state beyond what the markup embeds, and no
storage; pass the session cookie header to see the signed-in page.

Example:
  profilemap scan https://www.flipkart.com/account --cookie "SN=...; T=..."
  profilemap scan https://example.com/profile --out profile.json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&cookieHeader, "cookie", "", "Cookie header sent with the page request")
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVarP(&outPath, "out", "o", "", "output JSON path (default: stdout)")
	scanCmd.Flags().StringVar(&sinkKind, "sink", "", "result sink (none, file, mongo, kafka); overrides sink.kind")
	scanCmd.Flags().BoolVar(&enableNetwork, "network", false, "allow credentialed same-origin endpoint requests")
	scanCmd.Flags().BoolVar(&dumpBag, "dump-bag", false, "print the merged raw bag to stderr")
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), scanTimeout)
	defer cancel()

	rt, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", scanTimeout)
		fmt.Fprintf(os.Stderr, "Network stages: %v\n", rt.config.Network.Enabled)
		fmt.Fprintln(os.Stderr)
		fmt.Fprintf(os.Stderr, "⚙️  Fetching HTML...\n")
	}

	snap, err := rt.client.Snapshot(ctx, url, cookieHeader)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	result := rt.pipeline.Extract(ctx, snap)
	if verbose && result.Record != nil {
		fmt.Fprintf(os.Stderr, "✓ Method: %s\n", result.Method)
		fmt.Fprintf(os.Stderr, "✓ Mapped %d fields\n", result.Record.Len())
		fmt.Fprintln(os.Stderr)
	}
	return rt.report(ctx, result)
}
